package handlers

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/icco/depressiondash/lib/auth"
	"github.com/icco/depressiondash/lib/dataset"
	"github.com/icco/depressiondash/lib/health"
)

// Deps are the shared objects the routes need.
type Deps struct {
	Cache    *dataset.Cache
	Store    *auth.Store
	Gate     *auth.Gate
	LogoPath string
	Logger   *slog.Logger
}

// NewRouter wires every dashboard route. Everything except /health, /login
// and /logo requires an authenticated session.
func NewRouter(d Deps) *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	r.Get("/health", health.Check(d.Cache))
	r.Get("/logo", HandleLogo(d.LogoPath))

	r.Group(func(r chi.Router) {
		r.Use(auth.Middleware(d.Store, d.Logger))

		r.Get("/login", HandleLoginPage(d.LogoPath))
		r.Post("/login", HandleLogin(d.Gate, d.Store, d.LogoPath, d.Logger))
		r.Post("/logout", HandleLogout(d.Store))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireAuth("/login"))

			r.Get("/", HandleDashboard(d.Cache, d.LogoPath, d.Logger))
			r.Get("/charts/{name}.png", HandleChart(d.Cache, d.Logger))
			r.Get("/api/metrics", HandleMetrics(d.Cache, d.Logger))
			r.Post("/api/metrics", HandleMetrics(d.Cache, d.Logger))
			r.Post("/reload", HandleReload(d.Cache))
		})
	})

	return r
}
