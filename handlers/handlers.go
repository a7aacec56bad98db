package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"
	"github.com/icco/depressiondash/handlers/templates"
	"github.com/icco/depressiondash/lib/auth"
	"github.com/icco/depressiondash/lib/charts"
	"github.com/icco/depressiondash/lib/dataset"
	"github.com/icco/depressiondash/lib/filter"
	"github.com/icco/depressiondash/lib/metrics"
	"github.com/icco/depressiondash/lib/validation"
	"github.com/icco/depressiondash/models"
)

const loadFailedMessage = "The survey dataset could not be loaded. Please try again later."

type errorData struct {
	Message string
}

func renderError(w http.ResponseWriter, message string, status int) {
	tmpl, err := templates.ParseTemplates("base.html", "error.html")
	if err != nil {
		slog.Error("Failed to parse error template", slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", errorData{Message: message}); err != nil {
		slog.Error("Failed to execute error template", slog.Any("error", err))
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write error page", slog.Any("error", err))
	}
}

// renderPage executes page inside the base layout. Output is buffered so a
// template failure can still become an error page.
func renderPage(w http.ResponseWriter, page string, data any, status int) {
	tmpl, err := templates.ParseTemplates("base.html", page)
	if err != nil {
		slog.Error("Failed to parse template", slog.String("page", page), slog.Any("error", err))
		renderError(w, "Something went wrong while loading the page.", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		slog.Error("Failed to execute template", slog.String("page", page), slog.Any("error", err))
		renderError(w, "Something went wrong while displaying the page.", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write page", slog.String("page", page), slog.Any("error", err))
	}
}

type loginData struct {
	Notice        template.HTML
	Error         string
	LogoAvailable bool
}

func notice() template.HTML {
	md, err := templates.FS.ReadFile("notice.md")
	if err != nil {
		slog.Error("Failed to read login notice", slog.Any("error", err))
		return ""
	}
	return template.HTML(markdown.ToHTML(md, nil, nil))
}

// HandleLoginPage shows the password form, or sends logged-in users to the
// dashboard.
func HandleLoginPage(logoPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := auth.FromContext(r.Context()); ok && sess.Authenticated {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		renderPage(w, "login.html", loginData{Notice: notice(), LogoAvailable: logoExists(logoPath)}, http.StatusOK)
	}
}

// HandleLogin checks the submitted password. Only a successful login creates
// a session, and any earlier one is replaced.
func HandleLogin(gate *auth.Gate, store *auth.Store, logoPath string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			renderError(w, "The login form could not be read.", http.StatusBadRequest)
			return
		}

		if !gate.Check(r.PostFormValue("password")) {
			logger.Warn("Rejected login attempt", slog.String("remote", r.RemoteAddr))
			renderPage(w, "login.html", loginData{
				Notice:        notice(),
				Error:         "Invalid credentials. Please verify your password and try again.",
				LogoAvailable: logoExists(logoPath),
			}, http.StatusUnauthorized)
			return
		}

		if old, ok := auth.FromContext(r.Context()); ok && old.ID != "" {
			store.Delete(old.ID)
		}
		sess := store.Login()
		auth.SetCookie(w, sess)
		logger.Info("Login succeeded", slog.String("session", sess.ID))
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// HandleLogout discards the session.
func HandleLogout(store *auth.Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if sess, ok := auth.FromContext(r.Context()); ok {
			store.Delete(sess.ID)
		}
		auth.ClearCookie(w)
		http.Redirect(w, r, "/login", http.StatusSeeOther)
	}
}

type option struct {
	Name     string
	Checked  bool
	Selected bool
}

type depressionOption struct {
	Value   string
	Label   string
	Checked bool
}

type panel struct {
	Title    string
	ChartURL string
	Empty    bool
	Excluded int
}

type dashboardData struct {
	Metrics       metrics.MetricSet
	Panels        []panel
	Genders       []option
	AgeMin        int
	AgeMax        int
	AgeLow        int
	AgeHigh       int
	Depression    []depressionOption
	Cities        []option
	LogoAvailable bool
}

// HandleDashboard renders the metrics and chart panels for the selection in
// the query string.
func HandleDashboard(cache *dataset.Cache, logoPath string, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := cache.Get(r.Context())
		if err != nil {
			logger.Error("Failed to load dataset", slog.Any("error", err))
			renderError(w, loadFailedMessage, http.StatusServiceUnavailable)
			return
		}

		sel, err := filter.ParseQuery(r.URL.Query(), ds.Defaults())
		if err != nil {
			renderError(w, err.Error(), http.StatusBadRequest)
			return
		}

		d := metrics.Build(filter.Apply(ds.Records, sel))
		query := filter.Encode(sel).Encode()

		data := dashboardData{
			Metrics:       d.Metrics,
			LogoAvailable: logoExists(logoPath),
		}
		for _, t := range d.Tables {
			data.Panels = append(data.Panels, panel{
				Title:    t.Title,
				ChartURL: fmt.Sprintf("/charts/%s.png?%s", t.Name, query),
				Empty:    t.Empty(),
				Excluded: t.Excluded,
			})
		}
		for _, g := range ds.Genders() {
			data.Genders = append(data.Genders, option{Name: g, Checked: sel.HasGender(g)})
		}
		data.AgeMin, data.AgeMax = sel.AgeRange()
		data.AgeLow, data.AgeHigh = ds.AgeBounds()
		for _, f := range models.DepressionFilters {
			data.Depression = append(data.Depression, depressionOption{
				Value:   f.String(),
				Label:   f.Label(),
				Checked: f == sel.Depression(),
			})
		}
		for _, c := range append([]string{models.AllCities}, models.KnownCities...) {
			data.Cities = append(data.Cities, option{Name: c, Selected: c == sel.City()})
		}

		renderPage(w, "dashboard.html", data, http.StatusOK)
	}
}

// HandleChart renders one breakdown panel as a PNG for the selection in the
// query string.
func HandleChart(cache *dataset.Cache, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		ds, err := cache.Get(r.Context())
		if err != nil {
			logger.Error("Failed to load dataset", slog.Any("error", err))
			http.Error(w, loadFailedMessage, http.StatusServiceUnavailable)
			return
		}

		sel, err := filter.ParseQuery(r.URL.Query(), ds.Defaults())
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		table, ok := metrics.Build(filter.Apply(ds.Records, sel)).Table(name)
		if !ok {
			http.Error(w, fmt.Sprintf("unknown chart %q", name), http.StatusNotFound)
			return
		}

		var buf bytes.Buffer
		if err := charts.Render(&buf, table); err != nil {
			if errors.Is(err, charts.ErrEmptyTable) {
				http.Error(w, "No data for this selection", http.StatusNotFound)
				return
			}
			logger.Error("Failed to render chart", slog.String("chart", name), slog.Any("error", err))
			http.Error(w, "Failed to render chart", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "private, max-age=60")
		if _, err := buf.WriteTo(w); err != nil {
			logger.Error("Failed to write chart", slog.String("chart", name), slog.Any("error", err))
		}
	}
}

type metricsResponse struct {
	Selection filter.Request    `json:"selection"`
	Metrics   metrics.MetricSet `json:"metrics"`
	Tables    []metrics.Table   `json:"tables"`
}

// HandleMetrics returns the metrics and tables as JSON. GET reads the
// dashboard query parameters; POST takes a JSON selection body.
func HandleMetrics(cache *dataset.Cache, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ds, err := cache.Get(r.Context())
		if err != nil {
			logger.Error("Failed to load dataset", slog.Any("error", err))
			validation.WriteError(w, errors.New(loadFailedMessage), http.StatusServiceUnavailable)
			return
		}

		var sel models.FilterSelection
		if r.Method == http.MethodPost {
			body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
			if err != nil {
				validation.WriteError(w, fmt.Errorf("failed to read body: %w", err), http.StatusBadRequest)
				return
			}
			req, err := validation.DecodeSelectionRequest[filter.Request](body)
			if err != nil {
				validation.WriteError(w, err, http.StatusBadRequest)
				return
			}
			sel, err = req.Selection(ds.Defaults())
			if err != nil {
				validation.WriteError(w, err, http.StatusBadRequest)
				return
			}
		} else {
			sel, err = filter.ParseQuery(r.URL.Query(), ds.Defaults())
			if err != nil {
				validation.WriteError(w, err, http.StatusBadRequest)
				return
			}
		}

		d := metrics.Build(filter.Apply(ds.Records, sel))
		validation.WriteJSON(w, metricsResponse{
			Selection: filter.RequestFor(sel),
			Metrics:   d.Metrics,
			Tables:    d.Tables,
		}, http.StatusOK)
	}
}

// HandleReload drops the cached dataset so the next page view reads the
// source again.
func HandleReload(cache *dataset.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cache.Invalidate()
		http.Redirect(w, r, "/", http.StatusSeeOther)
	}
}

// HandleLogo serves the configured logo image.
func HandleLogo(logoPath string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !logoExists(logoPath) {
			http.Error(w, "Logo not found", http.StatusNotFound)
			return
		}
		http.ServeFile(w, r, logoPath)
	}
}

func logoExists(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
