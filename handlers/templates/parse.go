package templates

import (
	"embed"
	"html/template"

	"github.com/icco/depressiondash/lib/metrics"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FS holds the page templates and the login notice.
//
//go:embed *.html notice.md
var FS embed.FS

// ParseTemplates parses the named files from FS with the page helpers
// installed. Pages render through the "base" template.
func ParseTemplates(files ...string) (*template.Template, error) {
	funcMap := template.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"round1": metrics.Round1,
		"comma":  Comma,
	}

	return template.New("").Funcs(funcMap).ParseFS(FS, files...)
}

// Comma formats n with English thousands separators.
func Comma(n int) string {
	return message.NewPrinter(language.English).Sprintf("%d", n)
}
