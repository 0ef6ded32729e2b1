package ui

import (
	"html/template"
	"net/http"
	"path/filepath"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type Renderer struct {
	templates map[string]*template.Template
}

var printer = message.NewPrinter(language.English)

// FormatCount renders a follower total with thousands separators and no
// decimals, e.g. 1,200,000.
func FormatCount(v float64) string {
	return printer.Sprintf("%.0f", v)
}

// FormatFollowers is FormatCount for an optional value; nil renders empty.
func FormatFollowers(v *float64) string {
	if v == nil {
		return ""
	}
	return FormatCount(*v)
}

var funcs = template.FuncMap{
	"count":     FormatCount,
	"followers": FormatFollowers,
	"percent":   func(v float64) string { return printer.Sprintf("%.0f%%", v) },
	"cell": func(cells map[string]string, column string) string {
		return cells[column]
	},
}

func New(templateDir string) (*Renderer, error) {
	layout := filepath.Join(templateDir, "layout.html")
	dashboard := filepath.Join(templateDir, "dashboard.html")

	dashboardTpl, err := template.New("layout.html").Funcs(funcs).ParseFiles(layout, dashboard)
	if err != nil {
		return nil, err
	}
	return &Renderer{templates: map[string]*template.Template{
		"dashboard": dashboardTpl,
	}}, nil
}

func (r *Renderer) Render(w http.ResponseWriter, name string, data any) error {
	tpl, ok := r.templates[name]
	if !ok {
		http.Error(w, "template not found", http.StatusInternalServerError)
		return nil
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	return tpl.ExecuteTemplate(w, "layout", data)
}
