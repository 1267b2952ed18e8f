package web

import (
	"embed"
	"html/template"
	"io/fs"

	"codereview-frontend/internal/view"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed all:public
var publicFS embed.FS

// Templates parses every page and partial with the shared FuncMap.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(FuncMap()).ParseFS(templateFS, "templates/*.html")
}

// Public returns the static assets with the "public" prefix stripped.
func Public() (fs.FS, error) {
	return fs.Sub(publicFS, "public")
}

// FuncMap exposes form helpers to templates. Each helper accepts a missing
// value so pages without a form can share the layout.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"fieldError": func(errs view.FormErrors, field string) string {
			return errs.Get(field)
		},
		"errorList": func(errs view.FormErrors) []view.FieldError {
			return errs.List()
		},
		"hasErrors": func(errs view.FormErrors) bool {
			return errs.Any()
		},
	}
}
