// Package view holds the console's HTML templates.
package view

import (
	"embed"
	"html/template"
	"strings"
)

//go:embed templates/*.html
var files embed.FS

// Templates parses every embedded page template.
func Templates() (*template.Template, error) {
	return template.New("").Funcs(template.FuncMap{
		"upper": strings.ToUpper,
		"fieldError": func(errs map[string]string, field string) string {
			return errs[field]
		},
	}).ParseFS(files, "templates/*.html")
}

