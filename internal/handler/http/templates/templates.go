// Package templates holds the server-rendered console page.
package templates

import (
	"embed"
	"fmt"
	"html/template"
)

//go:embed *.html
var files embed.FS

// Page is the name of the full console page template.
const Page = "console.html"

// Section names, also used as element IDs (section-<name>) and SSE event names.
const (
	SectionDirectory   = "directory"
	SectionSelfService = "self_service"
)

// New parses the embedded templates with funcs available to all of them.
func New(funcs template.FuncMap) (*template.Template, error) {
	tmpl, err := template.New(Page).Funcs(funcs).ParseFS(files, "*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return tmpl, nil
}
