package main

import (
	"html/template"
	"path/filepath"
)

// LoadTemplates parses the page templates matched by glob
func LoadTemplates(glob string) *template.Template {
	tmpl := template.New("")
	files, err := filepath.Glob(glob)
	if err != nil {
		panic(err)
	}
	for _, f := range files {
		tmpl = template.Must(tmpl.ParseFiles(f))
	}
	return tmpl
}
