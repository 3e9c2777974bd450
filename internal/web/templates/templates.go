// Package templates embeds the HTML pages and stylesheet of the web client.
package templates

import (
	"embed"
	"html/template"
	"io/fs"
	"time"
)

//go:embed *.html
var pages embed.FS

//go:embed static
var static embed.FS

const createdAtLayout = "2006-01-02 15:04:05"

// Parse returns the page templates with their helper functions.
func Parse() (*template.Template, error) {
	return template.New("pages").Funcs(Funcs()).ParseFS(pages, "*.html")
}

// Static returns the stylesheet directory.
func Static() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

func Funcs() template.FuncMap {
	return template.FuncMap{
		"navClass": func(active, path string) string {
			if active == path {
				return "nav-link active"
			}
			return "nav-link"
		},
		"createdAt": func(t time.Time, raw string) string {
			if t.IsZero() {
				return raw
			}
			return t.Local().Format(createdAtLayout)
		},
	}
}
