// Package web bundles the application shell templates and the static assets
// (manifest, dataset, icons, scripts) into the binary.
package web

import (
	"embed"
	"html/template"
	"io/fs"
)

//go:embed public templates
var bundle embed.FS

// Public returns the static asset tree rooted at public/.
func Public() fs.FS {
	sub, err := fs.Sub(bundle, "public")
	if err != nil {
		panic(err)
	}
	return sub
}

// Templates parses the shell templates. funcs are made available to every template.
func Templates(funcs template.FuncMap) (*template.Template, error) {
	return template.New("").Funcs(funcs).ParseFS(bundle, "templates/*.html")
}
