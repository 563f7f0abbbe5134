// Package web embeds the browser assets and page templates.
package web

import (
	"embed"
	"io/fs"
)

//go:embed static templates
var content embed.FS

// StaticFS returns the scripts and stylesheets served under /static/.
func StaticFS() fs.FS { return sub("static") }

// TemplatesFS returns the HTML page templates.
func TemplatesFS() fs.FS { return sub("templates") }

// sub panics only for an invalid path; both callers pass constants.
func sub(dir string) fs.FS {
	f, err := fs.Sub(content, dir)
	if err != nil {
		panic(err)
	}
	return f
}
