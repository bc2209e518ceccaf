// Package web embeds the single-page session dashboard served by
// `lifeline serve`.
package web

import (
	"embed"
	"io/fs"
)

//go:embed all:dist
var dashboard embed.FS

// DistFS is the dashboard rooted at dist/, so index.html is at the top.
var DistFS = mustSub(dashboard, "dist")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}
