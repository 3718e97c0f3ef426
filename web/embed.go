// Package web embeds the built frontend (dist/) and serves it as a
// single-page application. dist/ ships with a minimal static page; a full
// frontend build can replace it before compiling the server.
package web

import (
	"embed"
	"io/fs"
	"net/http"
	"strings"
)

//go:embed all:dist
var assets embed.FS

// SPAHandler serves static files from the embedded dist/ directory and falls
// back to index.html for any path without a matching file, so client-side
// routes resolve after a full page load.
func SPAHandler() http.Handler {
	dist, err := fs.Sub(assets, "dist")
	if err != nil {
		panic("web: embedded dist missing: " + err.Error())
	}

	fileServer := http.FileServer(http.FS(dist))

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, "/")
		if name == "" {
			name = "index.html"
		}

		if _, err := fs.Stat(dist, name); err != nil {
			// No matching asset. Rewrite to the app shell.
			r.URL.Path = "/"
		}
		fileServer.ServeHTTP(w, r)
	})
}
