package http

import (
	"net/http"

	"github.com/opencatalog/catalog/web"
)

// FaviconHandler serves the embedded favicon.
func FaviconHandler() http.HandlerFunc {
	icon, err := web.FS.ReadFile("static/favicon.ico")

	return func(w http.ResponseWriter, r *http.Request) {
		if err != nil {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "image/x-icon")
		w.Header().Set("Cache-Control", "public, max-age=86400")
		_, _ = w.Write(icon)
	}
}
