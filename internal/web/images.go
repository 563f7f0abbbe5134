package web

import (
	"net/http"
	"strings"
)

const imagesPrefix = "/images/"

// ImagesHandler serves uploaded images from dir. Directory listings are not
// served.
func ImagesHandler(dir string) http.Handler {
	files := http.StripPrefix(imagesPrefix, http.FileServer(http.Dir(dir)))
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := strings.TrimPrefix(r.URL.Path, imagesPrefix)
		if name == "" || strings.HasSuffix(name, "/") {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("Cache-Control", "public, max-age=3600")
		files.ServeHTTP(w, r)
	})
}
