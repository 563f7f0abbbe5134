package web

import (
	"net/http"

	"github.com/erazemk/crafts/internal/store"
	webembed "github.com/erazemk/crafts/web"
)

// NewRouter creates the web router: the index page, its static assets and
// the uploaded images in uploadDir.
func NewRouter(crafts store.Crafts, uploadDir string) (http.Handler, error) {
	templates, err := LoadTemplates()
	if err != nil {
		return nil, err
	}

	s := &Server{
		Crafts:    crafts,
		Templates: templates,
	}

	mux := http.NewServeMux()

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(webembed.StaticFS()))))
	mux.Handle("GET "+imagesPrefix, ImagesHandler(uploadDir))
	mux.HandleFunc("GET /{$}", s.Index)

	return mux, nil
}
