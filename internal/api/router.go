package api

import (
	"net/http"

	"github.com/erazemk/crafts/internal/store"
	"github.com/erazemk/crafts/internal/upload"
)

// NewRouter creates the API router with all craft endpoints registered.
// Request bodies are capped at maxBytes.
func NewRouter(crafts store.Crafts, uploads *upload.Store, maxBytes int64) http.Handler {
	mux := http.NewServeMux()

	craftsHandler := &CraftsHandler{Store: crafts, Uploads: uploads, MaxBytes: maxBytes}

	mux.Handle("GET /api/crafts", MetricsMiddleware("crafts_list", craftsHandler.List))
	mux.Handle("POST /api/crafts", MetricsMiddleware("crafts_create", craftsHandler.Create))
	mux.Handle("GET /api/crafts/{id}", MetricsMiddleware("crafts_get", craftsHandler.Get))
	mux.Handle("PUT /api/crafts/{id}", MetricsMiddleware("crafts_update", craftsHandler.Update))
	mux.Handle("DELETE /api/crafts/{id}", MetricsMiddleware("crafts_delete", craftsHandler.Delete))

	return mux
}
