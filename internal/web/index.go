package web

import (
	"log/slog"
	"net/http"

	"github.com/erazemk/crafts/internal/model"
)

// Index handles GET /.
func (s *Server) Index(w http.ResponseWriter, r *http.Request) {
	data := &struct {
		PageData
		Crafts []model.CraftView
	}{
		PageData: PageData{Title: "Crafts"},
		Crafts:   []model.CraftView{},
	}

	crafts, err := s.Crafts.List(r.Context())
	if err != nil {
		slog.Error("failed to list crafts for index", "error", err)
		data.Error = "Crafts could not be loaded."
	}
	for _, c := range crafts {
		data.Crafts = append(data.Crafts, c.View())
	}

	s.Templates.Render(w, "index.html", data)
}
