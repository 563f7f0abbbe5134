package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/erazemk/crafts/internal/model"
	"github.com/erazemk/crafts/internal/store"
	"github.com/erazemk/crafts/internal/upload"
)

// CraftsHandler handles the craft CRUD endpoints.
type CraftsHandler struct {
	Store    store.Crafts
	Uploads  *upload.Store
	MaxBytes int64
}

type deleteResponse struct {
	Message      string       `json:"message"`
	DeletedCraft *model.Craft `json:"deletedCraft"`
}

// List handles GET /api/crafts.
func (h *CraftsHandler) List(w http.ResponseWriter, r *http.Request) {
	crafts, err := h.Store.List(r.Context())
	if err != nil {
		slog.Error("failed to list crafts", "error", err)
		textResponse(w, http.StatusInternalServerError, "DB Error retrieving crafts")
		return
	}

	views := make([]model.CraftView, 0, len(crafts))
	for _, c := range crafts {
		views = append(views, c.View())
	}
	jsonResponse(w, http.StatusOK, views)
}

// Get handles GET /api/crafts/{id}.
func (h *CraftsHandler) Get(w http.ResponseWriter, r *http.Request) {
	craft, err := h.Store.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		slog.Error("failed to get craft", "id", r.PathValue("id"), "error", err)
		textResponse(w, http.StatusInternalServerError, "DB Error retrieving craft")
		return
	}
	if craft == nil {
		jsonMessage(w, http.StatusNotFound, "Craft not found")
		return
	}
	jsonResponse(w, http.StatusOK, craft)
}

// Create handles POST /api/crafts.
func (h *CraftsHandler) Create(w http.ResponseWriter, r *http.Request) {
	form, err := parseCraftForm(w, r, h.MaxBytes)
	if err != nil {
		badBody(w, err)
		return
	}

	if form.file == nil {
		textResponse(w, http.StatusBadRequest, "Image file is required for new crafts")
		return
	}

	image, ok := h.saveFile(w, form)
	if !ok {
		return
	}

	in := form.input(&image)
	if err := in.Validate(); err != nil {
		h.discard(image)
		textResponse(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	craft, err := h.Store.Create(r.Context(), in.Craft())
	if err != nil {
		h.discard(image)
		slog.Error("failed to create craft", "error", err)
		textResponse(w, http.StatusInternalServerError, "DB Error creating craft")
		return
	}

	slog.Info("craft created", "id", craft.ID.Hex(), "name", craft.Name, "image", craft.Image)
	jsonResponse(w, http.StatusCreated, craft)
}

// Update handles PUT /api/crafts/{id}.
func (h *CraftsHandler) Update(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	form, err := parseCraftForm(w, r, h.MaxBytes)
	if err != nil {
		badBody(w, err)
		return
	}

	// uploaded is set only when this request stored a new file.
	var uploaded string
	image := form.imageReference()
	if form.file != nil {
		name, ok := h.saveFile(w, form)
		if !ok {
			return
		}
		uploaded = name
		image = &name
	} else if image == nil {
		existing, err := h.Store.Get(r.Context(), id)
		if err != nil {
			slog.Error("failed to get craft", "id", id, "error", err)
			textResponse(w, http.StatusInternalServerError, "DB Error updating craft")
			return
		}
		if existing == nil {
			textResponse(w, http.StatusNotFound, "Craft not found")
			return
		}
		image = &existing.Image
	}

	in := form.input(image)
	if err := in.Validate(); err != nil {
		h.discard(uploaded)
		textResponse(w, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	craft, err := h.Store.Update(r.Context(), id, in.Craft())
	if err != nil {
		h.discard(uploaded)
		slog.Error("failed to update craft", "id", id, "error", err)
		textResponse(w, http.StatusInternalServerError, "DB Error updating craft")
		return
	}
	if craft == nil {
		h.discard(uploaded)
		textResponse(w, http.StatusNotFound, "Craft not found")
		return
	}

	slog.Info("craft updated", "id", id)
	jsonResponse(w, http.StatusOK, craft)
}

// Delete handles DELETE /api/crafts/{id}.
func (h *CraftsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	craft, err := h.Store.Delete(r.Context(), id)
	if err != nil {
		slog.Error("failed to delete craft", "id", id, "error", err)
		jsonMessage(w, http.StatusInternalServerError, "Error deleting craft")
		return
	}
	if craft == nil {
		jsonMessage(w, http.StatusNotFound, "Craft not found for deletion")
		return
	}

	slog.Info("craft deleted", "id", id)
	jsonResponse(w, http.StatusOK, deleteResponse{
		Message:      "Craft deleted successfully",
		DeletedCraft: craft,
	})
}

// saveFile stores the uploaded file and writes the error response itself
// when that fails.
func (h *CraftsHandler) saveFile(w http.ResponseWriter, form *craftForm) (string, bool) {
	name, err := h.Uploads.Save(form.file)
	if errors.Is(err, upload.ErrNotImage) {
		textResponse(w, http.StatusBadRequest, "Image file must be an image")
		return "", false
	}
	if err != nil {
		slog.Error("failed to save upload", "filename", form.file.Filename, "error", err)
		textResponse(w, http.StatusInternalServerError, "Error saving image")
		return "", false
	}
	return name, true
}

// discard removes a file stored by a request that did not persist a craft.
func (h *CraftsHandler) discard(name string) {
	if name == "" {
		return
	}
	if err := h.Uploads.Discard(name); err != nil {
		slog.Warn("failed to remove orphaned upload", "name", name, "error", err)
	}
}

func badBody(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		textResponse(w, http.StatusBadRequest, "Request body too large")
		return
	}
	textResponse(w, http.StatusBadRequest, "Invalid request body")
}
