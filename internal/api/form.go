package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"mime"
	"mime/multipart"
	"net/http"

	"github.com/erazemk/crafts/internal/model"
	"github.com/erazemk/crafts/internal/upload"
)

// craftForm is a create or update request body. Nil text fields were not
// sent by the client.
type craftForm struct {
	name        *string
	description *string
	image       *string
	imgSrc      *string
	supplies    []string
	file        *multipart.FileHeader
}

type craftJSON struct {
	Name        *string         `json:"name"`
	Description *string         `json:"description"`
	Image       *string         `json:"image"`
	ImgSrc      *string         `json:"imgsrc"`
	Supplies    json.RawMessage `json:"supplies"`
}

// parseCraftForm reads a multipart, urlencoded or JSON body of at most
// maxBytes bytes.
func parseCraftForm(w http.ResponseWriter, r *http.Request, maxBytes int64) (*craftForm, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		return parseCraftJSON(r)
	}

	if err := r.ParseMultipartForm(maxBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		return nil, err
	}

	form := &craftForm{
		name:        formValue(r, "name"),
		description: formValue(r, "description"),
		image:       formValue(r, "image"),
		imgSrc:      formValue(r, "imgsrc"),
	}
	if s := formValue(r, "supplies"); s != nil {
		form.supplies = model.ParseSupplies(*s)
	} else {
		form.supplies = []string{}
	}
	if r.MultipartForm != nil {
		if files := r.MultipartForm.File["image"]; len(files) > 0 {
			form.file = files[0]
		}
	}
	return form, nil
}

func parseCraftJSON(r *http.Request) (*craftForm, error) {
	var body craftJSON
	if err := decodeJSON(r, &body); err != nil {
		return nil, err
	}

	supplies, err := decodeSupplies(body.Supplies)
	if err != nil {
		return nil, err
	}
	return &craftForm{
		name:        body.Name,
		description: body.Description,
		image:       body.Image,
		imgSrc:      body.ImgSrc,
		supplies:    supplies,
	}, nil
}

// decodeSupplies accepts either a comma-separated string or an array of
// strings.
func decodeSupplies(raw json.RawMessage) ([]string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return []string{}, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return model.ParseSupplies(s), nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("decoding supplies: %w", err)
	}
	if list == nil {
		list = []string{}
	}
	return list, nil
}

// formValue returns the first body value for key, or nil when the key was
// not sent. Query parameters are ignored.
func formValue(r *http.Request, key string) *string {
	values, ok := r.PostForm[key]
	if !ok || len(values) == 0 {
		return nil
	}
	v := values[0]
	return &v
}

// input builds the candidate craft with the given image reference.
func (f *craftForm) input(image *string) model.CraftInput {
	return model.CraftInput{
		Name:        f.name,
		Image:       image,
		Description: f.description,
		Supplies:    f.supplies,
	}
}

// imageReference picks the image to keep when no file was uploaded: imgsrc
// first, then an explicit image value. Both are reduced to a bare filename.
func (f *craftForm) imageReference() *string {
	for _, v := range []*string{f.imgSrc, f.image} {
		if v != nil && *v != "" {
			name := upload.ExtractFilename(*v)
			return &name
		}
	}
	return nil
}
