// Package upload stores uploaded craft images on disk under generated names.
package upload

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/erazemk/crafts/internal/imaging"
	"github.com/erazemk/crafts/internal/metrics"
)

// maxAttempts bounds the search for a free file name.
const maxAttempts = 100

var (
	// ErrNotImage is returned when image checks are enabled and the upload is not one.
	ErrNotImage = errors.New("file is not an image")
	// ErrNameExhausted is returned when no free file name was found.
	ErrNameExhausted = errors.New("no free file name")
	// ErrUnknownNaming is returned by New for an unsupported naming strategy.
	ErrUnknownNaming = errors.New("unknown naming strategy")
)

// Store writes uploads into a single directory.
type Store struct {
	dir          string
	naming       string
	namer        Namer
	maxDimension int
	requireImage bool
}

// Option configures a Store.
type Option func(*Store)

// WithNaming selects the naming strategy: timestamp, uuid or hash.
func WithNaming(naming string) Option {
	return func(s *Store) { s.naming = naming }
}

// WithNamer overrides the namer built from the naming strategy.
func WithNamer(n Namer) Option {
	return func(s *Store) { s.namer = n }
}

// WithMaxDimension downscales JPEG and PNG uploads larger than maxDim pixels.
func WithMaxDimension(maxDim int) Option {
	return func(s *Store) { s.maxDimension = maxDim }
}

// WithRequireImage rejects uploads whose content is not an image.
func WithRequireImage(require bool) Option {
	return func(s *Store) { s.requireImage = require }
}

// New creates dir if needed and returns a Store writing into it.
func New(dir string, opts ...Option) (*Store, error) {
	s := &Store{dir: dir, naming: NamingTimestamp}
	for _, opt := range opts {
		opt(s)
	}

	if s.namer == nil {
		namer, err := NewNamer(s.naming)
		if err != nil {
			return nil, err
		}
		s.namer = namer
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return s, nil
}

// Dir returns the directory uploads are written to.
func (s *Store) Dir() string { return s.dir }

// Save stores a multipart file and returns its generated name.
func (s *Store) Save(fh *multipart.FileHeader) (string, error) {
	f, err := fh.Open()
	if err != nil {
		return "", fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("reading upload: %w", err)
	}
	return s.Write(fh.Filename, data)
}

// Write stores data under a generated name that keeps the extension of
// original and returns that name.
func (s *Store) Write(original string, data []byte) (name string, err error) {
	outcome := "stored"
	defer func() {
		if errors.Is(err, ErrNotImage) {
			outcome = "rejected"
		} else if err != nil {
			outcome = "failed"
		}
		metrics.RecordUpload(s.naming, outcome, len(data))
	}()

	if s.requireImage && !imaging.IsImage(data) {
		return "", ErrNotImage
	}

	data, _, err = imaging.Fit(data, s.maxDimension)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrNotImage, err)
	}

	ext := filepath.Ext(original)
	for attempt := 0; attempt < maxAttempts; attempt++ {
		name = s.namer.Name(ext, data, attempt)
		path := filepath.Join(s.dir, name)

		f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
		if errors.Is(err, fs.ErrExist) {
			if s.naming == NamingHash {
				// Same name means same content.
				return name, nil
			}
			continue
		}
		if err != nil {
			return "", fmt.Errorf("creating %s: %w", name, err)
		}

		if _, err := f.Write(data); err != nil {
			f.Close()
			os.Remove(path)
			return "", fmt.Errorf("writing %s: %w", name, err)
		}
		if err := f.Close(); err != nil {
			os.Remove(path)
			return "", fmt.Errorf("closing %s: %w", name, err)
		}
		return name, nil
	}
	return "", ErrNameExhausted
}

// Remove deletes a stored file. A missing file is not an error.
func (s *Store) Remove(name string) error {
	name = ExtractFilename(name)
	if name == "" || name == "." || name == ".." {
		return nil
	}
	err := os.Remove(filepath.Join(s.dir, name))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing %s: %w", name, err)
	}
	return nil
}

// Discard removes a file written by a request that was then rejected.
// Hash-named files may be shared with stored crafts and are kept.
func (s *Store) Discard(name string) error {
	if s.naming == NamingHash {
		return nil
	}
	return s.Remove(name)
}

// ExtractFilename returns the part of a file name or URL after the last slash.
func ExtractFilename(s string) string {
	return s[strings.LastIndex(s, "/")+1:]
}
