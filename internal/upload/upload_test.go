package upload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 128, 0, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encoding png: %v", err)
	}
	return buf.Bytes()
}

func TestExtractFilename(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"https://host/path/to/file.png", "file.png"},
		{"file.png", "file.png"},
		{"/images/1700000000000.jpg", "1700000000000.jpg"},
		{"images/", ""},
		{"", ""},
	}

	for _, tt := range tests {
		if got := ExtractFilename(tt.in); got != tt.want {
			t.Errorf("ExtractFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestWriteTimestampName(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, WithNamer(TimestampNamer{Now: fixedClock(1700000000000)}))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	name, err := s.Write("crane.png", []byte("data"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if name != "1700000000000.png" {
		t.Errorf("expected 1700000000000.png, got %q", name)
	}

	data, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("reading stored file: %v", err)
	}
	if string(data) != "data" {
		t.Errorf("expected stored content 'data', got %q", data)
	}
}

func TestWriteSameTickDoesNotCollide(t *testing.T) {
	s, _ := New(t.TempDir(), WithNamer(TimestampNamer{Now: fixedClock(1700000000000)}))

	first, err := s.Write("a.png", []byte("one"))
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	second, err := s.Write("b.png", []byte("two"))
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}

	if first == second {
		t.Fatalf("expected distinct names, both %q", first)
	}
	if second != "1700000000001.png" {
		t.Errorf("expected next millisecond, got %q", second)
	}
}

func TestWriteKeepsExtensionVerbatim(t *testing.T) {
	s, _ := New(t.TempDir(), WithNamer(TimestampNamer{Now: fixedClock(42)}))

	for original, want := range map[string]string{
		"photo.JPEG":  "42.JPEG",
		"archive.tar": "43.tar",
		"noext":       "44",
	} {
		got, err := s.Write(original, []byte(original))
		if err != nil {
			t.Fatalf("Write(%q): %v", original, err)
		}
		// Map iteration order is random; only the extension is stable.
		if filepath.Ext(got) != filepath.Ext(want) {
			t.Errorf("Write(%q) = %q, want extension %q", original, got, filepath.Ext(want))
		}
	}
}

func TestWriteUUIDName(t *testing.T) {
	s, err := New(t.TempDir(), WithNaming(NamingUUID))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	name, err := s.Write("crane.png", []byte("data"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if !regexp.MustCompile(`^[0-9a-f-]{36}\.png$`).MatchString(name) {
		t.Errorf("unexpected uuid name %q", name)
	}
}

func TestWriteHashNameDeduplicates(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir, WithNaming(NamingHash))

	first, err := s.Write("a.png", []byte("same"))
	if err != nil {
		t.Fatalf("first Write: %v", err)
	}
	second, err := s.Write("b.png", []byte("same"))
	if err != nil {
		t.Fatalf("second Write: %v", err)
	}
	other, _ := s.Write("c.png", []byte("different"))

	if first != second {
		t.Errorf("expected identical content to share a name: %q vs %q", first, second)
	}
	if first == other {
		t.Error("expected different content to get a different name")
	}
	if len(strings.TrimSuffix(first, ".png")) != 32 {
		t.Errorf("expected 32 hex chars, got %q", first)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("expected 2 files on disk, got %d", len(entries))
	}
}

func TestWriteRequireImage(t *testing.T) {
	s, _ := New(t.TempDir(), WithRequireImage(true))

	if _, err := s.Write("notes.png", []byte("plain text")); !errors.Is(err, ErrNotImage) {
		t.Errorf("expected ErrNotImage, got %v", err)
	}
	if _, err := s.Write("crane.png", testPNG(t, 2, 2)); err != nil {
		t.Errorf("expected real PNG to be accepted, got %v", err)
	}
}

func TestWriteDownscales(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir, WithMaxDimension(10))

	name, err := s.Write("big.png", testPNG(t, 40, 20))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}

	f, err := os.Open(filepath.Join(dir, name))
	if err != nil {
		t.Fatalf("opening stored file: %v", err)
	}
	defer f.Close()

	cfg, err := png.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decoding stored png: %v", err)
	}
	if cfg.Width != 10 || cfg.Height != 5 {
		t.Errorf("expected 10x5, got %dx%d", cfg.Width, cfg.Height)
	}
}

type takenNamer struct{}

func (takenNamer) Name(ext string, _ []byte, _ int) string { return "taken" + ext }

func TestWriteNameExhausted(t *testing.T) {
	dir := t.TempDir()
	os.WriteFile(filepath.Join(dir, "taken.png"), []byte("x"), 0o644)
	s, _ := New(dir, WithNamer(takenNamer{}))

	if _, err := s.Write("a.png", []byte("y")); !errors.Is(err, ErrNameExhausted) {
		t.Errorf("expected ErrNameExhausted, got %v", err)
	}
}

func TestNewUnknownNaming(t *testing.T) {
	if _, err := New(t.TempDir(), WithNaming("sequence")); !errors.Is(err, ErrUnknownNaming) {
		t.Errorf("expected ErrUnknownNaming, got %v", err)
	}
}

func TestNewCreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "public", "images")
	s, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if s.Dir() != dir {
		t.Errorf("Dir() = %q, want %q", s.Dir(), dir)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("expected directory to exist: %v", err)
	}
}

func TestSaveMultipart(t *testing.T) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, _ := mw.CreateFormFile("image", "crane.png")
	fw.Write([]byte("png bytes"))
	mw.Close()

	req := httptest.NewRequest("POST", "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if err := req.ParseMultipartForm(1 << 20); err != nil {
		t.Fatalf("ParseMultipartForm: %v", err)
	}
	_, fh, err := req.FormFile("image")
	if err != nil {
		t.Fatalf("FormFile: %v", err)
	}

	dir := t.TempDir()
	s, _ := New(dir, WithNamer(TimestampNamer{Now: fixedClock(7)}))
	name, err := s.Save(fh)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if name != "7.png" {
		t.Errorf("expected 7.png, got %q", name)
	}
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	s, _ := New(dir, WithNamer(TimestampNamer{Now: fixedClock(1)}))
	name, _ := s.Write("a.png", []byte("x"))

	if err := s.Remove(name); err != nil {
		t.Fatalf("Remove: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); !os.IsNotExist(err) {
		t.Error("expected file to be removed")
	}
	if err := s.Remove(name); err != nil {
		t.Errorf("removing a missing file should not fail: %v", err)
	}
	if err := s.Remove(""); err != nil {
		t.Errorf("removing empty name should not fail: %v", err)
	}
}

func TestDiscardKeepsHashNamedFiles(t *testing.T) {
	dir := t.TempDir()
	s, err := New(dir, WithNaming(NamingHash))
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	name, err := s.Write("a.png", []byte("shared"))
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Discard(name); err != nil {
		t.Fatalf("Discard: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, name)); err != nil {
		t.Errorf("hash-named file was removed: %v", err)
	}
}
