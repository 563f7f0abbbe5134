package web

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/erazemk/crafts/internal/db"
	"github.com/erazemk/crafts/internal/model"
	"github.com/erazemk/crafts/internal/store"
)

func setupTestServer(t *testing.T) (*httptest.Server, store.Crafts, string) {
	t.Helper()
	crafts := store.NewSQLite(db.NewTestDB(t))
	dir := t.TempDir()

	router, err := NewRouter(crafts, dir)
	if err != nil {
		t.Fatalf("NewRouter: %v", err)
	}
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)

	return server, crafts, dir
}

func get(t *testing.T, url string) (int, http.Header, string) {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, resp.Header, string(body)
}

func TestIndexListsCrafts(t *testing.T) {
	server, crafts, _ := setupTestServer(t)

	_, err := crafts.Create(context.Background(), model.Craft{
		Name:        "Origami Crane",
		Image:       "1700000000000.png",
		Description: "A folded paper bird",
		Supplies:    []string{"paper", "string"},
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	status, header, body := get(t, server.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if ct := header.Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("expected html, got %q", ct)
	}
	for _, want := range []string{"Origami Crane", "/images/1700000000000.png", "paper, string"} {
		if !strings.Contains(body, want) {
			t.Errorf("index page missing %q", want)
		}
	}
}

func TestIndexEmpty(t *testing.T) {
	server, _, _ := setupTestServer(t)

	status, _, body := get(t, server.URL+"/")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if !strings.Contains(body, "No crafts yet.") {
		t.Error("expected empty state on index page")
	}
}

func TestStaticAssets(t *testing.T) {
	server, _, _ := setupTestServer(t)

	for _, path := range []string{"/static/app.js", "/static/style.css"} {
		if status, _, _ := get(t, server.URL+path); status != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d", path, status)
		}
	}
}

func TestImagesHandler(t *testing.T) {
	server, _, dir := setupTestServer(t)

	if err := os.WriteFile(filepath.Join(dir, "1700000000000.png"), []byte("png bytes"), 0o644); err != nil {
		t.Fatalf("writing image: %v", err)
	}

	status, header, body := get(t, server.URL+"/images/1700000000000.png")
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if body != "png bytes" {
		t.Errorf("unexpected body %q", body)
	}
	if header.Get("X-Content-Type-Options") != "nosniff" {
		t.Error("missing nosniff header")
	}

	if status, _, _ := get(t, server.URL+"/images/missing.png"); status != http.StatusNotFound {
		t.Errorf("expected 404 for missing image, got %d", status)
	}
	if status, _, _ := get(t, server.URL+"/images/"); status != http.StatusNotFound {
		t.Errorf("expected 404 for directory listing, got %d", status)
	}
}

func TestUnknownPage(t *testing.T) {
	server, _, _ := setupTestServer(t)

	if status, _, _ := get(t, server.URL+"/nope"); status != http.StatusNotFound {
		t.Errorf("expected 404, got %d", status)
	}
}
