package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func createTestJPEG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{255, 0, 0, 255})
		}
	}
	var buf bytes.Buffer
	jpeg.Encode(&buf, img, &jpeg.Options{Quality: 90})
	return buf.Bytes()
}

func createTestPNG(w, h int) []byte {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{0, 0, 255, 255})
		}
	}
	var buf bytes.Buffer
	png.Encode(&buf, img)
	return buf.Bytes()
}

func TestIsImage(t *testing.T) {
	if !IsImage(createTestPNG(4, 4)) {
		t.Error("expected PNG to be detected as image")
	}
	if !IsImage(createTestJPEG(4, 4)) {
		t.Error("expected JPEG to be detected as image")
	}
	if !IsImage([]byte("GIF89a......")) {
		t.Error("expected GIF magic to be detected as image")
	}
	if IsImage([]byte("not an image")) {
		t.Error("expected plain text to be rejected")
	}
}

func TestFitDisabled(t *testing.T) {
	data := createTestPNG(300, 300)
	out, resized, err := Fit(data, 0)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if resized || !bytes.Equal(out, data) {
		t.Error("expected data unchanged when maxDim is 0")
	}
}

func TestFitDownscalePNGKeepsFormat(t *testing.T) {
	out, resized, err := Fit(createTestPNG(400, 200), 100)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !resized {
		t.Fatal("expected image to be resized")
	}
	if DetectMIME(out) != "image/png" {
		t.Errorf("expected image/png, got %s", DetectMIME(out))
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 100 || b.Dy() != 50 {
		t.Errorf("expected 100x50, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestFitDownscaleJPEG(t *testing.T) {
	out, resized, err := Fit(createTestJPEG(2048, 2048), 1024)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if !resized {
		t.Fatal("expected image to be resized")
	}
	if DetectMIME(out) != "image/jpeg" {
		t.Errorf("expected image/jpeg, got %s", DetectMIME(out))
	}

	img, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		t.Fatalf("decoding result: %v", err)
	}
	if b := img.Bounds(); b.Dx() > 1024 || b.Dy() > 1024 {
		t.Errorf("expected max 1024x1024, got %dx%d", b.Dx(), b.Dy())
	}
}

func TestFitSmallImageNotUpscaled(t *testing.T) {
	data := createTestJPEG(50, 50)
	out, resized, err := Fit(data, 100)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if resized || !bytes.Equal(out, data) {
		t.Error("small image should be returned unchanged")
	}
}

func TestFitOtherFormatsPassThrough(t *testing.T) {
	data := []byte("GIF89a......")
	out, resized, err := Fit(data, 10)
	if err != nil {
		t.Fatalf("Fit: %v", err)
	}
	if resized || !bytes.Equal(out, data) {
		t.Error("expected non JPEG/PNG data unchanged")
	}
}

func TestFitCorruptPNG(t *testing.T) {
	data := append([]byte("\x89PNG\r\n\x1a\n"), []byte("garbage")...)
	if _, _, err := Fit(data, 10); err == nil {
		t.Error("expected error for corrupt PNG")
	}
}
