// Package imaging inspects and downscales uploaded craft images.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"net/http"
	"strings"

	"golang.org/x/image/draw"
)

// JPEGQuality is the compression quality for re-encoded JPEGs.
const JPEGQuality = 85

// DetectMIME sniffs the MIME type of data without trusting client headers.
func DetectMIME(data []byte) string {
	return http.DetectContentType(data)
}

// IsImage reports whether data looks like an image.
func IsImage(data []byte) bool {
	return strings.HasPrefix(DetectMIME(data), "image/")
}

// Fit downscales a JPEG or PNG so neither dimension exceeds maxDim and
// re-encodes it in its original format. Other formats, images already within
// bounds and maxDim <= 0 return data unchanged with resized false.
func Fit(data []byte, maxDim int) (out []byte, resized bool, err error) {
	if maxDim <= 0 {
		return data, false, nil
	}

	mime := DetectMIME(data)
	if mime != "image/jpeg" && mime != "image/png" {
		return data, false, nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decoding image config: %w", err)
	}
	if cfg.Width <= maxDim && cfg.Height <= maxDim {
		return data, false, nil
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, false, fmt.Errorf("decoding image: %w", err)
	}
	img = downscale(img, maxDim)

	var buf bytes.Buffer
	switch mime {
	case "image/png":
		err = png.Encode(&buf, img)
	default:
		err = jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality})
	}
	if err != nil {
		return nil, false, fmt.Errorf("encoding %s: %w", mime, err)
	}
	return buf.Bytes(), true, nil
}

// downscale resizes the image so neither dimension exceeds maxDim.
// Uses high-quality Catmull-Rom interpolation.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w := bounds.Dx()
	h := bounds.Dy()

	if w <= maxDim && h <= maxDim {
		return img
	}

	// Preserve aspect ratio.
	newW, newH := w, h
	if w > h {
		newW = maxDim
		newH = int(float64(h) * float64(maxDim) / float64(w))
	} else {
		newH = maxDim
		newW = int(float64(w) * float64(maxDim) / float64(h))
	}

	if newW < 1 {
		newW = 1
	}
	if newH < 1 {
		newH = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, newW, newH))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, bounds, draw.Over, nil)
	return dst
}
