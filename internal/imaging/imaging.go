// Package imaging normalizes photos uploaded for auction items: it sniffs
// the real format, decodes, downscales oversized images and re-encodes
// everything as JPEG so the catalog serves consistently sized photos.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"net/http"

	"golang.org/x/image/draw"
)

// MaxDimension is the maximum width or height for stored photos.
const MaxDimension = 1200

// JPEGQuality is the compression quality for re-encoded output.
const JPEGQuality = 85

// OutputMIME is the MIME type of all processed photos.
const OutputMIME = "image/jpeg"

// Normalize reads photo data, validates the format by sniffing bytes
// (never trusting client headers), downscales if larger than MaxDimension
// and re-encodes as JPEG. Only JPEG and PNG input is accepted.
func Normalize(r io.Reader) ([]byte, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("reading photo data: %w", err)
	}

	switch detected := http.DetectContentType(data); detected {
	case "image/jpeg", "image/png":
	default:
		return nil, fmt.Errorf("unsupported photo format: %s (only JPEG and PNG accepted)", detected)
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding photo: %w", err)
	}

	if b := img.Bounds(); b.Dx() > MaxDimension || b.Dy() > MaxDimension {
		img = downscale(img, MaxDimension)
	}

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: JPEGQuality}); err != nil {
		return nil, fmt.Errorf("encoding JPEG: %w", err)
	}
	return buf.Bytes(), nil
}

// downscale resizes the image so neither dimension exceeds maxDim,
// preserving aspect ratio. Uses Catmull-Rom interpolation.
func downscale(img image.Image, maxDim int) image.Image {
	bounds := img.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	newW, newH := maxDim, maxDim
	if w > h {
		newH = h * maxDim / w
	} else {
		newW = w * maxDim / h
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

func init() {
	// jpeg registers itself on import; be explicit for both formats.
	image.RegisterFormat("jpeg", "\xff\xd8", jpeg.Decode, jpeg.DecodeConfig)
	image.RegisterFormat("png", "\x89PNG", png.Decode, png.DecodeConfig)
}
