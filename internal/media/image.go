package media

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"
	"math"
	"net/http"
	"strings"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"go-course-platform/pkg/apierror"
)

const maxImageBytes = 10 << 20

// DecodeImageData accepts a data URI ("data:image/png;base64,...") or bare
// base64 and returns the raw bytes and their sniffed content type.
func DecodeImageData(raw string) ([]byte, string, error) {
	payload := strings.TrimSpace(raw)
	if payload == "" {
		return nil, "", apierror.Validation("image data is empty")
	}

	if strings.HasPrefix(payload, "data:") {
		comma := strings.IndexByte(payload, ',')
		if comma < 0 || !strings.HasSuffix(payload[:comma], ";base64") {
			return nil, "", apierror.Validation("image must be a base64 data URI")
		}
		payload = payload[comma+1:]
	}

	if base64.StdEncoding.DecodedLen(len(payload)) > maxImageBytes {
		return nil, "", apierror.Validation("image is too large")
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(payload)
		if err != nil {
			return nil, "", apierror.Validation("image is not valid base64")
		}
	}

	contentType := http.DetectContentType(data)
	if !IsImageMIME(contentType) {
		return nil, "", apierror.New("UNSUPPORTED_TYPE", "file is not an image", contentType, http.StatusUnsupportedMediaType)
	}

	return data, contentType, nil
}

func IsImageMIME(mimeType string) bool {
	cleaned := strings.ToLower(strings.TrimSpace(mimeType))
	return strings.HasPrefix(cleaned, "image/")
}

// FitWidth scales the image down to width pixels, keeping its aspect ratio,
// and re-encodes it as JPEG. Images that are already narrow enough are
// returned unchanged.
func FitWidth(data []byte, width int) ([]byte, string, error) {
	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, "", apierror.New("UNSUPPORTED_TYPE", "cannot decode image", err.Error(), http.StatusUnsupportedMediaType)
	}

	bounds := src.Bounds()
	if bounds.Dx() <= 0 || bounds.Dy() <= 0 {
		return nil, "", apierror.New("UNSUPPORTED_TYPE", "invalid image dimensions", "", http.StatusUnsupportedMediaType)
	}
	if width <= 0 || bounds.Dx() <= width {
		return data, http.DetectContentType(data), nil
	}

	scale := float64(width) / float64(bounds.Dx())
	targetHeight := int(math.Round(float64(bounds.Dy()) * scale))
	if targetHeight < 1 {
		targetHeight = 1
	}

	dst := image.NewRGBA(image.Rect(0, 0, width, targetHeight))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: 90}); err != nil {
		return nil, "", fmt.Errorf("encode scaled image: %w", err)
	}

	return out.Bytes(), "image/jpeg", nil
}

func extensionFor(contentType string) string {
	switch strings.ToLower(contentType) {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "image/bmp":
		return ".bmp"
	default:
		return ""
	}
}
