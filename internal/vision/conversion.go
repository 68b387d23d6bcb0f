package vision

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	"image/png"
	"strings"

	"github.com/gen2brain/heic"
)

// ErrUnsupportedImage indicates the upload could not be decoded as an image.
// This is a problem with the request payload, not with the service.
var ErrUnsupportedImage = errors.New("unsupported or corrupt image")

// imageToPNG converts any supported image format to PNG
func imageToPNG(imageData []byte, mimeType string) ([]byte, error) {
	var img image.Image
	var err error

	// HEIC/HEIF (common on iPhones) is not supported by Go's standard image
	// package, so it gets its own decoder
	if isHEICFormat(imageData) || isHEICMimeType(mimeType) {
		img, err = heic.Decode(bytes.NewReader(imageData))
		if err != nil {
			return nil, fmt.Errorf("%w: decoding HEIC/HEIF image: %v", ErrUnsupportedImage, err)
		}
	} else {
		img, _, err = image.Decode(bytes.NewReader(imageData))
		if err != nil {
			if strings.Contains(err.Error(), "unknown format") || strings.Contains(err.Error(), "unsupported") {
				return nil, fmt.Errorf("%w: supported formats are JPEG, PNG, GIF, HEIC, HEIF: %v", ErrUnsupportedImage, err)
			}
			return nil, fmt.Errorf("%w: decoding image: %v", ErrUnsupportedImage, err)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encoding PNG: %w", err)
	}

	return buf.Bytes(), nil
}

// isHEICFormat checks the ftyp box for HEIC/HEIF brands
func isHEICFormat(data []byte) bool {
	if len(data) < 12 {
		return false
	}
	if string(data[4:8]) == "ftyp" {
		brand := string(data[8:12])
		if brand == "heic" || brand == "heif" || brand == "mif1" || brand == "msf1" {
			return true
		}
	}
	return false
}

// isHEICMimeType checks if the MIME type indicates HEIC/HEIF format
func isHEICMimeType(mimeType string) bool {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	return mimeType == "image/heic" || mimeType == "image/heif" ||
		strings.Contains(mimeType, "heic") || strings.Contains(mimeType, "heif")
}

// prepareImageData normalizes an uploaded photo to PNG before it is sent to
// a model. Returns the final image data and whether conversion occurred.
func prepareImageData(imageData []byte, contentType string) ([]byte, bool, error) {
	mimeType := strings.ToLower(strings.TrimSpace(contentType))
	if mimeType == "" {
		mimeType = "image/jpeg" // phone uploads rarely label themselves
	}

	if mimeType == "image/png" && !isHEICFormat(imageData) {
		return imageData, false, nil
	}

	pngData, err := imageToPNG(imageData, mimeType)
	if err != nil {
		return nil, false, fmt.Errorf("converting image to PNG: %w", err)
	}
	return pngData, true, nil
}
