package state

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"io"
	"regexp"
	"strings"
)

// photoDataURIPattern matches the only photo shape the planner stores:
// a base64 image data URI.
var photoDataURIPattern = regexp.MustCompile(`^data:image/[a-zA-Z0-9]+;base64,[A-Za-z0-9+/=]+$`)

// PhotoState classifies a stored photo value for UI rendering.
type PhotoState int

const (
	PhotoEmpty PhotoState = iota
	PhotoInvalid
	PhotoReady
)

// IsValidPhotoDataURI reports whether value is a well-formed base64
// image data URI.
func IsValidPhotoDataURI(value string) bool {
	return photoDataURIPattern.MatchString(value)
}

// ClassifyPhoto maps a stored photo value to its UI state: nil or
// blank is empty, a valid data URI is ready, anything else is invalid.
func ClassifyPhoto(value *string) PhotoState {
	if value == nil || strings.TrimSpace(*value) == "" {
		return PhotoEmpty
	}
	if IsValidPhotoDataURI(strings.TrimSpace(*value)) {
		return PhotoReady
	}
	return PhotoInvalid
}

// CoercePhotoValue normalizes a photo field read back from storage.
// A valid data URI passes through; bare base64 image bytes are wrapped
// into a data URI with a sniffed MIME type; everything else becomes
// nil.
func CoercePhotoValue(value *string) *string {
	switch ClassifyPhoto(value) {
	case PhotoEmpty:
		return nil
	case PhotoReady:
		stripped := strings.TrimSpace(*value)
		return &stripped
	}

	// Invalid as a data URI, but it may be bare base64 image bytes.
	stripped := strings.TrimSpace(*value)
	decoded, err := base64.StdEncoding.DecodeString(stripped)
	if err != nil {
		return nil
	}
	mimeType := guessImageMIME(decoded)
	if mimeType == "" {
		return nil
	}

	uri := fmt.Sprintf("data:%s;base64,%s", mimeType, base64.StdEncoding.EncodeToString(decoded))
	return &uri
}

// guessImageMIME sniffs the image type from the magic bytes of the
// formats the planner accepts. Returns "" for anything unrecognized.
func guessImageMIME(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte{0xFF, 0xD8, 0xFF}):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}):
		return "image/png"
	case bytes.HasPrefix(data, []byte("GIF87a")) || bytes.HasPrefix(data, []byte("GIF89a")):
		return "image/gif"
	case bytes.HasPrefix(data, []byte("BM")):
		return "image/bmp"
	case len(data) >= 12 && bytes.Equal(data[0:4], []byte("RIFF")) && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	case bytes.HasPrefix(data, []byte{'I', 'I', 0x2A, 0x00}) || bytes.HasPrefix(data, []byte{'M', 'M', 0x00, 0x2A}):
		return "image/tiff"
	default:
		return ""
	}
}

// EncodeUpload reads an uploaded file and returns its contents as
// base64 text, the form photos are carried in everywhere downstream.
func EncodeUpload(r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("no file provided")
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("failed to read uploaded file: %w", err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("uploaded file is empty")
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
