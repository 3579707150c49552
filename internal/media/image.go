// Package media turns user-supplied files into values the wizard can hold:
// plain-text scripts and thumbnail images encoded as data URIs.
package media

import (
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// MaxImageBytes bounds thumbnail uploads.
const MaxImageBytes = 8 << 20

var (
	// ErrUnsupportedImage is returned for files whose declared type is not an accepted image type.
	ErrUnsupportedImage = errors.New("unsupported image type")
	// ErrImageTooLarge is returned when an image exceeds MaxImageBytes.
	ErrImageTooLarge = errors.New("image too large")
	// ErrInvalidDataURI is returned when a stored data URI cannot be parsed.
	ErrInvalidDataURI = errors.New("invalid data URI")
	// ErrNotText is returned when an imported script is not valid UTF-8.
	ErrNotText = errors.New("file is not UTF-8 text")
)

var acceptedImageTypes = map[string]bool{
	"image/png":  true,
	"image/jpeg": true,
	"image/webp": true,
	"image/gif":  true,
}

// Image is a decoded thumbnail.
type Image struct {
	MimeType string
	Data     []byte
}

// DataURI encodes the image as data:<mime>;base64,<payload>.
func (img *Image) DataURI() string {
	return "data:" + img.MimeType + ";base64," + base64.StdEncoding.EncodeToString(img.Data)
}

// ReadImage loads an image file, validating its declared media type
// (taken from the file extension) and size.
func ReadImage(path string) (*Image, error) {
	mimeType := mime.TypeByExtension(strings.ToLower(filepath.Ext(path)))
	if i := strings.Index(mimeType, ";"); i >= 0 {
		mimeType = mimeType[:i]
	}
	if !acceptedImageTypes[mimeType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, filepath.Base(path))
	}

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	if info.Size() > MaxImageBytes {
		return nil, fmt.Errorf("%w: %d bytes (max %d)", ErrImageTooLarge, info.Size(), MaxImageBytes)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading image: %w", err)
	}
	return &Image{MimeType: mimeType, Data: data}, nil
}

// ParseDataURI decodes a data URI previously produced by DataURI.
func ParseDataURI(uri string) (*Image, error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return nil, fmt.Errorf("%w: missing data: prefix", ErrInvalidDataURI)
	}
	header, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return nil, fmt.Errorf("%w: missing payload", ErrInvalidDataURI)
	}
	mimeType, ok := strings.CutSuffix(header, ";base64")
	if !ok {
		return nil, fmt.Errorf("%w: only base64 payloads are supported", ErrInvalidDataURI)
	}
	if !acceptedImageTypes[mimeType] {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedImage, mimeType)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDataURI, err)
	}
	return &Image{MimeType: mimeType, Data: data}, nil
}

// ReadText reads an entire text file.
func ReadText(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading script file: %w", err)
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: %s", ErrNotText, filepath.Base(path))
	}
	return string(data), nil
}
