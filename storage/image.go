package storage

import (
	"bytes"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"
	_ "golang.org/x/image/webp"
)

// MaxImageSize is the largest accepted cover
const MaxImageSize = 5 << 20

const (
	MIMETypeJPEG = "image/jpeg"
	MIMETypeJPG  = "image/jpg"
	MIMETypePNG  = "image/png"
	MIMETypeGIF  = "image/gif"
	MIMETypeWEBP = "image/webp"
)

const (
	TextCodeImageEmpty       = "IMAGE_EMPTY"
	TextCodeImageTooLarge    = "IMAGE_TOO_LARGE"
	TextCodeImageUnsupported = "IMAGE_UNSUPPORTED"
	TextCodeImageCorrupt     = "IMAGE_CORRUPT"
)

var ErrImageEmpty = goerrors.New("image is empty", goerrors.CategoryBadInput).
	WithTextCode(TextCodeImageEmpty)

var ErrImageTooLarge = goerrors.New("image exceeds 5MB", goerrors.CategoryBadInput).
	WithTextCode(TextCodeImageTooLarge)

//nolint:gochecknoglobals
var (
	imageTypeExts = map[string]string{
		MIMETypeJPEG: ".jpg",
		MIMETypeJPG:  ".jpg",
		MIMETypePNG:  ".png",
		MIMETypeGIF:  ".gif",
		MIMETypeWEBP: ".webp",
	}

	imageExtTypes = map[string]string{
		".jpg":  MIMETypeJPEG,
		".jpeg": MIMETypeJPEG,
		".png":  MIMETypePNG,
		".gif":  MIMETypeGIF,
		".webp": MIMETypeWEBP,
	}
)

// IsAllowedImageType reports whether contentType may be uploaded
func IsAllowedImageType(contentType string) bool {
	_, ok := imageTypeExts[normalizeContentType(contentType)]
	return ok
}

// UnsupportedImageType reports a declared type outside the image allow list
func UnsupportedImageType(contentType string) *goerrors.Error {
	return goerrors.New("image type not supported", goerrors.CategoryBadInput).
		WithTextCode(TextCodeImageUnsupported).
		WithMetadata(map[string]any{"content_type": normalizeContentType(contentType)})
}

// ValidateImage checks size, declared type and that the payload decodes.
// It returns the file extension to store the image under, preferring the
// extension of the original file name.
func ValidateImage(data []byte, contentType, filename string) (string, error) {
	if len(data) == 0 {
		return "", ErrImageEmpty
	}

	if len(data) > MaxImageSize {
		return "", ErrImageTooLarge
	}

	contentType = normalizeContentType(contentType)
	ext, ok := imageTypeExts[contentType]
	if !ok {
		return "", UnsupportedImageType(contentType)
	}

	if _, _, err := image.DecodeConfig(bytes.NewReader(data)); err != nil {
		return "", goerrors.Wrap(err, goerrors.CategoryBadInput, "image cannot be decoded").
			WithTextCode(TextCodeImageCorrupt)
	}

	if own := strings.ToLower(filepath.Ext(filename)); own != "" {
		if _, known := imageExtTypes[own]; known {
			ext = own
		}
	}

	return ext, nil
}

// DetectContentType sniffs data, falling back to the extension of name
func DetectContentType(name string, data []byte) string {
	sniffed := http.DetectContentType(data)
	if sniffed != "application/octet-stream" {
		return sniffed
	}
	if t, ok := imageExtTypes[strings.ToLower(filepath.Ext(name))]; ok {
		return t
	}
	return sniffed
}

func normalizeContentType(contentType string) string {
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = contentType[:i]
	}
	return strings.ToLower(strings.TrimSpace(contentType))
}
