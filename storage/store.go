// Package storage keeps cover images in a local directory or an S3
// bucket.
package storage

import (
	"context"
	"path/filepath"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

const (
	TextCodeObjectNotFound = "OBJECT_NOT_FOUND"
	TextCodeInvalidName    = "INVALID_OBJECT_NAME"
)

var ErrNotFound = goerrors.New("object not found", goerrors.CategoryNotFound).
	WithTextCode(TextCodeObjectNotFound)

// ErrInvalidName the name is empty or would escape the store root
var ErrInvalidName = goerrors.New("invalid object name", goerrors.CategoryBadInput).
	WithTextCode(TextCodeInvalidName)

func internalError(err error, msg string) error {
	return goerrors.Wrap(err, goerrors.CategoryInternal, msg)
}

// Store saves, loads and removes objects by flat name
type Store interface {
	Put(ctx context.Context, name string, data []byte, contentType string) error
	Get(ctx context.Context, name string) ([]byte, error)
	Delete(ctx context.Context, name string) error
}

// CleanName rejects names that would escape the store root
func CleanName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" || name == "." || name == ".." {
		return "", ErrInvalidName
	}
	if strings.ContainsAny(name, `/\`) || filepath.Base(name) != name {
		return "", ErrInvalidName
	}
	return name, nil
}
