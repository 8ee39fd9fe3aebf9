package catalog

import (
	"context"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/delcom/foodbook"
	"github.com/delcom/foodbook/storage"
)

// CoverPrefix starts every stored cover name
const CoverPrefix = "cover_"

// Covers validates uploaded images and keeps them in a storage backend
type Covers struct {
	store  storage.Store
	logger foodbook.Logger
}

func NewCovers(store storage.Store, logger foodbook.Logger) *Covers {
	if logger == nil {
		logger = foodbook.DefaultLogger()
	}
	return &Covers{store: store, logger: logger}
}

// CoverName is the stored name of the cover of entity id
func CoverName(id uuid.UUID, ext string) string {
	return CoverPrefix + id.String() + ext
}

// Save validates data and stores it as the cover of id
func (c *Covers) Save(ctx context.Context, id uuid.UUID, data []byte, contentType, filename string) (string, error) {
	ext, err := storage.ValidateImage(data, contentType, filename)
	if err != nil {
		return "", invalidImage(err)
	}

	name := CoverName(id, ext)
	if err := c.store.Put(ctx, name, data, storage.DetectContentType(name, data)); err != nil {
		return "", internalError(err, "failed to store cover")
	}
	return name, nil
}

// Replace stores a new cover for id and hands its name to commit. The
// previous cover is removed only once commit succeeds. When commit fails
// the new file is dropped and the previous one is left in place.
func (c *Covers) Replace(ctx context.Context, id uuid.UUID, previous *string, data []byte, contentType, filename string, commit func(name string) error) (string, error) {
	name, err := c.Save(ctx, id, data, contentType, filename)
	if err != nil {
		return "", err
	}

	old := ""
	if previous != nil {
		old = *previous
	}

	if err := commit(name); err != nil {
		if name != old {
			c.Remove(ctx, name)
		}
		return "", err
	}

	if old != "" && old != name {
		c.Remove(ctx, old)
	}
	return name, nil
}

// Remove deletes a stored cover. Failures are logged, the record update
// that triggered the removal has already happened.
func (c *Covers) Remove(ctx context.Context, name string) {
	if name == "" {
		return
	}
	if err := c.store.Delete(ctx, name); err != nil && !goerrors.Is(err, storage.ErrNotFound) {
		c.logger.Warn("failed to remove cover", "cover", name, "error", err)
	}
}

// Load returns the cover bytes and their sniffed content type
func (c *Covers) Load(ctx context.Context, name string) ([]byte, string, error) {
	name, err := storage.CleanName(name)
	if err != nil {
		return nil, "", ErrCoverNotFound
	}

	data, err := c.store.Get(ctx, name)
	if err != nil {
		if goerrors.Is(err, storage.ErrNotFound) {
			return nil, "", ErrCoverNotFound
		}
		return nil, "", internalError(err, "failed to load cover")
	}

	return data, storage.DetectContentType(name, data), nil
}
