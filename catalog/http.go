package catalog

import (
	"io"
	"mime/multipart"
	"strconv"

	"github.com/delcom/foodbook"
	"github.com/delcom/foodbook/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// CoverField is the multipart field holding an uploaded cover
const CoverField = "cover"

func currentUser(c *fiber.Ctx) (*foodbook.User, error) {
	user, ok := foodbook.AuthUser(c)
	if !ok {
		return nil, foodbook.ErrNoCredential
	}
	return user, nil
}

func paramID(c *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, ErrInvalidID
	}
	return id, nil
}

type upload struct {
	data        []byte
	contentType string
	filename    string
}

// readCover reads the cover part, refusing anything over the image limit
// without buffering the whole file.
func readCover(c *fiber.Ctx) (*upload, error) {
	fh, err := c.FormFile(CoverField)
	if err != nil || fh == nil {
		return nil, ErrCoverMissing
	}

	if fh.Size > storage.MaxImageSize {
		return nil, invalidImage(storage.ErrImageTooLarge)
	}

	contentType := fh.Header.Get(fiber.HeaderContentType)
	if !storage.IsAllowedImageType(contentType) {
		return nil, invalidImage(storage.UnsupportedImageType(contentType))
	}

	data, err := readPart(fh)
	if err != nil {
		return nil, err
	}

	return &upload{
		data:        data,
		contentType: contentType,
		filename:    fh.Filename,
	}, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, internalError(err, "failed to open upload")
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, storage.MaxImageSize+1))
	if err != nil {
		return nil, internalError(err, "failed to read upload")
	}
	return data, nil
}

func sendCover(c *fiber.Ctx, name string, data []byte, contentType string) error {
	c.Set(fiber.HeaderContentType, contentType)
	c.Set(fiber.HeaderContentDisposition, "inline; filename="+strconv.Quote(name))
	c.Set(fiber.HeaderCacheControl, "private, max-age=3600")
	return c.Status(fiber.StatusOK).Send(data)
}
