package server

import (
	"context"
	"fmt"

	goerrors "github.com/goliatone/go-errors"

	"github.com/delcom/foodbook/config"
	"github.com/delcom/foodbook/storage"
)

// NewStore opens the cover storage backend named by cfg.Driver
func NewStore(ctx context.Context, cfg config.StorageConfig) (storage.Store, error) {
	switch cfg.Driver {
	case config.StorageS3:
		client, err := storage.NewS3Client(ctx, storage.S3Config{
			Bucket:       cfg.S3.Bucket,
			Region:       cfg.S3.Region,
			BaseEndpoint: cfg.S3.Endpoint,
			AccessKey:    cfg.S3.AccessKey,
			SecretKey:    cfg.S3.SecretKey,
			Prefix:       cfg.S3.Prefix,
			UsePathStyle: cfg.S3.UsePathStyle,
		})
		if err != nil {
			return nil, err
		}
		return storage.NewS3Store(client, cfg.S3.Bucket, cfg.S3.Prefix), nil
	case config.StorageLocal, "":
		dir := cfg.LocalDir
		if dir == "" {
			dir = storage.DefaultUploadDir
		}
		store, err := storage.NewLocalStore(dir)
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, goerrors.New(fmt.Sprintf("unknown storage driver %q", cfg.Driver), goerrors.CategoryBadInput)
	}
}
