package storage

import (
	"context"
	"fmt"
	"log"

	"photos/config"
)

// NewObjectStore builds the object store selected by cfg.ObjectStore.
func NewObjectStore(ctx context.Context, cfg *config.Config, logger *log.Logger) (ObjectStore, error) {
	var (
		store ObjectStore
		err   error
	)
	switch cfg.ObjectStore {
	case config.BackendAzure:
		store, err = NewAzureBlobStorage(cfg.Azure, cfg.ContainerName, logger)
	case config.BackendMinio:
		store, err = NewMinioStorage(ctx, cfg.Minio, cfg.ContainerName, logger)
	case config.BackendGCS:
		store, err = NewGCSStorage(ctx, cfg.GCS, cfg.ContainerName, logger)
	default:
		return nil, fmt.Errorf("%w: OBJECT_STORE=%q", config.ErrUnknownBackend, cfg.ObjectStore)
	}
	if err != nil {
		return nil, err
	}
	return store, nil
}

// NewFileShare builds the file share selected by cfg.FileShare.
func NewFileShare(cfg *config.Config, logger *log.Logger) (FileShare, error) {
	var (
		share FileShare
		err   error
	)
	switch cfg.FileShare {
	case config.BackendAzure:
		share, err = NewAzureFileShare(cfg.Azure, cfg.FileShareName, logger)
	case config.BackendLocal:
		share, err = NewLocalShare(cfg.LocalShareDir)
	default:
		return nil, fmt.Errorf("%w: FILE_SHARE=%q", config.ErrUnknownBackend, cfg.FileShare)
	}
	if err != nil {
		return nil, err
	}
	return share, nil
}
