package storage

import (
	"context"
	"fmt"

	"github.com/SUDAR2106/RemedyLabBackEnd/internal/config"
)

// FileStore persists uploaded report documents and returns the path or URL
// under which the document can later be retrieved. Load accepts the value
// Save returned, so readers stay agnostic of the backing driver.
type FileStore interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
	Load(ctx context.Context, path string) ([]byte, error)
}

// New selects a store implementation based on the configured driver.
func New(cfg config.StorageConfig) (FileStore, error) {
	switch cfg.Driver {
	case "local":
		return NewLocalStore(cfg.UploadDir)
	case "s3":
		return NewS3Store(cfg)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
