package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore writes report documents under a base directory on disk.
type LocalStore struct {
	baseDir string
}

func NewLocalStore(baseDir string) (*LocalStore, error) {
	if err := os.MkdirAll(baseDir, 0o750); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &LocalStore{baseDir: baseDir}, nil
}

func (s *LocalStore) Save(_ context.Context, name string, data []byte) (string, error) {
	clean := filepath.Clean(name)
	if strings.HasPrefix(clean, "..") || filepath.IsAbs(clean) {
		return "", fmt.Errorf("invalid storage key %q", name)
	}

	path := filepath.Join(s.baseDir, clean)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		return "", fmt.Errorf("creating directory for %s: %w", clean, err)
	}

	if err := os.WriteFile(path, data, 0o640); err != nil {
		return "", fmt.Errorf("writing %s: %w", clean, err)
	}

	return path, nil
}

// Load reads a document back by the path Save returned, or by a bare storage
// key relative to the base directory. Paths outside the base directory are
// rejected.
func (s *LocalStore) Load(_ context.Context, path string) ([]byte, error) {
	base := filepath.Clean(s.baseDir)
	clean := filepath.Clean(path)

	if clean != base && !strings.HasPrefix(clean, base+string(filepath.Separator)) {
		if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
			return nil, fmt.Errorf("invalid storage path %q", path)
		}
		clean = filepath.Join(base, clean)
	}

	data, err := os.ReadFile(clean)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
