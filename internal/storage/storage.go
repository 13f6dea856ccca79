// Package storage abstracts where uploaded document files live. The disk
// backend keeps files under a local directory; the minio backend targets any
// S3-compatible object store.
package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/gerenciadoc/gerenciadoc/internal/common"
)

// Store persists uploaded files and hands back a URL the API can serve.
type Store interface {
	// Save writes the file content and returns the stored object key and a URL.
	Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (key, url string, err error)
	// Open returns a reader over a stored object.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes a stored object.
	Delete(ctx context.Context, key string) error
}

// ObjectKey builds a collision-free key preserving the original extension.
func ObjectKey(filename string) string {
	ext := strings.ToLower(filepath.Ext(filename))
	return uuid.NewString() + ext
}

// DiskStore writes files under a single root directory.
type DiskStore struct {
	root string
}

func NewDiskStore(root string) (*DiskStore, error) {
	if root == "" {
		return nil, common.NewAppError("STORAGE_ERROR", "upload directory not configured", common.ErrInvalidInput)
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskStore{root: root}, nil
}

func (s *DiskStore) Save(ctx context.Context, filename string, r io.Reader, size int64, contentType string) (string, string, error) {
	key := ObjectKey(filename)
	dst := filepath.Join(s.root, key)

	f, err := os.Create(dst)
	if err != nil {
		return "", "", fmt.Errorf("create %s: %w", dst, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(dst)
		return "", "", fmt.Errorf("write %s: %w", dst, err)
	}
	return key, "/files/" + key, nil
}

func (s *DiskStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	// Reject path traversal in keys coming from the database.
	if key != filepath.Base(key) {
		return nil, common.ErrInvalidInput
	}
	f, err := os.Open(filepath.Join(s.root, key))
	if os.IsNotExist(err) {
		return nil, common.ErrNotFound
	}
	return f, err
}

func (s *DiskStore) Delete(ctx context.Context, key string) error {
	if key != filepath.Base(key) {
		return common.ErrInvalidInput
	}
	err := os.Remove(filepath.Join(s.root, key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
