package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// ============================================
// Receipt Storage
// ============================================

// ReceiptStore persists uploaded receipt files and hands back an opaque
// file id that is stored alongside the reimbursement request.
type ReceiptStore interface {
	Save(ctx context.Context, name string, r io.Reader) (fileID string, err error)
	Open(ctx context.Context, fileID string) (io.ReadCloser, error)
	Delete(ctx context.Context, fileID string) error
}

type diskReceiptStore struct {
	dir string
}

// NewDiskReceiptStore creates a receipt store backed by a local directory
func NewDiskReceiptStore(dir string) (ReceiptStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create receipt directory: %w", err)
	}
	return &diskReceiptStore{dir: dir}, nil
}

func (s *diskReceiptStore) Save(ctx context.Context, name string, r io.Reader) (string, error) {
	fileID := uuid.New().String() + filepath.Ext(name)

	f, err := os.Create(filepath.Join(s.dir, fileID))
	if err != nil {
		return "", fmt.Errorf("failed to create receipt file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("failed to write receipt file: %w", err)
	}
	return fileID, nil
}

func (s *diskReceiptStore) Open(ctx context.Context, fileID string) (io.ReadCloser, error) {
	// fileID is generated by Save, never trust path separators in it
	return os.Open(filepath.Join(s.dir, filepath.Base(fileID)))
}

func (s *diskReceiptStore) Delete(ctx context.Context, fileID string) error {
	return os.Remove(filepath.Join(s.dir, filepath.Base(fileID)))
}
