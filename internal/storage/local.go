package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// LocalProvider implements Provider on the local filesystem. It stands in
// for the cloud object store in development and tests; the signed URLs it
// hands out point back at the server's own upload/download endpoints.
type LocalProvider struct {
	baseURL   string
	objectDir string
}

func NewLocalProvider(baseURL, uploadDir string) (*LocalProvider, error) {
	objectDir := filepath.Join(uploadDir, "objects")
	if err := os.MkdirAll(objectDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create objects directory: %w", err)
	}
	return &LocalProvider{
		baseURL:   baseURL,
		objectDir: objectDir,
	}, nil
}

func (p *LocalProvider) DeleteObjects(ctx context.Context, keys []string) ([]string, error) {
	var failed []string
	for _, key := range keys {
		fullPath := filepath.Join(p.objectDir, key)
		if err := os.Remove(fullPath); err != nil && !os.IsNotExist(err) {
			failed = append(failed, key)
		}
	}
	if len(failed) > 0 {
		return failed, fmt.Errorf("failed to delete %d of %d objects", len(failed), len(keys))
	}
	return nil, nil
}

func (p *LocalProvider) SignedUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, error) {
	// Token keeps the URL shape of a real presigned URL; the key travels
	// in the query so the upload handler knows where to put the bytes.
	token := uuid.New().String()
	return fmt.Sprintf("%s/api/v1/upload/%s?key=%s", p.baseURL, token, key), nil
}

func (p *LocalProvider) SignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error) {
	token := uuid.New().String()
	return fmt.Sprintf("%s/api/v1/download/%s?key=%s", p.baseURL, token, key), nil
}

func (p *LocalProvider) Save(key string, reader io.Reader) error {
	fullPath := filepath.Join(p.objectDir, key)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		return fmt.Errorf("failed to create directories: %w", err)
	}

	file, err := os.Create(fullPath)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer file.Close()

	if _, err := io.Copy(file, reader); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	return nil
}

func (p *LocalProvider) Open(key string) (io.ReadCloser, error) {
	file, err := os.Open(filepath.Join(p.objectDir, key))
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return file, nil
}
