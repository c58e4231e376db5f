package storage

import (
	"context"
	"io"
	"time"
)

// Provider is the object storage contract the lifecycle needs: bulk delete
// for purges, signed URLs for uploads/downloads. The cloud provider is an
// external collaborator; the local backend exists so the whole lifecycle
// runs without one.
type Provider interface {
	// DeleteObjects removes the given objects. It returns the keys that
	// could not be removed; callers log those and move on. Purge is
	// never blocked on storage cleanup.
	DeleteObjects(ctx context.Context, keys []string) (failed []string, err error)

	// SignedUploadURL returns a URL a client can PUT file bytes to.
	SignedUploadURL(ctx context.Context, key, contentType string, expiresIn time.Duration) (string, error)

	// SignedDownloadURL returns a URL a client can GET file bytes from.
	SignedDownloadURL(ctx context.Context, key string, expiresIn time.Duration) (string, error)

	// Save and Open back the signed URLs on the local backend.
	Save(key string, reader io.Reader) error
	Open(key string) (io.ReadCloser, error)
}
