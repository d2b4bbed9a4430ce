package storage

import (
	"context"
	"io"
)

// Uploader stores resume blobs. The returned path identifies the object in
// its backend (gs://bucket/key or s3://bucket/key).
type Uploader interface {
	Upload(ctx context.Context, objectName string, contentType string, r io.Reader, size int64) (storedPath string, err error)
	Close() error
}
