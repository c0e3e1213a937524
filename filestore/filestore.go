// Package filestore abstracts where asset files live. Paths are slash separated and
// relative to the store root, e.g. "public/compressed/a.png"; localfs keeps them on
// disk and miniowr in a bucket.
package filestore

import (
	"context"
	"io"
	"time"

	"github.com/code19m/errx"
)

// FileStore is safe for concurrent use. Get and Delete fail with FILE_NOT_FOUND
// when nothing is stored at path, and every method rejects paths CleanPath refuses.
type FileStore interface {
	// Upload stores the content of r at path, replacing what was there.
	Upload(ctx context.Context, path string, r io.Reader) (*FileInfo, error)
	// Get opens the file at path. The caller closes File.Content.
	Get(ctx context.Context, path string) (*File, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// File is an open stored file.
type File struct {
	Content io.ReadCloser
	Info    FileInfo
}

type FileInfo struct {
	Path         string
	Size         int64
	ContentType  string
	ETag         string
	LastModified time.Time
}

// ReadAll returns the whole content of the file at path.
func ReadAll(ctx context.Context, store FileStore, path string) ([]byte, *FileInfo, error) {
	f, err := store.Get(ctx, path)
	if err != nil {
		return nil, nil, errx.Wrap(err)
	}
	defer f.Content.Close()

	data, err := io.ReadAll(f.Content)
	if err != nil {
		return nil, nil, errx.Wrap(err, errx.WithDetails(errx.D{"path": path}))
	}
	return data, &f.Info, nil
}
