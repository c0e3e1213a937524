// Package localfs provides a local filesystem implementation of the filestore.FileStore interface.
package localfs

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/code19m/errx"

	"github.com/rise-and-shine/eventhub/filestore"
)

const (
	dirPerm  = 0o755
	filePerm = 0o644

	tmpPattern = ".upload-*"
)

// Config defines the configuration options for the local filesystem store.
type Config struct {
	// Root is the directory every stored path is resolved against.
	Root string `yaml:"root" default:"."`
}

// Store implements the filestore.FileStore interface on top of a local directory.
type Store struct {
	root string
}

// New creates a store rooted at cfg.Root, creating the directory if needed.
func New(cfg Config) (*Store, error) {
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	if err = os.MkdirAll(root, dirPerm); err != nil {
		return nil, errx.Wrap(err)
	}
	return &Store{root: root}, nil
}

// Root returns the absolute root directory.
func (s *Store) Root() string {
	return s.root
}

// Upload writes the content to a temporary file next to the target and renames it into place,
// so readers never observe a partially written file.
func (s *Store) Upload(ctx context.Context, p string, reader io.Reader) (*filestore.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, errx.Wrap(err)
	}

	target, err := s.resolve(p)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	dir := filepath.Dir(target)
	if err = os.MkdirAll(dir, dirPerm); err != nil {
		return nil, errx.Wrap(err)
	}

	tmp, err := os.CreateTemp(dir, tmpPattern)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	tmpName := tmp.Name()

	size, err := io.Copy(tmp, reader)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Chmod(tmpName, filePerm)
	}
	if err == nil {
		err = os.Rename(tmpName, target)
	}
	if err != nil {
		_ = os.Remove(tmpName)
		return nil, errx.Wrap(err, errx.WithDetails(errx.D{"path": p}))
	}

	stat, err := os.Stat(target)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	return &filestore.FileInfo{
		Path:         p,
		Size:         size,
		ContentType:  filestore.ContentTypeByExtension(p),
		ETag:         etag(stat),
		LastModified: stat.ModTime(),
	}, nil
}

// Get opens the file at the specified path.
func (s *Store) Get(ctx context.Context, p string) (*filestore.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, errx.Wrap(err)
	}

	target, err := s.resolve(p)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	f, err := os.Open(target)
	if err != nil {
		return nil, errx.Wrap(wrapFSError(err, p))
	}

	stat, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, errx.Wrap(err)
	}
	if stat.IsDir() {
		_ = f.Close()
		return nil, filestore.ErrNotFound(p)
	}

	return &filestore.File{
		Content: f,
		Info: filestore.FileInfo{
			Path:         p,
			Size:         stat.Size(),
			ContentType:  filestore.ContentTypeByExtension(p),
			ETag:         etag(stat),
			LastModified: stat.ModTime(),
		},
	}, nil
}

// Delete removes the file at the specified path.
func (s *Store) Delete(ctx context.Context, p string) error {
	if err := ctx.Err(); err != nil {
		return errx.Wrap(err)
	}

	target, err := s.resolve(p)
	if err != nil {
		return errx.Wrap(err)
	}

	if err = os.Remove(target); err != nil {
		return errx.Wrap(wrapFSError(err, p))
	}
	return nil
}

// Exists checks if a regular file exists at the specified path.
func (s *Store) Exists(ctx context.Context, p string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, errx.Wrap(err)
	}

	target, err := s.resolve(p)
	if err != nil {
		return false, errx.Wrap(err)
	}

	stat, err := os.Stat(target)
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	if err != nil {
		return false, errx.Wrap(err)
	}
	return !stat.IsDir(), nil
}

// resolve maps a slash separated store path to an absolute filesystem path inside the root.
func (s *Store) resolve(p string) (string, error) {
	clean, err := filestore.CleanPath(p)
	if err != nil {
		return "", err
	}
	local := filepath.FromSlash(clean)
	if !filepath.IsLocal(local) {
		return "", filestore.ErrInvalidPath(p)
	}
	return filepath.Join(s.root, local), nil
}

func wrapFSError(err error, p string) error {
	if errors.Is(err, fs.ErrNotExist) {
		return filestore.ErrNotFound(p)
	}
	return err
}

func etag(stat fs.FileInfo) string {
	return fmt.Sprintf("%x-%x", stat.ModTime().UnixNano(), stat.Size())
}
