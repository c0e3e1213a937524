// Package operations implements the individual steps of the image asset pipeline:
// staging uploads, deriving variants, reading them back and releasing files.
package operations

import (
	"context"
	"fmt"
	"io"
	"mime"
	"mime/multipart"
	"strings"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/eventhub/filestore"
	"github.com/rise-and-shine/eventhub/imagefs/ref"
	"github.com/rise-and-shine/eventhub/imagefs/types"
	"github.com/samber/lo"
)

// StagedFile describes an accepted upload written to the original variant directory.
type StagedFile struct {
	Path         string
	MimeType     string
	OriginalName string
	Size         int64
}

// GateConfig holds the acceptance rules of the upload gate.
type GateConfig struct {
	PublicDir         string
	AllowedExtensions []string
	MaxFileSize       int64
}

// Gate validates an uploaded file and stages it under <public>/original.
type Gate struct {
	store filestore.FileStore
	names *NameGenerator
	cfg   GateConfig
}

// NewGate creates an upload gate.
func NewGate(store filestore.FileStore, names *NameGenerator, cfg GateConfig) *Gate {
	return &Gate{store: store, names: names, cfg: cfg}
}

// Stage accepts at most one file under field.
// A nil result with a nil error means nothing was uploaded.
func (g *Gate) Stage(ctx context.Context, form *multipart.Form, field, prefix string) (*StagedFile, error) {
	if form == nil {
		return nil, nil //nolint:nilnil // nothing uploaded
	}

	files := form.File[field]
	switch len(files) {
	case 0:
		return nil, nil //nolint:nilnil // nothing uploaded
	case 1:
		return g.StageFile(ctx, files[0], prefix)
	default:
		return nil, types.NewMalformedUpload(
			fmt.Sprintf("expected a single file under %q, got %d", field, len(files)),
			nil,
		)
	}
}

// StageFile validates a single multipart file and writes it to the staging area.
// Nothing is written when validation fails.
func (g *Gate) StageFile(ctx context.Context, fh *multipart.FileHeader, prefix string) (*StagedFile, error) {
	if fh == nil {
		return nil, nil //nolint:nilnil // nothing uploaded
	}
	if prefix == "" || strings.ContainsAny(prefix, "/\\"+ref.Delimiter) {
		return nil, errx.New(fmt.Sprintf("invalid file name prefix %q", prefix))
	}

	ext := filestore.Ext(fh.Filename)
	if !lo.Contains(g.cfg.AllowedExtensions, ext) {
		return nil, types.NewUnsupportedType(ext, g.cfg.AllowedExtensions)
	}
	if fh.Size > g.cfg.MaxFileSize {
		return nil, types.NewFileTooLarge(fh.Size, g.cfg.MaxFileSize)
	}

	src, err := fh.Open()
	if err != nil {
		return nil, types.NewMalformedUpload("uploaded file cannot be opened", err)
	}
	defer src.Close()

	stagedPath, err := g.names.StagedPath(ctx, g.cfg.PublicDir, prefix, ext)
	if err != nil {
		return nil, errx.Wrap(err)
	}

	info, err := g.store.Upload(ctx, stagedPath, io.LimitReader(src, g.cfg.MaxFileSize+1))
	if err != nil {
		g.discard(ctx, stagedPath)
		return nil, errx.Wrap(err)
	}
	if info.Size > g.cfg.MaxFileSize {
		g.discard(ctx, stagedPath)
		return nil, types.NewFileTooLarge(info.Size, g.cfg.MaxFileSize)
	}

	return &StagedFile{
		Path:         stagedPath,
		MimeType:     declaredMimeType(fh, ext),
		OriginalName: fh.Filename,
		Size:         info.Size,
	}, nil
}

func (g *Gate) discard(ctx context.Context, p string) {
	_ = g.store.Delete(context.WithoutCancel(ctx), p)
}

// declaredMimeType prefers the part's Content-Type and falls back to the extension.
func declaredMimeType(fh *multipart.FileHeader, ext string) string {
	mediaType, _, err := mime.ParseMediaType(fh.Header.Get("Content-Type"))
	if err != nil || filestore.IsGeneric(mediaType) || strings.Contains(mediaType, ref.Delimiter) {
		return filestore.ContentTypeByExtension(ext)
	}
	return mediaType
}
