package operations

import (
	"bytes"
	"context"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/eventhub/filestore"
	"github.com/rise-and-shine/eventhub/imagefs/processor"
	"github.com/rise-and-shine/eventhub/imagefs/ref"
	"github.com/rise-and-shine/eventhub/imagefs/types"
)

// DeriveConfig holds the fixed miniature parameters.
type DeriveConfig struct {
	MiniatureWidth   int
	MiniatureQuality int
}

// Deriver writes the compressed and miniature variants of a staged original.
type Deriver struct {
	store filestore.FileStore
	codec processor.Codec
	cfg   DeriveConfig
}

// NewDeriver creates a variant deriver.
func NewDeriver(store filestore.FileStore, codec processor.Codec, cfg DeriveConfig) *Deriver {
	return &Deriver{store: store, codec: codec, cfg: cfg}
}

// Derive produces both variants of stagedPath and returns the compressed path.
// On failure any variant already written is left for the caller to remove.
func (d *Deriver) Derive(ctx context.Context, stagedPath string, quality int) (string, error) {
	compressedPath := ref.VariantPath(stagedPath, types.Compressed)
	miniaturePath := ref.VariantPath(stagedPath, types.Miniature)
	if compressedPath == stagedPath {
		return "", types.NewDerivationError("locate", errx.New("staged file is not inside a variant directory"))
	}
	ext := filestore.Ext(stagedPath)

	original, _, err := filestore.ReadAll(ctx, d.store, stagedPath)
	if err != nil {
		return "", types.NewDerivationError("read_original", err)
	}

	compressed, err := d.codec.Compress(original, ext, quality)
	if err != nil {
		return "", types.NewDerivationError("compress", err)
	}
	if err = d.write(ctx, compressedPath, compressed); err != nil {
		return "", types.NewDerivationError("write_compressed", err)
	}

	if err = ctx.Err(); err != nil {
		return "", types.NewDerivationError("resize", err)
	}
	resized, err := d.codec.Resize(original, ext, d.cfg.MiniatureWidth)
	if err != nil {
		return "", types.NewDerivationError("resize", err)
	}
	miniature, err := d.codec.Compress(resized, ext, d.cfg.MiniatureQuality)
	if err != nil {
		return "", types.NewDerivationError("compress_miniature", err)
	}
	if err = d.write(ctx, miniaturePath, miniature); err != nil {
		return "", types.NewDerivationError("write_miniature", err)
	}

	return compressedPath, nil
}

func (d *Deriver) write(ctx context.Context, p string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := d.store.Upload(ctx, p, bytes.NewReader(data))
	return err
}
