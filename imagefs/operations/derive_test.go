package operations_test

import (
	"bytes"
	"context"
	"errors"
	"image"
	"testing"

	"github.com/code19m/errx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rise-and-shine/eventhub/filestore"
	"github.com/rise-and-shine/eventhub/imagefs/operations"
	"github.com/rise-and-shine/eventhub/imagefs/processor"
	"github.com/rise-and-shine/eventhub/imagefs/types"
)

var testDeriveConfig = operations.DeriveConfig{MiniatureWidth: 200, MiniatureQuality: 60}

type brokenCodec struct {
	processor.Codec
	failResize bool
}

func (c brokenCodec) Resize(src []byte, ext string, width int) ([]byte, error) {
	if c.failResize {
		return nil, errors.New("resize exploded")
	}
	return c.Codec.Resize(src, ext, width)
}

func TestDeriveWritesBothVariants(t *testing.T) {
	store := newStore(t)
	ctx := t.Context()
	_, err := store.Upload(ctx, "public/original/event-1.jpg", bytes.NewReader(jpegBytes(t, 800, 400)))
	require.NoError(t, err)

	d := operations.NewDeriver(store, processor.New(), testDeriveConfig)
	compressedPath, err := d.Derive(ctx, "public/original/event-1.jpg", 50)
	require.NoError(t, err)
	assert.Equal(t, "public/compressed/event-1.jpg", compressedPath)

	compressed, _, err := filestore.ReadAll(ctx, store, "public/compressed/event-1.jpg")
	require.NoError(t, err)
	cfg, _, err := image.DecodeConfig(bytes.NewReader(compressed))
	require.NoError(t, err)
	assert.Equal(t, 800, cfg.Width)
	assert.Equal(t, 400, cfg.Height)

	miniature, _, err := filestore.ReadAll(ctx, store, "public/miniature/event-1.jpg")
	require.NoError(t, err)
	cfg, _, err = image.DecodeConfig(bytes.NewReader(miniature))
	require.NoError(t, err)
	assert.Equal(t, 200, cfg.Width)
	assert.Equal(t, 100, cfg.Height)

	// the staged original is left for the caller to release
	assert.Contains(t, storedFiles(t, store), "public/original/event-1.jpg")
}

func TestDeriveFailures(t *testing.T) {
	tests := []struct {
		name     string
		staged   string
		content  []byte
		codec    processor.Codec
		ctx      func(context.Context) context.Context
		wantStep string
	}{
		{
			name:     "missing original",
			staged:   "public/original/missing.jpg",
			codec:    processor.New(),
			wantStep: "read_original",
		},
		{
			name:     "undecodable original",
			staged:   "public/original/user-1.heic",
			content:  []byte("not really a heic"),
			codec:    processor.New(),
			wantStep: "compress",
		},
		{
			name:     "miniature resize fails",
			staged:   "public/original/user-2.png",
			content:  pngBytes(t, 64, 64),
			codec:    brokenCodec{Codec: processor.New(), failResize: true},
			wantStep: "resize",
		},
		{
			name:    "cancelled context",
			staged:  "public/original/user-3.png",
			content: pngBytes(t, 64, 64),
			codec:   processor.New(),
			ctx: func(ctx context.Context) context.Context {
				ctx, cancel := context.WithCancel(ctx)
				cancel()
				return ctx
			},
		},
		{
			name:     "staged path outside a variant directory",
			staged:   "loose.png",
			content:  pngBytes(t, 4, 4),
			codec:    processor.New(),
			wantStep: "locate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := newStore(t)
			ctx := t.Context()
			if tt.content != nil {
				_, err := store.Upload(ctx, tt.staged, bytes.NewReader(tt.content))
				require.NoError(t, err)
			}
			if tt.ctx != nil {
				ctx = tt.ctx(ctx)
			}

			_, err := operations.NewDeriver(store, tt.codec, testDeriveConfig).Derive(ctx, tt.staged, 50)
			require.Error(t, err)
			assert.True(t, errx.IsCodeIn(err, types.CodeDerivationFailed), "got %v", err)
			if tt.wantStep != "" {
				assert.Equal(t, tt.wantStep, errx.AsErrorX(err).Details()["step"])
			}
		})
	}
}
