package operations

import (
	"context"
	"encoding/base64"

	"github.com/rise-and-shine/eventhub/filestore"
	"github.com/rise-and-shine/eventhub/imagefs/ref"
	"github.com/rise-and-shine/eventhub/imagefs/types"
	"github.com/rise-and-shine/eventhub/logger"
)

// Reader loads a stored variant and renders it as a data URI.
type Reader struct {
	store filestore.FileStore
	log   logger.Logger
}

// NewReader creates a reader.
func NewReader(store filestore.FileStore, log logger.Logger) *Reader {
	return &Reader{store: store, log: log}
}

// Inline returns "data:<mime>;base64,<payload>" for the requested variant of reference.
// An empty reference yields nil silently. Unreadable files are logged and also yield nil,
// so callers never fail a read because an asset went missing.
func (r *Reader) Inline(ctx context.Context, reference string, variant types.Variant) *string {
	if reference == "" {
		return nil
	}

	parsed, err := ref.Parse(reference)
	if err != nil {
		r.log.WithContext(ctx).Warnx(types.NewAssetReadError(reference, err))
		return nil
	}
	if variant != "" {
		parsed = parsed.Variant(variant)
	}

	data, _, err := filestore.ReadAll(ctx, r.store, parsed.Path)
	if err != nil {
		r.log.WithContext(ctx).Warnx(types.NewAssetReadError(parsed.Path, err))
		return nil
	}

	uri := DataURI(parsed.MimeType, data)
	return &uri
}

// DataURI encodes data as a base64 data URI.
func DataURI(mimeType string, data []byte) string {
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(data)
}
