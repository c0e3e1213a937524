package operations

import (
	"context"
	"fmt"
	"path"
	"sync/atomic"
	"time"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/eventhub/filestore"
	"github.com/rise-and-shine/eventhub/imagefs/ref"
	"github.com/rise-and-shine/eventhub/imagefs/types"
)

const maxNameAttempts = 16

// NameGenerator produces staged file names of the form <prefix>-<ms timestamp>.<ext>.
//
// Timestamps are strictly increasing within the process, and a candidate is
// skipped when the staged file or its compressed sibling already exists, so two
// uploads in the same millisecond never share a name.
type NameGenerator struct {
	store filestore.FileStore
	now   func() time.Time
	last  atomic.Int64
}

// NewNameGenerator creates a generator. A nil clock means time.Now.
func NewNameGenerator(store filestore.FileStore, now func() time.Time) *NameGenerator {
	if now == nil {
		now = time.Now
	}
	return &NameGenerator{store: store, now: now}
}

// StagedPath returns a free path under <publicDir>/original for the given prefix and extension.
func (g *NameGenerator) StagedPath(ctx context.Context, publicDir, prefix, ext string) (string, error) {
	for range maxNameAttempts {
		name := fmt.Sprintf("%s-%d.%s", prefix, g.tick(), ext)
		staged := path.Join(publicDir, string(types.Original), name)

		taken, err := g.taken(ctx, staged)
		if err != nil {
			return "", errx.Wrap(err)
		}
		if !taken {
			return staged, nil
		}
	}

	return "", errx.New(
		"could not find a free file name",
		errx.WithDetails(errx.D{"prefix": prefix, "attempts": maxNameAttempts}),
	)
}

// tick returns the next strictly increasing millisecond timestamp.
func (g *NameGenerator) tick() int64 {
	for {
		prev := g.last.Load()
		ts := g.now().UnixMilli()
		if ts <= prev {
			ts = prev + 1
		}
		if g.last.CompareAndSwap(prev, ts) {
			return ts
		}
	}
}

func (g *NameGenerator) taken(ctx context.Context, staged string) (bool, error) {
	for _, p := range []string{
		staged,
		ref.VariantPath(staged, types.Compressed),
		ref.VariantPath(staged, types.Miniature),
	} {
		exists, err := g.store.Exists(ctx, p)
		if err != nil {
			return false, errx.Wrap(err)
		}
		if exists {
			return true, nil
		}
	}
	return false, nil
}
