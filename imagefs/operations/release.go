package operations

import (
	"context"
	"errors"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/code19m/errx"
	"github.com/rise-and-shine/eventhub/filestore"
	"github.com/samber/lo"
)

// Releaser deletes files, retrying transient failures. Missing files count as released.
type Releaser struct {
	store    filestore.FileStore
	attempts uint
	delay    time.Duration
}

// NewReleaser creates a releaser.
func NewReleaser(store filestore.FileStore, attempts uint, delay time.Duration) *Releaser {
	return &Releaser{store: store, attempts: max(1, attempts), delay: delay}
}

// Release deletes every non-empty path and reports the ones that could not be removed.
func (r *Releaser) Release(ctx context.Context, paths ...string) error {
	var errs []error

	for _, p := range lo.Uniq(lo.Compact(paths)) {
		err := retry.Do(
			func() error { return r.store.Delete(ctx, p) },
			retry.Context(ctx),
			retry.Attempts(r.attempts),
			retry.Delay(r.delay),
			retry.LastErrorOnly(true),
			retry.RetryIf(func(err error) bool {
				return !errx.IsCodeIn(err, filestore.CodeFileNotFound, filestore.CodeInvalidPath)
			}),
		)
		if err != nil && !filestore.IsNotFound(err) {
			errs = append(errs, errx.Wrap(err, errx.WithDetails(errx.D{"path": p})))
		}
	}

	if len(errs) == 0 {
		return nil
	}
	return errx.Wrap(errors.Join(errs...))
}
