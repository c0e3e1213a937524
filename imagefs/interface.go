package imagefs

import (
	"context"
	"mime/multipart"

	"github.com/rise-and-shine/eventhub/imagefs/operations"
	"github.com/rise-and-shine/eventhub/imagefs/types"
)

// StagedFile is an accepted upload waiting for derivation.
type StagedFile = operations.StagedFile

// CommitFunc persists the final reference on the owning entity.
// It receives the new reference, the unchanged previous one, or "" when the image is cleared.
type CommitFunc func(ctx context.Context, reference string) error

// Attempt is a single image replacement on one entity.
type Attempt struct {
	// Staged is the gated upload; nil means nothing was uploaded.
	Staged *StagedFile
	// Previous is the entity's current reference, possibly empty.
	Previous string
	// Quality is the recompression quality of the compressed variant.
	Quality int
}

// AssetService is the image asset pipeline as seen by entity handlers.
type AssetService interface {
	// Stage validates the single file under field and writes it to the staging area.
	// A nil result with a nil error means no file was uploaded.
	Stage(ctx context.Context, form *multipart.Form, field, prefix string) (*StagedFile, error)

	// Discard removes a staged file that will not be applied.
	Discard(ctx context.Context, staged *StagedFile)

	// Apply derives variants for the staged file, commits the reference and releases the previous assets.
	// It returns the reference that was committed.
	Apply(ctx context.Context, at Attempt, commit CommitFunc) (string, error)

	// Clear commits an empty reference and then releases the previous assets.
	Clear(ctx context.Context, previous string, commit CommitFunc) error

	// Release deletes both durable variants of reference.
	Release(ctx context.Context, reference string) error

	// Inline renders a variant of reference as a data URI, or nil when unavailable.
	Inline(ctx context.Context, reference string, variant types.Variant) *string

	// ProfileQuality is the quality for user profile images.
	ProfileQuality() int

	// CoverQuality is the quality for event and activity cover images.
	CoverQuality() int
}
