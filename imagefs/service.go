// Package imagefs implements the image asset pipeline: it stages uploads,
// derives compressed and miniature variants, hands a reference to the caller
// for persistence and keeps the file store free of orphaned files.
package imagefs

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/code19m/errx"
	"github.com/rise-and-shine/eventhub/filestore"
	"github.com/rise-and-shine/eventhub/imagefs/operations"
	"github.com/rise-and-shine/eventhub/imagefs/processor"
	"github.com/rise-and-shine/eventhub/imagefs/ref"
	"github.com/rise-and-shine/eventhub/imagefs/types"
	"github.com/rise-and-shine/eventhub/logger"
	"github.com/rise-and-shine/eventhub/val"
)

// Service implements the AssetService interface.
type Service struct {
	cfg     Config
	log     logger.Logger
	metrics *Metrics

	gate     *operations.Gate
	deriver  *operations.Deriver
	reader   *operations.Reader
	releaser *operations.Releaser
}

var _ AssetService = (*Service)(nil)

type options struct {
	codec   processor.Codec
	now     func() time.Time
	log     logger.Logger
	metrics *Metrics
}

// Option customises a Service.
type Option func(*options)

// WithCodec replaces the default imaging codec.
func WithCodec(codec processor.Codec) Option {
	return func(o *options) { o.codec = codec }
}

// WithClock replaces time.Now for file naming.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLogger replaces the global logger.
func WithLogger(log logger.Logger) Option {
	return func(o *options) { o.log = log }
}

// WithMetrics records lifecycle metrics on m.
func WithMetrics(m *Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// NewService creates the pipeline on top of store.
func NewService(store filestore.FileStore, cfg Config, opts ...Option) (*Service, error) {
	if err := val.ValidateSchema(cfg); err != nil {
		return nil, errx.Wrap(err)
	}

	o := options{codec: processor.New(), now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = logger.Named("imagefs")
	}

	return &Service{
		cfg:      cfg,
		log:      o.log,
		metrics:  o.metrics,
		gate:     operations.NewGate(store, operations.NewNameGenerator(store, o.now), cfg.gateConfig()),
		deriver:  operations.NewDeriver(store, o.codec, cfg.deriveConfig()),
		reader:   operations.NewReader(store, o.log),
		releaser: operations.NewReleaser(store, cfg.ReleaseAttempts, cfg.ReleaseDelay),
	}, nil
}

func (s *Service) ProfileQuality() int { return s.cfg.ProfileQuality }

func (s *Service) CoverQuality() int { return s.cfg.CoverQuality }

func (s *Service) Stage(ctx context.Context, form *multipart.Form, field, prefix string) (*StagedFile, error) {
	staged, err := s.gate.Stage(ctx, form, field, prefix)
	if err != nil {
		return nil, errx.Wrap(err)
	}
	if staged != nil {
		s.metrics.staged(staged.Size)
		s.transition(s.log.WithContext(ctx).With("staged_path", staged.Path, "size", staged.Size), types.StateGated, nil)
	}
	return staged, nil
}

func (s *Service) Discard(ctx context.Context, staged *StagedFile) {
	if staged == nil {
		return
	}
	s.release(context.WithoutCancel(ctx), s.log.WithContext(ctx), staged.Path)
}

// Apply runs one attempt through the lifecycle:
//
//	START -> GATED -> DERIVED -> COMMITTED [-> OLD_ASSET_CLEANED]
//	GATED -> FAILED_DERIVATION -> CLEANED
//	DERIVED -> FAILED_COMMIT -> CLEANED
//
// Cleanup runs detached from the request context so a cancelled request still leaves no files behind.
func (s *Service) Apply(ctx context.Context, at Attempt, commit CommitFunc) (string, error) {
	log := s.log.WithContext(ctx)

	if at.Staged == nil {
		if err := commit(ctx, at.Previous); err != nil {
			return "", types.NewCommitError(err)
		}
		return at.Previous, nil
	}

	log = log.With("staged_path", at.Staged.Path)
	cleanupCtx := context.WithoutCancel(ctx)
	newPaths := []string{
		ref.VariantPath(at.Staged.Path, types.Compressed),
		ref.VariantPath(at.Staged.Path, types.Miniature),
	}

	compressedPath, err := s.derive(ctx, at.Staged.Path, at.Quality)
	s.release(cleanupCtx, log, at.Staged.Path)
	if err != nil {
		s.transition(log, types.StateFailedDerivation, err)
		s.release(cleanupCtx, log, newPaths...)
		s.transition(log, types.StateCleaned, nil)
		return "", errx.Wrap(err)
	}

	reference, err := ref.Encode(at.Staged.MimeType, compressedPath)
	if err != nil {
		err = types.NewDerivationError("encode_reference", err)
		s.transition(log, types.StateFailedDerivation, err)
		s.release(cleanupCtx, log, newPaths...)
		s.transition(log, types.StateCleaned, nil)
		return "", err
	}
	s.transition(log.With("reference", reference), types.StateDerived, nil)

	if err = commit(ctx, reference); err != nil {
		err = types.NewCommitError(err)
		s.transition(log, types.StateFailedCommit, err)
		s.release(cleanupCtx, log, newPaths...)
		s.transition(log, types.StateCleaned, nil)
		return "", err
	}
	s.transition(log.With("reference", reference), types.StateCommitted, nil)

	if at.Previous != "" && at.Previous != reference {
		s.releaseReference(cleanupCtx, log, at.Previous)
	}

	return reference, nil
}

func (s *Service) Clear(ctx context.Context, previous string, commit CommitFunc) error {
	if err := commit(ctx, ""); err != nil {
		return types.NewCommitError(err)
	}
	if previous != "" {
		s.releaseReference(context.WithoutCancel(ctx), s.log.WithContext(ctx), previous)
	}
	return nil
}

func (s *Service) Release(ctx context.Context, reference string) error {
	if reference == "" {
		return nil
	}
	r, err := ref.Parse(reference)
	if err != nil {
		return errx.Wrap(err)
	}
	return errx.Wrap(s.releaser.Release(ctx, r.Variant(types.Compressed).Path, r.Variant(types.Miniature).Path))
}

func (s *Service) Inline(ctx context.Context, reference string, variant types.Variant) *string {
	return s.reader.Inline(ctx, reference, variant)
}

func (s *Service) derive(ctx context.Context, stagedPath string, quality int) (string, error) {
	if s.cfg.DeriveTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.cfg.DeriveTimeout)
		defer cancel()
	}
	start := time.Now()
	defer func() { s.metrics.derived(time.Since(start)) }()
	return s.deriver.Derive(ctx, stagedPath, quality)
}

// releaseReference removes the variants of a superseded reference. Failures are logged only.
func (s *Service) releaseReference(ctx context.Context, log logger.Logger, reference string) {
	log = log.With("previous_reference", reference)
	if err := s.Release(ctx, reference); err != nil {
		log.Warnx(err)
		return
	}
	s.transition(log, types.StateOldAssetCleaned, nil)
}

func (s *Service) release(ctx context.Context, log logger.Logger, paths ...string) {
	if err := s.releaser.Release(ctx, paths...); err != nil {
		log.Warnx(err)
	}
}

func (s *Service) transition(log logger.Logger, state types.State, err error) {
	s.metrics.transition(state)
	log = log.With("state", state)
	if err != nil {
		log.Errorx(err)
		return
	}
	log.Debug("asset state changed")
}
