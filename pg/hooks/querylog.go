// Package hooks holds bun query hooks.
package hooks

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"github.com/rise-and-shine/eventhub/logger"
)

var _ bun.QueryHook = (*QueryLogHook)(nil)

// QueryLogHook logs failed and slow queries, and optionally every query.
type QueryLogHook struct {
	log        logger.Logger
	allQueries bool
	slow       time.Duration
	now        func() time.Time
}

type Option func(*QueryLogHook)

// WithAllQueries logs successful queries at debug level too.
func WithAllQueries(enabled bool) Option {
	return func(h *QueryLogHook) { h.allQueries = enabled }
}

// WithSlowQueryThreshold sets the duration from which a query is logged as slow. Zero disables it.
func WithSlowQueryThreshold(d time.Duration) Option {
	return func(h *QueryLogHook) { h.slow = d }
}

// WithClock replaces time.Now when measuring query duration.
func WithClock(now func() time.Time) Option {
	return func(h *QueryLogHook) { h.now = now }
}

// NewQueryLogHook creates a hook writing to log.
func NewQueryLogHook(log logger.Logger, opts ...Option) *QueryLogHook {
	h := &QueryLogHook{log: log, now: time.Now}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func (h *QueryLogHook) BeforeQuery(ctx context.Context, _ *bun.QueryEvent) context.Context {
	return ctx
}

func (h *QueryLogHook) AfterQuery(ctx context.Context, event *bun.QueryEvent) {
	took := h.now().Sub(event.StartTime)

	// sql.ErrNoRows and sql.ErrTxDone are outcomes the repositories handle themselves.
	failed := event.Err != nil && !errors.Is(event.Err, sql.ErrNoRows) && !errors.Is(event.Err, sql.ErrTxDone)
	slow := h.slow > 0 && took >= h.slow
	if !failed && !slow && !h.allQueries {
		return
	}

	log := h.log.WithContext(ctx).With(
		"operation", event.Operation(),
		"query", strings.ReplaceAll(event.Query, `"`, ""),
		"duration", took.Round(time.Microsecond),
	)

	switch {
	case failed:
		log.With("error", event.Err.Error()).Error("query failed")
	case slow:
		log.Warn("slow query")
	default:
		log.Debug("query executed")
	}
}
