package pg

import (
	"context"
	"time"

	"github.com/uptrace/bun"
)

// Timestamps adds created_at and updated_at columns, embedded next to bun.BaseModel.
// Inserts stamp both unless CreatedAt is already set; updates stamp updated_at.
type Timestamps struct {
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

var _ bun.BeforeAppendModelHook = (*Timestamps)(nil)

func (t *Timestamps) BeforeAppendModel(_ context.Context, q bun.Query) error {
	now := time.Now().UTC()
	switch q.(type) {
	case *bun.InsertQuery:
		if t.CreatedAt.IsZero() {
			t.CreatedAt = now
		}
		t.UpdatedAt = now
	case *bun.UpdateQuery:
		t.UpdatedAt = now
	}
	return nil
}
