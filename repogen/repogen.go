// Package repogen provides generic repositories for bun models.
//
// A repository is parameterised by the entity type E and a filter type F; the
// filter is turned into WHERE clauses by a caller supplied function, so every
// entity gets Get/List/Exists/Create/Update/Delete without hand-written SQL.
package repogen

import (
	"context"
)

// ReadOnlyRepo defines a generic read-only repository interface for entities of type E
// with filter type F.
type ReadOnlyRepo[E any, F any] interface {
	// Get retrieves a single entity matching the provided filters.
	// Returns an error with the repository's not-found code when nothing matches.
	Get(ctx context.Context, filters F) (*E, error)
	// List returns all entities matching the provided filters.
	List(ctx context.Context, filters F) ([]E, error)
	// ListWithCount returns a page of entities and the total number of matches.
	ListWithCount(ctx context.Context, filters F) ([]E, int, error)
	// FirstOrNil returns the first entity matching the filters, or nil if none found.
	FirstOrNil(ctx context.Context, filters F) (*E, error)
	// Exists checks if any entity matches the filters.
	Exists(ctx context.Context, filters F) (bool, error)
}

// Repo defines a generic read-write repository interface for entities of type E
// with filter type F.
type Repo[E any, F any] interface {
	ReadOnlyRepo[E, F]
	// Create inserts a new entity and returns it with database generated columns filled in.
	Create(ctx context.Context, entity *E) (*E, error)
	// Update writes every column of an existing entity, matched by primary key.
	Update(ctx context.Context, entity *E) (*E, error)
	// Delete removes an entity, matched by primary key.
	Delete(ctx context.Context, entity *E) error
}
