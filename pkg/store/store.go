// Package store abstracts the persistence engine behind the generated
// routes. The route composer issues one logical operation per request stage
// and composes no multi-step transactions itself.
package store

import (
	"context"
	"errors"
)

// ErrNotFound reports that the target entity instance does not exist. Store
// implementations return it instead of throwing for "not found"; the route
// composer maps it to HTTP 404.
var ErrNotFound = errors.New("store: entity not found")

// EntityStore exposes the five primitive operations the built-in query
// defaults are composed from, plus a field lookup used by the login flow.
// The model argument is the registered model value; implementations derive
// concrete record types from it.
type EntityStore interface {
	// Create inserts a new record built from value and returns it.
	Create(ctx context.Context, model any, value map[string]any) (any, error)

	// FindByKey returns the record with the given primary key.
	FindByKey(ctx context.Context, model any, key string) (any, error)

	// FindAll returns every record as a slice value.
	FindAll(ctx context.Context, model any) (any, error)

	// FindByField returns the first record whose named attribute equals value.
	FindByField(ctx context.Context, model any, field string, value any) (any, error)

	// Update applies value as a partial update to the record with the given
	// primary key and returns the updated record.
	Update(ctx context.Context, model any, key string, value map[string]any) (any, error)

	// Delete removes the record with the given primary key and returns its
	// last known state.
	Delete(ctx context.Context, model any, key string) (any, error)
}
