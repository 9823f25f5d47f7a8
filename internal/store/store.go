// Package store defines the persistence contract for the parcelle
// collection. Implementations persist the whole collection as one unit;
// there is no partial update and no store-level locking (the service layer
// serializes writers).
package store

import (
	"context"
	"fmt"

	"github.com/diewo77/go-parcelles/internal/models"
)

// Store persists the parcelle collection.
type Store interface {
	// Load returns the collection in insertion order. An empty store loads
	// as an empty slice. A corrupt payload also loads as empty: the list
	// screen must render no matter what is on disk.
	Load(ctx context.Context) ([]models.Parcelle, error)

	// Save replaces the persisted collection. From the caller's point of
	// view the write is atomic: readers never observe a partial state.
	Save(ctx context.Context, parcelles []models.Parcelle) error

	// Append persists Load() + [p]. Validation happens before this call.
	Append(ctx context.Context, p models.Parcelle) error

	// RemoveByID filters out the record with the given id. Removing an
	// unknown id is a no-op.
	RemoveByID(ctx context.Context, id string) error

	// Clear empties the store.
	Clear(ctx context.Context) error
}

// StorageError wraps a read/write failure of the underlying backend. The
// triggering operation aborts and the message is surfaced to the user; the
// caller's in-memory state is not rolled back.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }
