// Package dataset persists the employee table behind a pluggable backend.
package dataset

import (
	"context"
	"errors"

	"hrtool/internal/core"
)

// ErrNotFound is returned by a Backend when nothing has been persisted yet.
var ErrNotFound = errors.New("dataset not found")

// Ports for storage adapters.
type (
	// Backend holds the persisted form of the dataset. Write replaces the
	// whole content; there are no partial updates.
	Backend interface {
		Read(ctx context.Context) (core.RawTable, error)
		Write(ctx context.Context, table core.RawTable) error
	}

	// Loader is the read side of a Store, used by handlers and the worker.
	Loader interface {
		Load(ctx context.Context) (core.Table, error)
	}
)
