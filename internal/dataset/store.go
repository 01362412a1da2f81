package dataset

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"hrtool/internal/core"
)

// Store loads and saves the normalized employee table.
// It takes no lock across a load and the following save: two concurrent
// appends race and the last save wins.
type Store struct {
	backend Backend
}

var _ Loader = (*Store)(nil)

func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Load returns the persisted table, normalized. An empty table is returned
// when nothing has been saved yet.
func (s *Store) Load(ctx context.Context) (core.Table, error) {
	raw, err := s.backend.Read(ctx)
	if errors.Is(err, ErrNotFound) {
		return core.Table{Rows: []core.Employee{}}, nil
	}
	if err != nil {
		return core.Table{}, fmt.Errorf("read dataset: %w", err)
	}
	return core.Normalize(raw), nil
}

// Save normalizes raw and overwrites the persisted dataset with it.
func (s *Store) Save(ctx context.Context, raw core.RawTable) (core.Table, error) {
	table := core.Normalize(raw)
	if err := s.SaveTable(ctx, table); err != nil {
		return core.Table{}, err
	}
	return table, nil
}

// SaveTable overwrites the persisted dataset with an already normalized table.
func (s *Store) SaveTable(ctx context.Context, table core.Table) error {
	if err := s.backend.Write(ctx, table.Persisted()); err != nil {
		return fmt.Errorf("write dataset: %w", err)
	}
	slog.DebugContext(ctx, "Dataset saved", "rows", table.Len())
	return nil
}

// Append adds one employee to the persisted dataset and returns the
// resulting table. The record is stored as given; Vacation Days Total is
// not recomputed.
func (s *Store) Append(ctx context.Context, e core.Employee) (core.Table, error) {
	current, err := s.Load(ctx)
	if err != nil {
		return core.Table{}, err
	}
	next := core.Normalize(current.Append(e).Raw())
	if err := s.SaveTable(ctx, next); err != nil {
		return core.Table{}, err
	}
	return next, nil
}

// Ping checks that the backend can be read.
func (s *Store) Ping(ctx context.Context) error {
	_, err := s.backend.Read(ctx)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}
