// Package memory keeps the persisted dataset in process memory.
package memory

import (
	"context"
	"sync"

	"hrtool/internal/core"
	"hrtool/internal/dataset"
)

type Store struct {
	mu     sync.Mutex
	table  core.RawTable
	saved  bool
	writes int
}

var _ dataset.Backend = (*Store)(nil)

func New() *Store {
	return &Store{}
}

// NewWith returns a store that already holds raw.
func NewWith(raw core.RawTable) *Store {
	return &Store{table: clone(raw), saved: true}
}

func (s *Store) Read(_ context.Context) (core.RawTable, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.saved {
		return core.RawTable{}, dataset.ErrNotFound
	}
	return clone(s.table), nil
}

func (s *Store) Write(_ context.Context, raw core.RawTable) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.table = clone(raw)
	s.saved = true
	s.writes++
	return nil
}

// Writes returns how many times the dataset was overwritten.
func (s *Store) Writes() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writes
}

func clone(raw core.RawTable) core.RawTable {
	out := core.RawTable{
		Header: append([]string(nil), raw.Header...),
		Rows:   make([][]string, len(raw.Rows)),
	}
	for i, row := range raw.Rows {
		out.Rows[i] = append([]string(nil), row...)
	}
	return out
}
