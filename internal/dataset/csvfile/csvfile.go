// Package csvfile persists the dataset as a single CSV file.
package csvfile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"hrtool/internal/core"
	"hrtool/internal/dataset"
	"hrtool/internal/tabfile"
)

// DefaultPath is where the dataset lives unless configured otherwise.
const DefaultPath = "./data/hr_dataset.csv"

type Store struct {
	path string
}

var _ dataset.Backend = (*Store)(nil)

func New(path string) *Store {
	if path == "" {
		path = DefaultPath
	}
	return &Store{path: path}
}

// Path returns the backing file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Read(ctx context.Context) (core.RawTable, error) {
	if err := ctx.Err(); err != nil {
		return core.RawTable{}, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return core.RawTable{}, dataset.ErrNotFound
	}
	if err != nil {
		return core.RawTable{}, fmt.Errorf("read %s: %w", s.path, err)
	}
	raw, err := tabfile.ReadCSV(bytes.NewReader(data))
	if errors.Is(err, tabfile.ErrEmpty) {
		return core.RawTable{}, dataset.ErrNotFound
	}
	return raw, err
}

// Write replaces the file content in full.
func (s *Store) Write(ctx context.Context, raw core.RawTable) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if dir := filepath.Dir(s.path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data directory: %w", err)
		}
	}
	var buf bytes.Buffer
	if err := tabfile.WriteCSV(&buf, raw); err != nil {
		return err
	}
	if err := os.WriteFile(s.path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}
