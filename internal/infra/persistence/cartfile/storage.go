// Package cartfile persists cart mirrors as JSON files, one per storage
// key, under a configurable directory.
package cartfile

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"

	"hotellee/internal/domain/entity"
	"hotellee/internal/domain/repository"

	"github.com/pkg/errors"
)

// Storage implements repository.CartStorage on the local filesystem.
type Storage struct {
	dir    string
	logger *slog.Logger
}

// NewStorage creates the mirror directory if needed.
func NewStorage(dir string, logger *slog.Logger) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "failed to create cart mirror directory")
	}

	return &Storage{dir: dir, logger: logger}, nil
}

// Load reads the persisted line sequence. A missing or corrupt file yields
// an empty sequence and no error.
func (s *Storage) Load(ctx context.Context, key string) ([]entity.CartLine, error) {
	raw, err := os.ReadFile(s.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return []entity.CartLine{}, nil
		}

		return nil, errors.Wrap(err, "failed to read cart mirror")
	}

	var lines []entity.CartLine
	if err := json.Unmarshal(raw, &lines); err != nil {
		s.logger.Warn("Cart mirror is corrupt, starting with an empty cart",
			slog.String("key", key),
			slog.Any("error", err))

		return []entity.CartLine{}, nil
	}
	if lines == nil {
		lines = []entity.CartLine{}
	}

	return lines, nil
}

// Save overwrites the persisted line sequence. The write goes through a
// temp file plus rename so a crash mid-write cannot corrupt the mirror.
func (s *Storage) Save(ctx context.Context, key string, lines []entity.CartLine) error {
	if lines == nil {
		lines = []entity.CartLine{}
	}

	raw, err := json.Marshal(lines)
	if err != nil {
		return errors.Wrap(err, "failed to encode cart mirror")
	}

	path := s.path(key)
	tmp, err := os.CreateTemp(s.dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return errors.Wrap(err, "failed to create cart mirror temp file")
	}

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return errors.Wrap(err, "failed to write cart mirror")
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())

		return errors.Wrap(err, "failed to close cart mirror temp file")
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())

		return errors.Wrap(err, "failed to replace cart mirror")
	}

	return nil
}

// Clear removes the persisted record. Clearing an absent record is not an
// error.
func (s *Storage) Clear(ctx context.Context, key string) error {
	if err := os.Remove(s.path(key)); err != nil && !os.IsNotExist(err) {
		return errors.Wrap(err, "failed to clear cart mirror")
	}

	return nil
}

// path maps a storage key onto a file name. Keys are derived from the fixed
// application key plus an owner ID, neither of which contains separators,
// but the base name is cleaned anyway.
func (s *Storage) path(key string) string {
	return filepath.Join(s.dir, filepath.Base(key)+".json")
}

var _ repository.CartStorage = (*Storage)(nil)
