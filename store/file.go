package store

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"inkwell/model"
)

// FileStore keeps snapshot in a single YAML file.
type FileStore struct {
	path string
	log  *zap.Logger
}

func NewFileStore(path string, log *zap.Logger) *FileStore {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileStore{path: path, log: log.Named("store")}
}

func (s *FileStore) Load(ctx context.Context) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.log.Debug("No stored snapshot, starting with empty document", zap.String("path", s.path))
		return model.NewSnapshot(), nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to read snapshot: %w", err)
	}
	return decode(data, s.path, s.log), nil
}

// Save replaces file content atomically, partially written snapshot is never
// visible.
func (s *FileStore) Save(ctx context.Context, snap *model.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encode(snap)
	if err != nil {
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("unable to save snapshot: %w", err)
	}
	defer os.Remove(f.Name())

	if _, err := f.Write(data); err != nil {
		f.Close()
		return fmt.Errorf("unable to save snapshot: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to save snapshot: %w", err)
	}
	if err := os.Rename(f.Name(), s.path); err != nil {
		return fmt.Errorf("unable to save snapshot: %w", err)
	}
	s.log.Debug("Snapshot saved", zap.String("path", s.path), zap.Int("size", len(data)))
	return nil
}

func (s *FileStore) Close() error {
	return nil
}
