// Package store persists document snapshot between program runs. Snapshot is
// kept as a single opaque YAML blob, whatever backend is used.
package store

import (
	"context"
	"fmt"

	"github.com/gosimple/slug"
	"go.uber.org/zap"
	yaml "gopkg.in/yaml.v3"

	"inkwell/config"
	"inkwell/model"
)

// Store loads and saves complete document state. Save is only called after
// action has been fully applied.
type Store interface {
	Load(ctx context.Context) (*model.Snapshot, error)
	Save(ctx context.Context, snap *model.Snapshot) error
	Close() error
}

// Lister is implemented by stores able to keep more than one project.
type Lister interface {
	Projects(ctx context.Context) ([]string, error)
}

// Open creates store requested by configuration.
func Open(cfg *config.StoreConfig, log *zap.Logger) (Store, error) {
	switch cfg.Driver {
	case config.StoreDriverFile:
		return NewFileStore(cfg.Path, log), nil
	case config.StoreDriverSqlite:
		return NewSQLiteStore(cfg.Path, cfg.Project, log)
	}
	return nil, fmt.Errorf("unsupported store driver %q: %w", cfg.Driver, config.ErrInvalidStoreDriver)
}

// Key returns storage key for project name.
func Key(project string) string {
	if key := slug.Make(project); key != "" {
		return key
	}
	return "default"
}

func encode(snap *model.Snapshot) ([]byte, error) {
	data, err := yaml.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("unable to encode snapshot: %w", err)
	}
	return data, nil
}

// decode never fails: blob which could not be understood is replaced by
// empty document.
func decode(data []byte, where string, log *zap.Logger) *model.Snapshot {
	snap := &model.Snapshot{}
	if err := yaml.Unmarshal(data, snap); err != nil {
		log.Warn("Stored snapshot is malformed, starting with empty document", zap.String("location", where), zap.Error(err))
		return model.NewSnapshot()
	}
	snap.Normalize()
	return snap
}
