package store

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"zombiezen.com/go/sqlite"
	"zombiezen.com/go/sqlite/sqlitex"

	"inkwell/model"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// SQLiteStore keeps snapshots of many projects in a single database, one
// row per project.
type SQLiteStore struct {
	conn *sqlite.Conn
	key  string
	log  *zap.Logger
}

func NewSQLiteStore(path, project string, log *zap.Logger) (*SQLiteStore, error) {
	if log == nil {
		log = zap.NewNop()
	}
	conn, err := sqlite.OpenConn(path, sqlite.OpenReadWrite, sqlite.OpenCreate, sqlite.OpenWAL)
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", path, err)
	}
	if err := sqlitex.ExecuteScript(conn, schema, nil); err != nil {
		conn.Close()
		return nil, fmt.Errorf("prepare database %s: %w", path, err)
	}
	return &SQLiteStore{conn: conn, key: Key(project), log: log.Named("store")}, nil
}

func (s *SQLiteStore) Load(ctx context.Context) (*model.Snapshot, error) {
	defer s.conn.SetInterrupt(s.conn.SetInterrupt(ctx.Done()))

	var (
		value string
		found bool
	)
	err := sqlitex.Execute(s.conn, `SELECT value FROM documents WHERE key = ?`,
		&sqlitex.ExecOptions{
			Args: []any{s.key},
			ResultFunc: func(stmt *sqlite.Stmt) error {
				value, found = stmt.ColumnText(0), true
				return nil
			}})
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", s.key, err)
	}
	if !found {
		s.log.Debug("No stored snapshot, starting with empty document", zap.String("key", s.key))
		return model.NewSnapshot(), nil
	}
	return decode([]byte(value), s.key, s.log), nil
}

func (s *SQLiteStore) Save(ctx context.Context, snap *model.Snapshot) error {
	defer s.conn.SetInterrupt(s.conn.SetInterrupt(ctx.Done()))

	data, err := encode(snap)
	if err != nil {
		return err
	}
	err = sqlitex.Execute(s.conn, `
INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)
ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		&sqlitex.ExecOptions{Args: []any{s.key, string(data), time.Now().UTC().Format(time.RFC3339)}})
	if err != nil {
		return fmt.Errorf("write snapshot %s: %w", s.key, err)
	}
	s.log.Debug("Snapshot saved", zap.String("key", s.key), zap.Int("size", len(data)))
	return nil
}

// Projects lists keys of all stored documents.
func (s *SQLiteStore) Projects(ctx context.Context) ([]string, error) {
	defer s.conn.SetInterrupt(s.conn.SetInterrupt(ctx.Done()))

	var keys []string
	err := sqlitex.Execute(s.conn, `SELECT key FROM documents ORDER BY key`,
		&sqlitex.ExecOptions{ResultFunc: func(stmt *sqlite.Stmt) error {
			keys = append(keys, stmt.ColumnText(0))
			return nil
		}})
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return keys, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}
