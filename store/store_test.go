package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"
	"zombiezen.com/go/sqlite/sqlitex"

	"inkwell/config"
	"inkwell/model"
)

func sample() *model.Snapshot {
	snap := model.NewSnapshot()
	snap.Characters = append(snap.Characters, model.Character{
		ID:         "c1",
		Name:       "Alice",
		DOB:        "1990-01-01T00:00:00Z",
		LifeEvents: []model.LifeEvent{},
	})
	snap.Events = append(snap.Events, model.Event{
		ID:          "e1",
		Title:       "Alice Born",
		Date:        "1990-01-01T00:00:00Z",
		Characters:  []string{"c1"},
		DerivedFrom: &model.Derivation{Kind: model.DerivationKindLifeField, CharacterID: "c1", Field: model.LifeFieldDob},
	})
	snap.Chapters = append(snap.Chapters, model.Chapter{
		ID:         "ch1",
		Title:      "One",
		Content:    `Hello <mention id="c1">Alice</mention>`,
		CommentIDs: []string{},
	})
	return snap
}

func TestKey(t *testing.T) {
	tests := map[string]string{
		"My Novel":       "my-novel",
		"":               "default",
		"  ":             "default",
		"Second  Book 2": "second-book-2",
	}
	for in, want := range tests {
		if got := Key(in); got != want {
			t.Errorf("Key(%q) = %q, want %q", in, got, want)
		}
	}
}

func testRoundTrip(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	empty, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load() empty: %v", err)
	}
	if !reflect.DeepEqual(empty, model.NewSnapshot()) {
		t.Errorf("expected empty snapshot, got %+v", empty)
	}

	want := sample()
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save(): %v", err)
	}
	got, err := s.Load(ctx)
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Load() = %s\nwant %s", got, want)
	}

	want.Characters[0].Name = "Alicia"
	if err := s.Save(ctx, want); err != nil {
		t.Fatalf("Save() again: %v", err)
	}
	if got, _ = s.Load(ctx); got.Characters[0].Name != "Alicia" {
		t.Errorf("second save not visible: %+v", got.Characters)
	}
}

func TestFileStore(t *testing.T) {
	s := NewFileStore(filepath.Join(t.TempDir(), "doc.yaml"), zaptest.NewLogger(t))
	defer s.Close()
	testRoundTrip(t, s)
}

func TestFileStoreMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, []byte("characters: {not: [a list"), 0644); err != nil {
		t.Fatal(err)
	}
	snap, err := NewFileStore(path, zaptest.NewLogger(t)).Load(context.Background())
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if !reflect.DeepEqual(snap, model.NewSnapshot()) {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestFileStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewFileStore(filepath.Join(t.TempDir(), "doc.yaml"), zaptest.NewLogger(t))
	if _, err := s.Load(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("Load() error = %v", err)
	}
	if err := s.Save(ctx, sample()); !errors.Is(err, context.Canceled) {
		t.Errorf("Save() error = %v", err)
	}
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "codex.db"), "My Novel", zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSQLiteStore(): %v", err)
	}
	defer s.Close()
	testRoundTrip(t, s)
}

func TestSQLiteStoreProjects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "codex.db")
	log := zaptest.NewLogger(t)
	ctx := context.Background()

	first, err := NewSQLiteStore(path, "First Book", log)
	if err != nil {
		t.Fatal(err)
	}
	defer first.Close()
	second, err := NewSQLiteStore(path, "Second Book", log)
	if err != nil {
		t.Fatal(err)
	}
	defer second.Close()

	if err := first.Save(ctx, sample()); err != nil {
		t.Fatal(err)
	}
	snap, err := second.Load(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(snap.Characters) != 0 {
		t.Error("projects are not isolated")
	}
	if err := second.Save(ctx, snap); err != nil {
		t.Fatal(err)
	}

	keys, err := first.Projects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(keys, []string{"first-book", "second-book"}) {
		t.Errorf("Projects() = %v", keys)
	}
}

func TestSQLiteStoreMalformed(t *testing.T) {
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "codex.db"), "broken", zaptest.NewLogger(t))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	err = sqlitex.Execute(s.conn, `INSERT INTO documents (key, value, updated_at) VALUES (?, ?, ?)`,
		&sqlitex.ExecOptions{Args: []any{"broken", "- [unbalanced", "2024-01-01T00:00:00Z"}})
	if err != nil {
		t.Fatal(err)
	}
	snap, err := s.Load(context.Background())
	if err != nil {
		t.Fatalf("Load(): %v", err)
	}
	if !reflect.DeepEqual(snap, model.NewSnapshot()) {
		t.Errorf("expected empty snapshot, got %+v", snap)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()
	log := zaptest.NewLogger(t)

	s, err := Open(&config.StoreConfig{Driver: config.StoreDriverFile, Path: filepath.Join(dir, "doc.yaml")}, log)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*FileStore); !ok {
		t.Errorf("unexpected store %T", s)
	}
	s.Close()

	s, err = Open(&config.StoreConfig{Driver: config.StoreDriverSqlite, Path: filepath.Join(dir, "doc.db"), Project: "x"}, log)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := s.(*SQLiteStore); !ok {
		t.Errorf("unexpected store %T", s)
	}
	s.Close()

	if _, err := Open(&config.StoreConfig{Driver: "postgres"}, log); !errors.Is(err, config.ErrInvalidStoreDriver) {
		t.Errorf("Open() error = %v", err)
	}
}
