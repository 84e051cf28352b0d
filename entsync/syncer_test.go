package entsync

import (
	"reflect"
	"testing"

	"go.uber.org/zap/zaptest"

	"inkwell/model"
)

func newSyncer(t *testing.T) *Syncer {
	t.Helper()
	s, err := NewSyncer(Config{}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSyncer: %v", err)
	}
	return s
}

const day1990 = "1990-01-01T00:00:00Z"

func TestSyncCharacterToEventsCreate(t *testing.T) {
	s := newSyncer(t)
	c := model.Character{ID: "c1", Name: "John", DOB: "01/01/1990", DeathDate: "2050-05-06"}

	events, counts := s.SyncCharacterToEvents(c, nil, nil)
	if counts != (Counts{Created: 2}) {
		t.Fatalf("counts = %+v", counts)
	}
	if len(events) != 2 {
		t.Fatalf("got %d events, want 2", len(events))
	}
	born, died := events[0], events[1]
	if born.Title != "John Born" || born.Date != day1990 || !reflect.DeepEqual(born.Characters, []string{"c1"}) {
		t.Errorf("unexpected born event %+v", born)
	}
	if died.Title != "John Died" || died.Date != "2050-05-06T00:00:00Z" {
		t.Errorf("unexpected died event %+v", died)
	}
	if born.DerivedFrom == nil || born.DerivedFrom.Field != model.LifeFieldDob || born.DerivedFrom.CharacterID != "c1" {
		t.Errorf("born event is not linked: %+v", born.DerivedFrom)
	}
}

func TestSyncCharacterToEventsIdempotent(t *testing.T) {
	s := newSyncer(t)
	prev := model.Character{ID: "c1", Name: "John", DOB: "01/01/1990"}
	c := model.Character{ID: "c1", Name: "Johnny", DOB: "02/03/1991"}
	events := []model.Event{{ID: "x", Title: "Other", Characters: []string{"c2"}}}

	first, _ := s.SyncCharacterToEvents(c, &prev, events)
	again, _ := s.SyncCharacterToEvents(c, &prev, events)
	if !reflect.DeepEqual(first, again) {
		t.Fatalf("same input produced different output:\n%+v\n%+v", first, again)
	}

	second, counts := s.SyncCharacterToEvents(c, &prev, first)
	if !counts.IsZero() {
		t.Errorf("second pass counts = %+v, want zero", counts)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("second pass changed events:\n%+v\n%+v", first, second)
	}
}

func TestRenameCascade(t *testing.T) {
	s := newSyncer(t)
	prev := model.Character{ID: "c1", Name: "John", DOB: "01/01/1990"}
	renamed := model.Character{ID: "c1", Name: "Johnny", DOB: "01/01/1990"}

	t.Run("title matched", func(t *testing.T) {
		events := []model.Event{{ID: "ev1", Title: "John Born", Date: day1990, Characters: []string{"c1"}}}
		out, counts := s.SyncCharacterToEvents(renamed, &prev, events)
		if len(out) != 1 || out[0].ID != "ev1" || out[0].Title != "Johnny Born" {
			t.Fatalf("unexpected events %+v", out)
		}
		if counts.Created != 0 || counts.Deleted != 0 {
			t.Errorf("counts = %+v", counts)
		}
		if out[0].DerivedFrom == nil {
			t.Error("matched event was not linked")
		}
	})

	t.Run("linked", func(t *testing.T) {
		events, _ := s.SyncCharacterToEvents(prev, nil, nil)
		id := events[0].ID
		out, counts := s.SyncCharacterToEvents(renamed, &prev, events)
		if len(out) != 1 || out[0].ID != id || out[0].Title != "Johnny Born" {
			t.Fatalf("unexpected events %+v", out)
		}
		if counts != (Counts{Updated: 1}) {
			t.Errorf("counts = %+v", counts)
		}
	})

	t.Run("manual title kept", func(t *testing.T) {
		events, _ := s.SyncCharacterToEvents(prev, nil, nil)
		events[0].Title = "The day John arrived"
		moved := renamed
		moved.DOB = "1990-02-02"
		out, _ := s.SyncCharacterToEvents(moved, &prev, events)
		if len(out) != 1 || out[0].Title != "The day John arrived" || out[0].Date != "1990-02-02T00:00:00Z" {
			t.Errorf("unexpected events %+v", out)
		}
	})

	t.Run("other participant", func(t *testing.T) {
		events := []model.Event{{ID: "ev1", Title: "John Born", Date: day1990, Characters: []string{"c9"}}}
		out, counts := s.SyncCharacterToEvents(renamed, &prev, events)
		if out[0].Title != "John Born" {
			t.Errorf("foreign event renamed: %+v", out[0])
		}
		if counts.Created != 1 || len(out) != 2 {
			t.Errorf("counts = %+v, events %+v", counts, out)
		}
	})
}

func TestFieldUpdateAndClear(t *testing.T) {
	s := newSyncer(t)
	c := model.Character{ID: "c1", Name: "John", DOB: "01/01/1990"}
	events, _ := s.SyncCharacterToEvents(c, nil, nil)
	id := events[0].ID

	moved := c
	moved.DOB = "1991-06-07"
	events, counts := s.SyncCharacterToEvents(moved, &c, events)
	if counts != (Counts{Updated: 1}) || events[0].ID != id || events[0].Date != "1991-06-07T00:00:00Z" {
		t.Fatalf("update in place failed: %+v %+v", counts, events)
	}

	cleared := moved
	cleared.DOB = ""
	events, counts = s.SyncCharacterToEvents(cleared, &moved, events)
	if counts != (Counts{Deleted: 1}) || len(events) != 0 {
		t.Fatalf("clear did not delete event: %+v %+v", counts, events)
	}
}

func TestClearOnEventDeleteSymmetry(t *testing.T) {
	s := newSyncer(t)
	characters := []model.Character{{ID: "c1", Name: "John", DOB: day1990}, {ID: "c2", Name: "Mary", DOB: day1990}}
	events, _ := s.SyncCharacterToEvents(characters[0], nil, nil)

	out, counts := s.ClearCharacterFieldsOnEventDelete(events[0], characters)
	if counts != (Counts{Updated: 1}) {
		t.Errorf("counts = %+v", counts)
	}
	if out[0].DOB != "" || out[1].DOB != day1990 {
		t.Errorf("unexpected characters %+v", out)
	}
	if characters[0].DOB != day1990 {
		t.Error("input was modified")
	}

	legacy := model.Event{ID: "l", Title: "Mary Born", Characters: []string{"c2"}}
	out, _ = s.ClearCharacterFieldsOnEventDelete(legacy, characters)
	if out[1].DOB != "" {
		t.Error("title matched event did not clear field")
	}

	unrelated := model.Event{ID: "u", Title: "Mary Born", Characters: []string{"c1"}}
	if _, counts := s.ClearCharacterFieldsOnEventDelete(unrelated, characters); !counts.IsZero() {
		t.Errorf("unrelated event cleared fields: %+v", counts)
	}
}

func TestSyncEventToCharacters(t *testing.T) {
	s := newSyncer(t)
	characters := []model.Character{{ID: "c1", Name: "John", DOB: day1990}}
	events, _ := s.SyncCharacterToEvents(characters[0], nil, nil)

	edited := events[0].Clone()
	edited.Date = "03/04/1992"
	out, counts := s.SyncEventToCharacters(edited, &events[0], characters)
	if counts != (Counts{Updated: 1}) || out[0].DOB != "1992-03-04T00:00:00Z" {
		t.Errorf("date not written back: %+v %+v", counts, out)
	}

	if _, counts := s.SyncEventToCharacters(events[0], &events[0], characters); !counts.IsZero() {
		t.Errorf("unchanged event produced counts %+v", counts)
	}

	died := model.Event{ID: "d", Title: "John Died", Date: "2000-01-01", Characters: []string{"c1"}}
	out, _ = s.SyncEventToCharacters(died, nil, characters)
	if out[0].DeathDate != "2000-01-01T00:00:00Z" {
		t.Errorf("death date not written: %+v", out[0])
	}

	other := model.Event{ID: "o", Title: "Battle", Date: "2000-01-01", Characters: []string{"c1"}}
	if _, counts := s.SyncEventToCharacters(other, nil, characters); !counts.IsZero() {
		t.Errorf("regular event changed characters: %+v", counts)
	}
}

func TestCustomLabels(t *testing.T) {
	s, err := NewSyncer(Config{BornLabel: "was born", DiedLabel: "passed away"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("NewSyncer: %v", err)
	}
	events, _ := s.SyncCharacterToEvents(model.Character{ID: "a", Name: "Ann", DOB: day1990, DeathDate: day1990}, nil, nil)
	if events[0].Title != "Ann was born" || events[1].Title != "Ann passed away" {
		t.Errorf("unexpected titles %q %q", events[0].Title, events[1].Title)
	}
}
