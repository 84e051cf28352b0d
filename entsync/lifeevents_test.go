package entsync

import (
	"slices"
	"testing"

	"inkwell/model"
)

func cast() []model.Character {
	return []model.Character{
		{ID: "c1", Name: "Alice"},
		{ID: "c2", Name: "Bob"},
		{ID: "child", Name: "Carol"},
		{ID: "p1", Name: "Dan"},
		{ID: "p2", Name: "Eve"},
	}
}

func TestDetectLifeEventType(t *testing.T) {
	tests := []struct {
		title string
		want  model.LifeEventType
		ok    bool
	}{
		{"Alice & Bob - Marriage", model.LifeEventTypeMarriage, true},
		{"They got MARRIED", model.LifeEventTypeMarriage, true},
		{"Best Friends forever", model.LifeEventTypeFriendship, true},
		{"Birth of Carol", model.LifeEventTypeBirthOfChild, true},
		{"A child arrives", model.LifeEventTypeBirthOfChild, true},
		{"Battle of the Bridge", "", false},
	}
	for _, tt := range tests {
		got, ok := DetectLifeEventType(model.Event{Title: tt.title})
		if got != tt.want || ok != tt.ok {
			t.Errorf("DetectLifeEventType(%q) = (%q, %v), want (%q, %v)", tt.title, got, ok, tt.want, tt.ok)
		}
	}
}

func TestMarriageHasNoDuplicates(t *testing.T) {
	s := newSyncer(t)
	ev := model.Event{ID: "wed", Title: "Wedding", Date: "1990-06-01T00:00:00Z", Characters: []string{"c1", "c2"}}

	rels, chars, counts := s.SyncLifeEventToRelationships(model.LifeEventTypeMarriage, ev, nil, cast())
	if counts != (Counts{Created: 1, Updated: 2}) {
		t.Errorf("counts = %+v", counts)
	}
	rels, chars, counts = s.SyncLifeEventToRelationships(model.LifeEventTypeMarriage, ev, rels, chars)
	if !counts.IsZero() {
		t.Errorf("replay counts = %+v", counts)
	}

	if len(rels) != 1 {
		t.Fatalf("got %d relationships, want 1", len(rels))
	}
	if rels[0].Type != model.RelationshipTypeSpouse || !model.SameSet(rels[0].CharacterIDs, []string{"c1", "c2"}) {
		t.Errorf("unexpected relationship %+v", rels[0])
	}
	if rels[0].StartDate != ev.Date {
		t.Errorf("start date = %q", rels[0].StartDate)
	}
	for _, id := range []string{"c1", "c2"} {
		c := chars[model.CharacterIndex(chars, id)]
		if len(c.LifeEvents) != 1 || c.LifeEvents[0].Type != model.LifeEventTypeMarriage {
			t.Errorf("%s life events %+v", id, c.LifeEvents)
		}
	}

	// reversed participants are the same marriage
	ev.Characters = []string{"c2", "c1"}
	if rels, _, _ = s.SyncLifeEventToRelationships(model.LifeEventTypeMarriage, ev, rels, chars); len(rels) != 1 {
		t.Errorf("reversed order created duplicate: %+v", rels)
	}
}

func TestBirthParentDirection(t *testing.T) {
	s := newSyncer(t)
	ev := model.Event{ID: "b", Title: "Birth of Carol", Date: "2001-01-01T00:00:00Z", Characters: []string{"child", "p1", "p2"}}

	rels, chars, counts := s.SyncLifeEventToRelationships(model.LifeEventTypeBirthOfChild, ev, nil, cast())
	if counts.Created != 2 {
		t.Errorf("counts = %+v", counts)
	}
	var pairs [][]string
	for _, r := range rels {
		if r.Type != model.RelationshipTypeParentChild {
			t.Errorf("unexpected type %s", r.Type)
		}
		pairs = append(pairs, r.CharacterIDs)
	}
	want := [][]string{{"p1", "child"}, {"p2", "child"}}
	if !slices.EqualFunc(pairs, want, slices.Equal) {
		t.Errorf("pairs = %v, want %v", pairs, want)
	}

	carol := chars[model.CharacterIndex(chars, "child")]
	if len(carol.LifeEvents) != 1 || carol.LifeEvents[0].ChildID != "child" {
		t.Errorf("child life events %+v", carol.LifeEvents)
	}
}

func TestFriendshipAllParticipants(t *testing.T) {
	s := newSyncer(t)
	ev := model.Event{ID: "f", Title: "Club", Date: "2001-01-01T00:00:00Z", Characters: []string{"c1", "c2", "p1"}}
	rels, _, _ := s.SyncLifeEventToRelationships(model.LifeEventTypeFriendship, ev, nil, cast())
	if len(rels) != 1 || rels[0].Type != model.RelationshipTypeFriend || len(rels[0].CharacterIDs) != 3 {
		t.Errorf("unexpected relationships %+v", rels)
	}
}

func TestLifeEventNeedsTwoParticipants(t *testing.T) {
	s := newSyncer(t)
	ev := model.Event{ID: "w", Title: "Wedding", Characters: []string{"c1", "ghost"}}
	rels, chars, counts := s.SyncLifeEventToRelationships(model.LifeEventTypeMarriage, ev, nil, cast())
	if !counts.IsZero() || len(rels) != 0 || len(chars[0].LifeEvents) != 0 {
		t.Errorf("expected no-op, got %+v %+v", counts, rels)
	}
}

func TestSyncCharacterLifeEventsToTimeline(t *testing.T) {
	s := newSyncer(t)
	chars := cast()
	chars[0].LifeEvents = []model.LifeEvent{{
		ID:         "le1",
		Type:       model.LifeEventTypeMarriage,
		Date:       "1990-06-01T00:00:00Z",
		Characters: []string{"c1", "c2"},
	}}

	events, rels, chars, counts := s.SyncCharacterLifeEventsToTimeline(chars[0], nil, nil, chars)
	if counts.Created != 2 {
		t.Errorf("counts = %+v", counts)
	}
	if len(events) != 1 || events[0].Title != "Alice & Bob - Marriage" || events[0].DerivedFrom == nil {
		t.Fatalf("unexpected events %+v", events)
	}
	if len(rels) != 1 || rels[0].Type != model.RelationshipTypeSpouse {
		t.Errorf("unexpected relationships %+v", rels)
	}
	if len(chars[0].LifeEvents) != 1 || len(chars[1].LifeEvents) != 1 {
		t.Errorf("life events: %+v / %+v", chars[0].LifeEvents, chars[1].LifeEvents)
	}

	_, _, _, counts = s.SyncCharacterLifeEventsToTimeline(chars[0], events, rels, chars)
	if !counts.IsZero() {
		t.Errorf("replay counts = %+v", counts)
	}

	// event found by date, participant and title key words
	manual := []model.Event{{ID: "m", Title: "They married", Date: "1990-06-01", Characters: []string{"c1"}}}
	out, _, _, counts := s.SyncCharacterLifeEventsToTimeline(chars[0], manual, rels, chars)
	if len(out) != 1 || !counts.IsZero() {
		t.Errorf("manual event not recognized: %+v %+v", out, counts)
	}
}

func TestBirthLifeEventTimeline(t *testing.T) {
	s := newSyncer(t)
	chars := cast()
	i := model.CharacterIndex(chars, "p1")
	chars[i].LifeEvents = []model.LifeEvent{{
		ID:         "b1",
		Type:       model.LifeEventTypeBirthOfChild,
		Date:       "2001-01-01",
		Characters: []string{"p1", "child"},
		ChildID:    "child",
	}}
	events, rels, _, _ := s.SyncCharacterLifeEventsToTimeline(chars[i], nil, nil, chars)
	if len(events) != 1 || events[0].Title != "Birth of Carol" || !slices.Equal(events[0].Characters, []string{"child", "p1"}) {
		t.Fatalf("unexpected events %+v", events)
	}
	if len(rels) != 1 || !slices.Equal(rels[0].CharacterIDs, []string{"p1", "child"}) {
		t.Errorf("unexpected relationships %+v", rels)
	}
}
