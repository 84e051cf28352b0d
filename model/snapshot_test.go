package model

import (
	"strings"
	"testing"
)

func TestSnapshotNormalize(t *testing.T) {
	s := &Snapshot{
		Characters: []Character{{ID: "c1", Name: "John"}},
		Events:     []Event{{ID: "e1", Title: "Party"}},
		Chapters:   []Chapter{{ID: "ch1"}},
	}
	s.Normalize()

	if s.Relationships == nil || s.Comments == nil {
		t.Fatal("missing collections must be defaulted to empty")
	}
	if s.Characters[0].LifeEvents == nil {
		t.Error("life events must be defaulted to empty")
	}
	if s.Events[0].Characters == nil {
		t.Error("event participants must be defaulted to empty")
	}
	if s.Chapters[0].CommentIDs == nil {
		t.Error("chapter comment ids must be defaulted to empty")
	}
}

func TestSnapshotCloneIsDeep(t *testing.T) {
	s := &Snapshot{
		Characters: []Character{{
			ID:         "c1",
			Name:       "John",
			Nicknames:  []string{"Johnny"},
			LifeEvents: []LifeEvent{{ID: "le1", Type: LifeEventTypeMarriage, Characters: []string{"c1", "c2"}}},
		}},
		Events: []Event{{
			ID:          "e1",
			Characters:  []string{"c1"},
			DerivedFrom: &Derivation{Kind: DerivationKindLifeField, CharacterID: "c1", Field: LifeFieldDob},
		}},
		Relationships: []Relationship{{ID: "r1", Type: RelationshipTypeFriend, CharacterIDs: []string{"c1", "c2"}}},
		Chapters:      []Chapter{{ID: "ch1", CommentIDs: []string{"k1"}}},
		Comments:      []Comment{{ID: "k1"}},
	}

	c := s.Clone()
	c.Characters[0].Nicknames[0] = "changed"
	c.Characters[0].LifeEvents[0].Characters[0] = "changed"
	c.Events[0].Characters[0] = "changed"
	c.Events[0].DerivedFrom.CharacterID = "changed"
	c.Relationships[0].CharacterIDs[0] = "changed"
	c.Chapters[0].CommentIDs[0] = "changed"
	c.Comments[0].ID = "changed"

	switch {
	case s.Characters[0].Nicknames[0] != "Johnny",
		s.Characters[0].LifeEvents[0].Characters[0] != "c1",
		s.Events[0].Characters[0] != "c1",
		s.Events[0].DerivedFrom.CharacterID != "c1",
		s.Relationships[0].CharacterIDs[0] != "c1",
		s.Chapters[0].CommentIDs[0] != "k1",
		s.Comments[0].ID != "k1":
		t.Fatal("clone shares memory with the original")
	}
}

func TestSnapshotLookups(t *testing.T) {
	s := NewSnapshot()
	s.Characters = append(s.Characters, Character{ID: "c1", Name: "Alice"}, Character{ID: "c2", Name: "Bob"})

	if c := s.Character("c2"); c == nil || c.Name != "Bob" {
		t.Fatalf("Character() = %v", c)
	}
	if s.Character("missing") != nil {
		t.Error("expected nil for unknown id")
	}
	names := CharacterNames(s.Characters, []string{"c2", "missing", "c1"})
	if strings.Join(names, ",") != "Bob,Alice" {
		t.Errorf("CharacterNames() = %v", names)
	}
}

func TestSameSet(t *testing.T) {
	tests := []struct {
		a, b []string
		want bool
	}{
		{a: []string{"a", "b"}, b: []string{"b", "a"}, want: true},
		{a: []string{"a", "b", "b"}, b: []string{"b", "a"}, want: true},
		{a: []string{"a"}, b: []string{"a", "b"}, want: false},
		{a: []string{"a", "c"}, b: []string{"a", "b"}, want: false},
		{a: nil, b: []string{}, want: true},
	}
	for _, tt := range tests {
		if got := SameSet(tt.a, tt.b); got != tt.want {
			t.Errorf("SameSet(%v, %v) = %t, want %t", tt.a, tt.b, got, tt.want)
		}
	}
}

func TestSnapshotString(t *testing.T) {
	s := NewSnapshot()
	s.Characters = append(s.Characters,
		Character{ID: "c10", Name: "Zed"},
		Character{ID: "c2", Name: "Alice", DOB: "1990-01-01T00:00:00Z"})
	out := s.String()

	if !strings.Contains(out, "Characters: 2") {
		t.Errorf("missing header in %q", out)
	}
	if strings.Index(out, "Alice") > strings.Index(out, "Zed") {
		t.Error("characters must be ordered by name")
	}
	if !strings.Contains(out, `DOB: "1990-01-01T00:00:00Z"`) {
		t.Errorf("missing dob in %q", out)
	}
}

func TestRelationshipTypeEnum(t *testing.T) {
	if len(RelationshipTypeNames()) != 12 {
		t.Fatalf("expected 12 relationship types, got %d", len(RelationshipTypeNames()))
	}
	rt, err := ParseRelationshipType("parent-child")
	if err != nil || rt != RelationshipTypeParentChild {
		t.Fatalf("ParseRelationshipType() = %v, %v", rt, err)
	}
	if rt.Symmetric() {
		t.Error("parent-child must be directional")
	}
	if !RelationshipTypeSpouse.Symmetric() {
		t.Error("spouse must be symmetric")
	}
	if _, err := ParseRelationshipType("nemesis"); err == nil {
		t.Error("expected error for unknown type")
	}
}
