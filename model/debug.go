package model

import (
	"slices"
	"sort"

	"github.com/maruel/natural"

	"inkwell/utils/debug"
)

// String returns a readable tree of the whole snapshot. It exists solely for
// manual inspection during debugging and for debug reports.
func (s *Snapshot) String() string {
	if s == nil {
		return "<nil Snapshot>"
	}

	tw := debug.NewTreeWriter()

	tw.Line(0, "Characters: %d", len(s.Characters))
	for _, c := range sortedBy(s.Characters, func(c Character) string { return c.Name }) {
		tw.Line(1, "Character[%q] name=%q", c.ID, c.Name)
		tw.List(2, "Nicknames", c.Nicknames)
		tw.TextBlock(2, "DOB", c.DOB)
		tw.TextBlock(2, "Died", c.DeathDate)
		for _, le := range c.LifeEvents {
			tw.Line(2, "LifeEvent[%q] type=%s date=%q child=%q", le.ID, le.Type, le.Date, le.ChildID)
			tw.List(3, "Participants", le.Characters)
		}
	}

	tw.Line(0, "Events: %d", len(s.Events))
	for _, e := range sortedBy(s.Events, func(e Event) string { return e.Date + e.Title }) {
		tw.Line(1, "Event[%q] title=%q date=%q", e.ID, e.Title, e.Date)
		tw.List(2, "Participants", e.Characters)
		if d := e.DerivedFrom; d != nil {
			tw.Line(2, "Derived kind=%s character=%q field=%q relationship=%q life-event=%q",
				d.Kind, d.CharacterID, d.Field, d.RelationshipID, d.LifeEventID)
		}
	}

	tw.Line(0, "Relationships: %d", len(s.Relationships))
	for _, r := range s.Relationships {
		tw.Line(1, "Relationship[%q] type=%s start=%q end=%q", r.ID, r.Type, r.StartDate, r.EndDate)
		tw.List(2, "Participants", r.CharacterIDs)
	}

	tw.Line(0, "Chapters: %d", len(s.Chapters))
	for _, ch := range s.Chapters {
		tw.Line(1, "Chapter[%q] title=%q bytes=%d", ch.ID, ch.Title, len(ch.Content))
		tw.List(2, "Comments", ch.CommentIDs)
	}

	tw.Line(0, "Comments: %d", len(s.Comments))
	for _, c := range s.Comments {
		tw.Line(1, "Comment[%q] author=%q suggestion=%t hidden=%t previewing=%t", c.ID, c.Author, c.IsSuggestion, c.IsHidden, c.IsPreviewing)
		tw.TextBlock(2, "Text", c.Text)
	}
	return tw.String()
}

func sortedBy[T any](in []T, key func(T) string) []T {
	out := slices.Clone(in)
	keys := make(map[string][]T, len(out))
	names := make([]string, 0, len(out))
	for _, v := range out {
		k := key(v)
		if _, ok := keys[k]; !ok {
			names = append(names, k)
		}
		keys[k] = append(keys[k], v)
	}
	sort.Sort(natural.StringSlice(names))
	out = out[:0]
	for _, k := range names {
		out = append(out, keys[k]...)
	}
	return out
}
