package entsync

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"inkwell/model"
)

// RelationshipEvent renders title and description of the timeline event
// for relationship between named characters.
func (s *Syncer) RelationshipEvent(t model.RelationshipType, names []string, date string) (string, string) {
	values := &relationshipValues{Type: string(t), Names: names, Date: model.FormatDate(date)}
	if len(names) > 0 {
		values.Parent = names[0]
	}
	if len(names) > 1 {
		values.Child = names[1]
	}

	tmpl, ok := s.templates[t]
	if !ok {
		tmpl = s.templates[model.RelationshipTypeOther]
	}
	title, err := execute(tmpl.title, values)
	if err != nil || title == "" {
		s.log.Warn("Unable to expand relationship event title, using fallback", zap.Stringer("type", t), zap.Error(err))
		title = strings.Join(names, " & ") + " - Relationship"
	}
	description, err := execute(tmpl.description, values)
	if err != nil {
		s.log.Warn("Unable to expand relationship event description", zap.Stringer("type", t), zap.Error(err))
		description = ""
	}
	return title, description
}

// SyncRelationshipToEvent synthesizes single timeline event describing the
// start of a new relationship. Nothing is done without start date, with
// fewer than two named characters or when equivalent event exists.
func (s *Syncer) SyncRelationshipToEvent(r model.Relationship, events []model.Event, characters []model.Character) ([]model.Event, Counts) {
	out := model.CloneEvents(events)
	var counts Counts

	date := model.CanonicalDate(r.StartDate)
	if date == "" {
		return out, counts
	}
	var ids, names []string
	for _, id := range r.CharacterIDs {
		i := model.CharacterIndex(characters, id)
		if i < 0 || characters[i].Name == "" || slices.Contains(ids, id) {
			continue
		}
		ids = append(ids, id)
		names = append(names, characters[i].Name)
	}
	if len(names) < 2 {
		s.log.Debug("Not enough named characters for relationship event", zap.String("relationship", r.ID))
		return out, counts
	}

	title, description := s.RelationshipEvent(r.Type, names, date)
	for _, e := range out {
		if d := e.DerivedFrom; d != nil && d.Kind == model.DerivationKindRelationship && d.RelationshipID == r.ID {
			return out, counts
		}
		if e.Title == title && model.SameDate(e.Date, date) && model.SameSet(e.Characters, ids) {
			s.log.Debug("Equivalent relationship event exists", zap.String("relationship", r.ID), zap.String("event", e.ID))
			return out, counts
		}
	}

	out = append(out, model.Event{
		ID:          derivedID(string(model.DerivationKindRelationship), r.ID),
		Title:       title,
		Date:        date,
		Description: description,
		Characters:  ids,
		DerivedFrom: &model.Derivation{Kind: model.DerivationKindRelationship, RelationshipID: r.ID},
	})
	counts.Created++
	s.log.Debug("Relationship event created", zap.String("relationship", r.ID), zap.String("title", title))
	return out, counts
}
