package entsync

import (
	"slices"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/cases"

	"inkwell/model"
)

// DetectLifeEventType guesses life event type from free text event title.
// This is a heuristic based on key words, not an authoritative classifier.
func DetectLifeEventType(e model.Event) (model.LifeEventType, bool) {
	title := cases.Fold().String(e.Title)
	switch {
	case strings.Contains(title, "marriage"), strings.Contains(title, "married"):
		return model.LifeEventTypeMarriage, true
	case strings.Contains(title, "friendship"), strings.Contains(title, "friend"):
		return model.LifeEventTypeFriendship, true
	case strings.Contains(title, "birth"), strings.Contains(title, "child"):
		return model.LifeEventTypeBirthOfChild, true
	}
	return "", false
}

// LifeEventTitle returns title of timeline event representing life event.
// Titles are recognized by DetectLifeEventType.
func LifeEventTitle(t model.LifeEventType, participants []string, characters []model.Character) string {
	switch t {
	case model.LifeEventTypeBirthOfChild:
		var child string
		if len(participants) > 0 {
			child = strings.Join(model.CharacterNames(characters, participants[:1]), "")
		}
		if child == "" {
			child = "Child"
		}
		return "Birth of " + child
	case model.LifeEventTypeMarriage:
		return strings.Join(model.CharacterNames(characters, participants), " & ") + " - Marriage"
	}
	return strings.Join(model.CharacterNames(characters, participants), " & ") + " - Friendship"
}

// existing returns participants resolving to known characters keeping
// order and dropping duplicates.
func existing(ids []string, characters []model.Character) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if model.CharacterIndex(characters, id) >= 0 && !slices.Contains(out, id) {
			out = append(out, id)
		}
	}
	return out
}

func sortedKey(ids []string) string {
	s := slices.Clone(ids)
	slices.Sort(s)
	return strings.Join(s, ",")
}

func hasRelationship(relationships []model.Relationship, t model.RelationshipType, ids []string) bool {
	return slices.ContainsFunc(relationships, func(r model.Relationship) bool {
		if r.Type != t {
			return false
		}
		if t.Symmetric() {
			return model.SameSet(r.CharacterIDs, ids)
		}
		return slices.Equal(r.CharacterIDs, ids)
	})
}

func sameLifeEvent(a, b model.LifeEvent) bool {
	return a.Type == b.Type && model.SameDate(a.Date, b.Date) && model.SameSet(a.Characters, b.Characters)
}

// SyncLifeEventToRelationships derives relationships from timeline event
// representing life event and records life event on every participant.
// For birth-of-child the first participant is the child, the rest are
// parents. Replaying the same event changes nothing.
func (s *Syncer) SyncLifeEventToRelationships(t model.LifeEventType, e model.Event, relationships []model.Relationship, characters []model.Character) ([]model.Relationship, []model.Character, Counts) {
	rels := model.CloneRelationships(relationships)
	chars := model.CloneCharacters(characters)
	var counts Counts

	participants := existing(e.Characters, chars)
	if len(participants) < 2 {
		s.log.Debug("Not enough participants for life event", zap.String("event", e.ID), zap.Stringer("type", t))
		return rels, chars, counts
	}
	date := model.CanonicalDate(e.Date)

	var derived [][]string
	var relType model.RelationshipType
	switch t {
	case model.LifeEventTypeMarriage:
		relType = model.RelationshipTypeSpouse
		derived = [][]string{participants}
	case model.LifeEventTypeFriendship:
		relType = model.RelationshipTypeFriend
		derived = [][]string{participants}
	case model.LifeEventTypeBirthOfChild:
		relType = model.RelationshipTypeParentChild
		child := participants[0]
		for _, parent := range participants[1:] {
			derived = append(derived, []string{parent, child})
		}
	default:
		return rels, chars, counts
	}

	for _, ids := range derived {
		if hasRelationship(rels, relType, ids) {
			continue
		}
		key := strings.Join(ids, ",")
		if relType.Symmetric() {
			key = sortedKey(ids)
		}
		rels = append(rels, model.Relationship{
			ID:           derivedID(string(model.DerivationKindRelationship), string(relType), key),
			Type:         relType,
			CharacterIDs: slices.Clone(ids),
			Description:  e.Title,
			StartDate:    date,
		})
		counts.Created++
		s.log.Debug("Relationship derived from life event", zap.String("event", e.ID), zap.Stringer("type", relType), zap.Strings("characters", ids))
	}

	le := model.LifeEvent{
		ID:         derivedID(string(model.DerivationKindLifeEvent), string(t), date, sortedKey(participants)),
		Type:       t,
		Date:       date,
		Characters: participants,
	}
	if t == model.LifeEventTypeBirthOfChild {
		le.ChildID = participants[0]
	}
	for _, id := range participants {
		c := &chars[model.CharacterIndex(chars, id)]
		if slices.ContainsFunc(c.LifeEvents, func(x model.LifeEvent) bool { return sameLifeEvent(x, le) }) {
			continue
		}
		c.LifeEvents = append(c.LifeEvents, le.Clone())
		counts.Updated++
	}
	return rels, chars, counts
}

// lifeEventParticipants returns ordered participants of life event: child
// first for births, the owning character is always included.
func lifeEventParticipants(owner string, le *model.LifeEvent) []string {
	ids := slices.Clone(le.Characters)
	if !slices.Contains(ids, owner) {
		ids = append(ids, owner)
	}
	if le.Type == model.LifeEventTypeBirthOfChild && le.ChildID != "" {
		ids = slices.DeleteFunc(ids, func(id string) bool { return id == le.ChildID })
		ids = append([]string{le.ChildID}, ids...)
	}
	return ids
}

func (s *Syncer) findLifeEventEvent(events []model.Event, owner string, le *model.LifeEvent) bool {
	return slices.ContainsFunc(events, func(e model.Event) bool {
		if d := e.DerivedFrom; d != nil && d.Kind == model.DerivationKindLifeEvent && d.LifeEventID == le.ID {
			return true
		}
		if !e.HasCharacter(owner) || !model.SameDate(e.Date, le.Date) {
			return false
		}
		t, ok := DetectLifeEventType(e)
		return ok && t == le.Type
	})
}

// SyncCharacterLifeEventsToTimeline makes sure every life event embedded in
// character has timeline event, creating missing ones and deriving their
// relationships.
func (s *Syncer) SyncCharacterLifeEventsToTimeline(c model.Character, events []model.Event, relationships []model.Relationship, characters []model.Character) ([]model.Event, []model.Relationship, []model.Character, Counts) {
	evs := model.CloneEvents(events)
	rels := model.CloneRelationships(relationships)
	chars := model.CloneCharacters(characters)
	var counts Counts

	for i := range c.LifeEvents {
		le := &c.LifeEvents[i]
		if s.findLifeEventEvent(evs, c.ID, le) {
			continue
		}
		participants := lifeEventParticipants(c.ID, le)
		e := model.Event{
			ID:          derivedID("timeline", string(model.DerivationKindLifeEvent), le.ID),
			Title:       LifeEventTitle(le.Type, participants, chars),
			Date:        model.CanonicalDate(le.Date),
			Characters:  participants,
			DerivedFrom: &model.Derivation{Kind: model.DerivationKindLifeEvent, CharacterID: c.ID, LifeEventID: le.ID},
		}
		evs = append(evs, e)
		counts.Created++
		s.log.Debug("Timeline event created for life event", zap.String("character", c.ID), zap.String("life_event", le.ID), zap.String("title", e.Title))

		var more Counts
		rels, chars, more = s.SyncLifeEventToRelationships(le.Type, e, rels, chars)
		counts = counts.Add(more)
	}
	return evs, rels, chars, counts
}
