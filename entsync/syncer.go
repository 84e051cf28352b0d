// Package entsync keeps characters, timeline events, embedded life events
// and relationships consistent after a single entity edit.
//
// Sync functions are pure: they never modify their arguments, return
// updated copies and never fail. Inputs are expected to be validated and
// dates normalized before a sync function is called.
package entsync

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inkwell/model"
)

// Default titles suffixes of events derived from character life fields.
const (
	DefaultBornLabel = "Born"
	DefaultDiedLabel = "Died"
)

// Counts of derived records touched by a sync step.
type Counts struct {
	Created int `yaml:"created"`
	Updated int `yaml:"updated"`
	Deleted int `yaml:"deleted"`
}

// Add returns sum of counts.
func (c Counts) Add(o Counts) Counts {
	return Counts{Created: c.Created + o.Created, Updated: c.Updated + o.Updated, Deleted: c.Deleted + o.Deleted}
}

// IsZero reports nothing was changed.
func (c Counts) IsZero() bool {
	return c == Counts{}
}

// Config of the syncer.
type Config struct {
	BornLabel string
	DiedLabel string
	Templates map[model.RelationshipType]EventTemplate
}

// Syncer holds labels and templates used to synthesize derived events.
type Syncer struct {
	born, died string
	templates  map[model.RelationshipType]compiledTemplate
	log        *zap.Logger
}

// NewSyncer compiles relationship templates. Empty labels select defaults.
func NewSyncer(cfg Config, log *zap.Logger) (*Syncer, error) {
	if log == nil {
		log = zap.NewNop()
	}
	templates, err := compileTemplates(cfg.Templates)
	if err != nil {
		return nil, err
	}
	s := &Syncer{
		born:      cfg.BornLabel,
		died:      cfg.DiedLabel,
		templates: templates,
		log:       log.Named("sync"),
	}
	if s.born == "" {
		s.born = DefaultBornLabel
	}
	if s.died == "" {
		s.died = DefaultDiedLabel
	}
	return s, nil
}

// all derived ids live in this namespace
var derivedNamespace = uuid.MustParse("9c1d7a3e-52b4-4f0e-8a6d-2e4b7f19c058")

// derivedID returns stable id for derived record so replaying a sync
// produces identical output.
func derivedID(parts ...string) string {
	return uuid.NewSHA1(derivedNamespace, []byte(strings.Join(parts, "\x00"))).String()
}

type lifeField struct {
	field model.LifeField
	label string
}

func (s *Syncer) lifeFields() []lifeField {
	return []lifeField{
		{model.LifeFieldDob, s.born},
		{model.LifeFieldDeathDate, s.died},
	}
}

func (s *Syncer) label(f model.LifeField) string {
	if f == model.LifeFieldDeathDate {
		return s.died
	}
	return s.born
}

// LifeFieldTitle returns title of derived event for the character name.
func (s *Syncer) LifeFieldTitle(name string, f model.LifeField) string {
	return name + " " + s.label(f)
}

// derivedFromField checks explicit link of event to character life field.
func derivedFromField(e *model.Event, characterID string, f model.LifeField) bool {
	d := e.DerivedFrom
	return d != nil && d.Kind == model.DerivationKindLifeField && d.CharacterID == characterID && d.Field == f
}

// matchesField reports whether event is derived from character life field:
// either by explicit link or, for events without any link, by title
// pattern and participation.
func (s *Syncer) matchesField(e *model.Event, c *model.Character, f model.LifeField) bool {
	if e.DerivedFrom != nil {
		return derivedFromField(e, c.ID, f)
	}
	return e.Title == s.LifeFieldTitle(c.Name, f) && e.HasCharacter(c.ID)
}

func (s *Syncer) findFieldEvent(events []model.Event, c *model.Character, f model.LifeField) int {
	// linked events take precedence over title matches
	if i := slices.IndexFunc(events, func(e model.Event) bool { return derivedFromField(&e, c.ID, f) }); i >= 0 {
		return i
	}
	return slices.IndexFunc(events, func(e model.Event) bool { return s.matchesField(&e, c, f) })
}

// SyncCharacterToEvents creates, updates or deletes Born/Died events of the
// character after an edit. When the name changed titles of existing
// derived events are rewritten first so they are matched under the new
// name.
func (s *Syncer) SyncCharacterToEvents(c model.Character, prev *model.Character, events []model.Event) ([]model.Event, Counts) {
	out := model.CloneEvents(events)
	var counts Counts

	if prev != nil && prev.Name != c.Name {
		for _, lf := range s.lifeFields() {
			oldTitle, newTitle := s.LifeFieldTitle(prev.Name, lf.field), s.LifeFieldTitle(c.Name, lf.field)
			for i := range out {
				e := &out[i]
				if e.Title != oldTitle || !s.matchesField(e, prev, lf.field) {
					continue
				}
				e.Title = newTitle
				counts.Updated++
				s.log.Debug("Derived event renamed", zap.String("event", e.ID), zap.String("from", oldTitle), zap.String("to", newTitle))
			}
		}
	}

	for _, lf := range s.lifeFields() {
		value := model.CanonicalDate(c.Field(lf.field))
		i := s.findFieldEvent(out, &c, lf.field)
		switch {
		case value != "" && i < 0:
			out = append(out, model.Event{
				ID:          derivedID(string(model.DerivationKindLifeField), c.ID, string(lf.field)),
				Title:       s.LifeFieldTitle(c.Name, lf.field),
				Date:        value,
				Characters:  []string{c.ID},
				DerivedFrom: &model.Derivation{Kind: model.DerivationKindLifeField, CharacterID: c.ID, Field: lf.field},
			})
			counts.Created++
		case value != "" && i >= 0:
			e := &out[i]
			changed := false
			if e.Date != value {
				e.Date = value
				changed = true
			}
			if e.DerivedFrom == nil {
				e.DerivedFrom = &model.Derivation{Kind: model.DerivationKindLifeField, CharacterID: c.ID, Field: lf.field}
				changed = true
			}
			if changed {
				counts.Updated++
			}
		case value == "" && i >= 0:
			out = slices.Delete(out, i, i+1)
			counts.Deleted++
		}
	}

	s.log.Debug("Character synced to events", zap.String("character", c.ID), zap.Any("counts", counts))
	return out, counts
}

// fieldsOf returns characters and fields the event is derived from.
func (s *Syncer) fieldsOf(e *model.Event, characters []model.Character) []fieldRef {
	ids := slices.Clone(e.Characters)
	if e.DerivedFrom != nil && e.DerivedFrom.Kind == model.DerivationKindLifeField && !slices.Contains(ids, e.DerivedFrom.CharacterID) {
		ids = append(ids, e.DerivedFrom.CharacterID)
	}
	var refs []fieldRef
	for _, id := range ids {
		i := model.CharacterIndex(characters, id)
		if i < 0 {
			continue
		}
		for _, lf := range s.lifeFields() {
			if s.matchesField(e, &characters[i], lf.field) {
				refs = append(refs, fieldRef{index: i, field: lf.field})
			}
		}
	}
	return refs
}

type fieldRef struct {
	index int
	field model.LifeField
}

// SyncEventToCharacters writes date of a Born/Died event back into the
// character field. It is a single hop, characters are not synced back to
// events.
func (s *Syncer) SyncEventToCharacters(e model.Event, prev *model.Event, characters []model.Character) ([]model.Character, Counts) {
	out := model.CloneCharacters(characters)
	var counts Counts

	if prev != nil && prev.Title == e.Title && model.SameDate(prev.Date, e.Date) && slices.Equal(prev.Characters, e.Characters) {
		s.log.Debug("Event unchanged, nothing to sync", zap.String("event", e.ID))
		return out, counts
	}

	value := model.CanonicalDate(e.Date)
	for _, ref := range s.fieldsOf(&e, out) {
		c := &out[ref.index]
		if c.Field(ref.field) == value {
			continue
		}
		c.SetField(ref.field, value)
		counts.Updated++
		s.log.Debug("Character field set from event", zap.String("character", c.ID), zap.Stringer("field", ref.field), zap.String("event", e.ID))
	}
	return out, counts
}

// ClearCharacterFieldsOnEventDelete empties character fields the deleted
// event was derived from.
func (s *Syncer) ClearCharacterFieldsOnEventDelete(e model.Event, characters []model.Character) ([]model.Character, Counts) {
	out := model.CloneCharacters(characters)
	var counts Counts
	for _, ref := range s.fieldsOf(&e, out) {
		c := &out[ref.index]
		if c.Field(ref.field) == "" {
			continue
		}
		c.SetField(ref.field, "")
		counts.Updated++
		s.log.Debug("Character field cleared", zap.String("character", c.ID), zap.Stringer("field", ref.field), zap.String("event", e.ID))
	}
	return out, counts
}
