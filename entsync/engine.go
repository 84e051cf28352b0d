package entsync

import (
	"slices"

	"go.uber.org/zap"

	"inkwell/markup"
	"inkwell/model"
)

// Action is a single user edit. It carries the complete new entity value
// and, for updates, previous value used for diffing.
type Action struct {
	Op     Op     `yaml:"op"`
	Entity Entity `yaml:"entity"`

	Character    *model.Character    `yaml:"character,omitempty"`
	Event        *model.Event        `yaml:"event,omitempty"`
	Relationship *model.Relationship `yaml:"relationship,omitempty"`

	PreviousCharacter *model.Character `yaml:"previous_character,omitempty"`
	PreviousEvent     *model.Event     `yaml:"previous_event,omitempty"`

	// LifeEventType marks new or updated event as representing life event.
	LifeEventType model.LifeEventType `yaml:"life_event_type,omitempty"`
}

// FillPrevious sets previous entity values from snapshot where caller did
// not supply them.
func (a Action) FillPrevious(snap *model.Snapshot) Action {
	if a.Op != OpUpdate {
		return a
	}
	switch {
	case a.Entity == EntityCharacter && a.Character != nil && a.PreviousCharacter == nil:
		if c := snap.Character(a.Character.ID); c != nil {
			prev := c.Clone()
			a.PreviousCharacter = &prev
		}
	case a.Entity == EntityEvent && a.Event != nil && a.PreviousEvent == nil:
		if e := snap.Event(a.Event.ID); e != nil {
			prev := e.Clone()
			a.PreviousEvent = &prev
		}
	}
	return a
}

// Result of applied action.
type Result struct {
	Snapshot *model.Snapshot
	Counts   Counts
}

// Engine applies actions to snapshot resolving all sync cascades before
// returning.
type Engine struct {
	syncer *Syncer
	log    *zap.Logger
}

// NewEngine creates engine.
func NewEngine(s *Syncer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{syncer: s, log: log.Named("engine")}
}

// Apply validates action and returns new snapshot. Input snapshot is never
// modified, rejected action returns *ValidationError.
func (e *Engine) Apply(snap *model.Snapshot, a Action) (*Result, error) {
	if err := Validate(snap, &a); err != nil {
		e.log.Debug("Action rejected", zap.Stringer("op", a.Op), zap.Stringer("entity", a.Entity), zap.Error(err))
		return nil, err
	}

	next := snap.Clone()
	next.Normalize()

	var counts Counts
	switch a.Entity {
	case EntityCharacter:
		counts = e.character(next, &a)
	case EntityEvent:
		counts = e.event(next, &a)
	case EntityRelationship:
		counts = e.relationship(next, &a)
	}

	e.log.Debug("Action applied",
		zap.Stringer("op", a.Op),
		zap.Stringer("entity", a.Entity),
		zap.Int("created", counts.Created),
		zap.Int("updated", counts.Updated),
		zap.Int("deleted", counts.Deleted))
	return &Result{Snapshot: next, Counts: counts}, nil
}

func normalizeCharacter(c model.Character) model.Character {
	c = c.Clone()
	c.DOB = model.CanonicalDate(c.DOB)
	c.DeathDate = model.CanonicalDate(c.DeathDate)
	for i := range c.LifeEvents {
		c.LifeEvents[i].Date = model.CanonicalDate(c.LifeEvents[i].Date)
	}
	if c.LifeEvents == nil {
		c.LifeEvents = []model.LifeEvent{}
	}
	return c
}

func (e *Engine) character(snap *model.Snapshot, a *Action) Counts {
	if a.Op == OpDelete {
		return e.deleteCharacter(snap, a.Character.ID)
	}

	c := normalizeCharacter(*a.Character)
	if a.Op == OpAdd {
		snap.Characters = append(snap.Characters, c)
	} else {
		snap.Characters[model.CharacterIndex(snap.Characters, c.ID)] = c
	}

	var counts, more Counts
	snap.Events, counts = e.syncer.SyncCharacterToEvents(c, a.PreviousCharacter, snap.Events)
	snap.Events, snap.Relationships, snap.Characters, more = e.syncer.SyncCharacterLifeEventsToTimeline(c, snap.Events, snap.Relationships, snap.Characters)
	return counts.Add(more)
}

func (e *Engine) deleteCharacter(snap *model.Snapshot, id string) Counts {
	var counts Counts
	c := snap.Character(id).Clone()
	snap.Characters = slices.DeleteFunc(snap.Characters, func(x model.Character) bool { return x.ID == id })

	// derived events are owned by the character, participation elsewhere
	// is just dropped
	snap.Events = slices.DeleteFunc(snap.Events, func(ev model.Event) bool {
		var owned bool
		if d := ev.DerivedFrom; d != nil {
			owned = d.CharacterID == id
		} else {
			owned = ev.HasCharacter(id) && (ev.Title == e.syncer.LifeFieldTitle(c.Name, model.LifeFieldDob) || ev.Title == e.syncer.LifeFieldTitle(c.Name, model.LifeFieldDeathDate))
		}
		if owned {
			counts.Deleted++
		}
		return owned
	})
	for i := range snap.Events {
		ev := &snap.Events[i]
		if ev.HasCharacter(id) {
			ev.Characters = slices.DeleteFunc(ev.Characters, func(x string) bool { return x == id })
			counts.Updated++
		}
	}

	for i := range snap.Characters {
		other := &snap.Characters[i]
		les := other.LifeEvents[:0]
		for _, le := range other.LifeEvents {
			if !slices.Contains(le.Characters, id) {
				les = append(les, le)
				continue
			}
			le.Characters = slices.DeleteFunc(le.Characters, func(x string) bool { return x == id })
			if le.ChildID == id {
				le.ChildID = ""
			}
			counts.Updated++
			if len(le.Characters) >= 2 && (le.Type != model.LifeEventTypeBirthOfChild || le.ChildID != "") {
				les = append(les, le)
			}
		}
		other.LifeEvents = les
	}

	snap.Relationships = slices.DeleteFunc(snap.Relationships, func(r model.Relationship) bool {
		return slices.Contains(r.CharacterIDs, id) && len(existing(r.CharacterIDs, snap.Characters)) < 2
	})
	for i := range snap.Relationships {
		r := &snap.Relationships[i]
		if slices.Contains(r.CharacterIDs, id) {
			r.CharacterIDs = slices.DeleteFunc(r.CharacterIDs, func(x string) bool { return x == id })
			counts.Updated++
		}
	}

	for i := range snap.Chapters {
		content, n := markup.UnwrapAll(snap.Chapters[i].Content, model.AnnotationKindMention, id)
		if n > 0 {
			snap.Chapters[i].Content = content
			e.log.Debug("Mentions removed", zap.String("character", id), zap.String("chapter", snap.Chapters[i].ID), zap.Int("count", n))
		}
	}
	return counts
}

func (e *Engine) event(snap *model.Snapshot, a *Action) Counts {
	if a.Op == OpDelete {
		stored := snap.Event(a.Event.ID).Clone()

		var counts Counts
		snap.Characters, counts = e.syncer.ClearCharacterFieldsOnEventDelete(stored, snap.Characters)
		snap.Events = slices.DeleteFunc(snap.Events, func(x model.Event) bool { return x.ID == stored.ID })
		for i := range snap.Chapters {
			content, n := markup.UnwrapAll(snap.Chapters[i].Content, model.AnnotationKindEvent, stored.ID)
			if n > 0 {
				snap.Chapters[i].Content = content
			}
		}
		return counts
	}

	ev := a.Event.Clone()
	ev.Date = model.CanonicalDate(ev.Date)
	if ev.Characters == nil {
		ev.Characters = []string{}
	}
	if a.Op == OpAdd {
		snap.Events = append(snap.Events, ev)
	} else {
		i := model.EventIndex(snap.Events, ev.ID)
		// edits never detach derived event from its source
		if ev.DerivedFrom == nil && snap.Events[i].DerivedFrom != nil {
			d := *snap.Events[i].DerivedFrom
			ev.DerivedFrom = &d
		}
		snap.Events[i] = ev
	}

	var counts, more Counts
	snap.Characters, counts = e.syncer.SyncEventToCharacters(ev, a.PreviousEvent, snap.Characters)
	if a.LifeEventType != "" {
		snap.Relationships, snap.Characters, more = e.syncer.SyncLifeEventToRelationships(a.LifeEventType, ev, snap.Relationships, snap.Characters)
	}
	return counts.Add(more)
}

func (e *Engine) relationship(snap *model.Snapshot, a *Action) Counts {
	r := *a.Relationship
	r.CharacterIDs = slices.Clone(r.CharacterIDs)
	r.StartDate = model.CanonicalDate(r.StartDate)
	r.EndDate = model.CanonicalDate(r.EndDate)

	var counts Counts
	switch a.Op {
	case OpDelete:
		snap.Relationships = slices.DeleteFunc(snap.Relationships, func(x model.Relationship) bool { return x.ID == r.ID })
		snap.Events = slices.DeleteFunc(snap.Events, func(ev model.Event) bool {
			owned := ev.DerivedFrom != nil && ev.DerivedFrom.Kind == model.DerivationKindRelationship && ev.DerivedFrom.RelationshipID == r.ID
			if owned {
				counts.Deleted++
			}
			return owned
		})
		return counts
	case OpAdd:
		if hasRelationship(snap.Relationships, r.Type, r.CharacterIDs) {
			e.log.Debug("Duplicate relationship ignored", zap.String("relationship", r.ID), zap.Stringer("type", r.Type))
			return counts
		}
		snap.Relationships = append(snap.Relationships, r)
	case OpUpdate:
		*snap.Relationship(r.ID) = r
	}
	snap.Events, counts = e.syncer.SyncRelationshipToEvent(r, snap.Events, snap.Characters)
	return counts
}
