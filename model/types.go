// Package model defines the codex entities shared by all other packages:
// characters with their embedded life events, timeline events,
// relationships, chapters and comments.
package model

// LifeEvent is a typed fact embedded in a Character. For birth-of-child the
// child is named by ChildID and Characters lists every participant.
type LifeEvent struct {
	ID         string        `yaml:"id" json:"id" validate:"required"`
	Type       LifeEventType `yaml:"type" json:"type" validate:"required"`
	Date       string        `yaml:"date,omitempty" json:"date,omitempty"`
	Characters []string      `yaml:"characters" json:"characters" validate:"min=2,dive,required"`
	ChildID    string        `yaml:"child_id,omitempty" json:"childId,omitempty"`
	Notes      string        `yaml:"notes,omitempty" json:"notes,omitempty"`
}

// Character is owned by the document and referenced by id from events,
// relationships and mention markup. Name is a display string, not a key.
type Character struct {
	ID         string      `yaml:"id" json:"id" validate:"required"`
	Name       string      `yaml:"name" json:"name" validate:"required"`
	Nicknames  []string    `yaml:"nicknames,omitempty" json:"nicknames,omitempty" validate:"dive,required"`
	Color      string      `yaml:"color,omitempty" json:"color,omitempty"`
	DOB        string      `yaml:"dob,omitempty" json:"dob,omitempty"`
	DeathDate  string      `yaml:"death_date,omitempty" json:"deathDate,omitempty"`
	Notes      string      `yaml:"notes,omitempty" json:"notes,omitempty"`
	LifeEvents []LifeEvent `yaml:"life_events" json:"lifeEvents" validate:"dive"`
}

// Field returns value of the requested life field.
func (c *Character) Field(f LifeField) string {
	switch f {
	case LifeFieldDob:
		return c.DOB
	case LifeFieldDeathDate:
		return c.DeathDate
	}
	return ""
}

// SetField sets value of the requested life field.
func (c *Character) SetField(f LifeField, value string) {
	switch f {
	case LifeFieldDob:
		c.DOB = value
	case LifeFieldDeathDate:
		c.DeathDate = value
	}
}

// Derivation links a derived event back to the fact which produced it.
type Derivation struct {
	Kind           DerivationKind `yaml:"kind" json:"kind"`
	CharacterID    string         `yaml:"character_id,omitempty" json:"characterId,omitempty"`
	Field          LifeField      `yaml:"field,omitempty" json:"field,omitempty"`
	RelationshipID string         `yaml:"relationship_id,omitempty" json:"relationshipId,omitempty"`
	LifeEventID    string         `yaml:"life_event_id,omitempty" json:"lifeEventId,omitempty"`
}

// Event is a timeline event. Events created by the sync engine carry
// DerivedFrom, user authored events do not.
type Event struct {
	ID          string      `yaml:"id" json:"id" validate:"required"`
	Title       string      `yaml:"title" json:"title" validate:"required"`
	Date        string      `yaml:"date,omitempty" json:"date,omitempty"`
	Description string      `yaml:"description,omitempty" json:"description,omitempty"`
	Characters  []string    `yaml:"characters" json:"characters" validate:"dive,required"`
	DerivedFrom *Derivation `yaml:"derived_from,omitempty" json:"derivedFrom,omitempty"`
}

// HasCharacter checks participant membership.
func (e *Event) HasCharacter(id string) bool {
	for _, c := range e.Characters {
		if c == id {
			return true
		}
	}
	return false
}

// Relationship between two or more characters. For parent-child
// CharacterIDs is [parent, child].
type Relationship struct {
	ID           string           `yaml:"id" json:"id" validate:"required"`
	Type         RelationshipType `yaml:"type" json:"type" validate:"required"`
	CharacterIDs []string         `yaml:"character_ids" json:"characterIds" validate:"min=2,dive,required"`
	Description  string           `yaml:"description,omitempty" json:"description,omitempty"`
	StartDate    string           `yaml:"start_date,omitempty" json:"startDate,omitempty"`
	EndDate      string           `yaml:"end_date,omitempty" json:"endDate,omitempty"`
}

// Comment backs a comment tag in chapter content. Suggestions carry
// ReplacementText and may be previewed in place.
type Comment struct {
	ID              string `yaml:"id" json:"id" validate:"required"`
	Author          string `yaml:"author" json:"author"`
	Text            string `yaml:"text" json:"text"`
	Timestamp       string `yaml:"timestamp" json:"timestamp"`
	IsSuggestion    bool   `yaml:"is_suggestion,omitempty" json:"isSuggestion,omitempty"`
	ReplacementText string `yaml:"replacement_text,omitempty" json:"replacementText,omitempty"`
	IsPreviewing    bool   `yaml:"is_previewing,omitempty" json:"isPreviewing,omitempty"`
	IsHidden        bool   `yaml:"is_hidden,omitempty" json:"isHidden,omitempty"`
	OriginalText    string `yaml:"original_text" json:"originalText"`
}

// Chapter holds structured-markdown content with embedded annotation tags.
type Chapter struct {
	ID         string   `yaml:"id" json:"id" validate:"required"`
	Title      string   `yaml:"title" json:"title"`
	Content    string   `yaml:"content" json:"content"`
	CommentIDs []string `yaml:"comment_ids" json:"commentIds"`
}

// Snapshot is the complete state of one document.
type Snapshot struct {
	Characters    []Character    `yaml:"characters" json:"characters"`
	Events        []Event        `yaml:"events" json:"events"`
	Relationships []Relationship `yaml:"relationships" json:"relationships"`
	Chapters      []Chapter      `yaml:"chapters" json:"chapters"`
	Comments      []Comment      `yaml:"comments" json:"comments"`
}
