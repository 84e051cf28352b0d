package model

// Kind of relationship between characters. Only parent-child is directional
// (first id is the parent), all other kinds are symmetric.
// ENUM(family, parent-child, sibling, spouse, romantic, friend, colleague, mentor-student, rival, enemy, acquaintance, other)
type RelationshipType string

// Symmetric reports whether participant order is irrelevant for this kind.
func (x RelationshipType) Symmetric() bool {
	return x != RelationshipTypeParentChild
}

// Typed fact embedded on a character.
// ENUM(marriage, friendship, birth-of-child)
type LifeEventType string

// Character fields which produce derived timeline events.
// ENUM(dob, death-date)
type LifeField string

// Origin of a derived timeline event.
// ENUM(life-field, relationship, life-event)
type DerivationKind string

// Inline annotation tag kinds.
// ENUM(comment, mention, event)
type AnnotationKind string
