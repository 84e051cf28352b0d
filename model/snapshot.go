package model

// NewSnapshot returns empty snapshot with all collections allocated.
func NewSnapshot() *Snapshot {
	s := &Snapshot{}
	s.Normalize()
	return s
}

// Normalize defaults collections missing from older stored snapshots to
// empty ones, so nothing downstream ever sees nil.
func (s *Snapshot) Normalize() {
	if s.Characters == nil {
		s.Characters = []Character{}
	}
	for i := range s.Characters {
		if s.Characters[i].LifeEvents == nil {
			s.Characters[i].LifeEvents = []LifeEvent{}
		}
	}
	if s.Events == nil {
		s.Events = []Event{}
	}
	for i := range s.Events {
		if s.Events[i].Characters == nil {
			s.Events[i].Characters = []string{}
		}
	}
	if s.Relationships == nil {
		s.Relationships = []Relationship{}
	}
	if s.Chapters == nil {
		s.Chapters = []Chapter{}
	}
	for i := range s.Chapters {
		if s.Chapters[i].CommentIDs == nil {
			s.Chapters[i].CommentIDs = []string{}
		}
	}
	if s.Comments == nil {
		s.Comments = []Comment{}
	}
}

func (s *Snapshot) Character(id string) *Character {
	if i := CharacterIndex(s.Characters, id); i >= 0 {
		return &s.Characters[i]
	}
	return nil
}

func (s *Snapshot) Event(id string) *Event {
	if i := EventIndex(s.Events, id); i >= 0 {
		return &s.Events[i]
	}
	return nil
}

func (s *Snapshot) Relationship(id string) *Relationship {
	for i := range s.Relationships {
		if s.Relationships[i].ID == id {
			return &s.Relationships[i]
		}
	}
	return nil
}

func (s *Snapshot) Chapter(id string) *Chapter {
	for i := range s.Chapters {
		if s.Chapters[i].ID == id {
			return &s.Chapters[i]
		}
	}
	return nil
}

func (s *Snapshot) Comment(id string) *Comment {
	for i := range s.Comments {
		if s.Comments[i].ID == id {
			return &s.Comments[i]
		}
	}
	return nil
}

// CharacterIndex returns position of the character with given id or -1.
func CharacterIndex(characters []Character, id string) int {
	for i := range characters {
		if characters[i].ID == id {
			return i
		}
	}
	return -1
}

// EventIndex returns position of the event with given id or -1.
func EventIndex(events []Event, id string) int {
	for i := range events {
		if events[i].ID == id {
			return i
		}
	}
	return -1
}

// CharacterNames resolves ids to names skipping unknown ids.
func CharacterNames(characters []Character, ids []string) []string {
	names := make([]string, 0, len(ids))
	for _, id := range ids {
		if i := CharacterIndex(characters, id); i >= 0 && characters[i].Name != "" {
			names = append(names, characters[i].Name)
		}
	}
	return names
}

// SameSet compares two id lists ignoring order and duplicates.
func SameSet(a, b []string) bool {
	set := make(map[string]struct{}, len(a))
	for _, v := range a {
		set[v] = struct{}{}
	}
	other := make(map[string]struct{}, len(b))
	for _, v := range b {
		if _, ok := set[v]; !ok {
			return false
		}
		other[v] = struct{}{}
	}
	return len(set) == len(other)
}
