package model

// Deep copy helpers. Sync functions never mutate their inputs, they work
// on copies produced here.

// Clone creates a deep copy of the snapshot.
func (s *Snapshot) Clone() *Snapshot {
	if s == nil {
		return nil
	}
	return &Snapshot{
		Characters:    CloneCharacters(s.Characters),
		Events:        CloneEvents(s.Events),
		Relationships: CloneRelationships(s.Relationships),
		Chapters:      cloneChapters(s.Chapters),
		Comments:      cloneComments(s.Comments),
	}
}

func (c Character) Clone() Character {
	c.Nicknames = cloneStrings(c.Nicknames)
	if c.LifeEvents != nil {
		events := make([]LifeEvent, len(c.LifeEvents))
		for i := range c.LifeEvents {
			events[i] = c.LifeEvents[i].Clone()
		}
		c.LifeEvents = events
	}
	return c
}

func (le LifeEvent) Clone() LifeEvent {
	le.Characters = cloneStrings(le.Characters)
	return le
}

func (e Event) Clone() Event {
	e.Characters = cloneStrings(e.Characters)
	if e.DerivedFrom != nil {
		d := *e.DerivedFrom
		e.DerivedFrom = &d
	}
	return e
}

func (r Relationship) Clone() Relationship {
	r.CharacterIDs = cloneStrings(r.CharacterIDs)
	return r
}

func CloneCharacters(characters []Character) []Character {
	if characters == nil {
		return nil
	}
	result := make([]Character, len(characters))
	for i := range characters {
		result[i] = characters[i].Clone()
	}
	return result
}

func CloneEvents(events []Event) []Event {
	if events == nil {
		return nil
	}
	result := make([]Event, len(events))
	for i := range events {
		result[i] = events[i].Clone()
	}
	return result
}

func CloneRelationships(relationships []Relationship) []Relationship {
	if relationships == nil {
		return nil
	}
	result := make([]Relationship, len(relationships))
	for i := range relationships {
		result[i] = relationships[i].Clone()
	}
	return result
}

func cloneChapters(chapters []Chapter) []Chapter {
	if chapters == nil {
		return nil
	}
	result := make([]Chapter, len(chapters))
	for i := range chapters {
		result[i] = chapters[i]
		result[i].CommentIDs = cloneStrings(chapters[i].CommentIDs)
	}
	return result
}

func cloneComments(comments []Comment) []Comment {
	if comments == nil {
		return nil
	}
	result := make([]Comment, len(comments))
	copy(result, comments)
	return result
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	result := make([]string, len(in))
	copy(result, in)
	return result
}
