package entsync

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"

	"inkwell/model"
)

// EventTemplate is title and description of a timeline event synthesized
// for a new relationship.
type EventTemplate struct {
	Title       string
	Description string
}

// DefaultTemplates has one entry per relationship type.
var DefaultTemplates = map[model.RelationshipType]EventTemplate{
	model.RelationshipTypeFamily: {
		Title:       `{{ join " & " .Names }} - Family`,
		Description: `{{ join " and " .Names }} become family`,
	},
	model.RelationshipTypeParentChild: {
		Title:       `{{ .Child }} Born`,
		Description: `{{ .Child }} is born to {{ .Parent }}`,
	},
	model.RelationshipTypeSibling: {
		Title:       `{{ join " & " .Names }} - Siblings`,
		Description: `{{ join " and " .Names }} are siblings`,
	},
	model.RelationshipTypeSpouse: {
		Title:       `{{ join " & " .Names }} - Marriage`,
		Description: `{{ join " and " .Names }} get married`,
	},
	model.RelationshipTypeRomantic: {
		Title:       `{{ join " & " .Names }} - Romance`,
		Description: `{{ join " and " .Names }} begin a romance`,
	},
	model.RelationshipTypeFriend: {
		Title:       `{{ join " & " .Names }} - Friendship`,
		Description: `{{ join " and " .Names }} become friends`,
	},
	model.RelationshipTypeColleague: {
		Title:       `{{ join " & " .Names }} - Colleagues`,
		Description: `{{ join " and " .Names }} start working together`,
	},
	model.RelationshipTypeMentorStudent: {
		Title:       `{{ .Parent }} & {{ .Child }} - Mentorship`,
		Description: `{{ .Parent }} begins mentoring {{ .Child }}`,
	},
	model.RelationshipTypeRival: {
		Title:       `{{ join " & " .Names }} - Rivalry`,
		Description: `{{ join " and " .Names }} become rivals`,
	},
	model.RelationshipTypeEnemy: {
		Title:       `{{ join " & " .Names }} - Enmity`,
		Description: `{{ join " and " .Names }} become enemies`,
	},
	model.RelationshipTypeAcquaintance: {
		Title:       `{{ join " & " .Names }} - First Meeting`,
		Description: `{{ join " and " .Names }} meet for the first time`,
	},
	model.RelationshipTypeOther: {
		Title:       `{{ join " & " .Names }} - Relationship`,
		Description: `{{ join " and " .Names }} relationship begins`,
	},
}

// relationshipValues are available for relationship event templates. For
// directional kinds Parent is the first participant and Child the second.
type relationshipValues struct {
	Type   string
	Names  []string
	Parent string
	Child  string
	Date   string
}

type compiledTemplate struct {
	title, description *template.Template
}

func compileTemplates(overrides map[model.RelationshipType]EventTemplate) (map[model.RelationshipType]compiledTemplate, error) {
	out := make(map[model.RelationshipType]compiledTemplate, len(DefaultTemplates))
	for typ, def := range DefaultTemplates {
		t := def
		if o, ok := overrides[typ]; ok {
			if o.Title != "" {
				t.Title = o.Title
			}
			if o.Description != "" {
				t.Description = o.Description
			}
		}
		title, err := template.New(string(typ) + "-title").Funcs(sprig.FuncMap()).Parse(t.Title)
		if err != nil {
			return nil, fmt.Errorf("unable to parse title template for %s: %w", typ, err)
		}
		description, err := template.New(string(typ) + "-description").Funcs(sprig.FuncMap()).Parse(t.Description)
		if err != nil {
			return nil, fmt.Errorf("unable to parse description template for %s: %w", typ, err)
		}
		out[typ] = compiledTemplate{title: title, description: description}
	}
	for typ := range overrides {
		if _, ok := DefaultTemplates[typ]; !ok {
			return nil, fmt.Errorf("template for unknown relationship type %q: %w", typ, model.ErrInvalidRelationshipType)
		}
	}
	return out, nil
}

func execute(t *template.Template, values *relationshipValues) (string, error) {
	buf := new(bytes.Buffer)
	if err := t.Execute(buf, values); err != nil {
		return "", err
	}
	return strings.TrimSpace(buf.String()), nil
}
