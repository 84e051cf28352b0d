package markup

import (
	"io"
	"strings"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/css"
	"go.uber.org/zap"

	"inkwell/model"
)

// Decoration is render-only styling of an annotation tag. It is computed
// from current entities on every render and never stored.
type Decoration struct {
	Classes []string
	Style   string
}

// Decorator resolves decoration for annotation tag.
type Decorator interface {
	Decorate(kind model.AnnotationKind, id string) Decoration
}

// base classes identify tag kind in rich text and are always present
var baseClass = map[NodeKind]string{
	CommentNode: "comment-highlight",
	MentionNode: "character-mention",
	EventNode:   "event-marker",
}

type snapshotDecorator struct {
	colors   map[string]string
	comments map[string]model.Comment
	events   map[string]bool
	active   string
	log      *zap.Logger
}

// Decorations returns decorator computed from snapshot and currently active
// annotation id - a pure projection, nothing is cached between renders.
func Decorations(snap *model.Snapshot, activeID string, log *zap.Logger) Decorator {
	if log == nil {
		log = zap.NewNop()
	}
	d := &snapshotDecorator{
		colors:   make(map[string]string),
		comments: make(map[string]model.Comment),
		events:   make(map[string]bool),
		active:   activeID,
		log:      log.Named("decorations"),
	}
	if snap == nil {
		return d
	}
	for _, c := range snap.Characters {
		color, ok := sanitizeColor(c.Color)
		if !ok {
			if c.Color != "" {
				d.log.Debug("Ignoring unsafe character color", zap.String("character", c.ID), zap.String("color", c.Color))
			}
			color = ""
		}
		d.colors[c.ID] = color
	}
	for _, c := range snap.Comments {
		d.comments[c.ID] = c
	}
	for _, e := range snap.Events {
		d.events[e.ID] = true
	}
	return d
}

func (d *snapshotDecorator) Decorate(kind model.AnnotationKind, id string) Decoration {
	var dec Decoration
	switch kind {
	case model.AnnotationKindMention:
		color, ok := d.colors[id]
		if !ok {
			d.log.Debug("Dangling mention", zap.String("id", id))
			return dec
		}
		if color != "" {
			dec.Style = "color: " + color
		}
	case model.AnnotationKindComment:
		c, ok := d.comments[id]
		if !ok {
			d.log.Debug("Dangling comment", zap.String("id", id))
			return dec
		}
		if c.IsHidden {
			dec.Classes = append(dec.Classes, "comment-hidden")
		}
		if c.IsSuggestion {
			dec.Classes = append(dec.Classes, "comment-suggestion")
			if c.IsPreviewing {
				dec.Classes = append(dec.Classes, "suggestion-preview")
			}
		}
	case model.AnnotationKindEvent:
		if !d.events[id] {
			d.log.Debug("Dangling event marker", zap.String("id", id))
			return dec
		}
	}
	if id != "" && id == d.active {
		dec.Classes = append(dec.Classes, "active")
	}
	return dec
}

var colorFunctions = map[string]bool{"rgb(": true, "rgba(": true, "hsl(": true, "hsla(": true}

// sanitizeColor accepts single CSS color value: hash, named color or one of
// color functions with numeric arguments.
func sanitizeColor(value string) (string, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", false
	}

	l := css.NewLexer(parse.NewInputString(value))
	values, inFunc, closed := 0, false, false
	for {
		tt, data := l.Next()
		switch tt {
		case css.ErrorToken:
			return value, l.Err() == io.EOF && values == 1 && !inFunc
		case css.WhitespaceToken:
		case css.HashToken, css.IdentToken:
			if inFunc || closed {
				return "", false
			}
			values++
		case css.FunctionToken:
			if inFunc || closed || !colorFunctions[strings.ToLower(string(data))] {
				return "", false
			}
			inFunc = true
			values++
		case css.NumberToken, css.PercentageToken, css.DimensionToken, css.CommaToken, css.DelimToken:
			if !inFunc {
				return "", false
			}
		case css.RightParenthesisToken:
			if !inFunc {
				return "", false
			}
			inFunc, closed = false, true
		default:
			return "", false
		}
	}
}
