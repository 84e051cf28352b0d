package mention

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"inkwell/markup"
	"inkwell/model"
)

// DefaultRadius is excerpt size on each side of a match, in characters.
const DefaultRadius = 60

const (
	markOpen  = "\uE000"
	markClose = "\uE001"
	ellipsis  = "…"
)

// Excerpt is plain text surrounding a mention.
type Excerpt struct {
	Before string
	Match  string
	After  string
}

// Highlighted returns excerpt with the match emphasized.
func (e Excerpt) Highlighted() string {
	return e.Before + "**" + e.Match + "**" + e.After
}

// Occurrence of a character mention in a chapter.
type Occurrence struct {
	ChapterID    string
	ChapterTitle string
	Excerpt      Excerpt
}

// FindMentions lists all mentions of the character in chapter order.
// Excerpts are clean text, other annotations and formatting are stripped.
func FindMentions(chapters []model.Chapter, characterID string, radius int, log *zap.Logger) ([]Occurrence, error) {
	if log == nil {
		log = zap.NewNop()
	}
	if radius <= 0 {
		radius = DefaultRadius
	}
	codec := markup.NewCodec(nil, log)

	var found []Occurrence
	for _, ch := range chapters {
		count := len(markup.Parse(ch.Content).Find(markup.MentionNode, characterID))
		for i := range count {
			root := markup.Parse(ch.Content)
			m := root.Find(markup.MentionNode, characterID)[i]
			m.Children = append([]*markup.Node{{Kind: markup.TextNode, Data: markOpen, Parent: m}}, m.Children...)
			m.Children = append(m.Children, &markup.Node{Kind: markup.TextNode, Data: markClose, Parent: m})

			text, err := codec.PlainText(root.String())
			if err != nil {
				return nil, fmt.Errorf("chapter %q: %w", ch.ID, err)
			}
			ex, ok := excerpt(text, radius)
			if !ok {
				log.Warn("Mention is not visible in chapter text", zap.String("chapter", ch.ID), zap.String("character", characterID))
				continue
			}
			found = append(found, Occurrence{ChapterID: ch.ID, ChapterTitle: ch.Title, Excerpt: ex})
		}
	}
	log.Debug("Mentions found", zap.String("character", characterID), zap.Int("count", len(found)))
	return found, nil
}

func excerpt(text string, radius int) (Excerpt, bool) {
	before, rest, ok := strings.Cut(text, markOpen)
	if !ok {
		return Excerpt{}, false
	}
	match, after, ok := strings.Cut(rest, markClose)
	if !ok {
		return Excerpt{}, false
	}

	flat := strings.NewReplacer("\n\n", " ", "\n", " ")
	before, match, after = flat.Replace(before), flat.Replace(match), flat.Replace(after)

	if r := []rune(before); len(r) > radius {
		before = ellipsis + string(r[len(r)-radius:])
	}
	if r := []rune(after); len(r) > radius {
		after = string(r[:radius]) + ellipsis
	}
	return Excerpt{Before: before, Match: match, After: after}, true
}
