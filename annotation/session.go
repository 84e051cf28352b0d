// Package annotation manages comment and event marker tags in one chapter
// editing session: pending wrap, commit, cancel, removal and suggestions.
package annotation

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"inkwell/markup"
	"inkwell/mention"
	"inkwell/model"
)

var (
	ErrPendingExists    = errors.New("another annotation is pending")
	ErrNoPending        = errors.New("no pending annotation")
	ErrEmptySelection   = errors.New("selection is empty")
	ErrOverlap          = errors.New("selection overlaps existing annotation")
	ErrCrossesParagraph = errors.New("selection crosses paragraph boundary")
	ErrUnsupportedKind  = errors.New("annotation kind could not be created from selection")
	ErrNotFound         = errors.New("annotation not found")
	ErrNotSuggestion    = errors.New("comment is not a suggestion")
)

// PendingAnnotation is a selection wrapped with temporary id awaiting
// commit or cancel. AnchorID names chapter holding the tag.
type PendingAnnotation struct {
	ID       string
	Kind     model.AnnotationKind
	AnchorID string
}

// Session tracks content of a single chapter being annotated. At most one
// annotation may be pending at any time.
type Session struct {
	ChapterID string
	Content   string
	Pending   *PendingAnnotation

	log *zap.Logger
}

// NewSession starts annotation session over chapter content.
func NewSession(chapterID, content string, log *zap.Logger) *Session {
	if log == nil {
		log = zap.NewNop()
	}
	return &Session{ChapterID: chapterID, Content: content, log: log.Named("annotation")}
}

// Begin wraps selected range of clean text (byte offsets into
// markup.Strip(Content)) with pending tag. Nothing changes on error.
func (s *Session) Begin(kind model.AnnotationKind, start, end int) (*PendingAnnotation, error) {
	if s.Pending != nil {
		return nil, fmt.Errorf("%s %q: %w", s.Pending.Kind, s.Pending.ID, ErrPendingExists)
	}
	if kind != model.AnnotationKindComment && kind != model.AnnotationKindEvent {
		return nil, fmt.Errorf("%s: %w", kind, ErrUnsupportedKind)
	}
	if start >= end {
		return nil, ErrEmptySelection
	}

	root := markup.Parse(s.Content)
	sel, err := root.Select(start, end)
	if err != nil {
		return nil, fmt.Errorf("unable to select text: %w", err)
	}
	text := sel.Text()
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptySelection
	}
	if strings.Contains(strings.ReplaceAll(text, "\r\n", "\n"), "\n\n") {
		return nil, ErrCrossesParagraph
	}
	nk := markup.KindOf(kind)
	if strings.Contains(sel.String(), "<"+string(kind)) || sel.Inside(nk) {
		return nil, fmt.Errorf("%s: %w", kind, ErrOverlap)
	}

	p := &PendingAnnotation{ID: "pending-" + uuid.NewString(), Kind: kind, AnchorID: s.ChapterID}
	sel.Wrap(markup.NewAnnotation(kind, p.ID, true))
	s.Content = root.String()
	s.Pending = p

	s.log.Debug("Annotation pending", zap.Stringer("kind", kind), zap.String("id", p.ID), zap.String("text", text))
	return p, nil
}

// Cancel removes pending wrapper keeping inner text intact.
func (s *Session) Cancel() error {
	if s.Pending == nil {
		return ErrNoPending
	}
	root := markup.Parse(s.Content)
	for _, n := range root.Find(markup.KindOf(s.Pending.Kind), s.Pending.ID) {
		n.Unwrap()
	}
	s.Content = root.String()
	s.log.Debug("Annotation cancelled", zap.String("id", s.Pending.ID))
	s.Pending = nil
	return nil
}

// commit swaps temporary id for permanent one in place and returns inner
// content of the tag.
func (s *Session) commit(kind model.AnnotationKind) (id, inner string, err error) {
	if s.Pending == nil || s.Pending.Kind != kind {
		return "", "", fmt.Errorf("%s: %w", kind, ErrNoPending)
	}
	root := markup.Parse(s.Content)
	found := root.Find(markup.KindOf(kind), s.Pending.ID)
	if len(found) == 0 {
		return "", "", fmt.Errorf("pending %s %q is gone from content: %w", kind, s.Pending.ID, ErrNotFound)
	}
	id, err = newID()
	if err != nil {
		return "", "", err
	}
	for _, n := range found {
		n.ID, n.Pending = id, false
	}
	s.Content = root.String()
	s.log.Debug("Annotation committed", zap.Stringer("kind", kind), zap.String("pending", s.Pending.ID), zap.String("id", id))
	s.Pending = nil
	return id, found[0].Inner(), nil
}

func newID() (string, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("unable to generate annotation id: %w", err)
	}
	return u.String(), nil
}

// CommentDraft is user input for a new comment.
type CommentDraft struct {
	Author          string
	Text            string
	IsSuggestion    bool
	ReplacementText string
}

// CommitComment turns pending comment into permanent one and returns its
// backing record.
func (s *Session) CommitComment(d CommentDraft, now time.Time) (model.Comment, error) {
	id, inner, err := s.commit(model.AnnotationKindComment)
	if err != nil {
		return model.Comment{}, err
	}
	return model.Comment{
		ID:              id,
		Author:          d.Author,
		Text:            d.Text,
		Timestamp:       now.UTC().Format(model.CanonicalDateLayout),
		IsSuggestion:    d.IsSuggestion,
		ReplacementText: d.ReplacementText,
		OriginalText:    inner,
	}, nil
}

// EventDraft is user input for a new event created from selection.
type EventDraft struct {
	Title       string
	Date        string
	Description string
	Characters  []string
}

// CommitEvent turns pending event marker into permanent one and returns new
// timeline event. Participants default to characters mentioned in the
// selection. Draft date is validated before anything changes.
func (s *Session) CommitEvent(d EventDraft) (model.Event, error) {
	date, err := model.NormalizeDate(d.Date)
	if err != nil {
		return model.Event{}, err
	}
	if strings.TrimSpace(d.Title) == "" {
		return model.Event{}, errors.New("event title is required")
	}
	id, inner, err := s.commit(model.AnnotationKindEvent)
	if err != nil {
		return model.Event{}, err
	}
	characters := d.Characters
	if len(characters) == 0 {
		characters = mention.ExtractMentionedIDs(inner)
	}
	if characters == nil {
		characters = []string{}
	}
	return model.Event{
		ID:          id,
		Title:       d.Title,
		Date:        date,
		Description: d.Description,
		Characters:  characters,
	}, nil
}
