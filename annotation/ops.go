package annotation

import (
	"fmt"
	"slices"

	"golang.org/x/net/html"

	"inkwell/markup"
	"inkwell/model"
)

// Remove unwraps every tag of committed annotation in all chapters keeping
// text and deletes backing record. Removing event marker deletes the
// timeline event itself, derived character fields are not touched here.
func Remove(snap *model.Snapshot, kind model.AnnotationKind, id string) error {
	switch kind {
	case model.AnnotationKindComment, model.AnnotationKindEvent:
	default:
		return fmt.Errorf("%s: %w", kind, ErrUnsupportedKind)
	}

	removed := 0
	for i := range snap.Chapters {
		content, n := markup.UnwrapAll(snap.Chapters[i].Content, kind, id)
		snap.Chapters[i].Content = content
		removed += n
	}

	switch kind {
	case model.AnnotationKindComment:
		if deleteComment(snap, id) {
			removed++
		}
	case model.AnnotationKindEvent:
		if i := model.EventIndex(snap.Events, id); i >= 0 {
			snap.Events = slices.Delete(snap.Events, i, i+1)
			removed++
		}
	}

	if removed == 0 {
		return fmt.Errorf("%s %q: %w", kind, id, ErrNotFound)
	}
	return nil
}

func deleteComment(snap *model.Snapshot, id string) bool {
	for i := range snap.Chapters {
		snap.Chapters[i].CommentIDs = slices.DeleteFunc(snap.Chapters[i].CommentIDs, func(c string) bool { return c == id })
	}
	i := slices.IndexFunc(snap.Comments, func(c model.Comment) bool { return c.ID == id })
	if i < 0 {
		return false
	}
	snap.Comments = slices.Delete(snap.Comments, i, i+1)
	return true
}

func suggestion(snap *model.Snapshot, id string) (*model.Comment, error) {
	c := snap.Comment(id)
	if c == nil {
		return nil, fmt.Errorf("comment %q: %w", id, ErrNotFound)
	}
	if !c.IsSuggestion {
		return nil, fmt.Errorf("comment %q: %w", id, ErrNotSuggestion)
	}
	return c, nil
}

// SetPreview shows replacement text of a suggestion in place of original
// text (or restores original). Replacement is plain text and never markup. Tag identity is preserved so toggling can be
// repeated any number of times.
func SetPreview(snap *model.Snapshot, id string, preview bool) error {
	c, err := suggestion(snap, id)
	if err != nil {
		return err
	}
	if c.IsPreviewing == preview {
		return nil
	}

	for i := range snap.Chapters {
		root := markup.Parse(snap.Chapters[i].Content)
		found := root.Find(markup.CommentNode, id)
		if len(found) == 0 {
			continue
		}
		for _, n := range found {
			if preview {
				if c.OriginalText == "" {
					c.OriginalText = n.Inner()
				}
				n.SetText(html.EscapeString(c.ReplacementText))
			} else {
				n.SetText(c.OriginalText)
			}
		}
		snap.Chapters[i].Content = root.String()
	}
	c.IsPreviewing = preview
	return nil
}

// ApplySuggestion replaces whole suggestion span with replacement text and
// deletes the comment. There is no way back.
func ApplySuggestion(snap *model.Snapshot, id string) error {
	c, err := suggestion(snap, id)
	if err != nil {
		return err
	}
	replacement := html.EscapeString(c.ReplacementText)
	for i := range snap.Chapters {
		root := markup.Parse(snap.Chapters[i].Content)
		found := root.Find(markup.CommentNode, id)
		if len(found) == 0 {
			continue
		}
		for _, n := range found {
			n.ReplaceWithText(replacement)
		}
		snap.Chapters[i].Content = root.String()
	}
	deleteComment(snap, id)
	return nil
}

// SetHidden hides comment from rendered projection. Markup is left alone.
func SetHidden(snap *model.Snapshot, id string, hidden bool) error {
	c := snap.Comment(id)
	if c == nil {
		return fmt.Errorf("comment %q: %w", id, ErrNotFound)
	}
	c.IsHidden = hidden
	return nil
}

// Attach stores committed comment in snapshot and links it to chapter.
func Attach(snap *model.Snapshot, chapterID, content string, c model.Comment) error {
	ch := snap.Chapter(chapterID)
	if ch == nil {
		return fmt.Errorf("chapter %q: %w", chapterID, ErrNotFound)
	}
	ch.Content = content
	ch.CommentIDs = append(ch.CommentIDs, c.ID)
	snap.Comments = append(snap.Comments, c)
	return nil
}
