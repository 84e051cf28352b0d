package codex

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"inkwell/annotation"
	"inkwell/entsync"
	"inkwell/markup"
	"inkwell/model"
	"inkwell/state"
)

// Annotate wraps byte range of clean chapter text into a committed comment
// or event marker.
func Annotate(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("annotate")
	tooManyArgs(cmd, log, 3)

	if cmd.Args().Len() < 3 {
		return errors.New("chapter and selection range are required")
	}
	start, err := strconv.Atoi(cmd.Args().Get(1))
	if err != nil {
		return fmt.Errorf("bad selection start: %w", err)
	}
	end, err := strconv.Atoi(cmd.Args().Get(2))
	if err != nil {
		return fmt.Errorf("bad selection end: %w", err)
	}
	kind, err := model.ParseAnnotationKind(cmd.String("kind"))
	if err != nil {
		return err
	}

	snap, err := load(ctx, env)
	if err != nil {
		return err
	}
	ch, err := chapter(snap, cmd.Args().Get(0))
	if err != nil {
		return err
	}

	session := annotation.NewSession(ch.ID, ch.Content, log)
	if _, err := session.Begin(kind, start, end); err != nil {
		return err
	}

	var id string
	switch kind {
	case model.AnnotationKindComment:
		id, err = commitComment(env, snap, session, cmd)
	case model.AnnotationKindEvent:
		id, snap, err = commitEvent(env, snap, session, cmd)
	}
	if err != nil {
		return err
	}

	log.Info("Annotation created", zap.Stringer("kind", kind), zap.String("id", id), zap.String("chapter", ch.ID))
	fmt.Fprintln(output(cmd), id)
	return save(ctx, env, snap)
}

func commitComment(env *state.LocalEnv, snap *model.Snapshot, s *annotation.Session, cmd *cli.Command) (string, error) {
	author := cmd.String("author")
	if len(author) == 0 {
		author = env.Cfg.Document.Annotations.DefaultAuthor
	}
	c, err := s.CommitComment(annotation.CommentDraft{
		Author:          author,
		Text:            cmd.String("text"),
		IsSuggestion:    cmd.IsSet("suggest"),
		ReplacementText: cmd.String("suggest"),
	}, time.Now())
	if err != nil {
		return "", err
	}
	if err := annotation.Attach(snap, s.ChapterID, s.Content, c); err != nil {
		return "", err
	}
	return c.ID, nil
}

// commitEvent creates timeline event through the engine, so participants
// get their derived fields updated.
func commitEvent(env *state.LocalEnv, snap *model.Snapshot, s *annotation.Session, cmd *cli.Command) (string, *model.Snapshot, error) {
	ev, err := s.CommitEvent(annotation.EventDraft{
		Title:       cmd.String("title"),
		Date:        cmd.String("date"),
		Description: cmd.String("text"),
		Characters:  cmd.StringSlice("character"),
	})
	if err != nil {
		return "", nil, err
	}
	snap.Chapter(s.ChapterID).Content = s.Content

	a := entsync.Action{Op: entsync.OpAdd, Entity: entsync.EntityEvent, Event: &ev}
	if lt := cmd.String("life-event"); len(lt) > 0 {
		if a.LifeEventType, err = model.ParseLifeEventType(lt); err != nil {
			return "", nil, err
		}
	}
	res, err := env.Engine.Apply(snap, a)
	if err != nil {
		return "", nil, err
	}
	return ev.ID, res.Snapshot, nil
}

// Remove deletes committed annotation. Event markers go through the engine,
// which also clears derived character fields, mention tags are unwrapped in
// every chapter.
func Remove(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("remove")
	tooManyArgs(cmd, log, 2)

	kind, err := model.ParseAnnotationKind(cmd.Args().Get(0))
	if err != nil {
		return err
	}
	id := cmd.Args().Get(1)
	if len(id) == 0 {
		return errors.New("no annotation id has been specified")
	}

	snap, err := load(ctx, env)
	if err != nil {
		return err
	}

	switch kind {
	case model.AnnotationKindComment:
		err = annotation.Remove(snap, kind, id)
	case model.AnnotationKindEvent:
		var res *entsync.Result
		if res, err = env.Engine.Apply(snap, entsync.Action{Op: entsync.OpDelete, Entity: entsync.EntityEvent, Event: &model.Event{ID: id}}); err == nil {
			snap = res.Snapshot
		}
	case model.AnnotationKindMention:
		removed := 0
		for i := range snap.Chapters {
			var n int
			snap.Chapters[i].Content, n = markup.UnwrapAll(snap.Chapters[i].Content, kind, id)
			removed += n
		}
		if removed == 0 {
			err = fmt.Errorf("%s %q: %w", kind, id, annotation.ErrNotFound)
		}
	}
	if err != nil {
		return err
	}
	log.Info("Annotation removed", zap.Stringer("kind", kind), zap.String("id", id))
	return save(ctx, env, snap)
}

// Comment returns action changing state of existing comment: preview,
// unpreview, apply, hide or show.
func Comment(op string) cli.ActionFunc {
	return func(ctx context.Context, cmd *cli.Command) error {
		env := state.EnvFromContext(ctx)
		log := env.Log.Named("comment")
		tooManyArgs(cmd, log, 1)

		id := cmd.Args().Get(0)
		if len(id) == 0 {
			return errors.New("no comment id has been specified")
		}
		snap, err := load(ctx, env)
		if err != nil {
			return err
		}

		switch op {
		case "preview":
			err = annotation.SetPreview(snap, id, true)
		case "unpreview":
			err = annotation.SetPreview(snap, id, false)
		case "apply":
			err = annotation.ApplySuggestion(snap, id)
		case "hide":
			err = annotation.SetHidden(snap, id, true)
		case "show":
			err = annotation.SetHidden(snap, id, false)
		default:
			err = fmt.Errorf("unknown comment operation %q", op)
		}
		if err != nil {
			return err
		}
		log.Info("Comment updated", zap.String("op", op), zap.String("id", id))
		return save(ctx, env, snap)
	}
}
