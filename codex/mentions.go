package codex

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/maruel/natural"
	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"inkwell/mention"
	"inkwell/model"
	"inkwell/state"
)

// Mentions lists every mention of a character with surrounding excerpt.
func Mentions(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	tooManyArgs(cmd, env.Log, 1)

	id := cmd.Args().Get(0)
	if len(id) == 0 {
		return errors.New("no character has been specified")
	}
	snap, err := load(ctx, env)
	if err != nil {
		return err
	}
	c := snap.Character(id)
	if c == nil {
		return fmt.Errorf("character %q not found", id)
	}

	radius := env.Cfg.Document.Mentions.ExcerptRadius
	if cmd.IsSet("radius") {
		radius = cmd.Int("radius")
	}
	found, err := mention.FindMentions(snap.Chapters, id, radius, env.Log)
	if err != nil {
		return err
	}

	out := output(cmd)
	fmt.Fprintf(out, "%s: %d mention(s)\n", c.Name, len(found))
	for _, o := range found {
		if _, err := fmt.Fprintf(out, "[%s] %s\n", o.ChapterTitle, o.Excerpt.Highlighted()); err != nil {
			return err
		}
	}
	return nil
}

// AutoTag wraps known character names in mention tags in one or all
// chapters.
func AutoTag(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("autotag")
	tooManyArgs(cmd, log, 1)

	snap, err := load(ctx, env)
	if err != nil {
		return err
	}

	chapters := snap.Chapters
	if id := cmd.Args().Get(0); len(id) > 0 {
		i := slices.IndexFunc(snap.Chapters, func(ch model.Chapter) bool { return ch.ID == id })
		if i < 0 {
			return fmt.Errorf("%q: %w", id, ErrNoChapter)
		}
		chapters = snap.Chapters[i : i+1]
	}

	tagger := mention.NewTagger(snap.Characters, env.Cfg.Document.Mentions.BoundaryPunctuation)
	total := 0
	for i := range chapters {
		content, n := tagger.Tag(chapters[i].Content)
		if n == 0 {
			continue
		}
		chapters[i].Content = content
		total += n
		log.Debug("Mentions tagged", zap.String("chapter", chapters[i].ID), zap.Int("count", n))
	}

	log.Info("Auto tagging completed", zap.Int("tagged", total))
	fmt.Fprintf(output(cmd), "%d mention(s) tagged\n", total)
	if total == 0 {
		return nil
	}
	return save(ctx, env, snap)
}

// Candidates returns characters matching mention query typed after '@':
// name or nickname starting with query, case insensitive, ordered by name.
func Candidates(characters []model.Character, query string) []model.Character {
	query = strings.ToLower(query)
	var out []model.Character
	for _, c := range characters {
		for _, t := range append([]string{c.Name}, c.Nicknames...) {
			if strings.HasPrefix(strings.ToLower(t), query) {
				out = append(out, c)
				break
			}
		}
	}
	slices.SortStableFunc(out, func(a, b model.Character) int {
		switch {
		case natural.Less(a.Name, b.Name):
			return -1
		case natural.Less(b.Name, a.Name):
			return 1
		}
		return 0
	})
	return out
}

// Complete prints mention candidates for text preceding cursor.
func Complete(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)

	query, ok := mention.DetectTrigger(strings.Join(cmd.Args().Slice(), " "))
	if !ok {
		env.Log.Debug("No mention trigger before cursor")
		return nil
	}
	snap, err := load(ctx, env)
	if err != nil {
		return err
	}
	out := output(cmd)
	for _, c := range Candidates(snap.Characters, query) {
		if _, err := fmt.Fprintf(out, "%s\t%s\n", c.ID, c.Name); err != nil {
			return err
		}
	}
	return nil
}
