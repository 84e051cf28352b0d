package codex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"inkwell/cleantext"
	"inkwell/markup"
	"inkwell/model"
	"inkwell/state"
)

// DocumentStats is output of stats command for the whole codex.
type DocumentStats struct {
	Chapters []cleantext.ChapterStats `yaml:"chapters"`
	Total    cleantext.Stats          `yaml:"total"`
}

// Stats prints clean text statistics of single chapter or of all chapters.
func Stats(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	tooManyArgs(cmd, env.Log, 1)

	snap, err := load(ctx, env)
	if err != nil {
		return err
	}

	if id := cmd.Args().Get(0); len(id) > 0 {
		ch, err := chapter(snap, id)
		if err != nil {
			return err
		}
		st, err := env.Projector.Stats(ch.Content)
		if err != nil {
			return err
		}
		return writeYAML(output(cmd), cleantext.ChapterStats{ID: ch.ID, Title: ch.Title, Stats: st})
	}

	chapters, total, err := env.Projector.Document(snap.Chapters)
	if err != nil {
		return err
	}
	return writeYAML(output(cmd), DocumentStats{Chapters: chapters, Total: total})
}

// Strip prints chapter content without annotations. With --plain all
// formatting is dropped as well.
func Strip(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	tooManyArgs(cmd, env.Log, 1)

	snap, err := load(ctx, env)
	if err != nil {
		return err
	}
	ch, err := chapter(snap, cmd.Args().Get(0))
	if err != nil {
		return err
	}

	text := cleantext.StripAnnotations(ch.Content)
	if cmd.Bool("plain") {
		if text, err = env.Projector.PlainText(ch.Content); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(output(cmd), text)
	return err
}

// Render prints rich (HTML) projection of chapter content. Annotations are
// decorated from the codex unless --clean is requested.
func Render(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	tooManyArgs(cmd, env.Log, 1)

	snap, err := load(ctx, env)
	if err != nil {
		return err
	}
	ch, err := chapter(snap, cmd.Args().Get(0))
	if err != nil {
		return err
	}

	var rich string
	if cmd.Bool("clean") {
		rich, err = env.Projector.Preview(ch.Content)
	} else {
		rich, err = markup.Rich(ch.Content, snap, cmd.String("active"), env.Log)
	}
	if err != nil {
		return fmt.Errorf("unable to render chapter %q: %w", ch.ID, err)
	}
	_, err = fmt.Fprintln(output(cmd), rich)
	return err
}

// Structure converts rich (HTML) text to structured content. Result either
// replaces content of the chapter given by --chapter or goes to STDOUT.
func Structure(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("structure")
	tooManyArgs(cmd, log, 1)

	rich, err := readSource(cmd, cmd.Args().Get(0))
	if err != nil {
		return err
	}
	structured, err := markup.NewCodec(nil, log).ToStructured(rich)
	if err != nil {
		return fmt.Errorf("unable to convert rich text: %w", err)
	}

	id := cmd.String("chapter")
	if len(id) == 0 {
		_, err = fmt.Fprintln(output(cmd), structured)
		return err
	}

	snap, err := load(ctx, env)
	if err != nil {
		return err
	}
	ch, err := chapter(snap, id)
	if err != nil {
		return err
	}
	ch.Content = structured
	log.Info("Chapter content replaced", zap.String("chapter", ch.ID), zap.Int("bytes", len(structured)))
	return save(ctx, env, snap)
}

// Chapter creates chapter or replaces its content with structured text from
// file (or STDIN). Chapter title is changed only when --title is present.
func Chapter(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("chapter")
	tooManyArgs(cmd, log, 2)

	id := cmd.Args().Get(0)
	if len(id) == 0 {
		return errors.New("no chapter has been specified")
	}

	snap, err := load(ctx, env)
	if err != nil {
		return err
	}

	ch := snap.Chapter(id)
	if ch == nil {
		snap.Chapters = append(snap.Chapters, model.Chapter{ID: id, Title: id, CommentIDs: []string{}})
		ch = &snap.Chapters[len(snap.Chapters)-1]
		log.Info("Chapter created", zap.String("chapter", id))
	}
	if cmd.IsSet("title") {
		ch.Title = cmd.String("title")
	}
	if src := cmd.Args().Get(1); len(src) > 0 {
		content, err := readSource(cmd, src)
		if err != nil {
			return err
		}
		ch.Content = strings.TrimRight(content, "\n")
		log.Info("Chapter content replaced", zap.String("chapter", id), zap.Int("bytes", len(ch.Content)))
	}
	return save(ctx, env, snap)
}

func readSource(cmd *cli.Command, src string) (string, error) {
	var (
		data []byte
		err  error
	)
	switch src {
	case "":
		return "", errors.New("no input source has been specified")
	case "-":
		data, err = io.ReadAll(input(cmd))
	default:
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return "", fmt.Errorf("unable to read input: %w", err)
	}
	return string(data), nil
}
