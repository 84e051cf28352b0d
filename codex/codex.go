// Package codex implements command line actions operating on the stored
// codex snapshot.
package codex

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"inkwell/config"
	"inkwell/model"
	"inkwell/state"
)

// ErrNoChapter is returned when command names unknown chapter.
var ErrNoChapter = errors.New("chapter not found")

func output(cmd *cli.Command) io.Writer {
	if w := cmd.Root().Writer; w != nil {
		return w
	}
	return os.Stdout
}

func input(cmd *cli.Command) io.Reader {
	if r := cmd.Root().Reader; r != nil {
		return r
	}
	return os.Stdin
}

// load reads current snapshot from the configured store and, in debug mode,
// keeps a copy in the report.
func load(ctx context.Context, env *state.LocalEnv) (*model.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	snap, err := env.Store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load codex: %w", err)
	}
	report(env, "snapshot-before.txt", snap)
	return snap, nil
}

// save writes snapshot to the configured store. In debug mode report gets
// the file store as it was on disk before being overwritten.
func save(ctx context.Context, env *state.LocalEnv, snap *model.Snapshot) error {
	report(env, "snapshot-after.txt", snap)
	if env.Rpt != nil && env.Cfg.Store.Driver == config.StoreDriverFile {
		name := "store/" + filepath.Base(env.Cfg.Store.Path)
		if _, err := env.Rpt.StoreCopy(name, env.Cfg.Store.Path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			env.Log.Warn("Unable to copy store into report", zap.Error(err))
		}
	}
	if err := env.Store.Save(ctx, snap); err != nil {
		return fmt.Errorf("unable to save codex: %w", err)
	}
	return nil
}

func report(env *state.LocalEnv, name string, snap *model.Snapshot) {
	if env.Rpt == nil {
		return
	}
	env.Rpt.StoreData(name, []byte(snap.String()))
}

func chapter(snap *model.Snapshot, id string) (*model.Chapter, error) {
	if len(id) == 0 {
		return nil, errors.New("no chapter has been specified")
	}
	ch := snap.Chapter(id)
	if ch == nil {
		return nil, fmt.Errorf("%q: %w", id, ErrNoChapter)
	}
	return ch, nil
}

func tooManyArgs(cmd *cli.Command, log *zap.Logger, want int) {
	if cmd.Args().Len() > want {
		log.Warn("Malformed command line, too many arguments", zap.Strings("ignoring", cmd.Args().Slice()[want:]))
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("unable to encode output: %w", err)
	}
	return enc.Close()
}

// Show prints readable tree of the stored codex.
func Show(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	snap, err := load(ctx, env)
	if err != nil {
		return err
	}
	_, err = io.WriteString(output(cmd), snap.String())
	return err
}
