package codex

import (
	"context"
	"fmt"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"inkwell/state"
	"inkwell/store"
)

// Projects lists projects kept in the configured database, the one this
// configuration works with is marked.
func Projects(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("projects")
	tooManyArgs(cmd, log, 0)

	lister, ok := env.Store.(store.Lister)
	if !ok {
		return fmt.Errorf("store driver %q keeps single project", env.Cfg.Store.Driver)
	}
	keys, err := lister.Projects(ctx)
	if err != nil {
		return err
	}

	current := store.Key(env.Cfg.Store.Project)
	w := output(cmd)
	for _, key := range keys {
		mark := " "
		if key == current {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", mark, key); err != nil {
			return err
		}
	}
	log.Debug("Projects listed", zap.Int("count", len(keys)))
	return nil
}
