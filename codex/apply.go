package codex

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"inkwell/entsync"
	"inkwell/model"
	"inkwell/state"
)

// ReadActions decodes stream of YAML documents, one action per document.
// Unknown keys are rejected.
func ReadActions(data []byte) ([]entsync.Action, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var actions []entsync.Action
	for {
		var a entsync.Action
		err := dec.Decode(&a)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("unable to decode action %d: %w", len(actions)+1, err)
		}
		actions = append(actions, a)
	}
	if len(actions) == 0 {
		return nil, errors.New("no actions found")
	}
	return actions, nil
}

// ApplyActions runs actions one after another. Batch is all or nothing:
// first rejected action aborts it and input snapshot stays as it was.
func ApplyActions(engine *entsync.Engine, snap *model.Snapshot, actions []entsync.Action, log *zap.Logger) (*model.Snapshot, entsync.Counts, error) {
	var total entsync.Counts
	for i, a := range actions {
		res, err := engine.Apply(snap, a.FillPrevious(snap))
		if err != nil {
			var verr *entsync.ValidationError
			if errors.As(err, &verr) {
				for _, p := range verr.Problems() {
					log.Warn("Action rejected", zap.Int("action", i+1), zap.Error(p))
				}
			}
			return nil, entsync.Counts{}, fmt.Errorf("action %d (%s %s): %w", i+1, a.Op, a.Entity, err)
		}
		snap = res.Snapshot
		total = total.Add(res.Counts)
		log.Debug("Action applied", zap.Int("action", i+1), zap.Stringer("op", a.Op), zap.Stringer("entity", a.Entity))
	}
	return snap, total, nil
}

// Apply reads actions file (or STDIN for "-") and applies it to the stored
// codex.
func Apply(ctx context.Context, cmd *cli.Command) error {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("apply")

	src := cmd.Args().Get(0)
	if len(src) == 0 {
		return errors.New("no actions file has been specified")
	}
	tooManyArgs(cmd, log, 1)

	var (
		data []byte
		err  error
	)
	if src == "-" {
		data, err = io.ReadAll(input(cmd))
	} else {
		data, err = os.ReadFile(src)
	}
	if err != nil {
		return fmt.Errorf("unable to read actions: %w", err)
	}
	actions, err := ReadActions(data)
	if err != nil {
		return err
	}

	snap, err := load(ctx, env)
	if err != nil {
		return err
	}

	log.Info("Applying actions", zap.String("source", src), zap.Int("count", len(actions)))
	defer func(start time.Time) {
		log.Debug("Applying completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	next, counts, err := ApplyActions(env.Engine, snap, actions, log)
	if err != nil {
		return err
	}
	log.Info("Derived events synchronized", zap.Int("created", counts.Created), zap.Int("updated", counts.Updated), zap.Int("deleted", counts.Deleted))

	if cmd.Bool("dry-run") {
		_, err = io.WriteString(output(cmd), next.String())
		return err
	}
	return save(ctx, env, next)
}
