package codex

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"inkwell/fb2"
	"inkwell/state"
)

// Export writes the codex as FB2 book. DESTINATION is either a directory
// (file name comes from configured template) or a file with .fb2 extension.
func Export(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)
	log := env.Log.Named("export")
	tooManyArgs(cmd, log, 1)

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		if dst, err = os.Getwd(); err != nil {
			return fmt.Errorf("unable to get working directory: %w", err)
		}
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}

	snap, err := load(ctx, env)
	if err != nil {
		return err
	}

	meta := fb2.Meta{
		Title:   env.Cfg.Export.Title,
		Author:  env.Cfg.Export.Author,
		Lang:    env.Cfg.Export.Lang,
		Project: env.Cfg.Store.Project,
		Date:    time.Now(),
	}
	if !strings.EqualFold(filepath.Ext(dst), ".fb2") {
		name, err := fb2.OutputName(env.Cfg.Export.OutputNameTemplate, &meta)
		if err != nil {
			return fmt.Errorf("unable to build output name: %w", err)
		}
		if len(name) == 0 {
			name = env.Cfg.Store.Project + ".fb2"
		}
		dst = filepath.Join(dst, name)
	}

	if _, err := os.Stat(dst); err == nil && !cmd.Bool("overwrite") {
		return fmt.Errorf("output file already exists: %s", dst)
	}
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return fmt.Errorf("unable to create output directory: %w", err)
	}

	log.Info("Exporting", zap.String("destination", dst), zap.Int("chapters", len(snap.Chapters)))
	defer func(start time.Time) {
		if err == nil {
			log.Info("Export completed", zap.Duration("elapsed", time.Since(start)))
		}
	}(time.Now())

	doc, err := fb2.NewExporter(log).Export(snap, meta)
	if err != nil {
		return err
	}
	doc.Indent(2)
	if err := doc.WriteToFile(dst); err != nil {
		return fmt.Errorf("unable to write book: %w", err)
	}
	if env.Rpt != nil {
		env.Rpt.Store(filepath.Base(dst), dst)
	}
	return nil
}
