package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"inkwell/codex"
	"inkwell/config"
	"inkwell/misc"
	"inkwell/model"
	"inkwell/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		// save complete processed configuration if external configuration was provided
		if len(configFile) > 0 {
			if data, err := config.Dump(env.Cfg); err == nil {
				env.Rpt.StoreData(fmt.Sprintf("config/%s", filepath.Base(configFile)), data)
			}
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 && env.Log != nil {
		env.Log.Info("Using defaults (no configuration file)")
	}
	return ctx, nil
}

// openCodex is called for commands working with stored codex only, so
// dumping configuration never touches the store
func openCodex(ctx context.Context, _ *cli.Command) (context.Context, error) {
	env := state.EnvFromContext(ctx)
	if err := env.Initialize(); err != nil {
		return ctx, err
	}
	env.Log.Debug("Codex store opened", zap.Stringer("driver", env.Cfg.Store.Driver), zap.String("path", env.Cfg.Store.Path), zap.String("project", env.Cfg.Store.Project))
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if er := env.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close codex store: %w", er))
	}

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := filepath.Join(filepath.Dir(env.Cfg.Logging.FileLogger.Destination), misc.GetAppName()+"-panic.log")
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Regular errors are returned from subcommands, cli.Exit() is not used.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// error is reported either by exitErrHandler or on exit directly to stderr
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func commentCommand(op, usage string) *cli.Command {
	return &cli.Command{
		Name:         op,
		Usage:        usage,
		OnUsageError: usageErrorHandler,
		Action:       codex.Comment(op),
		ArgsUsage:    "ID",
	}
}

func main() {

	// allow graceful shutdown on interrupt
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "keeps characters, timeline and annotated chapters of a fiction codex in sync",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "apply",
				Usage:        "Applies entity edits and synchronizes derived timeline events",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Apply,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "dry-run", Aliases: []string{"n"}, Usage: "print resulting codex instead of saving it"},
				},
				ArgsUsage: "ACTIONS",
				CustomHelpTemplate: fmt.Sprintf(`%s
ACTIONS:
    YAML file (or "-" for STDIN) with one or more documents separated by "---",
    each describing single edit:

        op: add|update|delete
        entity: character|event|relationship
        character|event|relationship: <complete new value>
        life_event_type: marriage|friendship|birth-of-child (events only, optional)

    Previous values for updates are taken from stored codex. Actions are applied
    in order, if any of them is rejected nothing is saved.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "chapter",
				Usage:        "Creates chapter or replaces its structured content",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Chapter,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "title", Aliases: []string{"t"}, Usage: "set chapter `TITLE`"},
				},
				ArgsUsage: "ID [SOURCE]",
			},
			{
				Name:         "stats",
				Usage:        "Prints word, character, sentence counts and reading time (YAML)",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Stats,
				ArgsUsage:    "[CHAPTER]",
			},
			{
				Name:         "strip",
				Usage:        "Prints chapter content without annotations",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Strip,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "plain", Usage: "drop formatting too, output reader visible text only"},
				},
				ArgsUsage: "CHAPTER",
			},
			{
				Name:         "render",
				Usage:        "Prints rich (HTML) projection of chapter",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Render,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "active", Usage: "highlight annotation with `ID` as active"},
					&cli.BoolFlag{Name: "clean", Usage: "render without any annotations"},
				},
				ArgsUsage: "CHAPTER",
			},
			{
				Name:         "structure",
				Usage:        "Converts rich (HTML) text to structured content",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Structure,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "chapter", Usage: "replace content of chapter `ID` instead of printing result"},
				},
				ArgsUsage: "SOURCE",
			},
			{
				Name:         "mentions",
				Usage:        "Lists mentions of character with excerpts",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Mentions,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "radius", Aliases: []string{"r"}, Usage: "excerpt size in `CHARACTERS` on each side of mention"},
				},
				ArgsUsage: "CHARACTER",
			},
			{
				Name:         "autotag",
				Usage:        "Wraps known character names into mention tags",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.AutoTag,
				ArgsUsage:    "[CHAPTER]",
			},
			{
				Name:         "complete",
				Usage:        "Lists characters matching mention typed before cursor",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Complete,
				ArgsUsage:    "TEXT",
			},
			{
				Name:         "annotate",
				Usage:        "Adds comment or event marker to selected chapter text",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Annotate,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "kind", Aliases: []string{"k"}, Value: model.AnnotationKindComment.String(),
						Usage: "annotation `KIND` (comment or event)"},
					&cli.StringFlag{Name: "text", Usage: "comment text or event description"},
					&cli.StringFlag{Name: "author", Usage: "comment author, configured default when absent"},
					&cli.StringFlag{Name: "suggest", Usage: "make comment a suggestion with `REPLACEMENT` text"},
					&cli.StringFlag{Name: "title", Usage: "event title"},
					&cli.StringFlag{Name: "date", Usage: "event `DATE` (YYYY-MM-DD)"},
					&cli.StringSliceFlag{Name: "character", Usage: "event participant `ID`, mentions in selection when absent"},
					&cli.StringFlag{Name: "life-event", Usage: "event represents life event of `TYPE` (" + strings.Join(model.LifeEventTypeNames(), ", ") + ")"},
				},
				ArgsUsage: "CHAPTER START END",
				CustomHelpTemplate: fmt.Sprintf(`%s
START, END:
    byte offsets of selection in chapter content with all annotation tags removed
    (see "strip" command)
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "comment",
				Usage:        "Changes state of existing comment",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Commands: []*cli.Command{
					commentCommand("preview", "Shows suggested replacement in place of original text"),
					commentCommand("unpreview", "Restores original text of previewed suggestion"),
					commentCommand("apply", "Accepts suggestion and deletes comment"),
					commentCommand("hide", "Hides comment from rendered chapter"),
					commentCommand("show", "Shows hidden comment"),
				},
			},
			{
				Name:         "remove",
				Usage:        "Removes annotation keeping its text",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Remove,
				ArgsUsage:    "KIND ID",
			},
			{
				Name:         "show",
				Usage:        "Prints readable tree of stored codex",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Show,
			},
			{
				Name:         "projects",
				Usage:        "Lists projects kept in the database (store.driver: sqlite)",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Projects,
			},
			{
				Name:         "export",
				Usage:        "Exports codex as FB2 book",
				OnUsageError: usageErrorHandler,
				Before:       openCodex,
				Action:       codex.Export,
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "overwrite", Aliases: []string{"ow"}, Usage: "overwrite existing book"},
				},
				ArgsUsage: "[DESTINATION]",
				CustomHelpTemplate: fmt.Sprintf(`%s
DESTINATION:
    path to directory, output file name comes from configuration (export.output_name_template)
    or path to file with .fb2 extension
    if absent - current working directory
`, cli.CommandHelpTemplate),
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values wich is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}

func outputConfiguration(ctx context.Context, cmd *cli.Command) error {

	env := state.EnvFromContext(ctx)
	if cmd.Args().Len() > 1 {
		env.Log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	fname := cmd.Args().Get(0)

	var (
		err   error
		data  []byte
		state string
	)

	out := os.Stdout
	if len(fname) > 0 {
		out, err = os.Create(fname)
		if err != nil {
			return fmt.Errorf("unable to create destination file '%s': %w", fname, err)
		}
		defer out.Close()
	}

	if cmd.Bool("default") {
		state = "default"
		data, err = config.Prepare()
	} else {
		state = "actual"
		data, err = config.Dump(env.Cfg)
	}
	if err != nil {
		return fmt.Errorf("unable to get configuration: %w", err)
	}

	if len(fname) == 0 {
		fname = "STDOUT"
	}
	env.Log.Info("Outputing configuration", zap.String("state", state), zap.String("file", fname))

	_, err = out.Write(data)
	if err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
