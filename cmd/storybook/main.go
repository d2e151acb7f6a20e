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

	"storybook/common"
	"storybook/config"
	"storybook/misc"
	"storybook/reader"
	"storybook/state"
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
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))

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

// Subcommands return regular errors, urfave/cli exit handling is not used.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {
	env := state.EnvFromContext(ctx)
	if env.Cfg != nil {
		// logger is real only after configuration has been loaded
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

const sourceHelp = `
SOURCE:
    library to read, following formats are supported:
        manifest: "[path_to_file]library.yaml" (".yml", ".json" and ".xml" are accepted too)
        database: "[path_to_file]library.db" (SQLite, ".sqlite" and ".sqlite3" are accepted too)
        archive: "[path_to_file]library.zip" - library tree packed in zip archive
        directory: "[path_to_directory]directory" - story files at the top, media of each
            story in directory named after story file without extension
        story files in archives and directories could be plain text or HTML
`

func main() {
	// allow graceful shutdown on interrupt, loading large libraries may take
	// a while
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	toFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "to", Value: common.OutputFmtText.String(),
			Usage: "output `TYPE` (supported types: " + strings.Join(common.OutputFmtNames(), ", ") + ")"}
	}
	previewFlag := func() cli.Flag {
		return &cli.BoolFlag{Name: "preview", Usage: "draw pictures on media pages with characters, scaled by zoom level"}
	}
	cpFlag := func() cli.Flag {
		return &cli.StringFlag{Name: "force-zip-cp",
			Usage: "Force `ENCODING` for ALL non UTF-8 file names in library archives (see IANA.org for character set names)"}
	}

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "lays out story library as a paginated book and navigates through it",
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
				Name:         "layout",
				Usage:        "Computes book layout and prints table of contents",
				OnUsageError: usageErrorHandler,
				Action:       reader.RunLayout,
				Flags: []cli.Flag{
					toFlag(),
					&cli.BoolFlag{Name: "tree", Usage: "print every page of the book as a tree instead"},
					cpFlag(),
				},
				ArgsUsage:          "SOURCE",
				CustomHelpTemplate: cli.CommandHelpTemplate + sourceHelp,
			},
			{
				Name:         "page",
				Usage:        "Prints single page of the book",
				OnUsageError: usageErrorHandler,
				Action:       reader.RunPage,
				Flags:        []cli.Flag{toFlag(), previewFlag(), cpFlag()},
				ArgsUsage:    "SOURCE INDEX",
				CustomHelpTemplate: cli.CommandHelpTemplate + sourceHelp + `
INDEX:
    0-based global page index, cover page is 0
`,
			},
			{
				Name:         "read",
				Usage:        "Opens book and applies navigation commands in order",
				OnUsageError: usageErrorHandler,
				Action:       reader.RunRead,
				Flags: []cli.Flag{
					toFlag(),
					&cli.BoolFlag{Name: "trace", Usage: "print page after every command, not only the last one"},
					previewFlag(),
					cpFlag(),
				},
				ArgsUsage: "SOURCE [COMMAND...]",
				CustomHelpTemplate: cli.CommandHelpTemplate + sourceHelp + `
COMMAND:
    navigation command, one of: ` + strings.Join(common.ActionNames(), ", ") + `
    jump and story require argument: "jump:N" (0-based global page index),
    "story:N" (1-based story number as shown in table of contents)
`,
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

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deferred functions after that
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
	env.Log.Debug("Outputting configuration", zap.String("state", state), zap.String("file", fname))

	if _, err = out.Write(data); err != nil {
		return fmt.Errorf("unable to write configuration: %w", err)
	}
	return nil
}
