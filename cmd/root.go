package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/x/term"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/config"
	"github.com/fakeyudi/cpwind/internal/observability"
	"github.com/fakeyudi/cpwind/internal/output"
	"github.com/fakeyudi/cpwind/internal/profile"
	"github.com/fakeyudi/cpwind/internal/session"
)

// cfg holds the merged configuration, populated in PersistentPreRunE.
var cfg config.Config

// activeProfile holds the loaded user profile.
var activeProfile *profile.Profile

// out is the user-facing writer for the running command.
var out = output.Default()

// logger is the structured logger for the running command.
var logger = observability.Discard()

var closeLog func() error

var (
	flagNoColor  bool
	flagQuiet    bool
	flagLogLevel string
	flagLogFile  string
)

var rootCmd = &cobra.Command{
	Use:   "cpwind",
	Short: "Time competitive-programming solutions and build-and-run them in one step",
	Long: `cpwind generates a solution file from your template and starts a timer.
Pause and resume the timer while you think, run the file through its compiler
or interpreter, and wind it to the clipboard when you submit.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		initOutput(cmd)
		if err := loadConfig(); err != nil {
			return err
		}

		// First-run: profile missing → run setup wizard automatically.
		// Only do this when stdin is an interactive terminal.
		if !profile.Exists() && cmd.InOrStdin() == os.Stdin && term.IsTerminal(os.Stdin.Fd()) {
			out.Println()
			out.Println("  Welcome to cpwind! Looks like this is your first time.")
			if err := runSetup(cmd, os.Stdin); err != nil {
				return err
			}
		}

		activeProfile = nil
		if profile.Exists() {
			p, err := profile.Load()
			if err != nil {
				return clierr.Wrap(clierr.ExitConfig, "Could not load profile", err).
					WithHint("Run 'cpwind setup' to recreate it")
			}
			activeProfile = p
		}

		return initLogger(cmd)
	},
}

// loadConfig merges the global and project config into cfg.
func loadConfig() error {
	global, err := config.LoadGlobal()
	if err != nil {
		return clierr.Config(err)
	}
	project, err := config.LoadProject()
	if err != nil {
		return clierr.Config(err)
	}
	cfg = config.Merge(global, project)
	return nil
}

// initOutput builds the writer for cmd from the global flags.
func initOutput(cmd *cobra.Command) {
	colored := !flagNoColor && cmd.OutOrStdout() == os.Stdout && output.ColorSupported()
	out = output.NewWriter(cmd.OutOrStdout(), cmd.ErrOrStderr(), colored)
	out.Quiet = flagQuiet
}

// initLogger opens the log file for this invocation and stores the logger
// on the command context.
func initLogger(cmd *cobra.Command) error {
	if closeLog != nil {
		_ = closeLog()
		closeLog = nil
	}

	level := cfg.LogLevel
	if flagLogLevel != "" {
		level = flagLogLevel
	}
	logFile := flagLogFile
	if logFile == "" {
		dir, err := session.DataDir()
		if err != nil {
			return clierr.Wrap(clierr.ExitGeneral, "Could not resolve data directory", err)
		}
		logFile = filepath.Join(dir, "cpwind.log")
	}

	l, cleanup, err := observability.NewLogger(&observability.Config{
		Level:        level,
		Format:       cfg.LogFormat,
		LogFile:      logFile,
		InvocationID: uuid.NewString(),
		CommandPath:  cmd.CommandPath(),
	})
	if err != nil {
		return clierr.Config(err).WithHint("Use --log-level (error|warn|info|debug) or fix log_level/log_format in the config")
	}
	logger, closeLog = l, cleanup
	cmd.SetContext(observability.WithLogger(cmd.Context(), logger))
	logger.Debug("command started", slog.Any("args", cmd.Flags().Args()))
	return nil
}

// Execute runs the root command and exits with the error's exit code.
func Execute() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		logger.Error("command failed", slog.String("error", err.Error()))
	}
	if closeLog != nil {
		_ = closeLog()
	}
	if err != nil {
		return handleError(out, err)
	}
	return clierr.ExitSuccess
}

// handleError formats and displays a CLI error, returning the appropriate exit code.
func handleError(w *output.Writer, err error) int {
	var cliErr *clierr.CLIError
	if clierr.As(err, &cliErr) {
		w.Failure("%s", cliErr.Message)
		if cliErr.Detail != "" {
			w.Muted("%s", cliErr.Detail)
		}
		if cliErr.Hint != "" {
			w.Info("%s", cliErr.Hint)
		}
		return cliErr.Code
	}

	if errors.Is(err, context.Canceled) {
		w.Failure("Interrupted")
		return 130
	}

	errStr := err.Error()
	if strings.HasPrefix(errStr, "unknown command") ||
		strings.HasPrefix(errStr, "accepts ") ||
		strings.HasPrefix(errStr, "requires ") {
		w.Failure("%s", errStr)
		if !strings.Contains(errStr, "--help") {
			w.Info("Run 'cpwind --help' for usage")
		}
		return clierr.ExitUsage
	}

	w.Failure("%s", errStr)
	return clierr.ExitGeneral
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.BoolVar(&flagNoColor, "no-color", false, "Disable colors and spinners")
	pf.BoolVarP(&flagQuiet, "quiet", "q", false, "Only print errors and program output")
	pf.StringVar(&flagLogLevel, "log-level", "", "Log level for the log file (error|warn|info|debug)")
	pf.StringVar(&flagLogFile, "log-file", "", "Log file path (default $XDG_DATA_HOME/cpwind/cpwind.log)")

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return clierr.New(clierr.ExitUsage, err.Error()).
			WithHint(fmt.Sprintf("Run '%s --help' for usage", c.CommandPath()))
	})
}
