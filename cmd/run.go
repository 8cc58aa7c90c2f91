package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/app"
	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/dispatch"
	"github.com/fakeyudi/cpwind/internal/output"
	"github.com/fakeyudi/cpwind/internal/watch"
)

var (
	runInput string
	runWatch bool
)

var runCmd = &cobra.Command{
	Use:   "run [file]",
	Short: "Compile and run a file (defaults to the last run file)",
	Long: `Compile and run a file with the toolchain registered for its extension.
Compilation stops at the first failure; the program only runs after a clean
build. With --watch the file is re-run every time it is saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runWatch {
			return runWatchLoop(cmd, args)
		}
		return withController(cmd, func(ctl *app.Controller) error {
			name, err := targetFile("run", ctl.State(), args, true)
			if err != nil {
				return err
			}
			return runOnce(cmd.Context(), cmd, ctl, name)
		})
	},
}

// runOnce dispatches name and turns the outcome into a CLI error.
func runOnce(ctx context.Context, cmd *cobra.Command, ctl *app.Controller, name string) error {
	opts := dispatch.Options{
		Stdin:    cmd.InOrStdin(),
		Progress: &spinnerProgress{w: out, file: name, diag: cmd.ErrOrStderr()},
	}
	if runInput != "" {
		f, err := os.Open(runInput)
		if err != nil {
			return clierr.FileMissing(runInput).WithHint("Check the --input path")
		}
		defer f.Close()
		opts.Stdin = f
	}
	echo := cfg.Echo()
	if echo {
		opts.Stdout = cmd.OutOrStdout()
		opts.Stderr = cmd.ErrOrStderr()
	}

	res, err := ctl.OnRun(ctx, name, opts)
	return reportOutcome(cmd.OutOrStdout(), res, err, echo)
}

func reportOutcome(stdout io.Writer, res dispatch.Outcome, err error, echoed bool) error {
	var launchErr *dispatch.LaunchError
	switch {
	case errors.As(err, &launchErr):
		return clierr.LaunchFailed(launchErr)
	case errors.Is(err, context.Canceled):
		return err
	case err != nil:
		return clierr.Wrap(clierr.ExitGeneral, "Run failed", err)
	}

	switch res.Kind {
	case dispatch.NotFound:
		return clierr.FileMissing(res.File)
	case dispatch.Unhandled:
		out.Warning("No toolchain for %s, nothing to run", res.File)
		out.Info("Run 'cpwind toolchains' to see supported extensions")
		return nil
	case dispatch.CompileFailure:
		return clierr.CompileFailed(res.File, res.ExitCode, res.Stderr)
	case dispatch.RuntimeFailure:
		detail := res.Stderr
		if echoed {
			detail = ""
		}
		return clierr.RuntimeFailed(res.File, res.ExitCode, detail)
	}

	if !echoed {
		fmt.Fprint(stdout, res.Stdout)
	}
	out.Success("%s finished in %s (%s)", res.File, res.Elapsed.Round(time.Millisecond), res.Toolchain)
	return nil
}

// runWatchLoop re-runs the file on every save until interrupted, saving
// state after each run.
func runWatchLoop(cmd *cobra.Command, args []string) error {
	store, st, err := loadState()
	if err != nil {
		return err
	}
	ctl, err := newController(cmd, st)
	if err != nil {
		return err
	}
	name, err := targetFile("run", st, args, true)
	if err != nil {
		return err
	}

	once := func(ctx context.Context) {
		if err := runOnce(ctx, cmd, ctl, name); err != nil && !errors.Is(err, context.Canceled) {
			handleError(out, err)
		}
		if err := store.Save(st); err != nil {
			logger.Error("saving state", slog.String("error", err.Error()))
			out.Warning("Could not save state: %v", err)
		}
		out.Info("Watching %s, Ctrl+C to stop", name)
	}

	once(cmd.Context())
	w := &watch.Watcher{Path: name, Log: logger}
	if err := w.Run(cmd.Context(), once); err != nil {
		return clierr.Wrap(clierr.ExitGeneral, "Could not watch "+name, err)
	}
	return nil
}

// spinnerProgress shows a spinner while the compiler runs and prints the
// warnings of a successful build once it stops. Diagnostics of a failed
// build are reported through the CLI error instead.
type spinnerProgress struct {
	w       *output.Writer
	file    string
	diag    io.Writer
	spinner *output.Spinner
}

func (p *spinnerProgress) StageStarted(stage dispatch.Stage, _ dispatch.Command) {
	if stage != dispatch.StageCompile {
		return
	}
	p.spinner = p.w.Spinner(fmt.Sprintf("Compiling %s", p.file))
	p.spinner.Start()
}

func (p *spinnerProgress) StageFinished(stage dispatch.Stage, res dispatch.Result, err error) {
	if stage != dispatch.StageCompile {
		return
	}
	if p.spinner != nil {
		p.spinner.Stop()
		p.spinner = nil
	}
	if err != nil || res.ExitCode != 0 || p.diag == nil {
		return
	}
	if len(res.Stderr) > 0 {
		_, _ = p.diag.Write(res.Stderr)
	} else if len(res.Stdout) > 0 {
		_, _ = p.diag.Write(res.Stdout)
	}
}

func init() {
	runCmd.Flags().StringVarP(&runInput, "input", "i", "", "Feed this file to the program's stdin")
	runCmd.Flags().BoolVarP(&runWatch, "watch", "w", false, "Re-run whenever the file is saved")
	rootCmd.AddCommand(runCmd)
}
