// Package dispatch compiles and runs a source file with the toolchain its
// extension maps to. Compile and run are strictly sequenced: a failed
// compile never reaches the run phase.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/fakeyudi/cpwind/internal/toolchain"
)

// ErrFileMissing is the error form of a NotFound outcome.
var ErrFileMissing = errors.New("source file does not exist")

// Kind classifies an Outcome.
type Kind int

const (
	Success Kind = iota
	CompileFailure
	RuntimeFailure
	// Unhandled means no toolchain is registered for the extension. It is
	// not an error: the file exists and is presumed runnable by other means.
	Unhandled
	NotFound
	LaunchFailure
)

func (k Kind) String() string {
	switch k {
	case Success:
		return "success"
	case CompileFailure:
		return "compile failure"
	case RuntimeFailure:
		return "runtime failure"
	case Unhandled:
		return "unhandled"
	case NotFound:
		return "not found"
	case LaunchFailure:
		return "launch failure"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Stage is the phase a dispatch reached.
type Stage string

const (
	StageNone    Stage = ""
	StageCompile Stage = "compile"
	StageRun     Stage = "run"
)

// Outcome is the single result of dispatching a file.
type Outcome struct {
	Kind      Kind
	File      string
	Toolchain string
	Stage     Stage
	ExitCode  int
	// Stdout is the captured standard output of the run phase.
	Stdout string
	// Stderr holds the diagnostics of the failing phase.
	Stderr string
	// Elapsed is the wall-clock time of the run phase.
	Elapsed time.Duration
}

// OK reports whether the outcome should be treated as success by callers.
func (o Outcome) OK() bool {
	return o.Kind == Success || o.Kind == Unhandled
}

// Progress receives stage notifications, e.g. to drive a spinner.
type Progress interface {
	StageStarted(stage Stage, cmd Command)
	StageFinished(stage Stage, res Result, err error)
}

// Options tune a single dispatch.
type Options struct {
	// Stdin feeds the run phase. Nil means no input.
	Stdin io.Reader
	// Stdout and Stderr echo the run phase output live.
	Stdout io.Writer
	Stderr io.Writer
	// CompileOutput echoes compiler output live. Nil captures only.
	CompileOutput io.Writer
	Progress      Progress
}

// Dispatcher runs files through the toolchain registry.
type Dispatcher struct {
	registry *toolchain.Registry
	runner   Runner
	log      *slog.Logger
	now      func() time.Time
}

// New returns a Dispatcher. A nil runner means ExecRunner, a nil logger slog.Default.
func New(reg *toolchain.Registry, runner Runner, log *slog.Logger) *Dispatcher {
	if runner == nil {
		runner = ExecRunner{}
	}
	if log == nil {
		log = slog.Default()
	}
	return &Dispatcher{registry: reg, runner: runner, log: log, now: time.Now}
}

// RunFile compiles (when the toolchain has a compile phase) and runs filename.
// The returned error is non-nil only for a *LaunchError or context
// cancellation; toolchain failures are reported through the Outcome.
func (d *Dispatcher) RunFile(ctx context.Context, filename string, opts Options) (Outcome, error) {
	out := Outcome{File: filename}
	log := d.log.With(slog.String("file", filename))

	info, err := os.Stat(filename)
	if err != nil || info.IsDir() {
		log.Debug("dispatch: source missing", slog.Any("error", err))
		out.Kind = NotFound
		return out, nil
	}

	spec, ok := d.registry.Lookup(filename)
	if !ok {
		log.Debug("dispatch: no toolchain registered")
		out.Kind = Unhandled
		return out, nil
	}
	out.Toolchain = spec.Name
	artifact := toolchain.ArtifactPath(filename)

	if spec.HasCompilePhase {
		out.Stage = StageCompile
		cmd := Command{
			Argv:   spec.CompileArgs(filename, artifact),
			Stdout: opts.CompileOutput,
			Stderr: opts.CompileOutput,
		}
		res, err := d.phase(ctx, log, StageCompile, cmd, opts.Progress)
		if err != nil {
			return launchFailed(out, err)
		}
		if res.ExitCode != 0 {
			out.Kind = CompileFailure
			out.ExitCode = res.ExitCode
			out.Stderr = diagnostics(res)
			return out, nil
		}
	}

	out.Stage = StageRun
	cmd := Command{
		Argv:   spec.RunArgs(filename, artifact),
		Stdin:  opts.Stdin,
		Stdout: opts.Stdout,
		Stderr: opts.Stderr,
	}
	start := d.now()
	res, err := d.phase(ctx, log, StageRun, cmd, opts.Progress)
	out.Elapsed = d.now().Sub(start)
	if err != nil {
		return launchFailed(out, err)
	}
	out.ExitCode = res.ExitCode
	out.Stdout = string(res.Stdout)
	if res.ExitCode != 0 {
		out.Kind = RuntimeFailure
		out.Stderr = string(res.Stderr)
		return out, nil
	}
	out.Kind = Success
	return out, nil
}

func (d *Dispatcher) phase(ctx context.Context, log *slog.Logger, stage Stage, cmd Command, p Progress) (Result, error) {
	log.Debug("dispatch: stage started", slog.String("stage", string(stage)), slog.String("argv", cmd.String()))
	if p != nil {
		p.StageStarted(stage, cmd)
	}
	res, err := d.runner.Run(ctx, cmd)
	if p != nil {
		p.StageFinished(stage, res, err)
	}
	if err != nil {
		log.Warn("dispatch: stage did not start", slog.String("stage", string(stage)), slog.Any("error", err))
		return res, err
	}
	log.Info("dispatch: stage finished", slog.String("stage", string(stage)), slog.Int("exit_code", res.ExitCode))
	return res, nil
}

func launchFailed(out Outcome, err error) (Outcome, error) {
	var le *LaunchError
	if errors.As(err, &le) {
		out.Kind = LaunchFailure
		return out, err
	}
	// Interrupted: never report the zero Kind (Success).
	out.Kind = CompileFailure
	if out.Stage == StageRun {
		out.Kind = RuntimeFailure
	}
	out.ExitCode = -1
	return out, err
}

// diagnostics prefers stderr; some compilers write errors to stdout.
func diagnostics(res Result) string {
	if len(res.Stderr) > 0 {
		return string(res.Stderr)
	}
	return string(res.Stdout)
}
