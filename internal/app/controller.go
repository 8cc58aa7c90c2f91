// Package app wires CLI verbs to the session timer and the run dispatcher.
// A Controller owns the in-memory State for one invocation; the caller loads
// it before and saves it after.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fakeyudi/cpwind/internal/clipboard"
	"github.com/fakeyudi/cpwind/internal/dispatch"
	"github.com/fakeyudi/cpwind/internal/session"
	"github.com/fakeyudi/cpwind/internal/template"
)

// ErrFileExists is returned by OnGenerate when the target exists and force is off.
var ErrFileExists = errors.New("file already exists")

// Deps are the collaborators of a Controller.
type Deps struct {
	Templates  template.Store
	Dispatcher *dispatch.Dispatcher
	Clipboard  clipboard.Copier
	Author     string
	Log        *slog.Logger
	Clock      func() time.Time
}

// Controller applies one command to the State.
type Controller struct {
	state      *session.State
	timer      *session.Timer
	templates  template.Store
	dispatcher *dispatch.Dispatcher
	clipboard  clipboard.Copier
	author     string
	log        *slog.Logger
	now        func() time.Time
}

// New returns a Controller mutating st.
func New(st *session.State, d Deps) *Controller {
	if d.Clock == nil {
		d.Clock = time.Now
	}
	if d.Log == nil {
		d.Log = slog.Default()
	}
	return &Controller{
		state:      st,
		timer:      session.NewTimer(st, d.Clock),
		templates:  d.Templates,
		dispatcher: d.Dispatcher,
		clipboard:  d.Clipboard,
		author:     d.Author,
		log:        d.Log,
		now:        d.Clock,
	}
}

// State returns the state being mutated.
func (c *Controller) State() *session.State { return c.state }

// GenerateResult describes what OnGenerate did.
type GenerateResult struct {
	File      string
	Tracked   bool // a new timer record was created
	Overwrote bool
}

// OnGenerate writes the extension's template to filename and starts its
// timer. Without a template nothing is written.
func (c *Controller) OnGenerate(filename string, force bool) (GenerateResult, error) {
	res := GenerateResult{File: filename}

	content, err := c.templates.Get(filepath.Ext(filename))
	if err != nil {
		return res, err
	}

	if _, err := os.Stat(filename); err == nil {
		if !force {
			return res, fmt.Errorf("%s: %w", filename, ErrFileExists)
		}
		res.Overwrote = true
	}

	body := template.Render(content, template.NewData(filename, c.author, c.now()))
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return res, fmt.Errorf("creating %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(filename, body, 0o644); err != nil {
		return res, fmt.Errorf("writing %s: %w", filename, err)
	}

	_, res.Tracked = c.timer.Generate(filename)
	c.state.LastGenerated = filename
	c.state.GeneratedCount++
	c.log.Info("generated", slog.String("file", filename), slog.Bool("new_record", res.Tracked), slog.Bool("overwrote", res.Overwrote))
	return res, nil
}

// OnPause stops filename's clock.
func (c *Controller) OnPause(filename string) error {
	if err := c.timer.Pause(filename); err != nil {
		return err
	}
	c.log.Info("paused", slog.String("file", filename))
	return nil
}

// OnResume restarts filename's clock and returns the paused interval in whole seconds.
func (c *Controller) OnResume(filename string) (int64, error) {
	elapsed, err := c.timer.Resume(filename)
	if err != nil {
		return 0, err
	}
	c.log.Info("resumed", slog.String("file", filename), slog.Duration("paused_for", elapsed))
	return int64(elapsed / time.Second), nil
}

// WindResult is what OnWind reports.
type WindResult struct {
	Tracked            bool
	TotalActiveSeconds int64
	// SecondsSinceLastWind is -1 when the file was never winded before.
	SecondsSinceLastWind int64
	Bytes                int
	Clipboard            string
}

// OnWind copies filename to the clipboard and, when the file is tracked,
// records the copy-out. Untracked files are still copied.
func (c *Controller) OnWind(filename string) (WindResult, error) {
	res := WindResult{SecondsSinceLastWind: -1}

	data, err := os.ReadFile(filename)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return res, fmt.Errorf("%s: %w", filename, dispatch.ErrFileMissing)
		}
		return res, err
	}
	if err := c.clipboard.Copy(string(data)); err != nil {
		return res, fmt.Errorf("copying %s: %w", filename, err)
	}
	res.Bytes = len(data)
	res.Clipboard = c.clipboard.Name()
	c.state.WindCount++

	report, err := c.timer.Wind(filename)
	if errors.Is(err, session.ErrNotTracked) {
		c.log.Info("winded untracked file", slog.String("file", filename))
		return res, nil
	}
	if err != nil {
		return res, err
	}
	res.Tracked = true
	res.TotalActiveSeconds = int64(report.TotalActive / time.Second)
	if report.Winded {
		res.SecondsSinceLastWind = int64(report.SinceLastWind / time.Second)
	}
	c.log.Info("winded", slog.String("file", filename), slog.Duration("active", report.TotalActive))
	return res, nil
}

// OnRun dispatches filename. The attempt is recorded in LastRun whatever the
// outcome, unless the file does not exist.
func (c *Controller) OnRun(ctx context.Context, filename string, opts dispatch.Options) (dispatch.Outcome, error) {
	out, err := c.dispatcher.RunFile(ctx, filename, opts)
	if out.Kind != dispatch.NotFound {
		c.state.LastRun = filename
		c.state.RunCount++
	}
	c.log.Info("run", slog.String("file", filename), slog.String("outcome", out.Kind.String()),
		slog.Int("exit_code", out.ExitCode), slog.Duration("elapsed", out.Elapsed))
	return out, err
}

// Active returns filename's active time now.
func (c *Controller) Active(filename string) (time.Duration, error) {
	return c.timer.TotalActive(filename)
}

// OnForget stops tracking filename.
func (c *Controller) OnForget(filename string) error {
	if err := c.timer.Forget(filename); err != nil {
		return err
	}
	if c.state.LastGenerated == filename {
		c.state.LastGenerated = ""
	}
	return nil
}

// SessionView is a read-only snapshot of one record.
type SessionView struct {
	File         string
	Phase        string
	Active       time.Duration
	GeneratedAt  time.Time
	PausedAt     *time.Time
	LastWindedAt *time.Time
}

// Snapshot lists tracked files sorted by name, observed now.
func Snapshot(st *session.State, now time.Time) []SessionView {
	views := make([]SessionView, 0, len(st.Sessions))
	for name, rec := range st.Sessions {
		v := SessionView{
			File:         name,
			Phase:        session.PhaseName(rec.Phase),
			Active:       session.ActiveAt(rec, now),
			GeneratedAt:  rec.GeneratedAt,
			LastWindedAt: rec.LastWindedAt,
		}
		if p, ok := rec.Phase.(session.Paused); ok {
			pausedAt := p.PausedAt
			v.PausedAt = &pausedAt
		}
		views = append(views, v)
	}
	sort.Slice(views, func(i, j int) bool { return views[i].File < views[j].File })
	return views
}

// Snapshot lists the controller's tracked files.
func (c *Controller) Snapshot() []SessionView {
	return Snapshot(c.state, c.now())
}

// ResolveFile picks the file a verb acts on: the explicit argument, or the
// remembered one. An empty result means there is nothing to act on.
func ResolveFile(st *session.State, args []string, preferRun bool) string {
	if len(args) > 0 && args[0] != "" {
		return filepath.Clean(args[0])
	}
	if preferRun && st.LastRun != "" {
		return st.LastRun
	}
	return st.LastGenerated
}
