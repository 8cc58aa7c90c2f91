package cmd

import (
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/app"
	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/clipboard"
	"github.com/fakeyudi/cpwind/internal/dispatch"
	"github.com/fakeyudi/cpwind/internal/session"
	"github.com/fakeyudi/cpwind/internal/template"
	"github.com/fakeyudi/cpwind/internal/toolchain"
)

// runner executes toolchain programs. Tests swap it for a fake.
var runner dispatch.Runner = dispatch.ExecRunner{}

// registry maps extensions to toolchains.
var registry = toolchain.Default()

// loadState reads the state file. A corrupt file is reported and replaced by
// an empty state.
func loadState() (session.Store, *session.State, error) {
	store, err := session.NewStore()
	if err != nil {
		return nil, nil, clierr.Wrap(clierr.ExitGeneral, "Could not open state directory", err)
	}
	st, err := store.Load()
	var corrupt *session.CorruptError
	switch {
	case errors.As(err, &corrupt):
		out.Warning("State file %s is unreadable; starting from an empty state", corrupt.Path)
		logger.Warn("state file corrupt", slog.String("path", corrupt.Path), slog.String("error", corrupt.Err.Error()))
	case err != nil:
		return nil, nil, clierr.Wrap(clierr.ExitGeneral, "Could not read state", err)
	}
	return store, st, nil
}

// withController loads the state, runs fn and saves the state whatever fn
// returned.
func withController(cmd *cobra.Command, fn func(ctl *app.Controller) error) error {
	store, st, err := loadState()
	if err != nil {
		return err
	}
	ctl, err := newController(cmd, st)
	if err != nil {
		return err
	}

	runErr := fn(ctl)
	if saveErr := store.Save(st); saveErr != nil {
		logger.Error("saving state", slog.String("path", store.Path()), slog.String("error", saveErr.Error()))
		if runErr == nil {
			return clierr.Wrap(clierr.ExitGeneral, "Could not save state", saveErr)
		}
	}
	return runErr
}

// templateStore returns the configured template directory store.
func templateStore() (template.Store, error) {
	dir := cfg.TemplateDir
	if dir == "" {
		d, err := template.DefaultDir()
		if err != nil {
			return nil, clierr.Wrap(clierr.ExitGeneral, "Could not resolve template directory", err)
		}
		dir = d
	}
	return template.NewDirStore(dir), nil
}

func newController(cmd *cobra.Command, st *session.State) (*app.Controller, error) {
	templates, err := templateStore()
	if err != nil {
		return nil, err
	}
	copier, err := clipboard.New(cfg.Clipboard, cmd.OutOrStdout())
	if err != nil {
		return nil, clierr.Config(err)
	}
	author := ""
	if activeProfile != nil {
		author = activeProfile.Name
	}
	return app.New(st, app.Deps{
		Templates:  templates,
		Dispatcher: dispatch.New(registry, runner, logger),
		Clipboard:  copier,
		Author:     author,
		Log:        logger,
	}), nil
}

// targetFile resolves the file a verb acts on, falling back to the
// remembered file.
func targetFile(verb string, st *session.State, args []string, preferRun bool) (string, error) {
	name := app.ResolveFile(st, args, preferRun)
	if name == "" {
		return "", clierr.NoFile(verb)
	}
	return name, nil
}

// timerError maps timer errors to CLI errors.
func timerError(file string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrNotTracked):
		return clierr.NotTracked(file, err)
	case errors.Is(err, session.ErrInvalidTransition):
		return clierr.InvalidTransition(err)
	case errors.Is(err, dispatch.ErrFileMissing):
		return clierr.FileMissing(file)
	}
	return err
}
