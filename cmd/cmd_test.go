package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/dispatch"
	"github.com/fakeyudi/cpwind/internal/session"
)

// executeCommand runs root with args and returns combined stdout/stderr.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	resetFlags()
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetIn(bytes.NewReader(nil))
	root.SetArgs(args)
	_, err = root.ExecuteC()
	return buf.String(), err
}

// resetFlags restores flag variables; cobra keeps them across executions.
func resetFlags() {
	flagNoColor, flagQuiet = false, false
	flagLogLevel, flagLogFile = "", ""
	generateForce = false
	runInput, runWatch = "", false
	statusLive, statusJSON = false, false
}

// testEnv points HOME and XDG_DATA_HOME at a temp dir and returns a work dir
// for source files.
func testEnv(t testing.TB) string {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", filepath.Join(tmp, "home"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(tmp, "data"))
	t.Setenv("NO_COLOR", "1")
	work := filepath.Join(tmp, "work")
	if err := os.MkdirAll(work, 0o755); err != nil {
		t.Fatal(err)
	}
	return work
}

// writeConfig writes the global config file.
func writeConfig(t *testing.T, body string) {
	t.Helper()
	dir := filepath.Join(os.Getenv("HOME"), ".config", "cpwind")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
}

// setTemplate registers content as the template for ext.
func setTemplate(t *testing.T, ext, content string) {
	t.Helper()
	src := filepath.Join(t.TempDir(), "tmpl"+ext)
	if err := os.WriteFile(src, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := executeCommand(rootCmd, "template", "set", ext, src); err != nil {
		t.Fatalf("template set: %v", err)
	}
}

func loadTestState(t *testing.T) *session.State {
	t.Helper()
	store, err := session.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	st, err := store.Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	return st
}

func exitCode(err error) int {
	if err == nil {
		return clierr.ExitSuccess
	}
	var cliErr *clierr.CLIError
	if clierr.As(err, &cliErr) {
		return cliErr.Code
	}
	return -1
}

// fakeRunner answers by program name and echoes Stdout like the real runner.
type fakeRunner struct {
	results map[string]dispatch.Result
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, c dispatch.Command) (dispatch.Result, error) {
	f.calls = append(f.calls, c.Argv[0])
	res := f.results[c.Argv[0]]
	if c.Stdout != nil {
		_, _ = c.Stdout.Write(res.Stdout)
	}
	if c.Stderr != nil {
		_, _ = c.Stderr.Write(res.Stderr)
	}
	return res, nil
}

func (f *fakeRunner) called(name string) bool {
	for _, c := range f.calls {
		if c == name {
			return true
		}
	}
	return false
}

func useRunner(t *testing.T, r dispatch.Runner) {
	t.Helper()
	prev := runner
	runner = r
	t.Cleanup(func() { runner = prev })
}

// runnerFunc adapts a function to dispatch.Runner.
type runnerFunc func(dispatch.Command) dispatch.Result

func (f runnerFunc) Run(_ context.Context, c dispatch.Command) (dispatch.Result, error) {
	return f(c), nil
}
