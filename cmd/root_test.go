package cmd

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/output"
)

func TestHandleErrorPrintsHintAndDetail(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewWriter(&buf, &buf, false)

	code := handleError(w, clierr.CompileFailed("a.cpp", 1, "a.cpp:2: error: boom\n"))
	if code != clierr.ExitCompile {
		t.Errorf("code = %d", code)
	}
	if !strings.Contains(buf.String(), "Compilation of a.cpp failed") || !strings.Contains(buf.String(), "boom") {
		t.Errorf("output = %q", buf.String())
	}

	buf.Reset()
	code = handleError(w, clierr.NoTemplate(".rs", nil))
	if code != clierr.ExitNoTemplate || !strings.Contains(buf.String(), "cpwind template set .rs") {
		t.Errorf("code=%d output=%q", code, buf.String())
	}
}

func TestHandleErrorFallbacks(t *testing.T) {
	var buf bytes.Buffer
	w := output.NewWriter(&buf, &buf, false)

	if code := handleError(w, errors.New(`unknown command "frobnicate" for "cpwind"`)); code != clierr.ExitUsage {
		t.Errorf("unknown command code = %d", code)
	}
	if code := handleError(w, errors.New("disk on fire")); code != clierr.ExitGeneral {
		t.Errorf("generic code = %d", code)
	}
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	testEnv(t)
	_, err := executeCommand(rootCmd, "run", "--frobnicate")
	if exitCode(err) != clierr.ExitUsage {
		t.Errorf("code = %d (%v)", exitCode(err), err)
	}
}

func TestToolchainsListsBuiltins(t *testing.T) {
	testEnv(t)
	out, err := executeCommand(rootCmd, "toolchains")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{".cpp", "g++", ".py", "python3", ".java"} {
		if !strings.Contains(out, want) {
			t.Errorf("toolchains missing %q:\n%s", want, out)
		}
	}
}

func TestInvalidConfigIsReported(t *testing.T) {
	testEnv(t)
	writeConfig(t, `{"log_level": "shouty"}`)
	_, err := executeCommand(rootCmd, "status")
	if exitCode(err) != clierr.ExitConfig {
		t.Errorf("code = %d (%v)", exitCode(err), err)
	}
}

func TestSetupSavesProfile(t *testing.T) {
	testEnv(t)
	rootCmd.SetIn(strings.NewReader("tourist\npy\n"))
	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs([]string{"setup"})
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("setup: %v (%s)", err, buf.String())
	}
	if !strings.Contains(buf.String(), "Profile saved") {
		t.Errorf("output = %q", buf.String())
	}

	setTemplate(t, ".py", "# {{.Author}}\n")
	work := t.TempDir()
	if _, err := executeCommand(rootCmd, "generate", filepath.Join(work, "sol")); err != nil {
		t.Fatalf("generate with default ext: %v", err)
	}
	if _, err := os.Stat(filepath.Join(work, "sol.py")); err != nil {
		t.Errorf("default extension not applied: %v", err)
	}
	if activeProfile == nil || activeProfile.DefaultExt != ".py" {
		t.Errorf("profile = %+v", activeProfile)
	}
}

func TestSetupHintHonoursConfiguredTemplateDir(t *testing.T) {
	testEnv(t)
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "template.py"), []byte("print()\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	writeConfig(t, fmt.Sprintf(`{"template_dir": %q}`, dir))

	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader("tourist\npy\n"))
	rootCmd.SetArgs([]string{"setup"})
	if _, err := rootCmd.ExecuteC(); err != nil {
		t.Fatalf("setup: %v (%s)", err, buf.String())
	}
	if strings.Contains(buf.String(), "No template for .py") {
		t.Errorf("setup ignored template_dir from config:\n%s", buf.String())
	}
}

func TestSetupRejectsInvalidConfig(t *testing.T) {
	testEnv(t)
	writeConfig(t, `{not json`)
	resetFlags()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetIn(strings.NewReader("tourist\npy\n"))
	rootCmd.SetArgs([]string{"setup"})
	_, err := rootCmd.ExecuteC()
	if exitCode(err) != clierr.ExitConfig {
		t.Errorf("code = %d (%v)", exitCode(err), err)
	}
}
