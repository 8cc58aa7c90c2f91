package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/fakeyudi/cpwind/internal/clierr"
)

func TestGenerateWithoutTemplateCreatesNoFile(t *testing.T) {
	work := testEnv(t)
	target := filepath.Join(work, "a.cpp")

	out, err := executeCommand(rootCmd, "generate", target)
	if got := exitCode(err); got != clierr.ExitNoTemplate {
		t.Fatalf("exit code = %d, want %d (err %v, out %q)", got, clierr.ExitNoTemplate, err, out)
	}
	if _, statErr := os.Stat(target); !os.IsNotExist(statErr) {
		t.Error("generate created a file without a template")
	}
	if st := loadTestState(t); st.LastGenerated != "" || len(st.Sessions) != 0 {
		t.Errorf("state changed: %+v", st)
	}
}

func TestGenerateWritesFileAndTracksIt(t *testing.T) {
	work := testEnv(t)
	setTemplate(t, ".cpp", "// {{.File}}\nint main() { return 0; }\n")
	target := filepath.Join(work, "a.cpp")

	out, err := executeCommand(rootCmd, "gen", target)
	if err != nil {
		t.Fatalf("generate: %v (%s)", err, out)
	}
	if !strings.Contains(out, "timer started") {
		t.Errorf("output = %q", out)
	}
	got, _ := os.ReadFile(target)
	if string(got) != "// a.cpp\nint main() { return 0; }\n" {
		t.Errorf("file content = %q", got)
	}

	st := loadTestState(t)
	if st.LastGenerated != target || st.GeneratedCount != 1 {
		t.Errorf("lastGenerated=%q generatedCount=%d", st.LastGenerated, st.GeneratedCount)
	}
	if rec := st.Lookup(target); rec == nil || rec.IsPaused() {
		t.Errorf("record = %+v", rec)
	}
}

func TestGenerateRefusesToOverwrite(t *testing.T) {
	work := testEnv(t)
	setTemplate(t, ".py", "print()\n")
	target := filepath.Join(work, "a.py")
	if err := os.WriteFile(target, []byte("mine"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := executeCommand(rootCmd, "generate", target)
	if exitCode(err) != clierr.ExitGeneral {
		t.Fatalf("expected file-exists error, got %v", err)
	}

	if _, err := executeCommand(rootCmd, "generate", "--force", target); err != nil {
		t.Fatalf("generate --force: %v", err)
	}
	got, _ := os.ReadFile(target)
	if string(got) != "print()\n" {
		t.Errorf("content after --force = %q", got)
	}
}

func TestTemplateListAndShow(t *testing.T) {
	testEnv(t)
	setTemplate(t, "rs", "fn main() {}\n")

	out, err := executeCommand(rootCmd, "template", "list")
	if err != nil || !strings.Contains(out, ".rs") {
		t.Fatalf("template list: %q %v", out, err)
	}
	out, err = executeCommand(rootCmd, "template", "show", ".rs")
	if err != nil || out != "fn main() {}\n" {
		t.Fatalf("template show: %q %v", out, err)
	}
	_, err = executeCommand(rootCmd, "template", "show", ".hs")
	if exitCode(err) != clierr.ExitNoTemplate {
		t.Errorf("show missing template: %v", err)
	}
}
