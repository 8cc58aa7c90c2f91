package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/fakeyudi/cpwind/internal/clierr"
)

func TestPauseResumeUseLastGenerated(t *testing.T) {
	work := testEnv(t)
	setTemplate(t, ".cpp", "int main(){}\n")
	target := filepath.Join(work, "a.cpp")
	if _, err := executeCommand(rootCmd, "generate", target); err != nil {
		t.Fatal(err)
	}

	if out, err := executeCommand(rootCmd, "pause"); err != nil || !strings.Contains(out, "Paused") {
		t.Fatalf("pause: %q %v", out, err)
	}
	if !loadTestState(t).Lookup(target).IsPaused() {
		t.Fatal("record not paused on disk")
	}

	_, err := executeCommand(rootCmd, "pause")
	if exitCode(err) != clierr.ExitState {
		t.Errorf("double pause: code %d (%v)", exitCode(err), err)
	}

	if out, err := executeCommand(rootCmd, "resume", target); err != nil || !strings.Contains(out, "Resumed") {
		t.Fatalf("resume: %q %v", out, err)
	}
	if loadTestState(t).Lookup(target).IsPaused() {
		t.Error("record still paused after resume")
	}
}

func TestPauseWithNothingRemembered(t *testing.T) {
	testEnv(t)
	_, err := executeCommand(rootCmd, "pause")
	if exitCode(err) != clierr.ExitUsage {
		t.Errorf("code = %d (%v)", exitCode(err), err)
	}
}

func TestTimerVerbsOnUntrackedFile(t *testing.T) {
	work := testEnv(t)
	target := filepath.Join(work, "ghost.cpp")
	for _, verb := range []string{"pause", "resume", "forget"} {
		_, err := executeCommand(rootCmd, verb, target)
		if exitCode(err) != clierr.ExitState {
			t.Errorf("%s: code %d (%v)", verb, exitCode(err), err)
		}
	}
}

func TestForgetDropsRecord(t *testing.T) {
	work := testEnv(t)
	setTemplate(t, ".cpp", "x")
	target := filepath.Join(work, "a.cpp")
	_, _ = executeCommand(rootCmd, "generate", target)

	if _, err := executeCommand(rootCmd, "forget", target); err != nil {
		t.Fatal(err)
	}
	if st := loadTestState(t); st.Lookup(target) != nil || st.LastGenerated != "" {
		t.Errorf("state after forget: %+v", st)
	}
}
