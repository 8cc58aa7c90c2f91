package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"pgregory.net/rapid"

	"github.com/fakeyudi/cpwind/internal/clierr"
	"github.com/fakeyudi/cpwind/internal/session"
)

// Feature: cpwind, Property 7: Status reports every tracked file
func TestStatusCountsAccuracy(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		n := rapid.IntRange(0, 12).Draw(rt, "n")
		paused := rapid.IntRange(0, n).Draw(rt, "paused")
		runs := rapid.IntRange(0, 50).Draw(rt, "runs")

		testEnv(t)
		store, err := session.NewStore()
		if err != nil {
			rt.Fatalf("NewStore: %v", err)
		}

		base := time.Now().Add(-time.Hour).UTC()
		st := session.NewState()
		st.RunCount = runs
		for i := 0; i < n; i++ {
			rec := &session.Record{GeneratedAt: base, Phase: session.Active{ResumedAt: base}}
			if i < paused {
				rec.Phase = session.Paused{ResumedAt: base, PausedAt: base.Add(time.Minute)}
			}
			st.Sessions[fmt.Sprintf("p%02d.cpp", i)] = rec
		}
		if err := store.Save(st); err != nil {
			rt.Fatalf("Save: %v", err)
		}

		out, err := executeCommand(rootCmd, "status", "--json")
		if err != nil {
			rt.Fatalf("status --json: %v", err)
		}
		var report statusReport
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			rt.Fatalf("status output is not JSON: %v\n%s", err, out)
		}

		if len(report.Sessions) != n || report.RunCount != runs {
			rt.Fatalf("sessions=%d runCount=%d, want %d and %d", len(report.Sessions), report.RunCount, n, runs)
		}
		gotPaused := 0
		for _, s := range report.Sessions {
			if s.State == "paused" {
				gotPaused++
				if s.ActiveSeconds != 60 {
					rt.Errorf("%s: paused active = %d, want 60", s.File, s.ActiveSeconds)
				}
			}
		}
		if gotPaused != paused {
			rt.Errorf("paused = %d, want %d", gotPaused, paused)
		}
	})
}

func TestStatusTable(t *testing.T) {
	work := testEnv(t)
	setTemplate(t, ".cpp", "x")
	target := filepath.Join(work, "a.cpp")
	_, _ = executeCommand(rootCmd, "generate", target)
	_, _ = executeCommand(rootCmd, "pause")

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"FILE", target, "paused", "Generated: 1"} {
		if !strings.Contains(out, want) {
			t.Errorf("status missing %q:\n%s", want, out)
		}
	}

	_, err = executeCommand(rootCmd, "status", filepath.Join(work, "b.cpp"))
	if exitCode(err) != clierr.ExitState {
		t.Errorf("status of untracked file: %v", err)
	}
}

func TestCorruptStateIsReset(t *testing.T) {
	testEnv(t)
	store, err := session.NewStore()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(store.Path(), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	out, err := executeCommand(rootCmd, "status")
	if err != nil {
		t.Fatalf("status on corrupt state: %v", err)
	}
	if !strings.Contains(out, "unreadable") || !strings.Contains(out, "No tracked files") {
		t.Errorf("output = %q", out)
	}
}

func TestStatusLiveRejectsFileArgument(t *testing.T) {
	work := testEnv(t)
	_, err := executeCommand(rootCmd, "status", "--live", filepath.Join(work, "a.cpp"))
	if exitCode(err) != clierr.ExitUsage {
		t.Errorf("code = %d (%v)", exitCode(err), err)
	}
}
