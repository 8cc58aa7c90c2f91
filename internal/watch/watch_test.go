package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"
)

func startWatcher(t *testing.T, path string) (*atomic.Int32, context.CancelFunc) {
	t.Helper()
	var calls atomic.Int32
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	w := &Watcher{Path: path, Debounce: 20 * time.Millisecond}
	go func() { done <- w.Run(ctx, func(context.Context) { calls.Add(1) }) }()
	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run: %v", err)
			}
		case <-time.After(2 * time.Second):
			t.Error("watcher did not stop after cancel")
		}
	})
	return &calls, cancel
}

// touchUntil keeps writing path until cond holds or the deadline passes.
// The watcher registers asynchronously so the first writes may be missed.
func touchUntil(t *testing.T, path string, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if err := os.WriteFile(path, []byte(time.Now().String()), 0o644); err != nil {
			t.Fatal(err)
		}
		time.Sleep(60 * time.Millisecond)
		if cond() {
			return true
		}
	}
	return false
}

func TestWriteTriggersCallback(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.cpp")
	if err := os.WriteFile(target, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	calls, _ := startWatcher(t, target)

	if !touchUntil(t, target, func() bool { return calls.Load() > 0 }) {
		t.Fatal("callback never ran")
	}
}

func TestSiblingWritesAreIgnored(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "a.cpp")
	sibling := filepath.Join(dir, "a")
	_ = os.WriteFile(target, []byte("x"), 0o644)
	calls, _ := startWatcher(t, target)

	for i := 0; i < 8; i++ {
		_ = os.WriteFile(sibling, []byte{byte(i)}, 0o755)
		time.Sleep(30 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	if n := calls.Load(); n != 0 {
		t.Errorf("sibling writes triggered %d calls", n)
	}
}

func TestRunFailsForMissingDirectory(t *testing.T) {
	w := &Watcher{Path: filepath.Join(t.TempDir(), "nope", "a.cpp")}
	if err := w.Run(context.Background(), func(context.Context) {}); err == nil {
		t.Error("expected error for missing directory")
	}
}
