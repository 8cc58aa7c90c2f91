package template

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestGetMissingTemplate(t *testing.T) {
	s := NewDirStore(t.TempDir())
	_, err := s.Get(".cpp")
	if !errors.Is(err, ErrNoTemplate) {
		t.Fatalf("want ErrNoTemplate, got %v", err)
	}
}

func TestSetGetNormalizesExtension(t *testing.T) {
	s := NewDirStore(t.TempDir())
	if err := s.Set("CPP", []byte("int main() {}\n")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	got, err := s.Get(".cpp")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(got) != "int main() {}\n" {
		t.Errorf("Get = %q", got)
	}
}

func TestSetRejectsPathLikeExtensions(t *testing.T) {
	s := NewDirStore(t.TempDir())
	for _, ext := range []string{"", ".", "../cpp", "a/b"} {
		if err := s.Set(ext, []byte("x")); err == nil {
			t.Errorf("Set(%q) should fail", ext)
		}
	}
}

func TestListSorted(t *testing.T) {
	s := NewDirStore(t.TempDir())
	for _, ext := range []string{".py", ".cpp", ".c"} {
		if err := s.Set(ext, []byte("x")); err != nil {
			t.Fatal(err)
		}
	}
	got, err := s.List()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{".c", ".cpp", ".py"}; !reflect.DeepEqual(got, want) {
		t.Errorf("List = %v, want %v", got, want)
	}
}

func TestListMissingDir(t *testing.T) {
	got, err := NewDirStore(t.TempDir() + "/absent").List()
	if err != nil || len(got) != 0 {
		t.Errorf("List on missing dir = %v, %v", got, err)
	}
}

func TestRenderPlaceholders(t *testing.T) {
	data := NewData("contest/a.cpp", "tourist", time.Date(2026, 10, 18, 0, 0, 0, 0, time.UTC))
	got := Render([]byte("// {{.File}} by {{.Author}} on {{.Date}} ({{.Stem}})\n"), data)
	want := "// a.cpp by tourist on 2026-10-18 (a)\n"
	if string(got) != want {
		t.Errorf("Render = %q, want %q", got, want)
	}
}

// Feature: cpwind, Property 5: Content that is not a template is written verbatim
func TestRenderLeavesPlainSourceUntouched(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		// Single braces only: "{{" would open an action.
		src := rapid.StringMatching(`(?:[a-z ;()<>#\n]|[{}][a-z ;]){0,40}`).Draw(rt, "src")
		got := Render([]byte(src), NewData("a.cpp", "", time.Now()))
		if string(got) != src {
			rt.Fatalf("Render changed plain source:\n got %q\nwant %q", got, src)
		}
	})
}
