package profile

import (
	"bytes"
	"strings"
	"testing"
)

func TestSaveLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if Exists() {
		t.Fatal("profile should not exist in a fresh HOME")
	}
	if err := Save(&Profile{Name: "tourist", DefaultExt: ".cpp"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !Exists() {
		t.Fatal("profile should exist after Save")
	}
	p, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Name != "tourist" || p.DefaultExt != ".cpp" {
		t.Errorf("Load = %+v", p)
	}
}

func TestRunSetupAnswers(t *testing.T) {
	var out bytes.Buffer
	p, err := RunSetup(nil, strings.NewReader("petr\nPY\n"), &out)
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if p.Name != "petr" || p.DefaultExt != ".py" {
		t.Errorf("profile = %+v", p)
	}
	if !strings.Contains(out.String(), "first-time setup") {
		t.Errorf("missing banner in %q", out.String())
	}
}

func TestRunSetupKeepsExistingOnEmptyAnswers(t *testing.T) {
	existing := &Profile{Name: "jiangly", DefaultExt: ".rs"}
	p, err := RunSetup(existing, strings.NewReader("\n\n"), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("RunSetup: %v", err)
	}
	if *p != *existing {
		t.Errorf("profile = %+v, want %+v", p, existing)
	}
}

func TestNormalizeExt(t *testing.T) {
	for in, want := range map[string]string{"cpp": ".cpp", ".PY": ".py", " rs ": ".rs", "": ""} {
		if got := NormalizeExt(in); got != want {
			t.Errorf("NormalizeExt(%q) = %q, want %q", in, got, want)
		}
	}
}
