// Package toolchain maps source file extensions to the commands that build
// and run them. The table is compiled in; adding a language means adding an
// entry, not a branch.
package toolchain

import (
	"path/filepath"
	"runtime"
	"sort"
	"strings"
)

// ArgsFunc builds an argv for a source file and its derived artifact path.
type ArgsFunc func(src, out string) []string

// Spec describes how to build and run one language.
type Spec struct {
	Name            string
	HasCompilePhase bool
	CompileArgs     ArgsFunc // nil when HasCompilePhase is false
	RunArgs         ArgsFunc
}

// Registry is an immutable extension → Spec table.
type Registry struct {
	specs map[string]Spec
}

// NewRegistry builds a registry from ext → spec pairs. Extensions are
// normalised to lower case with a leading dot.
func NewRegistry(specs map[string]Spec) *Registry {
	r := &Registry{specs: make(map[string]Spec, len(specs))}
	for ext, s := range specs {
		r.specs[normalizeExt(ext)] = s
	}
	return r
}

// Lookup returns the spec registered for filename's extension.
func (r *Registry) Lookup(filename string) (Spec, bool) {
	s, ok := r.specs[normalizeExt(filepath.Ext(filename))]
	return s, ok
}

// Entry is a registered extension with its spec, used for listings.
type Entry struct {
	Ext  string
	Spec Spec
}

// Entries returns all registrations sorted by extension.
func (r *Registry) Entries() []Entry {
	out := make([]Entry, 0, len(r.specs))
	for ext, s := range r.specs {
		out = append(out, Entry{Ext: ext, Spec: s})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Ext < out[j].Ext })
	return out
}

func normalizeExt(ext string) string {
	ext = strings.ToLower(ext)
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}

// ArtifactPath derives the compiled output path from a source path by
// stripping the extension. A bare name gets a "./" prefix so it is executed
// as a path instead of being looked up on PATH.
func ArtifactPath(src string) string {
	out := strings.TrimSuffix(src, filepath.Ext(src))
	if runtime.GOOS == "windows" {
		out += ".exe"
	}
	if !filepath.IsAbs(out) && !strings.ContainsRune(out, filepath.Separator) && !strings.ContainsRune(out, '/') {
		out = "." + string(filepath.Separator) + out
	}
	return out
}

func interpreted(name, interpreter string, flags ...string) Spec {
	return Spec{
		Name: name,
		RunArgs: func(src, _ string) []string {
			argv := append([]string{interpreter}, flags...)
			return append(argv, src)
		},
	}
}

func native(name string, compile ArgsFunc) Spec {
	return Spec{
		Name:            name,
		HasCompilePhase: true,
		CompileArgs:     compile,
		RunArgs:         func(_, out string) []string { return []string{out} },
	}
}

var cpp = native("C++", func(src, out string) []string {
	return []string{"g++", "-O2", "-std=c++17", "-o", out, src}
})

var builtin = map[string]Spec{
	".c": native("C", func(src, out string) []string {
		return []string{"gcc", "-O2", "-std=c11", "-o", out, src, "-lm"}
	}),
	".cpp": cpp,
	".cc":  cpp,
	".cxx": cpp,
	".rs": native("Rust", func(src, out string) []string {
		return []string{"rustc", "-O", "-o", out, src}
	}),
	".go": native("Go", func(src, out string) []string {
		return []string{"go", "build", "-o", out, src}
	}),
	".hs": native("Haskell", func(src, out string) []string {
		return []string{"ghc", "-O2", "-o", out, src}
	}),
	".java": {
		Name:            "Java",
		HasCompilePhase: true,
		CompileArgs: func(src, _ string) []string {
			return []string{"javac", src}
		},
		RunArgs: func(src, _ string) []string {
			class := strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))
			return []string{"java", "-cp", filepath.Dir(src), class}
		},
	},
	".py": interpreted("Python", "python3"),
	".js": interpreted("JavaScript", "node"),
	".rb": interpreted("Ruby", "ruby"),
	".sh": interpreted("Shell", "bash"),
}

// Default returns the built-in registry.
func Default() *Registry {
	return NewRegistry(builtin)
}
