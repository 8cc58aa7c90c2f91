// Package template stores one source template per file extension and
// renders it into a new source file.
package template

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/template"
	"time"
)

// ErrNoTemplate is returned when no template exists for an extension.
var ErrNoTemplate = errors.New("no template for extension")

const filePrefix = "template"

// Store reads and writes templates keyed by extension (".cpp").
type Store interface {
	Get(ext string) ([]byte, error)
	Set(ext string, content []byte) error
	List() ([]string, error)
}

type dirStore struct {
	dir string
}

// NewDirStore returns a Store keeping templates as <dir>/template<ext>.
func NewDirStore(dir string) Store {
	return &dirStore{dir: dir}
}

// DefaultDir returns ~/.config/cpwind/templates.
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "cpwind", "templates"), nil
}

func normalizeExt(ext string) (string, error) {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	if len(ext) < 2 || strings.ContainsAny(ext[1:], `./\`) {
		return "", fmt.Errorf("invalid extension %q", ext)
	}
	return ext, nil
}

func (d *dirStore) path(ext string) string {
	return filepath.Join(d.dir, filePrefix+ext)
}

func (d *dirStore) Get(ext string) ([]byte, error) {
	ext, err := normalizeExt(ext)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoTemplate, err)
	}
	data, err := os.ReadFile(d.path(ext))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w %s", ErrNoTemplate, ext)
		}
		return nil, fmt.Errorf("reading template: %w", err)
	}
	return data, nil
}

func (d *dirStore) Set(ext string, content []byte) error {
	ext, err := normalizeExt(ext)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return fmt.Errorf("creating template directory: %w", err)
	}
	if err := os.WriteFile(d.path(ext), content, 0o644); err != nil {
		return fmt.Errorf("writing template: %w", err)
	}
	return nil
}

// List returns the extensions that have a template, sorted.
func (d *dirStore) List() ([]string, error) {
	entries, err := os.ReadDir(d.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	var exts []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasPrefix(name, filePrefix+".") {
			continue
		}
		exts = append(exts, strings.TrimPrefix(name, filePrefix))
	}
	sort.Strings(exts)
	return exts, nil
}

// Data is what a template can reference.
type Data struct {
	File   string // base name, "a.cpp"
	Stem   string // "a"
	Author string
	Date   string // YYYY-MM-DD
}

// NewData fills Data for filename.
func NewData(filename, author string, now time.Time) Data {
	base := filepath.Base(filename)
	return Data{
		File:   base,
		Stem:   strings.TrimSuffix(base, filepath.Ext(base)),
		Author: author,
		Date:   now.Format("2006-01-02"),
	}
}

// Render executes content as a text/template. Content that is not a valid
// template (C++ code is full of braces) is returned verbatim.
func Render(content []byte, data Data) []byte {
	tmpl, err := template.New("source").Option("missingkey=zero").Parse(string(content))
	if err != nil {
		return content
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return content
	}
	return buf.Bytes()
}
