package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// CorruptError is returned by Load alongside a fresh State when the state
// file exists but cannot be decoded.
type CorruptError struct {
	Path string
	Err  error
}

func (e *CorruptError) Error() string {
	return "state file " + e.Path + " is unreadable, starting fresh: " + e.Err.Error()
}

func (e *CorruptError) Unwrap() error {
	return e.Err
}

// Store persists the State to disk.
type Store interface {
	// Load always returns a usable State. A *CorruptError means the previous
	// state was discarded; any other error means the file could not be read.
	Load() (*State, error)
	Save(s *State) error
	Path() string
}

// diskStore is the concrete Store that writes to the XDG data directory.
type diskStore struct {
	path string // full path to state.json
}

// NewStore returns a Store backed by the XDG data directory.
// Path: $XDG_DATA_HOME/cpwind/state.json or ~/.local/share/cpwind/state.json
func NewStore() (Store, error) {
	dir, err := DataDir()
	if err != nil {
		return nil, fmt.Errorf("resolving data directory: %w", err)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	return &diskStore{path: filepath.Join(dir, "state.json")}, nil
}

// DataDir returns the cpwind-specific XDG data directory.
func DataDir() (string, error) {
	base := os.Getenv("XDG_DATA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(base, "cpwind"), nil
}

func (d *diskStore) Path() string { return d.path }

// Save marshals s to JSON and writes it atomically via a temp file + os.Rename.
func (d *diskStore) Save(s *State) (err error) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}

	// Write to a temp file in the same directory so os.Rename is atomic.
	tmp, err := os.CreateTemp(filepath.Dir(d.path), "state-*.json.tmp")
	if err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	tmpName := tmp.Name()

	defer func() {
		if err != nil {
			os.Remove(tmpName)
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to persist state: %w", err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}

	if err = os.Rename(tmpName, d.path); err != nil {
		return fmt.Errorf("failed to persist state: %w", err)
	}
	return nil
}

// Load reads and unmarshals the state file.
// A missing file yields an empty State and no error.
func (d *diskStore) Load() (*State, error) {
	data, err := os.ReadFile(d.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return NewState(), nil
		}
		return NewState(), fmt.Errorf("failed to read state: %w", err)
	}

	var s State
	if err := json.Unmarshal(data, &s); err != nil {
		return NewState(), &CorruptError{Path: d.path, Err: err}
	}
	if s.Sessions == nil {
		s.Sessions = map[string]*Record{}
	}
	for name, rec := range s.Sessions {
		if rec == nil {
			delete(s.Sessions, name)
		}
	}
	return &s, nil
}
