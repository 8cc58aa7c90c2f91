// Package session tracks how long each generated source file has been
// actively worked on. Every tracked file owns a Record whose Phase is either
// Active or Paused; the whole State is persisted between invocations by a
// Store.
package session

import (
	"encoding/json"
	"fmt"
	"time"
)

// isoMillis is the on-disk timestamp layout: ISO-8601, UTC, millisecond precision.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

// Phase is the timer state of a tracked file. It is either Active or Paused.
type Phase interface {
	// Resumed returns the instant the active clock most recently started.
	Resumed() time.Time
	isPhase()
}

// Active means the file's clock is running.
type Active struct {
	ResumedAt time.Time
}

// Paused means the file's clock is stopped since PausedAt.
type Paused struct {
	ResumedAt time.Time
	PausedAt  time.Time
}

func (a Active) Resumed() time.Time { return a.ResumedAt }
func (p Paused) Resumed() time.Time { return p.ResumedAt }

func (Active) isPhase() {}
func (Paused) isPhase() {}

// PhaseName returns "active" or "paused".
func PhaseName(p Phase) string {
	if _, ok := p.(Paused); ok {
		return "paused"
	}
	return "active"
}

// Record is the per-file timer bookkeeping.
type Record struct {
	GeneratedAt time.Time
	Phase       Phase
	// Blank is the total time spent paused across all pause/resume cycles.
	Blank        time.Duration
	LastWindedAt *time.Time
}

// IsPaused reports whether the record's clock is stopped.
func (r *Record) IsPaused() bool {
	_, ok := r.Phase.(Paused)
	return ok
}

// recordJSON is the wire shape of a Record.
type recordJSON struct {
	Generated  string  `json:"generated"`
	Resumed    string  `json:"resumed"`
	Paused     *string `json:"paused,omitempty"`
	Blank      int64   `json:"blank"`
	LastWinded *string `json:"lastWinded,omitempty"`
}

func formatTime(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

func formatTimePtr(t time.Time) *string {
	s := formatTime(t)
	return &s
}

func parseTime(field, s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("field %q: %w", field, err)
	}
	return t, nil
}

// MarshalJSON encodes the record using ISO-8601 timestamps and blank time in milliseconds.
func (r Record) MarshalJSON() ([]byte, error) {
	out := recordJSON{
		Generated: formatTime(r.GeneratedAt),
		Blank:     r.Blank.Milliseconds(),
	}
	switch p := r.Phase.(type) {
	case Paused:
		out.Resumed = formatTime(p.ResumedAt)
		out.Paused = formatTimePtr(p.PausedAt)
	case Active:
		out.Resumed = formatTime(p.ResumedAt)
	default:
		out.Resumed = formatTime(r.GeneratedAt)
	}
	if r.LastWindedAt != nil {
		out.LastWinded = formatTimePtr(*r.LastWindedAt)
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes the wire shape; a present "paused" field yields a Paused phase.
func (r *Record) UnmarshalJSON(data []byte) error {
	var in recordJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}

	generated, err := parseTime("generated", in.Generated)
	if err != nil {
		return err
	}
	resumed := generated
	if in.Resumed != "" {
		if resumed, err = parseTime("resumed", in.Resumed); err != nil {
			return err
		}
	}
	if in.Blank < 0 {
		return fmt.Errorf("field \"blank\": negative duration %d", in.Blank)
	}

	rec := Record{
		GeneratedAt: generated,
		Phase:       Active{ResumedAt: resumed},
		Blank:       time.Duration(in.Blank) * time.Millisecond,
	}
	if in.Paused != nil {
		paused, err := parseTime("paused", *in.Paused)
		if err != nil {
			return err
		}
		rec.Phase = Paused{ResumedAt: resumed, PausedAt: paused}
	}
	if in.LastWinded != nil {
		winded, err := parseTime("lastWinded", *in.LastWinded)
		if err != nil {
			return err
		}
		rec.LastWindedAt = &winded
	}

	*r = rec
	return nil
}

// State is everything cpwind remembers between invocations.
type State struct {
	LastGenerated  string             `json:"lastGenerated,omitempty"`
	LastRun        string             `json:"lastRun,omitempty"`
	GeneratedCount int                `json:"generatedCount"`
	RunCount       int                `json:"runCount"`
	WindCount      int                `json:"windCount"`
	Sessions       map[string]*Record `json:"sessions"`
}

// NewState returns an empty state.
func NewState() *State {
	return &State{Sessions: map[string]*Record{}}
}

// Lookup returns the record for name, or nil if name is not tracked.
func (s *State) Lookup(name string) *Record {
	if s.Sessions == nil {
		return nil
	}
	return s.Sessions[name]
}
