package session

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrNotTracked is returned for operations on a file with no record.
	ErrNotTracked = errors.New("file is not tracked")

	// ErrInvalidTransition is wrapped by every TransitionError.
	ErrInvalidTransition = errors.New("invalid timer transition")
)

// TransitionError reports a pause while paused or a resume while active.
type TransitionError struct {
	File  string
	Event string // "pause" or "resume"
	State string // the phase the record was already in
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s %s: already %s", e.Event, e.File, e.State)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// WindReport is what a copy-out event observes before it updates the record.
type WindReport struct {
	TotalActive time.Duration
	// SinceLastWind is only meaningful when Winded is true.
	SinceLastWind time.Duration
	Winded        bool
}

// Timer applies timer events to the records held in a State.
type Timer struct {
	state *State
	now   func() time.Time
}

// NewTimer returns a Timer mutating st. A nil clock means time.Now.
func NewTimer(st *State, clock func() time.Time) *Timer {
	if clock == nil {
		clock = time.Now
	}
	if st.Sessions == nil {
		st.Sessions = map[string]*Record{}
	}
	return &Timer{state: st, now: clock}
}

func (t *Timer) lookup(name string) (*Record, error) {
	rec := t.state.Lookup(name)
	if rec == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNotTracked)
	}
	return rec, nil
}

// Generate starts tracking name in the Active phase. An existing record is
// returned unchanged and created is false.
func (t *Timer) Generate(name string) (rec *Record, created bool) {
	if rec := t.state.Lookup(name); rec != nil {
		return rec, false
	}
	now := t.now()
	rec = &Record{
		GeneratedAt: now,
		Phase:       Active{ResumedAt: now},
	}
	t.state.Sessions[name] = rec
	return rec, true
}

// Pause stops the clock of an Active record.
func (t *Timer) Pause(name string) error {
	rec, err := t.lookup(name)
	if err != nil {
		return err
	}
	active, ok := rec.Phase.(Active)
	if !ok {
		return &TransitionError{File: name, Event: "pause", State: PhaseName(rec.Phase)}
	}
	rec.Phase = Paused{ResumedAt: active.ResumedAt, PausedAt: t.now()}
	return nil
}

// Resume restarts the clock of a Paused record and returns how long it was paused.
func (t *Timer) Resume(name string) (time.Duration, error) {
	rec, err := t.lookup(name)
	if err != nil {
		return 0, err
	}
	paused, ok := rec.Phase.(Paused)
	if !ok {
		return 0, &TransitionError{File: name, Event: "resume", State: PhaseName(rec.Phase)}
	}
	now := t.now()
	elapsed := now.Sub(paused.PausedAt)
	if elapsed < 0 {
		elapsed = 0
	}
	rec.Blank += elapsed
	rec.Phase = Active{ResumedAt: now}
	return elapsed, nil
}

// Wind records a copy-out. The report reflects the record before the update.
func (t *Timer) Wind(name string) (WindReport, error) {
	rec, err := t.lookup(name)
	if err != nil {
		return WindReport{}, err
	}
	now := t.now()
	report := WindReport{TotalActive: activeAt(rec, now)}
	if rec.LastWindedAt != nil {
		report.Winded = true
		report.SinceLastWind = now.Sub(*rec.LastWindedAt)
	}
	rec.LastWindedAt = &now
	return report, nil
}

// TotalActive returns the wall-clock time since generation minus all paused time.
func (t *Timer) TotalActive(name string) (time.Duration, error) {
	rec, err := t.lookup(name)
	if err != nil {
		return 0, err
	}
	return activeAt(rec, t.now()), nil
}

// Forget drops the record for name.
func (t *Timer) Forget(name string) error {
	if _, err := t.lookup(name); err != nil {
		return err
	}
	delete(t.state.Sessions, name)
	return nil
}

// ActiveAt is TotalActive for a record observed at now.
func ActiveAt(rec *Record, now time.Time) time.Duration {
	return activeAt(rec, now)
}

func activeAt(rec *Record, now time.Time) time.Duration {
	end := now
	if p, ok := rec.Phase.(Paused); ok {
		end = p.PausedAt
	}
	d := end.Sub(rec.GeneratedAt) - rec.Blank
	if d < 0 {
		return 0
	}
	return d
}
