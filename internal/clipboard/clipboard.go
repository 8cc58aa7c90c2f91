// Package clipboard copies text out of the terminal, either through the
// system clipboard or an OSC 52 escape sequence.
package clipboard

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/aymanbagabas/go-osc52/v2"
)

// ErrDisabled is returned by the copier of the "off" mode.
var ErrDisabled = errors.New("clipboard disabled by configuration")

// Modes accepted by New.
const (
	ModeAuto   = "auto"
	ModeSystem = "system"
	ModeOSC52  = "osc52"
	ModeOff    = "off"
)

// Copier puts text on a clipboard.
type Copier interface {
	Copy(text string) error
	Name() string
}

// New returns the Copier for mode. out receives OSC 52 sequences.
func New(mode string, out io.Writer) (Copier, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case "", ModeAuto:
		if clipboard.Unsupported {
			return &OSC52{Out: out}, nil
		}
		return &fallback{primary: System{}, secondary: &OSC52{Out: out}}, nil
	case ModeSystem:
		return System{}, nil
	case ModeOSC52:
		return &OSC52{Out: out}, nil
	case ModeOff:
		return off{}, nil
	default:
		return nil, fmt.Errorf("invalid clipboard mode %q (allowed: auto, system, osc52, off)", mode)
	}
}

// System uses the platform clipboard utility (pbcopy, xclip, wl-copy, ...).
type System struct{}

func (System) Name() string { return ModeSystem }

func (System) Copy(text string) error {
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("system clipboard: %w", err)
	}
	return nil
}

// OSC52 asks the terminal emulator to set the clipboard. Works over SSH.
type OSC52 struct {
	Out io.Writer
}

func (*OSC52) Name() string { return ModeOSC52 }

func (o *OSC52) Copy(text string) error {
	out := o.Out
	if out == nil {
		out = os.Stderr
	}
	seq := osc52.New(text)
	if os.Getenv("TMUX") != "" {
		seq = seq.Tmux()
	}
	if _, err := seq.WriteTo(out); err != nil {
		return fmt.Errorf("osc52: %w", err)
	}
	return nil
}

type fallback struct {
	primary, secondary Copier
	used               string
}

func (f *fallback) Name() string {
	if f.used != "" {
		return f.used
	}
	return ModeAuto
}

func (f *fallback) Copy(text string) error {
	if err := f.primary.Copy(text); err == nil {
		f.used = f.primary.Name()
		return nil
	}
	f.used = f.secondary.Name()
	return f.secondary.Copy(text)
}

type off struct{}

func (off) Name() string       { return ModeOff }
func (off) Copy(string) error { return ErrDisabled }
