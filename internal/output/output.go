// Package output writes user-facing CLI messages: colored status lines,
// muted detail and a spinner for long compile steps. Colors and spinners
// are dropped when stdout is not a terminal, NO_COLOR is set or TERM=dumb.
package output

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/briandowns/spinner"
	"github.com/charmbracelet/x/term"
	"github.com/fatih/color"
)

// Status symbols
const (
	CheckMark   = "\u2713" // ✓
	XMark       = "\u2717" // ✗
	WarningMark = "\u26A0" // ⚠
	InfoMark    = "\u2139" // ℹ
)

// Writer handles CLI output.
type Writer struct {
	Out   io.Writer
	Err   io.Writer
	Quiet bool

	color   bool
	spinner bool

	successColor *color.Color
	errorColor   *color.Color
	warningColor *color.Color
	infoColor    *color.Color
	mutedColor   *color.Color
}

// Default returns a Writer for stdout/stderr with terminal detection.
func Default() *Writer {
	return NewWriter(os.Stdout, os.Stderr, ColorSupported())
}

// ColorSupported reports whether stdout is a terminal that accepts colors.
func ColorSupported() bool {
	if _, noColor := os.LookupEnv("NO_COLOR"); noColor || os.Getenv("TERM") == "dumb" {
		return false
	}
	return term.IsTerminal(os.Stdout.Fd())
}

// NewWriter creates a Writer with custom writers. colored enables both
// colors and spinners.
func NewWriter(out, errw io.Writer, colored bool) *Writer {
	w := &Writer{
		Out:          out,
		Err:          errw,
		successColor: color.New(color.FgGreen),
		errorColor:   color.New(color.FgRed),
		warningColor: color.New(color.FgYellow),
		infoColor:    color.New(color.FgCyan),
		mutedColor:   color.New(color.FgHiBlack),
	}
	w.SetColor(colored)
	return w
}

// SetColor toggles colored output and spinners.
func (w *Writer) SetColor(enabled bool) {
	w.color = enabled
	w.spinner = enabled
	for _, c := range []*color.Color{w.successColor, w.errorColor, w.warningColor, w.infoColor, w.mutedColor} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
}

// ColorEnabled reports whether colors are in use.
func (w *Writer) ColorEnabled() bool { return w.color }

// Print writes to stdout (respects quiet mode).
func (w *Writer) Print(format string, args ...interface{}) {
	if !w.Quiet {
		fmt.Fprintf(w.Out, format, args...)
	}
}

// Println writes a line to stdout (respects quiet mode).
func (w *Writer) Println(args ...interface{}) {
	if !w.Quiet {
		fmt.Fprintln(w.Out, args...)
	}
}

func (w *Writer) writeStatus(writer io.Writer, tone *color.Color, prefix, message string) {
	if w.color {
		tone.Fprint(writer, prefix+" ")
		fmt.Fprintln(writer, message)
	} else {
		fmt.Fprintln(writer, prefix+" "+message)
	}
}

// Success writes a success message with a checkmark.
func (w *Writer) Success(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	w.writeStatus(w.Out, w.successColor, CheckMark, fmt.Sprintf(format, args...))
}

// Failure writes an error message with an X mark. Never suppressed.
func (w *Writer) Failure(format string, args ...interface{}) {
	w.writeStatus(w.Err, w.errorColor, XMark, fmt.Sprintf(format, args...))
}

// Warning writes a warning message to stderr.
func (w *Writer) Warning(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	w.writeStatus(w.Err, w.warningColor, WarningMark, fmt.Sprintf(format, args...))
}

// Info writes an info message.
func (w *Writer) Info(format string, args ...interface{}) {
	if w.Quiet {
		return
	}
	w.writeStatus(w.Out, w.infoColor, InfoMark, fmt.Sprintf(format, args...))
}

// Muted writes gray text to stderr, used for diagnostics dumps.
func (w *Writer) Muted(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	if w.color {
		w.mutedColor.Fprintln(w.Err, msg)
	} else {
		fmt.Fprintln(w.Err, msg)
	}
}

// Spinner creates a spinner for long operations. It is silent when
// spinners are disabled.
func (w *Writer) Spinner(message string) *Spinner {
	if w.Quiet || !w.spinner {
		return &Spinner{disabled: true}
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
	s.Writer = w.Err
	s.Suffix = " " + message

	return &Spinner{spinner: s}
}

// Spinner wraps briandowns/spinner with graceful fallback.
type Spinner struct {
	spinner  *spinner.Spinner
	disabled bool
}

// Start begins the spinner animation.
func (s *Spinner) Start() {
	if s.disabled {
		return
	}
	s.spinner.Start()
}

// Stop stops the spinner animation.
func (s *Spinner) Stop() {
	if s.disabled {
		return
	}
	s.spinner.Stop()
}

// Clock formats d as H:MM:SS, truncated to whole seconds.
func Clock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	secs := int64(d / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}
