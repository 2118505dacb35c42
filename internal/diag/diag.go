// Package diag implements the checker's diagnostic sink: formatted
// errors with source location, monotonic error counting, and the
// pass-completion banners. The checker core only depends on the Sink
// interface, so tests can capture diagnostics without touching process
// output — the CLI driver wires in the colorized stderr sink.
package diag

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
)

// ErrCode enumerates the checker's user-visible diagnostic taxonomy
// (spec.md §7).
type ErrCode string

const (
	// CodeSignMismatch is an integer signedness disagreement not
	// rescued by the safe-literal exemption.
	CodeSignMismatch ErrCode = "sign_mismatch"
	// CodeTypeMismatch is any other failure to satisfy the
	// compatibility relation.
	CodeTypeMismatch ErrCode = "type_mismatch"
)

// maxMessageBytes mirrors the source's 255-byte snprintf truncation
// for compatibility-relation diagnostics.
const maxMessageBytes = 255

// Diagnostic is one recorded type error, with enough context for both
// human-readable and machine-readable consumers (the history store
// serializes these as JSON).
type Diagnostic struct {
	Code ErrCode `json:"code"`
	File string  `json:"file"`
	Line int     `json:"line"`
	Col  int     `json:"col"`
	Msg  string  `json:"message"`
}

// Error satisfies the error interface, rendering the same
// "Type Error at …" line tc_error would have printed.
func (d Diagnostic) Error() string {
	return fmt.Sprintf("Type Error at %s:%d:%d: %s", d.File, d.Line, d.Col, d.Msg)
}

// Sink receives diagnostics as the checker records them and renders the
// pass banners. Implementations must never panic — a pass must
// complete regardless of how many errors were recorded.
type Sink interface {
	// Error records one diagnostic. Code/file/line/col/msg mirror
	// tc_error's contract; the sink is responsible for formatting and
	// emitting, and for counting.
	Error(code ErrCode, file string, line, col int, msg string)
	// ErrorCount returns the number of diagnostics recorded so far. It
	// must be monotonically non-decreasing across a pass.
	ErrorCount() int
	// Diagnostics returns every diagnostic recorded so far, in the
	// order recorded.
	Diagnostics() []Diagnostic
	// Starting and Finished render check_program's entry/exit banners.
	Starting()
	Finished()
}

// WriterSink is the default Sink: it writes colorized "Type Error …"
// lines and pass banners to an io.Writer (normally os.Stderr), and
// additionally retains every Diagnostic for callers (e.g. the history
// store) that need structured access after the pass.
type WriterSink struct {
	w       io.Writer
	colored bool
	diags   []Diagnostic
}

// NewWriterSink returns a Sink writing to w. When colored is true,
// error lines are rendered in red and banners in cyan (starting),
// green (passed) or yellow (errors found), matching
// the teacher pack's terminal coloring convention
// (demo/cmd/main.go's use of github.com/fatih/color).
func NewWriterSink(w io.Writer, colored bool) *WriterSink {
	return &WriterSink{w: w, colored: colored}
}

// NewStderrSink returns the CLI driver's default sink: stderr, colored
// unless github.com/fatih/color has disabled color (color.NoColor,
// which that library derives from NO_COLOR, TERM=dumb, or stdout not
// being a terminal).
func NewStderrSink() *WriterSink {
	return NewWriterSink(os.Stderr, color.NoColor == false)
}

func (s *WriterSink) Error(code ErrCode, file string, line, col int, msg string) {
	if len(msg) > maxMessageBytes {
		msg = msg[:maxMessageBytes]
	}
	d := Diagnostic{Code: code, File: file, Line: line, Col: col, Msg: msg}
	s.diags = append(s.diags, d)

	line1 := d.Error()
	if s.colored {
		line1 = color.RedString("%s", line1)
	}
	fmt.Fprintln(s.w, line1)
}

func (s *WriterSink) ErrorCount() int { return len(s.diags) }

func (s *WriterSink) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	return out
}

func (s *WriterSink) Starting() {
	msg := "[TypeCheck] Starting semantic analysis..."
	if s.colored {
		msg = color.CyanString(msg)
	}
	fmt.Fprintln(s.w, msg)
}

func (s *WriterSink) Finished() {
	if n := s.ErrorCount(); n > 0 {
		// The source always says "errors" regardless of count; humanize
		// only adds thousands separators for large counts, it does not
		// change the word itself.
		msg := fmt.Sprintf("[TypeCheck] Found %s errors.", humanize.Comma(int64(n)))
		if s.colored {
			msg = color.YellowString(msg)
		}
		fmt.Fprintln(s.w, msg)
		return
	}
	msg := "[TypeCheck] Passed."
	if s.colored {
		msg = color.GreenString(msg)
	}
	fmt.Fprintln(s.w, msg)
}

// MemorySink is an in-memory Sink for tests: no coloring, no banner
// output beyond a counted flag, full diagnostic retention.
type MemorySink struct {
	diags     []Diagnostic
	startedN  int
	finishedN int
}

// NewMemorySink returns a Sink suitable for assertions in unit tests.
func NewMemorySink() *MemorySink {
	return &MemorySink{}
}

func (s *MemorySink) Error(code ErrCode, file string, line, col int, msg string) {
	if len(msg) > maxMessageBytes {
		msg = msg[:maxMessageBytes]
	}
	s.diags = append(s.diags, Diagnostic{Code: code, File: file, Line: line, Col: col, Msg: msg})
}

func (s *MemorySink) ErrorCount() int { return len(s.diags) }

func (s *MemorySink) Diagnostics() []Diagnostic {
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	return out
}

func (s *MemorySink) Starting() { s.startedN++ }
func (s *MemorySink) Finished() { s.finishedN++ }

// StartedCount and FinishedCount let tests assert the banners fired
// exactly once per pass.
func (s *MemorySink) StartedCount() int  { return s.startedN }
func (s *MemorySink) FinishedCount() int { return s.finishedN }
