// Package diagnostics implements the sink that collects lexer, parser, and
// semantic diagnostics as the compiler pipeline walks a source unit.
//
// Every stage reports through the same Sink rather than returning an error
// value, so that compilation can continue past a single bad token or a
// single ill-typed expression and still surface every problem found in one
// pass.
package diagnostics

import (
	"fmt"
	"sort"
	"strings"
)

// Severity classifies how serious a Diagnostic is.
type Severity int

const (
	Error Severity = iota
	Warning
	Info
	Hint
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	case Info:
		return "info"
	case Hint:
		return "hint"
	default:
		return "unknown"
	}
}

// Range is the source-location envelope carried by every token, AST node,
// and IR instruction: a file name, a byte offset plus length, and the
// line/column the offset decodes to.
type Range struct {
	File   string
	Offset int
	Length int
	Line   int
	Column int
}

// String renders "file:line:column", matching how the reference compilers
// in this lineage format locations in error text.
func (r Range) String() string {
	if r.File == "" {
		return fmt.Sprintf("%d:%d", r.Line, r.Column)
	}
	return fmt.Sprintf("%s:%d:%d", r.File, r.Line, r.Column)
}

// Contains reports whether child lies entirely within r, used to check
// the rule that every AST node's range nests inside its
// parent's.
func (r Range) Contains(child Range) bool {
	if r.Offset > child.Offset {
		return false
	}
	return r.Offset+r.Length >= child.Offset+child.Length
}

// Diagnostic is a single problem or observation reported by any pipeline
// stage.
type Diagnostic struct {
	Message  string
	Hint     string
	Source   string
	Severity Severity
	Range    Range
}

func (d Diagnostic) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "[%s] %s: %s", d.Range.String(), d.Severity, d.Message)
	if d.Hint != "" {
		fmt.Fprintf(&sb, " (hint: %s)", d.Hint)
	}
	return sb.String()
}

// Sink accumulates diagnostics across the lifetime of a single compilation
// unit. It is not safe for concurrent use from multiple goroutines, matching
// the single-threaded-per-unit concurrency model of the pipeline.
type Sink struct {
	diags []Diagnostic
}

// NewSink creates an empty diagnostics sink.
func NewSink() *Sink {
	return &Sink{}
}

// Checkpoint returns the current diagnostic count, to be passed to
// Rollback if a speculative parse (e.g. the parser's generic-call-vs-
// comparison backtracking) turns out not to apply.
func (s *Sink) Checkpoint() int {
	return len(s.diags)
}

// Rollback discards every diagnostic reported since the matching
// Checkpoint, mirroring the token cursor's Mark/ResetTo backtracking.
func (s *Sink) Rollback(checkpoint int) {
	s.diags = s.diags[:checkpoint]
}

// Add appends a diagnostic in whatever stage order it was produced.
func (s *Sink) Add(d Diagnostic) {
	s.diags = append(s.diags, d)
}

// Report is a convenience wrapper used throughout the lexer/parser/semantic
// stages.
func (s *Sink) Report(sev Severity, r Range, format string, args ...any) {
	s.Add(Diagnostic{
		Severity: sev,
		Range:    r,
		Message:  fmt.Sprintf(format, args...),
	})
}

// ReportHint reports a diagnostic with a recovery hint attached, e.g. the
// parser suggesting `?:` when it sees the rejected `??` token.
func (s *Sink) ReportHint(sev Severity, r Range, hint, format string, args ...any) {
	s.Add(Diagnostic{
		Severity: sev,
		Range:    r,
		Message:  fmt.Sprintf(format, args...),
		Hint:     hint,
	})
}

// All returns every diagnostic recorded so far, in report order.
func (s *Sink) All() []Diagnostic {
	return s.diags
}

// HasErrors reports whether any Error-severity diagnostic was recorded.
// Per the diagnostics emission contract, code emission is short-circuited
// whenever this is true.
func (s *Sink) HasErrors() bool {
	for _, d := range s.diags {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// Count returns the number of diagnostics whose severity is exactly sev.
func (s *Sink) Count(sev Severity) int {
	n := 0
	for _, d := range s.diags {
		if d.Severity == sev {
			n++
		}
	}
	return n
}

// Sorted returns a copy of the diagnostics ordered by source position, then
// by severity, for stable human-facing output.
func (s *Sink) Sorted() []Diagnostic {
	out := make([]Diagnostic, len(s.diags))
	copy(out, s.diags)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Range.Line != out[j].Range.Line {
			return out[i].Range.Line < out[j].Range.Line
		}
		if out[i].Range.Column != out[j].Range.Column {
			return out[i].Range.Column < out[j].Range.Column
		}
		return out[i].Severity < out[j].Severity
	})
	return out
}

// Format renders every diagnostic as "[file:line:column] severity: message",
// one per line, per the backend contract's human-readable emission format.
func Format(diags []Diagnostic) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(d.String())
	}
	return sb.String()
}
