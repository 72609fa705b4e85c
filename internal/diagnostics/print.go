package diagnostics

import (
	"fmt"
	"strings"
)

// SourcePrinter renders diagnostics against the original source text,
// showing the offending line and a caret pointing at the column. The
// rendering shape mirrors the line-numbered, caret-annotated error display
// used throughout this lineage of compilers.
type SourcePrinter struct {
	Source string
	Color  bool
}

// Print renders a single diagnostic with one line of source context.
func (p SourcePrinter) Print(d Diagnostic) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s %s: %s\n", d.Range.String(), d.Severity, d.Message)

	line := p.sourceLine(d.Range.Line)
	if line != "" {
		lineNumStr := fmt.Sprintf("%4d | ", d.Range.Line)
		sb.WriteString(lineNumStr)
		sb.WriteString(line)
		sb.WriteByte('\n')

		col := d.Range.Column
		if col < 1 {
			col = 1
		}
		sb.WriteString(strings.Repeat(" ", len(lineNumStr)+col-1))
		caretLen := d.Range.Length
		if caretLen < 1 {
			caretLen = 1
		}
		if p.Color {
			sb.WriteString("\033[1;31m")
		}
		sb.WriteString(strings.Repeat("^", caretLen))
		if p.Color {
			sb.WriteString("\033[0m")
		}
		sb.WriteByte('\n')
	}

	if d.Hint != "" {
		fmt.Fprintf(&sb, "hint: %s\n", d.Hint)
	}

	return sb.String()
}

// PrintAll renders every diagnostic, each separated by a blank line, and
// ending with a one-line summary of error/warning counts.
func (p SourcePrinter) PrintAll(diags []Diagnostic) string {
	var sb strings.Builder
	for i, d := range diags {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(p.Print(d))
	}
	errs, warns := 0, 0
	for _, d := range diags {
		switch d.Severity {
		case Error:
			errs++
		case Warning:
			warns++
		}
	}
	fmt.Fprintf(&sb, "\n%d error(s), %d warning(s)\n", errs, warns)
	return sb.String()
}

func (p SourcePrinter) sourceLine(lineNum int) string {
	if p.Source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(p.Source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}
