// Package reporter renders a diagnostic (a parse or runtime error, located
// by its token.Span) against the original source text, underlining the
// offending range the way compiler toolchains typically do. Color is
// optional and goes through fatih/color, the same library the teacher's
// REPL/CLI output already uses for emphasis.
package reporter

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/akashmaji946/corelang/token"
)

// Severity classifies a Diagnostic for rendering (color, prefix).
type Severity int

const (
	SeverityError Severity = iota
	SeverityWarning
)

func (s Severity) label() string {
	if s == SeverityWarning {
		return "warning"
	}
	return "error"
}

// Spanned is implemented by any error that can locate itself in source —
// langerr.Error, langerr.Multi, and parser.Unexpected/parser.ParseInt all
// satisfy it, which lets Render accept any of them without reporter
// depending on langerr or parser (avoiding an import cycle back into the
// packages that raise these errors).
type Spanned interface {
	error
	ErrSpan() token.Span
}

// Label annotates a secondary span within a Diagnostic (e.g. pointing at
// both a call's arguments and the function being called).
type Label struct {
	Span token.Span
	Text string
}

// Diagnostic is one renderable error or warning.
type Diagnostic struct {
	Severity Severity
	Message  string
	Primary  token.Span
	Labels   []Label
	Source   string
}

// FromError builds a Diagnostic for any Spanned error against source.
func FromError(err Spanned, source string) Diagnostic {
	return Diagnostic{
		Severity: SeverityError,
		Message:  err.Error(),
		Primary:  err.ErrSpan(),
		Source:   source,
	}
}

// Render writes diag to w as a one-or-few-line human-readable report: the
// message, the offending source line, and a `^^^` underline beneath the
// primary span. useColor enables fatih/color highlighting; it is always
// safe to pass false (e.g. when w is not a terminal).
func Render(w io.Writer, diag Diagnostic, useColor bool) error {
	sev := color.New(color.FgRed, color.Bold)
	if diag.Severity == SeverityWarning {
		sev = color.New(color.FgYellow, color.Bold)
	}
	sev.EnableColor()
	if !useColor {
		sev.DisableColor()
	}

	if _, err := fmt.Fprintf(w, "%s: %s\n", sev.Sprint(diag.Severity.label()), diag.Message); err != nil {
		return err
	}

	line, col, lineText := locate(diag.Source, diag.Primary.Start)
	if lineText == "" {
		return nil
	}
	if _, err := fmt.Fprintf(w, "  %d | %s\n", line, lineText); err != nil {
		return err
	}

	width := diag.Primary.End - diag.Primary.Start
	if width < 1 {
		width = 1
	}
	underline := strings.Repeat(" ", col) + strings.Repeat("^", width)
	prefix := fmt.Sprintf("  %s | ", strings.Repeat(" ", len(fmt.Sprintf("%d", line))))
	caret := color.New(color.FgRed)
	caret.EnableColor()
	if !useColor {
		caret.DisableColor()
	}
	_, err := fmt.Fprintf(w, "%s%s\n", prefix, caret.Sprint(underline))
	return err
}

// locate finds the 1-based line number, 0-based column, and full text of
// the line containing byte offset pos in source.
func locate(source string, pos int) (line, col int, text string) {
	if pos < 0 || pos > len(source) {
		return 0, 0, ""
	}
	line = 1
	lineStart := 0
	for i := 0; i < pos && i < len(source); i++ {
		if source[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}
	lineEnd := strings.IndexByte(source[lineStart:], '\n')
	if lineEnd == -1 {
		text = source[lineStart:]
	} else {
		text = source[lineStart : lineStart+lineEnd]
	}
	col = pos - lineStart
	return line, col, text
}
