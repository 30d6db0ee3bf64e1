package errors

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// Reporter renders CompilerErrors in a Rust-style, source-snippet format,
// adapted to a diagnostic that carries no parser-owned source text of its
// own — callers that have source lines available pass them in; callers
// that don't (most of this core's own tests) still get a readable
// one-line rendering.
type Reporter struct {
	filename string
	lines    []string
}

// NewReporter builds a Reporter. source may be empty when no source text
// is available to the caller (the parser that owns it is out of scope).
func NewReporter(filename, source string) *Reporter {
	var lines []string
	if source != "" {
		lines = strings.Split(source, "\n")
	}
	return &Reporter{filename: filename, lines: lines}
}

// Format renders a single CompilerError.
func (r *Reporter) Format(err *CompilerError) string {
	var b strings.Builder

	levelColor := color.New(color.FgRed, color.Bold).SprintFunc()
	if IsWarning(err) {
		levelColor = color.New(color.FgYellow, color.Bold).SprintFunc()
	}
	dim := color.New(color.Faint).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	level := "error"
	if IsWarning(err) {
		level = "warning"
	}
	fmt.Fprintf(&b, "%s[%s]: %s\n", levelColor(level), err.Code, err.Message)

	if err.Position.Line > 0 {
		fmt.Fprintf(&b, "  %s %s\n", dim("-->"), err.Position)
	}

	if err.Position.Line > 0 && err.Position.Line <= len(r.lines) {
		fmt.Fprintf(&b, "%s %s %s\n", bold(fmt.Sprintf("%3d", err.Position.Line)), dim("|"), r.lines[err.Position.Line-1])
	}

	for _, note := range err.Notes {
		noteColor := color.New(color.FgBlue).SprintFunc()
		fmt.Fprintf(&b, "  %s %s\n", noteColor("note:"), note)
	}

	return b.String()
}

// FormatAll renders a slice of diagnostics in order, errors and warnings
// alike — ordering is the caller's.
func (r *Reporter) FormatAll(errs []*CompilerError) string {
	var b strings.Builder
	for _, e := range errs {
		b.WriteString(r.Format(e))
	}
	return b.String()
}
