// Package diag defines the single error-sink contract shared by every
// pipeline stage (spec.md §6: "One function: report(line, lexeme_or_empty,
// message). Implementations print to a diagnostic stream. No severity
// levels, no error codes.") and two implementations of it.
package diag

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter is implemented by anything that can receive a diagnostic.
// Lexeme may be empty when a report has no associated token text.
type Reporter interface {
	Report(line int, lexeme, message string)
}

// ColorReporter writes diagnostics to Out, coloring the "[line N]"
// prefix the way other_examples/manifests/sam-decook-lox's Lox port
// colors its error reporter with github.com/fatih/color.
type ColorReporter struct {
	Out io.Writer
}

// NewColorReporter returns a Reporter writing to out.
func NewColorReporter(out io.Writer) *ColorReporter {
	return &ColorReporter{Out: out}
}

func (r *ColorReporter) Report(line int, lexeme, message string) {
	prefix := color.New(color.FgRed, color.Bold).Sprintf("[line %d]", line)
	if lexeme != "" {
		fmt.Fprintf(r.Out, "%s error at '%s': %s\n", prefix, lexeme, message)
		return
	}
	fmt.Fprintf(r.Out, "%s error: %s\n", prefix, message)
}

// Entry is one collected diagnostic, as recorded by Collector.
type Entry struct {
	Line    int
	Lexeme  string
	Message string
}

// Collector accumulates diagnostics in memory instead of printing them,
// for use in tests that assert on the exact set of errors produced by a
// stage. Mirrors the teacher's Analyzer.errors []string accumulation
// (lang/ysem/analyzer.go) generalized to the shared Reporter contract.
type Collector struct {
	Entries []Entry
}

func (c *Collector) Report(line int, lexeme, message string) {
	c.Entries = append(c.Entries, Entry{Line: line, Lexeme: lexeme, Message: message})
}

// HasErrors reports whether any diagnostic was collected.
func (c *Collector) HasErrors() bool { return len(c.Entries) > 0 }
