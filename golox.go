// Package golox wires the lexer, parser, analyzer, emitter, and VM
// together into one in-process pipeline. There is deliberately no CLI or
// REPL here (spec.md's Non-goals name both as external collaborators);
// Pipeline is the orchestration type embedding programs call directly,
// the way the teacher's own toolchain stages are composed by a calling
// package rather than by a shell entry point.
package golox

import (
	"bytes"
	"io"

	"github.com/rougher0/golox/diag"
	"github.com/rougher0/golox/emit"
	"github.com/rougher0/golox/lexer"
	"github.com/rougher0/golox/parser"
	"github.com/rougher0/golox/semant"
	"github.com/rougher0/golox/vm"
)

// Pipeline runs one source program end to end, from text to executed
// output, reporting every diagnostic it collects along the way through
// Reporter.
type Pipeline struct {
	Reporter diag.Reporter
}

// New returns a Pipeline reporting diagnostics through r.
func New(r diag.Reporter) *Pipeline {
	return &Pipeline{Reporter: r}
}

// Run compiles and executes source, writing every `log(...)` statement's
// output to out. It stops and returns false as soon as parsing or
// semantic analysis reports an error; it does not attempt to run
// bytecode compiled from a program known to be ill-typed.
func (p *Pipeline) Run(source string, out io.Writer) bool {
	tokens := lexer.Scan(source)

	root, ok := parser.Parse(tokens, p.Reporter)
	if !ok {
		return false
	}

	if !semant.Check(root, p.Reporter) {
		return false
	}

	code, strings := emit.Emit(root)
	machine := vm.New(code, strings, out)
	if err := machine.Run(); err != nil {
		p.Reporter.Report(code.LastLine(), "", err.Error())
		return false
	}
	return true
}

// RunString is a convenience wrapper returning captured stdout alongside
// the success flag, useful for callers that don't already have an
// io.Writer on hand (notably tests).
func RunString(source string, r diag.Reporter) (string, bool) {
	var buf bytes.Buffer
	ok := New(r).Run(source, &buf)
	return buf.String(), ok
}
