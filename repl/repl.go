// Package repl implements the Read-Eval-Print Loop for corelang.
// The REPL provides an interactive environment where users can:
// - Enter corelang code line by line
// - See immediate results of their code execution
// - Navigate command history using arrow keys
// - Receive colored feedback for different types of output
//
// The REPL uses the readline library for enhanced line editing and
// dispatches each line to either execution backend (tree-walking evaluator
// or compiler+VM), selected once at construction (spec.md §6).
package repl

import (
	"fmt"
	"io"
	"strings"

	"github.com/chzyer/readline"
	"github.com/fatih/color"

	"github.com/akashmaji946/corelang/compiler"
	"github.com/akashmaji946/corelang/evaluator"
	"github.com/akashmaji946/corelang/object"
	"github.com/akashmaji946/corelang/parser"
	"github.com/akashmaji946/corelang/reporter"
	"github.com/akashmaji946/corelang/vm"
)

// Backend selects which execution engine the REPL (and the CLI, see
// cmd/corelang) drives a parsed program through.
type Backend int

const (
	// BackendEval runs the tree-walking evaluator.
	BackendEval Backend = iota
	// BackendVM compiles to bytecode and runs the stack machine.
	BackendVM
)

var (
	blueColor   = color.New(color.FgBlue)
	yellowColor = color.New(color.FgYellow)
	redColor    = color.New(color.FgRed)
	greenColor  = color.New(color.FgGreen)
	cyanColor   = color.New(color.FgCyan)
)

// Repl is a read-eval-print loop over one Backend. State persists across
// lines for the evaluator backend — the VM backend compiles and runs each
// line as its own independent program, since a persistent bytecode/VM heap
// across lines is outside this core's scope (spec.md §6).
type Repl struct {
	Banner  string
	Version string
	Author  string
	Line    string
	Prompt  string

	Backend Backend
}

// NewRepl creates a Repl ready to Start.
func NewRepl(banner, version, author, line, prompt string, backend Backend) *Repl {
	return &Repl{Banner: banner, Version: version, Author: author, Line: line, Prompt: prompt, Backend: backend}
}

// PrintBannerInfo displays the welcome banner and usage instructions.
func (r *Repl) PrintBannerInfo(writer io.Writer) {
	blueColor.Fprintf(writer, "%s\n", r.Line)
	greenColor.Fprintf(writer, "%s\n", r.Banner)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	yellowColor.Fprintln(writer, "Version: "+r.Version+" | Author: "+r.Author)
	blueColor.Fprintf(writer, "%s\n", r.Line)
	cyanColor.Fprintf(writer, "%s\n", "Welcome to corelang!")
	cyanColor.Fprintf(writer, "%s\n", "Type your code and press enter")
	cyanColor.Fprintf(writer, "%s\n", "Type '.exit' to quit")
	cyanColor.Fprintf(writer, "%s\n", "Use up/down arrows to navigate command history")
	blueColor.Fprintf(writer, "%s\n", r.Line)
}

// Start runs the read-eval-print loop until the user types `.exit`, sends
// EOF (Ctrl-D), or readline itself errors.
func (r *Repl) Start(writer io.Writer) error {
	r.PrintBannerInfo(writer)

	rl, err := readline.New(r.Prompt)
	if err != nil {
		return err
	}
	defer rl.Close()

	ev := evaluator.New(writer)
	env := evaluator.NewEnvironment()

	for {
		line, err := rl.Readline()
		if err != nil {
			writer.Write([]byte("Good Bye!\n"))
			return nil
		}

		line = strings.Trim(line, " \n\t\r")
		if line == "" {
			continue
		}
		if line == ".exit" {
			writer.Write([]byte("Good Bye!\n"))
			return nil
		}

		rl.SaveHistory(line)
		r.evalLine(writer, line, ev, env)
	}
}

// evalLine parses and runs one line against the selected backend, printing
// the result (yellow) or rendered diagnostics (red): every parse error, or
// the first error of a failed run. A panic
// inside either back-end (an internal bug, not a language-level error) is
// recovered and reported rather than killing the session.
func (r *Repl) evalLine(writer io.Writer, line string, ev *evaluator.Evaluator, env *evaluator.Environment) {
	defer func() {
		if recovered := recover(); recovered != nil {
			redColor.Fprintf(writer, "[internal error] %v\n", recovered)
		}
	}()

	prog, errs := parser.Parse(line)
	if len(errs) > 0 {
		for _, e := range errs {
			r.renderError(writer, e, line)
		}
		return
	}

	var result object.Object
	var err error
	switch r.Backend {
	case BackendVM:
		bc := compiler.Compile(prog)
		machine := vm.New(bc)
		result, err = machine.Run()
	default:
		result, err = ev.EvalProgram(prog, env)
	}

	if err != nil {
		r.renderError(writer, err, line)
		return
	}
	if result != nil {
		yellowColor.Fprintf(writer, "%s\n", result.Inspect())
	}
}

func (r *Repl) renderError(writer io.Writer, err error, line string) {
	if spanned, ok := err.(reporter.Spanned); ok {
		reporter.Render(writer, reporter.FromError(spanned, line), true)
		return
	}
	redColor.Fprintf(writer, "%s\n", fmt.Sprint(err))
}
