// Command corelang is the language's CLI entry point (spec.md §6): it
// either executes a source file through the chosen backend and exits, or
// falls back to the interactive REPL when no file is given. Grounded on
// the teacher's own main/main.go flag handling and banner/help text.
package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"

	"github.com/akashmaji946/corelang/compiler"
	"github.com/akashmaji946/corelang/evaluator"
	"github.com/akashmaji946/corelang/object"
	"github.com/akashmaji946/corelang/parser"
	"github.com/akashmaji946/corelang/repl"
	"github.com/akashmaji946/corelang/reporter"
	"github.com/akashmaji946/corelang/vm"
)

var (
	version = "v1.0.0"
	author  = "akashmaji(@iisc.ac.in)"
	line    = "----------------------------------------------------------------"
	banner  = `
   ____ ___  ____  ______ _
  / ___/ _ \|  _ \| ___|| |    __ _ _ __   __ _
 | |  | | | | |_) |  _|  | |   / _  |  _ \ / _  |
 | |__| |_| |  _ <| |___ | |__| (_| | | | | (_| |
  \____\___/|_| \_\_____||_____\__,_|_| |_|\__, |
                                            |___/
`
)

var (
	redColor  = color.New(color.FgRed)
	cyanColor = color.New(color.FgCyan)
)

// Usage: corelang [--backend=vm|otf] [path]
//   - no path:    start the REPL
//   - with path:  compile+run (or evaluate) the file, then exit
//
// --backend selects the execution engine: "vm" for the compiler+stack
// machine, "otf" ("on the fly") for the tree-walking evaluator. Default is
// "otf". The flag exists to exercise and compare both; only the "otf"
// backend provides the intrinsics (print, len, first, last, rest, push).
func main() {
	backend := repl.BackendEval
	var path string

	for _, arg := range os.Args[1:] {
		switch {
		case arg == "--help" || arg == "-h":
			showHelp()
			return
		case arg == "--version" || arg == "-v":
			showVersion()
			return
		case arg == "--backend=vm":
			backend = repl.BackendVM
		case arg == "--backend=otf":
			backend = repl.BackendEval
		case len(arg) > 0 && arg[0] != '-':
			path = arg
		}
	}

	if path == "" {
		repler := repl.NewRepl(banner, version, author, line, "corelang> ", backend)
		if err := repler.Start(os.Stdout); err != nil {
			redColor.Fprintf(os.Stderr, "[repl error] %v\n", err)
			os.Exit(1)
		}
		return
	}

	runFile(path, backend)
}

func showHelp() {
	cyanColor.Println("corelang — a small interpreted language")
	cyanColor.Println("")
	cyanColor.Println("USAGE:")
	fmt.Println("  corelang                         Start interactive REPL (tree-walking backend)")
	fmt.Println("  corelang --backend=vm             Start interactive REPL (bytecode VM backend)")
	fmt.Println("  corelang <path>                   Run a source file (tree-walking backend)")
	fmt.Println("  corelang --backend=vm <path>       Run a source file (bytecode VM backend)")
	fmt.Println("  corelang --help                   Show this message")
	fmt.Println("  corelang --version                Show version information")
}

func showVersion() {
	cyanColor.Printf("corelang %s\n", version)
	cyanColor.Printf("author: %s\n", author)
}

// runFile executes one source file to completion and exits non-zero on any
// parse or runtime error (SPEC_FULL.md Part D: one exit code for every
// error class, no finer-grained taxonomy).
func runFile(path string, backend repl.Backend) {
	src, err := os.ReadFile(path)
	if err != nil {
		redColor.Fprintf(os.Stderr, "[file error] could not read %q: %v\n", path, err)
		os.Exit(1)
	}
	source := string(src)

	prog, errs := parser.Parse(source)
	if len(errs) > 0 {
		for _, e := range errs {
			reportOrPrint(e, source)
		}
		os.Exit(1)
	}

	var result object.Object
	switch backend {
	case repl.BackendVM:
		bc := compiler.Compile(prog)
		machine := vm.New(bc)
		result, err = machine.Run()
	default:
		ev := evaluator.New(os.Stdout)
		env := evaluator.NewEnvironment()
		result, err = ev.EvalProgram(prog, env)
	}

	if err != nil {
		reportOrPrint(err, source)
		os.Exit(1)
	}
	if result != nil {
		if _, isNull := result.(*object.Null); !isNull {
			fmt.Println(result.Inspect())
		}
	}
}

func reportOrPrint(err error, source string) {
	if spanned, ok := err.(reporter.Spanned); ok {
		reporter.Render(os.Stderr, reporter.FromError(spanned, source), true)
		return
	}
	redColor.Fprintf(os.Stderr, "%s\n", err)
}
