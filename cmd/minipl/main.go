package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/apason/minipl/internal/astdump"
	"github.com/apason/minipl/internal/iosink"
	minipl "github.com/apason/minipl/pkg"
)

func main() {
	dumpAST := flag.Bool("dump-ast", false, "print the parsed program as YAML to stderr and exit")
	trace := flag.Bool("trace", false, "fan stdout/stderr through an in-memory recorder and print it on exit")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Println("Expected one argument: source location")
		return
	}

	source := flag.Arg(0)

	if *dumpAST {
		runDumpAST(source)
		return
	}

	if *trace {
		os.Exit(runTraced(source))
		return
	}

	os.Exit(run(source, os.Stdout, os.Stderr))
}

// run exits non-zero only when source cannot be opened. Syntax/semantic/
// runtime diagnostics are reported on stderr but never change the exit
// code.
func run(source string, stdout, stderr *os.File) int {
	diag := minipl.NewDiagnostics(stderr)

	ip := minipl.NewInterpreter(stdout, os.Stdin)
	if _, err := ip.Run(source, diag); err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}

	return 0
}

// runTraced mirrors run but fans stdout/stderr through a DualSink so the
// whole session can be printed back out at exit, for -trace.
func runTraced(source string) int {
	sink := iosink.NewDualSink(os.Stdout, os.Stderr)
	diag := minipl.NewDiagnostics(sink.Stderr)

	ip := minipl.NewInterpreter(sink.Stdout, os.Stdin)

	_, runErr := ip.Run(source, diag)

	if err := sink.Dump(os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	if runErr != nil {
		fmt.Fprintln(os.Stderr, runErr)
		return 1
	}

	return 0
}

func runDumpAST(source string) {
	diag := minipl.NewDiagnostics(os.Stderr)

	prog, err := minipl.ParseFile(source, diag)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if prog == nil {
		return
	}

	out, err := astdump.Dump(prog)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	fmt.Fprint(os.Stderr, out)
}
