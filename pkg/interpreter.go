package minipl

import "io"

// Interpreter wires the three pipeline stages together: Scanner feeds
// FilterErrors feeds Parser feeds Evaluator. It mirrors the shape of the
// teacher's Compiler — a small struct around Open/Compile — with the
// native-codegen backend replaced by tree-walking evaluation.
type Interpreter struct {
	out io.Writer
	in  io.Reader
}

// NewInterpreter creates an Interpreter writing program output to out and
// reading `read` input from in.
func NewInterpreter(out io.Writer, in io.Reader) *Interpreter {
	return &Interpreter{out: out, in: in}
}

// Run scans, parses and evaluates the source file at path, reporting every
// diagnostic to diag. It returns whether the run completed with no
// diagnostics of any kind, and a non-nil error only when path could not be
// opened — the one failure mode spec.md §6 treats as a startup error
// rather than a diagnostic.
func (ip *Interpreter) Run(path string, diag *Diagnostics) (bool, error) {
	sc, err := Open(path)
	if err != nil {
		return false, err
	}

	go sc.Do()

	tokens := FilterErrors(sc.Chan(), diag)
	parser := NewParser(tokens, diag)

	prog, ok := parser.Parse()
	if !ok {
		return false, nil
	}

	eval := NewEvaluator(ip.out, ip.in, diag)
	if !eval.Run(prog) {
		return false, nil
	}

	return !diag.Failed(), nil
}

// RunStdin behaves like Run but reads MiniPL source from r directly
// instead of opening a named file, for callers that have the source as a
// stream rather than a path.
func (ip *Interpreter) RunStdin(r io.Reader, diag *Diagnostics) bool {
	sc := NewScanner(r)
	go sc.Do()

	tokens := FilterErrors(sc.Chan(), diag)
	parser := NewParser(tokens, diag)

	prog, ok := parser.Parse()
	if !ok {
		return false
	}

	eval := NewEvaluator(ip.out, ip.in, diag)
	if !eval.Run(prog) {
		return false
	}

	return !diag.Failed()
}

// ParseFile is the entry point for tooling — `-dump-ast` chief among
// them — that needs the parsed Program without running it.
func ParseFile(path string, diag *Diagnostics) (*Program, error) {
	sc, err := Open(path)
	if err != nil {
		return nil, err
	}

	go sc.Do()

	tokens := FilterErrors(sc.Chan(), diag)
	parser := NewParser(tokens, diag)

	prog, ok := parser.Parse()
	if !ok {
		return nil, nil
	}

	return prog, nil
}
