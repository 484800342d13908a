package minipl

import (
	"bufio"
	"fmt"
	"io"

	"github.com/pkg/errors"
)

// Evaluator walks a Program once, combining semantic checking and
// execution into a single pass, exactly as spec.md §2 describes: there is
// no separate static-check phase. It owns the program's symbol table for
// the duration of the run and performs the side effects of print, read
// and assert.
type Evaluator struct {
	sym  *SymbolTable
	out  *bufio.Writer
	in   *bufio.Reader
	diag *Diagnostics

	// LastErr holds the wrapped cause of the most recent stdin read
	// failure, for callers that hold the Evaluator directly. Interpreter
	// and the -trace mode do not read it. It carries no semantics of its
	// own — the user-visible diagnostic is always the plain
	// "Failed to read ..." runtime error.
	LastErr error
}

// NewEvaluator creates an Evaluator writing program output to out, reading
// `read` input from in, and reporting diagnostics through diag.
func NewEvaluator(out io.Writer, in io.Reader, diag *Diagnostics) *Evaluator {
	return &Evaluator{
		sym:  NewSymbolTable(),
		out:  bufio.NewWriter(out),
		in:   bufio.NewReader(in),
		diag: diag,
	}
}

// Run executes prog to completion or until the first semantic/runtime
// error, returning whether it finished without one. It always flushes
// buffered stdout before returning, including on failure.
func (e *Evaluator) Run(prog *Program) bool {
	ok := e.execStmts(prog.Stmts)
	e.out.Flush()
	return ok
}

// execStmts runs a statement list left to right, stopping at the first
// failing statement. Sibling statements after a failure are never run;
// the failure propagates to the caller (an enclosing for-loop, or Run).
func (e *Evaluator) execStmts(stmts []Stmt) bool {
	for _, s := range stmts {
		if !e.execStmt(s) {
			return false
		}
	}

	return true
}

func (e *Evaluator) execStmt(s Stmt) bool {
	switch st := s.(type) {
	case *VarDecl:
		return e.execVarDecl(st)
	case *Assignment:
		return e.execAssignment(st)
	case *ForStmt:
		return e.execFor(st)
	case *ReadStmt:
		return e.execRead(st)
	case *PrintStmt:
		return e.execPrint(st)
	case *AssertStmt:
		return e.execAssert(st)
	}

	return true
}

// execVarDecl declares a new symbol. If an initializer is present its type
// must match the declared type; otherwise the declared type's default
// value is used. Redeclaring an existing name is a semantic error.
func (e *Evaluator) execVarDecl(d *VarDecl) bool {
	var val Value

	if d.Init != nil {
		v, ok := e.eval(d.Init)
		if !ok {
			return false
		}

		if v.Kind.TypeName() != d.TypeName {
			e.diag.Semantic(d.Line, "Incompatible types in declaration")
			return false
		}

		val = v
	} else {
		v, ok := defaultValue(d.TypeName)
		if !ok {
			// Unreachable: the scanner only ever emits int/string/bool as
			// TokenTypeKeyword lexemes.
			e.diag.Semantic(d.Line, "Incompatible types in declaration")
			return false
		}

		val = v
	}

	if !e.sym.Insert(d.Name, val) {
		e.diag.Semantic(d.Line, fmt.Sprintf("Redeclaration of symbol %s", d.Name))
		return false
	}

	return true
}

// execAssignment requires the target to already exist and the
// right-hand-side type to match its declared type. Assigning into the
// active for-loop control variable is rejected.
func (e *Evaluator) execAssignment(a *Assignment) bool {
	target, ok := e.sym.Lookup(a.Name)
	if !ok {
		e.diag.Semantic(a.Line, fmt.Sprintf("Undefined variable %s", a.Name))
		return false
	}

	v, ok := e.eval(a.Value)
	if !ok {
		return false
	}

	if v.Kind != target.Kind {
		e.diag.Semantic(a.Line, "Incompatible types in assignment")
		return false
	}

	if err := e.sym.Update(a.Name, v); err != nil {
		e.diag.Semantic(a.Line, "Cannot modify the loop control variable")
		return false
	}

	return true
}

// execFor requires the control variable to already be declared as int and
// both range endpoints to evaluate to int. It then runs the body once per
// integer in [low, high] (ascending, inclusive; an empty range is simply
// zero iterations), marking the control variable Constant for the
// duration and clearing the flag again on any exit — normal or aborted.
func (e *Evaluator) execFor(f *ForStmt) bool {
	target, ok := e.sym.Lookup(f.Var)
	if !ok || target.Kind != KindInt {
		e.diag.Semantic(f.Line, "For variable should be integer")
		return false
	}

	low, ok := e.eval(f.Low)
	if !ok {
		return false
	}

	high, ok := e.eval(f.High)
	if !ok {
		return false
	}

	if low.Kind != KindInt || high.Kind != KindInt {
		e.diag.Semantic(f.Line, "For range should be integer")
		return false
	}

	ok = true
	for i := low.Int; i <= high.Int; i++ {
		e.sym.ForceUpdate(f.Var, IntValue(i))
		e.sym.SetConstant(f.Var, true)

		if !e.execStmts(f.Body) {
			ok = false
			break
		}
	}

	e.sym.SetConstant(f.Var, false)
	return ok
}

// execRead reads one whitespace-delimited field from standard input into
// an already-declared variable. Reading into a boolean is rejected; a
// malformed integer field is a runtime error.
func (e *Evaluator) execRead(r *ReadStmt) bool {
	target, ok := e.sym.Lookup(r.Name)
	if !ok {
		e.diag.Semantic(r.Line, "Undefined label in read statement")
		return false
	}

	switch target.Kind {
	case KindInt:
		var n int64
		if _, err := fmt.Fscan(e.in, &n); err != nil {
			e.LastErr = errors.Wrapf(err, "read int into %s", r.Name)
			e.diag.Runtime(r.Line, "Failed to read integer")
			return false
		}

		if err := e.sym.Update(r.Name, IntValue(n)); err != nil {
			e.diag.Semantic(r.Line, "Cannot modify the loop control variable")
			return false
		}

	case KindString:
		var field string
		if _, err := fmt.Fscan(e.in, &field); err != nil {
			e.LastErr = errors.Wrapf(err, "read string into %s", r.Name)
			e.diag.Runtime(r.Line, "Failed to read string")
			return false
		}

		if len(field) > 512 {
			field = field[:512]
		}

		if err := e.sym.Update(r.Name, StringValue(field)); err != nil {
			e.diag.Semantic(r.Line, "Cannot modify the loop control variable")
			return false
		}

	default:
		e.diag.Runtime(r.Line, "Cannot read boolean value")
		return false
	}

	return true
}

// execPrint evaluates its operand and writes its textual representation
// to standard output with no trailing newline. Booleans are not a
// printable expression result.
func (e *Evaluator) execPrint(pr *PrintStmt) bool {
	v, ok := e.eval(pr.Value)
	if !ok {
		return false
	}

	if v.Kind != KindInt && v.Kind != KindString {
		e.diag.Runtime(pr.Line, "Invalid value in printable expression")
		return false
	}

	fmt.Fprint(e.out, v.String())
	return true
}

// execAssert evaluates its operand, which must be boolean by construction
// of the expression grammar, and fails if it is false.
func (e *Evaluator) execAssert(a *AssertStmt) bool {
	v, ok := e.eval(a.Value)
	if !ok {
		return false
	}

	if v.Kind != KindBool || !v.Bool {
		e.diag.Semantic(a.Line, "Assertion failed")
		return false
	}

	return true
}

// eval evaluates an expression to a Value, reporting the relevant
// diagnostic and returning ok=false on the first failure.
func (e *Evaluator) eval(expr Expr) (Value, bool) {
	switch ex := expr.(type) {
	case *IntLiteral:
		return IntValue(ex.Value), true

	case *StringLiteral:
		return StringValue(ex.Value), true

	case *VarExpr:
		v, ok := e.sym.Lookup(ex.Name)
		if !ok {
			e.diag.Semantic(ex.Line, fmt.Sprintf("Reference to unknown variable %s", ex.Name))
			return ErrorValue(), false
		}
		return v, true

	case *UnaryExpr:
		return e.evalUnary(ex)

	case *BinaryExpr:
		return e.evalBinary(ex)
	}

	return ErrorValue(), false
}

func (e *Evaluator) evalUnary(ex *UnaryExpr) (Value, bool) {
	v, ok := e.eval(ex.Operand)
	if !ok {
		return ErrorValue(), false
	}

	if v.Kind != KindBool {
		e.diag.Semantic(ex.Line, "The argument type of unary expression must be bool")
		return ErrorValue(), false
	}

	return BoolValue(!v.Bool), true
}

// evalBinary evaluates a binary expression. Per spec.md §4.4's evaluation
// order, the right-hand (operand-suffix) operand is evaluated before the
// left one, but the operator is still applied as `left OP right` — so
// subtraction and division compute left-right and left/right.
func (e *Evaluator) evalBinary(ex *BinaryExpr) (Value, bool) {
	right, ok := e.eval(ex.Right)
	if !ok {
		return ErrorValue(), false
	}

	left, ok := e.eval(ex.Left)
	if !ok {
		return ErrorValue(), false
	}

	if left.Kind != right.Kind {
		e.diag.Semantic(ex.Line, "Mismatched types in expression")
		return ErrorValue(), false
	}

	if ex.Op == "<" || ex.Op == "=" {
		return e.evalComparison(ex, left, right)
	}

	switch ex.Op {
	case "+":
		switch left.Kind {
		case KindInt:
			return IntValue(left.Int + right.Int), true
		case KindString:
			return StringValue(left.Str + right.Str), true
		default:
			e.diag.Semantic(ex.Line, "Trying to use addition operator with boolean values")
			return ErrorValue(), false
		}

	case "-":
		if left.Kind != KindInt {
			e.diag.Semantic(ex.Line, "Trying to use subtraction operator with non integer values")
			return ErrorValue(), false
		}
		return IntValue(left.Int - right.Int), true

	case "*":
		if left.Kind != KindInt {
			e.diag.Semantic(ex.Line, "Trying to use multiplication operator with non integer values")
			return ErrorValue(), false
		}
		return IntValue(left.Int * right.Int), true

	case "/":
		if left.Kind != KindInt {
			e.diag.Semantic(ex.Line, "Trying to use division operator with non integer values")
			return ErrorValue(), false
		}
		if right.Int == 0 {
			e.diag.Runtime(ex.Line, "Division by zero")
			return ErrorValue(), false
		}
		return IntValue(left.Int / right.Int), true

	case "&":
		if left.Kind != KindBool {
			e.diag.Semantic(ex.Line, "Trying to use logical and operator with non boolean values")
			return ErrorValue(), false
		}
		return BoolValue(left.Bool && right.Bool), true
	}

	return ErrorValue(), false
}

// evalComparison handles "<" and "=". left and right are already known to
// share a Kind — evalBinary checks that uniformly for every operator
// before dispatching here.
func (e *Evaluator) evalComparison(ex *BinaryExpr, left, right Value) (Value, bool) {
	var less, equal bool
	switch left.Kind {
	case KindInt:
		less, equal = left.Int < right.Int, left.Int == right.Int
	case KindString:
		less, equal = left.Str < right.Str, left.Str == right.Str
	case KindBool:
		less, equal = !left.Bool && right.Bool, left.Bool == right.Bool
	}

	if ex.Op == "<" {
		return BoolValue(less), true
	}
	return BoolValue(equal), true
}
