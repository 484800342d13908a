package minipl

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func runSource(t *testing.T, src, stdin string) (stdout string, stderr string, ok bool) {
	t.Helper()

	s := NewScanner(strings.NewReader(src))
	go s.Do()

	var errBuf strings.Builder
	diag := NewDiagnostics(&errBuf)

	p := NewParser(FilterErrors(s.Chan(), diag), diag)
	prog, parsed := p.Parse()
	if !parsed {
		return "", errBuf.String(), false
	}

	var outBuf strings.Builder
	e := NewEvaluator(&outBuf, strings.NewReader(stdin), diag)
	ran := e.Run(prog)

	return outBuf.String(), errBuf.String(), ran && !diag.Failed()
}

func TestEvaluatorHelloWorld(t *testing.T) {
	out, errs, ok := runSource(t, `print "Hello, world!\n";`, "")
	assert.True(t, ok, errs)
	assert.Equal(t, "Hello, world!\n", out)
}

func TestEvaluatorArithmetic(t *testing.T) {
	src := `
var x : int := 4 + (6 * 2);
print x;
`
	out, errs, ok := runSource(t, src, "")
	assert.True(t, ok, errs)
	assert.Equal(t, "16", out)
}

func TestEvaluatorForLoopAndConstantViolation(t *testing.T) {
	src := `
var i : int;
var sum : int := 0;
for i in 1..5 do
	sum := sum + i;
	i := 100;
end for;
print sum;
`
	out, errs, ok := runSource(t, src, "")
	assert.False(t, ok)
	assert.Contains(t, errs, "Cannot modify the loop control variable")
	// The loop body runs up to the failing statement before aborting, so
	// the print after the loop never executes.
	assert.Empty(t, out)
}

func TestEvaluatorForLoopSum(t *testing.T) {
	src := `
var i : int;
var sum : int := 0;
for i in 1..5 do
	sum := sum + i;
end for;
print sum;
`
	out, errs, ok := runSource(t, src, "")
	assert.True(t, ok, errs)
	assert.Equal(t, "15", out)
}

func TestEvaluatorUndeclaredUse(t *testing.T) {
	_, errs, ok := runSource(t, `print x;`, "")
	assert.False(t, ok)
	assert.Contains(t, errs, "Reference to unknown variable x")
}

func TestEvaluatorDivisionByZero(t *testing.T) {
	_, errs, ok := runSource(t, `var x : int := 1 / 0; print x;`, "")
	assert.False(t, ok)
	assert.Contains(t, errs, "Runtime error")
	assert.Contains(t, errs, "Division by zero")
}

func TestEvaluatorReadIntThenSquare(t *testing.T) {
	src := `
var x : int;
read x;
print x * x;
`
	out, errs, ok := runSource(t, src, "7")
	assert.True(t, ok, errs)
	assert.Equal(t, "49", out)
}

func TestEvaluatorReadUndeclaredLabel(t *testing.T) {
	_, errs, ok := runSource(t, `read missing;`, "1")
	assert.False(t, ok)
	assert.Contains(t, errs, "Undefined label in read statement")
}

func TestEvaluatorRedeclaration(t *testing.T) {
	_, errs, ok := runSource(t, `var x : int; var x : int;`, "")
	assert.False(t, ok)
	assert.Contains(t, errs, "Redeclaration of symbol x")
}

func TestEvaluatorIncompatibleAssignment(t *testing.T) {
	_, errs, ok := runSource(t, `var x : int; x := "oops";`, "")
	assert.False(t, ok)
	assert.Contains(t, errs, "Incompatible types in assignment")
}

func TestEvaluatorAssertionFailure(t *testing.T) {
	_, errs, ok := runSource(t, `assert (1 = 2);`, "")
	assert.False(t, ok)
	assert.Contains(t, errs, "Assertion failed")
}

func TestEvaluatorStringConcatAndCompare(t *testing.T) {
	src := `
var greeting : string := "hello" + (" " + "world");
print greeting;
assert (greeting = "hello world");
`
	out, errs, ok := runSource(t, src, "")
	assert.True(t, ok, errs)
	assert.Equal(t, "hello world", out)
}

func TestEvaluatorComparisonMismatchUsesGenericMessage(t *testing.T) {
	_, errs, ok := runSource(t, `assert (1 = "a");`, "")
	assert.False(t, ok)
	assert.Contains(t, errs, "Mismatched types in expression")
	assert.NotContains(t, errs, "Trying to compare types with undefined types")
}

func TestEvaluatorForVariableMustBeInt(t *testing.T) {
	_, errs, ok := runSource(t, `for i in 1..5 do print i; end for;`, "")
	assert.False(t, ok)
	assert.Contains(t, errs, "For variable should be integer")
}
