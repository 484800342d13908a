package minipl

import (
	"strings"
	"testing"

	"github.com/apason/minipl/internal/fuzzsrc"
	"github.com/stretchr/testify/assert"
)

func TestScanner(t *testing.T) {
	cases := []struct {
		name   string
		data   string
		expect []Token
	}{
		{
			"declaration",
			`var x : int := 4 + (6 * 2);`,
			[]Token{
				{TokenVar, "var", 1},
				{TokenIdentifier, "x", 1},
				{TokenColon, ":", 1},
				{TokenTypeKeyword, "int", 1},
				{TokenAssign, ":=", 1},
				{TokenInt, "4", 1},
				{TokenBinOp, "+", 1},
				{TokenLParen, "(", 1},
				{TokenInt, "6", 1},
				{TokenBinOp, "*", 1},
				{TokenInt, "2", 1},
				{TokenRParen, ")", 1},
				{TokenSemicolon, ";", 1},
				{TokenEOF, "", 1},
			},
		},
		{
			"for loop header",
			"for i in 1..n do",
			[]Token{
				{TokenFor, "for", 1},
				{TokenIdentifier, "i", 1},
				{TokenIn, "in", 1},
				{TokenInt, "1", 1},
				{TokenRange, "..", 1},
				{TokenIdentifier, "n", 1},
				{TokenDo, "do", 1},
				{TokenEOF, "", 1},
			},
		},
		{
			"line comment is discarded",
			"print 1; // trailing\nprint 2;",
			[]Token{
				{TokenPrint, "print", 1},
				{TokenInt, "1", 1},
				{TokenSemicolon, ";", 1},
				{TokenPrint, "print", 2},
				{TokenInt, "2", 2},
				{TokenSemicolon, ";", 2},
				{TokenEOF, "", 2},
			},
		},
		{
			"block comment spanning lines",
			"var /* skip\nthis */ x : int;",
			[]Token{
				{TokenVar, "var", 1},
				{TokenIdentifier, "x", 2},
				{TokenColon, ":", 2},
				{TokenTypeKeyword, "int", 2},
				{TokenSemicolon, ";", 2},
				{TokenEOF, "", 2},
			},
		},
		{
			"string with escapes",
			`"line\nbreak"`,
			[]Token{
				{TokenString, "line\nbreak", 1},
				{TokenEOF, "", 1},
			},
		},
		{
			"empty string",
			`""`,
			[]Token{
				{TokenString, "", 1},
				{TokenEOF, "", 1},
			},
		},
		{
			"unterminated string is one error token then EOF",
			`"unterminated`,
			[]Token{
				{TokenError, "Unterminated string literal.", 1},
				{TokenEOF, "", 1},
			},
		},
		{
			"bad escape recovers at closing quote",
			`"a\qb" print 1;`,
			[]Token{
				{TokenError, "Undefined control sequence \\q in string literal", 1},
				{TokenPrint, "print", 1},
				{TokenInt, "1", 1},
				{TokenSemicolon, ";", 1},
				{TokenEOF, "", 1},
			},
		},
		{
			"lone dot is an error",
			".",
			[]Token{
				{TokenError, ".", 1},
				{TokenEOF, "", 1},
			},
		},
		{
			"unterminated block comment",
			"/* never closed",
			[]Token{
				{TokenError, "/*", 1},
				{TokenEOF, "", 1},
			},
		},
		{
			"stray at sign",
			"@",
			[]Token{
				{TokenError, "Unidentified token: @", 1},
				{TokenEOF, "", 1},
			},
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s := NewScanner(strings.NewReader(c.data))
			assert.Equal(t, c.expect, s.Run())
		})
	}
}

func TestFilterErrors(t *testing.T) {
	s := NewScanner(strings.NewReader(`var x : int := @;`))
	go s.Do()

	var buf strings.Builder
	diag := NewDiagnostics(&buf)

	var got []Token
	for tok := range FilterErrors(s.Chan(), diag) {
		got = append(got, tok)
	}

	assert.True(t, diag.Failed())
	assert.Contains(t, buf.String(), "Lexical error in line   1")

	for _, tok := range got {
		assert.NotEqual(t, TokenError, tok.Typ)
	}
	assert.Equal(t, TokenEOF, got[len(got)-1].Typ)
}

// benchResult is a package-level sink to keep the compiler from optimising
// the scan away.
var benchResult []Token

func benchmarkScanner(size int, b *testing.B) {
	for n := 0; n < b.N; n++ {
		b.StopTimer()
		data := fuzzsrc.Tokens(size)
		s := NewScanner(strings.NewReader(data))
		b.StartTimer()

		benchResult = s.Run()
	}
}

func BenchmarkScanner100(b *testing.B)    { benchmarkScanner(100, b) }
func BenchmarkScanner1000(b *testing.B)   { benchmarkScanner(1000, b) }
func BenchmarkScanner10000(b *testing.B)  { benchmarkScanner(10000, b) }
func BenchmarkScanner100000(b *testing.B) { benchmarkScanner(100000, b) }
