package minipl

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
)

// eof is returned by the scanner's byte reader once the stream is exhausted.
const eof byte = 0

// scanState is a function that, given the scanner, may emit a Token and
// returns the next state to run. A nil state ends scanning.
type scanState func(s *Scanner) scanState

// Scanner turns a byte stream into a sequence of Tokens terminated by a
// single TokenEOF. Unlike a lexer that aborts on the first bad input, the
// Scanner never fails globally: any unrecognised construct becomes a
// TokenError and scanning continues from the following byte. A Scanner
// should never be reused and is not safe for concurrent use.
type Scanner struct {
	reader *bufio.Reader
	output chan Token

	// line is the 1-based line the scanner is currently reading.
	line int

	// pending holds a single look-ahead byte pushed back by peekByte.
	pending    byte
	hasPending bool
}

// NewScanner creates a Scanner reading from r.
func NewScanner(r io.Reader) *Scanner {
	return &Scanner{
		reader: bufio.NewReader(r),
		output: make(chan Token, 2),
		line:   1,
	}
}

// Open creates a Scanner reading from the named source file, wrapping any
// failure to open it with the path for context.
func Open(path string) (*Scanner, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "open source file %q", path)
	}

	return NewScanner(f), nil
}

// Chan returns the channel Tokens are delivered on.
func (s *Scanner) Chan() chan Token {
	return s.output
}

// Do runs the scanner's state machine to completion, closing the output
// channel once the terminating TokenEOF has been sent. Intended to be run
// on its own goroutine; callers pull results with Chan or Get.
func (s *Scanner) Do() {
	for state := scanStart; state != nil; {
		state = state(s)
	}

	close(s.output)
}

// Get fetches the next available token, blocking until the scanner has
// produced one.
func (s *Scanner) Get() Token {
	return <-s.output
}

// Run drives the scanner synchronously and returns every token it produces,
// including any TokenError tokens. It is a convenience wrapper around
// Do/Get for callers — tests chief among them — that want the whole
// result at once instead of pulling incrementally.
func (s *Scanner) Run() []Token {
	go s.Do()

	var toks []Token
	for t := s.Get(); ; t = s.Get() {
		toks = append(toks, t)
		if t.Typ == TokenEOF {
			return toks
		}
	}
}

// FilterErrors drains raw, reporting, and forwarding the clean stream on
// the returned channel. This realises the §4.1 utility that strips error
// tokens from the stream, emitting one "Lexical error" diagnostic per
// removed token. The returned stream contains no TokenError tokens and is
// still terminated by exactly one TokenEOF.
func FilterErrors(raw <-chan Token, diag *Diagnostics) <-chan Token {
	clean := make(chan Token, 2)

	go func() {
		defer close(clean)

		for t := range raw {
			if t.Typ == TokenError {
				diag.Lexical(t.Line, t.Value)
				continue
			}

			clean <- t

			if t.Typ == TokenEOF {
				return
			}
		}
	}()

	return clean
}

// scanStart is the scanner's default state. Once a state has run to
// completion, scanStart picks the next one based on the next byte.
func scanStart(s *Scanner) scanState {
	for {
		switch b := s.peekByte(); {
		case b == ' ' || b == '\t' || b == '\r':
			s.nextByte()
			continue
		case b == '\n':
			s.nextByte()
			s.line++
			continue
		case b == eof:
			return scanEnd
		case '0' <= b && b <= '9':
			return scanNumber
		case b == '"':
			return scanString
		case isLetter(b):
			return scanIdentifier
		case b == ':':
			return scanColon
		case b == '.':
			return scanDot
		case b == '/':
			return scanSlash
		case isSingleCharOp(b):
			return scanSingleChar
		default:
			return scanUnidentified
		}
	}
}

// scanSingleChar emits one of the one-byte tokens that need no look-ahead:
// parentheses, semicolon, and the operator symbols + - * = < & !.
func scanSingleChar(s *Scanner) scanState {
	line := s.line
	b := s.nextByte()

	switch b {
	case '(':
		return s.emit(TokenLParen, "(", line)
	case ')':
		return s.emit(TokenRParen, ")", line)
	case ';':
		return s.emit(TokenSemicolon, ";", line)
	case '!':
		return s.emit(TokenUnaryOp, "!", line)
	case '+', '-', '*', '=', '<', '&':
		return s.emit(TokenBinOp, string(b), line)
	}

	return s.errorf(line, "Unidentified token: %s", string(b))
}

// scanColon disambiguates ':' from ':='.
func scanColon(s *Scanner) scanState {
	line := s.line
	s.nextByte() // ':'

	if s.peekByte() == '=' {
		s.nextByte()
		return s.emit(TokenAssign, ":=", line)
	}

	return s.emit(TokenColon, ":", line)
}

// scanDot disambiguates a lone '.' (invalid) from the range operator '..'.
func scanDot(s *Scanner) scanState {
	line := s.line
	s.nextByte() // '.'

	if s.peekByte() == '.' {
		s.nextByte()
		return s.emit(TokenRange, "..", line)
	}

	return s.errorf(line, ".")
}

// scanSlash disambiguates division, line comments and block comments.
func scanSlash(s *Scanner) scanState {
	line := s.line
	s.nextByte() // '/'

	switch s.peekByte() {
	case '/':
		s.nextByte()
		return scanLineComment
	case '*':
		s.nextByte()
		return scanBlockComment(line)
	}

	return s.emit(TokenBinOp, "/", line)
}

// scanLineComment discards everything up to (but not including) the next
// newline or end of input, then resumes normal scanning. No token is
// emitted for the comment itself.
func scanLineComment(s *Scanner) scanState {
	for {
		switch s.peekByte() {
		case '\n', eof:
			return scanStart
		default:
			s.nextByte()
		}
	}
}

// scanBlockComment discards everything up to the matching "*/". Nested
// comments are not supported — the first "*/" found closes the comment.
// Reaching end of input first is a lexical error; its lexeme is the
// comment opener itself, "/*", echoing the unclosed construct.
func scanBlockComment(startLine int) scanState {
	return func(s *Scanner) scanState {
		for {
			b := s.nextByte()
			if b == eof {
				return s.errorf(startLine, "/*")
			}

			if b == '\n' {
				s.line++
			}

			if b == '*' && s.peekByte() == '/' {
				s.nextByte()
				return scanStart
			}
		}
	}
}

// scanNumber consumes a run of decimal digits and emits it as TokenInt.
func scanNumber(s *Scanner) scanState {
	line := s.line

	var sb strings.Builder
	for isDigit(s.peekByte()) {
		sb.WriteByte(s.nextByte())
	}

	return s.emit(TokenInt, sb.String(), line)
}

// scanIdentifier consumes letters, digits and underscores and classifies
// the result against keywordTable. Identifiers longer than maxLexeme are
// reported as a dedicated lexical error rather than silently truncated.
func scanIdentifier(s *Scanner) scanState {
	line := s.line

	var sb strings.Builder
	for isLetter(s.peekByte()) || isDigit(s.peekByte()) || s.peekByte() == '_' {
		if sb.Len() == maxLexeme {
			// Keep consuming the rest of the identifier so scanning resumes
			// cleanly at the following token, but report it once.
			for isLetter(s.peekByte()) || isDigit(s.peekByte()) || s.peekByte() == '_' {
				s.nextByte()
			}

			return s.errorf(line, "Ignoring too long identifier.")
		}

		sb.WriteByte(s.nextByte())
	}

	name := sb.String()
	if kind, ok := keywordTable[name]; ok {
		return s.emit(kind, name, line)
	}

	return s.emit(TokenIdentifier, name, line)
}

// scanString consumes a double-quoted string literal, decoding the escape
// sequences \n \t \a \b \f \r \v \\ \". Any error inside the literal —
// an undefined escape, an overlong literal, or running into end of input —
// is reported as exactly one error token. For an undefined escape or an
// overlong literal, scanning discards the remaining characters up to the
// next unescaped '"' (or end of input) before resuming, so the parser
// never sees the broken tail of the literal as fresh tokens.
func scanString(s *Scanner) scanState {
	startLine := s.line
	s.nextByte() // opening quote

	var sb strings.Builder
	for {
		b := s.nextByte()

		switch {
		case b == eof:
			return s.errorf(startLine, "Unterminated string literal.")
		case b == '"':
			return s.emit(TokenString, sb.String(), startLine)
		case b == '\\':
			e := s.nextByte()
			if e == eof {
				return s.errorf(startLine, "Unterminated string literal.")
			}

			decoded, ok := decodeEscape(e)
			if !ok {
				s.discardStringTail()
				return s.errorf(startLine, "Undefined control sequence \\%c in string literal", e)
			}

			sb.WriteByte(decoded)
		default:
			sb.WriteByte(b)
		}

		if sb.Len() > maxLexeme {
			s.discardStringTail()
			return s.errorf(startLine, "String literal is too long.")
		}
	}
}

// discardStringTail consumes bytes up to (and including) the next unescaped
// '"', or until end of input, without building a token. It is the
// resolution the implementation chose for the open question in spec.md §9
// around string-literal error recovery: rather than re-entering the escape
// handler byte by byte, the remainder of the broken literal is discarded
// silently and exactly one error token has already been recorded by the
// caller.
func (s *Scanner) discardStringTail() {
	for {
		b := s.nextByte()
		switch b {
		case eof:
			return
		case '\\':
			if s.nextByte() == eof {
				return
			}
		case '"':
			return
		}
	}
}

// decodeEscape maps a byte following a backslash to its decoded value.
func decodeEscape(b byte) (byte, bool) {
	switch b {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'a':
		return '\a', true
	case 'b':
		return '\b', true
	case 'f':
		return '\f', true
	case 'r':
		return '\r', true
	case 'v':
		return '\v', true
	case '\\':
		return '\\', true
	case '"':
		return '"', true
	}

	return 0, false
}

// scanUnidentified handles a leading byte that starts nothing recognised.
// It consumes up to the next whitespace (or end of input) and reports the
// whole run as a single error token.
func scanUnidentified(s *Scanner) scanState {
	line := s.line

	var sb strings.Builder
	for {
		b := s.peekByte()
		if b == eof || b == ' ' || b == '\t' || b == '\n' || b == '\r' {
			break
		}

		sb.WriteByte(s.nextByte())
	}

	return s.errorf(line, "Unidentified token: %s", sb.String())
}

// scanEnd emits the terminating TokenEOF and ends the state machine.
func scanEnd(s *Scanner) scanState {
	s.output <- Token{Typ: TokenEOF, Line: s.line}
	return nil
}

// errorf emits a TokenError with a formatted message and resumes scanning
// normally — a single bad construct never aborts the whole run.
func (s *Scanner) errorf(line int, format string, args ...interface{}) scanState {
	s.output <- Token{
		Typ:   TokenError,
		Value: fmt.Sprintf(format, args...),
		Line:  line,
	}

	return scanStart
}

// emit sends a token of kind k with the given value and line, then resumes
// normal scanning.
func (s *Scanner) emit(k TokenKind, val string, line int) scanState {
	s.output <- Token{Typ: k, Value: val, Line: line}
	return scanStart
}

// peekByte returns the next byte without consuming it.
func (s *Scanner) peekByte() byte {
	if s.hasPending {
		return s.pending
	}

	b, err := s.reader.ReadByte()
	if err != nil {
		return eof
	}

	s.pending = b
	s.hasPending = true
	return b
}

// nextByte consumes and returns the next byte in the stream.
func (s *Scanner) nextByte() byte {
	if s.hasPending {
		s.hasPending = false
		return s.pending
	}

	b, err := s.reader.ReadByte()
	if err != nil {
		return eof
	}

	return b
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func isLetter(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isSingleCharOp(b byte) bool {
	switch b {
	case '(', ')', ';', '!', '+', '-', '*', '=', '<', '&':
		return true
	}
	return false
}
