package scanner

import (
	"errors"
	"strconv"
	"unicode/utf8"

	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

// Scanner turns source text into tokens in a single left-to-right pass.
type Scanner struct {
	source  string
	tokens  []token.Token
	diags   diag.List
	start   int
	current int
	line    int
}

// New prepares a scanner over source.
func New(source string) *Scanner {
	return &Scanner{source: source, line: 1}
}

// Scan is a convenience wrapper around New(source).ScanTokens().
func Scan(source string) ([]token.Token, diag.List) {
	return New(source).ScanTokens()
}

// ScanTokens scans the whole source. The token slice always ends with an EOF
// token, even when diagnostics were recorded.
func (s *Scanner) ScanTokens() ([]token.Token, diag.List) {
	for !s.isAtEnd() {
		s.start = s.current
		s.scanToken()
	}
	s.tokens = append(s.tokens, token.New(token.EOF, "", nil, s.line))
	return s.tokens, s.diags
}

func (s *Scanner) scanToken() {
	c := s.advance()
	switch c {
	case '(':
		s.addToken(token.LeftParen)
	case ')':
		s.addToken(token.RightParen)
	case '{':
		s.addToken(token.LeftBrace)
	case '}':
		s.addToken(token.RightBrace)
	case ',':
		s.addToken(token.Comma)
	case '.':
		s.addToken(token.Dot)
	case '-':
		s.addToken(token.Minus)
	case '+':
		s.addToken(token.Plus)
	case ';':
		s.addToken(token.Semicolon)
	case '*':
		s.addToken(token.Star)
	case '!':
		s.addToken(s.pick('=', token.BangEqual, token.Bang))
	case '=':
		s.addToken(s.pick('=', token.EqualEqual, token.Equal))
	case '<':
		s.addToken(s.pick('=', token.LessEqual, token.Less))
	case '>':
		s.addToken(s.pick('=', token.GreaterEqual, token.Greater))
	case '/':
		if s.match('/') {
			for s.peek() != '\n' && !s.isAtEnd() {
				s.advance()
			}
			return
		}
		s.addToken(token.Slash)
	case ' ', '\r', '\t':
	case '\n':
		s.line++
	case '"':
		s.stringLiteral()
	default:
		switch {
		case isDigit(c):
			s.number()
		case isAlpha(c):
			s.identifier()
		case c >= utf8.RuneSelf:
			// Consume the rest of the encoded rune so it is reported once.
			_, width := utf8.DecodeRuneInString(s.source[s.start:])
			s.current = s.start + width
			s.error("Unexpected character.")
		default:
			s.error("Unexpected character.")
		}
	}
}

func (s *Scanner) identifier() {
	for isAlphaNumeric(s.peek()) {
		s.advance()
	}
	text := s.source[s.start:s.current]
	if kind, ok := token.Keyword(text); ok {
		s.addToken(kind)
		return
	}
	s.addToken(token.Identifier)
}

func (s *Scanner) number() {
	for isDigit(s.peek()) {
		s.advance()
	}
	if s.peek() == '.' && isDigit(s.peekNext()) {
		s.advance()
		for isDigit(s.peek()) {
			s.advance()
		}
	}
	text := s.source[s.start:s.current]
	// Out-of-range literals keep the ±Inf ParseFloat yields.
	value, err := strconv.ParseFloat(text, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		s.error("Invalid number literal.")
		return
	}
	s.addLiteral(token.Number, value)
}

func (s *Scanner) stringLiteral() {
	for s.peek() != '"' && !s.isAtEnd() {
		if s.peek() == '\n' {
			s.line++
		}
		s.advance()
	}
	if s.isAtEnd() {
		s.error("Unterminated string.")
		return
	}
	s.advance()
	s.addLiteral(token.String, s.source[s.start+1:s.current-1])
}

func (s *Scanner) pick(expected byte, matched, otherwise token.Kind) token.Kind {
	if s.match(expected) {
		return matched
	}
	return otherwise
}

func (s *Scanner) match(expected byte) bool {
	if s.isAtEnd() || s.source[s.current] != expected {
		return false
	}
	s.current++
	return true
}

func (s *Scanner) advance() byte {
	c := s.source[s.current]
	s.current++
	return c
}

func (s *Scanner) peek() byte {
	if s.isAtEnd() {
		return 0
	}
	return s.source[s.current]
}

func (s *Scanner) peekNext() byte {
	if s.current+1 >= len(s.source) {
		return 0
	}
	return s.source[s.current+1]
}

func (s *Scanner) isAtEnd() bool {
	return s.current >= len(s.source)
}

func (s *Scanner) addToken(kind token.Kind) {
	s.addLiteral(kind, nil)
}

func (s *Scanner) addLiteral(kind token.Kind, literal any) {
	s.tokens = append(s.tokens, token.New(kind, s.source[s.start:s.current], literal, s.line))
}

func (s *Scanner) error(message string) {
	s.diags.Add(diag.Diagnostic{Stage: diag.StageScan, Line: s.line, Message: message})
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isAlphaNumeric(c byte) bool {
	return isAlpha(c) || isDigit(c)
}
