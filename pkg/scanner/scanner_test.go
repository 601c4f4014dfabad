package scanner

import (
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lox/interpreter-go/pkg/token"
)

func kindsOf(tokens []token.Token) []token.Kind {
	out := make([]token.Kind, len(tokens))
	for i, tok := range tokens {
		out[i] = tok.Kind
	}
	return out
}

func TestScanPunctuationAndOperators(t *testing.T) {
	tokens, diags := Scan("(){},.-+;*/ ! != = == < <= > >=")
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Messages())
	}
	want := []token.Kind{
		token.LeftParen, token.RightParen, token.LeftBrace, token.RightBrace,
		token.Comma, token.Dot, token.Minus, token.Plus, token.Semicolon, token.Star, token.Slash,
		token.Bang, token.BangEqual, token.Equal, token.EqualEqual,
		token.Less, token.LessEqual, token.Greater, token.GreaterEqual,
		token.EOF,
	}
	if diff := cmp.Diff(want, kindsOf(tokens)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestScanLiteralsAndKeywords(t *testing.T) {
	tokens, diags := Scan(`var answer = 42.5; print "hi there"; orchid or nil;`)
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Messages())
	}
	want := []token.Token{
		token.New(token.Var, "var", nil, 1),
		token.New(token.Identifier, "answer", nil, 1),
		token.New(token.Equal, "=", nil, 1),
		token.New(token.Number, "42.5", 42.5, 1),
		token.New(token.Semicolon, ";", nil, 1),
		token.New(token.Print, "print", nil, 1),
		token.New(token.String, `"hi there"`, "hi there", 1),
		token.New(token.Semicolon, ";", nil, 1),
		token.New(token.Identifier, "orchid", nil, 1),
		token.New(token.Or, "or", nil, 1),
		token.New(token.Nil, "nil", nil, 1),
		token.New(token.Semicolon, ";", nil, 1),
		token.New(token.EOF, "", nil, 1),
	}
	if diff := cmp.Diff(want, tokens); diff != "" {
		t.Fatalf("tokens mismatch (-want +got):\n%s", diff)
	}
}

func TestScanNumbers(t *testing.T) {
	tokens, _ := Scan("123 4.5 6. .7")
	want := []token.Kind{token.Number, token.Number, token.Number, token.Dot, token.Dot, token.Number, token.EOF}
	if diff := cmp.Diff(want, kindsOf(tokens)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
	if tokens[0].Literal != 123.0 || tokens[1].Literal != 4.5 || tokens[2].Literal != 6.0 || tokens[5].Literal != 7.0 {
		t.Fatalf("unexpected literals %v", tokens)
	}
}

func TestScanOverflowingNumberIsInfinity(t *testing.T) {
	tokens, diags := Scan("1" + strings.Repeat("0", 400))
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Messages())
	}
	if tokens[0].Kind != token.Number {
		t.Fatalf("expected number token, got %v", tokens[0])
	}
	if val, ok := tokens[0].Literal.(float64); !ok || !math.IsInf(val, 1) {
		t.Fatalf("expected +Inf literal, got %#v", tokens[0].Literal)
	}
}

func TestScanCommentsAndLines(t *testing.T) {
	tokens, diags := Scan("// comment only\nprint 1; // trailing\n\n\"multi\nline\"\nx")
	if diags.HasErrors() {
		t.Fatalf("unexpected diagnostics: %v", diags.Messages())
	}
	lines := make([]int, len(tokens))
	for i, tok := range tokens {
		lines[i] = tok.Line
	}
	if diff := cmp.Diff([]int{2, 2, 2, 5, 6, 6}, lines); diff != "" {
		t.Fatalf("line mismatch (-want +got):\n%s", diff)
	}
	if tokens[3].Literal != "multi\nline" {
		t.Fatalf("unexpected string literal %q", tokens[3].Literal)
	}
}

func TestScanErrorsContinue(t *testing.T) {
	tokens, diags := Scan("var a = 1 @ 2;\n# é\n\"open")
	want := []string{
		"[line 1] Error: Unexpected character.",
		"[line 2] Error: Unexpected character.",
		"[line 2] Error: Unexpected character.",
		"[line 3] Error: Unterminated string.",
	}
	if diff := cmp.Diff(want, diags.Messages()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	wantKinds := []token.Kind{token.Var, token.Identifier, token.Equal, token.Number, token.Number, token.Semicolon, token.EOF}
	if diff := cmp.Diff(wantKinds, kindsOf(tokens)); diff != "" {
		t.Fatalf("kinds mismatch (-want +got):\n%s", diff)
	}
}

func TestScanEmptySource(t *testing.T) {
	tokens, diags := Scan("")
	if diags.HasErrors() || len(tokens) != 1 || tokens[0].Kind != token.EOF {
		t.Fatalf("expected lone EOF, got %v %v", tokens, diags)
	}
}
