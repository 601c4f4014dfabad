package interpreter

import (
	"bytes"
	"strings"
	"testing"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/parser"
	"lox/interpreter-go/pkg/resolver"
	"lox/interpreter-go/pkg/scanner"
)

// harness runs source through every stage with one interpreter and allocator,
// the way a REPL session does.
type harness struct {
	t      *testing.T
	ids    *ast.IDs
	out    *bytes.Buffer
	interp *Interpreter
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	out := &bytes.Buffer{}
	return &harness{t: t, ids: &ast.IDs{}, out: out, interp: New(out)}
}

// run executes source and returns the runtime error, failing the test on any
// static diagnostic.
func (h *harness) run(source string) error {
	h.t.Helper()
	tokens, diags := scanner.Scan(source)
	if diags.HasErrors() {
		h.t.Fatalf("scan errors: %v", diags.Messages())
	}
	program, diags := parser.Parse(tokens, h.ids)
	if diags.HasErrors() {
		h.t.Fatalf("parse errors: %v", diags.Messages())
	}
	global := h.interp.GlobalEnvironment()
	res, diags := resolver.New(resolver.Options{KnownGlobal: func(name string) bool {
		_, err := global.Get(name)
		return err == nil
	}}).Resolve(program)
	if diags.HasErrors() {
		h.t.Fatalf("resolve errors: %v", diags.Messages())
	}
	h.interp.Resolve(res)
	return h.interp.Interpret(program)
}

// lines returns and clears everything printed so far.
func (h *harness) lines() []string {
	text := strings.TrimSuffix(h.out.String(), "\n")
	h.out.Reset()
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

func runProgram(t *testing.T, source string) ([]string, error) {
	t.Helper()
	h := newHarness(t)
	err := h.run(source)
	return h.lines(), err
}
