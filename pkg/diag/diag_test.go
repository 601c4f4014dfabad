package diag

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"lox/interpreter-go/pkg/token"
)

func TestDiagnosticFormatting(t *testing.T) {
	cases := []struct {
		name string
		d    Diagnostic
		want string
	}{
		{"at lexeme", At(StageParse, token.New(token.Equal, "=", nil, 4), "Invalid assignment target."), "[line 4] Error at '=': Invalid assignment target."},
		{"at end", At(StageParse, token.New(token.EOF, "", nil, 9), "Expect ';' after value."), "[line 9] Error at end: Expect ';' after value."},
		{"scan", Diagnostic{Stage: StageScan, Line: 2, Message: "Unexpected character."}, "[line 2] Error: Unexpected character."},
		{"runtime", Runtime(token.New(token.Plus, "+", nil, 7), "Operands must be numbers."), "Operands must be numbers.\n[line 7]"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.d.String(); got != tc.want {
				t.Fatalf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestStageStatic(t *testing.T) {
	for _, s := range []Stage{StageScan, StageParse, StageResolve} {
		if !s.Static() {
			t.Fatalf("%s should be static", s)
		}
	}
	if StageRuntime.Static() {
		t.Fatalf("runtime is not static")
	}
}

func TestListErr(t *testing.T) {
	var l List
	if l.HasErrors() || l.Err() != nil {
		t.Fatalf("empty list must report nothing")
	}
	first := Diagnostic{Stage: StageScan, Line: 1, Message: "one"}
	l.Add(first)
	l.Add(Diagnostic{Stage: StageScan, Line: 2, Message: "two"})
	err := l.Err()
	if err == nil || !strings.Contains(err.Error(), "one") || !strings.Contains(err.Error(), "two") {
		t.Fatalf("joined error missing entries: %v", err)
	}
	var target Diagnostic
	if !errors.As(err, &target) || target != first {
		t.Fatalf("expected errors.As to find the first diagnostic, got %#v", target)
	}
}

func TestWriterReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewWriterReporter(&buf)
	r.Report(Diagnostic{Stage: StageResolve, Line: 3, Where: " at 'a'", Message: "Can't read local variable in its own initializer."})
	want := "[line 3] Error at 'a': Can't read local variable in its own initializer.\n"
	if buf.String() != want {
		t.Fatalf("got %q, want %q", buf.String(), want)
	}
}

func TestCollectorConcurrentReports(t *testing.T) {
	var c Collector
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(line int) {
			defer wg.Done()
			c.Report(Diagnostic{Stage: StageRuntime, Line: line, Message: "x"})
		}(i)
	}
	wg.Wait()
	if got := len(c.Diagnostics()); got != 20 {
		t.Fatalf("expected 20 diagnostics, got %d", got)
	}
	c.Reset()
	if len(c.Diagnostics()) != 0 {
		t.Fatalf("reset should clear diagnostics")
	}
}
