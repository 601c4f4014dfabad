package driver

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"lox/interpreter-go/pkg/diag"
)

func newTestSession() (*Session, *bytes.Buffer, *diag.Collector) {
	var out bytes.Buffer
	collector := &diag.Collector{}
	return NewSession(SessionOptions{Stdout: &out, Reporter: collector}), &out, collector
}

func TestSessionRunSuccess(t *testing.T) {
	session, out, collector := newTestSession()
	result := session.Run(`var a = "outer"; { var a = "inner"; print a; } print a;`)
	if result.ExitCode() != ExitOK || result.HadError || result.HadRuntimeError {
		t.Fatalf("unexpected result %+v", result)
	}
	if diff := cmp.Diff("inner\nouter\n", out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
	if len(collector.Diagnostics()) != 0 {
		t.Fatalf("unexpected diagnostics %v", collector.Diagnostics().Messages())
	}
}

func TestSessionStaticErrorsSkipExecution(t *testing.T) {
	session, out, collector := newTestSession()
	result := session.Run("print \"side effect\";\n1 + ;\nprint 2;\n1 = 2;")
	if !result.HadError || result.ExitCode() != ExitDataErr {
		t.Fatalf("expected static error result, got %+v", result)
	}
	if out.Len() != 0 {
		t.Fatalf("no statement may run after a static error, got %q", out.String())
	}
	want := []string{
		"[line 2] Error at ';': Expect expression.",
		"[line 4] Error at '=': Invalid assignment target.",
	}
	if diff := cmp.Diff(want, collector.Diagnostics().Messages()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(want, result.Diagnostics.Messages()); diff != "" {
		t.Fatalf("result diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionResolveErrorSkipsExecution(t *testing.T) {
	session, out, collector := newTestSession()
	result := session.Run(`print "x"; var a = a;`)
	if result.ExitCode() != ExitDataErr || out.Len() != 0 {
		t.Fatalf("unexpected result %+v output %q", result, out.String())
	}
	msgs := collector.Diagnostics().Messages()
	if len(msgs) != 1 || !strings.Contains(msgs[0], "in its own initializer") {
		t.Fatalf("unexpected diagnostics %v", msgs)
	}
}

func TestSessionRuntimeError(t *testing.T) {
	session, out, collector := newTestSession()
	result := session.Run("print 1;\nprint -\"x\";\nprint 2;")
	if !result.HadRuntimeError || result.HadError || result.ExitCode() != ExitSoftware {
		t.Fatalf("unexpected result %+v", result)
	}
	if out.String() != "1\n" {
		t.Fatalf("expected output before the error only, got %q", out.String())
	}
	want := []string{"Operand must be a number.\n[line 2]"}
	if diff := cmp.Diff(want, collector.Diagnostics().Messages()); diff != "" {
		t.Fatalf("diagnostics mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionPersistsStateAcrossRuns(t *testing.T) {
	session, out, _ := newTestSession()
	steps := []string{
		"var total = 0;",
		"fun add(n) { total = total + n; return total; }",
		"{ var step = 5; fun twice() { add(step); return add(step); } print twice(); }",
		"print total + undefinedThing;",
		"print add(1);",
		"var total = total * 2; print total;",
	}
	var codes []int
	for _, step := range steps {
		codes = append(codes, session.Run(step).ExitCode())
	}
	if diff := cmp.Diff([]int{0, 0, 0, ExitSoftware, 0, 0}, codes); diff != "" {
		t.Fatalf("exit codes mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff("10\n11\n22\n", out.String()); diff != "" {
		t.Fatalf("output mismatch (-want +got):\n%s", diff)
	}
}

func TestSessionLogsAtDebugLevel(t *testing.T) {
	var logs bytes.Buffer
	session := NewSession(SessionOptions{Stdout: &bytes.Buffer{}, Reporter: &diag.Collector{}, Logger: NewLogger(&logs, "debug")})
	session.Run("print 1;")
	if !strings.Contains(logs.String(), "run finished") {
		t.Fatalf("expected debug trace, got %q", logs.String())
	}

	logs.Reset()
	quiet := NewSession(SessionOptions{Stdout: &bytes.Buffer{}, Reporter: &diag.Collector{}, Logger: NewLogger(&logs, "")})
	quiet.Run("print 1;")
	if logs.Len() != 0 {
		t.Fatalf("expected no output at default level, got %q", logs.String())
	}
}
