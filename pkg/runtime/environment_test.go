package runtime

import (
	"errors"
	"testing"
)

func TestEnvironmentDefineAndGet(t *testing.T) {
	env := NewEnvironment(nil)
	env.Define("a", NumberValue{Val: 1})
	env.Define("a", NumberValue{Val: 2})

	val, err := env.Get("a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := val.(NumberValue).Val; got != 2 {
		t.Fatalf("expected redefinition to win, got %v", got)
	}
}

func TestEnvironmentGetUndefined(t *testing.T) {
	env := NewEnvironment(nil)
	_, err := env.Get("missing")
	var undef *UndefinedVariableError
	if !errors.As(err, &undef) {
		t.Fatalf("expected UndefinedVariableError, got %#v", err)
	}
	if err.Error() != "Undefined variable 'missing'." {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestEnvironmentAssignRequiresBinding(t *testing.T) {
	env := NewEnvironment(nil)
	if err := env.Assign("x", NilValue{}); err == nil {
		t.Fatalf("expected assignment to an unbound name to fail")
	}
	env.Define("x", NilValue{})
	if err := env.Assign("x", BoolValue{Val: true}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, _ := env.Get("x")
	if !IsTruthy(val) {
		t.Fatalf("expected assigned value, got %#v", val)
	}
}

func TestEnvironmentAtDepth(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("a", StringValue{Val: "global"})
	middle := global.Extend()
	middle.Define("a", StringValue{Val: "middle"})
	inner := middle.Extend()

	val, err := inner.GetAt(1, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := val.(StringValue).Val; got != "middle" {
		t.Fatalf("expected middle binding, got %q", got)
	}
	val, err = inner.GetAt(2, "a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := val.(StringValue).Val; got != "global" {
		t.Fatalf("expected global binding, got %q", got)
	}

	if err := inner.AssignAt(2, "a", StringValue{Val: "changed"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, _ = global.Get("a")
	if got := val.(StringValue).Val; got != "changed" {
		t.Fatalf("expected assignment through depth, got %q", got)
	}
	if _, err := inner.GetAt(0, "a"); err == nil {
		t.Fatalf("expected depth 0 lookup to miss")
	}
	if _, err := inner.GetAt(5, "a"); err == nil {
		t.Fatalf("expected error for depth beyond chain")
	}
}

func TestEnvironmentExtendSharesParentFrame(t *testing.T) {
	global := NewEnvironment(nil)
	global.Define("b", NumberValue{Val: 3})
	child := global.Extend()
	sibling := global.Extend()

	if err := child.AssignAt(1, "b", NumberValue{Val: 4}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	val, err := sibling.GetAt(1, "b")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := val.(NumberValue).Val; got != 4 {
		t.Fatalf("expected sibling to observe shared frame, got %v", got)
	}
	child.Define("c", NilValue{})
	if _, err := sibling.Get("c"); err == nil {
		t.Fatalf("child bindings must not leak into siblings")
	}
}
