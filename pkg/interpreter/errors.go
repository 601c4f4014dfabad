package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

// RuntimeError is the single error kind raised while executing a program.
// Token attributes it to a source line.
type RuntimeError struct {
	Token   token.Token
	Message string
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("%s\n[line %d]", e.Message, e.Token.Line)
}

// Diagnostic converts the error for a diag.Reporter.
func (e *RuntimeError) Diagnostic() diag.Diagnostic {
	return diag.Runtime(e.Token, e.Message)
}

func runtimeError(tok token.Token, format string, args ...any) *RuntimeError {
	return &RuntimeError{Token: tok, Message: fmt.Sprintf(format, args...)}
}
