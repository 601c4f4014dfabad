package interpreter

import (
	"fmt"
	"io"
	"os"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

// maxCallDepth bounds nested Lox calls so runaway recursion surfaces as a
// runtime error instead of exhausting the Go stack.
const maxCallDepth = 16384

// Interpreter drives evaluation of Lox statements against a global
// environment that persists across Interpret calls.
type Interpreter struct {
	global *runtime.Environment
	locals map[ast.NodeID]int
	stdout io.Writer
	depth  int
}

// New returns an interpreter whose print statements write to stdout. A nil
// writer means os.Stdout.
func New(stdout io.Writer) *Interpreter {
	if stdout == nil {
		stdout = os.Stdout
	}
	i := &Interpreter{
		global: runtime.NewEnvironment(nil),
		locals: make(map[ast.NodeID]int),
		stdout: stdout,
	}
	i.defineNatives()
	return i
}

// GlobalEnvironment returns the interpreter's global environment.
func (i *Interpreter) GlobalEnvironment() *runtime.Environment {
	return i.global
}

// SetOutput redirects print statements.
func (i *Interpreter) SetOutput(w io.Writer) {
	i.stdout = w
}

// Resolve merges scope distances computed ahead of execution. Entries from
// earlier programs are kept so closures created by them stay resolvable.
func (i *Interpreter) Resolve(locals map[ast.NodeID]int) {
	for id, depth := range locals {
		i.locals[id] = depth
	}
}

// Interpret executes program statements in order. The first runtime error
// stops execution and is returned as a *RuntimeError; bindings made before it
// remain in the global environment.
func (i *Interpreter) Interpret(program []ast.Stmt) error {
	i.depth = 0
	for _, stmt := range program {
		if err := i.evaluateStatement(stmt, i.global); err != nil {
			if _, ok := err.(returnSignal); ok {
				return fmt.Errorf("return outside function")
			}
			return err
		}
	}
	return nil
}

// Evaluate computes a single expression in the global environment.
func (i *Interpreter) Evaluate(expr ast.Expr) (runtime.Value, error) {
	return i.evaluateExpression(expr, i.global)
}

func (i *Interpreter) evaluateStatement(node ast.Stmt, env *runtime.Environment) error {
	switch n := node.(type) {
	case *ast.Expression:
		_, err := i.evaluateExpression(n.Expression, env)
		return err
	case *ast.Print:
		return i.evaluatePrintStatement(n, env)
	case *ast.Var:
		return i.evaluateVarStatement(n, env)
	case *ast.Block:
		return i.evaluateBlock(n.Statements, env.Extend())
	case *ast.If:
		return i.evaluateIfStatement(n, env)
	case *ast.While:
		return i.evaluateWhileLoop(n, env)
	case *ast.Function:
		return i.evaluateFunctionDeclaration(n, env)
	case *ast.Return:
		return i.evaluateReturnStatement(n, env)
	case nil:
		return nil
	default:
		return fmt.Errorf("unsupported statement type: %s", n.NodeType())
	}
}

func (i *Interpreter) evaluateExpression(node ast.Expr, env *runtime.Environment) (runtime.Value, error) {
	switch n := node.(type) {
	case *ast.Literal:
		return runtime.FromLiteral(n.Value)
	case *ast.Grouping:
		return i.evaluateExpression(n.Inner, env)
	case *ast.Unary:
		return i.evaluateUnaryExpression(n, env)
	case *ast.Binary:
		return i.evaluateBinaryExpression(n, env)
	case *ast.Logical:
		return i.evaluateLogicalExpression(n, env)
	case *ast.Variable:
		return i.lookupVariable(n, env)
	case *ast.Assign:
		return i.evaluateAssignment(n, env)
	case *ast.Call:
		return i.evaluateFunctionCall(n, env)
	default:
		return nil, fmt.Errorf("unsupported expression type: %T", node)
	}
}

// returnSignal carries a return value out to the nearest call boundary.
type returnSignal struct {
	value runtime.Value
}

func (r returnSignal) Error() string {
	return "return outside function"
}
