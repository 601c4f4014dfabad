package interpreter

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
)

func (i *Interpreter) evaluatePrintStatement(stmt *ast.Print, env *runtime.Environment) error {
	val, err := i.evaluateExpression(stmt.Expression, env)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintln(i.stdout, runtime.Stringify(val)); err != nil {
		return fmt.Errorf("print: %w", err)
	}
	return nil
}

func (i *Interpreter) evaluateVarStatement(stmt *ast.Var, env *runtime.Environment) error {
	var value runtime.Value = runtime.NilValue{}
	if stmt.Initializer != nil {
		val, err := i.evaluateExpression(stmt.Initializer, env)
		if err != nil {
			return err
		}
		value = val
	}
	env.Define(stmt.Name.Lexeme, value)
	return nil
}

// evaluateBlock runs statements inside scope. The caller's frame is untouched,
// so it is back in effect however the block exits.
func (i *Interpreter) evaluateBlock(statements []ast.Stmt, scope *runtime.Environment) error {
	for _, stmt := range statements {
		if err := i.evaluateStatement(stmt, scope); err != nil {
			return err
		}
	}
	return nil
}

func (i *Interpreter) evaluateIfStatement(stmt *ast.If, env *runtime.Environment) error {
	cond, err := i.evaluateExpression(stmt.Condition, env)
	if err != nil {
		return err
	}
	if runtime.IsTruthy(cond) {
		return i.evaluateStatement(stmt.ThenBranch, env)
	}
	if stmt.ElseBranch != nil {
		return i.evaluateStatement(stmt.ElseBranch, env)
	}
	return nil
}

func (i *Interpreter) evaluateWhileLoop(loop *ast.While, env *runtime.Environment) error {
	for {
		cond, err := i.evaluateExpression(loop.Condition, env)
		if err != nil {
			return err
		}
		if !runtime.IsTruthy(cond) {
			return nil
		}
		if err := i.evaluateStatement(loop.Body, env); err != nil {
			return err
		}
	}
}

func (i *Interpreter) evaluateFunctionDeclaration(def *ast.Function, env *runtime.Environment) error {
	env.Define(def.Name.Lexeme, &runtime.FunctionValue{Declaration: def, Closure: env})
	return nil
}

func (i *Interpreter) evaluateReturnStatement(stmt *ast.Return, env *runtime.Environment) error {
	var result runtime.Value = runtime.NilValue{}
	if stmt.Value != nil {
		val, err := i.evaluateExpression(stmt.Value, env)
		if err != nil {
			return err
		}
		result = val
	}
	return returnSignal{value: result}
}
