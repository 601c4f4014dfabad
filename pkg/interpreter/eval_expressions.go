package interpreter

import (
	"errors"
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/runtime"
	"lox/interpreter-go/pkg/token"
)

func (i *Interpreter) evaluateUnaryExpression(expr *ast.Unary, env *runtime.Environment) (runtime.Value, error) {
	operand, err := i.evaluateExpression(expr.Operand, env)
	if err != nil {
		return nil, err
	}
	switch expr.Operator.Kind {
	case token.Minus:
		num, ok := operand.(runtime.NumberValue)
		if !ok {
			return nil, runtimeError(expr.Operator, "Operand must be a number.")
		}
		return runtime.NumberValue{Val: -num.Val}, nil
	case token.Bang:
		return runtime.BoolValue{Val: !runtime.IsTruthy(operand)}, nil
	default:
		return nil, fmt.Errorf("unsupported unary operator %s", expr.Operator.Lexeme)
	}
}

func (i *Interpreter) evaluateBinaryExpression(expr *ast.Binary, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	right, err := i.evaluateExpression(expr.Right, env)
	if err != nil {
		return nil, err
	}

	switch expr.Operator.Kind {
	case token.EqualEqual:
		return runtime.BoolValue{Val: runtime.ValuesEqual(left, right)}, nil
	case token.BangEqual:
		return runtime.BoolValue{Val: !runtime.ValuesEqual(left, right)}, nil
	case token.Plus:
		if ls, ok := left.(runtime.StringValue); ok {
			if rs, ok := right.(runtime.StringValue); ok {
				return runtime.StringValue{Val: ls.Val + rs.Val}, nil
			}
		}
		l, r, ok := numberOperands(left, right)
		if !ok {
			return nil, runtimeError(expr.Operator, "Operands must be two numbers or two strings.")
		}
		return runtime.NumberValue{Val: l + r}, nil
	}

	l, r, ok := numberOperands(left, right)
	if !ok {
		return nil, runtimeError(expr.Operator, "Operands must be numbers.")
	}
	return evaluateArithmetic(expr.Operator, l, r)
}

func numberOperands(left, right runtime.Value) (float64, float64, bool) {
	l, lok := left.(runtime.NumberValue)
	r, rok := right.(runtime.NumberValue)
	if !lok || !rok {
		return 0, 0, false
	}
	return l.Val, r.Val, true
}

// evaluateArithmetic handles the number-only operators. Division by zero
// follows IEEE-754.
func evaluateArithmetic(op token.Token, l, r float64) (runtime.Value, error) {
	switch op.Kind {
	case token.Minus:
		return runtime.NumberValue{Val: l - r}, nil
	case token.Star:
		return runtime.NumberValue{Val: l * r}, nil
	case token.Slash:
		return runtime.NumberValue{Val: l / r}, nil
	case token.Greater:
		return runtime.BoolValue{Val: l > r}, nil
	case token.GreaterEqual:
		return runtime.BoolValue{Val: l >= r}, nil
	case token.Less:
		return runtime.BoolValue{Val: l < r}, nil
	case token.LessEqual:
		return runtime.BoolValue{Val: l <= r}, nil
	default:
		return nil, fmt.Errorf("unsupported binary operator %s", op.Lexeme)
	}
}

// evaluateLogicalExpression yields whichever operand decided the result.
func (i *Interpreter) evaluateLogicalExpression(expr *ast.Logical, env *runtime.Environment) (runtime.Value, error) {
	left, err := i.evaluateExpression(expr.Left, env)
	if err != nil {
		return nil, err
	}
	if expr.Operator.Kind == token.Or {
		if runtime.IsTruthy(left) {
			return left, nil
		}
	} else if !runtime.IsTruthy(left) {
		return left, nil
	}
	return i.evaluateExpression(expr.Right, env)
}

func (i *Interpreter) lookupVariable(expr *ast.Variable, env *runtime.Environment) (runtime.Value, error) {
	var (
		val runtime.Value
		err error
	)
	if depth, ok := i.locals[expr.ID()]; ok {
		val, err = env.GetAt(depth, expr.Name.Lexeme)
	} else {
		val, err = i.global.Get(expr.Name.Lexeme)
	}
	if err != nil {
		return nil, bindingError(expr.Name, err)
	}
	return val, nil
}

func (i *Interpreter) evaluateAssignment(expr *ast.Assign, env *runtime.Environment) (runtime.Value, error) {
	value, err := i.evaluateExpression(expr.Value, env)
	if err != nil {
		return nil, err
	}
	if depth, ok := i.locals[expr.ID()]; ok {
		err = env.AssignAt(depth, expr.Name.Lexeme, value)
	} else {
		err = i.global.Assign(expr.Name.Lexeme, value)
	}
	if err != nil {
		return nil, bindingError(expr.Name, err)
	}
	return value, nil
}

func bindingError(name token.Token, err error) error {
	var undef *runtime.UndefinedVariableError
	if errors.As(err, &undef) {
		return runtimeError(name, "%s", undef.Error())
	}
	return runtimeError(name, "%s", err.Error())
}

func (i *Interpreter) evaluateFunctionCall(call *ast.Call, env *runtime.Environment) (runtime.Value, error) {
	calleeVal, err := i.evaluateExpression(call.Callee, env)
	if err != nil {
		return nil, err
	}
	args := make([]runtime.Value, 0, len(call.Arguments))
	for _, argExpr := range call.Arguments {
		val, err := i.evaluateExpression(argExpr, env)
		if err != nil {
			return nil, err
		}
		args = append(args, val)
	}

	callee, ok := calleeVal.(runtime.Callable)
	if !ok {
		return nil, runtimeError(call.Paren, "Can only call functions and classes.")
	}
	if len(args) != callee.Arity() {
		return nil, runtimeError(call.Paren, "Expected %d arguments but got %d.", callee.Arity(), len(args))
	}

	switch fn := callee.(type) {
	case *runtime.FunctionValue:
		if i.depth >= maxCallDepth {
			return nil, runtimeError(call.Paren, "Stack overflow.")
		}
		i.depth++
		defer func() { i.depth-- }()
		return i.invokeFunction(fn, args)
	case *runtime.NativeFunctionValue:
		result, err := fn.Impl(args)
		if err != nil {
			return nil, runtimeError(call.Paren, "%s", err.Error())
		}
		if result == nil {
			return runtime.NilValue{}, nil
		}
		return result, nil
	default:
		return nil, runtimeError(call.Paren, "Can only call functions and classes.")
	}
}

// invokeFunction binds args in a fresh frame under the closure and runs the
// body. A return unwinds only to here.
func (i *Interpreter) invokeFunction(fn *runtime.FunctionValue, args []runtime.Value) (runtime.Value, error) {
	scope := fn.Closure.Extend()
	for idx, param := range fn.Declaration.Params {
		scope.Define(param.Lexeme, args[idx])
	}
	if err := i.evaluateBlock(fn.Declaration.Body, scope); err != nil {
		if ret, ok := err.(returnSignal); ok {
			return ret.value, nil
		}
		return nil, err
	}
	return runtime.NilValue{}, nil
}
