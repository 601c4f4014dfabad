package runtime

import (
	"math"
	"strconv"
)

// IsTruthy reports whether val counts as true: everything except nil and false.
func IsTruthy(val Value) bool {
	switch v := val.(type) {
	case nil:
		return false
	case NilValue:
		return false
	case BoolValue:
		return v.Val
	default:
		return true
	}
}

// ValuesEqual compares two values. Values of different kinds are never equal;
// functions compare by identity.
func ValuesEqual(left, right Value) bool {
	switch lv := left.(type) {
	case NilValue:
		_, ok := right.(NilValue)
		return ok
	case BoolValue:
		if rv, ok := right.(BoolValue); ok {
			return lv.Val == rv.Val
		}
	case NumberValue:
		if rv, ok := right.(NumberValue); ok {
			return lv.Val == rv.Val
		}
	case StringValue:
		if rv, ok := right.(StringValue); ok {
			return lv.Val == rv.Val
		}
	case *FunctionValue:
		if rv, ok := right.(*FunctionValue); ok {
			return lv == rv
		}
	case *NativeFunctionValue:
		if rv, ok := right.(*NativeFunctionValue); ok {
			return lv == rv
		}
	}
	return false
}

// Stringify renders a value the way `print` shows it.
func Stringify(val Value) string {
	switch v := val.(type) {
	case nil, NilValue:
		return "nil"
	case BoolValue:
		if v.Val {
			return "true"
		}
		return "false"
	case NumberValue:
		return FormatNumber(v.Val)
	case StringValue:
		return v.Val
	case *FunctionValue:
		return "<fn " + v.Name() + ">"
	case *NativeFunctionValue:
		return "<native fn>"
	default:
		return "[" + val.Kind().String() + "]"
	}
}

// FormatNumber drops the fractional part of integral values and otherwise
// uses the shortest decimal form that round-trips.
func FormatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}
