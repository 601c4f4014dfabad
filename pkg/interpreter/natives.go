package interpreter

import (
	"time"

	"lox/interpreter-go/pkg/runtime"
)

// DefineNative binds a host function in the global environment.
func (i *Interpreter) DefineNative(name string, arity int, impl runtime.NativeFunc) {
	i.global.Define(name, &runtime.NativeFunctionValue{Name: name, Params: arity, Impl: impl})
}

func (i *Interpreter) defineNatives() {
	i.DefineNative("clock", 0, func(args []runtime.Value) (runtime.Value, error) {
		now := time.Now()
		return runtime.NumberValue{Val: float64(now.UnixNano()) / float64(time.Second)}, nil
	})
}
