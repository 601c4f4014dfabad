package runtime

import "fmt"

// UndefinedVariableError is returned when a name has no binding.
type UndefinedVariableError struct {
	Name string
}

func (e *UndefinedVariableError) Error() string {
	return fmt.Sprintf("Undefined variable '%s'.", e.Name)
}

// Environment provides lexical scoping for Lox runtime values. The parent
// link is fixed at creation; a frame stays alive for as long as any child
// frame or closure still refers to it.
type Environment struct {
	values map[string]Value
	parent *Environment
}

// NewEnvironment creates a new environment, optionally nested under a parent.
func NewEnvironment(parent *Environment) *Environment {
	return &Environment{
		values: make(map[string]Value),
		parent: parent,
	}
}

// Define binds or rebinds a name in the current scope.
func (e *Environment) Define(name string, value Value) {
	e.values[name] = value
}

// Get retrieves a binding from this frame only.
func (e *Environment) Get(name string) (Value, error) {
	if v, ok := e.values[name]; ok {
		return v, nil
	}
	return nil, &UndefinedVariableError{Name: name}
}

// Assign overwrites an existing binding in this frame only.
func (e *Environment) Assign(name string, value Value) error {
	if _, ok := e.values[name]; !ok {
		return &UndefinedVariableError{Name: name}
	}
	e.values[name] = value
	return nil
}

// Ancestor walks exactly hops parent links.
func (e *Environment) Ancestor(hops int) (*Environment, error) {
	env := e
	for i := 0; i < hops; i++ {
		if env.parent == nil {
			return nil, fmt.Errorf("environment: scope depth %d exceeds chain length %d", hops, i)
		}
		env = env.parent
	}
	return env, nil
}

// GetAt reads name from the frame hops levels up.
func (e *Environment) GetAt(hops int, name string) (Value, error) {
	env, err := e.Ancestor(hops)
	if err != nil {
		return nil, err
	}
	return env.Get(name)
}

// AssignAt writes name in the frame hops levels up.
func (e *Environment) AssignAt(hops int, name string, value Value) error {
	env, err := e.Ancestor(hops)
	if err != nil {
		return err
	}
	return env.Assign(name, value)
}

// Extend creates a child scope for a block or call frame.
func (e *Environment) Extend() *Environment {
	return NewEnvironment(e)
}
