// Package resolver computes, ahead of execution, how many scopes separate each
// local variable reference from its declaration.
package resolver

import (
	"fmt"

	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

// Resolution maps Variable and Assign node identities to hop counts. Names
// without an entry live in the global frame.
type Resolution map[ast.NodeID]int

// Depth returns the hop count recorded for a node.
func (r Resolution) Depth(id ast.NodeID) (int, bool) {
	d, ok := r[id]
	return d, ok
}

type functionKind int

const (
	functionNone functionKind = iota
	functionPlain
)

// Options tune a Resolver.
type Options struct {
	// KnownGlobal reports names already bound in the global frame before this
	// program runs (earlier REPL lines). It may be nil.
	KnownGlobal func(name string) bool
}

// Resolver walks a program and records diagnostics.
type Resolver struct {
	opts       Options
	scopes     scopeStack
	locals     Resolution
	diags      diag.List
	function   functionKind
	globals    map[string]bool
	initGlobal string
}

// New returns a resolver instance.
func New(opts Options) *Resolver {
	return &Resolver{opts: opts}
}

// Resolve is a convenience wrapper around New(Options{}).Resolve(program).
func Resolve(program []ast.Stmt) (Resolution, diag.List) {
	return New(Options{}).Resolve(program)
}

// Resolve walks program. Every problem found is reported; the walk never
// stops early.
func (r *Resolver) Resolve(program []ast.Stmt) (Resolution, diag.List) {
	r.scopes = nil
	r.locals = make(Resolution)
	r.diags = nil
	r.function = functionNone
	r.globals = make(map[string]bool)
	r.initGlobal = ""

	r.resolveStatements(program)
	return r.locals, r.diags
}

func (r *Resolver) resolveStatements(statements []ast.Stmt) {
	for _, stmt := range statements {
		r.resolveStatement(stmt)
	}
}

func (r *Resolver) resolveStatement(node ast.Stmt) {
	switch n := node.(type) {
	case *ast.Expression:
		r.resolveExpression(n.Expression)
	case *ast.Print:
		r.resolveExpression(n.Expression)
	case *ast.Var:
		r.declare(n.Name)
		if n.Initializer != nil {
			if r.scopes.empty() {
				r.initGlobal = n.Name.Lexeme
			}
			r.resolveExpression(n.Initializer)
			r.initGlobal = ""
		}
		r.define(n.Name)
	case *ast.Block:
		r.scopes.push()
		r.resolveStatements(n.Statements)
		r.scopes.pop()
	case *ast.If:
		r.resolveExpression(n.Condition)
		r.resolveStatement(n.ThenBranch)
		if n.ElseBranch != nil {
			r.resolveStatement(n.ElseBranch)
		}
	case *ast.While:
		r.resolveExpression(n.Condition)
		r.resolveStatement(n.Body)
	case *ast.Function:
		// Defined before the body so the function can call itself.
		r.declare(n.Name)
		r.define(n.Name)
		r.resolveFunction(n, functionPlain)
	case *ast.Return:
		if r.function == functionNone {
			r.error(n.Keyword, "Can't return from top-level code.")
		}
		if n.Value != nil {
			r.resolveExpression(n.Value)
		}
	case nil:
	default:
		panic(fmt.Sprintf("resolver: unsupported statement type %s", n.NodeType()))
	}
}

func (r *Resolver) resolveExpression(node ast.Expr) {
	switch n := node.(type) {
	case *ast.Literal:
	case *ast.Grouping:
		r.resolveExpression(n.Inner)
	case *ast.Unary:
		r.resolveExpression(n.Operand)
	case *ast.Binary:
		r.resolveExpression(n.Left)
		r.resolveExpression(n.Right)
	case *ast.Logical:
		r.resolveExpression(n.Left)
		r.resolveExpression(n.Right)
	case *ast.Call:
		r.resolveExpression(n.Callee)
		for _, arg := range n.Arguments {
			r.resolveExpression(arg)
		}
	case *ast.Variable:
		r.checkSelfReference(n.Name)
		r.resolveLocal(n, n.Name)
	case *ast.Assign:
		r.resolveExpression(n.Value)
		r.resolveLocal(n, n.Name)
	case nil:
	default:
		panic(fmt.Sprintf("resolver: unsupported expression type %s", n.NodeType()))
	}
}

func (r *Resolver) resolveFunction(fn *ast.Function, kind functionKind) {
	enclosing := r.function
	enclosingInit := r.initGlobal
	r.function = kind
	r.initGlobal = ""
	defer func() {
		r.function = enclosing
		r.initGlobal = enclosingInit
	}()

	r.scopes.push()
	for _, param := range fn.Params {
		r.declare(param)
		r.define(param)
	}
	r.resolveStatements(fn.Body)
	r.scopes.pop()
}

// checkSelfReference rejects reading a variable inside its own initializer.
func (r *Resolver) checkSelfReference(name token.Token) {
	if !r.scopes.empty() {
		if defined, ok := r.scopes.innermost()[name.Lexeme]; ok && !defined {
			r.error(name, "Can't read local variable in its own initializer.")
		}
		return
	}
	if r.initGlobal == "" || r.initGlobal != name.Lexeme || r.globals[name.Lexeme] {
		return
	}
	if r.opts.KnownGlobal != nil && r.opts.KnownGlobal(name.Lexeme) {
		return
	}
	r.error(name, "Can't read global variable in its own initializer.")
}

func (r *Resolver) resolveLocal(node ast.Expr, name token.Token) {
	if depth, ok := r.scopes.distance(name.Lexeme); ok {
		r.locals[node.ID()] = depth
	}
}

func (r *Resolver) declare(name token.Token) {
	if r.scopes.empty() {
		return
	}
	r.scopes.innermost()[name.Lexeme] = false
}

func (r *Resolver) define(name token.Token) {
	if r.scopes.empty() {
		r.globals[name.Lexeme] = true
		return
	}
	r.scopes.innermost()[name.Lexeme] = true
}

func (r *Resolver) error(tok token.Token, message string) {
	r.diags.Add(diag.At(diag.StageResolve, tok, message))
}
