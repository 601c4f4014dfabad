package ast

import "lox/interpreter-go/pkg/token"

// Builder helpers used by tests and tools that assemble trees by hand. They
// draw identities from DefaultIDs and place every token on line 1.

var operatorKinds = map[string]token.Kind{
	"-":   token.Minus,
	"+":   token.Plus,
	"/":   token.Slash,
	"*":   token.Star,
	"!":   token.Bang,
	"!=":  token.BangEqual,
	"=":   token.Equal,
	"==":  token.EqualEqual,
	">":   token.Greater,
	">=":  token.GreaterEqual,
	"<":   token.Less,
	"<=":  token.LessEqual,
	"and": token.And,
	"or":  token.Or,
}

// Op builds an operator token from its lexeme. Unknown lexemes panic.
func Op(lexeme string) token.Token {
	kind, ok := operatorKinds[lexeme]
	if !ok {
		panic("ast: unknown operator " + lexeme)
	}
	return token.New(kind, lexeme, nil, 1)
}

// Name builds an identifier token.
func Name(name string) token.Token {
	return token.New(token.Identifier, name, nil, 1)
}

// Literal helpers.

func Num(value float64) *Literal {
	return NewLiteral(DefaultIDs.Next(), value)
}

func Str(value string) *Literal {
	return NewLiteral(DefaultIDs.Next(), value)
}

func Bool(value bool) *Literal {
	return NewLiteral(DefaultIDs.Next(), value)
}

func Nil() *Literal {
	return NewLiteral(DefaultIDs.Next(), nil)
}

// Expression helpers.

func Group(inner Expr) *Grouping {
	return NewGrouping(DefaultIDs.Next(), inner)
}

func Un(op string, operand Expr) *Unary {
	return NewUnary(DefaultIDs.Next(), Op(op), operand)
}

func Bin(op string, left, right Expr) *Binary {
	return NewBinary(DefaultIDs.Next(), left, Op(op), right)
}

func Logic(op string, left, right Expr) *Logical {
	return NewLogical(DefaultIDs.Next(), left, Op(op), right)
}

func ID(name string) *Variable {
	return NewVariable(DefaultIDs.Next(), Name(name))
}

func Set(name string, value Expr) *Assign {
	return NewAssign(DefaultIDs.Next(), Name(name), value)
}

func CallExpr(callee Expr, args ...Expr) *Call {
	return NewCall(DefaultIDs.Next(), callee, token.New(token.RightParen, ")", nil, 1), args)
}

// Statement helpers.

func ExprStmt(expr Expr) *Expression {
	return NewExpression(DefaultIDs.Next(), expr)
}

func Say(expr Expr) *Print {
	return NewPrint(DefaultIDs.Next(), expr)
}

func Let(name string, initializer Expr) *Var {
	return NewVar(DefaultIDs.Next(), Name(name), initializer)
}

func Blk(statements ...Stmt) *Block {
	return NewBlock(DefaultIDs.Next(), statements)
}

func IfElse(cond Expr, then, els Stmt) *If {
	return NewIf(DefaultIDs.Next(), cond, then, els)
}

func Loop(cond Expr, body Stmt) *While {
	return NewWhile(DefaultIDs.Next(), cond, body)
}

func Fn(name string, params []string, body ...Stmt) *Function {
	tokens := make([]token.Token, len(params))
	for i, p := range params {
		tokens[i] = Name(p)
	}
	return NewFunction(DefaultIDs.Next(), Name(name), tokens, body)
}

func Ret(value Expr) *Return {
	return NewReturn(DefaultIDs.Next(), token.New(token.Return, "return", nil, 1), value)
}

// Prog collects statements into a program slice.
func Prog(statements ...Stmt) []Stmt {
	return statements
}
