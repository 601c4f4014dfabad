package ast

import (
	"sync/atomic"

	"lox/interpreter-go/pkg/token"
)

type NodeType string

const (
	NodeLiteral    NodeType = "Literal"
	NodeGrouping   NodeType = "Grouping"
	NodeUnary      NodeType = "Unary"
	NodeBinary     NodeType = "Binary"
	NodeLogical    NodeType = "Logical"
	NodeAssign     NodeType = "Assign"
	NodeVariable   NodeType = "Variable"
	NodeCall       NodeType = "Call"
	NodeExpression NodeType = "Expression"
	NodePrint      NodeType = "Print"
	NodeVar        NodeType = "Var"
	NodeBlock      NodeType = "Block"
	NodeIf         NodeType = "If"
	NodeWhile      NodeType = "While"
	NodeFunction   NodeType = "Function"
	NodeReturn     NodeType = "Return"
)

// NodeID is the stable identity of a node. Two nodes with the same shape
// still carry different IDs, so side tables can be keyed by it.
type NodeID int64

// IDs hands out node identities. One allocator should back every program
// evaluated by the same interpreter so identities never collide.
type IDs struct {
	last atomic.Int64
}

// Next returns a fresh identity. The zero NodeID is never returned.
func (g *IDs) Next() NodeID {
	return NodeID(g.last.Add(1))
}

// DefaultIDs backs the builder helpers and parsers created without an allocator.
var DefaultIDs = &IDs{}

type Node interface {
	NodeType() NodeType
	ID() NodeID
	isNode()
}

type nodeImpl struct {
	Type NodeType `json:"type"`
	id   NodeID
}

func newNodeImpl(kind NodeType, id NodeID) nodeImpl {
	return nodeImpl{Type: kind, id: id}
}

func (n nodeImpl) NodeType() NodeType { return n.Type }
func (n nodeImpl) ID() NodeID         { return n.id }
func (nodeImpl) isNode()              {}

// Marker interfaces.

type Expr interface {
	Node
	exprNode()
}

type exprMarker struct{}

func (exprMarker) exprNode() {}

type Stmt interface {
	Node
	stmtNode()
}

type stmtMarker struct{}

func (stmtMarker) stmtNode() {}

// Expressions

// Literal holds nil, a bool, a float64 or a string.
type Literal struct {
	nodeImpl
	exprMarker

	Value any `json:"value"`
}

func NewLiteral(id NodeID, value any) *Literal {
	return &Literal{nodeImpl: newNodeImpl(NodeLiteral, id), Value: value}
}

type Grouping struct {
	nodeImpl
	exprMarker

	Inner Expr `json:"inner"`
}

func NewGrouping(id NodeID, inner Expr) *Grouping {
	return &Grouping{nodeImpl: newNodeImpl(NodeGrouping, id), Inner: inner}
}

type Unary struct {
	nodeImpl
	exprMarker

	Operator token.Token `json:"operator"`
	Operand  Expr        `json:"operand"`
}

func NewUnary(id NodeID, operator token.Token, operand Expr) *Unary {
	return &Unary{nodeImpl: newNodeImpl(NodeUnary, id), Operator: operator, Operand: operand}
}

type Binary struct {
	nodeImpl
	exprMarker

	Left     Expr        `json:"left"`
	Operator token.Token `json:"operator"`
	Right    Expr        `json:"right"`
}

func NewBinary(id NodeID, left Expr, operator token.Token, right Expr) *Binary {
	return &Binary{nodeImpl: newNodeImpl(NodeBinary, id), Left: left, Operator: operator, Right: right}
}

// Logical is a short-circuiting `and` / `or`.
type Logical struct {
	nodeImpl
	exprMarker

	Left     Expr        `json:"left"`
	Operator token.Token `json:"operator"`
	Right    Expr        `json:"right"`
}

func NewLogical(id NodeID, left Expr, operator token.Token, right Expr) *Logical {
	return &Logical{nodeImpl: newNodeImpl(NodeLogical, id), Left: left, Operator: operator, Right: right}
}

type Assign struct {
	nodeImpl
	exprMarker

	Name  token.Token `json:"name"`
	Value Expr        `json:"value"`
}

func NewAssign(id NodeID, name token.Token, value Expr) *Assign {
	return &Assign{nodeImpl: newNodeImpl(NodeAssign, id), Name: name, Value: value}
}

type Variable struct {
	nodeImpl
	exprMarker

	Name token.Token `json:"name"`
}

func NewVariable(id NodeID, name token.Token) *Variable {
	return &Variable{nodeImpl: newNodeImpl(NodeVariable, id), Name: name}
}

// Call keeps the closing paren token for error locations.
type Call struct {
	nodeImpl
	exprMarker

	Callee    Expr        `json:"callee"`
	Paren     token.Token `json:"paren"`
	Arguments []Expr      `json:"arguments"`
}

func NewCall(id NodeID, callee Expr, paren token.Token, arguments []Expr) *Call {
	return &Call{nodeImpl: newNodeImpl(NodeCall, id), Callee: callee, Paren: paren, Arguments: arguments}
}

// Statements

type Expression struct {
	nodeImpl
	stmtMarker

	Expression Expr `json:"expression"`
}

func NewExpression(id NodeID, expr Expr) *Expression {
	return &Expression{nodeImpl: newNodeImpl(NodeExpression, id), Expression: expr}
}

type Print struct {
	nodeImpl
	stmtMarker

	Expression Expr `json:"expression"`
}

func NewPrint(id NodeID, expr Expr) *Print {
	return &Print{nodeImpl: newNodeImpl(NodePrint, id), Expression: expr}
}

// Var declares Name; a nil Initializer binds nil.
type Var struct {
	nodeImpl
	stmtMarker

	Name        token.Token `json:"name"`
	Initializer Expr        `json:"initializer,omitempty"`
}

func NewVar(id NodeID, name token.Token, initializer Expr) *Var {
	return &Var{nodeImpl: newNodeImpl(NodeVar, id), Name: name, Initializer: initializer}
}

type Block struct {
	nodeImpl
	stmtMarker

	Statements []Stmt `json:"statements"`
}

func NewBlock(id NodeID, statements []Stmt) *Block {
	return &Block{nodeImpl: newNodeImpl(NodeBlock, id), Statements: statements}
}

type If struct {
	nodeImpl
	stmtMarker

	Condition  Expr `json:"condition"`
	ThenBranch Stmt `json:"thenBranch"`
	ElseBranch Stmt `json:"elseBranch,omitempty"`
}

func NewIf(id NodeID, condition Expr, thenBranch, elseBranch Stmt) *If {
	return &If{nodeImpl: newNodeImpl(NodeIf, id), Condition: condition, ThenBranch: thenBranch, ElseBranch: elseBranch}
}

type While struct {
	nodeImpl
	stmtMarker

	Condition Expr `json:"condition"`
	Body      Stmt `json:"body"`
}

func NewWhile(id NodeID, condition Expr, body Stmt) *While {
	return &While{nodeImpl: newNodeImpl(NodeWhile, id), Condition: condition, Body: body}
}

type Function struct {
	nodeImpl
	stmtMarker

	Name   token.Token   `json:"name"`
	Params []token.Token `json:"params"`
	Body   []Stmt        `json:"body"`
}

func NewFunction(id NodeID, name token.Token, params []token.Token, body []Stmt) *Function {
	return &Function{nodeImpl: newNodeImpl(NodeFunction, id), Name: name, Params: params, Body: body}
}

type Return struct {
	nodeImpl
	stmtMarker

	Keyword token.Token `json:"keyword"`
	Value   Expr        `json:"value,omitempty"`
}

func NewReturn(id NodeID, keyword token.Token, value Expr) *Return {
	return &Return{nodeImpl: newNodeImpl(NodeReturn, id), Keyword: keyword, Value: value}
}
