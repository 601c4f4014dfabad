package parser

import (
	"lox/interpreter-go/pkg/ast"
	"lox/interpreter-go/pkg/diag"
	"lox/interpreter-go/pkg/token"
)

const maxArity = 255

// Parser is a recursive-descent parser with one token of lookahead.
type Parser struct {
	tokens  []token.Token
	current int
	ids     *ast.IDs
	diags   diag.List
}

// New prepares a parser over tokens, which must end with an EOF token. Node
// identities are drawn from ids (ast.DefaultIDs when nil).
func New(tokens []token.Token, ids *ast.IDs) *Parser {
	if ids == nil {
		ids = ast.DefaultIDs
	}
	if len(tokens) == 0 || tokens[len(tokens)-1].Kind != token.EOF {
		line := 1
		if len(tokens) > 0 {
			line = tokens[len(tokens)-1].Line
		}
		tokens = append(tokens[:len(tokens):len(tokens)], token.New(token.EOF, "", nil, line))
	}
	return &Parser{tokens: tokens, ids: ids}
}

// Parse is a convenience wrapper around New(tokens, ids).Parse().
func Parse(tokens []token.Token, ids *ast.IDs) ([]ast.Stmt, diag.List) {
	return New(tokens, ids).Parse()
}

// Parse reads declarations until EOF. A statement that fails to parse is
// reported, skipped up to the next statement boundary and left out of the
// program; parsing then resumes.
func (p *Parser) Parse() ([]ast.Stmt, diag.List) {
	var program []ast.Stmt
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			program = append(program, stmt)
		}
	}
	return program, p.diags
}

// parseError unwinds the current declaration; it has already been recorded.
type parseError struct {
	diagnostic diag.Diagnostic
}

func (e parseError) Error() string {
	return e.diagnostic.String()
}

func (p *Parser) nextID() ast.NodeID {
	return p.ids.Next()
}
