// Package parser implements a recursive descent parser for olang.
// Expressions are built with a precedence climb: assignment, logical-or,
// logical-and, equality, relational, additive, multiplicative, unary,
// postfix.
package parser

import (
	"fmt"
	"strconv"

	"github.com/pointertobios/olang-compiler/pkg/ast"
	"github.com/pointertobios/olang-compiler/pkg/lexer"
	"github.com/pointertobios/olang-compiler/pkg/otypes"
)

// Parser parses olang source code into an AST
type Parser struct {
	l         *lexer.Lexer
	curToken  lexer.Token
	peekToken lexer.Token
	errors    []string
}

// New creates a new Parser for the given lexer
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns the list of parsing errors
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) addError(msg string) {
	p.errors = append(p.errors, fmt.Sprintf("line %d, col %d: %s",
		p.curToken.Line, p.curToken.Column, msg))
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool {
	return p.curToken.Type == t
}

func (p *Parser) peekTokenIs(t lexer.TokenType) bool {
	return p.peekToken.Type == t
}

func (p *Parser) expect(t lexer.TokenType) bool {
	if p.curTokenIs(t) {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", t, p.curToken.Type))
	return false
}

// ParseProgram parses a whole source file into a Program.
// Include directives at the top level are skipped; they were inlined
// textually by the preprocessor.
func (p *Parser) ParseProgram() *ast.Program {
	program := &ast.Program{}

	for !p.curTokenIs(lexer.TokenEOF) {
		switch p.curToken.Type {
		case lexer.TokenInclude:
			p.skipInclude()
		case lexer.TokenStruct:
			if decl, ok := p.parseStructDecl(); ok {
				program.Decls = append(program.Decls, decl)
			}
		case lexer.TokenExtern:
			if decl, ok := p.parseExternDecl(); ok {
				program.Decls = append(program.Decls, decl)
			}
		case lexer.TokenExport, lexer.TokenFn:
			if decl, ok := p.parseFunctionDecl(); ok {
				program.Decls = append(program.Decls, decl)
			}
		default:
			p.addError(fmt.Sprintf("unexpected token at top level: %s", p.curToken.Type))
			p.nextToken()
		}
	}

	return program
}

// skipInclude consumes an include directive left unexpanded in the
// token stream.
func (p *Parser) skipInclude() {
	p.nextToken() // consume 'include'
	if p.curTokenIs(lexer.TokenString) {
		p.nextToken()
	}
	if p.curTokenIs(lexer.TokenSemicolon) {
		p.nextToken()
	}
}

func (p *Parser) parseStructDecl() (ast.StructDecl, bool) {
	decl := ast.StructDecl{}
	p.nextToken() // consume 'struct'

	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected struct name, got %s", p.curToken.Type))
		return decl, false
	}
	decl.Name = p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.TokenLBrace) {
		return decl, false
	}

	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		fieldType, ok := p.parseType()
		if !ok {
			return decl, false
		}
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(fmt.Sprintf("expected field name, got %s", p.curToken.Type))
			return decl, false
		}
		fieldName := p.curToken.Literal
		p.nextToken()
		if !p.expect(lexer.TokenSemicolon) {
			return decl, false
		}
		decl.Fields = append(decl.Fields, ast.Field{Type: fieldType, Name: fieldName})
	}

	if !p.expect(lexer.TokenRBrace) {
		return decl, false
	}
	return decl, true
}

func (p *Parser) parseExternDecl() (ast.ExternDecl, bool) {
	decl := ast.ExternDecl{}
	p.nextToken() // consume 'extern'

	if !p.expect(lexer.TokenFn) {
		return decl, false
	}
	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected function name, got %s", p.curToken.Type))
		return decl, false
	}
	decl.Name = p.curToken.Literal
	p.nextToken()

	params, ok := p.parseParamList()
	if !ok {
		return decl, false
	}
	decl.Params = params
	decl.ReturnType = p.parseReturnType()

	if !p.expect(lexer.TokenSemicolon) {
		return decl, false
	}
	return decl, true
}

func (p *Parser) parseFunctionDecl() (ast.FunctionDecl, bool) {
	decl := ast.FunctionDecl{}

	if p.curTokenIs(lexer.TokenExport) {
		decl.Exported = true
		p.nextToken()
	}
	if !p.expect(lexer.TokenFn) {
		return decl, false
	}
	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected function name, got %s", p.curToken.Type))
		return decl, false
	}
	decl.Name = p.curToken.Literal
	p.nextToken()

	params, ok := p.parseParamList()
	if !ok {
		return decl, false
	}
	decl.Params = params
	decl.ReturnType = p.parseReturnType()

	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError(fmt.Sprintf("expected '{', got %s", p.curToken.Type))
		return decl, false
	}
	decl.Body = p.parseBlock()

	return decl, true
}

func (p *Parser) parseParamList() ([]ast.Field, bool) {
	if !p.expect(lexer.TokenLParen) {
		return nil, false
	}

	var params []ast.Field
	for !p.curTokenIs(lexer.TokenRParen) && !p.curTokenIs(lexer.TokenEOF) {
		if len(params) > 0 && !p.expect(lexer.TokenComma) {
			return nil, false
		}
		paramType, ok := p.parseType()
		if !ok {
			return nil, false
		}
		if !p.curTokenIs(lexer.TokenIdent) {
			p.addError(fmt.Sprintf("expected parameter name, got %s", p.curToken.Type))
			return nil, false
		}
		params = append(params, ast.Field{Type: paramType, Name: p.curToken.Literal})
		p.nextToken()
	}

	if !p.expect(lexer.TokenRParen) {
		return nil, false
	}
	return params, true
}

// parseReturnType parses an optional ': type' clause. A function
// without one returns void.
func (p *Parser) parseReturnType() otypes.Type {
	if !p.curTokenIs(lexer.TokenColon) {
		return otypes.Void()
	}
	p.nextToken() // consume ':'
	typ, ok := p.parseType()
	if !ok {
		return otypes.Void()
	}
	return typ
}

// parseType parses a type expression: a basic integer or float kind,
// *T, [N]T, or a declared struct name.
func (p *Parser) parseType() (otypes.Type, bool) {
	switch p.curToken.Type {
	case lexer.TokenI1:
		p.nextToken()
		return otypes.Int(1), true
	case lexer.TokenI8:
		p.nextToken()
		return otypes.Int(8), true
	case lexer.TokenI16:
		p.nextToken()
		return otypes.Int(16), true
	case lexer.TokenI32:
		p.nextToken()
		return otypes.Int(32), true
	case lexer.TokenI64:
		p.nextToken()
		return otypes.Int(64), true
	case lexer.TokenF16:
		p.nextToken()
		return otypes.Float(16), true
	case lexer.TokenF32:
		p.nextToken()
		return otypes.Float(32), true
	case lexer.TokenF64:
		p.nextToken()
		return otypes.Float(64), true
	case lexer.TokenStar:
		p.nextToken() // consume '*'
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return otypes.Pointer(elem), true
	case lexer.TokenLBracket:
		p.nextToken() // consume '['
		if !p.curTokenIs(lexer.TokenInt) {
			p.addError(fmt.Sprintf("expected array length, got %s", p.curToken.Type))
			return nil, false
		}
		length, err := strconv.Atoi(p.curToken.Literal)
		if err != nil || length <= 0 {
			p.addError(fmt.Sprintf("invalid array length %q", p.curToken.Literal))
			return nil, false
		}
		p.nextToken()
		if !p.expect(lexer.TokenRBracket) {
			return nil, false
		}
		elem, ok := p.parseType()
		if !ok {
			return nil, false
		}
		return otypes.Array(elem, length), true
	case lexer.TokenIdent:
		name := p.curToken.Literal
		p.nextToken()
		return otypes.Struct(name), true
	}
	p.addError(fmt.Sprintf("expected type, got %s", p.curToken.Type))
	return nil, false
}

func (p *Parser) parseBlock() []ast.Stmt {
	var stmts []ast.Stmt

	p.nextToken() // consume '{'
	for !p.curTokenIs(lexer.TokenRBrace) && !p.curTokenIs(lexer.TokenEOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.nextToken() // consume '}'

	return stmts
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case lexer.TokenLet:
		return p.parseLetStatement()
	case lexer.TokenReturn:
		return p.parseReturnStatement()
	case lexer.TokenIf:
		return p.parseIfStatement()
	case lexer.TokenWhile:
		return p.parseWhileStatement()
	default:
		return p.parseExpressionStatement()
	}
}

func (p *Parser) parseLetStatement() ast.Stmt {
	p.nextToken() // consume 'let'

	letType, ok := p.parseType()
	if !ok {
		return nil
	}
	if !p.curTokenIs(lexer.TokenIdent) {
		p.addError(fmt.Sprintf("expected variable name, got %s", p.curToken.Type))
		return nil
	}
	name := p.curToken.Literal
	p.nextToken()

	if !p.expect(lexer.TokenAssign) {
		return nil
	}
	value := p.parseExpression()
	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}

	return ast.Let{Type: letType, Name: name, Value: value}
}

func (p *Parser) parseReturnStatement() ast.Stmt {
	p.nextToken() // consume 'return'

	var expr ast.Expr
	if !p.curTokenIs(lexer.TokenSemicolon) {
		expr = p.parseExpression()
	}
	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}

	return ast.Return{Expr: expr}
}

func (p *Parser) parseIfStatement() ast.Stmt {
	p.nextToken() // consume 'if'

	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	cond := p.parseExpression()
	if !p.expect(lexer.TokenRParen) {
		return nil
	}
	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError(fmt.Sprintf("expected '{', got %s", p.curToken.Type))
		return nil
	}
	thenBody := p.parseBlock()

	var elseBody []ast.Stmt
	if p.curTokenIs(lexer.TokenElse) {
		p.nextToken() // consume 'else'
		if !p.curTokenIs(lexer.TokenLBrace) {
			p.addError(fmt.Sprintf("expected '{', got %s", p.curToken.Type))
			return nil
		}
		elseBody = p.parseBlock()
	}

	return ast.If{Cond: cond, Then: thenBody, Else: elseBody}
}

func (p *Parser) parseWhileStatement() ast.Stmt {
	p.nextToken() // consume 'while'

	if !p.expect(lexer.TokenLParen) {
		return nil
	}
	cond := p.parseExpression()
	if !p.expect(lexer.TokenRParen) {
		return nil
	}
	if !p.curTokenIs(lexer.TokenLBrace) {
		p.addError(fmt.Sprintf("expected '{', got %s", p.curToken.Type))
		return nil
	}
	body := p.parseBlock()

	return ast.While{Cond: cond, Body: body}
}

func (p *Parser) parseExpressionStatement() ast.Stmt {
	expr := p.parseExpression()
	if expr == nil {
		// Error already recorded; skip the offending token so the
		// parse loop makes progress.
		p.nextToken()
		return nil
	}
	if !p.expect(lexer.TokenSemicolon) {
		return nil
	}
	return ast.ExprStmt{Expr: expr}
}
