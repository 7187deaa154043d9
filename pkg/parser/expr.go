package parser

import (
	"fmt"
	"strconv"

	"github.com/pointertobios/olang-compiler/pkg/ast"
	"github.com/pointertobios/olang-compiler/pkg/lexer"
)

// parseExpression parses a full expression starting at the lowest
// precedence level.
func (p *Parser) parseExpression() ast.Expr {
	return p.parseAssignment()
}

// parseAssignment parses 'target = value'. Assignment is
// right-associative: a = b = c assigns b = c first.
func (p *Parser) parseAssignment() ast.Expr {
	left := p.parseLogicalOr()
	if left == nil {
		return nil
	}
	if p.curTokenIs(lexer.TokenAssign) {
		p.nextToken() // consume '='
		right := p.parseAssignment()
		if right == nil {
			return nil
		}
		return ast.Assign{Target: left, Value: right}
	}
	return left
}

func (p *Parser) parseLogicalOr() ast.Expr {
	left := p.parseLogicalAnd()
	for left != nil && p.curTokenIs(lexer.TokenOr) {
		p.nextToken()
		right := p.parseLogicalAnd()
		if right == nil {
			return nil
		}
		left = ast.Binary{Op: ast.OpOr, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseLogicalAnd() ast.Expr {
	left := p.parseEquality()
	for left != nil && p.curTokenIs(lexer.TokenAnd) {
		p.nextToken()
		right := p.parseEquality()
		if right == nil {
			return nil
		}
		left = ast.Binary{Op: ast.OpAnd, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseEquality() ast.Expr {
	left := p.parseRelational()
	for left != nil && (p.curTokenIs(lexer.TokenEq) || p.curTokenIs(lexer.TokenNe)) {
		op := ast.OpEq
		if p.curTokenIs(lexer.TokenNe) {
			op = ast.OpNe
		}
		p.nextToken()
		right := p.parseRelational()
		if right == nil {
			return nil
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseRelational() ast.Expr {
	left := p.parseAdditive()
	for left != nil {
		var op ast.BinaryOp
		switch p.curToken.Type {
		case lexer.TokenLt:
			op = ast.OpLt
		case lexer.TokenGt:
			op = ast.OpGt
		case lexer.TokenLe:
			op = ast.OpLe
		case lexer.TokenGe:
			op = ast.OpGe
		default:
			return left
		}
		p.nextToken()
		right := p.parseAdditive()
		if right == nil {
			return nil
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseAdditive() ast.Expr {
	left := p.parseMultiplicative()
	for left != nil && (p.curTokenIs(lexer.TokenPlus) || p.curTokenIs(lexer.TokenMinus)) {
		op := ast.OpAdd
		if p.curTokenIs(lexer.TokenMinus) {
			op = ast.OpSub
		}
		p.nextToken()
		right := p.parseMultiplicative()
		if right == nil {
			return nil
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseMultiplicative() ast.Expr {
	left := p.parseUnary()
	for left != nil {
		var op ast.BinaryOp
		switch p.curToken.Type {
		case lexer.TokenStar:
			op = ast.OpMul
		case lexer.TokenSlash:
			op = ast.OpDiv
		case lexer.TokenPercent:
			op = ast.OpMod
		default:
			return left
		}
		p.nextToken()
		right := p.parseUnary()
		if right == nil {
			return nil
		}
		left = ast.Binary{Op: op, Left: left, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expr {
	var op ast.UnaryOp
	switch p.curToken.Type {
	case lexer.TokenNot:
		op = ast.OpNot
	case lexer.TokenMinus:
		op = ast.OpNeg
	case lexer.TokenStar:
		op = ast.OpDeref
	case lexer.TokenAmpersand:
		op = ast.OpAddr
	default:
		return p.parsePostfix()
	}
	p.nextToken()
	operand := p.parseUnary()
	if operand == nil {
		return nil
	}
	return ast.Unary{Op: op, Expr: operand}
}

// parsePostfix builds a left-associative chain of member access,
// array subscript and call forms over a primary expression.
func (p *Parser) parsePostfix() ast.Expr {
	expr := p.parsePrimary()

	for expr != nil {
		switch p.curToken.Type {
		case lexer.TokenDot:
			p.nextToken() // consume '.'
			if !p.curTokenIs(lexer.TokenIdent) {
				p.addError(fmt.Sprintf("expected field name, got %s", p.curToken.Type))
				return nil
			}
			expr = ast.Member{Object: expr, Field: p.curToken.Literal}
			p.nextToken()
		case lexer.TokenLBracket:
			p.nextToken() // consume '['
			index := p.parseExpression()
			if index == nil {
				return nil
			}
			if !p.expect(lexer.TokenRBracket) {
				return nil
			}
			expr = ast.Index{Array: expr, Index: index}
		case lexer.TokenLParen:
			args, ok := p.parseArguments()
			if !ok {
				return nil
			}
			// Calls apply to bare names only; there are no
			// first-class function values.
			ident, isIdent := expr.(ast.Identifier)
			if !isIdent {
				p.addError("call target must be a function name")
				return nil
			}
			expr = ast.Call{Callee: ident.Name, Args: args}
		default:
			return expr
		}
	}
	return expr
}

func (p *Parser) parseArguments() ([]ast.Expr, bool) {
	p.nextToken() // consume '('

	var args []ast.Expr
	for !p.curTokenIs(lexer.TokenRParen) && !p.curTokenIs(lexer.TokenEOF) {
		if len(args) > 0 && !p.expect(lexer.TokenComma) {
			return nil, false
		}
		arg := p.parseExpression()
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
	}

	if !p.expect(lexer.TokenRParen) {
		return nil, false
	}
	return args, true
}

func (p *Parser) parsePrimary() ast.Expr {
	switch p.curToken.Type {
	case lexer.TokenInt:
		value, err := strconv.ParseInt(p.curToken.Literal, 10, 64)
		if err != nil {
			p.addError(fmt.Sprintf("invalid integer literal %q", p.curToken.Literal))
			return nil
		}
		p.nextToken()
		return ast.IntLit{Value: value}
	case lexer.TokenFloat:
		value, err := strconv.ParseFloat(p.curToken.Literal, 64)
		if err != nil {
			p.addError(fmt.Sprintf("invalid float literal %q", p.curToken.Literal))
			return nil
		}
		p.nextToken()
		return ast.FloatLit{Value: value}
	case lexer.TokenString:
		value := p.curToken.Literal
		p.nextToken()
		return ast.StringLit{Value: value}
	case lexer.TokenTrue:
		p.nextToken()
		return ast.BoolLit{Value: true}
	case lexer.TokenFalse:
		p.nextToken()
		return ast.BoolLit{Value: false}
	case lexer.TokenIdent:
		name := p.curToken.Literal
		p.nextToken()
		return ast.Identifier{Name: name}
	case lexer.TokenLParen:
		p.nextToken() // consume '('
		expr := p.parseExpression()
		if expr == nil {
			return nil
		}
		if !p.expect(lexer.TokenRParen) {
			return nil
		}
		return expr
	}
	p.addError(fmt.Sprintf("expected expression, got %s", p.curToken.Type))
	return nil
}
