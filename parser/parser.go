package parser

import (
	"fmt"

	"github.com/yarlson/yarc/ast"
	"github.com/yarlson/yarc/lexer"
)

// Precedence levels
const (
	_ int = iota
	LOWEST
	OR          // ||
	AND         // &&
	EQUALS      // == !=
	LESSGREATER // < > <= >=
	SUM         // + -
	PREFIX      // !
)

var precedences = map[lexer.TokenType]int{
	lexer.OR:    OR,
	lexer.AND:   AND,
	lexer.EQ:    EQUALS,
	lexer.NEQ:   EQUALS,
	lexer.LT:    LESSGREATER,
	lexer.GT:    LESSGREATER,
	lexer.LTE:   LESSGREATER,
	lexer.GTE:   LESSGREATER,
	lexer.PLUS:  SUM,
	lexer.MINUS: SUM,
}

// Parser is a recursive-descent, Pratt-style expression parser for the
// small imperative surface language the binder and lowerer operate on.
type Parser struct {
	l      *lexer.Lexer
	errors []string

	curToken  lexer.Token
	peekToken lexer.Token

	prefixParseFns map[lexer.TokenType]prefixParseFn
	infixParseFns  map[lexer.TokenType]infixParseFn
}

type (
	prefixParseFn func() ast.Expr
	infixParseFn  func(ast.Expr) ast.Expr
)

// New creates a Parser reading tokens from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{
		l:      l,
		errors: []string{},
	}

	p.prefixParseFns = make(map[lexer.TokenType]prefixParseFn)
	p.registerPrefix(lexer.IDENT, p.parseIdentifier)
	p.registerPrefix(lexer.INT, p.parseIntLit)
	p.registerPrefix(lexer.TRUE, p.parseBoolLit)
	p.registerPrefix(lexer.FALSE, p.parseBoolLit)
	p.registerPrefix(lexer.BANG, p.parseUnaryExpr)
	p.registerPrefix(lexer.MINUS, p.parseUnaryExpr)
	p.registerPrefix(lexer.LPAREN, p.parseGroupedExpr)

	p.infixParseFns = make(map[lexer.TokenType]infixParseFn)
	p.registerInfix(lexer.PLUS, p.parseBinaryExpr)
	p.registerInfix(lexer.MINUS, p.parseBinaryExpr)
	p.registerInfix(lexer.EQ, p.parseBinaryExpr)
	p.registerInfix(lexer.NEQ, p.parseBinaryExpr)
	p.registerInfix(lexer.LT, p.parseBinaryExpr)
	p.registerInfix(lexer.GT, p.parseBinaryExpr)
	p.registerInfix(lexer.LTE, p.parseBinaryExpr)
	p.registerInfix(lexer.GTE, p.parseBinaryExpr)
	p.registerInfix(lexer.AND, p.parseBinaryExpr)
	p.registerInfix(lexer.OR, p.parseBinaryExpr)

	// Read two tokens to initialize curToken and peekToken
	p.nextToken()
	p.nextToken()

	return p
}

func (p *Parser) nextToken() {
	p.curToken = p.peekToken
	p.peekToken = p.l.NextToken()
}

// Errors returns the accumulated parse errors, if any.
func (p *Parser) Errors() []string {
	return p.errors
}

func (p *Parser) peekError(t lexer.TokenType) {
	msg := fmt.Sprintf("expected next token to be %s, got %s instead at line %d",
		t, p.peekToken.Type, p.peekToken.Line)
	p.errors = append(p.errors, msg)
}

func (p *Parser) curTokenIs(t lexer.TokenType) bool  { return p.curToken.Type == t }
func (p *Parser) peekTokenIs(t lexer.TokenType) bool { return p.peekToken.Type == t }

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTokenIs(t) {
		p.nextToken()
		return true
	}

	p.peekError(t)

	return false
}

func (p *Parser) peekPrecedence() int {
	if prec, ok := precedences[p.peekToken.Type]; ok {
		return prec
	}

	return LOWEST
}

func (p *Parser) curPrecedence() int {
	if prec, ok := precedences[p.curToken.Type]; ok {
		return prec
	}

	return LOWEST
}

func (p *Parser) registerPrefix(tokenType lexer.TokenType, fn prefixParseFn) {
	p.prefixParseFns[tokenType] = fn
}

func (p *Parser) registerInfix(tokenType lexer.TokenType, fn infixParseFn) {
	p.infixParseFns[tokenType] = fn
}

func (p *Parser) pos() ast.Position {
	return ast.Position{Line: p.curToken.Line, Column: p.curToken.Column, Offset: -1}
}

// ParseProgram parses a source file into its top-level block. The surface
// language has no declarations, so a program is simply a sequence of
// statements, identical in shape to a block's contents.
func (p *Parser) ParseProgram() *ast.Block {
	block := &ast.Block{Position: p.pos()}

	for !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}

		p.nextToken()
	}

	return block
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.curToken.Type {
	case lexer.VAR, lexer.LET:
		return p.parseVarDeclStmt()
	case lexer.IF:
		return p.parseIfStmt()
	case lexer.WHILE:
		return p.parseWhileStmt()
	case lexer.DO:
		return p.parseDoWhileStmt()
	case lexer.FOR:
		return p.parseForStmt()
	case lexer.LBRACE:
		return p.parseBlock()
	default:
		return p.parseExprOrAssignStmt()
	}
}

func (p *Parser) parseVarDeclStmt() ast.Stmt {
	start := p.pos()
	readOnly := p.curTokenIs(lexer.LET)

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}

	name := p.curToken.Literal

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}

	p.nextToken()

	value := p.parseExpression(LOWEST)

	return &ast.VarDeclStmt{Name: name, ReadOnly: readOnly, Value: value, Position: start}
}

func (p *Parser) parseExprOrAssignStmt() ast.Stmt {
	start := p.pos()

	expr := p.parseExpression(LOWEST)

	if p.peekTokenIs(lexer.ASSIGN) {
		ident, ok := expr.(*ast.Ident)
		if !ok {
			p.errors = append(p.errors, "assignment target must be an identifier")
			return nil
		}

		p.nextToken() // consume '='
		p.nextToken() // move to value

		value := p.parseExpression(LOWEST)

		return &ast.ExprStmt{
			Expr:     &ast.AssignExpr{Name: ident.Name, Value: value, Position: start},
			Position: start,
		}
	}

	return &ast.ExprStmt{Expr: expr, Position: start}
}

func (p *Parser) parseIfStmt() ast.Stmt {
	start := p.pos()

	p.nextToken() // consume 'if'

	cond := p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	then := p.parseBlock()

	var elseStmt ast.Stmt

	if p.peekTokenIs(lexer.ELSE) {
		p.nextToken() // consume 'else'

		if p.peekTokenIs(lexer.IF) {
			p.nextToken()
			elseStmt = p.parseIfStmt()
		} else if p.expectPeek(lexer.LBRACE) {
			elseStmt = p.parseBlock()
		}
	}

	return &ast.IfStmt{Cond: cond, Then: then, Else: elseStmt, Position: start}
}

func (p *Parser) parseWhileStmt() ast.Stmt {
	start := p.pos()

	p.nextToken() // consume 'while'

	cond := p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	body := p.parseBlock()

	return &ast.WhileStmt{Cond: cond, Body: body, Position: start}
}

func (p *Parser) parseDoWhileStmt() ast.Stmt {
	start := p.pos()

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	body := p.parseBlock()

	if !p.expectPeek(lexer.WHILE) {
		return nil
	}

	p.nextToken() // move to condition

	cond := p.parseExpression(LOWEST)

	return &ast.DoWhileStmt{Body: body, Cond: cond, Position: start}
}

func (p *Parser) parseForStmt() ast.Stmt {
	start := p.pos()

	if !p.expectPeek(lexer.IDENT) {
		return nil
	}

	name := p.curToken.Literal

	if !p.expectPeek(lexer.ASSIGN) {
		return nil
	}

	p.nextToken()

	lower := p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.TO) {
		return nil
	}

	p.nextToken()

	upper := p.parseExpression(LOWEST)

	var step ast.Expr

	if p.peekTokenIs(lexer.STEP) {
		p.nextToken() // consume 'step'
		p.nextToken()

		step = p.parseExpression(LOWEST)
	}

	if !p.expectPeek(lexer.LBRACE) {
		return nil
	}

	body := p.parseBlock()

	return &ast.ForStmt{Var: name, Lower: lower, Upper: upper, Step: step, Body: body, Position: start}
}

// parseBlock parses a `{ ... }` block; curToken must be the opening brace.
func (p *Parser) parseBlock() *ast.Block {
	block := &ast.Block{Position: p.pos()}

	p.nextToken() // consume '{'

	for !p.curTokenIs(lexer.RBRACE) && !p.curTokenIs(lexer.EOF) {
		stmt := p.parseStatement()
		if stmt != nil {
			block.Stmts = append(block.Stmts, stmt)
		}

		p.nextToken()
	}

	return block
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	prefix := p.prefixParseFns[p.curToken.Type]
	if prefix == nil {
		p.noPrefixParseFnError(p.curToken.Type)
		return nil
	}

	leftExp := prefix()

	for !p.peekTokenIs(lexer.EOF) && precedence < p.peekPrecedence() {
		infix := p.infixParseFns[p.peekToken.Type]
		if infix == nil {
			return leftExp
		}

		p.nextToken()

		leftExp = infix(leftExp)
	}

	return leftExp
}

func (p *Parser) noPrefixParseFnError(t lexer.TokenType) {
	msg := fmt.Sprintf("no prefix parse function for %s found at line %d", t, p.curToken.Line)
	p.errors = append(p.errors, msg)
}

func (p *Parser) parseIdentifier() ast.Expr {
	return &ast.Ident{Name: p.curToken.Literal, Position: p.pos()}
}

func (p *Parser) parseIntLit() ast.Expr {
	return &ast.IntLit{Value: p.curToken.Literal, Position: p.pos()}
}

func (p *Parser) parseBoolLit() ast.Expr {
	return &ast.BoolLit{Value: p.curTokenIs(lexer.TRUE), Position: p.pos()}
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	start := p.pos()
	op := p.curToken.Literal

	p.nextToken()

	operand := p.parseExpression(PREFIX)

	return &ast.UnaryExpr{Op: op, Operand: operand, Position: start}
}

func (p *Parser) parseBinaryExpr(left ast.Expr) ast.Expr {
	start := p.pos()
	op := p.curToken.Literal
	precedence := p.curPrecedence()

	p.nextToken()

	right := p.parseExpression(precedence)

	return &ast.BinaryExpr{Left: left, Op: op, Right: right, Position: start}
}

func (p *Parser) parseGroupedExpr() ast.Expr {
	start := p.pos()

	p.nextToken()

	inner := p.parseExpression(LOWEST)

	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}

	return &ast.ParenExpr{Inner: inner, Position: start}
}
