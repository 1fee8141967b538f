// Package parser builds the AST the compiler consumes. Like the lexer, it
// is an external collaborator per spec.md §1; this recursive-descent
// implementation exists to make the module runnable end to end and is
// modeled on _examples/funvibe-funxy/internal/parser's hand-written
// descent style, reduced to glipt's smaller grammar.
package parser

import (
	"fmt"

	"glipt/internal/ast"
	"glipt/internal/lexer"
	"glipt/internal/token"
)

type Parser struct {
	l *lexer.Lexer

	cur, peek token.Token
	errors    []string
}

func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.next()
	p.next()
	return p
}

func (p *Parser) Errors() []string { return p.errors }

func (p *Parser) next() {
	p.cur = p.peek
	p.peek = p.l.NextToken()
}

func (p *Parser) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errors = append(p.errors, fmt.Sprintf("%d:%d: %s", p.cur.Line, p.cur.Column, msg))
}

func (p *Parser) curIs(t token.Type) bool  { return p.cur.Type == t }
func (p *Parser) peekIs(t token.Type) bool { return p.peek.Type == t }

func (p *Parser) expect(t token.Type) bool {
	if p.curIs(t) {
		p.next()
		return true
	}
	p.errorf("expected %s, got %s (%q)", t, p.cur.Type, p.cur.Lexeme)
	p.next()
	return false
}

// skipTerminators consumes statement-separating newlines/semicolons.
func (p *Parser) skipTerminators() {
	for p.curIs(token.NEWLINE) || p.curIs(token.SEMICOLON) {
		p.next()
	}
}

// ParseProgram parses the entire token stream into a Program node.
func ParseProgram(src string) (*ast.Program, []string) {
	p := New(lexer.New(src))
	prog := &ast.Program{Base: ast.NewBase(1, 0)}
	p.skipTerminators()
	for !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			prog.Stmts = append(prog.Stmts, stmt)
		}
		p.skipTerminators()
	}
	return prog, p.errors
}

func (p *Parser) parseBase() ast.Base { return ast.NewBase(p.cur.Line, p.cur.Column) }

// parseBlock parses `{ stmt* }`.
func (p *Parser) parseBlock() *ast.Block {
	b := &ast.Block{Base: p.parseBase()}
	p.expect(token.LBRACE)
	p.skipTerminators()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		if stmt := p.parseStatement(); stmt != nil {
			b.Stmts = append(b.Stmts, stmt)
		}
		p.skipTerminators()
	}
	p.expect(token.RBRACE)
	return b
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Type {
	case token.FN:
		return p.parseFnDecl()
	case token.VAR:
		return p.parseVarDecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile()
	case token.FOR:
		return p.parseFor()
	case token.RETURN:
		return p.parseReturn()
	case token.BREAK:
		base := p.parseBase()
		p.next()
		return &ast.Break{Base: base}
	case token.CONTINUE:
		base := p.parseBase()
		p.next()
		return &ast.Continue{Base: base}
	case token.ON:
		return p.parseOnFailure()
	case token.ALLOW:
		return p.parseAllow()
	case token.PARALLEL:
		return p.parseParallel()
	case token.IMPORT:
		return p.parseImport()
	case token.LBRACE:
		return p.parseBlock()
	default:
		base := p.parseBase()
		expr := p.parseExpression(LOWEST)
		return &ast.ExprStmt{Base: base, X: expr}
	}
}
