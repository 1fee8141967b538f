package parser

import (
	"path/filepath"
	"strings"

	"glipt/internal/ast"
	"glipt/internal/token"
)

func (p *Parser) parseParamList() []string {
	var params []string
	p.expect(token.LPAREN)
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		if p.curIs(token.IDENT) {
			params = append(params, p.cur.Lexeme)
			p.next()
		} else {
			p.errorf("expected parameter name, got %q", p.cur.Lexeme)
			p.next()
		}
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *Parser) parseFnDecl() ast.Stmt {
	base := p.parseBase()
	p.next() // fn
	if !p.curIs(token.IDENT) {
		// anonymous fn used as an expression statement
		return &ast.ExprStmt{Base: base, X: p.parseLambdaFrom(base)}
	}
	name := p.cur.Lexeme
	p.next()
	params := p.parseParamList()
	body := p.parseBlock()
	return &ast.FnDecl{Base: base, Name: name, Params: params, Body: body.Stmts}
}

func (p *Parser) parseLambdaFrom(base ast.Base) ast.Expr {
	params := p.parseParamList()
	body := p.parseBlock()
	return &ast.Lambda{Base: base, Params: params, Body: body.Stmts}
}

func (p *Parser) parseVarDecl() ast.Stmt {
	base := p.parseBase()
	p.next() // var
	name := p.cur.Lexeme
	p.expect(token.IDENT)
	p.expect(token.ASSIGN)
	value := p.parseExpression(LOWEST)
	return &ast.VarDecl{Base: base, Name: name, Value: value}
}

func (p *Parser) parseIf() ast.Stmt {
	base := p.parseBase()
	p.next() // if
	cond := p.parseExpression(LOWEST)
	then := p.parseBlock()
	node := &ast.If{Base: base, Cond: cond, Then: then}
	if p.curIs(token.ELSE) {
		p.next()
		if p.curIs(token.IF) {
			node.Else = p.parseIf()
		} else {
			node.Else = p.parseBlock()
		}
	}
	return node
}

func (p *Parser) parseWhile() ast.Stmt {
	base := p.parseBase()
	p.next() // while
	cond := p.parseExpression(LOWEST)
	body := p.parseBlock()
	return &ast.While{Base: base, Cond: cond, Body: body}
}

func (p *Parser) parseFor() ast.Stmt {
	base := p.parseBase()
	p.next() // for
	varName := p.cur.Lexeme
	p.expect(token.IDENT)
	p.expect(token.IN)
	iterable := p.parseExpression(LOWEST)
	body := p.parseBlock()
	return &ast.For{Base: base, Var: varName, Iterable: iterable, Body: body}
}

func (p *Parser) parseReturn() ast.Stmt {
	base := p.parseBase()
	p.next() // return
	if p.curIs(token.NEWLINE) || p.curIs(token.SEMICOLON) || p.curIs(token.RBRACE) || p.curIs(token.EOF) {
		return &ast.Return{Base: base}
	}
	value := p.parseExpression(LOWEST)
	return &ast.Return{Base: base, Value: value}
}

// parseOnFailure returns an OnFailure node whose Handler holds the
// statements of the handler block; the caller (block/program parsing) already appends
// subsequent statements to the enclosing sequence, and the compiler's
// lowering (spec.md §4.2) treats everything after this node in that
// sequence as protected.
func (p *Parser) parseOnFailure() ast.Stmt {
	base := p.parseBase()
	p.next() // on
	p.expect(token.FAILURE)
	handler := p.parseBlock()
	return &ast.OnFailure{Base: base, Handler: handler.Stmts}
}

func (p *Parser) parseAllow() ast.Stmt {
	base := p.parseBase()
	p.next() // allow
	permType := p.cur.Lexeme
	p.expect(token.IDENT)
	target := p.cur.Lexeme
	p.expect(token.STRING)
	return &ast.Allow{Base: base, PermType: permType, Target: target}
}

func (p *Parser) parseParallel() ast.Stmt {
	base := p.parseBase()
	p.next() // parallel
	block := p.parseBlock()
	calls := make([]ast.Expr, 0, len(block.Stmts))
	for _, s := range block.Stmts {
		if es, ok := s.(*ast.ExprStmt); ok {
			calls = append(calls, es.X)
			continue
		}
		p.errorf("parallel block may only contain call expressions")
	}
	return &ast.ParallelBlock{Base: base, Calls: calls}
}

func (p *Parser) parseImport() ast.Stmt {
	base := p.parseBase()
	p.next() // import
	path := p.cur.Lexeme
	p.expect(token.STRING)
	name := ""
	if p.curIs(token.AS) {
		p.next()
		name = p.cur.Lexeme
		p.expect(token.IDENT)
	}
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &ast.Import{Base: base, Path: path, Name: name}
}
