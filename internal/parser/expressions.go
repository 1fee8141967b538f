package parser

import (
	"strconv"

	"glipt/internal/ast"
	"glipt/internal/token"
)

// Precedence levels, lowest to highest.
const (
	LOWEST = iota
	ASSIGNP
	PIPEP
	ORP
	ANDP
	EQUALITYP
	COMPARISONP
	RANGEP
	SUMP
	PRODUCTP
	UNARYP
	CALLP
)

var precedences = map[token.Type]int{
	token.ASSIGN: ASSIGNP, token.PLUS_ASSIGN: ASSIGNP, token.MINUS_ASSIGN: ASSIGNP,
	token.STAR_ASSIGN: ASSIGNP, token.SLASH_ASSIGN: ASSIGNP,
	token.PIPE: PIPEP,
	token.OR:   ORP,
	token.AND:  ANDP,
	token.EQ:   EQUALITYP, token.NOT_EQ: EQUALITYP,
	token.LT: COMPARISONP, token.LE: COMPARISONP, token.GT: COMPARISONP, token.GE: COMPARISONP,
	token.DOTDOT: RANGEP, token.DOTDOTEQ: RANGEP,
	token.PLUS: SUMP, token.MINUS: SUMP,
	token.STAR: PRODUCTP, token.SLASH: PRODUCTP, token.PERCENT: PRODUCTP,
	token.LPAREN: CALLP, token.LBRACKET: CALLP, token.DOT: CALLP,
}

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peek.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parseExpression(precedence int) ast.Expr {
	left := p.parsePrefix()
	if left == nil {
		return nil
	}
	for !p.curIs(token.NEWLINE) && precedence < p.curPrecedence() {
		switch p.cur.Type {
		case token.ASSIGN, token.PLUS_ASSIGN, token.MINUS_ASSIGN, token.STAR_ASSIGN, token.SLASH_ASSIGN:
			left = p.parseAssign(left)
		case token.LPAREN:
			left = p.parseCall(left)
		case token.LBRACKET:
			left = p.parseIndex(left)
		case token.DOT:
			left = p.parseDot(left)
		case token.PIPE:
			left = p.parsePipe(left)
		case token.DOTDOT, token.DOTDOTEQ:
			left = p.parseRange(left)
		default:
			left = p.parseBinary(left)
		}
	}
	return left
}

func (p *Parser) curPrecedence() int {
	if pr, ok := precedences[p.cur.Type]; ok {
		return pr
	}
	return LOWEST
}

func (p *Parser) parsePrefix() ast.Expr {
	switch p.cur.Type {
	case token.NUMBER:
		return p.parseNumber()
	case token.STRING:
		lit := &ast.StringLit{Base: p.parseBase(), Value: p.cur.Lexeme}
		p.next()
		return lit
	case token.BACKTICK:
		lit := &ast.Exec{Base: p.parseBase(), Command: &ast.StringLit{Base: p.parseBase(), Value: p.cur.Lexeme}}
		p.next()
		return lit
	case token.TRUE:
		lit := &ast.BoolLit{Base: p.parseBase(), Value: true}
		p.next()
		return lit
	case token.FALSE:
		lit := &ast.BoolLit{Base: p.parseBase(), Value: false}
		p.next()
		return lit
	case token.NIL:
		lit := &ast.NilLit{Base: p.parseBase()}
		p.next()
		return lit
	case token.IDENT, token.WILDCARD:
		v := &ast.Variable{Base: p.parseBase(), Name: p.cur.Lexeme}
		p.next()
		return v
	case token.MINUS:
		return p.parseUnary("-")
	case token.NOT:
		return p.parseUnary("not")
	case token.LPAREN:
		p.next()
		expr := p.parseExpression(LOWEST)
		p.expect(token.RPAREN)
		return expr
	case token.LBRACKET:
		return p.parseListLit()
	case token.LBRACE:
		return p.parseMapLit()
	case token.FN:
		base := p.parseBase()
		p.next()
		return p.parseLambdaFrom(base)
	case token.MATCH:
		return p.parseMatch()
	default:
		p.errorf("unexpected token %s (%q) in expression", p.cur.Type, p.cur.Lexeme)
		p.next()
		return nil
	}
}

func (p *Parser) parseNumber() ast.Expr {
	base := p.parseBase()
	v, err := strconv.ParseFloat(p.cur.Lexeme, 64)
	if err != nil {
		p.errorf("invalid number literal %q", p.cur.Lexeme)
	}
	p.next()
	return &ast.NumberLit{Base: base, Value: v}
}

func (p *Parser) parseUnary(op string) ast.Expr {
	base := p.parseBase()
	p.next()
	operand := p.parseExpression(UNARYP)
	return &ast.Unary{Base: base, Op: op, Operand: operand}
}

func (p *Parser) parseBinary(left ast.Expr) ast.Expr {
	base := p.parseBase()
	op := p.cur.Lexeme
	prec := p.curPrecedence()
	p.next()
	right := p.parseExpression(prec)
	return &ast.Binary{Base: base, Op: op, Left: left, Right: right}
}

func (p *Parser) parsePipe(left ast.Expr) ast.Expr {
	base := p.parseBase()
	p.next() // |>
	right := p.parseExpression(PIPEP)
	return &ast.Pipe{Base: base, Left: left, Right: right}
}

func (p *Parser) parseRange(left ast.Expr) ast.Expr {
	base := p.parseBase()
	inclusive := p.curIs(token.DOTDOTEQ)
	p.next()
	right := p.parseExpression(RANGEP)
	return &ast.Range{Base: base, Start: left, End: right, Inclusive: inclusive}
}

func (p *Parser) parseCall(callee ast.Expr) ast.Expr {
	base := p.parseBase()
	p.next() // (
	var args []ast.Expr
	for !p.curIs(token.RPAREN) && !p.curIs(token.EOF) {
		args = append(args, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RPAREN)
	return &ast.Call{Base: base, Callee: callee, Args: args}
}

func (p *Parser) parseIndex(target ast.Expr) ast.Expr {
	base := p.parseBase()
	p.next() // [
	key := p.parseExpression(LOWEST)
	p.expect(token.RBRACKET)
	return &ast.Index{Base: base, Target: target, Key: key}
}

func (p *Parser) parseDot(target ast.Expr) ast.Expr {
	base := p.parseBase()
	p.next() // .
	name := p.cur.Lexeme
	p.expect(token.IDENT)
	return &ast.Dot{Base: base, Target: target, Name: name}
}

// parseAssign handles `=`, `+=`, `-=`, `*=`, `/=` on the already-parsed
// left-hand expression, which must be a Variable, Index, or Dot.
func (p *Parser) parseAssign(left ast.Expr) ast.Expr {
	base := p.parseBase()
	opTok := p.cur.Type
	p.next()
	value := p.parseExpression(ASSIGNP - 1) // right-associative

	compoundOp := map[token.Type]string{
		token.PLUS_ASSIGN: "+", token.MINUS_ASSIGN: "-",
		token.STAR_ASSIGN: "*", token.SLASH_ASSIGN: "/",
	}

	switch t := left.(type) {
	case *ast.Variable:
		if opTok == token.ASSIGN {
			return &ast.Assign{Base: base, Name: t.Name, Value: value}
		}
		return &ast.CompoundAssign{Base: base, Name: t.Name, Op: compoundOp[opTok], Value: value}
	case *ast.Index:
		if opTok != token.ASSIGN {
			p.errorf("compound assignment to an indexed expression is not supported")
		}
		return &ast.IndexSet{Base: base, Target: t.Target, Key: t.Key, Value: value}
	case *ast.Dot:
		if opTok != token.ASSIGN {
			p.errorf("compound assignment to a field is not supported")
		}
		return &ast.DotSet{Base: base, Target: t.Target, Name: t.Name, Value: value}
	default:
		p.errorf("invalid assignment target")
		return left
	}
}

func (p *Parser) parseListLit() ast.Expr {
	base := p.parseBase()
	p.next() // [
	lit := &ast.ListLit{Base: base}
	for !p.curIs(token.RBRACKET) && !p.curIs(token.EOF) {
		lit.Elements = append(lit.Elements, p.parseExpression(LOWEST))
		if p.curIs(token.COMMA) {
			p.next()
		}
	}
	p.expect(token.RBRACKET)
	return lit
}

func (p *Parser) parseMapLit() ast.Expr {
	base := p.parseBase()
	p.next() // {
	lit := &ast.MapLit{Base: base}
	p.skipTerminators()
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		key := p.cur.Lexeme
		p.expect(token.STRING)
		p.expect(token.COLON)
		value := p.parseExpression(LOWEST)
		lit.Entries = append(lit.Entries, ast.MapEntry{Key: key, Value: value})
		if p.curIs(token.COMMA) {
			p.next()
			p.skipTerminators()
		}
	}
	p.expect(token.RBRACE)
	return lit
}

// parseMatch parses `match subject { pattern -> body, ..., _ -> body }`.
// A body is either a single expression or a `{ ... }` block; spec.md
// §4.2 requires both to leave a value on the stack.
func (p *Parser) parseMatch() ast.Expr {
	base := p.parseBase()
	p.next() // match
	subject := p.parseExpression(LOWEST)
	p.expect(token.LBRACE)
	p.skipTerminators()
	m := &ast.Match{Base: base, Subject: subject}
	for !p.curIs(token.RBRACE) && !p.curIs(token.EOF) {
		armBase := p.parseBase()
		arm := ast.MatchArm{Base: armBase}
		if p.curIs(token.WILDCARD) {
			arm.Wildcard = true
			p.next()
		} else {
			arm.Pattern = p.parseExpression(RANGEP)
		}
		p.expect(token.ARROW)
		if p.curIs(token.LBRACE) {
			arm.Body = p.parseBlock().Stmts
		} else {
			expr := p.parseExpression(LOWEST)
			arm.Body = []ast.Stmt{&ast.ExprStmt{Base: armBase, X: expr}}
		}
		m.Arms = append(m.Arms, arm)
		if p.curIs(token.COMMA) {
			p.next()
		}
		p.skipTerminators()
	}
	p.expect(token.RBRACE)
	return m
}
