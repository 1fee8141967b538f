package parser

import (
	"testing"

	"glipt/internal/ast"
)

func mustParse(t *testing.T, src string) *ast.Program {
	t.Helper()
	prog, errs := ParseProgram(src)
	if len(errs) > 0 {
		t.Fatalf("parse errors for %q: %v", src, errs)
	}
	return prog
}

func TestParseVarDecl(t *testing.T) {
	prog := mustParse(t, "var x = 1 + 2")
	if len(prog.Stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(prog.Stmts))
	}
	decl, ok := prog.Stmts[0].(*ast.VarDecl)
	if !ok {
		t.Fatalf("expected *ast.VarDecl, got %T", prog.Stmts[0])
	}
	if decl.Name != "x" {
		t.Fatalf("expected name x, got %q", decl.Name)
	}
	bin, ok := decl.Value.(*ast.Binary)
	if !ok || bin.Op != "+" {
		t.Fatalf("expected binary + expression, got %#v", decl.Value)
	}
}

func TestParseFnDecl(t *testing.T) {
	prog := mustParse(t, "fn add(a, b) { return a + b }")
	fn, ok := prog.Stmts[0].(*ast.FnDecl)
	if !ok {
		t.Fatalf("expected *ast.FnDecl, got %T", prog.Stmts[0])
	}
	if fn.Name != "add" || len(fn.Params) != 2 || fn.Params[0] != "a" || fn.Params[1] != "b" {
		t.Fatalf("unexpected fn decl: %#v", fn)
	}
	if len(fn.Body) != 1 {
		t.Fatalf("expected 1 body statement, got %d", len(fn.Body))
	}
	ret, ok := fn.Body[0].(*ast.Return)
	if !ok {
		t.Fatalf("expected *ast.Return, got %T", fn.Body[0])
	}
	if _, ok := ret.Value.(*ast.Binary); !ok {
		t.Fatalf("expected binary return value, got %#v", ret.Value)
	}
}

func TestParseIfElse(t *testing.T) {
	prog := mustParse(t, "if n < 2 { return n } else { return 0 }")
	ifStmt, ok := prog.Stmts[0].(*ast.If)
	if !ok {
		t.Fatalf("expected *ast.If, got %T", prog.Stmts[0])
	}
	if ifStmt.Then == nil || ifStmt.Else == nil {
		t.Fatalf("expected both branches present")
	}
}

func TestParseWhileBreakContinue(t *testing.T) {
	prog := mustParse(t, "while true { break } while true { continue }")
	if len(prog.Stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(prog.Stmts))
	}
	w1 := prog.Stmts[0].(*ast.While)
	if _, ok := w1.Body.Stmts[0].(*ast.Break); !ok {
		t.Fatalf("expected break in first while body")
	}
	w2 := prog.Stmts[1].(*ast.While)
	if _, ok := w2.Body.Stmts[0].(*ast.Continue); !ok {
		t.Fatalf("expected continue in second while body")
	}
}

func TestParseForIn(t *testing.T) {
	prog := mustParse(t, "for v in 1..10 { print(v) }")
	forStmt, ok := prog.Stmts[0].(*ast.For)
	if !ok {
		t.Fatalf("expected *ast.For, got %T", prog.Stmts[0])
	}
	if forStmt.Var != "v" {
		t.Fatalf("expected loop var v, got %q", forStmt.Var)
	}
	rng, ok := forStmt.Iterable.(*ast.Range)
	if !ok {
		t.Fatalf("expected range iterable, got %#v", forStmt.Iterable)
	}
	if rng.Inclusive {
		t.Fatalf("expected exclusive range for ..")
	}
}

func TestParseInclusiveRange(t *testing.T) {
	prog := mustParse(t, "for v in 1..=10 { print(v) }")
	forStmt := prog.Stmts[0].(*ast.For)
	rng := forStmt.Iterable.(*ast.Range)
	if !rng.Inclusive {
		t.Fatalf("expected inclusive range for ..=")
	}
}

func TestParseMatch(t *testing.T) {
	prog := mustParse(t, `r = match 2 { 1 -> "a", 2 -> "b", _ -> "c" }`)
	exprStmt := prog.Stmts[0].(*ast.ExprStmt)
	assign := exprStmt.X.(*ast.Assign)
	match, ok := assign.Value.(*ast.Match)
	if !ok {
		t.Fatalf("expected *ast.Match, got %#v", assign.Value)
	}
	if len(match.Arms) != 3 {
		t.Fatalf("expected 3 arms, got %d", len(match.Arms))
	}
	if !match.Arms[2].Wildcard {
		t.Fatalf("expected last arm to be wildcard")
	}
}

func TestParsePipe(t *testing.T) {
	prog := mustParse(t, "print(5 |> inc)")
	exprStmt := prog.Stmts[0].(*ast.ExprStmt)
	call := exprStmt.X.(*ast.Call)
	pipe, ok := call.Args[0].(*ast.Pipe)
	if !ok {
		t.Fatalf("expected *ast.Pipe argument, got %#v", call.Args[0])
	}
	if _, ok := pipe.Left.(*ast.NumberLit); !ok {
		t.Fatalf("expected numeric left side, got %#v", pipe.Left)
	}
}

func TestParseOnFailure(t *testing.T) {
	prog := mustParse(t, `on failure { print("caught: " + error.message) } x = 1 / 0`)
	handler, ok := prog.Stmts[0].(*ast.OnFailure)
	if !ok {
		t.Fatalf("expected *ast.OnFailure, got %T", prog.Stmts[0])
	}
	if len(handler.Handler) != 1 {
		t.Fatalf("expected 1 handler statement, got %d", len(handler.Handler))
	}
}

func TestParseAllow(t *testing.T) {
	prog := mustParse(t, `allow fs "/tmp/*"`)
	allow, ok := prog.Stmts[0].(*ast.Allow)
	if !ok {
		t.Fatalf("expected *ast.Allow, got %T", prog.Stmts[0])
	}
	if allow.PermType != "fs" || allow.Target != "/tmp/*" {
		t.Fatalf("unexpected allow statement: %#v", allow)
	}
}

func TestParseImport(t *testing.T) {
	prog := mustParse(t, `import "m"`)
	imp, ok := prog.Stmts[0].(*ast.Import)
	if !ok {
		t.Fatalf("expected *ast.Import, got %T", prog.Stmts[0])
	}
	if imp.Path != "m" || imp.Name != "m" {
		t.Fatalf("unexpected import statement: %#v", imp)
	}
}

func TestParseParallel(t *testing.T) {
	prog := mustParse(t, "parallel { a() b() }")
	pb, ok := prog.Stmts[0].(*ast.ParallelBlock)
	if !ok {
		t.Fatalf("expected *ast.ParallelBlock, got %T", prog.Stmts[0])
	}
	if len(pb.Calls) != 2 {
		t.Fatalf("expected 2 calls, got %d", len(pb.Calls))
	}
}

func TestParseExec(t *testing.T) {
	prog := mustParse(t, "`ls -la`")
	exprStmt := prog.Stmts[0].(*ast.ExprStmt)
	if _, ok := exprStmt.X.(*ast.Exec); !ok {
		t.Fatalf("expected *ast.Exec, got %#v", exprStmt.X)
	}
}

func TestParseErrorRecoveryReportsMessage(t *testing.T) {
	_, errs := ParseProgram("fn (")
	if len(errs) == 0 {
		t.Fatalf("expected parse errors for malformed input")
	}
}
