package vm

import (
	"fmt"

	"glipt/internal/ast"
)

// Compiler holds one function's compile-time state (spec.md §4.2): its
// locals stack, its upvalue descriptors, current scope depth, loop
// context, and a link to the enclosing compiler that makes upvalue
// resolution possible without a separate resolve pass. It walks the AST
// and emits directly into c.function.Chunk in one pass.
type Compiler struct {
	vm        *VM
	enclosing *Compiler
	function  *ObjFunction

	locals     []Local
	upvalues   []Upvalue
	scopeDepth int

	loops []*loopCtx

	stringConstants map[*ObjString]int

	hadError bool
	errors   []string
}

type loopCtx struct {
	start         int
	scopeDepth    int
	breakJumps    []int
	continueJumps []int
}

func newCompiler(vm *VM, enclosing *Compiler, name string, arity int) *Compiler {
	c := &Compiler{
		vm:              vm,
		enclosing:       enclosing,
		function:        &ObjFunction{Name: name, Arity: arity, Chunk: NewChunk()},
		stringConstants: make(map[*ObjString]int),
	}
	// Slot 0 is reserved for the callee itself (spec.md §4.3); the
	// compiler never resolves a name to it.
	c.locals = append(c.locals, Local{Name: "", Depth: 0})
	return c
}

func (c *Compiler) isTopLevel() bool { return c.enclosing == nil }

// Compile is the single-pass entry point: it produces a root Function
// whose Chunk implements the entire program (spec.md §2, "Data flow").
func (vm *VM) Compile(prog *ast.Program, name string) (*ObjFunction, error) {
	c := newCompiler(vm, nil, name, 0)
	c.compileStmtSequence(prog.Stmts)
	c.endCompiler(prog.Line)
	if c.hadError {
		return nil, fmt.Errorf("compile error: %s", firstOr(c.errors, "unknown error"))
	}
	vm.registerObject(c.function)
	return c.function, nil
}

func firstOr(errs []string, def string) string {
	if len(errs) > 0 {
		return errs[0]
	}
	return def
}

// endCompiler appends the implicit `return nil` every function body ends
// with if control falls off the end (spec.md §4.2 doesn't require an
// explicit terminal return).
func (c *Compiler) endCompiler(line int) {
	c.emit(OpNil, line)
	c.emit(OpReturn, line)
}

// compileStmtSequence implements the `on failure` lowering of spec.md
// §4.2: once an OnFailure statement is seen, every statement after it in
// this sequence becomes the protected region, recursively (a nested
// `on failure` inside the protected region or the handler body reuses
// this same function).
func (c *Compiler) compileStmtSequence(stmts []ast.Stmt) {
	for i, s := range stmts {
		if of, ok := s.(*ast.OnFailure); ok {
			c.compileOnFailure(of, stmts[i+1:])
			return
		}
		c.compileStmt(s)
	}
}

func (c *Compiler) compileStmt(s ast.Stmt) {
	switch n := s.(type) {
	case *ast.ExprStmt:
		c.compileExprStmt(n)
	case *ast.Block:
		c.beginScope()
		c.compileStmtSequence(n.Stmts)
		c.endScope(n.Line)
	case *ast.VarDecl:
		c.compileVarDecl(n)
	case *ast.FnDecl:
		c.compileFnDecl(n)
	case *ast.If:
		c.compileIf(n)
	case *ast.While:
		c.compileWhile(n)
	case *ast.For:
		c.compileFor(n)
	case *ast.Return:
		c.compileReturn(n)
	case *ast.Break:
		c.compileBreak(n)
	case *ast.Continue:
		c.compileContinue(n)
	case *ast.Allow:
		c.compileAllow(n)
	case *ast.ParallelBlock:
		c.compileParallel(n)
	case *ast.Import:
		c.compileImport(n)
	case *ast.OnFailure:
		// Reached only when an OnFailure statement is compiled on its own
		// rather than through compileStmtSequence, so there are no
		// following statements to protect.
		c.compileOnFailure(n, nil)
	default:
		c.error(fmt.Sprintf("unsupported statement %T", s))
	}
}
