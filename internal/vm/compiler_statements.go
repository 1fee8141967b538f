package vm

import "glipt/internal/ast"

// compileExprStmt compiles a bare expression statement. The one exception to
// "compile the expression, then pop the result" is the top-level-scoping
// rule's function-scope half (spec.md §4.2): `name = value` where name is
// undefined in the current function becomes a local declaration, and the
// value already sitting on the stack top IS that local's storage, so no pop
// follows it.
func (c *Compiler) compileExprStmt(n *ast.ExprStmt) {
	if a, ok := n.X.(*ast.Assign); ok && !c.isTopLevel() {
		if c.resolveLocal(a.Name) == -1 && c.resolveUpvalue(a.Name) == -1 {
			c.compileExpr(a.Value)
			c.addLocal(a.Name)
			return
		}
	}
	c.compileExpr(n.X)
	c.emit(OpPop, n.Line)
}

// compileVarDecl implements the resolved reading of spec.md §4.2's Open
// Question on `var`: `var name = value` always introduces a genuine lexical
// local, block-scoped, even at the top level of a script. The initializer's
// value is already sitting where the new local belongs, so nothing further
// is emitted.
func (c *Compiler) compileVarDecl(n *ast.VarDecl) {
	c.compileExpr(n.Value)
	c.addLocal(n.Name)
}

// compileFnDecl binds name to a closure. At the top level this becomes a
// global (self-recursive calls resolve fine because the callee doesn't run
// until after DEFINE_GLOBAL has executed); inside a function the name is
// reserved as a local before the body compiles so recursive calls resolve to
// it directly, exactly like compileVarDecl's slot-reuse trick.
func (c *Compiler) compileFnDecl(n *ast.FnDecl) {
	if c.isTopLevel() {
		c.compileFunctionLiteral(n.Name, n.Params, n.Body, n.Line)
		c.emit(OpDefineGlobal, n.Line)
		c.emitByte(byte(c.identifierConstant(n.Name)), n.Line)
		return
	}
	c.addLocal(n.Name)
	c.compileFunctionLiteral(n.Name, n.Params, n.Body, n.Line)
}

// compileFunctionLiteral compiles params/body in a nested Compiler, then
// emits CLOSURE plus one (isLocal, index) byte pair per upvalue the nested
// function captured (spec.md §4.2, "Closures"). The resulting *ObjFunction
// is registered as a constant of the ENCLOSING chunk, never the nested one.
func (c *Compiler) compileFunctionLiteral(name string, params []string, body []ast.Stmt, line int) {
	fc := newCompiler(c.vm, c, name, len(params))
	fc.beginScope()
	for _, p := range params {
		fc.addLocal(p)
	}
	fc.compileStmtSequence(body)
	fc.endCompiler(line)
	if fc.hadError {
		c.hadError = true
		c.errors = append(c.errors, fc.errors...)
	}

	fn := fc.function
	fn.UpvalueCount = len(fc.upvalues)
	c.vm.registerObject(fn)

	idx := c.makeConstant(ObjVal(fn))
	c.emit(OpClosure, line)
	c.emitByte(byte(idx), line)
	for _, uv := range fc.upvalues {
		if uv.IsLocal {
			c.emitByte(1, line)
		} else {
			c.emitByte(0, line)
		}
		c.emitByte(uv.Index, line)
	}
}

func (c *Compiler) compileIf(n *ast.If) {
	c.compileExpr(n.Cond)
	thenJump := c.emitJump(OpJumpIfFalse, n.Line)
	c.emit(OpPop, n.Line)
	c.compileStmt(n.Then)
	elseJump := c.emitJump(OpJump, n.Line)

	c.patchJump(thenJump)
	c.emit(OpPop, n.Line)
	if n.Else != nil {
		c.compileStmt(n.Else)
	}
	c.patchJump(elseJump)
}

func (c *Compiler) compileReturn(n *ast.Return) {
	if n.Value != nil {
		c.compileExpr(n.Value)
	} else {
		c.emit(OpNil, n.Line)
	}
	c.emit(OpReturn, n.Line)
}

func (c *Compiler) compileBreak(n *ast.Break) {
	if len(c.loops) == 0 {
		c.error("break outside loop")
		return
	}
	lc := c.loops[len(c.loops)-1]
	if len(lc.breakJumps) >= MaxBreakJumps {
		c.error("too many break statements in one loop")
		return
	}
	c.emitDiscardLocals(lc.scopeDepth, n.Line)
	lc.breakJumps = append(lc.breakJumps, c.emitJump(OpJump, n.Line))
}

func (c *Compiler) compileContinue(n *ast.Continue) {
	if len(c.loops) == 0 {
		c.error("continue outside loop")
		return
	}
	lc := c.loops[len(c.loops)-1]
	c.emitDiscardLocals(lc.scopeDepth, n.Line)
	lc.continueJumps = append(lc.continueJumps, c.emitJump(OpJump, n.Line))
}

func (c *Compiler) compileAllow(n *ast.Allow) {
	permIdx := c.identifierConstant(n.PermType)
	targetIdx := c.identifierConstant(n.Target)
	c.emit(OpAllow, n.Line)
	c.emitByte(byte(permIdx), n.Line)
	c.emitByte(byte(targetIdx), n.Line)
}

func (c *Compiler) compileImport(n *ast.Import) {
	pathIdx := c.identifierConstant(n.Path)
	nameIdx := c.identifierConstant(n.Name)
	c.emit(OpImport, n.Line)
	c.emitByte(byte(pathIdx), n.Line)
	c.emitByte(byte(nameIdx), n.Line)
}

// compileParallel lowers `parallel { call(); call(); ... }` (spec.md §5) to
// a call into the `__parallel` native over a list of zero-argument thunks,
// the same pattern ranges (`__range`) and backtick-exec (`exec`) use for
// constructs the fixed opcode inventory has no dedicated instruction for.
// The returned result list is popped, since a statement leaves no value.
func (c *Compiler) compileParallel(n *ast.ParallelBlock) {
	c.namedVariableGet("__parallel", n.Line)
	for _, call := range n.Calls {
		thunk := []ast.Stmt{&ast.Return{Value: call}}
		c.compileFunctionLiteral("", nil, thunk, n.Line)
	}
	c.emit(OpBuildList, n.Line)
	c.emitByte(byte(len(n.Calls)), n.Line)
	c.emit(OpCall, n.Line)
	c.emitByte(1, n.Line)
	c.emit(OpPop, n.Line)
}

// compileOnFailure lowers `on failure { ... }` protecting the statements
// that follow it in the same sequence (spec.md §4.2): PUSH_HANDLER over the
// protected region, POP_HANDLER plus a skip jump on the success path, and a
// handler body that opens with the error value already sitting where a
// fresh local named `error` belongs (handleError pushes it before resuming
// here, mirroring how a closure's captured value simply IS its local slot).
func (c *Compiler) compileOnFailure(n *ast.OnFailure, protected []ast.Stmt) {
	pushIdx := c.emitJump(OpPushHandler, n.Line)

	c.beginScope()
	c.compileStmtSequence(protected)
	c.endScope(n.Line)
	c.emit(OpPopHandler, n.Line)
	endJump := c.emitJump(OpJump, n.Line)

	c.patchJump(pushIdx)
	c.beginScope()
	c.addLocal("error")
	c.compileStmtSequence(n.Handler)
	c.endScope(n.Line)

	c.patchJump(endJump)
}
