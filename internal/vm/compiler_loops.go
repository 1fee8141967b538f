package vm

import "glipt/internal/ast"

// compileWhile lowers `while cond { body }` straightforwardly. continue
// jumps forward to right before the backward LOOP instruction (there is no
// increment step to skip), break jumps forward past it.
func (c *Compiler) compileWhile(n *ast.While) {
	loopStart := c.chunk().Len()
	c.compileExpr(n.Cond)
	exitJump := c.emitJump(OpJumpIfFalse, n.Line)
	c.emit(OpPop, n.Line)

	c.loops = append(c.loops, &loopCtx{start: loopStart, scopeDepth: c.scopeDepth})
	c.compileStmt(n.Body)
	lc := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	for _, j := range lc.continueJumps {
		c.patchJump(j)
	}
	c.emitLoop(loopStart, n.Line)

	c.patchJump(exitJump)
	c.emit(OpPop, n.Line)
	for _, j := range lc.breakJumps {
		c.patchJump(j)
	}
}

// compileFor desugars `for v in iterable { body }` per spec.md §4.2: a
// hidden local holds the iterable, a hidden local holds an integer counter,
// and v is a plain local reassigned each iteration by indexing the iterable
// with the counter. Any value exposing `.length` and integer indexing works,
// which is exactly what ranges (via __range) and lists already provide.
func (c *Compiler) compileFor(n *ast.For) {
	c.beginScope()

	c.compileExpr(n.Iterable)
	iterSlot := c.addLocal("")

	c.emitConstant(Number(0), n.Line)
	counterSlot := c.addLocal("")

	c.emit(OpNil, n.Line)
	vSlot := c.addLocal(n.Var)

	loopStart := c.chunk().Len()
	c.emit(OpGetLocal, n.Line)
	c.emitByte(byte(counterSlot), n.Line)
	c.emit(OpGetLocal, n.Line)
	c.emitByte(byte(iterSlot), n.Line)
	c.emit(OpGetProperty, n.Line)
	c.emitByte(byte(c.identifierConstant("length")), n.Line)
	c.emit(OpLess, n.Line)
	exitJump := c.emitJump(OpJumpIfFalse, n.Line)
	c.emit(OpPop, n.Line)

	c.emit(OpGetLocal, n.Line)
	c.emitByte(byte(iterSlot), n.Line)
	c.emit(OpGetLocal, n.Line)
	c.emitByte(byte(counterSlot), n.Line)
	c.emit(OpIndexGet, n.Line)
	c.emit(OpSetLocal, n.Line)
	c.emitByte(byte(vSlot), n.Line)
	c.emit(OpPop, n.Line)

	c.loops = append(c.loops, &loopCtx{start: loopStart, scopeDepth: c.scopeDepth})
	c.compileStmt(n.Body)
	lc := c.loops[len(c.loops)-1]
	c.loops = c.loops[:len(c.loops)-1]

	for _, j := range lc.continueJumps {
		c.patchJump(j)
	}
	c.emit(OpGetLocal, n.Line)
	c.emitByte(byte(counterSlot), n.Line)
	c.emitConstant(Number(1), n.Line)
	c.emit(OpAdd, n.Line)
	c.emit(OpSetLocal, n.Line)
	c.emitByte(byte(counterSlot), n.Line)
	c.emit(OpPop, n.Line)
	c.emitLoop(loopStart, n.Line)

	c.patchJump(exitJump)
	c.emit(OpPop, n.Line)
	for _, j := range lc.breakJumps {
		c.patchJump(j)
	}

	c.endScope(n.Line)
}
