package vm

// Local is one entry in a Compiler's locals stack: name, the scope depth
// it was declared at, and whether any nested function has captured it as
// an upvalue (spec.md §4.2).
type Local struct {
	Name       string
	Depth      int
	IsCaptured bool
}

// Upvalue is a compile-time descriptor: isLocal selects whether index
// names a slot in the enclosing function's locals or an upvalue index in
// the enclosing function's own upvalue list (spec.md §4.2, "Name
// resolution").
type Upvalue struct {
	Index   uint8
	IsLocal bool
}

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope pops every local declared at or below the scope being closed,
// emitting CLOSE_UPVALUE for ones nested closures captured and POP for
// the rest (spec.md §9, "mark local as captured ... so the emitter knows
// whether to emit POP or CLOSE_UPVALUE at scope exit").
func (c *Compiler) endScope(line int) {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].Depth > c.scopeDepth {
		if c.locals[len(c.locals)-1].IsCaptured {
			c.emit(OpCloseUpvalue, line)
		} else {
			c.emit(OpPop, line)
		}
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// endScopeNoEmit drops the compiler's bookkeeping for a scope without
// emitting cleanup instructions — used by match-arm lowering (spec.md
// §4.2), which needs the arm's result value to survive past the scope
// that produced it.
func (c *Compiler) endScopeNoEmit() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].Depth > c.scopeDepth {
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// emitDiscardLocals pops (or closes) every local declared deeper than depth
// without touching the compiler's own bookkeeping — used by break/continue,
// which jump out of a scope that compilation continues past afterward.
func (c *Compiler) emitDiscardLocals(depth int, line int) {
	for i := len(c.locals) - 1; i >= 0 && c.locals[i].Depth > depth; i-- {
		if c.locals[i].IsCaptured {
			c.emit(OpCloseUpvalue, line)
		} else {
			c.emit(OpPop, line)
		}
	}
}

func (c *Compiler) addLocal(name string) int {
	if len(c.locals) >= MaxLocals {
		c.error("too many local variables in function")
		return -1
	}
	c.locals = append(c.locals, Local{Name: name, Depth: c.scopeDepth})
	return len(c.locals) - 1
}

// resolveLocal searches innermost-first, matching spec.md §4.2's shadowing
// rule (a redeclaration in a nested scope shadows an outer one).
func (c *Compiler) resolveLocal(name string) int {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].Name == name {
			return i
		}
	}
	return -1
}

// resolveUpvalue implements the recursive enclosing-chain lookup of
// spec.md §4.2: if the enclosing compiler has the name as a local, mark it
// captured there and add a local-sourced upvalue here; if the enclosing
// compiler already has it as an upvalue, chain onto that instead.
func (c *Compiler) resolveUpvalue(name string) int {
	if c.enclosing == nil {
		return -1
	}
	if idx := c.enclosing.resolveLocal(name); idx != -1 {
		c.enclosing.locals[idx].IsCaptured = true
		return c.addUpvalue(uint8(idx), true)
	}
	if idx := c.enclosing.resolveUpvalue(name); idx != -1 {
		return c.addUpvalue(uint8(idx), false)
	}
	return -1
}

// addUpvalue deduplicates by (isLocal, index) (spec.md §4.2).
func (c *Compiler) addUpvalue(index uint8, isLocal bool) int {
	for i, uv := range c.upvalues {
		if uv.Index == index && uv.IsLocal == isLocal {
			return i
		}
	}
	if len(c.upvalues) >= MaxUpvalues {
		c.error("too many closure variables in function")
		return 0
	}
	c.upvalues = append(c.upvalues, Upvalue{Index: index, IsLocal: isLocal})
	return len(c.upvalues) - 1
}

func (c *Compiler) chunk() *Chunk { return c.function.Chunk }

func (c *Compiler) emit(op Op, line int) { c.chunk().WriteOp(op, line) }

func (c *Compiler) emitByte(b byte, line int) { c.chunk().Write(b, line) }

func (c *Compiler) emitConstant(v Value, line int) {
	idx := c.makeConstant(v)
	c.emit(OpConstant, line)
	c.emitByte(byte(idx), line)
}

// makeConstant deduplicates string constants by identity through this
// compiler's own stringConstants map, keyed by the interned *ObjString
// (spec.md §3, "constant-pool deduplication ... by identity lookup in a
// separate table"); other constant kinds are appended unconditioned.
func (c *Compiler) makeConstant(v Value) int {
	if IsString(v) {
		s := AsString(v)
		if idx, ok := c.stringConstants[s]; ok {
			return idx
		}
		idx := c.chunk().AddConstant(v)
		c.stringConstants[s] = idx
		return idx
	}
	return c.chunk().AddConstant(v)
}

func (c *Compiler) identifierConstant(name string) int {
	return c.makeConstant(c.vm.InternValue(name))
}

func (c *Compiler) emitJump(op Op, line int) int {
	c.emit(op, line)
	c.emitByte(0xff, line)
	c.emitByte(0xff, line)
	return c.chunk().Len() - 2
}

func (c *Compiler) patchJump(offset int) {
	jump := c.chunk().Len() - offset - 2
	if jump > 0xffff {
		c.error("jump too far to patch")
		return
	}
	c.chunk().PatchUint16(offset, jump)
}

func (c *Compiler) emitLoop(loopStart int, line int) {
	c.emit(OpLoop, line)
	offset := c.chunk().Len() - loopStart + 2
	if offset > 0xffff {
		c.error("loop body too large")
	}
	c.emitByte(byte(offset>>8), line)
	c.emitByte(byte(offset), line)
}

func (c *Compiler) error(msg string) {
	c.hadError = true
	c.errors = append(c.errors, msg)
}
