package vm

import (
	"fmt"

	"glipt/internal/ast"
)

func (c *Compiler) compileExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.NumberLit:
		c.emitConstant(Number(n.Value), n.Line)
	case *ast.StringLit:
		c.emitConstant(c.vm.InternValue(n.Value), n.Line)
	case *ast.BoolLit:
		if n.Value {
			c.emit(OpTrue, n.Line)
		} else {
			c.emit(OpFalse, n.Line)
		}
	case *ast.NilLit:
		c.emit(OpNil, n.Line)
	case *ast.Unary:
		c.compileUnary(n)
	case *ast.Binary:
		c.compileBinary(n)
	case *ast.Variable:
		c.namedVariableGet(n.Name, n.Line)
	case *ast.Assign:
		c.compileExpr(n.Value)
		c.namedVariableSet(n.Name, n.Line)
	case *ast.CompoundAssign:
		c.compileCompoundAssign(n)
	case *ast.Call:
		c.compileCall(n)
	case *ast.Index:
		c.compileExpr(n.Target)
		c.compileExpr(n.Key)
		c.emit(OpIndexGet, n.Line)
	case *ast.IndexSet:
		c.compileExpr(n.Target)
		c.compileExpr(n.Key)
		c.compileExpr(n.Value)
		c.emit(OpIndexSet, n.Line)
	case *ast.Dot:
		c.compileExpr(n.Target)
		c.emit(OpGetProperty, n.Line)
		c.emitByte(byte(c.identifierConstant(n.Name)), n.Line)
	case *ast.DotSet:
		c.compileExpr(n.Target)
		c.compileExpr(n.Value)
		c.emit(OpSetProperty, n.Line)
		c.emitByte(byte(c.identifierConstant(n.Name)), n.Line)
	case *ast.ListLit:
		for _, el := range n.Elements {
			c.compileExpr(el)
		}
		c.emit(OpBuildList, n.Line)
		c.emitByte(byte(len(n.Elements)), n.Line)
	case *ast.MapLit:
		for _, entry := range n.Entries {
			c.emitConstant(c.vm.InternValue(entry.Key), n.Line)
			c.compileExpr(entry.Value)
		}
		c.emit(OpBuildMap, n.Line)
		c.emitByte(byte(len(n.Entries)), n.Line)
	case *ast.Lambda:
		c.compileFunctionLiteral("", n.Params, n.Body, n.Line)
	case *ast.Pipe:
		// `a |> b` compiles as `b(a)` (spec.md §4.2).
		c.compileExpr(n.Right)
		c.compileExpr(n.Left)
		c.emit(OpCall, n.Line)
		c.emitByte(1, n.Line)
	case *ast.Range:
		c.compileRange(n)
	case *ast.Match:
		c.compileMatch(n)
	case *ast.Exec:
		c.namedVariableGet("exec", n.Line)
		c.compileExpr(n.Command)
		c.emit(OpCall, n.Line)
		c.emitByte(1, n.Line)
	default:
		c.error(fmt.Sprintf("unsupported expression %T", e))
	}
}

func (c *Compiler) compileUnary(n *ast.Unary) {
	c.compileExpr(n.Operand)
	switch n.Op {
	case "-":
		c.emit(OpNegate, n.Line)
	case "not":
		c.emit(OpNot, n.Line)
	default:
		c.error("unknown unary operator " + n.Op)
	}
}

var binaryOps = map[string]Op{
	"+": OpAdd, "-": OpSub, "*": OpMul, "/": OpDiv, "%": OpMod,
	"==": OpEqual, "!=": OpNotEqual,
	"<": OpLess, "<=": OpLessEqual, ">": OpGreater, ">=": OpGreaterEqual,
}

// compileBinary implements the short-circuit lowering of spec.md §4.2 for
// `and`/`or`; every other operator compiles both operands then emits one
// opcode. JUMP_IF_FALSE deliberately does not pop, which is what makes
// these two sequences correct.
func (c *Compiler) compileBinary(n *ast.Binary) {
	switch n.Op {
	case "and":
		c.compileExpr(n.Left)
		endJump := c.emitJump(OpJumpIfFalse, n.Line)
		c.emit(OpPop, n.Line)
		c.compileExpr(n.Right)
		c.patchJump(endJump)
		return
	case "or":
		c.compileExpr(n.Left)
		elseJump := c.emitJump(OpJumpIfFalse, n.Line)
		endJump := c.emitJump(OpJump, n.Line)
		c.patchJump(elseJump)
		c.emit(OpPop, n.Line)
		c.compileExpr(n.Right)
		c.patchJump(endJump)
		return
	}
	c.compileExpr(n.Left)
	c.compileExpr(n.Right)
	op, ok := binaryOps[n.Op]
	if !ok {
		c.error("unknown binary operator " + n.Op)
		return
	}
	c.emit(op, n.Line)
}

func (c *Compiler) compileCompoundAssign(n *ast.CompoundAssign) {
	c.namedVariableGet(n.Name, n.Line)
	c.compileExpr(n.Value)
	op, ok := binaryOps[n.Op]
	if !ok {
		c.error("unknown compound-assignment operator " + n.Op)
		return
	}
	c.emit(op, n.Line)
	c.namedVariableSet(n.Name, n.Line)
}

func (c *Compiler) compileCall(n *ast.Call) {
	c.compileExpr(n.Callee)
	for _, a := range n.Args {
		c.compileExpr(a)
	}
	if len(n.Args) > 255 {
		c.error("too many arguments in call")
	}
	c.emit(OpCall, n.Line)
	c.emitByte(byte(len(n.Args)), n.Line)
}

// compileRange lowers `start..end` / `start..=end` to a call to the
// `__range` native (spec.md's fixed opcode inventory has no dedicated
// range instruction, so ranges are ordinary values produced by a native,
// exactly like any other stdlib collaborator).
func (c *Compiler) compileRange(n *ast.Range) {
	c.namedVariableGet("__range", n.Line)
	c.compileExpr(n.Start)
	c.compileExpr(n.End)
	if n.Inclusive {
		c.emit(OpTrue, n.Line)
	} else {
		c.emit(OpFalse, n.Line)
	}
	c.emit(OpCall, n.Line)
	c.emitByte(3, n.Line)
}

// namedVariableGet resolves name through locals, then upvalues, then
// falls back to a global access (spec.md §4.2, "Name resolution").
func (c *Compiler) namedVariableGet(name string, line int) {
	if idx := c.resolveLocal(name); idx != -1 {
		c.emit(OpGetLocal, line)
		c.emitByte(byte(idx), line)
		return
	}
	if idx := c.resolveUpvalue(name); idx != -1 {
		c.emit(OpGetUpvalue, line)
		c.emitByte(byte(idx), line)
		return
	}
	c.emit(OpGetGlobal, line)
	c.emitByte(byte(c.identifierConstant(name)), line)
}

// namedVariableSet implements the top-level scoping rule of spec.md §4.2:
// at true top level (no enclosing function), an undefined name always
// becomes/updates a global regardless of block nesting; inside any real
// function, an undefined name always becomes a new local in the current
// scope, regardless of block nesting depth.
func (c *Compiler) namedVariableSet(name string, line int) {
	if idx := c.resolveLocal(name); idx != -1 {
		c.emit(OpSetLocal, line)
		c.emitByte(byte(idx), line)
		return
	}
	if idx := c.resolveUpvalue(name); idx != -1 {
		c.emit(OpSetUpvalue, line)
		c.emitByte(byte(idx), line)
		return
	}
	if c.isTopLevel() {
		c.emit(OpSetGlobal, line)
		c.emitByte(byte(c.identifierConstant(name)), line)
		return
	}
	// Undefined in a real function: declare a fresh local bound to the
	// value already on the stack top.
	idx := c.addLocal(name)
	_ = idx
	// SET_LOCAL still runs so the expression's value stays on the stack
	// (assignments are expressions, spec.md §4.1); the local now
	// legitimately owns that same stack slot.
	c.emit(OpSetLocal, line)
	c.emitByte(byte(idx), line)
}

// compileMatch lowers `match subject { pattern -> body, ..., _ -> body }`
// (spec.md §4.2). The subject is compiled into a hidden local; each arm
// reloads it, compares, and on a hit overwrites that same local slot with
// its body's result instead of leaving an extra value on the stack. Ending
// the scope with endScopeNoEmit (no closing POP) leaves exactly that
// overwritten slot behind as the whole match expression's result.
func (c *Compiler) compileMatch(n *ast.Match) {
	c.compileExpr(n.Subject)
	c.beginScope()
	subjectSlot := c.addLocal("")

	var endJumps []int
	matchedWildcard := false
	for _, arm := range n.Arms {
		if arm.Wildcard {
			c.compileMatchArmBody(arm.Body, subjectSlot, arm.Line)
			matchedWildcard = true
			break
		}
		c.emit(OpGetLocal, arm.Line)
		c.emitByte(byte(subjectSlot), arm.Line)
		c.compileExpr(arm.Pattern)
		c.emit(OpEqual, arm.Line)
		nextArm := c.emitJump(OpJumpIfFalse, arm.Line)
		c.emit(OpPop, arm.Line)
		c.compileMatchArmBody(arm.Body, subjectSlot, arm.Line)
		endJumps = append(endJumps, c.emitJump(OpJump, arm.Line))
		c.patchJump(nextArm)
		c.emit(OpPop, arm.Line)
	}

	if !matchedWildcard {
		c.emit(OpNil, n.Line)
		c.emit(OpSetLocal, n.Line)
		c.emitByte(byte(subjectSlot), n.Line)
		c.emit(OpPop, n.Line)
	}
	for _, j := range endJumps {
		c.patchJump(j)
	}
	c.endScopeNoEmit()
}

// compileMatchArmBody runs every statement but the last normally; the last
// must be an expression whose value becomes the arm's result, written back
// into the subject's own slot rather than popped.
func (c *Compiler) compileMatchArmBody(body []ast.Stmt, subjectSlot int, line int) {
	c.beginScope()
	for i, s := range body {
		if i == len(body)-1 {
			if es, ok := s.(*ast.ExprStmt); ok {
				c.compileExpr(es.X)
				c.emit(OpSetLocal, line)
				c.emitByte(byte(subjectSlot), line)
				c.emit(OpPop, line)
				c.endScope(line)
				return
			}
		}
		c.compileStmt(s)
	}
	c.emit(OpNil, line)
	c.emit(OpSetLocal, line)
	c.emitByte(byte(subjectSlot), line)
	c.emit(OpPop, line)
	c.endScope(line)
}
