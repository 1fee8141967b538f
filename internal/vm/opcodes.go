// Package vm implements the glipt bytecode compiler and interpreter: the
// AST-to-bytecode compiler, the stack VM, the tracing garbage collector,
// the string intern table, and the global inline cache.
package vm

// Op is a single instruction opcode (spec.md §4.1). Every instruction is
// one byte, optionally followed by immediate operand bytes: 16-bit
// big-endian for jump offsets, 8-bit for slot/constant/argument-count
// operands.
type Op byte

const (
	OpConstant Op = iota
	OpNil
	OpTrue
	OpFalse

	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpNegate

	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual
	OpNot

	OpGetLocal
	OpSetLocal
	OpGetGlobal
	OpSetGlobal
	OpDefineGlobal
	OpGetUpvalue
	OpSetUpvalue

	OpJump
	OpJumpIfFalse
	OpLoop

	OpCall
	OpClosure
	OpReturn
	OpCloseUpvalue

	OpBuildList
	OpBuildMap
	OpIndexGet
	OpIndexSet
	OpGetProperty
	OpSetProperty

	OpPop
	OpAllow
	OpPushHandler
	OpPopHandler
	OpImport
)

var opNames = map[Op]string{
	OpConstant: "CONSTANT", OpNil: "NIL", OpTrue: "TRUE", OpFalse: "FALSE",
	OpAdd: "ADD", OpSub: "SUB", OpMul: "MUL", OpDiv: "DIV", OpMod: "MOD", OpNegate: "NEGATE",
	OpEqual: "EQUAL", OpNotEqual: "NOT_EQUAL", OpGreater: "GREATER", OpGreaterEqual: "GREATER_EQUAL",
	OpLess: "LESS", OpLessEqual: "LESS_EQUAL", OpNot: "NOT",
	OpGetLocal: "GET_LOCAL", OpSetLocal: "SET_LOCAL", OpGetGlobal: "GET_GLOBAL",
	OpSetGlobal: "SET_GLOBAL", OpDefineGlobal: "DEFINE_GLOBAL",
	OpGetUpvalue: "GET_UPVALUE", OpSetUpvalue: "SET_UPVALUE",
	OpJump: "JUMP", OpJumpIfFalse: "JUMP_IF_FALSE", OpLoop: "LOOP",
	OpCall: "CALL", OpClosure: "CLOSURE", OpReturn: "RETURN", OpCloseUpvalue: "CLOSE_UPVALUE",
	OpBuildList: "BUILD_LIST", OpBuildMap: "BUILD_MAP", OpIndexGet: "INDEX_GET",
	OpIndexSet: "INDEX_SET", OpGetProperty: "GET_PROPERTY", OpSetProperty: "SET_PROPERTY",
	OpPop: "POP", OpAllow: "ALLOW", OpPushHandler: "PUSH_HANDLER", OpPopHandler: "POP_HANDLER",
	OpImport: "IMPORT",
}

func (op Op) String() string {
	if s, ok := opNames[op]; ok {
		return s
	}
	return "UNKNOWN"
}
