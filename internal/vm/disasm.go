package vm

import (
	"fmt"
	"strings"
)

// Disassemble renders a chunk's bytecode as text, one instruction per line,
// in the traditional clox format (offset, source line, mnemonic, operands).
// Every function constant in the chunk is then disassembled the same way,
// recursively, so nested function bodies appear after their enclosing chunk.
// Wired to the CLI's --disasm flag (SPEC_FULL.md, "Supplemented Features").
func Disassemble(chunk *Chunk, name string) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "== %s ==\n", name)
	offset := 0
	for offset < len(chunk.Code) {
		offset = disassembleInstruction(&sb, chunk, offset)
	}
	for _, c := range chunk.Constants {
		if fn, ok := c.Obj.(*ObjFunction); ok && c.Type == ValObj {
			sb.WriteString(Disassemble(fn.Chunk, fn.Inspect()))
		}
	}
	return sb.String()
}

func disassembleInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	fmt.Fprintf(sb, "%04d ", offset)
	if offset > 0 && chunk.Lines[offset] == chunk.Lines[offset-1] {
		sb.WriteString("   | ")
	} else {
		fmt.Fprintf(sb, "%4d ", chunk.Lines[offset])
	}

	op := Op(chunk.Code[offset])
	switch op {
	case OpConstant:
		return constantInstruction(sb, op, chunk, offset)
	case OpGetLocal, OpSetLocal, OpGetUpvalue, OpSetUpvalue, OpCall:
		return byteInstruction(sb, op, chunk, offset)
	case OpGetGlobal, OpSetGlobal, OpDefineGlobal:
		return constantInstruction(sb, op, chunk, offset)
	case OpGetProperty, OpSetProperty:
		return constantInstruction(sb, op, chunk, offset)
	case OpBuildList, OpBuildMap:
		return byteInstruction(sb, op, chunk, offset)
	case OpJump, OpJumpIfFalse, OpLoop, OpPushHandler:
		return jumpInstruction(sb, op, chunk, offset)
	case OpClosure:
		return closureInstruction(sb, chunk, offset)
	case OpAllow, OpImport:
		return twoConstantInstruction(sb, op, chunk, offset)
	default:
		fmt.Fprintf(sb, "%s\n", op)
		return offset + 1
	}
}

func constantInstruction(sb *strings.Builder, op Op, chunk *Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(sb, "%-16s %4d '%s'\n", op, idx, Stringify(chunk.Constants[idx]))
	return offset + 2
}

func twoConstantInstruction(sb *strings.Builder, op Op, chunk *Chunk, offset int) int {
	a := chunk.Code[offset+1]
	b := chunk.Code[offset+2]
	fmt.Fprintf(sb, "%-16s %4d '%s' %4d '%s'\n", op, a, Stringify(chunk.Constants[a]), b, Stringify(chunk.Constants[b]))
	return offset + 3
}

func byteInstruction(sb *strings.Builder, op Op, chunk *Chunk, offset int) int {
	slot := chunk.Code[offset+1]
	fmt.Fprintf(sb, "%-16s %4d\n", op, slot)
	return offset + 2
}

func jumpInstruction(sb *strings.Builder, op Op, chunk *Chunk, offset int) int {
	jump := chunk.ReadUint16(offset + 1)
	target := offset + 3
	if op == OpLoop {
		target = offset + 3 - jump
	} else {
		target += jump
	}
	fmt.Fprintf(sb, "%-16s %4d -> %d\n", op, offset, target)
	return offset + 3
}

func closureInstruction(sb *strings.Builder, chunk *Chunk, offset int) int {
	idx := chunk.Code[offset+1]
	fmt.Fprintf(sb, "%-16s %4d '%s'\n", OpClosure, idx, Stringify(chunk.Constants[idx]))
	offset += 2
	if fn, ok := chunk.Constants[idx].Obj.(*ObjFunction); ok {
		for i := 0; i < fn.UpvalueCount; i++ {
			isLocal := chunk.Code[offset]
			index := chunk.Code[offset+1]
			kind := "upvalue"
			if isLocal == 1 {
				kind = "local"
			}
			fmt.Fprintf(sb, "%04d      |                     %s %d\n", offset, kind, index)
			offset += 2
		}
	}
	return offset
}
