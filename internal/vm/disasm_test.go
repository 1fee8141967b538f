package vm

import (
	"strings"
	"testing"

	"glipt/internal/parser"
)

func TestDisassembleContainsExpectedOpcodes(t *testing.T) {
	prog, errs := parser.ParseProgram(`fn add(a, b) { return a + b } print(add(1, 2))`)
	if len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}
	machine := New()
	fn, err := machine.Compile(prog, "test")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	out := Disassemble(fn.Chunk, "test")
	for _, want := range []string{"CLOSURE", "CALL", "ADD", "RETURN"} {
		if !strings.Contains(out, want) {
			t.Fatalf("disassembly missing %s:\n%s", want, out)
		}
	}
}
