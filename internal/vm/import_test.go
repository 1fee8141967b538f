package vm

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"glipt/internal/parser"
)

func TestImportIsolation(t *testing.T) {
	dir := t.TempDir()
	moduleSrc := `fn greet(x) { return "hi " + x } secret = 42`
	if err := os.WriteFile(filepath.Join(dir, "m.glipt"), []byte(moduleSrc), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}

	hostSrc := `import "m" print(m.greet("a")) print(m.secret)`
	prog, errs := parser.ParseProgram(hostSrc)
	if len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}

	machine := New()
	machine.ScriptDir = dir
	var out bytes.Buffer
	machine.Stdout = &out

	fn, err := machine.Compile(prog, "host")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	if _, err := machine.Interpret(fn); err != nil {
		t.Fatalf("runtime error: %v", err)
	}

	want := "hi a\n42\n"
	if out.String() != want {
		t.Fatalf("got %q, want %q", out.String(), want)
	}
}

func TestImportDoesNotLeakBareNames(t *testing.T) {
	dir := t.TempDir()
	moduleSrc := `fn greet(x) { return "hi " + x } secret = 42`
	if err := os.WriteFile(filepath.Join(dir, "m.glipt"), []byte(moduleSrc), 0o644); err != nil {
		t.Fatalf("write module: %v", err)
	}

	hostSrc := `import "m" print(greet("a"))`
	prog, errs := parser.ParseProgram(hostSrc)
	if len(errs) > 0 {
		t.Fatalf("parse error: %v", errs)
	}

	machine := New()
	machine.ScriptDir = dir
	var out bytes.Buffer
	machine.Stdout = &out

	fn, err := machine.Compile(prog, "host")
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	_, runErr := machine.Interpret(fn)
	if runErr == nil {
		t.Fatalf("expected undefined-variable error referencing bare greet")
	}
	if !strings.Contains(runErr.Error(), "undefined variable") {
		t.Fatalf("got %v, want undefined-variable error", runErr)
	}
}
