// Package pipeline threads a script's source through lexing, parsing, and
// compilation, collecting diagnostics from each stage before stopping
// (modeled on _examples/funvibe-funxy/internal/pipeline). cmd/glipt uses
// it as its single entry point from source text to a runnable
// *vm.ObjFunction; the tests call the parser and VM.Compile directly.
package pipeline

import (
	"fmt"

	"glipt/internal/ast"
	"glipt/internal/parser"
	"glipt/internal/vm"
)

// Context carries one script's state through the pipeline's stages.
type Context struct {
	Source string
	Name   string

	Program  *ast.Program
	Function *vm.ObjFunction

	Errors []string
}

// Run parses and compiles src against machine, stopping after parsing if
// the parser reported any errors (a broken AST is not worth compiling).
func Run(machine *vm.VM, src, name string) *Context {
	ctx := &Context{Source: src, Name: name}

	prog, perrs := parser.ParseProgram(src)
	ctx.Program = prog
	ctx.Errors = append(ctx.Errors, perrs...)
	if len(perrs) > 0 {
		return ctx
	}

	fn, err := machine.Compile(prog, name)
	if err != nil {
		ctx.Errors = append(ctx.Errors, err.Error())
		return ctx
	}
	ctx.Function = fn
	return ctx
}

// Err collapses every collected diagnostic into a single error, or nil if
// the pipeline ran clean.
func (c *Context) Err() error {
	if len(c.Errors) == 0 {
		return nil
	}
	msg := c.Errors[0]
	if len(c.Errors) > 1 {
		msg = fmt.Sprintf("%s (and %d more)", msg, len(c.Errors)-1)
	}
	return fmt.Errorf("%s", msg)
}
