package vm

import (
	"fmt"
	"io"
	"os"

	"glipt/internal/config"
	"glipt/internal/permission"
)

// Ambient sizing constants pulled from internal/config (spec.md §4.2–§4.4
// give these as suggested defaults; internal/config is their single
// source of truth so the compiler and interpreter agree).
const (
	MaxLocals          = config.MaxLocals
	MaxUpvalues        = config.MaxUpvalues
	MaxBreakJumps      = config.MaxBreakJumps
	InitialStackSize   = config.InitialStackSize
	MaxFrames          = config.MaxFrames
	MaxHandlers        = config.MaxHandlers
	GlobalCacheSize    = config.GlobalCacheSize
	InitialGCThreshold = config.InitialGCThreshold
	GCGrowthFactor     = config.GCGrowthFactor
)

// Frame is a per-call activation record (spec.md GLOSSARY): the closure
// being executed, the saved instruction pointer, and a base into the
// value stack.
type Frame struct {
	closure *ObjClosure
	ip      int
	slots   int // vm.stack[slots] is this frame's reserved slot 0 (the callee)
}

// Handler is the saved (IP, frame-count, stack-top) triple used to unwind
// on error (spec.md GLOSSARY).
type Handler struct {
	ip         int
	frameCount int
	stackTop   int
}

// VM is the single-threaded stack machine (spec.md §5: "strictly
// single-threaded ... no synchronization primitives are needed or
// allowed"). It exclusively owns the stack, frames, intern table,
// globals, module cache, permission set, and the live-object list
// (spec.md §3, "Ownership").
type VM struct {
	stack    []Value
	stackTop int

	frames     []Frame
	frameCount int

	handlers     []Handler
	handlerCount int

	openUpvalues *ObjUpvalue

	strings     *InternTable
	globals     *GlobalsTable
	globalCache *GlobalCache
	moduleCache map[string]Value

	gc *gcState

	hasError   bool
	errorValue Value

	// baseFrameCount marks the frame count a re-entrant Call (native ->
	// interpreter re-entry, module import execution) should unwind back
	// to before returning control to its host (spec.md §4.3, "Return").
	baseFrameCount int

	Permissions *permission.Set

	// ScriptDir anchors relative import paths (spec.md §4.5).
	ScriptDir string
	Args      []string

	Stdout io.Writer
}

// New constructs a VM with empty globals/intern/module-cache state and
// registers the standard natives. Stdlib registration lives in
// internal/stdlib to keep internal/vm free of the domain-facing packages
// it doesn't otherwise need (os/exec, net/http, ...).
func New() *VM {
	vm := &VM{
		stack:       make([]Value, InitialStackSize),
		frames:      make([]Frame, MaxFrames),
		handlers:    make([]Handler, MaxHandlers),
		strings:     NewInternTable(),
		globals:     NewGlobalsTable(),
		globalCache: NewGlobalCache(GlobalCacheSize),
		moduleCache: make(map[string]Value),
		gc:          newGCState(),
		Permissions: permission.New(),
		Stdout:      os.Stdout,
	}
	registerBuiltins(vm)
	return vm
}

func (vm *VM) push(v Value) {
	vm.stack[vm.stackTop] = v
	vm.stackTop++
}

func (vm *VM) pop() Value {
	vm.stackTop--
	return vm.stack[vm.stackTop]
}

func (vm *VM) peek(distance int) Value {
	return vm.stack[vm.stackTop-1-distance]
}

func (vm *VM) currentFrame() *Frame {
	return &vm.frames[vm.frameCount-1]
}

// NewList builds a fresh ObjList value and registers it with the GC. Used
// by internal/stdlib natives that construct lists outside the bytecode
// interpreter's own OP_BUILD_LIST path.
func (vm *VM) NewList(items []Value) Value {
	l := &ObjList{Items: items}
	vm.registerObject(l)
	return ObjVal(l)
}

// NewMapObj builds a fresh, GC-registered ObjMap for natives to populate.
func (vm *VM) NewMapObj() *ObjMap {
	m := NewMap()
	vm.registerObject(m)
	return m
}

// DefineNative registers a native function into the globals table
// directly, bypassing bytecode (used at VM setup time by internal/stdlib
// modules and by the built-ins registered in native.go).
func (vm *VM) DefineNative(name string, arity int, fn NativeFn) {
	nat := &ObjNative{Name: name, Arity: arity, Fn: fn}
	vm.registerObject(nat)
	vm.globals.Define(name, ObjVal(nat))
}

// Interpret runs an already-compiled top-level script (spec.md §2, "AST ->
// Compiler produces a root Function ... VM wraps it in a Closure and
// pushes a frame"). It is cmd/glipt's entry point; the import runtime
// runs module scripts through callClosure and run directly.
func (vm *VM) Interpret(fn *ObjFunction) (Value, error) {
	closure := &ObjClosure{Function: fn, Upvalues: make([]*ObjUpvalue, fn.UpvalueCount)}
	vm.registerObject(closure)
	vm.push(ObjVal(closure))
	if !vm.callClosure(closure, 0) {
		return Nil, vm.runtimeError()
	}
	return vm.run()
}

// CallReentrant invokes a VM-level closure from a native (spec.md §9,
// "Re-entrant interpretation" — used by map/filter/reduce/retry-style
// natives). It snapshots the current frame count, runs the call to
// completion, and returns the single result value.
func (vm *VM) CallReentrant(callee Value, args []Value) (Value, bool) {
	savedBase := vm.baseFrameCount
	savedFrameCount := vm.frameCount
	savedStackTop := vm.stackTop
	vm.baseFrameCount = vm.frameCount

	vm.push(callee)
	for _, a := range args {
		vm.push(a)
	}
	if !vm.callValue(callee, len(args)) {
		vm.baseFrameCount = savedBase
		vm.closeUpvalues(savedStackTop)
		vm.frameCount = savedFrameCount
		vm.stackTop = savedStackTop
		return Nil, false
	}
	result, err := vm.run()
	vm.baseFrameCount = savedBase
	if err != nil {
		// An uncaught error inside the callee leaves frameCount/stackTop
		// wherever the error occurred (handleError only unwinds to a
		// handler, not to the reentry point); restore them here so the
		// caller's own frame and stack are left exactly as they were
		// before this call, ready for the next attempt. vm.hasError and
		// vm.errorValue are left untouched: callers (retry, map/filter/
		// reduce) rely on inspecting or re-raising them.
		vm.closeUpvalues(savedStackTop)
		vm.frameCount = savedFrameCount
		vm.stackTop = savedStackTop
		return Nil, false
	}
	return result, true
}

// HasError reports whether a native or the interpreter has a pending
// raised error (spec.md §6, "a native's return value is ignored once it
// has raised"). Exposed so callers driving natives directly, like
// internal/stdlib's tests, can observe the outcome without going through
// the bytecode dispatch loop.
func (vm *VM) HasError() bool { return vm.hasError }

// LastError returns the last raised error value, valid only when
// HasError reports true.
func (vm *VM) LastError() Value { return vm.errorValue }

// runtimeError renders an uncaught error: its message, then one
// "[line N] in <fn>" line per live call frame, innermost first.
func (vm *VM) runtimeError() error {
	msg := "unknown runtime error"
	if vm.hasError {
		msg = Stringify(vm.errorValue)
		if IsObjKind(vm.errorValue, KindMap) {
			m := vm.errorValue.Obj.(*ObjMap)
			msg = Stringify(m.Get("message"))
		}
	}
	for i := vm.frameCount - 1; i >= 0; i-- {
		fn := vm.frames[i].closure.Function
		line := 0
		if ip := vm.frames[i].ip; ip > 0 && ip <= len(fn.Chunk.Lines) {
			line = fn.Chunk.Lines[ip-1]
		}
		msg += fmt.Sprintf("\n[line %d] in %s", line, fn.Inspect())
	}
	return fmt.Errorf("%s", msg)
}
