package vm

import "fmt"

// Well-known error type strings (spec.md §4.3, "Error value shape").
// Centralized so natives cannot typo one (SPEC_FULL.md §4).
const (
	ErrPermission = "permission"
	ErrExec       = "exec"
	ErrNet        = "net"
	ErrType       = "type"
	ErrRegex      = "regex"
	ErrIO         = "io"
)

// NewError builds the map every raised error is (spec.md §4.3: "at least
// message: string and type: string").
func (vm *VM) NewError(kind, message string) *ObjMap {
	m := NewMap()
	m.Set("message", vm.InternValue(message))
	m.Set("type", vm.InternValue(kind))
	vm.registerObject(m)
	return m
}

// Raise sets the VM's pending-error flag and value. Both the interpreter
// loop and native functions call this; per spec.md §6, a native's return
// value is ignored once it has raised.
func (vm *VM) Raise(kind, format string, args ...any) {
	msg := format
	if len(args) > 0 {
		msg = fmt.Sprintf(format, args...)
	}
	vm.hasError = true
	vm.errorValue = ObjVal(vm.NewError(kind, msg))
}

// RaiseValue raises an already-constructed error value (used when
// re-raising a caught error unchanged).
func (vm *VM) RaiseValue(v Value) {
	vm.hasError = true
	vm.errorValue = v
}
