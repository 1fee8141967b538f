package stdlib

import (
	"os"

	"glipt/internal/permission"
	"glipt/internal/vm"
)

// registerFS wires readFile/writeFile/listDir/exists directly onto os,
// per SPEC_FULL.md's justification: file IO has no third-party library in
// the retrieved pack worth preferring over the standard library for a
// surface this narrow, and spec.md treats the module's implementation as
// a black box anyway.
func registerFS(v *vm.VM) {
	v.DefineNative("readFile", 1, nativeReadFile)
	v.DefineNative("writeFile", 2, nativeWriteFile)
	v.DefineNative("listDir", 1, nativeListDir)
	v.DefineNative("exists", 1, nativeExists)
}

func nativeReadFile(v *vm.VM, args []vm.Value) vm.Value {
	path, ok := str(v, args, 0, "readFile")
	if !ok {
		return vm.Nil
	}
	if !v.Permissions.Allowed(permission.FS, path) {
		v.Raise(vm.ErrPermission, "fs access to %q not allowed", path)
		return vm.Nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		v.Raise(vm.ErrIO, "readFile %q: %v", path, err)
		return vm.Nil
	}
	return v.InternValue(string(data))
}

func nativeWriteFile(v *vm.VM, args []vm.Value) vm.Value {
	path, ok := str(v, args, 0, "writeFile")
	if !ok {
		return vm.Nil
	}
	content, ok := str(v, args, 1, "writeFile")
	if !ok {
		return vm.Nil
	}
	if !v.Permissions.Allowed(permission.FS, path) {
		v.Raise(vm.ErrPermission, "fs access to %q not allowed", path)
		return vm.Nil
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		v.Raise(vm.ErrIO, "writeFile %q: %v", path, err)
		return vm.Nil
	}
	return vm.Nil
}

func nativeListDir(v *vm.VM, args []vm.Value) vm.Value {
	path, ok := str(v, args, 0, "listDir")
	if !ok {
		return vm.Nil
	}
	if !v.Permissions.Allowed(permission.FS, path) {
		v.Raise(vm.ErrPermission, "fs access to %q not allowed", path)
		return vm.Nil
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		v.Raise(vm.ErrIO, "listDir %q: %v", path, err)
		return vm.Nil
	}
	names := make([]vm.Value, len(entries))
	for i, e := range entries {
		names[i] = v.InternValue(e.Name())
	}
	return v.NewList(names)
}

func nativeExists(v *vm.VM, args []vm.Value) vm.Value {
	path, ok := str(v, args, 0, "exists")
	if !ok {
		return vm.Nil
	}
	if !v.Permissions.Allowed(permission.FS, path) {
		v.Raise(vm.ErrPermission, "fs access to %q not allowed", path)
		return vm.Nil
	}
	_, err := os.Stat(path)
	return vm.BoolVal(err == nil)
}
