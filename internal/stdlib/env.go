package stdlib

import (
	"os"

	"glipt/internal/permission"
	"glipt/internal/vm"
)

// registerEnv exposes process arguments and environment variables.
// Reading an environment variable is gated behind the "env" permission
// kind (spec.md §9); args() is read-only and needs no grant.
func registerEnv(v *vm.VM) {
	v.DefineNative("args", 0, nativeArgs)
	v.DefineNative("env", 1, nativeEnv)
}

func nativeArgs(v *vm.VM, args []vm.Value) vm.Value {
	items := make([]vm.Value, len(v.Args))
	for i, a := range v.Args {
		items[i] = v.InternValue(a)
	}
	return v.NewList(items)
}

func nativeEnv(v *vm.VM, args []vm.Value) vm.Value {
	name, ok := str(v, args, 0, "env")
	if !ok {
		return vm.Nil
	}
	if !v.Permissions.Allowed(permission.Env, name) {
		v.Raise(vm.ErrPermission, "env access to %q not allowed", name)
		return vm.Nil
	}
	val, present := os.LookupEnv(name)
	if !present {
		return vm.Nil
	}
	return v.InternValue(val)
}
