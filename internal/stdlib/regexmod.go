package stdlib

import (
	"regexp"

	"glipt/internal/vm"
)

// registerRegex uses the standard library's regexp package directly: no
// repository in the retrieved pack carries a third-party regex engine
// (SPEC_FULL.md §3), and spec.md treats this module's implementation as a
// black box.
func registerRegex(v *vm.VM) {
	v.DefineNative("match", 2, nativeMatch)
	v.DefineNative("findAll", 2, nativeFindAll)
	v.DefineNative("replace", 3, nativeReplace)
}

func nativeMatch(v *vm.VM, args []vm.Value) vm.Value {
	pattern, ok := str(v, args, 0, "match")
	if !ok {
		return vm.Nil
	}
	subject, ok := str(v, args, 1, "match")
	if !ok {
		return vm.Nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		v.Raise(vm.ErrRegex, "match: %v", err)
		return vm.Nil
	}
	return vm.BoolVal(re.MatchString(subject))
}

func nativeFindAll(v *vm.VM, args []vm.Value) vm.Value {
	pattern, ok := str(v, args, 0, "findAll")
	if !ok {
		return vm.Nil
	}
	subject, ok := str(v, args, 1, "findAll")
	if !ok {
		return vm.Nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		v.Raise(vm.ErrRegex, "findAll: %v", err)
		return vm.Nil
	}
	matches := re.FindAllString(subject, -1)
	items := make([]vm.Value, len(matches))
	for i, m := range matches {
		items[i] = v.InternValue(m)
	}
	return v.NewList(items)
}

func nativeReplace(v *vm.VM, args []vm.Value) vm.Value {
	pattern, ok := str(v, args, 0, "replace")
	if !ok {
		return vm.Nil
	}
	subject, ok := str(v, args, 1, "replace")
	if !ok {
		return vm.Nil
	}
	repl, ok := str(v, args, 2, "replace")
	if !ok {
		return vm.Nil
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		v.Raise(vm.ErrRegex, "replace: %v", err)
		return vm.Nil
	}
	return v.InternValue(re.ReplaceAllString(subject, repl))
}
