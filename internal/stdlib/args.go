package stdlib

import "glipt/internal/vm"

// str reads args[i] as a string, raising a type error and returning ok=false
// otherwise. Every native in this package follows the same "check, raise,
// bail out" shape natives use per spec.md §6 ("return value ignored once it
// has raised").
func str(v *vm.VM, args []vm.Value, i int, who string) (string, bool) {
	if i >= len(args) || !vm.IsString(args[i]) {
		v.Raise(vm.ErrType, "%s: argument %d must be a string", who, i+1)
		return "", false
	}
	return vm.AsString(args[i]).Chars, true
}

func num(v *vm.VM, args []vm.Value, i int, who string) (float64, bool) {
	if i >= len(args) || !vm.IsNumber(args[i]) {
		v.Raise(vm.ErrType, "%s: argument %d must be a number", who, i+1)
		return 0, false
	}
	return args[i].Num, true
}
