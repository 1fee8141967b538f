package stdlib

import (
	"gopkg.in/yaml.v3"

	"glipt/internal/vm"
)

// registerYAML grounds parseYaml/toYaml on yaml.v3, mirroring the
// glipt.toml manifest's own use of a struct-tag-driven marshaler
// (SPEC_FULL.md §2/§3).
func registerYAML(v *vm.VM) {
	v.DefineNative("parseYaml", 1, nativeParseYaml)
	v.DefineNative("toYaml", 1, nativeToYaml)
}

func nativeParseYaml(v *vm.VM, args []vm.Value) vm.Value {
	src, ok := str(v, args, 0, "parseYaml")
	if !ok {
		return vm.Nil
	}
	var decoded any
	if err := yaml.Unmarshal([]byte(src), &decoded); err != nil {
		v.Raise(vm.ErrType, "parseYaml: %v", err)
		return vm.Nil
	}
	return fromGo(v, decoded)
}

func nativeToYaml(v *vm.VM, args []vm.Value) vm.Value {
	if len(args) < 1 {
		v.Raise(vm.ErrType, "toYaml: expects 1 argument")
		return vm.Nil
	}
	out, err := yaml.Marshal(toGo(args[0]))
	if err != nil {
		v.Raise(vm.ErrType, "toYaml: %v", err)
		return vm.Nil
	}
	return v.InternValue(string(out))
}
