package stdlib

import (
	"github.com/goccy/go-json"

	"glipt/internal/vm"
)

// registerJSON grounds parseJson/toJson on goccy/go-json, the JSON library
// SPEC_FULL.md's domain stack table binds to this module (a drop-in
// encoding/json replacement several repos in the retrieved pack use for
// its speed).
func registerJSON(v *vm.VM) {
	v.DefineNative("parseJson", 1, nativeParseJson)
	v.DefineNative("toJson", 1, nativeToJson)
}

func nativeParseJson(v *vm.VM, args []vm.Value) vm.Value {
	src, ok := str(v, args, 0, "parseJson")
	if !ok {
		return vm.Nil
	}
	var decoded any
	if err := json.Unmarshal([]byte(src), &decoded); err != nil {
		v.Raise(vm.ErrType, "parseJson: %v", err)
		return vm.Nil
	}
	return fromGo(v, decoded)
}

func nativeToJson(v *vm.VM, args []vm.Value) vm.Value {
	if len(args) < 1 {
		v.Raise(vm.ErrType, "toJson: expects 1 argument")
		return vm.Nil
	}
	out, err := json.Marshal(toGo(args[0]))
	if err != nil {
		v.Raise(vm.ErrType, "toJson: %v", err)
		return vm.Nil
	}
	return v.InternValue(string(out))
}
