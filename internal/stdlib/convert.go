package stdlib

import "glipt/internal/vm"

// toGo converts a glipt Value into a plain Go value (map[string]any,
// []any, string, float64, bool, nil) suitable for json/yaml marshaling.
// Shared by jsonmod.go and yamlmod.go, which otherwise differ only in
// which encoding package they call.
func toGo(v vm.Value) any {
	switch {
	case v.Type == vm.ValNil:
		return nil
	case v.Type == vm.ValBool:
		return v.Bool
	case v.Type == vm.ValNumber:
		return v.Num
	case vm.IsString(v):
		return vm.AsString(v).Chars
	case vm.IsObjKind(v, vm.KindList):
		items := v.Obj.(*vm.ObjList).Items
		out := make([]any, len(items))
		for i, it := range items {
			out[i] = toGo(it)
		}
		return out
	case vm.IsObjKind(v, vm.KindMap):
		m := v.Obj.(*vm.ObjMap)
		out := make(map[string]any, len(m.Keys))
		for _, k := range m.Keys {
			out[k] = toGo(m.Get(k))
		}
		return out
	default:
		return v.Obj.Inspect()
	}
}

// fromGo is toGo's inverse, used after unmarshaling into `any`.
func fromGo(v *vm.VM, x any) vm.Value {
	switch t := x.(type) {
	case nil:
		return vm.Nil
	case bool:
		return vm.BoolVal(t)
	case float64:
		return vm.Number(t)
	case int:
		return vm.Number(float64(t))
	case string:
		return v.InternValue(t)
	case []any:
		items := make([]vm.Value, len(t))
		for i, el := range t {
			items[i] = fromGo(v, el)
		}
		return v.NewList(items)
	case map[string]any:
		m := v.NewMapObj()
		for k, val := range t {
			m.Set(k, fromGo(v, val))
		}
		return vm.ObjVal(m)
	// yaml.v3 produces map[any]any for a mapping with a non-string key
	// (string-keyed mappings arrive as map[string]any above); entries whose
	// key is not a string are dropped.
	case map[any]any:
		m := v.NewMapObj()
		for k, val := range t {
			ks, ok := k.(string)
			if !ok {
				continue
			}
			m.Set(ks, fromGo(v, val))
		}
		return vm.ObjVal(m)
	default:
		return vm.Nil
	}
}
