package vm

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// registerBuiltins installs the natives the compiler itself depends on
// (`__range`, `__parallel`) plus the small set of language-level helpers
// spec.md §6 lists as always available, independent of any stdlib import.
// OS-facing natives (fs, net, exec, ...) are registered separately by
// internal/stdlib once permissions are wired up, keeping this package free
// of those dependencies (spec.md §1, Non-goals).
func registerBuiltins(vm *VM) {
	vm.DefineNative("print", -1, nativePrint)
	vm.DefineNative("len", 1, nativeLen)
	vm.DefineNative("type", 1, nativeType)
	vm.DefineNative("__range", 3, nativeRange)
	vm.DefineNative("__parallel", 1, nativeParallel)
	vm.DefineNative("map", 2, nativeMap)
	vm.DefineNative("filter", 2, nativeFilter)
	vm.DefineNative("reduce", 3, nativeReduce)
	vm.DefineNative("retry", 2, nativeRetry)
	vm.DefineNative("append", 2, nativeAppend)
	vm.DefineNative("str", 1, nativeStr)
	vm.DefineNative("pop", 1, nativePop)
	vm.DefineNative("keys", 1, nativeKeys)
	vm.DefineNative("values", 1, nativeValues)
	vm.DefineNative("contains", 2, nativeContains)
	vm.DefineNative("join", -1, nativeJoin)
	vm.DefineNative("split", 2, nativeSplit)
	vm.DefineNative("trim", 1, nativeTrim)
	vm.DefineNative("upper", 1, nativeUpper)
	vm.DefineNative("lower", 1, nativeLower)
	vm.DefineNative("starts_with", 2, nativeStartsWith)
	vm.DefineNative("ends_with", 2, nativeEndsWith)
	vm.DefineNative("sort", 1, nativeSort)
	vm.DefineNative("num", 1, nativeNum)
	vm.DefineNative("bool", 1, nativeBool)
}

func nativePrint(vm *VM, args []Value) Value {
	parts := make([]any, len(args))
	for i, a := range args {
		parts[i] = Stringify(a)
	}
	line := fmt.Sprintln(parts...)
	fmt.Fprint(vm.Stdout, line)
	return Nil
}

func nativeLen(vm *VM, args []Value) Value {
	v := args[0]
	switch {
	case IsString(v):
		return Number(float64(len(AsString(v).Chars)))
	case IsObjKind(v, KindList):
		return Number(float64(len(v.Obj.(*ObjList).Items)))
	case IsObjKind(v, KindMap):
		return Number(float64(len(v.Obj.(*ObjMap).Keys)))
	default:
		vm.Raise(ErrType, "len: unsupported type")
		return Nil
	}
}

func nativeType(vm *VM, args []Value) Value {
	v := args[0]
	switch v.Type {
	case ValNil:
		return vm.InternValue("nil")
	case ValBool:
		return vm.InternValue("bool")
	case ValNumber:
		return vm.InternValue("number")
	case ValObj:
		switch v.Obj.Kind() {
		case KindString:
			return vm.InternValue("string")
		case KindList:
			return vm.InternValue("list")
		case KindMap:
			return vm.InternValue("map")
		default:
			return vm.InternValue("function")
		}
	}
	return Nil
}

// nativeRange materializes start..end (or start..=end) as a list, which is
// what gives ranges their `.length` and index protocol for `for..in` to
// desugar against (spec.md §4.2).
func nativeRange(vm *VM, args []Value) Value {
	if !IsNumber(args[0]) || !IsNumber(args[1]) {
		vm.Raise(ErrType, "range bounds must be numbers")
		return Nil
	}
	start := int(args[0].Num)
	end := int(args[1].Num)
	inclusive := !IsFalsey(args[2])
	if inclusive {
		end++
	}
	if end < start {
		end = start
	}
	items := make([]Value, 0, end-start)
	for i := start; i < end; i++ {
		items = append(items, Number(float64(i)))
	}
	list := &ObjList{Items: items}
	vm.registerObject(list)
	return ObjVal(list)
}

// nativeParallel runs each zero-argument thunk in the list argument to
// completion and returns their results as a list, in call order (spec.md
// §5). The thunks run sequentially on the VM's single goroutine, each to
// completion before the next starts; concurrent OS work is available only
// through internal/stdlib's `parallel` native, which fans shell commands
// out with golang.org/x/sync's errgroup.
func nativeParallel(vm *VM, args []Value) Value {
	thunks := args[0].Obj.(*ObjList).Items
	results := make([]Value, len(thunks))
	for i, t := range thunks {
		v, ok := vm.CallReentrant(t, nil)
		if !ok {
			return Nil
		}
		results[i] = v
	}
	list := &ObjList{Items: results}
	vm.registerObject(list)
	return ObjVal(list)
}

func nativeMap(vm *VM, args []Value) Value {
	if !IsObjKind(args[0], KindList) {
		vm.Raise(ErrType, "map: first argument must be a list")
		return Nil
	}
	items := args[0].Obj.(*ObjList).Items
	fn := args[1]
	out := make([]Value, len(items))
	for i, v := range items {
		r, ok := vm.CallReentrant(fn, []Value{v})
		if !ok {
			return Nil
		}
		out[i] = r
	}
	list := &ObjList{Items: out}
	vm.registerObject(list)
	return ObjVal(list)
}

func nativeFilter(vm *VM, args []Value) Value {
	if !IsObjKind(args[0], KindList) {
		vm.Raise(ErrType, "filter: first argument must be a list")
		return Nil
	}
	items := args[0].Obj.(*ObjList).Items
	fn := args[1]
	var out []Value
	for _, v := range items {
		r, ok := vm.CallReentrant(fn, []Value{v})
		if !ok {
			return Nil
		}
		if !IsFalsey(r) {
			out = append(out, v)
		}
	}
	list := &ObjList{Items: out}
	vm.registerObject(list)
	return ObjVal(list)
}

func nativeReduce(vm *VM, args []Value) Value {
	if !IsObjKind(args[0], KindList) {
		vm.Raise(ErrType, "reduce: first argument must be a list")
		return Nil
	}
	items := args[0].Obj.(*ObjList).Items
	fn := args[1]
	acc := args[2]
	for _, v := range items {
		r, ok := vm.CallReentrant(fn, []Value{acc, v})
		if !ok {
			return Nil
		}
		acc = r
	}
	return acc
}

// nativeRetry calls fn (arg 1) up to n times (arg 0), returning the first
// successful result. A "failure" here is a raised VM error caught via
// CallReentrant's ok=false, not a falsey return value.
func nativeRetry(vm *VM, args []Value) Value {
	if !IsNumber(args[0]) {
		vm.Raise(ErrType, "retry: first argument must be a number")
		return Nil
	}
	n := int(args[0].Num)
	fn := args[1]
	var last Value
	for i := 0; i < n; i++ {
		vm.hasError = false
		r, ok := vm.CallReentrant(fn, nil)
		if ok {
			return r
		}
		last = vm.errorValue
	}
	vm.RaiseValue(last)
	return Nil
}

// nativeAppend returns a new list holding xs's elements plus e, leaving xs
// itself unmodified (spec.md §8's `len(append(xs, e)) == len(xs) + 1` law
// only holds if a stale reference to xs can't observe the mutation).
func nativeAppend(vm *VM, args []Value) Value {
	if !IsObjKind(args[0], KindList) {
		vm.Raise(ErrType, "append: first argument must be a list")
		return Nil
	}
	items := args[0].Obj.(*ObjList).Items
	out := make([]Value, len(items)+1)
	copy(out, items)
	out[len(items)] = args[1]
	list := &ObjList{Items: out}
	vm.registerObject(list)
	return ObjVal(list)
}

// nativeStr coerces any value to its string form via the same rules print
// uses (Stringify), so `str(x) == str(y)` agrees with what printing x and y
// would show.
func nativeStr(vm *VM, args []Value) Value {
	if IsString(args[0]) {
		return args[0]
	}
	return vm.InternValue(Stringify(args[0]))
}

// nativePop removes and returns a list's last element in place; unlike
// append it mutates its argument, matching the way it grows in reverse.
func nativePop(vm *VM, args []Value) Value {
	if !IsObjKind(args[0], KindList) {
		vm.Raise(ErrType, "pop: argument must be a list")
		return Nil
	}
	list := args[0].Obj.(*ObjList)
	if len(list.Items) == 0 {
		return Nil
	}
	last := list.Items[len(list.Items)-1]
	list.Items = list.Items[:len(list.Items)-1]
	return last
}

func nativeKeys(vm *VM, args []Value) Value {
	if !IsObjKind(args[0], KindMap) {
		vm.Raise(ErrType, "keys: argument must be a map")
		return Nil
	}
	m := args[0].Obj.(*ObjMap)
	out := make([]Value, len(m.Keys))
	for i, k := range m.Keys {
		out[i] = vm.InternValue(k)
	}
	return vm.NewList(out)
}

func nativeValues(vm *VM, args []Value) Value {
	if !IsObjKind(args[0], KindMap) {
		vm.Raise(ErrType, "values: argument must be a map")
		return Nil
	}
	m := args[0].Obj.(*ObjMap)
	out := make([]Value, len(m.Keys))
	for i, k := range m.Keys {
		out[i] = m.Get(k)
	}
	return vm.NewList(out)
}

// nativeContains checks list membership (by value equality), substring
// presence in a string, or key presence in a map, depending on the
// collection's kind.
func nativeContains(vm *VM, args []Value) Value {
	switch {
	case IsObjKind(args[0], KindList):
		for _, item := range args[0].Obj.(*ObjList).Items {
			if Equal(item, args[1]) {
				return True
			}
		}
		return False
	case IsString(args[0]) && IsString(args[1]):
		return BoolVal(strings.Contains(AsString(args[0]).Chars, AsString(args[1]).Chars))
	case IsObjKind(args[0], KindMap) && IsString(args[1]):
		m := args[0].Obj.(*ObjMap)
		_, ok := m.Entries[AsString(args[1]).Chars]
		return BoolVal(ok)
	default:
		vm.Raise(ErrType, "contains: unsupported argument types")
		return Nil
	}
}

// nativeJoin concatenates a list's elements (stringified the same way
// print does) with an optional separator, defaulting to "".
func nativeJoin(vm *VM, args []Value) Value {
	if len(args) < 1 || !IsObjKind(args[0], KindList) {
		vm.Raise(ErrType, "join: first argument must be a list")
		return Nil
	}
	sep := ""
	if len(args) >= 2 && IsString(args[1]) {
		sep = AsString(args[1]).Chars
	}
	items := args[0].Obj.(*ObjList).Items
	parts := make([]string, len(items))
	for i, v := range items {
		parts[i] = Stringify(v)
	}
	return vm.InternValue(strings.Join(parts, sep))
}

func nativeSplit(vm *VM, args []Value) Value {
	if !IsString(args[0]) || !IsString(args[1]) {
		vm.Raise(ErrType, "split: both arguments must be strings")
		return Nil
	}
	s := AsString(args[0]).Chars
	delim := AsString(args[1]).Chars
	var parts []string
	if delim == "" {
		parts = make([]string, 0, len(s))
		for _, r := range s {
			parts = append(parts, string(r))
		}
	} else {
		parts = strings.Split(s, delim)
	}
	out := make([]Value, len(parts))
	for i, p := range parts {
		out[i] = vm.InternValue(p)
	}
	return vm.NewList(out)
}

func nativeTrim(vm *VM, args []Value) Value {
	if !IsString(args[0]) {
		vm.Raise(ErrType, "trim: argument must be a string")
		return Nil
	}
	return vm.InternValue(strings.TrimSpace(AsString(args[0]).Chars))
}

func nativeUpper(vm *VM, args []Value) Value {
	if !IsString(args[0]) {
		vm.Raise(ErrType, "upper: argument must be a string")
		return Nil
	}
	return vm.InternValue(strings.ToUpper(AsString(args[0]).Chars))
}

func nativeLower(vm *VM, args []Value) Value {
	if !IsString(args[0]) {
		vm.Raise(ErrType, "lower: argument must be a string")
		return Nil
	}
	return vm.InternValue(strings.ToLower(AsString(args[0]).Chars))
}

func nativeStartsWith(vm *VM, args []Value) Value {
	if !IsString(args[0]) || !IsString(args[1]) {
		vm.Raise(ErrType, "starts_with: both arguments must be strings")
		return Nil
	}
	return BoolVal(strings.HasPrefix(AsString(args[0]).Chars, AsString(args[1]).Chars))
}

func nativeEndsWith(vm *VM, args []Value) Value {
	if !IsString(args[0]) || !IsString(args[1]) {
		vm.Raise(ErrType, "ends_with: both arguments must be strings")
		return Nil
	}
	return BoolVal(strings.HasSuffix(AsString(args[0]).Chars, AsString(args[1]).Chars))
}

// nativeSort sorts a list of numbers in place, ascending, and returns it,
// mirroring the original's numeric-only comparator. Only pairs of numbers
// are compared: a non-number counts as equal to every element, so a list
// that mixes in non-numbers comes back only partly ordered.
func nativeSort(vm *VM, args []Value) Value {
	if !IsObjKind(args[0], KindList) {
		vm.Raise(ErrType, "sort: argument must be a list")
		return Nil
	}
	list := args[0].Obj.(*ObjList)
	sort.SliceStable(list.Items, func(i, j int) bool {
		a, b := list.Items[i], list.Items[j]
		if !IsNumber(a) || !IsNumber(b) {
			return false
		}
		return a.Num < b.Num
	})
	return args[0]
}

// nativeNum coerces a value to a number: numbers pass through, strings
// parse with strconv, booleans become 0 or 1.
func nativeNum(vm *VM, args []Value) Value {
	switch {
	case IsNumber(args[0]):
		return args[0]
	case IsString(args[0]):
		n, err := strconv.ParseFloat(strings.TrimSpace(AsString(args[0]).Chars), 64)
		if err != nil {
			vm.Raise(ErrType, "num: %q is not a number", AsString(args[0]).Chars)
			return Nil
		}
		return Number(n)
	case args[0].Type == ValBool:
		if args[0].Bool {
			return Number(1)
		}
		return Number(0)
	default:
		vm.Raise(ErrType, "num: unsupported type")
		return Nil
	}
}

func nativeBool(vm *VM, args []Value) Value {
	return BoolVal(!IsFalsey(args[0]))
}
