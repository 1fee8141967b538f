package vm

// binaryAdd implements ADD (spec.md §4.1); binaryArith below covers
// SUB/MUL/DIV/MOD. ADD is overloaded: number+number sums, a string with
// any operand concatenates (a non-string operand is stringified), anything
// else is a type error.
func (vm *VM) binaryAdd() bool {
	b := vm.pop()
	a := vm.pop()
	if IsNumber(a) && IsNumber(b) {
		vm.push(Number(a.Num + b.Num))
		return true
	}
	if IsString(a) || IsString(b) {
		vm.push(vm.InternValue(Stringify(a) + Stringify(b)))
		return true
	}
	vm.Raise(ErrType, "cannot add %s and %s", Stringify(a), Stringify(b))
	return false
}

func (vm *VM) binaryArith(op Op) bool {
	b := vm.pop()
	a := vm.pop()
	if !IsNumber(a) || !IsNumber(b) {
		vm.Raise(ErrType, "operands must be numbers")
		return false
	}
	switch op {
	case OpSub:
		vm.push(Number(a.Num - b.Num))
	case OpMul:
		vm.push(Number(a.Num * b.Num))
	case OpDiv:
		if b.Num == 0 {
			vm.Raise(ErrType, "Division by zero.")
			return false
		}
		vm.push(Number(a.Num / b.Num))
	case OpMod:
		if b.Num == 0 {
			vm.Raise(ErrType, "Division by zero.")
			return false
		}
		ai, bi := int64(a.Num), int64(b.Num)
		vm.push(Number(float64(ai % bi)))
	}
	return true
}

func (vm *VM) unaryNegate() bool {
	v := vm.pop()
	if !IsNumber(v) {
		vm.Raise(ErrType, "operand must be a number")
		return false
	}
	vm.push(Number(-v.Num))
	return true
}

func (vm *VM) compare(op Op) bool {
	b := vm.pop()
	a := vm.pop()
	switch op {
	case OpEqual:
		vm.push(BoolVal(Equal(a, b)))
		return true
	case OpNotEqual:
		vm.push(BoolVal(!Equal(a, b)))
		return true
	}
	if !IsNumber(a) || !IsNumber(b) {
		vm.Raise(ErrType, "cannot compare %s and %s", Stringify(a), Stringify(b))
		return false
	}
	var result bool
	switch op {
	case OpGreater:
		result = a.Num > b.Num
	case OpGreaterEqual:
		result = a.Num >= b.Num
	case OpLess:
		result = a.Num < b.Num
	case OpLessEqual:
		result = a.Num <= b.Num
	}
	vm.push(BoolVal(result))
	return true
}

// indexGet implements spec.md §4.3's indexing semantics: lists take
// integer indices (negative counts from the end), maps take string keys
// and never error on a missing one, strings take integer indices and
// return a freshly interned one-character substring.
func (vm *VM) indexGet() bool {
	key := vm.pop()
	target := vm.pop()
	if target.Type != ValObj {
		vm.Raise(ErrType, "cannot index %s", Stringify(target))
		return false
	}
	switch t := target.Obj.(type) {
	case *ObjList:
		if !IsNumber(key) {
			vm.Raise(ErrType, "list index must be a number")
			return false
		}
		idx := normalizeIndex(int(key.Num), len(t.Items))
		if idx < 0 || idx >= len(t.Items) {
			vm.Raise(ErrType, "list index out of range")
			return false
		}
		vm.push(t.Items[idx])
		return true
	case *ObjMap:
		if !IsString(key) {
			vm.Raise(ErrType, "map key must be a string")
			return false
		}
		vm.push(t.Get(AsString(key).Chars))
		return true
	case *ObjString:
		if !IsNumber(key) {
			vm.Raise(ErrType, "string index must be a number")
			return false
		}
		runes := []rune(t.Chars)
		idx := normalizeIndex(int(key.Num), len(runes))
		if idx < 0 || idx >= len(runes) {
			vm.Raise(ErrType, "string index out of range")
			return false
		}
		vm.push(vm.InternValue(string(runes[idx])))
		return true
	default:
		vm.Raise(ErrType, "cannot index %s", Stringify(target))
		return false
	}
}

// indexSet implements INDEX_SET, leaving the assigned value on the stack
// (spec.md §4.1).
func (vm *VM) indexSet() bool {
	value := vm.pop()
	key := vm.pop()
	target := vm.pop()
	if target.Type != ValObj {
		vm.Raise(ErrType, "cannot index-assign %s", Stringify(target))
		return false
	}
	switch t := target.Obj.(type) {
	case *ObjList:
		if !IsNumber(key) {
			vm.Raise(ErrType, "list index must be a number")
			return false
		}
		idx := normalizeIndex(int(key.Num), len(t.Items))
		if idx < 0 || idx >= len(t.Items) {
			vm.Raise(ErrType, "list index out of range")
			return false
		}
		t.Items[idx] = value
		vm.push(value)
		return true
	case *ObjMap:
		if !IsString(key) {
			vm.Raise(ErrType, "map key must be a string")
			return false
		}
		t.Set(AsString(key).Chars, value)
		vm.push(value)
		return true
	default:
		vm.Raise(ErrType, "cannot index-assign %s", Stringify(target))
		return false
	}
}

func normalizeIndex(idx, length int) int {
	if idx < 0 {
		return length + idx
	}
	return idx
}

// getProperty implements GET_PROPERTY: dot access is a distinct opcode
// from INDEX_GET because it is the only way to reach a map value whose
// key is a compile-time constant, and it also serves `.length` on lists
// and strings (spec.md §4.3).
func (vm *VM) getProperty(name string) bool {
	target := vm.pop()
	if name == "length" {
		switch {
		case IsObjKind(target, KindList):
			vm.push(Number(float64(len(target.Obj.(*ObjList).Items))))
			return true
		case IsString(target):
			vm.push(Number(float64(len([]rune(AsString(target).Chars)))))
			return true
		}
	}
	if IsObjKind(target, KindMap) {
		vm.push(target.Obj.(*ObjMap).Get(name))
		return true
	}
	vm.Raise(ErrType, "%s has no property %q", Stringify(target), name)
	return false
}

func (vm *VM) setProperty(name string) bool {
	value := vm.pop()
	target := vm.pop()
	if !IsObjKind(target, KindMap) {
		vm.Raise(ErrType, "%s has no settable property %q", Stringify(target), name)
		return false
	}
	target.Obj.(*ObjMap).Set(name, value)
	vm.push(value)
	return true
}
