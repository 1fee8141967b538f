package vm

// captureUpvalue implements spec.md §4.3's capture step: search the
// VM-wide open-upvalue list (ordered by descending stack address) for one
// already pointing at slot, otherwise allocate and insert it in order.
func (vm *VM) captureUpvalue(slot int) *ObjUpvalue {
	var prev *ObjUpvalue
	cur := vm.openUpvalues
	for cur != nil && cur.Slot > slot {
		prev = cur
		cur = cur.NextOpen
	}
	if cur != nil && cur.Slot == slot {
		return cur
	}

	created := &ObjUpvalue{Slot: slot}
	created.NextOpen = cur
	if prev == nil {
		vm.openUpvalues = created
	} else {
		prev.NextOpen = created
	}
	vm.registerObject(created)
	return created
}

// upvalueGet reads the upvalue's current value, whether open or closed.
func (vm *VM) upvalueGet(uv *ObjUpvalue) Value {
	if uv.IsOpen() {
		return vm.stack[uv.Slot]
	}
	return uv.Closed
}

// upvalueSet writes through the upvalue, whether open or closed.
func (vm *VM) upvalueSet(uv *ObjUpvalue, v Value) {
	if uv.IsOpen() {
		vm.stack[uv.Slot] = v
	} else {
		uv.Closed = v
	}
}

// closeUpvalues closes every open upvalue at or above boundary, copying
// the live stack value into the upvalue's own Closed field (spec.md
// §4.3). This is the single mechanism giving two closures over the same
// variable exact write sharing: once closed, both closures' Upvalue
// entries are the same *ObjUpvalue, so reads/writes through either see
// the other's effect regardless of the frame that used to hold the slot.
func (vm *VM) closeUpvalues(boundary int) {
	for vm.openUpvalues != nil && vm.openUpvalues.Slot >= boundary {
		uv := vm.openUpvalues
		uv.Closed = vm.stack[uv.Slot]
		uv.Slot = -1
		vm.openUpvalues = uv.NextOpen
		uv.NextOpen = nil
	}
}
