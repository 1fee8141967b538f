package vm

// GC implements the tri-color mark-sweep collector of spec.md §4.4 over
// the VM's intrusive object list. Go's own runtime already reclaims
// memory; what this collector is responsible for is the mutator-visible
// behavior spec.md §8 tests for — mark reachability, intern-table cleanup
// before sweep, and the allocation-triggered threshold/growth policy — so
// unreachable objects are unlinked from every VM-owned root and from the
// allocation list, and Go's GC then frees them once nothing (including
// this list) still points at them.
type gcState struct {
	objects   Obj // head of the intrusive allocation list
	gray      []Obj
	allocated int
	threshold int
}

func newGCState() *gcState {
	return &gcState{threshold: InitialGCThreshold}
}

// registerObject links a freshly allocated object into the VM's object
// list and accounts its size toward the next collection threshold
// (spec.md §4.4, "Triggers: on allocation when bytes_allocated >
// next_gc_threshold").
func (vm *VM) registerObject(o Obj) {
	o.setNext(vm.gc.objects)
	vm.gc.objects = o
	vm.gc.allocated += objectSize(o)
	if vm.gc.allocated > vm.gc.threshold {
		// o was just allocated and may not yet be reachable from any root
		// (Intern's caller hasn't pushed it anywhere yet; OpBuildList and
		// OpBuildMap pop their elements off the stack before registering
		// the container), so a collection triggered right here could
		// sweep it (and, for a container, its already-unrooted elements)
		// out from under its own allocator. markObject roots o directly
		// and queues it for tracing, which is spec.md §4.4's "push
		// intermediate objects as temporary roots" idiom without
		// threading a stack push/pop through every allocation site.
		vm.markObject(o)
		vm.CollectGarbage()
	}
}

func objectSize(o Obj) int {
	switch v := o.(type) {
	case *ObjString:
		return 24 + len(v.Chars)
	case *ObjList:
		return 24 + len(v.Items)*32
	case *ObjMap:
		return 24 + len(v.Entries)*48
	default:
		return 32
	}
}

// CollectGarbage runs one full mark-sweep cycle. It is not re-entrant and
// must only run between instructions, never while a native is mid-call
// with objects reachable only from its own local variables and not yet
// pushed onto the value stack (spec.md §4.4, "Allocation discipline").
func (vm *VM) CollectGarbage() {
	vm.markRoots()
	vm.traceReferences()
	vm.sweepStrings()
	vm.sweep()
	vm.gc.threshold = vm.gc.allocated * GCGrowthFactor
}

func (vm *VM) markValue(v Value) {
	if v.Type == ValObj && v.Obj != nil {
		vm.markObject(v.Obj)
	}
}

func (vm *VM) markObject(o Obj) {
	if o == nil || o.marked() {
		return
	}
	o.setMarked(true)
	vm.gc.gray = append(vm.gc.gray, o)
}

// markRoots enumerates every root spec.md §4.4 names: the value stack,
// every live frame's closure, every open upvalue, every globals-table
// entry, and every module-cache entry.
func (vm *VM) markRoots() {
	for i := 0; i < vm.stackTop; i++ {
		vm.markValue(vm.stack[i])
	}
	for i := 0; i < vm.frameCount; i++ {
		vm.markObject(vm.frames[i].closure)
	}
	for uv := vm.openUpvalues; uv != nil; uv = uv.NextOpen {
		vm.markObject(uv)
	}
	for _, p := range vm.globals.entries {
		vm.markValue(*p)
	}
	for _, v := range vm.moduleCache {
		vm.markValue(v)
	}
}

// traceReferences drains the gray worklist, blackening each object by
// marking its direct references, per the table in spec.md §4.4.
func (vm *VM) traceReferences() {
	for len(vm.gc.gray) > 0 {
		o := vm.gc.gray[len(vm.gc.gray)-1]
		vm.gc.gray = vm.gc.gray[:len(vm.gc.gray)-1]
		vm.blacken(o)
	}
}

func (vm *VM) blacken(o Obj) {
	switch v := o.(type) {
	case *ObjClosure:
		vm.markObject(v.Function)
		for _, uv := range v.Upvalues {
			vm.markObject(uv)
		}
	case *ObjFunction:
		for _, c := range v.Chunk.Constants {
			vm.markValue(c)
		}
	case *ObjUpvalue:
		vm.markValue(vm.upvalueGet(v))
	case *ObjList:
		for _, item := range v.Items {
			vm.markValue(item)
		}
	case *ObjMap:
		for _, k := range v.Keys {
			vm.markValue(v.Entries[k])
		}
	case *ObjString, *ObjNative:
		// no outgoing references
	}
}

// sweep walks the intrusive object list; unmarked objects are unlinked
// (and thereby left for Go's own collector), marked ones are cleared and
// kept.
func (vm *VM) sweep() {
	var prev Obj
	cur := vm.gc.objects
	for cur != nil {
		next := cur.next()
		if cur.marked() {
			cur.setMarked(false)
			prev = cur
		} else {
			vm.gc.allocated -= objectSize(cur)
			if prev == nil {
				vm.gc.objects = next
			} else {
				prev.setNext(next)
			}
		}
		cur = next
	}
}
