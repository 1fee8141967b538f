package vm

import "hash/fnv"

// InternTable is the single per-VM table of live strings (spec.md §3,
// "String interning invariant"): two string values are equal iff they are
// the same object. Constant-pool deduplication looks strings up here by
// content before allocating.
type InternTable struct {
	strings map[string]*ObjString
}

func NewInternTable() *InternTable {
	return &InternTable{strings: make(map[string]*ObjString)}
}

func hashString(s string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(s))
	return h.Sum32()
}

// Intern returns the canonical *ObjString for s, allocating and linking a
// new one into the VM's object list on first sight.
func (vm *VM) Intern(s string) *ObjString {
	if existing, ok := vm.strings.strings[s]; ok {
		return existing
	}
	obj := &ObjString{Chars: s, Hash: hashString(s)}
	vm.strings.strings[s] = obj
	vm.registerObject(obj)
	return obj
}

// InternValue is the Value-returning convenience wrapper used throughout
// the compiler and natives.
func (vm *VM) InternValue(s string) Value { return ObjVal(vm.Intern(s)) }

// sweepStrings removes every unmarked entry from the intern table. This
// must run before the object-list sweep (spec.md §4.4): "remove unmarked
// strings from the intern table" is "the only subtle step of sweep",
// because otherwise the table would hold dangling pointers to objects the
// sweeper is about to unlink.
func (vm *VM) sweepStrings() {
	for k, s := range vm.strings.strings {
		if !s.marked() {
			delete(vm.strings.strings, k)
		}
	}
}
