package vm

import "fmt"

// ObjKind tags a heap object's variant (spec.md §3, "heap object header").
type ObjKind uint8

const (
	KindString ObjKind = iota
	KindFunction
	KindClosure
	KindUpvalue
	KindNative
	KindList
	KindMap
)

// Obj is implemented by every heap-allocated variant. The three-field
// header spec.md §3 mandates (type tag, mark bit, next-pointer) is the
// Kind() method plus the embedded objHeader every variant carries; the
// intrusive allocation list the sweeper walks is objHeader.nextObj.
type Obj interface {
	Kind() ObjKind
	Inspect() string

	marked() bool
	setMarked(bool)
	next() Obj
	setNext(Obj)
}

type objHeader struct {
	isMarked bool
	nextObj  Obj
}

func (h *objHeader) marked() bool     { return h.isMarked }
func (h *objHeader) setMarked(m bool) { h.isMarked = m }
func (h *objHeader) next() Obj        { return h.nextObj }
func (h *objHeader) setNext(n Obj)    { h.nextObj = n }

// ObjString is an immutable, interned byte sequence (spec.md §3).
type ObjString struct {
	objHeader
	Chars string
	Hash  uint32
}

func (s *ObjString) Kind() ObjKind   { return KindString }
func (s *ObjString) Inspect() string { return s.Chars }

// ObjFunction is a compiled function body: arity, upvalue count, and chunk.
type ObjFunction struct {
	objHeader
	Name         string
	Arity        int
	UpvalueCount int
	Chunk        *Chunk
}

func (f *ObjFunction) Kind() ObjKind { return KindFunction }
func (f *ObjFunction) Inspect() string {
	if f.Name == "" {
		return "<script>"
	}
	return fmt.Sprintf("<fn %s>", f.Name)
}

// ObjUpvalue references a variable outside its closure's own frame. While
// open (Slot >= 0), it refers to vm.stack[Slot]; closeUpvalues copies the
// live value into Closed and sets Slot to -1. Representing the open
// location as a stack index rather than a raw pointer avoids depending on
// vm.stack never reallocating underneath live *Value pointers.
type ObjUpvalue struct {
	objHeader
	Slot   int
	Closed Value

	// NextOpen threads this upvalue into the VM's open-upvalue list,
	// ordered by descending stack address (spec.md §4.3). This is a
	// runtime bookkeeping link, distinct from the GC's objHeader.nextObj.
	NextOpen *ObjUpvalue
}

func (u *ObjUpvalue) Kind() ObjKind   { return KindUpvalue }
func (u *ObjUpvalue) Inspect() string { return "<upvalue>" }

func (u *ObjUpvalue) IsOpen() bool { return u.Slot >= 0 }

// ObjClosure pairs a function with its captured upvalues.
type ObjClosure struct {
	objHeader
	Function *ObjFunction
	Upvalues []*ObjUpvalue
}

func (c *ObjClosure) Kind() ObjKind   { return KindClosure }
func (c *ObjClosure) Inspect() string { return fmt.Sprintf("<fn %s>", c.Function.Name) }

// NativeFn is the ABI spec.md §6 mandates: it reads argc arguments from
// args and returns a single result. Errors are raised through vm.Raise,
// per §6 ("its return value is then ignored").
type NativeFn func(vm *VM, args []Value) Value

// ObjNative wraps a host function as a callable value. Arity -1 is
// variadic; other values are checked before invocation (spec.md §6).
type ObjNative struct {
	objHeader
	Name  string
	Arity int
	Fn    NativeFn
}

func (n *ObjNative) Kind() ObjKind   { return KindNative }
func (n *ObjNative) Inspect() string { return fmt.Sprintf("<native %s>", n.Name) }

// ObjList is a contiguous growable array of values.
type ObjList struct {
	objHeader
	Items []Value
}

func (l *ObjList) Kind() ObjKind { return KindList }
func (l *ObjList) Inspect() string {
	s := "["
	for i, v := range l.Items {
		if i > 0 {
			s += ", "
		}
		s += Stringify(v)
	}
	return s + "]"
}

// ObjMap is a hash table with string keys only (spec.md §3). Keys records
// insertion order so iteration and Inspect are deterministic.
type ObjMap struct {
	objHeader
	Keys    []string
	Entries map[string]Value
}

func NewMap() *ObjMap { return &ObjMap{Entries: make(map[string]Value)} }

func (m *ObjMap) Kind() ObjKind { return KindMap }
func (m *ObjMap) Inspect() string {
	s := "{"
	for i, k := range m.Keys {
		if i > 0 {
			s += ", "
		}
		s += k + ": " + Stringify(m.Entries[k])
	}
	return s + "}"
}

// Get returns the value for key, or Nil if absent (spec.md §4.3: "missing
// key yields nil, never an error").
func (m *ObjMap) Get(key string) Value {
	if v, ok := m.Entries[key]; ok {
		return v
	}
	return Nil
}

// Set inserts or updates key, tracking first-seen insertion order.
func (m *ObjMap) Set(key string, v Value) {
	if _, exists := m.Entries[key]; !exists {
		m.Keys = append(m.Keys, key)
	}
	m.Entries[key] = v
}

// Delete removes key, if present, from both the entry table and the
// order slice. (The import runtime strips module-private names with
// GlobalsTable.Delete, not with this method.)
func (m *ObjMap) Delete(key string) {
	if _, ok := m.Entries[key]; !ok {
		return
	}
	delete(m.Entries, key)
	for i, k := range m.Keys {
		if k == key {
			m.Keys = append(m.Keys[:i], m.Keys[i+1:]...)
			break
		}
	}
}
