package vm

// GlobalsTable is the VM's mutable global-variable table. Go's built-in
// map already rehashes internally, but its buckets aren't observable, so
// this wraps a map[string]*Value (a level of indirection that keeps entry
// pointers stable across insertions) with an explicit generation counter
// that plays the role of spec.md §4.3's "table capacity snapshot": it
// increments when the table grows past its load threshold and when a name
// is deleted, giving the inline cache something to compare against.
type GlobalsTable struct {
	entries    map[string]*Value
	capacity   int
	generation int
}

func NewGlobalsTable() *GlobalsTable {
	return &GlobalsTable{entries: make(map[string]*Value), capacity: 8}
}

func (g *GlobalsTable) growIfNeeded() {
	if len(g.entries) > g.capacity*3/4 {
		g.capacity *= 2
		g.generation++
	}
}

// Define creates or overwrites name unconditionally (used by
// DEFINE_GLOBAL for fn declarations at script scope and by DefineNative;
// var declarations are always locals and never reach it).
func (g *GlobalsTable) Define(name string, v Value) {
	if p, ok := g.entries[name]; ok {
		*p = v
		return
	}
	val := v
	g.entries[name] = &val
	g.growIfNeeded()
}

// Set updates name if present, otherwise defines it. spec.md §9's open
// question resolves this liberally: "SET_GLOBAL on an undefined name...
// silently defines one."
func (g *GlobalsTable) Set(name string, v Value) {
	if p, ok := g.entries[name]; ok {
		*p = v
		return
	}
	g.Define(name, v)
}

func (g *GlobalsTable) Get(name string) (Value, bool) {
	if p, ok := g.entries[name]; ok {
		return *p, true
	}
	return Nil, false
}

// Entry exposes the stable pointer backing name, for the inline cache.
func (g *GlobalsTable) Entry(name string) (*Value, bool) {
	p, ok := g.entries[name]
	return p, ok
}

// Delete removes name and bumps the generation counter, invalidating any
// inline-cache slot pointing at its (now-freed) entry — a plain map
// delete leaves a slot's cached entry pointer and generation matching,
// so a stale cache hit would keep returning the deleted value instead of
// the undefined-variable error a fresh GET_GLOBAL must raise.
func (g *GlobalsTable) Delete(name string) {
	delete(g.entries, name)
	g.generation++
}

// globalCacheSlot is the (key_pointer, entry_pointer, table_capacity_snapshot)
// triple spec.md §4.3 describes; key is the interned string's identity
// (not its contents), so the comparison is a pointer compare.
type globalCacheSlot struct {
	key        *ObjString
	entry      *Value
	generation int
}

// GlobalCache is the fixed-size direct-mapped inline cache for global
// lookups, keyed by the low bits of the interned key's hash.
type GlobalCache struct {
	slots []globalCacheSlot
}

func NewGlobalCache(size int) *GlobalCache {
	return &GlobalCache{slots: make([]globalCacheSlot, size)}
}

func (c *GlobalCache) index(key *ObjString) int {
	return int(key.Hash) % len(c.slots)
}

// GetGlobal implements the GET_GLOBAL fast path: cache hit iff the slot's
// key is this exact interned string and the globals table hasn't rehashed
// since the slot was populated.
func (vm *VM) GetGlobal(key *ObjString) (Value, bool) {
	slot := &vm.globalCache.slots[vm.globalCache.index(key)]
	if slot.key == key && slot.generation == vm.globals.generation {
		return *slot.entry, true
	}
	p, ok := vm.globals.Entry(key.Chars)
	if !ok {
		return Nil, false
	}
	*slot = globalCacheSlot{key: key, entry: p, generation: vm.globals.generation}
	return *p, true
}

// SetGlobal implements SET_GLOBAL, refreshing the same cache slot.
func (vm *VM) SetGlobal(key *ObjString, v Value) {
	vm.globals.Set(key.Chars, v)
	p, _ := vm.globals.Entry(key.Chars)
	slot := &vm.globalCache.slots[vm.globalCache.index(key)]
	*slot = globalCacheSlot{key: key, entry: p, generation: vm.globals.generation}
}

// DefineGlobal implements DEFINE_GLOBAL.
func (vm *VM) DefineGlobal(key *ObjString, v Value) {
	vm.globals.Define(key.Chars, v)
	p, _ := vm.globals.Entry(key.Chars)
	slot := &vm.globalCache.slots[vm.globalCache.index(key)]
	*slot = globalCacheSlot{key: key, entry: p, generation: vm.globals.generation}
}
