package vm

import (
	"os"
	"path/filepath"

	"glipt/internal/config"
	"glipt/internal/parser"
)

// importModule implements IMPORT (spec.md §4.5). On a cache hit it just
// rebinds the cached export map under name; otherwise it resolves path
// relative to ScriptDir, compiles and runs the file as a fresh top-level
// script via the same re-entrant call discipline natives use, then
// captures every global the run introduced as the module's exports and
// strips them back out of the importer's globals table so module-private
// names never leak.
func (vm *VM) importModule(path, name string) {
	if cached, ok := vm.moduleCache[path]; ok {
		vm.globals.Define(name, cached)
		return
	}

	fullPath := resolveImportPath(vm.ScriptDir, path)
	src, err := os.ReadFile(fullPath)
	if err != nil {
		vm.Raise(ErrIO, "cannot read module %q: %v", path, err)
		return
	}

	before := make(map[string]bool, len(vm.globals.entries))
	for k := range vm.globals.entries {
		before[k] = true
	}

	prog, errs := parser.ParseProgram(string(src))
	if len(errs) > 0 {
		vm.Raise(ErrType, "module %q: %s", path, errs[0])
		return
	}
	fn, cerr := vm.Compile(prog, filepath.Base(fullPath))
	if cerr != nil {
		vm.Raise(ErrType, "module %q: %v", path, cerr)
		return
	}

	closure := &ObjClosure{Function: fn, Upvalues: make([]*ObjUpvalue, fn.UpvalueCount)}
	vm.registerObject(closure)

	savedBase := vm.baseFrameCount
	vm.baseFrameCount = vm.frameCount
	vm.push(ObjVal(closure))
	if !vm.callClosure(closure, 0) {
		vm.baseFrameCount = savedBase
		return
	}
	_, runErr := vm.run()
	vm.baseFrameCount = savedBase
	if runErr != nil || vm.hasError {
		return
	}

	exports := NewMap()
	for k, p := range vm.globals.entries {
		if !before[k] {
			exports.Set(k, *p)
		}
	}
	for _, k := range append([]string{}, exports.Keys...) {
		vm.globals.Delete(k)
	}
	vm.registerObject(exports)

	modVal := ObjVal(exports)
	vm.moduleCache[path] = modVal
	vm.globals.Define(name, modVal)
}

func resolveImportPath(scriptDir, path string) string {
	if !config.HasSourceExt(path) {
		path += config.SourceFileExt
	}
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(scriptDir, path)
}
