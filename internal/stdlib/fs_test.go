package stdlib

import (
	"os"
	"path/filepath"
	"testing"

	"glipt/internal/permission"
	"glipt/internal/vm"
)

func newTestVM() *vm.VM {
	v := vm.New()
	RegisterAll(v)
	return v
}

func TestReadFileRequiresPermission(t *testing.T) {
	v := newTestVM()
	dir := t.TempDir()
	path := filepath.Join(dir, "f.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatalf("setup: %v", err)
	}

	nativeReadFile(v, []vm.Value{v.InternValue(path)})
	if !v.HasError() {
		t.Fatalf("expected permission error without a grant")
	}

	v2 := newTestVM()
	v2.Permissions.Grant(permission.FS, dir+"/*")
	result := nativeReadFile(v2, []vm.Value{v2.InternValue(path)})
	if v2.HasError() {
		t.Fatalf("unexpected error: %v", v2.LastError())
	}
	if !vm.IsString(result) || vm.AsString(result).Chars != "hello" {
		t.Fatalf("got %v, want hello", result)
	}
}

func TestWriteThenReadRoundTrip(t *testing.T) {
	v := newTestVM()
	dir := t.TempDir()
	v.Permissions.Grant(permission.FS, dir+"/*")
	path := filepath.Join(dir, "out.txt")

	nativeWriteFile(v, []vm.Value{v.InternValue(path), v.InternValue("payload")})
	if v.HasError() {
		t.Fatalf("write error: %v", v.LastError())
	}

	result := nativeReadFile(v, []vm.Value{v.InternValue(path)})
	if v.HasError() {
		t.Fatalf("read error: %v", v.LastError())
	}
	if vm.AsString(result).Chars != "payload" {
		t.Fatalf("got %q, want payload", vm.AsString(result).Chars)
	}
}

func TestExistsReflectsFilesystem(t *testing.T) {
	v := newTestVM()
	dir := t.TempDir()
	v.Permissions.Grant(permission.FS, dir+"/*")
	present := filepath.Join(dir, "here.txt")
	os.WriteFile(present, []byte("x"), 0o644)
	missing := filepath.Join(dir, "nope.txt")

	if got := nativeExists(v, []vm.Value{v.InternValue(present)}); got != vm.BoolVal(true) {
		t.Fatalf("expected exists true for %s", present)
	}
	if got := nativeExists(v, []vm.Value{v.InternValue(missing)}); got != vm.BoolVal(false) {
		t.Fatalf("expected exists false for %s", missing)
	}
}
