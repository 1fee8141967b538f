package stdlib

import (
	"testing"

	"glipt/internal/vm"
)

func TestRegexMatch(t *testing.T) {
	v := newTestVM()
	got := nativeMatch(v, []vm.Value{v.InternValue(`\d+`), v.InternValue("room 42")})
	if v.HasError() {
		t.Fatalf("match error: %v", v.LastError())
	}
	if got != vm.BoolVal(true) {
		t.Fatalf("expected match, got %v", got)
	}

	got2 := nativeMatch(v, []vm.Value{v.InternValue(`^\d+$`), v.InternValue("room 42")})
	if got2 != vm.BoolVal(false) {
		t.Fatalf("expected no match, got %v", got2)
	}
}

func TestRegexFindAll(t *testing.T) {
	v := newTestVM()
	got := nativeFindAll(v, []vm.Value{v.InternValue(`\d+`), v.InternValue("a1 b22 c333")})
	if v.HasError() {
		t.Fatalf("findAll error: %v", v.LastError())
	}
	list := got.Obj.(*vm.ObjList)
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(list.Items))
	}
}

func TestRegexReplace(t *testing.T) {
	v := newTestVM()
	got := nativeReplace(v, []vm.Value{v.InternValue(`\s+`), v.InternValue("a   b  c"), v.InternValue(" ")})
	if v.HasError() {
		t.Fatalf("replace error: %v", v.LastError())
	}
	if vm.AsString(got).Chars != "a b c" {
		t.Fatalf("got %q, want %q", vm.AsString(got).Chars, "a b c")
	}
}

func TestRegexInvalidPattern(t *testing.T) {
	v := newTestVM()
	nativeMatch(v, []vm.Value{v.InternValue(`(`), v.InternValue("x")})
	if !v.HasError() {
		t.Fatalf("expected a regex error for an invalid pattern")
	}
}
