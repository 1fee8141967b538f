package stdlib

import (
	"testing"

	"glipt/internal/vm"
)

func TestJsonRoundTrip(t *testing.T) {
	v := newTestVM()
	const canonical = `{"a":1,"b":"two"}`

	parsed := nativeParseJson(v, []vm.Value{v.InternValue(canonical)})
	if v.HasError() {
		t.Fatalf("parseJson error: %v", v.LastError())
	}
	if !vm.IsObjKind(parsed, vm.KindMap) {
		t.Fatalf("expected a map, got %v", parsed)
	}

	back := nativeToJson(v, []vm.Value{parsed})
	if v.HasError() {
		t.Fatalf("toJson error: %v", v.LastError())
	}
	if !vm.IsString(back) {
		t.Fatalf("expected a string, got %v", back)
	}

	// Key order is not guaranteed to survive the map[string]any round trip
	// (spec.md §8's law states key order is irrelevant), so re-parse and
	// compare field values rather than the raw bytes.
	reparsed := nativeParseJson(v, []vm.Value{back})
	if v.HasError() {
		t.Fatalf("re-parseJson error: %v", v.LastError())
	}
	m := reparsed.Obj.(*vm.ObjMap)
	if m.Get("a").Num != 1 {
		t.Fatalf("got a=%v, want 1", m.Get("a"))
	}
	if vm.AsString(m.Get("b")).Chars != "two" {
		t.Fatalf("got b=%q, want two", vm.AsString(m.Get("b")).Chars)
	}
}

func TestJsonParseInvalid(t *testing.T) {
	v := newTestVM()
	nativeParseJson(v, []vm.Value{v.InternValue("{not json")})
	if !v.HasError() {
		t.Fatalf("expected a type error for malformed JSON")
	}
}

func TestJsonParseList(t *testing.T) {
	v := newTestVM()
	parsed := nativeParseJson(v, []vm.Value{v.InternValue("[1,2,3]")})
	if v.HasError() {
		t.Fatalf("parseJson error: %v", v.LastError())
	}
	if !vm.IsObjKind(parsed, vm.KindList) {
		t.Fatalf("expected a list, got %v", parsed)
	}
}
