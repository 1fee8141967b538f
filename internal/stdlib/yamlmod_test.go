package stdlib

import (
	"strings"
	"testing"

	"glipt/internal/vm"
)

func TestYamlRoundTrip(t *testing.T) {
	v := newTestVM()
	src := "a: 1\nb: two\n"

	parsed := nativeParseYaml(v, []vm.Value{v.InternValue(src)})
	if v.HasError() {
		t.Fatalf("parseYaml error: %v", v.LastError())
	}
	if !vm.IsObjKind(parsed, vm.KindMap) {
		t.Fatalf("expected a map, got %v", parsed)
	}
	m := parsed.Obj.(*vm.ObjMap)
	if got := m.Get("b"); !vm.IsString(got) || vm.AsString(got).Chars != "two" {
		t.Fatalf("expected b: two, got %v", got)
	}

	back := nativeToYaml(v, []vm.Value{parsed})
	if v.HasError() {
		t.Fatalf("toYaml error: %v", v.LastError())
	}
	if !strings.Contains(vm.AsString(back).Chars, "two") {
		t.Fatalf("expected serialized yaml to contain two, got %q", vm.AsString(back).Chars)
	}
}

func TestYamlParseInvalid(t *testing.T) {
	v := newTestVM()
	nativeParseYaml(v, []vm.Value{v.InternValue("a: [1, 2\n")})
	if !v.HasError() {
		t.Fatalf("expected a type error for malformed YAML")
	}
}
