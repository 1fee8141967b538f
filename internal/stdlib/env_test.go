package stdlib

import (
	"testing"

	"glipt/internal/permission"
	"glipt/internal/vm"
)

func TestEnvRequiresPermission(t *testing.T) {
	v := newTestVM()
	t.Setenv("GLIPT_TEST_VAR", "value")

	nativeEnv(v, []vm.Value{v.InternValue("GLIPT_TEST_VAR")})
	if !v.HasError() {
		t.Fatalf("expected permission error without a grant")
	}

	v2 := newTestVM()
	v2.Permissions.Grant(permission.Env, "GLIPT_TEST_VAR")
	got := nativeEnv(v2, []vm.Value{v2.InternValue("GLIPT_TEST_VAR")})
	if v2.HasError() {
		t.Fatalf("unexpected error: %v", v2.LastError())
	}
	if vm.AsString(got).Chars != "value" {
		t.Fatalf("got %q, want value", vm.AsString(got).Chars)
	}
}

func TestEnvMissingVarIsNil(t *testing.T) {
	v := newTestVM()
	v.Permissions.Grant(permission.Env, "GLIPT_DOES_NOT_EXIST")
	got := nativeEnv(v, []vm.Value{v.InternValue("GLIPT_DOES_NOT_EXIST")})
	if v.HasError() {
		t.Fatalf("unexpected error: %v", v.LastError())
	}
	if got != vm.Nil {
		t.Fatalf("expected nil for a missing variable, got %v", got)
	}
}

func TestArgsExposesProcessArgs(t *testing.T) {
	v := newTestVM()
	v.Args = []string{"glipt", "run", "script.glipt"}
	got := nativeArgs(v, nil)
	list := got.Obj.(*vm.ObjList)
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 args, got %d", len(list.Items))
	}
	if vm.AsString(list.Items[1]).Chars != "run" {
		t.Fatalf("got %q, want run", vm.AsString(list.Items[1]).Chars)
	}
}
