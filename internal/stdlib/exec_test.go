package stdlib

import (
	"testing"

	"glipt/internal/permission"
	"glipt/internal/vm"
)

func TestExecRequiresPermission(t *testing.T) {
	v := newTestVM()
	nativeExec(v, []vm.Value{v.InternValue("echo hi")})
	if !v.HasError() {
		t.Fatalf("expected permission error without a grant")
	}
}

func TestExecRunsCommand(t *testing.T) {
	v := newTestVM()
	v.Permissions.Grant(permission.Exec, "echo hi")
	got := nativeExec(v, []vm.Value{v.InternValue("echo hi")})
	if v.HasError() {
		t.Fatalf("unexpected error: %v", v.LastError())
	}
	m := got.Obj.(*vm.ObjMap)
	if vm.AsString(m.Get("stdout")).Chars != "hi" {
		t.Fatalf("got stdout %q, want hi", vm.AsString(m.Get("stdout")).Chars)
	}
	if m.Get("exitCode").Num != 0 {
		t.Fatalf("got exit code %v, want 0", m.Get("exitCode").Num)
	}
}

func TestExecNonZeroExitIsNotAnError(t *testing.T) {
	v := newTestVM()
	v.Permissions.Grant(permission.Exec, "exit 3")
	got := nativeExec(v, []vm.Value{v.InternValue("exit 3")})
	if v.HasError() {
		t.Fatalf("a nonzero exit should not raise, got %v", v.LastError())
	}
	m := got.Obj.(*vm.ObjMap)
	if m.Get("exitCode").Num != 3 {
		t.Fatalf("got exit code %v, want 3", m.Get("exitCode").Num)
	}
}

func TestParallelExecRunsAllCommands(t *testing.T) {
	v := newTestVM()
	v.Permissions.Grant(permission.Exec, "echo *")
	cmds := v.NewList([]vm.Value{v.InternValue("echo a"), v.InternValue("echo b"), v.InternValue("echo c")})
	got := nativeParallelExec(v, []vm.Value{cmds})
	if v.HasError() {
		t.Fatalf("unexpected error: %v", v.LastError())
	}
	list := got.Obj.(*vm.ObjList)
	if len(list.Items) != 3 {
		t.Fatalf("expected 3 results, got %d", len(list.Items))
	}
	seen := map[string]bool{}
	for _, item := range list.Items {
		m := item.Obj.(*vm.ObjMap)
		seen[vm.AsString(m.Get("stdout")).Chars] = true
	}
	for _, want := range []string{"a", "b", "c"} {
		if !seen[want] {
			t.Fatalf("missing output %q among results: %v", want, seen)
		}
	}
}

func TestParallelExecDeniesUngrantedCommand(t *testing.T) {
	v := newTestVM()
	v.Permissions.Grant(permission.Exec, "echo a")
	cmds := v.NewList([]vm.Value{v.InternValue("echo a"), v.InternValue("rm -rf /")})
	nativeParallelExec(v, []vm.Value{cmds})
	if !v.HasError() {
		t.Fatalf("expected a permission error for the ungranted command")
	}
}
