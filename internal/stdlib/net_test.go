package stdlib

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"glipt/internal/permission"
	"glipt/internal/vm"
)

func TestHTTPGetRequiresPermission(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("hello"))
	}))
	defer srv.Close()

	v := newTestVM()
	nativeHTTPGet(v, []vm.Value{v.InternValue(srv.URL)})
	if !v.HasError() {
		t.Fatalf("expected permission error without a grant")
	}

	v2 := newTestVM()
	v2.Permissions.Grant(permission.Net, srv.URL)
	got := nativeHTTPGet(v2, []vm.Value{v2.InternValue(srv.URL)})
	if v2.HasError() {
		t.Fatalf("unexpected error: %v", v2.LastError())
	}
	m := got.Obj.(*vm.ObjMap)
	if m.Get("status").Num != 200 {
		t.Fatalf("got status %v, want 200", m.Get("status").Num)
	}
	if vm.AsString(m.Get("body")).Chars != "hello" {
		t.Fatalf("got body %q, want hello", vm.AsString(m.Get("body")).Chars)
	}
}

func TestHTTPPostSendsBody(t *testing.T) {
	var received string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		received = string(data)
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	v := newTestVM()
	v.Permissions.Grant(permission.Net, srv.URL)
	got := nativeHTTPPost(v, []vm.Value{v.InternValue(srv.URL), v.InternValue(`{"x":1}`)})
	if v.HasError() {
		t.Fatalf("unexpected error: %v", v.LastError())
	}
	m := got.Obj.(*vm.ObjMap)
	if m.Get("status").Num != 201 {
		t.Fatalf("got status %v, want 201", m.Get("status").Num)
	}
	if received != `{"x":1}` {
		t.Fatalf("server received %q, want %q", received, `{"x":1}`)
	}
}
