package stdlib

import (
	"io"
	"net/http"
	"strings"
	"time"

	"glipt/internal/permission"
	"glipt/internal/vm"
)

// registerNet uses net/http directly (SPEC_FULL.md §3: no HTTP client
// library appears anywhere in the retrieved pack). Every request is
// permission-checked against its full URL string before it leaves the
// process.
func registerNet(v *vm.VM) {
	v.DefineNative("httpGet", 1, nativeHTTPGet)
	v.DefineNative("httpPost", 2, nativeHTTPPost)
}

var httpClient = &http.Client{Timeout: 30 * time.Second}

func nativeHTTPGet(v *vm.VM, args []vm.Value) vm.Value {
	url, ok := str(v, args, 0, "httpGet")
	if !ok {
		return vm.Nil
	}
	if !v.Permissions.Allowed(permission.Net, url) {
		v.Raise(vm.ErrPermission, "net access to %q not allowed", url)
		return vm.Nil
	}
	resp, err := httpClient.Get(url)
	if err != nil {
		v.Raise(vm.ErrNet, "httpGet %q: %v", url, err)
		return vm.Nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		v.Raise(vm.ErrNet, "httpGet %q: %v", url, err)
		return vm.Nil
	}
	return responseMap(v, resp.StatusCode, body)
}

func nativeHTTPPost(v *vm.VM, args []vm.Value) vm.Value {
	url, ok := str(v, args, 0, "httpPost")
	if !ok {
		return vm.Nil
	}
	payload, ok := str(v, args, 1, "httpPost")
	if !ok {
		return vm.Nil
	}
	if !v.Permissions.Allowed(permission.Net, url) {
		v.Raise(vm.ErrPermission, "net access to %q not allowed", url)
		return vm.Nil
	}
	resp, err := httpClient.Post(url, "application/json", strings.NewReader(payload))
	if err != nil {
		v.Raise(vm.ErrNet, "httpPost %q: %v", url, err)
		return vm.Nil
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		v.Raise(vm.ErrNet, "httpPost %q: %v", url, err)
		return vm.Nil
	}
	return responseMap(v, resp.StatusCode, body)
}

func responseMap(v *vm.VM, status int, body []byte) vm.Value {
	m := v.NewMapObj()
	m.Set("status", vm.Number(float64(status)))
	m.Set("body", v.InternValue(string(body)))
	return vm.ObjVal(m)
}
