// Package stdlib registers glipt's black-box native modules — file
// system, JSON, YAML, regex, math, networking, process spawning, and
// environment access (spec.md §1) — into a *vm.VM. Each native consults
// internal/permission before touching anything outside the VM's own
// value graph (spec.md §9, "Permission integration").
package stdlib

import "glipt/internal/vm"

// RegisterAll installs every stdlib module. cmd/glipt calls this once per
// VM, after vm.New() and before running a script, keeping internal/vm
// itself free of os/exec, net/http, and the marshaling libraries.
func RegisterAll(v *vm.VM) {
	registerFS(v)
	registerJSON(v)
	registerYAML(v)
	registerRegex(v)
	registerMath(v)
	registerNet(v)
	registerExec(v)
	registerEnv(v)
}
