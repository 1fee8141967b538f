// Package permission implements the capability-like grant set the VM
// interrogates before sensitive operations (spec.md §1: "Permission
// enforcement policy ... a glob-matching predicate over a typed target
// string ... its implementation is trivial", and §9 "Permission
// integration"). The VM owns one Set per run; natives call Allowed before
// touching the file system, network, or a subprocess.
package permission

import "path/filepath"

// Kind names a permission category. spec.md leaves the exact set open;
// these mirror the stdlib modules named in spec.md §1.
type Kind string

const (
	FS   Kind = "fs"
	Net  Kind = "net"
	Exec Kind = "exec"
	Env  Kind = "env"
)

// grant is one `allow kind "glob"` declaration.
type grant struct {
	kind   Kind
	target string
}

// Set is the typed permission set owned by the VM (spec.md §9). It is
// intentionally a flat slice: grants are few per program and Allowed runs
// rarely enough that a glob-matching predicate scan is the right amount
// of machinery, per spec.md's "its implementation is trivial".
type Set struct {
	grants []grant
}

// New returns an empty permission set.
func New() *Set {
	return &Set{}
}

// Grant records that operations of Kind on targets matching glob are
// permitted. Called by the VM's ALLOW opcode handler (spec.md §4.1).
func (s *Set) Grant(kind Kind, glob string) {
	s.grants = append(s.grants, grant{kind: kind, target: glob})
}

// Allowed reports whether an operation of the given kind against target
// has been granted by a matching glob. A malformed glob never matches
// (fails safe rather than panicking).
func (s *Set) Allowed(kind Kind, target string) bool {
	for _, g := range s.grants {
		if g.kind != kind {
			continue
		}
		if ok, err := filepath.Match(g.target, target); err == nil && ok {
			return true
		}
	}
	return false
}
