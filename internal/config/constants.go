// Package config holds ambient constants shared by the lexer, compiler,
// and interpreter: source file conventions and the VM's fixed-size
// resource budgets (spec.md §4.3, §4.4).
package config

import "strings"

// SourceFileExt is the canonical glipt source extension, used by the
// import runtime (spec.md §4.5) when a bare module name has none.
const SourceFileExt = ".glipt"

// ManifestFileName is the optional project manifest loaded by the CLI.
const ManifestFileName = "glipt.toml"

// TrimSourceExt strips a recognized source extension from a file name.
func TrimSourceExt(name string) string {
	return strings.TrimSuffix(name, SourceFileExt)
}

// HasSourceExt reports whether path already carries the source extension.
func HasSourceExt(path string) bool {
	return strings.HasSuffix(path, SourceFileExt)
}

const (
	// MaxLocals bounds a single function's local-variable stack
	// (spec.md §4.2: "a stack (max 256) of locals").
	MaxLocals = 256

	// MaxUpvalues bounds a single function's upvalue list.
	MaxUpvalues = 256

	// MaxBreakJumps bounds the number of pending break jumps a single
	// loop may accumulate before patching (spec.md §4.2).
	MaxBreakJumps = 64

	// InitialStackSize is the operand stack's size in Values; the stack is
	// allocated once at this size and never grows. spec.md §4.3 suggests
	// "e.g. 256 x 256 slots".
	InitialStackSize = 256 * 256

	// MaxFrames bounds VM call-frame nesting (spec.md §4.3).
	MaxFrames = 1024

	// MaxHandlers bounds the error-handler stack (spec.md §4.3: "e.g. 64").
	MaxHandlers = 64

	// GlobalCacheSize is the number of direct-mapped slots in the global
	// inline cache (spec.md §4.3: "e.g. 512 slots").
	GlobalCacheSize = 512

	// InitialGCThreshold is the number of bytes allocated before the
	// first collection is triggered (spec.md §4.4).
	InitialGCThreshold = 1 << 20 // 1 MiB

	// GCGrowthFactor is applied to bytesAllocated after each collection to
	// compute the next threshold (spec.md §4.4: "threshold = bytes * 2").
	GCGrowthFactor = 2
)
