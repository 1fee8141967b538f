package config

import "github.com/BurntSushi/toml"

// Manifest is the optional glipt.toml project file (SPEC_FULL.md §2): a
// natural extension of the VM owning one permission Set per run — a way to
// declare default grants once instead of every script needing its own
// `allow` statements, following the manifest-file convention
// _examples/chazu-maggie and _examples/vovakirdan-surge both use for their
// own project files.
type Manifest struct {
	Import struct {
		Path []string `toml:"path"`
	} `toml:"import"`

	Allow []ManifestGrant `toml:"allow"`
}

// ManifestGrant is one default permission grant declared in glipt.toml.
type ManifestGrant struct {
	Kind   string `toml:"kind"`
	Target string `toml:"target"`
}

// LoadManifest reads and parses path. A missing file is reported as an
// error; cmd/glipt checks that the file exists first and, when it does
// not, applies no default grants. Only the [[allow]] entries are applied;
// the [import] path list is parsed but nothing reads it, and imports
// always resolve against the importing script's directory.
func LoadManifest(path string) (*Manifest, error) {
	var m Manifest
	if _, err := toml.DecodeFile(path, &m); err != nil {
		return nil, err
	}
	return &m, nil
}
