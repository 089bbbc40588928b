package types

// LockHash carries the identity hashes recorded by the solver for one
// resolved package.
type LockHash struct {
	SHA256 string `yaml:"sha256,omitempty"`
	MD5    string `yaml:"md5,omitempty"`
}

// LockedPackage is one resolved package record pinned by a lock
// artifact for a single platform.
type LockedPackage struct {
	Name     string   `yaml:"name"`
	Version  string   `yaml:"version"`
	Manager  Manager  `yaml:"manager"`
	Platform string   `yaml:"platform"`
	URL      string   `yaml:"url,omitempty"`
	Hash     LockHash `yaml:"hash"`
	Optional bool     `yaml:"optional,omitempty"`
}

// LockMetadata describes how an artifact was produced and carries the
// per-platform content hash used for staleness detection.
type LockMetadata struct {
	ContentHash map[string]string `yaml:"content_hash"`
	Channels    []string          `yaml:"channels"`
	Platforms   []string          `yaml:"platforms"`
	Sources     []string          `yaml:"sources"`
}

// LockArtifact is the machine-generated lock file for one environment.
// It is produced only by the external solver and is never
// hand-constructed.
type LockArtifact struct {
	Metadata LockMetadata    `yaml:"metadata"`
	Packages []LockedPackage `yaml:"package"`
}

// HasPlatform reports whether the artifact was solved for platform.
func (l LockArtifact) HasPlatform(platform string) bool {
	for _, p := range l.Metadata.Platforms {
		if p == platform {
			return true
		}
	}
	return false
}

// PackagesFor returns the non-optional package records pinned for
// platform, in artifact order.
func (l LockArtifact) PackagesFor(platform string) []LockedPackage {
	var out []LockedPackage
	for _, pkg := range l.Packages {
		if pkg.Platform == platform && !pkg.Optional {
			out = append(out, pkg)
		}
	}
	return out
}

// EffectiveSpec is the canonical dependency declaration an environment
// resolves to after layering all of its sources and applying channel
// and platform overrides. It is the input to content hashing.
type EffectiveSpec struct {
	CondaSpecs []string
	PipSpecs   []string
	Channels   []string
}

// InstalledPackage is one package found in a materialized prefix,
// keyed for consistency comparison against lock records.
type InstalledPackage struct {
	Name    string
	Version string
	Manager Manager
	SHA256  string
}

// CheckStatus is the check() report line for one environment.
type CheckStatus struct {
	Environment string
	State       CheckState
}
