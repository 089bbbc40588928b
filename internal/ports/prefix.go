package ports

import "conda-project/internal/types"

// PrefixDataPort reads and writes the marker state of a materialized
// prefix directory.
type PrefixDataPort interface {
	// IsInstalled reports whether the prefix carries the
	// installed-package marker (conda-meta/history).
	IsInstalled(prefix string) bool

	// InstalledCondaRecords enumerates the native-manager packages
	// recorded under conda-meta, with their manager-supplied hashes.
	InstalledCondaRecords(prefix string) ([]types.InstalledPackage, error)

	// PlatformMarker returns the platform the prefix was materialized
	// for when that differs from the host, or "" if no marker exists.
	PlatformMarker(prefix string) (string, error)
	WritePlatformMarker(prefix string, platform string) error

	// WriteIgnoreMarker writes the ignore-marker file so the prefix is
	// excluded from version control by convention.
	WriteIgnoreMarker(prefix string) error
}
