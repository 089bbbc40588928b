package ports

import "conda-project/internal/types"

// SpecSourcePort loads and persists the human-edited declaration
// documents. Snapshot and Restore expose the raw bytes of a document
// so a failed mutation can be rolled back exactly.
type SpecSourcePort interface {
	LoadEnvironmentFile(path string) (types.EnvironmentFile, error)
	SaveEnvironmentFile(path string, doc types.EnvironmentFile) error

	LoadProjectFile(path string) (types.ProjectFile, error)
	SaveProjectFile(path string, doc types.ProjectFile) error

	Snapshot(path string) ([]byte, error)
	Restore(path string, data []byte) error
}

// LockfileStorePort persists lock artifacts. Write must be atomic:
// the previous artifact stays byte-for-byte unchanged unless the new
// one is written out completely.
type LockfileStorePort interface {
	Exists(path string) bool
	Read(path string) (types.LockArtifact, error)
	Write(path string, artifact types.LockArtifact) error
}
