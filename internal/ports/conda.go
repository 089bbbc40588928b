package ports

import (
	"context"

	"conda-project/internal/types"
)

// CreatePrefixRequest materializes one environment prefix from an
// explicit, platform-pinned package list rendered out of a lock
// artifact.
type CreatePrefixRequest struct {
	Prefix string

	// SpecLines is the rendered explicit conda package list.
	SpecLines []string

	// CondarcPath and Subdir are passed per call; Subdir pins the
	// target platform when it differs from the host.
	CondarcPath string
	Subdir      string

	Force   bool
	Verbose bool
}

// PipInstallRequest is the secondary install pass for foreign-manager
// requirements. It must only run after the primary pass succeeded.
type PipInstallRequest struct {
	Prefix       string
	Requirements []string
	CondarcPath  string
	Verbose      bool
}

// RunRequest executes a command inside a materialized prefix.
type RunRequest struct {
	Prefix     string
	WorkingDir string
	Cmd        string
	ExtraArgs  []string
	Env        map[string]string
}

// CondaPort wraps the external package-manager executable. Every
// method translates a non-zero exit into a domain error carrying the
// captured stderr.
type CondaPort interface {
	CurrentPlatform(ctx context.Context) (string, error)
	CreatePrefix(ctx context.Context, req CreatePrefixRequest) error
	PipInstall(ctx context.Context, req PipInstallRequest) error
	RemovePrefix(ctx context.Context, prefix string, condarcPath string, verbose bool) error
	Run(ctx context.Context, req RunRequest) error

	// PipList enumerates foreign-manager packages installed in the
	// prefix; PipFreezeHashes resolves their live identity hashes.
	// The lock format and the live environment disagree on hash
	// identity for pip, so consistency checking needs both.
	PipList(ctx context.Context, prefix string) ([]types.InstalledPackage, error)
	PipFreezeHashes(ctx context.Context, prefix string) (map[string]string, error)
}
