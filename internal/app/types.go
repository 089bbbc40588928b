package app

import (
	"conda-project/internal/core"
	"conda-project/internal/types"
)

type InitRequest struct {
	Directory    string
	Name         string
	Dependencies []string
	Channels     []string
	Platforms    []string
	CondaConfigs []string
	Lock         bool
	Install      bool
	Verbose      bool
}

type InitResult struct {
	Directory   string
	ProjectName string
}

type LockRequest struct {
	Directory   string
	Environment string
	Force       bool
	Verbose     bool
}

// EnvironmentLock reports the outcome for one environment, in
// declaration order.
type EnvironmentLock struct {
	Environment string
	Outcome     types.LockOutcome
}

type LockResult struct {
	Locks []EnvironmentLock
}

type CheckRequest struct {
	Directory string
	Verbose   bool
}

type CheckResult struct {
	Statuses []types.CheckStatus
	OK       bool
}

type InstallRequest struct {
	Directory   string
	Environment string
	All         bool
	Force       bool
	AsPlatform  string
	Verbose     bool
}

// EnvironmentInstall reports the outcome for one environment, in
// declaration order.
type EnvironmentInstall struct {
	Environment string
	Result      core.InstallResult
}

type InstallResult struct {
	Installs []EnvironmentInstall
}

type AddRequest struct {
	Directory    string
	Environment  string
	Dependencies []string
	Channels     []string
	Verbose      bool
}

type RemoveRequest struct {
	Directory    string
	Environment  string
	Dependencies []string
	Verbose      bool
}

type UpdateDepsResult struct {
	Environment string
	Result      core.UpdateResult
}

type CleanRequest struct {
	Directory   string
	Environment string
	All         bool
	Verbose     bool
}

type CleanResult struct {
	Cleaned []string
}

type RunRequest struct {
	Directory   string
	Command     string
	Environment string
	ExtraArgs   []string
	Verbose     bool
}

type ActivateRequest struct {
	Directory   string
	Environment string
	Verbose     bool
}
