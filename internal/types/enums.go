package types

// Manager identifies which package manager owns a dependency or an
// installed record.
type Manager string

const (
	ManagerConda Manager = "conda"
	ManagerPip   Manager = "pip"
)

// CheckState is the per-environment result of a project check.
type CheckState string

const (
	CheckStateNotLocked CheckState = "not-locked"
	CheckStateOutOfDate CheckState = "out-of-date"
	CheckStateOK        CheckState = "ok"
)

// LockOutcome reports what a lock call actually did so call sites can
// branch on data instead of catching.
type LockOutcome string

const (
	LockUnchanged LockOutcome = "unchanged"
	LockRelocked  LockOutcome = "relocked"
)

// InstallOutcome distinguishes the three terminal states of an install:
// a fresh (or forced) materialization, an untouched up-to-date prefix,
// and an untouched prefix that no longer matches its lock artifact.
type InstallOutcome string

const (
	InstallCreated      InstallOutcome = "created"
	InstallAlreadyFresh InstallOutcome = "already-up-to-date"
	InstallMismatch     InstallOutcome = "exists-but-mismatched"
)
