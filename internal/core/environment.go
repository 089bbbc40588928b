package core

import (
	"bytes"
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"conda-project/internal/ports"
	"conda-project/internal/types"
)

// Environment aggregates one named dependency-source set, its lock
// artifact, and its materialized prefix. The struct holds identity
// fields only; all derived state (is it locked, is it consistent) is
// recomputed from disk on demand.
type Environment struct {
	Name         string
	Sources      []string
	PrefixPath   string
	LockfilePath string

	// Project-level values passed at construction instead of a
	// back-reference to the owning project.
	ProjectDir  string
	CondarcPath string
	Variables   map[string]*string

	locks    *LockCoordinator
	checker  *ConsistencyChecker
	conda    ports.CondaPort
	specs    ports.SpecSourcePort
	store    ports.LockfileStorePort
	prefixes ports.PrefixDataPort
	shell    ports.ShellPort
}

// InstallOptions drives the materialization state machine.
type InstallOptions struct {
	Force      bool
	AsPlatform string
	Verbose    bool
}

// InstallResult reports what Install actually did.
type InstallResult struct {
	Prefix   string
	Outcome  types.InstallOutcome
	Platform string
	Relocked bool
}

// UpdateResult reports what a dependency mutation actually did.
type UpdateResult struct {
	Changed     bool
	Outcome     types.LockOutcome
	Reinstalled bool
}

func (e *Environment) IsLocked() (bool, error) {
	return e.locks.IsLocked(e)
}

func (e *Environment) IsConsistent(ctx context.Context) (bool, error) {
	return e.checker.IsConsistent(ctx, e)
}

// Lock regenerates the lock artifact unless it is already fresh.
func (e *Environment) Lock(ctx context.Context, force bool, verbose bool) (types.LockOutcome, error) {
	return e.locks.Lock(ctx, e, force, verbose)
}

// Install materializes the environment prefix from its lock artifact.
// The lock artifact is created or refreshed first when stale for the
// target platform. An existing consistent prefix is returned unchanged;
// an existing inconsistent prefix is also returned unchanged but with a
// distinct outcome so callers can tell the two cases apart.
func (e *Environment) Install(ctx context.Context, opts InstallOptions) (InstallResult, error) {
	host, err := e.conda.CurrentPlatform(ctx)
	if err != nil {
		return InstallResult{}, err
	}
	platform := host
	if opts.AsPlatform != "" {
		platform = opts.AsPlatform
	} else {
		marker, err := e.prefixes.PlatformMarker(e.PrefixPath)
		if err != nil {
			return InstallResult{}, err
		}
		if marker != "" {
			platform = marker
		}
	}

	result := InstallResult{Prefix: e.PrefixPath, Platform: platform}

	lockedFor, err := e.locks.IsLockedForPlatform(e, platform)
	if err != nil {
		return InstallResult{}, err
	}
	if !lockedFor {
		if e.store.Exists(e.LockfilePath) {
			log.Info().Str("environment", e.Name).Msg("lock artifact is out-of-date, re-locking")
		}
		if _, err := e.locks.Lock(ctx, e, false, opts.Verbose); err != nil {
			return InstallResult{}, err
		}
		result.Relocked = true
	}

	consistent, err := e.IsConsistent(ctx)
	if err != nil {
		return InstallResult{}, err
	}
	if consistent && !opts.Force {
		result.Outcome = types.InstallAlreadyFresh
		return result, nil
	}
	if e.prefixes.IsInstalled(e.PrefixPath) && !consistent && !opts.Force {
		result.Outcome = types.InstallMismatch
		return result, nil
	}

	artifact, err := e.store.Read(e.LockfilePath)
	if err != nil {
		return InstallResult{}, err
	}
	if !artifact.HasPlatform(platform) {
		return InstallResult{}, platformUnsupportedError(fmt.Sprintf(
			"platform %s is not in the locked platforms for environment %s; "+
				"edit the environment sources and run 'conda-project lock', or use --as-platform",
			platform, e.Name))
	}

	condaLines, pipReqs := renderExplicit(artifact, platform)

	subdir := ""
	if platform != host {
		subdir = platform
	}
	if err := e.conda.CreatePrefix(ctx, ports.CreatePrefixRequest{
		Prefix:      e.PrefixPath,
		SpecLines:   condaLines,
		CondarcPath: e.CondarcPath,
		Subdir:      subdir,
		Force:       opts.Force,
		Verbose:     opts.Verbose,
	}); err != nil {
		return InstallResult{}, err
	}

	// The pip pass only runs after every conda package installed.
	if len(pipReqs) > 0 {
		if err := e.conda.PipInstall(ctx, ports.PipInstallRequest{
			Prefix:       e.PrefixPath,
			Requirements: pipReqs,
			CondarcPath:  e.CondarcPath,
			Verbose:      opts.Verbose,
		}); err != nil {
			return InstallResult{}, err
		}
	}

	if err := e.prefixes.WriteIgnoreMarker(e.PrefixPath); err != nil {
		return InstallResult{}, err
	}
	if platform != host {
		if err := e.prefixes.WritePlatformMarker(e.PrefixPath, platform); err != nil {
			return InstallResult{}, err
		}
	}

	log.Info().Str("environment", e.Name).Str("prefix", e.PrefixPath).Msg("environment created")
	result.Outcome = types.InstallCreated
	return result, nil
}

// Add declares new dependencies in the first source document, re-locks,
// and force-reinstalls an existing prefix.
func (e *Environment) Add(ctx context.Context, deps []string, channels []string, verbose bool) (UpdateResult, error) {
	return e.update(ctx, verbose, func(set *DependencySpecSet) error {
		return set.Add(deps, channels)
	})
}

// Remove deletes dependencies from the first source document, re-locks,
// and force-reinstalls an existing prefix.
func (e *Environment) Remove(ctx context.Context, deps []string, verbose bool) (UpdateResult, error) {
	return e.update(ctx, verbose, func(set *DependencySpecSet) error {
		set.Remove(deps)
		return nil
	})
}

// update is the shared mutation algorithm: snapshot, apply, persist,
// re-lock, and restore the snapshot if the lock fails. A mutation that
// does not change the document returns early without touching the lock
// artifact or the prefix.
func (e *Environment) update(ctx context.Context, verbose bool, apply func(*DependencySpecSet) error) (UpdateResult, error) {
	source := e.Sources[0]

	snapshot, err := e.specs.Snapshot(source)
	if err != nil {
		return UpdateResult{}, err
	}
	doc, err := e.specs.LoadEnvironmentFile(source)
	if err != nil {
		return UpdateResult{}, err
	}
	before, err := yaml.Marshal(doc)
	if err != nil {
		return UpdateResult{}, err
	}

	set := NewDependencySpecSet(doc)
	if err := apply(set); err != nil {
		return UpdateResult{}, err
	}
	after, err := yaml.Marshal(set.Document())
	if err != nil {
		return UpdateResult{}, err
	}
	if bytes.Equal(before, after) {
		return UpdateResult{Changed: false, Outcome: types.LockUnchanged}, nil
	}

	if err := e.specs.SaveEnvironmentFile(source, set.Document()); err != nil {
		return UpdateResult{}, err
	}

	outcome, err := e.locks.Lock(ctx, e, false, verbose)
	if err != nil {
		// The declared sources must never be left stale relative to a
		// failed lock attempt.
		if rerr := e.specs.Restore(source, snapshot); rerr != nil {
			log.Error().Err(rerr).Str("source", source).Msg("failed to restore source document")
		}
		return UpdateResult{}, err
	}

	result := UpdateResult{Changed: true, Outcome: outcome}
	if e.prefixes.IsInstalled(e.PrefixPath) {
		if _, err := e.Install(ctx, InstallOptions{Force: true, Verbose: verbose}); err != nil {
			return result, err
		}
		result.Reinstalled = true
	}
	return result, nil
}

// Clean removes the materialized prefix.
func (e *Environment) Clean(ctx context.Context, verbose bool) error {
	return e.conda.RemovePrefix(ctx, e.PrefixPath, e.CondarcPath, verbose)
}

// Activate installs the environment if it is not consistent and then
// spawns an interactive shell with the project variables resolved.
func (e *Environment) Activate(ctx context.Context, verbose bool) error {
	consistent, err := e.IsConsistent(ctx)
	if err != nil {
		return err
	}
	if !consistent {
		if _, err := e.Install(ctx, InstallOptions{Verbose: verbose}); err != nil {
			return err
		}
	}
	env, err := PrepareVariables(e.ProjectDir, e.Variables)
	if err != nil {
		return err
	}
	return e.shell.Activate(e.PrefixPath, e.ProjectDir, env)
}

// renderExplicit splits the artifact's records for one platform into
// the explicit conda package list and the pip requirements for the
// secondary install pass.
func renderExplicit(artifact types.LockArtifact, platform string) ([]string, []string) {
	var condaLines []string
	var pipReqs []string
	for _, pkg := range artifact.PackagesFor(platform) {
		switch pkg.Manager {
		case types.ManagerPip:
			pipReqs = append(pipReqs, fmt.Sprintf("%s==%s", pkg.Name, pkg.Version))
		default:
			condaLines = append(condaLines, condaExplicitLine(pkg))
		}
	}
	return condaLines, pipReqs
}

func condaExplicitLine(pkg types.LockedPackage) string {
	if pkg.URL != "" {
		if pkg.Hash.MD5 != "" {
			return fmt.Sprintf("%s#%s", pkg.URL, pkg.Hash.MD5)
		}
		return pkg.URL
	}
	return fmt.Sprintf("%s=%s", pkg.Name, pkg.Version)
}
