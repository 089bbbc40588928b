package core

import (
	"context"

	"conda-project/internal/ports"
	"conda-project/internal/shared"
	"conda-project/internal/types"
)

// ConsistencyChecker decides whether a materialized prefix matches the
// lock artifact for the active platform. Identity is the full
// (name, version, manager, hash) tuple: comparing only name and version
// would silently accept rebuilt packages of the same version.
type ConsistencyChecker struct {
	Coordinator *LockCoordinator
	Locks       ports.LockfileStorePort
	Prefixes    ports.PrefixDataPort
	Conda       ports.CondaPort
}

type packageKey struct {
	name    string
	version string
	manager types.Manager
	sha256  string
}

// IsConsistent reports whether the environment's installed package set
// equals the locked set for the current platform.
func (c *ConsistencyChecker) IsConsistent(ctx context.Context, env *Environment) (bool, error) {
	if !c.Prefixes.IsInstalled(env.PrefixPath) {
		return false, nil
	}
	locked, err := c.Coordinator.IsLocked(env)
	if err != nil {
		return false, err
	}
	if !locked {
		return false, nil
	}

	installed, err := c.installedSet(ctx, env.PrefixPath)
	if err != nil {
		return false, err
	}

	platform, err := c.Conda.CurrentPlatform(ctx)
	if err != nil {
		return false, err
	}
	artifact, err := c.Locks.Read(env.LockfilePath)
	if err != nil {
		return false, err
	}
	wanted := lockedSet(artifact, platform)

	if len(installed) != len(wanted) {
		return false, nil
	}
	for key := range wanted {
		if _, ok := installed[key]; !ok {
			return false, nil
		}
	}
	return true, nil
}

// installedSet enumerates the live prefix. Conda records carry their
// manager-supplied checksum; pip records need a secondary live query
// because the lock format and pip disagree on hash identity.
func (c *ConsistencyChecker) installedSet(ctx context.Context, prefix string) (map[packageKey]struct{}, error) {
	condaRecords, err := c.Prefixes.InstalledCondaRecords(prefix)
	if err != nil {
		return nil, err
	}
	pipRecords, err := c.Conda.PipList(ctx, prefix)
	if err != nil {
		return nil, err
	}
	pipHashes, err := c.Conda.PipFreezeHashes(ctx, prefix)
	if err != nil {
		return nil, err
	}

	set := make(map[packageKey]struct{}, len(condaRecords)+len(pipRecords))
	for _, record := range condaRecords {
		set[packageKey{record.Name, record.Version, types.ManagerConda, record.SHA256}] = struct{}{}
	}
	for _, record := range pipRecords {
		name := shared.NormalizePipName(record.Name)
		set[packageKey{name, record.Version, types.ManagerPip, pipHashes[name]}] = struct{}{}
	}
	return set, nil
}

// lockedSet keys the artifact's records for one platform, skipping
// optional entries and deduplicating by name. When both a conda and a
// pip record pin the same name the pip record wins the tie.
func lockedSet(artifact types.LockArtifact, platform string) map[packageKey]struct{} {
	byName := map[string]types.LockedPackage{}
	var order []string
	for _, pkg := range artifact.PackagesFor(platform) {
		name := pkg.Name
		if pkg.Manager == types.ManagerPip {
			name = shared.NormalizePipName(name)
		}
		existing, ok := byName[name]
		if !ok {
			byName[name] = pkg
			order = append(order, name)
			continue
		}
		if existing.Manager == types.ManagerConda && pkg.Manager == types.ManagerPip {
			byName[name] = pkg
		}
	}

	set := make(map[packageKey]struct{}, len(byName))
	for _, name := range order {
		pkg := byName[name]
		set[packageKey{name, pkg.Version, pkg.Manager, pkg.Hash.SHA256}] = struct{}{}
	}
	return set
}
