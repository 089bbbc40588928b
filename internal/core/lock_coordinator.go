package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"conda-project/internal/ports"
	"conda-project/internal/types"
)

// Overrides is the effective channel and platform configuration for an
// environment after layering its sources and substituting defaults.
type Overrides struct {
	Channels  []string
	Platforms []string

	// ChannelsDefaulted is set when no source declared a channel and
	// the single default channel was substituted; ChannelNote carries
	// the substitution text folded into lock failure messages.
	ChannelsDefaulted bool
	ChannelNote       string
}

// LockCoordinator decides whether a lock artifact is stale relative to
// its source documents and drives the external solver to regenerate it
// atomically.
type LockCoordinator struct {
	Specs            ports.SpecSourcePort
	Locks            ports.LockfileStorePort
	Solver           ports.SolverPort
	DefaultPlatforms []string
}

// EffectiveSpec layers every source document of an environment into the
// canonical dependency declaration used for content hashing, together
// with the effective overrides.
func (c *LockCoordinator) EffectiveSpec(env *Environment) (types.EffectiveSpec, Overrides, error) {
	var condaSpecs []string
	var pipSpecs []string
	var channels []string
	var platforms []string

	for _, source := range env.Sources {
		doc, err := c.Specs.LoadEnvironmentFile(source)
		if err != nil {
			return types.EffectiveSpec{}, Overrides{}, err
		}
		channels = append(channels, doc.Channels...)
		platforms = append(platforms, doc.Platforms...)
		condaSpecs = append(condaSpecs, doc.CondaSpecs()...)
		pipSpecs = append(pipSpecs, doc.PipSpecs()...)
	}
	channels = types.DedupeChannels(channels)
	platforms = types.DedupeChannels(platforms)

	overrides := Overrides{Channels: channels, Platforms: platforms}
	if len(channels) == 0 {
		names := make([]string, 0, len(env.Sources))
		for _, source := range env.Sources {
			names = append(names, baseName(source))
		}
		overrides.ChannelsDefaulted = true
		overrides.ChannelNote = fmt.Sprintf("there is no 'channels:' key in %s, assuming 'defaults'", strings.Join(names, ", "))
		overrides.Channels = []string{"defaults"}
		log.Warn().Msg(overrides.ChannelNote)
	}
	if len(platforms) == 0 {
		overrides.Platforms = append([]string(nil), c.DefaultPlatforms...)
	}

	spec := types.EffectiveSpec{
		CondaSpecs: condaSpecs,
		PipSpecs:   pipSpecs,
		Channels:   overrides.Channels,
	}
	return spec, overrides, nil
}

// IsLocked reports whether the lock artifact exists and its content
// hash matches a freshly recomputed hash for every effective platform.
func (c *LockCoordinator) IsLocked(env *Environment) (bool, error) {
	if !c.Locks.Exists(env.LockfilePath) {
		return false, nil
	}
	spec, overrides, err := c.EffectiveSpec(env)
	if err != nil {
		return false, err
	}
	artifact, err := c.Locks.Read(env.LockfilePath)
	if err != nil {
		return false, err
	}
	for _, platform := range overrides.Platforms {
		if !c.platformFresh(artifact, spec, platform) {
			return false, nil
		}
	}
	return true, nil
}

// IsLockedForPlatform restricts the staleness check to one platform so
// installation is not gated on a full multi-platform re-lock.
func (c *LockCoordinator) IsLockedForPlatform(env *Environment, platform string) (bool, error) {
	if !c.Locks.Exists(env.LockfilePath) {
		return false, nil
	}
	spec, _, err := c.EffectiveSpec(env)
	if err != nil {
		return false, err
	}
	artifact, err := c.Locks.Read(env.LockfilePath)
	if err != nil {
		return false, err
	}
	return c.platformFresh(artifact, spec, platform), nil
}

func (c *LockCoordinator) platformFresh(artifact types.LockArtifact, spec types.EffectiveSpec, platform string) bool {
	if !artifact.HasPlatform(platform) {
		return false
	}
	return artifact.Metadata.ContentHash[platform] == c.Solver.ContentHash(spec, platform)
}

// Lock regenerates the artifact unless it is already fresh. The solver
// result is written through the atomic lockfile store, so a mid-solve
// failure leaves the previous artifact byte-for-byte unchanged.
func (c *LockCoordinator) Lock(ctx context.Context, env *Environment, force bool, verbose bool) (types.LockOutcome, error) {
	locked, err := c.IsLocked(env)
	if err != nil {
		return types.LockUnchanged, err
	}
	if locked && !force {
		return types.LockUnchanged, nil
	}

	spec, overrides, err := c.EffectiveSpec(env)
	if err != nil {
		return types.LockUnchanged, err
	}

	artifact, err := c.Solver.Solve(ctx, ports.SolveRequest{
		Sources:     env.Sources,
		Channels:    overrides.Channels,
		Platforms:   overrides.Platforms,
		CondarcPath: env.CondarcPath,
		Verbose:     verbose,
	})
	if err != nil {
		msg := fmt.Sprintf("failed to lock environment %s", env.Name)
		if overrides.ChannelNote != "" {
			msg = fmt.Sprintf("%s (%s)", msg, overrides.ChannelNote)
		}
		return types.LockUnchanged, lockFailedError(msg, err)
	}

	hashes := make(map[string]string, len(overrides.Platforms))
	for _, platform := range overrides.Platforms {
		hashes[platform] = c.Solver.ContentHash(spec, platform)
	}
	artifact.Metadata = types.LockMetadata{
		ContentHash: hashes,
		Channels:    overrides.Channels,
		Platforms:   overrides.Platforms,
		Sources:     env.Sources,
	}

	if err := c.Locks.Write(env.LockfilePath, artifact); err != nil {
		return types.LockUnchanged, err
	}
	log.Info().
		Str("environment", env.Name).
		Strs("platforms", overrides.Platforms).
		Msg("locked dependencies")
	return types.LockRelocked, nil
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}
