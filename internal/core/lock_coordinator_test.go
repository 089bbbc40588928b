package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conda-project/internal/types"
)

func basicEnvironmentFile() types.EnvironmentFile {
	return types.EnvironmentFile{
		Name:     "default",
		Channels: []string{"conda-forge"},
		Dependencies: []types.Dependency{
			{Spec: "python=3.10"},
		},
		Platforms: []string{"linux-64"},
	}
}

func TestLockCreatesArtifactOnce(t *testing.T) {
	h := newTestHarness(basicEnvironmentFile())
	h.solver.packages = []types.LockedPackage{
		{Name: "python", Version: "3.10.4", Manager: types.ManagerConda, Hash: types.LockHash{SHA256: "abc"}},
	}

	outcome, err := h.env.Lock(context.Background(), false, false)
	require.NoError(t, err)
	assert.Equal(t, types.LockRelocked, outcome)
	assert.Equal(t, 1, h.solver.calls)

	locked, err := h.env.IsLocked()
	require.NoError(t, err)
	assert.True(t, locked)

	// A second lock is a no-op against a fresh artifact.
	outcome, err = h.env.Lock(context.Background(), false, false)
	require.NoError(t, err)
	assert.Equal(t, types.LockUnchanged, outcome)
	assert.Equal(t, 1, h.solver.calls)
	assert.Equal(t, 1, h.locks.writes)
}

func TestLockForceAlwaysSolves(t *testing.T) {
	h := newTestHarness(basicEnvironmentFile())

	_, err := h.env.Lock(context.Background(), false, false)
	require.NoError(t, err)
	_, err = h.env.Lock(context.Background(), true, false)
	require.NoError(t, err)
	assert.Equal(t, 2, h.solver.calls)
	assert.Equal(t, 2, h.locks.writes)
}

func TestLockStampsMetadata(t *testing.T) {
	h := newTestHarness(basicEnvironmentFile())

	_, err := h.env.Lock(context.Background(), false, false)
	require.NoError(t, err)

	artifact, err := h.locks.Read(h.env.LockfilePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"linux-64"}, artifact.Metadata.Platforms)
	assert.Equal(t, []string{"conda-forge"}, artifact.Metadata.Channels)
	assert.Equal(t, h.env.Sources, artifact.Metadata.Sources)
	assert.Contains(t, artifact.Metadata.ContentHash, "linux-64")
}

func TestEditingSourcesStalesTheLock(t *testing.T) {
	h := newTestHarness(basicEnvironmentFile())

	_, err := h.env.Lock(context.Background(), false, false)
	require.NoError(t, err)

	doc, err := h.specs.LoadEnvironmentFile(h.env.Sources[0])
	require.NoError(t, err)
	doc.Dependencies = append(doc.Dependencies, types.Dependency{Spec: "numpy"})
	require.NoError(t, h.specs.SaveEnvironmentFile(h.env.Sources[0], doc))

	locked, err := h.env.IsLocked()
	require.NoError(t, err)
	assert.False(t, locked)

	outcome, err := h.env.Lock(context.Background(), false, false)
	require.NoError(t, err)
	assert.Equal(t, types.LockRelocked, outcome)
	assert.Equal(t, 2, h.solver.calls)
}

func TestLockDefaultsChannelsWhenNoneDeclared(t *testing.T) {
	doc := basicEnvironmentFile()
	doc.Channels = nil
	h := newTestHarness(doc)

	_, err := h.env.Lock(context.Background(), false, false)
	require.NoError(t, err)

	artifact, err := h.locks.Read(h.env.LockfilePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"defaults"}, artifact.Metadata.Channels)
}

func TestLockDefaultsPlatformsWhenNoneDeclared(t *testing.T) {
	doc := basicEnvironmentFile()
	doc.Platforms = nil
	h := newTestHarness(doc)
	h.env.locks.DefaultPlatforms = []string{"osx-64", "linux-64", "win-64"}

	_, err := h.env.Lock(context.Background(), false, false)
	require.NoError(t, err)

	artifact, err := h.locks.Read(h.env.LockfilePath)
	require.NoError(t, err)
	assert.Equal(t, []string{"osx-64", "linux-64", "win-64"}, artifact.Metadata.Platforms)
}

func TestLockFailureMentionsAssumedChannels(t *testing.T) {
	doc := basicEnvironmentFile()
	doc.Channels = nil
	h := newTestHarness(doc)
	h.solver.err = errSolveBoom

	_, err := h.env.Lock(context.Background(), false, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to lock")
	assert.NotContains(t, h.locks.artifacts, h.env.LockfilePath)
}

func TestLockFailureLeavesPreviousArtifact(t *testing.T) {
	h := newTestHarness(basicEnvironmentFile())

	_, err := h.env.Lock(context.Background(), false, false)
	require.NoError(t, err)
	before, err := h.locks.Read(h.env.LockfilePath)
	require.NoError(t, err)

	h.solver.err = errSolveBoom
	_, err = h.env.Lock(context.Background(), true, false)
	require.Error(t, err)

	after, err := h.locks.Read(h.env.LockfilePath)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestIsLockedForPlatformIgnoresOtherPlatforms(t *testing.T) {
	doc := basicEnvironmentFile()
	doc.Platforms = []string{"linux-64", "osx-arm64"}
	h := newTestHarness(doc)

	_, err := h.env.Lock(context.Background(), false, false)
	require.NoError(t, err)

	// Drop one platform hash to simulate a partially stale artifact.
	artifact := h.locks.artifacts[h.env.LockfilePath]
	artifact.Metadata.ContentHash["osx-arm64"] = "stale"
	h.locks.artifacts[h.env.LockfilePath] = artifact

	ok, err := h.env.locks.IsLockedForPlatform(h.env, "linux-64")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.env.locks.IsLockedForPlatform(h.env, "osx-arm64")
	require.NoError(t, err)
	assert.False(t, ok)

	locked, err := h.env.IsLocked()
	require.NoError(t, err)
	assert.False(t, locked)
}
