package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conda-project/internal/types"
)

func TestDepSpecSetAddPartitionsByManager(t *testing.T) {
	set := NewDependencySpecSet(types.EnvironmentFile{Name: "default"})

	require.NoError(t, set.Add([]string{"numpy", "@pip::requests>=2.28"}, nil))
	doc := set.Document()
	assert.Equal(t, []string{"numpy", "pip"}, doc.CondaSpecs())
	assert.Equal(t, []string{"requests>=2.28"}, doc.PipSpecs())
}

func TestDepSpecSetAddPipNagsForCondaPip(t *testing.T) {
	set := NewDependencySpecSet(types.EnvironmentFile{
		Dependencies: []types.Dependency{{Spec: "pip"}},
	})

	require.NoError(t, set.Add([]string{"@pip::requests"}, nil))
	// pip was already declared, no second entry is appended.
	doc := set.Document()
	assert.Equal(t, []string{"pip"}, doc.CondaSpecs())
}

func TestDepSpecSetReplaceKeepsSlot(t *testing.T) {
	set := NewDependencySpecSet(types.EnvironmentFile{
		Dependencies: []types.Dependency{
			{Spec: "python=3.10"},
			{Spec: "numpy"},
		},
	})

	require.NoError(t, set.Add([]string{"python=3.11"}, nil))
	doc := set.Document()
	assert.Equal(t, []string{"python=3.11", "numpy"}, doc.CondaSpecs())
}

func TestDepSpecSetReplacePipInExistingBlock(t *testing.T) {
	set := NewDependencySpecSet(types.EnvironmentFile{
		Dependencies: []types.Dependency{
			{Spec: "pip"},
			{Pip: []string{"requests==2.27.0", "flask"}},
		},
	})

	require.NoError(t, set.Add([]string{"@pip::requests==2.28.1"}, nil))
	doc := set.Document()
	assert.Equal(t, []string{"requests==2.28.1", "flask"}, doc.PipSpecs())
}

func TestDepSpecSetRemoveFromEitherList(t *testing.T) {
	set := NewDependencySpecSet(types.EnvironmentFile{
		Dependencies: []types.Dependency{
			{Spec: "python=3.10"},
			{Spec: "pip"},
			{Pip: []string{"requests==2.28.1"}},
		},
	})

	set.Remove([]string{"python", "requests"})
	doc := set.Document()
	assert.Equal(t, []string{"pip"}, doc.CondaSpecs())
	assert.Empty(t, doc.PipSpecs())
}

func TestDepSpecSetRemoveMissingIsTolerated(t *testing.T) {
	set := NewDependencySpecSet(types.EnvironmentFile{
		Dependencies: []types.Dependency{{Spec: "python"}},
	})
	set.Remove([]string{"nonexistent"})
	doc := set.Document()
	assert.Equal(t, []string{"python"}, doc.CondaSpecs())
}

func TestDepSpecSetAddInvalidSpecFails(t *testing.T) {
	set := NewDependencySpecSet(types.EnvironmentFile{})
	assert.Error(t, set.Add([]string{">=3.10"}, nil))
	assert.Error(t, set.Add([]string{"@pip::requests>=banana"}, nil))
}

func TestDepSpecSetChannelMergeIsDuplicateFree(t *testing.T) {
	set := NewDependencySpecSet(types.EnvironmentFile{
		Channels: []string{"defaults"},
	})
	require.NoError(t, set.Add(nil, []string{"conda-forge", "defaults", "conda-forge"}))
	assert.Equal(t, []string{"defaults", "conda-forge"}, set.Document().Channels)
}
