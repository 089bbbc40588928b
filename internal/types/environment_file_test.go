package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const sampleEnvironmentYaml = `name: default
channels:
  - defaults
dependencies:
  - python=3.10
  - pip
  - pip:
      - requests>=2.28
      - flask
  - numpy
platforms:
  - linux-64
  - osx-arm64
`

func TestEnvironmentFileUnmarshalPreservesOrder(t *testing.T) {
	var doc EnvironmentFile
	require.NoError(t, yaml.Unmarshal([]byte(sampleEnvironmentYaml), &doc))

	assert.Equal(t, "default", doc.Name)
	assert.Equal(t, []string{"defaults"}, doc.Channels)
	assert.Equal(t, []string{"python=3.10", "pip", "numpy"}, doc.CondaSpecs())
	assert.Equal(t, []string{"requests>=2.28", "flask"}, doc.PipSpecs())
	assert.Equal(t, []string{"linux-64", "osx-arm64"}, doc.Platforms)

	// The pip block sits between pip and numpy, not at the end.
	require.Len(t, doc.Dependencies, 4)
	assert.True(t, doc.Dependencies[2].IsPipBlock())
}

func TestEnvironmentFileMarshalRoundTrip(t *testing.T) {
	var doc EnvironmentFile
	require.NoError(t, yaml.Unmarshal([]byte(sampleEnvironmentYaml), &doc))

	data, err := yaml.Marshal(doc)
	require.NoError(t, err)

	var again EnvironmentFile
	require.NoError(t, yaml.Unmarshal(data, &again))
	assert.Equal(t, doc, again)
}

func TestDependencyRejectsNonPipMap(t *testing.T) {
	var doc EnvironmentFile
	err := yaml.Unmarshal([]byte("dependencies:\n  - conda:\n      - python\n"), &doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `only "pip:" is allowed`)
}

func TestDependencyRejectsMapWithExtraKeys(t *testing.T) {
	var doc EnvironmentFile
	err := yaml.Unmarshal([]byte("dependencies:\n  - pip:\n      - requests\n    other: x\n"), &doc)
	require.Error(t, err)
}

func TestEmptyPipBlockIsStillAPipBlock(t *testing.T) {
	var doc EnvironmentFile
	require.NoError(t, yaml.Unmarshal([]byte("dependencies:\n  - pip: []\n"), &doc))
	require.Len(t, doc.Dependencies, 1)
	assert.True(t, doc.Dependencies[0].IsPipBlock())
	assert.Empty(t, doc.PipSpecs())
}

func TestPipBlockReturnsMutablePointer(t *testing.T) {
	doc := EnvironmentFile{
		Dependencies: []Dependency{{Spec: "pip"}, {Pip: []string{"requests"}}},
	}
	block := doc.PipBlock()
	require.NotNil(t, block)
	block.Pip = append(block.Pip, "flask")
	assert.Equal(t, []string{"requests", "flask"}, doc.PipSpecs())
}

func TestPipBlockNilWhenAbsent(t *testing.T) {
	doc := EnvironmentFile{Dependencies: []Dependency{{Spec: "python"}}}
	assert.Nil(t, doc.PipBlock())
	assert.Nil(t, doc.PipSpecs())
}

func TestDedupeChannels(t *testing.T) {
	got := DedupeChannels([]string{"defaults", "conda-forge", "defaults", "pytorch", "conda-forge"})
	assert.Equal(t, []string{"defaults", "conda-forge", "pytorch"}, got)
	assert.Nil(t, DedupeChannels(nil))
}
