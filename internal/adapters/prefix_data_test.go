package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conda-project/internal/types"
)

func newPrefix(t *testing.T) string {
	t.Helper()
	prefix := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(prefix, "conda-meta"), 0o755))
	return prefix
}

func TestIsInstalledRequiresHistory(t *testing.T) {
	adapter := NewPrefixDataAdapter()
	prefix := newPrefix(t)
	assert.False(t, adapter.IsInstalled(prefix))

	require.NoError(t, os.WriteFile(filepath.Join(prefix, "conda-meta", "history"), nil, 0o644))
	assert.True(t, adapter.IsInstalled(prefix))
}

func TestInstalledCondaRecords(t *testing.T) {
	adapter := NewPrefixDataAdapter()
	prefix := newPrefix(t)
	meta := filepath.Join(prefix, "conda-meta")
	require.NoError(t, os.WriteFile(filepath.Join(meta, "python-3.10.4-h12debd9_0.json"),
		[]byte(`{"name": "python", "version": "3.10.4", "sha256": "aaa"}`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(meta, "numpy-1.23.0-py310_0.json"),
		[]byte(`{"name": "numpy", "version": "1.23.0", "sha256": "bbb"}`), 0o644))
	// Records with no name field are metadata, not packages.
	require.NoError(t, os.WriteFile(filepath.Join(meta, "aux.json"), []byte(`{}`), 0o644))

	records, err := adapter.InstalledCondaRecords(prefix)
	require.NoError(t, err)
	require.Len(t, records, 2)
	for _, record := range records {
		assert.Equal(t, types.ManagerConda, record.Manager)
	}
}

func TestPlatformMarkerRoundTrip(t *testing.T) {
	adapter := NewPrefixDataAdapter()
	prefix := newPrefix(t)

	marker, err := adapter.PlatformMarker(prefix)
	require.NoError(t, err)
	assert.Empty(t, marker)

	require.NoError(t, adapter.WritePlatformMarker(prefix, "osx-arm64"))
	marker, err = adapter.PlatformMarker(prefix)
	require.NoError(t, err)
	assert.Equal(t, "osx-arm64", marker)
}

func TestWriteIgnoreMarker(t *testing.T) {
	adapter := NewPrefixDataAdapter()
	prefix := newPrefix(t)
	require.NoError(t, adapter.WriteIgnoreMarker(prefix))

	data, err := os.ReadFile(filepath.Join(prefix, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "*\n", string(data))
}
