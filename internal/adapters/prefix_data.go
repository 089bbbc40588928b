package adapters

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"conda-project/internal/ports"
	"conda-project/internal/types"
)

// PrefixDataAdapter reads and writes the marker state of a
// materialized prefix: the conda-meta records, the platform-override
// marker, and the version-control ignore marker.
type PrefixDataAdapter struct{}

func NewPrefixDataAdapter() PrefixDataAdapter {
	return PrefixDataAdapter{}
}

func (a PrefixDataAdapter) IsInstalled(prefix string) bool {
	_, err := os.Stat(filepath.Join(prefix, "conda-meta", "history"))
	return err == nil
}

// condaMetaRecord is the subset of a conda-meta/*.json record needed
// for consistency comparison.
type condaMetaRecord struct {
	Name    string `json:"name"`
	Version string `json:"version"`
	SHA256  string `json:"sha256"`
}

func (a PrefixDataAdapter) InstalledCondaRecords(prefix string) ([]types.InstalledPackage, error) {
	pattern := filepath.Join(prefix, "conda-meta", "*.json")
	paths, err := filepath.Glob(pattern)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to scan conda-meta").
			WithCause(err)
	}
	var records []types.InstalledPackage
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to read %s", path)).
				WithCause(err)
		}
		var record condaMetaRecord
		if err := json.Unmarshal(data, &record); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("failed to parse %s", path)).
				WithCause(err)
		}
		if record.Name == "" {
			continue
		}
		records = append(records, types.InstalledPackage{
			Name:    record.Name,
			Version: record.Version,
			Manager: types.ManagerConda,
			SHA256:  record.SHA256,
		})
	}
	return records, nil
}

func (a PrefixDataAdapter) PlatformMarker(prefix string) (string, error) {
	data, err := os.ReadFile(filepath.Join(prefix, "condarc"))
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read prefix condarc").
			WithCause(err)
	}
	var marker struct {
		Subdir string `yaml:"subdir"`
	}
	if err := yaml.Unmarshal(data, &marker); err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("failed to parse prefix condarc").
			WithCause(err)
	}
	return marker.Subdir, nil
}

func (a PrefixDataAdapter) WritePlatformMarker(prefix string, platform string) error {
	path := filepath.Join(prefix, "condarc")
	content := fmt.Sprintf("subdir: %s\n", platform)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", path)).
			WithCause(err)
	}
	return nil
}

func (a PrefixDataAdapter) WriteIgnoreMarker(prefix string) error {
	path := filepath.Join(prefix, ".gitignore")
	if err := os.WriteFile(path, []byte("*\n"), 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", path)).
			WithCause(err)
	}
	return nil
}

var _ ports.PrefixDataPort = PrefixDataAdapter{}
