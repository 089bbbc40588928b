package adapters

import (
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"conda-project/internal/ports"
	"conda-project/internal/types"
)

// SpecFileAdapter loads and persists the human-edited declaration
// documents.
type SpecFileAdapter struct{}

func NewSpecFileAdapter() SpecFileAdapter {
	return SpecFileAdapter{}
}

func (a SpecFileAdapter) LoadEnvironmentFile(path string) (types.EnvironmentFile, error) {
	data, err := a.read(path)
	if err != nil {
		return types.EnvironmentFile{}, err
	}
	var doc types.EnvironmentFile
	if err := unmarshalStrict(path, data, &doc); err != nil {
		return types.EnvironmentFile{}, err
	}
	doc.Channels = types.DedupeChannels(doc.Channels)
	return doc, nil
}

func (a SpecFileAdapter) SaveEnvironmentFile(path string, doc types.EnvironmentFile) error {
	return a.write(path, doc)
}

func (a SpecFileAdapter) LoadProjectFile(path string) (types.ProjectFile, error) {
	data, err := a.read(path)
	if err != nil {
		return types.ProjectFile{}, err
	}
	var doc types.ProjectFile
	if err := unmarshalStrict(path, data, &doc); err != nil {
		return types.ProjectFile{}, err
	}
	return doc, nil
}

func (a SpecFileAdapter) SaveProjectFile(path string, doc types.ProjectFile) error {
	return a.write(path, doc)
}

func (a SpecFileAdapter) Snapshot(path string) ([]byte, error) {
	return a.read(path)
}

func (a SpecFileAdapter) Restore(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to restore %s", path)).
			WithCause(err)
	}
	return nil
}

func (a SpecFileAdapter) read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("source file %s not found", path)).
			WithCause(err)
	}
	return data, nil
}

func (a SpecFileAdapter) write(path string, doc interface{}) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to render %s", path)).
			WithCause(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to write %s", path)).
			WithCause(err)
	}
	return nil
}

func unmarshalStrict(path string, data []byte, out interface{}) error {
	if len(data) == 0 {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to read %s: the file appears to be empty", path))
	}
	if err := yaml.Unmarshal(data, out); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to read %s", path)).
			WithCause(err)
	}
	return nil
}

var _ ports.SpecSourcePort = SpecFileAdapter{}
