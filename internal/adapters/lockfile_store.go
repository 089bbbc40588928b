package adapters

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"gopkg.in/yaml.v3"

	"conda-project/internal/ports"
	"conda-project/internal/types"
)

// LockfileStoreAdapter persists lock artifacts with
// write-to-scratch-then-rename semantics so a mid-write failure never
// corrupts an existing artifact.
type LockfileStoreAdapter struct{}

func NewLockfileStoreAdapter() LockfileStoreAdapter {
	return LockfileStoreAdapter{}
}

func (a LockfileStoreAdapter) Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

func (a LockfileStoreAdapter) Read(path string) (types.LockArtifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.LockArtifact{}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("lock artifact %s not found", path)).
			WithCause(err)
	}
	var artifact types.LockArtifact
	if err := yaml.Unmarshal(data, &artifact); err != nil {
		return types.LockArtifact{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to parse lock artifact %s", path)).
			WithCause(err)
	}
	return artifact, nil
}

func (a LockfileStoreAdapter) Write(path string, artifact types.LockArtifact) error {
	data, err := yaml.Marshal(artifact)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to render lock artifact").
			WithCause(err)
	}

	// Scratch file in the same directory so the final rename is atomic.
	scratch, err := os.CreateTemp(filepath.Dir(path), ".conda-lock-*")
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create scratch lock file").
			WithCause(err)
	}
	scratchPath := scratch.Name()
	if _, err := scratch.Write(data); err != nil {
		_ = scratch.Close()
		_ = os.Remove(scratchPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to write scratch lock file").
			WithCause(err)
	}
	if err := scratch.Close(); err != nil {
		_ = os.Remove(scratchPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to close scratch lock file").
			WithCause(err)
	}
	if err := os.Chmod(scratchPath, 0o644); err != nil {
		_ = os.Remove(scratchPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to set lock file permissions").
			WithCause(err)
	}
	if err := os.Rename(scratchPath, path); err != nil {
		_ = os.Remove(scratchPath)
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to replace lock artifact %s", path)).
			WithCause(err)
	}
	return nil
}

var _ ports.LockfileStorePort = LockfileStoreAdapter{}
