// Package testutil provides shared fixtures and stub ports used by the
// integration test packages.
package testutil

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"conda-project/internal/ports"
	"conda-project/internal/types"
)

// WriteProject lays out a project fixture directory from a map of
// relative file name to content.
func WriteProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

// StubSolver replays a fixed package list for every requested platform
// without invoking an external solver binary.
type StubSolver struct {
	Packages []types.LockedPackage
	Calls    int
	Err      error
}

func (s *StubSolver) Solve(_ context.Context, req ports.SolveRequest) (types.LockArtifact, error) {
	s.Calls++
	if s.Err != nil {
		return types.LockArtifact{}, s.Err
	}
	var records []types.LockedPackage
	for _, platform := range req.Platforms {
		for _, pkg := range s.Packages {
			pkg.Platform = platform
			records = append(records, pkg)
		}
	}
	return types.LockArtifact{Packages: records}, nil
}

func (s *StubSolver) ContentHash(spec types.EffectiveSpec, platform string) string {
	return strings.Join([]string{
		platform,
		strings.Join(spec.Channels, ","),
		strings.Join(spec.CondaSpecs, ","),
		strings.Join(spec.PipSpecs, ","),
	}, "|")
}

// StubConda simulates the package-manager executable against the real
// filesystem: CreatePrefix materializes conda-meta records so the real
// prefix-data adapter sees an installed, consistent environment.
type StubConda struct {
	Platform string

	// Records are written into conda-meta on every CreatePrefix call.
	Records []types.InstalledPackage

	PipPackages []types.InstalledPackage
	PipHashes   map[string]string

	CreateCalls int
	PipCalls    int
	Runs        []ports.RunRequest
}

func (s *StubConda) CurrentPlatform(context.Context) (string, error) {
	if s.Platform == "" {
		return "linux-64", nil
	}
	return s.Platform, nil
}

func (s *StubConda) CreatePrefix(_ context.Context, req ports.CreatePrefixRequest) error {
	s.CreateCalls++
	meta := filepath.Join(req.Prefix, "conda-meta")
	if err := os.MkdirAll(meta, 0o755); err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(meta, "history"), []byte("==> install <==\n"), 0o644); err != nil {
		return err
	}
	for _, record := range s.Records {
		data, err := json.Marshal(map[string]string{
			"name":    record.Name,
			"version": record.Version,
			"sha256":  record.SHA256,
		})
		if err != nil {
			return err
		}
		name := fmt.Sprintf("%s-%s-0.json", record.Name, record.Version)
		if err := os.WriteFile(filepath.Join(meta, name), data, 0o644); err != nil {
			return err
		}
	}
	return nil
}

func (s *StubConda) PipInstall(context.Context, ports.PipInstallRequest) error {
	s.PipCalls++
	return nil
}

func (s *StubConda) RemovePrefix(_ context.Context, prefix string, _ string, _ bool) error {
	return os.RemoveAll(prefix)
}

func (s *StubConda) Run(_ context.Context, req ports.RunRequest) error {
	s.Runs = append(s.Runs, req)
	return nil
}

func (s *StubConda) PipList(context.Context, string) ([]types.InstalledPackage, error) {
	return s.PipPackages, nil
}

func (s *StubConda) PipFreezeHashes(context.Context, string) (map[string]string, error) {
	if s.PipHashes == nil {
		return map[string]string{}, nil
	}
	return s.PipHashes, nil
}

// StubShell records activations instead of spawning a shell.
type StubShell struct {
	Activations []string
}

func (s *StubShell) Activate(prefix string, _ string, _ map[string]string) error {
	s.Activations = append(s.Activations, prefix)
	return nil
}
