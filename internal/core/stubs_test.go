package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"conda-project/internal/ports"
	"conda-project/internal/types"
)

// stubSpecs keeps every document as raw yaml bytes so load and save
// round through the same codec as the real adapter.
type stubSpecs struct {
	files map[string][]byte
}

func newStubSpecs() *stubSpecs {
	return &stubSpecs{files: map[string][]byte{}}
}

func (s *stubSpecs) putEnvironmentFile(path string, doc types.EnvironmentFile) {
	data, err := yaml.Marshal(doc)
	if err != nil {
		panic(err)
	}
	s.files[path] = data
}

func (s *stubSpecs) LoadEnvironmentFile(path string) (types.EnvironmentFile, error) {
	data, ok := s.files[path]
	if !ok {
		return types.EnvironmentFile{}, fmt.Errorf("no such file: %s", path)
	}
	var doc types.EnvironmentFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.EnvironmentFile{}, err
	}
	return doc, nil
}

func (s *stubSpecs) SaveEnvironmentFile(path string, doc types.EnvironmentFile) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	s.files[path] = data
	return nil
}

func (s *stubSpecs) LoadProjectFile(path string) (types.ProjectFile, error) {
	data, ok := s.files[path]
	if !ok {
		return types.ProjectFile{}, fmt.Errorf("no such file: %s", path)
	}
	var doc types.ProjectFile
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return types.ProjectFile{}, err
	}
	return doc, nil
}

func (s *stubSpecs) SaveProjectFile(path string, doc types.ProjectFile) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}
	s.files[path] = data
	return nil
}

func (s *stubSpecs) Snapshot(path string) ([]byte, error) {
	data, ok := s.files[path]
	if !ok {
		return nil, fmt.Errorf("no such file: %s", path)
	}
	return append([]byte(nil), data...), nil
}

func (s *stubSpecs) Restore(path string, data []byte) error {
	s.files[path] = append([]byte(nil), data...)
	return nil
}

type stubLocks struct {
	artifacts map[string]types.LockArtifact
	writes    int
}

func newStubLocks() *stubLocks {
	return &stubLocks{artifacts: map[string]types.LockArtifact{}}
}

func (s *stubLocks) Exists(path string) bool {
	_, ok := s.artifacts[path]
	return ok
}

func (s *stubLocks) Read(path string) (types.LockArtifact, error) {
	artifact, ok := s.artifacts[path]
	if !ok {
		return types.LockArtifact{}, fmt.Errorf("no such lockfile: %s", path)
	}
	return artifact, nil
}

func (s *stubLocks) Write(path string, artifact types.LockArtifact) error {
	s.writes++
	s.artifacts[path] = artifact
	return nil
}

// stubSolver returns a fixed package list stamped onto whatever
// platforms are requested. ContentHash is a readable compound of the
// inputs so tests can reason about staleness directly.
type stubSolver struct {
	packages []types.LockedPackage
	err      error
	calls    int
}

func (s *stubSolver) Solve(_ context.Context, req ports.SolveRequest) (types.LockArtifact, error) {
	s.calls++
	if s.err != nil {
		return types.LockArtifact{}, s.err
	}
	var records []types.LockedPackage
	for _, platform := range req.Platforms {
		for _, pkg := range s.packages {
			pkg.Platform = platform
			records = append(records, pkg)
		}
	}
	return types.LockArtifact{Packages: records}, nil
}

func (s *stubSolver) ContentHash(spec types.EffectiveSpec, platform string) string {
	return strings.Join([]string{
		platform,
		strings.Join(spec.Channels, ","),
		strings.Join(spec.CondaSpecs, ","),
		strings.Join(spec.PipSpecs, ","),
	}, "|")
}

type stubConda struct {
	platform    string
	createCalls []ports.CreatePrefixRequest
	pipCalls    []ports.PipInstallRequest
	removed     []string
	runs        []ports.RunRequest
	pipList     []types.InstalledPackage
	pipHashes   map[string]string
	createErr   error
}

func (s *stubConda) CurrentPlatform(context.Context) (string, error) {
	if s.platform == "" {
		return "linux-64", nil
	}
	return s.platform, nil
}

func (s *stubConda) CreatePrefix(_ context.Context, req ports.CreatePrefixRequest) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.createCalls = append(s.createCalls, req)
	return nil
}

func (s *stubConda) PipInstall(_ context.Context, req ports.PipInstallRequest) error {
	s.pipCalls = append(s.pipCalls, req)
	return nil
}

func (s *stubConda) RemovePrefix(_ context.Context, prefix string, _ string, _ bool) error {
	s.removed = append(s.removed, prefix)
	return nil
}

func (s *stubConda) Run(_ context.Context, req ports.RunRequest) error {
	s.runs = append(s.runs, req)
	return nil
}

func (s *stubConda) PipList(context.Context, string) ([]types.InstalledPackage, error) {
	return s.pipList, nil
}

func (s *stubConda) PipFreezeHashes(context.Context, string) (map[string]string, error) {
	if s.pipHashes == nil {
		return map[string]string{}, nil
	}
	return s.pipHashes, nil
}

type stubPrefixes struct {
	installed    map[string]bool
	records      map[string][]types.InstalledPackage
	markers      map[string]string
	ignoreWrites []string
}

func newStubPrefixes() *stubPrefixes {
	return &stubPrefixes{
		installed: map[string]bool{},
		records:   map[string][]types.InstalledPackage{},
		markers:   map[string]string{},
	}
}

func (s *stubPrefixes) IsInstalled(prefix string) bool {
	return s.installed[prefix]
}

func (s *stubPrefixes) InstalledCondaRecords(prefix string) ([]types.InstalledPackage, error) {
	return s.records[prefix], nil
}

func (s *stubPrefixes) PlatformMarker(prefix string) (string, error) {
	return s.markers[prefix], nil
}

func (s *stubPrefixes) WritePlatformMarker(prefix string, platform string) error {
	s.markers[prefix] = platform
	return nil
}

func (s *stubPrefixes) WriteIgnoreMarker(prefix string) error {
	s.ignoreWrites = append(s.ignoreWrites, prefix)
	return nil
}

type activation struct {
	Prefix     string
	WorkingDir string
	Env        map[string]string
}

type stubShell struct {
	activations []activation
}

func (s *stubShell) Activate(prefix string, workingDir string, env map[string]string) error {
	s.activations = append(s.activations, activation{prefix, workingDir, env})
	return nil
}

// testHarness wires one environment over the in-memory ports.
type testHarness struct {
	specs    *stubSpecs
	locks    *stubLocks
	solver   *stubSolver
	conda    *stubConda
	prefixes *stubPrefixes
	shell    *stubShell
	env      *Environment
}

func newTestHarness(doc types.EnvironmentFile) *testHarness {
	h := &testHarness{
		specs:    newStubSpecs(),
		locks:    newStubLocks(),
		solver:   &stubSolver{},
		conda:    &stubConda{},
		prefixes: newStubPrefixes(),
		shell:    &stubShell{},
	}
	h.specs.putEnvironmentFile("/project/environment.yml", doc)

	coordinator := &LockCoordinator{
		Specs:            h.specs,
		Locks:            h.locks,
		Solver:           h.solver,
		DefaultPlatforms: []string{"linux-64"},
	}
	checker := &ConsistencyChecker{
		Coordinator: coordinator,
		Locks:       h.locks,
		Prefixes:    h.prefixes,
		Conda:       h.conda,
	}
	h.env = &Environment{
		Name:         "default",
		Sources:      []string{"/project/environment.yml"},
		PrefixPath:   "/project/envs/default",
		LockfilePath: "/project/conda-lock.default.yml",
		ProjectDir:   "/project",
		CondarcPath:  "/project/.condarc",
		locks:        coordinator,
		checker:      checker,
		conda:        h.conda,
		specs:        h.specs,
		store:        h.locks,
		prefixes:     h.prefixes,
		shell:        h.shell,
	}
	return h
}

var errSolveBoom = errors.New("solver exploded")
