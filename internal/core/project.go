package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/rs/zerolog/log"

	"conda-project/internal/ports"
	"conda-project/internal/types"
)

var (
	// ProjectFileNames are the accepted project declaration variants.
	ProjectFileNames = []string{"conda-project.yml", "conda-project.yaml"}
	// EnvironmentFileNames are the accepted bare source variants used
	// when no project declaration exists.
	EnvironmentFileNames = []string{"environment.yml", "environment.yaml"}
)

// basePlatforms is always part of the default lock platform set; the
// current host platform is added when it is not already included.
var basePlatforms = []string{"osx-64", "linux-64", "win-64"}

// Dependencies bundles every external collaborator the core needs.
type Dependencies struct {
	Specs    ports.SpecSourcePort
	Locks    ports.LockfileStorePort
	Solver   ports.SolverPort
	Conda    ports.CondaPort
	Prefixes ports.PrefixDataPort
	Shell    ports.ShellPort

	// EnvsPathCandidates overrides where prefixes are materialized; the
	// first writable candidate wins. Empty means <project>/envs.
	EnvsPathCandidates []string
}

// Project is an immutable view of the on-disk declarations. Construct
// a new instance to observe edits.
type Project struct {
	Directory   string
	CondarcPath string

	file             types.ProjectFile
	deps             Dependencies
	defaultPlatforms []string
	envsRoot         string
	coordinator      *LockCoordinator
	checker          *ConsistencyChecker
}

// LoadProject parses the project declaration in directory, or
// synthesizes a single-environment project from a bare environment
// file when no declaration exists.
func (d Dependencies) LoadProject(ctx context.Context, directory string) (*Project, error) {
	resolved, err := filepath.Abs(directory)
	if err != nil {
		return nil, validationError(fmt.Sprintf("invalid project directory %q", directory), err)
	}

	projectPath, err := findFile(resolved, ProjectFileNames)
	if err != nil {
		return nil, err
	}

	var file types.ProjectFile
	if projectPath != "" {
		file, err = d.Specs.LoadProjectFile(projectPath)
		if err != nil {
			return nil, err
		}
	} else {
		log.Info().Str("directory", resolved).Msg("no project file found, checking for environment files")
		envPath, err := findFile(resolved, EnvironmentFileNames)
		if err != nil {
			return nil, err
		}
		if envPath == "" {
			return nil, sourceNotFoundError(fmt.Sprintf(
				"no %s or %s file was found in %s",
				strings.Join(ProjectFileNames, " or "),
				strings.Join(EnvironmentFileNames, " or "),
				resolved))
		}
		rel, _ := filepath.Rel(resolved, envPath)
		file = types.ProjectFile{
			Name:         filepath.Base(resolved),
			Environments: []types.EnvironmentDecl{{Name: "default", Sources: []string{rel}}},
		}
	}

	if err := validateProjectFile(ctx, file); err != nil {
		return nil, err
	}

	host, err := d.Conda.CurrentPlatform(ctx)
	if err != nil {
		return nil, err
	}
	defaults := append([]string(nil), basePlatforms...)
	if !containsString(defaults, host) {
		defaults = append(defaults, host)
	}

	envsRoot, err := selectEnvsRoot(resolved, d.EnvsPathCandidates)
	if err != nil {
		return nil, err
	}

	project := &Project{
		Directory:        resolved,
		CondarcPath:      filepath.Join(resolved, ".condarc"),
		file:             file,
		deps:             d,
		defaultPlatforms: defaults,
		envsRoot:         envsRoot,
	}
	project.coordinator = &LockCoordinator{
		Specs:            d.Specs,
		Locks:            d.Locks,
		Solver:           d.Solver,
		DefaultPlatforms: defaults,
	}
	project.checker = &ConsistencyChecker{
		Coordinator: project.coordinator,
		Locks:       d.Locks,
		Prefixes:    d.Prefixes,
		Conda:       d.Conda,
	}
	log.Info().Str("directory", resolved).Msg("created project instance")
	return project, nil
}

func validateProjectFile(ctx context.Context, file types.ProjectFile) error {
	assert.NotEmpty(ctx, file.Name, "project name must be set")
	if len(file.Environments) == 0 {
		return validationError("project declares no environments", nil)
	}
	for _, env := range file.Environments {
		if len(env.Sources) == 0 {
			return validationError(fmt.Sprintf("environment %q declares no source files", env.Name), nil)
		}
	}
	for _, cmd := range file.Commands {
		if strings.TrimSpace(cmd.Cmd) == "" {
			return validationError(fmt.Sprintf("command %q has an empty cmd", cmd.Name), nil)
		}
		if cmd.Environment != "" {
			if _, ok := file.Environment(cmd.Environment); !ok {
				return validationError(fmt.Sprintf(
					"command %q references undeclared environment %q", cmd.Name, cmd.Environment), nil)
			}
		}
	}
	return nil
}

// Name returns the declared project name.
func (p *Project) Name() string {
	return p.file.Name
}

// Environments re-derives the environment list on every call; the lock
// artifact and prefix are external files whose content defines all
// derived state.
func (p *Project) Environments() []*Environment {
	envs := make([]*Environment, 0, len(p.file.Environments))
	for _, decl := range p.file.Environments {
		envs = append(envs, p.buildEnvironment(decl))
	}
	return envs
}

// Environment looks up a declared environment by name.
func (p *Project) Environment(name string) (*Environment, error) {
	decl, ok := p.file.Environment(name)
	if !ok {
		return nil, environmentNotFoundError(fmt.Sprintf("the environment %q is not defined", name))
	}
	return p.buildEnvironment(decl), nil
}

// DefaultEnvironment returns the first declared environment.
func (p *Project) DefaultEnvironment() *Environment {
	return p.buildEnvironment(p.file.Environments[0])
}

func (p *Project) buildEnvironment(decl types.EnvironmentDecl) *Environment {
	sources := make([]string, 0, len(decl.Sources))
	for _, source := range decl.Sources {
		if filepath.IsAbs(source) {
			sources = append(sources, source)
		} else {
			sources = append(sources, filepath.Join(p.Directory, source))
		}
	}
	return &Environment{
		Name:         decl.Name,
		Sources:      sources,
		PrefixPath:   filepath.Join(p.envsRoot, decl.Name),
		LockfilePath: filepath.Join(p.Directory, fmt.Sprintf("conda-lock.%s.yml", decl.Name)),
		ProjectDir:   p.Directory,
		CondarcPath:  p.CondarcPath,
		Variables:    p.file.Variables,
		locks:        p.coordinator,
		checker:      p.checker,
		conda:        p.deps.Conda,
		specs:        p.deps.Specs,
		store:        p.deps.Locks,
		prefixes:     p.deps.Prefixes,
		shell:        p.deps.Shell,
	}
}

// Commands returns the declared commands in declaration order.
func (p *Project) Commands() []*Command {
	cmds := make([]*Command, 0, len(p.file.Commands))
	for _, decl := range p.file.Commands {
		cmds = append(cmds, p.buildCommand(decl))
	}
	return cmds
}

// Command looks up a declared command by name.
func (p *Project) Command(name string) (*Command, error) {
	decl, ok := p.file.Command(name)
	if !ok {
		return nil, commandNotFoundError(fmt.Sprintf("the command %q is not defined", name))
	}
	return p.buildCommand(decl), nil
}

// DefaultCommand returns the first declared command.
func (p *Project) DefaultCommand() (*Command, error) {
	if len(p.file.Commands) == 0 {
		return nil, commandNotFoundError("this project has no defined commands")
	}
	return p.buildCommand(p.file.Commands[0]), nil
}

// AdHocCommand wraps a raw command line not declared in the project
// file; it runs in the default environment with no variable overrides.
func (p *Project) AdHocCommand(cmdline string) *Command {
	return &Command{Name: cmdline, Cmd: cmdline, project: p}
}

func (p *Project) buildCommand(decl types.CommandDecl) *Command {
	return &Command{
		Name:        decl.Name,
		Cmd:         decl.Cmd,
		Environment: decl.Environment,
		Variables:   decl.Variables,
		project:     p,
	}
}

// Check reports the lock state of every environment. The project is ok
// only when every environment is locked and up-to-date.
func (p *Project) Check() ([]types.CheckStatus, bool, error) {
	statuses := make([]types.CheckStatus, 0, len(p.file.Environments))
	ok := true
	for _, env := range p.Environments() {
		state := types.CheckStateOK
		if !p.deps.Locks.Exists(env.LockfilePath) {
			state = types.CheckStateNotLocked
			ok = false
		} else {
			locked, err := env.IsLocked()
			if err != nil {
				return nil, false, err
			}
			if !locked {
				state = types.CheckStateOutOfDate
				ok = false
			}
		}
		statuses = append(statuses, types.CheckStatus{Environment: env.Name, State: state})
	}
	return statuses, ok, nil
}

// findFile searches directory for one of the filename variants; more
// than one variant present is an error.
func findFile(directory string, options []string) (string, error) {
	var found []string
	for _, name := range options {
		path := filepath.Join(directory, name)
		if _, err := os.Stat(path); err == nil {
			found = append(found, path)
		}
	}
	switch len(found) {
	case 0:
		return "", nil
	case 1:
		return found[0], nil
	default:
		return "", validationError(fmt.Sprintf(
			"multiple variants of the same file were found: %s; keep one of them",
			strings.Join(found, ", ")), nil)
	}
}

// selectEnvsRoot picks the first writable candidate root, creating it
// when absent. No candidates means <project>/envs.
func selectEnvsRoot(projectDir string, candidates []string) (string, error) {
	if len(candidates) == 0 {
		return filepath.Join(projectDir, "envs"), nil
	}
	for _, candidate := range candidates {
		root := strings.TrimSpace(candidate)
		if root == "" {
			continue
		}
		if err := os.MkdirAll(root, 0o755); err != nil {
			continue
		}
		if isWritable(root) {
			return root, nil
		}
	}
	return "", validationError(fmt.Sprintf(
		"no writable environments root among candidates: %s",
		strings.Join(candidates, string(os.PathListSeparator))), nil)
}

func isWritable(dir string) bool {
	probe, err := os.CreateTemp(dir, ".conda-project-*")
	if err != nil {
		return false
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return true
}

func containsString(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}
