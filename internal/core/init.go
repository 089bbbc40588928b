package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"

	"conda-project/internal/types"
)

// InitOptions scaffolds a new project directory.
type InitOptions struct {
	Directory    string
	Name         string
	Dependencies []string
	Channels     []string
	Platforms    []string
	CondaConfigs []string
	Lock         bool
	Verbose      bool
}

// InitProject creates the environment.yml, conda-project.yml, and
// .condarc files for a new project, then loads it. An existing project
// declaration is loaded as-is. When opts.Lock is set the default
// environment is locked immediately.
func (d Dependencies) InitProject(ctx context.Context, opts InitOptions) (*Project, error) {
	directory, err := filepath.Abs(opts.Directory)
	if err != nil {
		return nil, validationError(fmt.Sprintf("invalid project directory %q", opts.Directory), err)
	}
	if err := os.MkdirAll(directory, 0o755); err != nil {
		return nil, validationError(fmt.Sprintf("cannot create project directory %s", directory), err)
	}

	existing, err := findFile(directory, ProjectFileNames)
	if err != nil {
		return nil, err
	}
	if existing != "" {
		log.Info().Str("path", existing).Msg("existing project file found")
		return d.LoadProject(ctx, directory)
	}

	name := opts.Name
	if name == "" {
		name = filepath.Base(directory)
	}

	channels := opts.Channels
	if len(channels) == 0 {
		channels = []string{"defaults"}
	}
	platforms := opts.Platforms
	if len(platforms) == 0 {
		host, err := d.Conda.CurrentPlatform(ctx)
		if err != nil {
			return nil, err
		}
		platforms = append([]string(nil), basePlatforms...)
		if !containsString(platforms, host) {
			platforms = append(platforms, host)
		}
	}

	envDoc := types.EnvironmentFile{
		Channels:  types.DedupeChannels(channels),
		Platforms: platforms,
	}
	for _, dep := range opts.Dependencies {
		if err := ValidateCondaSpec(dep); err != nil {
			return nil, err
		}
		envDoc.Dependencies = append(envDoc.Dependencies, types.Dependency{Spec: dep})
	}
	if envDoc.Dependencies == nil {
		envDoc.Dependencies = []types.Dependency{}
	}
	if err := d.Specs.SaveEnvironmentFile(filepath.Join(directory, "environment.yml"), envDoc); err != nil {
		return nil, err
	}

	projectDoc := types.ProjectFile{
		Name:         name,
		Environments: []types.EnvironmentDecl{{Name: "default", Sources: []string{"environment.yml"}}},
	}
	if err := d.Specs.SaveProjectFile(filepath.Join(directory, "conda-project.yml"), projectDoc); err != nil {
		return nil, err
	}

	if err := writeCondarc(filepath.Join(directory, ".condarc"), opts.CondaConfigs); err != nil {
		return nil, err
	}

	project, err := d.LoadProject(ctx, directory)
	if err != nil {
		return nil, err
	}
	if opts.Lock {
		if _, err := project.DefaultEnvironment().Lock(ctx, false, opts.Verbose); err != nil {
			return nil, err
		}
	}
	log.Info().Str("directory", directory).Msg("project created")
	return project, nil
}

func writeCondarc(path string, configs []string) error {
	condarc := map[string]string{}
	for _, config := range configs {
		key, value, ok := strings.Cut(config, "=")
		if !ok {
			return validationError(fmt.Sprintf("invalid conda config %q, expected key=value", config), nil)
		}
		condarc[strings.TrimSpace(key)] = strings.TrimSpace(value)
	}
	data, err := yaml.Marshal(condarc)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return validationError(fmt.Sprintf("cannot write %s", path), err)
	}
	return nil
}
