package core

import (
	"context"

	"conda-project/internal/ports"
)

// Command binds a user-invocable action string to an environment with
// its own variable overrides. An empty Environment means the project's
// default environment, unless the caller overrides it at run time.
type Command struct {
	Name        string
	Cmd         string
	Environment string
	Variables   map[string]*string

	project *Project
}

// Run executes the command inside its environment. environmentName
// overrides the bound environment; the environment is installed first
// when it is not consistent. Variable resolution layers the command
// overrides over the project variables, the .env file, and the process
// environment.
func (c *Command) Run(ctx context.Context, environmentName string, extraArgs []string, verbose bool) error {
	var env *Environment
	var err error
	switch {
	case environmentName != "":
		env, err = c.project.Environment(environmentName)
	case c.Environment != "":
		env, err = c.project.Environment(c.Environment)
	default:
		env = c.project.DefaultEnvironment()
	}
	if err != nil {
		return err
	}

	consistent, err := env.IsConsistent(ctx)
	if err != nil {
		return err
	}
	if !consistent {
		if _, err := env.Install(ctx, InstallOptions{Verbose: verbose}); err != nil {
			return err
		}
	}

	variables, err := PrepareVariables(c.project.Directory, c.Variables, c.project.file.Variables)
	if err != nil {
		return err
	}

	return c.project.deps.Conda.Run(ctx, ports.RunRequest{
		Prefix:     env.PrefixPath,
		WorkingDir: c.project.Directory,
		Cmd:        c.Cmd,
		ExtraArgs:  extraArgs,
		Env:        variables,
	})
}
