package app

import (
	"context"
	"fmt"

	"conda-project/internal/core"
)

func (s Service) Add(ctx context.Context, req AddRequest) (UpdateDepsResult, error) {
	project, err := s.load(ctx, req.Directory)
	if err != nil {
		return UpdateDepsResult{}, err
	}
	env, err := resolveEnvironment(project, req.Environment)
	if err != nil {
		return UpdateDepsResult{}, err
	}
	var update core.UpdateResult
	err = withSpinner(req.Verbose, fmt.Sprintf("Adding dependencies to %s", env.Name), func() error {
		var err error
		update, err = env.Add(ctx, req.Dependencies, req.Channels, req.Verbose)
		return err
	})
	if err != nil {
		return UpdateDepsResult{}, err
	}
	return UpdateDepsResult{Environment: env.Name, Result: update}, nil
}

func (s Service) Remove(ctx context.Context, req RemoveRequest) (UpdateDepsResult, error) {
	project, err := s.load(ctx, req.Directory)
	if err != nil {
		return UpdateDepsResult{}, err
	}
	env, err := resolveEnvironment(project, req.Environment)
	if err != nil {
		return UpdateDepsResult{}, err
	}
	var update core.UpdateResult
	err = withSpinner(req.Verbose, fmt.Sprintf("Removing dependencies from %s", env.Name), func() error {
		var err error
		update, err = env.Remove(ctx, req.Dependencies, req.Verbose)
		return err
	})
	if err != nil {
		return UpdateDepsResult{}, err
	}
	return UpdateDepsResult{Environment: env.Name, Result: update}, nil
}

func resolveEnvironment(project *core.Project, name string) (*core.Environment, error) {
	if name == "" {
		return project.DefaultEnvironment(), nil
	}
	return project.Environment(name)
}
