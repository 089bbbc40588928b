package app

import (
	"context"
	"fmt"

	"conda-project/internal/core"
	"conda-project/internal/types"
)

func (s Service) Lock(ctx context.Context, req LockRequest) (LockResult, error) {
	project, err := s.load(ctx, req.Directory)
	if err != nil {
		return LockResult{}, err
	}
	environments, err := selectEnvironments(project, req.Environment, true)
	if err != nil {
		return LockResult{}, err
	}

	var result LockResult
	for _, env := range environments {
		var outcome types.LockOutcome
		err := withSpinner(req.Verbose, fmt.Sprintf("Locking dependencies for %s", env.Name), func() error {
			var err error
			outcome, err = env.Lock(ctx, req.Force, req.Verbose)
			return err
		})
		if err != nil {
			return LockResult{}, err
		}
		result.Locks = append(result.Locks, EnvironmentLock{Environment: env.Name, Outcome: outcome})
	}
	return result, nil
}

// selectEnvironments resolves a --environment style argument: a named
// environment, every environment when all is set, or the default one.
func selectEnvironments(project *core.Project, name string, all bool) ([]*core.Environment, error) {
	if name != "" {
		env, err := project.Environment(name)
		if err != nil {
			return nil, err
		}
		return []*core.Environment{env}, nil
	}
	if all {
		return project.Environments(), nil
	}
	return []*core.Environment{project.DefaultEnvironment()}, nil
}
