package app

import (
	"context"
	"fmt"

	"conda-project/internal/core"
)

func (s Service) Install(ctx context.Context, req InstallRequest) (InstallResult, error) {
	project, err := s.load(ctx, req.Directory)
	if err != nil {
		return InstallResult{}, err
	}
	environments, err := selectEnvironments(project, req.Environment, req.All)
	if err != nil {
		return InstallResult{}, err
	}

	var result InstallResult
	for _, env := range environments {
		var install core.InstallResult
		err := withSpinner(req.Verbose, fmt.Sprintf("Installing environment %s", env.Name), func() error {
			var err error
			install, err = env.Install(ctx, core.InstallOptions{
				Force:      req.Force,
				AsPlatform: req.AsPlatform,
				Verbose:    req.Verbose,
			})
			return err
		})
		if err != nil {
			return InstallResult{}, err
		}
		result.Installs = append(result.Installs, EnvironmentInstall{Environment: env.Name, Result: install})
	}
	return result, nil
}
