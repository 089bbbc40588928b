package app

import (
	"context"
	"fmt"

	"conda-project/internal/core"
)

func (s Service) Init(ctx context.Context, req InitRequest) (InitResult, error) {
	var project *core.Project
	err := withSpinner(req.Verbose, "Initializing project", func() error {
		var err error
		project, err = s.dependencies().InitProject(ctx, core.InitOptions{
			Directory:    req.Directory,
			Name:         req.Name,
			Dependencies: req.Dependencies,
			Channels:     req.Channels,
			Platforms:    req.Platforms,
			CondaConfigs: req.CondaConfigs,
			Lock:         req.Lock,
			Verbose:      req.Verbose,
		})
		return err
	})
	if err != nil {
		return InitResult{}, err
	}
	if req.Install {
		env := project.DefaultEnvironment()
		err := withSpinner(req.Verbose, fmt.Sprintf("Installing environment %s", env.Name), func() error {
			_, err := env.Install(ctx, core.InstallOptions{Verbose: req.Verbose})
			return err
		})
		if err != nil {
			return InitResult{}, err
		}
	}
	return InitResult{Directory: project.Directory, ProjectName: project.Name()}, nil
}
