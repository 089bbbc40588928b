package app

import (
	"context"
	"fmt"
)

func (s Service) Clean(ctx context.Context, req CleanRequest) (CleanResult, error) {
	project, err := s.load(ctx, req.Directory)
	if err != nil {
		return CleanResult{}, err
	}
	environments, err := selectEnvironments(project, req.Environment, req.All)
	if err != nil {
		return CleanResult{}, err
	}

	var result CleanResult
	for _, env := range environments {
		err := withSpinner(req.Verbose, fmt.Sprintf("Removing environment %s", env.Name), func() error {
			return env.Clean(ctx, req.Verbose)
		})
		if err != nil {
			return CleanResult{}, err
		}
		result.Cleaned = append(result.Cleaned, env.Name)
	}
	return result, nil
}
