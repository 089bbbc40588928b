package app

import "context"

func (s Service) Activate(ctx context.Context, req ActivateRequest) error {
	project, err := s.load(ctx, req.Directory)
	if err != nil {
		return err
	}
	env, err := resolveEnvironment(project, req.Environment)
	if err != nil {
		return err
	}
	return env.Activate(ctx, req.Verbose)
}
