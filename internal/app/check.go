package app

import "context"

func (s Service) Check(ctx context.Context, req CheckRequest) (CheckResult, error) {
	project, err := s.load(ctx, req.Directory)
	if err != nil {
		return CheckResult{}, err
	}
	statuses, ok, err := project.Check()
	if err != nil {
		return CheckResult{}, err
	}
	return CheckResult{Statuses: statuses, OK: ok}, nil
}
