package app

import (
	"context"

	"conda-project/internal/core"
)

func (s Service) Run(ctx context.Context, req RunRequest) error {
	project, err := s.load(ctx, req.Directory)
	if err != nil {
		return err
	}

	var cmd *core.Command
	if req.Command == "" {
		cmd, err = project.DefaultCommand()
		if err != nil {
			return err
		}
	} else if cmd, err = project.Command(req.Command); err != nil {
		// Undeclared names run verbatim in the default environment.
		cmd = project.AdHocCommand(req.Command)
	}
	return cmd.Run(ctx, req.Environment, req.ExtraArgs, req.Verbose)
}
