package cli

import (
	"context"

	"github.com/spf13/cobra"

	"conda-project/internal/app"
)

func newActivateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "activate [environment]",
		Short: "Install an environment if needed and open a shell in it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			if len(args) > 0 {
				name = args[0]
			}
			return runActivate(cmd.Context(), name)
		},
	}
}

func runActivate(ctx context.Context, name string) error {
	service := newAppService()
	return service.Activate(ctx, app.ActivateRequest{
		Directory:   projectDirectory(),
		Environment: name,
		Verbose:     verboseOutput(),
	})
}
