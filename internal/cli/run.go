package cli

import (
	"context"

	"github.com/spf13/cobra"

	"conda-project/internal/app"
)

type runOptions struct {
	Environment string
}

func newRunCommand() *cobra.Command {
	opts := runOptions{}
	cmd := &cobra.Command{
		Use:   "run [command] [args...]",
		Short: "Run a named or ad-hoc command inside an environment",
		RunE: func(cmd *cobra.Command, args []string) error {
			var name string
			var extra []string
			if len(args) > 0 {
				name = args[0]
				extra = args[1:]
			}
			return runRun(cmd.Context(), opts, name, extra)
		},
	}
	cmd.Flags().StringVar(&opts.Environment, "environment", "", "Environment to run in")
	// Everything after the command name belongs to the command.
	cmd.Flags().SetInterspersed(false)
	return cmd
}

func runRun(ctx context.Context, opts runOptions, name string, extra []string) error {
	service := newAppService()
	return service.Run(ctx, app.RunRequest{
		Directory:   projectDirectory(),
		Command:     name,
		Environment: opts.Environment,
		ExtraArgs:   extra,
		Verbose:     verboseOutput(),
	})
}
