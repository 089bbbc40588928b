package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"conda-project/internal/app"
)

type cleanOptions struct {
	Environment string
	All         bool
}

func newCleanCommand() *cobra.Command {
	opts := cleanOptions{}
	cmd := &cobra.Command{
		Use:   "clean [environment]",
		Short: "Remove installed environment prefixes",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Environment = args[0]
			}
			return runClean(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.All, "all", false, "Remove every environment prefix")
	return cmd
}

func runClean(ctx context.Context, opts cleanOptions) error {
	service := newAppService()
	result, err := service.Clean(ctx, app.CleanRequest{
		Directory:   projectDirectory(),
		Environment: opts.Environment,
		All:         opts.All,
		Verbose:     verboseOutput(),
	})
	if err != nil {
		return err
	}
	for _, name := range result.Cleaned {
		fmt.Printf("Removed environment %s\n", name)
	}
	return nil
}
