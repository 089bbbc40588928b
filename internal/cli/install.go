package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"conda-project/internal/app"
	"conda-project/internal/types"
)

type installOptions struct {
	Environment string
	All         bool
	Force       bool
	AsPlatform  string
}

func newInstallCommand() *cobra.Command {
	opts := installOptions{}
	cmd := &cobra.Command{
		Use:   "install [environment]",
		Short: "Install a locked environment into its prefix",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Environment = args[0]
			}
			return runInstall(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.All, "all", false, "Install every environment")
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Recreate the prefix even when it is consistent")
	cmd.Flags().StringVar(&opts.AsPlatform, "as-platform", "", "Install for a platform other than the current one")
	return cmd
}

func runInstall(ctx context.Context, opts installOptions) error {
	service := newAppService()
	result, err := service.Install(ctx, app.InstallRequest{
		Directory:   projectDirectory(),
		Environment: opts.Environment,
		All:         opts.All,
		Force:       opts.Force,
		AsPlatform:  opts.AsPlatform,
		Verbose:     verboseOutput(),
	})
	if err != nil {
		return err
	}
	for _, install := range result.Installs {
		switch install.Result.Outcome {
		case types.InstallCreated:
			fmt.Printf("Installed %s into %s\n", install.Environment, install.Result.Prefix)
		case types.InstallAlreadyFresh:
			fmt.Printf("Environment %s is already up to date\n", install.Environment)
		case types.InstallMismatch:
			fmt.Printf("Environment %s exists but does not match the lockfile, use --force to recreate it\n", install.Environment)
		}
	}
	return nil
}
