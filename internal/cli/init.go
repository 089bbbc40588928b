package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"conda-project/internal/app"
)

type initOptions struct {
	Name         string
	Dependencies []string
	Channels     []string
	Platforms    []string
	CondaConfigs []string
	NoLock       bool
	Install      bool
}

func newInitCommand() *cobra.Command {
	opts := initOptions{}
	cmd := &cobra.Command{
		Use:   "init [dependency...]",
		Short: "Initialize a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.Dependencies = args
			return runInit(cmd.Context(), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.Name, "name", "n", "", "Project name (defaults to the directory name)")
	cmd.Flags().StringSliceVarP(&opts.Channels, "channel", "c", nil, "Channels to search for dependencies")
	cmd.Flags().StringSliceVar(&opts.Platforms, "platforms", nil, "Platforms to lock for")
	cmd.Flags().StringSliceVar(&opts.CondaConfigs, "conda-configs", nil, "Conda config key=value pairs written to .condarc")
	cmd.Flags().BoolVar(&opts.NoLock, "no-lock", false, "Do not lock the default environment after writing files")
	cmd.Flags().BoolVar(&opts.Install, "install", false, "Install the default environment after writing files")
	return cmd
}

func runInit(ctx context.Context, opts initOptions) error {
	service := newAppService()
	result, err := service.Init(ctx, app.InitRequest{
		Directory:    projectDirectory(),
		Name:         opts.Name,
		Dependencies: opts.Dependencies,
		Channels:     opts.Channels,
		Platforms:    opts.Platforms,
		CondaConfigs: opts.CondaConfigs,
		Lock:         !opts.NoLock,
		Install:      opts.Install,
		Verbose:      verboseOutput(),
	})
	if err != nil {
		return err
	}
	fmt.Printf("Project created at %s\n", result.Directory)
	return nil
}
