package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"conda-project/internal/app"
)

type addOptions struct {
	Environment string
	Channels    []string
}

func newAddCommand() *cobra.Command {
	opts := addOptions{}
	cmd := &cobra.Command{
		Use:   "add dependency...",
		Short: "Add dependencies to an environment, then re-lock",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(cmd.Context(), opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.Environment, "environment", "", "Environment to modify (defaults to the first)")
	cmd.Flags().StringSliceVarP(&opts.Channels, "channel", "c", nil, "Channels to append to the environment file")
	return cmd
}

func runAdd(ctx context.Context, opts addOptions, deps []string) error {
	service := newAppService()
	result, err := service.Add(ctx, app.AddRequest{
		Directory:    projectDirectory(),
		Environment:  opts.Environment,
		Dependencies: deps,
		Channels:     opts.Channels,
		Verbose:      verboseOutput(),
	})
	if err != nil {
		return err
	}
	reportUpdate(result)
	return nil
}

type removeOptions struct {
	Environment string
}

func newRemoveCommand() *cobra.Command {
	opts := removeOptions{}
	cmd := &cobra.Command{
		Use:   "remove dependency...",
		Short: "Remove dependencies from an environment, then re-lock",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), opts, args)
		},
	}
	cmd.Flags().StringVar(&opts.Environment, "environment", "", "Environment to modify (defaults to the first)")
	return cmd
}

func runRemove(ctx context.Context, opts removeOptions, deps []string) error {
	service := newAppService()
	result, err := service.Remove(ctx, app.RemoveRequest{
		Directory:    projectDirectory(),
		Environment:  opts.Environment,
		Dependencies: deps,
		Verbose:      verboseOutput(),
	})
	if err != nil {
		return err
	}
	reportUpdate(result)
	return nil
}

func reportUpdate(result app.UpdateDepsResult) {
	if !result.Result.Changed {
		fmt.Printf("Environment %s is unchanged\n", result.Environment)
		return
	}
	fmt.Printf("Updated %s\n", result.Environment)
	if result.Result.Reinstalled {
		fmt.Printf("Reinstalled environment %s\n", result.Environment)
	}
}
