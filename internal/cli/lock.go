package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"conda-project/internal/app"
	"conda-project/internal/types"
)

type lockOptions struct {
	Environment string
	Force       bool
}

func newLockCommand() *cobra.Command {
	opts := lockOptions{}
	cmd := &cobra.Command{
		Use:   "lock [environment]",
		Short: "Lock the dependencies of one or all environments",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Environment = args[0]
			}
			return runLock(cmd.Context(), opts)
		},
	}
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Re-solve even when the lockfile is up to date")
	return cmd
}

func runLock(ctx context.Context, opts lockOptions) error {
	service := newAppService()
	result, err := service.Lock(ctx, app.LockRequest{
		Directory:   projectDirectory(),
		Environment: opts.Environment,
		Force:       opts.Force,
		Verbose:     verboseOutput(),
	})
	if err != nil {
		return err
	}
	for _, lock := range result.Locks {
		switch lock.Outcome {
		case types.LockRelocked:
			fmt.Printf("Locked dependencies for %s\n", lock.Environment)
		default:
			fmt.Printf("Lockfile for %s is already up to date\n", lock.Environment)
		}
	}
	return nil
}
