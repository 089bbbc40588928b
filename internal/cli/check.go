package cli

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"

	"conda-project/internal/app"
	"conda-project/internal/types"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check that every environment has an up-to-date lockfile",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context())
		},
	}
}

func runCheck(ctx context.Context) error {
	service := newAppService()
	result, err := service.Check(ctx, app.CheckRequest{
		Directory: projectDirectory(),
		Verbose:   verboseOutput(),
	})
	if err != nil {
		return err
	}
	for _, status := range result.Statuses {
		switch status.State {
		case types.CheckStateOK:
			fmt.Printf("%s: locked\n", status.Environment)
		case types.CheckStateOutOfDate:
			fmt.Printf("%s: lockfile is out of date, run conda-project lock\n", status.Environment)
		default:
			fmt.Printf("%s: not locked, run conda-project lock\n", status.Environment)
		}
	}
	if !result.OK {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("one or more environments are not locked or out of date")
	}
	return nil
}
