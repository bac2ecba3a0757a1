package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cleanquest/internal/model"
	"cleanquest/internal/ui"
)

func sharedIDArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("shared task id is required")
	}
	return nil
}

func newAcceptCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accept <shared-id>",
		Short: "Accept a task shared with you",
		Args:  sharedIDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return respondShared(cmd, args[0], model.SharedAccepted)
		},
	}

	return cmd
}

func newRejectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reject <shared-id>",
		Short: "Reject a task shared with you",
		Args:  sharedIDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return respondShared(cmd, args[0], model.SharedRejected)
		},
	}

	return cmd
}

func respondShared(cmd *cobra.Command, id string, status model.SharedTaskStatus) error {
	ctx := context.Background()
	svc, cleanup, err := openService(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := svc.RespondSharedTask(ctx, id, status); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.Muted.Render(id), ui.SharedStatusText(string(status)))
	return nil
}
