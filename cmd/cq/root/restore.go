package root

import (
	"context"
	"errors"

	"github.com/spf13/cobra"
)

func newRestoreCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "undo <task-id>",
		Aliases: []string{"restore"},
		Short:   "Restore a completed task (undo completion)",
		Long: `Restore a task to open by undoing its completion.

This will:
- Remove the completion from the analytics log
- Deduct the XP that was awarded (today's activity is reduced too)
- Mark the task as not done

A day that was already marked complete stays complete.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("task id is required")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := svc.UncompleteTask(ctx, args[0])
			if err != nil {
				return err
			}
			printToggle(cmd, svc.State(), res)
			return nil
		},
	}

	return cmd
}
