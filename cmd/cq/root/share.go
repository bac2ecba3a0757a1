package root

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"cleanquest/internal/engine"
	"cleanquest/internal/model"
	"cleanquest/internal/ui"
)

func newShareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "share <task-id> <user-id>",
		Short: "Share a task with another profile",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 2 {
				return errors.New("task id and user id are required")
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

			st, err := svc.ShareTask(ctx, args[0], args[1])
			if err != nil {
				return err
			}
			s := svc.State()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s → %s %s\n",
				ui.Good.Render(ui.IconShare+" Shared"),
				taskLabel(s, st.TaskID),
				userName(s, st.ToUserID),
				ui.Muted.Render(st.ID))
			return nil
		},
	}

	return cmd
}

func newSharedCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shared",
		Short: "List tasks shared with and by the current profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := svc.State()
			me, ok := engine.CurrentUser(s)
			if !ok {
				return engine.ErrNoCurrentUser
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconShare, "Shared with me"))
			printShares(cmd, s, engine.IncomingShares(s, me.ID), true)
			fmt.Fprintln(out, ui.Heading(ui.IconShare, "Shared by me"))
			printShares(cmd, s, engine.OutgoingShares(s, me.ID), false)
			return nil
		},
	}

	cmd.AddCommand(newSharedDoneCmd())
	return cmd
}

func newSharedDoneCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "done <shared-id>",
		Short: "Report a shared task as completed",
		Args:  sharedIDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			return respondShared(cmd, args[0], model.SharedCompleted)
		},
	}
}

func printShares(cmd *cobra.Command, s model.AppState, shares []model.SharedTask, incoming bool) {
	out := cmd.OutOrStdout()
	if len(shares) == 0 {
		fmt.Fprintln(out, ui.Muted.Render("  none"))
		return
	}
	for _, st := range shares {
		other := st.ToUserID
		if incoming {
			other = st.FromUserID
		}
		fmt.Fprintf(out, "  %s %s %s %s\n", ui.Muted.Render(st.ID), taskLabel(s, st.TaskID), userName(s, other), ui.SharedStatusText(string(st.Status)))
	}
}

func userName(s model.AppState, id string) string {
	if u, ok := engine.FindUser(s, id); ok {
		return u.Avatar + " " + u.Name
	}
	return id
}
