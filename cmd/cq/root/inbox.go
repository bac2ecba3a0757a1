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

func newInboxCmd() *cobra.Command {
	var all bool

	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Show notifications for the current profile",
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
			fmt.Fprintln(out, ui.Heading(ui.IconBell, fmt.Sprintf("Inbox (%d unread)", engine.UnreadCount(s))))
			shown := 0
			for _, n := range engine.NotificationsFor(s, me.ID) {
				if n.Read && !all {
					continue
				}
				fmt.Fprintln(out, notificationLine(s, n))
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(out, ui.Muted.Render("Nothing new."))
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "Include read notifications")
	cmd.AddCommand(newInboxReadCmd())
	return cmd
}

func newInboxReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "read <notification-id|all>",
		Short: "Mark notifications as read",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("notification id (or \"all\") is required")
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

			if args[0] == "all" {
				n, err := svc.MarkAllRead(ctx)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %d notification(s)\n", ui.Good.Render("Marked read:"), n)
				return nil
			}
			if err := svc.MarkNotificationRead(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Good.Render("Marked read"))
			return nil
		},
	}
}

func notificationLine(s model.AppState, n model.Notification) string {
	from := userName(s, n.FromUserID)
	var msg string
	switch n.Type {
	case model.NotifyTaskShared:
		msg = from + " shared a task with you"
	case model.NotifyTaskCompleted:
		msg = from + " completed a task you shared"
	case model.NotifyFriendRequest:
		msg = from + " sent you a friend request"
	case model.NotifyFriendAccepted:
		msg = from + " added you as a friend"
	default:
		msg = string(n.Type) + " from " + from
	}
	if n.RelatedID != nil {
		if _, t, ok := engine.LocateTask(s, *n.RelatedID); ok {
			msg += ": " + t.Description
		}
	}
	mark := ui.Gold.Render("•")
	if n.Read {
		mark = " "
	}
	return fmt.Sprintf("%s %s %s %s", mark, ui.Muted.Render(n.CreatedAt.Local().Format("Jan 2 15:04")), msg, ui.Muted.Render(n.ID))
}
