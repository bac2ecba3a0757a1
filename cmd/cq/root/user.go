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

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage local profiles",
	}
	cmd.AddCommand(newUserAddCmd(), newUserSwitchCmd(), newUserListCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var avatar string

	cmd := &cobra.Command{
		Use:   "add <name>",
		Short: "Create a profile and switch to it",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("name is required")
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

			u, err := svc.AddUser(ctx, args[0], avatar)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", ui.Good.Render(ui.IconUsers+" Created"), u.Avatar, u.Name, ui.Muted.Render(u.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&avatar, "avatar", "", "Emoji avatar")
	return cmd
}

func newUserSwitchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "switch <user-id>",
		Short: "Switch the current profile",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("user id is required")
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

			if err := svc.SwitchUser(ctx, args[0]); err != nil {
				return err
			}
			u, _ := engine.CurrentUser(svc.State())
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render("Now playing as"), u.Avatar, u.Name)
			return nil
		},
	}
}

func newUserListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List profiles",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := svc.State()
			for _, u := range s.Users {
				printUser(cmd, s, u)
			}
			return nil
		},
	}
}

func printUser(cmd *cobra.Command, s model.AppState, u model.User) {
	marker := " "
	if s.CurrentUserID != nil && *s.CurrentUserID == u.ID {
		marker = ui.Gold.Render("*")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s %s\n", marker, u.Avatar, u.Name, ui.Muted.Render(u.ID))
}

func newFriendCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "friend",
		Short: "Manage the current profile's friends",
	}
	cmd.AddCommand(newFriendAddCmd(), newFriendRemoveCmd(), newFriendListCmd())
	return cmd
}

func userIDArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("user id is required")
	}
	return nil
}

func newFriendAddCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "add <user-id>",
		Short: "Add a friend (they get a notification)",
		Args:  userIDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.AddFriend(ctx, args[0]); err != nil {
				return err
			}
			u, _ := engine.FindUser(svc.State(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s\n", ui.Good.Render(ui.IconUsers+" Friend added"), u.Avatar, u.Name)
			return nil
		},
	}
}

func newFriendRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "remove <user-id>",
		Aliases: []string{"rm"},
		Short:   "Remove a friend",
		Args:    userIDArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.RemoveFriend(ctx, args[0]); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render("Friend removed"))
			return nil
		},
	}
}

func newFriendListCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List friends",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := svc.State()
			friends := engine.Friends(s)
			if len(friends) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), ui.Muted.Render("No friends yet."))
				return nil
			}
			for _, u := range friends {
				printUser(cmd, s, u)
			}
			return nil
		},
	}
}
