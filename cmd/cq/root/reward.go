package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cleanquest/internal/ui"
)

func newRewardsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rewards",
		Short: "List real-life rewards and what they cost",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := svc.State()
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.Heading(ui.IconGift, "Rewards"))
			for _, r := range s.RealRewards {
				var state string
				switch {
				case r.Redeemed:
					state = ui.Muted.Render("redeemed")
				case s.TotalXP >= r.XPRequired:
					state = ui.Good.Render("available")
				default:
					state = ui.Muted.Render(fmt.Sprintf("%s %d XP to go", ui.IconLock, r.XPRequired-s.TotalXP))
				}
				fmt.Fprintf(out, "%s %s %s %s %s\n", ui.Key.Render(strconv.Itoa(r.ID)), r.Icon, r.Name, ui.Muted.Render(fmt.Sprintf("(%d XP)", r.XPRequired)), state)
			}
			return nil
		},
	}

	return cmd
}

func newRedeemCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "redeem <reward-id>",
		Short: "Redeem a reward you have unlocked",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) != 1 {
				return errors.New("reward id is required")
			}
			if _, err := strconv.Atoi(args[0]); err != nil {
				return errors.New("reward id must be an integer")
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

			id, _ := strconv.Atoi(args[0])
			r, code, err := svc.RedeemReward(ctx, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconGift+" Redeemed"), r.Icon, r.Name)
			fmt.Fprintln(out, ui.LabelValue("Code", ui.Gold.Render(code)))
			return nil
		},
	}

	return cmd
}
