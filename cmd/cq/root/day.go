package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"cleanquest/internal/ui"
)

func dayArg(cmd *cobra.Command, args []string) error {
	if len(args) != 1 {
		return errors.New("day is required")
	}
	if _, err := strconv.Atoi(args[0]); err != nil {
		return errors.New("day must be an integer")
	}
	return nil
}

func newDayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "day <n>",
		Short: "Switch the current day",
		Args:  dayArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			day, _ := strconv.Atoi(args[0])
			if err := svc.SwitchDay(ctx, day); err != nil {
				return err
			}
			printQuest(cmd, svc.State(), day-1)
			return nil
		},
	}

	return cmd
}

func newCompleteDayCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "complete-day <n>",
		Short: "Mark a finished day as complete",
		Args:  dayArg,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			day, _ := strconv.Atoi(args[0])
			if err := svc.CompleteDay(ctx, day-1); err != nil {
				return err
			}
			s := svc.State()
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", ui.BadgeDayDone, ui.Good.Render(fmt.Sprintf("Day %d: %s earned", day, s.Quests[day-1].Reward)))
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue("Current day", s.CurrentDay))
			return nil
		},
	}

	return cmd
}
