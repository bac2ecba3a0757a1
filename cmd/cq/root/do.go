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

func newDoCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "do <task-id>",
		Short: "Complete a task (e.g. cq do 1-4)",
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

			res, err := svc.CompleteTask(ctx, args[0])
			if err != nil {
				return err
			}
			printToggle(cmd, svc.State(), res)
			return nil
		},
	}

	return cmd
}

func printToggle(cmd *cobra.Command, s model.AppState, res *engine.ToggleResult) {
	out := cmd.OutOrStdout()
	if res.Completed {
		fmt.Fprintf(out, "%s %s %s\n", ui.Good.Render(ui.IconDone+" Done"), taskLabel(s, res.TaskID), ui.Muted.Render(fmt.Sprintf("(+%d XP)", res.XPDelta)))
	} else {
		fmt.Fprintf(out, "%s %s %s\n", ui.Warn.Render(ui.IconUndo+" Restored"), taskLabel(s, res.TaskID), ui.Muted.Render(fmt.Sprintf("(%d XP)", res.XPDelta)))
	}
	fmt.Fprintln(out, ui.LabelValue("Level", fmt.Sprintf("%d → %d", res.LevelBefore, res.LevelAfter)))
	if res.LevelUp {
		fmt.Fprintln(out, ui.BadgeLevelUp)
	}
	if res.LevelAfter < res.LevelBefore {
		fmt.Fprintln(out, ui.Warn.Render(ui.IconWarn+" Level decreased"))
	}
	if res.DayCompleted {
		fmt.Fprintf(out, "%s Day %d complete!\n", ui.BadgeDayDone, res.DayIndex+1)
	}
}

func taskLabel(s model.AppState, taskID string) string {
	if _, t, ok := engine.LocateTask(s, taskID); ok {
		return ui.Key.Render(taskID) + " " + t.Description
	}
	return ui.Key.Render(taskID)
}
