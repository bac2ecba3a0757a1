package root

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"cleanquest/internal/engine"
	"cleanquest/internal/model"
	"cleanquest/internal/ui"
)

func newListCmd() *cobra.Command {
	var all bool
	var tips bool

	cmd := &cobra.Command{
		Use:     "quests [day]",
		Aliases: []string{"list", "ls"},
		Short:   "List the tasks of a day (default: current day)",
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return errors.New("at most one day is accepted")
			}
			if len(args) == 1 {
				if _, err := strconv.Atoi(args[0]); err != nil {
					return errors.New("day must be an integer")
				}
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

			s := svc.State()
			days := []int{s.CurrentDay - 1}
			switch {
			case all:
				days = days[:0]
				for i := range s.Quests {
					days = append(days, i)
				}
			case len(args) == 1:
				d, _ := strconv.Atoi(args[0])
				days = []int{d - 1}
			}

			for _, d := range days {
				if d < 0 || d >= len(s.Quests) {
					return engine.NotFoundError{Kind: "day", ID: strconv.Itoa(d + 1)}
				}
				if tips {
					fmt.Fprint(cmd.OutOrStdout(), ui.RenderMarkdown(questMarkdown(s, d), 80))
					continue
				}
				printQuest(cmd, s, d)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&all, "all", "a", false, "List every day")
	cmd.Flags().BoolVarP(&tips, "tips", "t", false, "Render the quest with cleaning tips")
	return cmd
}

func printQuest(cmd *cobra.Command, s model.AppState, d int) {
	out := cmd.OutOrStdout()
	q := s.Quests[d]
	fmt.Fprintln(out, ui.Heading(ui.IconQuest, fmt.Sprintf("Day %d: %s", q.Day, q.Title)))
	fmt.Fprintln(out, ui.Muted.Render(fmt.Sprintf("Operation %s · reward %q · %d XP", q.Operation, q.Reward, q.TotalXP)))
	for _, t := range q.Tasks {
		line := fmt.Sprintf("%s %s %s %s", ui.Check(t.Completed), ui.Key.Render(t.ID), t.Description, ui.Muted.Render(fmt.Sprintf("(+%d XP)", t.XP)))
		if t.Shared && t.AssignedTo != nil {
			name := *t.AssignedTo
			if u, ok := engine.FindUser(s, name); ok {
				name = u.Name
			}
			line += " " + ui.Muted.Render(ui.IconShare+" "+name)
		}
		fmt.Fprintln(out, line)
	}
	fmt.Fprintf(out, "%s\n\n", ui.Bar(engine.DayProgress(s, d), 20))
}

func questMarkdown(s model.AppState, d int) string {
	q := s.Quests[d]
	var b strings.Builder
	fmt.Fprintf(&b, "# Day %d: %s\n\n", q.Day, q.Title)
	fmt.Fprintf(&b, "*Operation %s* · reward **%s** · %d%% done\n\n", q.Operation, q.Reward, engine.DayProgress(s, d))
	for _, t := range q.Tasks {
		box := " "
		if t.Completed {
			box = "x"
		}
		fmt.Fprintf(&b, "- [%s] `%s` %s (+%d XP)\n", box, t.ID, t.Description, t.XP)
		if t.Tip != "" {
			fmt.Fprintf(&b, "  > %s\n", t.Tip)
		}
	}
	return b.String()
}
