package root

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"cleanquest/internal/engine"
	"cleanquest/internal/ui"
)

func newStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show level, XP, progress and break state",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := svc.State()
			now := time.Now()
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, ui.Heading(ui.IconSparkle, "CleanQuest Status"))
			if u, ok := engine.CurrentUser(s); ok {
				fmt.Fprintln(out, ui.LabelValue("Player", fmt.Sprintf("%s %s %s", u.Avatar, u.Name, ui.Muted.Render("("+u.ID+")"))))
			}
			fmt.Fprintln(out, ui.LabelValue("Level", s.Level))
			if toGo := engine.XPToNextLevel(s.TotalXP); toGo > 0 {
				next := engine.XPRequiredForLevel(s.Level + 1)
				fmt.Fprintln(out, ui.LabelValue("Total XP", fmt.Sprintf("%d (next at %d, %d to go)", s.TotalXP, next, toGo)))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Total XP", fmt.Sprintf("%d %s", s.TotalXP, ui.Gold.Render("(max level)"))))
			}
			fmt.Fprintln(out, ui.LabelValue("Current day", fmt.Sprintf("%d of %d", s.CurrentDay, len(s.Quests))))
			fmt.Fprintln(out, "")

			fmt.Fprintln(out, ui.H2.Render(ui.IconQuest+" Progress"))
			for i, q := range s.Quests {
				done := ""
				if i < len(s.DayCompleted) && s.DayCompleted[i] {
					done = " " + ui.Good.Render(ui.IconTrophy+" "+q.Reward)
				}
				fmt.Fprintf(out, "- Day %d %s%s\n", q.Day, ui.Bar(engine.DayProgress(s, i), 20), done)
			}
			fmt.Fprintf(out, "- Total %s\n", ui.Bar(engine.TotalProgress(s), 20))
			if title, ok := engine.GrandReward(s); ok {
				fmt.Fprintln(out, ui.Gold.Render(ui.IconTrophy+" "+title))
			}
			fmt.Fprintln(out, "")

			if s.BreakActive {
				fmt.Fprintln(out, ui.LabelValue("Break", ui.Warn.Render(ui.IconBreak+" "+engine.FormatClock(s.BreakTimeLeft)+" left")))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Break", ui.Muted.Render("none")))
			}
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%s %d day(s)", ui.IconFire, engine.Streak(s, now))))
			fmt.Fprintln(out, ui.LabelValue("Unread", engine.UnreadCount(s)))
			fmt.Fprintln(out, ui.LabelValue("Sound", ui.OnOff(s.SoundEnabled)))
			return nil
		},
	}

	return cmd
}
