package root

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"cleanquest/internal/engine"
	"cleanquest/internal/ui"
)

var intensityCells = []string{"·", "░", "▒", "▓", "█"}

func newStatsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "stats",
		Aliases: []string{"analytics"},
		Short:   "Show activity analytics",
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

			today := engine.TodayActivity(s, now)
			fmt.Fprintln(out, ui.Heading(ui.IconChart, "Today"))
			fmt.Fprintln(out, ui.LabelValue("Tasks", today.TasksCompleted))
			fmt.Fprintln(out, ui.LabelValue("XP", today.XPEarned))
			fmt.Fprintln(out, ui.LabelValue("Active", engine.FormatMinutes(today.ActiveTimeMinutes)))
			fmt.Fprintln(out, ui.LabelValue("Breaks", today.BreaksCompleted))
			fmt.Fprintln(out)

			fmt.Fprintln(out, ui.Heading(ui.IconFire, "Overall"))
			fmt.Fprintln(out, ui.LabelValue("Streak", fmt.Sprintf("%d day(s)", engine.Streak(s, now))))
			fmt.Fprintln(out, ui.LabelValue("Active time", engine.FormatMinutes(s.Analytics.TotalActiveTimeMinutes)))
			fmt.Fprintln(out, ui.LabelValue("Break time", engine.FormatMinutes(engine.TotalBreakMinutes(s))))
			fmt.Fprintln(out, ui.LabelValue("Progress", ui.Bar(engine.TotalProgress(s), 20)))
			printBreakStats(cmd, engine.BreakStatistics(s, now))
			fmt.Fprintln(out)

			fmt.Fprintln(out, ui.Heading(ui.IconQuest, "Days"))
			for _, d := range engine.DayCompletion(s) {
				mark := ""
				if d.Done {
					mark = " " + ui.IconTrophy
				}
				fmt.Fprintf(out, "Day %d %-28s %d/%d %s%s\n", d.Day, d.Title, d.Completed, d.Total, ui.Bar(d.Percent, 12), mark)
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, ui.Heading(ui.IconTimer, "Productive times"))
			for _, slot := range engine.ProductiveTimes(s, time.Local) {
				fmt.Fprintf(out, "%-22s %3d %s\n", slot.Name, slot.Count, ui.Bar(slot.Percent, 12))
			}
			fmt.Fprintln(out)

			fmt.Fprintln(out, ui.Heading(ui.IconFire, "Last 4 weeks"))
			fmt.Fprintln(out, calendarGrid(engine.ActivityCalendar(s, now)))
			return nil
		},
	}

	return cmd
}

// calendarGrid renders the 28 calendar days as four rows of seven.
func calendarGrid(days []engine.CalendarDay) string {
	var b strings.Builder
	for i, d := range days {
		cell := intensityCells[min(len(intensityCells)-1, d.Intensity)]
		if d.Intensity > 0 {
			cell = ui.Good.Render(cell)
		} else {
			cell = ui.Dim.Render(cell)
		}
		b.WriteString(cell)
		if i%7 == 6 {
			b.WriteString("\n")
		} else {
			b.WriteString(" ")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
