package root

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"cleanquest/internal/engine"
	"cleanquest/internal/ui"
)

func newBreakCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "break",
		Short: "Take a five minute break",
	}
	cmd.AddCommand(newBreakStartCmd(), newBreakStopCmd(), newBreakStatusCmd(), newBreakRunCmd())
	return cmd
}

func newBreakStartCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start a break (it keeps running while cq is closed)",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			rec, err := svc.StartBreak(ctx)
			if err != nil {
				return err
			}
			end := rec.StartTime.Add(time.Duration(rec.Duration) * time.Second)
			fmt.Fprintf(cmd.OutOrStdout(), "%s until %s\n", ui.Good.Render(ui.IconBreak+" Break started"), end.Local().Format("15:04:05"))
			return nil
		},
	}
}

func newBreakStopCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "stop",
		Short: "End the running break early",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if err := svc.EndBreak(ctx, false); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.Warn.Render(ui.IconBreak+" Break ended early"))
			return nil
		},
	}
}

func newBreakStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the running break and break statistics",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			s := svc.State()
			out := cmd.OutOrStdout()
			if s.BreakActive {
				fmt.Fprintln(out, ui.LabelValue("Break", ui.Warn.Render(engine.FormatClock(s.BreakTimeLeft)+" left")))
			} else {
				fmt.Fprintln(out, ui.LabelValue("Break", ui.Muted.Render("none")))
			}
			printBreakStats(cmd, engine.BreakStatistics(s, time.Now()))
			return nil
		},
	}
}

func newBreakRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Start (or resume) a break and count it down in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			if _, err := svc.StartBreak(ctx); err != nil && !errors.Is(err, engine.ErrBreakActive) {
				return err
			}

			sigCtx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
			defer stop()
			done := svc.StartCountdown(sigCtx)

			out := cmd.OutOrStdout()
			refresh := time.NewTicker(time.Second)
			defer refresh.Stop()
			for {
				select {
				case <-done:
					if sigCtx.Err() != nil {
						if err := svc.EndBreak(ctx, false); err != nil && !errors.Is(err, engine.ErrNoBreak) {
							return err
						}
						fmt.Fprintln(out, "\n"+ui.Warn.Render(ui.IconBreak+" Break ended early"))
						return nil
					}
					fmt.Fprintln(out, "\n"+ui.Good.Render(ui.IconDone+" Break complete"))
					return nil
				case <-refresh.C:
					fmt.Fprintf(out, "\r%s %s ", ui.IconTimer, engine.FormatClock(svc.State().BreakTimeLeft))
				}
			}
		},
	}
}

func printBreakStats(cmd *cobra.Command, st engine.BreakStats) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, ui.LabelValue("Breaks", fmt.Sprintf("%d total, %d completed, %d this week", st.Total, st.Completed, st.ThisWeek)))
	fmt.Fprintln(out, ui.LabelValue("Average", engine.FormatClock(st.AvgDuration)))
}
