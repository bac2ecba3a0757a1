package root

import (
	"context"

	"github.com/spf13/cobra"

	"cleanquest/internal/tui"
)

func newBoardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "board",
		Short: "Open the interactive quest board",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			a, cleanup, err := openApp(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			return tui.RunBoard(ctx, a.svc, cmd.OutOrStdout(), a.cfg.Timers.ActiveTick)
		},
	}

	return cmd
}
