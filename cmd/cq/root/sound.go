package root

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"cleanquest/internal/ui"
)

func newSoundCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sound",
		Short: "Toggle sound effects",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			svc, cleanup, err := openService(ctx)
			if err != nil {
				return err
			}
			defer cleanup()

			icon := ui.IconMute
			if svc.ToggleSound(ctx) {
				icon = ui.IconSound
			}
			fmt.Fprintln(cmd.OutOrStdout(), ui.LabelValue(icon+" Sound", ui.OnOff(svc.State().SoundEnabled)))
			return nil
		},
	}

	return cmd
}
