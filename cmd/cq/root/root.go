package root

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"cleanquest/internal/ui"
)

const Version = "0.1.0"

var globalFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

var rootCmd = &cobra.Command{
	Use:           "cq",
	Short:         "CleanQuest — gamified household chores",
	Long:          "CleanQuest turns a three-day cleaning plan into quests: finish tasks for XP, level up, redeem real rewards and take timed breaks.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")

	rootCmd.PersistentFlags().StringVar(&globalFlags.configPath, "config", "", "Config file (default ~/.cleanquest/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.dbPath, "db", "", "SQLite database path (overrides storage.path)")
	rootCmd.PersistentFlags().StringVar(&globalFlags.logLevel, "log-level", "", "Log level (debug|info|warn|error)")

	rootCmd.AddCommand(
		newStatusCmd(),
		newListCmd(),
		newDoCmd(),
		newRestoreCmd(),
		newDayCmd(),
		newCompleteDayCmd(),
		newBreakCmd(),
		newRewardsCmd(),
		newRedeemCmd(),
		newSoundCmd(),
		newUserCmd(),
		newFriendCmd(),
		newShareCmd(),
		newSharedCmd(),
		newAcceptCmd(),
		newRejectCmd(),
		newInboxCmd(),
		newStatsCmd(),
		newDataCmd(),
		newConfigCmd(),
		newBoardCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, ui.Bad.Render(ui.IconError+" "+err.Error()))
		os.Exit(1)
	}
}
