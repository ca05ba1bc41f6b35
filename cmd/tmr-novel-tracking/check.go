package main

import (
	"fmt"

	"github.com/sang765/tmr-novel-tracking/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check every novel for new chapters and announce them",
	Long: `Check performs a full update pass:
1. Fetches the group page and collects every novel
2. Fetches each novel page and collects its chapter list
3. Compares the lists against the cached snapshot
4. Posts a Discord notification for each new chapter
5. Saves the updated snapshot

Without TMR_DISCORD_WEBHOOK_URL (or discord_webhook_url in config) the
pass still runs and updates the snapshot, it just skips the notifications.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := viper.GetString("root_path")

		// Initialize application
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		// Run the update pass
		if err := application.Run(rootPath); err != nil {
			return fmt.Errorf("check failed: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
