package main

import (
	"fmt"

	"github.com/sang765/tmr-novel-tracking/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Publish the translation status of every novel",
	Long: `Status scrapes the status pages of the group, builds a single
summary message and posts it to the Discord webhook. The message id is
remembered so the next run edits the same message in place instead of
posting a new one.

This command requires TMR_DISCORD_WEBHOOK_URL (or discord_webhook_url
in config) to be set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := viper.GetString("root_path")
		writeMarkdown, _ := cmd.Flags().GetBool("markdown")

		// Initialize application
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		// Publish the status summary
		if err := application.RunStatus(rootPath, writeMarkdown); err != nil {
			return fmt.Errorf("status failed: %w", err)
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().Bool("markdown", true, "also write novel_status.md next to the cache")
	rootCmd.AddCommand(statusCmd)
}
