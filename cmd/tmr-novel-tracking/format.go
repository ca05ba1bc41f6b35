package main

import (
	"fmt"

	"github.com/sang765/tmr-novel-tracking/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Format the cover mapping YAML files",
	Long: `Format the cover mapping YAML files to ensure consistent
formatting after hand edits.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := viper.GetString("root_path")

		// Initialize application
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		// Format files
		if err := application.FormatCovers(rootPath); err != nil {
			return fmt.Errorf("format failed: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
}
