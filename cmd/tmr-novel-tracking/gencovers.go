package main

import (
	"fmt"

	"github.com/sang765/tmr-novel-tracking/internal/app"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var gencoversCmd = &cobra.Command{
	Use:   "gencovers",
	Short: "Generate the cover mapping file from the master file",
	Long: `Generate the cover mapping skeleton for the group's novels.
This command reads the master cover file, lists every novel that has
no cover entry yet and writes the skeleton for them, so the covers can
be filled in by hand.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := viper.GetString("root_path")

		// Initialize application
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		// Generate cover mappings
		if err := application.GenerateCovers(rootPath); err != nil {
			return fmt.Errorf("generate covers failed: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(gencoversCmd)
}
