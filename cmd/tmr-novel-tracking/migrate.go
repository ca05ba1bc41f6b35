package main

import (
	"fmt"
	"path/filepath"

	"github.com/sang765/tmr-novel-tracking/internal/database"
	"github.com/sang765/tmr-novel-tracking/internal/domain"
	"github.com/sang765/tmr-novel-tracking/internal/logger"
	"github.com/sang765/tmr-novel-tracking/internal/repository"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate-deliveries",
	Short: "Seed the delivery log from the chapter snapshot",
	Long: `Seed the SQLite delivery log from an existing cache.json snapshot.
This is a one-time migration command for installations that predate the
delivery log: every cached chapter is recorded as already announced, so
losing or resetting cache.json can no longer cause old chapters to be
posted again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rootPath := viper.GetString("root_path")

		log := logger.NewLogger()
		paths := domain.NewPaths(rootPath)

		log.Info().
			Str("cache_path", paths.CachePath).
			Str("db_dir", paths.DatabaseDir).
			Msg("Starting delivery log seeding")

		fileRepo := repository.NewFileRepository(log)
		snapshot, err := fileRepo.GetSnapshot(cmd.Context(), paths.CachePath)
		if err != nil {
			return fmt.Errorf("failed to load snapshot: %w", err)
		}

		db, err := database.NewDB(paths.DatabaseDir, log)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		deliveryRepo := database.NewDeliveryRepo(log, db)

		seeded, err := database.SeedDeliveries(cmd.Context(), deliveryRepo, snapshot, log)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		fmt.Printf("\n✓ Delivery log seeding complete!\n")
		fmt.Printf("  Database: %s\n", filepath.Join(paths.DatabaseDir, "tmr-novel-tracking.db"))
		fmt.Printf("  Seeded chapters: %d\n\n", seeded)

		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
