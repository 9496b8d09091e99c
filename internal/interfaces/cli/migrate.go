package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/turtacn/TalentScreen/internal/infrastructure/database/postgres"
)

func newMigrateCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}
	cmd.AddCommand(newMigrateUpCmd(opts))
	cmd.AddCommand(newMigrateDownCmd(opts))
	return cmd
}

func newMigrateUpCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := postgres.RunMigrations(cfg.Database.DSN(), migrationsURL(cfg.Database.MigrationsPath)); err != nil {
				return err
			}
			fmt.Println("migrations applied")
			return nil
		},
	}
}

func newMigrateDownCmd(opts *rootOptions) *cobra.Command {
	var steps int

	cmd := &cobra.Command{
		Use:   "down",
		Short: "Roll back migrations",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if err := postgres.RollbackMigrations(cfg.Database.DSN(), migrationsURL(cfg.Database.MigrationsPath), steps); err != nil {
				return err
			}
			fmt.Printf("rolled back %d migration(s)\n", steps)
			return nil
		},
	}
	cmd.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	return cmd
}

func migrationsURL(path string) string {
	return "file://" + path
}
