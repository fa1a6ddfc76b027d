package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/ctrl-alt-vibe/vibe-backend/config"
	"github.com/ctrl-alt-vibe/vibe-backend/internal/storage/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage the database schema",
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return migrateUp(cfg)
	},
}

var migrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Roll back migrations (default 1)",
	Long: `Roll back the given number of migrations.

Example:
  ctrlaltvibe migrate down      # roll back 1 migration
  ctrlaltvibe migrate down 3    # roll back 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		steps := 1
		if len(args) == 1 {
			n, err := strconv.Atoi(args[0])
			if err != nil || n <= 0 {
				return fmt.Errorf("steps must be a positive integer, got %q", args[0])
			}
			steps = n
		}
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withMigrator(cfg, func(m *postgres.Migrator) error { return m.Down(steps) })
	},
}

var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the applied migration version",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		return withMigrator(cfg, func(m *postgres.Migrator) error {
			v, dirty, ok, err := m.Version()
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(cmd.OutOrStdout(), "no migrations applied")
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "version %d (dirty: %t)\n", v, dirty)
			return nil
		})
	},
}

func init() {
	migrateCmd.AddCommand(migrateUpCmd, migrateDownCmd, migrateStatusCmd)
	rootCmd.AddCommand(migrateCmd)
}

func migrateUp(cfg *config.Config) error {
	return withMigrator(cfg, func(m *postgres.Migrator) error { return m.Up() })
}

func withMigrator(cfg *config.Config, fn func(*postgres.Migrator) error) error {
	m, err := postgres.NewMigrator(&cfg.Database)
	if err != nil {
		return err
	}
	defer m.Close()
	return fn(m)
}
