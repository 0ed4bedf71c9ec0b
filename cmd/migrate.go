package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/killallgit/minewatch-api/internal/database"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Manage database migrations for the MineWatch API.

Schema changes are applied with GORM auto migration for every persisted
model: videos, violations, analysis runs and dataset annotations.

Available subcommands:
  up      - Create or update every model table
  status  - Show which model tables exist`,
}

// migrateUpCmd applies pending migrations
var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	Long: `Apply all pending database migrations.

Creates missing tables, columns and indexes for every persisted model,
bringing the schema up to date. Existing data is kept.`,
	RunE: runMigrateUp,
}

// migrateStatusCmd shows migration status
var migrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show migration status",
	Long: `Display the current status of database migrations.

Lists every persisted model table and whether it exists in the
configured database.`,
	RunE: runMigrateStatus,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
	migrateCmd.AddCommand(migrateUpCmd)
	migrateCmd.AddCommand(migrateStatusCmd)

	migrateCmd.PersistentFlags().Bool("dry-run", false, "show what would be done without making changes")
}

func openDatabase() (*database.DB, error) {
	cfg, err := appConfig()
	if err != nil {
		return nil, err
	}
	if cfg.Database.Path == "" {
		return nil, fmt.Errorf("database path is not configured")
	}
	return database.Initialize(cfg.Database.Path, cfg.Database.Verbose)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	if dryRun {
		fmt.Fprintln(out, "Dry run mode - no changes will be made")
		for _, st := range db.Status() {
			if !st.Exists {
				fmt.Fprintf(out, "  would create %s\n", st.Table)
			}
		}
		return nil
	}

	if err := db.Migrate(); err != nil {
		return err
	}
	fmt.Fprintln(out, "Migrations applied")
	return nil
}

func runMigrateStatus(cmd *cobra.Command, args []string) error {
	db, err := openDatabase()
	if err != nil {
		return err
	}
	defer db.Close()

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Database Migration Status")
	fmt.Fprintln(out, strings.Repeat("=", 50))

	pending := 0
	for _, st := range db.Status() {
		state := "applied"
		if !st.Exists {
			state = "pending"
			pending++
		}
		fmt.Fprintf(out, "  %-24s %s\n", st.Table, state)
	}
	fmt.Fprintf(out, "\n%d pending\n", pending)
	return nil
}
