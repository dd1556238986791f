package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/botica-dev/botica/internal/accounts"
	"github.com/botica-dev/botica/internal/config"
	"github.com/botica-dev/botica/internal/store"
)

func newInitCommand() *cobra.Command {
	var name string
	var orgID string

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new Botica ledger project",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(absDir, name, orgID)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "pharmacy name (required)")
	_ = cmd.MarkFlagRequired("name")
	cmd.Flags().StringVar(&orgID, "organization", "", "organization id for multi-branch setups")

	return cmd
}

func runInit(dir, name, orgID string) error {
	if err := os.MkdirAll(filepath.Join(dir, "accounts"), 0o755); err != nil {
		return fmt.Errorf("creating accounts directory: %w", err)
	}

	// Write botica.yaml.
	cfg := config.Default(name, orgID)
	cfg.Database.Path = filepath.Join(dir, "botica.db")
	if err := config.Save(filepath.Join(dir, "botica.yaml"), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	// Write the default chart of accounts.
	chart := accounts.NewDirectory(accounts.DefaultChart())
	if err := chart.Save(dir); err != nil {
		return fmt.Errorf("writing chart of accounts: %w", err)
	}

	// Create the database and seed the system account types. Seeding is
	// idempotent, so re-running init against an existing database is safe.
	db, err := store.Open(cfg.Database.Path, nil)
	if err != nil {
		return fmt.Errorf("creating database: %w", err)
	}
	if err := db.SeedSystemTypes(accounts.SystemTypes()); err != nil {
		return fmt.Errorf("seeding account types: %w", err)
	}

	fmt.Printf("Initialized botica project in %s\n", dir)
	return nil
}
