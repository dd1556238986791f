// Package commands wires the CLI surface over the ledger core.
package commands

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/botica-dev/botica/internal/accounts"
	"github.com/botica-dev/botica/internal/buildinfo"
	"github.com/botica-dev/botica/internal/config"
	"github.com/botica-dev/botica/internal/store"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "botica",
		Short:   "Pharmacy back-office ledger",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().String("config", "botica.yaml", "path to botica.yaml")

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newAccountsCommand())
	rootCmd.AddCommand(newTxnCommand())

	return rootCmd
}

// env holds the collaborators a subcommand needs once config is loaded.
type env struct {
	cfg *config.Config
	db  *store.Store
	dir *accounts.Directory
	log *zap.Logger
}

func loadEnv(cmd *cobra.Command) (*env, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log, err := newLogger(cfg.Logging)
	if err != nil {
		return nil, err
	}

	db, err := store.Open(cfg.Database.Path, log)
	if err != nil {
		return nil, err
	}

	dir, err := accounts.Load(filepath.Dir(cfgPath))
	if err != nil {
		return nil, err
	}

	return &env{cfg: cfg, db: db, dir: dir, log: log}, nil
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Development {
		zcfg = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Level)
		if err != nil {
			return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
		}
		zcfg.Level = level
	}
	return zcfg.Build()
}
