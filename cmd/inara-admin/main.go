// Package main implements inara-admin, the operator CLI for database maintenance.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/bootstrap"
	"github.com/maiwandrohani-eng/inara-hub-v3-sub000/internal/config"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	configPath string
	version    = "dev"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "inara-admin",
	Short: "Maintenance commands for the INARA Hub backend",
	Long: `inara-admin runs maintenance tasks against the INARA Hub database:
applying migrations, creating administrators, resetting passwords and
bulk importing training content from text files.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", bootstrap.DefaultConfigPath, "path to the YAML config file")
	rootCmd.AddCommand(migrateCmd, createAdminCmd, resetPasswordCmd, importCmd)
}

// withDatabase loads config, opens the pool and runs fn with it
func withDatabase(ctx context.Context, fn func(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, lgr zerolog.Logger) error) error {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	pool, err := bootstrap.ConnectDatabase(cfg, lgr)
	if err != nil {
		return fmt.Errorf("connect database: %w", err)
	}
	defer pool.Close()

	return fn(ctx, cfg, pool, lgr)
}
