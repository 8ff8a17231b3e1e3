package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/absensi-pegawai/portal/internal/core/ports"
	"github.com/absensi-pegawai/portal/internal/infrastructure/config"
	mongodb "github.com/absensi-pegawai/portal/internal/infrastructure/db/mongo"
	"github.com/absensi-pegawai/portal/internal/infrastructure/db/postgres"
	"github.com/absensi-pegawai/portal/pkg/logger"
)

var rootCmd = &cobra.Command{
	Use:   "portal",
	Short: "Absensi pegawai portal - admin and karyawan login",
	Long: `portal serves the login gate and role dashboards of the absensi pegawai
web app, and carries the maintenance commands for its credential stores.`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(accountCmd)
	rootCmd.AddCommand(migrateCmd)
}

// bootstrap loads configuration and initialises the process logger.
func bootstrap(ctx context.Context) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, zerolog.Nop(), err
	}
	log := logger.Init(logger.Options{
		Level:   cfg.LogLevel,
		Pretty:  cfg.LogPretty,
		Service: "portal",
		Env:     cfg.Env,
	})
	return cfg, log, nil
}

// openStore connects the credential store chosen by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (ports.CredentialStore, error) {
	if cfg.StoreDriver == config.DriverPostgres {
		store, err := postgres.Open(ctx, postgres.Config{
			DSN:          cfg.Postgres.DSN,
			MaxOpenConns: cfg.Postgres.MaxOpenConns,
		})
		if err != nil {
			return nil, err
		}
		return store, nil
	}

	store, err := mongodb.Open(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		return nil, err
	}
	return store, nil
}
