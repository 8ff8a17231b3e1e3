package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	mongodb "github.com/absensi-pegawai/portal/internal/infrastructure/db/mongo"
	"github.com/absensi-pegawai/portal/internal/infrastructure/db/postgres"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the credential store schema and indexes",
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()
		cfg, log, err := bootstrap(ctx)
		if err != nil {
			return err
		}

		store, err := openStore(ctx, cfg)
		if err != nil {
			return err
		}
		defer store.Close(ctx)

		switch s := store.(type) {
		case *postgres.CredentialStore:
			err = s.Migrate(ctx)
		case *mongodb.CredentialStore:
			err = s.EnsureIndexes(ctx)
		default:
			err = fmt.Errorf("migrate: unsupported store %T", store)
		}
		if err != nil {
			return err
		}

		log.Info().Str("store", cfg.StoreDriver).Msg("credential store migrated")
		return nil
	},
}
