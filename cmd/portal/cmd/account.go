package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/absensi-pegawai/portal/internal/core/domain"
	"github.com/absensi-pegawai/portal/internal/core/service"
)

var (
	accountRole     string
	accountUsername string
	accountName     string
	accountPassword string
)

// accountCmd is the parent command for credential maintenance
var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage admin and karyawan accounts",
}

var accountCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an account in the admin or karyawan store",
	Example: `  portal account create --role admin --username adminUser --name "Admin Name" --password adminPass
  portal account create --role karyawan --username budi --name "Budi Santoso" --password rahasia`,
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

		rec, err := service.NewAccountService(store, log).Create(ctx, accountRole, accountUsername, accountName, accountPassword)
		if err != nil {
			return err
		}

		p := domain.NewPrincipal(rec)
		fmt.Fprintf(cmd.OutOrStdout(), "created %s account %q (id %d)\n", p.Role, p.Username, p.ID)
		return nil
	},
}

func init() {
	accountCreateCmd.Flags().StringVar(&accountRole, "role", "", "Account role: admin or karyawan")
	accountCreateCmd.Flags().StringVar(&accountUsername, "username", "", "Login username")
	accountCreateCmd.Flags().StringVar(&accountName, "name", "", "Display name")
	accountCreateCmd.Flags().StringVar(&accountPassword, "password", "", "Plaintext password, stored as a bcrypt hash")
	for _, f := range []string{"role", "username", "name", "password"} {
		_ = accountCreateCmd.MarkFlagRequired(f)
	}
	accountCmd.AddCommand(accountCreateCmd)
}
