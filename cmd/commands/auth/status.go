package auth

import (
	"errors"
	"fmt"

	"github.com/metricdocs/metricdocs/internal/services/auth"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show which accounts have stored credentials",
		Long: `Show which accounts have credentials stored in the keychain.

Example:
  metricdocs auth status`,
		RunE: func(cmd *cobra.Command, args []string) error {
			account, _ := cmd.Flags().GetString("account")
			store := auth.DefaultStore()

			_, err := store.GetCredentials(account)
			switch {
			case err == nil:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: credentials stored\n", account)
			case errors.Is(err, auth.ErrCredentialsNotFound):
				fmt.Fprintf(cmd.OutOrStdout(), "%s: no stored credentials (Application Default Credentials will be used)\n", account)
			default:
				fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", account, err)
			}
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("account", auth.DefaultAccount, "Account alias to check")

	return cmd
}
