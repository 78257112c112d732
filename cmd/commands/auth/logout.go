package auth

import (
	"errors"
	"fmt"

	"github.com/metricdocs/metricdocs/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logout",
		Short: "Remove stored credentials from the keychain",
		RunE: func(cmd *cobra.Command, args []string) error {
			account, _ := cmd.Flags().GetString("account")
			store := auth.DefaultStore()

			err := store.DeleteCredentials(account)
			if errors.Is(err, auth.ErrCredentialsNotFound) {
				fmt.Fprintf(cmd.OutOrStdout(), "No stored credentials for account %s\n", account)
				return nil
			}
			if err != nil {
				return fmt.Errorf("delete credentials: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Removed credentials for account %s\n", account)
			return nil
		},
		SilenceUsage: true,
	}

	cmd.Flags().String("account", auth.DefaultAccount, "Account alias to remove")

	return cmd
}
