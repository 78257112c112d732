package auth

import (
	"fmt"
	"io"
	"os"

	"github.com/metricdocs/metricdocs/internal/providers"
	"github.com/metricdocs/metricdocs/internal/services/auth"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store a service-account key in the local keychain",
		Long: `Store a Google Cloud service-account key in the local keychain.

The key is validated before it is stored. Pass "-" as the file to read
the key JSON from stdin.

Examples:
  metricdocs auth login --credentials-file sa.json
  cat sa.json | metricdocs auth login --credentials-file -`,
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("credentials-file", "", "Path to a service-account JSON key (or - for stdin)")
	cmd.MarkFlagRequired("credentials-file")
	cmd.Flags().String("account", auth.DefaultAccount, "Account alias to store the key under")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	credentialsFile, _ := cmd.Flags().GetString("credentials-file")
	account, _ := cmd.Flags().GetString("account")

	var data []byte
	var err error
	if credentialsFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(credentialsFile)
	}
	if err != nil {
		return fmt.Errorf("read credentials: %w", err)
	}

	if err := providers.ValidateCredentials(cmd.Context(), data); err != nil {
		return err
	}

	store := auth.DefaultStore()
	if err := store.SetCredentials(account, string(data)); err != nil {
		return fmt.Errorf("store credentials: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Saved credentials for account %s\n", account)
	return nil
}
