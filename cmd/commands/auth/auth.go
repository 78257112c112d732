package auth

import (
	"github.com/spf13/cobra"
)

func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored Google Cloud credentials",
		Long: `Manage stored Google Cloud credentials.

Use this command group to store a service-account key securely in the
OS keychain. Without stored credentials, metricdocs falls back to
Application Default Credentials.`,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(StatusCommand())
	cmd.AddCommand(LogoutCommand())

	return cmd
}
