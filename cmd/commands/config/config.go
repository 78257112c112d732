package config

import (
	"github.com/metricdocs/metricdocs/internal/config"

	"github.com/spf13/cobra"
)

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage metricdocs configuration",
		Long: "View and modify persistent metricdocs settings.\n\n" +
			"Configuration is stored at ~/.config/metricdocs/config.json.\n\n" +
			config.KeysHelp(),
	}

	cmd.AddCommand(SetCommand())
	cmd.AddCommand(GetCommand())

	return cmd
}
