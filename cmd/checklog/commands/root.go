package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arloliu/checklog/internal/config"
)

// NewRootCommand builds the checklog command tree.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checklog",
		Short: "Decode and encode monitoring bundle records",
		Long: `Decode and encode monitoring bundle records

Bundle records ("B1"/"B2" lines) carry a compressed, base64 encoded bundle
of check status and metrics. decode expands them into canonical S and M
lines; encode builds them from JSON documents.

Configuration is read from --config (or CHECKLOG_CONFIG), then overridden
by CHECKLOG_* environment variables and finally by command flags.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", os.Getenv("CHECKLOG_CONFIG"), "path to a YAML config file")

	cmd.AddCommand(NewDecodeCommand())
	cmd.AddCommand(NewEncodeCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}

func loadConfig(cmd *cobra.Command) (config.Config, error) {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	return config.Load(path)
}
