package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:   "servctl",
		Short: "Remote control plane for game server sessions",
		Long: `servctl accepts websocket clients and relays their text commands to
tmux-hosted server sessions, the host shell, and a health sampler.

Examples:
  servctl serve --config configs/servctl.yaml
  servctl check
  servctl version
`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "configs/servctl.local.yaml", "path to config file")

	rootCmd.AddCommand(
		newServeCmd(&configPath),
		newCheckCmd(),
		newVersionCmd(),
	)
	return rootCmd
}
