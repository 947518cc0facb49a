package main

import (
	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "tokengate",
	Short: "Stateless credential login and bearer-token authentication",
	Long: `tokengate exchanges a username and password for a signed HS256 access
token and authenticates later requests that present it as a bearer token.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "YAML config file (env overrides: TOKENGATE_*)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(hashCmd)
}
