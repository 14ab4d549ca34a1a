package main

import (
	"os"

	"github.com/spf13/cobra"

	"sentra/internal/interfaces/cli/migrate"
	"sentra/internal/interfaces/cli/server"
)

// @title Sentra API
// @version 1.0
// @description Workplace safety issue tracking and discussion service.
// @BasePath /
// @securityDefinitions.apikey Bearer
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:   "sentra",
		Short: "Sentra - workplace safety issue tracker",
		Long:  `Sentra tracks workplace safety issues, their discussion threads, and their resolution workflow.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
