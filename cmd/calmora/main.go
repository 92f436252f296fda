package main

import (
	"os"

	"github.com/spf13/cobra"

	"calmora/internal/interfaces/cli/migrate"
	"calmora/internal/interfaces/cli/server"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "calmora",
		Short: "Calmora - audio meditation platform backend",
		Long:  `Calmora serves the meditation catalog, listening sessions, subscriptions and notifications over a REST API.`,
	}

	rootCmd.AddCommand(
		server.NewCommand(),
		migrate.NewCommand(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
