package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pommel",
		Short: "Pommel - aesthetic classification for pommel horse routines",
		Long: `Pommel is a command-line tool for classifying pommel horse routines.

It maps observed routine data into a fixed taxonomy of aesthetic concepts,
runs spatial, temporal, and form analyzers over the routine, and assembles
the results into a single consistent parameter set.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	// Add subcommands
	cmd.AddCommand(newClassifyCommand())
	cmd.AddCommand(newTaxonomyCommand())
	cmd.AddCommand(newCheckCommand())
	cmd.AddCommand(newNewCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
