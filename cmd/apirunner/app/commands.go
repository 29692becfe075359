package app

import (
	"github.com/spf13/cobra"

	"github.com/agentstation/apirunner/cmd/apirunner/cmd/dataset"
	"github.com/agentstation/apirunner/cmd/apirunner/cmd/export"
	"github.com/agentstation/apirunner/cmd/apirunner/cmd/profile"
	"github.com/agentstation/apirunner/cmd/apirunner/cmd/run"
	"github.com/agentstation/apirunner/cmd/apirunner/cmd/serve"
	"github.com/agentstation/apirunner/cmd/apirunner/cmd/upsert"
)

// registerCommands registers all subcommands with the root command.
func (a *App) registerCommands(rootCmd *cobra.Command) {
	// Core commands
	rootCmd.AddCommand(run.NewCommand(a))
	rootCmd.AddCommand(dataset.NewCommand(a))
	rootCmd.AddCommand(upsert.NewCommand(a))
	rootCmd.AddCommand(serve.NewCommand(a))

	// Management commands
	rootCmd.AddCommand(profile.NewCommand(a))
	rootCmd.AddCommand(export.NewCommand(a))

	// Utility commands
	rootCmd.AddCommand(a.newVersionCommand())
}

// newVersionCommand creates the version command.
func (a *App) newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			cmd.Printf("apirunner %s\n", a.version)
			if a.config.Verbose {
				cmd.Printf("  commit:   %s\n", a.commit)
				cmd.Printf("  built:    %s\n", a.date)
				cmd.Printf("  built by: %s\n", a.builtBy)
			}
		},
	}
}
