// Package cli provides the division command line interface.
package cli

import (
	"github.com/caarlos0/env/v11"
	"github.com/spf13/cobra"
)

// envConfig holds settings read from the environment before flag parsing.
// Flags override environment values.
type envConfig struct {
	DBPath string `env:"DIVISION_DB_PATH" envDefault:"division.db"`
}

// RootOptions holds global flags shared by all commands.
type RootOptions struct {
	DBPath  string
	Verbose bool
}

// NewRootCommand creates the root command for the division CLI.
func NewRootCommand() *cobra.Command {
	var cfg envConfig
	_ = env.Parse(&cfg)

	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "division",
		Short: "Collective real-estate division project tool",
		Long: `Manage a collective building division project: legal milestones,
condominium creation, permits, lot sales, and proceeds redistribution.

Project state is kept in a SQLite database selected with --db or the
DIVISION_DB_PATH environment variable.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", cfg.DBPath, "path to SQLite database")
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewSeedCommand(opts))
	cmd.AddCommand(NewDispatchCommand(opts))
	cmd.AddCommand(NewStateCommand(opts))
	cmd.AddCommand(NewLotsCommand(opts))
	cmd.AddCommand(NewSalesCommand(opts))
	cmd.AddCommand(NewPaybacksCommand(opts))

	return cmd
}
