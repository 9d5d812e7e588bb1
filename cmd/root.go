// Package cmd implements the flaskr command-line interface.
package cmd

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time with -ldflags.
var Version = "0.1.0"

// rootFlags holds the persistent flags shared by every subcommand.
type rootFlags struct {
	configPath   string
	debug        bool
	instancePath string
}

// NewRootCommand builds the flaskr command tree.
func NewRootCommand() *cobra.Command {
	flags := &rootFlags{}

	rootCmd := &cobra.Command{
		Use:           "flaskr",
		Short:         "A minimal web application",
		Long:          `flaskr serves a single greeting route backed by an instance directory and a SQLite database.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(
		&flags.configPath,
		"config",
		"",
		"service config file (default is $CONFIG_PATH or ./config.yml)",
	)
	rootCmd.PersistentFlags().BoolVar(&flags.debug, "debug", false, "enable debug mode")
	rootCmd.PersistentFlags().StringVar(
		&flags.instancePath,
		"instance-path",
		"",
		"instance directory (default is ./instance)",
	)

	rootCmd.AddCommand(newVersionCommand())
	rootCmd.AddCommand(newServeCommand(flags))

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "flaskr version %s\n", Version)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	return NewRootCommand().ExecuteContext(context.Background())
}
