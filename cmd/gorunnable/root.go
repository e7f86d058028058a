package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	cmd := &cobra.Command{
		Use:   "gorunnable",
		Short: "Compose and run prompt pipelines",
		Long: `gorunnable composes templates, model stages and parsers into pipelines
built from sequences, parallel fan-outs and conditional branches, and runs
them from the command line or over HTTP.`,
		SilenceUsage: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&flags.configFile, "config", "", "Path to config.yml (default: search standard locations)")
	pf.StringVar(&flags.envFile, "env-file", "", "Path to a .env file")
	pf.StringVar(&flags.logLevel, "log-level", "", "Override logging.level (debug, info, warn, error)")

	cmd.AddCommand(
		newRunCmd(flags),
		newListCmd(flags),
		newServeCmd(flags),
		newVersionCmd(),
	)
	return cmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
