// Package main provides the CLI entry point for towerload.
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

// globalFlags are shared by every command.
type globalFlags struct {
	config    string
	logLevel  string
	logFormat string
}

func newRootCmd() *cobra.Command {
	g := &globalFlags{}
	rootCmd := &cobra.Command{
		Use:   "towerload",
		Short: "Screen wind-farm sites by estimated tower loads",
		Long: `towerload estimates ultimate and fatigue tower loads for a candidate
wind-farm site from its wind-resource workbook and pre-fitted load regressors,
and reports them relative to reference designs.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&g.config, "config", "", "YAML run file")
	rootCmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&g.logFormat, "log-format", "", "Log format: console, json")

	rootCmd.AddCommand(
		newRunCmd(g),
		newInspectCmd(g),
		newCacheCmd(g),
		newExampleCmd(),
	)
	return rootCmd
}
