// Package cmd provides the CLI commands for Tasteline.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tasteline/tasteline/internal/logging"
	"github.com/tasteline/tasteline/pkg/version"
)

var (
	debugMode      bool
	loggingCleanup func()
)

// NewRootCmd creates the root command for the tasteline CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tasteline",
		Short: "Recipe search over literal, lexical, and semantic retrieval",
		Long: `Tasteline indexes a recipe corpus and answers free-text queries with
three interchangeable retrieval methods:

  simple     case-insensitive substring matching (no index)
  bm25       field-weighted lexical ranking
  embedding  dense-vector semantic similarity

Run 'tasteline seed' to load a recipe corpus, 'tasteline build' to
create the search indexes, then 'tasteline search' or 'tasteline serve'.`,
		Version:       version.Version,
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	cmd.SetVersionTemplate("tasteline version {{.Version}}\n")

	cmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging to ~/.tasteline/logs/")
	cmd.PersistentPreRunE = startLogging
	cmd.PersistentPostRun = stopLogging

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newSearchCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newSeedCmd())
	cmd.AddCommand(newStatsCmd())
	cmd.AddCommand(newConfigCmd())
	cmd.AddCommand(newVersionCmd())

	return cmd
}

// startLogging enables file logging only in debug mode; the serve
// command configures its own long-running log setup.
func startLogging(_ *cobra.Command, _ []string) error {
	if !debugMode {
		return nil
	}

	_, cleanup, err := logging.Setup(logging.DebugConfig())
	if err != nil {
		// Logging must never block the command itself.
		fmt.Fprintf(os.Stderr, "warning: logging setup failed: %v\n", err)
		return nil
	}
	loggingCleanup = cleanup
	return nil
}

func stopLogging(_ *cobra.Command, _ []string) {
	if loggingCleanup != nil {
		loggingCleanup()
		loggingCleanup = nil
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
