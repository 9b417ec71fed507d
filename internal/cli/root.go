// Package cli wires the llmetrics commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "llmetrics",
	Short: "Compare LLM responses across providers",
	Long: `llmetrics fans a prompt out to multiple hosted language models,
scores every response with an LLM judge, derives per-call costs, and
records each run as an experiment for later analysis.`,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
