package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fmserver",
	Short: "fmserver - local gateway for on-device language models",
	Long: `fmserver is a thin HTTP gateway in front of an on-device language model.

It keeps a single ongoing conversation session and exposes it over a
minimal local API:
  - POST /completion generates text within the current session
  - POST /reset discards the session and starts a fresh one

Backends:
  - foundation: Apple Foundation Models (macOS with Apple Intelligence)
  - openai:     any OpenAI-compatible endpoint (Ollama, LM Studio, vLLM)`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
