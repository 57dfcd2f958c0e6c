// Package main provides the entry point for the Talent Search HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "talent_search",
	Short: "Talent Search HTTP API Server",
	Long:  "Talent Search finds employees similar to a target profile through a three-stage funnel: LLM profile analysis, deterministic filtering, and LLM-scored ranking streamed over SSE.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
