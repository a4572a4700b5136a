// Package main provides the entry point for the resume assistant CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "resume_assistant",
	Short: "Resume assistant over a chat-completion service",
	Long:  "Resume assistant manages candidate resumes through a persistence backend, reviews them with a chat-completion service, and exports them as print-quality PDFs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
