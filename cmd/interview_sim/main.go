// Package main provides the interview simulator command line and HTTP server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "interview_sim",
	Short: "Mock technical interview simulator",
	Long: `Interview simulator walks a candidate through four timed rounds (MCQ, coding,
system design, HR) tailored to a job posting, then produces a scored feedback report.

Configuration can be loaded from a JSON or YAML file using --config. Environment
variables override the file, and command-line flags override both.`,
	SilenceUsage: true,
}

var (
	rootConfigPath  string
	rootStore       string
	rootProfileDir  string
	rootDatabaseURL string
	rootNamespace   string
	rootLogLevel    string
	rootLogFile     string
	rootAPIKey      string
)

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&rootConfigPath, "config", "", "Path to a config file (.json, .yaml or .yml)")
	flags.StringVar(&rootStore, "store", "", "Session store: memory, file or postgres")
	flags.StringVar(&rootProfileDir, "profile", "", "Profile directory of the file store")
	flags.StringVar(&rootDatabaseURL, "db-url", "", "PostgreSQL connection URL (defaults to DATABASE_URL env var)")
	flags.StringVar(&rootNamespace, "namespace", "", "Session namespace UUID for the postgres store")
	flags.StringVar(&rootLogLevel, "log-level", "", "Log level: debug, info, warn or error")
	flags.StringVar(&rootLogFile, "log-file", "", "Also write JSON logs to this rotated file")
	flags.StringVar(&rootAPIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY env var)")
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
