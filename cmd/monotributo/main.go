// Package main provides the entry point for the monotributo historical dataset CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/jonathan/monotributo-historico/internal/config"
	"github.com/jonathan/monotributo-historico/internal/logging"
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "monotributo",
	Short: "Monotributo historical dataset builder",
	Long: "Builds and maintains a historical dataset of Argentina's monotributo categories from the AFIP " +
		"sources, and analyzes how each category's amounts evolved in nominal and inflation-adjusted terms.",
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to a config file (yaml, json, toml)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level override (debug, info, warn, error)")
}

func loadConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if logLevel != "" {
		loaded.LogLevel = logLevel
	}
	if err := loaded.Validate(); err != nil {
		return err
	}
	logging.Setup(loaded.LogLevel, loaded.LogFormat, os.Stderr)
	cfg = loaded
	return nil
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
