// Package cmd holds the ocrdesk command line.
package cmd

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"ocrdesk/internal/config"
)

var configPath string

var RootCmd = &cobra.Command{
	Use:           "ocrdesk",
	Short:         "Extract text from images and PDFs through an OCR service",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(loadEnv)
	RootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config.json (defaults to $OCRDESK_CONFIG or ./config.json)")
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func loadEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("warning: load .env: %v", err)
	}
}

func loadConfig() (*config.Config, error) {
	path := configPath
	if path == "" {
		path = os.Getenv("OCRDESK_CONFIG")
	}
	return config.Load(path)
}
