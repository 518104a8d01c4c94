// Package main is the CLI entry point for sentinel-scan.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/0xA1M/sentinel-scan/internal/config"
)

// Version info (set via ldflags)
var (
	Version   = "0.1.0"
	Commit    = "dev"
	BuildTime = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "sentinel-scan",
	Short: "Static analysis of scripts for suspicious patterns",
	Long: `sentinel-scan analyzes JavaScript, HTML, Python and PowerShell content
for indicators of malicious intent (obfuscation, dynamic code execution,
suspicious network and filesystem access) and produces a suspicion score.

It can scan a single file on demand or monitor directories live, streaming
per-file analysis results as newline-delimited JSON.`,
	Version: Version,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print detailed version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("sentinel-scan %s (commit %s, built %s)\n", Version, Commit, BuildTime)
	},
}

func main() {
	// Load .env before config resolution; absence is not an error.
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to config file")
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.AddCommand(monitorCmd)
}

func loadConfig() (*config.Config, error) {
	return config.Load(configPath)
}
