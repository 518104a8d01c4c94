package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/0xA1M/sentinel-scan/internal/analysis"
	"github.com/0xA1M/sentinel-scan/internal/catalog"
)

var scanFileType string

var scanCmd = &cobra.Command{
	Use:   "scan [file]",
	Short: "Analyze a script file (or stdin) for suspicious patterns",
	Long: `Analyzes the given file, or stdin when no file is provided, and prints
the analysis result as JSON. The file type is inferred from the extension
unless --type is given.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringVarP(&scanFileType, "type", "t", "", "file type (javascript, html, python, powershell)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var content []byte
	var source string
	if len(args) == 1 {
		source = args[0]
		content, err = os.ReadFile(source)
		if err != nil {
			return fmt.Errorf("reading %s: %w", source, err)
		}
	} else {
		content, err = io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading stdin: %w", err)
		}
	}

	ft, err := resolveFileType(source, scanFileType)
	if err != nil {
		return err
	}

	analyzer := analysis.NewAnalyzer()
	if cfg.Analysis.MaxMatchLength > 0 {
		analyzer.MaxMatchLength = cfg.Analysis.MaxMatchLength
	}

	result, err := analyzer.Analyze(string(content), ft)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))

	fmt.Fprintf(os.Stderr, "risk: %s\n", analysis.RiskLevel(result.Summary.SuspicionScore))
	return nil
}

// resolveFileType prefers an explicit --type and falls back to the file
// extension; stdin input requires --type.
func resolveFileType(source, explicit string) (catalog.FileType, error) {
	if explicit != "" {
		ft, ok := catalog.ParseFileType(explicit)
		if !ok {
			return "", fmt.Errorf("unsupported file type %q", explicit)
		}
		return ft, nil
	}
	if source == "" {
		return "", fmt.Errorf("--type is required when reading from stdin")
	}
	ft, ok := catalog.FileTypeForExtension(filepath.Ext(source))
	if !ok {
		return "", fmt.Errorf("cannot infer file type from %q, use --type", source)
	}
	return ft, nil
}
