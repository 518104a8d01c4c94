package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/0xA1M/sentinel-scan/internal/catalog"
)

var patternsFileType string

// patternInfo is the introspection shape exposed to collaborators.
type patternInfo struct {
	PatternName string `json:"pattern_name"`
	FileType    string `json:"file_type"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

type patternsResponse struct {
	Patterns []patternInfo `json:"patterns"`
}

var patternsCmd = &cobra.Command{
	Use:   "patterns",
	Short: "List the detection patterns in the catalog",
	RunE:  runPatterns,
}

func init() {
	patternsCmd.Flags().StringVarP(&patternsFileType, "type", "t", "", "only patterns for this file type")
}

func runPatterns(cmd *cobra.Command, args []string) error {
	var patterns []catalog.Pattern
	if patternsFileType != "" {
		ft, ok := catalog.ParseFileType(patternsFileType)
		if !ok || !catalog.Supported(ft) {
			return fmt.Errorf("unsupported file type %q", patternsFileType)
		}
		patterns = catalog.For(ft)
	} else {
		patterns = catalog.All()
	}

	resp := patternsResponse{Patterns: make([]patternInfo, 0, len(patterns))}
	for _, p := range patterns {
		resp.Patterns = append(resp.Patterns, patternInfo{
			PatternName: p.Name,
			FileType:    string(p.FileType),
			Severity:    string(p.Severity),
			Description: p.Description,
		})
	}

	out, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}
