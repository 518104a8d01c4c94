// Package analysis implements the pattern-matching scanner and the
// suspicion scorer. Scans are pure functions of their inputs and safe to run
// concurrently.
package analysis

import (
	"github.com/0xA1M/sentinel-scan/internal/catalog"
)

// Detection is one pattern match inside scanned content.
type Detection struct {
	PatternName string           `json:"pattern_name"`
	Description string           `json:"description"`
	Severity    catalog.Severity `json:"severity"`
	LineNumber  int              `json:"line_number"` // 1-based
	MatchedText string           `json:"matched_text"`
	Context     []string         `json:"context"`

	// start is the byte offset of the match in the scanned content; used
	// only to order detections by appearance.
	start int
}

// Summary aggregates the detections of one scan.
type Summary struct {
	TotalDetections int            `json:"total_detections"`
	PatternCount    map[string]int `json:"pattern_count"`
	SuspicionScore  float64        `json:"suspicion_score"`
}

// Result is the full output of one scan, serialized to collaborators as
// {results: [...], summary: {...}}.
type Result struct {
	Results []Detection `json:"results"`
	Summary Summary     `json:"summary"`
}
