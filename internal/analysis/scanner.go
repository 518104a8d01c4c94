package analysis

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/0xA1M/sentinel-scan/internal/catalog"
)

// ErrUnsupportedFileType is returned when a scan is requested for a file
// type with no registered patterns.
var ErrUnsupportedFileType = errors.New("unsupported file type")

// DefaultMaxMatchLength bounds the matched_text captured per detection so a
// full base64 blob never lands in the payload.
const DefaultMaxMatchLength = 200

// Analyzer runs the catalog rules against script content. The zero value is
// not usable; construct with NewAnalyzer.
type Analyzer struct {
	// MaxMatchLength caps MatchedText on each detection.
	MaxMatchLength int
}

// NewAnalyzer returns an Analyzer with default limits.
func NewAnalyzer() *Analyzer {
	return &Analyzer{MaxMatchLength: DefaultMaxMatchLength}
}

// Scan applies every catalog rule for the file type to content and returns
// all matches ordered by appearance in the text (catalog order on ties).
// Empty content yields an empty result, not an error. Matches from different
// rules on overlapping spans are all retained.
func (a *Analyzer) Scan(content string, ft catalog.FileType) ([]Detection, error) {
	rules := catalog.For(ft)
	if rules == nil {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFileType, ft)
	}
	if content == "" {
		return []Detection{}, nil
	}

	lines := strings.Split(content, "\n")

	detections := []Detection{}
	for _, rule := range rules {
		for _, loc := range rule.Regexp.FindAllStringIndex(content, -1) {
			matched := content[loc[0]:loc[1]]
			if rule.Allowlisted(matched) {
				continue
			}

			// A match spanning a line break is credited to the line
			// containing its start offset.
			lineNumber := 1 + strings.Count(content[:loc[0]], "\n")

			detections = append(detections, Detection{
				PatternName: rule.Name,
				Description: rule.Description,
				Severity:    rule.Severity,
				LineNumber:  lineNumber,
				MatchedText: truncate(matched, a.MaxMatchLength),
				Context:     contextLines(lines, lineNumber, rule.ContextLines),
				start:       loc[0],
			})
		}
	}

	// Rules were applied in catalog order, so a stable sort on the start
	// offset leaves ties in catalog order.
	sort.SliceStable(detections, func(i, j int) bool {
		return detections[i].start < detections[j].start
	})

	return detections, nil
}

// Analyze scans content and aggregates the detections into a Result.
func (a *Analyzer) Analyze(content string, ft catalog.FileType) (*Result, error) {
	detections, err := a.Scan(content, ft)
	if err != nil {
		return nil, err
	}
	return &Result{Results: detections, Summary: Score(detections)}, nil
}

// Analyze is a convenience wrapper using default analyzer limits, intended
// for interactive, single-shot scans.
func Analyze(content string, ft catalog.FileType) (*Result, error) {
	return NewAnalyzer().Analyze(content, ft)
}

// contextLines returns the lines surrounding 1-based lineNumber, n before
// and n after, clipped to the content bounds.
func contextLines(lines []string, lineNumber, n int) []string {
	lo := lineNumber - 1 - n
	if lo < 0 {
		lo = 0
	}
	hi := lineNumber - 1 + n
	if hi > len(lines)-1 {
		hi = len(lines) - 1
	}
	return append([]string(nil), lines[lo:hi+1]...)
}

func truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
