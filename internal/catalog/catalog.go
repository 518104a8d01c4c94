// Package catalog holds the static detection rule tables used by the
// analysis engine. One table per supported script type; tables are built at
// package init and never mutated afterwards.
package catalog

import (
	"regexp"
	"strings"
)

// FileType identifies the script language a pattern applies to.
type FileType string

const (
	FileTypeJavaScript FileType = "javascript"
	FileTypeHTML       FileType = "html"
	FileTypePython     FileType = "python"
	FileTypePowerShell FileType = "powershell"
)

// fileTypeAliases maps accepted spellings (including bare extensions) to the
// canonical file type.
var fileTypeAliases = map[string]FileType{
	"javascript": FileTypeJavaScript,
	"js":         FileTypeJavaScript,
	"html":       FileTypeHTML,
	"htm":        FileTypeHTML,
	"python":     FileTypePython,
	"py":         FileTypePython,
	"powershell": FileTypePowerShell,
	"ps1":        FileTypePowerShell,
}

// ParseFileType resolves a user-supplied file type string to a canonical
// FileType. Matching is case-insensitive and accepts common aliases
// (js, htm, py, ps1).
func ParseFileType(s string) (FileType, bool) {
	ft, ok := fileTypeAliases[strings.ToLower(strings.TrimSpace(s))]
	return ft, ok
}

// FileTypeForExtension maps a file extension (with or without the leading
// dot) to the file type used for analysis.
func FileTypeForExtension(ext string) (FileType, bool) {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	if ext == "" {
		return "", false
	}
	ft, ok := fileTypeAliases[ext]
	return ft, ok
}

// Severity expresses how strongly a matched construct alone implies
// malicious intent, as opposed to merely enabling it.
type Severity string

const (
	SeverityLow    Severity = "low"
	SeverityMedium Severity = "medium"
	SeverityHigh   Severity = "high"
)

// Weight returns the numeric scoring weight for the severity.
// The constants (high 1.0, medium 0.6, low 0.3) are the tuning knob of the
// scorer; they only need to stay strictly ordered high > medium > low.
func (s Severity) Weight() float64 {
	switch s {
	case SeverityHigh:
		return 1.0
	case SeverityMedium:
		return 0.6
	case SeverityLow:
		return 0.3
	default:
		return 0.5
	}
}

// Valid reports whether s is one of the known severity levels.
func (s Severity) Valid() bool {
	return s == SeverityLow || s == SeverityMedium || s == SeverityHigh
}

// Pattern is a single immutable detection rule.
type Pattern struct {
	Name         string         // unique within a file type
	FileType     FileType       // language the rule applies to
	Regexp       *regexp.Regexp // compiled matcher, applied to full content
	Severity     Severity
	Description  string
	ContextLines int // surrounding lines captured with each match

	// Allowlist discards matches that contain any of the listed substrings.
	// RE2 has no negative lookahead, so trusted-host carve-outs are a
	// post-match check.
	Allowlist []string
}

// Allowlisted reports whether a matched string should be discarded because
// it references an allowlisted source.
func (p Pattern) Allowlisted(match string) bool {
	if len(p.Allowlist) == 0 {
		return false
	}
	lower := strings.ToLower(match)
	for _, allowed := range p.Allowlist {
		if strings.Contains(lower, allowed) {
			return true
		}
	}
	return false
}

// fileTypeOrder fixes the grouping order of All.
var fileTypeOrder = []FileType{
	FileTypeJavaScript,
	FileTypeHTML,
	FileTypePython,
	FileTypePowerShell,
}

var patternsByType = map[FileType][]Pattern{
	FileTypeJavaScript: javascriptPatterns,
	FileTypeHTML:       htmlPatterns,
	FileTypePython:     pythonPatterns,
	FileTypePowerShell: powershellPatterns,
}

// Supported reports whether any patterns are registered for the file type.
func Supported(ft FileType) bool {
	return len(patternsByType[ft]) > 0
}

// For returns the patterns registered for the given file type in definition
// order, or nil when the type is unsupported. The returned slice is a copy;
// callers may not mutate catalog state through it.
func For(ft FileType) []Pattern {
	patterns, ok := patternsByType[ft]
	if !ok {
		return nil
	}
	return append([]Pattern(nil), patterns...)
}

// All returns every registered pattern, grouped by file type (javascript,
// html, python, powershell) and in definition order within each group. This
// order is stable across calls and fixes tie-breaking for detections that
// start at the same offset.
func All() []Pattern {
	var all []Pattern
	for _, ft := range fileTypeOrder {
		all = append(all, patternsByType[ft]...)
	}
	return all
}
