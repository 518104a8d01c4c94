package catalog

import "regexp"

// javascriptPatterns covers the common obfuscation, dynamic-execution and
// command-channel constructs seen in malicious JavaScript.
var javascriptPatterns = []Pattern{
	{
		Name:         "eval_usage",
		FileType:     FileTypeJavaScript,
		Regexp:       regexp.MustCompile(`eval\s*\((.+?)\)`),
		Severity:     SeverityHigh,
		Description:  "Use of eval() to execute arbitrary code",
		ContextLines: 2,
	},
	{
		Name:         "function_constructor",
		FileType:     FileTypeJavaScript,
		Regexp:       regexp.MustCompile(`new\s+Function\s*\((.+?)\)`),
		Severity:     SeverityHigh,
		Description:  "Use of Function constructor for dynamic code execution",
		ContextLines: 2,
	},
	{
		Name:         "encoded_strings",
		FileType:     FileTypeJavaScript,
		Regexp:       regexp.MustCompile(`(?:atob|btoa|unescape|escape|decodeURIComponent|encodeURIComponent)\s*\((.+?)\)`),
		Severity:     SeverityMedium,
		Description:  "String encoding/decoding functions",
		ContextLines: 1,
	},
	{
		Name:         "document_write",
		FileType:     FileTypeJavaScript,
		Regexp:       regexp.MustCompile(`document\.write\s*\((.+?)\)`),
		Severity:     SeverityMedium,
		Description:  "Dynamic content injection with document.write",
		ContextLines: 1,
	},
	{
		Name:         "base64_content",
		FileType:     FileTypeJavaScript,
		Regexp:       regexp.MustCompile(`['"]([A-Za-z0-9+/]{20,}(?:==|=)?)['"]`),
		Severity:     SeverityLow,
		Description:  "Potential Base64 encoded content",
		ContextLines: 0,
	},
	{
		Name:         "network_access",
		FileType:     FileTypeJavaScript,
		Regexp:       regexp.MustCompile(`(?:https?://|\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`),
		Severity:     SeverityMedium,
		Description:  "Network access to external resources",
		ContextLines: 1,
	},
	{
		Name:         "filesystem_access",
		FileType:     FileTypeJavaScript,
		Regexp:       regexp.MustCompile(`(?:fs\.|require\(['"]fs['"]\)|FileSystem|ActiveXObject\(['"]Scripting\.FileSystemObject['"]\))`),
		Severity:     SeverityHigh,
		Description:  "Attempt to access file system",
		ContextLines: 2,
	},
	{
		Name:         "environment_detection",
		FileType:     FileTypeJavaScript,
		Regexp:       regexp.MustCompile(`navigator\.userAgent|screen\.width|screen\.height|navigator\.language|navigator\.platform`),
		Severity:     SeverityLow,
		Description:  "Environment detection (potential fingerprinting)",
		ContextLines: 1,
	},
	{
		Name:         "string_obfuscation",
		FileType:     FileTypeJavaScript,
		Regexp:       regexp.MustCompile(`String\.fromCharCode|charCodeAt\(\d+\)|\\x[0-9a-fA-F]{2}|\\u[0-9a-fA-F]{4}`),
		Severity:     SeverityMedium,
		Description:  "String obfuscation techniques",
		ContextLines: 1,
	},
	{
		Name:         "websocket_usage",
		FileType:     FileTypeJavaScript,
		Regexp:       regexp.MustCompile(`new\s+WebSocket\s*\(['"]ws`),
		Severity:     SeverityMedium,
		Description:  "WebSocket communication",
		ContextLines: 1,
	},
}
