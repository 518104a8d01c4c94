package catalog

import "regexp"

// cdnAllowlist carries the well-known script hosts that the external-source
// rules must not flag.
var cdnAllowlist = []string{
	"code.jquery.com",
	"cdnjs.cloudflare.com",
	"ajax.googleapis.com",
	"cdn.jsdelivr.net",
	"unpkg.com",
	"stackpath.bootstrapcdn.com",
}

// vendorAllowlist carries first-party vendor hosts excluded from the
// redirect rules.
var vendorAllowlist = []string{
	"google.com",
	"microsoft.com",
	"apple.com",
}

// htmlPatterns covers script injection, hidden frames and redirect tricks in
// HTML documents. Rules that can span tags are compiled with (?is) and
// matched against the full document.
var htmlPatterns = []Pattern{
	{
		Name:         "obfuscated_script",
		FileType:     FileTypeHTML,
		Regexp:       regexp.MustCompile(`(?is)<script\b[^>]*>.*?(?:eval\s*\(|String\.fromCharCode|unescape\s*\(|escape\s*\(|atob\s*\(|btoa\s*\(|\\x[0-9a-fA-F]{2}|\\u[0-9a-fA-F]{4}).*?</script>`),
		Severity:     SeverityHigh,
		Description:  "Obfuscated JavaScript code in script tag",
		ContextLines: 2,
	},
	{
		Name:         "suspicious_iframe",
		FileType:     FileTypeHTML,
		Regexp:       regexp.MustCompile(`(?is)<iframe[^>]*(?:hidden|display\s*:\s*none|visibility\s*:\s*hidden|width\s*=\s*['"]?0|height\s*=\s*['"]?0)[^>]*>`),
		Severity:     SeverityHigh,
		Description:  "Hidden or zero-sized iframe (potential malicious content)",
		ContextLines: 2,
	},
	{
		Name:         "suspicious_script_src",
		FileType:     FileTypeHTML,
		Regexp:       regexp.MustCompile(`(?i)<script[^>]*src\s*=\s*['"](?:https?:)?//[^'"]+['"][^>]*>`),
		Severity:     SeverityMedium,
		Description:  "Script loaded from suspicious external source",
		ContextLines: 1,
		Allowlist:    cdnAllowlist,
	},
	{
		Name:         "encoded_attribute",
		FileType:     FileTypeHTML,
		Regexp:       regexp.MustCompile(`(?i)<[^>]+(?:src|href|data|style|onerror|onload|onclick)\s*=\s*['"](?:data:text/html|javascript:)[^'"]*(?:base64|eval|atob|fromCharCode|escape|unescape)[^'"]*['"]`),
		Severity:     SeverityHigh,
		Description:  "Encoded content in HTML attributes",
		ContextLines: 2,
	},
	{
		Name:         "event_handler_script",
		FileType:     FileTypeHTML,
		Regexp:       regexp.MustCompile(`(?i)<[^>]+on\w+\s*=\s*['"][^'"]*(?:eval|Function|setTimeout|setInterval|document\.write)[^'"]*['"]`),
		Severity:     SeverityHigh,
		Description:  "JavaScript execution via event handler",
		ContextLines: 2,
	},
	{
		Name:         "meta_refresh",
		FileType:     FileTypeHTML,
		Regexp:       regexp.MustCompile(`(?i)<meta[^>]*http-equiv\s*=\s*['"]refresh['"][^>]*content\s*=\s*['"][^'"]*url\s*=[^'"]*['"]`),
		Severity:     SeverityMedium,
		Description:  "Suspicious page redirect via meta refresh",
		ContextLines: 1,
		Allowlist:    vendorAllowlist,
	},
	{
		Name:         "base_tag_manipulation",
		FileType:     FileTypeHTML,
		Regexp:       regexp.MustCompile(`(?i)<base[^>]*href\s*=\s*['"][^'"]+['"]`),
		Severity:     SeverityMedium,
		Description:  "Base tag manipulation (can redirect relative URLs)",
		ContextLines: 1,
		Allowlist:    vendorAllowlist,
	},
}
