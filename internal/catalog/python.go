package catalog

import "regexp"

// pythonPatterns covers dynamic execution, OS command access and staging
// helpers in Python scripts.
var pythonPatterns = []Pattern{
	{
		Name:         "exec_eval_usage",
		FileType:     FileTypePython,
		Regexp:       regexp.MustCompile(`(?:exec|eval)\s*\((.+?)\)`),
		Severity:     SeverityHigh,
		Description:  "Use of exec/eval to execute arbitrary code",
		ContextLines: 2,
	},
	{
		Name:         "os_system_calls",
		FileType:     FileTypePython,
		Regexp:       regexp.MustCompile(`(?:os\.system|subprocess\.(?:call|Popen|run)|commands\.getoutput|popen|popen2|exec[lv][ep]?)\s*\((.+?)\)`),
		Severity:     SeverityHigh,
		Description:  "OS command execution",
		ContextLines: 2,
	},
	{
		Name:         "suspicious_imports",
		FileType:     FileTypePython,
		Regexp:       regexp.MustCompile(`import\s+(?:subprocess|os|sys|tempfile|shutil|base64|binascii|zlib|pickle|marshal|ctypes|socket)`),
		Severity:     SeverityMedium,
		Description:  "Import of potentially dangerous module",
		ContextLines: 1,
	},
	{
		Name:         "network_operations",
		FileType:     FileTypePython,
		Regexp:       regexp.MustCompile(`(?:socket\.(?:socket|connect|bind|listen|accept)|urllib\.(?:request|parse)|requests\.(?:get|post|put|delete|patch))`),
		Severity:     SeverityMedium,
		Description:  "Network connection operation",
		ContextLines: 1,
	},
	{
		Name:         "file_operations",
		FileType:     FileTypePython,
		Regexp:       regexp.MustCompile(`(?:open|file)\s*\([^,)]+,\s*['"](?:w|a|r\+|w\+|a\+|wb|ab|r\+b|w\+b|a\+b)['"]`),
		Severity:     SeverityMedium,
		Description:  "File write operation",
		ContextLines: 1,
	},
	{
		Name:         "base64_operations",
		FileType:     FileTypePython,
		Regexp:       regexp.MustCompile(`base64\.(?:b64encode|b64decode|standard_b64encode|standard_b64decode)`),
		Severity:     SeverityMedium,
		Description:  "Base64 encoding/decoding (potential obfuscation)",
		ContextLines: 1,
	},
	{
		Name:         "temp_file_creation",
		FileType:     FileTypePython,
		Regexp:       regexp.MustCompile(`tempfile\.(?:NamedTemporaryFile|mkstemp|mkdtemp)`),
		Severity:     SeverityLow,
		Description:  "Temporary file/directory creation",
		ContextLines: 1,
	},
	{
		Name:         "code_compilation",
		FileType:     FileTypePython,
		Regexp:       regexp.MustCompile(`compile\s*\((.+?),\s*['"]`),
		Severity:     SeverityHigh,
		Description:  "Dynamic code compilation",
		ContextLines: 2,
	},
	{
		Name:         "process_creation",
		FileType:     FileTypePython,
		Regexp:       regexp.MustCompile(`multiprocessing\.Process|threading\.Thread|concurrent\.futures`),
		Severity:     SeverityLow,
		Description:  "Process/thread creation",
		ContextLines: 1,
	},
}
