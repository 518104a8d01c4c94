package catalog

import "regexp"

// powershellPatterns covers the obfuscation, download-and-execute,
// defense-evasion and persistence constructs typical of malicious
// PowerShell. Rules that can span lines are compiled with (?is).
var powershellPatterns = []Pattern{
	{
		Name:         "obfuscated_command",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?is)\$\w+\s*=\s*(?:\[[^\]]+\])?(?:'\w{1,2}'\s*\+\s*)+|-join\s+(?:\[char\]\d+\s*,?\s*)+|\[char\[\]\]\s*\(\s*\d+(?:\s*,\s*\d+)*\s*\)\s*-join\s*''`),
		Severity:     SeverityHigh,
		Description:  "Obfuscated command construction",
		ContextLines: 2,
	},
	{
		Name:         "base64_payload",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?i)(?:-enc|-encodedcommand|-e)\s+[A-Za-z0-9+/]{20,}={0,2}|(?:FromBase64String|ConvertTo-SecureString)\s*\(?\s*['"][A-Za-z0-9+/]{20,}={0,2}['"]`),
		Severity:     SeverityHigh,
		Description:  "Base64 encoded payload",
		ContextLines: 2,
	},
	{
		Name:         "suspicious_cmdlets",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?i)Invoke-Expression|IEX|Invoke-Command|Invoke-WmiMethod|Invoke-CimMethod|New-Object|Start-Process|New-Service|Start-Job|Invoke-Item|Invoke-WebRequest|wget|curl|Net\.WebClient|DownloadString|DownloadFile`),
		Severity:     SeverityHigh,
		Description:  "Potentially dangerous cmdlet usage",
		ContextLines: 2,
	},
	{
		Name:         "script_download",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?is)(?:Net\.WebClient|System\.Net\.WebClient|Invoke-WebRequest|curl|wget|Start-BitsTransfer)[\s\S]{0,60}?(?:DownloadString|DownloadFile|OutFile)`),
		Severity:     SeverityHigh,
		Description:  "Download and potential execution of external content",
		ContextLines: 2,
	},
	{
		Name:         "execution_bypass",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?i)-ExecutionPolicy\s+Bypass|-EP\s+Bypass|-Exec\s+Bypass|ExecutionPolicy\s+(?:Unrestricted|Bypass)`),
		Severity:     SeverityHigh,
		Description:  "Bypassing PowerShell execution policy",
		ContextLines: 2,
	},
	{
		Name:         "hidden_execution",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?i)-WindowStyle\s+Hidden|-W\s+Hidden|WindowStyle\s*=\s*"Hidden"|\$Host\.UI\.RawUI\.WindowSize\.Height\s*=\s*0`),
		Severity:     SeverityHigh,
		Description:  "Hiding PowerShell console window",
		ContextLines: 2,
	},
	{
		Name:         "version_downgrade",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?i)powershell(?:\.exe)?\s+-v(?:ersion)?\s+2\b|-Version\s+2\b`),
		Severity:     SeverityMedium,
		Description:  "PowerShell version downgrade (evades script block logging)",
		ContextLines: 1,
	},
	{
		Name:         "amsi_bypass",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?i)AmsiUtils|amsiInitFailed|amsi\.dll|AmsiScanBuffer`),
		Severity:     SeverityHigh,
		Description:  "Anti-malware scan interface probe or bypass attempt",
		ContextLines: 2,
	},
	{
		Name:         "wmi_usage",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?i)Get-WmiObject|gwmi|WmiObject|Invoke-WmiMethod|Get-CimInstance|New-CimInstance`),
		Severity:     SeverityMedium,
		Description:  "WMI/CIM interaction (potential for system changes)",
		ContextLines: 1,
	},
	{
		Name:         "registry_operations",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?i)HKLM:|HKCU:|Registry::|Microsoft\.Win32\.Registry`),
		Severity:     SeverityMedium,
		Description:  "Registry manipulation",
		ContextLines: 1,
	},
	{
		Name:         "scheduled_task",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?i)New-ScheduledTask|Register-ScheduledTask|schtasks`),
		Severity:     SeverityMedium,
		Description:  "Scheduled task creation/manipulation",
		ContextLines: 1,
	},
	{
		Name:         "log_clearing",
		FileType:     FileTypePowerShell,
		Regexp:       regexp.MustCompile(`(?i)Clear-EventLog|wevtutil\s+cl\b|Clear-History|Remove-Item\s+[^\r\n]*ConsoleHost_history`),
		Severity:     SeverityHigh,
		Description:  "Event log or command history clearing",
		ContextLines: 1,
	},
}
