// Package redact scrubs sensitive fragments from strings before they are
// logged: connection strings, credentials, SQL, file paths and, since the
// exit checker handles a home address, coordinate pairs.
package redact

import "regexp"

// Redaction placeholders.
const (
	RedactionPlaceholder          = "[REDACTED]"
	RedactedPathPlaceholder       = "[REDACTED_PATH]"
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedSQLPlaceholder        = "[REDACTED_SQL]"
	RedactedCoordinatePlaceholder = "[REDACTED_COORDINATE]"
)

type rule struct {
	re          *regexp.Regexp
	placeholder string
}

// Rules are applied in order. Connection strings go before paths so the
// whole URL is replaced, and coordinates before paths for the same reason.
var rules = []rule{
	{
		re:          regexp.MustCompile(`(?i)(postgres|postgresql|db|database)://[^@\s]+@\S+`),
		placeholder: RedactedCredentialPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]?['"]?)[^'"&\s]{3,}`),
		placeholder: RedactedCredentialPlaceholder,
	},
	{
		re:          regexp.MustCompile(`-?\d{1,3}\.\d{3,}\s*,\s*-?\d{1,3}\.\d{3,}`),
		placeholder: RedactedCoordinatePlaceholder,
	},
	{
		re: regexp.MustCompile(
			`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()$]+(?:FROM|INTO|SET|TABLE)(?:[\s\w,*()='"$]+)?`,
		),
		placeholder: RedactedSQLPlaceholder,
	},
	{
		re:          regexp.MustCompile(`(/[\w.-]+){2,}`),
		placeholder: RedactedPathPlaceholder,
	},
}

// String redacts sensitive information from input.
func String(input string) string {
	if input == "" {
		return input
	}
	result := input
	for _, r := range rules {
		result = r.re.ReplaceAllString(result, r.placeholder)
	}
	return result
}

// Error redacts sensitive information from err.Error(). A nil error gives "".
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
