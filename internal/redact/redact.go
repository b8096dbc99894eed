// Package redact provides utilities for scrubbing sensitive information
// from strings before they are logged or returned in error responses. It
// prevents accidental leakage of connection strings, tokens, file paths,
// and SQL fragments that might be embedded in error messages.
package redact

import "regexp"

// Redaction placeholders.
const (
	Placeholder           = "[REDACTED]"
	PathPlaceholder       = "[REDACTED_PATH]"
	CredentialPlaceholder = "[REDACTED_CREDENTIAL]"
)

var (
	// Database connection strings with embedded credentials.
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql|db|database)://[^@\s]+@`)

	// Secrets assigned in key=value or key: value form.
	secretRegex = regexp.MustCompile(
		`(?i)(password|passwd|secret|token|api[_-]?key)(['"\s:=]+)[^'"&\s]{3,}`,
	)

	// Signed JWTs (three base64url segments).
	jwtRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Absolute filesystem paths.
	pathRegex = regexp.MustCompile(`(/[\w.-]+){2,}`)

	// SQL statement fragments.
	sqlRegex = regexp.MustCompile(
		`(?i)(SELECT|INSERT|UPDATE|DELETE|CREATE|ALTER|DROP)[\s\w,*()]+(FROM|INTO|SET|TABLE)\b`,
	)
)

// String scrubs sensitive patterns from s.
func String(s string) string {
	if s == "" {
		return s
	}

	s = dbConnRegex.ReplaceAllString(s, "$1://"+CredentialPlaceholder+"@")
	s = secretRegex.ReplaceAllString(s, "$1$2"+CredentialPlaceholder)
	s = jwtRegex.ReplaceAllString(s, CredentialPlaceholder)
	s = sqlRegex.ReplaceAllString(s, Placeholder)
	s = pathRegex.ReplaceAllString(s, PathPlaceholder)
	return s
}

// Error scrubs an error's message. A nil error yields the empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
