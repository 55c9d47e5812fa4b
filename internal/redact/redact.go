// Package redact scrubs sensitive values from strings before they reach
// logs or error responses: credentials, session tokens, connection
// strings, and the personal identifiers this service stores.
package redact

import (
	"regexp"
)

// Placeholders substituted for matched sensitive content.
const (
	RedactedCredentialPlaceholder = "[REDACTED_CREDENTIAL]"
	RedactedTokenPlaceholder      = "[REDACTED_TOKEN]"
	RedactedEmailPlaceholder      = "[REDACTED_EMAIL]"
	RedactedSSNPlaceholder        = "[REDACTED_SSN]"
	RedactedHostPlaceholder       = "[REDACTED_HOST]"
)

var (
	// Database connection strings with embedded credentials.
	dbConnRegex = regexp.MustCompile(`(?i)(postgres|postgresql|mysql)://[^@\s]+@`)

	// Password fields in key=value or key: value form.
	passwordRegex = regexp.MustCompile(`(?i)(password|passwd|pwd)([=:\s]['"]?)[^'"&\s]{3,}`)

	// Signed session tokens (three dot-separated base64url segments).
	jwtTokenRegex = regexp.MustCompile(`eyJ[a-zA-Z0-9_-]+\.eyJ[a-zA-Z0-9_-]+\.[a-zA-Z0-9_-]+`)

	// Bcrypt hashes; they identify the credential even without the plaintext.
	bcryptRegex = regexp.MustCompile(`\$2[aby]\$\d{2}\$[./A-Za-z0-9]{53}`)

	// Email addresses.
	emailRegex = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)

	// National identity numbers in YYYYMMDD-NNNN form, as stored on users.
	ssnRegex = regexp.MustCompile(`\b\d{8}-\d{4}\b`)

	// Host:port pairs from dial errors.
	hostPortRegex = regexp.MustCompile(`\b(?:[a-zA-Z0-9](?:[a-zA-Z0-9-]{0,61}[a-zA-Z0-9])?\.)+[a-zA-Z]{2,}:\d{1,5}\b`)

	patternPlaceholders = []struct {
		pattern     *regexp.Regexp
		placeholder string
	}{
		{dbConnRegex, RedactedCredentialPlaceholder},
		{passwordRegex, RedactedCredentialPlaceholder},
		{jwtTokenRegex, RedactedTokenPlaceholder},
		{bcryptRegex, RedactedCredentialPlaceholder},
		{ssnRegex, RedactedSSNPlaceholder},
		{emailRegex, RedactedEmailPlaceholder},
		{hostPortRegex, RedactedHostPlaceholder},
	}
)

// String scrubs all known sensitive patterns from s.
func String(s string) string {
	if s == "" {
		return s
	}
	for _, pp := range patternPlaceholders {
		s = pp.pattern.ReplaceAllString(s, pp.placeholder)
	}
	return s
}

// Error scrubs an error's message. A nil error yields an empty string.
func Error(err error) string {
	if err == nil {
		return ""
	}
	return String(err.Error())
}
