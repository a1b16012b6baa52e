// Package privacy redacts personal data before it reaches log output.
package privacy

import (
	"regexp"
	"strings"
)

// emailRegex matches addresses embedded in free text.
var emailRegex = regexp.MustCompile(`[^\s@<>"']+@[^\s@<>"']+\.[^\s@<>"']+`)

// MaskEmail keeps the first character of the local part and the full domain:
// "ink@example.com" becomes "i***@example.com". Anything without an "@" is
// fully masked.
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	if email == "" {
		return ""
	}
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// StripEmails replaces every address in text with its masked form.
func StripEmails(text string) string {
	return emailRegex.ReplaceAllStringFunc(text, MaskEmail)
}

// Clean masks emails and trims whitespace. Use it on free text before logging.
func Clean(text string) string {
	return strings.TrimSpace(StripEmails(text))
}
