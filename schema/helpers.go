package schema

import (
	"strings"
	"unicode"
)

// botSuffixes are login endings that identify automation accounts
// even without the "[bot]" marker (e.g. "renovate-bot", "ci_bot").
var botSuffixes = []string{"-bot", "_bot"}

// IsBotAuthor reports whether a login belongs to an automation account.
// It matches GitHub app accounts (dependabot[bot]) and common -bot/_bot logins.
func IsBotAuthor(author string) bool {
	login := strings.ToLower(strings.TrimSpace(author))
	if login == "" {
		return false
	}
	if strings.Contains(login, "[bot]") {
		return true
	}
	for _, suffix := range botSuffixes {
		if strings.HasSuffix(login, suffix) {
			return true
		}
	}
	return false
}

// NormalizeAuthor trims a login and strips surrounding punctuation so that
// the same person is counted once across record kinds.
func NormalizeAuthor(author string) string {
	trimmed := strings.TrimSpace(author)
	trimmed = strings.TrimLeftFunc(trimmed, func(r rune) bool {
		return r == '@' || unicode.IsSpace(r)
	})
	return strings.ToLower(trimmed)
}
