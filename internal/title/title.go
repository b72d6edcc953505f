// Package title derives short conversation titles from free text.
package title

import (
	"strings"
	"unicode"

	"github.com/nexa-ai/nexa/internal/models"
)

const fallbackMaxLen = 40

// Common English function words that carry no topic signal.
var stopwords = map[string]struct{}{
	"the": {}, "and": {}, "for": {}, "that": {}, "with": {}, "this": {},
	"what": {}, "when": {}, "where": {}, "which": {}, "would": {},
	"could": {}, "should": {}, "there": {}, "their": {}, "about": {},
	"your": {}, "from": {}, "have": {}, "just": {}, "like": {},
	"also": {}, "been": {}, "they": {}, "them": {}, "will": {},
	"how": {}, "can": {}, "a": {}, "an": {}, "in": {}, "on": {},
	"of": {}, "to": {}, "is": {}, "are": {}, "it": {},
}

// Derive builds a title from the first maxWords significant words of text:
// lowercased, punctuation stripped, short tokens and stopwords dropped,
// duplicates removed in first-seen order, first letter capitalized.
// If nothing survives filtering, the trimmed original is used, cut to 40
// characters. Empty input yields the "New chat" placeholder.
// Derive is pure: identical input always yields identical output.
func Derive(text string, maxWords int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return models.DefaultTitle
	}

	var cleaned strings.Builder
	for _, r := range strings.ToLower(text) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', unicode.IsSpace(r):
			cleaned.WriteRune(r)
		default:
			cleaned.WriteRune(' ')
		}
	}

	seen := make(map[string]struct{})
	var chosen []string
	for _, word := range strings.Fields(cleaned.String()) {
		if len(word) <= 2 {
			continue
		}
		if _, stop := stopwords[word]; stop {
			continue
		}
		if _, dup := seen[word]; dup {
			continue
		}
		seen[word] = struct{}{}
		chosen = append(chosen, word)
		if len(chosen) == maxWords {
			break
		}
	}

	if len(chosen) == 0 {
		if runes := []rune(trimmed); len(runes) > fallbackMaxLen {
			return string(runes[:fallbackMaxLen]) + "..."
		}
		return trimmed
	}

	joined := strings.Join(chosen, " ")
	return strings.ToUpper(joined[:1]) + joined[1:]
}
