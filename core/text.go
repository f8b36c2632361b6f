package core

import "strings"

// Tokenize splits text into lowercase terms with surrounding punctuation
// trimmed. It is the single analyzer shared by indexing and query
// planning, so stored content and query text always tokenize identically.
func Tokenize(text string) []string {
	words := strings.Fields(text)
	terms := make([]string, 0, len(words))
	for _, word := range words {
		cleaned := strings.ToLower(strings.Trim(word, ".,!?;:'\"-()[]{}"))
		if cleaned != "" {
			terms = append(terms, cleaned)
		}
	}
	return terms
}

// NormalizePhrase lowercases text and collapses whitespace runs so phrase
// matching is insensitive to case and spacing but not to word order.
func NormalizePhrase(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
