package rag

import (
	"strings"

	"claimflow-rag/internal/parser"
)

// ExtractLanguage returns the segment of a multilingual chunk that follows
// the marker for lang, up to the next marker. It returns "" when lang has no
// segment.
func ExtractLanguage(text, lang string) string {
	lang = strings.ToLower(lang)
	var (
		out     []string
		current string
	)
	for _, line := range strings.Split(text, "\n") {
		if l, rest, ok := parser.MatchLanguageMarker(line); ok {
			current = l
			if current == lang && rest != "" {
				out = append(out, rest)
			}
			continue
		}
		if current == lang {
			out = append(out, line)
		}
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}
