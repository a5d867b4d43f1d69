package rag

import (
	"regexp"
	"strings"
	"unicode"

	"claimflow-rag/internal/parser"
)

var connectorRe = regexp.MustCompile(`\s*(?:-+>|=+>|→|⇒|↓)\s*`)

// SpeechText renders chunk text for text to speech: connectors become
// "then", markdown is flattened and symbols are dropped. Each remaining line
// ends with sentence punctuation.
func SpeechText(text string) string {
	text = connectorRe.ReplaceAllString(text, " then ")
	text = parser.PlainText(text)

	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(strings.Map(speakable, line)), " ")
		line = strings.Trim(line, " -:,")
		if line == "" {
			continue
		}
		if !strings.ContainsAny(line[len(line)-1:], ".!?") {
			line += "."
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, " ")
}

func speakable(r rune) rune {
	switch r {
	case '*', '#', '|', '_', '`', '~', '>', '<', '•', '\u200d', '\ufe0f':
		return -1
	}
	if unicode.Is(unicode.So, r) || unicode.Is(unicode.Sk, r) || unicode.Is(unicode.Cs, r) {
		return -1
	}
	return r
}
