package assistant

import (
	"regexp"
	"strings"
	"unicode"

	"claimflow-rag/internal/models"
	"claimflow-rag/internal/rag"
)

var injectionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\b(ignore|disregard|forget|override)\s+(all\s+|any\s+|your\s+|the\s+)*(previous\s+|prior\s+|above\s+|earlier\s+)?(instructions?|rules|guidelines|prompts?)\b`),
	regexp.MustCompile(`(?i)\b(act|behave|respond)\s+as\s+(if\s+you\s+(are|were)\s+)?(an?\s+|the\s+|my\s+)?(claims?\s+|insurance\s+)?(officer|adjuster|underwriter|agent|lawyer|attorney)\b`),
	regexp.MustCompile(`(?i)\byou\s+are\s+now\b`),
	regexp.MustCompile(`(?i)\bpretend\s+(to\s+be|you\s+are)\b`),
	regexp.MustCompile(`(?i)\b(reveal|show|print|repeat)\s+(me\s+)?(your\s+|the\s+)?(system\s+prompt|instructions)\b`),
	regexp.MustCompile(`(?i)\bsystem\s+prompt\b`),
}

// Sanitize strips known prompt injection phrasings from query. A query with
// nothing meaningful left becomes the generic claims workflow question.
func Sanitize(query string) string {
	q := query
	for _, p := range injectionPatterns {
		q = p.ReplaceAllString(q, " ")
	}
	q = rag.NormalizeQuery(q)
	if !strings.ContainsFunc(q, func(r rune) bool { return unicode.IsLetter(r) || unicode.IsNumber(r) }) {
		return models.FallbackQuestion
	}
	return q
}

var domainHints = regexp.MustCompile(`(?i)\b(` + strings.Join([]string{
	`insur\w*`, `claim\w*`, `polic(y|ies)`, `premiums?`, `deductibles?`, `coverage`,
	`cover(ed|s)?`, `settle\w*`, `reimburs\w*`, `payouts?`, `hospital\w*`, `bills?`,
	`documents?`, `adjusters?`, `underwrit\w*`, `beneficiar(y|ies)`, `nominee`,
	`savings?`, `save`, `interest`, `invest\w*`, `deposits?`, `ppf`, `fd`, `sip`,
	`mutual\s+funds?`, `schemes?`, `pension`, `retire\w*`, `money`, `financ\w*`,
	`budget\w*`, `compound\w*`, `inflation`,
}, "|") + `)\b`)

// HasDomainHint reports whether text mentions an insurance or savings term.
func HasDomainHint(text string) bool {
	return domainHints.MatchString(text)
}
