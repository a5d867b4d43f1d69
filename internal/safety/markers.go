package safety

import (
	"regexp"
	"strings"
)

// OutputMarkers are phrasings in a model answer that assert a claim
// decision, eligibility, coverage, a payout or legal advice. The list is
// best effort and does not catch every paraphrase.
var OutputMarkers = []*regexp.Regexp{
	regexp.MustCompile(`\byour\s+claim\s+(is|has\s+been|will\s+be)\s+(approved|accepted|rejected|denied)\b`),
	regexp.MustCompile(`\bi\s+(have\s+)?(approved|rejected|denied)\s+your\s+claim\b`),
	regexp.MustCompile(`\byou\s+are\s+(not\s+)?eligible\s+for\s+(the\s+|this\s+|a\s+|your\s+)?(claim|payout|reimbursement|compensation|settlement)\b`),
	regexp.MustCompile(`\byour\s+policy\s+(covers|does\s+not\s+cover|doesn't\s+cover)\b`),
	regexp.MustCompile(`\byou\s+will\s+(receive|get|be\s+paid)\s+(₹|rs\.?|inr|\$|\d|the\s+full|full\s+|a\s+payout|your\s+payout|compensation|reimbursement|the\s+claim\s+amount)`),
	regexp.MustCompile(`\byou\s+should\s+(sue|file\s+a\s+lawsuit)\b`),
}

// ScanOutput reports the first marker found in text.
func ScanOutput(text string) (string, bool) {
	lower := strings.ToLower(text)
	for _, m := range OutputMarkers {
		if loc := m.FindStringIndex(lower); loc != nil {
			return lower[loc[0]:loc[1]], true
		}
	}
	return "", false
}
