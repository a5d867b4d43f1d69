package safety

import (
	"regexp"
	"strings"

	"claimflow-rag/internal/models"
)

// Category names a class of request the assistant must not serve.
type Category string

const (
	ClaimApproval    Category = "claim_approval"
	CoverageDecision Category = "coverage_decision"
	FinancialAdvice  Category = "financial_advice"
	LegalAdvice      Category = "legal_advice"
	PersonalDecision Category = "personal_decision"
	Safe             Category = "safe"
)

// Rule is one prohibited phrasing. Patterns are matched against the
// lowercased query.
type Rule struct {
	Category Category
	Pattern  *regexp.Regexp
}

func rules(category Category, patterns ...string) []Rule {
	out := make([]Rule, 0, len(patterns))
	for _, p := range patterns {
		out = append(out, Rule{Category: category, Pattern: regexp.MustCompile(p)})
	}
	return out
}

// DefaultRules are evaluated in order; the first match decides the category.
var DefaultRules = concat(
	rules(ClaimApproval,
		`\b(approve|accept|pass)\s+(my|this|the)\s+claim\b`,
		`\bwill\s+(my|this|the)\s+claim\s+(be\s+)?(approved|accepted|pass)\b`,
		`\bshould\s+(you|i|we)\s+approve\b`,
		`\bcan\s+(you|i)\s+(approve|accept)\b`,
	),
	rules(CoverageDecision,
		`\bwhich\s+insurance\s+(should|must|to)\s+(i|we)\s+buy\b`,
		`\brecommend\s+(me\s+)?(an?\s+)?insurance\b`,
		`\bbest\s+insurance\s+(for|to)\b`,
		`\btell\s+me\s+what\s+insurance\b`,
	),
	rules(FinancialAdvice,
		`\bshould\s+i\s+invest\s+in\b`,
		`\brecommend\s+(me\s+)?(an?\s+)?(stocks?|mutual\s+funds?|shares?)\b`,
		`\bwhich\s+(stock|fund|share)\s+to\s+buy\b`,
		`\bguaranteed?\s+returns?\b`,
		`\btell\s+me\s+where\s+to\s+invest\b`,
	),
	rules(LegalAdvice,
		`\bcan\s+i\s+sue\b`,
		`\blegal\s+action\s+against\b`,
		`\bhire\s+(a\s+)?lawyer\b`,
		`\bwhat\s+are\s+my\s+legal\s+rights\b`,
	),
	rules(PersonalDecision,
		`\bshould\s+i\s+(file|submit|make)\s+(a\s+)?claim\b`,
		`\btell\s+me\s+(what|whether)\s+to\s+do\b`,
		`\bmake\s+(the\s+)?decision\s+for\s+me\b`,
	),
)

func concat(groups ...[]Rule) []Rule {
	var out []Rule
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

// Messages are returned verbatim to the user when a category matches.
var Messages = map[Category]string{
	ClaimApproval: models.RefusalSentence + "\n\n" +
		"I can explain how claim assessment works, what insurers usually look at, " +
		"which documents are needed and what the typical timelines are.",
	CoverageDecision: "I cannot recommend insurance products. I can explain the types of insurance " +
		"and how coverage, deductibles and premiums work. For a product recommendation, " +
		"please consult a licensed insurance agent.",
	FinancialAdvice: "I cannot provide investment advice. I can explain how compound interest works, " +
		"what instruments such as FD and PPF are, and how government savings schemes work. " +
		"For investment advice, please consult a certified financial advisor. " +
		"This is educational information only, not financial advice.",
	LegalAdvice: "I cannot provide legal advice. I can explain standard claim procedures " +
		"and how appeals generally work. For legal guidance, please consult a qualified attorney.",
	PersonalDecision: "I cannot make personal decisions for you. I can explain your options " +
		"and the usual process, but the decision is yours. Please talk to your insurance " +
		"provider or advisor for personalised guidance.",
}

const defaultMessage = "I cannot assist with this type of request."

// Message returns the rejection text for category.
func Message(category Category) string {
	if m, ok := Messages[category]; ok {
		return m
	}
	return defaultMessage
}

// Verdict is the outcome of a safety check.
type Verdict struct {
	Safe     bool     `json:"safe"`
	Category Category `json:"category"`
	Message  string   `json:"message,omitempty"`
}

// Filter checks queries against a rule table. It is stateless.
type Filter struct {
	rules []Rule
}

func NewFilter(rules []Rule) *Filter {
	return &Filter{rules: rules}
}

// Default returns a filter over DefaultRules.
func Default() *Filter {
	return NewFilter(DefaultRules)
}

func (f *Filter) Check(query string) Verdict {
	q := strings.ToLower(query)
	for _, r := range f.rules {
		if r.Pattern.MatchString(q) {
			return Verdict{Safe: false, Category: r.Category, Message: Message(r.Category)}
		}
	}
	return Verdict{Safe: true, Category: Safe}
}
