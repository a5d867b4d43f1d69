package intent

import (
	"regexp"
	"strings"
)

const (
	ProhibitedThreshold    = 0.3
	LowConfidenceThreshold = 0.2
	NeutralConfidence      = 0.5

	// a few matches already give a confident score
	scoreScale = 3.0
)

// Result is the advisory classification of a query.
type Result struct {
	Label      Label   `json:"label"`
	Confidence float64 `json:"confidence"`
}

type compiledRule struct {
	label    Label
	patterns []*regexp.Regexp
}

// Classifier scores queries against a keyword table. It holds no mutable
// state and is safe for concurrent use.
type Classifier struct {
	prohibited *compiledRule
	others     []compiledRule
}

func NewClassifier(rules []Rule) *Classifier {
	c := &Classifier{}
	for _, r := range rules {
		cr := compiledRule{label: r.Label}
		for _, kw := range r.Keywords {
			cr.patterns = append(cr.patterns, keywordPattern(kw))
		}
		if r.Label == Prohibited {
			c.prohibited = &cr
			continue
		}
		c.others = append(c.others, cr)
	}
	return c
}

// Default returns a classifier over DefaultRules.
func Default() *Classifier {
	return NewClassifier(DefaultRules)
}

// keywordPattern matches kw as a whole word or phrase, allowing a plural or
// past tense suffix.
func keywordPattern(kw string) *regexp.Regexp {
	words := strings.Fields(strings.ToLower(kw))
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return regexp.MustCompile(`(?i)\b` + strings.Join(words, `\s+`) + `(?:s|es|d|ed)?\b`)
}

// Classify returns the best label for query. Prohibited preempts every other
// label once it scores above ProhibitedThreshold.
func (c *Classifier) Classify(query string) Result {
	q := strings.ToLower(query)

	if c.prohibited != nil {
		if s := score(q, c.prohibited); s > ProhibitedThreshold {
			return Result{Label: Prohibited, Confidence: s}
		}
	}

	best := Result{Label: General}
	for i := range c.others {
		if s := score(q, &c.others[i]); s > best.Confidence {
			best = Result{Label: c.others[i].label, Confidence: s}
		}
	}
	if best.Confidence < LowConfidenceThreshold {
		return Result{Label: General, Confidence: NeutralConfidence}
	}
	return best
}

func score(q string, r *compiledRule) float64 {
	if len(r.patterns) == 0 {
		return 0
	}
	matches := 0
	for _, p := range r.patterns {
		if p.MatchString(q) {
			matches++
		}
	}
	return min(float64(matches)*scoreScale/float64(len(r.patterns)), 1.0)
}
