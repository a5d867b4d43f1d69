package intent

import "testing"

func TestClassify(t *testing.T) {
	c := Default()
	tests := []struct {
		query string
		want  Label
	}{
		{"What documents are required for a health insurance claim?", InsuranceGeneral},
		{"How long does claim settlement take and how do I track the status?", InsuranceClaim},
		{"How does compound interest help savings grow over 5 years?", FinancialLiteracy},
		{"What's the weather today?", General},
		{"Will my claim be approved or should I sue the insurer?", Prohibited},
		{"Which insurance is best, can you guarantee a payout?", Prohibited},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got := c.Classify(tt.query)
			if got.Label != tt.want {
				t.Errorf("Classify(%q) = %+v, want %s", tt.query, got, tt.want)
			}
			if got.Confidence < 0 || got.Confidence > 1 {
				t.Errorf("confidence %f out of range", got.Confidence)
			}
		})
	}
}

func TestClassify_neutralDefault(t *testing.T) {
	got := Default().Classify("tell me a joke")
	if got.Label != General || got.Confidence != NeutralConfidence {
		t.Errorf("got %+v, want general/%.1f", got, NeutralConfidence)
	}
}

func TestClassify_prohibitedPreempts(t *testing.T) {
	// heavy claim vocabulary must not outrank a confident prohibited score
	q := "will my claim settlement payout reimbursement status timeline be approved, I will sue with a lawyer"
	got := Default().Classify(q)
	if got.Label != Prohibited {
		t.Fatalf("got %+v, want prohibited", got)
	}
	if got.Confidence <= ProhibitedThreshold {
		t.Errorf("confidence %f should exceed %f", got.Confidence, ProhibitedThreshold)
	}
}

func TestClassify_wholeWords(t *testing.T) {
	c := NewClassifier([]Rule{{Label: InsuranceClaim, Keywords: []string{"sue", "claim"}}})
	if got := c.Classify("pursue a career"); got.Label != General {
		t.Errorf("substring matched: %+v", got)
	}
	if got := c.Classify("two claims pending"); got.Label != InsuranceClaim || got.Confidence != 1 {
		t.Errorf("plural not matched or not capped: %+v", got)
	}
}

func TestDescribe(t *testing.T) {
	if Describe(Prohibited).Safe {
		t.Error("prohibited should not be safe")
	}
	if got := Describe(Label("unknown")); got != Describe(General) {
		t.Errorf("unknown label = %+v", got)
	}
}
