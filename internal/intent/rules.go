package intent

// Label is a coarse intent category.
type Label string

const (
	InsuranceClaim    Label = "insurance_claim"
	FinancialLiteracy Label = "financial_literacy"
	InsuranceGeneral  Label = "insurance_general"
	Prohibited        Label = "prohibited"
	General           Label = "general"
)

// Rule maps a label to its representative keywords and phrases.
type Rule struct {
	Label    Label
	Keywords []string
}

// DefaultRules is the keyword table. Prohibited is evaluated first by the
// classifier regardless of its position here.
var DefaultRules = []Rule{
	{
		Label: InsuranceClaim,
		Keywords: []string{
			"claim", "filing", "submit", "process", "stages", "assessment",
			"denial", "reject", "appeal", "delay", "timeline", "document",
			"status", "track", "approved", "deductible", "coverage", "premium",
			"settlement", "payout", "reimbursement", "fraud", "investigation",
		},
	},
	{
		Label: FinancialLiteracy,
		Keywords: []string{
			"savings", "invest", "compound", "interest", "growth", "asset",
			"income", "money", "ppf", "apy", "nps", "fd", "fixed deposit",
			"mutual fund", "scheme", "plan", "retire", "pension", "inflation",
			"budget", "emergency fund", "5 year", "wealth", "portfolio",
		},
	},
	{
		Label: InsuranceGeneral,
		Keywords: []string{
			"insurance", "policy", "insurer", "insured", "beneficiary",
			"health insurance", "car insurance", "life insurance", "term insurance",
			"subrogation", "co-insurance", "co-payment", "exclusion", "rider",
		},
	},
	{
		Label: Prohibited,
		Keywords: []string{
			"approve my", "will my claim", "should i buy", "recommend insurance",
			"which insurance", "best insurance", "guarantee", "which stock",
			"should i invest", "legal action", "sue", "lawyer", "make decision for me",
		},
	},
}

// Info describes a label for display.
type Info struct {
	Category    string `json:"category"`
	Description string `json:"description"`
	Safe        bool   `json:"safe"`
}

var infos = map[Label]Info{
	InsuranceClaim:    {Category: "Insurance Query", Description: "Questions about insurance claims process", Safe: true},
	FinancialLiteracy: {Category: "Financial Education", Description: "Questions about savings and financial concepts", Safe: true},
	InsuranceGeneral:  {Category: "Insurance Concepts", Description: "General insurance terminology and concepts", Safe: true},
	Prohibited:        {Category: "Prohibited Query", Description: "Request for advice/decisions outside scope", Safe: false},
	General:           {Category: "General Query", Description: "General information request", Safe: true},
}

// Describe returns display metadata for label, defaulting to General.
func Describe(label Label) Info {
	if info, ok := infos[label]; ok {
		return info
	}
	return infos[General]
}
