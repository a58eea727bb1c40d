package compliance

// Policy is the fixed rule set applied by Scanner and IndustryScreen.
type Policy struct {
	ForbiddenKeys      []string `toml:"forbidden_keys"`
	ForbiddenPhrases   []string `toml:"forbidden_phrases"`
	ExcludedIndustries []string `toml:"excluded_industries"`
}

// DefaultPolicy returns the platform's built-in compliance lists.
func DefaultPolicy() Policy {
	return Policy{
		ForbiddenKeys:    []string{"interest", "interestRate", "guaranteedReturn", "fixedReturn", "apr"},
		ForbiddenPhrases: []string{"interest", "fixed return", "guaranteed"},
		ExcludedIndustries: []string{
			"alcohol",
			"gambling",
			"pork",
			"adult",
			"tobacco",
			"conventional_finance_interest",
			"cannabis_non_medicinal",
		},
	}
}

// WithDefaults fills empty lists from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	def := DefaultPolicy()
	if len(p.ForbiddenKeys) == 0 {
		p.ForbiddenKeys = def.ForbiddenKeys
	}
	if len(p.ForbiddenPhrases) == 0 {
		p.ForbiddenPhrases = def.ForbiddenPhrases
	}
	if len(p.ExcludedIndustries) == 0 {
		p.ExcludedIndustries = def.ExcludedIndustries
	}
	return p
}
