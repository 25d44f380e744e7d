// internal/docgen/usury/rules.go
package usury

// NoUsuryLimit marks jurisdictions with no ordinary interest rate cap.
const NoUsuryLimit = -1.0

// JurisdictionRule holds the static usury parameters for one jurisdiction.
// Rates are annual decimals (0.16 means 16%). The table is reference data,
// never mutated at runtime; keeping it in sync with statute changes is a data
// maintenance task, not a code change.
type JurisdictionRule struct {
	// MaxCivilRate is the ordinary cap, or NoUsuryLimit.
	MaxCivilRate float64

	// CommercialExemption removes or raises the civil cap for commercial
	// loans at or above CommercialThreshold.
	CommercialExemption bool
	CommercialThreshold float64

	// CappedExemptionRate, when positive, means the commercial exemption
	// raises the cap to this value instead of removing it.
	CappedExemptionRate float64

	// CriminalUsuryRate, when positive, is a hard ceiling that survives the
	// civil commercial exemption.
	CriminalUsuryRate float64

	// CriminalExemptionThreshold, when positive, is the loan amount at or
	// above which even the criminal ceiling no longer applies.
	CriminalExemptionThreshold float64

	// DisclosureRequirements lists jurisdiction-mandated disclosure language
	// that lending documents must carry.
	DisclosureRequirements []string
}

// rules is keyed by two-letter state code.
var rules = map[string]JurisdictionRule{
	"NY": {
		MaxCivilRate:               0.16,
		CommercialExemption:        true,
		CommercialThreshold:        250_000,
		CriminalUsuryRate:          0.25,
		CriminalExemptionThreshold: 2_500_000,
		DisclosureRequirements: []string{
			"This loan is subject to New York Banking Law and General Obligations Law.",
		},
	},
	"TX": {
		MaxCivilRate:        0.18,
		CommercialExemption: true,
		CommercialThreshold: 250_000,
		CappedExemptionRate: 0.28,
		DisclosureRequirements: []string{
			"This loan is subject to Texas Finance Code Chapter 306.",
		},
	},
	"FL": {
		MaxCivilRate:               0.18,
		CommercialExemption:        true,
		CommercialThreshold:        500_000,
		CriminalUsuryRate:          0.25,
		CriminalExemptionThreshold: 500_000,
		DisclosureRequirements: []string{
			"This loan is subject to Florida Statutes Chapter 687.",
		},
	},
	"CA": {
		MaxCivilRate:        0.10,
		CommercialExemption: true,
		CommercialThreshold: 300_000,
		DisclosureRequirements: []string{
			"This loan is subject to California Constitution Article XV and exemptions thereunder.",
		},
	},
	"MA": {
		MaxCivilRate:      0.20,
		CriminalUsuryRate: 0.20,
		DisclosureRequirements: []string{
			"This loan is subject to Massachusetts General Laws Chapter 271 Section 49.",
		},
	},
	"DE": {
		MaxCivilRate: NoUsuryLimit,
	},
	"NV": {
		MaxCivilRate: NoUsuryLimit,
	},
}

// Rule returns the rule for a jurisdiction.
func Rule(jurisdiction string) (JurisdictionRule, bool) {
	r, ok := rules[jurisdiction]
	return r, ok
}

// Disclosures returns the mandated disclosure language for a jurisdiction, or
// nil when the jurisdiction is unknown.
func Disclosures(jurisdiction string) []string {
	if r, ok := rules[jurisdiction]; ok {
		return r.DisclosureRequirements
	}
	return nil
}
