// internal/docgen/usury/evaluate.go
package usury

import "fmt"

// Result is the outcome of one usury evaluation.
type Result struct {
	Violates bool
	// Limit is the rate ceiling that was actually applied, or NoUsuryLimit
	// when no ceiling applied.
	Limit   float64
	Message string
}

// Evaluate checks an annual rate against a jurisdiction's usury rules.
//
// Precedence, strictly in order: capped commercial exemption, then a criminal
// ceiling that survives the civil exemption, then full exemption, then the
// no-limit sentinel, then the ordinary civil cap. Civil exemptions do not
// waive criminal ceilings, and some jurisdictions raise the cap rather than
// remove it; reordering these tiers changes legal outcomes.
//
// Evaluate never fails. An unknown jurisdiction resolves to no violation with
// a message saying no check was possible, so absent reference data cannot
// block a legitimate deal.
func Evaluate(jurisdiction string, annualRate, loanAmount float64, isCommercial bool) Result {
	rule, ok := rules[jurisdiction]
	if !ok {
		return Result{
			Violates: false,
			Limit:    NoUsuryLimit,
			Message:  fmt.Sprintf("no usury rule on file for jurisdiction %q; no check performed", jurisdiction),
		}
	}

	if isCommercial && rule.CommercialExemption && loanAmount >= rule.CommercialThreshold {
		if rule.CappedExemptionRate > 0 {
			if annualRate > rule.CappedExemptionRate {
				return Result{
					Violates: true,
					Limit:    rule.CappedExemptionRate,
					Message: fmt.Sprintf("rate %.2f%% exceeds %s capped commercial exemption ceiling of %.2f%%",
						annualRate*100, jurisdiction, rule.CappedExemptionRate*100),
				}
			}
			return Result{
				Violates: false,
				Limit:    rule.CappedExemptionRate,
				Message: fmt.Sprintf("rate %.2f%% within %s capped commercial exemption ceiling of %.2f%%",
					annualRate*100, jurisdiction, rule.CappedExemptionRate*100),
			}
		}

		if rule.CriminalUsuryRate > 0 {
			if rule.CriminalExemptionThreshold > 0 && loanAmount >= rule.CriminalExemptionThreshold {
				return Result{
					Violates: false,
					Limit:    NoUsuryLimit,
					Message: fmt.Sprintf("loan of %.0f meets %s criminal exemption threshold; fully exempt",
						loanAmount, jurisdiction),
				}
			}
			if annualRate > rule.CriminalUsuryRate {
				return Result{
					Violates: true,
					Limit:    rule.CriminalUsuryRate,
					Message: fmt.Sprintf("rate %.2f%% exceeds %s criminal usury ceiling of %.2f%%, which survives the commercial exemption",
						annualRate*100, jurisdiction, rule.CriminalUsuryRate*100),
				}
			}
			return Result{
				Violates: false,
				Limit:    rule.CriminalUsuryRate,
				Message: fmt.Sprintf("civil cap exempt; rate %.2f%% within %s criminal usury ceiling of %.2f%%",
					annualRate*100, jurisdiction, rule.CriminalUsuryRate*100),
			}
		}

		return Result{
			Violates: false,
			Limit:    NoUsuryLimit,
			Message:  fmt.Sprintf("commercial loan fully exempt from %s usury cap", jurisdiction),
		}
	}

	if rule.MaxCivilRate == NoUsuryLimit {
		if rule.CriminalUsuryRate > 0 && annualRate > rule.CriminalUsuryRate {
			return Result{
				Violates: true,
				Limit:    rule.CriminalUsuryRate,
				Message: fmt.Sprintf("rate %.2f%% exceeds %s criminal usury ceiling of %.2f%%",
					annualRate*100, jurisdiction, rule.CriminalUsuryRate*100),
			}
		}
		return Result{
			Violates: false,
			Limit:    NoUsuryLimit,
			Message:  fmt.Sprintf("%s imposes no usury limit", jurisdiction),
		}
	}

	if annualRate > rule.MaxCivilRate {
		return Result{
			Violates: true,
			Limit:    rule.MaxCivilRate,
			Message: fmt.Sprintf("rate %.2f%% exceeds %s civil usury cap of %.2f%%",
				annualRate*100, jurisdiction, rule.MaxCivilRate*100),
		}
	}
	return Result{
		Violates: false,
		Limit:    rule.MaxCivilRate,
		Message: fmt.Sprintf("rate %.2f%% within %s civil usury cap of %.2f%%",
			annualRate*100, jurisdiction, rule.MaxCivilRate*100),
	}
}
