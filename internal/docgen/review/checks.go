// internal/docgen/review/checks.go
package review

import (
	"fmt"

	"loandoc-workers/internal/docgen/usury"
	"loandoc-workers/internal/models"
)

// ProgramChecks runs the deal-level checks attached to every document in a
// package, regardless of document type.
func ProgramChecks(deal *models.DealInput) []models.ComplianceCheck {
	checks := make([]models.ComplianceCheck, 0, 4)

	usuryResult := usury.Evaluate(deal.Jurisdiction, deal.AnnualRate, deal.LoanAmount, deal.Commercial)
	checks = append(checks, models.ComplianceCheck{
		Name:       "usury_rate_limit",
		Regulation: fmt.Sprintf("%s usury statutes", deal.Jurisdiction),
		Category:   models.CheckRegulatory,
		Passed:     !usuryResult.Violates,
		Note:       usuryResult.Message,
	})

	disclosures := usury.Disclosures(deal.Jurisdiction)
	checks = append(checks, models.ComplianceCheck{
		Name:       "jurisdiction_disclosures",
		Regulation: fmt.Sprintf("%s disclosure requirements", deal.Jurisdiction),
		Category:   models.CheckRegulatory,
		Passed:     true,
		Note:       disclosureNote(deal.Jurisdiction, disclosures),
	})

	dscrOK := deal.Covenants.MinDSCR >= 1.0
	checks = append(checks, models.ComplianceCheck{
		Name:     "dscr_covenant_floor",
		Category: models.CheckStandard,
		Passed:   dscrOK,
		Note:     fmt.Sprintf("minimum DSCR covenant is %.2f; underwriting floor is 1.00", deal.Covenants.MinDSCR),
	})

	ltvOK := deal.Covenants.MaxLTV > 0 && deal.Covenants.MaxLTV <= 1.0
	checks = append(checks, models.ComplianceCheck{
		Name:     "ltv_covenant_ceiling",
		Category: models.CheckStandard,
		Passed:   ltvOK,
		Note:     fmt.Sprintf("maximum LTV covenant is %.2f; must be within (0, 1.00]", deal.Covenants.MaxLTV),
	})

	// Credit structure: a commercial deal must be supported by collateral or a
	// personal guaranty. Unsecured, unguaranteed commercial credit is a policy
	// exception, not a document defect.
	structureOK := !deal.Commercial || len(deal.Collateral) > 0 || deal.PersonalGuaranty
	checks = append(checks, models.ComplianceCheck{
		Name:     "credit_support_present",
		Category: models.CheckStandard,
		Passed:   structureOK,
		Note:     creditSupportNote(deal),
	})

	return checks
}

func creditSupportNote(deal *models.DealInput) string {
	switch {
	case !deal.Commercial:
		return "consumer deal; credit support policy does not apply"
	case len(deal.Collateral) > 0 && deal.PersonalGuaranty:
		return "deal carries both collateral and a personal guaranty"
	case len(deal.Collateral) > 0:
		return "deal is collateralized"
	case deal.PersonalGuaranty:
		return "deal is supported by a personal guaranty"
	default:
		return "commercial deal has neither collateral nor a personal guaranty"
	}
}

func disclosureNote(jurisdiction string, disclosures []string) string {
	if len(disclosures) == 0 {
		return fmt.Sprintf("no disclosure requirements on file for %s; none applied", jurisdiction)
	}
	return fmt.Sprintf("%d mandated disclosure(s) applied for %s", len(disclosures), jurisdiction)
}
