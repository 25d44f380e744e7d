// internal/docgen/render/builders.go
package render

import (
	"fmt"

	"loandoc-workers/internal/docgen/usury"
	"loandoc-workers/internal/models"
)

// BuilderFunc turns deal data and validated prose into a document tree.
// Builders for zero-content document types ignore prose entirely.
type BuilderFunc func(deal *models.DealInput, prose models.GeneratedProse) *models.DocumentTree

func proseText(prose models.GeneratedProse, key string) string {
	return prose[key].Text
}

func proseItems(prose models.GeneratedProse, key string) []string {
	return prose[key].Items
}

func partiesSection(deal *models.DealInput) models.TreeSection {
	return models.TreeSection{
		Heading: "Parties",
		Paragraphs: []string{
			fmt.Sprintf("Borrower: %s, a %s", deal.BorrowerName, deal.BorrowerEntity),
			fmt.Sprintf("Lender: %s", deal.LenderName),
		},
	}
}

func termsSection(deal *models.DealInput) models.TreeSection {
	return models.TreeSection{
		Heading: "Loan Terms",
		Paragraphs: []string{
			fmt.Sprintf("Principal Amount: %s", FormatMoney(deal.LoanAmount)),
			fmt.Sprintf("Annual Interest Rate: %s", FormatRate(deal.AnnualRate)),
			fmt.Sprintf("Term: %d months", deal.TermMonths),
			fmt.Sprintf("Maturity Date: %s", FormatDate(deal.MaturityDate())),
		},
	}
}

func disclosureSection(deal *models.DealInput) *models.TreeSection {
	disclosures := usury.Disclosures(deal.Jurisdiction)
	if len(disclosures) == 0 {
		return nil
	}
	return &models.TreeSection{
		Heading: "Jurisdictional Disclosures",
		Items:   disclosures,
	}
}

func appendDisclosures(tree *models.DocumentTree, deal *models.DealInput) {
	if sec := disclosureSection(deal); sec != nil {
		tree.Sections = append(tree.Sections, *sec)
	}
}

// BuildPromissoryNote assembles the note from deal terms and generated prose.
func BuildPromissoryNote(deal *models.DealInput, prose models.GeneratedProse) *models.DocumentTree {
	tree := &models.DocumentTree{
		Title:    "Promissory Note",
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			partiesSection(deal),
			termsSection(deal),
			{Heading: "Payment Terms", Paragraphs: []string{proseText(prose, "payment_terms")}},
			{Heading: "Prepayment", Paragraphs: []string{proseText(prose, "prepayment")}},
			{Heading: "Default Provisions", Paragraphs: []string{proseText(prose, "default_provisions")}},
		},
	}
	appendDisclosures(tree, deal)
	return tree
}

func BuildLoanAgreement(deal *models.DealInput, prose models.GeneratedProse) *models.DocumentTree {
	tree := &models.DocumentTree{
		Title:    "Loan Agreement",
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			partiesSection(deal),
			{Heading: "Recitals", Paragraphs: []string{proseText(prose, "recitals")}},
			termsSection(deal),
			{
				Heading: "Financial Covenants",
				Paragraphs: []string{
					fmt.Sprintf("Minimum Debt Service Coverage Ratio: %.2f", deal.Covenants.MinDSCR),
					fmt.Sprintf("Maximum Loan-to-Value Ratio: %s", FormatRate(deal.Covenants.MaxLTV)),
				},
			},
			{Heading: "Representations and Warranties", Items: proseItems(prose, "representations")},
			{Heading: "Affirmative Covenants", Items: proseItems(prose, "affirmative_covenants")},
			{Heading: "Negative Covenants", Items: proseItems(prose, "negative_covenants")},
			{Heading: "Events of Default", Items: proseItems(prose, "events_of_default")},
		},
	}
	appendDisclosures(tree, deal)
	return tree
}

func BuildSecurityAgreement(deal *models.DealInput, prose models.GeneratedProse) *models.DocumentTree {
	collateral := make([]string, 0, len(deal.Collateral))
	for _, c := range deal.Collateral {
		collateral = append(collateral, string(c))
	}

	return &models.DocumentTree{
		Title:    "Security Agreement",
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			partiesSection(deal),
			{Heading: "Grant of Security Interest", Paragraphs: []string{proseText(prose, "granting_clause")}},
			{Heading: "Collateral", Paragraphs: []string{proseText(prose, "collateral_description")}, Items: collateral},
			{Heading: "Remedies", Items: proseItems(prose, "remedies")},
		},
	}
}

func BuildGuaranty(deal *models.DealInput, prose models.GeneratedProse) *models.DocumentTree {
	return &models.DocumentTree{
		Title:    "Personal Guaranty",
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			partiesSection(deal),
			{
				Heading: "Guaranteed Obligations",
				Paragraphs: []string{
					fmt.Sprintf("All obligations of %s under the loan in the principal amount of %s.",
						deal.BorrowerName, FormatMoney(deal.LoanAmount)),
				},
			},
			{Heading: "Scope of Guaranty", Paragraphs: []string{proseText(prose, "guaranty_scope")}},
			{Heading: "Waivers", Items: proseItems(prose, "waivers")},
		},
	}
}

func BuildDeedOfTrust(deal *models.DealInput, prose models.GeneratedProse) *models.DocumentTree {
	return &models.DocumentTree{
		Title:    "Deed of Trust",
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			partiesSection(deal),
			{Heading: "Property Description", Paragraphs: []string{proseText(prose, "property_description")}},
			{Heading: "Granting Clause", Paragraphs: []string{proseText(prose, "granting_clause")}},
			{
				Heading: "Secured Amount",
				Paragraphs: []string{
					fmt.Sprintf("This Deed of Trust secures the principal amount of %s at %s per annum.",
						FormatMoney(deal.LoanAmount), FormatRate(deal.AnnualRate)),
				},
			},
			{Heading: "Power of Sale", Paragraphs: []string{proseText(prose, "power_of_sale")}},
		},
	}
}

func BuildSubordinationAgreement(deal *models.DealInput, prose models.GeneratedProse) *models.DocumentTree {
	return &models.DocumentTree{
		Title:    "Subordination Agreement",
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			{
				Heading: "Parties",
				Paragraphs: []string{
					fmt.Sprintf("Senior Lender: %s", deal.LenderName),
					fmt.Sprintf("Subordinate Creditor: %s", deal.SubordinateCreditor),
					fmt.Sprintf("Borrower: %s", deal.BorrowerName),
				},
			},
			{Heading: "Subordination", Paragraphs: []string{proseText(prose, "subordination_terms")}},
			{Heading: "Standstill", Paragraphs: []string{proseText(prose, "standstill")}},
		},
	}
}

func BuildIntercreditorAgreement(deal *models.DealInput, prose models.GeneratedProse) *models.DocumentTree {
	return &models.DocumentTree{
		Title:    "Intercreditor Agreement",
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			{
				Heading: "Parties",
				Paragraphs: []string{
					fmt.Sprintf("First Lien Lender: %s", deal.LenderName),
					fmt.Sprintf("Second Lien Lender: %s", deal.SecondLienLender),
				},
			},
			{Heading: "Lien Priority", Paragraphs: []string{proseText(prose, "lien_priority")}},
			{Heading: "Payment Waterfall", Items: proseItems(prose, "payment_waterfall")},
			{Heading: "Enforcement Rights", Paragraphs: []string{proseText(prose, "enforcement_rights")}},
		},
	}
}

func BuildSBAAuthorization(deal *models.DealInput, prose models.GeneratedProse) *models.DocumentTree {
	return &models.DocumentTree{
		Title:    "SBA Loan Authorization",
		Subtitle: fmt.Sprintf("Program %s — Deal %s", deal.ProgramID, deal.DealID),
		Sections: []models.TreeSection{
			partiesSection(deal),
			termsSection(deal),
			{Heading: "Use of Proceeds", Items: proseItems(prose, "use_of_proceeds")},
			{Heading: "Special Conditions", Items: proseItems(prose, "special_conditions")},
		},
	}
}

func BuildSBAForm1919(deal *models.DealInput, prose models.GeneratedProse) *models.DocumentTree {
	return &models.DocumentTree{
		Title:    "SBA Form 1919 — Borrower Information Form",
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			{
				Heading: "Applicant",
				Paragraphs: []string{
					fmt.Sprintf("%s (%s)", deal.BorrowerName, deal.BorrowerEntity),
				},
			},
			{Heading: "Disclosures", Items: proseItems(prose, "applicant_disclosures")},
		},
	}
}

// --- Zero-content builders: fully derived from deal data ---

func BuildFloodDetermination(deal *models.DealInput, _ models.GeneratedProse) *models.DocumentTree {
	return &models.DocumentTree{
		Title:    "Standard Flood Hazard Determination",
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			{
				Heading: "Determination Request",
				Paragraphs: []string{
					fmt.Sprintf("Borrower: %s", deal.BorrowerName),
					fmt.Sprintf("Lender: %s", deal.LenderName),
					fmt.Sprintf("Loan Amount: %s", FormatMoney(deal.LoanAmount)),
					fmt.Sprintf("Jurisdiction: %s", deal.Jurisdiction),
				},
			},
			{
				Heading: "Determination",
				Paragraphs: []string{
					"Flood zone determination pending receipt from the designated determination vendor.",
				},
			},
		},
	}
}

func BuildAmortizationSchedule(deal *models.DealInput, _ models.GeneratedProse) *models.DocumentTree {
	rows := AmortizationSchedule(deal.LoanAmount, deal.AnnualRate, deal.TermMonths)
	tableRows := make([][]string, 0, len(rows))
	for _, row := range rows {
		tableRows = append(tableRows, []string{
			fmt.Sprintf("%d", row.Period),
			FormatMoney(row.Payment),
			FormatMoney(row.Interest),
			FormatMoney(row.Principal),
			FormatMoney(row.Balance),
		})
	}

	return &models.DocumentTree{
		Title:    "Amortization Schedule",
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			{
				Heading: "Loan Summary",
				Paragraphs: []string{
					fmt.Sprintf("Principal: %s", FormatMoney(deal.LoanAmount)),
					fmt.Sprintf("Annual Rate: %s", FormatRate(deal.AnnualRate)),
					fmt.Sprintf("Term: %d months", deal.TermMonths),
					fmt.Sprintf("Monthly Payment: %s", FormatMoney(MonthlyPayment(deal.LoanAmount, deal.AnnualRate, deal.TermMonths))),
				},
			},
			{
				Heading: "Schedule",
				Table: &models.TreeTable{
					Header: []string{"Period", "Payment", "Interest", "Principal", "Balance"},
					Rows:   tableRows,
				},
			},
		},
	}
}

func BuildClosingChecklist(deal *models.DealInput, _ models.GeneratedProse) *models.DocumentTree {
	items := []string{
		"Executed Promissory Note",
		"Executed Loan Agreement",
		"Evidence of insurance",
		"Entity good standing certificates",
		"Authorizing resolutions",
	}
	if deal.PersonalGuaranty {
		items = append(items, "Executed Personal Guaranty")
	}
	if deal.HasCollateral(models.CollateralRealProperty) {
		items = append(items, "Recorded Deed of Trust", "Flood hazard determination", "Title insurance commitment")
	}
	if len(deal.Collateral) > 0 {
		items = append(items, "Executed Security Agreement", "UCC-1 financing statements")
	}
	if deal.SubordinateCreditor != "" {
		items = append(items, "Executed Subordination Agreement")
	}
	if deal.SecondLienLender != "" {
		items = append(items, "Executed Intercreditor Agreement")
	}

	return &models.DocumentTree{
		Title:    "Closing Checklist",
		Subtitle: fmt.Sprintf("Deal %s — %s", deal.DealID, deal.BorrowerName),
		Sections: []models.TreeSection{
			{Heading: "Required Deliverables", Items: items},
		},
	}
}
