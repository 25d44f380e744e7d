// internal/docgen/review/review_test.go
package review

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandoc-workers/internal/models"
)

func testDeal() *models.DealInput {
	return &models.DealInput{
		DealID:       "DEAL-REV-1",
		BorrowerName: "Acme Holdings",
		LenderName:   "First Capital Bank",
		LoanAmount:   1_000_000,
		AnnualRate:   0.08,
		TermMonths:   60,
		Covenants:    models.Covenants{MinDSCR: 1.25, MaxLTV: 0.75},
		Jurisdiction: "TX",
		Commercial:   true,
		GeneratedAt:  time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func cleanNoteProse() models.GeneratedProse {
	return models.GeneratedProse{
		"payment_terms":      models.TextSection("The Borrower shall pay interest at 8.00% per annum in equal monthly installments."),
		"prepayment":         models.TextSection("The Note may be prepaid in whole or in part without penalty."),
		"default_provisions": models.TextSection("Any payment more than ten days late constitutes an Event of Default."),
	}
}

func TestReview_CleanProsePassesWithoutCorrection(t *testing.T) {
	result, checks, corrected := Review(models.DocPromissoryNote, testDeal(), cleanNoteProse())

	assert.True(t, result.Passed)
	assert.Empty(t, result.Issues)
	assert.Nil(t, corrected)

	// Program checks are always attached, plus the document content check.
	names := make(map[string]bool)
	for _, c := range checks {
		names[c.Name] = true
	}
	assert.True(t, names["usury_rate_limit"])
	assert.True(t, names["jurisdiction_disclosures"])
	assert.True(t, names["prose_content_review"])
}

func TestReview_ScrubsProhibitedLanguage(t *testing.T) {
	content := cleanNoteProse()
	content["payment_terms"] = models.TextSection("This is a risk-free obligation paying 8.00% per annum.")

	result, _, corrected := Review(models.DocPromissoryNote, testDeal(), content)

	assert.False(t, result.Passed)
	require.NotNil(t, corrected)
	assert.NotContains(t, corrected["payment_terms"].Text, "risk-free")
	// The input must be untouched.
	assert.Contains(t, content["payment_terms"].Text, "risk-free")

	require.NotEmpty(t, result.Issues)
	assert.Equal(t, models.SeverityHigh, result.Issues[0].Severity)
}

func TestReview_CorrectsMismatchedRate(t *testing.T) {
	content := cleanNoteProse()
	content["payment_terms"] = models.TextSection("The Borrower shall pay interest at 12.00% per annum.")

	result, _, corrected := Review(models.DocPromissoryNote, testDeal(), content)

	require.NotNil(t, corrected)
	assert.Contains(t, corrected["payment_terms"].Text, "8.00%")
	assert.NotContains(t, corrected["payment_terms"].Text, "12.00%")

	// A rate mismatch alone is medium severity: corrected, still passing.
	assert.True(t, result.Passed)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, models.SeverityMedium, result.Issues[0].Severity)
}

func TestReview_UsuryViolationIsCritical(t *testing.T) {
	deal := testDeal()
	deal.Jurisdiction = "NY"
	deal.AnnualRate = 0.30
	deal.LoanAmount = 300_000

	result, checks, _ := Review(models.DocPromissoryNote, deal, cleanNoteProse())

	assert.False(t, result.Passed)

	var critical bool
	for _, issue := range result.Issues {
		if issue.Severity == models.SeverityCritical {
			critical = true
		}
	}
	assert.True(t, critical)

	var usuryCheck *models.ComplianceCheck
	for i := range checks {
		if checks[i].Name == "usury_rate_limit" {
			usuryCheck = &checks[i]
		}
	}
	require.NotNil(t, usuryCheck)
	assert.False(t, usuryCheck.Passed)
}

func TestReview_PlaceholderSectionReported(t *testing.T) {
	content := cleanNoteProse()
	content["prepayment"] = models.TextSection("[TO BE COMPLETED: prepayment]")

	result, _, corrected := Review(models.DocPromissoryNote, testDeal(), content)

	// A placeholder is a medium finding, not a correction.
	assert.Nil(t, corrected)
	assert.True(t, result.Passed)
	require.Len(t, result.Issues, 1)
	assert.Equal(t, "prepayment", result.Issues[0].Section)
}

func TestProgramChecks_CovenantFloors(t *testing.T) {
	deal := testDeal()
	deal.Covenants.MinDSCR = 0.9
	deal.Covenants.MaxLTV = 1.4

	checks := ProgramChecks(deal)

	byName := map[string]models.ComplianceCheck{}
	for _, c := range checks {
		byName[c.Name] = c
	}
	assert.False(t, byName["dscr_covenant_floor"].Passed)
	assert.False(t, byName["ltv_covenant_ceiling"].Passed)
	assert.True(t, byName["usury_rate_limit"].Passed)
}

func TestProgramChecks_CreditSupport(t *testing.T) {
	tests := []struct {
		name       string
		commercial bool
		collateral []models.CollateralType
		guaranty   bool
		wantPassed bool
	}{
		{"collateralized", true, []models.CollateralType{models.CollateralEquipment}, false, true},
		{"guaranteed", true, nil, true, true},
		{"unsupported commercial", true, nil, false, false},
		{"consumer exempt", false, nil, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deal := testDeal()
			deal.Commercial = tt.commercial
			deal.Collateral = tt.collateral
			deal.PersonalGuaranty = tt.guaranty

			byName := map[string]models.ComplianceCheck{}
			for _, c := range ProgramChecks(deal) {
				byName[c.Name] = c
			}
			assert.Equal(t, tt.wantPassed, byName["credit_support_present"].Passed)
		})
	}
}
