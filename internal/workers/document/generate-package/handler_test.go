// internal/workers/document/generate-package/handler_test.go
package generatepackage

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "loandoc-workers/internal/common/errors"
	"loandoc-workers/internal/common/logger"
	"loandoc-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestDeal() models.DealInput {
	return models.DealInput{
		DealID:       "DEAL-WRK-1",
		BorrowerName: "Acme Holdings",
		LenderName:   "First Capital Bank",
		LoanAmount:   750_000,
		AnnualRate:   0.085,
		TermMonths:   84,
		Jurisdiction: "TX",
		ProductLine:  "commercial_loan",
		Commercial:   true,
		GeneratedAt:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

type stubRequirements struct {
	types []models.DocumentTypeID
	err   error
	calls int
}

func (s *stubRequirements) Required(_ context.Context, _ string) ([]models.DocumentTypeID, error) {
	s.calls++
	return s.types, s.err
}

type stubGenerator struct {
	results []models.DocumentResult
}

func (s *stubGenerator) GenerateAll(_ context.Context, _ *models.DealInput, _ []models.DocumentTypeID) []models.DocumentResult {
	return s.results
}

type stubAudit struct {
	runID   string
	results []models.DocumentResult
	err     error
}

func (s *stubAudit) IndexResults(_ context.Context, runID string, _ *models.DealInput, results []models.DocumentResult) error {
	s.runID = runID
	s.results = results
	return s.err
}

func newTestHandler(t *testing.T, gen *stubGenerator, reqs *stubRequirements, aud *stubAudit) *Handler {
	return NewHandler(DefaultConfig(), gen, reqs, aud, logger.NewTestLogger(t))
}

func result(typeID models.DocumentTypeID, status models.DocumentStatus) models.DocumentResult {
	return models.DocumentResult{
		TypeID:       typeID,
		Label:        string(typeID),
		Status:       status,
		Review:       models.ReviewResult{Passed: status != models.StatusFlagged},
		Verification: models.VerificationResult{Passed: status != models.StatusFlagged},
	}
}

// ==========================
// Input Validation Tests
// ==========================

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Input)
		wantErr bool
	}{
		{"valid deal", func(in *Input) {}, false},
		{"missing deal id", func(in *Input) { in.Deal.DealID = "" }, true},
		{"missing borrower", func(in *Input) { in.Deal.BorrowerName = "" }, true},
		{"zero loan amount", func(in *Input) { in.Deal.LoanAmount = 0 }, true},
		{"negative term", func(in *Input) { in.Deal.TermMonths = -1 }, true},
		{"missing jurisdiction", func(in *Input) { in.Deal.Jurisdiction = "" }, true},
		{"missing product line, no explicit types", func(in *Input) { in.Deal.ProductLine = "" }, true},
		{"missing product line but explicit types", func(in *Input) {
			in.Deal.ProductLine = ""
			in.DocumentTypes = []string{"promissory_note"}
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &Input{Deal: createTestDeal()}
			tt.mutate(input)

			err := validateInput(input)

			if tt.wantErr {
				require.NotNil(t, err)
				assert.Equal(t, stderrors.ErrCodeDealInputInvalid, err.Code)
			} else {
				assert.Nil(t, err)
			}
		})
	}
}

// ==========================
// Candidate Resolution Tests
// ==========================

func TestResolveCandidates_ExplicitTypesSkipLookup(t *testing.T) {
	reqs := &stubRequirements{}
	h := newTestHandler(t, &stubGenerator{}, reqs, nil)

	input := &Input{Deal: createTestDeal(), DocumentTypes: []string{"promissory_note", "guaranty"}}
	candidates, stdErr := h.resolveCandidates(context.Background(), input)

	require.Nil(t, stdErr)
	assert.Equal(t, []models.DocumentTypeID{models.DocPromissoryNote, models.DocGuaranty}, candidates)
	assert.Equal(t, 0, reqs.calls)
}

func TestResolveCandidates_ProgramLookup(t *testing.T) {
	reqs := &stubRequirements{types: []models.DocumentTypeID{models.DocPromissoryNote, models.DocLoanAgreement}}
	h := newTestHandler(t, &stubGenerator{}, reqs, nil)

	candidates, stdErr := h.resolveCandidates(context.Background(), &Input{Deal: createTestDeal()})

	require.Nil(t, stdErr)
	assert.Len(t, candidates, 2)
	assert.Equal(t, 1, reqs.calls)
}

func TestResolveCandidates_LookupFailure(t *testing.T) {
	reqs := &stubRequirements{err: errors.New("connection refused")}
	h := newTestHandler(t, &stubGenerator{}, reqs, nil)

	_, stdErr := h.resolveCandidates(context.Background(), &Input{Deal: createTestDeal()})

	require.NotNil(t, stdErr)
	assert.Equal(t, stderrors.ErrCodeRequirementsLookupFailed, stdErr.Code)
}

// ==========================
// Output Assembly Tests
// ==========================

func TestBuildOutput_CountsByStatus(t *testing.T) {
	deal := createTestDeal()
	results := []models.DocumentResult{
		result(models.DocPromissoryNote, models.StatusReviewed),
		result(models.DocLoanAgreement, models.StatusFlagged),
		result(models.DocEnvironmentalIndemnity, models.StatusDraft),
		result(models.DocClosingChecklist, models.StatusReviewed),
	}

	output := buildOutput("run-1", &deal, results)

	assert.Equal(t, "run-1", output.RunID)
	assert.Equal(t, deal.DealID, output.DealID)
	assert.Len(t, output.Documents, 4)
	assert.Equal(t, 2, output.ReviewedCount)
	assert.Equal(t, 1, output.FlaggedCount)
	assert.Equal(t, 1, output.DraftCount)
	assert.True(t, output.HasFlagged)
}

func TestBuildOutput_MergesReviewAndVerificationIssues(t *testing.T) {
	deal := createTestDeal()
	flagged := result(models.DocLoanAgreement, models.StatusFlagged)
	flagged.Review.Issues = []models.Issue{{Severity: models.SeverityHigh, Section: "covenants", Description: "prohibited phrase"}}
	flagged.Verification.Issues = []models.Issue{{Severity: models.SeverityMedium, Section: "terms", Description: "rate mismatch"}}

	output := buildOutput("run-2", &deal, []models.DocumentResult{flagged})

	require.Len(t, output.Documents, 1)
	assert.Equal(t, 2, output.Documents[0].IssueCount)
	assert.Len(t, output.Documents[0].Issues, 2)
	assert.False(t, output.Documents[0].ReviewPassed)
}

func TestBuildOutput_NoFlagged(t *testing.T) {
	deal := createTestDeal()
	output := buildOutput("run-3", &deal, []models.DocumentResult{result(models.DocPromissoryNote, models.StatusReviewed)})

	assert.False(t, output.HasFlagged)
	assert.Equal(t, 0, output.FlaggedCount)
}
