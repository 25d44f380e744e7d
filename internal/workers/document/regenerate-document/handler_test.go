// internal/workers/document/regenerate-document/handler_test.go
package regeneratedocument

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stderrors "loandoc-workers/internal/common/errors"
	"loandoc-workers/internal/common/logger"
	"loandoc-workers/internal/models"
)

func createTestDeal() models.DealInput {
	return models.DealInput{
		DealID:       "DEAL-RGN-1",
		BorrowerName: "Acme Holdings",
		LenderName:   "First Capital Bank",
		LoanAmount:   400_000,
		AnnualRate:   0.09,
		TermMonths:   48,
		Jurisdiction: "TX",
		ProductLine:  "commercial_loan",
		Commercial:   true,
		GeneratedAt:  time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
	}
}

type stubGenerator struct {
	feedback []string
	result   models.DocumentResult
}

func (s *stubGenerator) GenerateOne(_ context.Context, _ models.DocumentTypeID, _ *models.DealInput, feedback []string) models.DocumentResult {
	s.feedback = feedback
	return s.result
}

func newTestHandler(t *testing.T, gen *stubGenerator) *Handler {
	return NewHandler(DefaultConfig(), gen, nil, logger.NewTestLogger(t))
}

func TestValidateInput(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Input)
		wantCode stderrors.ErrorCode
	}{
		{"valid", func(in *Input) {}, ""},
		{"missing deal id", func(in *Input) { in.Deal.DealID = "" }, stderrors.ErrCodeDealInputInvalid},
		{"zero amount", func(in *Input) { in.Deal.LoanAmount = 0 }, stderrors.ErrCodeDealInputInvalid},
		{"missing document type", func(in *Input) { in.DocumentType = "" }, stderrors.ErrCodeDealInputInvalid},
		{"unknown document type", func(in *Input) { in.DocumentType = "escrow_agreement" }, stderrors.ErrCodeDocumentTypeUnknown},
	}

	h := newTestHandler(t, &stubGenerator{})

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := &Input{Deal: createTestDeal(), DocumentType: "promissory_note"}
			tt.mutate(input)

			stdErr := h.validateInput(input)

			if tt.wantCode == "" {
				assert.Nil(t, stdErr)
			} else {
				require.NotNil(t, stdErr)
				assert.Equal(t, tt.wantCode, stdErr.Code)
			}
		})
	}
}

func TestValidateInput_FeedbackRoundLimit(t *testing.T) {
	h := newTestHandler(t, &stubGenerator{})

	input := &Input{Deal: createTestDeal(), DocumentType: "promissory_note", Round: h.config.MaxFeedbackRounds}

	stdErr := h.validateInput(input)

	require.NotNil(t, stdErr)
	assert.Contains(t, stdErr.Message, "feedback round limit")
}

func TestBuildOutput_RoundBookkeeping(t *testing.T) {
	gen := &stubGenerator{}
	h := newTestHandler(t, gen)
	deal := createTestDeal()

	result := models.DocumentResult{
		TypeID:       models.DocPromissoryNote,
		Label:        "Promissory Note",
		Status:       models.StatusReviewed,
		Review:       models.ReviewResult{Passed: true},
		Verification: models.VerificationResult{Passed: true},
		Payload:      []byte("PROMISSORY NOTE"),
	}

	output := h.buildOutput("run-9", &deal, result, 0)

	assert.Equal(t, "run-9", output.RunID)
	assert.Equal(t, "REVIEWED", output.Status)
	assert.Equal(t, 1, output.Round)
	assert.Equal(t, h.config.MaxFeedbackRounds-1, output.RoundsLeft)
	assert.NotEmpty(t, output.Payload)
}

func TestBuildOutput_CollectsIssuesFromBothStages(t *testing.T) {
	h := newTestHandler(t, &stubGenerator{})
	deal := createTestDeal()

	result := models.DocumentResult{
		TypeID: models.DocLoanAgreement,
		Status: models.StatusFlagged,
		Review: models.ReviewResult{
			Passed: false,
			Issues: []models.Issue{{Severity: models.SeverityCritical, Description: "usury violation"}},
		},
		Verification: models.VerificationResult{
			Passed: false,
			Issues: []models.Issue{{Severity: models.SeverityMedium, Description: "term mismatch"}},
		},
	}

	output := h.buildOutput("run-10", &deal, result, 1)

	assert.Len(t, output.Issues, 2)
	assert.False(t, output.ReviewPassed)
	assert.False(t, output.VerifyPassed)
}
