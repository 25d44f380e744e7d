// internal/docgen/orchestrator/orchestrator_test.go
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandoc-workers/internal/docgen/render"
	"loandoc-workers/internal/models"
)

// ==========================
// Test Helper Functions
// ==========================

// stubGenerator returns schema-complete prose, or a per-type error.
type stubGenerator struct {
	mu      sync.Mutex
	failFor map[models.DocumentTypeID]error
	delay   time.Duration
	calls   []models.DocumentTypeID
}

func (s *stubGenerator) Generate(ctx context.Context, docType models.DocumentTypeID, schema models.ProseSchema, deal *models.DealInput, feedback []string) (models.GeneratedProse, error) {
	s.mu.Lock()
	s.calls = append(s.calls, docType)
	s.mu.Unlock()
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err, ok := s.failFor[docType]; ok {
		return nil, err
	}

	content := make(models.GeneratedProse, len(schema.Sections))
	for _, sec := range schema.Sections {
		if sec.Kind == models.SectionList {
			content[sec.Key] = models.ListSection(fmt.Sprintf("Generated item for %s.", sec.Key))
		} else {
			content[sec.Key] = models.TextSection(fmt.Sprintf("Generated text for %s at 8.00%% per annum.", sec.Key))
		}
	}
	return content, nil
}

func testDeal() *models.DealInput {
	return &models.DealInput{
		DealID:           "DEAL-ORCH-1",
		BorrowerName:     "Acme Holdings",
		BorrowerEntity:   "LLC",
		LenderName:       "First Capital Bank",
		LoanAmount:       1_000_000,
		AnnualRate:       0.08,
		TermMonths:       60,
		Covenants:        models.Covenants{MinDSCR: 1.25, MaxLTV: 0.75},
		Jurisdiction:     "TX",
		ProgramID:        "CONV-CRE-2024",
		ProductLine:      "commercial_loan",
		Commercial:       true,
		PersonalGuaranty: true,
		Collateral:       []models.CollateralType{models.CollateralRealProperty},
		GeneratedAt:      time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
	}
}

func newOrchestrator(gen Generator) *Orchestrator {
	return New(gen, render.NewTextRenderer(), 2)
}

// ==========================
// GenerateOne Tests
// ==========================

func TestGenerateOne_CleanDocumentReviewed(t *testing.T) {
	o := newOrchestrator(&stubGenerator{})

	result := o.GenerateOne(context.Background(), models.DocPromissoryNote, testDeal(), nil)

	assert.Equal(t, models.StatusReviewed, result.Status)
	assert.Equal(t, "Promissory Note", result.Label)
	assert.True(t, result.Review.Passed)
	assert.True(t, result.Verification.Passed)
	assert.NotEmpty(t, result.Payload)
	assert.NotEmpty(t, result.Checks)
}

func TestGenerateOne_ZeroContentSkipsGenerator(t *testing.T) {
	gen := &stubGenerator{}
	o := newOrchestrator(gen)

	result := o.GenerateOne(context.Background(), models.DocAmortizationSchedule, testDeal(), nil)

	assert.Empty(t, gen.calls)
	assert.Equal(t, models.StatusReviewed, result.Status)
	assert.Contains(t, string(result.Payload), "AMORTIZATION SCHEDULE")

	// Program checks still attach to zero-content documents.
	var hasUsury bool
	for _, c := range result.Checks {
		if c.Name == "usury_rate_limit" {
			hasUsury = true
		}
	}
	assert.True(t, hasUsury)
}

func TestGenerateOne_NoBuilderIsDraft(t *testing.T) {
	o := newOrchestrator(&stubGenerator{})

	result := o.GenerateOne(context.Background(), models.DocEnvironmentalIndemnity, testDeal(), nil)

	assert.Equal(t, models.StatusDraft, result.Status)
	assert.Contains(t, string(result.Payload), "Pending Implementation")
}

func TestGenerateOne_GeneratorFailureIsFlaggedPlaceholder(t *testing.T) {
	o := newOrchestrator(&stubGenerator{
		failFor: map[models.DocumentTypeID]error{
			models.DocPromissoryNote: errors.New("upstream unavailable"),
		},
	})

	result := o.GenerateOne(context.Background(), models.DocPromissoryNote, testDeal(), nil)

	assert.Equal(t, models.StatusFlagged, result.Status)
	assert.False(t, result.Review.Passed)
	require.Len(t, result.Review.Issues, 1)
	assert.Equal(t, models.SeverityCritical, result.Review.Issues[0].Severity)
	assert.Contains(t, string(result.Payload), "Generation Failed")
}

func TestGenerateOne_UnknownTypeIsFlaggedPlaceholder(t *testing.T) {
	o := newOrchestrator(&stubGenerator{})

	result := o.GenerateOne(context.Background(), models.DocumentTypeID("escrow_agreement"), testDeal(), nil)

	assert.Equal(t, models.StatusFlagged, result.Status)
	assert.Equal(t, "escrow_agreement", result.Label)
}

func TestGenerateOne_StatusAlwaysInClosedSet(t *testing.T) {
	o := newOrchestrator(&stubGenerator{
		failFor: map[models.DocumentTypeID]error{
			models.DocLoanAgreement: errors.New("boom"),
		},
	})

	valid := map[models.DocumentStatus]bool{
		models.StatusReviewed: true,
		models.StatusFlagged:  true,
		models.StatusDraft:    true,
	}

	for _, docType := range []models.DocumentTypeID{
		models.DocPromissoryNote,
		models.DocLoanAgreement,
		models.DocEnvironmentalIndemnity,
		models.DocClosingChecklist,
		models.DocumentTypeID("nonsense"),
	} {
		result := o.GenerateOne(context.Background(), docType, testDeal(), nil)
		assert.True(t, valid[result.Status], "unexpected status %q for %s", result.Status, docType)
	}
}

func TestGenerateOne_UsuryViolationFlagged(t *testing.T) {
	deal := testDeal()
	deal.Jurisdiction = "NY"
	deal.AnnualRate = 0.30
	deal.LoanAmount = 300_000

	o := newOrchestrator(&stubGenerator{})
	result := o.GenerateOne(context.Background(), models.DocPromissoryNote, deal, nil)

	assert.Equal(t, models.StatusFlagged, result.Status)
}

// ==========================
// GenerateAll Tests
// ==========================

func TestGenerateAll_OneResultPerFilteredType(t *testing.T) {
	o := newOrchestrator(&stubGenerator{})
	deal := testDeal()

	candidates := []models.DocumentTypeID{
		models.DocPromissoryNote,
		models.DocLoanAgreement,
		models.DocGuaranty,
		models.DocDeedOfTrust,
		models.DocFloodDetermination,
		models.DocAmortizationSchedule,
		models.DocClosingChecklist,
	}

	results := o.GenerateAll(context.Background(), deal, candidates)

	require.Len(t, results, len(candidates))
	for i, result := range results {
		assert.Equal(t, candidates[i], result.TypeID, "result order must follow candidate order")
	}
}

func TestGenerateAll_FilterExcludesInapplicableTypes(t *testing.T) {
	o := newOrchestrator(&stubGenerator{})
	deal := testDeal()
	deal.PersonalGuaranty = false

	results := o.GenerateAll(context.Background(), deal, []models.DocumentTypeID{
		models.DocPromissoryNote,
		models.DocGuaranty,
	})

	require.Len(t, results, 1)
	assert.Equal(t, models.DocPromissoryNote, results[0].TypeID)
}

func TestGenerateAll_FailureIsolation(t *testing.T) {
	o := newOrchestrator(&stubGenerator{
		failFor: map[models.DocumentTypeID]error{
			models.DocLoanAgreement: context.DeadlineExceeded,
		},
	})

	results := o.GenerateAll(context.Background(), testDeal(), []models.DocumentTypeID{
		models.DocPromissoryNote,
		models.DocLoanAgreement,
		models.DocClosingChecklist,
	})

	require.Len(t, results, 3)
	assert.Equal(t, models.StatusReviewed, results[0].Status)
	assert.Equal(t, models.StatusFlagged, results[1].Status)
	assert.Equal(t, models.StatusReviewed, results[2].Status)
}

func TestGenerateAll_CancellationYieldsCompleteResultSet(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	o := newOrchestrator(&stubGenerator{})
	results := o.GenerateAll(ctx, testDeal(), []models.DocumentTypeID{
		models.DocPromissoryNote,
		models.DocLoanAgreement,
	})

	require.Len(t, results, 2)
	for _, result := range results {
		assert.Equal(t, models.StatusFlagged, result.Status)
		assert.True(t, strings.Contains(result.Review.Issues[0].Description, "cancelled") ||
			strings.Contains(result.Review.Issues[0].Description, "context canceled"))
	}
}

func TestGenerateOne_FeedbackForwarded(t *testing.T) {
	gen := &stubGenerator{}
	o := newOrchestrator(gen)

	result := o.GenerateOne(context.Background(), models.DocPromissoryNote, testDeal(), []string{"tighten default provisions"})

	assert.Equal(t, models.StatusReviewed, result.Status)
	require.Len(t, gen.calls, 1)
}
