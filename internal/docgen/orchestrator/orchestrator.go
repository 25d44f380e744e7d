// internal/docgen/orchestrator/orchestrator.go

// Package orchestrator drives each document type through prose generation,
// shape validation, compliance review, template dispatch, deterministic
// verification and status classification, isolating failures so one
// document's error never blocks the rest of the package.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"loandoc-workers/internal/docgen/prose"
	"loandoc-workers/internal/docgen/registry"
	"loandoc-workers/internal/docgen/render"
	"loandoc-workers/internal/docgen/resolver"
	"loandoc-workers/internal/docgen/review"
	"loandoc-workers/internal/docgen/verify"
	"loandoc-workers/internal/models"
)

// Generator produces prose for one document type. The genai client satisfies
// this; tests substitute stubs.
type Generator interface {
	Generate(ctx context.Context, docType models.DocumentTypeID, schema models.ProseSchema, deal *models.DealInput, feedback []string) (models.GeneratedProse, error)
}

// Orchestrator runs document pipelines. All collaborator timeouts are the
// caller's responsibility via ctx; the orchestrator has no retry policy.
type Orchestrator struct {
	generator   Generator
	renderer    render.Renderer
	parallelism int
}

func New(generator Generator, renderer render.Renderer, parallelism int) *Orchestrator {
	if parallelism < 1 {
		parallelism = 1
	}
	return &Orchestrator{
		generator:   generator,
		renderer:    renderer,
		parallelism: parallelism,
	}
}

// GenerateAll filters the candidate list against the deal and produces
// exactly one DocumentResult per filtered type, in candidate order. Document
// pipelines run concurrently up to the configured parallelism; results are
// ordered by candidate index, never by completion order. Cancellation stops
// scheduling new documents but lets in-flight ones finish; unstarted types
// get a flagged placeholder so the result set stays complete.
func (o *Orchestrator) GenerateAll(ctx context.Context, deal *models.DealInput, candidates []models.DocumentTypeID) []models.DocumentResult {
	filtered := resolver.Filter(deal, candidates)
	results := make([]models.DocumentResult, len(filtered))

	sem := make(chan struct{}, o.parallelism)
	var wg sync.WaitGroup

	for i, docType := range filtered {
		if ctx.Err() != nil {
			results[i] = o.errorResult(docType, deal, fmt.Sprintf("generation cancelled before start: %v", ctx.Err()))
			continue
		}

		wg.Add(1)
		sem <- struct{}{}
		go func(idx int, id models.DocumentTypeID) {
			defer wg.Done()
			defer func() { <-sem }()
			results[idx] = o.GenerateOne(ctx, id, deal, nil)
		}(i, docType)
	}

	wg.Wait()
	return results
}

// GenerateOne runs the full pipeline for a single document type. Optional
// feedback from a prior review round is forwarded to the content generator.
// It always returns a result: any panic or collaborator failure is converted
// to a flagged placeholder.
func (o *Orchestrator) GenerateOne(ctx context.Context, docType models.DocumentTypeID, deal *models.DealInput, feedback []string) (result models.DocumentResult) {
	defer func() {
		if r := recover(); r != nil {
			result = o.errorResult(docType, deal, fmt.Sprintf("internal fault: %v", r))
		}
	}()

	spec, ok := registry.Lookup(docType)
	if !ok {
		return o.errorResult(docType, deal, fmt.Sprintf("document type %q is not registered", docType))
	}

	var (
		content      models.GeneratedProse
		reviewResult models.ReviewResult
		checks       []models.ComplianceCheck
	)

	if spec.ZeroContent {
		// Fully derived from deal data: no prose, no content review. Program
		// checks still apply.
		checks = review.ProgramChecks(deal)
		reviewResult = models.ReviewResult{Passed: true, ReviewedAt: time.Now().UTC()}
	} else {
		generated, err := o.generator.Generate(ctx, docType, spec.Schema, deal, feedback)
		if err != nil {
			return o.errorResult(docType, deal, fmt.Sprintf("content generation failed: %v", err))
		}

		validated, _ := prose.EnsureShape(docType, generated)

		var corrected models.GeneratedProse
		reviewResult, checks, corrected = review.Review(docType, deal, validated)
		content = validated
		if corrected != nil {
			// Corrections feed every later stage.
			content = corrected
		}
	}

	verification := verify.Verify(docType, deal, content)

	var payload []byte
	hasBuilder := spec.Build != nil
	if hasBuilder {
		payload = o.renderer.Render(spec.Build(deal, content))
	} else {
		payload = o.renderer.Render(render.DraftPlaceholder(spec.Label, deal))
	}

	return models.DocumentResult{
		TypeID:       docType,
		Label:        spec.Label,
		Payload:      payload,
		Review:       reviewResult,
		Verification: verification,
		Checks:       checks,
		Status:       classifyStatus(hasBuilder, reviewResult, verification),
		GeneratedAt:  time.Now().UTC(),
	}
}

// errorResult synthesizes the flagged placeholder produced whenever a
// document's pipeline fails outright. The aggregate output always carries one
// result per requested type, so callers never handle a missing entry.
func (o *Orchestrator) errorResult(docType models.DocumentTypeID, deal *models.DealInput, reason string) models.DocumentResult {
	label := registry.Label(docType)

	issue := models.Issue{
		Severity:       models.SeverityCritical,
		Section:        "document",
		Description:    reason,
		Recommendation: "Regenerate this document once the underlying failure is resolved.",
	}

	return models.DocumentResult{
		TypeID:  docType,
		Label:   label,
		Payload: o.renderer.Render(render.ErrorPlaceholder(label, deal, reason)),
		Review: models.ReviewResult{
			Passed:     false,
			Issues:     []models.Issue{issue},
			ReviewedAt: time.Now().UTC(),
		},
		Verification: models.VerificationResult{Passed: false},
		Checks: []models.ComplianceCheck{{
			Name:     "generation_pipeline",
			Category: models.CheckStandard,
			Passed:   false,
			Note:     reason,
		}},
		Status:      models.StatusFlagged,
		GeneratedAt: time.Now().UTC(),
	}
}
