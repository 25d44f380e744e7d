// internal/workers/document/generate-package/handler.go
package generatepackage

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loandoc-workers/internal/common/errors"
	"loandoc-workers/internal/common/logger"
	"loandoc-workers/internal/common/metrics"
	"loandoc-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "document-generate-package"
)

// Define interfaces for mocking
type RequirementsSource interface {
	Required(ctx context.Context, productLine string) ([]models.DocumentTypeID, error)
}

type PackageGenerator interface {
	GenerateAll(ctx context.Context, deal *models.DealInput, candidates []models.DocumentTypeID) []models.DocumentResult
}

type AuditSink interface {
	IndexResults(ctx context.Context, runID string, deal *models.DealInput, results []models.DocumentResult) error
}

type Handler struct {
	config       *Config
	generator    PackageGenerator
	requirements RequirementsSource
	audit        AuditSink
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, generator PackageGenerator, requirements RequirementsSource, audit AuditSink, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		generator:    generator,
		requirements: requirements,
		audit:        audit,
		logger:       l,
		errorHandler: errors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	start := time.Now()
	metrics.WorkerJobsActive.WithLabelValues(TaskType).Inc()
	defer metrics.WorkerJobsActive.WithLabelValues(TaskType).Dec()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.failJob(client, job, errors.NewDealInputInvalidError(fmt.Sprintf("parse input: %v", err)))
		return nil
	}

	if err := validateInput(&input); err != nil {
		h.failJob(client, job, err)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	deal := &input.Deal
	if deal.GeneratedAt.IsZero() {
		deal.GeneratedAt = time.Now().UTC()
	}

	candidates, stdErr := h.resolveCandidates(ctx, &input)
	if stdErr != nil {
		h.failJob(client, job, stdErr)
		return nil
	}

	runID := uuid.New().String()
	results := h.generator.GenerateAll(ctx, deal, candidates)

	for _, result := range results {
		metrics.DocumentsGenerated.WithLabelValues(string(result.TypeID), string(result.Status)).Inc()
		if !result.Verification.Passed {
			metrics.VerificationFailures.WithLabelValues(string(result.TypeID)).Inc()
		}
		for _, check := range result.Checks {
			if !check.Passed {
				metrics.ComplianceChecksFailed.WithLabelValues(check.Name, string(check.Category)).Inc()
			}
		}
	}

	// Audit failures never fail the generation job: the results are already
	// complete and the trail can be backfilled.
	if h.config.AuditEnabled && h.audit != nil {
		if err := h.audit.IndexResults(ctx, runID, deal, results); err != nil {
			h.logger.Warn("audit indexing failed", map[string]interface{}{
				"runId": runID,
				"error": err.Error(),
			})
		}
	}

	output := buildOutput(runID, deal, results)

	h.completeJob(client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	h.logger.Info("package generated", map[string]interface{}{
		"runId":     runID,
		"dealId":    deal.DealID,
		"documents": len(results),
		"flagged":   output.FlaggedCount,
	})
	return nil
}

func (h *Handler) resolveCandidates(ctx context.Context, input *Input) ([]models.DocumentTypeID, *errors.StandardError) {
	if len(input.DocumentTypes) > 0 {
		candidates := make([]models.DocumentTypeID, 0, len(input.DocumentTypes))
		for _, t := range input.DocumentTypes {
			candidates = append(candidates, models.DocumentTypeID(t))
		}
		return candidates, nil
	}

	candidates, err := h.requirements.Required(ctx, input.Deal.ProductLine)
	if err != nil {
		return nil, errors.NewRequirementsLookupFailedError(input.Deal.ProductLine, err)
	}
	return candidates, nil
}

func validateInput(input *Input) *errors.StandardError {
	deal := &input.Deal
	switch {
	case deal.DealID == "":
		return errors.NewDealInputInvalidError("dealId is required")
	case deal.BorrowerName == "":
		return errors.NewDealInputInvalidError("borrowerName is required")
	case deal.LenderName == "":
		return errors.NewDealInputInvalidError("lenderName is required")
	case deal.LoanAmount <= 0:
		return errors.NewDealInputInvalidError("loanAmount must be positive")
	case deal.TermMonths <= 0:
		return errors.NewDealInputInvalidError("termMonths must be positive")
	case deal.Jurisdiction == "":
		return errors.NewDealInputInvalidError("jurisdiction is required")
	case deal.ProductLine == "" && len(input.DocumentTypes) == 0:
		return errors.NewDealInputInvalidError("productLine is required when documentTypes is not given")
	}
	return nil
}

func buildOutput(runID string, deal *models.DealInput, results []models.DocumentResult) *Output {
	output := &Output{
		RunID:       runID,
		DealID:      deal.DealID,
		Documents:   make([]DocumentSummary, 0, len(results)),
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}

	for _, result := range results {
		issues := append([]models.Issue{}, result.Review.Issues...)
		issues = append(issues, result.Verification.Issues...)

		output.Documents = append(output.Documents, DocumentSummary{
			TypeID:       string(result.TypeID),
			Label:        result.Label,
			Status:       string(result.Status),
			ReviewPassed: result.Review.Passed,
			VerifyPassed: result.Verification.Passed,
			IssueCount:   len(issues),
			Payload:      result.Payload,
			Issues:       issues,
		})

		switch result.Status {
		case models.StatusReviewed:
			output.ReviewedCount++
		case models.StatusFlagged:
			output.FlaggedCount++
		case models.StatusDraft:
			output.DraftCount++
		}
	}

	output.HasFlagged = output.FlaggedCount > 0
	return output
}

func (h *Handler) completeJob(client worker.JobClient, job entities.Job, output *Output) {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{
			"error": err,
		})
		return
	}
	if _, err = cmd.Send(context.Background()); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{
			"error": err,
		})
	}
}

func (h *Handler) failJob(client worker.JobClient, job entities.Job, stdErr *errors.StandardError) {
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(context.Background(), client, job, stdErr)
}
