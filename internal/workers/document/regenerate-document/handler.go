// internal/workers/document/regenerate-document/handler.go
package regeneratedocument

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"loandoc-workers/internal/common/errors"
	"loandoc-workers/internal/common/logger"
	"loandoc-workers/internal/common/metrics"
	"loandoc-workers/internal/docgen/registry"
	"loandoc-workers/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "document-regenerate"
)

// Define interfaces for mocking
type DocumentGenerator interface {
	GenerateOne(ctx context.Context, docType models.DocumentTypeID, deal *models.DealInput, feedback []string) models.DocumentResult
}

type AuditSink interface {
	IndexResults(ctx context.Context, runID string, deal *models.DealInput, results []models.DocumentResult) error
}

type Handler struct {
	config       *Config
	generator    DocumentGenerator
	audit        AuditSink
	logger       logger.Logger
	errorHandler *errors.ErrorHandler
}

func NewHandler(config *Config, generator DocumentGenerator, audit AuditSink, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		generator:    generator,
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

	if stdErr := h.validateInput(&input); stdErr != nil {
		h.failJob(client, job, stdErr)
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	deal := &input.Deal
	if deal.GeneratedAt.IsZero() {
		deal.GeneratedAt = time.Now().UTC()
	}

	docType := models.DocumentTypeID(input.DocumentType)
	runID := uuid.New().String()

	result := h.generator.GenerateOne(ctx, docType, deal, input.Feedback)

	metrics.DocumentsGenerated.WithLabelValues(string(result.TypeID), string(result.Status)).Inc()
	metrics.DocumentGenerationDuration.WithLabelValues(string(result.TypeID)).Observe(time.Since(start).Seconds())
	if !result.Verification.Passed {
		metrics.VerificationFailures.WithLabelValues(string(result.TypeID)).Inc()
	}

	if h.audit != nil {
		if err := h.audit.IndexResults(ctx, runID, deal, []models.DocumentResult{result}); err != nil {
			h.logger.Warn("audit indexing failed", map[string]interface{}{
				"runId": runID,
				"error": err.Error(),
			})
		}
	}

	output := h.buildOutput(runID, deal, result, input.Round)

	h.completeJob(client, job, output)

	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
	metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())

	h.logger.Info("document regenerated", map[string]interface{}{
		"runId":   runID,
		"dealId":  deal.DealID,
		"docType": string(result.TypeID),
		"status":  string(result.Status),
		"round":   output.Round,
	})
	return nil
}

func (h *Handler) validateInput(input *Input) *errors.StandardError {
	deal := &input.Deal
	switch {
	case deal.DealID == "":
		return errors.NewDealInputInvalidError("dealId is required")
	case deal.LoanAmount <= 0:
		return errors.NewDealInputInvalidError("loanAmount must be positive")
	case deal.TermMonths <= 0:
		return errors.NewDealInputInvalidError("termMonths must be positive")
	case input.DocumentType == "":
		return errors.NewDealInputInvalidError("documentType is required")
	}

	if _, ok := registry.Lookup(models.DocumentTypeID(input.DocumentType)); !ok {
		return errors.NewDocumentTypeUnknownError(input.DocumentType)
	}

	if input.Round >= h.config.MaxFeedbackRounds {
		return errors.NewBusinessRuleError(
			"feedback round limit reached",
			fmt.Sprintf("document %s has already been regenerated %d times", input.DocumentType, input.Round),
		)
	}
	return nil
}

func (h *Handler) buildOutput(runID string, deal *models.DealInput, result models.DocumentResult, round int) *Output {
	issues := append([]models.Issue{}, result.Review.Issues...)
	issues = append(issues, result.Verification.Issues...)

	return &Output{
		RunID:         runID,
		DealID:        deal.DealID,
		TypeID:        string(result.TypeID),
		Label:         result.Label,
		Status:        string(result.Status),
		ReviewPassed:  result.Review.Passed,
		VerifyPassed:  result.Verification.Passed,
		Payload:       result.Payload,
		Issues:        issues,
		Round:         round + 1,
		RoundsLeft:    h.config.MaxFeedbackRounds - round - 1,
		RegeneratedAt: time.Now().UTC().Format(time.RFC3339),
	}
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
