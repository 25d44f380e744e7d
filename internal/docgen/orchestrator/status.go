// internal/docgen/orchestrator/status.go
package orchestrator

import "loandoc-workers/internal/models"

// classifyStatus derives the terminal status for one document. Status is a
// pure function of builder availability and the two independent stage
// outcomes; nothing else may set it.
func classifyStatus(hasBuilder bool, review models.ReviewResult, verification models.VerificationResult) models.DocumentStatus {
	if !hasBuilder {
		return models.StatusDraft
	}
	if !review.Passed || !verification.Passed {
		return models.StatusFlagged
	}
	return models.StatusReviewed
}
