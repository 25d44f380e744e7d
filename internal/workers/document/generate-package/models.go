package generatepackage

import (
	"loandoc-workers/internal/models"
)

type Input struct {
	Deal models.DealInput `json:"deal"`
	// Optional explicit candidate list. Empty means: resolve the required
	// document types from the deal's product line.
	DocumentTypes []string `json:"documentTypes,omitempty"`
}

type DocumentSummary struct {
	TypeID       string          `json:"typeId"`
	Label        string          `json:"label"`
	Status       string          `json:"status"`
	ReviewPassed bool            `json:"reviewPassed"`
	VerifyPassed bool            `json:"verifyPassed"`
	IssueCount   int             `json:"issueCount"`
	Payload      []byte          `json:"payload"`
	Issues       []models.Issue  `json:"issues,omitempty"`
}

type Output struct {
	RunID         string            `json:"runId"`
	DealID        string            `json:"dealId"`
	Documents     []DocumentSummary `json:"documents"`
	ReviewedCount int               `json:"reviewedCount"`
	FlaggedCount  int               `json:"flaggedCount"`
	DraftCount    int               `json:"draftCount"`
	HasFlagged    bool              `json:"hasFlagged"`
	GeneratedAt   string            `json:"generatedAt"`
}
