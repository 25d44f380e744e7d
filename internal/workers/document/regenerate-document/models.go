package regeneratedocument

import (
	"loandoc-workers/internal/models"
)

type Input struct {
	Deal         models.DealInput `json:"deal"`
	DocumentType string           `json:"documentType"`
	// Reviewer feedback from the prior round, forwarded verbatim to the
	// content generator.
	Feedback []string `json:"feedback,omitempty"`
	// Round counts completed regeneration attempts for this document.
	Round int `json:"round"`
}

type Output struct {
	RunID         string         `json:"runId"`
	DealID        string         `json:"dealId"`
	TypeID        string         `json:"typeId"`
	Label         string         `json:"label"`
	Status        string         `json:"status"`
	ReviewPassed  bool           `json:"reviewPassed"`
	VerifyPassed  bool           `json:"verifyPassed"`
	Payload       []byte         `json:"payload"`
	Issues        []models.Issue `json:"issues,omitempty"`
	Round         int            `json:"round"`
	RoundsLeft    int            `json:"roundsLeft"`
	RegeneratedAt string         `json:"regeneratedAt"`
}
