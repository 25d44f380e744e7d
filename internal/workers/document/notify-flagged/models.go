package notifyflagged

import (
	"loandoc-workers/internal/common/logger"
)

const (
	StatusSent     = "SENT"
	StatusDisabled = "DISABLED"
	StatusFailed   = "FAILED"
)

type FlaggedDocument struct {
	TypeID     string   `json:"typeId"`
	Label      string   `json:"label"`
	Status     string   `json:"status"`
	IssueCount int      `json:"issueCount"`
	Summaries  []string `json:"summaries,omitempty"`
}

type Input struct {
	RunID    string            `json:"runId"`
	DealID   string            `json:"dealId"`
	Borrower string            `json:"borrowerName,omitempty"`
	Flagged  []FlaggedDocument `json:"flagged"`
	Priority string            `json:"priority,omitempty"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"`
	EmailsSent     int    `json:"emailsSent"`
	SMSSent        int    `json:"smsSent"`
	SentAt         string `json:"sentAt"`
}

type ServiceDependencies struct {
	Logger logger.Logger
}
