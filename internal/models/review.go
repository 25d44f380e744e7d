// internal/models/review.go
package models

import "time"

// CheckCategory separates checks that encode a statute or regulation from
// internal drafting standards.
type CheckCategory string

const (
	CheckRegulatory CheckCategory = "regulatory"
	CheckStandard   CheckCategory = "standard"
)

// ComplianceCheck is one named check result accumulated onto a document.
type ComplianceCheck struct {
	Name       string        `json:"name"`
	Regulation string        `json:"regulation"`
	Category   CheckCategory `json:"category"`
	Passed     bool          `json:"passed"`
	Note       string        `json:"note"`
}

// IssueSeverity ranks a review or verification finding.
type IssueSeverity string

const (
	SeverityCritical IssueSeverity = "critical"
	SeverityHigh     IssueSeverity = "high"
	SeverityMedium   IssueSeverity = "medium"
	SeverityLow      IssueSeverity = "low"
)

// Issue is one finding: where it was found, what is wrong, and what to do.
type Issue struct {
	Severity       IssueSeverity `json:"severity"`
	Section        string        `json:"section"`
	Description    string        `json:"description"`
	Recommendation string        `json:"recommendation"`
}

// ReviewResult is the outcome of the compliance review stage for one
// generation attempt.
type ReviewResult struct {
	Passed     bool      `json:"passed"`
	Issues     []Issue   `json:"issues"`
	ReviewedAt time.Time `json:"reviewedAt"`
}

// VerificationResult is the outcome of the deterministic verification stage.
// It is produced independently of review so a reviewer's own corrections are
// never the sole authority on correctness.
type VerificationResult struct {
	Passed       bool    `json:"passed"`
	Issues       []Issue `json:"issues"`
	ChecksRun    int     `json:"checksRun"`
	ChecksPassed int     `json:"checksPassed"`
}
