package notifyflagged

import "loandoc-workers/internal/common/validation"

func GetInputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type:     "object",
		Required: []string{"runId", "dealId", "flagged"},
		Properties: map[string]validation.Property{
			"runId": {
				Type:        "string",
				Description: "Generation run identifier",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(64),
			},
			"dealId": {
				Type:        "string",
				Description: "Deal identifier the flagged documents belong to",
				MinLength:   intPtr(1),
				MaxLength:   intPtr(64),
			},
			"borrowerName": {
				Type:        "string",
				Description: "Borrower display name for the notification body",
				MaxLength:   intPtr(255),
			},
			"flagged": {
				Type:        "array",
				Description: "Flagged or draft documents requiring reviewer attention",
				Items:       &validation.Property{Type: "object"},
			},
			"priority": {
				Type:        "string",
				Description: "Notification priority",
				Enum:        []string{"high", "normal", "low"},
			},
		},
		AdditionalProperties: false,
	}
}

func GetOutputSchema() validation.JSONSchema {
	return validation.JSONSchema{
		Type: "object",
		Properties: map[string]validation.Property{
			"notificationId": {
				Type:        "string",
				Description: "Unique notification identifier",
			},
			"status": {
				Type:        "string",
				Description: "SENT, DISABLED or FAILED",
			},
			"emailsSent": {
				Type:        "number",
				Description: "Number of reviewer emails delivered",
			},
			"smsSent": {
				Type:        "number",
				Description: "Number of reviewer SMS messages delivered",
			},
			"sentAt": {
				Type:        "string",
				Description: "Timestamp when the notification was sent",
			},
		},
		AdditionalProperties: false,
	}
}

func intPtr(i int) *int {
	return &i
}
