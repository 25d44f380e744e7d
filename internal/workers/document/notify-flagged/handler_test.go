// internal/workers/document/notify-flagged/handler_test.go
package notifyflagged

import (
	"context"
	"errors"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandoc-workers/internal/common/logger"
	"loandoc-workers/internal/common/validation"
)

// ==========================
// Test Helper Functions
// ==========================

type mockSES struct {
	sent []string
	err  error
}

func (m *mockSES) SendEmail(_ context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.sent = append(m.sent, input.Destination.ToAddresses...)
	return &ses.SendEmailOutput{}, nil
}

type mockSNS struct {
	published []string
	err       error
}

func (m *mockSNS) Publish(_ context.Context, input *sns.PublishInput) (*sns.PublishOutput, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.published = append(m.published, *input.PhoneNumber)
	return &sns.PublishOutput{}, nil
}

func createTestConfig() *Config {
	return &Config{
		Enabled:      true,
		EmailEnabled: true,
		SMSEnabled:   true,
		FromEmail:    "documents@lender.example.com",
		Reviewers:    []string{"reviewer-a@lender.example.com", "reviewer-b@lender.example.com"},
		ReviewerSMS:  []string{"+12125550100"},
		AWSRegion:    "us-east-1",
	}
}

func createTestInput() *Input {
	return &Input{
		RunID:    "run-42",
		DealID:   "DEAL-NTF-1",
		Borrower: "Acme Holdings",
		Flagged: []FlaggedDocument{
			{TypeID: "loan_agreement", Label: "Loan Agreement", Status: "FLAGGED", IssueCount: 2,
				Summaries: []string{"stated rate exceeds the usury limit"}},
			{TypeID: "environmental_indemnity", Label: "Environmental Indemnity Agreement", Status: "DRAFT"},
		},
		Priority: "high",
	}
}

func newTestService(t *testing.T, config *Config, sesClient SESService, snsClient SNSService) *Service {
	deps := ServiceDependencies{Logger: logger.NewTestLogger(t)}
	return NewService(deps, config, sesClient, snsClient)
}

// ==========================
// Service Tests
// ==========================

func TestExecute_SendsEmailToEveryReviewer(t *testing.T) {
	sesClient := &mockSES{}
	snsClient := &mockSNS{}
	service := newTestService(t, createTestConfig(), sesClient, snsClient)

	output, err := service.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusSent, output.Status)
	assert.Equal(t, 2, output.EmailsSent)
	assert.Len(t, sesClient.sent, 2)
	assert.NotEmpty(t, output.NotificationID)
}

func TestExecute_SMSOnlyForHighPriority(t *testing.T) {
	tests := []struct {
		name     string
		priority string
		wantSMS  int
	}{
		{"high priority sends SMS", "high", 1},
		{"normal priority skips SMS", "normal", 0},
		{"empty priority skips SMS", "", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snsClient := &mockSNS{}
			service := newTestService(t, createTestConfig(), &mockSES{}, snsClient)

			input := createTestInput()
			input.Priority = tt.priority

			output, err := service.Execute(context.Background(), input)

			require.NoError(t, err)
			assert.Equal(t, tt.wantSMS, output.SMSSent)
			assert.Len(t, snsClient.published, tt.wantSMS)
		})
	}
}

func TestExecute_NothingFlagged(t *testing.T) {
	sesClient := &mockSES{}
	service := newTestService(t, createTestConfig(), sesClient, &mockSNS{})

	input := createTestInput()
	input.Flagged = nil

	output, err := service.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
	assert.Empty(t, sesClient.sent)
}

func TestExecute_DisabledChannels(t *testing.T) {
	config := createTestConfig()
	config.EmailEnabled = false
	config.SMSEnabled = false

	service := newTestService(t, config, &mockSES{}, &mockSNS{})

	output, err := service.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, StatusDisabled, output.Status)
}

func TestExecute_EmailFailureReturnsError(t *testing.T) {
	sesClient := &mockSES{err: errors.New("throttled")}
	service := newTestService(t, createTestConfig(), sesClient, &mockSNS{})

	_, err := service.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "NOTIFICATION_SEND_FAILED")
}

func TestExecute_InvalidReviewerAddress(t *testing.T) {
	config := createTestConfig()
	config.Reviewers = []string{"not-an-address"}

	service := newTestService(t, config, &mockSES{}, &mockSNS{})

	_, err := service.Execute(context.Background(), createTestInput())

	require.Error(t, err)
	assert.Contains(t, err.Error(), "VALIDATION_FAILED")
}

// ==========================
// Notification Body Tests
// ==========================

func TestBuildNotificationBody(t *testing.T) {
	body := buildNotificationBody(createTestInput())

	assert.Contains(t, body, "DEAL-NTF-1")
	assert.Contains(t, body, "Acme Holdings")
	assert.Contains(t, body, "Loan Agreement [FLAGGED]")
	assert.Contains(t, body, "2 issue(s)")
	assert.Contains(t, body, "stated rate exceeds the usury limit")
	assert.Contains(t, body, "run-42")
}

// ==========================
// Input Schema Tests
// ==========================

func TestInputSchema_RejectsMissingFields(t *testing.T) {
	result := validation.ValidateInput(map[string]interface{}{
		"dealId": "DEAL-NTF-1",
	}, GetInputSchema())

	assert.False(t, result.Valid)

	messages := result.GetErrorMessages()
	assert.Contains(t, messages[0]+messages[1], "runId")
}

func TestInputSchema_AcceptsValidInput(t *testing.T) {
	result := validation.ValidateInput(map[string]interface{}{
		"runId":   "run-42",
		"dealId":  "DEAL-NTF-1",
		"flagged": []interface{}{map[string]interface{}{"typeId": "loan_agreement"}},
	}, GetInputSchema())

	assert.True(t, result.Valid)
}
