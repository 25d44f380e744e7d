// internal/workers/document/notify-flagged/service.go
package notifyflagged

import (
	"context"
	"fmt"
	"strings"
	"time"

	"loandoc-workers/internal/common/errors"
	"loandoc-workers/internal/common/logger"
	"loandoc-workers/internal/common/validation"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/google/uuid"
)

// Define interfaces for mocking
type SESService interface {
	SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, input *sns.PublishInput) (*sns.PublishOutput, error)
}

type Service struct {
	config    *Config
	logger    logger.Logger
	sesClient SESService
	snsClient SNSService
}

func NewService(deps ServiceDependencies, config *Config, sesClient SESService, snsClient SNSService) *Service {
	return &Service{
		config:    config,
		logger:    deps.Logger,
		sesClient: sesClient,
		snsClient: snsClient,
	}
}

func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("notifying reviewers of flagged documents", map[string]interface{}{
		"runId":   input.RunID,
		"dealId":  input.DealID,
		"flagged": len(input.Flagged),
	})

	if err := s.validateRecipients(); err != nil {
		return nil, &errors.StandardError{
			Code:      "VALIDATION_FAILED",
			Message:   "Notification recipient validation failed",
			Details:   err.Error(),
			Retryable: false,
			Timestamp: time.Now(),
		}
	}

	notificationID := uuid.New().String()
	sentAt := time.Now().UTC().Format(time.RFC3339)

	// Nothing flagged means nothing to escalate. The worker still completes.
	if len(input.Flagged) == 0 {
		return &Output{
			NotificationID: notificationID,
			Status:         StatusDisabled,
			SentAt:         sentAt,
		}, nil
	}

	subject := fmt.Sprintf("Document review required: deal %s (%d flagged)", input.DealID, len(input.Flagged))
	body := buildNotificationBody(input)

	emailsSent := 0
	smsSent := 0

	if s.config.EmailEnabled {
		for _, reviewer := range s.config.Reviewers {
			if err := s.sendEmail(ctx, reviewer, subject, body); err != nil {
				s.logger.Error("email send failed", map[string]interface{}{
					"error": err,
					"email": reviewer,
				})
				return nil, errors.NewNotificationSendFailedError("email", err)
			}
			emailsSent++
		}
	}

	if s.config.SMSEnabled && input.Priority == "high" {
		message := fmt.Sprintf("Deal %s: %d document(s) flagged for review.", input.DealID, len(input.Flagged))
		for _, phone := range s.config.ReviewerSMS {
			if err := s.sendSMS(ctx, phone, message); err != nil {
				s.logger.Error("SMS send failed", map[string]interface{}{
					"error": err,
					"phone": phone,
				})
				return nil, errors.NewNotificationSendFailedError("sms", err)
			}
			smsSent++
		}
	}

	status := StatusDisabled
	if emailsSent > 0 || smsSent > 0 {
		status = StatusSent
	}

	s.logger.Info("reviewer notification complete", map[string]interface{}{
		"notificationId": notificationID,
		"emailsSent":     emailsSent,
		"smsSent":        smsSent,
	})

	return &Output{
		NotificationID: notificationID,
		Status:         status,
		EmailsSent:     emailsSent,
		SMSSent:        smsSent,
		SentAt:         sentAt,
	}, nil
}

func (s *Service) validateRecipients() error {
	if s.config.EmailEnabled {
		if !validation.ValidateEmail(s.config.FromEmail) {
			return fmt.Errorf("invalid from address: %s", s.config.FromEmail)
		}
		for _, reviewer := range s.config.Reviewers {
			if !validation.ValidateEmail(reviewer) {
				return fmt.Errorf("invalid reviewer address: %s", reviewer)
			}
		}
	}
	if s.config.SMSEnabled {
		for _, phone := range s.config.ReviewerSMS {
			if !validation.ValidatePhone(phone) {
				return fmt.Errorf("invalid reviewer phone number: %s", phone)
			}
		}
	}
	return nil
}

func buildNotificationBody(input *Input) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Deal %s", input.DealID)
	if input.Borrower != "" {
		fmt.Fprintf(&b, " (%s)", input.Borrower)
	}
	fmt.Fprintf(&b, " has %d document(s) requiring attention.\n\n", len(input.Flagged))

	for _, doc := range input.Flagged {
		fmt.Fprintf(&b, "- %s [%s]", doc.Label, doc.Status)
		if doc.IssueCount > 0 {
			fmt.Fprintf(&b, " — %d issue(s)", doc.IssueCount)
		}
		b.WriteString("\n")
		for _, summary := range doc.Summaries {
			fmt.Fprintf(&b, "    %s\n", summary)
		}
	}

	fmt.Fprintf(&b, "\nGeneration run: %s\n", input.RunID)
	return b.String()
}

func (s *Service) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := s.sesClient.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(s.config.FromEmail),
	})
	return err
}

func (s *Service) sendSMS(ctx context.Context, to, message string) error {
	_, err := s.snsClient.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	})
	return err
}
