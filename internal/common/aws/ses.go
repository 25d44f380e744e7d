// internal/common/aws/ses.go

// Package aws wraps the AWS SDK v2 clients used for reviewer notifications.
// The wrappers expose only the calls the notification worker needs, so tests
// can stub them without touching SDK internals.
package aws

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
)

// SESClient sends reviewer emails through Amazon SES.
type SESClient struct {
	client *ses.Client
	region string
}

// NewSESClient builds an SES client from the ambient AWS credential chain.
func NewSESClient(ctx context.Context, region string) (*SESClient, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, err
	}
	return &SESClient{
		client: ses.NewFromConfig(cfg),
		region: region,
	}, nil
}

func (s *SESClient) SendEmail(ctx context.Context, input *ses.SendEmailInput) (*ses.SendEmailOutput, error) {
	return s.client.SendEmail(ctx, input)
}

// Region returns the region the client was configured with.
func (s *SESClient) Region() string {
	return s.region
}
