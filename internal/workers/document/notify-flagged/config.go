package notifyflagged

import (
	"fmt"
	"time"
)

type Config struct {
	Enabled       bool          `mapstructure:"enabled"`
	MaxJobsActive int           `mapstructure:"max_jobs_active"`
	Timeout       time.Duration `mapstructure:"timeout"`

	EmailEnabled bool     `mapstructure:"email_enabled"`
	SMSEnabled   bool     `mapstructure:"sms_enabled"`
	FromEmail    string   `mapstructure:"from_email"`
	Reviewers    []string `mapstructure:"reviewers"`
	ReviewerSMS  []string `mapstructure:"reviewer_sms"`
	AWSRegion    string   `mapstructure:"aws_region"`
}

func DefaultConfig() *Config {
	return &Config{
		Enabled:       true,
		MaxJobsActive: 5,
		Timeout:       30 * time.Second,
		EmailEnabled:  true,
		SMSEnabled:    false,
		FromEmail:     "documents@example.com",
		AWSRegion:     "us-east-1",
	}
}

func (c *Config) Validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxJobsActive <= 0 {
		return fmt.Errorf("max_jobs_active must be positive")
	}
	if c.EmailEnabled {
		if c.FromEmail == "" {
			return fmt.Errorf("from_email is required when email is enabled")
		}
		if len(c.Reviewers) == 0 {
			return fmt.Errorf("at least one reviewer address is required when email is enabled")
		}
	}
	if c.SMSEnabled && len(c.ReviewerSMS) == 0 {
		return fmt.Errorf("at least one reviewer phone number is required when SMS is enabled")
	}
	return nil
}
