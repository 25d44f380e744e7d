// internal/common/genai/client.go
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/xeipuuv/gojsonschema"

	"loandoc-workers/internal/models"
)

var (
	ErrGenerationTimeout = errors.New("GENERATION_TIMEOUT")
	ErrGenerationFailed  = errors.New("PROSE_GENERATION_FAILED")
	ErrProseShapeInvalid = errors.New("PROSE_SHAPE_INVALID")
)

// Config holds settings for the prose generation service.
type Config struct {
	BaseURL    string
	APIKey     string
	Model      string
	Timeout    time.Duration
	MaxRetries int
}

// Logger interface definition
type Logger interface {
	Info(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	With(fields map[string]interface{}) Logger
}

// Client calls the external content generation service and returns validated
// prose for one document type.
type Client struct {
	config *Config
	client *http.Client
	logger Logger
}

func NewClient(config *Config, log Logger) *Client {
	if config.MaxRetries == 0 {
		config.MaxRetries = 2
	}
	return &Client{
		config: config,
		client: &http.Client{
			// No HTTP client timeout - rely only on context
		},
		logger: log.With(map[string]interface{}{
			"component": "genai",
		}),
	}
}

// Generate produces prose for one document type. Feedback from a prior review
// round, if any, is passed through to the generator verbatim.
func (c *Client) Generate(ctx context.Context, docType models.DocumentTypeID, schema models.ProseSchema, deal *models.DealInput, feedback []string) (models.GeneratedProse, error) {
	if c.config.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.config.Timeout)
		defer cancel()
	}

	requestBody := map[string]interface{}{
		"doc_type": string(docType),
		"model":    c.config.Model,
		"deal": map[string]interface{}{
			"deal_id":       deal.DealID,
			"borrower":      deal.BorrowerName,
			"lender":        deal.LenderName,
			"loan_amount":   deal.LoanAmount,
			"annual_rate":   deal.AnnualRate,
			"term_months":   deal.TermMonths,
			"jurisdiction":  deal.Jurisdiction,
			"program_id":    deal.ProgramID,
			"commercial":    deal.Commercial,
		},
		"sections": sectionDescriptors(schema),
	}
	if len(feedback) > 0 {
		requestBody["feedback"] = feedback
	}

	body, _ := json.Marshal(requestBody)

	var resp *http.Response
	var lastErr error

	for attempt := 0; attempt <= c.config.MaxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(100*(1<<(attempt-1))) * time.Millisecond
			select {
			case <-time.After(backoff):
				// Continue with retry
			case <-ctx.Done():
				return nil, ErrGenerationTimeout
			}
		}

		req, err := http.NewRequestWithContext(ctx, "POST", c.config.BaseURL+"/api/ai/generate", bytes.NewBuffer(body))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
		}
		req.Header.Set("Content-Type", "application/json")
		if c.config.APIKey != "" {
			req.Header.Set("Authorization", "Bearer "+c.config.APIKey)
		}

		resp, lastErr = c.client.Do(req)
		if lastErr == nil {
			if resp.StatusCode == http.StatusOK {
				break
			}
			resp.Body.Close()
			lastErr = fmt.Errorf("status %d", resp.StatusCode)
			resp = nil
		}

		if ctx.Err() != nil {
			return nil, ErrGenerationTimeout
		}
	}

	if lastErr != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, ErrGenerationTimeout
		}
		return nil, fmt.Errorf("%w: %v", ErrGenerationFailed, lastErr)
	}

	if resp == nil {
		return nil, fmt.Errorf("%w: no successful response after retries", ErrGenerationFailed)
	}
	defer resp.Body.Close()

	var apiResponse struct {
		Sections json.RawMessage `json:"sections"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResponse); err != nil {
		return nil, fmt.Errorf("%w: decode error: %v", ErrGenerationFailed, err)
	}
	if len(apiResponse.Sections) == 0 {
		return nil, fmt.Errorf("%w: empty sections payload", ErrGenerationFailed)
	}

	// Generator output is untrusted; check the raw payload shape before
	// unmarshalling into typed prose.
	if err := validatePayload(apiResponse.Sections, schema); err != nil {
		return nil, err
	}

	var prose models.GeneratedProse
	if err := json.Unmarshal(apiResponse.Sections, &prose); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProseShapeInvalid, err)
	}

	c.logger.Info("prose generated", map[string]interface{}{
		"docType":      string(docType),
		"sectionCount": len(prose),
	})

	return prose, nil
}

func sectionDescriptors(schema models.ProseSchema) []map[string]string {
	out := make([]map[string]string, 0, len(schema.Sections))
	for _, sec := range schema.Sections {
		kind := "text"
		if sec.Kind == models.SectionList {
			kind = "list"
		}
		out = append(out, map[string]string{"key": sec.Key, "kind": kind})
	}
	return out
}

// validatePayload checks the raw sections object against a JSON schema derived
// from the document type's section specs. Missing keys are tolerated here; the
// shape validator fills them with placeholders downstream. Wrong value kinds
// are not.
func validatePayload(raw json.RawMessage, schema models.ProseSchema) error {
	props := map[string]interface{}{}
	for _, sec := range schema.Sections {
		if sec.Kind == models.SectionList {
			props[sec.Key] = map[string]interface{}{
				"type":  "array",
				"items": map[string]interface{}{"type": "string"},
			}
		} else {
			props[sec.Key] = map[string]interface{}{"type": "string"}
		}
	}

	schemaDoc := map[string]interface{}{
		"type":       "object",
		"properties": props,
		"additionalProperties": map[string]interface{}{
			"type": []string{"string", "array"},
		},
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewGoLoader(schemaDoc),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrProseShapeInvalid, err)
	}
	if !result.Valid() {
		var problems []string
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return fmt.Errorf("%w: %s", ErrProseShapeInvalid, strings.Join(problems, "; "))
	}
	return nil
}
