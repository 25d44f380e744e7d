// internal/docgen/audit/indexer.go

// Package audit persists a searchable trail of generation outcomes. The
// pipeline core stays I/O-free; workers call the indexer after results are
// assembled.
package audit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"

	"loandoc-workers/internal/models"
)

// Entry is one indexed document outcome. Payload bytes are deliberately not
// indexed; the trail records what was decided, not the document itself.
type Entry struct {
	RunID        string                    `json:"runId"`
	DealID       string                    `json:"dealId"`
	ProductLine  string                    `json:"productLine"`
	Jurisdiction string                    `json:"jurisdiction"`
	DocType      models.DocumentTypeID     `json:"docType"`
	Label        string                    `json:"label"`
	Status       models.DocumentStatus     `json:"status"`
	ReviewPassed bool                      `json:"reviewPassed"`
	VerifyPassed bool                      `json:"verifyPassed"`
	IssueCount   int                       `json:"issueCount"`
	Checks       []models.ComplianceCheck  `json:"checks"`
	IndexedAt    time.Time                 `json:"indexedAt"`
}

// Indexer writes audit entries to Elasticsearch.
type Indexer struct {
	client *elasticsearch.Client
	index  string
}

func NewIndexer(client *elasticsearch.Client, index string) *Indexer {
	return &Indexer{client: client, index: index}
}

// IndexResults writes one entry per document result. The first indexing error
// aborts the batch; callers treat the whole batch as retryable.
func (ix *Indexer) IndexResults(ctx context.Context, runID string, deal *models.DealInput, results []models.DocumentResult) error {
	for _, result := range results {
		entry := Entry{
			RunID:        runID,
			DealID:       deal.DealID,
			ProductLine:  deal.ProductLine,
			Jurisdiction: deal.Jurisdiction,
			DocType:      result.TypeID,
			Label:        result.Label,
			Status:       result.Status,
			ReviewPassed: result.Review.Passed,
			VerifyPassed: result.Verification.Passed,
			IssueCount:   len(result.Review.Issues) + len(result.Verification.Issues),
			Checks:       result.Checks,
			IndexedAt:    time.Now().UTC(),
		}

		body, err := json.Marshal(entry)
		if err != nil {
			return fmt.Errorf("marshal audit entry: %w", err)
		}

		docID := fmt.Sprintf("%s-%s", runID, result.TypeID)
		res, err := ix.client.Index(
			ix.index,
			bytes.NewReader(body),
			ix.client.Index.WithContext(ctx),
			ix.client.Index.WithDocumentID(docID),
		)
		if err != nil {
			return fmt.Errorf("index audit entry for %s: %w", result.TypeID, err)
		}
		res.Body.Close()
		if res.IsError() {
			return fmt.Errorf("index audit entry for %s: %s", result.TypeID, res.Status())
		}
	}
	return nil
}
