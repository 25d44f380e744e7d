// internal/docgen/program/source.go

// Package program supplies, per product line, the ordered master list of
// required document types. The list comes from Postgres with a Redis
// read-through cache; compiled-in defaults keep generation working when
// neither store is reachable.
package program

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"loandoc-workers/internal/models"
)

var ErrLookupFailed = errors.New("REQUIREMENTS_LOOKUP_FAILED")

const requirementsQuery = `
SELECT doc_type
FROM program_document_requirements
WHERE product_line = $1
ORDER BY position ASC`

// defaults is used when the product line has no stored requirements and the
// database is unavailable or empty.
var defaults = map[string][]models.DocumentTypeID{
	"commercial_loan": {
		models.DocPromissoryNote,
		models.DocLoanAgreement,
		models.DocSecurityAgreement,
		models.DocGuaranty,
		models.DocDeedOfTrust,
		models.DocEnvironmentalIndemnity,
		models.DocSubordinationAgreement,
		models.DocIntercreditorAgreement,
		models.DocFloodDetermination,
		models.DocAmortizationSchedule,
		models.DocClosingChecklist,
	},
	"sba_loan": {
		models.DocPromissoryNote,
		models.DocLoanAgreement,
		models.DocSecurityAgreement,
		models.DocGuaranty,
		models.DocSBAAuthorization,
		models.DocSBAForm1919,
		models.DocAmortizationSchedule,
		models.DocClosingChecklist,
	},
}

// Source resolves required document type lists.
type Source struct {
	db       *sql.DB
	cache    *redis.Client
	cacheTTL time.Duration
}

func NewSource(db *sql.DB, cache *redis.Client, cacheTTL time.Duration) *Source {
	return &Source{
		db:       db,
		cache:    cache,
		cacheTTL: cacheTTL,
	}
}

// Required returns the ordered required document types for a product line.
// Resolution order: Redis cache, then Postgres (populating the cache), then
// compiled-in defaults. Only an empty product line with no default is an
// error.
func (s *Source) Required(ctx context.Context, productLine string) ([]models.DocumentTypeID, error) {
	if cached, ok := s.fromCache(ctx, productLine); ok {
		return cached, nil
	}

	types, err := s.fromDatabase(ctx, productLine)
	if err == nil && len(types) > 0 {
		s.toCache(ctx, productLine, types)
		return types, nil
	}

	if fallback, ok := defaults[productLine]; ok {
		return fallback, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: product line %q: %v", ErrLookupFailed, productLine, err)
	}
	return nil, fmt.Errorf("%w: no requirements configured for product line %q", ErrLookupFailed, productLine)
}

func cacheKey(productLine string) string {
	return "program:requirements:" + productLine
}

func (s *Source) fromCache(ctx context.Context, productLine string) ([]models.DocumentTypeID, bool) {
	if s.cache == nil {
		return nil, false
	}
	raw, err := s.cache.Get(ctx, cacheKey(productLine)).Result()
	if err != nil {
		return nil, false
	}
	var types []models.DocumentTypeID
	if err := json.Unmarshal([]byte(raw), &types); err != nil {
		return nil, false
	}
	return types, len(types) > 0
}

func (s *Source) toCache(ctx context.Context, productLine string, types []models.DocumentTypeID) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(types)
	if err != nil {
		return
	}
	// Cache write failures are invisible: the next lookup just hits Postgres.
	_ = s.cache.Set(ctx, cacheKey(productLine), raw, s.cacheTTL).Err()
}

func (s *Source) fromDatabase(ctx context.Context, productLine string) ([]models.DocumentTypeID, error) {
	if s.db == nil {
		return nil, errors.New("no database configured")
	}

	rows, err := s.db.QueryContext(ctx, requirementsQuery, productLine)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var types []models.DocumentTypeID
	for rows.Next() {
		var docType string
		if err := rows.Scan(&docType); err != nil {
			return nil, err
		}
		types = append(types, models.DocumentTypeID(docType))
	}
	return types, rows.Err()
}
