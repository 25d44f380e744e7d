// internal/docgen/program/source_test.go
package program

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandoc-workers/internal/models"
)

func TestRequired_FromDatabasePopulatesCache(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})

	mock.ExpectQuery("SELECT doc_type").
		WithArgs("bridge_loan").
		WillReturnRows(sqlmock.NewRows([]string{"doc_type"}).
			AddRow("promissory_note").
			AddRow("loan_agreement").
			AddRow("closing_checklist"))

	source := NewSource(db, cache, 5*time.Minute)

	types, err := source.Required(context.Background(), "bridge_loan")
	require.NoError(t, err)
	assert.Equal(t, []models.DocumentTypeID{
		models.DocPromissoryNote,
		models.DocLoanAgreement,
		models.DocClosingChecklist,
	}, types)

	// Second call must come from the cache; sqlmock would fail on an
	// unexpected second query.
	types, err = source.Required(context.Background(), "bridge_loan")
	require.NoError(t, err)
	assert.Len(t, types, 3)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRequired_CacheHitSkipsDatabase(t *testing.T) {
	cache, cacheMock := redismock.NewClientMock()

	cached, _ := json.Marshal([]models.DocumentTypeID{models.DocPromissoryNote})
	cacheMock.ExpectGet("program:requirements:commercial_loan").SetVal(string(cached))

	// nil db: any database access would panic the test.
	source := NewSource(nil, cache, time.Minute)

	types, err := source.Required(context.Background(), "commercial_loan")
	require.NoError(t, err)
	assert.Equal(t, []models.DocumentTypeID{models.DocPromissoryNote}, types)
	assert.NoError(t, cacheMock.ExpectationsWereMet())
}

func TestRequired_FallsBackToDefaults(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT doc_type").
		WithArgs("commercial_loan").
		WillReturnError(errors.New("connection refused"))

	source := NewSource(db, nil, time.Minute)

	types, err := source.Required(context.Background(), "commercial_loan")
	require.NoError(t, err)
	assert.NotEmpty(t, types)
	assert.Equal(t, models.DocPromissoryNote, types[0])
}

func TestRequired_UnknownProductLineFails(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT doc_type").
		WithArgs("crypto_lending").
		WillReturnRows(sqlmock.NewRows([]string{"doc_type"}))

	source := NewSource(db, nil, time.Minute)

	_, err = source.Required(context.Background(), "crypto_lending")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLookupFailed)
}

func TestRequired_NoStoresUsesDefaults(t *testing.T) {
	source := NewSource(nil, nil, time.Minute)

	types, err := source.Required(context.Background(), "sba_loan")
	require.NoError(t, err)
	assert.Contains(t, types, models.DocSBAAuthorization)
}
