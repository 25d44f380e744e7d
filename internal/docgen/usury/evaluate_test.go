// internal/docgen/usury/evaluate_test.go
package usury

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// ==========================
// Evaluation Precedence Tests
// ==========================

func TestEvaluate_UnknownJurisdiction(t *testing.T) {
	result := Evaluate("ZZ", 0.99, 100_000, false)

	assert.False(t, result.Violates)
	assert.Equal(t, NoUsuryLimit, result.Limit)
	assert.Contains(t, result.Message, "no usury rule on file")
}

func TestEvaluate_CommercialExemptionWithCriminalFloor(t *testing.T) {
	tests := []struct {
		name         string
		rate         float64
		amount       float64
		commercial   bool
		wantViolates bool
		wantLimit    float64
	}{
		{
			name:         "civil cap exempt, rate under criminal floor",
			rate:         0.20,
			amount:       300_000,
			commercial:   true,
			wantViolates: false,
			wantLimit:    0.25,
		},
		{
			name:         "civil cap exempt, rate over criminal floor",
			rate:         0.30,
			amount:       300_000,
			commercial:   true,
			wantViolates: true,
			wantLimit:    0.25,
		},
		{
			name:         "criminal exemption threshold met, fully exempt",
			rate:         0.30,
			amount:       2_500_000,
			commercial:   true,
			wantViolates: false,
			wantLimit:    NoUsuryLimit,
		},
		{
			name:         "below commercial threshold, civil cap applies",
			rate:         0.20,
			amount:       100_000,
			commercial:   true,
			wantViolates: true,
			wantLimit:    0.16,
		},
		{
			name:         "non-commercial loan, civil cap applies",
			rate:         0.20,
			amount:       300_000,
			commercial:   false,
			wantViolates: true,
			wantLimit:    0.16,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate("NY", tt.rate, tt.amount, tt.commercial)

			assert.Equal(t, tt.wantViolates, result.Violates)
			assert.Equal(t, tt.wantLimit, result.Limit)
			assert.NotEmpty(t, result.Message)
		})
	}
}

func TestEvaluate_CappedExemption(t *testing.T) {
	tests := []struct {
		name         string
		rate         float64
		wantViolates bool
	}{
		{name: "rate under capped ceiling", rate: 0.22, wantViolates: false},
		{name: "rate at capped ceiling", rate: 0.28, wantViolates: false},
		{name: "rate over capped ceiling", rate: 0.29, wantViolates: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Evaluate("TX", tt.rate, 500_000, true)

			assert.Equal(t, tt.wantViolates, result.Violates)
			// The applied limit is the raised ceiling, not the ordinary cap.
			assert.Equal(t, 0.28, result.Limit)
		})
	}
}

func TestEvaluate_NoLimitJurisdiction(t *testing.T) {
	result := Evaluate("DE", 0.40, 50_000, false)

	assert.False(t, result.Violates)
	assert.Equal(t, NoUsuryLimit, result.Limit)
}

func TestEvaluate_OrdinaryCivilCap(t *testing.T) {
	under := Evaluate("CA", 0.09, 50_000, false)
	assert.False(t, under.Violates)
	assert.Equal(t, 0.10, under.Limit)

	over := Evaluate("CA", 0.12, 50_000, false)
	assert.True(t, over.Violates)
	assert.Equal(t, 0.10, over.Limit)
}

func TestEvaluate_FullCommercialExemption(t *testing.T) {
	// CA has no criminal floor and no capped ceiling, so a qualifying
	// commercial loan is fully exempt.
	result := Evaluate("CA", 0.15, 400_000, true)

	assert.False(t, result.Violates)
	assert.Equal(t, NoUsuryLimit, result.Limit)
}

func TestDisclosures(t *testing.T) {
	assert.NotEmpty(t, Disclosures("NY"))
	assert.Nil(t, Disclosures("ZZ"))
}
