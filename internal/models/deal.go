// internal/models/deal.go
package models

import "time"

// CollateralType identifies one category of pledged collateral.
type CollateralType string

const (
	CollateralRealProperty CollateralType = "real_property"
	CollateralEquipment    CollateralType = "equipment"
	CollateralInventory    CollateralType = "inventory"
	CollateralReceivables  CollateralType = "receivables"
	CollateralAllAssets    CollateralType = "all_assets"
)

// Covenants holds the financial covenant thresholds agreed for a deal.
type Covenants struct {
	MinDSCR float64 `json:"minDscr"` // minimum debt service coverage ratio
	MaxLTV  float64 `json:"maxLtv"`  // maximum loan-to-value ratio
}

// DealInput is the immutable description of one transaction. It is created
// once per generation request and only ever read by the pipeline stages.
type DealInput struct {
	DealID         string `json:"dealId"`
	BorrowerName   string `json:"borrowerName"`
	BorrowerEntity string `json:"borrowerEntity"` // e.g. "LLC", "LP", "Corp"
	LenderName     string `json:"lenderName"`

	LoanAmount float64 `json:"loanAmount"`
	AnnualRate float64 `json:"annualRate"` // decimal: 0.12 means 12% per annum
	TermMonths int     `json:"termMonths"`
	Covenants  Covenants `json:"covenants"`

	Jurisdiction string `json:"jurisdiction"` // two-letter state code
	ProgramID    string `json:"programId"`    // e.g. "SBA7A-2024", "CONV-CRE-2024"
	ProductLine  string `json:"productLine"`  // e.g. "commercial_loan"

	Commercial       bool             `json:"commercial"`
	PersonalGuaranty bool             `json:"personalGuaranty"`
	Collateral       []CollateralType `json:"collateral"`

	// Optional related parties. Empty string means not present on the deal.
	SubordinateCreditor string `json:"subordinateCreditor,omitempty"`
	SecondLienLender    string `json:"secondLienLender,omitempty"`

	GeneratedAt time.Time `json:"generatedAt"`
}

// HasCollateral reports whether the deal pledges the given collateral type.
func (d *DealInput) HasCollateral(ct CollateralType) bool {
	for _, c := range d.Collateral {
		if c == ct {
			return true
		}
	}
	return false
}

// MaturityDate derives the loan maturity from the generation timestamp and term.
func (d *DealInput) MaturityDate() time.Time {
	return d.GeneratedAt.AddDate(0, d.TermMonths, 0)
}
