// internal/docgen/render/format.go
package render

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// FormatMoney renders a dollar amount with thousands separators, e.g.
// "$1,250,000.00".
func FormatMoney(amount float64) string {
	neg := amount < 0
	amount = math.Abs(amount)

	whole := int64(amount)
	cents := int64(math.Round((amount - float64(whole)) * 100))
	if cents == 100 {
		whole++
		cents = 0
	}

	digits := fmt.Sprintf("%d", whole)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	sign := ""
	if neg {
		sign = "-"
	}
	return fmt.Sprintf("%s$%s.%02d", sign, b.String(), cents)
}

// FormatRate renders a decimal annual rate as a percentage, e.g. "12.50%".
func FormatRate(rate float64) string {
	return fmt.Sprintf("%.2f%%", rate*100)
}

// FormatDate renders a date in legal long form, e.g. "January 2, 2026".
func FormatDate(t time.Time) string {
	return t.Format("January 2, 2006")
}

// MonthlyPayment computes the level payment for a fully amortizing loan.
// A zero rate degenerates to straight-line principal.
func MonthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if termMonths <= 0 {
		return 0
	}
	if annualRate == 0 {
		return principal / float64(termMonths)
	}
	r := annualRate / 12
	return principal * r / (1 - math.Pow(1+r, -float64(termMonths)))
}

// AmortizationRow is one period of a level-payment schedule.
type AmortizationRow struct {
	Period    int
	Payment   float64
	Interest  float64
	Principal float64
	Balance   float64
}

// AmortizationSchedule derives the full level-payment schedule. The final
// period absorbs rounding drift so the ending balance is exactly zero.
func AmortizationSchedule(principal, annualRate float64, termMonths int) []AmortizationRow {
	if termMonths <= 0 || principal <= 0 {
		return nil
	}

	payment := MonthlyPayment(principal, annualRate, termMonths)
	monthlyRate := annualRate / 12
	balance := principal

	rows := make([]AmortizationRow, 0, termMonths)
	for period := 1; period <= termMonths; period++ {
		interest := balance * monthlyRate
		principalPart := payment - interest
		if period == termMonths {
			principalPart = balance
			payment = principalPart + interest
		}
		balance -= principalPart
		rows = append(rows, AmortizationRow{
			Period:    period,
			Payment:   payment,
			Interest:  interest,
			Principal: principalPart,
			Balance:   math.Max(balance, 0),
		})
	}
	return rows
}
