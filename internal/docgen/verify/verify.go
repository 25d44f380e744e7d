// internal/docgen/verify/verify.go

// Package verify is the deterministic verification stage. It re-derives every
// checkable fact from the deal input and compares against what was produced,
// without reusing any of the review stage's logic: a reviewer that corrected
// prose must never be the sole authority on whether the correction was right.
package verify

import (
	"fmt"
	"math"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"loandoc-workers/internal/docgen/usury"
	"loandoc-workers/internal/models"
)

var (
	percentPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s?%`)
	dollarPattern  = regexp.MustCompile(`\$([\d,]+(?:\.\d{2})?)`)
	monthsPattern  = regexp.MustCompile(`(\d+)\s+months`)
)

type checker struct {
	run    int
	passed int
	issues []models.Issue
}

func (c *checker) check(ok bool, severity models.IssueSeverity, section, description, recommendation string) {
	c.run++
	if ok {
		c.passed++
		return
	}
	c.issues = append(c.issues, models.Issue{
		Severity:       severity,
		Section:        section,
		Description:    description,
		Recommendation: recommendation,
	})
}

// Verify re-checks one document's numbers and structure against the deal. It
// runs for every document type, including zero-content ones, and never fails:
// defects come back as issues, not errors.
func Verify(docType models.DocumentTypeID, deal *models.DealInput, content models.GeneratedProse) models.VerificationResult {
	c := &checker{}

	// Deal-level facts, re-derived here.
	c.check(deal.LoanAmount > 0, models.SeverityCritical, "loan_terms",
		"loan amount is not positive",
		"Check the deal input before regenerating.")
	c.check(deal.TermMonths > 0, models.SeverityCritical, "loan_terms",
		"loan term is not positive",
		"Check the deal input before regenerating.")
	c.check(deal.AnnualRate >= 0, models.SeverityCritical, "loan_terms",
		"annual rate is negative",
		"Check the deal input before regenerating.")

	usuryResult := usury.Evaluate(deal.Jurisdiction, deal.AnnualRate, deal.LoanAmount, deal.Commercial)
	c.check(!usuryResult.Violates, models.SeverityCritical, "loan_terms",
		fmt.Sprintf("usury check failed: %s", usuryResult.Message),
		"Reprice the loan below the applicable ceiling.")

	if deal.TermMonths > 0 {
		c.check(deal.MaturityDate().After(deal.GeneratedAt), models.SeverityHigh, "loan_terms",
			"derived maturity date is not after the generation date",
			"Check the term and generation timestamp.")
	}

	// Document-level facts: every stated figure must reconcile with the deal.
	expectedAmounts := plausibleAmounts(deal)

	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, text := range sectionStrings(content[key]) {
			verifyRates(c, key, text, deal.AnnualRate)
			verifyAmounts(c, key, text, expectedAmounts)
			verifyTerm(c, key, text, deal.TermMonths)
		}
	}

	return models.VerificationResult{
		Passed:       len(c.issues) == 0,
		Issues:       c.issues,
		ChecksRun:    c.run,
		ChecksPassed: c.passed,
	}
}

func sectionStrings(section models.SectionContent) []string {
	if section.Kind == models.SectionList {
		return section.Items
	}
	return []string{section.Text}
}

// plausibleAmounts is the set of dollar figures the pipeline itself derives
// and may legitimately state in a document.
func plausibleAmounts(deal *models.DealInput) []float64 {
	amounts := []float64{deal.LoanAmount}
	if deal.TermMonths > 0 {
		amounts = append(amounts, monthlyPayment(deal.LoanAmount, deal.AnnualRate, deal.TermMonths))
	}
	return amounts
}

// monthlyPayment is deliberately re-implemented here rather than imported
// from the render helpers, so a rendering bug cannot hide from verification.
func monthlyPayment(principal, annualRate float64, termMonths int) float64 {
	if annualRate == 0 {
		return principal / float64(termMonths)
	}
	r := annualRate / 12
	return principal * r / (1 - math.Pow(1+r, -float64(termMonths)))
}

func verifyRates(c *checker, section, text string, annualRate float64) {
	for _, match := range percentPattern.FindAllStringSubmatch(text, -1) {
		value, err := strconv.ParseFloat(match[1], 64)
		if err != nil {
			continue
		}
		stated := value / 100
		// Only figures in plausible interest range are attributed to the note
		// rate; covenant ratios and the like are out of scope here.
		if stated <= 0 || stated >= 1 {
			continue
		}
		c.check(math.Abs(stated-annualRate) < 1e-9, models.SeverityHigh, section,
			fmt.Sprintf("stated rate %.2f%% disagrees with deal rate %.2f%%", stated*100, annualRate*100),
			"Regenerate the document from current deal terms.")
	}
}

func verifyAmounts(c *checker, section, text string, expected []float64) {
	for _, match := range dollarPattern.FindAllStringSubmatch(text, -1) {
		raw := strings.ReplaceAll(match[1], ",", "")
		value, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		// Small figures (fees, per-diem amounts) are not derivable from the
		// deal input and are not checked.
		if value < 1000 {
			continue
		}
		ok := false
		for _, want := range expected {
			if math.Abs(value-want) < 0.01 {
				ok = true
				break
			}
		}
		c.check(ok, models.SeverityHigh, section,
			fmt.Sprintf("stated amount $%s does not match any deal-derived figure", match[1]),
			"Regenerate the document from current deal terms.")
	}
}

func verifyTerm(c *checker, section, text string, termMonths int) {
	for _, match := range monthsPattern.FindAllStringSubmatch(text, -1) {
		value, err := strconv.Atoi(match[1])
		if err != nil {
			continue
		}
		c.check(value == termMonths, models.SeverityHigh, section,
			fmt.Sprintf("stated term of %d months disagrees with deal term of %d months", value, termMonths),
			"Regenerate the document from current deal terms.")
	}
}
