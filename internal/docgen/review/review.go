// internal/docgen/review/review.go

// Package review is the compliance review stage: deterministic and
// semi-deterministic checks over generated prose, with targeted corrections.
// It is the only stage allowed to rewrite content; verification stays
// independent of it so a reviewer's own errors cannot mask a defect.
package review

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"loandoc-workers/internal/docgen/prose"
	"loandoc-workers/internal/docgen/registry"
	"loandoc-workers/internal/docgen/usury"
	"loandoc-workers/internal/models"
)

// prohibitedPhrases never belong in lending documents. Found phrases are
// scrubbed and reported.
var prohibitedPhrases = []string{
	"risk-free",
	"guaranteed return",
	"guaranteed profit",
	"cannot lose",
	"confession of judgment",
}

var ratePattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s?%`)

// Review checks generated prose for one non-zero-content document type.
// It returns the review outcome, the full compliance check list (program
// checks plus document checks), and corrected prose when any correction was
// applied (nil when the input needs no changes). The input prose is never
// mutated.
func Review(docType models.DocumentTypeID, deal *models.DealInput, content models.GeneratedProse) (models.ReviewResult, []models.ComplianceCheck, models.GeneratedProse) {
	checks := ProgramChecks(deal)
	var issues []models.Issue

	corrected := content.Clone()
	changed := false

	spec, registered := registry.Lookup(docType)

	// Usury violations are critical on every prose document; the document
	// cannot go out with an illegal rate.
	usuryResult := usury.Evaluate(deal.Jurisdiction, deal.AnnualRate, deal.LoanAmount, deal.Commercial)
	if usuryResult.Violates {
		issues = append(issues, models.Issue{
			Severity:       models.SeverityCritical,
			Section:        "loan_terms",
			Description:    usuryResult.Message,
			Recommendation: "Reprice the loan below the applicable ceiling or restructure for an available exemption.",
		})
	}

	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		section := content[key]
		// Prohibited language scrub.
		if section.Kind == models.SectionText {
			cleaned, found := scrubProhibited(section.Text)
			if len(found) > 0 {
				corrected[key] = models.TextSection(cleaned)
				changed = true
				issues = append(issues, models.Issue{
					Severity:       models.SeverityHigh,
					Section:        key,
					Description:    fmt.Sprintf("prohibited language removed: %s", strings.Join(found, ", ")),
					Recommendation: "Confirm the scrubbed sentence still reads correctly.",
				})
			}
		} else {
			items := section.Items
			var cleanedItems []string
			var allFound []string
			for _, item := range items {
				cleaned, found := scrubProhibited(item)
				cleanedItems = append(cleanedItems, cleaned)
				allFound = append(allFound, found...)
			}
			if len(allFound) > 0 {
				corrected[key] = models.ListSection(cleanedItems...)
				changed = true
				issues = append(issues, models.Issue{
					Severity:       models.SeverityHigh,
					Section:        key,
					Description:    fmt.Sprintf("prohibited language removed: %s", strings.Join(allFound, ", ")),
					Recommendation: "Confirm the scrubbed items still read correctly.",
				})
			}
		}

		// Stated interest rates must match the deal. Corrections are applied
		// in place; the mismatch is still reported.
		if section.Kind == models.SectionText {
			fixed, mismatches := reconcileRates(corrected[key].Text, deal.AnnualRate)
			if mismatches > 0 {
				corrected[key] = models.TextSection(fixed)
				changed = true
				issues = append(issues, models.Issue{
					Severity:       models.SeverityMedium,
					Section:        key,
					Description:    fmt.Sprintf("%d stated interest rate(s) disagreed with the deal rate of %.2f%%; corrected", mismatches, deal.AnnualRate*100),
					Recommendation: "Verify the generator received the current term sheet.",
				})
			}
		}

		// Placeholder sections are acceptable output but need attention.
		if prose.IsPlaceholder(corrected[key]) {
			issues = append(issues, models.Issue{
				Severity:       models.SeverityMedium,
				Section:        key,
				Description:    "section carries an injected placeholder instead of generated content",
				Recommendation: "Regenerate the document or complete the section manually.",
			})
		}
	}

	docCheckPassed := !hasSeverityAtLeast(issues, models.SeverityHigh)
	if registered && !spec.ZeroContent {
		checks = append(checks, models.ComplianceCheck{
			Name:     "prose_content_review",
			Category: models.CheckStandard,
			Passed:   docCheckPassed,
			Note:     fmt.Sprintf("%d issue(s) found in generated prose for %s", len(issues), docType),
		})
	}

	result := models.ReviewResult{
		Passed:     !hasSeverityAtLeast(issues, models.SeverityHigh),
		Issues:     issues,
		ReviewedAt: time.Now().UTC(),
	}

	if !changed {
		return result, checks, nil
	}
	return result, checks, corrected
}

func scrubProhibited(text string) (string, []string) {
	var found []string
	cleaned := text
	lower := strings.ToLower(text)
	for _, phrase := range prohibitedPhrases {
		if strings.Contains(lower, phrase) {
			found = append(found, phrase)
			cleaned = removeCaseInsensitive(cleaned, phrase)
			lower = strings.ToLower(cleaned)
		}
	}
	if len(found) > 0 {
		cleaned = strings.Join(strings.Fields(cleaned), " ")
	}
	return cleaned, found
}

func removeCaseInsensitive(text, phrase string) string {
	for {
		idx := strings.Index(strings.ToLower(text), phrase)
		if idx < 0 {
			return text
		}
		text = text[:idx] + text[idx+len(phrase):]
	}
}

// reconcileRates rewrites any percentage in the text that does not match the
// deal's annual rate. Covenant ratios expressed as percentages below 1% or
// above 100% are left alone.
func reconcileRates(text string, annualRate float64) (string, int) {
	mismatches := 0
	fixed := ratePattern.ReplaceAllStringFunc(text, func(match string) string {
		sub := ratePattern.FindStringSubmatch(match)
		value, err := strconv.ParseFloat(sub[1], 64)
		if err != nil {
			return match
		}
		stated := value / 100
		if stated == annualRate {
			return match
		}
		// Only treat plausible interest rates as mismatches.
		if stated <= 0 || stated >= 1 {
			return match
		}
		mismatches++
		return fmt.Sprintf("%.2f%%", annualRate*100)
	})
	return fixed, mismatches
}

func hasSeverityAtLeast(issues []models.Issue, threshold models.IssueSeverity) bool {
	rank := map[models.IssueSeverity]int{
		models.SeverityLow:      0,
		models.SeverityMedium:   1,
		models.SeverityHigh:     2,
		models.SeverityCritical: 3,
	}
	for _, issue := range issues {
		if rank[issue.Severity] >= rank[threshold] {
			return true
		}
	}
	return false
}
