// internal/docgen/prose/validator.go

// Package prose guarantees the shape of generated content: after validation,
// every required section of a document type is present, either generated or
// as an explicit placeholder. Downstream builders never null-check sections.
package prose

import (
	"fmt"

	"loandoc-workers/internal/docgen/registry"
	"loandoc-workers/internal/models"
)

// Diagnostic records one placeholder injection.
type Diagnostic struct {
	Section string `json:"section"`
	Message string `json:"message"`
}

// EnsureShape returns a copy of prose with a placeholder injected for every
// required section that is missing or empty, plus one diagnostic per
// injection. The input is never mutated. Types with no registered schema are
// a no-op. Validating already-complete prose returns it unchanged, so the
// operation is idempotent.
func EnsureShape(docType models.DocumentTypeID, in models.GeneratedProse) (models.GeneratedProse, []Diagnostic) {
	spec, ok := registry.Lookup(docType)
	if !ok || spec.Schema.Empty() {
		return in, nil
	}

	var diags []Diagnostic
	out := in.Clone()
	if out == nil {
		out = make(models.GeneratedProse, len(spec.Schema.Sections))
	}

	for _, sec := range spec.Schema.Sections {
		existing, present := out[sec.Key]
		if present && !existing.Empty() && existing.Kind == sec.Kind {
			continue
		}

		placeholder := fmt.Sprintf("[TO BE COMPLETED: %s]", sec.Key)
		if sec.Kind == models.SectionList {
			out[sec.Key] = models.ListSection(placeholder)
		} else {
			out[sec.Key] = models.TextSection(placeholder)
		}

		reason := "missing"
		switch {
		case present && existing.Empty():
			reason = "empty"
		case present && existing.Kind != sec.Kind:
			reason = "wrong content kind"
		}
		diags = append(diags, Diagnostic{
			Section: sec.Key,
			Message: fmt.Sprintf("required section %q was %s; placeholder injected", sec.Key, reason),
		})
	}

	if len(diags) == 0 {
		return in, nil
	}
	return out, diags
}

// IsPlaceholder reports whether a section still carries injected placeholder
// content.
func IsPlaceholder(content models.SectionContent) bool {
	if content.Kind == models.SectionList {
		return len(content.Items) == 1 && isPlaceholderText(content.Items[0])
	}
	return isPlaceholderText(content.Text)
}

func isPlaceholderText(s string) bool {
	return len(s) > 18 && s[:18] == "[TO BE COMPLETED: "
}
