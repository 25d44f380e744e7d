// internal/docgen/resolver/resolver.go

// Package resolver decides which of a product line's candidate document types
// a particular deal actually needs. Applicability is separated from building
// so the rules can be tested without generating anything.
package resolver

import (
	"loandoc-workers/internal/docgen/registry"
	"loandoc-workers/internal/models"
)

// Filter returns the candidate types whose applicability predicate holds for
// the deal, preserving candidate order. A registered type with no predicate
// is always included; an unregistered type is always excluded. Predicates are
// pure functions of the deal, so filtering an already-filtered list returns
// the same list.
func Filter(deal *models.DealInput, candidates []models.DocumentTypeID) []models.DocumentTypeID {
	out := make([]models.DocumentTypeID, 0, len(candidates))
	for _, id := range candidates {
		spec, ok := registry.Lookup(id)
		if !ok {
			continue
		}
		if spec.AppliesTo != nil && !spec.AppliesTo(deal) {
			continue
		}
		out = append(out, id)
	}
	return out
}
