// internal/docgen/render/placeholder.go
package render

import (
	"fmt"

	"loandoc-workers/internal/models"
)

// DraftPlaceholder builds the structural placeholder for a document type with
// no registered builder. Not an error state: an unimplemented type is a known,
// reportable gap.
func DraftPlaceholder(label string, deal *models.DealInput) *models.DocumentTree {
	return &models.DocumentTree{
		Title:    label,
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			{
				Heading: "Pending Implementation",
				Paragraphs: []string{
					fmt.Sprintf("The document type %q does not yet have an automated template.", label),
					"This placeholder records the requirement; the document must be prepared manually.",
				},
			},
		},
	}
}

// ErrorPlaceholder builds the payload tree for a document whose pipeline
// failed. The aggregate result set always carries one entry per requested
// type, so a failure still yields a rendered explanation.
func ErrorPlaceholder(label string, deal *models.DealInput, reason string) *models.DocumentTree {
	return &models.DocumentTree{
		Title:    label,
		Subtitle: fmt.Sprintf("Deal %s", deal.DealID),
		Sections: []models.TreeSection{
			{
				Heading: "Generation Failed",
				Paragraphs: []string{
					fmt.Sprintf("This document could not be produced: %s", reason),
					"A reviewer must regenerate or prepare this document before closing.",
				},
			},
		},
	}
}
