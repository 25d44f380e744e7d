// internal/docgen/registry/registry.go

// Package registry holds the closed table of supported document types. Each
// stage looks its per-type behavior up here instead of switching on type ids,
// so adding a document type touches exactly one table.
package registry

import (
	"strings"

	"loandoc-workers/internal/docgen/render"
	"loandoc-workers/internal/models"
)

// Spec is the registered behavior for one document type.
type Spec struct {
	TypeID models.DocumentTypeID
	Label  string

	// ZeroContent marks types fully derived from deal data: no prose
	// generation, no compliance review.
	ZeroContent bool

	// Schema is the fixed set of required prose sections. Empty for
	// zero-content types.
	Schema models.ProseSchema

	// AppliesTo decides whether a deal needs this document. A nil predicate
	// means the type is always included when requested.
	AppliesTo func(deal *models.DealInput) bool

	// Build produces the document tree. A nil builder means the type renders
	// as a DRAFT structural placeholder.
	Build render.BuilderFunc
}

func text(key string) models.SectionSpec {
	return models.SectionSpec{Key: key, Kind: models.SectionText}
}

func list(key string) models.SectionSpec {
	return models.SectionSpec{Key: key, Kind: models.SectionList}
}

var specs = map[models.DocumentTypeID]Spec{
	models.DocPromissoryNote: {
		TypeID: models.DocPromissoryNote,
		Label:  "Promissory Note",
		Schema: models.ProseSchema{Sections: []models.SectionSpec{
			text("payment_terms"),
			text("prepayment"),
			text("default_provisions"),
		}},
		Build: render.BuildPromissoryNote,
	},
	models.DocLoanAgreement: {
		TypeID: models.DocLoanAgreement,
		Label:  "Loan Agreement",
		Schema: models.ProseSchema{Sections: []models.SectionSpec{
			text("recitals"),
			list("representations"),
			list("affirmative_covenants"),
			list("negative_covenants"),
			list("events_of_default"),
		}},
		Build: render.BuildLoanAgreement,
	},
	models.DocSecurityAgreement: {
		TypeID: models.DocSecurityAgreement,
		Label:  "Security Agreement",
		Schema: models.ProseSchema{Sections: []models.SectionSpec{
			text("granting_clause"),
			text("collateral_description"),
			list("remedies"),
		}},
		AppliesTo: func(deal *models.DealInput) bool {
			return len(deal.Collateral) > 0
		},
		Build: render.BuildSecurityAgreement,
	},
	models.DocGuaranty: {
		TypeID: models.DocGuaranty,
		Label:  "Personal Guaranty",
		Schema: models.ProseSchema{Sections: []models.SectionSpec{
			text("guaranty_scope"),
			list("waivers"),
		}},
		AppliesTo: func(deal *models.DealInput) bool {
			return deal.PersonalGuaranty
		},
		Build: render.BuildGuaranty,
	},
	models.DocDeedOfTrust: {
		TypeID: models.DocDeedOfTrust,
		Label:  "Deed of Trust",
		Schema: models.ProseSchema{Sections: []models.SectionSpec{
			text("property_description"),
			text("granting_clause"),
			text("power_of_sale"),
		}},
		AppliesTo: func(deal *models.DealInput) bool {
			return deal.HasCollateral(models.CollateralRealProperty)
		},
		Build: render.BuildDeedOfTrust,
	},
	models.DocSubordinationAgreement: {
		TypeID: models.DocSubordinationAgreement,
		Label:  "Subordination Agreement",
		Schema: models.ProseSchema{Sections: []models.SectionSpec{
			text("subordination_terms"),
			text("standstill"),
		}},
		AppliesTo: func(deal *models.DealInput) bool {
			return deal.SubordinateCreditor != ""
		},
		Build: render.BuildSubordinationAgreement,
	},
	models.DocIntercreditorAgreement: {
		TypeID: models.DocIntercreditorAgreement,
		Label:  "Intercreditor Agreement",
		Schema: models.ProseSchema{Sections: []models.SectionSpec{
			text("lien_priority"),
			list("payment_waterfall"),
			text("enforcement_rights"),
		}},
		AppliesTo: func(deal *models.DealInput) bool {
			return deal.SecondLienLender != ""
		},
		Build: render.BuildIntercreditorAgreement,
	},
	models.DocSBAAuthorization: {
		TypeID: models.DocSBAAuthorization,
		Label:  "SBA Loan Authorization",
		Schema: models.ProseSchema{Sections: []models.SectionSpec{
			list("use_of_proceeds"),
			list("special_conditions"),
		}},
		AppliesTo: func(deal *models.DealInput) bool {
			return strings.HasPrefix(deal.ProgramID, "SBA")
		},
		Build: render.BuildSBAAuthorization,
	},
	models.DocSBAForm1919: {
		TypeID: models.DocSBAForm1919,
		Label:  "SBA Form 1919",
		Schema: models.ProseSchema{Sections: []models.SectionSpec{
			list("applicant_disclosures"),
		}},
		// Form 1919 is specific to the 7(a) program; other SBA programs use
		// their own borrower forms.
		AppliesTo: func(deal *models.DealInput) bool {
			return strings.HasPrefix(deal.ProgramID, "SBA7A")
		},
		Build: render.BuildSBAForm1919,
	},
	models.DocEnvironmentalIndemnity: {
		TypeID: models.DocEnvironmentalIndemnity,
		Label:  "Environmental Indemnity Agreement",
		Schema: models.ProseSchema{Sections: []models.SectionSpec{
			text("indemnity_scope"),
			list("covered_conditions"),
		}},
		AppliesTo: func(deal *models.DealInput) bool {
			return deal.HasCollateral(models.CollateralRealProperty)
		},
		// No builder yet: renders as a DRAFT placeholder.
	},
	models.DocFloodDetermination: {
		TypeID:      models.DocFloodDetermination,
		Label:       "Flood Hazard Determination",
		ZeroContent: true,
		AppliesTo: func(deal *models.DealInput) bool {
			return deal.HasCollateral(models.CollateralRealProperty)
		},
		Build: render.BuildFloodDetermination,
	},
	models.DocAmortizationSchedule: {
		TypeID:      models.DocAmortizationSchedule,
		Label:       "Amortization Schedule",
		ZeroContent: true,
		Build:       render.BuildAmortizationSchedule,
	},
	models.DocClosingChecklist: {
		TypeID:      models.DocClosingChecklist,
		Label:       "Closing Checklist",
		ZeroContent: true,
		Build:       render.BuildClosingChecklist,
	},
}

// Lookup returns the spec for a document type.
func Lookup(id models.DocumentTypeID) (Spec, bool) {
	spec, ok := specs[id]
	return spec, ok
}

// All returns every registered spec. Order is unspecified.
func All() []Spec {
	out := make([]Spec, 0, len(specs))
	for _, spec := range specs {
		out = append(out, spec)
	}
	return out
}

// Label returns the human label for a type id, falling back to the raw id
// for unregistered types.
func Label(id models.DocumentTypeID) string {
	if spec, ok := specs[id]; ok {
		return spec.Label
	}
	return string(id)
}
