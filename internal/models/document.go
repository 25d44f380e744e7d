// internal/models/document.go
package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// DocumentTypeID identifies one supported document kind. The full closed set
// is registered in the document registry; nothing else is ever generated.
type DocumentTypeID string

const (
	DocPromissoryNote         DocumentTypeID = "promissory_note"
	DocLoanAgreement          DocumentTypeID = "loan_agreement"
	DocSecurityAgreement      DocumentTypeID = "security_agreement"
	DocGuaranty               DocumentTypeID = "guaranty"
	DocDeedOfTrust            DocumentTypeID = "deed_of_trust"
	DocSubordinationAgreement DocumentTypeID = "subordination_agreement"
	DocIntercreditorAgreement DocumentTypeID = "intercreditor_agreement"
	DocSBAAuthorization       DocumentTypeID = "sba_authorization"
	DocSBAForm1919            DocumentTypeID = "sba_form_1919"
	DocEnvironmentalIndemnity DocumentTypeID = "environmental_indemnity"
	DocFloodDetermination     DocumentTypeID = "flood_determination"
	DocAmortizationSchedule   DocumentTypeID = "amortization_schedule"
	DocClosingChecklist       DocumentTypeID = "closing_checklist"
)

// SectionKind distinguishes scalar prose sections from list sections.
type SectionKind int

const (
	SectionText SectionKind = iota
	SectionList
)

// SectionContent is one generated prose section: either a block of text or an
// ordered list of items, never both.
type SectionContent struct {
	Kind  SectionKind
	Text  string
	Items []string
}

// TextSection wraps a scalar string as section content.
func TextSection(s string) SectionContent {
	return SectionContent{Kind: SectionText, Text: s}
}

// ListSection wraps an ordered list as section content.
func ListSection(items ...string) SectionContent {
	return SectionContent{Kind: SectionList, Items: items}
}

// Empty reports whether the section carries no usable content.
func (s SectionContent) Empty() bool {
	if s.Kind == SectionList {
		return len(s.Items) == 0
	}
	return s.Text == ""
}

// MarshalJSON emits a plain string for scalar sections and an array for lists,
// matching the wire shape produced by the content generator.
func (s SectionContent) MarshalJSON() ([]byte, error) {
	if s.Kind == SectionList {
		return json.Marshal(s.Items)
	}
	return json.Marshal(s.Text)
}

// UnmarshalJSON accepts either a string or an array of strings.
func (s *SectionContent) UnmarshalJSON(data []byte) error {
	var text string
	if err := json.Unmarshal(data, &text); err == nil {
		*s = TextSection(text)
		return nil
	}
	var items []string
	if err := json.Unmarshal(data, &items); err == nil {
		*s = ListSection(items...)
		return nil
	}
	return fmt.Errorf("section content must be a string or an array of strings: %s", string(data))
}

// GeneratedProse maps section identifiers to generated content for one
// document type. Stages never mutate a prose value they were handed; a stage
// that changes content returns a fresh copy.
type GeneratedProse map[string]SectionContent

// Clone returns a deep copy.
func (p GeneratedProse) Clone() GeneratedProse {
	if p == nil {
		return nil
	}
	out := make(GeneratedProse, len(p))
	for k, v := range p {
		if v.Kind == SectionList {
			items := make([]string, len(v.Items))
			copy(items, v.Items)
			v.Items = items
		}
		out[k] = v
	}
	return out
}

// SectionSpec declares one required prose section for a document type.
type SectionSpec struct {
	Key  string
	Kind SectionKind
}

// ProseSchema is the fixed set of required sections for one document type.
// Zero-content document types have an empty schema.
type ProseSchema struct {
	Sections []SectionSpec
}

// Section returns the spec for a key, if declared.
func (s ProseSchema) Section(key string) (SectionSpec, bool) {
	for _, sec := range s.Sections {
		if sec.Key == key {
			return sec, true
		}
	}
	return SectionSpec{}, false
}

// Empty reports whether the schema declares no sections.
func (s ProseSchema) Empty() bool {
	return len(s.Sections) == 0
}

// DocumentStatus is the closed set of terminal outcomes for one document.
type DocumentStatus string

const (
	// StatusReviewed means review and verification both passed.
	StatusReviewed DocumentStatus = "REVIEWED"
	// StatusFlagged means review or verification failed, or the pipeline
	// errored and a placeholder result was synthesized.
	StatusFlagged DocumentStatus = "FLAGGED"
	// StatusDraft means no builder is registered for the type; the payload is
	// a structural placeholder pending implementation.
	StatusDraft DocumentStatus = "DRAFT"
)

// DocumentResult is the externally visible outcome for one document type.
// Exactly one is produced per requested type per generation run, regardless
// of upstream failures, and it is never mutated after construction.
type DocumentResult struct {
	TypeID       DocumentTypeID     `json:"typeId"`
	Label        string             `json:"label"`
	Payload      []byte             `json:"payload"`
	Review       ReviewResult       `json:"review"`
	Verification VerificationResult `json:"verification"`
	Checks       []ComplianceCheck  `json:"complianceChecks"`
	Status       DocumentStatus     `json:"status"`
	GeneratedAt  time.Time          `json:"generatedAt"`
}
