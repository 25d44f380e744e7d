// internal/docgen/prose/validator_test.go
package prose

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"loandoc-workers/internal/models"
)

func completeNoteProse() models.GeneratedProse {
	return models.GeneratedProse{
		"payment_terms":      models.TextSection("Equal monthly installments of principal and interest."),
		"prepayment":         models.TextSection("Prepayable in whole or in part without penalty."),
		"default_provisions": models.TextSection("Failure to pay within ten days is an Event of Default."),
	}
}

func TestEnsureShape_CompleteProseUnchanged(t *testing.T) {
	in := completeNoteProse()

	out, diags := EnsureShape(models.DocPromissoryNote, in)

	assert.Empty(t, diags)
	assert.Equal(t, in, out)
}

func TestEnsureShape_InjectsPlaceholders(t *testing.T) {
	in := models.GeneratedProse{
		"payment_terms": models.TextSection("Equal monthly installments."),
	}

	out, diags := EnsureShape(models.DocPromissoryNote, in)

	require.Len(t, diags, 2)
	assert.Equal(t, "Equal monthly installments.", out["payment_terms"].Text)
	assert.True(t, IsPlaceholder(out["prepayment"]))
	assert.True(t, IsPlaceholder(out["default_provisions"]))

	// The input must not have been touched.
	_, present := in["prepayment"]
	assert.False(t, present)
}

func TestEnsureShape_ListSectionsGetOneElementPlaceholder(t *testing.T) {
	out, diags := EnsureShape(models.DocLoanAgreement, models.GeneratedProse{
		"recitals": models.TextSection("WHEREAS, the Borrower has requested the Loan."),
	})

	require.NotEmpty(t, diags)
	reps := out["representations"]
	assert.Equal(t, models.SectionList, reps.Kind)
	require.Len(t, reps.Items, 1)
	assert.True(t, IsPlaceholder(reps))
}

func TestEnsureShape_WrongKindReplaced(t *testing.T) {
	out, diags := EnsureShape(models.DocLoanAgreement, models.GeneratedProse{
		// representations must be a list, generator returned a scalar
		"representations": models.TextSection("The Borrower is duly organized."),
	})

	require.NotEmpty(t, diags)
	assert.Equal(t, models.SectionList, out["representations"].Kind)

	var found bool
	for _, d := range diags {
		if d.Section == "representations" {
			found = true
			assert.Contains(t, d.Message, "wrong content kind")
		}
	}
	assert.True(t, found)
}

func TestEnsureShape_Idempotent(t *testing.T) {
	first, diags1 := EnsureShape(models.DocPromissoryNote, nil)
	require.NotEmpty(t, diags1)

	second, diags2 := EnsureShape(models.DocPromissoryNote, first)
	assert.Empty(t, diags2)
	assert.Equal(t, first, second)
}

func TestEnsureShape_NoSchemaIsNoOp(t *testing.T) {
	in := models.GeneratedProse{"anything": models.TextSection("x")}

	out, diags := EnsureShape(models.DocAmortizationSchedule, in)

	assert.Empty(t, diags)
	assert.Equal(t, in, out)

	out, diags = EnsureShape(models.DocumentTypeID("unknown_type"), in)
	assert.Empty(t, diags)
	assert.Equal(t, in, out)
}
