package calculation

import (
	"testing"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelectRecommendation(t *testing.T) {
	oldResult := domain.RegimeResult{Regime: domain.RegimeOld, TotalTax: d(54600), DeductionsUsed: d(200000)}
	newResult := domain.RegimeResult{Regime: domain.RegimeNew, TotalTax: d(31720)}

	rec := SelectRecommendation(oldResult, newResult)
	assert.Equal(t, domain.RegimeNew, rec.ChosenRegime)
	assertDecimal(t, "22880", rec.AnnualSavings)
	assertDecimal(t, "41.9", rec.SavingsPercentage)
	assert.Contains(t, rec.Rationale, "New Regime")
	assert.Contains(t, rec.Rationale, "slab")

	rec = SelectRecommendation(newResult, oldResult)
	assert.Equal(t, domain.RegimeOld, rec.ChosenRegime)
	assert.Contains(t, rec.Rationale, "deductions")
}

func TestSelectRecommendation_BothZero(t *testing.T) {
	rec := SelectRecommendation(domain.RegimeResult{}, domain.RegimeResult{})
	assert.Equal(t, domain.RegimeOld, rec.ChosenRegime)
	assert.True(t, rec.AnnualSavings.IsZero())
	assert.True(t, rec.SavingsPercentage.IsZero())
}

func TestGenerateSuggestions_OldRegimeOrder(t *testing.T) {
	in := domain.TaxInput{
		GrossIncome:      d(1000000),
		BasicSalary:      d(500000),
		HRAReceived:      d(100000),
		Section80C:       d(100000),
		Section80D:       d(10000),
		HomeLoanInterest: d(200000),
	}
	res, err := NewEngine().Calculate(in)
	require.NoError(t, err)
	assertDecimal(t, "31720", res.OldRegime.TotalTax)
	assertDecimal(t, "54600", res.NewRegime.TotalTax)

	got := GenerateSuggestions(in, res.OldRegime, res.NewRegime)
	require.Len(t, got, 3)
	assert.Contains(t, got[0], "80C")
	assert.Contains(t, got[0], "50,000")
	assert.Contains(t, got[1], "health insurance")
	assert.Contains(t, got[2], "1,50,000")
	assert.Equal(t, got, res.Recommendation.Optimizations)
}

func TestGenerateSuggestions_NewRegime(t *testing.T) {
	in := domain.TaxInput{GrossIncome: d(1500000), BasicSalary: d(600000), HRAReceived: d(100000)}
	res, err := NewEngine().Calculate(in)
	require.NoError(t, err)
	require.Equal(t, domain.RegimeNew, res.Recommendation.ChosenRegime)

	got := GenerateSuggestions(in, res.OldRegime, res.NewRegime)
	require.Len(t, got, 2)
	assert.Contains(t, got[0], "switching")
	assert.Contains(t, got[1], "HRA")
	for _, s := range got {
		assert.NotContains(t, s, "80C", "old-regime hints must not appear when new wins")
	}
}

func TestGenerateSuggestions_TieUsesOldRegimeRules(t *testing.T) {
	in := domain.TaxInput{GrossIncome: d(600000)}
	same := domain.RegimeResult{TotalTax: d(13000)}

	first := GenerateSuggestions(in, same, same)
	require.Len(t, first, 2)
	assert.Contains(t, first[0], "80C")
	assert.Contains(t, first[1], "80D")
	assert.Equal(t, first, GenerateSuggestions(in, same, same))
}

func TestDeductionOpportunities(t *testing.T) {
	ops := DeductionOpportunities(domain.TaxInput{
		GrossIncome:      d(1000000),
		Section80C:       d(50000),
		Section80D:       d(25000),
		HomeLoanInterest: d(0),
	})

	require.Len(t, ops, 2)
	assert.Equal(t, "80C", ops[0].Section)
	assertDecimal(t, "100000", ops[0].Remaining)
	assertDecimal(t, "33.33", ops[0].UtilizationPc)
	assert.Equal(t, "24(b)", ops[1].Section)
	assertDecimal(t, "0", ops[1].UtilizationPc)
}

func TestDeductionCatalogue(t *testing.T) {
	cat := DeductionCatalogue(domain.DefaultTaxRules())
	require.NotEmpty(t, cat)

	assert.Equal(t, LineStandardDeduction, cat[0].Section)
	assert.ElementsMatch(t, []domain.Regime{domain.RegimeOld, domain.RegimeNew}, cat[0].ApplicableRegimes)

	for _, entry := range cat {
		if entry.Section == LineSection80C {
			require.NotNil(t, entry.Limit)
			assertDecimal(t, "150000", *entry.Limit)
		}
	}
}
