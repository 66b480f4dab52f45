package calculation

import (
	"testing"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func partialDeductionsInput() domain.TaxInput {
	return domain.TaxInput{
		GrossIncome:      d(1000000),
		BasicSalary:      d(500000),
		HRAReceived:      d(100000),
		Section80C:       d(100000),
		Section80D:       d(10000),
		HomeLoanInterest: d(200000),
	}
}

func TestCategorizeIncome(t *testing.T) {
	tests := []struct {
		gross int64
		want  domain.IncomeBand
	}{
		{0, domain.IncomeBandLow},
		{499999, domain.IncomeBandLow},
		{500000, domain.IncomeBandMedium},
		{1499999, domain.IncomeBandMedium},
		{1500000, domain.IncomeBandHigh},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, CategorizeIncome(d(tt.gross)), "gross %d", tt.gross)
	}
}

func TestOptimizer_MarginalRate(t *testing.T) {
	o := NewOptimizer(domain.DefaultTaxRules())

	// old taxable 590000 sits in the 20% slab
	assertDecimal(t, "0.208", o.MarginalRate(partialDeductionsInput()))
	// old taxable 460600 sits in the 5% slab
	assertDecimal(t, "0.052", o.MarginalRate(salariedInput()))
	assertDecimal(t, "0", o.MarginalRate(domain.TaxInput{GrossIncome: d(250000)}))
}

func TestOptimizer_Summary(t *testing.T) {
	o := NewOptimizer(domain.DefaultTaxRules())

	s := o.Summary(partialDeductionsInput())
	assertDecimal(t, "310000", s.CurrentDeductions)
	assertDecimal(t, "375000", s.MaxDeductions)
	assertDecimal(t, "65000", s.AdditionalPotential)
	assertDecimal(t, "13520", s.EstimatedSavings)
	assertDecimal(t, "17.33", s.PotentialPc)

	full := o.Summary(salariedInput())
	assertDecimal(t, "375000", full.CurrentDeductions)
	assert.True(t, full.AdditionalPotential.IsZero())
	assert.True(t, full.EstimatedSavings.IsZero())

	over := o.Summary(domain.TaxInput{GrossIncome: d(2000000), Section80C: d(400000)})
	assertDecimal(t, "150000", over.CurrentDeductions, "claims above a cap do not count")
}

func TestOptimizer_Investments(t *testing.T) {
	o := NewOptimizer(domain.DefaultTaxRules())

	plan := o.Investments(partialDeductionsInput())
	assert.Equal(t, domain.IncomeBandMedium, plan.Band)
	assert.Equal(t, "Balanced approach with moderate risk", plan.Strategy)
	require.Len(t, plan.Recommendations, 2)
	assert.Equal(t, "Public Provident Fund (PPF)", plan.Recommendations[0].Instrument)
	assertDecimal(t, "50000", plan.Recommendations[0].SuggestedAmount)
	assert.Equal(t, "Risk: Low, Returns: 7-8%", plan.Recommendations[0].RiskReturn)
	assert.Equal(t, "80D", plan.Recommendations[1].Section)
	assertDecimal(t, "15000", plan.Recommendations[1].SuggestedAmount)

	high := o.Investments(domain.TaxInput{GrossIncome: d(2000000), Section80D: d(25000)})
	assert.Equal(t, domain.IncomeBandHigh, high.Band)
	require.Len(t, high.Recommendations, 3)
	total := d(0)
	for _, r := range high.Recommendations {
		assert.Equal(t, "80C", r.Section)
		total = total.Add(r.SuggestedAmount)
	}
	assertDecimal(t, "150000", total, "suggestions never exceed the headroom")
	assert.Equal(t, domain.PriorityHigh, high.Recommendations[0].Priority)
	assert.Equal(t, "Life Insurance Premium", high.Recommendations[2].Instrument)
	assert.Equal(t, domain.PriorityMedium, high.Recommendations[2].Priority)

	none := o.Investments(salariedInput())
	assert.Empty(t, none.Recommendations)
}

func TestOptimizer_ActionPlan(t *testing.T) {
	o := NewOptimizer(domain.DefaultTaxRules())

	items := o.ActionPlan(partialDeductionsInput())
	require.Len(t, items, 3)
	for i, it := range items {
		assert.Equal(t, i+1, it.Priority)
		assert.NotEmpty(t, it.Steps)
	}
	assert.Contains(t, items[0].Action, "₹50,000")
	assert.Contains(t, items[0].Impact, "₹10,400")
	assert.Contains(t, items[1].Action, "health insurance")
	assert.Contains(t, items[2].Action, "salary structure")

	items = o.ActionPlan(salariedInput())
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Priority)
}

func TestEngine_Optimize(t *testing.T) {
	report, err := NewEngine().Optimize(partialDeductionsInput())
	require.NoError(t, err)

	assert.Equal(t, domain.RegimeOld, report.Recommended)
	require.Len(t, report.Opportunities, 2)
	assert.Equal(t, "80C", report.Opportunities[0].Section)
	assert.Len(t, report.Opportunities[0].Options, 5)
	assert.Equal(t, "Low (15 years lock-in)", report.Opportunities[0].Options[0].Liquidity)
	assert.Equal(t, "80D", report.Opportunities[1].Section)
	assertDecimal(t, "15000", report.Opportunities[1].Remaining)
	assert.Len(t, report.ActionPlan, 3)

	_, err = Optimize(domain.TaxInput{})
	_, ok := domain.AsValidationError(err)
	assert.True(t, ok)
}
