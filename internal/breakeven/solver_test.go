package breakeven

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

func d(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got.String())
}

func salaried() domain.TaxInput {
	return domain.TaxInput{
		GrossIncome:      d(1200000),
		BasicSalary:      d(720000),
		HRAReceived:      d(300000),
		ProvidentFund:    d(86400),
		Section80C:       d(150000),
		Section80D:       d(25000),
		HomeLoanInterest: d(200000),
	}
}

func oldCheaperAt(t *testing.T, in domain.TaxInput) bool {
	t.Helper()
	res, err := calculation.NewEngine().Calculate(in)
	require.NoError(t, err)
	return res.OldRegime.TotalTax.LessThanOrEqual(res.NewRegime.TotalTax)
}

func TestNewSolver(t *testing.T) {
	engine := calculation.NewEngine()
	options := DefaultSolverOptions()

	solver := NewSolver(engine, options)
	require.NotNil(t, solver)
	assert.Same(t, engine, solver.CalcEngine)
	assert.Equal(t, options, solver.Options)

	assert.NotNil(t, NewDefaultSolver(nil).CalcEngine, "nil engine gets a default")
}

func TestSolve_DeductionsAlreadyOld(t *testing.T) {
	res, err := NewDefaultSolver(nil).Solve(context.Background(), Request{Input: salaried(), Target: TargetDeductions})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.True(t, res.Achievable)
	assert.True(t, res.BreakEvenValue.IsZero())
	assert.Equal(t, domain.RegimeOld, res.CurrentRecommended)
	assertDecimal(t, "10951", res.CurrentOldTax)
	assertDecimal(t, "85800", res.CurrentNewTax)
	assert.Contains(t, res.ConvergenceInfo, "already")
}

func TestSolve_DeductionsBisection(t *testing.T) {
	in := domain.TaxInput{GrossIncome: d(600000)}

	res, err := NewDefaultSolver(nil).Solve(context.Background(), Request{Input: in, Target: TargetDeductions})
	require.NoError(t, err)

	// taxable 5,00,002 still rounds to the new regime's 13,000
	assertDecimal(t, "49998", res.BreakEvenValue)
	assertDecimal(t, "13000", res.OldRegimeTax)
	assertDecimal(t, "13000", res.NewRegimeTax)
	assertDecimal(t, "375000", res.Headroom)
	assert.True(t, res.Success)
	assert.True(t, res.Achievable)
	assert.Equal(t, domain.RegimeNew, res.CurrentRecommended)
	assert.LessOrEqual(t, res.Iterations, DefaultSolverOptions().MaxIterations)

	below := in
	below.OtherDeductions = res.BreakEvenValue.Sub(d(1))
	assert.False(t, oldCheaperAt(t, below))
}

func TestSolve_DeductionsCappedSearch(t *testing.T) {
	limit := d(10000)
	res, err := NewDefaultSolver(nil).Solve(context.Background(), Request{
		Input:       domain.TaxInput{GrossIncome: d(600000)},
		Target:      TargetDeductions,
		Constraints: Constraints{MaxAdditionalDeduction: &limit},
	})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.False(t, res.Achievable)
	assertDecimal(t, "10000", res.BreakEvenValue)
}

func TestSolve_DeductionsTopSlab(t *testing.T) {
	// above 15 lakh both regimes tax at 30%, so the gap is the 3,75,000
	// of capped sections less the rupee that cess rounding forgives
	res, err := NewDefaultSolver(nil).Solve(context.Background(), Request{
		Input:  domain.TaxInput{GrossIncome: d(3000000)},
		Target: TargetDeductions,
	})
	require.NoError(t, err)

	assert.True(t, res.Success)
	assertDecimal(t, "374999", res.BreakEvenValue)
	assertDecimal(t, "608400", res.OldRegimeTax)
	assertDecimal(t, "608400", res.NewRegimeTax)
	assert.True(t, res.Achievable)
}

func TestSolve_GrossIncomeCrossover(t *testing.T) {
	res, err := NewDefaultSolver(nil).Solve(context.Background(), Request{
		Input:  domain.TaxInput{GrossIncome: d(600000)},
		Target: TargetGrossIncome,
	})
	require.NoError(t, err)

	// old-regime tax first rounds to a rupee at taxable 2,50,010
	assert.True(t, res.Success)
	assertDecimal(t, "300010", res.BreakEvenValue)
	assert.Equal(t, domain.RegimeNew, res.RegimeAbove)
	assertDecimal(t, "1", res.OldRegimeTax)
	assertDecimal(t, "0", res.NewRegimeTax)
}

func TestSolve_GrossIncomeCrossoverIsExact(t *testing.T) {
	in := domain.TaxInput{GrossIncome: d(1000000), Section80C: d(150000), HomeLoanInterest: d(200000)}

	res, err := NewDefaultSolver(nil).Solve(context.Background(), Request{Input: in, Target: TargetGrossIncome})
	require.NoError(t, err)
	require.True(t, res.Success)
	assert.Equal(t, domain.RegimeNew, res.RegimeAbove)

	at, before := in, in
	at.GrossIncome = res.BreakEvenValue
	before.GrossIncome = res.BreakEvenValue.Sub(d(1))
	assert.False(t, oldCheaperAt(t, at))
	assert.True(t, oldCheaperAt(t, before))
}

func TestSolve_GrossIncomeNoCrossover(t *testing.T) {
	res, err := NewDefaultSolver(nil).Solve(context.Background(), Request{Input: salaried(), Target: TargetGrossIncome})
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.Equal(t, domain.RegimeOld, res.RegimeAbove)
	assertDecimal(t, "5000000", res.BreakEvenValue)
	assert.Contains(t, res.ConvergenceInfo, "Old Regime")
}

func TestSolve_Errors(t *testing.T) {
	solver := NewDefaultSolver(nil)
	ctx := context.Background()

	_, err := solver.Solve(ctx, Request{Input: salaried(), Target: "retirement_date"})
	var be *BreakEvenError
	require.True(t, errors.As(err, &be))
	assert.Contains(t, be.Message, "unsupported target")

	_, err = solver.Solve(ctx, Request{Input: domain.TaxInput{}, Target: TargetDeductions})
	require.Error(t, err)
	_, isValidation := domain.AsValidationError(err)
	assert.True(t, isValidation, "validation error is wrapped")

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = solver.Solve(cancelled, Request{Input: domain.TaxInput{GrossIncome: d(600000)}, Target: TargetDeductions})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyze(t *testing.T) {
	analysis, err := NewDefaultSolver(nil).Analyze(context.Background(), domain.TaxInput{GrossIncome: d(600000)}, Constraints{})
	require.NoError(t, err)

	require.NotNil(t, analysis.Deductions)
	require.NotNil(t, analysis.GrossIncome)
	require.Len(t, analysis.Recommendations, 2)
	assert.Contains(t, analysis.Recommendations[0], "₹49,998")
	assert.Contains(t, analysis.Recommendations[1], "₹3,00,010")

	table := (&TableFormatter{}).FormatAnalysis(analysis)
	assert.Contains(t, table, "BREAK-EVEN ANALYSIS")
	assert.Contains(t, table, "Extra Deduction:     ₹49,998")
	assert.Contains(t, table, "RECOMMENDATIONS")

	js, err := (&JSONFormatter{Pretty: true}).Format(analysis)
	require.NoError(t, err)
	assert.Contains(t, js, `"break_even_value": "49998"`)
}

func TestConstraints_Validate(t *testing.T) {
	neg, zero, lo, hi := d(-1), d(0), d(500000), d(400000)

	tests := []struct {
		name string
		c    Constraints
		ok   bool
	}{
		{"empty", Constraints{}, true},
		{"defaults", DefaultConstraints(), true},
		{"zero min income", Constraints{MinIncome: &zero}, false},
		{"inverted range", Constraints{MinIncome: &lo, MaxIncome: &hi}, false},
		{"negative deduction cap", Constraints{MaxAdditionalDeduction: &neg}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.c.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			var be *BreakEvenError
			assert.True(t, errors.As(err, &be))
		})
	}
}
