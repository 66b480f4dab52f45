package calculation

import (
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

// Breakdown line-item names.
const (
	LineStandardDeduction = "Standard Deduction"
	LineHRAExemption      = "HRA Exemption"
	LineSection80C        = "Section 80C"
	LineSection80D        = "Section 80D"
	LineSection24B        = "Section 24(b)"
	LineOtherDeductions   = "Other Deductions"
	LineProvidentFund     = "Provident Fund"
)

// Deductions holds the amounts actually applied under one regime.
// Fields a regime does not allow stay zero.
type Deductions struct {
	Regime            domain.Regime
	StandardDeduction decimal.Decimal
	HRAExemption      decimal.Decimal
	Section80C        decimal.Decimal
	Section80D        decimal.Decimal
	HomeLoanInterest  decimal.Decimal
	OtherDeductions   decimal.Decimal
	ProvidentFund     decimal.Decimal
}

// Total sums every applied deduction.
func (d Deductions) Total() decimal.Decimal {
	return d.StandardDeduction.
		Add(d.HRAExemption).
		Add(d.Section80C).
		Add(d.Section80D).
		Add(d.HomeLoanInterest).
		Add(d.OtherDeductions).
		Add(d.ProvidentFund)
}

// Breakdown returns the named line items. The new regime only reports the
// standard deduction.
func (d Deductions) Breakdown() map[string]decimal.Decimal {
	if d.Regime == domain.RegimeNew {
		return map[string]decimal.Decimal{LineStandardDeduction: d.StandardDeduction}
	}
	return map[string]decimal.Decimal{
		LineStandardDeduction: d.StandardDeduction,
		LineHRAExemption:      d.HRAExemption,
		LineSection80C:        d.Section80C,
		LineSection80D:        d.Section80D,
		LineSection24B:        d.HomeLoanInterest,
		LineOtherDeductions:   d.OtherDeductions,
		LineProvidentFund:     d.ProvidentFund,
	}
}

// TaxableIncome is gross minus the applied deductions, floored at zero.
func (d Deductions) TaxableIncome(gross decimal.Decimal) decimal.Decimal {
	return decimal.Max(decimal.Zero, gross.Sub(d.Total()))
}

// DeductionResolver computes eligible deductions from raw inputs.
type DeductionResolver struct {
	rules domain.TaxRules
}

// NewDeductionResolver creates a resolver for the given rules.
func NewDeductionResolver(rules domain.TaxRules) *DeductionResolver {
	return &DeductionResolver{rules: rules}
}

// Resolve dispatches to the regime-specific rules.
func (r *DeductionResolver) Resolve(regime domain.Regime, in domain.TaxInput) Deductions {
	if regime == domain.RegimeNew {
		return r.NewRegime(in)
	}
	return r.OldRegime(in)
}

// OldRegime applies the standard deduction, HRA exemption and the capped
// sections. Amounts above a cap are truncated without error.
func (r *DeductionResolver) OldRegime(in domain.TaxInput) Deductions {
	limits := r.rules.Limits
	return Deductions{
		Regime:            domain.RegimeOld,
		StandardDeduction: r.rules.StandardDeduction,
		HRAExemption:      r.HRAExemption(in),
		Section80C:        decimal.Min(in.Section80C, limits.Section80C),
		Section80D:        decimal.Min(in.Section80D, limits.Section80D),
		HomeLoanInterest:  decimal.Min(in.HomeLoanInterest, limits.HomeLoanInterest),
		OtherDeductions:   in.OtherDeductions,
		ProvidentFund:     in.ProvidentFund,
	}
}

// NewRegime applies only the standard deduction; itemised amounts are ignored.
func (r *DeductionResolver) NewRegime(in domain.TaxInput) Deductions {
	return Deductions{
		Regime:            domain.RegimeNew,
		StandardDeduction: r.rules.StandardDeduction,
	}
}

// HRAExemption returns min(hra, 50% of basic, hra - 10% of basic), floored at zero.
//
// NOTE: the statutory rule uses rent paid minus 10% of basic as the third term
// and a 40% ceiling outside metro cities. This uses HRA received in place of
// rent paid; the figures are kept for compatibility with existing results.
func (r *DeductionResolver) HRAExemption(in domain.TaxInput) decimal.Decimal {
	ceiling := in.BasicSalary.Mul(r.rules.HRA.BasicCeilingRate)
	excess := in.HRAReceived.Sub(in.BasicSalary.Mul(r.rules.HRA.BasicExcessRate))
	exemption := decimal.Min(in.HRAReceived, ceiling, excess)
	return decimal.Max(decimal.Zero, exemption)
}

// ResolveOldRegimeDeductions resolves old-regime deductions under the default rules.
func ResolveOldRegimeDeductions(in domain.TaxInput) Deductions {
	return NewDeductionResolver(domain.DefaultTaxRules()).OldRegime(in)
}

// ResolveNewRegimeDeductions resolves new-regime deductions under the default rules.
func ResolveNewRegimeDeductions(in domain.TaxInput) Deductions {
	return NewDeductionResolver(domain.DefaultTaxRules()).NewRegime(in)
}
