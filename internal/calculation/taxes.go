package calculation

import (
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

// TAX CALCULATION ASSUMPTIONS:
//
// 1. Slabs: FY 2023-24 tables for individuals below 60, applied to every input.
//    No surcharge is levied at any income level.
//
// 2. Cess: 4% health and education cess on slab tax, identical for both regimes.
//
// 3. Rebate under section 87A is not applied, so small incomes may show a
//    positive liability under either regime.
//
// 4. Rounding: only TotalTax (to the rupee, half away from zero) and
//    EffectiveRate (2 dp) are rounded, each from the unrounded total.

var hundred = decimal.NewFromInt(100)

// ComputeSlabTax applies a progressive slab table to taxable income.
// No rounding is applied.
func ComputeSlabTax(taxable decimal.Decimal, table domain.SlabTable) decimal.Decimal {
	tax, _ := slabTax(taxable, table)
	return tax
}

func slabTax(taxable decimal.Decimal, table domain.SlabTable) (decimal.Decimal, []domain.SlabBand) {
	var total decimal.Decimal
	var bands []domain.SlabBand
	for _, slab := range table {
		if taxable.LessThanOrEqual(slab.Lower) {
			break
		}
		top := taxable
		if !slab.Unbounded() {
			top = decimal.Min(taxable, *slab.Upper)
		}
		incomeInSlab := top.Sub(slab.Lower)
		tax := incomeInSlab.Mul(slab.Rate)
		total = total.Add(tax)
		bands = append(bands, domain.SlabBand{
			Slab:         slab.Label(),
			Rate:         slab.Rate,
			IncomeInSlab: incomeInSlab,
			Tax:          tax,
		})
	}
	return total, bands
}

// RegimeCalculator computes the liability under one regime.
type RegimeCalculator struct {
	Regime   domain.Regime
	Slabs    domain.SlabTable
	CessRate decimal.Decimal
	resolver *DeductionResolver
}

// NewRegimeCalculator creates a calculator for regime using rules.
func NewRegimeCalculator(regime domain.Regime, rules domain.TaxRules) *RegimeCalculator {
	return &RegimeCalculator{
		Regime:   regime,
		Slabs:    rules.Slabs(regime),
		CessRate: rules.CessRate,
		resolver: NewDeductionResolver(rules),
	}
}

// Calculate computes the result for an input that has already been validated.
func (rc *RegimeCalculator) Calculate(in domain.TaxInput) domain.RegimeResult {
	deductions := rc.resolver.Resolve(rc.Regime, in)
	taxable := deductions.TaxableIncome(in.GrossIncome)

	slab, bands := slabTax(taxable, rc.Slabs)
	cess := slab.Mul(rc.CessRate)
	total := slab.Add(cess)

	var effective decimal.Decimal
	if in.GrossIncome.IsPositive() {
		effective = total.Mul(hundred).Div(in.GrossIncome).Round(2)
	}

	return domain.RegimeResult{
		Regime:         rc.Regime,
		GrossIncome:    in.GrossIncome,
		TaxableIncome:  taxable,
		DeductionsUsed: deductions.Total(),
		SlabTax:        slab,
		Cess:           cess,
		TotalTax:       total.Round(0),
		EffectiveRate:  effective,
		Breakdown:      deductions.Breakdown(),
		SlabBreakdown:  bands,
	}
}
