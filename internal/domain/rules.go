package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxRules contains the statutory figures for one financial year.
// Defaults come from DefaultTaxRules and may be overridden from a rules.yaml file.
type TaxRules struct {
	Metadata          RulesMetadata   `yaml:"metadata" json:"metadata"`
	StandardDeduction decimal.Decimal `yaml:"standard_deduction" json:"standard_deduction"`
	CessRate          decimal.Decimal `yaml:"cess_rate" json:"cess_rate"`
	Limits            DeductionLimits `yaml:"limits" json:"limits"`
	HRA               HRARules        `yaml:"hra" json:"hra"`
	OldRegimeSlabs    SlabTable       `yaml:"old_regime_slabs" json:"old_regime_slabs"`
	NewRegimeSlabs    SlabTable       `yaml:"new_regime_slabs" json:"new_regime_slabs"`
}

// RulesMetadata describes where a rule set comes from.
type RulesMetadata struct {
	FinancialYear string `yaml:"financial_year" json:"financial_year"`
	Description   string `yaml:"description" json:"description"`
}

// DeductionLimits caps the old-regime deduction sections.
type DeductionLimits struct {
	Section80C       decimal.Decimal `yaml:"section_80c" json:"section_80c"`
	Section80D       decimal.Decimal `yaml:"section_80d" json:"section_80d"`
	HomeLoanInterest decimal.Decimal `yaml:"home_loan_interest" json:"home_loan_interest"`
}

// HRARules holds the basic-salary fractions used by the HRA exemption.
type HRARules struct {
	BasicCeilingRate decimal.Decimal `yaml:"basic_ceiling_rate" json:"basic_ceiling_rate"`
	BasicExcessRate  decimal.Decimal `yaml:"basic_excess_rate" json:"basic_excess_rate"`
}

func upper(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

// DefaultTaxRules returns the FY 2023-24 figures.
func DefaultTaxRules() TaxRules {
	return TaxRules{
		Metadata: RulesMetadata{
			FinancialYear: "2023-24",
			Description:   "Individual resident below 60, FY 2023-24",
		},
		StandardDeduction: decimal.NewFromInt(50000),
		CessRate:          decimal.NewFromFloat(0.04),
		Limits: DeductionLimits{
			Section80C:       decimal.NewFromInt(150000),
			Section80D:       decimal.NewFromInt(25000),
			HomeLoanInterest: decimal.NewFromInt(200000),
		},
		HRA: HRARules{
			BasicCeilingRate: decimal.NewFromFloat(0.5),
			BasicExcessRate:  decimal.NewFromFloat(0.1),
		},
		OldRegimeSlabs: SlabTable{
			{Lower: decimal.Zero, Upper: upper(250000), Rate: decimal.Zero},
			{Lower: decimal.NewFromInt(250000), Upper: upper(500000), Rate: decimal.NewFromFloat(0.05)},
			{Lower: decimal.NewFromInt(500000), Upper: upper(1000000), Rate: decimal.NewFromFloat(0.20)},
			{Lower: decimal.NewFromInt(1000000), Rate: decimal.NewFromFloat(0.30)},
		},
		NewRegimeSlabs: SlabTable{
			{Lower: decimal.Zero, Upper: upper(300000), Rate: decimal.Zero},
			{Lower: decimal.NewFromInt(300000), Upper: upper(600000), Rate: decimal.NewFromFloat(0.05)},
			{Lower: decimal.NewFromInt(600000), Upper: upper(900000), Rate: decimal.NewFromFloat(0.10)},
			{Lower: decimal.NewFromInt(900000), Upper: upper(1200000), Rate: decimal.NewFromFloat(0.15)},
			{Lower: decimal.NewFromInt(1200000), Upper: upper(1500000), Rate: decimal.NewFromFloat(0.20)},
			{Lower: decimal.NewFromInt(1500000), Rate: decimal.NewFromFloat(0.30)},
		},
	}
}

// Slabs returns a copy of the slab table for the regime.
func (r TaxRules) Slabs(regime Regime) SlabTable {
	if regime == RegimeNew {
		return r.NewRegimeSlabs.Clone()
	}
	return r.OldRegimeSlabs.Clone()
}

// Validate checks that the rule set is internally consistent.
func (r TaxRules) Validate() error {
	if r.StandardDeduction.IsNegative() {
		return fmt.Errorf("standard_deduction cannot be negative")
	}
	if r.CessRate.IsNegative() || r.CessRate.GreaterThan(decimal.NewFromInt(1)) {
		return fmt.Errorf("cess_rate must be between 0 and 1")
	}
	for name, v := range map[string]decimal.Decimal{
		"limits.section_80c":        r.Limits.Section80C,
		"limits.section_80d":        r.Limits.Section80D,
		"limits.home_loan_interest": r.Limits.HomeLoanInterest,
		"hra.basic_ceiling_rate":    r.HRA.BasicCeilingRate,
		"hra.basic_excess_rate":     r.HRA.BasicExcessRate,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%s cannot be negative", name)
		}
	}
	if err := r.OldRegimeSlabs.Validate(); err != nil {
		return fmt.Errorf("old_regime_slabs: %w", err)
	}
	if err := r.NewRegimeSlabs.Validate(); err != nil {
		return fmt.Errorf("new_regime_slabs: %w", err)
	}
	return nil
}
