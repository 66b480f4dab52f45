package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Regime identifies one of the two personal income-tax schemes.
type Regime string

const (
	RegimeOld Regime = "old"
	RegimeNew Regime = "new"
)

// ParseRegime converts user text into a Regime.
func ParseRegime(s string) (Regime, error) {
	switch Regime(strings.ToLower(strings.TrimSpace(s))) {
	case RegimeOld:
		return RegimeOld, nil
	case RegimeNew:
		return RegimeNew, nil
	default:
		return "", fmt.Errorf("unknown regime %q (valid: old, new)", s)
	}
}

// Title returns a display name such as "Old Regime".
func (r Regime) Title() string {
	switch r {
	case RegimeOld:
		return "Old Regime"
	case RegimeNew:
		return "New Regime"
	default:
		return string(r)
	}
}

// TaxSlab is a contiguous income band taxed at a fixed marginal rate.
// A nil Upper means the band is unbounded.
type TaxSlab struct {
	Lower decimal.Decimal  `yaml:"lower" json:"lower"`
	Upper *decimal.Decimal `yaml:"upper,omitempty" json:"upper,omitempty"`
	Rate  decimal.Decimal  `yaml:"rate" json:"rate"`
}

// Unbounded reports whether the slab has no upper limit.
func (s TaxSlab) Unbounded() bool { return s.Upper == nil }

// Label renders the slab range, e.g. "₹2,50,000 - ₹5,00,000" or "Above ₹15,00,000".
func (s TaxSlab) Label() string {
	if s.Unbounded() {
		return "Above ₹" + FormatRupees(s.Lower)
	}
	return "₹" + FormatRupees(s.Lower) + " - ₹" + FormatRupees(*s.Upper)
}

// SlabTable is an ordered sequence of slabs starting at zero.
type SlabTable []TaxSlab

// Validate checks that slabs start at zero, are contiguous, end unbounded and
// carry rates between 0 and 1.
func (t SlabTable) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("slab table is empty")
	}
	if !t[0].Lower.IsZero() {
		return fmt.Errorf("first slab must start at 0, got %s", t[0].Lower)
	}
	for i, s := range t {
		if s.Rate.IsNegative() || s.Rate.GreaterThan(decimal.NewFromInt(1)) {
			return fmt.Errorf("slab %d: rate %s must be between 0 and 1", i, s.Rate)
		}
		last := i == len(t)-1
		if s.Unbounded() != last {
			if last {
				return fmt.Errorf("slab %d: last slab must be unbounded", i)
			}
			return fmt.Errorf("slab %d: only the last slab may be unbounded", i)
		}
		if !last {
			if !s.Upper.GreaterThan(s.Lower) {
				return fmt.Errorf("slab %d: upper %s must exceed lower %s", i, s.Upper, s.Lower)
			}
			if !t[i+1].Lower.Equal(*s.Upper) {
				return fmt.Errorf("slab %d: gap between %s and %s", i+1, s.Upper, t[i+1].Lower)
			}
		}
	}
	return nil
}

// Clone returns a deep copy so callers can never alias a shared table.
func (t SlabTable) Clone() SlabTable {
	out := make(SlabTable, len(t))
	for i, s := range t {
		out[i] = TaxSlab{Lower: s.Lower, Rate: s.Rate}
		if s.Upper != nil {
			upper := *s.Upper
			out[i].Upper = &upper
		}
	}
	return out
}

// MarginalRate returns the rate of the slab the next rupee above income falls in.
func (t SlabTable) MarginalRate(income decimal.Decimal) decimal.Decimal {
	for _, s := range t {
		if s.Unbounded() || income.LessThan(*s.Upper) {
			return s.Rate
		}
	}
	return decimal.Zero
}

// SlabBand is the portion of taxable income that fell into one slab.
type SlabBand struct {
	Slab         string          `json:"slab"`
	Rate         decimal.Decimal `json:"rate"`
	IncomeInSlab decimal.Decimal `json:"income_in_slab"`
	Tax          decimal.Decimal `json:"tax"`
}

// RegimeResult is the outcome of computing tax under a single regime.
type RegimeResult struct {
	Regime         Regime                     `json:"regime"`
	GrossIncome    decimal.Decimal            `json:"gross_income"`
	TaxableIncome  decimal.Decimal            `json:"taxable_income"`
	DeductionsUsed decimal.Decimal            `json:"deductions_used"`
	SlabTax        decimal.Decimal            `json:"slab_tax"`
	Cess           decimal.Decimal            `json:"cess"`
	TotalTax       decimal.Decimal            `json:"total_tax"`
	EffectiveRate  decimal.Decimal            `json:"effective_rate"`
	Breakdown      map[string]decimal.Decimal `json:"breakdown"`
	SlabBreakdown  []SlabBand                 `json:"slab_breakdown"`
}

// Recommendation names the cheaper regime and explains why.
type Recommendation struct {
	ChosenRegime      Regime          `json:"chosen_regime"`
	AnnualSavings     decimal.Decimal `json:"annual_savings"`
	SavingsPercentage decimal.Decimal `json:"savings_percentage"`
	Rationale         string          `json:"rationale"`
	Optimizations     []string        `json:"optimizations"`
}

// DeductionOpportunity describes unused headroom under a capped section.
type DeductionOpportunity struct {
	Section       string          `json:"section"`
	Description   string          `json:"description"`
	Current       decimal.Decimal `json:"current"`
	Limit         decimal.Decimal `json:"limit"`
	Remaining     decimal.Decimal `json:"remaining"`
	UtilizationPc decimal.Decimal `json:"utilization_pct"`
}

// CalculationResult is the complete output of one calculation.
type CalculationResult struct {
	Input          TaxInput               `json:"input"`
	OldRegime      RegimeResult           `json:"old_regime"`
	NewRegime      RegimeResult           `json:"new_regime"`
	Recommendation Recommendation         `json:"recommendation"`
	Opportunities  []DeductionOpportunity `json:"opportunities,omitempty"`
}

// Result returns the regime result for r.
func (c *CalculationResult) Result(r Regime) RegimeResult {
	if r == RegimeNew {
		return c.NewRegime
	}
	return c.OldRegime
}

// DeductionCatalogueEntry describes a deduction section and its limit.
type DeductionCatalogueEntry struct {
	Section           string           `json:"section"`
	Description       string           `json:"description"`
	Limit             *decimal.Decimal `json:"limit,omitempty"`
	ApplicableRegimes []Regime         `json:"applicable_regimes"`
}

// SimulationScenario is a named set of deductions tried against a fixed income.
type SimulationScenario struct {
	Name  string   `yaml:"name" json:"name"`
	Input TaxInput `yaml:"deductions" json:"deductions"`
}

// SimulationRow is one line of a what-if simulation.
type SimulationRow struct {
	Scenario      string          `json:"scenario"`
	Input         TaxInput        `json:"deductions"`
	OldRegimeTax  decimal.Decimal `json:"old_regime_tax"`
	NewRegimeTax  decimal.Decimal `json:"new_regime_tax"`
	Recommended   Regime          `json:"recommended"`
	SavingsVsBase decimal.Decimal `json:"savings_vs_base"`
}

// FormatRupees groups digits the Indian way: 12,34,567.
func FormatRupees(d decimal.Decimal) string {
	neg := d.IsNegative()
	s := d.Abs().Round(0).StringFixed(0)
	if len(s) > 3 {
		head, tail := s[:len(s)-3], s[len(s)-3:]
		var parts []string
		for len(head) > 2 {
			parts = append([]string{head[len(head)-2:]}, parts...)
			head = head[:len(head)-2]
		}
		if head != "" {
			parts = append([]string{head}, parts...)
		}
		s = strings.Join(parts, ",") + "," + tail
	}
	if neg {
		return "-" + s
	}
	return s
}

// SimulationResult compares what-if scenarios against a no-deduction base.
type SimulationResult struct {
	GrossIncome decimal.Decimal `json:"gross_income"`
	Base        SimulationRow   `json:"base"`
	Scenarios   []SimulationRow `json:"scenarios"`
}

// Best returns the row with the lowest recommended tax, preferring the earliest.
func (s *SimulationResult) Best() SimulationRow {
	best := s.Base
	for _, row := range s.Scenarios {
		if row.BestTax().LessThan(best.BestTax()) {
			best = row
		}
	}
	return best
}

// BestTax is the tax under the recommended regime.
func (r SimulationRow) BestTax() decimal.Decimal {
	if r.Recommended == RegimeNew {
		return r.NewRegimeTax
	}
	return r.OldRegimeTax
}
