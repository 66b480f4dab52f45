package calculation

import (
	"fmt"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

// SuggestionEngine evaluates the optimisation rules against a calculation.
type SuggestionEngine struct {
	rules domain.TaxRules
}

// NewSuggestionEngine creates a suggestion engine for the given rules.
func NewSuggestionEngine(rules domain.TaxRules) *SuggestionEngine {
	return &SuggestionEngine{rules: rules}
}

// Suggestions returns the optimisation hints in fixed rule order.
// Duplicate text is not filtered.
func (s *SuggestionEngine) Suggestions(in domain.TaxInput, oldResult, newResult domain.RegimeResult) []string {
	chosen := SelectRecommendation(oldResult, newResult).ChosenRegime
	limits := s.rules.Limits
	suggestions := []string{}

	if chosen == domain.RegimeOld {
		if in.Section80C.LessThan(limits.Section80C) {
			suggestions = append(suggestions, fmt.Sprintf(
				"Invest ₹%s more in Section 80C instruments (PPF, ELSS, EPF, life insurance) to reach the ₹%s limit.",
				domain.FormatRupees(limits.Section80C.Sub(in.Section80C)), domain.FormatRupees(limits.Section80C)))
		}
		if in.Section80D.LessThan(limits.Section80D) {
			suggestions = append(suggestions, fmt.Sprintf(
				"Increase health insurance coverage to claim up to ₹%s under Section 80D.",
				domain.FormatRupees(limits.Section80D)))
		}
	}

	if chosen == domain.RegimeNew {
		diff := oldResult.TotalTax.Sub(newResult.TotalTax).Abs()
		suggestions = append(suggestions, fmt.Sprintf(
			"Consider switching to the New Regime and investing the ₹%s tax difference.",
			domain.FormatRupees(diff)))
	}

	hraCeiling := in.BasicSalary.Mul(s.rules.HRA.BasicCeilingRate)
	if in.HRAReceived.LessThan(hraCeiling) {
		suggestions = append(suggestions, fmt.Sprintf(
			"Additional HRA of up to ₹%s could be claimed; consider restructuring your salary.",
			domain.FormatRupees(hraCeiling.Sub(in.HRAReceived))))
	}

	return suggestions
}

// GenerateSuggestions evaluates the optimisation rules under the default rules.
func GenerateSuggestions(in domain.TaxInput, oldResult, newResult domain.RegimeResult) []string {
	return NewSuggestionEngine(domain.DefaultTaxRules()).Suggestions(in, oldResult, newResult)
}

// Opportunities reports headroom left under each capped old-regime section.
func (s *SuggestionEngine) Opportunities(in domain.TaxInput) []domain.DeductionOpportunity {
	limits := s.rules.Limits
	sections := []struct {
		name, description string
		current, limit    decimal.Decimal
	}{
		{"80C", "Investments in PPF, ELSS, EPF, NSC and life insurance", in.Section80C, limits.Section80C},
		{"80D", "Health insurance premiums for self and family", in.Section80D, limits.Section80D},
		{"24(b)", "Interest on a home loan for a self-occupied property", in.HomeLoanInterest, limits.HomeLoanInterest},
	}

	var out []domain.DeductionOpportunity
	for _, sec := range sections {
		if !sec.limit.IsPositive() {
			continue
		}
		used := decimal.Min(sec.current, sec.limit)
		remaining := sec.limit.Sub(used)
		if !remaining.IsPositive() {
			continue
		}
		out = append(out, domain.DeductionOpportunity{
			Section:       sec.name,
			Description:   sec.description,
			Current:       sec.current,
			Limit:         sec.limit,
			Remaining:     remaining,
			UtilizationPc: used.Mul(hundred).Div(sec.limit).Round(2),
		})
	}
	return out
}

// DeductionOpportunities reports section headroom under the default rules.
func DeductionOpportunities(in domain.TaxInput) []domain.DeductionOpportunity {
	return NewSuggestionEngine(domain.DefaultTaxRules()).Opportunities(in)
}

// DeductionCatalogue lists the deduction sections, their limits and where they apply.
func DeductionCatalogue(rules domain.TaxRules) []domain.DeductionCatalogueEntry {
	limit := func(d decimal.Decimal) *decimal.Decimal { return &d }
	both := []domain.Regime{domain.RegimeOld, domain.RegimeNew}
	oldOnly := []domain.Regime{domain.RegimeOld}
	return []domain.DeductionCatalogueEntry{
		{Section: LineStandardDeduction, Description: "Flat deduction for salaried taxpayers", Limit: limit(rules.StandardDeduction), ApplicableRegimes: both},
		{Section: LineHRAExemption, Description: "House rent allowance, limited to a share of basic salary", ApplicableRegimes: oldOnly},
		{Section: LineSection80C, Description: "PPF, ELSS, EPF, NSC, life insurance premiums", Limit: limit(rules.Limits.Section80C), ApplicableRegimes: oldOnly},
		{Section: LineSection80D, Description: "Health insurance premiums and preventive check-ups", Limit: limit(rules.Limits.Section80D), ApplicableRegimes: oldOnly},
		{Section: LineSection24B, Description: "Home loan interest on a self-occupied property", Limit: limit(rules.Limits.HomeLoanInterest), ApplicableRegimes: oldOnly},
		{Section: LineProvidentFund, Description: "Employee provident fund contributions", ApplicableRegimes: oldOnly},
		{Section: LineOtherDeductions, Description: "Other eligible deductions such as 80G donations", ApplicableRegimes: oldOnly},
	}
}
