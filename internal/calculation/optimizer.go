package calculation

import (
	"fmt"
	"slices"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

var (
	lowBandCeiling            = decimal.NewFromInt(500000)
	mediumBandCeiling         = decimal.NewFromInt(1500000)
	maxSuggestedPerInstrument = decimal.NewFromInt(50000)
)

// instrumentCatalogue lists the qualifying instruments per section.
var instrumentCatalogue = map[string][]domain.InvestmentOption{
	"80C": {
		{Code: "PPF", Instrument: "Public Provident Fund (PPF)", Description: "Tax-free returns after 15 years", Risk: "Low", Returns: "7-8%", Liquidity: "Low (15 years lock-in)"},
		{Code: "ELSS", Instrument: "Equity Linked Savings Scheme (ELSS)", Description: "Equity mutual funds with a 3-year lock-in", Risk: "High", Returns: "10-15%", Liquidity: "Medium (3 years lock-in)"},
		{Code: "EPF", Instrument: "Employee Provident Fund (EPF)", Description: "Voluntary top-up of the salaried provident fund", Risk: "Low", Returns: "8-9%", Liquidity: "Low (retirement or specific conditions)"},
		{Code: "Life Insurance", Instrument: "Life Insurance Premium", Description: "Term or endowment plans with life cover", Risk: "Low", Returns: "4-6%", Liquidity: "Low"},
		{Code: "NSC", Instrument: "National Savings Certificate (NSC)", Description: "5-year certificate with tax benefits", Risk: "Low", Returns: "6-7%", Liquidity: "Low (5 years)"},
	},
	"80D": {
		{Code: "Health Insurance", Instrument: "Health Insurance Premium", Description: "Medical insurance for self and family", Benefit: "Tax deduction and health cover"},
		{Code: "Health Check-up", Instrument: "Preventive Health Check-up", Description: "Annual health check-ups", Benefit: "Up to ₹5,000 within the 80D limit"},
	},
	"24(b)": {
		{Code: "Home Loan", Instrument: "Home Loan Interest", Description: "Interest on a loan for a self-occupied property", Benefit: "Deduction of the interest paid"},
	},
}

type bandStrategy struct {
	strategy  string
	primary   []string
	secondary []string
}

var bandStrategies = map[domain.IncomeBand]bandStrategy{
	domain.IncomeBandLow: {
		strategy:  "Focus on low-risk, guaranteed returns",
		primary:   []string{"PPF", "EPF", "NSC"},
		secondary: []string{"Health Insurance"},
	},
	domain.IncomeBandMedium: {
		strategy:  "Balanced approach with moderate risk",
		primary:   []string{"PPF", "ELSS", "Health Insurance"},
		secondary: []string{"Life Insurance", "Home Loan"},
	},
	domain.IncomeBandHigh: {
		strategy:  "Aggressive tax planning with diversification",
		primary:   []string{"ELSS", "PPF", "Home Loan", "Health Insurance"},
		secondary: []string{"Charitable Donations", "Life Insurance"},
	},
}

// Optimizer builds a deduction plan from the section limits, the old-regime
// marginal rate and the taxpayer's income band.
type Optimizer struct {
	rules       domain.TaxRules
	resolver    *DeductionResolver
	suggestions *SuggestionEngine
}

// NewOptimizer creates an optimizer for the given rules.
func NewOptimizer(rules domain.TaxRules) *Optimizer {
	return &Optimizer{
		rules:       rules,
		resolver:    NewDeductionResolver(rules),
		suggestions: NewSuggestionEngine(rules),
	}
}

// CategorizeIncome places gross income in an income band.
func CategorizeIncome(gross decimal.Decimal) domain.IncomeBand {
	switch {
	case gross.LessThan(lowBandCeiling):
		return domain.IncomeBandLow
	case gross.LessThan(mediumBandCeiling):
		return domain.IncomeBandMedium
	default:
		return domain.IncomeBandHigh
	}
}

// MarginalRate is the rate, including cess, at which one more rupee of
// old-regime deduction reduces tax.
func (o *Optimizer) MarginalRate(in domain.TaxInput) decimal.Decimal {
	taxable := o.resolver.OldRegime(in).TaxableIncome(in.GrossIncome)
	rate := o.rules.OldRegimeSlabs.MarginalRate(taxable)
	return rate.Mul(decimal.NewFromInt(1).Add(o.rules.CessRate))
}

// Summary compares the capped sections against their limits.
func (o *Optimizer) Summary(in domain.TaxInput) domain.OptimizationSummary {
	limits := o.rules.Limits
	current := decimal.Min(in.Section80C, limits.Section80C).
		Add(decimal.Min(in.Section80D, limits.Section80D)).
		Add(decimal.Min(in.HomeLoanInterest, limits.HomeLoanInterest))
	ceiling := limits.Section80C.Add(limits.Section80D).Add(limits.HomeLoanInterest)
	potential := decimal.Max(ceiling.Sub(current), decimal.Zero)
	rate := o.MarginalRate(in)

	summary := domain.OptimizationSummary{
		CurrentDeductions:   current,
		MaxDeductions:       ceiling,
		AdditionalPotential: potential,
		MarginalRate:        rate,
		EstimatedSavings:    potential.Mul(rate).Round(0),
	}
	if ceiling.IsPositive() {
		summary.PotentialPc = potential.Mul(hundred).Div(ceiling).Round(2)
	}
	return summary
}

// Investments recommends instruments for the unused 80C and 80D headroom.
// 80C amounts are spread over the band's focus instruments in order, at most
// ₹50,000 each, until the headroom is used up.
func (o *Optimizer) Investments(in domain.TaxInput) domain.InvestmentPlan {
	band := CategorizeIncome(in.GrossIncome)
	bs := bandStrategies[band]
	plan := domain.InvestmentPlan{
		Band:            band,
		Strategy:        bs.strategy,
		PrimaryFocus:    slices.Clone(bs.primary),
		SecondaryFocus:  slices.Clone(bs.secondary),
		Recommendations: []domain.InvestmentRecommendation{},
	}

	left := decimal.Max(o.rules.Limits.Section80C.Sub(in.Section80C), decimal.Zero)
	for _, focus := range []struct {
		codes    []string
		priority domain.Priority
	}{{bs.primary, domain.PriorityHigh}, {bs.secondary, domain.PriorityMedium}} {
		for _, opt := range instrumentCatalogue["80C"] {
			if !left.IsPositive() || !slices.Contains(focus.codes, opt.Code) {
				continue
			}
			amount := decimal.Min(left, maxSuggestedPerInstrument)
			left = left.Sub(amount)
			plan.Recommendations = append(plan.Recommendations, domain.InvestmentRecommendation{
				Section:         "80C",
				Instrument:      opt.Instrument,
				SuggestedAmount: amount,
				Rationale:       opt.Description,
				RiskReturn:      fmt.Sprintf("Risk: %s, Returns: %s", opt.Risk, opt.Returns),
				Priority:        focus.priority,
			})
		}
	}

	if remaining80D := o.rules.Limits.Section80D.Sub(in.Section80D); remaining80D.IsPositive() {
		plan.Recommendations = append(plan.Recommendations, domain.InvestmentRecommendation{
			Section:         "80D",
			Instrument:      "Health Insurance",
			SuggestedAmount: remaining80D,
			Rationale:       "Health cover for the family with a deduction on the premium",
			Priority:        domain.PriorityHigh,
		})
	}
	return plan
}

// ActionPlan orders the concrete steps by priority.
func (o *Optimizer) ActionPlan(in domain.TaxInput) []domain.ActionItem {
	limits := o.rules.Limits
	rate := o.MarginalRate(in)
	var items []domain.ActionItem

	if remaining := limits.Section80C.Sub(in.Section80C); remaining.IsPositive() {
		items = append(items, domain.ActionItem{
			Action:   fmt.Sprintf("Invest ₹%s in Section 80C instruments", domain.FormatRupees(remaining)),
			Timeline: "Before 31 March",
			Impact:   fmt.Sprintf("Tax saving of about ₹%s", domain.FormatRupees(remaining.Mul(rate).Round(0))),
			Steps: []string{
				"Open a PPF account if you do not have one",
				"Invest in ELSS mutual funds",
				"Increase voluntary EPF contribution",
			},
		})
	}
	if in.Section80D.LessThan(limits.Section80D) {
		items = append(items, domain.ActionItem{
			Action:   "Get comprehensive health insurance",
			Timeline: "Immediate",
			Impact:   "Tax saving and health cover",
			Steps: []string{
				"Compare health insurance plans",
				"Choose a family floater or individual plans",
				"Pay the premium before 31 March",
			},
		})
	}
	items = append(items, domain.ActionItem{
		Action:   "Optimise salary structure",
		Timeline: "Next appraisal cycle",
		Impact:   "Ongoing tax savings",
		Steps: []string{
			"Discuss the HRA component with HR",
			"Include tax-free allowances",
			"Submit rent receipts and declarations",
		},
	})

	for i := range items {
		items[i].Priority = i + 1
	}
	return items
}

// Opportunities attaches the qualifying instruments to each section with
// headroom.
func (o *Optimizer) Opportunities(in domain.TaxInput) []domain.SectionOptions {
	out := []domain.SectionOptions{}
	for _, opp := range o.suggestions.Opportunities(in) {
		out = append(out, domain.SectionOptions{
			DeductionOpportunity: opp,
			Options:              slices.Clone(instrumentCatalogue[opp.Section]),
		})
	}
	return out
}

// Optimize validates the input and builds the full report.
func (e *Engine) Optimize(in domain.TaxInput) (*domain.OptimizationReport, error) {
	res, err := e.Calculate(in)
	if err != nil {
		return nil, err
	}

	o := NewOptimizer(e.Rules)
	report := &domain.OptimizationReport{
		Input:         in,
		Recommended:   res.Recommendation.ChosenRegime,
		Summary:       o.Summary(in),
		Opportunities: o.Opportunities(in),
		Investments:   o.Investments(in),
		ActionPlan:    o.ActionPlan(in),
	}
	e.Logger.Debugf("optimisation potential %s at marginal rate %s",
		report.Summary.AdditionalPotential, report.Summary.MarginalRate)
	return report, nil
}

// Optimize builds an optimisation report with the FY 2023-24 rules.
func Optimize(in domain.TaxInput) (*domain.OptimizationReport, error) {
	return NewEngine().Optimize(in)
}
