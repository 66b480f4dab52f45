package domain

import "github.com/shopspring/decimal"

// IncomeBand groups taxpayers for investment advice.
type IncomeBand string

const (
	IncomeBandLow    IncomeBand = "low"
	IncomeBandMedium IncomeBand = "medium"
	IncomeBandHigh   IncomeBand = "high"
)

// Priority ranks an investment recommendation.
type Priority string

const (
	PriorityHigh   Priority = "High"
	PriorityMedium Priority = "Medium"
)

// InvestmentOption is one instrument that qualifies under a deduction section.
// Risk, Returns and Liquidity are empty for expenses such as insurance premiums.
type InvestmentOption struct {
	Code        string `json:"code"`
	Instrument  string `json:"instrument"`
	Description string `json:"description"`
	Risk        string `json:"risk,omitempty"`
	Returns     string `json:"returns,omitempty"`
	Liquidity   string `json:"liquidity,omitempty"`
	Benefit     string `json:"benefit,omitempty"`
}

// SectionOptions lists the instruments for a section with unused headroom.
type SectionOptions struct {
	DeductionOpportunity
	Options []InvestmentOption `json:"options"`
}

// OptimizationSummary compares current deductions with the section limits.
// EstimatedSavings prices the unused headroom at the old-regime marginal rate
// including cess.
type OptimizationSummary struct {
	CurrentDeductions   decimal.Decimal `json:"current_deductions"`
	MaxDeductions       decimal.Decimal `json:"max_possible_deductions"`
	AdditionalPotential decimal.Decimal `json:"optimization_potential"`
	MarginalRate        decimal.Decimal `json:"marginal_rate"`
	EstimatedSavings    decimal.Decimal `json:"estimated_tax_savings"`
	PotentialPc         decimal.Decimal `json:"optimization_pct"`
}

// InvestmentRecommendation suggests an amount to put into one instrument.
type InvestmentRecommendation struct {
	Section         string          `json:"section"`
	Instrument      string          `json:"instrument"`
	SuggestedAmount decimal.Decimal `json:"suggested_amount"`
	Rationale       string          `json:"rationale"`
	RiskReturn      string          `json:"risk_return,omitempty"`
	Priority        Priority        `json:"priority"`
}

// InvestmentPlan is the income-band strategy and its recommendations.
type InvestmentPlan struct {
	Band            IncomeBand                 `json:"income_band"`
	Strategy        string                     `json:"strategy"`
	PrimaryFocus    []string                   `json:"primary_focus"`
	SecondaryFocus  []string                   `json:"secondary_focus"`
	Recommendations []InvestmentRecommendation `json:"recommendations"`
}

// ActionItem is one step of the action plan. Priority 1 comes first.
type ActionItem struct {
	Priority int      `json:"priority"`
	Action   string   `json:"action"`
	Timeline string   `json:"timeline"`
	Impact   string   `json:"impact"`
	Steps    []string `json:"specific_steps"`
}

// OptimizationReport is the full deduction plan for one input.
type OptimizationReport struct {
	Input         TaxInput            `json:"input"`
	Recommended   Regime              `json:"recommended_regime"`
	Summary       OptimizationSummary `json:"summary"`
	Opportunities []SectionOptions    `json:"deduction_opportunities"`
	Investments   InvestmentPlan      `json:"investment_recommendations"`
	ActionPlan    []ActionItem        `json:"action_plan"`
}
