package calculation

import (
	"fmt"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

// BaseScenarioName labels the no-deduction row of a simulation.
const BaseScenarioName = "Base (no deductions)"

// Engine runs regime calculations for a fixed rule set. It holds no mutable
// state after construction and is safe for concurrent use.
type Engine struct {
	Rules       domain.TaxRules
	Logger      Logger
	oldCalc     *RegimeCalculator
	newCalc     *RegimeCalculator
	suggestions *SuggestionEngine
}

// NewEngine creates an engine with the FY 2023-24 rules.
func NewEngine() *Engine {
	return NewEngineWithRules(domain.DefaultTaxRules())
}

// NewEngineWithRules creates an engine with the given rules.
func NewEngineWithRules(rules domain.TaxRules) *Engine {
	return &Engine{
		Rules:       rules,
		Logger:      NopLogger{},
		oldCalc:     NewRegimeCalculator(domain.RegimeOld, rules),
		newCalc:     NewRegimeCalculator(domain.RegimeNew, rules),
		suggestions: NewSuggestionEngine(rules),
	}
}

// SetLogger sets the engine logger; nil restores the no-op logger.
func (e *Engine) SetLogger(l Logger) {
	if l == nil {
		e.Logger = NopLogger{}
		return
	}
	e.Logger = l
}

// Calculate validates the input and computes both regimes, the recommendation
// and the optimisation hints. On invalid input it returns a *domain.ValidationError
// and no result.
func (e *Engine) Calculate(in domain.TaxInput) (*domain.CalculationResult, error) {
	if err := in.Validate(); err != nil {
		e.Logger.Debugf("rejected input: %v", err)
		return nil, err
	}

	oldResult := e.oldCalc.Calculate(in)
	newResult := e.newCalc.Calculate(in)
	e.Logger.Debugf("old regime: taxable=%s tax=%s", oldResult.TaxableIncome, oldResult.TotalTax)
	e.Logger.Debugf("new regime: taxable=%s tax=%s", newResult.TaxableIncome, newResult.TotalTax)

	rec := SelectRecommendation(oldResult, newResult)
	rec.Optimizations = e.suggestions.Suggestions(in, oldResult, newResult)
	e.Logger.Infof("recommended %s regime, savings %s", rec.ChosenRegime, rec.AnnualSavings)

	return &domain.CalculationResult{
		Input:          in,
		OldRegime:      oldResult,
		NewRegime:      newResult,
		Recommendation: rec,
		Opportunities:  e.suggestions.Opportunities(in),
	}, nil
}

// Simulate evaluates each scenario's deductions against a fixed gross income and
// compares it with a base that claims nothing. The gross income in each
// scenario is replaced by gross.
func (e *Engine) Simulate(gross decimal.Decimal, scenarios []domain.SimulationScenario) (*domain.SimulationResult, error) {
	base, err := e.simulateRow(BaseScenarioName, domain.TaxInput{GrossIncome: gross})
	if err != nil {
		return nil, err
	}

	result := &domain.SimulationResult{GrossIncome: gross, Base: base}
	for i, sc := range scenarios {
		name := sc.Name
		if name == "" {
			name = fmt.Sprintf("Scenario %d", i+1)
		}
		in := sc.Input
		in.GrossIncome = gross
		row, err := e.simulateRow(name, in)
		if err != nil {
			return nil, fmt.Errorf("scenario %q: %w", name, err)
		}
		row.SavingsVsBase = base.BestTax().Sub(row.BestTax())
		result.Scenarios = append(result.Scenarios, row)
	}
	e.Logger.Debugf("simulated %d scenarios at gross %s", len(result.Scenarios), gross)
	return result, nil
}

func (e *Engine) simulateRow(name string, in domain.TaxInput) (domain.SimulationRow, error) {
	res, err := e.Calculate(in)
	if err != nil {
		return domain.SimulationRow{}, err
	}
	return domain.SimulationRow{
		Scenario:     name,
		Input:        in,
		OldRegimeTax: res.OldRegime.TotalTax,
		NewRegimeTax: res.NewRegime.TotalTax,
		Recommended:  res.Recommendation.ChosenRegime,
	}, nil
}

// Calculate runs a calculation with the FY 2023-24 rules.
func Calculate(in domain.TaxInput) (*domain.CalculationResult, error) {
	return NewEngine().Calculate(in)
}
