package compare

import (
	"context"
	"fmt"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

// CompareEngine orchestrates scenario comparison
type CompareEngine struct {
	CalcEngine        *calculation.Engine
	MetricsCalculator *MetricsCalculator
}

// NewCompareEngine creates a new comparison engine
func NewCompareEngine(calcEngine *calculation.Engine) *CompareEngine {
	return &CompareEngine{
		CalcEngine:        calcEngine,
		MetricsCalculator: NewMetricsCalculator(calcEngine.Rules),
	}
}

// CompareOptions configures comparison behavior
type CompareOptions struct {
	ScenarioNames []string // Restrict to these scenarios; empty means all
	ConfigPath    string
}

// Compare simulates each scenario at the given gross income and compares it
// with the no-deduction base.
func (ce *CompareEngine) Compare(
	ctx context.Context,
	gross decimal.Decimal,
	scenarios []domain.SimulationScenario,
	options CompareOptions,
) (*ComparisonSet, error) {

	selected, err := selectScenarios(scenarios, options.ScenarioNames)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	sim, err := ce.CalcEngine.Simulate(gross, selected)
	if err != nil {
		return nil, fmt.Errorf("failed to simulate scenarios: %w", err)
	}

	baseResult := ce.MetricsCalculator.CalculateMetrics(sim.Base)

	alternatives := make([]ComparisonResult, 0, len(sim.Scenarios))
	for _, row := range sim.Scenarios {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		altResult := ce.MetricsCalculator.CalculateMetrics(row)
		altResult = ce.MetricsCalculator.CalculateComparison(altResult, baseResult)
		alternatives = append(alternatives, altResult)
	}

	compSet := &ComparisonSet{
		GrossIncome:        gross,
		BaseScenarioName:   sim.Base.Scenario,
		BaseResult:         &baseResult,
		AlternativeResults: alternatives,
		ConfigPath:         options.ConfigPath,
	}

	compSet.Recommendations = GenerateRecommendations(compSet)

	return compSet, nil
}

func selectScenarios(all []domain.SimulationScenario, names []string) ([]domain.SimulationScenario, error) {
	if len(names) == 0 {
		return all, nil
	}
	byName := make(map[string]domain.SimulationScenario, len(all))
	for _, sc := range all {
		if _, seen := byName[sc.Name]; !seen {
			byName[sc.Name] = sc
		}
	}
	out := make([]domain.SimulationScenario, 0, len(names))
	for _, name := range names {
		sc, ok := byName[name]
		if !ok {
			return nil, fmt.Errorf("scenario %s not found", name)
		}
		out = append(out, sc)
	}
	return out, nil
}
