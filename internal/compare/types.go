package compare

import (
	"fmt"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

// ComparisonResult represents a single scenario comparison with calculated metrics
type ComparisonResult struct {
	ScenarioName string `json:"scenarioName"`
	Description  string `json:"description"`

	// Key Metrics
	OldRegimeTax      decimal.Decimal `json:"oldRegimeTax"`
	NewRegimeTax      decimal.Decimal `json:"newRegimeTax"`
	Recommended       domain.Regime   `json:"recommended"`
	PayableTax        decimal.Decimal `json:"payableTax"` // tax under the recommended regime
	DeductionsClaimed decimal.Decimal `json:"deductionsClaimed"`

	// Comparison to Base
	TaxDiffFromBase decimal.Decimal `json:"taxDiffFromBase"`
	TaxPctFromBase  decimal.Decimal `json:"taxPctFromBase"`
	RegimeChanged   bool            `json:"regimeChanged"`
}

// ComparisonSet represents a collection of scenario comparisons
type ComparisonSet struct {
	GrossIncome        decimal.Decimal    `json:"grossIncome"`
	BaseScenarioName   string             `json:"baseScenarioName"`
	BaseResult         *ComparisonResult  `json:"baseResult"`
	AlternativeResults []ComparisonResult `json:"alternativeResults"`
	Recommendations    []string           `json:"recommendations"`
	ConfigPath         string             `json:"configPath"`
}

// MetricsCalculator extracts key metrics from simulation rows
type MetricsCalculator struct {
	resolver *calculation.DeductionResolver
}

// NewMetricsCalculator creates a new metrics calculator
func NewMetricsCalculator(rules domain.TaxRules) *MetricsCalculator {
	return &MetricsCalculator{resolver: calculation.NewDeductionResolver(rules)}
}

// CalculateMetrics computes the comparison metrics for one simulation row
func (mc *MetricsCalculator) CalculateMetrics(row domain.SimulationRow) ComparisonResult {
	claimed := mc.resolver.OldRegime(row.Input).Total()
	return ComparisonResult{
		ScenarioName:      row.Scenario,
		Description:       fmt.Sprintf("₹%s old-regime deductions", domain.FormatRupees(claimed)),
		OldRegimeTax:      row.OldRegimeTax,
		NewRegimeTax:      row.NewRegimeTax,
		Recommended:       row.Recommended,
		PayableTax:        row.BestTax(),
		DeductionsClaimed: claimed,
	}
}

// CalculateComparison computes comparison metrics between a scenario and a base
func (mc *MetricsCalculator) CalculateComparison(scenario, base ComparisonResult) ComparisonResult {
	scenario.TaxDiffFromBase = scenario.PayableTax.Sub(base.PayableTax)

	if !base.PayableTax.IsZero() {
		scenario.TaxPctFromBase = scenario.TaxDiffFromBase.
			Div(base.PayableTax).
			Mul(decimal.NewFromInt(100))
	}

	scenario.RegimeChanged = scenario.Recommended != base.Recommended
	return scenario
}

// GenerateRecommendations creates recommendations based on comparison results
func GenerateRecommendations(compSet *ComparisonSet) []string {
	recommendations := []string{}

	if len(compSet.AlternativeResults) == 0 {
		return recommendations
	}

	// Find lowest tax
	lowestTax := compSet.BaseResult
	for i := range compSet.AlternativeResults {
		alt := &compSet.AlternativeResults[i]
		if alt.PayableTax.LessThan(lowestTax.PayableTax) {
			lowestTax = alt
		}
	}

	if lowestTax != compSet.BaseResult {
		savings := compSet.BaseResult.PayableTax.Sub(lowestTax.PayableTax)
		recommendations = append(recommendations,
			"Lowest Tax: "+lowestTax.ScenarioName+" saves ₹"+domain.FormatRupees(savings)+
				" per year under the "+lowestTax.Recommended.Title())
	} else {
		recommendations = append(recommendations,
			"No scenario beats "+compSet.BaseScenarioName+"; extra deductions do not lower the payable tax")
	}

	// Regime switches
	for _, alt := range compSet.AlternativeResults {
		if alt.RegimeChanged {
			recommendations = append(recommendations,
				"Regime Switch: "+alt.ScenarioName+" makes the "+alt.Recommended.Title()+" the better choice")
		}
	}

	// Deductions that buy nothing
	for _, alt := range compSet.AlternativeResults {
		if alt.DeductionsClaimed.GreaterThan(compSet.BaseResult.DeductionsClaimed) && alt.TaxDiffFromBase.IsZero() {
			recommendations = append(recommendations,
				"No Benefit: deductions in "+alt.ScenarioName+" do not reduce tax while the "+alt.Recommended.Title()+" is cheaper")
		}
	}

	return recommendations
}

// BestScenario names the scenario with the lowest payable tax; the base wins ties.
func (cs *ComparisonSet) BestScenario() string {
	if cs.BaseResult == nil {
		return ""
	}
	best := cs.BaseResult
	for i := range cs.AlternativeResults {
		if cs.AlternativeResults[i].PayableTax.LessThan(best.PayableTax) {
			best = &cs.AlternativeResults[i]
		}
	}
	return best.ScenarioName
}
