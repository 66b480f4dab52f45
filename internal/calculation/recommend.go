package calculation

import (
	"fmt"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

// SelectRecommendation picks the regime with the lower rounded total tax.
// An exact tie picks the old regime.
func SelectRecommendation(oldResult, newResult domain.RegimeResult) domain.Recommendation {
	chosen := domain.RegimeOld
	if newResult.TotalTax.LessThan(oldResult.TotalTax) {
		chosen = domain.RegimeNew
	}

	savings := oldResult.TotalTax.Sub(newResult.TotalTax).Abs()
	highest := decimal.Max(oldResult.TotalTax, newResult.TotalTax)
	var pct decimal.Decimal
	if highest.IsPositive() {
		pct = savings.Mul(hundred).Div(highest).Round(2)
	}

	return domain.Recommendation{
		ChosenRegime:      chosen,
		AnnualSavings:     savings,
		SavingsPercentage: pct,
		Rationale:         rationale(chosen, savings, oldResult, newResult),
	}
}

func rationale(chosen domain.Regime, savings decimal.Decimal, oldResult, newResult domain.RegimeResult) string {
	if savings.IsZero() {
		return fmt.Sprintf("Both regimes result in the same tax of ₹%s. The Old Regime is recommended because it keeps deduction-based planning available.",
			domain.FormatRupees(oldResult.TotalTax))
	}
	if chosen == domain.RegimeOld {
		return fmt.Sprintf("The Old Regime saves ₹%s per year. Your deductions of ₹%s outweigh the lower slab rates of the New Regime.",
			domain.FormatRupees(savings), domain.FormatRupees(oldResult.DeductionsUsed))
	}
	return fmt.Sprintf("The New Regime saves ₹%s per year. Its lower slab rates outweigh the ₹%s of deductions available under the Old Regime.",
		domain.FormatRupees(savings), domain.FormatRupees(oldResult.DeductionsUsed))
}
