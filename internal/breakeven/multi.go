package breakeven

import (
	"context"
	"fmt"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// Analyze runs both targets for one input and summarises them
func (s *Solver) Analyze(ctx context.Context, in domain.TaxInput, constraints Constraints) (*Analysis, error) {
	if err := constraints.Validate(); err != nil {
		return nil, err
	}

	analysis := &Analysis{}
	for _, target := range []Target{TargetDeductions, TargetGrossIncome} {
		req := Request{
			Input:         in,
			Target:        target,
			Constraints:   constraints,
			MaxIterations: s.Options.MaxIterations,
			Tolerance:     s.Options.Tolerance,
		}
		result, err := s.Solve(ctx, req)
		if err != nil {
			return nil, err
		}
		switch target {
		case TargetDeductions:
			analysis.Deductions = result
		case TargetGrossIncome:
			analysis.GrossIncome = result
		}
	}

	analysis.Recommendations = s.generateRecommendations(analysis)
	return analysis, nil
}

// generateRecommendations turns the two results into plain advice
func (s *Solver) generateRecommendations(a *Analysis) []string {
	var recommendations []string

	if d := a.Deductions; d != nil {
		switch {
		case d.BreakEvenValue.IsZero() && d.Success:
			recommendations = append(recommendations,
				"Your current deductions already make the Old Regime the cheaper choice")
		case !d.Success:
			recommendations = append(recommendations,
				"The New Regime stays cheaper for any realistic amount of extra deductions")
		case d.Achievable:
			recommendations = append(recommendations, fmt.Sprintf(
				"Claiming ₹%s more in deductions would make the Old Regime break even and your unused section limits cover it",
				domain.FormatRupees(d.BreakEvenValue)))
		default:
			recommendations = append(recommendations, fmt.Sprintf(
				"The Old Regime needs ₹%s more in deductions to break even, beyond your unused limits of ₹%s, so the New Regime is the practical choice",
				domain.FormatRupees(d.BreakEvenValue), domain.FormatRupees(d.Headroom)))
		}
	}

	if g := a.GrossIncome; g != nil {
		if g.Success {
			recommendations = append(recommendations, fmt.Sprintf(
				"With these deductions the %s becomes the better choice from a gross income of ₹%s",
				g.RegimeAbove.Title(), domain.FormatRupees(g.BreakEvenValue)))
		} else {
			recommendations = append(recommendations, g.ConvergenceInfo)
		}
	}

	return recommendations
}
