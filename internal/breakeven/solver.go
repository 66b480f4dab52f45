package breakeven

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

var two = decimal.NewFromInt(2)

// Solver finds the points where the Old and New regimes cost the same
type Solver struct {
	CalcEngine *calculation.Engine
	Options    SolverOptions
}

// NewSolver creates a new break-even solver
func NewSolver(calcEngine *calculation.Engine, options SolverOptions) *Solver {
	if calcEngine == nil {
		calcEngine = calculation.NewEngine()
	}
	return &Solver{
		CalcEngine: calcEngine,
		Options:    options,
	}
}

// NewDefaultSolver creates a solver with default options
func NewDefaultSolver(calcEngine *calculation.Engine) *Solver {
	return NewSolver(calcEngine, DefaultSolverOptions())
}

// Solve runs the search named by req.Target
func (s *Solver) Solve(ctx context.Context, req Request) (*Result, error) {
	if err := req.Constraints.Validate(); err != nil {
		return nil, err
	}

	// Apply defaults
	if req.MaxIterations == 0 {
		req.MaxIterations = s.Options.MaxIterations
	}
	if req.Tolerance.IsZero() {
		req.Tolerance = s.Options.Tolerance
	}

	base, err := s.CalcEngine.Calculate(req.Input)
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve", Message: "invalid input", Cause: err}
	}
	result := &Result{
		Target:             req.Target,
		CurrentRecommended: base.Recommendation.ChosenRegime,
		CurrentDeductions:  base.OldRegime.DeductionsUsed,
		CurrentOldTax:      base.OldRegime.TotalTax,
		CurrentNewTax:      base.NewRegime.TotalTax,
	}

	switch req.Target {
	case TargetDeductions:
		return s.solveDeductions(ctx, req, base, result)
	case TargetGrossIncome:
		return s.solveGrossIncome(ctx, req, result)
	default:
		return nil, &BreakEvenError{
			Operation: "solve",
			Message:   fmt.Sprintf("unsupported target: %s", req.Target),
		}
	}
}

// point is one engine evaluation.
type point struct {
	oldTax decimal.Decimal
	newTax decimal.Decimal
}

func (p point) oldCheaper() bool { return p.oldTax.LessThanOrEqual(p.newTax) }

func (s *Solver) evaluate(in domain.TaxInput) (point, error) {
	res, err := s.CalcEngine.Calculate(in)
	if err != nil {
		return point{}, err
	}
	return point{oldTax: res.OldRegime.TotalTax, newTax: res.NewRegime.TotalTax}, nil
}

// solveDeductions bisects on an extra old-regime deduction. Old-regime tax
// never rises as deductions grow and new-regime tax ignores them, so the
// predicate "old <= new" flips at most once.
func (s *Solver) solveDeductions(ctx context.Context, req Request, base *domain.CalculationResult, result *Result) (*Result, error) {
	for _, op := range base.Opportunities {
		result.Headroom = result.Headroom.Add(op.Remaining)
	}

	if base.OldRegime.TotalTax.LessThanOrEqual(base.NewRegime.TotalTax) {
		result.Success = true
		result.Achievable = true
		result.OldRegimeTax = base.OldRegime.TotalTax
		result.NewRegimeTax = base.NewRegime.TotalTax
		result.ConvergenceInfo = "Old regime already costs no more than the new regime"
		return result, nil
	}

	withExtra := func(extra decimal.Decimal) domain.TaxInput {
		in := req.Input
		in.OtherDeductions = in.OtherDeductions.Add(extra)
		return in
	}

	lo := decimal.Zero
	hi := req.Input.GrossIncome
	if req.Constraints.MaxAdditionalDeduction != nil {
		hi = *req.Constraints.MaxAdditionalDeduction
	}

	hiPoint, err := s.evaluate(withExtra(hi))
	if err != nil {
		return nil, &BreakEvenError{Operation: "solve_deductions", Message: "failed to calculate", Cause: err}
	}
	result.Iterations = 1
	if !hiPoint.oldCheaper() {
		result.BreakEvenValue = hi
		result.OldRegimeTax, result.NewRegimeTax = hiPoint.oldTax, hiPoint.newTax
		result.ConvergenceInfo = fmt.Sprintf("Old regime stays dearer up to an extra deduction of ₹%s", domain.FormatRupees(hi))
		return result, nil
	}

	for hi.Sub(lo).GreaterThan(req.Tolerance) {
		if result.Iterations >= req.MaxIterations {
			result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.Iterations++

		mid := lo.Add(hi).Div(two).Floor()
		p, err := s.evaluate(withExtra(mid))
		if err != nil {
			return nil, &BreakEvenError{Operation: "solve_deductions", Message: "failed to calculate", Cause: err}
		}
		if p.oldCheaper() {
			hi, hiPoint = mid, p
		} else {
			lo = mid
		}
	}

	result.Success = true
	if result.ConvergenceInfo == "" {
		result.ConvergenceInfo = "Binary search converged"
	}
	result.BreakEvenValue = hi
	result.OldRegimeTax, result.NewRegimeTax = hiPoint.oldTax, hiPoint.newTax
	result.Achievable = hi.LessThanOrEqual(result.Headroom)
	return result, nil
}

// solveGrossIncome scans the income range on a grid and bisects the first
// interval where the recommendation changes.
func (s *Solver) solveGrossIncome(ctx context.Context, req Request, result *Result) (*Result, error) {
	defaults := DefaultConstraints()
	minIncome, maxIncome := *defaults.MinIncome, *defaults.MaxIncome
	if req.Constraints.MinIncome != nil {
		minIncome = *req.Constraints.MinIncome
	}
	if req.Constraints.MaxIncome != nil {
		maxIncome = *req.Constraints.MaxIncome
	}
	if !minIncome.LessThan(maxIncome) {
		return nil, &BreakEvenError{Operation: "solve_gross_income", Message: "empty income range"}
	}

	atIncome := func(gross decimal.Decimal) (point, error) {
		in := req.Input
		in.GrossIncome = gross
		p, err := s.evaluate(in)
		if err != nil {
			return point{}, &BreakEvenError{Operation: "solve_gross_income", Message: "failed to calculate", Cause: err}
		}
		return p, nil
	}

	lo := minIncome
	loPoint, err := atIncome(lo)
	if err != nil {
		return nil, err
	}
	result.Iterations = 1
	startOld := loPoint.oldCheaper()

	steps := s.Options.GridResolution
	if steps < 1 {
		steps = 1
	}
	step := maxIncome.Sub(minIncome).Div(decimal.NewFromInt(int64(steps))).Ceil()

	var hi decimal.Decimal
	var hiPoint point
	found := false
	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		g := decimal.Min(minIncome.Add(step.Mul(decimal.NewFromInt(int64(i)))), maxIncome)
		p, err := atIncome(g)
		if err != nil {
			return nil, err
		}
		result.Iterations++
		if p.oldCheaper() != startOld {
			hi, hiPoint, found = g, p, true
			break
		}
		lo, loPoint = g, p
	}

	if !found {
		result.BreakEvenValue = maxIncome
		result.OldRegimeTax, result.NewRegimeTax = loPoint.oldTax, loPoint.newTax
		result.RegimeAbove = regimeFor(startOld)
		result.ConvergenceInfo = fmt.Sprintf("%s is recommended from ₹%s to ₹%s",
			regimeFor(startOld).Title(), domain.FormatRupees(minIncome), domain.FormatRupees(maxIncome))
		return result, nil
	}

	bisections := 0
	for hi.Sub(lo).GreaterThan(req.Tolerance) {
		if bisections >= req.MaxIterations {
			result.ConvergenceInfo = fmt.Sprintf("Max iterations (%d) reached", req.MaxIterations)
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		bisections++

		mid := lo.Add(hi).Div(two).Floor()
		p, err := atIncome(mid)
		if err != nil {
			return nil, err
		}
		if p.oldCheaper() == startOld {
			lo = mid
		} else {
			hi, hiPoint = mid, p
		}
	}
	result.Iterations += bisections

	result.Success = true
	if result.ConvergenceInfo == "" {
		result.ConvergenceInfo = "Binary search converged"
	}
	result.BreakEvenValue = hi
	result.OldRegimeTax, result.NewRegimeTax = hiPoint.oldTax, hiPoint.newTax
	result.RegimeAbove = regimeFor(!startOld)
	return result, nil
}

func regimeFor(oldCheaper bool) domain.Regime {
	if oldCheaper {
		return domain.RegimeOld
	}
	return domain.RegimeNew
}
