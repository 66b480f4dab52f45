package breakeven

import (
	"github.com/shopspring/decimal"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// Target defines which quantity the solver searches for
type Target string

const (
	// TargetDeductions finds the extra old-regime deduction at which the old
	// regime costs no more than the new one.
	TargetDeductions Target = "deductions"
	// TargetGrossIncome finds the gross income at which the cheaper regime
	// changes, holding deductions fixed.
	TargetGrossIncome Target = "gross_income"
)

// Constraints define bounds for the search
type Constraints struct {
	// Gross income search range for TargetGrossIncome
	MinIncome *decimal.Decimal `json:"min_income,omitempty"`
	MaxIncome *decimal.Decimal `json:"max_income,omitempty"`

	// Upper bound on the extra deduction for TargetDeductions. Nil means
	// gross income, where old-regime taxable income reaches zero.
	MaxAdditionalDeduction *decimal.Decimal `json:"max_additional_deduction,omitempty"`
}

// DefaultConstraints returns the income range used when none is given
func DefaultConstraints() Constraints {
	minIncome := decimal.NewFromInt(100000)
	maxIncome := decimal.NewFromInt(5000000)
	return Constraints{
		MinIncome: &minIncome,
		MaxIncome: &maxIncome,
	}
}

// Request defines the parameters for a solver run
type Request struct {
	Input         domain.TaxInput `json:"input"`
	Target        Target          `json:"target"`
	Constraints   Constraints     `json:"constraints"`
	MaxIterations int             `json:"max_iterations"` // Maximum bisection steps
	Tolerance     decimal.Decimal `json:"tolerance"`      // Width in rupees at which bisection stops
}

// Result contains the outcome of a solver run
type Result struct {
	Target          Target `json:"target"`
	Success         bool   `json:"success"`
	Iterations      int    `json:"iterations"`
	ConvergenceInfo string `json:"convergence_info"`

	// The solved quantity: an extra deduction or a gross income
	BreakEvenValue decimal.Decimal `json:"break_even_value"`

	// Taxes at the break-even point
	OldRegimeTax decimal.Decimal `json:"old_regime_tax"`
	NewRegimeTax decimal.Decimal `json:"new_regime_tax"`

	// Starting position
	CurrentRecommended domain.Regime   `json:"current_recommended"`
	CurrentDeductions  decimal.Decimal `json:"current_deductions"`
	CurrentOldTax      decimal.Decimal `json:"current_old_tax"`
	CurrentNewTax      decimal.Decimal `json:"current_new_tax"`

	// TargetDeductions only: unused room under the capped sections and
	// whether it covers the extra deduction
	Headroom   decimal.Decimal `json:"headroom"`
	Achievable bool            `json:"achievable"`

	// TargetGrossIncome only: regime recommended above the break-even income
	RegimeAbove domain.Regime `json:"regime_above,omitempty"`
}

// Analysis combines both targets for one input
type Analysis struct {
	Deductions      *Result  `json:"deductions"`
	GrossIncome     *Result  `json:"gross_income"`
	Recommendations []string `json:"recommendations"`
}

// SolverOptions configures the solver algorithm
type SolverOptions struct {
	GridResolution int             // Points scanned across the income range
	Tolerance      decimal.Decimal // Convergence tolerance
	MaxIterations  int             // Maximum iterations
}

// DefaultSolverOptions returns default solver configuration
func DefaultSolverOptions() SolverOptions {
	return SolverOptions{
		GridResolution: 50,
		Tolerance:      decimal.NewFromInt(1), // one rupee
		MaxIterations:  64,
	}
}

// Validate checks if constraints are internally consistent
func (c *Constraints) Validate() error {
	if c.MinIncome != nil && !c.MinIncome.IsPositive() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_income must be greater than zero",
		}
	}
	if c.MinIncome != nil && c.MaxIncome != nil && !c.MinIncome.LessThan(*c.MaxIncome) {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "min_income must be below max_income",
		}
	}
	if c.MaxAdditionalDeduction != nil && c.MaxAdditionalDeduction.IsNegative() {
		return &BreakEvenError{
			Operation: "validate_constraints",
			Message:   "max_additional_deduction must not be negative",
		}
	}
	return nil
}

// BreakEvenError represents errors from break-even solver
type BreakEvenError struct {
	Operation string
	Message   string
	Cause     error
}

func (e *BreakEvenError) Error() string {
	if e.Cause != nil {
		return e.Operation + ": " + e.Message + ": " + e.Cause.Error()
	}
	return e.Operation + ": " + e.Message
}

func (e *BreakEvenError) Unwrap() error {
	return e.Cause
}
