package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"time"

	"github.com/google/uuid"
)

// DefaultFinancialYear is used when a request does not name one.
const DefaultFinancialYear = "2023-24"

var financialYearPattern = regexp.MustCompile(`^(\d{4})-(\d{2})$`)

// FinancialYear is an Indian financial year running 1 April to 31 March.
type FinancialYear struct {
	Label string    `json:"label"`
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// ParseFinancialYear parses labels of the form "2023-24".
func ParseFinancialYear(label string) (FinancialYear, error) {
	m := financialYearPattern.FindStringSubmatch(label)
	if m == nil {
		return FinancialYear{}, NewValidationError("financial_year", "must look like 2023-24")
	}
	start, _ := strconv.Atoi(m[1])
	suffix, _ := strconv.Atoi(m[2])
	if (start+1)%100 != suffix {
		return FinancialYear{}, NewValidationError("financial_year", "years must be consecutive")
	}
	return FinancialYear{
		Label: label,
		Start: time.Date(start, time.April, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(start+1, time.March, 31, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (fy FinancialYear) String() string { return fy.Label }

// Calculation is a persisted calculation. There is at most one per user and
// financial year; recalculating replaces the stored input and result.
type Calculation struct {
	ID            uuid.UUID         `json:"id" db:"id"`
	UserID        string            `json:"user_id" db:"user_id"`
	FinancialYear string            `json:"financial_year" db:"financial_year"`
	Input         TaxInput          `json:"input"`
	Result        CalculationResult `json:"result"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

// CalculationSummary is the compact history view of a calculation.
type CalculationSummary struct {
	ID                uuid.UUID `json:"id"`
	FinancialYear     string    `json:"financial_year"`
	GrossIncome       string    `json:"gross_income"`
	OldRegimeTax      string    `json:"old_regime_tax"`
	NewRegimeTax      string    `json:"new_regime_tax"`
	RecommendedRegime Regime    `json:"recommended_regime"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// Summary builds the history view.
func (c Calculation) Summary() CalculationSummary {
	return CalculationSummary{
		ID:                c.ID,
		FinancialYear:     c.FinancialYear,
		GrossIncome:       c.Input.GrossIncome.StringFixed(0),
		OldRegimeTax:      c.Result.OldRegime.TotalTax.StringFixed(0),
		NewRegimeTax:      c.Result.NewRegime.TotalTax.StringFixed(0),
		RecommendedRegime: c.Result.Recommendation.ChosenRegime,
		UpdatedAt:         c.UpdatedAt,
	}
}

// Title is used as a report heading.
func (c Calculation) Title() string {
	return fmt.Sprintf("Tax Report - FY %s", c.FinancialYear)
}
