package breakeven

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// TableFormatter formats break-even results as a console table
type TableFormatter struct{}

// Format generates a formatted table for one result
func (tf *TableFormatter) Format(result *Result) string {
	var sb strings.Builder

	sb.WriteString("BREAK-EVEN ANALYSIS\n")
	sb.WriteString(strings.Repeat("=", 80) + "\n")

	sb.WriteString(fmt.Sprintf("Target:              %s\n", result.Target))
	sb.WriteString(fmt.Sprintf("Status:              %s\n", tf.formatStatus(result.Success)))
	sb.WriteString(fmt.Sprintf("Iterations:          %d\n", result.Iterations))
	if result.ConvergenceInfo != "" {
		sb.WriteString(fmt.Sprintf("Convergence:         %s\n", result.ConvergenceInfo))
	}
	sb.WriteString("\n")

	sb.WriteString("CURRENT POSITION\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	sb.WriteString(fmt.Sprintf("Old Regime Tax:      %s\n", tf.formatCurrency(result.CurrentOldTax)))
	sb.WriteString(fmt.Sprintf("New Regime Tax:      %s\n", tf.formatCurrency(result.CurrentNewTax)))
	sb.WriteString(fmt.Sprintf("Old Deductions:      %s\n", tf.formatCurrency(result.CurrentDeductions)))
	sb.WriteString(fmt.Sprintf("Recommended:         %s\n", result.CurrentRecommended.Title()))
	sb.WriteString("\n")

	sb.WriteString("BREAK-EVEN POINT\n")
	sb.WriteString(strings.Repeat("-", 80) + "\n")
	switch result.Target {
	case TargetDeductions:
		sb.WriteString(fmt.Sprintf("Extra Deduction:     %s\n", tf.formatCurrency(result.BreakEvenValue)))
		sb.WriteString(fmt.Sprintf("Unused Limits:       %s\n", tf.formatCurrency(result.Headroom)))
		sb.WriteString(fmt.Sprintf("Within Limits:       %s\n", tf.yesNo(result.Achievable)))
	case TargetGrossIncome:
		sb.WriteString(fmt.Sprintf("Gross Income:        %s\n", tf.formatCurrency(result.BreakEvenValue)))
		if result.RegimeAbove != "" {
			sb.WriteString(fmt.Sprintf("Cheaper Above:       %s\n", result.RegimeAbove.Title()))
		}
	}
	sb.WriteString(fmt.Sprintf("Old Regime Tax:      %s\n", tf.formatCurrency(result.OldRegimeTax)))
	sb.WriteString(fmt.Sprintf("New Regime Tax:      %s\n", tf.formatCurrency(result.NewRegimeTax)))
	sb.WriteString("\n")

	return sb.String()
}

// FormatAnalysis formats both targets and the recommendations
func (tf *TableFormatter) FormatAnalysis(a *Analysis) string {
	var sb strings.Builder

	if a.Deductions != nil {
		sb.WriteString(tf.Format(a.Deductions))
	}
	if a.GrossIncome != nil {
		sb.WriteString(tf.Format(a.GrossIncome))
	}

	if len(a.Recommendations) > 0 {
		sb.WriteString("RECOMMENDATIONS\n")
		sb.WriteString(strings.Repeat("-", 80) + "\n")
		for _, rec := range a.Recommendations {
			sb.WriteString(fmt.Sprintf("• %s\n", rec))
		}
		sb.WriteString("\n")
	}

	return sb.String()
}

// JSONFormatter formats results as JSON
type JSONFormatter struct {
	Pretty bool
}

// Format generates JSON output
func (jf *JSONFormatter) Format(v interface{}) (string, error) {
	var data []byte
	var err error

	if jf.Pretty {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return "", err
	}

	return string(data), nil
}

// Helper methods

func (tf *TableFormatter) formatStatus(success bool) string {
	if success {
		return "✓ Converged"
	}
	return "⚠ No break-even point in range"
}

func (tf *TableFormatter) formatCurrency(d decimal.Decimal) string {
	return "₹" + domain.FormatRupees(d)
}

func (tf *TableFormatter) yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
