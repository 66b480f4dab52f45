package output

import (
	"fmt"
	"strings"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// ConsoleFormatter renders a side-by-side text report.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string        { return "console" }
func (ConsoleFormatter) ContentType() string { return "text/plain; charset=utf-8" }
func (ConsoleFormatter) Extension() string   { return "txt" }

func (ConsoleFormatter) Format(r *domain.CalculationResult) ([]byte, error) {
	var sb strings.Builder
	line := strings.Repeat("=", 66)

	sb.WriteString(line + "\n")
	sb.WriteString("INCOME TAX COMPARISON: OLD vs NEW REGIME\n")
	sb.WriteString(line + "\n")
	fmt.Fprintf(&sb, "Gross Income: %s\n\n", FormatCurrency(r.Input.GrossIncome))

	row := func(label, oldVal, newVal string) {
		fmt.Fprintf(&sb, "%-24s %20s %20s\n", label, oldVal, newVal)
	}
	row("", domain.RegimeOld.Title(), domain.RegimeNew.Title())
	sb.WriteString(strings.Repeat("-", 66) + "\n")
	row("Deductions", FormatCurrency(r.OldRegime.DeductionsUsed), FormatCurrency(r.NewRegime.DeductionsUsed))
	row("Taxable Income", FormatCurrency(r.OldRegime.TaxableIncome), FormatCurrency(r.NewRegime.TaxableIncome))
	row("Slab Tax", FormatCurrency(r.OldRegime.SlabTax), FormatCurrency(r.NewRegime.SlabTax))
	row("Cess (4%)", FormatCurrency(r.OldRegime.Cess), FormatCurrency(r.NewRegime.Cess))
	row("Total Tax", FormatCurrency(r.OldRegime.TotalTax), FormatCurrency(r.NewRegime.TotalTax))
	row("Effective Rate", FormatPercentage(r.OldRegime.EffectiveRate), FormatPercentage(r.NewRegime.EffectiveRate))
	sb.WriteString("\n")

	sb.WriteString("OLD REGIME DEDUCTIONS\n")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	for _, item := range orderedBreakdown(r.OldRegime.Breakdown) {
		fmt.Fprintf(&sb, "  %-22s %14s\n", item.Name, FormatCurrency(item.Amount))
	}
	sb.WriteString("\n")

	rec := r.Recommendation
	sb.WriteString("RECOMMENDATION\n")
	sb.WriteString(strings.Repeat("-", 40) + "\n")
	fmt.Fprintf(&sb, "Choose the %s and save %s (%s)\n", rec.ChosenRegime.Title(), FormatCurrency(rec.AnnualSavings), FormatPercentage(rec.SavingsPercentage))
	fmt.Fprintf(&sb, "%s\n", rec.Rationale)

	if len(rec.Optimizations) > 0 {
		sb.WriteString("\nSUGGESTIONS\n")
		sb.WriteString(strings.Repeat("-", 40) + "\n")
		for i, s := range rec.Optimizations {
			fmt.Fprintf(&sb, "%d. %s\n", i+1, s)
		}
	}

	if len(r.Opportunities) > 0 {
		sb.WriteString("\nUNUSED DEDUCTION LIMITS\n")
		sb.WriteString(strings.Repeat("-", 40) + "\n")
		for _, op := range r.Opportunities {
			fmt.Fprintf(&sb, "  %-6s %s of %s left (%s used)\n", op.Section, FormatCurrency(op.Remaining), FormatCurrency(op.Limit), FormatPercentage(op.UtilizationPc))
		}
	}

	return []byte(sb.String()), nil
}
