package output

import (
	"sort"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

// FormatCurrency formats a decimal as rupees with Indian digit grouping.
func FormatCurrency(amount decimal.Decimal) string { return "₹" + domain.FormatRupees(amount) }

// FormatPercentage formats a decimal as a percentage with 2 decimals.
func FormatPercentage(amount decimal.Decimal) string { return amount.StringFixed(2) + "%" }

// breakdownOrder is the display order of deduction line items.
var breakdownOrder = []string{
	calculation.LineStandardDeduction,
	calculation.LineHRAExemption,
	calculation.LineSection80C,
	calculation.LineSection80D,
	calculation.LineSection24B,
	calculation.LineProvidentFund,
	calculation.LineOtherDeductions,
}

type lineItem struct {
	Name   string
	Amount decimal.Decimal
}

// orderedBreakdown returns breakdown entries in display order; unknown keys
// follow alphabetically.
func orderedBreakdown(b map[string]decimal.Decimal) []lineItem {
	items := make([]lineItem, 0, len(b))
	seen := make(map[string]bool, len(b))
	for _, name := range breakdownOrder {
		if v, ok := b[name]; ok {
			items = append(items, lineItem{name, v})
			seen[name] = true
		}
	}
	var rest []string
	for name := range b {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	for _, name := range rest {
		items = append(items, lineItem{name, b[name]})
	}
	return items
}
