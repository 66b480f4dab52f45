package output

import (
	"bytes"
	"encoding/csv"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// CSVFormatter writes one row per metric with a column for each regime,
// followed by the old-regime deduction lines.
type CSVFormatter struct{}

func (c CSVFormatter) Name() string        { return "csv" }
func (c CSVFormatter) ContentType() string { return "text/csv; charset=utf-8" }
func (c CSVFormatter) Extension() string   { return "csv" }

func (c CSVFormatter) Format(r *domain.CalculationResult) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)

	rows := [][]string{
		{"Metric", "OldRegime", "NewRegime"},
		{"GrossIncome", r.OldRegime.GrossIncome.StringFixed(2), r.NewRegime.GrossIncome.StringFixed(2)},
		{"DeductionsUsed", r.OldRegime.DeductionsUsed.StringFixed(2), r.NewRegime.DeductionsUsed.StringFixed(2)},
		{"TaxableIncome", r.OldRegime.TaxableIncome.StringFixed(2), r.NewRegime.TaxableIncome.StringFixed(2)},
		{"SlabTax", r.OldRegime.SlabTax.StringFixed(2), r.NewRegime.SlabTax.StringFixed(2)},
		{"Cess", r.OldRegime.Cess.StringFixed(2), r.NewRegime.Cess.StringFixed(2)},
		{"TotalTax", r.OldRegime.TotalTax.StringFixed(0), r.NewRegime.TotalTax.StringFixed(0)},
		{"EffectiveRate", r.OldRegime.EffectiveRate.StringFixed(2), r.NewRegime.EffectiveRate.StringFixed(2)},
	}
	for _, item := range orderedBreakdown(r.OldRegime.Breakdown) {
		newVal := ""
		if v, ok := r.NewRegime.Breakdown[item.Name]; ok {
			newVal = v.StringFixed(2)
		}
		rows = append(rows, []string{"Deduction: " + item.Name, item.Amount.StringFixed(2), newVal})
	}
	rows = append(rows,
		[]string{"RecommendedRegime", string(r.Recommendation.ChosenRegime), ""},
		[]string{"AnnualSavings", r.Recommendation.AnnualSavings.StringFixed(0), ""},
	)

	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
