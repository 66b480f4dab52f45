package output

import (
	"bytes"
	"fmt"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/xuri/excelize/v2"
)

const (
	summarySheet = "Summary"
	slabSheet    = "Slabs"
)

// XLSXFormatter produces a workbook with a summary sheet and a per-slab sheet.
type XLSXFormatter struct{}

func (XLSXFormatter) Name() string { return "xlsx" }
func (XLSXFormatter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}
func (XLSXFormatter) Extension() string { return "xlsx" }

func (XLSXFormatter) Format(r *domain.CalculationResult) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", summarySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(slabSheet); err != nil {
		return nil, fmt.Errorf("create sheet: %w", err)
	}

	summary := [][]interface{}{
		{"Metric", domain.RegimeOld.Title(), domain.RegimeNew.Title()},
		{"Gross Income", r.OldRegime.GrossIncome.InexactFloat64(), r.NewRegime.GrossIncome.InexactFloat64()},
		{"Deductions", r.OldRegime.DeductionsUsed.InexactFloat64(), r.NewRegime.DeductionsUsed.InexactFloat64()},
		{"Taxable Income", r.OldRegime.TaxableIncome.InexactFloat64(), r.NewRegime.TaxableIncome.InexactFloat64()},
		{"Slab Tax", r.OldRegime.SlabTax.InexactFloat64(), r.NewRegime.SlabTax.InexactFloat64()},
		{"Cess", r.OldRegime.Cess.InexactFloat64(), r.NewRegime.Cess.InexactFloat64()},
		{"Total Tax", r.OldRegime.TotalTax.InexactFloat64(), r.NewRegime.TotalTax.InexactFloat64()},
		{"Effective Rate %", r.OldRegime.EffectiveRate.InexactFloat64(), r.NewRegime.EffectiveRate.InexactFloat64()},
		{},
		{"Recommended", r.Recommendation.ChosenRegime.Title()},
		{"Annual Savings", r.Recommendation.AnnualSavings.InexactFloat64()},
		{"Rationale", r.Recommendation.Rationale},
		{},
		{"Old Regime Deductions"},
	}
	for _, item := range orderedBreakdown(r.OldRegime.Breakdown) {
		summary = append(summary, []interface{}{item.Name, item.Amount.InexactFloat64()})
	}
	if err := writeRows(f, summarySheet, summary); err != nil {
		return nil, err
	}

	slabs := [][]interface{}{{"Regime", "Slab", "Rate %", "Income in Slab", "Tax"}}
	for _, res := range []domain.RegimeResult{r.OldRegime, r.NewRegime} {
		for _, band := range res.SlabBreakdown {
			slabs = append(slabs, []interface{}{
				res.Regime.Title(),
				band.Slab,
				band.Rate.Shift(2).InexactFloat64(),
				band.IncomeInSlab.InexactFloat64(),
				band.Tax.InexactFloat64(),
			})
		}
	}
	if err := writeRows(f, slabSheet, slabs); err != nil {
		return nil, err
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		_ = f.SetRowStyle(summarySheet, 1, 1, bold)
		_ = f.SetRowStyle(slabSheet, 1, 1, bold)
	}
	_ = f.SetColWidth(summarySheet, "A", "A", 26)
	_ = f.SetColWidth(summarySheet, "B", "C", 18)
	_ = f.SetColWidth(slabSheet, "A", "B", 24)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
