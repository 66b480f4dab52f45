package output

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

var (
	colorBrand = [3]int{30, 64, 120}
	colorMuted = [3]int{110, 110, 110}
	colorRow   = [3]int{240, 244, 250}
	colorWin   = [3]int{32, 140, 80}
)

// PDFFormatter renders a one-page A4 tax report.
type PDFFormatter struct{}

func (PDFFormatter) Name() string        { return "pdf" }
func (PDFFormatter) ContentType() string { return "application/pdf" }
func (PDFFormatter) Extension() string   { return "pdf" }

// pdfText replaces characters the core fonts cannot encode.
func pdfText(s string) string {
	replacer := strings.NewReplacer(
		"₹", "Rs. ",
		"•", "-",
		"–", "-",
		"‘", "'", "’", "'",
		"“", "\"", "”", "\"",
	)
	return replacer.Replace(s)
}

func (PDFFormatter) Format(r *domain.CalculationResult) ([]byte, error) {
	const marginL, marginR = 15.0, 15.0
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(marginL, 15, marginR)
	pdf.SetAutoPageBreak(true, 20)
	pageW, _ := pdf.GetPageSize()
	contentW := pageW - marginL - marginR

	pdf.SetFooterFunc(func() {
		pdf.SetY(-12)
		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(colorMuted[0], colorMuted[1], colorMuted[2])
		pdf.CellFormat(contentW/2, 6, "taxwise", "", 0, "L", false, 0, "")
		pdf.CellFormat(contentW/2, 6, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "R", false, 0, "")
	})

	pdf.AddPage()

	pdf.SetFillColor(colorBrand[0], colorBrand[1], colorBrand[2])
	pdf.Rect(0, 0, pageW, 32, "F")
	pdf.SetXY(marginL, 10)
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(255, 255, 255)
	pdf.CellFormat(contentW, 9, "Income Tax Report", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(contentW, 6, pdfText("Gross income "+FormatCurrency(r.Input.GrossIncome)), "", 1, "L", false, 0, "")
	pdf.SetY(40)

	colW := []float64{contentW * 0.4, contentW * 0.3, contentW * 0.3}
	header := func(cells ...string) {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(colorBrand[0], colorBrand[1], colorBrand[2])
		pdf.SetTextColor(255, 255, 255)
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(colW[i], 8, pdfText(c), "", 0, align, true, 0, "")
		}
		pdf.Ln(-1)
	}
	fill := false
	row := func(cells ...string) {
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(30, 30, 30)
		pdf.SetFillColor(colorRow[0], colorRow[1], colorRow[2])
		for i, c := range cells {
			align := "R"
			if i == 0 {
				align = "L"
			}
			pdf.CellFormat(colW[i], 7, pdfText(c), "", 0, align, fill, 0, "")
		}
		pdf.Ln(-1)
		fill = !fill
	}

	header("", domain.RegimeOld.Title(), domain.RegimeNew.Title())
	row("Deductions", FormatCurrency(r.OldRegime.DeductionsUsed), FormatCurrency(r.NewRegime.DeductionsUsed))
	row("Taxable income", FormatCurrency(r.OldRegime.TaxableIncome), FormatCurrency(r.NewRegime.TaxableIncome))
	row("Slab tax", FormatCurrency(r.OldRegime.SlabTax), FormatCurrency(r.NewRegime.SlabTax))
	row("Cess", FormatCurrency(r.OldRegime.Cess), FormatCurrency(r.NewRegime.Cess))
	row("Total tax", FormatCurrency(r.OldRegime.TotalTax), FormatCurrency(r.NewRegime.TotalTax))
	row("Effective rate", FormatPercentage(r.OldRegime.EffectiveRate), FormatPercentage(r.NewRegime.EffectiveRate))
	pdf.Ln(6)

	rec := r.Recommendation
	pdf.SetFont("Helvetica", "B", 13)
	pdf.SetTextColor(colorWin[0], colorWin[1], colorWin[2])
	pdf.CellFormat(contentW, 8, pdfText(fmt.Sprintf("Recommended: %s (save %s)", rec.ChosenRegime.Title(), FormatCurrency(rec.AnnualSavings))), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.MultiCell(contentW, 5, pdfText(rec.Rationale), "", "L", false)
	pdf.Ln(4)

	colW = []float64{contentW * 0.6, contentW * 0.4}
	pdf.SetFont("Helvetica", "B", 10)
	header("Old regime deduction", "Amount")
	fill = false
	for _, item := range orderedBreakdown(r.OldRegime.Breakdown) {
		row(item.Name, FormatCurrency(item.Amount))
	}

	if len(rec.Optimizations) > 0 {
		pdf.Ln(6)
		pdf.SetFont("Helvetica", "B", 12)
		pdf.SetTextColor(colorBrand[0], colorBrand[1], colorBrand[2])
		pdf.CellFormat(contentW, 7, "Suggestions", "", 1, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		pdf.SetTextColor(30, 30, 30)
		for i, s := range rec.Optimizations {
			pdf.MultiCell(contentW, 5, pdfText(fmt.Sprintf("%d. %s", i+1, s)), "", "L", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render pdf: %w", err)
	}
	return buf.Bytes(), nil
}
