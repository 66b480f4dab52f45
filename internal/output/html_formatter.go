package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (h HTMLFormatter) Name() string        { return "html" }
func (h HTMLFormatter) ContentType() string { return "text/html; charset=utf-8" }
func (h HTMLFormatter) Extension() string   { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"pct":  FormatPercentage,
}).Parse(htmlTemplateSource))

func (h HTMLFormatter) Format(result *domain.CalculationResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.CalculationResult
		OldTitle    string
		NewTitle    string
		ChosenTitle string
		Deductions  []lineItem
		Assumptions []string
	}{
		CalculationResult: result,
		OldTitle:          domain.RegimeOld.Title(),
		NewTitle:          domain.RegimeNew.Title(),
		ChosenTitle:       result.Recommendation.ChosenRegime.Title(),
		Deductions:        orderedBreakdown(result.OldRegime.Breakdown),
		Assumptions:       DefaultAssumptions,
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
