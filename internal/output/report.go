package output

import (
	"fmt"
	"io"
	"os"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"gopkg.in/yaml.v3"
)

// ReportGenerator sends formatted results to a writer or a report directory.
type ReportGenerator struct {
	// Out receives text formats. Defaults to os.Stdout.
	Out io.Writer
	// Dir is where binary formats are written. Empty means the working directory.
	Dir string
}

// NewReportGenerator creates a new report generator
func NewReportGenerator(out io.Writer, dir string) *ReportGenerator {
	if out == nil {
		out = os.Stdout
	}
	return &ReportGenerator{Out: out, Dir: dir}
}

// GenerateReport prints console output and writes every other format to a file.
func GenerateReport(result *domain.CalculationResult, format string) error {
	_, err := NewReportGenerator(os.Stdout, "").Generate(result, format)
	return err
}

// Generate renders result in the named format. Text formats (console, json,
// csv) go to Out; the rest are written to Dir and the filename is returned.
func (rg *ReportGenerator) Generate(result *domain.CalculationResult, format string) (string, error) {
	f, err := Lookup(format)
	if err != nil {
		return "", err
	}

	switch f.Name() {
	case "console", "json", "csv":
		data, err := f.Format(result)
		if err != nil {
			return "", fmt.Errorf("format %s: %w", f.Name(), err)
		}
		if _, err := rg.Out.Write(data); err != nil {
			return "", err
		}
		return "", nil
	default:
		filename, err := WriteFormatted(f, result, rg.Dir)
		if err != nil {
			return "", fmt.Errorf("write %s report: %w", f.Name(), err)
		}
		fmt.Fprintf(rg.Out, "%s report saved to: %s\n", f.Name(), filename)
		return filename, nil
	}
}

// SaveInput writes a tax input as YAML so it can be reloaded with the
// calculate command.
func SaveInput(financialYear string, in domain.TaxInput, filename string) error {
	doc := struct {
		FinancialYear string          `yaml:"financial_year"`
		Income        domain.TaxInput `yaml:"income"`
	}{financialYear, in}

	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to marshal input: %w", err)
	}
	return os.WriteFile(filename, data, 0644)
}
