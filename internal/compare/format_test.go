package compare

import (
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

func sampleComparisonSet() *ComparisonSet {
	return &ComparisonSet{
		GrossIncome:      decimal.NewFromInt(1200000),
		BaseScenarioName: "Base (no deductions)",
		ConfigPath:       "/path/to/input.yaml",
		BaseResult: &ComparisonResult{
			ScenarioName:      "Base (no deductions)",
			OldRegimeTax:      decimal.NewFromInt(163800),
			NewRegimeTax:      decimal.NewFromInt(85800),
			Recommended:       domain.RegimeNew,
			PayableTax:        decimal.NewFromInt(85800),
			DeductionsClaimed: decimal.NewFromInt(50000),
		},
		AlternativeResults: []ComparisonResult{
			{
				ScenarioName:      "Full deductions",
				OldRegimeTax:      decimal.NewFromInt(10951),
				NewRegimeTax:      decimal.NewFromInt(85800),
				Recommended:       domain.RegimeOld,
				PayableTax:        decimal.NewFromInt(10951),
				DeductionsClaimed: decimal.NewFromInt(739400),
				TaxDiffFromBase:   decimal.NewFromInt(-74849),
				TaxPctFromBase:    decimal.NewFromFloat(-87.24),
				RegimeChanged:     true,
			},
		},
		Recommendations: []string{
			"Lowest Tax: Full deductions saves ₹74,849 per year under the Old Regime",
		},
	}
}

func TestTableFormatter_Format(t *testing.T) {
	formatter := &TableFormatter{}

	result := formatter.Format(sampleComparisonSet())

	if result == "" {
		t.Fatal("Expected formatted output, got empty string")
	}

	if !contains(result, "TAX SCENARIO COMPARISON") {
		t.Error("Expected header in output")
	}

	if !contains(result, "Gross Income:  ₹12,00,000") {
		t.Error("Expected gross income in output")
	}

	if !contains(result, "Configuration: /path/to/input.yaml") {
		t.Error("Expected config path in output")
	}

	if !contains(result, "Full deductions") {
		t.Error("Expected alternative scenario in table")
	}

	if !contains(result, "-₹74,849") {
		t.Error("Expected tax saving against base")
	}

	if !contains(result, "switches to Old Regime") {
		t.Error("Expected regime switch note")
	}

	if !contains(result, "RECOMMENDATIONS") {
		t.Error("Expected recommendations section")
	}
}

func TestTableFormatter_Format_EmptyAlternatives(t *testing.T) {
	formatter := &TableFormatter{}
	compSet := sampleComparisonSet()
	compSet.AlternativeResults = nil
	compSet.Recommendations = nil

	result := formatter.Format(compSet)

	if contains(result, "COMPARISON TO BASE") {
		t.Error("Should not show comparison section without alternatives")
	}
	if contains(result, "RECOMMENDATIONS") {
		t.Error("Should not show recommendations section when empty")
	}
}

func TestTableFormatter_FormatDecimal(t *testing.T) {
	formatter := &TableFormatter{}

	tests := []struct {
		input    decimal.Decimal
		expected string
	}{
		{decimal.NewFromInt(500), "500"},
		{decimal.NewFromInt(85800), "85800"},
		{decimal.NewFromInt(250000), "2.50 L"},
		{decimal.NewFromInt(25000000), "2.50 Cr"},
	}

	for _, tt := range tests {
		result := formatter.formatDecimal(tt.input)
		if result != tt.expected {
			t.Errorf("formatDecimal(%s) = %s, expected %s", tt.input, result, tt.expected)
		}
	}
}

func TestTableFormatter_Truncate(t *testing.T) {
	formatter := &TableFormatter{}

	if got := formatter.truncate("short", 10); got != "short" {
		t.Errorf("truncate returned %q", got)
	}
	if got := formatter.truncate("₹₹₹₹₹₹₹₹₹₹₹₹", 6); got != "₹₹₹..." {
		t.Errorf("truncate should count runes, got %q", got)
	}
}

func TestTableFormatter_FormatCompact(t *testing.T) {
	formatter := &TableFormatter{}

	result := formatter.FormatCompact(sampleComparisonSet())

	expected := "Base: ₹85,800 | Full deductions: -₹74,849"
	if result != expected {
		t.Errorf("FormatCompact() = %q, expected %q", result, expected)
	}
}

func TestCSVFormatter_Format(t *testing.T) {
	formatter := &CSVFormatter{}

	result, err := formatter.Format(sampleComparisonSet())
	if err != nil {
		t.Fatalf("Format returned error: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(result)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(records))
	}
	if records[1][1] != "base" || records[2][1] != "alternative" {
		t.Errorf("unexpected row types: %v / %v", records[1][1], records[2][1])
	}
	if records[2][5] != "old" {
		t.Errorf("expected recommended old, got %s", records[2][5])
	}
	if records[2][9] != "true" {
		t.Errorf("expected regime changed true, got %s", records[2][9])
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		formatter := &JSONFormatter{Pretty: pretty}

		result, err := formatter.Format(sampleComparisonSet())
		if err != nil {
			t.Fatalf("Format returned error: %v", err)
		}

		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(result), &decoded); err != nil {
			t.Fatalf("output is not valid JSON: %v", err)
		}
		if decoded["bestScenario"] != "Full deductions" {
			t.Errorf("expected bestScenario Full deductions, got %v", decoded["bestScenario"])
		}
		if decoded["baseScenarioName"] != "Base (no deductions)" {
			t.Errorf("expected embedded comparison fields, got %v", decoded["baseScenarioName"])
		}
		if pretty != contains(result, "\n  ") {
			t.Errorf("pretty=%v produced unexpected indentation", pretty)
		}
	}
}

func contains(s, substr string) bool {
	return strings.Contains(s, substr)
}
