package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewInputParser(t *testing.T) {
	parser := NewInputParser()
	assert.NotNil(t, parser, "Should create input parser")
}

func TestInputParser_LoadFromFile_FileNotFound(t *testing.T) {
	config, err := NewInputParser().LoadFromFile("nonexistent.yaml")

	assert.Error(t, err, "Should error for nonexistent file")
	assert.Nil(t, config, "Should return nil config")
	assert.Contains(t, err.Error(), "failed to read file")
}

func TestInputParser_LoadFromFile_InvalidYAML(t *testing.T) {
	path := writeFile(t, "invalid.yaml", "invalid: yaml: content: [unclosed")

	config, err := NewInputParser().LoadFromFile(path)

	assert.Error(t, err, "Should error for invalid YAML")
	assert.Nil(t, config)
	assert.Contains(t, err.Error(), "failed to parse YAML")
}

func TestInputParser_LoadFromFile_ValidYAML(t *testing.T) {
	path := writeFile(t, "valid.yaml", `
financial_year: "2024-25"
income:
  gross_income: 1200000
  basic_salary: 720000
  hra_received: 300000
  section_80c: "150000"
  section_80d: 25000.50
scenarios:
  - name: Max out 80D
    deductions:
      section_80d: 25000
`)

	config, err := NewInputParser().LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "2024-25", config.FinancialYear)
	assert.True(t, config.Income.GrossIncome.Equal(decimal.NewFromInt(1200000)))
	assert.True(t, config.Income.Section80C.Equal(decimal.NewFromInt(150000)))
	assert.True(t, config.Income.Section80D.Equal(decimal.RequireFromString("25000.50")))
	assert.True(t, config.Income.HomeLoanInterest.IsZero())
	require.Len(t, config.Scenarios, 1)
	assert.Equal(t, "Max out 80D", config.Scenarios[0].Name)
}

func TestInputParser_DefaultsFinancialYear(t *testing.T) {
	config, err := NewInputParser().Parse([]byte("income:\n  gross_income: 500000\n"))
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultFinancialYear, config.FinancialYear)
}

func TestInputParser_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		wantErr string
	}{
		{"missing gross income", "income:\n  section_80c: 1000\n", "gross_income"},
		{"negative deduction", "income:\n  gross_income: 100\n  section_80d: -1\n", "section_80d"},
		{"bad financial year", "financial_year: '2023'\nincome:\n  gross_income: 100\n", "financial_year"},
		{"unnamed scenario", "income:\n  gross_income: 100\nscenarios:\n  - deductions: {}\n", "name is required"},
		{"duplicate scenario", "income:\n  gross_income: 100\nscenarios:\n  - name: a\n  - name: a\n", "duplicate"},
		{"negative scenario field", "income:\n  gross_income: 100\nscenarios:\n  - name: a\n    deductions:\n      section_80c: -5\n", "section_80c"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := NewInputParser().Parse([]byte(tt.doc))
			assert.Nil(t, config)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestInputParser_WriteTemplateRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "input.yaml")
	parser := NewInputParser()
	require.NoError(t, parser.WriteTemplate(path))

	config, err := parser.LoadFromFile(path)
	require.NoError(t, err)
	assert.True(t, config.Income.ProvidentFund.Equal(decimal.NewFromInt(86400)))
	assert.Len(t, config.Scenarios, 1)
}
