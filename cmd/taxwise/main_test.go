package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/golang-migrate/migrate/v4"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

const salariedYAML = `financial_year: "2023-24"
income:
  gross_income: 1200000
  basic_salary: 720000
  hra_received: 300000
  provident_fund: 86400
  section_80c: 150000
  section_80d: 25000
  home_loan_interest: 200000
scenarios:
  - name: Max 80C
    deductions:
      section_80c: 150000
  - name: Everything
    deductions:
      basic_salary: 720000
      hra_received: 300000
      provident_fund: 86400
      section_80c: 150000
      section_80d: 25000
      home_loan_interest: 200000
`

// execute runs rootCmd with fresh flag values and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

func writeInput(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "taxwise", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)

	out, err := execute(t)
	require.NoError(t, err)
	assert.Contains(t, out, "Usage:")
}

func TestCommandSubcommands(t *testing.T) {
	expected := []string{"calculate", "simulate", "validate", "deductions", "insights", "init", "breakeven", "optimize", "categorize", "serve", "migrate", "version"}

	registered := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		registered[c.Name()] = true
	}
	for _, name := range expected {
		assert.True(t, registered[name], "command %q not registered", name)
	}
}

func TestCalculateCommand_Console(t *testing.T) {
	path := writeInput(t, salariedYAML)

	out, err := execute(t, "calculate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "RECOMMENDATION")
	assert.Contains(t, out, "Old Regime")
	assert.Contains(t, out, "74,849")
}

func TestCalculateCommand_JSON(t *testing.T) {
	path := writeInput(t, salariedYAML)

	out, err := execute(t, "calculate", path, "--format", "json")
	require.NoError(t, err)

	var doc struct {
		Recommendation struct {
			ChosenRegime string `json:"chosen_regime"`
		} `json:"recommendation"`
		OldRegime struct {
			TotalTax json.Number `json:"total_tax"`
		} `json:"old_regime"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, string(domain.RegimeOld), doc.Recommendation.ChosenRegime)
	assert.Equal(t, "10951", doc.OldRegime.TotalTax.String())
}

func TestCalculateCommand_FileReportAndSave(t *testing.T) {
	path := writeInput(t, salariedYAML)
	dir := t.TempDir()
	saved := filepath.Join(dir, "saved.yaml")

	out, err := execute(t, "calculate", path, "--format", "excel", "--output-dir", dir, "--save", saved)
	require.NoError(t, err)
	assert.Contains(t, out, "xlsx report saved to:")
	assert.Contains(t, out, "Input saved to:")

	matches, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	require.NoError(t, err)
	assert.Len(t, matches, 1)

	// the saved input is itself a valid input file
	out, err = execute(t, "validate", saved)
	require.NoError(t, err)
	assert.Contains(t, out, "is valid")
}

func TestCalculateCommand_Errors(t *testing.T) {
	_, err := execute(t, "calculate", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	path := writeInput(t, salariedYAML)
	_, err = execute(t, "calculate", path, "--format", "docx")
	assert.Error(t, err)

	_, err = execute(t, "calculate")
	assert.Error(t, err, "input file is required")
}

func TestValidateCommand_RejectsNegativeDeduction(t *testing.T) {
	path := writeInput(t, "income:\n  gross_income: 500000\n  section_80d: -1\n")

	_, err := execute(t, "validate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "section_80d")
}

func TestSimulateCommand(t *testing.T) {
	path := writeInput(t, salariedYAML)

	out, err := execute(t, "simulate", path)
	require.NoError(t, err)
	assert.Contains(t, out, "TAX SCENARIO COMPARISON")
	assert.Contains(t, out, "Max 80C")
	assert.Contains(t, out, "Everything")

	out, err = execute(t, "simulate", path, "--format", "json", "--scenarios", "Everything")
	require.NoError(t, err)
	var doc struct {
		BestScenario       string            `json:"bestScenario"`
		AlternativeResults []json.RawMessage `json:"alternativeResults"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "Everything", doc.BestScenario)
	assert.Len(t, doc.AlternativeResults, 1)

	_, err = execute(t, "simulate", path, "--scenarios", "Nope")
	assert.Error(t, err)
}

func TestSimulateCommand_NoScenarios(t *testing.T) {
	path := writeInput(t, "income:\n  gross_income: 900000\n")

	_, err := execute(t, "simulate", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scenarios")
}

func TestBreakEvenCommand(t *testing.T) {
	path := writeInput(t, "income:\n  gross_income: 600000\n")

	out, err := execute(t, "breakeven", path)
	require.NoError(t, err)
	assert.Contains(t, out, "BREAK-EVEN ANALYSIS")
	assert.Contains(t, out, "₹49,998")
	assert.Contains(t, out, "RECOMMENDATIONS")

	out, err = execute(t, "breakeven", path, "--target", "deductions", "--format", "json")
	require.NoError(t, err)
	var doc struct {
		Target         string `json:"target"`
		BreakEvenValue string `json:"break_even_value"`
		Achievable     bool   `json:"achievable"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "deductions", doc.Target)
	assert.Equal(t, "49998", doc.BreakEvenValue)
	assert.True(t, doc.Achievable)
}

func TestBreakEvenCommand_Errors(t *testing.T) {
	path := writeInput(t, "income:\n  gross_income: 600000\n")

	_, err := execute(t, "breakeven", path, "--target", "age")
	assert.Error(t, err)

	_, err = execute(t, "breakeven", path, "--min-income", "abc")
	assert.Error(t, err)

	_, err = execute(t, "breakeven", path, "--min-income", "900000", "--max-income", "800000")
	assert.Error(t, err)

	_, err = execute(t, "breakeven", path, "--format", "xml")
	assert.Error(t, err)
}

const partialYAML = `income:
  gross_income: 1000000
  basic_salary: 500000
  hra_received: 100000
  section_80c: 100000
  section_80d: 10000
  home_loan_interest: 200000
`

func writeStatement(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "statement.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOptimizeCommand(t *testing.T) {
	path := writeInput(t, partialYAML)

	out, err := execute(t, "optimize", path)
	require.NoError(t, err)
	assert.Contains(t, out, "DEDUCTION OPTIMISATION")
	assert.Contains(t, out, "₹65,000")
	assert.Contains(t, out, "₹13,520")
	assert.Contains(t, out, "Public Provident Fund (PPF)")
	assert.Contains(t, out, "ACTION PLAN")

	out, err = execute(t, "optimize", path, "--format", "json")
	require.NoError(t, err)
	var doc struct {
		Summary struct {
			EstimatedSavings string `json:"estimated_tax_savings"`
		} `json:"summary"`
		ActionPlan []json.RawMessage `json:"action_plan"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "13520", doc.Summary.EstimatedSavings)
	assert.Len(t, doc.ActionPlan, 3)
}

func TestOptimizeCommand_WithStatement(t *testing.T) {
	path := writeInput(t, partialYAML)
	statement := writeStatement(t, "Date,Description,Amount\n"+
		"2023-04-10,PPF deposit,-50000\n"+
		"2023-05-01,Star Health insurance premium,-15000\n")

	out, err := execute(t, "optimize", path, "--statement", statement, "--format", "json")
	require.NoError(t, err)
	var doc struct {
		Input   domain.TaxInput `json:"input"`
		Summary struct {
			AdditionalPotential string `json:"optimization_potential"`
		} `json:"summary"`
		ActionPlan []json.RawMessage `json:"action_plan"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "150000", doc.Input.Section80C.String())
	assert.Equal(t, "25000", doc.Input.Section80D.String())
	assert.Equal(t, "0", doc.Summary.AdditionalPotential)
	assert.Len(t, doc.ActionPlan, 1, "only the salary structure step is left")

	_, err = execute(t, "optimize", path, "--statement", filepath.Join(t.TempDir(), "missing.csv"))
	assert.Error(t, err)
	_, err = execute(t, "optimize", path, "--format", "xml")
	assert.Error(t, err)
}

func TestCategorizeCommand(t *testing.T) {
	statement := writeStatement(t, "Date,Narration,Debit,Credit\n"+
		"01/04/2023,SALARY CREDIT ACME,,100000\n"+
		"05/04/2023,LIC premium policy 556,30000,\n"+
		"06/04/2023,Donation to PM CARES fund,5000,\n"+
		"07/04/2023,UPI/Swiggy order,450,\n")

	out, err := execute(t, "categorize", statement)
	require.NoError(t, err)
	assert.Contains(t, out, "STATEMENT SUMMARY (4 transactions)")
	assert.Contains(t, out, "₹1,00,000")
	assert.Contains(t, out, "80C")
	assert.Contains(t, out, "80G")
	assert.Contains(t, out, "Food")

	out, err = execute(t, "categorize", statement, "--format", "json")
	require.NoError(t, err)
	var doc struct {
		Sections []struct {
			Section  string `json:"section"`
			Eligible string `json:"potential_deduction"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "80C", doc.Sections[0].Section)
	assert.Equal(t, "30000", doc.Sections[0].Eligible)
}

func TestDeductionsCommand(t *testing.T) {
	out, err := execute(t, "deductions")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-24")
	assert.Contains(t, out, "80C")
	assert.Contains(t, out, "₹1,50,000")
}

func TestInsightsCommand_Fallback(t *testing.T) {
	t.Setenv("TAXWISE_INSIGHTS_API_KEY", "")
	path := writeInput(t, salariedYAML)

	out, err := execute(t, "insights", path)
	require.NoError(t, err)
	assert.Contains(t, out, "INSIGHTS (fallback)")
	assert.Contains(t, out, "1. [HIGH]")
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "example.yaml")

	out, err := execute(t, "init", path)
	require.NoError(t, err)
	assert.Contains(t, out, path)

	_, err = execute(t, "validate", path)
	require.NoError(t, err)

	_, err = execute(t, "init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = execute(t, "init", path, "--force")
	assert.NoError(t, err)
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "taxwise "))
	assert.Contains(t, buildInfo(), "commit")
}

type fakeMigrator struct {
	calls   []string
	steps   int
	upErr   error
	version uint
}

func (f *fakeMigrator) Up() error   { f.calls = append(f.calls, "up"); return f.upErr }
func (f *fakeMigrator) Down() error { f.calls = append(f.calls, "down"); return nil }
func (f *fakeMigrator) Steps(n int) error {
	f.calls = append(f.calls, "steps")
	f.steps = n
	return nil
}
func (f *fakeMigrator) Version() (uint, bool, error) { return f.version, false, nil }

func TestRunMigration(t *testing.T) {
	var buf bytes.Buffer
	cmd := &cobra.Command{}
	cmd.SetOut(&buf)

	m := &fakeMigrator{upErr: migrate.ErrNoChange, version: 1}
	require.NoError(t, runMigration(cmd, m, []string{"up"}))
	require.NoError(t, runMigration(cmd, m, []string{"steps", "-1"}))
	require.NoError(t, runMigration(cmd, m, []string{"version"}))
	assert.Equal(t, []string{"up", "steps"}, m.calls)
	assert.Equal(t, -1, m.steps)
	assert.Contains(t, buf.String(), "version: 1, dirty: false")

	assert.Error(t, runMigration(cmd, m, []string{"steps"}))
	assert.Error(t, runMigration(cmd, m, []string{"steps", "x"}))
	assert.Error(t, runMigration(cmd, m, []string{"sideways"}))

	m.upErr = errors.New("boom")
	err := runMigration(cmd, m, []string{"up"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
