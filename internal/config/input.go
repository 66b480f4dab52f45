package config

import (
	"fmt"
	"os"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"gopkg.in/yaml.v3"
)

// Configuration is the contents of a calculation input file.
type Configuration struct {
	FinancialYear string                      `yaml:"financial_year" json:"financial_year"`
	Income        domain.TaxInput             `yaml:"income" json:"income"`
	Scenarios     []domain.SimulationScenario `yaml:"scenarios,omitempty" json:"scenarios,omitempty"`
}

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads a calculation input from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes and validates a calculation input document.
func (ip *InputParser) Parse(data []byte) (*Configuration, error) {
	var config Configuration
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}
	if config.FinancialYear == "" {
		config.FinancialYear = domain.DefaultFinancialYear
	}

	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *Configuration) error {
	if _, err := domain.ParseFinancialYear(config.FinancialYear); err != nil {
		return err
	}
	if err := config.Income.Validate(); err != nil {
		return fmt.Errorf("income: %w", err)
	}

	seen := make(map[string]bool, len(config.Scenarios))
	for i, sc := range config.Scenarios {
		if sc.Name == "" {
			return fmt.Errorf("scenario %d: name is required", i)
		}
		if seen[sc.Name] {
			return fmt.Errorf("scenario %d: duplicate name %q", i, sc.Name)
		}
		seen[sc.Name] = true

		// scenarios inherit gross income from the main input
		in := sc.Input
		in.GrossIncome = config.Income.GrossIncome
		if err := in.Validate(); err != nil {
			return fmt.Errorf("scenario %q: %w", sc.Name, err)
		}
	}
	return nil
}

// LoadRules reads a tax rules file. Keys missing from the file keep their
// FY 2023-24 defaults; a slab table that is present replaces the default table.
func (ip *InputParser) LoadRules(filename string) (domain.TaxRules, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return domain.TaxRules{}, fmt.Errorf("failed to read rules file %s: %w", filename, err)
	}

	rules := domain.DefaultTaxRules()
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return domain.TaxRules{}, fmt.Errorf("failed to parse rules YAML: %w", err)
	}
	if err := rules.Validate(); err != nil {
		return domain.TaxRules{}, fmt.Errorf("rules validation failed: %w", err)
	}
	return rules, nil
}

// LoadFromFileWithRules loads an input file together with a rules file.
// An empty rulesFile selects the default rules.
func (ip *InputParser) LoadFromFileWithRules(filename, rulesFile string) (*Configuration, domain.TaxRules, error) {
	config, err := ip.LoadFromFile(filename)
	if err != nil {
		return nil, domain.TaxRules{}, err
	}
	if rulesFile == "" {
		return config, domain.DefaultTaxRules(), nil
	}
	rules, err := ip.LoadRules(rulesFile)
	if err != nil {
		return nil, domain.TaxRules{}, err
	}
	return config, rules, nil
}

// WriteTemplate writes an example input file to filename.
func (ip *InputParser) WriteTemplate(filename string) error {
	if err := os.WriteFile(filename, []byte(inputTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write template %s: %w", filename, err)
	}
	return nil
}

const inputTemplate = `# taxwise calculation input (amounts in rupees)
financial_year: "2023-24"
income:
  gross_income: 1200000
  basic_salary: 720000
  hra_received: 300000
  provident_fund: 86400
  section_80c: 150000
  section_80d: 25000
  home_loan_interest: 200000
  other_deductions: 0

# optional what-if scenarios; gross income is taken from above
scenarios:
  - name: No home loan
    deductions:
      basic_salary: 720000
      hra_received: 300000
      provident_fund: 86400
      section_80c: 150000
      section_80d: 25000
`
