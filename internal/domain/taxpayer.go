package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// TaxInput holds the annual income and deduction figures entered by the taxpayer.
// All amounts are in Indian Rupees.
type TaxInput struct {
	GrossIncome      decimal.Decimal `yaml:"gross_income" json:"gross_income"`
	BasicSalary      decimal.Decimal `yaml:"basic_salary" json:"basic_salary"`
	HRAReceived      decimal.Decimal `yaml:"hra_received" json:"hra_received"`
	ProvidentFund    decimal.Decimal `yaml:"provident_fund" json:"provident_fund"`
	Section80C       decimal.Decimal `yaml:"section_80c" json:"section_80c"`
	Section80D       decimal.Decimal `yaml:"section_80d" json:"section_80d"`
	HomeLoanInterest decimal.Decimal `yaml:"home_loan_interest" json:"home_loan_interest"`
	OtherDeductions  decimal.Decimal `yaml:"other_deductions" json:"other_deductions"`
}

// Input field names, shared by validation errors, CLI flags and form labels.
const (
	FieldGrossIncome      = "gross_income"
	FieldBasicSalary      = "basic_salary"
	FieldHRAReceived      = "hra_received"
	FieldProvidentFund    = "provident_fund"
	FieldSection80C       = "section_80c"
	FieldSection80D       = "section_80d"
	FieldHomeLoanInterest = "home_loan_interest"
	FieldOtherDeductions  = "other_deductions"
)

// InputFields lists every TaxInput field in declaration order.
var InputFields = []string{
	FieldGrossIncome,
	FieldBasicSalary,
	FieldHRAReceived,
	FieldProvidentFund,
	FieldSection80C,
	FieldSection80D,
	FieldHomeLoanInterest,
	FieldOtherDeductions,
}

// fieldValues pairs each field name with its value, in InputFields order.
func (in TaxInput) fieldValues() []struct {
	name  string
	value decimal.Decimal
} {
	return []struct {
		name  string
		value decimal.Decimal
	}{
		{FieldGrossIncome, in.GrossIncome},
		{FieldBasicSalary, in.BasicSalary},
		{FieldHRAReceived, in.HRAReceived},
		{FieldProvidentFund, in.ProvidentFund},
		{FieldSection80C, in.Section80C},
		{FieldSection80D, in.Section80D},
		{FieldHomeLoanInterest, in.HomeLoanInterest},
		{FieldOtherDeductions, in.OtherDeductions},
	}
}

// Validate checks that no amount is negative and that gross income is positive.
// The first offending field is reported.
func (in TaxInput) Validate() error {
	for _, fv := range in.fieldValues() {
		if fv.value.IsNegative() {
			return NewValidationError(fv.name, "must not be negative")
		}
	}
	if !in.GrossIncome.IsPositive() {
		return NewValidationError(FieldGrossIncome, "must be greater than zero")
	}
	return nil
}

// Set assigns a value to the named field.
func (in *TaxInput) Set(field string, value decimal.Decimal) error {
	switch field {
	case FieldGrossIncome:
		in.GrossIncome = value
	case FieldBasicSalary:
		in.BasicSalary = value
	case FieldHRAReceived:
		in.HRAReceived = value
	case FieldProvidentFund:
		in.ProvidentFund = value
	case FieldSection80C:
		in.Section80C = value
	case FieldSection80D:
		in.Section80D = value
	case FieldHomeLoanInterest:
		in.HomeLoanInterest = value
	case FieldOtherDeductions:
		in.OtherDeductions = value
	default:
		return NewValidationError(field, "unknown field")
	}
	return nil
}

// Get returns the value of the named field.
func (in TaxInput) Get(field string) (decimal.Decimal, bool) {
	for _, fv := range in.fieldValues() {
		if fv.name == field {
			return fv.value, true
		}
	}
	return decimal.Zero, false
}

// ParseTaxInput builds a TaxInput from raw text values such as CLI flags or form
// fields. Blank deduction fields count as zero; gross income is required.
// Separators commonly typed into Indian amounts ("12,00,000", "₹ 5000") are stripped.
func ParseTaxInput(raw map[string]string) (TaxInput, error) {
	if normalizeAmount(raw[FieldGrossIncome]) == "" {
		if err := checkFieldNames(raw); err != nil {
			return TaxInput{}, err
		}
		return TaxInput{}, NewValidationError(FieldGrossIncome, "is required")
	}
	in, err := ParseAmounts(raw)
	if err != nil {
		return TaxInput{}, err
	}
	if err := in.Validate(); err != nil {
		return TaxInput{}, err
	}
	return in, nil
}

// ParseAmounts converts the fields present in raw and leaves the rest at zero.
// Unlike ParseTaxInput it does not require gross income or check signs, so it
// also serves scenario deductions whose gross income comes from elsewhere.
func ParseAmounts(raw map[string]string) (TaxInput, error) {
	var in TaxInput
	if err := checkFieldNames(raw); err != nil {
		return TaxInput{}, err
	}
	for _, name := range InputFields {
		text := normalizeAmount(raw[name])
		if text == "" {
			continue
		}
		value, err := decimal.NewFromString(text)
		if err != nil {
			return TaxInput{}, NewValidationError(name, "must be numeric")
		}
		if err := in.Set(name, value); err != nil {
			return TaxInput{}, err
		}
	}
	return in, nil
}

func checkFieldNames(raw map[string]string) error {
	var zero TaxInput
	for name := range raw {
		if _, ok := zero.Get(name); !ok {
			return NewValidationError(name, "unknown field")
		}
	}
	return nil
}

// ParseAmount reads a rupee amount such as "₹1,50,000" or "Rs. 2500.50".
// Blank text is zero.
func ParseAmount(s string) (decimal.Decimal, error) {
	text := normalizeAmount(s)
	if text == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(text)
}

func normalizeAmount(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₹")
	s = strings.TrimPrefix(s, "Rs.")
	s = strings.TrimPrefix(s, "INR")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.ReplaceAll(s, "_", "")
	return strings.TrimSpace(s)
}
