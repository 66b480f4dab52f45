package categorize

import (
	"time"

	"github.com/shopspring/decimal"
)

// Kind says whether money left or entered the account
type Kind string

const (
	Debit  Kind = "debit"
	Credit Kind = "credit"
)

// Section is the tax head a transaction may count towards
type Section string

const (
	SectionNone   Section = ""
	Section80C    Section = "80C"
	Section80D    Section = "80D"
	Section24B    Section = "24(b)"
	Section80G    Section = "80G"
	SectionHRA    Section = "HRA"
	SectionIncome Section = "income"
)

// Transaction is one statement line. Amount is always positive; Kind carries
// the direction.
type Transaction struct {
	Date        time.Time       `json:"date"`
	Description string          `json:"description"`
	Amount      decimal.Decimal `json:"amount"`
	Kind        Kind            `json:"type"`
}

// Categorized is a transaction with the category it matched.
type Categorized struct {
	Transaction
	Category    string  `json:"category"`
	Subcategory string  `json:"subcategory"`
	Section     Section `json:"tax_section,omitempty"`
	Recurring   bool    `json:"is_recurring"`
	Frequency   string  `json:"frequency,omitempty"`
}

// TaxRelevant reports whether the transaction maps to a tax head.
func (c Categorized) TaxRelevant() bool { return c.Section != SectionNone }

// SectionTotal sums the debits that fall under one section. Eligible is the
// total capped at Limit; a nil Limit means uncapped.
type SectionTotal struct {
	Section  Section          `json:"section"`
	Total    decimal.Decimal  `json:"total_amount"`
	Count    int              `json:"transaction_count"`
	Limit    *decimal.Decimal `json:"eligible_limit,omitempty"`
	Eligible decimal.Decimal  `json:"potential_deduction"`
}

// Summary is the result of categorising a statement.
type Summary struct {
	Transactions []Categorized              `json:"transactions"`
	Sections     []SectionTotal             `json:"sections"`
	Spending     map[string]decimal.Decimal `json:"spending_by_category"`
	Income       decimal.Decimal            `json:"salary_credits"`
}

// Section returns the total for s, or a zero total when nothing matched.
func (s *Summary) Section(sec Section) SectionTotal {
	for _, t := range s.Sections {
		if t.Section == sec {
			return t
		}
	}
	return SectionTotal{Section: sec}
}
