package categorize

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

var (
	largeAmount   = decimal.NewFromInt(50000)
	smallAmount   = decimal.NewFromInt(1000)
	donationLimit = decimal.NewFromInt(100000)
	sectionOrder  = []Section{Section80C, Section80D, Section24B, Section80G, SectionHRA}
)

type rule struct {
	category  string
	keywords  []*regexp.Regexp
	patterns  []*regexp.Regexp
	section   Section
	recurring bool
	frequency string
}

func (r rule) matches(desc string) bool {
	for _, re := range r.keywords {
		if re.MatchString(desc) {
			return true
		}
	}
	for _, re := range r.patterns {
		if re.MatchString(desc) {
			return true
		}
	}
	return false
}

// words matches each keyword as whole words so "lic" does not hit "public".
func words(keywords ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(keywords))
	for i, kw := range keywords {
		quoted := strings.ReplaceAll(regexp.QuoteMeta(kw), " ", `\s+`)
		out[i] = regexp.MustCompile(`\b` + quoted + `\b`)
	}
	return out
}

func patterns(exprs ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(exprs))
	for i, e := range exprs {
		out[i] = regexp.MustCompile(e)
	}
	return out
}

// defaultRules are checked in order; the first match wins.
var defaultRules = []rule{
	{
		category: "Salary", section: SectionIncome, recurring: true, frequency: "monthly",
		keywords: words("salary", "payroll", "wages", "income", "stipend"),
		patterns: patterns(`sal\s*\d+`, `salary\s*credit`),
	},
	{
		category: "EMI", section: Section24B, recurring: true, frequency: "monthly",
		keywords: words("emi", "loan", "mortgage", "installment", "equated"),
		patterns: patterns(`emi\s*\d+`, `loan\s*repayment`, `home\s*loan`),
	},
	{
		category: "SIP", section: Section80C, recurring: true, frequency: "monthly",
		keywords: words("sip", "mutual fund", "systematic", "investment"),
		patterns: patterns(`sip\s*\d+`, `mf\s*investment`),
	},
	{
		category: "Insurance", section: Section80C, recurring: true, frequency: "yearly",
		keywords: words("insurance", "premium", "policy", "lic", "mediclaim"),
		patterns: patterns(`insurance\s*premium`, `policy\s*\d+`),
	},
	{
		category: "Rent", section: SectionHRA, recurring: true, frequency: "monthly",
		keywords: words("rent", "house rent", "flat rent", "apartment"),
		patterns: patterns(`rent\s*\d+`),
	},
	{
		category: "Utilities", recurring: true, frequency: "monthly",
		keywords: words("electricity", "water", "gas", "internet", "broadband", "mobile", "phone"),
		patterns: patterns(`electric\s*bill`, `mobile\s*recharge`),
	},
	{
		category: "Food",
		keywords: words("food", "restaurant", "swiggy", "zomato", "grocery", "supermarket", "cafe"),
	},
	{
		category: "Transportation",
		keywords: words("uber", "ola", "taxi", "metro", "bus", "fuel", "petrol", "diesel"),
		patterns: patterns(`petrol\s*pump`),
	},
	{
		category: "Medical", section: Section80D,
		keywords: words("hospital", "medical", "doctor", "pharmacy", "medicine", "health", "diagnostic"),
		patterns: patterns(`\bdr\.?\s+\w+`),
	},
	{
		category: "Education", section: Section80C, recurring: true, frequency: "yearly",
		keywords: words("school", "college", "university", "tuition", "education"),
		patterns: patterns(`(school|college)\s*fee`),
	},
	{
		category: "Investment", section: Section80C,
		keywords: words("ppf", "elss", "nsc", "public provident fund", "stocks", "equity", "bond", "fd", "fixed deposit"),
	},
	{
		category: "Donation", section: Section80G,
		keywords: words("donation", "charity", "pm cares", "ngo", "relief fund"),
	},
	{
		category: "Shopping",
		keywords: words("amazon", "flipkart", "myntra", "shopping", "mall", "store", "market"),
	},
	{
		category: "Entertainment",
		keywords: words("movie", "cinema", "netflix", "prime", "spotify", "entertainment"),
	},
	{
		category: "ATM",
		keywords: words("atm", "cash withdrawal"),
	},
	{
		category: "Transfer",
		keywords: words("transfer", "neft", "imps", "rtgs", "upi"),
	},
}

var subcategories = map[string][]struct {
	name     string
	keywords []string
}{
	"Food": {
		{"Restaurant", []string{"restaurant", "hotel", "cafe", "food court"}},
		{"Delivery", []string{"swiggy", "zomato", "delivery"}},
		{"Grocery", []string{"grocery", "supermarket", "mart"}},
	},
	"Transportation": {
		{"Cab", []string{"uber", "ola", "taxi"}},
		{"Fuel", []string{"petrol", "diesel", "fuel"}},
		{"Public", []string{"metro", "bus"}},
	},
	"Utilities": {
		{"Electricity", []string{"electric", "power"}},
		{"Water", []string{"water", "municipal"}},
		{"Internet", []string{"internet", "broadband", "wifi"}},
		{"Mobile", []string{"mobile", "phone", "airtel", "jio"}},
	},
	"Shopping": {
		{"Online", []string{"amazon", "flipkart", "myntra"}},
		{"Offline", []string{"mall", "store", "market"}},
	},
}

// Categorizer maps statement descriptions to spending categories and tax
// sections by keyword.
type Categorizer struct {
	rules  []rule
	limits domain.DeductionLimits
}

// New creates a categorizer that caps section totals at the given limits.
func New(limits domain.DeductionLimits) *Categorizer {
	return &Categorizer{rules: defaultRules, limits: limits}
}

// Categorize assigns a category to one transaction. Descriptions that match
// no rule fall back to amount heuristics and are never tax relevant.
func (c *Categorizer) Categorize(t Transaction) Categorized {
	desc := strings.ToLower(strings.TrimSpace(t.Description))
	for _, r := range c.rules {
		if !r.matches(desc) {
			continue
		}
		out := Categorized{
			Transaction: t,
			Category:    r.category,
			Subcategory: subcategory(r.category, desc),
			Section:     r.section,
			Recurring:   r.recurring,
			Frequency:   r.frequency,
		}
		if r.category == "Insurance" {
			out.Section, out.Subcategory = Section80C, "Life Insurance"
			if containsAny(desc, "health", "medical", "mediclaim") {
				out.Section, out.Subcategory = Section80D, "Health Insurance"
			}
		}
		return out
	}
	return byAmount(t, desc)
}

func byAmount(t Transaction, desc string) Categorized {
	out := Categorized{Transaction: t, Category: "Others", Subcategory: "Miscellaneous"}
	switch {
	case t.Amount.GreaterThan(largeAmount):
		out.Category, out.Subcategory = "Investment", "Major Purchase"
		if containsAny(desc, "transfer", "neft", "imps") {
			out.Subcategory = "Large Transfer"
		}
	case t.Amount.LessThan(smallAmount) && containsAny(desc, "monthly", "subscription"):
		out.Category, out.Subcategory = "Entertainment", "Subscription"
		out.Recurring, out.Frequency = true, "monthly"
	}
	return out
}

func subcategory(category, desc string) string {
	for _, sub := range subcategories[category] {
		if containsAny(desc, sub.keywords...) {
			return sub.name
		}
	}
	return category
}

func containsAny(s string, terms ...string) bool {
	for _, t := range terms {
		if strings.Contains(s, t) {
			return true
		}
	}
	return false
}

// Summarize categorises every transaction and totals the debits per section.
// Sections appear in a fixed order and only when at least one debit matched.
func (c *Categorizer) Summarize(txns []Transaction) *Summary {
	summary := &Summary{
		Transactions: make([]Categorized, 0, len(txns)),
		Spending:     make(map[string]decimal.Decimal),
	}
	totals := make(map[Section]*SectionTotal)

	for _, t := range txns {
		ct := c.Categorize(t)
		summary.Transactions = append(summary.Transactions, ct)

		if ct.Kind == Credit {
			if ct.Section == SectionIncome {
				summary.Income = summary.Income.Add(ct.Amount)
			}
			continue
		}
		summary.Spending[ct.Category] = summary.Spending[ct.Category].Add(ct.Amount)
		if !ct.TaxRelevant() || ct.Section == SectionIncome {
			continue
		}
		st, ok := totals[ct.Section]
		if !ok {
			st = &SectionTotal{Section: ct.Section, Limit: c.limit(ct.Section)}
			totals[ct.Section] = st
		}
		st.Total = st.Total.Add(ct.Amount)
		st.Count++
	}

	for _, sec := range sectionOrder {
		st, ok := totals[sec]
		if !ok {
			continue
		}
		st.Eligible = st.Total
		if st.Limit != nil {
			st.Eligible = decimal.Min(st.Total, *st.Limit)
		}
		summary.Sections = append(summary.Sections, *st)
	}
	return summary
}

func (c *Categorizer) limit(sec Section) *decimal.Decimal {
	var v decimal.Decimal
	switch sec {
	case Section80C:
		v = c.limits.Section80C
	case Section80D:
		v = c.limits.Section80D
	case Section24B:
		v = c.limits.HomeLoanInterest
	case Section80G:
		v = donationLimit
	default:
		return nil
	}
	return &v
}

// Apply adds the eligible section totals to in. 80G donations go to other
// deductions. Rent is reported but not applied because the input holds the
// allowance received, not rent paid.
func (s *Summary) Apply(in domain.TaxInput) domain.TaxInput {
	in.Section80C = in.Section80C.Add(s.Section(Section80C).Eligible)
	in.Section80D = in.Section80D.Add(s.Section(Section80D).Eligible)
	in.HomeLoanInterest = in.HomeLoanInterest.Add(s.Section(Section24B).Eligible)
	in.OtherDeductions = in.OtherDeductions.Add(s.Section(Section80G).Eligible)
	return in
}
