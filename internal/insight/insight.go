// Package insight turns a tax calculation into short, prioritised advice
// cards, either from an LLM or from deterministic rules.
package insight

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/shopspring/decimal"
)

// Priority ranks an insight for display.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Source records where an InsightSet came from.
type Source string

const (
	SourceLLM      Source = "llm"
	SourceFallback Source = "fallback"
)

// maxInsights caps how many cards are kept from a model response.
const maxInsights = 8

// Insight is one piece of advice.
type Insight struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Priority    Priority `json:"priority"`
	Category    string   `json:"category"`
	Action      string   `json:"action,omitempty"`
}

// InsightSet is the response for one calculation.
type InsightSet struct {
	FinancialYear string    `json:"financial_year,omitempty"`
	Insights      []Insight `json:"insights"`
	Source        Source    `json:"source"`
	GeneratedAt   time.Time `json:"generated_at"`
}

var errNoInsights = errors.New("response contained no insights")

// ParseInsights decodes a model reply of the form {"insights":[...]}.
// Markdown code fences around the JSON are tolerated; anything else that is
// not valid JSON, or an insight missing a title, description or known
// priority, rejects the whole reply.
func ParseInsights(text string) ([]Insight, error) {
	text = stripFences(text)

	var payload struct {
		Insights []Insight `json:"insights"`
	}
	dec := json.NewDecoder(strings.NewReader(text))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("parsing insights JSON: %w", err)
	}
	if len(payload.Insights) == 0 {
		return nil, errNoInsights
	}

	out := make([]Insight, 0, len(payload.Insights))
	for i, in := range payload.Insights {
		in.Title = strings.TrimSpace(in.Title)
		in.Description = strings.TrimSpace(in.Description)
		in.Priority = Priority(strings.ToLower(string(in.Priority)))
		if in.Title == "" || in.Description == "" {
			return nil, fmt.Errorf("insight %d: title and description are required", i)
		}
		switch in.Priority {
		case PriorityHigh, PriorityMedium, PriorityLow:
		default:
			return nil, fmt.Errorf("insight %d: unknown priority %q", i, in.Priority)
		}
		if in.Category == "" {
			in.Category = "tax"
		}
		out = append(out, in)
		if len(out) == maxInsights {
			break
		}
	}
	return out, nil
}

func stripFences(text string) string {
	text = strings.TrimSpace(text)
	if !strings.HasPrefix(text, "```") {
		return text
	}
	text = strings.TrimPrefix(text, "```")
	if nl := strings.IndexByte(text, '\n'); nl >= 0 {
		text = text[nl+1:]
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(text), "```"))
}

var significantSavings = decimal.NewFromInt(10000)

// FallbackInsights derives insight cards from the calculation alone.
// The output depends only on result.
func FallbackInsights(result *domain.CalculationResult) []Insight {
	rec := result.Recommendation
	chosen := result.Result(rec.ChosenRegime)

	var out []Insight
	switch {
	case rec.AnnualSavings.IsZero():
		out = append(out, Insight{
			Title:       "Both Regimes Cost the Same",
			Description: fmt.Sprintf("Your tax is ₹%s under either regime.", domain.FormatRupees(chosen.TotalTax)),
			Priority:    PriorityLow,
			Category:    "regime",
		})
	default:
		priority := PriorityMedium
		if rec.AnnualSavings.GreaterThan(significantSavings) {
			priority = PriorityHigh
		}
		out = append(out, Insight{
			Title: "File Under the " + rec.ChosenRegime.Title(),
			Description: fmt.Sprintf("The %s saves ₹%s (%s%%) compared with the alternative.",
				rec.ChosenRegime.Title(), domain.FormatRupees(rec.AnnualSavings), rec.SavingsPercentage.StringFixed(2)),
			Priority: priority,
			Category: "regime",
			Action:   "Declare your regime choice to your employer at the start of the financial year.",
		})
	}

	if rec.ChosenRegime == domain.RegimeOld {
		for _, op := range result.Opportunities {
			out = append(out, Insight{
				Title:       "Unused Section " + op.Section + " Limit",
				Description: fmt.Sprintf("₹%s of the ₹%s limit is still available.", domain.FormatRupees(op.Remaining), domain.FormatRupees(op.Limit)),
				Priority:    PriorityMedium,
				Category:    "deduction",
				Action:      op.Description,
			})
		}
	}

	for _, s := range rec.Optimizations {
		out = append(out, Insight{
			Title:       "Optimisation",
			Description: s,
			Priority:    PriorityLow,
			Category:    "optimization",
		})
	}

	out = append(out, Insight{
		Title:       "Effective Tax Rate",
		Description: fmt.Sprintf("You pay %s%% of your gross income as tax under the recommended regime.", chosen.EffectiveRate.StringFixed(2)),
		Priority:    PriorityLow,
		Category:    "summary",
	})

	if len(out) > maxInsights {
		out = out[:maxInsights]
	}
	return out
}

// BuildPrompt renders the calculation into the instruction sent to the model.
func BuildPrompt(result *domain.CalculationResult) string {
	var sb strings.Builder
	sb.WriteString("You are an Indian personal income tax adviser. Using the calculation below, ")
	sb.WriteString("write between 3 and 6 practical insights for the taxpayer.\n\n")

	fmt.Fprintf(&sb, "Gross income: ₹%s\n", domain.FormatRupees(result.Input.GrossIncome))
	for _, r := range []domain.RegimeResult{result.OldRegime, result.NewRegime} {
		fmt.Fprintf(&sb, "%s: taxable ₹%s, deductions ₹%s, total tax ₹%s, effective rate %s%%\n",
			r.Regime.Title(), domain.FormatRupees(r.TaxableIncome), domain.FormatRupees(r.DeductionsUsed),
			domain.FormatRupees(r.TotalTax), r.EffectiveRate.StringFixed(2))
	}
	fmt.Fprintf(&sb, "Recommended: %s, saving ₹%s\n", result.Recommendation.ChosenRegime.Title(), domain.FormatRupees(result.Recommendation.AnnualSavings))
	for _, op := range result.Opportunities {
		fmt.Fprintf(&sb, "Unused %s headroom: ₹%s\n", op.Section, domain.FormatRupees(op.Remaining))
	}

	sb.WriteString("\nReply with JSON only, no prose, in exactly this shape:\n")
	sb.WriteString(`{"insights":[{"title":"...","description":"...","priority":"high|medium|low","category":"regime|deduction|planning","action":"..."}]}`)
	return sb.String()
}
