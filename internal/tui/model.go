package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohiniBalmiki/taxwise/internal/breakeven"
	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// formField describes one input on the form.
type formField struct {
	name  string
	label string
	hint  string
}

var formFields = []formField{
	{domain.FieldGrossIncome, "Gross income", "required"},
	{domain.FieldBasicSalary, "Basic salary", "used for HRA exemption"},
	{domain.FieldHRAReceived, "HRA received", ""},
	{domain.FieldProvidentFund, "Provident fund", "employee contribution"},
	{domain.FieldSection80C, "Section 80C", "capped at ₹1,50,000"},
	{domain.FieldSection80D, "Section 80D", "capped at ₹25,000"},
	{domain.FieldHomeLoanInterest, "Home loan interest", "24(b), capped at ₹2,00,000"},
	{domain.FieldOtherDeductions, "Other deductions", ""},
}

// Model represents the entire application state
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene

	// Terminal dimensions
	width  int
	height int

	// Calculation engine
	engine *calculation.Engine

	// Form state
	inputs []textinput.Model
	focus  int

	// Last successful calculation
	result    *domain.CalculationResult
	breakEven *breakeven.Result

	// Error state
	err error

	loading bool
}

// NewModel creates a new application model. initial pre-fills the form and
// may be nil.
func NewModel(engine *calculation.Engine, initial *domain.TaxInput) Model {
	if engine == nil {
		engine = calculation.NewEngine()
	}

	inputs := make([]textinput.Model, len(formFields))
	for i, f := range formFields {
		ti := textinput.New()
		ti.Placeholder = "0"
		ti.CharLimit = 16
		ti.Width = 18
		ti.Prompt = "₹ "
		if initial != nil {
			if v, ok := initial.Get(f.name); ok && !v.IsZero() {
				ti.SetValue(v.String())
			}
		}
		inputs[i] = ti
	}
	inputs[0].Focus()

	return Model{
		currentScene: SceneForm,
		engine:       engine,
		inputs:       inputs,
		width:        80,
		height:       24,
	}
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// formValues collects the raw text of every form input.
func (m Model) formValues() map[string]string {
	raw := make(map[string]string, len(formFields))
	for i, f := range formFields {
		raw[f.name] = m.inputs[i].Value()
	}
	return raw
}

// calculateCmd returns a command that parses the form and runs the engine
func calculateCmd(engine *calculation.Engine, raw map[string]string) tea.Cmd {
	return func() tea.Msg {
		in, err := domain.ParseTaxInput(raw)
		if err != nil {
			return CalculationCompleteMsg{Err: err}
		}
		result, err := engine.Calculate(in)
		if err != nil {
			return CalculationCompleteMsg{Input: in, Err: err}
		}
		// the break-even line is optional; a solver failure leaves it out
		be, _ := breakeven.NewDefaultSolver(engine).Solve(context.Background(), breakeven.Request{
			Input:  in,
			Target: breakeven.TargetDeductions,
		})
		return CalculationCompleteMsg{Input: in, Result: result, BreakEven: be}
	}
}

// fieldIndex returns the form position of a field name, or -1.
func fieldIndex(name string) int {
	for i, f := range formFields {
		if f.name == name {
			return i
		}
	}
	return -1
}
