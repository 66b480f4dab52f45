package tui

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

func salaried() *domain.TaxInput {
	return &domain.TaxInput{
		GrossIncome:      decimal.NewFromInt(1200000),
		BasicSalary:      decimal.NewFromInt(720000),
		HRAReceived:      decimal.NewFromInt(300000),
		ProvidentFund:    decimal.NewFromInt(86400),
		Section80C:       decimal.NewFromInt(150000),
		Section80D:       decimal.NewFromInt(25000),
		HomeLoanInterest: decimal.NewFromInt(200000),
	}
}

// send feeds msg through Update and runs any returned command once.
func send(t *testing.T, m Model, msg tea.Msg) (Model, tea.Msg) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	require.True(t, ok)
	if cmd == nil {
		return model, nil
	}
	return model, cmd()
}

func TestNewModel_Prefill(t *testing.T) {
	m := NewModel(nil, salaried())

	assert.Equal(t, SceneForm, m.currentScene)
	assert.Equal(t, "1200000", m.inputs[0].Value())
	assert.True(t, m.inputs[0].Focused())
	assert.Equal(t, "", m.inputs[fieldIndex(domain.FieldOtherDeductions)].Value(), "zero stays blank")
	assert.Len(t, m.inputs, len(domain.InputFields))
}

func TestModel_SubmitCalculates(t *testing.T) {
	m := NewModel(calculation.NewEngine(), salaried())

	m, msg := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.True(t, m.loading)
	done, ok := msg.(CalculationCompleteMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)

	m, _ = send(t, m, done)
	assert.False(t, m.loading)
	assert.Equal(t, SceneResults, m.currentScene)
	require.NotNil(t, m.result)
	assert.Equal(t, domain.RegimeOld, m.result.Recommendation.ChosenRegime)
	assert.True(t, decimal.NewFromInt(74849).Equal(m.result.Recommendation.AnnualSavings))

	view := m.View()
	assert.Contains(t, view, "RECOMMENDATION")
	assert.Contains(t, view, "₹10,951")
}

func TestModel_ShowsBreakEven(t *testing.T) {
	m := NewModel(nil, &domain.TaxInput{GrossIncome: decimal.NewFromInt(600000)})

	m, msg := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	done := msg.(CalculationCompleteMsg)
	require.NotNil(t, done.BreakEven)
	assert.True(t, decimal.NewFromInt(49998).Equal(done.BreakEven.BreakEvenValue))

	m, _ = send(t, m, done)
	view := m.View()
	assert.Contains(t, view, "BREAK-EVEN")
	assert.Contains(t, view, "₹49,998")
}

func TestModel_ValidationErrorFocusesField(t *testing.T) {
	m := NewModel(nil, nil)

	_, msg := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	done := msg.(CalculationCompleteMsg)
	require.Error(t, done.Err)

	m.focus = 3
	m, _ = send(t, m, done)
	assert.Equal(t, SceneForm, m.currentScene)
	assert.Equal(t, 0, m.focus, "gross income is required")
	assert.Contains(t, m.View(), "gross_income")

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Nil(t, m.err)
}

func TestModel_TypingAndFocus(t *testing.T) {
	m := NewModel(nil, nil)

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("12,00,000")})
	assert.Equal(t, "12,00,000", m.inputs[0].Value())

	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, 1, m.focus)
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m, _ = send(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	assert.Equal(t, len(formFields)-1, m.focus, "focus wraps")

	// enter on the last field submits
	_, msg := send(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	done, ok := msg.(CalculationCompleteMsg)
	require.True(t, ok)
	require.NoError(t, done.Err)
	assert.True(t, decimal.NewFromInt(1200000).Equal(done.Input.GrossIncome))
}

func TestModel_Navigation(t *testing.T) {
	m := NewModel(nil, salaried())
	_, msg := send(t, m, tea.KeyMsg{Type: tea.KeyCtrlS})
	m, _ = send(t, m, msg)
	require.Equal(t, SceneResults, m.currentScene)

	_, msg = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("?")})
	m, _ = send(t, m, msg)
	assert.Equal(t, SceneHelp, m.currentScene)
	assert.Contains(t, m.View(), "DEDUCTIONS")

	_, msg = send(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m, _ = send(t, m, msg)
	assert.Equal(t, SceneResults, m.currentScene)

	_, msg = send(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("e")})
	m, _ = send(t, m, msg)
	assert.Equal(t, SceneForm, m.currentScene)

	_, msg = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlC})
	assert.Equal(t, tea.Quit(), msg)
}

func TestModel_ErrorMsgAndResize(t *testing.T) {
	m := NewModel(nil, nil)
	m, _ = send(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
	assert.Equal(t, 120, m.width)

	m, _ = send(t, m, ErrorMsg{Err: errors.New("boom")})
	assert.Contains(t, m.View(), "boom")
}
