package tui

import (
	"github.com/mohiniBalmiki/taxwise/internal/breakeven"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

// Scene represents different screens in the TUI
type Scene int

const (
	SceneForm Scene = iota
	SceneResults
	SceneHelp
)

// String returns the breadcrumb name of the scene.
func (s Scene) String() string {
	switch s {
	case SceneForm:
		return "Income & Deductions"
	case SceneResults:
		return "Regime Comparison"
	case SceneHelp:
		return "Help"
	default:
		return "Unknown"
	}
}

// Message types for the Bubble Tea update cycle

// NavigateMsg switches to a different scene
type NavigateMsg struct {
	Scene Scene
}

// ErrorMsg displays an error to the user
type ErrorMsg struct {
	Err error
}

// CalculationCompleteMsg signals a calculation has finished
type CalculationCompleteMsg struct {
	Input     domain.TaxInput
	Result    *domain.CalculationResult
	BreakEven *breakeven.Result
	Err       error
}
