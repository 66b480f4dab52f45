package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/tui/components"
)

// View renders the current state of the application
func (m Model) View() string {
	if m.loading {
		return m.renderApp(BorderStyle.Render("⠋ Calculating..."))
	}

	var content string
	switch m.currentScene {
	case SceneForm:
		content = m.renderForm()
	case SceneResults:
		content = m.renderResults()
	case SceneHelp:
		content = m.renderHelp()
	default:
		content = "Unknown scene"
	}

	return m.renderApp(content)
}

// renderApp wraps content with title bar, status bar, and main container
func (m Model) renderApp(content string) string {
	contentHeight := m.height - 4 // title (2) + status (1) + padding (1)
	if contentHeight < 0 {
		contentHeight = 0
	}

	container := lipgloss.NewStyle().
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderTitleBar(),
		container,
		m.renderStatusBar(),
	)
}

// renderTitleBar renders the application title and breadcrumb
func (m Model) renderTitleBar() string {
	title := TitleStyle.Render("TAXWISE - Old vs New Regime")
	crumb := fmt.Sprintf("FY %s / %s", m.engine.Rules.Metadata.FinancialYear, m.currentScene)
	return lipgloss.JoinVertical(lipgloss.Left, title, SubtitleStyle.Render(crumb))
}

// renderStatusBar renders the bottom status bar with keyboard shortcuts
func (m Model) renderStatusBar() string {
	var shortcuts []string
	switch m.currentScene {
	case SceneForm:
		shortcuts = []string{
			formatShortcut("tab/↑↓", "move"),
			formatShortcut("enter", "next"),
			formatShortcut("ctrl+s", "calculate"),
			formatShortcut("f1", "help"),
			formatShortcut("ctrl+c", "quit"),
		}
		if m.result != nil {
			shortcuts = append(shortcuts, formatShortcut("esc", "results"))
		}
	case SceneResults:
		shortcuts = []string{
			formatShortcut("e/esc", "edit"),
			formatShortcut("?", "help"),
			formatShortcut("q", "quit"),
		}
	default:
		shortcuts = []string{formatShortcut("esc", "back")}
	}

	return StatusBarStyle.Width(m.width).Render(strings.Join(shortcuts, " • "))
}

// formatShortcut formats a keyboard shortcut with key and description
func formatShortcut(key, desc string) string {
	return StatusKeyStyle.Render(key) + " " + desc
}

func (m Model) renderForm() string {
	var sb strings.Builder
	sb.WriteString("Annual amounts in rupees. Blank fields count as zero.\n\n")

	for i, f := range formFields {
		label := FieldLabelStyle.Render(f.label)
		if i == m.focus {
			label = FocusedFieldLabelStyle.Render(f.label)
		}
		line := label + m.inputs[i].View()
		if f.hint != "" {
			line += "  " + FieldHintStyle.Render(f.hint)
		}
		sb.WriteString(line + "\n")
	}

	if m.err != nil {
		sb.WriteString("\n" + ErrorStyle.Render("Error: "+m.err.Error()))
	}

	return BorderStyle.Padding(1, 2).Render(sb.String())
}

func (m Model) renderResults() string {
	r := m.result
	if r == nil {
		return BorderStyle.Render("No calculation yet. Press esc to enter your income.")
	}
	rec := r.Recommendation

	oldCard := components.RegimeCard(r.OldRegime, rec.ChosenRegime == r.OldRegime.Regime)
	newCard := components.RegimeCard(r.NewRegime, rec.ChosenRegime == r.NewRegime.Regime)
	if rec.ChosenRegime == r.OldRegime.Regime {
		oldCard.WithTrend(true, FormatCurrency(rec.AnnualSavings)+" less")
	} else {
		newCard.WithTrend(true, FormatCurrency(rec.AnnualSavings)+" less")
	}
	cards := components.MetricGrid([]*components.MetricCard{oldCard, newCard}, 2)

	var sb strings.Builder
	sb.WriteString(TableHeaderStyle.Render("RECOMMENDATION") + "\n")
	sb.WriteString(fmt.Sprintf("Choose the %s and save %s (%s%%)\n",
		rec.ChosenRegime.Title(), FormatCurrency(rec.AnnualSavings), rec.SavingsPercentage.StringFixed(2)))
	sb.WriteString(InfoStyle.Render(rec.Rationale) + "\n")

	if len(rec.Optimizations) > 0 {
		sb.WriteString("\n" + TableHeaderStyle.Render("SUGGESTIONS") + "\n")
		for i, s := range rec.Optimizations {
			sb.WriteString(fmt.Sprintf("%d. %s\n", i+1, s))
		}
	}

	if be := m.breakEven; be != nil && be.Success && !be.BreakEvenValue.IsZero() {
		sb.WriteString("\n" + TableHeaderStyle.Render("BREAK-EVEN") + "\n")
		within := "beyond your unused limits"
		if be.Achievable {
			within = "within your unused limits"
		}
		sb.WriteString(fmt.Sprintf("Old Regime matches with %s more in deductions, %s\n",
			FormatCurrency(be.BreakEvenValue), within))
	}

	if len(r.Opportunities) > 0 {
		sb.WriteString("\n" + TableHeaderStyle.Render("UNUSED LIMITS") + "\n")
		for _, op := range r.Opportunities {
			sb.WriteString(TableCellStyle.Render(fmt.Sprintf("  %-6s %s of %s left",
				op.Section, FormatCurrency(op.Remaining), FormatCurrency(op.Limit))) + "\n")
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, cards, "", sb.String())
}

// renderHelp renders the help screen
func (m Model) renderHelp() string {
	var sb strings.Builder
	sb.WriteString("TAXWISE - Indian Income Tax Regime Calculator\n\n")
	sb.WriteString("FORM:\n")
	for _, k := range [][2]string{
		{"tab, ↓", "Next field"},
		{"shift+tab, ↑", "Previous field"},
		{"enter", "Next field, or calculate on the last one"},
		{"ctrl+s", "Calculate now"},
		{"esc", "Dismiss error or return to results"},
		{"f1", "Show this help"},
	} {
		sb.WriteString("  " + HelpKeyStyle.Render(fmt.Sprintf("%-14s", k[0])) + HelpDescStyle.Render(k[1]) + "\n")
	}
	sb.WriteString("\nRESULTS:\n")
	for _, k := range [][2]string{
		{"e, esc", "Edit the inputs"},
		{"?", "Show this help"},
		{"q, ctrl+c", "Quit"},
	} {
		sb.WriteString("  " + HelpKeyStyle.Render(fmt.Sprintf("%-14s", k[0])) + HelpDescStyle.Render(k[1]) + "\n")
	}

	sb.WriteString("\nDEDUCTIONS:\n")
	for _, entry := range calculation.DeductionCatalogue(m.engine.Rules) {
		limit := "no limit"
		if entry.Limit != nil {
			limit = FormatCurrency(*entry.Limit)
		}
		sb.WriteString(fmt.Sprintf("  %-22s %s\n", entry.Section, limit))
	}

	return BorderStyle.Padding(1, 2).Render(sb.String())
}
