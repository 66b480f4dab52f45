package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/mohiniBalmiki/taxwise/internal/tui/tuistyles"
)

// MetricCard displays a headline figure with supporting lines
type MetricCard struct {
	Label       string
	Value       string
	Trend       *Trend
	Lines       []string
	Description string
	Highlighted bool
	Width       int
}

// Trend represents a metric's change direction and amount
type Trend struct {
	IsPositive bool
	Change     string // e.g. "₹74,849 less"
}

// NewMetricCard creates a new metric card
func NewMetricCard(label, value string) *MetricCard {
	return &MetricCard{
		Label: label,
		Value: value,
		Width: 34,
	}
}

// WithTrend adds a trend indicator to the metric card
func (m *MetricCard) WithTrend(isPositive bool, change string) *MetricCard {
	m.Trend = &Trend{
		IsPositive: isPositive,
		Change:     change,
	}
	return m
}

// WithLine appends a "label  value" line under the headline value.
func (m *MetricCard) WithLine(label, value string) *MetricCard {
	inner := m.Width - 6
	pad := inner - lipgloss.Width(label) - lipgloss.Width(value)
	if pad < 1 {
		pad = 1
	}
	m.Lines = append(m.Lines, label+strings.Repeat(" ", pad)+value)
	return m
}

// WithDescription adds a description/subtitle
func (m *MetricCard) WithDescription(desc string) *MetricCard {
	m.Description = desc
	return m
}

// WithHighlight marks the card as the recommended option
func (m *MetricCard) WithHighlight(on bool) *MetricCard {
	m.Highlighted = on
	return m
}

// WithWidth sets the card width
func (m *MetricCard) WithWidth(width int) *MetricCard {
	m.Width = width
	return m
}

// Render returns the styled metric card
func (m *MetricCard) Render() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label)
	value := tuistyles.MetricValueStyle.Render(m.Value)

	var trend string
	if m.Trend != nil {
		arrow := tuistyles.TrendIndicator(m.Trend.IsPositive)
		trendStyle := tuistyles.MetricTrendStyle(m.Trend.IsPositive)
		trend = "\n" + trendStyle.Render(fmt.Sprintf("%s %s", arrow, m.Trend.Change))
	}

	var lines string
	if len(m.Lines) > 0 {
		lines = "\n\n" + tuistyles.TableCellStyle.Render(strings.Join(m.Lines, "\n"))
	}

	var desc string
	if m.Description != "" {
		desc = "\n\n" + tuistyles.SubtitleStyle.Render(m.Description)
	}

	content := label + "\n" + value + trend + lines + desc

	borderColor := tuistyles.ColorBorder
	if m.Highlighted {
		borderColor = tuistyles.ColorPrimary
	}
	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(1, 2).
		Width(m.Width)

	return cardStyle.Render(content)
}

// RenderCompact returns a compact inline version without border
func (m *MetricCard) RenderCompact() string {
	label := tuistyles.MetricLabelStyle.Render(m.Label + ":")
	value := tuistyles.MetricValueStyle.Render(m.Value)

	var trend string
	if m.Trend != nil {
		arrow := tuistyles.TrendIndicator(m.Trend.IsPositive)
		trendStyle := tuistyles.MetricTrendStyle(m.Trend.IsPositive)
		trend = " " + trendStyle.Render(fmt.Sprintf("%s %s", arrow, m.Trend.Change))
	}

	return label + " " + value + trend
}

// RegimeCard builds the card for one regime's result.
func RegimeCard(r domain.RegimeResult, chosen bool) *MetricCard {
	card := NewMetricCard(r.Regime.Title(), tuistyles.FormatCurrency(r.TotalTax)).
		WithLine("Taxable income", tuistyles.FormatCurrency(r.TaxableIncome)).
		WithLine("Deductions", tuistyles.FormatCurrency(r.DeductionsUsed)).
		WithLine("Slab tax", tuistyles.FormatCurrency(r.SlabTax)).
		WithLine("Cess", tuistyles.FormatCurrency(r.Cess)).
		WithLine("Effective rate", r.EffectiveRate.StringFixed(2)+"%").
		WithHighlight(chosen)
	if chosen {
		card.WithDescription("Recommended")
	}
	return card
}

// MetricGrid renders multiple metric cards in a grid layout
func MetricGrid(cards []*MetricCard, columns int) string {
	if len(cards) == 0 {
		return ""
	}

	rows := []string{}
	currentRow := []string{}

	for i, card := range cards {
		currentRow = append(currentRow, card.Render())

		// Start new row when we reach column limit or end of cards
		if (i+1)%columns == 0 || i == len(cards)-1 {
			rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, currentRow...))
			currentRow = []string{}
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}
