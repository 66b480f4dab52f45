package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohiniBalmiki/taxwise/internal/calculation"
	"github.com/mohiniBalmiki/taxwise/internal/config"
	"github.com/mohiniBalmiki/taxwise/internal/domain"
	"github.com/mohiniBalmiki/taxwise/internal/tui"
)

func main() {
	// An optional input file pre-fills the form
	engine := calculation.NewEngine()
	var initial *domain.TaxInput
	if len(os.Args) > 1 {
		configPath := os.Args[1]
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			fmt.Printf("Error: Input file not found: %s\n", configPath)
			os.Exit(1)
		}

		rulesFile := ""
		if len(os.Args) > 2 {
			rulesFile = os.Args[2]
		}
		cfg, rules, err := config.NewInputParser().LoadFromFileWithRules(configPath, rulesFile)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		engine = calculation.NewEngineWithRules(rules)
		initial = &cfg.Income
	}

	model := tui.NewModel(engine, initial)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(), // Use alternate screen buffer
	)

	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running TUI: %v\n", err)
		os.Exit(1)
	}
}
