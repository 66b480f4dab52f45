package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mohiniBalmiki/taxwise/internal/domain"
)

var (
	keyQuit     = key.NewBinding(key.WithKeys("ctrl+c"))
	keyNext     = key.NewBinding(key.WithKeys("tab", "down"))
	keyPrev     = key.NewBinding(key.WithKeys("shift+tab", "up"))
	keyEnter    = key.NewBinding(key.WithKeys("enter"))
	keySubmit   = key.NewBinding(key.WithKeys("ctrl+s"))
	keyBack     = key.NewBinding(key.WithKeys("esc"))
	keyHelp     = key.NewBinding(key.WithKeys("f1", "?"))
	keyEdit     = key.NewBinding(key.WithKeys("e"))
	keyQuitSoft = key.NewBinding(key.WithKeys("q"))
)

// Update handles all messages and updates the model state
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case NavigateMsg:
		m.previousScene = m.currentScene
		m.currentScene = msg.Scene
		return m, nil

	case ErrorMsg:
		m.err = msg.Err
		return m, nil

	case CalculationCompleteMsg:
		m.loading = false
		if msg.Err != nil {
			m.err = msg.Err
			// put the cursor on the offending field
			if ve, ok := domain.AsValidationError(msg.Err); ok {
				if i := fieldIndex(ve.Field); i >= 0 {
					return m.focusField(i)
				}
			}
			return m, nil
		}
		m.err = nil
		m.result = msg.Result
		m.breakEven = msg.BreakEven
		m.previousScene = m.currentScene
		m.currentScene = SceneResults
		return m, nil
	}

	return m.updateCurrentScene(msg)
}

// handleKeyPress processes keyboard input
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, keyQuit) {
		return m, tea.Quit
	}

	switch m.currentScene {
	case SceneForm:
		return m.handleFormKey(msg)

	case SceneResults:
		switch {
		case key.Matches(msg, keyQuitSoft):
			return m, tea.Quit
		case key.Matches(msg, keyBack), key.Matches(msg, keyEdit):
			return m.navigate(SceneForm)
		case key.Matches(msg, keyHelp):
			return m.navigate(SceneHelp)
		}

	case SceneHelp:
		if key.Matches(msg, keyBack) || key.Matches(msg, keyHelp) || key.Matches(msg, keyQuitSoft) {
			return m.navigate(m.previousScene)
		}
	}
	return m, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keySubmit):
		return m.submit()

	case key.Matches(msg, keyEnter):
		if m.focus == len(m.inputs)-1 {
			return m.submit()
		}
		return m.focusField(m.focus + 1)

	case key.Matches(msg, keyNext):
		return m.focusField((m.focus + 1) % len(m.inputs))

	case key.Matches(msg, keyPrev):
		return m.focusField((m.focus - 1 + len(m.inputs)) % len(m.inputs))

	case key.Matches(msg, keyBack):
		if m.err != nil {
			m.err = nil
			return m, nil
		}
		if m.result != nil {
			return m.navigate(SceneResults)
		}
		return m, nil

	case msg.String() == "f1":
		// "?" is typed into the field on this scene
		return m.navigate(SceneHelp)
	}

	return m.updateCurrentScene(msg)
}

// updateCurrentScene forwards messages to the focused text input.
func (m Model) updateCurrentScene(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.currentScene != SceneForm {
		return m, nil
	}
	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m Model) focusField(i int) (tea.Model, tea.Cmd) {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m, tea.Batch(m.inputs[m.focus].Focus(), textinput.Blink)
}

func (m Model) navigate(scene Scene) (tea.Model, tea.Cmd) {
	return m, func() tea.Msg { return NavigateMsg{Scene: scene} }
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.loading = true
	m.err = nil
	return m, calculateCmd(m.engine, m.formValues())
}
