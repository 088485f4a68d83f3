package ui

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// ErrPromptAborted is returned when the operator cancels a prompt.
var ErrPromptAborted = errors.New("prompt aborted")

type promptModel struct {
	label   string
	input   textinput.Model
	done    bool
	aborted bool
}

func (m promptModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyEnter:
			m.done = true
			return m, tea.Quit
		case tea.KeyCtrlC, tea.KeyEsc:
			m.aborted = true
			return m, tea.Quit
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m promptModel) View() string {
	if m.done || m.aborted {
		// Leave the answered line in the scrollback.
		return fmt.Sprintf("%s %s\n", InfoStyle.Render(m.label), m.input.Value())
	}
	return fmt.Sprintf("%s %s\n%s", InfoStyle.Render(m.label), m.input.View(),
		MutedStyle.Render("enter to confirm, esc to cancel"))
}

// AskLine prompts for one line of free text. The initial value, when not
// empty, is pre-filled so the operator can accept it by pressing enter.
func AskLine(label, placeholder, initial string) (string, error) {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.SetValue(initial)
	ti.CursorEnd()
	ti.Focus()
	ti.CharLimit = 0
	ti.Width = 60

	p := tea.NewProgram(promptModel{label: label, input: ti})
	res, err := p.Run()
	if err != nil {
		return "", fmt.Errorf("prompt failed: %w", err)
	}

	m, ok := res.(promptModel)
	if !ok || m.aborted {
		return "", ErrPromptAborted
	}
	return strings.TrimSpace(m.input.Value()), nil
}

// AskRequired re-prompts until a non-empty line is entered.
func AskRequired(label, placeholder string) (string, error) {
	for {
		value, err := AskLine(label, placeholder, "")
		if err != nil {
			return "", err
		}
		if value != "" {
			return value, nil
		}
		fmt.Println(MutedStyle.Render("A value is required."))
	}
}
