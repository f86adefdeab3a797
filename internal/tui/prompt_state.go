package tui

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// promptKind identifies what a submitted prompt does
type promptKind int

const (
	promptNewRequest promptKind = iota
	promptNewFolder
	promptNewProject
	promptRename
	promptMove
	promptFilter
	promptResponseFilter
	promptSaveAs
)

// PromptState is a single-line text prompt shown in the footer
type PromptState struct {
	kind     promptKind
	label    string
	targetID string
	input    textinput.Model
}

// NewPromptState creates a focused prompt with an initial value
func NewPromptState(kind promptKind, label, targetID, value string) *PromptState {
	ti := textinput.New()
	ti.Prompt = ""
	ti.CharLimit = 256
	ti.SetValue(value)
	ti.CursorEnd()
	ti.Focus()
	return &PromptState{
		kind:     kind,
		label:    label,
		targetID: targetID,
		input:    ti,
	}
}

// Value returns the current input
func (p *PromptState) Value() string {
	return p.input.Value()
}

// Update feeds a key to the text input
func (p *PromptState) Update(msg tea.KeyMsg) tea.Cmd {
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	return cmd
}

// View renders the label and the input
func (p *PromptState) View() string {
	return p.label + ": " + p.input.View()
}

// ConfirmState is a pending yes/no question
type ConfirmState struct {
	question string
	onYes    func() tea.Cmd
}
