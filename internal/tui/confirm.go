package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"noten/internal/interaction"
)

// confirmPrompt is the Confirmer of the terminal UI. A question stays
// pending until the user answers it in the confirm modal.
type confirmPrompt struct {
	message string
	resolve func(bool)
	onYes   tea.Cmd
	active  bool
}

var _ interaction.Confirmer = (*confirmPrompt)(nil)

// Ask shows prompt and calls resolve with the answer.
func (p *confirmPrompt) Ask(prompt string, resolve func(confirmed bool)) {
	p.message = prompt
	p.resolve = resolve
	p.onYes = nil
	p.active = true
}

// askThen shows prompt and runs cmd when the user agrees.
func (p *confirmPrompt) askThen(prompt string, cmd tea.Cmd) {
	p.message = prompt
	p.resolve = nil
	p.onYes = cmd
	p.active = true
}

func (p *confirmPrompt) answer(yes bool) tea.Cmd {
	resolve, cmd := p.resolve, p.onYes
	*p = confirmPrompt{}
	if resolve != nil {
		resolve(yes)
	}
	if !yes {
		return nil
	}
	return cmd
}

func (p *confirmPrompt) View() string {
	content := p.message + "\n\n"
	content += "y yes    n no"
	return overlayBoxStyle.Render(content)
}
