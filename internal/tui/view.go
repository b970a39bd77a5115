package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const startupBanner = `
 _ __   ___ | |_ ___ _ __
| '_ \ / _ \| __/ _ \ '_ \
| | | | (_) | ||  __/ | | |
|_| |_|\___/ \__\___|_| |_|`

// View implements tea.Model.
func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	if m.showHelp {
		return m.helpView()
	}
	switch m.mode {
	case modeStartup:
		return m.startupView()
	case modeOpen:
		return m.openView()
	}

	f := m.frame()
	if m.mode != modeFileInput {
		f.MarkCursor(m.cursorX, m.cursorY)
	}
	canvas := f.String()
	if m.mode == modeConfirm {
		w, h := m.canvasSize()
		canvas = lipgloss.Place(w, h, lipgloss.Center, lipgloss.Center, m.s.prompt.View())
	}

	parts := []string{canvas}
	if m.mode == modeEditing {
		parts = append(parts, panelStyle.Width(m.width).Render(m.editor.View()))
	}
	parts = append(parts, m.statusView())
	return strings.Join(parts, "\n")
}

func (m Model) statusView() string {
	if m.mode == modeFileInput {
		return m.input.View() + "  " + helpStyle.Render("enter confirm  esc cancel")
	}

	left := modeStyle.Render(" " + m.mode.String() + " ")
	if m.panMode {
		left += modeStyle.Render(" PAN ")
	}
	name := "[new]"
	if m.filename != "" {
		name = filepath.Base(m.filename)
	}
	if m.s.dirty {
		name += " *"
	}
	b := m.ctrl.Board()
	info := fmt.Sprintf(" %s | %d notes %d edges | %d%% ", name, len(b.Notes), len(b.Edges), int(m.ctrl.Viewport().Zoom*100+0.5))

	right := m.s.status.View()
	if m.s.status.text == "" {
		right = helpStyle.Render(m.modeHint())
	}
	line := left + statusStyle.Render(info) + " " + right
	return lipgloss.NewStyle().MaxWidth(m.width).Render(line)
}

func (m Model) modeHint() string {
	switch m.mode {
	case modeConnect:
		return "move to the target note, enter to connect, esc to cancel"
	case modeMove:
		return "arrows move, enter to place, esc to cancel"
	case modeEditing:
		return "type to edit, esc to finish"
	case modeConfirm:
		return "y yes  n no"
	}
	return m.help.ShortHelpView(keys.ShortHelp())
}

func (m Model) startupView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render(startupBanner))
	sb.WriteString("\n\n")
	sb.WriteString("sticky notes in the terminal\n\n")
	sb.WriteString("n  new board\n")
	sb.WriteString("o  open a saved board\n")
	sb.WriteString("q  quit\n")
	box := overlayBoxStyle.Render(sb.String())

	body := lipgloss.Place(m.width, max(m.height-1, 1), lipgloss.Center, lipgloss.Center, box)
	status := m.s.status.View()
	if m.s.status.text == "" {
		status = helpStyle.Render("Press 'n' for a new board, 'o' to open one, or 'q' to quit")
	}
	return body + "\n" + status
}

func (m Model) openView() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("Open a board"))
	sb.WriteString("  ")
	sb.WriteString(helpStyle.Render(filepath.Join(m.cfg.SaveDir(), m.cfg.Storage.OpenPattern)))
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("─", m.width))
	sb.WriteString("\n")

	rows := max(m.height-4, 1)
	if len(m.files) == 0 {
		sb.WriteString(helpStyle.Render("(no matching files)"))
		sb.WriteString("\n")
	}
	start := 0
	if m.fileIdx >= rows {
		start = m.fileIdx - rows + 1
	}
	for i := start; i < len(m.files) && i < start+rows; i++ {
		if i == m.fileIdx {
			sb.WriteString(selectedStyle.Render("> " + m.files[i]))
		} else {
			sb.WriteString("  " + m.files[i])
		}
		sb.WriteString("\n")
	}
	sb.WriteString(strings.Repeat("─", m.width))
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("↑/↓ choose  enter open  esc back"))
	return sb.String()
}

func (m Model) helpView() string {
	h := m.help
	h.ShowAll = true
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("noten help"))
	sb.WriteString("\n\n")
	sb.WriteString(h.View(keys))
	sb.WriteString("\n\n")
	sb.WriteString("Mouse: click selects, ctrl+click adds to the selection, drag moves the selection,\n")
	sb.WriteString("drag from a handle (●) connects, double-click edits a note or deletes an edge,\n")
	sb.WriteString("drag the background to pan, wheel zooms.\n\n")
	sb.WriteString(helpStyle.Render("? or esc to close"))
	return sb.String()
}
