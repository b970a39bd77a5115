package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"noten/internal/document"
)

type fileLoadedMsg struct {
	path string
	data []byte
	err  error
}

type fileSavedMsg struct {
	path string
	data []byte
	err  error
}

type exportedMsg struct {
	path string
	err  error
}

type filesListedMsg struct {
	files []string
	err   error
}

type watchStartedMsg struct {
	watcher *document.Watcher
	err     error
}

// diskChangedMsg carries the contents of the open file after another
// program wrote it.
type diskChangedMsg struct {
	path string
	data []byte
	err  error
}

type pastedMsg struct {
	text string
	err  error
}

// reloadMsg replaces the board with the pending disk contents once the
// user agreed to drop unsaved edits.
type reloadMsg struct{}

func reloadCmd() tea.Msg { return reloadMsg{} }

type copiedMsg struct {
	err error
}

// selectionDeletedMsg replaces a delete key press consumed by the global
// key handler.
type selectionDeletedMsg struct{}

type clearStatusMsg struct {
	seq int
}
