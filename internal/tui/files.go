package tui

import (
	"context"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"noten/internal/board"
	"noten/internal/document"
	"noten/internal/render"
)

type fileOp int

const (
	fileOpSave fileOp = iota
	fileOpPNG
	fileOpText
)

func (op fileOp) prompt() string {
	switch op {
	case fileOpPNG:
		return "Export PNG: "
	case fileOpText:
		return "Export text: "
	default:
		return "Save as: "
	}
}

func (op fileOp) ext() string {
	switch op {
	case fileOpPNG:
		return ".png"
	case fileOpText:
		return ".txt"
	default:
		return ".json"
	}
}

// withExt swaps the extension of name for ext, adding one if missing.
func withExt(name, ext string) string {
	if name == "" {
		return ""
	}
	return strings.TrimSuffix(name, filepath.Ext(name)) + ext
}

func loadCmd(path string) tea.Cmd {
	return func() tea.Msg {
		data, err := document.ReadFile(path)
		return fileLoadedMsg{path: path, data: data, err: err}
	}
}

func saveCmd(path string, data []byte) tea.Cmd {
	return func() tea.Msg {
		return fileSavedMsg{path: path, data: data, err: document.WriteFile(path, data)}
	}
}

func exportPNGCmd(path string, b board.Board) tea.Cmd {
	return func() tea.Msg {
		return exportedMsg{path: path, err: render.SavePNG(path, b)}
	}
}

func exportTextCmd(path string, f *render.Frame) tea.Cmd {
	return func() tea.Msg {
		return exportedMsg{path: path, err: render.SaveText(path, f)}
	}
}

func listCmd(dir, pattern string) tea.Cmd {
	return func() tea.Msg {
		files, err := document.List(dir, pattern)
		return filesListedMsg{files: files, err: err}
	}
}

func watchCmd(ctx context.Context, path string) tea.Cmd {
	return func() tea.Msg {
		w, err := document.Watch(ctx, path)
		return watchStartedMsg{watcher: w, err: err}
	}
}

// waitForChange blocks until the watched file changes and then reads it.
// It returns nil once the watcher stops.
func waitForChange(w *document.Watcher) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-w.Changes(); !ok {
			return nil
		}
		data, err := document.ReadFile(w.Path())
		return diskChangedMsg{path: w.Path(), data: data, err: err}
	}
}
