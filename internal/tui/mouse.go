package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"noten/internal/board"
	"noten/internal/geom"
	"noten/internal/render"
)

func (m Model) handleMouse(msg tea.MouseMsg) (Model, tea.Cmd) {
	if m.showHelp || (m.mode != modeNormal && m.mode != modeEditing) {
		return m, nil
	}
	switch {
	case msg.Button == tea.MouseButtonWheelUp:
		m.zoom(msg.X, msg.Y, wheelZoomStep)
	case msg.Button == tea.MouseButtonWheelDown:
		m.zoom(msg.X, msg.Y, 1/wheelZoomStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft:
		return m.mousePress(msg)
	case msg.Action == tea.MouseActionMotion:
		m.mouseDrag(msg)
	case msg.Action == tea.MouseActionRelease:
		m.mouseRelease(msg)
	}
	return m, nil
}

func (m Model) isDoubleClick(x, y int) bool {
	now := m.now()
	double := m.lastClick.x == x && m.lastClick.y == y &&
		!m.lastClick.at.IsZero() && now.Sub(m.lastClick.at) < doubleClickInterval
	return double
}

func (m Model) mousePress(msg tea.MouseMsg) (Model, tea.Cmd) {
	_, h := m.canvasSize()
	if msg.Y >= h {
		return m, nil
	}
	hit := m.frame().HitAt(msg.X, msg.Y)

	if m.mode == modeEditing {
		if id, _ := m.ctrl.Editor().Active(); hit.Note == id {
			return m, nil
		}
		m = m.endEditing()
		hit = m.frame().HitAt(msg.X, msg.Y)
	}

	m.cursorX, m.cursorY = msg.X, msg.Y
	if m.isDoubleClick(msg.X, msg.Y) {
		m.lastClick = click{}
		switch hit.Kind {
		case render.HitNote, render.HitHandle:
			return m.beginEditing(hit.Note)
		case render.HitEdge:
			_ = m.ctrl.OnEdgeDoubleActivated(hit.Edge)
		}
		return m, nil
	}
	m.lastClick = click{x: msg.X, y: msg.Y, at: m.now()}

	d := drag{startX: msg.X, startY: msg.Y, curX: msg.X, curY: msg.Y}
	switch hit.Kind {
	case render.HitHandle:
		d.kind, d.note, d.handle = dragConnect, hit.Note, board.SourceHandle(hit.Side)
		m.connectFrom = hit.Note
	case render.HitNote:
		n, _ := m.store.Note(hit.Note)
		switch {
		case msg.Ctrl:
			_ = m.ctrl.OnSelectNote(hit.Note, true)
		case !n.Selected:
			_ = m.ctrl.OnSelectNote(hit.Note, false)
		}
		d.kind, d.note = dragNote, hit.Note
	case render.HitEdge:
		_ = m.ctrl.OnSelectEdge(hit.Edge, msg.Ctrl)
	default:
		if !msg.Ctrl {
			m.ctrl.OnSelectionCleared()
		}
		d.kind = dragPan
	}
	m.drag = d
	return m, nil
}

func (m *Model) mouseDrag(msg tea.MouseMsg) {
	switch m.drag.kind {
	case dragNote, dragConnect:
		m.drag.curX, m.drag.curY = msg.X, msg.Y
		m.cursorX, m.cursorY = msg.X, msg.Y
		m.clampCursor()
	case dragPan:
		dx, dy := msg.X-m.drag.curX, msg.Y-m.drag.curY
		m.drag.curX, m.drag.curY = msg.X, msg.Y
		m.pan(dx, dy)
	}
}

// draggedFrom lists the notes a note drag carries: the whole selection when
// the grabbed note is part of it, otherwise just that note.
func (m Model) draggedFrom(d drag) []board.NoteID {
	if d.kind != dragNote {
		return nil
	}
	n, ok := m.store.Note(d.note)
	if !ok {
		return nil
	}
	if !n.Selected {
		return []board.NoteID{n.ID}
	}
	sel := m.store.Board().SelectedNotes()
	ids := make([]board.NoteID, 0, len(sel))
	for _, s := range sel {
		ids = append(ids, s.ID)
	}
	return ids
}

func (m Model) dragged() []board.NoteID {
	return m.draggedFrom(m.drag)
}

// mouseRelease ends a drag. Dragged notes store their resting position; a
// connection drag links to the note under the pointer.
func (m *Model) mouseRelease(msg tea.MouseMsg) {
	d := m.drag
	m.drag = drag{}
	switch d.kind {
	case dragNote:
		d.curX, d.curY = msg.X, msg.Y
		delta := m.cellDelta(d.curX-d.startX, d.curY-d.startY)
		if delta != (geom.Point{}) {
			_ = m.ctrl.OnNotesMoved(m.draggedFrom(d), delta)
		}
	case dragConnect:
		m.connectFrom = ""
		hit := m.frame().HitAt(msg.X, msg.Y)
		if hit.Note == "" {
			return
		}
		var target board.Handle
		if hit.Kind == render.HitHandle {
			target = board.TargetHandle(hit.Side)
		}
		m.ctrl.OnConnectRequested(d.note, hit.Note, d.handle, target)
	}
}
