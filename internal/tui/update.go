package tui

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"noten/internal/board"
	"noten/internal/document"
	"noten/internal/geom"
	"noten/internal/interaction"
	"noten/internal/render"
)

// Filter routes delete keys through the process-wide key handler before
// the model sees them. A consumed key is replaced so that no surface acts
// on it a second time.
func Filter(tm tea.Model, msg tea.Msg) tea.Msg {
	k, ok := msg.(tea.KeyMsg)
	if !ok {
		return msg
	}
	m, ok := tm.(Model)
	if !ok || m.showHelp {
		return msg
	}
	switch m.mode {
	case modeStartup, modeOpen, modeConfirm:
		return msg
	}
	ev := interaction.KeyEvent{
		Key:    k.String(),
		InText: m.mode == modeEditing || m.mode == modeFileInput,
	}
	if interaction.Dispatch(ev) {
		return selectionDeletedMsg{}
	}
	return msg
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.clampCursor()
	case tea.KeyMsg:
		m, cmd = m.handleKey(msg)
	case tea.MouseMsg:
		m, cmd = m.handleMouse(msg)
	case selectionDeletedMsg:
		m.log.Debug().Msg("selection deleted by key")
	case fileLoadedMsg:
		m, cmd = m.onFileLoaded(msg)
	case fileSavedMsg:
		m, cmd = m.onFileSaved(msg)
	case exportedMsg:
		m.onExported(msg)
	case filesListedMsg:
		m.onFilesListed(msg)
	case watchStartedMsg:
		cmd = m.onWatchStarted(msg)
	case diskChangedMsg:
		cmd = m.onDiskChanged(msg)
	case pastedMsg:
		m.onPasted(msg)
	case copiedMsg:
		if msg.err != nil {
			m.s.status.Error(msg.err.Error())
		} else {
			m.s.status.Info("copied")
		}
	case reloadMsg:
		m.reload()
	case clearStatusMsg:
		m.s.status.clear(msg.seq)
	default:
		switch m.mode {
		case modeEditing:
			m.editor, cmd = m.editor.Update(msg)
		case modeFileInput:
			m.input, cmd = m.input.Update(msg)
		}
	}
	return m.settle(cmd)
}

// settle reconciles the UI state with the store after every message and
// schedules the status line to clear.
func (m Model) settle(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	if m.mode == modeEditing {
		if _, ok := m.ctrl.Editor().Active(); !ok {
			m.editor.Blur()
			m.mode = modeNormal
		}
	}
	if m.connectFrom != "" {
		if _, ok := m.store.Note(m.connectFrom); !ok {
			m = m.cancelConnect()
		}
	}
	if m.mode == modeMove {
		if _, ok := m.store.Note(m.moving); !ok {
			m.mode, m.moving, m.moveDelta = modeNormal, "", geom.Point{}
		}
	}
	if m.s.prompt.active && m.mode != modeConfirm {
		m.back = m.mode
		m.mode = modeConfirm
	}

	cmds := []tea.Cmd{cmd}
	if seq := m.s.status.seq; seq != m.seenSeq && m.clearAfter > 0 {
		m.seenSeq = seq
		cmds = append(cmds, tea.Tick(m.clearAfter, func(time.Time) tea.Msg {
			return clearStatusMsg{seq: seq}
		}))
	}
	return m, tea.Batch(cmds...)
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.showHelp {
		if key.Matches(msg, keys.help, keys.esc, keys.quit) {
			m.showHelp = false
		}
		return m, nil
	}
	switch m.mode {
	case modeStartup:
		return m.startupKey(msg)
	case modeConnect:
		return m.connectKey(msg)
	case modeMove:
		return m.moveKey(msg)
	case modeEditing:
		return m.editKey(msg)
	case modeFileInput:
		return m.fileInputKey(msg)
	case modeOpen:
		return m.openKey(msg)
	case modeConfirm:
		return m.confirmKey(msg)
	default:
		return m.normalKey(msg)
	}
}

func (m Model) startupKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m, tea.Quit
	case key.Matches(msg, keys.open), msg.String() == "o":
		m.back = modeStartup
		return m, listCmd(m.cfg.SaveDir(), m.cfg.Storage.OpenPattern)
	case key.Matches(msg, keys.newNote), msg.Type == tea.KeyEnter:
		m.mode = modeNormal
	}
	return m, nil
}

func (m Model) normalKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.quit):
		return m.quit()
	case key.Matches(msg, keys.help):
		m.showHelp = true
	case key.Matches(msg, keys.up, keys.down, keys.left, keys.right):
		dx, dy := arrow(msg)
		if m.panMode {
			m.pan(-dx, -dy)
		} else {
			m.cursorX += dx
			m.cursorY += dy
			m.clampCursor()
		}
	case key.Matches(msg, keys.pan):
		m.panMode = !m.panMode
	case key.Matches(msg, keys.esc):
		if m.panMode {
			m.panMode = false
		} else {
			m.ctrl.OnSelectionCleared()
		}
	case key.Matches(msg, keys.newNote):
		m.createNote()
	case key.Matches(msg, keys.connect):
		m = m.startConnect()
	case key.Matches(msg, keys.move):
		m = m.startMove()
	case key.Matches(msg, keys.enter):
		return m.activateAtCursor()
	case key.Matches(msg, keys.pick):
		m.pickAtCursor(false)
	case key.Matches(msg, keys.toggle):
		m.pickAtCursor(true)
	case key.Matches(msg, keys.cycle):
		m.cycleSelection()
	case key.Matches(msg, keys.bold):
		m.toggleStyle(board.StyleBold)
	case key.Matches(msg, keys.italic):
		m.toggleStyle(board.StyleItalic)
	case key.Matches(msg, keys.strike):
		m.toggleStyle(board.StyleStrike)
	case key.Matches(msg, keys.color):
		m.pickColor(int(msg.String()[0] - '1'))
	case key.Matches(msg, keys.clear):
		m.ctrl.OnClearAllRequested()
	case key.Matches(msg, keys.save):
		return m.save()
	case key.Matches(msg, keys.open):
		m.back = modeNormal
		return m, listCmd(m.cfg.SaveDir(), m.cfg.Storage.OpenPattern)
	case key.Matches(msg, keys.png):
		return m.askFile(fileOpPNG)
	case key.Matches(msg, keys.text):
		return m.askFile(fileOpText)
	case key.Matches(msg, keys.copy):
		n, ok := m.ctrl.SelectedNote()
		if !ok {
			m.s.status.Info("select one note to copy")
			return m, nil
		}
		return m, copyCmd(n.Label)
	case key.Matches(msg, keys.paste):
		return m, pasteCmd()
	case key.Matches(msg, keys.zoomIn):
		m.zoom(m.cursorX, m.cursorY, wheelZoomStep)
	case key.Matches(msg, keys.zoomOut):
		m.zoom(m.cursorX, m.cursorY, 1/wheelZoomStep)
	case key.Matches(msg, keys.reload):
		if m.s.diskData != nil && m.s.dirty && m.cfg.ConfirmationsEnabled() {
			m.s.prompt.askThen("Unsaved changes will be lost. Reload anyway?", reloadCmd)
			return m, nil
		}
		m.reload()
	}
	return m, nil
}

func arrow(msg tea.KeyMsg) (int, int) {
	switch {
	case key.Matches(msg, keys.up):
		return 0, -1
	case key.Matches(msg, keys.down):
		return 0, 1
	case key.Matches(msg, keys.left):
		return -1, 0
	default:
		return 1, 0
	}
}

func (m *Model) pan(dx, dy int) {
	d := geom.Point{X: float64(dx) * render.CellWidth, Y: float64(dy) * render.CellHeight}
	m.ctrl.SetViewport(m.ctrl.Viewport().Pan(d))
}

func (m *Model) zoom(x, y int, factor float64) {
	m.ctrl.SetViewport(m.ctrl.Viewport().ZoomAround(render.CellToScreen(x, y), factor))
}

// createNote adds a note at the center of the visible canvas and puts the
// cursor on it.
func (m *Model) createNote(opts ...board.NoteOption) board.NoteID {
	w, h := m.canvasSize()
	if c := m.cfg.UI.DefaultColor; c != "" {
		opts = append([]board.NoteOption{board.WithColor(c)}, opts...)
	}
	id := m.ctrl.OnCreateNoteRequested(render.CellToScreen(w/2, h/2), opts...)
	m.reveal(id)
	return id
}

// noteAtCursor is the note under the cursor, falling back to the single
// selected note. side is set when the cursor is on a handle.
func (m Model) noteAtCursor() (board.NoteID, board.Side, bool) {
	hit := m.frame().HitAt(m.cursorX, m.cursorY)
	switch hit.Kind {
	case render.HitNote:
		return hit.Note, "", true
	case render.HitHandle:
		return hit.Note, hit.Side, true
	}
	if n, ok := m.ctrl.SelectedNote(); ok {
		return n.ID, "", true
	}
	return "", "", false
}

func (m Model) startConnect() Model {
	id, side, ok := m.noteAtCursor()
	if !ok {
		m.s.status.Info("select a note to connect from")
		return m
	}
	m.connectFrom = id
	m.connectHandle = ""
	if side != "" {
		m.connectHandle = board.SourceHandle(side)
	}
	m.mode = modeConnect
	return m
}

func (m Model) cancelConnect() Model {
	m.connectFrom, m.connectHandle = "", ""
	if m.mode == modeConnect {
		m.mode = modeNormal
	}
	return m
}

func (m Model) connectKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m = m.cancelConnect()
	case key.Matches(msg, keys.up, keys.down, keys.left, keys.right):
		dx, dy := arrow(msg)
		m.cursorX += dx
		m.cursorY += dy
		m.clampCursor()
	case key.Matches(msg, keys.enter, keys.connect):
		hit := m.frame().HitAt(m.cursorX, m.cursorY)
		var target board.Handle
		if hit.Kind == render.HitHandle {
			target = board.TargetHandle(hit.Side)
		}
		if hit.Note != "" {
			m.ctrl.OnConnectRequested(m.connectFrom, hit.Note, m.connectHandle, target)
		}
		m = m.cancelConnect()
	}
	return m, nil
}

func (m Model) startMove() Model {
	id, _, ok := m.noteAtCursor()
	if !ok {
		m.s.status.Info("select a note to move")
		return m
	}
	m.moving = id
	m.moveDelta = geom.Point{}
	m.mode = modeMove
	return m
}

func (m Model) moveKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.mode, m.moving, m.moveDelta = modeNormal, "", geom.Point{}
	case key.Matches(msg, keys.up, keys.down, keys.left, keys.right):
		dx, dy := arrow(msg)
		m.moveDelta = m.moveDelta.Add(m.cellDelta(dx, dy))
		m.cursorX += dx
		m.cursorY += dy
		m.clampCursor()
	case key.Matches(msg, keys.enter, keys.move):
		if n, ok := m.store.Note(m.moving); ok && m.moveDelta != (geom.Point{}) {
			_ = m.ctrl.OnNoteMoved(n.ID, n.Position.Add(m.moveDelta))
		}
		m.mode, m.moving, m.moveDelta = modeNormal, "", geom.Point{}
	}
	return m, nil
}

// activateAtCursor is the keyboard double activation: a note opens in
// the editor, an edge is deleted.
func (m Model) activateAtCursor() (Model, tea.Cmd) {
	hit := m.frame().HitAt(m.cursorX, m.cursorY)
	if hit.Kind == render.HitEdge {
		_ = m.ctrl.OnEdgeDoubleActivated(hit.Edge)
		return m, nil
	}
	id, _, ok := m.noteAtCursor()
	if !ok {
		return m, nil
	}
	return m.beginEditing(id)
}

func (m Model) beginEditing(id board.NoteID) (Model, tea.Cmd) {
	if err := m.ctrl.OnNodeDoubleActivated(id); err != nil {
		return m, nil
	}
	m.editor.SetValue(m.ctrl.Editor().Text())
	m.editor.SetHeight(m.ctrl.Editor().Rows())
	m.mode = modeEditing
	return m, m.editor.Focus()
}

func (m Model) endEditing() Model {
	m.ctrl.OnBlur()
	m.editor.Blur()
	m.mode = modeNormal
	return m
}

func (m Model) editKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if key.Matches(msg, keys.esc) {
		return m.endEditing(), nil
	}
	id, ok := m.ctrl.Editor().Active()
	if !ok {
		return m.endEditing(), nil
	}

	// The label starts out fully selected: the first edit replaces it.
	var cmd tea.Cmd
	switch msg.Type {
	case tea.KeyBackspace, tea.KeyDelete:
		if m.ctrl.Editor().AllSelected() {
			m.editor.Reset()
			break
		}
		m.editor, cmd = m.editor.Update(msg)
	case tea.KeyRunes, tea.KeySpace, tea.KeyEnter:
		if m.ctrl.Editor().AllSelected() {
			m.editor.Reset()
		}
		m.editor, cmd = m.editor.Update(msg)
	default:
		m.editor, cmd = m.editor.Update(msg)
	}

	if err := m.ctrl.OnLabelEdited(id, m.editor.Value()); err != nil {
		return m.endEditing(), nil
	}
	m.editor.SetHeight(m.ctrl.Editor().Rows())
	return m, cmd
}

func (m Model) pickAtCursor(additive bool) {
	hit := m.frame().HitAt(m.cursorX, m.cursorY)
	switch hit.Kind {
	case render.HitNote, render.HitHandle:
		_ = m.ctrl.OnSelectNote(hit.Note, additive)
	case render.HitEdge:
		_ = m.ctrl.OnSelectEdge(hit.Edge, additive)
	default:
		if !additive {
			m.ctrl.OnSelectionCleared()
		}
	}
}

// cycleSelection selects the note after the first selected one.
func (m *Model) cycleSelection() {
	notes := m.ctrl.Board().Notes
	if len(notes) == 0 {
		return
	}
	next := 0
	for i, n := range notes {
		if n.Selected {
			next = (i + 1) % len(notes)
			break
		}
	}
	id := notes[next].ID
	_ = m.ctrl.OnSelectNote(id, false)
	m.reveal(id)
}

func (m Model) toggleStyle(flag board.StyleFlag) {
	if _, err := m.ctrl.OnSelectedStyleToggled(flag); errors.Is(err, interaction.ErrNothingSelected) {
		m.s.status.Info("select one note to style")
	}
}

func (m Model) pickColor(i int) {
	if i < 0 || i >= len(geom.Palette) {
		return
	}
	if err := m.ctrl.OnSelectedColorPicked(geom.Palette[i].Hex); errors.Is(err, interaction.ErrNothingSelected) {
		m.s.status.Info("select one note to color")
	}
}

func (m Model) quit() (Model, tea.Cmd) {
	if m.s.dirty && m.cfg.ConfirmationsEnabled() {
		m.s.prompt.askThen("Quit without saving?", tea.Quit)
		return m, nil
	}
	return m, tea.Quit
}

func (m Model) confirmKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	var yes bool
	switch {
	case key.Matches(msg, keys.yes):
		yes = true
	case key.Matches(msg, keys.no):
	default:
		return m, nil
	}
	m.mode = m.back
	if m.mode == modeConfirm {
		m.mode = modeNormal
	}
	return m, m.s.prompt.answer(yes)
}

// save writes to the current file, asking for a name the first time.
func (m Model) save() (Model, tea.Cmd) {
	if m.filename == "" {
		return m.askFile(fileOpSave)
	}
	return m, m.writeFile(fileOpSave, m.filename)
}

func (m Model) askFile(op fileOp) (Model, tea.Cmd) {
	name := m.cfg.Storage.DefaultFilename
	if m.filename != "" {
		name = filepath.Base(m.filename)
	}
	if op != fileOpSave {
		name = withExt(name, op.ext())
	}
	m.op = op
	m.input.Prompt = op.prompt()
	m.input.SetValue(name)
	m.input.CursorEnd()
	m.mode = modeFileInput
	return m, m.input.Focus()
}

func (m Model) fileInputKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc):
		m.input.Blur()
		m.mode = modeNormal
		return m, nil
	case msg.Type == tea.KeyEnter:
		name := strings.TrimSpace(m.input.Value())
		if name == "" {
			m.s.status.Error("file name required")
			return m, nil
		}
		if filepath.Ext(name) == "" {
			name += m.op.ext()
		}
		m.input.Blur()
		m.mode = modeNormal
		return m, m.writeFile(m.op, m.cfg.SavePath(name))
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// writeFile starts a save or export to path. Writing over a file other
// than the open one asks first.
func (m Model) writeFile(op fileOp, path string) tea.Cmd {
	var cmd tea.Cmd
	switch op {
	case fileOpPNG:
		cmd = exportPNGCmd(path, m.ctrl.Board())
	case fileOpText:
		opts := m.renderOptions()
		opts.Plain = true
		w, h := m.canvasSize()
		cmd = exportTextCmd(path, render.Render(m.ctrl.Board(), w, h, opts))
	default:
		data, err := m.ctrl.OnSaveRequested()
		if err != nil {
			return nil
		}
		cmd = saveCmd(path, data)
	}
	if path != m.filename && m.cfg.ConfirmationsEnabled() && document.Exists(path) {
		m.s.prompt.askThen(fmt.Sprintf("%s already exists. Overwrite?", path), cmd)
		return nil
	}
	return cmd
}

func (m *Model) onFilesListed(msg filesListedMsg) {
	if msg.err != nil {
		m.s.status.Error(msg.err.Error())
		return
	}
	m.files = msg.files
	m.fileIdx = 0
	m.mode = modeOpen
}

func (m Model) openKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.esc, keys.quit):
		m.mode = m.back
	case key.Matches(msg, keys.up):
		if m.fileIdx > 0 {
			m.fileIdx--
		}
	case key.Matches(msg, keys.down):
		if m.fileIdx < len(m.files)-1 {
			m.fileIdx++
		}
	case msg.Type == tea.KeyEnter:
		if len(m.files) == 0 {
			return m, nil
		}
		path := filepath.Join(m.cfg.SaveDir(), m.files[m.fileIdx])
		m.mode = modeNormal
		cmd := loadCmd(path)
		if m.s.dirty && m.cfg.ConfirmationsEnabled() {
			m.s.prompt.askThen("Unsaved changes will be lost. Open anyway?", cmd)
			return m, nil
		}
		return m, cmd
	}
	return m, nil
}

func (m Model) onFileLoaded(msg fileLoadedMsg) (Model, tea.Cmd) {
	if m.mode == modeStartup {
		m.mode = modeNormal
	}
	if msg.err != nil {
		if errors.Is(msg.err, fs.ErrNotExist) && msg.path == m.filename {
			m.s.status.Info(fmt.Sprintf("new file %s", msg.path))
			return m, nil
		}
		m.log.Error().Err(msg.err).Str("path", msg.path).Msg("open failed")
		m.s.status.Error(fmt.Sprintf("open failed: %v", msg.err))
		return m, nil
	}
	res, err := m.ctrl.OnLoadRequested(msg.data)
	if err != nil {
		return m, nil
	}
	m.filename = msg.path
	m.s.lastBytes = msg.data
	m.s.diskData = nil
	m.s.dirty = false
	if len(res.Dropped) == 0 {
		m.s.status.Info(fmt.Sprintf("opened %s (%d notes)", filepath.Base(msg.path), len(res.Notes)))
	}
	return m, m.watch(msg.path)
}

func (m Model) onFileSaved(msg fileSavedMsg) (Model, tea.Cmd) {
	if msg.err != nil {
		m.log.Error().Err(msg.err).Str("path", msg.path).Msg("save failed")
		m.s.status.Error(fmt.Sprintf("save failed: %v", msg.err))
		return m, nil
	}
	m.log.Info().Str("path", msg.path).Int("bytes", len(msg.data)).Msg("board saved")
	m.filename = msg.path
	m.s.lastBytes = msg.data
	m.s.diskData = nil
	m.s.dirty = false
	m.s.status.Info(fmt.Sprintf("saved %s", msg.path))
	return m, m.watch(msg.path)
}

func (m Model) onExported(msg exportedMsg) {
	switch {
	case errors.Is(msg.err, render.ErrNothingToExport):
		m.s.status.Warn("nothing to export")
	case msg.err != nil:
		m.log.Error().Err(msg.err).Str("path", msg.path).Msg("export failed")
		m.s.status.Error(fmt.Sprintf("export failed: %v", msg.err))
	default:
		m.s.status.Info(fmt.Sprintf("exported %s", msg.path))
	}
}

// watch starts watching path unless it is already watched.
func (m Model) watch(path string) tea.Cmd {
	if !m.cfg.WatchEnabled() || m.ctx == nil {
		return nil
	}
	if w := m.s.watcher; w != nil {
		if abs, err := filepath.Abs(path); err == nil && abs == w.Path() {
			return nil
		}
		_ = w.Close()
		m.s.watcher = nil
	}
	return watchCmd(m.ctx, path)
}

func (m Model) onWatchStarted(msg watchStartedMsg) tea.Cmd {
	if msg.err != nil {
		m.log.Warn().Err(msg.err).Msg("file watch unavailable")
		return nil
	}
	if m.s.watcher != nil {
		_ = m.s.watcher.Close()
	}
	m.s.watcher = msg.watcher
	return waitForChange(msg.watcher)
}

func (m Model) onDiskChanged(msg diskChangedMsg) tea.Cmd {
	w := m.s.watcher
	if w == nil || msg.path != w.Path() {
		return nil
	}
	switch {
	case msg.err != nil:
		m.log.Debug().Err(msg.err).Str("path", msg.path).Msg("changed file unreadable")
	case bytes.Equal(msg.data, m.s.lastBytes):
	default:
		m.s.diskData = msg.data
		m.s.status.Warn(fmt.Sprintf("%s changed on disk, R to reload", filepath.Base(msg.path)))
	}
	return waitForChange(w)
}

func (m Model) reload() {
	data := m.s.diskData
	if data == nil {
		m.s.status.Info("no changes on disk")
		return
	}
	res, err := m.ctrl.OnLoadRequested(data)
	if err != nil {
		return
	}
	m.s.lastBytes = data
	m.s.diskData = nil
	m.s.dirty = false
	if len(res.Dropped) == 0 {
		m.s.status.Info("reloaded")
	}
}

func (m *Model) onPasted(msg pastedMsg) {
	switch {
	case msg.err != nil:
		m.s.status.Error(msg.err.Error())
	case msg.text == "":
		m.s.status.Info("clipboard is empty")
	default:
		m.createNote(board.WithLabel(msg.text))
	}
}
