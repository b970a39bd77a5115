package interaction

import (
	"fmt"

	"noten/internal/board"
	"noten/internal/geom"
)

// EditState is the per-note interaction state.
type EditState int

const (
	Viewing EditState = iota
	Editing
)

func (s EditState) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// MinEditorRows is the smallest height of the inline editor.
const MinEditorRows = 2

// Editor runs the Viewing/Editing state machine. At most one note is edited
// at a time. The editing flag never reaches the store or the document.
type Editor struct {
	store       *board.Store
	width       int
	active      board.NoteID
	editing     bool
	text        string
	allSelected bool
	unsubscribe func()
}

// NewEditor returns an editor whose label area is width cells wide. It
// watches the store so that deleting the edited note ends the session.
func NewEditor(store *board.Store, width int) *Editor {
	if width < 1 {
		width = geom.LabelCells
	}
	e := &Editor{store: store, width: width}
	e.unsubscribe = store.Subscribe(e.observe)
	return e
}

// Close detaches the editor from the store.
func (e *Editor) Close() {
	if e.unsubscribe != nil {
		e.unsubscribe()
		e.unsubscribe = nil
	}
}

// Activate enters Editing for id, blurring any other session first. The
// whole label starts out selected so typing replaces it.
func (e *Editor) Activate(id board.NoteID) error {
	n, ok := e.store.Note(id)
	if !ok {
		return fmt.Errorf("%w: %q", board.ErrNoteNotFound, id)
	}
	if e.editing && e.active != id {
		e.Blur()
	}
	e.active = id
	e.editing = true
	e.text = n.Label
	e.allSelected = true
	return nil
}

// Input replaces the edited label. The store is updated immediately.
func (e *Editor) Input(text string) error {
	if !e.editing {
		return ErrNotEditing
	}
	if err := e.store.UpdateNoteLabel(e.active, text); err != nil {
		e.reset()
		return err
	}
	e.text = text
	e.allSelected = false
	return nil
}

// Blur leaves Editing. The label already lives in the store.
func (e *Editor) Blur() {
	e.reset()
}

// Active returns the edited note, if any.
func (e *Editor) Active() (board.NoteID, bool) {
	return e.active, e.editing
}

// State reports the state of one note.
func (e *Editor) State(id board.NoteID) EditState {
	if e.editing && e.active == id {
		return Editing
	}
	return Viewing
}

// Text is the current editor content.
func (e *Editor) Text() string { return e.text }

// AllSelected reports whether the whole label is still pre-selected.
func (e *Editor) AllSelected() bool { return e.editing && e.allSelected }

// Rows is the editor height: enough rows for the wrapped text, at least
// MinEditorRows.
func (e *Editor) Rows() int {
	return geom.FitRows(e.text, e.width, MinEditorRows)
}

func (e *Editor) reset() {
	e.active = ""
	e.editing = false
	e.text = ""
	e.allSelected = false
}

func (e *Editor) observe(c board.Change) {
	if !e.editing {
		return
	}
	n, ok := c.Board.Note(e.active)
	if !ok {
		e.reset()
		return
	}
	// A reload may bring a different label for the same id.
	if c.Op == board.OpReplace {
		e.text = n.Label
	}
}
