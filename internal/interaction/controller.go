// Package interaction turns canvas gestures into board store operations and
// owns the state that never reaches the document: the inline editor session
// and the global delete-key handler.
package interaction

import (
	"errors"
	"fmt"

	"noten/internal/board"
	"noten/internal/document"
	"noten/internal/geom"
	"noten/internal/logger"
)

// ClearAllPrompt is asked before the board is wiped.
const ClearAllPrompt = "정말 모두 지우겠습니까?"

// Controller receives intents from the canvas collaborator. Each intent
// maps onto at most one store mutation.
type Controller struct {
	store    *board.Store
	editor   *Editor
	keys     *KeyHandler
	confirm  Confirmer
	notify   Notifier
	log      *logger.Logger
	viewport geom.Viewport
}

// NewController wires a controller around store. A nil confirmer declines
// every question; a nil notifier drops notices.
func NewController(store *board.Store, confirm Confirmer, notify Notifier, log *logger.Logger) *Controller {
	if log == nil {
		log = logger.Nop()
	}
	c := &Controller{
		store:    store,
		editor:   NewEditor(store, geom.LabelCells),
		confirm:  confirm,
		notify:   notify,
		log:      log.Component("interaction"),
		viewport: geom.NewViewport(geom.DefaultZoom),
	}
	c.keys = NewKeyHandler(func() { c.OnDeleteKey() })
	return c
}

// Close releases the editor subscription.
func (c *Controller) Close() {
	c.editor.Close()
}

// Board is the current board snapshot.
func (c *Controller) Board() board.Board { return c.store.Board() }

// SelectedNote is the single selected note that the style toolbar targets.
func (c *Controller) SelectedNote() (board.Note, bool) {
	return c.store.Board().SelectedNote()
}

// Editor exposes the inline editor session.
func (c *Controller) Editor() *Editor { return c.editor }

// Keys is the handler to Mount for the global delete key.
func (c *Controller) Keys() *KeyHandler { return c.keys }

// Viewport is the transform used to place new notes.
func (c *Controller) Viewport() geom.Viewport { return c.viewport }

// SetViewport records the collaborator's current transform.
func (c *Controller) SetViewport(v geom.Viewport) { c.viewport = v }

// OnCreateNoteRequested adds a note centered on anchor, a screen point
// (normally the center of the visible canvas). opts set the label or color
// of the new note in the same store operation.
func (c *Controller) OnCreateNoteRequested(anchor geom.Point, opts ...board.NoteOption) board.NoteID {
	center := c.viewport.ScreenToBoard(anchor)
	id := c.store.CreateNote(center, opts...)
	c.log.Debug().Str("note", string(id)).Float64("x", center.X).Float64("y", center.Y).Msg("note created")
	return id
}

// OnConnectRequested creates an edge. Invalid connections are ignored
// without a notice.
func (c *Controller) OnConnectRequested(source, target board.NoteID, sourceHandle, targetHandle board.Handle) (board.EdgeID, bool) {
	id, err := c.store.Connect(source, target, sourceHandle, targetHandle)
	if err != nil {
		c.log.Debug().Err(err).Str("source", string(source)).Str("target", string(target)).Msg("connection rejected")
		return "", false
	}
	c.log.Debug().Str("edge", string(id)).Msg("edge created")
	return id, true
}

// OnNodeDoubleActivated starts editing a note.
func (c *Controller) OnNodeDoubleActivated(id board.NoteID) error {
	if err := c.editor.Activate(id); err != nil {
		c.log.Debug().Err(err).Msg("activate ignored")
		return err
	}
	return nil
}

// OnLabelEdited writes a label change through. Edits to the note in the
// editor also update the editor session.
func (c *Controller) OnLabelEdited(id board.NoteID, text string) error {
	if active, ok := c.editor.Active(); ok && active == id {
		return c.editor.Input(text)
	}
	return c.store.UpdateNoteLabel(id, text)
}

// OnBlur ends the editing session.
func (c *Controller) OnBlur() {
	c.editor.Blur()
}

// OnStyleToggled flips one style flag of a note.
func (c *Controller) OnStyleToggled(id board.NoteID, flag board.StyleFlag) (bool, error) {
	v, err := c.store.ToggleStyle(id, flag)
	if err != nil {
		c.log.Debug().Err(err).Stringer("flag", flag).Msg("toggle ignored")
		return false, err
	}
	return v, nil
}

// OnColorPicked sets the fill color of a note.
func (c *Controller) OnColorPicked(id board.NoteID, hex string) error {
	err := c.store.UpdateNoteStyle(id, board.ColorPatch(hex))
	if errors.Is(err, board.ErrInvalidColor) {
		c.notifyError(fmt.Sprintf("invalid color %q", hex))
	}
	return err
}

// OnSelectedStyleToggled is the toolbar variant of OnStyleToggled: it
// targets the single selected note.
func (c *Controller) OnSelectedStyleToggled(flag board.StyleFlag) (bool, error) {
	n, ok := c.SelectedNote()
	if !ok {
		return false, ErrNothingSelected
	}
	return c.OnStyleToggled(n.ID, flag)
}

// OnSelectedColorPicked is the toolbar variant of OnColorPicked.
func (c *Controller) OnSelectedColorPicked(hex string) error {
	n, ok := c.SelectedNote()
	if !ok {
		return ErrNothingSelected
	}
	return c.OnColorPicked(n.ID, hex)
}

// OnNoteMoved stores the resting position of a drag.
func (c *Controller) OnNoteMoved(id board.NoteID, pos geom.Point) error {
	return c.store.MoveNote(id, pos)
}

// OnNotesMoved shifts a group of dragged notes by delta.
func (c *Controller) OnNotesMoved(ids []board.NoteID, delta geom.Point) error {
	return c.store.MoveNotes(ids, delta)
}

// OnSelectNote selects one note. With additive set the note's selection is
// toggled and the rest of the selection is kept.
func (c *Controller) OnSelectNote(id board.NoteID, additive bool) error {
	if additive {
		return c.store.ToggleNoteSelection(id)
	}
	if _, ok := c.store.Note(id); !ok {
		return fmt.Errorf("%w: %q", board.ErrNoteNotFound, id)
	}
	c.store.Select([]board.NoteID{id}, nil)
	return nil
}

// OnSelectEdge selects one edge, like OnSelectNote.
func (c *Controller) OnSelectEdge(id board.EdgeID, additive bool) error {
	if additive {
		return c.store.ToggleEdgeSelection(id)
	}
	return c.store.SelectEdge(id)
}

// OnSelectionCleared deselects everything, as a click on empty canvas does.
func (c *Controller) OnSelectionCleared() {
	c.store.ClearSelection()
}

// OnEdgeDoubleActivated deletes the edge.
func (c *Controller) OnEdgeDoubleActivated(id board.EdgeID) error {
	if err := c.store.DeleteEdge(id); err != nil {
		return err
	}
	c.log.Debug().Str("edge", string(id)).Msg("edge deleted")
	return nil
}

// OnDeleteKey deletes every selected note and edge.
func (c *Controller) OnDeleteKey() board.Removal {
	removed := c.store.DeleteSelected()
	if !removed.Empty() {
		c.log.Debug().Int("notes", len(removed.Notes)).Int("edges", len(removed.Edges)).Msg("selection deleted")
	}
	return removed
}

// OnClearAllRequested asks for confirmation and clears the board when the
// user agrees. Declining changes nothing.
func (c *Controller) OnClearAllRequested() {
	resolve := func(confirmed bool) {
		if !confirmed {
			c.log.Debug().Msg("clear all cancelled")
			return
		}
		c.store.Clear()
		c.log.Info().Msg("board cleared")
	}
	if c.confirm == nil {
		resolve(false)
		return
	}
	c.confirm.Ask(ClearAllPrompt, resolve)
}

// OnSaveRequested serializes the board.
func (c *Controller) OnSaveRequested() ([]byte, error) {
	data, err := document.Export(c.store.Board())
	if err != nil {
		c.log.Error().Err(err).Msg("export failed")
		c.notifyError("export failed")
		return nil, err
	}
	return data, nil
}

// OnLoadRequested replaces the board with a document. A malformed document
// leaves the board as it was.
func (c *Controller) OnLoadRequested(contents []byte) (document.Result, error) {
	res, err := document.Apply(c.store, contents)
	if err != nil {
		c.log.Warn().Err(err).Msg("import rejected")
		c.notifyError(document.ErrMalformedDocument.Error())
		return document.Result{}, err
	}
	for _, d := range res.Dropped {
		c.log.Warn().
			Str("edge", d.EdgeID).
			Str("source", d.Source).
			Str("target", d.Target).
			Str("reason", string(d.Reason)).
			Msg("edge skipped on import")
	}
	if res.Repaired > 0 {
		c.log.Warn().Int("repaired", res.Repaired).Msg("fields reset on import")
	}
	if n := len(res.Dropped); n > 0 && c.notify != nil {
		c.notify.Warn(fmt.Sprintf("loaded with %d broken connection(s) skipped", n))
	}
	c.log.Info().Int("notes", len(res.Notes)).Int("edges", len(res.Edges)).Msg("board loaded")
	return res, nil
}

func (c *Controller) notifyError(msg string) {
	if c.notify != nil {
		c.notify.Error(msg)
	}
}
