package interaction

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noten/internal/board"
	"noten/internal/geom"
)

func TestEditor_ActivateInputBlur(t *testing.T) {
	s := board.NewStore()
	id := s.CreateNote(geom.Point{})
	e := NewEditor(s, geom.LabelCells)
	defer e.Close()

	assert.Equal(t, Viewing, e.State(id))
	require.NoError(t, e.Activate(id))
	assert.Equal(t, Editing, e.State(id))
	assert.True(t, e.AllSelected())
	assert.Equal(t, board.DefaultLabel, e.Text())

	require.NoError(t, e.Input("Buy milk"))
	n, _ := s.Note(id)
	assert.Equal(t, "Buy milk", n.Label, "label is written on every change")
	assert.False(t, e.AllSelected())

	require.NoError(t, e.Input(""))
	n, _ = s.Note(id)
	assert.Empty(t, n.Label)

	e.Blur()
	assert.Equal(t, Viewing, e.State(id))
	n, _ = s.Note(id)
	assert.Empty(t, n.Label, "blur keeps the last input")
}

func TestEditor_InputWithoutSession(t *testing.T) {
	e := NewEditor(board.NewStore(), geom.LabelCells)
	assert.ErrorIs(t, e.Input("x"), ErrNotEditing)
}

func TestEditor_ActivateUnknown(t *testing.T) {
	e := NewEditor(board.NewStore(), geom.LabelCells)
	assert.ErrorIs(t, e.Activate("9"), board.ErrNoteNotFound)
	_, ok := e.Active()
	assert.False(t, ok)
}

func TestEditor_SingleSession(t *testing.T) {
	s := board.NewStore()
	a := s.CreateNote(geom.Point{})
	b := s.CreateNote(geom.Point{X: 300})
	e := NewEditor(s, geom.LabelCells)

	require.NoError(t, e.Activate(a))
	require.NoError(t, e.Input("first"))
	require.NoError(t, e.Activate(b))

	assert.Equal(t, Viewing, e.State(a))
	assert.Equal(t, Editing, e.State(b))
	assert.Equal(t, board.DefaultLabel, e.Text())
	n, _ := s.Note(a)
	assert.Equal(t, "first", n.Label)
}

func TestEditor_EndsWhenNoteDeleted(t *testing.T) {
	s := board.NewStore()
	id := s.CreateNote(geom.Point{})
	e := NewEditor(s, geom.LabelCells)
	require.NoError(t, e.Activate(id))

	s.Select([]board.NoteID{id}, nil)
	s.DeleteSelected()

	_, ok := e.Active()
	assert.False(t, ok)
	assert.ErrorIs(t, e.Input("late"), ErrNotEditing)
}

func TestEditor_EndsOnClear(t *testing.T) {
	s := board.NewStore()
	id := s.CreateNote(geom.Point{})
	e := NewEditor(s, geom.LabelCells)
	require.NoError(t, e.Activate(id))

	s.Clear()

	assert.Equal(t, Viewing, e.State(id))
}

func TestEditor_Rows(t *testing.T) {
	s := board.NewStore()
	id := s.CreateNote(geom.Point{})
	e := NewEditor(s, 10)
	require.NoError(t, e.Activate(id))

	require.NoError(t, e.Input(""))
	assert.Equal(t, MinEditorRows, e.Rows())

	require.NoError(t, e.Input("one"))
	assert.Equal(t, MinEditorRows, e.Rows())

	require.NoError(t, e.Input(strings.Repeat("x", 35)))
	assert.Equal(t, 4, e.Rows())

	require.NoError(t, e.Input("a\nb\nc"))
	assert.Equal(t, 3, e.Rows())
}

func TestEditor_CloseStopsObserving(t *testing.T) {
	s := board.NewStore()
	id := s.CreateNote(geom.Point{})
	e := NewEditor(s, geom.LabelCells)
	require.NoError(t, e.Activate(id))
	e.Close()

	s.Clear()
	_, ok := e.Active()
	assert.True(t, ok)
}
