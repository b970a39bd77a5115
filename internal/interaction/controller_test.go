package interaction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"noten/internal/board"
	"noten/internal/document"
	"noten/internal/geom"
	"noten/internal/logger"
	"noten/internal/mock"
)

func newTestController(t *testing.T) (*Controller, *board.Store, *mock.MockConfirmer, *mock.MockNotifier) {
	t.Helper()
	ctrl := gomock.NewController(t)
	confirm := mock.NewMockConfirmer(ctrl)
	notify := mock.NewMockNotifier(ctrl)
	s := board.NewStore()
	c := NewController(s, confirm, notify, logger.Nop())
	t.Cleanup(c.Close)
	return c, s, confirm, notify
}

func TestController_CreateNoteUsesViewport(t *testing.T) {
	c, _, _, _ := newTestController(t)

	id := c.OnCreateNoteRequested(geom.Point{X: 400, Y: 300})
	n, ok := c.Board().Note(id)
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 200, Y: 100}, n.Position)

	c.SetViewport(geom.Viewport{Offset: geom.Point{X: 100, Y: 100}, Zoom: 1})
	id = c.OnCreateNoteRequested(geom.Point{X: 400, Y: 300})
	n, _ = c.Board().Note(id)
	assert.Equal(t, geom.Point{X: 300, Y: 150}, n.Position)
	assert.Equal(t, board.NoteID("2"), id)
}

func TestController_CreateNoteWithOptionsIsOneChange(t *testing.T) {
	c, s, _, _ := newTestController(t)
	var ops []board.Op
	s.Subscribe(func(ch board.Change) { ops = append(ops, ch.Op) })

	id := c.OnCreateNoteRequested(geom.Point{}, board.WithLabel("hello\nworld"), board.WithColor("#C8E6C9"))
	assert.Equal(t, []board.Op{board.OpCreateNote}, ops)

	n, ok := c.Board().Note(id)
	require.True(t, ok)
	assert.Equal(t, "hello\nworld", n.Label)
	assert.Equal(t, "#C8E6C9", n.Color)
}

func TestController_ConnectRejectsSilently(t *testing.T) {
	c, _, _, _ := newTestController(t)
	a := c.OnCreateNoteRequested(geom.Point{})
	b := c.OnCreateNoteRequested(geom.Point{X: 500})

	_, ok := c.OnConnectRequested(a, a, board.SourceRight, board.TargetLeft)
	assert.False(t, ok)
	_, ok = c.OnConnectRequested(a, "404", board.SourceRight, board.TargetLeft)
	assert.False(t, ok)
	assert.Empty(t, c.Board().Edges)

	id, ok := c.OnConnectRequested(a, b, board.SourceRight, board.TargetLeft)
	assert.True(t, ok)
	assert.NotEmpty(t, id)
}

func TestController_ClearAll(t *testing.T) {
	tests := []struct {
		name      string
		confirmed bool
		wantNotes int
	}{
		{name: "confirmed", confirmed: true, wantNotes: 0},
		{name: "declined", confirmed: false, wantNotes: 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _, confirm, _ := newTestController(t)
			a := c.OnCreateNoteRequested(geom.Point{})
			b := c.OnCreateNoteRequested(geom.Point{X: 500})
			_, _ = c.OnConnectRequested(a, b, "", "")

			confirm.EXPECT().Ask(ClearAllPrompt, gomock.Any()).DoAndReturn(
				func(_ string, resolve func(bool)) { resolve(tt.confirmed) },
			)
			c.OnClearAllRequested()

			assert.Len(t, c.Board().Notes, tt.wantNotes)
			if tt.confirmed {
				assert.Empty(t, c.Board().Edges)
				assert.Equal(t, board.NoteID("1"), c.OnCreateNoteRequested(geom.Point{}))
			}
		})
	}
}

func TestController_ClearAllAnsweredLater(t *testing.T) {
	c, _, confirm, _ := newTestController(t)
	c.OnCreateNoteRequested(geom.Point{})

	var pending func(bool)
	confirm.EXPECT().Ask(ClearAllPrompt, gomock.Any()).Do(func(_ string, resolve func(bool)) {
		pending = resolve
	})
	c.OnClearAllRequested()
	assert.Len(t, c.Board().Notes, 1, "nothing happens before the answer")

	require.NotNil(t, pending)
	pending(true)
	assert.True(t, c.Board().Empty())
}

func TestController_NilConfirmerDeclines(t *testing.T) {
	s := board.NewStore()
	c := NewController(s, nil, nil, nil)
	c.OnCreateNoteRequested(geom.Point{})
	c.OnClearAllRequested()
	assert.Len(t, c.Board().Notes, 1)
}

func TestController_LoadMalformed(t *testing.T) {
	c, _, _, notify := newTestController(t)
	c.OnCreateNoteRequested(geom.Point{})
	before := c.Board()

	notify.EXPECT().Error("invalid file")
	_, err := c.OnLoadRequested([]byte(`{"nodes": 5, "edges": []}`))

	require.ErrorIs(t, err, document.ErrMalformedDocument)
	assert.Equal(t, before, c.Board())
}

func TestController_LoadReportsDroppedEdges(t *testing.T) {
	c, _, _, notify := newTestController(t)
	in := `{"nodes": [{"id": "1", "position": {"x": 0, "y": 0}, "data": {"label": "a"}}],
	        "edges": [{"id": "e1", "source": "1", "target": "2"}]}`

	notify.EXPECT().Warn(gomock.Any())
	res, err := c.OnLoadRequested([]byte(in))

	require.NoError(t, err)
	require.Len(t, res.Dropped, 1)
	assert.Equal(t, document.DropDangling, res.Dropped[0].Reason)
	assert.Empty(t, c.Board().Edges)
	assert.Len(t, c.Board().Notes, 1)
}

func TestController_ColorPicked(t *testing.T) {
	c, _, _, notify := newTestController(t)
	id := c.OnCreateNoteRequested(geom.Point{})

	require.NoError(t, c.OnColorPicked(id, geom.Palette[2].Hex))
	n, _ := c.Board().Note(id)
	assert.Equal(t, "#BBDEFB", n.Color)

	notify.EXPECT().Error(gomock.Any())
	assert.ErrorIs(t, c.OnColorPicked(id, "blue-ish"), board.ErrInvalidColor)
	n, _ = c.Board().Note(id)
	assert.Equal(t, "#BBDEFB", n.Color)
}

func TestController_ToolbarTargetsSingleSelection(t *testing.T) {
	c, _, _, _ := newTestController(t)
	a := c.OnCreateNoteRequested(geom.Point{})
	b := c.OnCreateNoteRequested(geom.Point{X: 500})

	_, err := c.OnSelectedStyleToggled(board.StyleBold)
	assert.ErrorIs(t, err, ErrNothingSelected)

	require.NoError(t, c.OnSelectNote(a, false))
	v, err := c.OnSelectedStyleToggled(board.StyleBold)
	require.NoError(t, err)
	assert.True(t, v)

	require.NoError(t, c.OnSelectNote(b, true))
	_, ok := c.SelectedNote()
	assert.False(t, ok, "two notes selected")
	assert.ErrorIs(t, c.OnSelectedColorPicked("#C8E6C9"), ErrNothingSelected)
}

func TestController_DeleteKeyAndEdgeDoubleActivation(t *testing.T) {
	c, _, _, _ := newTestController(t)
	a := c.OnCreateNoteRequested(geom.Point{})
	b := c.OnCreateNoteRequested(geom.Point{X: 500})
	d := c.OnCreateNoteRequested(geom.Point{X: 900})
	e1, _ := c.OnConnectRequested(a, b, board.SourceRight, board.TargetLeft)
	_, _ = c.OnConnectRequested(b, d, board.SourceRight, board.TargetLeft)

	require.NoError(t, c.OnEdgeDoubleActivated(e1))
	assert.Len(t, c.Board().Edges, 1)
	assert.ErrorIs(t, c.OnEdgeDoubleActivated(e1), board.ErrEdgeNotFound)

	require.NoError(t, c.OnSelectNote(b, false))
	assert.True(t, c.Keys().Handle(KeyEvent{Key: KeyBackspace}))
	assert.Len(t, c.Board().Notes, 2)
	assert.Empty(t, c.Board().Edges)

	assert.True(t, c.OnDeleteKey().Empty())
}

func TestController_LabelEditFlow(t *testing.T) {
	c, _, _, _ := newTestController(t)
	id := c.OnCreateNoteRequested(geom.Point{})

	require.NoError(t, c.OnNodeDoubleActivated(id))
	assert.Equal(t, Editing, c.Editor().State(id))
	require.NoError(t, c.OnLabelEdited(id, "hello"))
	assert.Equal(t, "hello", c.Editor().Text())
	c.OnBlur()

	require.NoError(t, c.OnLabelEdited(id, "outside editor"))
	n, _ := c.Board().Note(id)
	assert.Equal(t, "outside editor", n.Label)
	assert.ErrorIs(t, c.OnNodeDoubleActivated("77"), board.ErrNoteNotFound)
}

func TestController_FullScenario(t *testing.T) {
	c, _, _, _ := newTestController(t)

	n1 := c.OnCreateNoteRequested(geom.Point{})
	n2 := c.OnCreateNoteRequested(geom.Point{X: 600})
	assert.Equal(t, board.NoteID("1"), n1)
	assert.Equal(t, board.NoteID("2"), n2)

	_, ok := c.OnConnectRequested(n1, n2, board.SourceRight, board.TargetLeft)
	require.True(t, ok)

	require.NoError(t, c.OnNodeDoubleActivated(n1))
	require.NoError(t, c.OnLabelEdited(n1, "Buy milk"))
	c.OnBlur()

	_, err := c.OnStyleToggled(n1, board.StyleBold)
	require.NoError(t, err)

	require.NoError(t, c.OnSelectNote(n2, false))
	c.OnDeleteKey()

	b := c.Board()
	require.Len(t, b.Notes, 1)
	assert.Equal(t, "Buy milk", b.Notes[0].Label)
	assert.True(t, b.Notes[0].Bold)
	assert.Empty(t, b.Edges)

	data, err := c.OnSaveRequested()
	require.NoError(t, err)

	other := NewController(board.NewStore(), nil, nil, nil)
	_, err = other.OnLoadRequested(data)
	require.NoError(t, err)
	assert.Equal(t, b.Notes, other.Board().Notes)
	assert.Equal(t, b.Edges, other.Board().Edges)
	assert.Equal(t, board.NoteID("2"), other.OnCreateNoteRequested(geom.Point{}))
}

func TestController_MoveAndSelectEdge(t *testing.T) {
	c, _, _, _ := newTestController(t)
	a := c.OnCreateNoteRequested(geom.Point{})
	b := c.OnCreateNoteRequested(geom.Point{X: 500})
	e, _ := c.OnConnectRequested(a, b, "", "")

	require.NoError(t, c.OnNoteMoved(a, geom.Point{X: -20, Y: 40}))
	n, _ := c.Board().Note(a)
	assert.Equal(t, geom.Point{X: -20, Y: 40}, n.Position)
	assert.ErrorIs(t, c.OnNoteMoved("nope", geom.Point{}), board.ErrNoteNotFound)

	require.NoError(t, c.OnNotesMoved([]board.NoteID{a, b}, geom.Point{X: 20}))
	n, _ = c.Board().Note(a)
	assert.Equal(t, geom.Point{X: 0, Y: 40}, n.Position)

	require.NoError(t, c.OnSelectEdge(e, false))
	assert.Len(t, c.Board().SelectedEdges(), 1)
	require.NoError(t, c.OnSelectNote(a, true))
	assert.Len(t, c.Board().SelectedNotes(), 1)
	assert.Len(t, c.Board().SelectedEdges(), 1)
	assert.ErrorIs(t, c.OnSelectEdge("zzz", false), board.ErrEdgeNotFound)

	c.OnSelectionCleared()
	assert.Empty(t, c.Board().SelectedEdges())
	assert.Empty(t, c.Board().SelectedNotes())
}
