package board

import (
	"fmt"
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"noten/internal/geom"
)

func sequentialEdgeIDs() Option {
	n := 0
	return WithEdgeIDs(func() EdgeID {
		n++
		return EdgeID(fmt.Sprintf("e%d", n))
	})
}

func newTestStore() *Store {
	return NewStore(sequentialEdgeIDs())
}

func TestCreateNote_Defaults(t *testing.T) {
	s := newTestStore()

	id := s.CreateNote(geom.Point{X: 100, Y: 100})

	assert.Equal(t, NoteID("1"), id)
	n, ok := s.Note(id)
	require.True(t, ok)
	assert.Equal(t, geom.Point{X: 100, Y: 50}, n.Position)
	assert.Equal(t, DefaultLabel, n.Label)
	assert.Equal(t, geom.DefaultColor, n.Color)
	assert.False(t, n.Bold)
	assert.False(t, n.Italic)
	assert.False(t, n.Strike)
	assert.False(t, n.Selected)
}

func TestCreateNote_IDsStrictlyIncreasingAcrossDeletes(t *testing.T) {
	s := newTestStore()
	last := 0
	for i := 0; i < 20; i++ {
		id := s.CreateNote(geom.Point{})
		seq, ok := id.Seq()
		require.True(t, ok)
		assert.Greater(t, seq, last)
		last = seq

		if i%3 == 0 {
			_, err := s.DeleteNote(id)
			require.NoError(t, err)
		}
		if i%5 == 0 {
			s.Select([]NoteID{id}, nil)
			s.DeleteSelected()
		}
	}
}

func TestConnect(t *testing.T) {
	s := newTestStore()
	a := s.CreateNote(geom.Point{})
	b := s.CreateNote(geom.Point{X: 200})

	tests := []struct {
		name         string
		source       NoteID
		target       NoteID
		sourceHandle Handle
		targetHandle Handle
		wantErr      bool
	}{
		{name: "valid", source: a, target: b, sourceHandle: SourceRight, targetHandle: TargetLeft},
		{name: "parallel duplicate allowed", source: a, target: b, sourceHandle: SourceRight, targetHandle: TargetLeft},
		{name: "reverse direction", source: b, target: a, sourceHandle: SourceLeft, targetHandle: TargetRight},
		{name: "empty handles", source: a, target: b},
		{name: "self loop", source: a, target: a, sourceHandle: SourceTop, targetHandle: TargetBottom, wantErr: true},
		{name: "missing source", source: "99", target: b, wantErr: true},
		{name: "missing target", source: a, target: "99", wantErr: true},
		{name: "unknown handle", source: a, target: b, sourceHandle: "s-middle", targetHandle: TargetLeft, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := s.Board()
			id, err := s.Connect(tt.source, tt.target, tt.sourceHandle, tt.targetHandle)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidConnection)
				assert.Empty(t, id)
				assert.Equal(t, before, s.Board())
				return
			}
			require.NoError(t, err)
			e, ok := s.Board().Edge(id)
			require.True(t, ok)
			assert.Equal(t, tt.source, e.Source)
			assert.Equal(t, tt.target, e.Target)
			assert.Equal(t, tt.sourceHandle, e.SourceHandle)
			assert.Equal(t, tt.targetHandle, e.TargetHandle)
			assert.Equal(t, DefaultEdgeStyle, e.Style)
		})
	}
	assert.Len(t, s.Board().Edges, 4)
}

func TestConnect_SelfLoopNeverCreatesEdge(t *testing.T) {
	s := newTestStore()
	for i := 0; i < 5; i++ {
		s.CreateNote(geom.Point{X: float64(i)})
	}
	handles := []Handle{"", SourceTop, SourceRight, SourceBottom, SourceLeft}
	for _, n := range s.Board().Notes {
		for _, h := range handles {
			_, err := s.Connect(n.ID, n.ID, h, TargetLeft)
			assert.ErrorIs(t, err, ErrInvalidConnection)
		}
	}
	assert.Empty(t, s.Board().Edges)
}

func TestUpdateNoteLabel(t *testing.T) {
	s := newTestStore()
	id := s.CreateNote(geom.Point{})

	require.NoError(t, s.UpdateNoteLabel(id, "buy milk"))
	n, _ := s.Note(id)
	assert.Equal(t, "buy milk", n.Label)

	require.NoError(t, s.UpdateNoteLabel(id, ""))
	n, _ = s.Note(id)
	assert.Empty(t, n.Label)

	before := s.Board()
	assert.ErrorIs(t, s.UpdateNoteLabel("42", "x"), ErrNoteNotFound)
	assert.Equal(t, before, s.Board())
}

func TestUpdateNoteStyle(t *testing.T) {
	s := newTestStore()
	id := s.CreateNote(geom.Point{})
	yes := true

	require.NoError(t, s.UpdateNoteStyle(id, StylePatch{Bold: &yes, Color: ptr("#f8bbd0")}))
	n, _ := s.Note(id)
	assert.True(t, n.Bold)
	assert.False(t, n.Italic)
	assert.Equal(t, "#F8BBD0", n.Color)

	before := s.Board()
	err := s.UpdateNoteStyle(id, ColorPatch("not-a-color"))
	assert.ErrorIs(t, err, ErrInvalidColor)
	assert.Equal(t, before, s.Board())

	assert.ErrorIs(t, s.UpdateNoteStyle("nope", FlagPatch(StyleItalic, true)), ErrNoteNotFound)
}

func TestToggleStyle_TwiceRestores(t *testing.T) {
	for _, flag := range []StyleFlag{StyleBold, StyleItalic, StyleStrike} {
		t.Run(flag.String(), func(t *testing.T) {
			s := newTestStore()
			id := s.CreateNote(geom.Point{})
			orig, _ := s.Note(id)

			v, err := s.ToggleStyle(id, flag)
			require.NoError(t, err)
			assert.NotEqual(t, orig.Flag(flag), v)

			v, err = s.ToggleStyle(id, flag)
			require.NoError(t, err)
			assert.Equal(t, orig.Flag(flag), v)

			n, _ := s.Note(id)
			assert.Equal(t, orig, n)
		})
	}
}

func TestDeleteSelected_Cascades(t *testing.T) {
	s := newTestStore()
	a := s.CreateNote(geom.Point{})
	b := s.CreateNote(geom.Point{X: 200})
	c := s.CreateNote(geom.Point{X: 400})
	ab, err := s.Connect(a, b, SourceRight, TargetLeft)
	require.NoError(t, err)
	bc, err := s.Connect(b, c, SourceRight, TargetLeft)
	require.NoError(t, err)

	s.Select([]NoteID{a}, nil)
	removed := s.DeleteSelected()

	assert.Equal(t, []NoteID{a}, removed.Notes)
	assert.Equal(t, []EdgeID{ab}, removed.Edges)
	got := s.Board()
	require.Len(t, got.Edges, 1)
	assert.Equal(t, bc, got.Edges[0].ID)
	assertNoDangling(t, got)
}

func TestDeleteSelected_EdgesOnly(t *testing.T) {
	s := newTestStore()
	a := s.CreateNote(geom.Point{})
	b := s.CreateNote(geom.Point{})
	e1, _ := s.Connect(a, b, SourceRight, TargetLeft)
	e2, _ := s.Connect(a, b, SourceBottom, TargetTop)

	require.NoError(t, s.SelectEdge(e1))
	assert.ErrorIs(t, s.SelectEdge("nope"), ErrEdgeNotFound)
	removed := s.DeleteSelected()

	assert.Empty(t, removed.Notes)
	assert.Equal(t, []EdgeID{e1}, removed.Edges)
	require.Len(t, s.Board().Edges, 1)
	assert.Equal(t, e2, s.Board().Edges[0].ID)
	assert.Len(t, s.Board().Notes, 2)
}

func TestDeleteSelected_NoDanglingForAnySelection(t *testing.T) {
	for mask := 0; mask < 1<<5; mask++ {
		s := newTestStore()
		var ids []NoteID
		for i := 0; i < 5; i++ {
			ids = append(ids, s.CreateNote(geom.Point{X: float64(i * 100)}))
		}
		for i := range ids {
			for j := range ids {
				if i != j && (i+j)%2 == 1 {
					_, err := s.Connect(ids[i], ids[j], SourceRight, TargetLeft)
					require.NoError(t, err)
				}
			}
		}
		var selected []NoteID
		for i, id := range ids {
			if mask&(1<<i) != 0 {
				selected = append(selected, id)
			}
		}
		s.Select(selected, nil)
		s.DeleteSelected()
		assertNoDangling(t, s.Board())
		assert.Len(t, s.Board().Notes, len(ids)-len(selected))
	}
}

func TestDeleteNote_Cascades(t *testing.T) {
	s := newTestStore()
	a := s.CreateNote(geom.Point{})
	b := s.CreateNote(geom.Point{})
	_, _ = s.Connect(a, b, SourceRight, TargetLeft)
	_, _ = s.Connect(b, a, SourceLeft, TargetRight)

	removed, err := s.DeleteNote(b)
	require.NoError(t, err)
	assert.Len(t, removed.Edges, 2)
	assert.Empty(t, s.Board().Edges)

	_, err = s.DeleteNote(b)
	assert.ErrorIs(t, err, ErrNoteNotFound)
}

func TestDeleteEdge(t *testing.T) {
	s := newTestStore()
	a := s.CreateNote(geom.Point{})
	b := s.CreateNote(geom.Point{})
	e, _ := s.Connect(a, b, SourceRight, TargetLeft)

	require.NoError(t, s.DeleteEdge(e))
	assert.Empty(t, s.Board().Edges)
	assert.ErrorIs(t, s.DeleteEdge(e), ErrEdgeNotFound)
}

func TestClear_ResetsCounter(t *testing.T) {
	s := newTestStore()
	s.CreateNote(geom.Point{})
	s.CreateNote(geom.Point{})

	s.Clear()

	assert.True(t, s.Board().Empty())
	assert.Equal(t, NoteID("1"), s.CreateNote(geom.Point{}))
}

func TestReplaceAll_ReconcilesCounter(t *testing.T) {
	s := newTestStore()
	notes := []Note{
		NewNote("3", geom.Point{}),
		NewNote("12", geom.Point{X: 10}),
		NewNote("idea", geom.Point{X: 20}),
	}
	edges := []Edge{{ID: "x", Source: "3", Target: "12", SourceHandle: SourceRight, TargetHandle: TargetLeft}}

	require.NoError(t, s.ReplaceAll(notes, edges))

	got := s.Board()
	assert.Equal(t, 13, got.NextID)
	assert.Equal(t, DefaultEdgeStyle, got.Edges[0].Style)
	assert.Equal(t, NoteID("13"), s.CreateNote(geom.Point{}))
}

func TestReplaceAll_RejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		notes []Note
		edges []Edge
	}{
		{name: "duplicate note", notes: []Note{NewNote("1", geom.Point{}), NewNote("1", geom.Point{})}},
		{name: "empty note id", notes: []Note{NewNote("", geom.Point{})}},
		{name: "dangling edge", notes: []Note{NewNote("1", geom.Point{})}, edges: []Edge{{ID: "e", Source: "1", Target: "2"}}},
		{name: "self loop", notes: []Note{NewNote("1", geom.Point{})}, edges: []Edge{{ID: "e", Source: "1", Target: "1"}}},
		{name: "empty edge id", notes: []Note{NewNote("1", geom.Point{}), NewNote("2", geom.Point{})}, edges: []Edge{{Source: "1", Target: "2"}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestStore()
			s.CreateNote(geom.Point{})
			before := s.Board()

			err := s.ReplaceAll(tt.notes, tt.edges)

			assert.ErrorIs(t, err, ErrInvalidBoard)
			assert.Equal(t, before, s.Board())
		})
	}
}

func TestSelection(t *testing.T) {
	s := newTestStore()
	a := s.CreateNote(geom.Point{})
	b := s.CreateNote(geom.Point{})

	_, ok := s.Board().SelectedNote()
	assert.False(t, ok)

	s.Select([]NoteID{a}, nil)
	n, ok := s.Board().SelectedNote()
	require.True(t, ok)
	assert.Equal(t, a, n.ID)

	require.NoError(t, s.ToggleNoteSelection(b))
	_, ok = s.Board().SelectedNote()
	assert.False(t, ok, "two selected notes have no single selection")

	s.ClearSelection()
	assert.Empty(t, s.Board().SelectedNotes())
}

func TestCreateNote_OptionsNotifyOnce(t *testing.T) {
	s := newTestStore()
	var ops []Op
	s.Subscribe(func(c Change) { ops = append(ops, c.Op) })

	id := s.CreateNote(geom.Point{X: 10, Y: 100}, WithLabel("pasted"), WithColor("#bbdefb"))
	assert.Equal(t, []Op{OpCreateNote}, ops)

	n, ok := s.Note(id)
	require.True(t, ok)
	assert.Equal(t, "pasted", n.Label)
	assert.Equal(t, "#BBDEFB", n.Color)
	assert.Equal(t, geom.Point{X: 10, Y: 100 + NoteBias}, n.Position)

	id = s.CreateNote(geom.Point{}, WithColor("not a color"))
	n, _ = s.Note(id)
	assert.Equal(t, geom.DefaultColor, n.Color)
	assert.Equal(t, DefaultLabel, n.Label)
}

func TestAddNote(t *testing.T) {
	s := newTestStore()
	id := s.AddNote(Note{ID: "ignored", Label: "kept", Bold: true})
	assert.Equal(t, NoteID("1"), id)

	n, ok := s.Note(id)
	require.True(t, ok)
	assert.Equal(t, "kept", n.Label)
	assert.True(t, n.Bold)
	assert.Equal(t, geom.DefaultColor, n.Color)
	assert.Equal(t, 2, s.Board().NextID)
}

func TestSubscribe(t *testing.T) {
	s := newTestStore()
	var ops []Op
	unsubscribe := s.Subscribe(func(c Change) {
		ops = append(ops, c.Op)
	})

	id := s.CreateNote(geom.Point{})
	require.NoError(t, s.UpdateNoteLabel(id, "x"))
	require.ErrorIs(t, s.UpdateNoteLabel("nope", "x"), ErrNoteNotFound)
	unsubscribe()
	s.Clear()

	assert.Equal(t, []Op{OpCreateNote, OpUpdateLabel}, ops)
}

func TestMoveNote(t *testing.T) {
	s := newTestStore()
	id := s.CreateNote(geom.Point{})

	require.NoError(t, s.MoveNote(id, geom.Point{X: 5, Y: 6}))
	n, _ := s.Note(id)
	assert.Equal(t, geom.Point{X: 5, Y: 6}, n.Position)
	assert.ErrorIs(t, s.MoveNote("9", geom.Point{}), ErrNoteNotFound)
}

func TestMoveNotes(t *testing.T) {
	s := newTestStore()
	a := s.AddNote(NewNote("", geom.Point{}))
	b := s.AddNote(NewNote("", geom.Point{X: 100}))

	var ops []Op
	s.Subscribe(func(c Change) { ops = append(ops, c.Op) })

	delta := geom.Point{X: 10, Y: -5}
	require.NoError(t, s.MoveNotes([]NoteID{a, b, a}, delta))
	assert.Equal(t, []Op{OpMoveNote}, ops)
	na, _ := s.Note(a)
	nb, _ := s.Note(b)
	assert.Equal(t, geom.Point{X: 10, Y: -5}, na.Position)
	assert.Equal(t, geom.Point{X: 110, Y: -5}, nb.Position)

	assert.ErrorIs(t, s.MoveNotes([]NoteID{a, "9"}, delta), ErrNoteNotFound)
	assert.ErrorIs(t, s.MoveNotes([]NoteID{a}, geom.Point{X: math.Inf(1)}), ErrInvalidBoard)
	na, _ = s.Note(a)
	assert.Equal(t, geom.Point{X: 10, Y: -5}, na.Position, "failed moves leave notes in place")

	require.NoError(t, s.MoveNotes(nil, delta))
	require.NoError(t, s.MoveNotes([]NoteID{a}, geom.Point{}))
	assert.Len(t, ops, 1)
}

func TestScenario_CreateConnectDelete(t *testing.T) {
	s := newTestStore()

	first := s.CreateNote(geom.Point{X: 100, Y: 100})
	n, _ := s.Note(first)
	assert.Equal(t, NoteID("1"), first)
	assert.Equal(t, geom.Point{X: 100, Y: 50}, n.Position)

	second := s.CreateNote(geom.Point{X: 300, Y: 100})
	assert.Equal(t, NoteID("2"), second)
	assert.Equal(t, 3, s.Board().NextID)

	e, err := s.Connect(first, second, SourceRight, TargetLeft)
	require.NoError(t, err)
	edge, _ := s.Board().Edge(e)
	assert.Equal(t, SourceRight, edge.SourceHandle)
	assert.Equal(t, TargetLeft, edge.TargetHandle)

	s.Select([]NoteID{first}, nil)
	s.DeleteSelected()

	got := s.Board()
	require.Len(t, got.Notes, 1)
	assert.Equal(t, second, got.Notes[0].ID)
	assert.Empty(t, got.Edges)
}

func TestHandle(t *testing.T) {
	assert.True(t, SourceRight.IsSource())
	assert.False(t, SourceRight.IsTarget())
	assert.True(t, TargetLeft.IsTarget())
	assert.Equal(t, SideLeft, TargetLeft.Side())
	assert.Equal(t, SourceBottom, SourceHandle(SideBottom))
	assert.Equal(t, TargetTop, TargetHandle(SideTop))
	assert.False(t, Handle("x-top").Valid())
	assert.True(t, Handle("").Valid())
}

func TestNextCounter(t *testing.T) {
	assert.Equal(t, 1, NextCounter(nil))
	var notes []Note
	for _, id := range []string{"2", "0", "-4", "abc", "7"} {
		notes = append(notes, Note{ID: NoteID(id)})
	}
	assert.Equal(t, 8, NextCounter(notes))
}

func TestNextCounter_MaxIntID(t *testing.T) {
	maxID := NoteID(strconv.Itoa(math.MaxInt))
	for _, order := range [][]NoteID{{maxID, "5"}, {"5", maxID}} {
		notes := []Note{{ID: order[0]}, {ID: order[1]}}
		assert.Equal(t, 6, NextCounter(notes), "order %v", order)
	}

	s := newTestStore()
	require.NoError(t, s.ReplaceAll([]Note{
		NewNote(NoteID(strconv.Itoa(math.MaxInt-1)), geom.Point{}),
		NewNote(maxID, geom.Point{}),
	}, nil))
	assert.Equal(t, math.MaxInt, s.Board().NextID)
	assert.Equal(t, NoteID("1"), s.CreateNote(geom.Point{}))
	assert.Equal(t, NoteID("2"), s.CreateNote(geom.Point{}))
}

func assertNoDangling(t *testing.T, b Board) {
	t.Helper()
	for _, e := range b.Edges {
		_, src := b.Note(e.Source)
		_, dst := b.Note(e.Target)
		assert.True(t, src && dst, "edge %s dangles", e.ID)
	}
}

func ptr[T any](v T) *T { return &v }
