package board

import (
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/google/uuid"

	"noten/internal/geom"
)

// Op names the store operation that produced a Change.
type Op string

const (
	OpCreateNote  Op = "create_note"
	OpConnect     Op = "connect"
	OpUpdateLabel Op = "update_label"
	OpUpdateStyle Op = "update_style"
	OpMoveNote    Op = "move_note"
	OpSelect      Op = "select"
	OpDelete      Op = "delete"
	OpClear       Op = "clear"
	OpReplace     Op = "replace"
)

// Change is delivered to observers after every successful mutation.
type Change struct {
	Op    Op
	Board Board
}

// Observer receives change notifications. It must not mutate the store.
type Observer func(Change)

// Removal lists what a delete operation took off the board.
type Removal struct {
	Notes []NoteID
	Edges []EdgeID
}

// Empty reports whether nothing was removed.
func (r Removal) Empty() bool {
	return len(r.Notes) == 0 && len(r.Edges) == 0
}

type subscription struct {
	id int
	fn Observer
}

// Store owns the single authoritative Board. Every operation is atomic:
// it either commits and notifies observers, or returns an error and leaves
// the board untouched.
//
// A Store is not safe for concurrent use; all intents are applied from one
// event loop.
type Store struct {
	board     Board
	observers []subscription
	nextSub   int
	newEdgeID func() EdgeID
}

// Option configures a Store.
type Option func(*Store)

// WithEdgeIDs replaces the edge id generator.
func WithEdgeIDs(gen func() EdgeID) Option {
	return func(s *Store) {
		s.newEdgeID = gen
	}
}

// NewStore returns a store holding an empty board.
func NewStore(opts ...Option) *Store {
	s := &Store{
		board: New(),
		newEdgeID: func() EdgeID {
			return EdgeID(uuid.NewString())
		},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Board returns a snapshot of the current board.
func (s *Store) Board() Board {
	return s.board.Clone()
}

// Note returns one note from the current board.
func (s *Store) Note(id NoteID) (Note, bool) {
	return s.board.Note(id)
}

// Subscribe registers fn for change notifications and returns a function
// that removes it.
func (s *Store) Subscribe(fn Observer) (unsubscribe func()) {
	s.nextSub++
	id := s.nextSub
	s.observers = append(s.observers, subscription{id: id, fn: fn})
	return func() {
		s.observers = slices.DeleteFunc(s.observers, func(sub subscription) bool { return sub.id == id })
	}
}

// CreateNote adds a note centered slightly above center and returns its id.
// opts adjust the defaults before the note is inserted, so observers see a
// single change. Ids come from the board counter and are never handed out
// twice.
func (s *Store) CreateNote(center geom.Point, opts ...NoteOption) NoteID {
	if !center.IsFinite() {
		center = geom.Point{}
	}
	n := NewNote("", center.Add(geom.Point{Y: NoteBias}))
	for _, opt := range opts {
		opt(&n)
	}
	return s.AddNote(n)
}

// AddNote inserts a fully specified note, allocating its id from the counter.
// A missing or invalid color becomes the default.
func (s *Store) AddNote(n Note) NoteID {
	n.ID = s.allocateNoteID()
	if hex, err := geom.NormalizeHex(n.Color); err == nil {
		n.Color = hex
	} else {
		n.Color = geom.DefaultColor
	}
	s.board.Notes = append(s.board.Notes, n)
	s.notify(OpCreateNote)
	return n.ID
}

// Connect creates a directed edge. Self-loops, unknown endpoints and
// unknown handle names are rejected with ErrInvalidConnection. Parallel
// edges between the same pair are allowed.
func (s *Store) Connect(source, target NoteID, sourceHandle, targetHandle Handle) (EdgeID, error) {
	if source == target {
		return "", fmt.Errorf("%w: self-loop on note %q", ErrInvalidConnection, source)
	}
	if s.board.noteIndex(source) < 0 {
		return "", fmt.Errorf("%w: unknown source %q", ErrInvalidConnection, source)
	}
	if s.board.noteIndex(target) < 0 {
		return "", fmt.Errorf("%w: unknown target %q", ErrInvalidConnection, target)
	}
	if !sourceHandle.Valid() || !targetHandle.Valid() {
		return "", fmt.Errorf("%w: unknown handle %q -> %q", ErrInvalidConnection, sourceHandle, targetHandle)
	}

	id := s.newEdgeID()
	for id == "" || s.board.edgeIndex(id) >= 0 {
		id = EdgeID(uuid.NewString())
	}
	s.board.Edges = append(s.board.Edges, Edge{
		ID:           id,
		Source:       source,
		Target:       target,
		SourceHandle: sourceHandle,
		TargetHandle: targetHandle,
		Style:        DefaultEdgeStyle,
	})
	s.notify(OpConnect)
	return id, nil
}

// UpdateNoteLabel replaces the label of one note. Empty labels are allowed.
func (s *Store) UpdateNoteLabel(id NoteID, text string) error {
	i := s.board.noteIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoteNotFound, id)
	}
	if s.board.Notes[i].Label == text {
		return nil
	}
	s.board.Notes[i].Label = text
	s.notify(OpUpdateLabel)
	return nil
}

// UpdateNoteStyle applies a partial style update to one note.
func (s *Store) UpdateNoteStyle(id NoteID, patch StylePatch) error {
	i := s.board.noteIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoteNotFound, id)
	}
	if patch.Color != nil {
		hex, err := geom.NormalizeHex(*patch.Color)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidColor, err)
		}
		patch.Color = &hex
	}
	if patch.Empty() {
		return nil
	}
	s.board.Notes[i].apply(patch)
	s.notify(OpUpdateStyle)
	return nil
}

// ToggleStyle flips one style flag and returns its new value.
func (s *Store) ToggleStyle(id NoteID, flag StyleFlag) (bool, error) {
	n, ok := s.board.Note(id)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNoteNotFound, id)
	}
	v := !n.Flag(flag)
	if err := s.UpdateNoteStyle(id, FlagPatch(flag, v)); err != nil {
		return false, err
	}
	return v, nil
}

// MoveNote stores the resting position of a note after a drag.
func (s *Store) MoveNote(id NoteID, pos geom.Point) error {
	i := s.board.noteIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoteNotFound, id)
	}
	if !pos.IsFinite() {
		return fmt.Errorf("%w: non-finite position", ErrInvalidBoard)
	}
	if s.board.Notes[i].Position == pos {
		return nil
	}
	s.board.Notes[i].Position = pos
	s.notify(OpMoveNote)
	return nil
}

// MoveNotes shifts every given note by delta as one change. Nothing moves
// when any id is unknown.
func (s *Store) MoveNotes(ids []NoteID, delta geom.Point) error {
	idx := make([]int, 0, len(ids))
	for _, id := range ids {
		i := s.board.noteIndex(id)
		if i < 0 {
			return fmt.Errorf("%w: %q", ErrNoteNotFound, id)
		}
		if slices.Contains(idx, i) {
			continue
		}
		if !s.board.Notes[i].Position.Add(delta).IsFinite() {
			return fmt.Errorf("%w: non-finite position", ErrInvalidBoard)
		}
		idx = append(idx, i)
	}
	if len(idx) == 0 || delta == (geom.Point{}) {
		return nil
	}
	for _, i := range idx {
		s.board.Notes[i].Position = s.board.Notes[i].Position.Add(delta)
	}
	s.notify(OpMoveNote)
	return nil
}

// Select replaces the selection: exactly the given notes and edges end up
// selected. Unknown ids are ignored.
func (s *Store) Select(notes []NoteID, edges []EdgeID) {
	changed := false
	for i := range s.board.Notes {
		want := slices.Contains(notes, s.board.Notes[i].ID)
		if s.board.Notes[i].Selected != want {
			s.board.Notes[i].Selected = want
			changed = true
		}
	}
	for i := range s.board.Edges {
		want := slices.Contains(edges, s.board.Edges[i].ID)
		if s.board.Edges[i].Selected != want {
			s.board.Edges[i].Selected = want
			changed = true
		}
	}
	if changed {
		s.notify(OpSelect)
	}
}

// SelectEdge makes the edge the only selected item.
func (s *Store) SelectEdge(id EdgeID) error {
	if s.board.edgeIndex(id) < 0 {
		return fmt.Errorf("%w: %q", ErrEdgeNotFound, id)
	}
	s.Select(nil, []EdgeID{id})
	return nil
}

// ClearSelection deselects everything.
func (s *Store) ClearSelection() {
	s.Select(nil, nil)
}

// ToggleNoteSelection adds the note to or removes it from the selection.
func (s *Store) ToggleNoteSelection(id NoteID) error {
	i := s.board.noteIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrNoteNotFound, id)
	}
	s.board.Notes[i].Selected = !s.board.Notes[i].Selected
	s.notify(OpSelect)
	return nil
}

// ToggleEdgeSelection adds the edge to or removes it from the selection.
func (s *Store) ToggleEdgeSelection(id EdgeID) error {
	i := s.board.edgeIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrEdgeNotFound, id)
	}
	s.board.Edges[i].Selected = !s.board.Edges[i].Selected
	s.notify(OpSelect)
	return nil
}

// DeleteSelected removes every selected note and edge, plus every edge that
// touched a removed note.
func (s *Store) DeleteSelected() Removal {
	var removed Removal
	gone := make(map[NoteID]struct{})
	s.board.Notes = slices.DeleteFunc(s.board.Notes, func(n Note) bool {
		if n.Selected {
			gone[n.ID] = struct{}{}
			removed.Notes = append(removed.Notes, n.ID)
		}
		return n.Selected
	})
	s.board.Edges = slices.DeleteFunc(s.board.Edges, func(e Edge) bool {
		_, src := gone[e.Source]
		_, dst := gone[e.Target]
		drop := e.Selected || src || dst
		if drop {
			removed.Edges = append(removed.Edges, e.ID)
		}
		return drop
	})
	if !removed.Empty() {
		s.notify(OpDelete)
	}
	return removed
}

// DeleteNote removes one note together with its edges.
func (s *Store) DeleteNote(id NoteID) (Removal, error) {
	i := s.board.noteIndex(id)
	if i < 0 {
		return Removal{}, fmt.Errorf("%w: %q", ErrNoteNotFound, id)
	}
	removed := Removal{Notes: []NoteID{id}}
	s.board.Notes = slices.Delete(s.board.Notes, i, i+1)
	s.board.Edges = slices.DeleteFunc(s.board.Edges, func(e Edge) bool {
		if e.Touches(id) {
			removed.Edges = append(removed.Edges, e.ID)
			return true
		}
		return false
	})
	s.notify(OpDelete)
	return removed, nil
}

// DeleteEdge removes one edge.
func (s *Store) DeleteEdge(id EdgeID) error {
	i := s.board.edgeIndex(id)
	if i < 0 {
		return fmt.Errorf("%w: %q", ErrEdgeNotFound, id)
	}
	s.board.Edges = slices.Delete(s.board.Edges, i, i+1)
	s.notify(OpDelete)
	return nil
}

// Clear empties the board and resets the counter. Asking the user first is
// the caller's job.
func (s *Store) Clear() {
	s.board = New()
	s.notify(OpClear)
}

// ReplaceAll swaps in a whole new set of notes and edges, as done by a
// document load. The input is validated first; on failure nothing changes.
// The counter is reconciled to max(numeric ids)+1.
func (s *Store) ReplaceAll(notes []Note, edges []Edge) error {
	next := Board{
		Notes: slices.Clone(notes),
		Edges: slices.Clone(edges),
	}
	for i := range next.Edges {
		if next.Edges[i].Style == (EdgeStyle{}) {
			next.Edges[i].Style = DefaultEdgeStyle
		}
	}
	if err := next.Validate(); err != nil {
		return err
	}
	next.NextID = NextCounter(next.Notes)
	s.board = next
	s.notify(OpReplace)
	return nil
}

func (s *Store) allocateNoteID() NoteID {
	if s.board.NextID < 1 {
		s.board.NextID = 1
	}
	for {
		id := NoteID(strconv.Itoa(s.board.NextID))
		if s.board.NextID == math.MaxInt {
			s.board.NextID = 1
		} else {
			s.board.NextID++
		}
		if s.board.noteIndex(id) < 0 {
			return id
		}
	}
}

func (s *Store) notify(op Op) {
	if len(s.observers) == 0 {
		return
	}
	change := Change{Op: op, Board: s.board.Clone()}
	for _, sub := range slices.Clone(s.observers) {
		sub.fn(change)
	}
}
