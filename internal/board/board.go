// Package board is the authoritative model of a sticky-note board: notes,
// directed edges between them, and the per-board id counter.
package board

import (
	"fmt"
	"math"
	"slices"
)

// Board is the unit of save/load. Order of Notes and Edges carries no
// meaning beyond draw order.
type Board struct {
	Notes  []Note
	Edges  []Edge
	NextID int
}

// New returns an empty board whose first note will be "1".
func New() Board {
	return Board{NextID: 1}
}

// Clone returns a deep copy.
func (b Board) Clone() Board {
	return Board{
		Notes:  slices.Clone(b.Notes),
		Edges:  slices.Clone(b.Edges),
		NextID: b.NextID,
	}
}

// Note looks a note up by id.
func (b Board) Note(id NoteID) (Note, bool) {
	if i := b.noteIndex(id); i >= 0 {
		return b.Notes[i], true
	}
	return Note{}, false
}

// Edge looks an edge up by id.
func (b Board) Edge(id EdgeID) (Edge, bool) {
	if i := b.edgeIndex(id); i >= 0 {
		return b.Edges[i], true
	}
	return Edge{}, false
}

// SelectedNotes returns every note flagged selected.
func (b Board) SelectedNotes() []Note {
	var out []Note
	for _, n := range b.Notes {
		if n.Selected {
			out = append(out, n)
		}
	}
	return out
}

// SelectedEdges returns every edge flagged selected.
func (b Board) SelectedEdges() []Edge {
	var out []Edge
	for _, e := range b.Edges {
		if e.Selected {
			out = append(out, e)
		}
	}
	return out
}

// SelectedNote returns the selected note when exactly one note is selected.
// This drives the style toolbar.
func (b Board) SelectedNote() (Note, bool) {
	sel := b.SelectedNotes()
	if len(sel) != 1 {
		return Note{}, false
	}
	return sel[0], true
}

// Empty reports whether the board has no notes and no edges.
func (b Board) Empty() bool {
	return len(b.Notes) == 0 && len(b.Edges) == 0
}

// Validate checks the structural invariants: non-empty unique ids, edges
// between two distinct existing notes, known handles.
func (b Board) Validate() error {
	notes := make(map[NoteID]struct{}, len(b.Notes))
	for _, n := range b.Notes {
		if n.ID == "" {
			return fmt.Errorf("%w: note with empty id", ErrInvalidBoard)
		}
		if _, dup := notes[n.ID]; dup {
			return fmt.Errorf("%w: duplicate note id %q", ErrInvalidBoard, n.ID)
		}
		notes[n.ID] = struct{}{}
	}

	edges := make(map[EdgeID]struct{}, len(b.Edges))
	for _, e := range b.Edges {
		if e.ID == "" {
			return fmt.Errorf("%w: edge with empty id", ErrInvalidBoard)
		}
		if _, dup := edges[e.ID]; dup {
			return fmt.Errorf("%w: duplicate edge id %q", ErrInvalidBoard, e.ID)
		}
		edges[e.ID] = struct{}{}
		if e.Source == e.Target {
			return fmt.Errorf("%w: edge %q is a self-loop", ErrInvalidBoard, e.ID)
		}
		if _, ok := notes[e.Source]; !ok {
			return fmt.Errorf("%w: edge %q references missing source %q", ErrInvalidBoard, e.ID, e.Source)
		}
		if _, ok := notes[e.Target]; !ok {
			return fmt.Errorf("%w: edge %q references missing target %q", ErrInvalidBoard, e.ID, e.Target)
		}
		if !e.SourceHandle.Valid() || !e.TargetHandle.Valid() {
			return fmt.Errorf("%w: edge %q has an unknown handle", ErrInvalidBoard, e.ID)
		}
	}
	return nil
}

// NextCounter returns max(numeric note ids)+1, or 1 for a board without
// numeric ids. An id of math.MaxInt has no successor and is ignored.
func NextCounter(notes []Note) int {
	next := 1
	for _, n := range notes {
		if seq, ok := n.ID.Seq(); ok && seq >= next && seq < math.MaxInt {
			next = seq + 1
		}
	}
	return next
}

func (b Board) noteIndex(id NoteID) int {
	return slices.IndexFunc(b.Notes, func(n Note) bool { return n.ID == id })
}

func (b Board) edgeIndex(id EdgeID) int {
	return slices.IndexFunc(b.Edges, func(e Edge) bool { return e.ID == id })
}
