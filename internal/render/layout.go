// Package render draws a board for the terminal and exports it as PNG or
// plain text.
//
// Board coordinates are pixels. The viewport maps them to screen pixels and
// every terminal cell covers CellWidth x CellHeight screen pixels. Note cards
// keep a fixed size in cells; zoom only changes where they sit.
package render

import (
	"math"
	"slices"

	"noten/internal/board"
	"noten/internal/geom"
)

// Screen pixels per terminal cell.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Rect is a rectangle of cells.
type Rect struct {
	X, Y, W, H int
}

// Contains reports whether the cell (x, y) lies inside r.
func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Center returns the middle cell.
func (r Rect) Center() (int, int) {
	return r.X + r.W/2, r.Y + r.H/2
}

// Handle returns the border cell holding the handle on side s.
func (r Rect) Handle(s board.Side) (int, int) {
	cx, cy := r.Center()
	switch s {
	case board.SideTop:
		return cx, r.Y
	case board.SideBottom:
		return cx, r.Y + r.H - 1
	case board.SideLeft:
		return r.X, cy
	default:
		return r.X + r.W - 1, cy
	}
}

// Port returns the cell just outside the handle on side s, where an edge
// starts or ends.
func (r Rect) Port(s board.Side) (int, int) {
	x, y := r.Handle(s)
	switch s {
	case board.SideTop:
		return x, y - 1
	case board.SideBottom:
		return x, y + 1
	case board.SideLeft:
		return x - 1, y
	default:
		return x + 1, y
	}
}

// Card is one laid-out note.
type Card struct {
	Note    board.Note
	Rect    Rect
	Lines   []string
	Editing bool
}

// Options controls one frame.
type Options struct {
	Viewport geom.Viewport
	// Editing is the note with an open editor; EditorRows is its height.
	Editing    board.NoteID
	EditorRows int
	// Dragging notes are moved by DragDelta (board units) without touching
	// the store.
	Dragging  []board.NoteID
	DragDelta geom.Point
	// ConnectFrom marks the pending source of a connection.
	ConnectFrom board.NoteID
	// Plain disables colors.
	Plain bool
}

// Layout is the cell geometry of every note.
type Layout struct {
	Cards []Card
	index map[board.NoteID]int
}

// Card returns the card of a note.
func (l Layout) Card(id board.NoteID) (Card, bool) {
	i, ok := l.index[id]
	if !ok {
		return Card{}, false
	}
	return l.Cards[i], true
}

// Lay computes card rectangles for every note in draw order.
func Lay(b board.Board, opts Options) Layout {
	l := Layout{
		Cards: make([]Card, 0, len(b.Notes)),
		index: make(map[board.NoteID]int, len(b.Notes)),
	}
	for _, n := range b.Notes {
		if slices.Contains(opts.Dragging, n.ID) {
			n.Position = n.Position.Add(opts.DragDelta)
		}
		lines := geom.Wrap(n.Label, geom.LabelCells)
		editing := n.ID != "" && n.ID == opts.Editing
		rows := len(lines)
		if editing && opts.EditorRows > rows {
			rows = opts.EditorRows
		}
		l.index[n.ID] = len(l.Cards)
		l.Cards = append(l.Cards, Card{
			Note:    n,
			Rect:    NoteRect(n.Position, opts.Viewport, rows),
			Lines:   lines,
			Editing: editing,
		})
	}
	return l
}

// NoteRect is the card of a note centered on pos with the given number of
// label rows.
func NoteRect(pos geom.Point, v geom.Viewport, rows int) Rect {
	if rows < 1 {
		rows = 1
	}
	cx, cy := BoardToCell(v, pos)
	w, h := geom.NoteCells, rows+2
	return Rect{X: cx - w/2, Y: cy - h/2, W: w, H: h}
}

// maxCell bounds cell coordinates so that far away notes stay in int range
// and cell arithmetic cannot overflow.
const maxCell = 1 << 30

// BoardToCell returns the cell containing a board point, clamped to
// ±maxCell.
func BoardToCell(v geom.Viewport, p geom.Point) (int, int) {
	s := v.BoardToScreen(p)
	return toCell(s.X / CellWidth), toCell(s.Y / CellHeight)
}

func toCell(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f > maxCell:
		return maxCell
	case f < -maxCell:
		return -maxCell
	}
	return int(math.Floor(f))
}

// CellToBoard returns the board point at the center of a cell.
func CellToBoard(v geom.Viewport, x, y int) geom.Point {
	return v.ScreenToBoard(CellToScreen(x, y))
}

// CellToScreen returns the screen point at the center of a cell.
func CellToScreen(x, y int) geom.Point {
	return geom.Point{X: (float64(x) + 0.5) * CellWidth, Y: (float64(y) + 0.5) * CellHeight}
}

// Sides picks the sides an edge leaves and enters by. Explicit handles win;
// otherwise the dominant axis between the two centers decides.
func Sides(e board.Edge, from, to Rect) (board.Side, board.Side) {
	src, dst := e.SourceHandle.Side(), e.TargetHandle.Side()
	if src != "" && dst != "" {
		return src, dst
	}
	fx, fy := from.Center()
	tx, ty := to.Center()
	autoSrc, autoDst := board.SideBottom, board.SideTop
	switch {
	case abs(fx-tx) > abs(fy-ty) && fx < tx:
		autoSrc, autoDst = board.SideRight, board.SideLeft
	case abs(fx-tx) > abs(fy-ty):
		autoSrc, autoDst = board.SideLeft, board.SideRight
	case fy >= ty:
		autoSrc, autoDst = board.SideTop, board.SideBottom
	}
	if src == "" {
		src = autoSrc
	}
	if dst == "" {
		dst = autoDst
	}
	return src, dst
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
