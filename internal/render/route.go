package render

import (
	"math"

	"noten/internal/board"
	"noten/internal/geom"
)

// Route returns an orthogonal step path from a point leaving by fromSide to
// a point entering by toSide. The same routing is used for cells and for
// PNG pixels.
func Route(from geom.Point, fromSide board.Side, to geom.Point, toSide board.Side) []geom.Point {
	var pts []geom.Point
	switch fh, th := horizontal(fromSide), horizontal(toSide); {
	case fh && th:
		midX := math.Floor((from.X + to.X) / 2)
		pts = []geom.Point{from, {X: midX, Y: from.Y}, {X: midX, Y: to.Y}, to}
	case !fh && !th:
		midY := math.Floor((from.Y + to.Y) / 2)
		pts = []geom.Point{from, {X: from.X, Y: midY}, {X: to.X, Y: midY}, to}
	case fh:
		pts = []geom.Point{from, {X: to.X, Y: from.Y}, to}
	default:
		pts = []geom.Point{from, {X: from.X, Y: to.Y}, to}
	}
	return simplify(pts)
}

func horizontal(s board.Side) bool {
	return s == board.SideLeft || s == board.SideRight
}

// simplify drops repeated and collinear points.
func simplify(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, 0, len(pts))
	for _, p := range pts {
		if n := len(out); n > 0 && out[n-1] == p {
			continue
		}
		if n := len(out); n >= 2 {
			a, b := out[n-2], out[n-1]
			if (a.X == b.X && b.X == p.X) || (a.Y == b.Y && b.Y == p.Y) {
				out[n-1] = p
				continue
			}
		}
		out = append(out, p)
	}
	return out
}

type cell struct{ x, y int }

// walk visits the cells of an orthogonal polyline of cell coordinates that
// lie inside clip, in path order. in is the connection back to the previous
// cell (0 on the first cell) and out the direction to the next one (0 on the
// last cell). Work is bounded by the clip size, not by the path length.
func walk(pts []geom.Point, clip Rect, visit func(c cell, in, out int)) {
	if len(pts) == 0 {
		return
	}
	cells := make([]cell, len(pts))
	for i, p := range pts {
		cells[i] = cell{int(p.X), int(p.Y)}
	}
	outAt := func(i int) int {
		if i+1 < len(cells) {
			return direction(cells[i], cells[i+1])
		}
		return 0
	}
	if clip.Contains(cells[0].x, cells[0].y) {
		visit(cells[0], 0, outAt(0))
	}

	maxX, maxY := clip.X+clip.W-1, clip.Y+clip.H-1
	for i := 1; i < len(cells); i++ {
		a, b := cells[i-1], cells[i]
		d := direction(a, b)
		in := opposite(d)
		emit := func(c cell) {
			out := d
			if c == b {
				out = outAt(i)
			}
			visit(c, in, out)
		}
		switch d {
		case dirRight:
			if a.y < clip.Y || a.y > maxY {
				continue
			}
			for x := max(a.x+1, clip.X); x <= min(b.x, maxX); x++ {
				emit(cell{x, a.y})
			}
		case dirLeft:
			if a.y < clip.Y || a.y > maxY {
				continue
			}
			for x := min(a.x-1, maxX); x >= max(b.x, clip.X); x-- {
				emit(cell{x, a.y})
			}
		case dirDown:
			if a.x < clip.X || a.x > maxX {
				continue
			}
			for y := max(a.y+1, clip.Y); y <= min(b.y, maxY); y++ {
				emit(cell{a.x, y})
			}
		case dirUp:
			if a.x < clip.X || a.x > maxX {
				continue
			}
			for y := min(a.y-1, maxY); y >= max(b.y, clip.Y); y-- {
				emit(cell{a.x, y})
			}
		}
	}
}

// Connection directions of a path cell.
const (
	dirUp = 1 << iota
	dirDown
	dirLeft
	dirRight
)

func direction(from, to cell) int {
	switch {
	case to.x > from.x:
		return dirRight
	case to.x < from.x:
		return dirLeft
	case to.y > from.y:
		return dirDown
	case to.y < from.y:
		return dirUp
	}
	return 0
}

func opposite(d int) int {
	switch d {
	case dirUp:
		return dirDown
	case dirDown:
		return dirUp
	case dirLeft:
		return dirRight
	case dirRight:
		return dirLeft
	}
	return 0
}

var lineRunes = map[int]rune{
	dirLeft | dirRight:                     '─',
	dirLeft:                                '─',
	dirRight:                               '─',
	dirUp | dirDown:                        '│',
	dirUp:                                  '│',
	dirDown:                                '│',
	dirDown | dirRight:                     '┌',
	dirDown | dirLeft:                      '┐',
	dirUp | dirRight:                       '└',
	dirUp | dirLeft:                        '┘',
	dirUp | dirDown | dirLeft | dirRight:   '┼',
	dirUp | dirDown | dirRight:             '├',
	dirUp | dirDown | dirLeft:              '┤',
	dirLeft | dirRight | dirDown:           '┬',
	dirLeft | dirRight | dirUp:             '┴',
}

// arrowRune points into a note entered by side s.
func arrowRune(s board.Side) rune {
	switch s {
	case board.SideLeft:
		return '▶'
	case board.SideRight:
		return '◀'
	case board.SideTop:
		return '▼'
	default:
		return '▲'
	}
}
