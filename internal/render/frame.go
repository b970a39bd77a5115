package render

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"noten/internal/board"
	"noten/internal/geom"
)

// Colors of the terminal theme.
const (
	borderColor   = "#CCCCCC"
	selectedColor = "#747474"
	textColor     = "#222222"
	edgeColor     = "#B1B1B7"
	edgeHotColor  = "#555555"
)

// HitKind says what occupies a cell.
type HitKind int

const (
	HitNone HitKind = iota
	HitNote
	HitHandle
	HitEdge
)

// Hit is the object under one cell.
type Hit struct {
	Kind HitKind
	Note board.NoteID
	Edge board.EdgeID
	// Side is set for HitHandle.
	Side board.Side
}

type attrs struct {
	fg, bg               string
	bold, italic, strike bool
	reverse              bool
}

type pixel struct {
	r     rune
	a     attrs
	cont  bool
	lines int
}

// Frame is one rendered screen: runes with their styles plus a hit map.
type Frame struct {
	width, height int
	pixels        [][]pixel
	hits          [][]Hit
	layout        Layout
	plain         bool
}

// Render draws b into a width x height frame. Edges are drawn first so notes
// cover them.
func Render(b board.Board, width, height int, opts Options) *Frame {
	if width < 1 {
		width = 1
	}
	if height < 1 {
		height = 1
	}
	f := &Frame{
		width:  width,
		height: height,
		pixels: make([][]pixel, height),
		hits:   make([][]Hit, height),
		layout: Lay(b, opts),
		plain:  opts.Plain,
	}
	for y := range f.pixels {
		f.pixels[y] = make([]pixel, width)
		f.hits[y] = make([]Hit, width)
		for x := range f.pixels[y] {
			f.pixels[y][x].r = ' '
		}
	}

	for _, e := range b.Edges {
		f.drawEdge(e)
	}
	for _, c := range f.layout.Cards {
		f.drawCard(c, opts)
	}
	return f
}

// Size returns the frame dimensions in cells.
func (f *Frame) Size() (int, int) { return f.width, f.height }

// Layout returns the card geometry used for the frame.
func (f *Frame) Layout() Layout { return f.layout }

// HitAt returns what occupies the cell (x, y).
func (f *Frame) HitAt(x, y int) Hit {
	if !f.valid(x, y) {
		return Hit{}
	}
	return f.hits[y][x]
}

// MarkCursor shows the keyboard cursor at (x, y) in the styled output.
func (f *Frame) MarkCursor(x, y int) {
	if !f.valid(x, y) {
		return
	}
	if f.pixels[y][x].cont && x > 0 {
		x--
	}
	f.pixels[y][x].a.reverse = true
}

// Lines returns the frame as plain text, one string per row, without
// trailing blanks.
func (f *Frame) Lines() []string {
	out := make([]string, f.height)
	for y, row := range f.pixels {
		var sb strings.Builder
		for _, p := range row {
			if !p.cont {
				sb.WriteRune(p.r)
			}
		}
		out[y] = strings.TrimRight(sb.String(), " ")
	}
	return out
}

// String returns the styled frame.
func (f *Frame) String() string {
	if f.plain {
		return strings.Join(f.Lines(), "\n")
	}
	rows := make([]string, f.height)
	for y, row := range f.pixels {
		var (
			sb  strings.Builder
			run strings.Builder
			cur attrs
		)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			sb.WriteString(styleFor(cur).Render(run.String()))
			run.Reset()
		}
		for _, p := range row {
			if p.cont {
				continue
			}
			if p.a != cur {
				flush()
				cur = p.a
			}
			run.WriteRune(p.r)
		}
		flush()
		rows[y] = sb.String()
	}
	return strings.Join(rows, "\n")
}

func styleFor(a attrs) lipgloss.Style {
	s := lipgloss.NewStyle()
	if a == (attrs{}) {
		return s
	}
	if a.fg != "" {
		s = s.Foreground(lipgloss.Color(a.fg))
	}
	if a.bg != "" {
		s = s.Background(lipgloss.Color(a.bg))
	}
	return s.Bold(a.bold).Italic(a.italic).Strikethrough(a.strike).Reverse(a.reverse)
}

func (f *Frame) valid(x, y int) bool {
	return x >= 0 && y >= 0 && x < f.width && y < f.height
}

func (f *Frame) set(x, y int, r rune, a attrs, hit Hit) {
	if !f.valid(x, y) {
		return
	}
	// Overwriting half of a wide rune blanks the other half.
	if f.pixels[y][x].cont && x > 0 {
		f.pixels[y][x-1].r = ' '
	}
	if x+1 < f.width && f.pixels[y][x+1].cont {
		f.pixels[y][x+1] = pixel{r: ' ', a: f.pixels[y][x+1].a}
	}
	f.pixels[y][x] = pixel{r: r, a: a}
	f.hits[y][x] = hit
}

// text writes s from (x, y) and returns the number of cells used. Nothing
// is written at or beyond limit.
func (f *Frame) text(x, y, limit int, s string, a attrs, hit Hit) int {
	used := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if w == 0 {
			continue
		}
		if x+used+w > limit {
			break
		}
		f.set(x+used, y, r, a, hit)
		if w == 2 && f.valid(x+used+1, y) {
			f.pixels[y][x+used+1] = pixel{cont: true, a: a}
			f.hits[y][x+used+1] = hit
		}
		used += w
	}
	return used
}

func (f *Frame) drawEdge(e board.Edge) {
	from, ok := f.layout.Card(e.Source)
	if !ok {
		return
	}
	to, ok := f.layout.Card(e.Target)
	if !ok {
		return
	}
	srcSide, dstSide := Sides(e, from.Rect, to.Rect)
	sx, sy := from.Rect.Port(srcSide)
	tx, ty := to.Rect.Port(dstSide)
	pts := Route(
		geom.Point{X: float64(sx), Y: float64(sy)}, srcSide,
		geom.Point{X: float64(tx), Y: float64(ty)}, dstSide,
	)

	a := attrs{fg: edgeColor}
	if e.Selected {
		a = attrs{fg: edgeHotColor, bold: true}
	}
	hit := Hit{Kind: HitEdge, Edge: e.ID}
	walk(pts, Rect{W: f.width, H: f.height}, func(c cell, in, out int) {
		if out == 0 {
			f.set(c.x, c.y, arrowRune(dstSide), a, hit)
			return
		}
		dirs := out | in
		if in == 0 {
			dirs |= sideDir(srcSide)
		}
		merged := f.pixels[c.y][c.x].lines | dirs
		r, ok := lineRunes[merged]
		if !ok {
			r, merged = lineRunes[dirs], dirs
		}
		f.set(c.x, c.y, r, a, hit)
		f.pixels[c.y][c.x].lines = merged
	})
}

func sideDir(s board.Side) int {
	switch s {
	case board.SideTop:
		return dirDown
	case board.SideBottom:
		return dirUp
	case board.SideLeft:
		return dirRight
	default:
		return dirLeft
	}
}

func (f *Frame) drawCard(c Card, opts Options) {
	n := c.Note
	r := c.Rect
	fill := n.FillColor()
	if _, err := geom.NormalizeHex(fill); err != nil {
		fill = geom.DefaultColor
	}

	hit := Hit{Kind: HitNote, Note: n.ID}
	border := attrs{fg: borderColor, bg: fill}
	corner, horiz, vert := '+', '-', '|'
	switch {
	case n.Selected:
		border.fg = selectedColor
		border.bold = true
		corner, horiz, vert = '#', '#', '#'
	case n.ID == opts.ConnectFrom:
		border.fg = selectedColor
		corner, horiz, vert = '*', '*', '*'
	}

	for y := r.Y; y < r.Y+r.H; y++ {
		for x := r.X; x < r.X+r.W; x++ {
			top, bottom := y == r.Y, y == r.Y+r.H-1
			left, right := x == r.X, x == r.X+r.W-1
			switch {
			case (top || bottom) && (left || right):
				f.set(x, y, corner, border, hit)
			case top || bottom:
				f.set(x, y, horiz, border, hit)
			case left || right:
				f.set(x, y, vert, border, hit)
			default:
				f.set(x, y, ' ', attrs{bg: fill}, hit)
			}
		}
	}

	tint := geom.Tint(fill, geom.HandleTint)
	for _, s := range []board.Side{board.SideTop, board.SideRight, board.SideBottom, board.SideLeft} {
		hx, hy := r.Handle(s)
		f.set(hx, hy, '●', attrs{fg: tint, bg: fill}, Hit{Kind: HitHandle, Note: n.ID, Side: s})
	}

	labelBg := fill
	if c.Editing {
		labelBg = geom.Tint(fill, geom.EditorTint)
		for y := r.Y + 1; y < r.Y+r.H-1; y++ {
			for x := r.X + 1; x < r.X+r.W-1; x++ {
				f.set(x, y, ' ', attrs{bg: labelBg}, hit)
			}
		}
	}
	text := attrs{fg: textColor, bg: labelBg, bold: n.Bold, italic: n.Italic, strike: n.Strike}
	inner := r.X + 2
	limit := inner + geom.LabelCells
	for i, line := range c.Lines {
		y := r.Y + 1 + i
		if y >= r.Y+r.H-1 {
			break
		}
		pad := (geom.LabelCells - runewidth.StringWidth(line)) / 2
		if pad < 0 {
			pad = 0
		}
		f.text(inner+pad, y, limit, line, text, hit)
	}
}
