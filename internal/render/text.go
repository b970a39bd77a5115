package render

import (
	"fmt"
	"math"
	"strings"

	"noten/internal/board"
	"noten/internal/document"
	"noten/internal/geom"
)

// textMargin is the blank border, in cells, around a fitted text export.
const textMargin = 2

// Fit returns a viewport at the given zoom and a frame size that show every
// note of b with a small margin.
func Fit(b board.Board, zoom float64) (geom.Viewport, int, int) {
	v := geom.NewViewport(zoom)
	if len(b.Notes) == 0 {
		return v, 1, 1
	}
	l := Lay(b, Options{Viewport: v})
	minX, minY := math.MaxInt, math.MaxInt
	maxX, maxY := math.MinInt, math.MinInt
	for _, c := range l.Cards {
		minX, minY = min(minX, c.Rect.X), min(minY, c.Rect.Y)
		maxX, maxY = max(maxX, c.Rect.X+c.Rect.W), max(maxY, c.Rect.Y+c.Rect.H)
	}
	v.Offset = geom.Point{
		X: float64(textMargin-minX) * CellWidth,
		Y: float64(textMargin-minY) * CellHeight,
	}
	return v, maxX - minX + 2*textMargin, maxY - minY + 2*textMargin
}

// maxTextCells bounds each side of a fitted text export.
const maxTextCells = 4096

// Text renders the whole board as plain text. Boards whose notes are too far
// apart to fit maxTextCells on a side fail with ErrBoardTooLarge.
func Text(b board.Board, zoom float64) (string, error) {
	v, w, h := Fit(b, zoom)
	if w > maxTextCells || h > maxTextCells {
		return "", fmt.Errorf("%w: %dx%d cells", ErrBoardTooLarge, w, h)
	}
	f := Render(b, w, h, Options{Viewport: v, Plain: true})
	return strings.Join(f.Lines(), "\n") + "\n", nil
}

// SaveText writes the lines of a frame to path, as shown on screen.
func SaveText(path string, f *Frame) error {
	return document.WriteFile(path, []byte(strings.Join(f.Lines(), "\n")+"\n"))
}
