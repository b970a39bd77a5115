package render

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io"
	"math"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/gomonobolditalic"
	"golang.org/x/image/font/gofont/gomonoitalic"

	"noten/internal/board"
	"noten/internal/document"
	"noten/internal/geom"
)

var (
	ErrNothingToExport = errors.New("nothing to export")
	// ErrBoardTooLarge is returned when the notes of a board are too far
	// apart to be drawn at any usable scale.
	ErrBoardTooLarge = errors.New("board too large to export")
)

// Card metrics in board pixels.
const (
	cardWidth   = 180.0
	cardPadding = 10.0
	cardRadius  = 8.0
	lineHeight  = 18.0
	fontSize    = 13.0
	handleSize  = 4.0
	imageMargin = 40.0
	gridGap     = 16.0
	// maxImageSide caps both image dimensions; larger boards are scaled
	// down to fit.
	maxImageSide = 4096.0
)

type faces struct {
	regular, bold, italic, boldItalic font.Face
}

func loadFaces() (faces, error) {
	load := func(ttf []byte) (font.Face, error) {
		f, err := truetype.Parse(ttf)
		if err != nil {
			return nil, fmt.Errorf("failed to parse font: %w", err)
		}
		return truetype.NewFace(f, &truetype.Options{
			Size:    fontSize,
			DPI:     72,
			Hinting: font.HintingFull,
		}), nil
	}
	var (
		out faces
		err error
	)
	if out.regular, err = load(gomono.TTF); err != nil {
		return faces{}, err
	}
	if out.bold, err = load(gomonobold.TTF); err != nil {
		return faces{}, err
	}
	if out.italic, err = load(gomonoitalic.TTF); err != nil {
		return faces{}, err
	}
	if out.boldItalic, err = load(gomonobolditalic.TTF); err != nil {
		return faces{}, err
	}
	return out, nil
}

func (f faces) pick(n board.Note) font.Face {
	switch {
	case n.Bold && n.Italic:
		return f.boldItalic
	case n.Bold:
		return f.bold
	case n.Italic:
		return f.italic
	}
	return f.regular
}

type pngCard struct {
	note  board.Note
	lines []string
	x, y  float64
	w, h  float64
}

func (c pngCard) port(s board.Side) geom.Point {
	switch s {
	case board.SideTop:
		return geom.Point{X: c.x + c.w/2, Y: c.y}
	case board.SideBottom:
		return geom.Point{X: c.x + c.w/2, Y: c.y + c.h}
	case board.SideLeft:
		return geom.Point{X: c.x, Y: c.y + c.h/2}
	default:
		return geom.Point{X: c.x + c.w, Y: c.y + c.h/2}
	}
}

func (c pngCard) rect() Rect {
	return Rect{X: int(c.x), Y: int(c.y), W: int(c.w), H: int(c.h)}
}

// WritePNG draws the whole board at zoom 1 and encodes it as PNG.
func WritePNG(w io.Writer, b board.Board) error {
	if len(b.Notes) == 0 {
		return ErrNothingToExport
	}
	cards := make(map[board.NoteID]pngCard, len(b.Notes))
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, n := range b.Notes {
		lines := geom.Wrap(n.Label, geom.LabelCells)
		h := float64(len(lines))*lineHeight + 2*cardPadding
		c := pngCard{
			note:  n,
			lines: lines,
			x:     n.Position.X - cardWidth/2,
			y:     n.Position.Y - h/2,
			w:     cardWidth,
			h:     h,
		}
		cards[n.ID] = c
		minX, minY = math.Min(minX, c.x), math.Min(minY, c.y)
		maxX, maxY = math.Max(maxX, c.x+c.w), math.Max(maxY, c.y+c.h)
	}
	minX -= imageMargin
	minY -= imageMargin
	maxX += imageMargin
	maxY += imageMargin

	width, height := maxX-minX, maxY-minY
	if math.IsInf(width, 0) || math.IsInf(height, 0) || math.IsNaN(width) || math.IsNaN(height) {
		return ErrBoardTooLarge
	}
	scale := min(1, maxImageSide/width, maxImageSide/height)

	ff, err := loadFaces()
	if err != nil {
		return err
	}

	dc := gg.NewContext(imageSide(width*scale), imageSide(height*scale))
	dc.SetColor(color.White)
	dc.Clear()
	drawGrid(dc)
	dc.Scale(scale, scale)
	dc.Translate(-minX, -minY)

	for _, e := range b.Edges {
		from, ok := cards[e.Source]
		if !ok {
			continue
		}
		to, ok := cards[e.Target]
		if !ok {
			continue
		}
		drawEdgePNG(dc, e, from, to)
	}
	for _, n := range b.Notes {
		drawCardPNG(dc, cards[n.ID], ff)
	}
	return dc.EncodePNG(w)
}

// imageSide rounds a scaled length up to whole pixels within
// [1, maxImageSide].
func imageSide(f float64) int {
	return int(min(max(math.Ceil(f), 1), maxImageSide))
}

// SavePNG writes the PNG export of b to path.
func SavePNG(path string, b board.Board) error {
	var buf bytes.Buffer
	if err := WritePNG(&buf, b); err != nil {
		return err
	}
	return document.WriteFile(path, buf.Bytes())
}

func drawGrid(dc *gg.Context) {
	dc.SetHexColor("#E5E5E5")
	for x := gridGap; x < float64(dc.Width()); x += gridGap {
		for y := gridGap; y < float64(dc.Height()); y += gridGap {
			dc.DrawPoint(x, y, 0.8)
		}
	}
	dc.Fill()
}

func drawEdgePNG(dc *gg.Context, e board.Edge, from, to pngCard) {
	srcSide, dstSide := Sides(e, from.rect(), to.rect())
	pts := Route(from.port(srcSide), srcSide, to.port(dstSide), dstSide)
	if len(pts) < 2 {
		return
	}
	width := e.Style.StrokeWidth
	if width <= 0 {
		width = board.DefaultEdgeStyle.StrokeWidth
	}
	dc.SetHexColor(edgeColor)
	if e.Selected {
		dc.SetHexColor(edgeHotColor)
	}
	dc.SetLineWidth(width)
	dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		dc.LineTo(p.X, p.Y)
	}
	dc.Stroke()
	drawArrowPNG(dc, pts[len(pts)-2], pts[len(pts)-1])
}

func drawArrowPNG(dc *gg.Context, from, to geom.Point) {
	dx, dy := to.X-from.X, to.Y-from.Y
	length := math.Hypot(dx, dy)
	if length < 0.1 {
		return
	}
	dx /= length
	dy /= length

	const (
		arrowSize  = 8.0
		arrowAngle = 0.5
	)
	dc.MoveTo(to.X, to.Y)
	dc.LineTo(to.X-arrowSize*dx+arrowSize*dy*arrowAngle, to.Y-arrowSize*dy-arrowSize*dx*arrowAngle)
	dc.LineTo(to.X-arrowSize*dx-arrowSize*dy*arrowAngle, to.Y-arrowSize*dy+arrowSize*dx*arrowAngle)
	dc.ClosePath()
	dc.Fill()
}

func drawCardPNG(dc *gg.Context, c pngCard, ff faces) {
	fill := c.note.FillColor()
	if _, err := geom.NormalizeHex(fill); err != nil {
		fill = geom.DefaultColor
	}

	dc.DrawRoundedRectangle(c.x, c.y, c.w, c.h, cardRadius)
	dc.SetHexColor(fill)
	dc.FillPreserve()
	if c.note.Selected {
		dc.SetHexColor(selectedColor)
		dc.SetLineWidth(2.5)
	} else {
		dc.SetHexColor(borderColor)
		dc.SetLineWidth(1)
	}
	dc.Stroke()

	dc.SetHexColor(geom.Tint(fill, geom.HandleTint))
	for _, s := range []board.Side{board.SideTop, board.SideRight, board.SideBottom, board.SideLeft} {
		p := c.port(s)
		dc.DrawCircle(p.X, p.Y, handleSize)
		dc.Fill()
	}

	dc.SetFontFace(ff.pick(c.note))
	dc.SetHexColor(textColor)
	cx := c.x + c.w/2
	for i, line := range c.lines {
		y := c.y + cardPadding + float64(i)*lineHeight + lineHeight/2
		dc.DrawStringAnchored(line, cx, y, 0.5, 0.5)
		if c.note.Strike && line != "" {
			tw, _ := dc.MeasureString(line)
			dc.SetLineWidth(1)
			dc.DrawLine(cx-tw/2, y, cx+tw/2, y)
			dc.Stroke()
		}
	}
}
