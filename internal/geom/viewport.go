package geom

const (
	// DefaultZoom matches the initial viewport of a fresh editor.
	DefaultZoom = 2.0
	MinZoom     = 0.25
	MaxZoom     = 4.0
)

// Viewport maps board coordinates to screen pixels:
// screen = board*Zoom + Offset.
type Viewport struct {
	Offset Point
	Zoom   float64
}

// NewViewport returns a viewport at the origin with the given zoom, falling
// back to DefaultZoom for non-positive values.
func NewViewport(zoom float64) Viewport {
	if zoom <= 0 {
		zoom = DefaultZoom
	}
	return Viewport{Zoom: clampZoom(zoom)}
}

// ScreenToBoard converts a screen point to board space.
func (v Viewport) ScreenToBoard(p Point) Point {
	z := v.zoom()
	return Point{X: (p.X - v.Offset.X) / z, Y: (p.Y - v.Offset.Y) / z}
}

// BoardToScreen converts a board point to screen space.
func (v Viewport) BoardToScreen(p Point) Point {
	z := v.zoom()
	return Point{X: p.X*z + v.Offset.X, Y: p.Y*z + v.Offset.Y}
}

// Pan shifts the viewport by d screen pixels.
func (v Viewport) Pan(d Point) Viewport {
	v.Offset = v.Offset.Add(d)
	return v
}

// ZoomAround changes the zoom by factor while keeping the board point under
// anchor (a screen point) fixed on screen.
func (v Viewport) ZoomAround(anchor Point, factor float64) Viewport {
	if factor <= 0 {
		return v
	}
	before := v.ScreenToBoard(anchor)
	v.Zoom = clampZoom(v.zoom() * factor)
	after := v.BoardToScreen(before)
	v.Offset = v.Offset.Add(anchor.Sub(after))
	return v
}

func (v Viewport) zoom() float64 {
	if v.Zoom <= 0 {
		return DefaultZoom
	}
	return v.Zoom
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
