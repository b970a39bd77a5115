package board

// Side is one of the four cardinal attachment points of a note.
type Side string

const (
	SideTop    Side = "top"
	SideRight  Side = "right"
	SideBottom Side = "bottom"
	SideLeft   Side = "left"
)

// Handle names an attachment point and whether it starts or ends an edge.
// The wire names ("s-right", "t-left", ...) are part of the document format.
type Handle string

const (
	SourceTop    Handle = "s-top"
	SourceRight  Handle = "s-right"
	SourceBottom Handle = "s-bottom"
	SourceLeft   Handle = "s-left"
	TargetTop    Handle = "t-top"
	TargetRight  Handle = "t-right"
	TargetBottom Handle = "t-bottom"
	TargetLeft   Handle = "t-left"
)

// SourceHandle returns the source handle on the given side.
func SourceHandle(s Side) Handle { return Handle("s-" + string(s)) }

// TargetHandle returns the target handle on the given side.
func TargetHandle(s Side) Handle { return Handle("t-" + string(s)) }

// Valid reports whether h is one of the eight known handles. The empty
// handle is also accepted; it means "let the renderer pick a side".
func (h Handle) Valid() bool {
	if h == "" {
		return true
	}
	if len(h) < 3 || (h[:2] != "s-" && h[:2] != "t-") {
		return false
	}
	switch Side(h[2:]) {
	case SideTop, SideRight, SideBottom, SideLeft:
		return true
	}
	return false
}

// Side returns the side of the note the handle sits on, or "" if unknown.
func (h Handle) Side() Side {
	if h == "" || !h.Valid() {
		return ""
	}
	return Side(h[2:])
}

// IsSource reports whether h is a source-capable handle.
func (h Handle) IsSource() bool { return h.Valid() && h != "" && h[0] == 's' }

// IsTarget reports whether h is a target-capable handle.
func (h Handle) IsTarget() bool { return h.Valid() && h != "" && h[0] == 't' }
