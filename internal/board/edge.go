package board

// EdgeID identifies an edge within a board.
type EdgeID string

// EdgeStyle is the fixed visual treatment of connections.
type EdgeStyle struct {
	Kind        string
	Animated    bool
	StrokeWidth float64
}

// DefaultEdgeStyle is applied to every edge created by Connect.
var DefaultEdgeStyle = EdgeStyle{Kind: "smoothstep", Animated: false, StrokeWidth: 2}

// Edge is a directed connection between two notes.
type Edge struct {
	ID           EdgeID
	Source       NoteID
	Target       NoteID
	SourceHandle Handle
	TargetHandle Handle
	Style        EdgeStyle
	Selected     bool
}

// Touches reports whether the edge has id as one of its endpoints.
func (e Edge) Touches(id NoteID) bool {
	return e.Source == id || e.Target == id
}
