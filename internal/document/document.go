// Package document implements the canonical JSON board document used for
// export and import, plus the file helpers around it.
//
// A document is an object with exactly two members:
//
//	{
//	  "nodes": [ { "id": "1", "position": {"x":0,"y":0}, "data": {...}, "selected": false, "type": "sticky" } ],
//	  "edges": [ { "id": "...", "source": "1", "target": "2", "sourceHandle": "s-right", "targetHandle": "t-left", "selected": false } ]
//	}
package document

import (
	"noten/internal/board"
	"noten/internal/geom"
)

// DefaultFilename is offered when exporting a board.
const DefaultFilename = "noten-data.json"

// NoteType is the node type written for every note.
const NoteType = "sticky"

// Document is the on-disk form of a board.
type Document struct {
	Nodes []Node `json:"nodes"`
	Edges []Edge `json:"edges"`
}

// Node is one note record.
type Node struct {
	ID       string     `json:"id"`
	Type     string     `json:"type,omitempty"`
	Position geom.Point `json:"position"`
	Data     NodeData   `json:"data"`
	Selected bool       `json:"selected"`
}

// NodeData carries the note content and style.
type NodeData struct {
	Label  string `json:"label"`
	Color  string `json:"color,omitempty"`
	Bold   bool   `json:"bold"`
	Italic bool   `json:"italic"`
	Strike bool   `json:"strike"`
}

// Edge is one connection record. Type, Animated and Style are cosmetic and
// ignored on import.
type Edge struct {
	ID           string     `json:"id"`
	Source       string     `json:"source"`
	Target       string     `json:"target"`
	SourceHandle string     `json:"sourceHandle"`
	TargetHandle string     `json:"targetHandle"`
	Type         string     `json:"type,omitempty"`
	Animated     bool       `json:"animated"`
	Style        *EdgeStyle `json:"style,omitempty"`
	Selected     bool       `json:"selected"`
}

// EdgeStyle is the stroke description of an edge.
type EdgeStyle struct {
	StrokeWidth float64 `json:"strokeWidth"`
}

// FromBoard converts a board verbatim, selection flags included.
func FromBoard(b board.Board) Document {
	doc := Document{
		Nodes: make([]Node, 0, len(b.Notes)),
		Edges: make([]Edge, 0, len(b.Edges)),
	}
	for _, n := range b.Notes {
		doc.Nodes = append(doc.Nodes, Node{
			ID:       string(n.ID),
			Type:     NoteType,
			Position: n.Position,
			Data: NodeData{
				Label:  n.Label,
				Color:  n.FillColor(),
				Bold:   n.Bold,
				Italic: n.Italic,
				Strike: n.Strike,
			},
			Selected: n.Selected,
		})
	}
	for _, e := range b.Edges {
		style := e.Style
		if style == (board.EdgeStyle{}) {
			style = board.DefaultEdgeStyle
		}
		doc.Edges = append(doc.Edges, Edge{
			ID:           string(e.ID),
			Source:       string(e.Source),
			Target:       string(e.Target),
			SourceHandle: string(e.SourceHandle),
			TargetHandle: string(e.TargetHandle),
			Type:         style.Kind,
			Animated:     style.Animated,
			Style:        &EdgeStyle{StrokeWidth: style.StrokeWidth},
			Selected:     e.Selected,
		})
	}
	return doc
}
