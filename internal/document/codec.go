package document

import (
	"bytes"
	"encoding/json"
	"fmt"

	"noten/internal/board"
	"noten/internal/geom"
)

// DropReason says why an edge record was left out of an import.
type DropReason string

const (
	DropDangling    DropReason = "dangling reference"
	DropSelfLoop    DropReason = "self-loop"
	DropMissingID   DropReason = "missing id"
	DropDuplicateID DropReason = "duplicate id"
)

// Dropped is one edge record skipped during import.
type Dropped struct {
	EdgeID string
	Source string
	Target string
	Reason DropReason
}

// Result is a decoded, repaired board ready for board.Store.ReplaceAll.
type Result struct {
	Notes []board.Note
	Edges []board.Edge
	// Dropped lists edge records that could not be kept.
	Dropped []Dropped
	// Repaired counts fields reset to defaults: unknown handle names and
	// unusable colors.
	Repaired int
}

// Export serializes the board as indented JSON.
func Export(b board.Board) ([]byte, error) {
	out, err := json.MarshalIndent(FromBoard(b), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(out, '\n'), nil
}

type wireNode struct {
	ID       string     `json:"id"`
	Type     string     `json:"type"`
	Position geom.Point `json:"position"`
	Data     struct {
		Label  *string `json:"label"`
		Color  *string `json:"color"`
		Bold   bool    `json:"bold"`
		Italic bool    `json:"italic"`
		Strike bool    `json:"strike"`
	} `json:"data"`
	Selected bool `json:"selected"`
}

// Decode checks the top-level shape and decodes both arrays. Any failure is
// reported as ErrMalformedDocument.
func Decode(data []byte) (Document, error) {
	var top map[string]json.RawMessage
	if err := json.Unmarshal(data, &top); err != nil {
		return Document{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	nodesRaw, err := arrayMember(top, "nodes")
	if err != nil {
		return Document{}, err
	}
	edgesRaw, err := arrayMember(top, "edges")
	if err != nil {
		return Document{}, err
	}

	var nodes []wireNode
	if err := json.Unmarshal(nodesRaw, &nodes); err != nil {
		return Document{}, fmt.Errorf("%w: nodes: %v", ErrMalformedDocument, err)
	}
	var edges []Edge
	if err := json.Unmarshal(edgesRaw, &edges); err != nil {
		return Document{}, fmt.Errorf("%w: edges: %v", ErrMalformedDocument, err)
	}

	doc := Document{Nodes: make([]Node, 0, len(nodes)), Edges: edges}
	if doc.Edges == nil {
		doc.Edges = []Edge{}
	}
	for _, n := range nodes {
		node := Node{ID: n.ID, Type: n.Type, Position: n.Position, Selected: n.Selected}
		node.Data.Label = board.DefaultLabel
		if n.Data.Label != nil {
			node.Data.Label = *n.Data.Label
		}
		if n.Data.Color != nil {
			node.Data.Color = *n.Data.Color
		}
		node.Data.Bold, node.Data.Italic, node.Data.Strike = n.Data.Bold, n.Data.Italic, n.Data.Strike
		doc.Nodes = append(doc.Nodes, node)
	}
	return doc, nil
}

// Import decodes data and repairs it into a consistent board: node ids must
// be present and unique (otherwise the document is malformed), while edge
// records that would dangle, loop, or collide are dropped.
func Import(data []byte) (Result, error) {
	doc, err := Decode(data)
	if err != nil {
		return Result{}, err
	}
	return doc.Resolve()
}

// Resolve converts a decoded document into board entities.
func (d Document) Resolve() (Result, error) {
	var res Result
	seen := make(map[board.NoteID]struct{}, len(d.Nodes))
	for i, n := range d.Nodes {
		id := board.NoteID(n.ID)
		if id == "" {
			return Result{}, fmt.Errorf("%w: node #%d has no id", ErrMalformedDocument, i)
		}
		if _, dup := seen[id]; dup {
			return Result{}, fmt.Errorf("%w: duplicate node id %q", ErrMalformedDocument, n.ID)
		}
		seen[id] = struct{}{}

		color := geom.DefaultColor
		if n.Data.Color != "" {
			if hex, err := geom.NormalizeHex(n.Data.Color); err == nil {
				color = hex
			} else {
				res.Repaired++
			}
		}
		res.Notes = append(res.Notes, board.Note{
			ID:       id,
			Position: n.Position,
			Label:    n.Data.Label,
			Color:    color,
			Bold:     n.Data.Bold,
			Italic:   n.Data.Italic,
			Strike:   n.Data.Strike,
			Selected: n.Selected,
		})
	}

	edgeIDs := make(map[board.EdgeID]struct{}, len(d.Edges))
	for _, e := range d.Edges {
		drop := func(r DropReason) {
			res.Dropped = append(res.Dropped, Dropped{EdgeID: e.ID, Source: e.Source, Target: e.Target, Reason: r})
		}
		id := board.EdgeID(e.ID)
		src, dst := board.NoteID(e.Source), board.NoteID(e.Target)
		_, srcOK := seen[src]
		_, dstOK := seen[dst]
		switch {
		case id == "":
			drop(DropMissingID)
			continue
		case !srcOK || !dstOK:
			drop(DropDangling)
			continue
		case src == dst:
			drop(DropSelfLoop)
			continue
		}
		if _, dup := edgeIDs[id]; dup {
			drop(DropDuplicateID)
			continue
		}
		edgeIDs[id] = struct{}{}

		sh, th := board.Handle(e.SourceHandle), board.Handle(e.TargetHandle)
		if !sh.Valid() {
			sh = ""
			res.Repaired++
		}
		if !th.Valid() {
			th = ""
			res.Repaired++
		}
		res.Edges = append(res.Edges, board.Edge{
			ID:           id,
			Source:       src,
			Target:       dst,
			SourceHandle: sh,
			TargetHandle: th,
			Style:        board.DefaultEdgeStyle,
			Selected:     e.Selected,
		})
	}
	return res, nil
}

// Apply imports data into store. On any error the store is unchanged.
func Apply(store *board.Store, data []byte) (Result, error) {
	res, err := Import(data)
	if err != nil {
		return Result{}, err
	}
	if err := store.ReplaceAll(res.Notes, res.Edges); err != nil {
		return Result{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
	}
	return res, nil
}

func arrayMember(top map[string]json.RawMessage, name string) (json.RawMessage, error) {
	raw, ok := top[name]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedDocument, name)
	}
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, fmt.Errorf("%w: %q is not an array", ErrMalformedDocument, name)
	}
	return trimmed, nil
}
