package board

import (
	"strconv"

	"noten/internal/geom"
)

// DefaultLabel is the placeholder text of a fresh note.
const DefaultLabel = "메모"

// NoteBias is the vertical offset applied to the requested center so a new
// note appears centered slightly above the anchor.
const NoteBias = -50

// NoteID identifies a note within a board.
type NoteID string

// Seq returns the numeric value of a counter-assigned id.
func (id NoteID) Seq() (int, bool) {
	n, err := strconv.Atoi(string(id))
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// Note is one sticky note. Only ID is immutable.
type Note struct {
	ID       NoteID
	Position geom.Point
	Label    string
	Color    string
	Bold     bool
	Italic   bool
	Strike   bool
	Selected bool
}

// NoteOption customizes a note made by Store.CreateNote.
type NoteOption func(*Note)

// WithLabel sets the label of a new note.
func WithLabel(text string) NoteOption {
	return func(n *Note) { n.Label = text }
}

// WithColor sets the fill of a new note. An invalid color keeps the default.
func WithColor(hex string) NoteOption {
	return func(n *Note) {
		if c, err := geom.NormalizeHex(hex); err == nil {
			n.Color = c
		}
	}
}

// NewNote returns a note with the default label, color and style.
func NewNote(id NoteID, pos geom.Point) Note {
	return Note{
		ID:       id,
		Position: pos,
		Label:    DefaultLabel,
		Color:    geom.DefaultColor,
	}
}

// FillColor is the color the note renders with.
func (n Note) FillColor() string {
	if n.Color == "" {
		return geom.DefaultColor
	}
	return n.Color
}

// StyleFlag selects one of the boolean text styles.
type StyleFlag int

const (
	StyleBold StyleFlag = iota
	StyleItalic
	StyleStrike
)

func (f StyleFlag) String() string {
	switch f {
	case StyleBold:
		return "bold"
	case StyleItalic:
		return "italic"
	case StyleStrike:
		return "strike"
	}
	return "unknown"
}

// Flag returns the current value of the given style flag.
func (n Note) Flag(f StyleFlag) bool {
	switch f {
	case StyleBold:
		return n.Bold
	case StyleItalic:
		return n.Italic
	case StyleStrike:
		return n.Strike
	}
	return false
}

// StylePatch is a partial style update; nil fields are left alone.
type StylePatch struct {
	Bold   *bool
	Italic *bool
	Strike *bool
	Color  *string
}

// Empty reports whether the patch changes nothing.
func (p StylePatch) Empty() bool {
	return p.Bold == nil && p.Italic == nil && p.Strike == nil && p.Color == nil
}

// FlagPatch builds a patch setting one style flag.
func FlagPatch(f StyleFlag, v bool) StylePatch {
	switch f {
	case StyleBold:
		return StylePatch{Bold: &v}
	case StyleItalic:
		return StylePatch{Italic: &v}
	case StyleStrike:
		return StylePatch{Strike: &v}
	}
	return StylePatch{}
}

// ColorPatch builds a patch setting the fill color.
func ColorPatch(hex string) StylePatch {
	return StylePatch{Color: &hex}
}

func (n *Note) apply(p StylePatch) {
	if p.Bold != nil {
		n.Bold = *p.Bold
	}
	if p.Italic != nil {
		n.Italic = *p.Italic
	}
	if p.Strike != nil {
		n.Strike = *p.Strike
	}
	if p.Color != nil {
		n.Color = *p.Color
	}
}
