package geom

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
)

// DefaultColor is the pastel yellow every new note starts with.
const DefaultColor = "#FFF9C4"

// Darkening factors used for derived colors.
const (
	HandleTint = 0.4
	EditorTint = 0.95
)

var ErrInvalidHex = errors.New("invalid hex color")

// Swatch is a named palette entry.
type Swatch struct {
	Name string
	Hex  string
}

// Palette is the fixed set of note colors offered by the toolbar. Any other
// valid hex value is accepted too.
var Palette = []Swatch{
	{Name: "yellow", Hex: DefaultColor},
	{Name: "pink", Hex: "#F8BBD0"},
	{Name: "blue", Hex: "#BBDEFB"},
	{Name: "green", Hex: "#C8E6C9"},
	{Name: "orange", Hex: "#FFE0B2"},
	{Name: "purple", Hex: "#E1BEE7"},
	{Name: "gray", Hex: "#ECEFF1"},
}

// NormalizeHex accepts "#RGB", "#RRGGBB" and the same forms without the
// leading hash, and returns the canonical upper-case "#RRGGBB" form.
func NormalizeHex(s string) (string, error) {
	c := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(c) != 3 && len(c) != 6 {
		return "", fmt.Errorf("%w: %q", ErrInvalidHex, s)
	}
	for _, r := range c {
		if !isHexDigit(r) {
			return "", fmt.Errorf("%w: %q", ErrInvalidHex, s)
		}
	}
	if len(c) == 3 {
		c = string([]byte{c[0], c[0], c[1], c[1], c[2], c[2]})
	}
	return "#" + strings.ToUpper(c), nil
}

// ParseHex parses a note color.
func ParseHex(s string) (colorful.Color, error) {
	n, err := NormalizeHex(s)
	if err != nil {
		return colorful.Color{}, err
	}
	c, err := colorful.Hex(n)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("%w: %v", ErrInvalidHex, err)
	}
	return c, nil
}

// Darken multiplies every channel by factor, flooring each result, and
// returns the upper-case "#RRGGBB" form.
func Darken(hex string, factor float64) (string, error) {
	c, err := ParseHex(hex)
	if err != nil {
		return "", err
	}
	r, g, b := c.RGB255()
	return fmt.Sprintf("#%02X%02X%02X", scaleChannel(r, factor), scaleChannel(g, factor), scaleChannel(b, factor)), nil
}

// Tint is Darken for rendering paths: an unusable color is treated as
// DefaultColor.
func Tint(hex string, factor float64) string {
	out, err := Darken(hex, factor)
	if err != nil {
		out, _ = Darken(DefaultColor, factor)
	}
	return out
}

func scaleChannel(v uint8, factor float64) uint8 {
	if factor <= 0 {
		return 0
	}
	scaled := math.Floor(float64(v) * factor)
	if scaled > 255 {
		return 255
	}
	return uint8(scaled)
}

func isHexDigit(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'f') || (r >= 'A' && r <= 'F')
}
