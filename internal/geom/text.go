package geom

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// Note card metrics in terminal cells. A card is NoteCells wide; the label
// area excludes the border and one cell of padding on each side.
const (
	NoteCells  = 22
	LabelCells = NoteCells - 4
)

// Wrap breaks text into lines no wider than width display cells. Explicit
// newlines are kept, and words longer than a line are split by rune, so wide
// (CJK) characters count as two cells. An empty text yields one empty line.
func Wrap(text string, width int) []string {
	if width < 1 {
		width = 1
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		out = append(out, wrapLine(para, width)...)
	}
	return out
}

func wrapLine(line string, width int) []string {
	if runewidth.StringWidth(line) <= width {
		return []string{line}
	}
	var (
		out []string
		cur strings.Builder
		w   int
	)
	flush := func() {
		out = append(out, cur.String())
		cur.Reset()
		w = 0
	}
	for i, word := range strings.Split(line, " ") {
		ww := runewidth.StringWidth(word)
		if i > 0 {
			if w > 0 && w+1+ww <= width {
				cur.WriteByte(' ')
				w++
			} else if w > 0 {
				flush()
			}
		}
		if ww <= width-w {
			cur.WriteString(word)
			w += ww
			continue
		}
		for _, r := range word {
			rw := runewidth.RuneWidth(r)
			if w+rw > width && w > 0 {
				flush()
			}
			cur.WriteRune(r)
			w += rw
		}
	}
	flush()
	return out
}

// FitRows is the number of text rows needed to show text at width, never
// less than minRows.
func FitRows(text string, width, minRows int) int {
	n := len(Wrap(text, width))
	if n < minRows {
		return minRows
	}
	return n
}
