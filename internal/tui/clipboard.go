package tui

import (
	"fmt"
	"html"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
)

// Replaced in tests; the system clipboard is not available in CI.
var (
	readClipboard  = clipboard.ReadAll
	writeClipboard = clipboard.WriteAll
)

func copyCmd(text string) tea.Cmd {
	return func() tea.Msg {
		if err := writeClipboard(text); err != nil {
			return copiedMsg{err: fmt.Errorf("copy to clipboard: %w", err)}
		}
		return copiedMsg{}
	}
}

func pasteCmd() tea.Cmd {
	return func() tea.Msg {
		text, err := readClipboard()
		if err != nil {
			return pastedMsg{err: fmt.Errorf("read clipboard: %w", err)}
		}
		return pastedMsg{text: cleanClipboardText(text)}
	}
}

// cleanClipboardText turns rich clipboard content into a plain label:
// RTF and HTML markup is removed, line endings become "\n" and control
// characters other than newline and tab are dropped.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	switch {
	case isRTF(text):
		text = stripRTF(text)
	case isHTML(text):
		text = stripHTML(text)
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r == '\n' || r == '\t' || r >= 32 && r != 127 {
			b.WriteRune(r)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

func isHTML(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "<") &&
		(strings.Contains(t, "<html") || strings.Contains(t, "<body") || strings.Contains(t, "<div") || strings.Contains(t, "<p"))
}

// stripRTF drops groups, control words and their numeric parameters.
// \par and \line become newlines, \tab a tab; escaped braces and
// backslashes are kept.
func stripRTF(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch r {
		case '{', '}':
			continue
		case '\\':
		default:
			b.WriteRune(r)
			continue
		}
		if i+1 >= len(runes) {
			break
		}
		next := runes[i+1]
		switch {
		case next == '\\' || next == '{' || next == '}':
			b.WriteRune(next)
			i++
		case next == '\n' || next == '\r':
			b.WriteRune('\n')
			i++
		case isASCIILetter(next):
			j := i + 1
			for j < len(runes) && isASCIILetter(runes[j]) {
				j++
			}
			word := string(runes[i+1 : j])
			for j < len(runes) && (runes[j] == '-' || runes[j] >= '0' && runes[j] <= '9') {
				j++
			}
			if j < len(runes) && runes[j] == ' ' {
				j++
			}
			switch word {
			case "par", "line":
				b.WriteRune('\n')
			case "tab":
				b.WriteRune('\t')
			}
			i = j - 1
		default:
			i++
		}
	}
	return b.String()
}

// stripHTML removes tags and unescapes entities. Block ends become
// newlines.
func stripHTML(text string) string {
	var b strings.Builder
	b.Grow(len(text))
	var tag strings.Builder
	inTag := false
	for _, r := range text {
		switch {
		case r == '<':
			inTag = true
			tag.Reset()
		case r == '>' && inTag:
			inTag = false
			switch tagName(tag.String()) {
			case "br", "br/", "/p", "/div", "/li":
				b.WriteRune('\n')
			}
		case inTag:
			tag.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	return html.UnescapeString(strings.TrimSpace(b.String()))
}

func tagName(tag string) string {
	f := strings.Fields(tag)
	if len(f) == 0 {
		return ""
	}
	return strings.ToLower(f[0])
}

func isASCIILetter(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
