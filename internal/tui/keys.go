package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	up      key.Binding
	down    key.Binding
	left    key.Binding
	right   key.Binding
	enter   key.Binding
	esc     key.Binding
	newNote key.Binding
	connect key.Binding
	move    key.Binding
	pick    key.Binding
	toggle  key.Binding
	cycle   key.Binding
	bold    key.Binding
	italic  key.Binding
	strike  key.Binding
	color   key.Binding
	clear   key.Binding
	save    key.Binding
	open    key.Binding
	png     key.Binding
	text    key.Binding
	copy    key.Binding
	paste   key.Binding
	zoomIn  key.Binding
	zoomOut key.Binding
	pan     key.Binding
	reload  key.Binding
	help    key.Binding
	quit    key.Binding
	yes     key.Binding
	no      key.Binding
}

var keys = keyMap{
	up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	left:    key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "left")),
	right:   key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "right")),
	enter:   key.NewBinding(key.WithKeys("enter", "e"), key.WithHelp("enter/e", "edit note / delete edge")),
	esc:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	newNote: key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note")),
	connect: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "connect")),
	move:    key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "move")),
	pick:    key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "select")),
	toggle:  key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "toggle selection")),
	cycle:   key.NewBinding(key.WithKeys("tab", "]"), key.WithHelp("tab/]", "next note")),
	bold:    key.NewBinding(key.WithKeys("b"), key.WithHelp("b", "bold")),
	italic:  key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "italic")),
	strike:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "strike")),
	color:   key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7"), key.WithHelp("1-7", "color")),
	clear:   key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear all")),
	save:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "save")),
	open:    key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "open")),
	png:     key.NewBinding(key.WithKeys("P"), key.WithHelp("P", "export png")),
	text:    key.NewBinding(key.WithKeys("T"), key.WithHelp("T", "export text")),
	copy:    key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy label")),
	paste:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "paste note")),
	zoomIn:  key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "zoom in")),
	zoomOut: key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "zoom out")),
	pan:     key.NewBinding(key.WithKeys("z"), key.WithHelp("z", "pan mode")),
	reload:  key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reload from disk")),
	help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	yes:     key.NewBinding(key.WithKeys("y", "Y", "enter")),
	no:      key.NewBinding(key.WithKeys("n", "N", "esc")),
}

// ShortHelp is shown in the status area.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.newNote, k.connect, k.enter, k.save, k.open, k.help, k.quit}
}

// FullHelp is shown by the help screen.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.left, k.right, k.pan, k.zoomIn, k.zoomOut},
		{k.newNote, k.connect, k.move, k.enter, k.esc},
		{k.pick, k.toggle, k.cycle, k.clear},
		{k.bold, k.italic, k.strike, k.color},
		{k.save, k.open, k.reload, k.png, k.text},
		{k.copy, k.paste, k.help, k.quit},
	}
}
