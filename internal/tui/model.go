package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"noten/internal/board"
	"noten/internal/config"
	"noten/internal/document"
	"noten/internal/geom"
	"noten/internal/interaction"
	"noten/internal/logger"
	"noten/internal/render"
)

type mode int

const (
	modeStartup mode = iota
	modeNormal
	modeConnect
	modeMove
	modeEditing
	modeFileInput
	modeOpen
	modeConfirm
)

func (m mode) String() string {
	switch m {
	case modeStartup:
		return "START"
	case modeConnect:
		return "CONNECT"
	case modeMove:
		return "MOVE"
	case modeEditing:
		return "EDIT"
	case modeFileInput:
		return "FILE"
	case modeOpen:
		return "OPEN"
	case modeConfirm:
		return "CONFIRM"
	default:
		return "NORMAL"
	}
}

const (
	doubleClickInterval = 400 * time.Millisecond
	statusTimeout       = 4 * time.Second
	wheelZoomStep       = 1.2
)

type dragKind int

const (
	dragNone dragKind = iota
	dragNote
	dragConnect
	dragPan
)

type drag struct {
	kind           dragKind
	note           board.NoteID
	handle         board.Handle
	startX, startY int
	curX, curY     int
}

type click struct {
	x, y int
	at   time.Time
}

// session is the mutable state shared by every copy of Model: the
// notifier, the confirmer and what is known about the file on disk.
type session struct {
	status      statusLine
	prompt      confirmPrompt
	dirty       bool
	lastBytes   []byte
	diskData    []byte
	watcher     *document.Watcher
	unsubscribe func()
}

// Options configures a Model.
type Options struct {
	Config *config.StructuredConfig
	Log    *logger.Logger
	// File is opened on start. A missing file starts an empty board that
	// saves there.
	File string
}

// Model is the bubbletea model of the board editor.
type Model struct {
	ctx   context.Context
	cfg   *config.StructuredConfig
	log   *logger.Logger
	store *board.Store
	ctrl  *interaction.Controller
	s     *session
	help  help.Model
	now   func() time.Time

	// clearAfter is how long a notice stays; zero keeps it.
	clearAfter time.Duration

	width, height int
	mode          mode
	back          mode
	showHelp      bool
	panMode       bool
	cursorX       int
	cursorY       int
	seenSeq       int

	editor textarea.Model
	input  textinput.Model
	op     fileOp

	files   []string
	fileIdx int

	connectFrom   board.NoteID
	connectHandle board.Handle
	moving        board.NoteID
	moveDelta     geom.Point
	drag          drag
	lastClick     click

	filename string
}

// NewModel builds the editor around a fresh store.
func NewModel(ctx context.Context, opts Options) Model {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.Defaults()
	}
	log := opts.Log
	if log == nil {
		log = logger.Nop()
	}

	store := board.NewStore()
	s := &session{}
	ctrl := interaction.NewController(store, &s.prompt, &s.status, log)
	ctrl.SetViewport(geom.NewViewport(cfg.UI.Zoom))

	storeLog := log.Component("store")
	s.unsubscribe = store.Subscribe(func(c board.Change) {
		storeLog.Debug().
			Str("op", string(c.Op)).
			Int("notes", len(c.Board.Notes)).
			Int("edges", len(c.Board.Edges)).
			Msg("board changed")
		if c.Op != board.OpSelect && c.Op != board.OpReplace {
			s.dirty = true
		}
	})

	ta := textarea.New()
	ta.ShowLineNumbers = false
	ta.Prompt = ""
	ta.CharLimit = 0
	ta.SetWidth(geom.LabelCells)
	ta.SetHeight(interaction.MinEditorRows)

	ti := textinput.New()
	ti.CharLimit = 255
	ti.Width = 40

	m := Model{
		ctx:        ctx,
		cfg:        cfg,
		log:        log.Component("tui"),
		store:      store,
		ctrl:       ctrl,
		s:          s,
		help:       help.New(),
		now:        time.Now,
		clearAfter: statusTimeout,
		mode:       modeNormal,
		editor:     ta,
		input:      ti,
		filename:   opts.File,
	}
	if opts.File == "" && cfg.StartMenuEnabled() {
		m.mode = modeStartup
	}
	return m
}

// Init opens the file given on the command line.
func (m Model) Init() tea.Cmd {
	if m.filename == "" {
		return nil
	}
	return loadCmd(m.filename)
}

// Close releases the store subscription and the file watcher.
func (m Model) Close() {
	if m.s.unsubscribe != nil {
		m.s.unsubscribe()
		m.s.unsubscribe = nil
	}
	if m.s.watcher != nil {
		_ = m.s.watcher.Close()
		m.s.watcher = nil
	}
	m.ctrl.Close()
}

// Controller exposes the intent surface, for mounting its key handler.
func (m Model) Controller() *interaction.Controller { return m.ctrl }

// Board is the current board.
func (m Model) Board() board.Board { return m.ctrl.Board() }

// canvasSize is the area left for the board: everything but the status
// line and, while editing, the editor panel.
func (m Model) canvasSize() (int, int) {
	h := m.height - 1
	if m.mode == modeEditing {
		h -= m.editor.Height() + 1
	}
	return max(m.width, 1), max(h, 1)
}

func (m Model) renderOptions() render.Options {
	opts := render.Options{
		Viewport:    m.ctrl.Viewport(),
		ConnectFrom: m.connectFrom,
	}
	if id, ok := m.ctrl.Editor().Active(); ok {
		opts.Editing = id
		opts.EditorRows = m.ctrl.Editor().Rows()
	}
	switch {
	case m.mode == modeMove:
		opts.Dragging = []board.NoteID{m.moving}
		opts.DragDelta = m.moveDelta
	case m.drag.kind == dragNote:
		opts.Dragging = m.dragged()
		opts.DragDelta = m.dragDelta()
	}
	return opts
}

func (m Model) frame() *render.Frame {
	w, h := m.canvasSize()
	return render.Render(m.ctrl.Board(), w, h, m.renderOptions())
}

// cellDelta converts a distance in cells to board units.
func (m Model) cellDelta(dx, dy int) geom.Point {
	v := m.ctrl.Viewport()
	d := geom.Point{X: float64(dx) * render.CellWidth, Y: float64(dy) * render.CellHeight}
	return v.ScreenToBoard(d).Sub(v.ScreenToBoard(geom.Point{}))
}

func (m Model) dragDelta() geom.Point {
	return m.cellDelta(m.drag.curX-m.drag.startX, m.drag.curY-m.drag.startY)
}

func (m *Model) clampCursor() {
	w, h := m.canvasSize()
	m.cursorX = min(max(m.cursorX, 0), w-1)
	m.cursorY = min(max(m.cursorY, 0), h-1)
}

// reveal puts the cursor on a note, scrolling it into view when needed.
func (m *Model) reveal(id board.NoteID) {
	c, ok := m.frame().Layout().Card(id)
	if !ok {
		return
	}
	x, y := c.Rect.Center()
	w, h := m.canvasSize()
	if x < 0 || y < 0 || x >= w || y >= h {
		dx, dy := w/2-x, h/2-y
		m.ctrl.SetViewport(m.ctrl.Viewport().Pan(geom.Point{X: float64(dx) * render.CellWidth, Y: float64(dy) * render.CellHeight}))
		x, y = x+dx, y+dy
	}
	m.cursorX, m.cursorY = x, y
	m.clampCursor()
}
