package interaction

import "sync"

// Key names the keys the global handler cares about.
const (
	KeyDelete    = "delete"
	KeyBackspace = "backspace"
)

// KeyEvent is one key press as seen by the global handler.
type KeyEvent struct {
	Key string
	// InText is set when focus is in a text input surface.
	InText bool
}

// KeyHandler turns Delete/Backspace into a delete of the selection while
// focus is not in a text surface.
type KeyHandler struct {
	onDelete func()
}

// NewKeyHandler returns a handler calling onDelete for delete keys.
func NewKeyHandler(onDelete func()) *KeyHandler {
	return &KeyHandler{onDelete: onDelete}
}

// Handle processes ev and reports whether the key was consumed, in which
// case the surface's default action must not run.
func (h *KeyHandler) Handle(ev KeyEvent) bool {
	if ev.InText {
		return false
	}
	if ev.Key != KeyDelete && ev.Key != KeyBackspace {
		return false
	}
	if h.onDelete != nil {
		h.onDelete()
	}
	return true
}

var (
	mountMu sync.Mutex
	mounted *KeyHandler
)

// Mount installs h as the process-wide key handler.
func Mount(h *KeyHandler) error {
	mountMu.Lock()
	defer mountMu.Unlock()
	if mounted != nil {
		return ErrAlreadyMounted
	}
	mounted = h
	return nil
}

// Unmount removes h. Unmounting a handler that is not installed is an error.
func Unmount(h *KeyHandler) error {
	mountMu.Lock()
	defer mountMu.Unlock()
	if mounted == nil || mounted != h {
		return ErrNotMounted
	}
	mounted = nil
	return nil
}

// Dispatch hands ev to the mounted handler, if any.
func Dispatch(ev KeyEvent) bool {
	mountMu.Lock()
	h := mounted
	mountMu.Unlock()
	if h == nil {
		return false
	}
	return h.Handle(ev)
}
