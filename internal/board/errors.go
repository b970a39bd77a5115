package board

import "errors"

var (
	ErrNoteNotFound      = errors.New("note not found")
	ErrEdgeNotFound      = errors.New("edge not found")
	ErrInvalidConnection = errors.New("invalid connection")
	ErrInvalidColor      = errors.New("invalid note color")
	ErrInvalidBoard      = errors.New("invalid board")
)
