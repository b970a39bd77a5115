package interaction

import "errors"

var (
	ErrNotEditing      = errors.New("no note is being edited")
	ErrAlreadyMounted  = errors.New("keyboard handler already mounted")
	ErrNotMounted      = errors.New("keyboard handler not mounted")
	ErrNothingSelected = errors.New("no single note selected")
)
