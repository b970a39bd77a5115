package document

import "errors"

var (
	// ErrMalformedDocument is returned when the input is not JSON or does not
	// have the {"nodes": [...], "edges": [...]} shape. It is meant to be
	// shown to the user as an "invalid file" notice.
	ErrMalformedDocument = errors.New("invalid file")
	ErrInvalidPattern    = errors.New("invalid file pattern")
)
