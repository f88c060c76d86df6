package knowledge

import "errors"

// Knowledge base load errors.
var (
	ErrMissingID      = errors.New("entry needs a category and a key")
	ErrDuplicateEntry = errors.New("duplicate entry")
	ErrUnknownField   = errors.New("unknown section field")
	ErrFieldType      = errors.New("section field has the wrong type")
	ErrMalformed      = errors.New("malformed knowledge document")
)
