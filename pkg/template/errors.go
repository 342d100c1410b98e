package template

import "errors"

var (
	// ErrInvalidContext is returned when the root context is not a mapping.
	ErrInvalidContext = errors.New("template context must be a mapping")

	// ErrUnknownNesting is returned by ParseNesting for unrecognized names.
	ErrUnknownNesting = errors.New("unknown nesting mode")
)
