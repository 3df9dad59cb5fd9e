package prompt

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("prompt: aborted")
	// ErrNoOptions is returned when a selection prompt has nothing to offer.
	ErrNoOptions = errors.New("prompt: no options to choose from")
	// ErrInvalidSelection is returned when a driver reports an index outside
	// the offered options.
	ErrInvalidSelection = errors.New("prompt: selection out of range")
)
