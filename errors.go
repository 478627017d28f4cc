package editor

import "errors"

var (
	// ErrAlreadyCreated is returned when Create, Use, or Config is called on
	// a session that has already started bootstrapping.
	ErrAlreadyCreated = errors.New("editor: already created")
	// ErrBootstrapFailed is returned to waiters when bootstrap ended before
	// the awaited stage was reached.
	ErrBootstrapFailed = errors.New("editor: bootstrap failed")
	// ErrNoDocument is returned by Serialize for a nil document.
	ErrNoDocument = errors.New("editor: nil document")
)
