package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrNoSelection is returned when a selection prompt has nothing to offer.
	ErrNoSelection = errors.New("tui: nothing to select")
)
