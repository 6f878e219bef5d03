package service

import (
	"errors"
	"fmt"
)

// ErrStore marks a persistence failure. The reply stays generic; the cause
// is logged at the dispatch boundary and never shown to the sender.
var ErrStore = errors.New("store operation failed")

// FormatError is a malformed command. The reply always pairs the message
// with a literal usage example.
type FormatError struct {
	Msg   string
	Usage string
}

func (e *FormatError) Error() string { return e.Msg }

// NotFoundError is an id or material that matched nothing.
type NotFoundError struct {
	Msg string
}

func (e *NotFoundError) Error() string { return e.Msg }

func formatErr(msg, usage string) error {
	return &FormatError{Msg: msg, Usage: usage}
}

func notFound(format string, args ...any) error {
	return &NotFoundError{Msg: fmt.Sprintf(format, args...)}
}

func storeFailure(err error) error {
	return fmt.Errorf("%w: %v", ErrStore, err)
}
