package engine

import (
	"errors"
	"strings"
)

var (
	ErrNilIndex = errors.New("table index is nil")
	ErrNaNIndex = errors.New("table index is NaN")

	ErrAliasCycle = errors.New("alias refers to a collection that contains it")
	ErrLoadDepth  = errors.New("collections are nested too deeply")
)

// Error is a fatal error that aborted a protected call. Stack holds the calls
// that were active when the error occurred, innermost first.
type Error struct {
	Err   error
	Stack []StackFrame
}

func (e Error) Error() string {
	return e.Err.Error()
}

func (e Error) Unwrap() error {
	return e.Err
}

// Traceback renders the stack of the error, one frame per line.
func (e Error) Traceback() string {
	var sb strings.Builder
	sb.WriteString(e.Err.Error())
	sb.WriteString("\nstack traceback:")
	for _, frame := range e.Stack {
		sb.WriteString("\n\t")
		sb.WriteString(frame.String())
	}
	return sb.String()
}
