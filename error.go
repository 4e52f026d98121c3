package ktap

import (
	"errors"

	"github.com/tsatke/ktap/internal/engine"
)

// Error is a fatal error of a table operation, such as running out of
// memory.
type Error struct {
	Message string
	Stack   []StackFrame

	err error
}

type StackFrame struct {
	Name string
}

func (e Error) Error() string {
	return e.Message
}

func (e Error) Unwrap() error {
	return e.err
}

func errorFromInternal(err engine.Error) Error {
	e := Error{
		Message: err.Error(),
		err:     err.Err,
	}
	e.Stack = make([]StackFrame, len(err.Stack))
	for i, frame := range err.Stack {
		e.Stack[i] = StackFrame{
			Name: frame.Name,
		}
	}
	return e
}

// convertError replaces an engine.Error in the chain of err with an Error.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	var engineErr engine.Error
	if errors.As(err, &engineErr) {
		converted := errorFromInternal(engineErr)
		if msg := err.Error(); msg != converted.Message {
			converted.Message = msg
		}
		return converted
	}
	return err
}
