package value

import (
	"errors"
	"fmt"
)

var (
	// ErrTableOverflow is raised when a hash part would need more than 2^30 nodes.
	ErrTableOverflow = errors.New("table overflow")
	// ErrOutOfMemory is raised when the allocator refuses an allocation.
	ErrOutOfMemory = errors.New("not enough memory")
	// ErrHistogramType is returned by Histogram if a value is not a number.
	ErrHistogramType = errors.New("table histogram only handle (key: string/number val: number)")
)

// RuntimeError is a fatal error of the running script. It is raised with panic
// and must be recovered by whoever runs the script, which aborts the script
// without affecting anything else.
type RuntimeError struct {
	Err error
}

func (e *RuntimeError) Error() string {
	return e.Err.Error()
}

func (e *RuntimeError) Unwrap() error {
	return e.Err
}

// Throw raises err as fatal runtime error.
func Throw(err error) {
	panic(&RuntimeError{
		Err: err,
	})
}

// Throwf raises a fatal runtime error with the formatted message.
func Throwf(format string, args ...interface{}) {
	Throw(fmt.Errorf(format, args...))
}
