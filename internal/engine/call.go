package engine

import (
	"fmt"
	"math"

	"github.com/tsatke/ktap/internal/engine/value"
)

// Protect runs fn and recovers from fatal runtime errors that occur while fn
// runs. Such an error is returned as Error, carrying the calls that were
// active when it occurred. The call stack is unwound to where it was when
// Protect was called. Errors returned by fn are returned unchanged.
func (e *Engine) Protect(fn func() error) (err error) {
	depth := e.stack.Size()
	defer func() {
		if r := recover(); r != nil {
			rtErr, ok := r.(*value.RuntimeError)
			if !ok {
				panic(r)
			}
			engineErr := Error{
				Err:   rtErr.Err,
				Stack: e.stack.Slice(),
			}
			e.stack.Unwind(depth)
			e.log.Error().
				Err(rtErr.Err).
				Int("depth", len(engineErr.Stack)).
				Msg("protected call aborted")
			err = engineErr
		}
	}()
	return fn()
}

// Call calls the global function with the given name, protected.
func (e *Engine) Call(name string, args ...value.Value) (results []value.Value, err error) {
	err = e.Protect(func() error {
		fnVal := e.Global(name)
		fn, ok := fnVal.(*value.Function)
		if !ok {
			return fmt.Errorf("attempt to call a %s value (global '%s')", fnVal.Type(), name)
		}
		results, err = e.call(fn, args...)
		return err
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// call calls fn. If fn raises a fatal error, its frame stays on the stack, so
// that Protect can report it.
func (e *Engine) call(fn *value.Function, args ...value.Value) ([]value.Value, error) {
	if ok := e.stack.Push(StackFrame{
		Name: fn.Name,
	}); !ok {
		value.Throwf("stack overflow while calling '%s'", fn.Name)
	}

	results, err := fn.Callable(args...)
	_, _ = e.stack.Pop()
	if err != nil {
		return nil, fmt.Errorf("error while calling '%s': %w", fn.Name, err)
	}
	return results, nil
}

// RawGet returns t[key] without invoking any metamethods.
func (e *Engine) RawGet(t *value.Table, key value.Value) value.Value {
	return t.Get(key)
}

// RawSet sets t[key] = val without invoking any metamethods. A nil or NaN key
// is a fatal error. It must be called inside Protect.
func (e *Engine) RawSet(t *value.Table, key, val value.Value) {
	if err := checkKey(key); err != nil {
		value.Throw(err)
	}
	t.SetValue(e.heap, key, val)
}

func checkKey(key value.Value) error {
	if value.IsNil(key) {
		return ErrNilIndex
	}
	if n, ok := key.(value.Number); ok && math.IsNaN(float64(n)) {
		return ErrNaNIndex
	}
	return nil
}
