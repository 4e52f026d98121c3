package engine

import (
	"fmt"
	"io"

	. "github.com/tsatke/ktap/internal/engine/value"
)

const version = "ktap 0.4"

func (e *Engine) initStdlib() {
	register := func(fn *Function) {
		e.SetGlobal(fn.Name, fn)
	}
	e.SetGlobal("_VERSION", e.strings.New(version))
	register(NewFunction("print", e.print))
	register(NewFunction("tostring", e.tostring))
	register(NewFunction("type", e.type_))
	register(NewFunction("dump", e.dump))
	register(NewFunction("histogram", e.histogram))
	register(NewFunction("rawget", e.rawget))
	register(NewFunction("rawset", e.rawset))
	register(NewFunction("newtable", e.newtable))
	register(NewFunction("len", e.len))

	e.SetGlobal("ffi", NewTable(e.heap, 0, 1))
}

func (e *Engine) print(args ...Value) ([]Value, error) {
	for i := 0; i < len(args); i++ {
		if i != 0 {
			_, _ = io.WriteString(e.stdout, "\t")
		}
		_, _ = io.WriteString(e.stdout, args[i].String())
	}
	_, _ = e.stdout.Write([]byte{0x0a})
	return nil, nil
}

func (e *Engine) tostring(args ...Value) ([]Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("need one argument to 'tostring'")
	}
	if args[0].Type() == TypeString {
		return values(args[0]), nil
	}
	return values(e.strings.New(args[0].String())), nil
}

func (e *Engine) type_(args ...Value) ([]Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("need one argument to 'type'")
	}
	return values(e.strings.Intern(args[0].Type().String())), nil
}

func (e *Engine) dump(args ...Value) ([]Value, error) {
	t, err := tableArg("dump", args, 0)
	if err != nil {
		return nil, err
	}
	if err := t.Dump(e.stdout); err != nil {
		return nil, fmt.Errorf("write: %w", err)
	}
	_, _ = e.stdout.Write([]byte{0x0a})
	return nil, nil
}

// histogram prints the histogram of a table. A table that holds other values
// than numbers is reported, but is not an error for the caller.
func (e *Engine) histogram(args ...Value) ([]Value, error) {
	t, err := tableArg("histogram", args, 0)
	if err != nil {
		return nil, err
	}
	if err := t.Histogram(e.stdout); err != nil {
		e.log.Warn().Err(err).Msg("histogram")
	}
	return nil, nil
}

func (e *Engine) rawget(args ...Value) ([]Value, error) {
	t, err := tableArg("rawget", args, 0)
	if err != nil {
		return nil, err
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("bad argument #2 to 'rawget' (value expected)")
	}
	return values(e.RawGet(t, args[1])), nil
}

func (e *Engine) rawset(args ...Value) ([]Value, error) {
	t, err := tableArg("rawset", args, 0)
	if err != nil {
		return nil, err
	}
	if len(args) < 3 {
		return nil, fmt.Errorf("bad argument #3 to 'rawset' (value expected)")
	}
	e.RawSet(t, args[1], args[2])
	return values(t), nil
}

// newtable creates a table with preallocated array and hash parts.
func (e *Engine) newtable(args ...Value) ([]Value, error) {
	var sizes [2]int
	for i := range sizes {
		if i >= len(args) || IsNil(args[i]) {
			continue
		}
		n, ok := args[i].(Number)
		if !ok {
			return nil, fmt.Errorf("bad argument #%d to 'newtable' (%s expected, got %s)", i+1, TypeNumber, args[i].Type())
		}
		size, ok := n.Integer()
		if !ok || size < 0 {
			return nil, fmt.Errorf("bad argument #%d to 'newtable' (size expected, got %s)", i+1, n)
		}
		if size > MaxSize {
			return nil, fmt.Errorf("bad argument #%d to 'newtable' (size %s is larger than %d)", i+1, n, MaxSize)
		}
		sizes[i] = size
	}
	return values(NewTable(e.heap, sizes[0], sizes[1])), nil
}

func (e *Engine) len(args ...Value) ([]Value, error) {
	t, err := tableArg("len", args, 0)
	if err != nil {
		return nil, err
	}
	return values(Number(t.Len())), nil
}

func tableArg(fnName string, args []Value, i int) (*Table, error) {
	if i >= len(args) {
		return nil, fmt.Errorf("bad argument #%d to '%s' (%s expected, got no value)", i+1, fnName, TypeTable)
	}
	t, ok := args[i].(*Table)
	if !ok {
		return nil, fmt.Errorf("bad argument #%d to '%s' (%s expected, got %s)", i+1, fnName, TypeTable, args[i].Type())
	}
	return t, nil
}

func values(vals ...Value) []Value {
	return vals
}
