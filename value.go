package ktap

import (
	"github.com/tsatke/ktap/internal/engine/value"
)

// Value is a value that can be stored in a table. Values of other types,
// such as nested tables, are returned as Opaque.
type Value interface {
	_val()
}

type nilType uint8

func (nilType) _val()          {}
func (nilType) String() string { return "nil" }

type Boolean bool

func (Boolean) _val() {}

type Number float64

func (Number) _val() {}

type String string

func (String) _val() {}

// Opaque is a value that has no representation outside of the session, like
// a table or a function. Str is its string form.
type Opaque struct {
	Type string
	Str  string
}

func (Opaque) _val() {}

func (o Opaque) String() string {
	return o.Str
}

var (
	Nil   = nilType(0)
	False = Boolean(false)
	True  = Boolean(true)
)

func (s *Session) toInternal(v Value) value.Value {
	switch val := v.(type) {
	case Boolean:
		return value.Boolean(val)
	case Number:
		return value.Number(val)
	case String:
		return s.engine.Strings().New(string(val))
	}
	return value.Nil
}

func valueFromInternal(v value.Value) Value {
	switch val := v.(type) {
	case nil:
		return Nil
	case value.Boolean:
		return Boolean(val)
	case value.Number:
		return Number(val)
	}
	switch v.Type() {
	case value.TypeNil:
		return Nil
	case value.TypeString:
		return String(v.String())
	}
	return Opaque{
		Type: v.Type().String(),
		Str:  v.String(),
	}
}
