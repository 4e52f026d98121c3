package value

import "unsafe"

type NativeFn func(...Value) ([]Value, error)

// Function is a native function. Functions are not tracked by the collector,
// but they are compared and hashed by identity like GC objects.
type Function struct {
	Name     string
	Callable NativeFn
}

func NewFunction(name string, callable NativeFn) *Function {
	return &Function{
		Name:     name,
		Callable: callable,
	}
}

func (*Function) Type() Type { return TypeFunction }

func (f *Function) String() string {
	return "function " + f.Name
}

func (f *Function) identity() uintptr { return uintptr(unsafe.Pointer(f)) }
