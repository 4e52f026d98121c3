package value

import (
	"fmt"
	"unsafe"
)

// LightUserdata is a raw address. It is neither owned nor tracked by the
// runtime.
type LightUserdata uintptr

func (LightUserdata) Type() Type       { return TypeLightUserdata }
func (u LightUserdata) String() string { return fmt.Sprintf("userdata: 0x%x", uintptr(u)) }

// Userdata is a block of memory owned by the runtime.
type Userdata struct {
	Data []byte
}

func NewUserdata(size int) *Userdata {
	return &Userdata{
		Data: make([]byte, size),
	}
}

func (*Userdata) Type() Type          { return TypeUserdata }
func (u *Userdata) String() string    { return fmt.Sprintf("userdata: %p", u) }
func (u *Userdata) identity() uintptr { return uintptr(unsafe.Pointer(u)) }
func (*Userdata) collectable()        {}

// Cdata is a proxy for a C symbol, identified by its symbol id.
type Cdata struct {
	SymbolID int
}

func NewCdata(id int) *Cdata {
	return &Cdata{
		SymbolID: id,
	}
}

func (*Cdata) Type() Type          { return TypeCdata }
func (c *Cdata) String() string    { return fmt.Sprintf("cdata: %p", c) }
func (c *Cdata) identity() uintptr { return uintptr(unsafe.Pointer(c)) }
func (*Cdata) collectable()        {}

// Closure is a script function together with its captured upvalues.
type Closure struct {
	Name     string
	Upvalues []Value
}

func (*Closure) Type() Type          { return TypeClosure }
func (c *Closure) String() string    { return fmt.Sprintf("closure: %p", c) }
func (c *Closure) identity() uintptr { return uintptr(unsafe.Pointer(c)) }
func (*Closure) collectable()        {}

// Thread is a coroutine.
type Thread struct {
	Name string
}

func (*Thread) Type() Type          { return TypeThread }
func (t *Thread) String() string    { return fmt.Sprintf("thread: %p", t) }
func (t *Thread) identity() uintptr { return uintptr(unsafe.Pointer(t)) }
func (*Thread) collectable()        {}
