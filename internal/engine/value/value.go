package value

// Value is anything that can be stored in a table, either as key or as value.
type Value interface {
	Type() Type
	String() string
}

// GCObject is a value whose storage is tracked by the collector. GC objects
// are compared and hashed by identity.
type GCObject interface {
	Value
	identity() uintptr
	collectable()
}

// identifiable values hash by address rather than by content.
type identifiable interface {
	identity() uintptr
}

// IsNil reports whether v is the nil value. An unset interface counts as nil.
func IsNil(v Value) bool {
	return v == nil || v == Nil
}

// RawEqual compares two values without invoking any metamethod. Short strings
// are interned and compare by identity, long strings compare by content, every
// other value compares by its Go equality.
func RawEqual(left, right Value) bool {
	if l, ok := left.(*LongString); ok {
		r, ok := right.(*LongString)
		return ok && (l == r || l.s == r.s)
	}
	return left == right
}
