package value

import (
	"fmt"
	"unsafe"
)

const (
	maxBits  = 30
	maxASize = 1 << maxBits

	// MaxSize is the largest amount of array slots or hash nodes of a table.
	MaxSize = maxASize

	// none terminates a collision chain.
	none = int32(-1)
)

var (
	valueSize = int(unsafe.Sizeof(Value(nil)))
	nodeSize  = int(unsafe.Sizeof(node{}))
	tableSize = int(unsafe.Sizeof(Table{}))
)

// dummyNode is the hash part of every table without hash entries. It has no
// slots, so nothing can ever be written into it.
var dummyNode [0]node

// nilObject is returned by every lookup that misses. The pointer identity is
// what set uses to tell a miss from an existing slot holding nil, so it must
// never be written through.
var nilObject Value = Nil

// node is one slot of the hash part. next is the index of the following node
// in the same collision chain, or none.
type node struct {
	key  Value
	val  Value
	next int32
}

// Table is the associative array of the runtime. Small positive integer keys
// live in a dense array part, all other keys in a hash part whose size is a
// power of two. Collisions are chained through the hash part itself.
//
// A table is not safe for concurrent use.
type Table struct {
	// Flags caches which special behaviors are absent for this table. It is
	// owned by the layer above and kept unchanged by every table operation.
	Flags uint8

	lsizenode uint8
	array     []Value
	node      []node
	// lastfree is the scan position for free nodes. Every node at or after
	// lastfree has a key.
	lastfree int32

	stats Stats
}

// Stats are counters about the shape of a table and the work it did.
type Stats struct {
	ArraySize int
	HashSize  int
	// Resizes counts how often the table was resized, explicitly or because
	// the hash part was full.
	Resizes int
	// ChainSteps counts the hash nodes that lookups have visited.
	ChainSteps uint64
}

// NewTable creates a table with room for narray array slots and nhash hash
// entries. If the allocation fails, everything that was allocated so far is
// released before the error is raised.
func NewTable(h *Heap, narray, nhash int) *Table {
	if narray > maxASize {
		Throw(ErrTableOverflow)
	}
	h.allocate(tableSize)
	t := &Table{
		Flags: ^uint8(0),
		node:  dummyNode[:],
	}
	if narray > 0 || nhash > 0 {
		defer func() {
			if r := recover(); r != nil {
				t.Free(h)
				panic(r)
			}
		}()
		if narray > 0 {
			t.array = t.allocArray(h, narray)
		}
		t.node, t.lsizenode = allocNodes(h, nhash)
		t.lastfree = int32(len(t.node))
	}
	h.Track(t)
	return t
}

func (*Table) Type() Type          { return TypeTable }
func (t *Table) String() string    { return fmt.Sprintf("table: %p", t) }
func (t *Table) identity() uintptr { return uintptr(unsafe.Pointer(t)) }
func (*Table) collectable()        {}

// Free releases the buffers of t and the table itself. t must not be used
// afterwards.
func (t *Table) Free(h *Heap) {
	if len(t.array) > 0 {
		h.free(len(t.array) * valueSize)
	}
	if !t.isDummy() {
		h.free(len(t.node) * nodeSize)
	}
	t.array = nil
	t.node = dummyNode[:]
	t.lsizenode = 0
	t.lastfree = 0
	h.free(tableSize)
}

func (t *Table) isDummy() bool {
	return len(t.node) == 0
}

// Stats returns the current counters of t.
func (t *Table) Stats() Stats {
	s := t.stats
	s.ArraySize = len(t.array)
	s.HashSize = len(t.node)
	return s
}

// Len returns the amount of keys with a non-nil value.
func (t *Table) Len() int {
	n := 0
	t.Each(func(Value, Value) bool {
		n++
		return true
	})
	return n
}

// Each calls fn for every key with a non-nil value, array part first, both
// parts in storage order. Iteration stops when fn returns false. fn must not
// modify t.
func (t *Table) Each(fn func(key, val Value) bool) {
	for i, v := range t.array {
		if IsNil(v) {
			continue
		}
		if !fn(Number(i+1), v) {
			return
		}
	}
	for i := range t.node {
		n := &t.node[i]
		if IsNil(n.val) {
			continue
		}
		if !fn(n.key, n.val) {
			return
		}
	}
}

// Get returns the value stored under key, or Nil.
func (t *Table) Get(key Value) Value {
	return *t.get(key)
}

// GetInt returns the value stored under the integer key, or Nil.
func (t *Table) GetInt(key int) Value {
	return *t.getInt(key)
}

// GetStr returns the value stored under the short string key, or Nil.
func (t *Table) GetStr(key *String) Value {
	return *t.getStr(key)
}

// SetValue stores val under key. key must be neither nil nor NaN. Storing Nil
// deletes the entry logically; its slot is reclaimed by the next resize.
func (t *Table) SetValue(h *Heap, key, val Value) {
	if val == nil {
		val = Nil
	}
	*t.set(h, key) = val
	h.barrier(t, val)
}

// SetInt stores val under the integer key.
func (t *Table) SetInt(h *Heap, key int, val Value) {
	if val == nil {
		val = Nil
	}
	t.setInt(h, key, val)
	h.barrier(t, val)
}

func (t *Table) get(key Value) *Value {
	switch k := key.(type) {
	case nil, nilValue:
		return &nilObject
	case *String:
		return t.getStr(k)
	case Number:
		if i, ok := k.Integer(); ok {
			return t.getInt(i)
		}
	}
	return t.getAny(key)
}

func (t *Table) getInt(key int) *Value {
	if uint(key-1) < uint(len(t.array)) {
		return &t.array[key-1]
	}
	if t.isDummy() {
		return &nilObject
	}
	for n := t.hashMod(uint64(uint32(key))); n != none; n = t.node[n].next {
		t.stats.ChainSteps++
		if k, ok := t.node[n].key.(Number); ok && float64(k) == float64(key) {
			return &t.node[n].val
		}
	}
	return &nilObject
}

func (t *Table) getStr(key *String) *Value {
	if t.isDummy() {
		return &nilObject
	}
	for n := t.hashPow2(key.hash); n != none; n = t.node[n].next {
		t.stats.ChainSteps++
		if k, ok := t.node[n].key.(*String); ok && k == key {
			return &t.node[n].val
		}
	}
	return &nilObject
}

func (t *Table) getAny(key Value) *Value {
	for n := t.mainPosition(key); n != none; n = t.node[n].next {
		t.stats.ChainSteps++
		if RawEqual(t.node[n].key, key) {
			return &t.node[n].val
		}
	}
	return &nilObject
}

// set returns the slot for key, creating it if key is not present yet. The
// caller stores the value into the returned slot.
func (t *Table) set(h *Heap, key Value) *Value {
	if p := t.get(key); p != &nilObject {
		return p
	}
	return t.newKey(h, key)
}

func (t *Table) setInt(h *Heap, key int, val Value) {
	p := t.getInt(key)
	if p == &nilObject {
		p = t.newKey(h, Number(key))
	}
	*p = val
}

// newKey inserts a key that is not present in t. If the main position of key
// is taken, a free node is taken from the end of the hash part. If the
// occupant of the main position is not in its own main position, it moves to
// the free node and key takes its place; otherwise key goes to the free node,
// chained right after the occupant. Without a free node, the table is rehashed.
func (t *Table) newKey(h *Heap, key Value) *Value {
	mp := t.mainPosition(key)
	if t.isDummy() || !IsNil(t.node[mp].val) {
		n := t.getFreePos()
		if n == none {
			t.rehash(h, key)
			return t.set(h, key)
		}

		other := t.mainPosition(t.node[mp].key)
		if other != mp {
			for t.node[other].next != mp {
				other = t.node[other].next
			}
			t.node[other].next = n
			t.node[n] = t.node[mp]
			t.node[mp].next = none
			t.node[mp].val = Nil
		} else {
			t.node[n].next = t.node[mp].next
			t.node[mp].next = n
			mp = n
		}
	}
	t.node[mp].key = key
	return &t.node[mp].val
}

func (t *Table) getFreePos() int32 {
	for t.lastfree > 0 {
		t.lastfree--
		if IsNil(t.node[t.lastfree].key) {
			return t.lastfree
		}
	}
	return none
}
