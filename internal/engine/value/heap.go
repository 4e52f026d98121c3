package value

import (
	"errors"
	"fmt"
)

// Allocator accounts for the memory that tables use. All sizes are in bytes.
// An error from Allocate or Reallocate is fatal for the running script.
type Allocator interface {
	Allocate(size int) error
	Reallocate(oldSize, newSize int) error
	Free(size int)
}

// Collector is the part of the garbage collector that tables talk to.
type Collector interface {
	// Track registers a newly created object.
	Track(obj GCObject)
	// Barrier is called whenever v is stored into parent and v is a GCObject.
	Barrier(parent GCObject, v Value)
}

// Heap bundles the allocator and the collector of a runtime. Every table
// operation that may allocate or store a value takes a *Heap. A nil Heap, or
// nil fields, disable accounting and collector notifications.
type Heap struct {
	Allocator Allocator
	Collector Collector
}

func (h *Heap) allocate(size int) {
	if h == nil || h.Allocator == nil || size == 0 {
		return
	}
	if err := h.Allocator.Allocate(size); err != nil {
		Throw(outOfMemory(err))
	}
}

func (h *Heap) reallocate(oldSize, newSize int) {
	if h == nil || h.Allocator == nil || oldSize == newSize {
		return
	}
	if err := h.Allocator.Reallocate(oldSize, newSize); err != nil {
		Throw(outOfMemory(err))
	}
}

func (h *Heap) free(size int) {
	if h == nil || h.Allocator == nil || size == 0 {
		return
	}
	h.Allocator.Free(size)
}

// Track announces a new object to the collector.
func (h *Heap) Track(obj GCObject) {
	if h == nil || h.Collector == nil {
		return
	}
	h.Collector.Track(obj)
}

func (h *Heap) barrier(parent GCObject, v Value) {
	if h == nil || h.Collector == nil {
		return
	}
	if obj, ok := v.(GCObject); ok {
		h.Collector.Barrier(parent, obj)
	}
}

func outOfMemory(err error) error {
	if errors.Is(err, ErrOutOfMemory) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrOutOfMemory, err)
}

// LimitAllocator is an Allocator that refuses to hand out more than Limit
// bytes in total. A Limit of zero or less means no limit.
type LimitAllocator struct {
	Limit int

	inUse int
	peak  int
}

func NewLimitAllocator(limit int) *LimitAllocator {
	return &LimitAllocator{
		Limit: limit,
	}
}

func (a *LimitAllocator) Allocate(size int) error {
	if a.Limit > 0 && a.inUse+size > a.Limit {
		return fmt.Errorf("%w: %d bytes requested, %d of %d bytes in use", ErrOutOfMemory, size, a.inUse, a.Limit)
	}
	a.inUse += size
	if a.inUse > a.peak {
		a.peak = a.inUse
	}
	return nil
}

func (a *LimitAllocator) Reallocate(oldSize, newSize int) error {
	if newSize <= oldSize {
		a.inUse -= oldSize - newSize
		return nil
	}
	return a.Allocate(newSize - oldSize)
}

func (a *LimitAllocator) Free(size int) {
	a.inUse -= size
}

// InUse returns the amount of bytes currently allocated.
func (a *LimitAllocator) InUse() int { return a.inUse }

// Peak returns the highest amount of bytes that was ever allocated at once.
func (a *LimitAllocator) Peak() int { return a.peak }
