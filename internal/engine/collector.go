package engine

import "github.com/tsatke/ktap/internal/engine/value"

// collector keeps every object of an engine alive until the engine is
// closed. It does not collect anything while the engine runs.
type collector struct {
	objects  []value.GCObject
	barriers int
}

func newCollector() *collector {
	return &collector{}
}

func (c *collector) Track(obj value.GCObject) {
	c.objects = append(c.objects, obj)
}

func (c *collector) Barrier(value.GCObject, value.Value) {
	c.barriers++
}

func (c *collector) freeAll(h *value.Heap) {
	// Free does not look at the contents of other tables, so the order
	// does not matter
	for i := len(c.objects) - 1; i >= 0; i-- {
		if t, ok := c.objects[i].(*value.Table); ok {
			t.Free(h)
		}
	}
	c.objects = nil
}
