package value

// countInt counts key in nums if it is a candidate for the array part.
func countInt(key Value, nums *[maxBits + 1]int) int {
	k, ok := arrayIndex(key)
	if ok && 0 < k && k <= maxASize {
		nums[ceilLog2(uint(k))]++
		return 1
	}
	return 0
}

// numUseArray counts the non-nil slots of the array part into nums, where
// nums[i] is the amount of keys k with 2^(i-1) < k <= 2^i.
func (t *Table) numUseArray(nums *[maxBits + 1]int) int {
	ause := 0
	i := 1
	for lg, ttlg := 0, 1; lg <= maxBits; lg, ttlg = lg+1, ttlg*2 {
		lc := 0
		lim := ttlg
		if lim > len(t.array) {
			lim = len(t.array)
			if i > lim {
				break
			}
		}
		for ; i <= lim; i++ {
			if !IsNil(t.array[i-1]) {
				lc++
			}
		}
		nums[lg] += lc
		ause += lc
	}
	return ause
}

// numUseHash counts the integer keys of the hash part into nums. It returns
// the amount of entries in the hash part and how many of them are array
// candidates.
func (t *Table) numUseHash(nums *[maxBits + 1]int) (total, ause int) {
	for i := len(t.node) - 1; i >= 0; i-- {
		n := &t.node[i]
		if !IsNil(n.val) {
			ause += countInt(n.key, nums)
			total++
		}
	}
	return total, ause
}

// computeSizes picks the largest power of two n such that more than half of
// the slots 1..n would be in use, given narray array candidates distributed
// as in nums. It returns n and the amount of candidates that fit into n.
func computeSizes(nums *[maxBits + 1]int, narray int) (size, na int) {
	a := 0
	for i, twotoi := 0, 1; twotoi/2 < narray; i, twotoi = i+1, twotoi*2 {
		if nums[i] > 0 {
			a += nums[i]
			if a > twotoi/2 {
				size = twotoi
				na = a
			}
		}
		if a == narray {
			break
		}
	}
	return size, na
}

// rehash resizes t so that all present keys and the extra key ek fit.
func (t *Table) rehash(h *Heap, ek Value) {
	var nums [maxBits + 1]int

	nasize := t.numUseArray(&nums)
	totaluse := nasize
	hashuse, hashause := t.numUseHash(&nums)
	totaluse += hashuse
	nasize += hashause
	nasize += countInt(ek, &nums)
	totaluse++

	size, na := computeSizes(&nums, nasize)
	t.Resize(h, size, totaluse-na)
}

// allocArray returns a copy of the array part with size slots. The
// allocator is charged for the difference to the current size.
func (t *Table) allocArray(h *Heap, size int) []Value {
	h.reallocate(len(t.array)*valueSize, size*valueSize)
	if size == 0 {
		return nil
	}
	array := make([]Value, size)
	n := copy(array, t.array)
	for i := n; i < size; i++ {
		array[i] = Nil
	}
	return array
}

// allocNodes returns an empty hash part with room for at least size entries
// and its log2 size.
func allocNodes(h *Heap, size int) ([]node, uint8) {
	if size <= 0 {
		return dummyNode[:], 0
	}
	lsize := ceilLog2(uint(size))
	if lsize > maxBits {
		Throw(ErrTableOverflow)
	}
	size = 1 << lsize
	h.allocate(size * nodeSize)
	nodes := make([]node, size)
	for i := range nodes {
		nodes[i] = node{
			key:  Nil,
			val:  Nil,
			next: none,
		}
	}
	return nodes, uint8(lsize)
}

func freeNodes(h *Heap, nodes []node) {
	if len(nodes) > 0 {
		h.free(len(nodes) * nodeSize)
	}
}

// hashUse counts the entries that belong to the hash part once the array part
// has nasize slots.
func (t *Table) hashUse(nasize int) int {
	n := 0
	for i := nasize; i < len(t.array); i++ {
		if !IsNil(t.array[i]) {
			n++
		}
	}
	for i := range t.node {
		nd := &t.node[i]
		if IsNil(nd.val) {
			continue
		}
		if k, ok := arrayIndex(nd.key); ok && 0 < k && k <= nasize {
			continue
		}
		n++
	}
	return n
}

// Resize gives t an array part of exactly nasize slots and a hash part with
// room for at least nhsize entries, and moves every entry to where it
// belongs with the new sizes. If the hash part would be too small to take
// all entries that do not fit into the array part, it is made large enough.
//
// Both buffers are allocated before t is modified, so if an allocation fails,
// t is unchanged.
func (t *Table) Resize(h *Heap, nasize, nhsize int) {
	if nasize < 0 {
		nasize = 0
	}
	if nasize > maxASize {
		Throw(ErrTableOverflow)
	}
	if n := t.hashUse(nasize); nhsize < n {
		nhsize = n
	}

	nodes, lsize := allocNodes(h, nhsize)
	array := t.array
	if nasize != len(t.array) {
		func() {
			defer func() {
				if r := recover(); r != nil {
					freeNodes(h, nodes)
					panic(r)
				}
			}()
			array = t.allocArray(h, nasize)
		}()
	}

	// nothing below allocates, every entry has a free slot
	oldarray := t.array
	nold := t.node
	t.array = array
	t.node = nodes
	t.lsizenode = lsize
	t.lastfree = int32(len(nodes))
	t.stats.Resizes++

	for i := nasize; i < len(oldarray); i++ {
		if v := oldarray[i]; !IsNil(v) {
			t.setInt(h, i+1, v)
		}
	}
	for i := len(nold) - 1; i >= 0; i-- {
		old := &nold[i]
		if !IsNil(old.val) {
			*t.set(h, old.key) = old.val
		}
	}
	freeNodes(h, nold)
}

// ResizeArray changes the size of the array part and keeps the size of the
// hash part.
func (t *Table) ResizeArray(h *Heap, nasize int) {
	t.Resize(h, nasize, len(t.node))
}
