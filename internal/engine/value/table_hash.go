package value

import "math/bits"

// mainPosition returns the index of the node that key occupies if it does not
// collide with any other key, or none if t has no hash part.
func (t *Table) mainPosition(key Value) int32 {
	if t.isDummy() {
		return none
	}
	switch k := key.(type) {
	case Number:
		return t.hashMod(uint64(k.hash()))
	case *String:
		return t.hashPow2(k.hash)
	case *LongString:
		return t.hashPow2(k.Hash())
	case Boolean:
		if k {
			return t.hashPow2(1)
		}
		return t.hashPow2(0)
	case LightUserdata:
		return t.hashMod(uint64(k))
	case identifiable:
		return t.hashMod(uint64(k.identity()))
	}
	return 0
}

func (t *Table) hashPow2(h uint32) int32 {
	return int32(h & uint32(len(t.node)-1))
}

// hashMod is used for hashes whose low bits are poorly distributed, such as
// addresses. The modulus is odd.
func (t *Table) hashMod(h uint64) int32 {
	return int32(h % uint64((len(t.node)-1)|1))
}

// ceilLog2 returns ceil(log2(x)) for x > 0.
func ceilLog2(x uint) int {
	return bits.Len(x - 1)
}

// arrayIndex returns the integer value of key, if key is a number without a
// fractional part.
func arrayIndex(key Value) (int, bool) {
	if n, ok := key.(Number); ok {
		return n.Integer()
	}
	return 0, false
}
