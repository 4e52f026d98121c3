package value

import (
	"math"
	"strconv"
)

type Number float64

func (Number) Type() Type       { return TypeNumber }
func (n Number) Value() float64 { return float64(n) }

func NewNumber(value float64) Number {
	return Number(value)
}

func (n Number) String() string {
	if i, ok := n.Integer(); ok {
		return strconv.Itoa(i)
	}
	return strconv.FormatFloat(float64(n), 'g', 14, 64)
}

// Integer returns the value of n as int, if n has no fractional part and
// fits into an int.
func (n Number) Integer() (int, bool) {
	f := float64(n)
	if f < math.MinInt64 || f >= math.MaxInt64 {
		return 0, false
	}
	i := int(f)
	if float64(i) != f {
		return 0, false
	}
	return i, true
}

// hash truncates n towards zero and uses the low 32 bits of the result. Values
// outside of the int64 range hash by their bit pattern.
func (n Number) hash() uint32 {
	f := math.Trunc(float64(n))
	if f >= math.MinInt64 && f < math.MaxInt64 {
		return uint32(int64(f))
	}
	bits := math.Float64bits(float64(n))
	return uint32(bits ^ bits>>32)
}
