package value

import (
	"fmt"
	"io"
	"strings"
)

const (
	distribution = "------------- Distribution -------------"
	barWidth     = len(distribution) - 1
	maxKeyWidth  = 20
)

// Dump writes all entries of t as {(key: value), ...}, array part first.
func (t *Table) Dump(w io.Writer) error {
	var b strings.Builder
	b.WriteByte('{')
	count := 0
	t.Each(func(key, val Value) bool {
		if count > 0 {
			b.WriteString(", ")
		}
		b.WriteString("(" + key.String() + ": " + val.String() + ")")
		count++
		return true
	})
	b.WriteByte('}')
	_, err := io.WriteString(w, b.String())
	return err
}

type histogramRecord struct {
	key Value
	val Number
}

// Histogram writes one bar per entry of t, proportional to the share of its
// value in the sum of all values. All values must be numbers. If one is not,
// an error line is written instead, and an error wrapping ErrHistogramType is
// returned.
func (t *Table) Histogram(w io.Writer) error {
	var (
		records []histogramRecord
		total   float64
		err     error
	)
	t.Each(func(key, val Value) bool {
		n, ok := val.(Number)
		if !ok {
			err = fmt.Errorf("%w: value of key %s is a %s", ErrHistogramType, key, val.Type())
			return false
		}
		records = append(records, histogramRecord{key, n})
		total += float64(n)
		return true
	})
	if err != nil {
		_, _ = io.WriteString(w, "error: "+ErrHistogramType.Error()+"\n")
		return err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%20s%s%s\n", "value ", distribution, " count")
	for _, r := range records {
		ratio := 0
		if total != 0 {
			ratio = int(float64(r.val) * float64(barWidth) / total)
		}
		if ratio < 0 {
			ratio = 0
		} else if ratio > barWidth {
			ratio = barWidth
		}
		bar := strings.Repeat("@", ratio) + strings.Repeat(" ", barWidth-ratio)
		fmt.Fprintf(&b, "%20s |%s %s\n", histogramKey(r.key), bar, r.val)
	}
	_, werr := io.WriteString(w, b.String())
	return werr
}

func histogramKey(key Value) string {
	s := key.String()
	if key.Type() == TypeString && len(s) > maxKeyWidth {
		return s[:16] + "..."
	}
	return s
}
