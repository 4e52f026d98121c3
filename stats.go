package ktap

import "fmt"

// TableStats describe the shape of a table.
type TableStats struct {
	Entries   int
	ArraySize int
	HashSize  int
	// Resizes is the amount of times the table was resized.
	Resizes int
	// ChainSteps is the amount of hash nodes that lookups have visited.
	ChainSteps uint64
}

// Stats returns the current shape of the named table.
func (s *Session) Stats(name string) (TableStats, error) {
	t, err := s.table(name)
	if err != nil {
		return TableStats{}, err
	}
	stats := t.Stats()
	return TableStats{
		Entries:    t.Len(),
		ArraySize:  stats.ArraySize,
		HashSize:   stats.HashSize,
		Resizes:    stats.Resizes,
		ChainSteps: stats.ChainSteps,
	}, nil
}

// Load is the ratio of entries to slots of the table.
func (s TableStats) Load() float64 {
	slots := s.ArraySize + s.HashSize
	if slots == 0 {
		return 0
	}
	return float64(s.Entries) / float64(slots)
}

func (s TableStats) String() string {
	return fmt.Sprintf("entries=%d array=%d hash=%d resizes=%d load=%.2f", s.Entries, s.ArraySize, s.HashSize, s.Resizes, s.Load())
}
