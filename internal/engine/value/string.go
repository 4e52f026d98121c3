package value

import (
	"github.com/spaolacci/murmur3"
)

// MaxShortLen is the maximum length of a string that is interned. Longer
// strings are created as LongString.
const MaxShortLen = 40

// String is an interned short string. Two short strings with equal contents
// are the same object, so they compare by identity.
type String struct {
	s    string
	hash uint32
}

func (*String) Type() Type        { return TypeString }
func (s *String) String() string { return s.s }
func (s *String) Len() int       { return len(s.s) }

// Hash returns the hash that was computed when s was interned.
func (s *String) Hash() uint32 { return s.hash }

// LongString is a string that is not interned. Its hash is computed on first
// use and cached afterwards.
type LongString struct {
	s string
	// hash holds the seed of the creating string table until hashed is set.
	hash   uint32
	hashed bool
}

func (*LongString) Type() Type        { return TypeString }
func (s *LongString) String() string { return s.s }
func (s *LongString) Len() int       { return len(s.s) }

func (s *LongString) Hash() uint32 {
	if !s.hashed {
		s.hash = hashString(s.s, s.hash)
		s.hashed = true
	}
	return s.hash
}

// StringTable creates string values. Short strings are interned, so that
// every call with the same content returns the same *String.
type StringTable struct {
	seed    uint32
	strings map[string]*String
}

// NewStringTable creates a string table whose hashes are derived from the
// given seed.
func NewStringTable(seed uint32) *StringTable {
	return &StringTable{
		seed:    seed,
		strings: make(map[string]*String),
	}
}

// New returns a string value holding s, which is a *String if len(s) is at
// most MaxShortLen, or a *LongString otherwise.
func (st *StringTable) New(s string) Value {
	if len(s) <= MaxShortLen {
		return st.Intern(s)
	}
	return &LongString{
		s:    s,
		hash: st.seed,
	}
}

// Intern returns the unique short string with the given content, regardless
// of its length.
func (st *StringTable) Intern(s string) *String {
	if str, ok := st.strings[s]; ok {
		return str
	}
	str := &String{
		s:    s,
		hash: hashString(s, st.seed),
	}
	st.strings[s] = str
	return str
}

// Len returns the amount of interned strings.
func (st *StringTable) Len() int {
	return len(st.strings)
}

func (st *StringTable) Seed() uint32 {
	return st.seed
}

func hashString(s string, seed uint32) uint32 {
	return murmur3.Sum32WithSeed([]byte(s), seed)
}
