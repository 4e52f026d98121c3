package ffi

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

type SymbolType uint8

const (
	TypeInvalid SymbolType = iota
	TypeScalar
	TypeFunc
	TypeStruct
	TypeUnion
)

var symbolTypeNames = map[string]SymbolType{
	"scalar": TypeScalar,
	"func":   TypeFunc,
	"struct": TypeStruct,
	"union":  TypeUnion,
}

func (t SymbolType) String() string {
	for name, typ := range symbolTypeNames {
		if typ == t {
			return name
		}
	}
	return "<invalid>"
}

func (t *SymbolType) UnmarshalYAML(node *yaml.Node) error {
	typ, ok := symbolTypeNames[node.Value]
	if !ok {
		return fmt.Errorf("line %d: unknown symbol type %q", node.Line, node.Value)
	}
	*t = typ
	return nil
}

// Symbol describes a C symbol. For functions, Args holds the names of the
// argument types, which must be symbols themselves.
type Symbol struct {
	Name     string     `yaml:"name"`
	Type     SymbolType `yaml:"type"`
	Return   string     `yaml:"return,omitempty"`
	Args     []string   `yaml:"args,omitempty"`
	Variadic bool       `yaml:"variadic,omitempty"`

	argIDs []int
}

// ArgIDs returns the symbol ids of the argument types of a function symbol.
// They are resolved by Registry.SetSymbols.
func (s *Symbol) ArgIDs() []int {
	return s.argIDs
}

type symbolFile struct {
	Symbols []Symbol `yaml:"symbols"`
}

// ParseSymbols reads a symbol file.
//
//	symbols:
//	  - name: int
//	    type: scalar
//	  - name: printk
//	    type: func
//	    return: int
//	    args: [int]
//	    variadic: true
func ParseSymbols(r io.Reader) ([]Symbol, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var file symbolFile
	if err := dec.Decode(&file); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	for i, sym := range file.Symbols {
		if sym.Name == "" {
			return nil, fmt.Errorf("symbol #%d has no name", i)
		}
		if sym.Type == TypeInvalid {
			return nil, fmt.Errorf("symbol %s has no type", sym.Name)
		}
	}
	return file.Symbols, nil
}
