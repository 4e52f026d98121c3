package engine

import (
	"fmt"
	"math"

	"github.com/spf13/afero"
	"github.com/tsatke/ktap/internal/engine/value"
	"github.com/tsatke/ktap/internal/ffi"
	"gopkg.in/yaml.v3"
)

// LoadTable reads a YAML document from the file system of the engine and
// converts it into a table. A sequence becomes a table with the keys 1..n, a
// mapping a table with the mapping keys. Nested collections become nested
// tables. Keys that are integers are stored as numbers.
func (e *Engine) LoadTable(path string) (*value.Table, error) {
	data, err := afero.ReadFile(e.fs, path)
	if err != nil {
		return nil, fmt.Errorf("read: %w", err)
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("unmarshal %s: %w", path, err)
	}
	root := &doc
	if root.Kind == yaml.DocumentNode {
		if len(root.Content) == 0 {
			return nil, fmt.Errorf("%s: empty document", path)
		}
		root = root.Content[0]
	}

	var t *value.Table
	if err := e.Protect(func() error {
		val, err := newLoader(e).convert(root)
		if err != nil {
			return err
		}
		tbl, ok := val.(*value.Table)
		if !ok {
			return fmt.Errorf("%s: expected a sequence or mapping, got %s", path, val.Type())
		}
		t = tbl
		return nil
	}); err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}

	stats := t.Stats()
	e.log.Debug().
		Str("path", path).
		Int("entries", t.Len()).
		Int("array", stats.ArraySize).
		Int("hash", stats.HashSize).
		Msg("table loaded")
	return t, nil
}

// maxLoadDepth limits the nesting of collections in a data file.
const maxLoadDepth = 256

// loader converts the nodes of one YAML document. An alias is converted to
// the same value as its anchor, so aliased collections become one shared
// table.
type loader struct {
	e     *Engine
	depth int

	anchors   map[*yaml.Node]value.Value
	expanding map[*yaml.Node]bool
}

func newLoader(e *Engine) *loader {
	return &loader{
		e:         e,
		anchors:   make(map[*yaml.Node]value.Value),
		expanding: make(map[*yaml.Node]bool),
	}
}

func (l *loader) convert(node *yaml.Node) (value.Value, error) {
	if node.Kind == yaml.AliasNode {
		if v, ok := l.anchors[node.Alias]; ok {
			return v, nil
		}
		if l.expanding[node.Alias] {
			return nil, fmt.Errorf("line %d: alias *%s: %w", node.Line, node.Value, ErrAliasCycle)
		}
		return l.convert(node.Alias)
	}

	l.depth++
	defer func() { l.depth-- }()
	if l.depth > maxLoadDepth {
		return nil, fmt.Errorf("line %d: %w", node.Line, ErrLoadDepth)
	}

	if node.Anchor == "" {
		return l.convertNode(node)
	}
	l.expanding[node] = true
	defer delete(l.expanding, node)
	v, err := l.convertNode(node)
	if err != nil {
		return nil, err
	}
	l.anchors[node] = v
	return v, nil
}

func (l *loader) convertNode(node *yaml.Node) (value.Value, error) {
	e := l.e
	switch node.Kind {
	case yaml.SequenceNode:
		t := value.NewTable(e.heap, len(node.Content), 0)
		for i, item := range node.Content {
			val, err := l.convert(item)
			if err != nil {
				return nil, err
			}
			t.SetInt(e.heap, i+1, val)
		}
		return t, nil
	case yaml.MappingNode:
		t := value.NewTable(e.heap, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			key, err := l.convert(node.Content[i])
			if err != nil {
				return nil, err
			}
			if err := checkKey(key); err != nil {
				return nil, fmt.Errorf("line %d: %w", node.Content[i].Line, err)
			}
			val, err := l.convert(node.Content[i+1])
			if err != nil {
				return nil, err
			}
			t.SetValue(e.heap, key, val)
		}
		return t, nil
	case yaml.ScalarNode:
		return e.convertScalar(node)
	}
	return nil, fmt.Errorf("line %d: unsupported node kind %d", node.Line, node.Kind)
}

func (e *Engine) convertScalar(node *yaml.Node) (value.Value, error) {
	switch node.ShortTag() {
	case "!!null":
		return value.Nil, nil
	case "!!bool":
		var b bool
		if err := node.Decode(&b); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		return value.Boolean(b), nil
	case "!!int", "!!float":
		var f float64
		if err := node.Decode(&f); err != nil {
			return nil, fmt.Errorf("line %d: %w", node.Line, err)
		}
		if math.IsInf(f, 0) && node.ShortTag() == "!!int" {
			return nil, fmt.Errorf("line %d: integer %s out of range", node.Line, node.Value)
		}
		return value.Number(f), nil
	}
	return e.strings.New(node.Value), nil
}

// LoadSymbols reads a symbol file from the file system of the engine and
// makes its C functions available in ffi.C.
func (e *Engine) LoadSymbols(path string) error {
	f, err := e.fs.Open(path)
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}
	defer func() { _ = f.Close() }()

	syms, err := ffi.ParseSymbols(f)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := e.Protect(func() error {
		return e.ffi.SetSymbols(e, syms)
	}); err != nil {
		return fmt.Errorf("set symbols: %w", err)
	}
	e.log.Debug().
		Str("path", path).
		Int("symbols", len(syms)).
		Msg("symbols loaded")
	return nil
}
