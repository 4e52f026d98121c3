package ffi

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/tsatke/ktap/internal/engine/value"
)

var (
	ErrSymbolNotFound = errors.New("cannot find csymbol")
	ErrNoFFITable     = errors.New("global 'ffi' is not a table")
)

// Runtime is what the registry needs from the engine that owns it.
type Runtime interface {
	Heap() *value.Heap
	Strings() *value.StringTable
	Globals() *value.Table
	Logger() *zerolog.Logger
}

// Registry holds the C symbols known to a runtime, and the table ffi.C, which
// maps the name of every C function to a cdata proxy.
type Registry struct {
	symbols []Symbol
	ctable  *value.Table
}

func NewRegistry() *Registry {
	return &Registry{}
}

// SetSymbols replaces the known symbols and builds a new ffi.C table from
// them. The table is created inside the table stored in the global 'ffi'.
func (r *Registry) SetSymbols(rt Runtime, symbols []Symbol) error {
	r.symbols = symbols
	if err := r.resolveArgs(); err != nil {
		return err
	}
	return r.setupSymbolTable(rt)
}

func (r *Registry) resolveArgs() error {
	for i := range r.symbols {
		cs := &r.symbols[i]
		if cs.Type != TypeFunc || len(cs.Args) == 0 {
			continue
		}
		cs.argIDs = make([]int, len(cs.Args))
		for j, arg := range cs.Args {
			id, err := r.SymbolID(arg)
			if err != nil {
				return fmt.Errorf("argument %d of %s: %w", j+1, cs.Name, err)
			}
			cs.argIDs[j] = id
		}
	}
	return nil
}

func (r *Registry) setupCTable(rt Runtime) error {
	h := rt.Heap()
	ffit, ok := rt.Globals().GetStr(rt.Strings().Intern("ffi")).(*value.Table)
	if !ok {
		return ErrNoFFITable
	}

	// the C namespace holds hundreds of functions, size the hash part upfront
	r.ctable = value.NewTable(h, 0, 512)
	ffit.SetValue(h, rt.Strings().Intern("C"), r.ctable)
	return nil
}

func (r *Registry) setupSymbolTable(rt Runtime) error {
	if err := r.setupCTable(rt); err != nil {
		return err
	}

	log := rt.Logger()
	for i := range r.symbols {
		cs := &r.symbols[i]
		// only functions get a proxy
		if cs.Type != TypeFunc {
			continue
		}
		log.Debug().Msgf("[%d] loading C function %s", i, cs.Name)
		r.addFunc(rt, i)
		log.Debug().Msgf("%s loaded", cs.Name)
	}
	return nil
}

func (r *Registry) addFunc(rt Runtime, id int) {
	h := rt.Heap()
	name := rt.Strings().New(r.symbols[id].Name)
	if !value.IsNil(r.ctable.Get(name)) {
		rt.Logger().Warn().Msgf("C function %s is already registered, skipping symbol %d", name, id)
		return
	}

	cd := value.NewCdata(id)
	h.Track(cd)
	r.ctable.SetValue(h, name, cd)
}

// SymbolID returns the id of the symbol with the given name.
func (r *Registry) SymbolID(name string) (int, error) {
	for i := range r.symbols {
		if r.symbols[i].Name == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w with name %s", ErrSymbolNotFound, name)
}

// Symbol returns the symbol with the given id, or nil.
func (r *Registry) Symbol(id int) *Symbol {
	if id < 0 || id >= len(r.symbols) {
		return nil
	}
	return &r.symbols[id]
}

func (r *Registry) Len() int {
	return len(r.symbols)
}

// CTable returns the ffi.C table, or nil if no symbols were set yet.
func (r *Registry) CTable() *value.Table {
	return r.ctable
}

// Free drops all symbols. The ffi.C table is owned by the runtime and stays.
func (r *Registry) Free() {
	for i := range r.symbols {
		if r.symbols[i].Type == TypeFunc {
			r.symbols[i].argIDs = nil
		}
	}
	r.symbols = nil
}
