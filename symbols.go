package ktap

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/tsatke/ktap/internal/engine/value"
)

// CFunction is a C function that is available in ffi.C.
type CFunction struct {
	ID     int
	Name   string
	Return string
	Args   []string
}

// LoadSymbols reads a YAML symbol file and makes its C functions available in
// ffi.C, replacing all previously loaded symbols.
func (s *Session) LoadSymbols(path string) error {
	return convertError(s.engine.LoadSymbols(path))
}

// CFunctions returns the C functions in ffi.C, ordered by id.
func (s *Session) CFunctions() []CFunction {
	reg := s.engine.FFI()
	ctable := reg.CTable()
	if ctable == nil {
		return nil
	}

	var fns []CFunction
	for id := 0; id < reg.Len(); id++ {
		sym := reg.Symbol(id)
		cd, ok := ctable.Get(s.engine.Strings().New(sym.Name)).(*value.Cdata)
		if !ok || cd.SymbolID != id {
			continue
		}
		fns = append(fns, CFunction{
			ID:     id,
			Name:   sym.Name,
			Return: sym.Return,
			Args:   sym.Args,
		})
	}
	return fns
}

// DumpSymbols writes the C functions in ffi.C to w, one per line.
func (s *Session) DumpSymbols(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, fn := range s.CFunctions() {
		ret := fn.Return
		if ret == "" {
			ret = "void"
		}
		_, _ = fmt.Fprintf(tw, "%d\t%s\t%s(%s)\n", fn.ID, ret, fn.Name, joinArgs(fn.Args))
	}
	return tw.Flush()
}

func joinArgs(args []string) string {
	if len(args) == 0 {
		return "void"
	}
	s := args[0]
	for _, arg := range args[1:] {
		s += ", " + arg
	}
	return s
}
