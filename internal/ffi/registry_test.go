package ffi

import (
	"strings"

	"github.com/tsatke/ktap/internal/engine/value"
)

func (suite *RegistrySuite) symbols() []Symbol {
	return []Symbol{
		{Name: "int", Type: TypeScalar},
		{Name: "char", Type: TypeScalar},
		{Name: "printk", Type: TypeFunc, Return: "int", Args: []string{"char"}, Variadic: true},
		{Name: "task_struct", Type: TypeStruct},
		{Name: "getpid", Type: TypeFunc, Return: "int"},
	}
}

func (suite *RegistrySuite) TestSetSymbols() {
	suite.Require().NoError(suite.registry.SetSymbols(suite.rt, suite.symbols()))

	ctable := suite.registry.CTable()
	suite.Require().NotNil(ctable)

	ffit := suite.rt.globals.GetStr(suite.rt.strings.Intern("ffi")).(*value.Table)
	suite.Same(ctable, ffit.GetStr(suite.rt.strings.Intern("C")))

	// only functions get a proxy
	suite.Equal(2, ctable.Len())
	suite.Equal(512, ctable.Stats().HashSize)
	suite.Equal(0, ctable.Stats().Resizes)

	printk, ok := ctable.GetStr(suite.rt.strings.Intern("printk")).(*value.Cdata)
	suite.Require().True(ok)
	suite.Equal(2, printk.SymbolID)
	suite.Equal("printk", suite.registry.Symbol(printk.SymbolID).Name)
	suite.Equal([]int{1}, suite.registry.Symbol(printk.SymbolID).ArgIDs())

	suite.True(value.IsNil(ctable.GetStr(suite.rt.strings.Intern("task_struct"))))

	suite.Equal(2, strings.Count(suite.logs.String(), "loading C function"))
	suite.Contains(suite.logs.String(), "[2] loading C function printk")
}

func (suite *RegistrySuite) TestSymbolID() {
	suite.Require().NoError(suite.registry.SetSymbols(suite.rt, suite.symbols()))

	id, err := suite.registry.SymbolID("getpid")
	suite.NoError(err)
	suite.Equal(4, id)

	_, err = suite.registry.SymbolID("missing")
	suite.ErrorIs(err, ErrSymbolNotFound)
	suite.EqualError(err, "cannot find csymbol with name missing")

	suite.Nil(suite.registry.Symbol(-1))
	suite.Nil(suite.registry.Symbol(5))
	suite.Equal(5, suite.registry.Len())
}

func (suite *RegistrySuite) TestUnknownArgumentType() {
	err := suite.registry.SetSymbols(suite.rt, []Symbol{
		{Name: "open", Type: TypeFunc, Args: []string{"const char *"}},
	})
	suite.ErrorIs(err, ErrSymbolNotFound)
	suite.Nil(suite.registry.CTable())
}

func (suite *RegistrySuite) TestDuplicateFunctionKeepsFirst() {
	suite.Require().NoError(suite.registry.SetSymbols(suite.rt, []Symbol{
		{Name: "f", Type: TypeFunc},
		{Name: "f", Type: TypeFunc},
	}))
	cd := suite.registry.CTable().GetStr(suite.rt.strings.Intern("f")).(*value.Cdata)
	suite.Equal(0, cd.SymbolID)
	suite.Equal(1, suite.registry.CTable().Len())
}

func (suite *RegistrySuite) TestMissingFFITable() {
	suite.rt.globals.SetValue(suite.rt.heap, suite.rt.strings.Intern("ffi"), value.Nil)
	err := suite.registry.SetSymbols(suite.rt, suite.symbols())
	suite.ErrorIs(err, ErrNoFFITable)
}

func (suite *RegistrySuite) TestFree() {
	suite.Require().NoError(suite.registry.SetSymbols(suite.rt, suite.symbols()))
	suite.registry.Free()
	suite.Equal(0, suite.registry.Len())
	_, err := suite.registry.SymbolID("printk")
	suite.Error(err)
}
