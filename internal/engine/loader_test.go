package engine

import (
	"fmt"
	"strings"

	"github.com/google/go-cmp/cmp"
	"github.com/tsatke/ktap/internal/engine/value"
)

// contents renders t and all nested tables into plain Go values.
func contents(t *value.Table) map[string]interface{} {
	m := make(map[string]interface{})
	t.Each(func(key, val value.Value) bool {
		k := key.Type().String() + ":" + key.String()
		if nested, ok := val.(*value.Table); ok {
			m[k] = contents(nested)
		} else {
			m[k] = val.Type().String() + ":" + val.String()
		}
		return true
	})
	return m
}

func (suite *EngineSuite) TestLoadTableSequence() {
	suite.writeFile("/seq.yaml", "[10, 20, 30, 40]\n")

	t, err := suite.engine.LoadTable("/seq.yaml")
	suite.Require().NoError(err)

	stats := t.Stats()
	suite.Equal(4, stats.ArraySize)
	suite.Equal(0, stats.HashSize)
	suite.Equal(0, stats.Resizes)
	for i := 1; i <= 4; i++ {
		suite.Equal(value.Number(i*10), t.GetInt(i))
	}
}

func (suite *EngineSuite) TestLoadTableMapping() {
	suite.writeFile("/data.yaml", `
name: sample
enabled: true
ratio: 0.25
1: one
missing: ~
ports: [22, 80]
anchor: &a {x: 1}
alias: *a
`)

	t, err := suite.engine.LoadTable("/data.yaml")
	suite.Require().NoError(err)

	want := map[string]interface{}{
		"string:name":    "string:sample",
		"string:enabled": "boolean:true",
		"string:ratio":   "number:0.25",
		"number:1":       "string:one",
		"string:ports": map[string]interface{}{
			"number:1": "number:22",
			"number:2": "number:80",
		},
		"string:anchor": map[string]interface{}{
			"string:x": "number:1",
		},
		"string:alias": map[string]interface{}{
			"string:x": "number:1",
		},
	}
	suite.Empty(cmp.Diff(want, contents(t)))

	// an alias is the same table as its anchor
	suite.Same(t.Get(suite.str("anchor")), t.Get(suite.str("alias")))

	// integer keys of a mapping are numbers
	suite.Equal("one", t.GetInt(1).String())
	suite.Equal(8, t.Stats().HashSize)
}

func (suite *EngineSuite) TestLoadTableRejectsNilKey() {
	suite.writeFile("/nil.yaml", "~: value\n")
	_, err := suite.engine.LoadTable("/nil.yaml")
	suite.ErrorIs(err, ErrNilIndex)
}

func (suite *EngineSuite) TestLoadTableRejectsNaNKey() {
	suite.writeFile("/nan.yaml", ".nan: value\n")
	_, err := suite.engine.LoadTable("/nan.yaml")
	suite.ErrorIs(err, ErrNaNIndex)
}

func (suite *EngineSuite) TestLoadTableScalarDocument() {
	suite.writeFile("/scalar.yaml", "42\n")
	_, err := suite.engine.LoadTable("/scalar.yaml")
	suite.EqualError(err, "load /scalar.yaml: /scalar.yaml: expected a sequence or mapping, got number")
}

func (suite *EngineSuite) TestLoadTableRejectsCyclicAlias() {
	suite.writeFile("/cycle.yaml", "a: &x [1, *x]\n")
	_, err := suite.engine.LoadTable("/cycle.yaml")
	suite.ErrorIs(err, ErrAliasCycle)

	suite.writeFile("/nested.yaml", "a: &x {b: [1, {c: *x}]}\n")
	_, err = suite.engine.LoadTable("/nested.yaml")
	suite.ErrorIs(err, ErrAliasCycle)
}

func (suite *EngineSuite) TestLoadTableSharesAliasedTables() {
	var sb strings.Builder
	sb.WriteString("l0: &l0 [x, x, x, x, x, x, x, x, x, x]\n")
	for i := 1; i < 10; i++ {
		fmt.Fprintf(&sb, "l%d: &l%d [", i, i)
		for j := 0; j < 10; j++ {
			if j > 0 {
				sb.WriteString(", ")
			}
			fmt.Fprintf(&sb, "*l%d", i-1)
		}
		sb.WriteString("]\n")
	}
	suite.writeFile("/laughs.yaml", sb.String())

	objects := suite.engine.Objects()
	t, err := suite.engine.LoadTable("/laughs.yaml")
	suite.Require().NoError(err)
	suite.Equal(10, t.Len())
	// one table per anchor plus the document
	suite.Equal(objects+11, suite.engine.Objects())

	l9 := t.Get(suite.str("l9")).(*value.Table)
	suite.Same(t.Get(suite.str("l8")), l9.GetInt(1))
	suite.Same(l9.GetInt(1), l9.GetInt(10))
}

func (suite *EngineSuite) TestLoadTableDepthLimit() {
	deep := strings.Repeat("[", maxLoadDepth+1) + strings.Repeat("]", maxLoadDepth+1) + "\n"
	suite.writeFile("/deep.yaml", deep)
	_, err := suite.engine.LoadTable("/deep.yaml")
	suite.ErrorIs(err, ErrLoadDepth)

	ok := strings.Repeat("[", maxLoadDepth) + strings.Repeat("]", maxLoadDepth) + "\n"
	suite.writeFile("/ok.yaml", ok)
	_, err = suite.engine.LoadTable("/ok.yaml")
	suite.NoError(err)
}

func (suite *EngineSuite) TestLoadTableMissingFile() {
	_, err := suite.engine.LoadTable("/missing.yaml")
	suite.Error(err)
}

func (suite *EngineSuite) TestLoadTableOutOfMemory() {
	var sb strings.Builder
	for i := 0; i < 1000; i++ {
		fmt.Fprintf(&sb, "- %d\n", i)
	}
	suite.writeFile("/big.yaml", sb.String())
	e := suite.newEngine(WithMemoryLimit(4 * 1024))
	defer e.Close()

	before := e.MemoryInUse()
	objects := e.Objects()
	_, err := e.LoadTable("/big.yaml")
	suite.ErrorIs(err, value.ErrOutOfMemory)
	suite.Equal(objects, e.Objects())
	suite.Equal(before, e.MemoryInUse())
}

func (suite *EngineSuite) TestLoadSymbols() {
	suite.writeFile("/syms.yaml", `
symbols:
  - name: int
    type: scalar
  - name: printk
    type: func
    return: int
    args: [int]
`)
	suite.Require().NoError(suite.engine.LoadSymbols("/syms.yaml"))

	ffit := suite.engine.Global("ffi").(*value.Table)
	ctable, ok := ffit.GetStr(suite.engine.Strings().Intern("C")).(*value.Table)
	suite.Require().True(ok)
	suite.Same(suite.engine.FFI().CTable(), ctable)

	cd, ok := ctable.GetStr(suite.engine.Strings().Intern("printk")).(*value.Cdata)
	suite.Require().True(ok)
	suite.Equal(1, cd.SymbolID)
}

func (suite *EngineSuite) TestLoadSymbolsUnknownType() {
	suite.writeFile("/syms.yaml", `
symbols:
  - name: printk
    type: func
    args: [int]
`)
	err := suite.engine.LoadSymbols("/syms.yaml")
	suite.ErrorContains(err, "cannot find csymbol with name int")
}
