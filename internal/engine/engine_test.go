package engine

import (
	"errors"
	"math"
	"strings"

	"github.com/tsatke/ktap/internal/engine/value"
)

func (suite *EngineSuite) TestRegistryHoldsGlobals() {
	suite.Same(suite.engine.Globals(), suite.engine.Registry().GetInt(RegistryIndexGlobals))
	suite.Equal(2, suite.engine.Registry().Stats().ArraySize)
}

func (suite *EngineSuite) TestGlobals() {
	for _, name := range []string{"print", "tostring", "type", "dump", "histogram", "rawget", "rawset", "newtable", "len"} {
		suite.IsType(&value.Function{}, suite.engine.Global(name), name)
	}
	suite.Equal(version, suite.engine.Global("_VERSION").String())
	suite.IsType(&value.Table{}, suite.engine.Global("ffi"))
	suite.True(value.IsNil(suite.engine.Global("undefined")))
}

func (suite *EngineSuite) TestPrint() {
	_, err := suite.engine.Call("print", suite.str("Hello, World!"), value.Number(5), value.True, value.Nil)
	suite.NoError(err)
	suite.Equal("Hello, World!\t5\ttrue\tnil\n", suite.stdout.String())
}

func (suite *EngineSuite) TestTypeAndTostring() {
	results, err := suite.engine.Call("type", suite.table(0, 0))
	suite.NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal("table", results[0].String())

	results, err = suite.engine.Call("tostring", value.Number(0.5))
	suite.NoError(err)
	suite.Require().Len(results, 1)
	suite.Equal(value.TypeString, results[0].Type())
	suite.Equal("0.5", results[0].String())
}

func (suite *EngineSuite) TestCallUndefined() {
	_, err := suite.engine.Call("undefined")
	suite.EqualError(err, "attempt to call a nil value (global 'undefined')")
}

func (suite *EngineSuite) TestArgumentError() {
	_, err := suite.engine.Call("dump", value.Number(1))
	suite.EqualError(err, "error while calling 'dump': bad argument #1 to 'dump' (table expected, got number)")
	suite.Equal(0, suite.engine.stack.Size())
}

func (suite *EngineSuite) TestDump() {
	t := suite.table(0, 0)
	for i := 1; i <= 3; i++ {
		suite.engine.RawSet(t, value.Number(i), value.Number(i*i))
	}
	_, err := suite.engine.Call("dump", t)
	suite.NoError(err)
	suite.Equal("{(1: 1), (2: 4), (3: 9)}\n", suite.stdout.String())
}

func (suite *EngineSuite) TestHistogramTypeErrorIsNotFatal() {
	t := suite.table(0, 0)
	suite.NoError(suite.engine.Protect(func() error {
		suite.engine.RawSet(t, suite.str("a"), value.Number(1))
		suite.engine.RawSet(t, suite.str("b"), suite.str("x"))
		return nil
	}))

	_, err := suite.engine.Call("histogram", t)
	suite.NoError(err)
	suite.Equal("error: table histogram only handle (key: string/number val: number)\n", suite.stdout.String())
	suite.Equal(2, t.Len())
}

func (suite *EngineSuite) TestRawSetRejectsNilAndNaN() {
	t := suite.table(0, 0)

	for _, tc := range []struct {
		key  value.Value
		want error
	}{
		{value.Nil, ErrNilIndex},
		{value.Number(math.NaN()), ErrNaNIndex},
	} {
		_, err := suite.engine.Call("rawset", t, tc.key, value.True)
		suite.ErrorIs(err, tc.want)

		var engineErr Error
		suite.Require().True(errors.As(err, &engineErr))
		suite.Equal([]StackFrame{{Name: "rawset"}}, engineErr.Stack)
	}
	suite.Equal(0, t.Len())
	suite.Equal(0, suite.engine.stack.Size())
}

func (suite *EngineSuite) TestRawGetRawSet() {
	t := suite.table(0, 0)
	_, err := suite.engine.Call("rawset", t, suite.str("k"), value.Number(42))
	suite.NoError(err)

	results, err := suite.engine.Call("rawget", t, suite.str("k"))
	suite.NoError(err)
	suite.Equal([]value.Value{value.Number(42)}, results)

	results, err = suite.engine.Call("rawget", t, suite.str("missing"))
	suite.NoError(err)
	suite.Equal([]value.Value{value.Nil}, results)
}

func (suite *EngineSuite) TestNewTable() {
	results, err := suite.engine.Call("newtable", value.Number(4), value.Number(3))
	suite.NoError(err)
	suite.Require().Len(results, 1)

	stats := results[0].(*value.Table).Stats()
	suite.Equal(4, stats.ArraySize)
	suite.Equal(4, stats.HashSize)

	_, err = suite.engine.Call("newtable", value.Number(-1))
	suite.Error(err)
}

func (suite *EngineSuite) TestNewTableTooLarge() {
	for _, args := range [][]value.Value{
		{value.Number(1 << 50)},
		{value.Nil, value.Number(1 << 50)},
	} {
		_, err := suite.engine.Call("newtable", args...)
		suite.ErrorContains(err, "to 'newtable' (size")
	}

	// the runtime rejects huge sizes that do not come from a script too
	err := suite.engine.Protect(func() error {
		suite.engine.NewTable(1<<50, 0)
		return nil
	})
	suite.ErrorIs(err, value.ErrTableOverflow)

	_, err = suite.engine.Call("print", suite.str("still running"))
	suite.NoError(err)
}

func (suite *EngineSuite) TestLongGlobalName() {
	name := strings.Repeat("global", 10)
	t := suite.table(0, 0)
	suite.NoError(suite.engine.Protect(func() error {
		suite.engine.SetGlobal(name, t)
		return nil
	}))

	suite.Same(t, suite.engine.Global(name))
	results, err := suite.engine.Call("rawget", suite.engine.Globals(), suite.str(name))
	suite.NoError(err)
	suite.Require().Len(results, 1)
	suite.Same(t, results[0])
}

func (suite *EngineSuite) TestStackOverflow() {
	e := suite.newEngine(WithMaxStackSize(50))
	defer e.Close()

	var recurse *value.Function
	recurse = value.NewFunction("recurse", func(args ...value.Value) ([]value.Value, error) {
		return e.call(recurse)
	})
	suite.NoError(e.Protect(func() error {
		e.SetGlobal("recurse", recurse)
		return nil
	}))

	_, err := e.Call("recurse")
	suite.EqualError(err, "stack overflow while calling 'recurse'")

	var engineErr Error
	suite.Require().True(errors.As(err, &engineErr))
	suite.Len(engineErr.Stack, 50)
	suite.Contains(engineErr.Traceback(), "stack overflow while calling 'recurse'\nstack traceback:\n\trecurse\n\trecurse")
	suite.Equal(0, e.stack.Size())

	// the engine is still usable
	_, err = e.Call("print", suite.str("ok"))
	suite.NoError(err)
	suite.Equal("ok\n", suite.stdout.String())
}

func (suite *EngineSuite) TestOutOfMemoryAbortsOnlyTheCall() {
	e := suite.newEngine(WithMemoryLimit(64 * 1024))
	defer e.Close()

	before := e.MemoryInUse()
	objects := e.Objects()

	_, err := e.Call("newtable", value.Number(1<<20))
	suite.ErrorIs(err, value.ErrOutOfMemory)
	suite.Equal(before, e.MemoryInUse())
	suite.Equal(objects, e.Objects())

	var engineErr Error
	suite.Require().True(errors.As(err, &engineErr))
	suite.Equal([]StackFrame{{Name: "newtable"}}, engineErr.Stack)

	results, err := e.Call("newtable", value.Number(8))
	suite.NoError(err)
	suite.Len(results, 1)
}

func (suite *EngineSuite) TestGrowthBeyondLimit() {
	e := suite.newEngine(WithMemoryLimit(16 * 1024))
	defer e.Close()

	var t *value.Table
	suite.NoError(e.Protect(func() error {
		t = e.NewTable(0, 0)
		return nil
	}))

	inserted := 0
	err := e.Protect(func() error {
		for i := 1; ; i++ {
			e.RawSet(t, value.Number(i), value.Number(i))
			inserted = i
		}
	})
	suite.ErrorIs(err, value.ErrOutOfMemory)
	suite.Positive(inserted)
	for i := 1; i <= inserted; i++ {
		suite.Equal(value.Number(i), t.GetInt(i))
	}
}

func (suite *EngineSuite) TestOtherPanicsAreNotRecovered() {
	suite.PanicsWithValue("boom", func() {
		_ = suite.engine.Protect(func() error {
			panic("boom")
		})
	})
}

func (suite *EngineSuite) TestCloseReleasesAllMemory() {
	e := suite.newEngine()
	suite.NoError(e.Protect(func() error {
		t := e.NewTable(16, 16)
		for i := 0; i < 100; i++ {
			e.RawSet(t, e.Strings().New(value.Number(i).String()), value.Number(i))
		}
		e.SetGlobal("t", t)
		return nil
	}))
	suite.Positive(e.MemoryInUse())

	e.Close()
	suite.Equal(0, e.MemoryInUse())
	suite.Equal(0, e.Objects())
}

func (suite *EngineSuite) TestNewFailsWithTooLittleMemory() {
	_, err := New(WithMemoryLimit(16))
	suite.ErrorIs(err, value.ErrOutOfMemory)
}

func (suite *EngineSuite) TestSeed() {
	e := suite.newEngine(WithSeed(7))
	defer e.Close()
	suite.Equal(uint32(7), e.Strings().Seed())
	suite.Equal(uint32(defaultSeed), suite.engine.Strings().Seed())
}
