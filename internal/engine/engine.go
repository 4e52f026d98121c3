package engine

import (
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/tsatke/ktap/internal/engine/value"
	"github.com/tsatke/ktap/internal/ffi"
)

const (
	// RegistryIndexGlobals is the registry slot that holds the globals table.
	RegistryIndexGlobals = 1
	registryIndexLast    = 2

	defaultSeed         = 201236
	defaultMaxStackSize = 200
)

// Engine is a runtime that owns tables. Everything that allocates goes through
// the heap of the engine, so that a memory limit applies to all tables the
// engine creates.
//
// Fatal errors of table operations (out of memory, table overflow) abort only
// the protected call they occur in. The engine stays usable afterwards.
//
// An Engine is not safe for concurrent use.
type Engine struct {
	fs afero.Fs

	// stdout is where print, dump and histogram write to.
	stdout io.Writer
	// stderr receives messages of errors that the natives recover from.
	stderr io.Writer

	log zerolog.Logger

	alloc     value.Allocator
	collector *collector
	heap      *value.Heap
	strings   *value.StringTable
	seed      uint32

	registry *value.Table
	globals  *value.Table

	stack *callStack
	ffi   *ffi.Registry
}

// New creates a new, ready to use Engine, already applying all given options.
// By default, the engine uses the os file system, os.Stdout as stdout,
// os.Stderr as stderr and does not limit memory.
func New(opts ...Option) (*Engine, error) {
	e := &Engine{
		fs: afero.NewOsFs(),

		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    zerolog.Nop(),

		alloc:     value.NewLimitAllocator(0),
		collector: newCollector(),
		seed:      defaultSeed,

		stack: newCallStack(defaultMaxStackSize),
		ffi:   ffi.NewRegistry(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.heap = &value.Heap{
		Allocator: e.alloc,
		Collector: e.collector,
	}
	e.strings = value.NewStringTable(e.seed)

	if err := e.Protect(e.init); err != nil {
		e.Close()
		return nil, fmt.Errorf("init: %w", err)
	}
	return e, nil
}

func (e *Engine) init() error {
	e.registry = value.NewTable(e.heap, registryIndexLast, 0)
	e.globals = value.NewTable(e.heap, 0, 16)
	e.registry.SetInt(e.heap, RegistryIndexGlobals, e.globals)
	e.initStdlib()
	return nil
}

func (e *Engine) Heap() *value.Heap           { return e.heap }
func (e *Engine) Strings() *value.StringTable { return e.strings }
func (e *Engine) Registry() *value.Table      { return e.registry }
func (e *Engine) Globals() *value.Table       { return e.globals }
func (e *Engine) Logger() *zerolog.Logger     { return &e.log }
func (e *Engine) FFI() *ffi.Registry          { return e.ffi }
func (e *Engine) Stdout() io.Writer           { return e.stdout }

// MemoryInUse returns the amount of bytes that the tables of this engine
// currently use, or -1 if the allocator does not know.
func (e *Engine) MemoryInUse() int {
	if a, ok := e.alloc.(interface{ InUse() int }); ok {
		return a.InUse()
	}
	return -1
}

// Objects returns the amount of objects that were announced to the collector
// and are not released yet.
func (e *Engine) Objects() int {
	return len(e.collector.objects)
}

// NewTable creates a table on the heap of this engine. It must be called
// inside Protect.
func (e *Engine) NewTable(narray, nhash int) *value.Table {
	return value.NewTable(e.heap, narray, nhash)
}

// Global returns the global with the given name.
func (e *Engine) Global(name string) value.Value {
	return e.globals.Get(e.strings.New(name))
}

// SetGlobal sets the global with the given name. It must be called inside
// Protect.
func (e *Engine) SetGlobal(name string, val value.Value) {
	e.globals.SetValue(e.heap, e.strings.New(name), val)
}

// Close releases all tables of this engine. The engine must not be used
// afterwards.
func (e *Engine) Close() {
	e.ffi.Free()
	e.collector.freeAll(e.heap)
	e.registry = nil
	e.globals = nil
}
