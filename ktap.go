package ktap

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/tsatke/ktap/internal/engine"
	"github.com/tsatke/ktap/internal/engine/value"
)

var (
	ErrNoSuchTable   = errors.New("no such table")
	// ErrHistogramType is returned by Histogram if a table holds a value that
	// is not a number.
	ErrHistogramType = value.ErrHistogramType
	ErrOutOfMemory   = value.ErrOutOfMemory
	ErrTableOverflow = value.ErrTableOverflow
)

// Session holds named tables. Tables are created with NewTable or loaded from
// YAML files with LoadTable, and are available as globals of the session
// under their name.
//
// If a table operation runs out of memory, only that operation fails. The
// session and all of its tables remain usable.
type Session struct {
	engine *engine.Engine

	fs     afero.Fs
	stdout io.Writer
	stderr io.Writer
	log    zerolog.Logger

	memoryLimit  int
	seed         uint32
	seedSet      bool
	maxStackSize int
}

// NewSession creates a new session, already applying all given options.
func NewSession(opts ...Option) (*Session, error) {
	s := &Session{
		fs:     afero.NewOsFs(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	engineOpts := []engine.Option{
		engine.WithFs(s.fs),
		engine.WithStdout(s.stdout),
		engine.WithStderr(s.stderr),
		engine.WithLogger(s.log),
		engine.WithMemoryLimit(s.memoryLimit),
	}
	if s.seedSet {
		engineOpts = append(engineOpts, engine.WithSeed(s.seed))
	}
	if s.maxStackSize > 0 {
		engineOpts = append(engineOpts, engine.WithMaxStackSize(s.maxStackSize))
	}

	e, err := engine.New(engineOpts...)
	if err != nil {
		return nil, convertError(err)
	}
	s.engine = e
	return s, nil
}

// NewTable creates an empty table with room for narray array entries and
// nhash hash entries, and stores it under the given name.
func (s *Session) NewTable(name string, narray, nhash int) error {
	return convertError(s.engine.Protect(func() error {
		s.engine.SetGlobal(name, s.engine.NewTable(narray, nhash))
		return nil
	}))
}

// LoadTable reads a YAML file into a table and stores it under the given
// name.
func (s *Session) LoadTable(name, path string) error {
	t, err := s.engine.LoadTable(path)
	if err != nil {
		return convertError(err)
	}
	return convertError(s.engine.Protect(func() error {
		s.engine.SetGlobal(name, t)
		return nil
	}))
}

// Set stores val under key in the named table. Setting Nil removes the key.
func (s *Session) Set(name string, key, val Value) error {
	t, err := s.table(name)
	if err != nil {
		return err
	}
	return convertError(s.engine.Protect(func() error {
		s.engine.RawSet(t, s.toInternal(key), s.toInternal(val))
		return nil
	}))
}

// Get returns the value stored under key in the named table.
func (s *Session) Get(name string, key Value) (Value, error) {
	t, err := s.table(name)
	if err != nil {
		return nil, err
	}
	return valueFromInternal(s.engine.RawGet(t, s.toInternal(key))), nil
}

// Len returns the amount of entries of the named table.
func (s *Session) Len(name string) (int, error) {
	t, err := s.table(name)
	if err != nil {
		return 0, err
	}
	return t.Len(), nil
}

// Dump writes the entries of the named table to stdout.
func (s *Session) Dump(name string) error {
	t, err := s.table(name)
	if err != nil {
		return err
	}
	_, err = s.engine.Call("dump", t)
	return convertError(err)
}

// Histogram writes the histogram of the named table to stdout. All values of
// the table must be numbers, otherwise an error line is written and an error
// wrapping ErrHistogramType is returned.
func (s *Session) Histogram(name string) error {
	t, err := s.table(name)
	if err != nil {
		return err
	}
	if err := t.Histogram(s.stdout); err != nil {
		return fmt.Errorf("histogram %s: %w", name, err)
	}
	return nil
}

// Resize changes the sizes of the array and the hash part of the named table.
func (s *Session) Resize(name string, narray, nhash int) error {
	t, err := s.table(name)
	if err != nil {
		return err
	}
	return convertError(s.engine.Protect(func() error {
		t.Resize(s.engine.Heap(), narray, nhash)
		return nil
	}))
}

func (s *Session) table(name string) (*value.Table, error) {
	t, ok := s.engine.Global(name).(*value.Table)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNoSuchTable, name)
	}
	return t, nil
}

// MemoryInUse returns the amount of bytes that all tables of the session
// use.
func (s *Session) MemoryInUse() int {
	return s.engine.MemoryInUse()
}

// Close releases all tables of the session.
func (s *Session) Close() {
	s.engine.Close()
}
