package engine

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
	"github.com/tsatke/ktap/internal/engine/value"
)

type Option func(*Engine)

func WithFs(fs afero.Fs) Option {
	return func(e *Engine) {
		e.fs = fs
	}
}

func WithStdout(stdout io.Writer) Option {
	return func(e *Engine) {
		e.stdout = stdout
	}
}

func WithStderr(stderr io.Writer) Option {
	return func(e *Engine) {
		e.stderr = stderr
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithAllocator makes the engine account all table memory through alloc.
func WithAllocator(alloc value.Allocator) Option {
	return func(e *Engine) {
		e.alloc = alloc
	}
}

// WithMemoryLimit limits the memory of all tables of the engine to the given
// amount of bytes. A limit of zero or less means no limit.
func WithMemoryLimit(bytes int) Option {
	return func(e *Engine) {
		e.alloc = value.NewLimitAllocator(bytes)
	}
}

// WithSeed sets the seed of the string hash.
func WithSeed(seed uint32) Option {
	return func(e *Engine) {
		e.seed = seed
	}
}

func WithMaxStackSize(size int) Option {
	return func(e *Engine) {
		e.stack.maxSize = size
	}
}
