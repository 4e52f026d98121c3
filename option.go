package ktap

import (
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

type Option func(*Session)

// WithFs sets the file system that tables and symbols are loaded from.
func WithFs(fs afero.Fs) Option {
	return func(s *Session) {
		s.fs = fs
	}
}

func WithStdout(stdout io.Writer) Option {
	return func(s *Session) {
		s.stdout = stdout
	}
}

func WithStderr(stderr io.Writer) Option {
	return func(s *Session) {
		s.stderr = stderr
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Session) {
		s.log = log
	}
}

// WithMemoryLimit limits the memory that all tables of the session may use
// together, in bytes.
func WithMemoryLimit(bytes int) Option {
	return func(s *Session) {
		s.memoryLimit = bytes
	}
}

// WithSeed sets the seed of the string hash.
func WithSeed(seed uint32) Option {
	return func(s *Session) {
		s.seed = seed
		s.seedSet = true
	}
}

func WithMaxStackSize(size int) Option {
	return func(s *Session) {
		s.maxStackSize = size
	}
}
