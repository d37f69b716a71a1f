package archive

import (
	"log/slog"

	"github.com/spf13/afero"

	"github.com/ossyrian/hdrpack/internal/format"
)

type options struct {
	fs         afero.Fs
	logger     *slog.Logger
	bufferSize int
}

// Option configures Plan, Pack and Open.
type Option func(*options)

// WithFs sets the filesystem used for all file access. Defaults to the OS
// filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *options) {
		o.fs = fs
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithBufferSize sets the size of the payload copy buffer. Values <= 0 select
// format.DefaultBufferSize.
func WithBufferSize(size int) Option {
	return func(o *options) {
		o.bufferSize = size
	}
}

func buildOptions(opts []Option) options {
	o := options{
		fs:         afero.NewOsFs(),
		logger:     slog.Default(),
		bufferSize: format.DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.bufferSize <= 0 {
		o.bufferSize = format.DefaultBufferSize
	}
	return o
}
