package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/ossyrian/hdrpack/internal/format"
)

// Archive is an opened container positioned at its first payload byte.
//
// Payloads are read strictly in header order and the container is never
// seeked, so an Archive can be extracted once. It is not safe for concurrent
// use.
type Archive struct {
	path   string
	file   afero.File
	r      *bufio.Reader
	opts   options
	logger *slog.Logger
	header *format.Header

	// offset counts the container bytes consumed so far.
	offset int64

	didClose bool
}

// Open opens the container at path and reads its header.
func Open(path string, opts ...Option) (*Archive, error) {
	o := buildOptions(opts)

	f, err := o.fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrUnreadableArchive, path, err)
	}
	if st, err := f.Stat(); err == nil && st.IsDir() {
		f.Close()
		return nil, fmt.Errorf("%w: %s is a directory", ErrUnreadableArchive, path)
	}

	a := &Archive{
		path:   path,
		file:   f,
		r:      bufio.NewReader(f),
		opts:   o,
		logger: o.logger.With("archive", path),
	}

	h, offset, err := format.ReadPrefixed(a.r)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a.header = h
	a.offset = offset

	a.logger.Debug("read header",
		"members", len(h.Members),
		"header_length", h.Length,
		"payload_offset", offset,
	)
	return a, nil
}

// Header returns the parsed container header.
func (a *Archive) Header() *format.Header {
	return a.header
}

// Members returns the members in payload order.
func (a *Archive) Members() []format.Member {
	return a.header.Members
}

// Dir returns the directory members are extracted into: the directory that
// contains the container.
func (a *Archive) Dir() string {
	return filepath.Dir(a.path)
}

// Offset returns the number of container bytes consumed so far.
func (a *Archive) Offset() int64 {
	return a.offset
}

// Close closes the underlying container. It is safe to call more than once.
func (a *Archive) Close() error {
	if a.didClose {
		return nil
	}
	a.didClose = true
	return a.file.Close()
}

// Extract writes every member next to the container, in header order.
//
// Existing files are truncated and overwritten; when two members share a
// name the later one wins. The container is closed when Extract returns,
// whether or not it succeeded.
func (a *Archive) Extract() (err error) {
	if a.didClose {
		return ErrClosed
	}
	defer func() {
		if cerr := a.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", a.path, cerr)
		}
	}()

	dir := a.Dir()
	buf := make([]byte, a.opts.bufferSize)
	for i, m := range a.header.Members {
		start := a.offset
		if err := a.extractMember(filepath.Join(dir, m.Name), m, buf); err != nil {
			return err
		}
		a.logger.Debug("extracted member",
			"index", i,
			"name", m.Name,
			"size", m.Size,
			"offset", start,
		)
	}

	a.logger.Info("extracted archive",
		"members", len(a.header.Members),
		"dir", dir,
		"payload_size", a.header.PayloadSize(),
	)
	return nil
}

func (a *Archive) extractMember(target string, m format.Member, buf []byte) (err error) {
	out, err := a.opts.fs.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", target, err)
	}
	defer func() {
		if cerr := out.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close %s: %w", target, cerr)
		}
	}()

	n, err := copyExact(out, a.r, m.Size, buf)
	a.offset += n
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %s: member %q at offset %d: expected %d bytes, got %d",
				ErrTruncatedArchive, a.path, m.Name, a.offset-n, m.Size, n)
		}
		return fmt.Errorf("failed to extract member %q: %w", m.Name, err)
	}
	return nil
}
