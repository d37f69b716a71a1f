package archive

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/ossyrian/hdrpack/internal/format"
)

// Plan inspects inputs and returns the header Pack would write for them.
// Each member is named after the final element of its path and sized from the
// file's current length. Nothing is written.
func Plan(inputs []string, opts ...Option) (*format.Header, error) {
	o := buildOptions(opts)
	return plan(o, inputs)
}

func plan(o options, inputs []string) (*format.Header, error) {
	members := make([]format.Member, 0, len(inputs))
	for _, path := range inputs {
		st, err := o.fs.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrInput, path, err)
		}
		if st.IsDir() {
			return nil, fmt.Errorf("%w: %s is a directory", ErrInput, path)
		}

		name := filepath.Base(path)
		if !format.ValidateName(name) {
			return nil, fmt.Errorf("%w: %s: name %q contains characters that cannot be archived",
				ErrInput, path, name)
		}
		members = append(members, format.Member{Name: name, Size: st.Size()})
	}

	block, err := format.Encode(members)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInput, err)
	}
	return &format.Header{Length: int64(len(block)), Members: members}, nil
}

// Pack writes inputs, in order, into a new container at output.
//
// Pack never overwrites: if output exists it fails with ErrOutputConflict
// before writing anything. If copying fails once output has been created, the
// partial file is left in place and the error returned is a
// *PartialOutputError; removing the file is up to the caller.
func Pack(inputs []string, output string, opts ...Option) (*format.Header, error) {
	o := buildOptions(opts)
	logger := o.logger.With("output", output)

	h, err := plan(o, inputs)
	if err != nil {
		return nil, err
	}

	if _, err := o.fs.Stat(output); err == nil {
		return nil, fmt.Errorf("%w: %s", ErrOutputConflict, output)
	} else if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat output %s: %w", output, err)
	}

	out, err := o.fs.OpenFile(output, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return nil, fmt.Errorf("%w: %s", ErrOutputConflict, output)
		}
		return nil, fmt.Errorf("failed to create output %s: %w", output, err)
	}

	if err := writeContainer(o, out, inputs, h); err != nil {
		out.Close()
		return nil, &PartialOutputError{Path: output, Err: err}
	}
	if err := out.Close(); err != nil {
		return nil, &PartialOutputError{Path: output, Err: fmt.Errorf("failed to close output: %w", err)}
	}

	logger.Info("packed archive",
		"members", len(h.Members),
		"header_length", h.Length,
		"payload_size", h.PayloadSize(),
	)
	return h, nil
}

func writeContainer(o options, out io.Writer, inputs []string, h *format.Header) error {
	bw := bufio.NewWriter(out)

	offset, err := format.WritePrefixed(bw, h.Members)
	if err != nil {
		return err
	}

	buf := make([]byte, o.bufferSize)
	for i, m := range h.Members {
		if err := packMember(o, bw, inputs[i], m, buf); err != nil {
			return err
		}
		o.logger.Debug("packed member",
			"index", i,
			"name", m.Name,
			"size", m.Size,
			"offset", offset,
		)
		offset += m.Size
	}

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to flush output: %w", err)
	}
	return nil
}

func packMember(o options, w io.Writer, path string, m format.Member, buf []byte) error {
	in, err := o.fs.Open(path)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInput, path, err)
	}
	defer in.Close()

	n, err := copyExact(w, in, m.Size, buf)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) {
			return fmt.Errorf("%w: %s: expected %d bytes, got %d", ErrTruncatedInput, path, m.Size, n)
		}
		return fmt.Errorf("failed to copy %s: %w", path, err)
	}
	return nil
}
