package archive

import (
	"errors"
	"fmt"

	"github.com/ossyrian/hdrpack/internal/format"
)

// Sentinel errors for pack and extract operations.
var (
	// ErrInput is returned when an input file is missing, is a directory,
	// or has a name that cannot be stored in a container.
	ErrInput = errors.New("archive: invalid input file")

	// ErrOutputConflict is returned when the output path already exists.
	ErrOutputConflict = errors.New("archive: output already exists")

	// ErrTruncatedInput is returned when an input file holds fewer bytes than
	// were recorded for it in the header.
	ErrTruncatedInput = errors.New("archive: input file truncated")

	// ErrTruncatedArchive is returned when a container ends before all
	// declared member bytes have been read.
	ErrTruncatedArchive = errors.New("archive: container truncated")

	// ErrUnreadableArchive is returned when the container cannot be opened.
	ErrUnreadableArchive = errors.New("archive: cannot open container")

	// ErrClosed is returned when extracting from a closed or already
	// extracted Archive.
	ErrClosed = errors.New("archive: already extracted or closed")

	// ErrInvalidHeader is returned when the container header is malformed.
	ErrInvalidHeader = format.ErrInvalidHeader
)

// PartialOutputError is returned by Pack when the output file was created but
// could not be completed. The file at Path holds an unusable container.
type PartialOutputError struct {
	Path string
	Err  error
}

func (e *PartialOutputError) Error() string {
	return fmt.Sprintf("incomplete output %s: %v", e.Path, e.Err)
}

func (e *PartialOutputError) Unwrap() error {
	return e.Err
}
