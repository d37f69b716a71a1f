package main

import (
	"errors"
	"log/slog"

	"github.com/ossyrian/hdrpack/internal/archive"
)

// summaries maps error kinds to the message shown to the user.
var summaries = []struct {
	err     error
	summary string
}{
	{archive.ErrInput, "cannot pack input file"},
	{archive.ErrOutputConflict, "output archive already exists"},
	{archive.ErrTruncatedInput, "input file changed while packing"},
	{archive.ErrTruncatedArchive, "archive is truncated"},
	{archive.ErrInvalidHeader, "archive header is invalid"},
	{archive.ErrUnreadableArchive, "archive cannot be read"},
	{errNoInputs, "no input files"},
	{errNoOutput, "no action requested"},
	{errNoAction, "no action requested"},
	{errBothModes, "conflicting actions"},
}

// summarize returns a short human description of err.
func summarize(err error) string {
	for _, s := range summaries {
		if errors.Is(err, s.err) {
			return s.summary
		}
	}
	return "operation failed"
}

// report logs err for the user.
func report(logger *slog.Logger, err error) {
	logger.Error(summarize(err), "error", err)
}
