package format

import (
	"errors"
	"strings"
)

// HeaderKeyword opens the first line of every container: "header [<len>]\n".
const HeaderKeyword = "header"

// DefaultBufferSize is the size of the copy buffer used for payloads.
const DefaultBufferSize = 10 << 20

// maxFirstLine bounds the first line so garbage input fails fast.
// "header [" + 19 digits of int64 + "]" fits comfortably.
const maxFirstLine = 64

// excludedChars may not appear in member names. The set is part of the
// container format and must stay identical across implementations.
const excludedChars = "/\n\r\t\x00\f`?*\\<>|\":"

var (
	// ErrInvalidHeader is returned when a container header cannot be parsed.
	ErrInvalidHeader = errors.New("format: invalid header")

	// ErrInvalidName is returned when encoding a member whose name fails ValidateName.
	ErrInvalidName = errors.New("format: invalid member name")

	// ErrInvalidSize is returned when encoding a member with a negative size.
	ErrInvalidSize = errors.New("format: invalid member size")
)

// ValidateName reports whether name can be stored in a container.
// Names must be non-empty, must not be "." or "..", and must not contain any
// character that is unsafe in a path on common platforms.
func ValidateName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, excludedChars)
}
