package format

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ByteReader is the source ReadPrefixed consumes. bufio.Reader and
// bytes.Reader both satisfy it.
type ByteReader interface {
	io.Reader
	io.ByteReader
}

// Encode serializes members into a header block, one "<name> [<size>]\n"
// line per member, in order.
func Encode(members []Member) ([]byte, error) {
	var buf bytes.Buffer
	for i, m := range members {
		if !ValidateName(m.Name) {
			return nil, fmt.Errorf("%w: member %d: %q", ErrInvalidName, i, m.Name)
		}
		if m.Size < 0 {
			return nil, fmt.Errorf("%w: member %q: %d", ErrInvalidSize, m.Name, m.Size)
		}
		buf.WriteString(m.Name)
		buf.WriteString(" [")
		buf.WriteString(strconv.FormatInt(m.Size, 10))
		buf.WriteString("]\n")
	}
	return buf.Bytes(), nil
}

// Decode parses a header block produced by Encode.
//
// The block must be empty or end with a newline, and every line must have the
// form "<name> [<size>]". The name is everything before the last " [", so
// names may contain spaces and brackets, but never a line break.
func Decode(block []byte) ([]Member, error) {
	if len(block) == 0 {
		return nil, nil
	}
	if block[len(block)-1] != '\n' {
		return nil, fmt.Errorf("%w: member block does not end with a newline", ErrInvalidHeader)
	}

	lines := strings.Split(string(block[:len(block)-1]), "\n")
	members := make([]Member, 0, len(lines))
	for i, line := range lines {
		name, size, err := parseBracketed(line)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", ErrInvalidHeader, i+1, err)
		}
		if !ValidateName(name) {
			return nil, fmt.Errorf("%w: line %d: invalid member name %q", ErrInvalidHeader, i+1, name)
		}
		members = append(members, Member{Name: name, Size: size})
	}
	return members, nil
}

// WritePrefixed writes the first line "header [<len>]\n" followed by the
// encoded member block. It returns the number of bytes written, which is the
// offset of the first payload byte.
func WritePrefixed(w io.Writer, members []Member) (int64, error) {
	block, err := Encode(members)
	if err != nil {
		return 0, err
	}

	first := HeaderKeyword + " [" + strconv.Itoa(len(block)) + "]\n"
	n, err := io.WriteString(w, first)
	if err != nil {
		return int64(n), fmt.Errorf("failed to write header line: %w", err)
	}
	m, err := w.Write(block)
	if err != nil {
		return int64(n + m), fmt.Errorf("failed to write member block: %w", err)
	}
	return int64(n + m), nil
}

// ReadPrefixed reads a complete header from r and returns it along with the
// offset of the first payload byte. It never reads past the member block, so
// r is positioned at the first payload byte on success.
func ReadPrefixed(r ByteReader) (*Header, int64, error) {
	line, err := readFirstLine(r)
	if err != nil {
		return nil, 0, err
	}

	keyword, length, err := parseBracketed(line)
	if err != nil {
		return nil, 0, fmt.Errorf("%w: first line: %v", ErrInvalidHeader, err)
	}
	if keyword != HeaderKeyword {
		return nil, 0, fmt.Errorf("%w: first line %q does not start with %q",
			ErrInvalidHeader, line, HeaderKeyword)
	}

	// CopyN grows the buffer as data arrives, so a corrupt length on a short
	// file fails without allocating the declared size up front.
	var block bytes.Buffer
	if _, err := io.CopyN(&block, r, length); err != nil {
		if err == io.EOF {
			return nil, 0, fmt.Errorf("%w: member block shorter than declared %d bytes",
				ErrInvalidHeader, length)
		}
		return nil, 0, fmt.Errorf("failed to read member block: %w", err)
	}

	members, err := Decode(block.Bytes())
	if err != nil {
		return nil, 0, err
	}

	h := &Header{Length: length, Members: members}
	return h, int64(len(line)) + 1 + length, nil
}

// readFirstLine reads up to and including the first '\n' and returns the line
// without it.
func readFirstLine(r io.ByteReader) (string, error) {
	var line []byte
	for {
		b, err := r.ReadByte()
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("%w: missing header line", ErrInvalidHeader)
			}
			return "", fmt.Errorf("failed to read header line: %w", err)
		}
		if b == '\n' {
			return string(line), nil
		}
		line = append(line, b)
		if len(line) > maxFirstLine {
			return "", fmt.Errorf("%w: header line exceeds %d bytes", ErrInvalidHeader, maxFirstLine)
		}
	}
}

// parseBracketed splits "<text> [<digits>]" at the last " [".
func parseBracketed(line string) (string, int64, error) {
	idx := strings.LastIndex(line, " [")
	if idx < 0 || !strings.HasSuffix(line, "]") {
		return "", 0, fmt.Errorf("malformed line %q", line)
	}

	digits := line[idx+2 : len(line)-1]
	if digits == "" || strings.Trim(digits, "0123456789") != "" {
		return "", 0, fmt.Errorf("malformed size in %q", line)
	}
	size, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return "", 0, fmt.Errorf("size out of range in %q", line)
	}
	return line[:idx], size, nil
}
