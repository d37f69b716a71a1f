package archive

import (
	"io"
)

// copyExact copies exactly n bytes from src to dst through buf.
//
// Each read asks for at most len(buf) bytes. A read that returns no data
// before n bytes have been copied ends the copy with io.ErrUnexpectedEOF,
// whether or not the source reported io.EOF.
func copyExact(dst io.Writer, src io.Reader, n int64, buf []byte) (int64, error) {
	var written int64
	for written < n {
		chunk := buf
		if remaining := n - written; remaining < int64(len(chunk)) {
			chunk = chunk[:remaining]
		}

		nr, er := src.Read(chunk)
		if nr > 0 {
			nw, ew := dst.Write(chunk[:nr])
			written += int64(nw)
			if ew != nil {
				return written, ew
			}
			if nw != nr {
				return written, io.ErrShortWrite
			}
		}
		if er != nil && er != io.EOF {
			return written, er
		}
		if nr == 0 && written < n {
			return written, io.ErrUnexpectedEOF
		}
	}
	return written, nil
}
