package format

// Header is the header block of a container.
type Header struct {
	Length  int64    // encoded size of the member block, in bytes
	Members []Member // in payload order
}

// Member describes one packed file.
// Its payload is stored verbatim after the payloads of all preceding members.
type Member struct {
	Name string // base name, see ValidateName
	Size int64  // exact payload length in bytes
}

// PayloadSize returns the sum of all member sizes.
func (h *Header) PayloadSize() int64 {
	var total int64
	for _, m := range h.Members {
		total += m.Size
	}
	return total
}
