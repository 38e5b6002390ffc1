package resp

import (
	"bufio"
	"bytes"
	"io"
)

// Framer reads framed wire data off a socket. It operates in two modes per
// spec §4.1: line mode (the default) delivers one CRLF-terminated line with
// the CRLF stripped; counted mode delivers exactly N bytes of a bulk body
// plus its trailing CRLF, returning only the N body bytes. The mode switch
// is driven externally (by the parser's bulk-header events) rather than by
// any state kept on the Framer itself — each call names the mode it wants.
//
// A portable implementation buffers in user space rather than relying on
// OS-level line discipline, so Framer wraps a *bufio.Reader.
type Framer struct {
	r *bufio.Reader
}

// NewFramer wraps r in a buffered line/counted-byte reader. conservativeMSS
// sizes the internal buffer close to a typical TCP segment so small replies
// arrive in one read without over-allocating for bulk bodies, which read
// directly into their own buffer anyway.
const conservativeMSS = 1208

func NewFramer(r io.Reader) *Framer {
	return &Framer{r: bufio.NewReaderSize(r, conservativeMSS)}
}

// ReadLine returns the next CRLF-terminated line with the terminator
// stripped. Any read error is fatal to the connection (spec §4.1) and is
// returned unwrapped so the caller can classify it as a SocketError.
func (f *Framer) ReadLine() ([]byte, error) {
	line, err := f.r.ReadSlice('\n')
	if err != nil {
		return nil, err
	}
	line = bytes.TrimRight(line, "\r\n")
	// ReadSlice aliases the reader's internal buffer; callers that need to
	// retain the line across the next read must copy it.
	out := make([]byte, len(line))
	copy(out, line)
	return out, nil
}

// ReadCounted reads exactly n body bytes followed by a CRLF trailer and
// returns the body with the trailer discarded. Used for bulk replies once
// the parser has seen a "$N" header.
func (f *Framer) ReadCounted(n int) ([]byte, error) {
	buf := make([]byte, n+2)
	if _, err := io.ReadFull(f.r, buf); err != nil {
		return nil, err
	}
	return buf[:n], nil
}
