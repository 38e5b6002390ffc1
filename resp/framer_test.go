package resp

import (
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFramerReadLineStripsCRLF(t *testing.T) {
	f := NewFramer(strings.NewReader("+OK\r\n:42\r\n"))

	line, err := f.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "+OK", string(line))

	line, err = f.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, ":42", string(line))
}

func TestFramerReadCounted(t *testing.T) {
	f := NewFramer(strings.NewReader("hello\r\nrest\r\n"))

	body, err := f.ReadCounted(5)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(body))

	// framing mode switches back to line mode afterward
	line, err := f.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, "rest", string(line))
}

// TestFramerIndependentOfReadBoundaries covers spec §8 property 2: splitting
// the same byte stream across many small reads must not change what the
// framer delivers.
func TestFramerIndependentOfReadBoundaries(t *testing.T) {
	data := "*2\r\n$3\r\nfoo\r\n$-1\r\n"
	for chunk := 1; chunk <= len(data); chunk++ {
		r := &slowReader{data: []byte(data), chunk: chunk}
		f := NewFramer(r)

		line, err := f.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "*2", string(line))

		line, err = f.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "$3", string(line))

		body, err := f.ReadCounted(3)
		require.NoError(t, err)
		assert.Equal(t, "foo", string(body))

		line, err = f.ReadLine()
		require.NoError(t, err)
		assert.Equal(t, "$-1", string(line))
	}
}

// slowReader returns at most chunk bytes per Read, to simulate arbitrary
// socket-read boundaries independent of the underlying data shape.
type slowReader struct {
	data  []byte
	chunk int
}

func (r *slowReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	n := r.chunk
	if n > len(p) {
		n = len(p)
	}
	if n > len(r.data) {
		n = len(r.data)
	}
	copy(p, r.data[:n])
	r.data = r.data[n:]
	return n, nil
}
