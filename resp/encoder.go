package resp

import (
	"bufio"
	"bytes"
	"strconv"
	"strings"
	"sync"
	"time"
)

// DefaultTimeout is the minimum caller-side safety margin added on top of
// a blocking command's server-side timeout, per spec §6's bcall contract.
const DefaultTimeout = 5 * time.Second

// commandBufferPool reuses the scratch buffers used to assemble a command
// before it's copied into the connection's bufio.Writer. 64 bytes covers a
// typical inline command ("GET somekey\r\n") without growing; SET's value
// bytes are the usual reason a buffer grows past that.
var commandBufferPool = sync.Pool{
	New: func() any { return bytes.NewBuffer(make([]byte, 0, 64)) },
}

func getCommandBuffer() *bytes.Buffer {
	return commandBufferPool.Get().(*bytes.Buffer)
}

func putCommandBuffer(buf *bytes.Buffer) {
	buf.Reset()
	commandBufferPool.Put(buf)
}

// EncodeScall writes cmd followed by a single space-joined inline args row,
// terminated by CRLF: "<cmd> <args...>\r\n".
func EncodeScall(w *bufio.Writer, cmd string, args []string) error {
	buf := getCommandBuffer()
	defer putCommandBuffer(buf)

	buf.WriteString(cmd)
	for _, a := range args {
		buf.WriteByte(' ')
		buf.WriteString(a)
	}
	buf.WriteString("\r\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return w.Flush()
}

// EncodeCall writes cmd, then one CRLF-separated row per element of rows,
// each row space-joined, with the whole command terminated by a final
// CRLF. Used for commands that accept multiple inline rows (e.g. a
// pipelined multi-row submission framed as a single write).
func EncodeCall(w *bufio.Writer, cmd string, rows [][]string) error {
	buf := getCommandBuffer()
	defer putCommandBuffer(buf)

	buf.WriteString(cmd)
	for _, row := range rows {
		buf.WriteString("\r\n")
		buf.WriteString(strings.Join(row, " "))
	}
	buf.WriteString("\r\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return w.Flush()
}

// EncodeSetCall writes "<cmd> <key> <len(value)>\r\n<value>\r\n", the
// inline-plus-bulk-row shape used by commands carrying a binary payload
// (e.g. SET).
func EncodeSetCall(w *bufio.Writer, cmd, key string, value []byte) error {
	buf := getCommandBuffer()
	defer putCommandBuffer(buf)

	buf.WriteString(cmd)
	buf.WriteByte(' ')
	buf.WriteString(key)
	buf.WriteByte(' ')
	buf.WriteString(strconv.Itoa(len(value)))
	buf.WriteString("\r\n")
	buf.Write(value)
	buf.WriteString("\r\n")

	if _, err := w.Write(buf.Bytes()); err != nil {
		return err
	}
	return w.Flush()
}

// EncodeBcall appends the server timeout, in seconds as a floating point
// literal (0 meaning "wait forever"), as the last inline argument of a
// blocking command (e.g. BLPOP key 5), and returns the caller-side timeout
// the connection should apply while waiting for the reply: the server
// timeout plus DefaultTimeout, so the caller always outlives the server. A
// zero server timeout maps to an infinite caller-side wait.
func EncodeBcall(w *bufio.Writer, cmd string, args []string, serverTimeout time.Duration) (callerTimeout time.Duration, err error) {
	seconds := serverTimeout.Seconds()
	full := append(append([]string{}, args...), strconv.FormatFloat(seconds, 'f', -1, 64))

	if err := EncodeScall(w, cmd, full); err != nil {
		return 0, err
	}

	if serverTimeout == 0 {
		return 0, nil // 0 means wait forever on both sides
	}
	return serverTimeout + DefaultTimeout, nil
}
