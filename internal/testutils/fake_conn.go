// Package testutils provides a net.Conn fake for driving the redis package's
// actor against scripted reply bytes without a real socket.
package testutils

import (
	"bytes"
	"net"
	"strings"
	"time"
)

// FakeConn is a net.Conn backed by an in-memory buffer of pre-scripted RESP
// reply bytes: writes are captured for assertion and reads are served from
// the scripted data, returning io.EOF once it's exhausted.
type FakeConn struct {
	readBuf  *bytes.Buffer
	writeBuf *bytes.Buffer
}

// NewFakeConn builds a FakeConn whose Read calls serve the concatenation of
// replies, in order, as if a single server connection had sent them all.
func NewFakeConn(replies ...string) *FakeConn {
	return &FakeConn{
		readBuf:  bytes.NewBufferString(strings.Join(replies, "")),
		writeBuf: &bytes.Buffer{},
	}
}

func (c *FakeConn) Read(b []byte) (n int, err error) {
	return c.readBuf.Read(b)
}

func (c *FakeConn) Write(b []byte) (n int, err error) {
	return c.writeBuf.Write(b)
}

func (c *FakeConn) Close() error {
	return nil
}

func (c *FakeConn) LocalAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 0}
}

func (c *FakeConn) RemoteAddr() net.Addr {
	return &net.TCPAddr{IP: net.IPv4(127, 0, 0, 1), Port: 6379}
}

func (c *FakeConn) SetDeadline(t time.Time) error      { return nil }
func (c *FakeConn) SetReadDeadline(t time.Time) error  { return nil }
func (c *FakeConn) SetWriteDeadline(t time.Time) error { return nil }

// Written returns the raw bytes written to the connection so far.
func (c *FakeConn) Written() string {
	return c.writeBuf.String()
}
