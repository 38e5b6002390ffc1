package redis

import "fmt"

// Error taxonomy per spec §7. SocketError and ProtocolError are fatal to
// the connection; ServerError is not an error returned from Send at all —
// it flows through as a normal resp.Value of Kind Error (see client.go) —
// but is kept here as a typed helper for callers that want to test for it
// via errors.As against the Go error a -prefixed reply's text carries when
// surfaced through other entry points (e.g. Info).
type SocketError struct {
	Reason error
}

func (e *SocketError) Error() string { return fmt.Sprintf("redis: socket error: %v", e.Reason) }
func (e *SocketError) Unwrap() error { return e.Reason }

type ProtocolError struct {
	Reason error
}

func (e *ProtocolError) Error() string { return fmt.Sprintf("redis: protocol error: %v", e.Reason) }
func (e *ProtocolError) Unwrap() error { return e.Reason }

type ServerError struct {
	Text string
}

func (e *ServerError) Error() string { return fmt.Sprintf("redis: server error %q", e.Text) }

// TimeoutError is returned to a synchronous caller whose timeout elapsed
// before a reply arrived. The in-flight command is not cancelled: its FIFO
// slot remains and will consume the next inbound reply (spec §5, §9).
type TimeoutError struct{}

func (e *TimeoutError) Error() string { return "redis: command timed out" }
func (e *TimeoutError) Timeout() bool { return true }

// ErrClosed is returned to every pending and future caller once the
// connection has been disconnected, per spec §3's Lifecycle and §7's
// Closed kind.
var ErrClosed = &closedError{}

type closedError struct{}

func (e *closedError) Error() string { return "closed" }

// IsFatal reports whether err should terminate the connection, mirroring
// the teacher's ErrorWithConnectionState/ShouldCloseConnection pattern
// (meta/errors.go) adapted to this module's two fatal kinds.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch err.(type) {
	case *SocketError, *ProtocolError:
		return true
	default:
		return false
	}
}
