package redis

import (
	"errors"
	"net"
	"sync/atomic"
	"time"

	"github.com/pior/redisinline/resp"
)

var errNotConnected = errors.New("redis: not connected")

// ensureConnected dials and handshakes if the connection is currently
// absent (spec §4.5's reconnect-on-use). Concurrent callers that all
// observe a missing connection collapse into a single dial via
// connectGroup, so N callers racing to reconnect produce one TCP connect
// instead of N.
func (c *Client) ensureConnected() error {
	stopped := make(chan bool, 1)
	c.reqCh <- func() { stopped <- c.stopped }
	if <-stopped {
		return ErrClosed
	}
	if c.connected.Load() {
		return nil
	}
	_, err, _ := c.connectGroup.Do("connect", func() (any, error) {
		return nil, c.connectOnce()
	})
	return err
}

// connectOnce performs one dial-and-handshake attempt. It runs on whichever
// caller goroutine won the singleflight race; all mutation of actor-owned
// fields is still funneled through reqCh so the actor goroutine remains the
// sole writer of connection state.
func (c *Client) connectOnce() error {
	if c.connected.Load() {
		return nil
	}

	var currentDB string
	done0 := make(chan struct{})
	c.reqCh <- func() {
		currentDB = c.dbIndex
		close(done0)
	}
	<-done0

	start := time.Now()
	conn, err := net.DialTimeout(c.cfg.network(), c.cfg.address(), c.cfg.Timeout)
	if err != nil {
		c.logger.Warn("connect failed", "addr", c.cfg.address(), "err", err)
		return &SocketError{Reason: err}
	}
	if tc, ok := conn.(*net.TCPConn); ok {
		_ = tc.SetNoDelay(true)
	}
	_ = conn.SetWriteDeadline(time.Now().Add(c.cfg.Timeout))

	gen := atomic.AddUint64(&c.readerGen, 1)
	needSelect := currentDB != "0"
	var resultCh chan Result
	if needSelect {
		resultCh = make(chan Result, 1)
	}

	var installErr error
	done := make(chan struct{})
	c.reqCh <- func() {
		defer close(done)
		c.conn = conn
		c.stopped = false
		if !needSelect {
			return
		}
		selectCmd := encodeScall("SELECT", []string{currentDB})
		if werr := c.writeLocked(selectCmd); werr != nil {
			installErr = werr
			resultCh <- Result{Err: werr}
			return
		}
		c.pending.PushBack(&pendingCall{kind: pendingSync, resultCh: resultCh, selectDB: currentDB})
		c.stats.setPendingDepth(c.pending.Len())
	}
	<-done
	if installErr != nil {
		conn.Close()
		return installErr
	}

	c.connected.Store(true)
	go c.readLoop(conn, gen)

	if needSelect {
		res := <-resultCh
		if res.Err != nil {
			c.disconnectAfterFailedHandshake()
			return res.Err
		}
		if !res.Value.IsOK() {
			err := &ProtocolError{Reason: errors.New("SELECT did not return OK")}
			c.disconnectAfterFailedHandshake()
			return err
		}
	}

	c.stats.recordReconnect(time.Since(start))
	c.logger.Debug("connected", "addr", c.cfg.address(), "db", currentDB)
	return nil
}

// disconnectAfterFailedHandshake tears the half-open connection back down
// when the post-connect SELECT replay fails.
func (c *Client) disconnectAfterFailedHandshake() {
	done := make(chan struct{})
	c.reqCh <- func() {
		defer close(done)
		c.teardownLocked(ErrClosed)
	}
	<-done
}

// readLoop owns the socket for reading: it is the one place the actor model
// blocks on socket I/O outside the actor goroutine itself (spec §5), feeding
// fully-assembled reply values back to the actor one at a time over reqCh.
// gen lets the actor ignore stray deliveries from a reader superseded by a
// later reconnect.
func (c *Client) readLoop(conn net.Conn, gen uint64) {
	framer := resp.NewFramer(conn)
	for {
		v, err := resp.ReadValue(framer)
		if err != nil {
			c.reqCh <- func() {
				if gen != atomic.LoadUint64(&c.readerGen) {
					return
				}
				c.logger.Warn("connection read failed", "err", err)
				c.teardownLocked(classify(err))
			}
			return
		}
		c.reqCh <- func() {
			if gen != atomic.LoadUint64(&c.readerGen) {
				return
			}
			c.onReply(v)
		}
	}
}

// teardownLocked closes the socket (if any), fails every pending caller with
// err, and resets connection state so the next Send/SendAsync reconnects.
// Actor-only: must run inside a reqCh closure.
func (c *Client) teardownLocked(err error) {
	if c.conn != nil {
		if closer, ok := c.conn.(interface{ Close() error }); ok {
			_ = closer.Close()
		}
		c.conn = nil
	}
	c.connected.Store(false)
	atomic.AddUint64(&c.readerGen, 1)
	if _, ok := err.(*ProtocolError); ok {
		c.stats.protocolError()
	}

	for e := c.pending.Front(); e != nil; e = e.Next() {
		pc := e.Value.(*pendingCall)
		if pc.kind == pendingSync {
			select {
			case pc.resultCh <- Result{Err: err}:
			default:
			}
		}
	}
	c.pending.Init()
	c.results = nil
	if c.deferred != nil {
		c.deferred <- collectResult{err: err}
		c.deferred = nil
	}
	c.stats.setPendingDepth(0)
}

// classify maps a raw error from the resp package into the taxonomy of
// errors.go: a malformed-wire error is a ProtocolError, anything else
// (connection refused, reset, EOF, timeout) is a SocketError.
func classify(err error) error {
	var malformed *resp.MalformedError
	if errors.As(err, &malformed) {
		return &ProtocolError{Reason: err}
	}
	return &SocketError{Reason: err}
}
