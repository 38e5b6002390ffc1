// Package redis implements a client for the Redis line/bulk wire protocol
// (RESP, inline dialect) over a single TCP or Unix-socket connection, with
// synchronous and pipelined request modes coexisting on the same
// connection.
package redis

import (
	"container/list"
	"strings"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/singleflight"

	"github.com/pior/redisinline/resp"
)

// Result is the outcome delivered to a synchronous caller: either a decoded
// reply value, or an error that is never a ServerError (server errors flow
// through as a Value of Kind Error, per spec §7's propagation policy).
type Result struct {
	Value resp.Value
	Err   error
}

type pendingKind int

const (
	pendingSync pendingKind = iota
	pendingAsync
)

// pendingCall is one entry of the pending-calls FIFO (spec §3): either a
// real reply handle for a synchronous caller, or the async sentinel meaning
// "accumulate into results, nobody is waiting." selectDB is non-empty when
// the command that produced this entry was a SELECT, so its completion can
// update the tracked database index for reconnect replay (spec §4.3).
type pendingCall struct {
	kind     pendingKind
	resultCh chan Result
	selectDB string
}

type collectResult struct {
	values []resp.Value
	err    error
}

// Client is a single-connection Redis client implementing the actor model
// of spec §5: one goroutine (run) owns the socket, the pending-calls FIFO,
// and the pipelining/results state exclusively, and is the only goroutine
// that ever mutates them. Every other goroutine — exported-method callers
// and the connection's read loop — communicates with it exclusively by
// sending a closure on reqCh, never by touching actor-owned fields
// directly. This is the Go-idiomatic reading of the teacher's
// mutex-protected pooledClient: a mailbox of closures instead of a lock.
type Client struct {
	cfg    Config
	logger *log.Logger
	stats  *Stats

	reqCh chan func()

	connected    atomic.Bool
	connectGroup singleflight.Group
	readerGen    uint64

	breaker *circuitBreaker

	// Fields below are mutated only inside closures run on reqCh — i.e.
	// only ever touched by the single goroutine executing run().
	conn       connWriter
	pending    *list.List
	pipelining bool
	results    []resp.Value
	deferred   chan collectResult
	dbIndex    string
	stopped    bool
}

// connWriter is the subset of the connected socket the actor writes
// through; kept as an interface so tests can substitute a mock without a
// real net.Conn.
type connWriter interface {
	Write(p []byte) (int, error)
}

// NewClient constructs a Client against cfg. No connection is made until
// the first Send/SendAsync call (reconnect-on-use, spec §4.5).
func NewClient(cfg Config) *Client {
	c := &Client{
		cfg:     cfg,
		logger:  log.Default().With("component", "redis"),
		stats:   newStats(),
		reqCh:   make(chan func(), 16),
		pending: list.New(),
		dbIndex: cfg.dbString(),
	}
	c.breaker = newCircuitBreaker(cfg.address())
	go c.run()
	return c
}

// run is the actor's main loop: it executes every closure handed to it by
// reqCh, one at a time, forever. Nothing else touches c's connection-state
// fields.
func (c *Client) run() {
	for fn := range c.reqCh {
		fn()
	}
}

// Send submits cmd synchronously and waits up to timeout for the decoded
// reply. A non-positive timeout waits forever, per spec §5 ("Infinity is a
// legal timeout"). If pipelining is enabled, Send behaves like SendAsync
// (spec §4.3) and returns a zero Value immediately once the write has been
// queued.
//
// A caller whose timeout elapses does NOT cancel the in-flight command:
// per spec §5 and §9, the FIFO slot remains and is silently consumed by the
// next inbound reply, which is then discarded because nobody is waiting.
func (c *Client) Send(cmd []byte, timeout time.Duration) (resp.Value, error) {
	return c.breaker.Execute(func() (resp.Value, error) {
		return c.sendSync(cmd, timeout)
	})
}

func (c *Client) sendSync(cmd []byte, timeout time.Duration) (resp.Value, error) {
	if err := c.ensureConnected(); err != nil {
		return resp.Value{}, err
	}

	resultCh := make(chan Result, 1)
	selectDB, isSelect := selectDBArg(cmd)

	done := make(chan struct{})
	var submitErr error
	c.reqCh <- func() {
		defer close(done)
		if c.stopped {
			submitErr = ErrClosed
			return
		}
		if err := c.writeLocked(cmd); err != nil {
			submitErr = err
			c.teardownLocked(err)
			return
		}
		pc := &pendingCall{kind: pendingSync, resultCh: resultCh}
		if isSelect {
			pc.selectDB = selectDB
		}
		if c.pipelining {
			pc.kind = pendingAsync
			resultCh <- Result{}
		}
		c.pending.PushBack(pc)
		c.stats.setPendingDepth(c.pending.Len())
	}
	<-done
	if submitErr != nil {
		return resp.Value{}, submitErr
	}

	if timeout <= 0 {
		res := <-resultCh
		return res.Value, res.Err
	}
	select {
	case res := <-resultCh:
		return res.Value, res.Err
	case <-time.After(timeout):
		return resp.Value{}, &TimeoutError{}
	}
}

// SendAsync enqueues cmd without waiting for a reply; only meaningful in
// pipelined mode (spec §4.3). The returned error reflects submission
// failures only (connect or write), never a server-side reply.
func (c *Client) SendAsync(cmd []byte) error {
	_, err := c.breaker.Execute(func() (resp.Value, error) {
		return resp.Value{}, c.sendAsyncInner(cmd)
	})
	return err
}

func (c *Client) sendAsyncInner(cmd []byte) error {
	if err := c.ensureConnected(); err != nil {
		return err
	}

	selectDB, isSelect := selectDBArg(cmd)

	done := make(chan struct{})
	var err error
	c.reqCh <- func() {
		defer close(done)
		if c.stopped {
			err = ErrClosed
			return
		}
		if werr := c.writeLocked(cmd); werr != nil {
			err = werr
			c.teardownLocked(werr)
			return
		}
		pc := &pendingCall{kind: pendingAsync}
		if isSelect {
			pc.selectDB = selectDB
		}
		c.pending.PushBack(pc)
		c.stats.setPendingDepth(c.pending.Len())
	}
	<-done
	return err
}

// SetPipelining toggles pipelined mode. Switching off while results are
// queued is legal; queued results remain collectible (spec §4.3).
func (c *Client) SetPipelining(enabled bool) {
	done := make(chan struct{})
	c.reqCh <- func() {
		defer close(done)
		c.pipelining = enabled
		c.stats.setPipelining(enabled)
	}
	<-done
}

// CollectAll returns all accumulated pipelined replies in submission order
// and drains the results buffer. If commands are still in flight, it blocks
// until the pending-calls FIFO drains (spec §4.3's deferred reply handle).
func (c *Client) CollectAll() ([]resp.Value, error) {
	resultCh := make(chan collectResult, 1)
	done := make(chan struct{})
	c.reqCh <- func() {
		defer close(done)
		if c.stopped {
			resultCh <- collectResult{err: ErrClosed}
			return
		}
		if c.pending.Len() == 0 {
			resultCh <- collectResult{values: c.results}
			c.results = nil
			return
		}
		c.deferred = resultCh
	}
	<-done
	res := <-resultCh
	return res.values, res.err
}

// Disconnect closes the socket after replying Error("closed") to every
// still-pending caller (spec §4.3, §4.5, §8 property 5). Safe to call on an
// already-disconnected Client.
func (c *Client) Disconnect() error {
	done := make(chan struct{})
	c.reqCh <- func() {
		defer close(done)
		c.stopped = true
		c.teardownLocked(ErrClosed)
	}
	<-done
	return nil
}

// writeLocked writes a fully-encoded command (including its CRLF
// terminator) to the socket. Actor-only: must run inside a reqCh closure.
func (c *Client) writeLocked(cmd []byte) error {
	if c.conn == nil {
		return &SocketError{Reason: errNotConnected}
	}
	if _, err := c.conn.Write(cmd); err != nil {
		c.logger.Warn("write failed", "addr", c.cfg.address(), "pending", c.pending.Len(), "err", err)
		return &SocketError{Reason: err}
	}
	c.stats.commandSent()
	return nil
}

// onReply matches a fully-assembled reply to the head of the pending-calls
// FIFO and delivers it, per spec §4.3's reply-delivery algorithm.
// Actor-only.
func (c *Client) onReply(v resp.Value) {
	elem := c.pending.Front()
	if elem == nil {
		c.logger.Warn("reply arrived with no pending caller, dropping", "value", v.String())
		return
	}
	c.pending.Remove(elem)
	pc := elem.Value.(*pendingCall)

	if pc.selectDB != "" && v.IsOK() {
		c.dbIndex = pc.selectDB
	}

	switch pc.kind {
	case pendingSync:
		select {
		case pc.resultCh <- Result{Value: v}:
		default:
			// Caller already gave up on timeout; its slot is consumed here
			// and the reply is discarded, per spec §5/§9.
		}
	case pendingAsync:
		c.results = append(c.results, v)
	}

	c.stats.replyDelivered()
	c.stats.setPendingDepth(c.pending.Len())

	if c.pending.Len() == 0 && c.deferred != nil {
		c.deferred <- collectResult{values: c.results}
		c.results = nil
		c.deferred = nil
	}
}

// selectDBArg reports whether cmd is a SELECT command and, if so, the
// database argument it names — used to track the current DB index for
// reconnect replay (spec §4.3, §4.5, §9).
func selectDBArg(cmd []byte) (string, bool) {
	fields := strings.Fields(strings.TrimRight(string(cmd), "\r\n"))
	if len(fields) != 2 || !strings.EqualFold(fields[0], "SELECT") {
		return "", false
	}
	return fields[1], true
}
