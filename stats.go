package redis

import (
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// activityClock is a coarse, low-overhead wall clock for lastActivity:
// every command sent or reply delivered touches it, so a plain time.Now()
// (a syscall on most platforms) would be wasteful for a gauge that only
// needs roughly-current precision. One ticker goroutine per clock keeps a
// cached timestamp fresh; reads never block on it.
type activityClock struct {
	now atomic.Value // time.Time
}

func newActivityClock(resolution time.Duration) *activityClock {
	c := &activityClock{}
	c.now.Store(time.Now())
	ticker := time.NewTicker(resolution)
	go func() {
		for t := range ticker.C {
			c.now.Store(t)
		}
	}()
	return c
}

func (c *activityClock) Now() time.Time {
	return c.now.Load().(time.Time)
}

var clientActivityClock = newActivityClock(50 * time.Millisecond)

// Stats accumulates per-connection counters and gauges, grounded on the
// teacher's stats.go poolStatsCollector/clientStatsCollector pattern
// (atomic counters plus a snapshot), re-scoped from a pool of connections to
// this module's single connection: no pool-size gauges, and two gauges the
// teacher's doc comments suggested but never wired (pending-FIFO depth,
// pipelining on/off), wired here via Collector's implementation of
// prometheus.Collector.
type Stats struct {
	commandsSent     atomic.Int64
	repliesDelivered atomic.Int64
	reconnects       atomic.Int64
	protocolErrors   atomic.Int64

	pendingDepth atomic.Int64
	pipelining   atomic.Bool

	reconnectLatency atomic.Int64 // nanoseconds of the most recent reconnect

	lastActivity atomic.Value // time.Time, stamped via clientActivityClock
}

func newStats() *Stats {
	s := &Stats{}
	s.lastActivity.Store(clientActivityClock.Now())
	return s
}

func (s *Stats) commandSent()    { s.commandsSent.Add(1); s.touch() }
func (s *Stats) replyDelivered() { s.repliesDelivered.Add(1); s.touch() }
func (s *Stats) setPendingDepth(n int)      { s.pendingDepth.Store(int64(n)) }
func (s *Stats) setPipelining(enabled bool) { s.pipelining.Store(enabled) }
func (s *Stats) protocolError()             { s.protocolErrors.Add(1); s.touch() }
func (s *Stats) recordReconnect(d time.Duration) {
	s.reconnects.Add(1)
	s.reconnectLatency.Store(int64(d))
	s.touch()
}

func (s *Stats) touch() { s.lastActivity.Store(clientActivityClock.Now()) }

func (s *Stats) secondsSinceActivity() float64 {
	return time.Since(s.lastActivity.Load().(time.Time)).Seconds()
}

// Collector exposes a Client's Stats as Prometheus metrics. Construct with
// NewCollector and register it with a prometheus.Registerer.
type Collector struct {
	stats *Stats

	commandsSent     *prometheus.Desc
	repliesDelivered *prometheus.Desc
	reconnects       *prometheus.Desc
	protocolErrors   *prometheus.Desc
	pendingDepth     *prometheus.Desc
	pipelining       *prometheus.Desc
	reconnectLatency *prometheus.Desc
	lastActivity     *prometheus.Desc
}

// NewCollector wraps c's internal Stats as a prometheus.Collector, labeled
// by the configured server address.
func NewCollector(c *Client) *Collector {
	addr := c.cfg.address()
	labels := prometheus.Labels{"addr": addr}
	constLabels := prometheus.Labels{}
	for k, v := range labels {
		constLabels[k] = v
	}

	return &Collector{
		stats: c.stats,
		commandsSent: prometheus.NewDesc(
			"redis_client_commands_sent_total", "Total commands written to the socket.", nil, constLabels),
		repliesDelivered: prometheus.NewDesc(
			"redis_client_replies_delivered_total", "Total replies matched to a pending call.", nil, constLabels),
		reconnects: prometheus.NewDesc(
			"redis_client_reconnects_total", "Total successful (re)connect attempts.", nil, constLabels),
		protocolErrors: prometheus.NewDesc(
			"redis_client_protocol_errors_total", "Total fatal protocol violations observed.", nil, constLabels),
		pendingDepth: prometheus.NewDesc(
			"redis_client_pending_depth", "Current length of the pending-calls FIFO.", nil, constLabels),
		pipelining: prometheus.NewDesc(
			"redis_client_pipelining", "1 if pipelining mode is currently enabled.", nil, constLabels),
		reconnectLatency: prometheus.NewDesc(
			"redis_client_reconnect_latency_seconds", "Duration of the most recent successful (re)connect.", nil, constLabels),
		lastActivity: prometheus.NewDesc(
			"redis_client_seconds_since_activity", "Seconds since the last command was sent or reply delivered.", nil, constLabels),
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.commandsSent
	ch <- c.repliesDelivered
	ch <- c.reconnects
	ch <- c.protocolErrors
	ch <- c.pendingDepth
	ch <- c.pipelining
	ch <- c.reconnectLatency
	ch <- c.lastActivity
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	ch <- prometheus.MustNewConstMetric(c.commandsSent, prometheus.CounterValue, float64(c.stats.commandsSent.Load()))
	ch <- prometheus.MustNewConstMetric(c.repliesDelivered, prometheus.CounterValue, float64(c.stats.repliesDelivered.Load()))
	ch <- prometheus.MustNewConstMetric(c.reconnects, prometheus.CounterValue, float64(c.stats.reconnects.Load()))
	ch <- prometheus.MustNewConstMetric(c.protocolErrors, prometheus.CounterValue, float64(c.stats.protocolErrors.Load()))
	ch <- prometheus.MustNewConstMetric(c.pendingDepth, prometheus.GaugeValue, float64(c.stats.pendingDepth.Load()))

	pipeliningValue := 0.0
	if c.stats.pipelining.Load() {
		pipeliningValue = 1.0
	}
	ch <- prometheus.MustNewConstMetric(c.pipelining, prometheus.GaugeValue, pipeliningValue)
	ch <- prometheus.MustNewConstMetric(c.reconnectLatency, prometheus.GaugeValue,
		time.Duration(c.stats.reconnectLatency.Load()).Seconds())
	ch <- prometheus.MustNewConstMetric(c.lastActivity, prometheus.GaugeValue, c.stats.secondsSinceActivity())
}
