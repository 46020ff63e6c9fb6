// Package metrics exposes a single Connection's round-trip latency,
// byte counters, and cursor/cleanup bookkeeping as Prometheus metrics.
package metrics

import (
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Collector implements prometheus.Collector for one connection instance.
// It is safe for concurrent use; Observe* methods are called from the
// connection's I/O goroutine, Describe/Collect from whatever scrapes it.
type Collector struct {
	mu sync.Mutex

	constLabels prometheus.Labels

	roundTrips    uint64
	roundTripSum  time.Duration
	bytesIn       uint64
	bytesOut      uint64
	activeCursors int
	cleanupDepth  int

	roundTripCountDesc *prometheus.Desc
	roundTripSumDesc   *prometheus.Desc
	bytesInDesc        *prometheus.Desc
	bytesOutDesc       *prometheus.Desc
	activeCursorsDesc  *prometheus.Desc
	cleanupDepthDesc   *prometheus.Desc
}

// NewCollector creates a Collector labeled with constLabels, typically the
// connection's instance id and target host.
func NewCollector(constLabels prometheus.Labels) *Collector {
	return &Collector{
		constLabels: constLabels,
		roundTripCountDesc: prometheus.NewDesc(
			"oratncli_round_trips_total", "Number of request/response round trips sent on this connection.",
			nil, constLabels),
		roundTripSumDesc: prometheus.NewDesc(
			"oratncli_round_trip_seconds_total", "Cumulative round-trip latency observed on this connection.",
			nil, constLabels),
		bytesInDesc: prometheus.NewDesc(
			"oratncli_bytes_in_total", "Bytes read from the server on this connection.",
			nil, constLabels),
		bytesOutDesc: prometheus.NewDesc(
			"oratncli_bytes_out_total", "Bytes written to the server on this connection.",
			nil, constLabels),
		activeCursorsDesc: prometheus.NewDesc(
			"oratncli_active_cursors", "Number of server-side cursors currently open.",
			nil, constLabels),
		cleanupDepthDesc: prometheus.NewDesc(
			"oratncli_cleanup_queue_depth", "Number of cursor closes and temp LOB frees queued for the next piggyback.",
			nil, constLabels),
	}
}

// ObserveRoundTrip records one completed request/response cycle.
func (c *Collector) ObserveRoundTrip(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roundTrips++
	c.roundTripSum += d
}

// AddBytesIn adds n to the cumulative bytes-read counter.
func (c *Collector) AddBytesIn(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bytesIn += uint64(n) //nolint:gosec // payload sizes are bounded by SDU size
}

// AddBytesOut adds n to the cumulative bytes-written counter.
func (c *Collector) AddBytesOut(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.bytesOut += uint64(n) //nolint:gosec // payload sizes are bounded by SDU size
}

// SetActiveCursors records the current number of open server-side cursors.
func (c *Collector) SetActiveCursors(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.activeCursors = n
}

// SetCleanupDepth records the current depth of the cleanup queue.
func (c *Collector) SetCleanupDepth(n int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.cleanupDepth = n
}

func (c *Collector) Describe(descs chan<- *prometheus.Desc) {
	descs <- c.roundTripCountDesc
	descs <- c.roundTripSumDesc
	descs <- c.bytesInDesc
	descs <- c.bytesOutDesc
	descs <- c.activeCursorsDesc
	descs <- c.cleanupDepthDesc
}

func (c *Collector) Collect(metrics chan<- prometheus.Metric) {
	c.mu.Lock()
	roundTrips := c.roundTrips
	roundTripSum := c.roundTripSum
	bytesIn := c.bytesIn
	bytesOut := c.bytesOut
	activeCursors := c.activeCursors
	cleanupDepth := c.cleanupDepth
	c.mu.Unlock()

	metrics <- prometheus.MustNewConstMetric(c.roundTripCountDesc, prometheus.CounterValue, float64(roundTrips))
	metrics <- prometheus.MustNewConstMetric(c.roundTripSumDesc, prometheus.CounterValue, roundTripSum.Seconds())
	metrics <- prometheus.MustNewConstMetric(c.bytesInDesc, prometheus.CounterValue, float64(bytesIn))
	metrics <- prometheus.MustNewConstMetric(c.bytesOutDesc, prometheus.CounterValue, float64(bytesOut))
	metrics <- prometheus.MustNewConstMetric(c.activeCursorsDesc, prometheus.GaugeValue, float64(activeCursors))
	metrics <- prometheus.MustNewConstMetric(c.cleanupDepthDesc, prometheus.GaugeValue, float64(cleanupDepth))
}
