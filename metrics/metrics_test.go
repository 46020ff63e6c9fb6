package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

func TestCollectorObserveRoundTripAccumulates(t *testing.T) {
	t.Parallel()
	c := NewCollector(prometheus.Labels{"instance": "test"})
	c.ObserveRoundTrip(10 * time.Millisecond)
	c.ObserveRoundTrip(20 * time.Millisecond)

	if c.roundTrips != 2 {
		t.Fatalf("got %d round trips, want 2", c.roundTrips)
	}
	if c.roundTripSum != 30*time.Millisecond {
		t.Fatalf("got sum %v, want 30ms", c.roundTripSum)
	}
}

func TestCollectorByteCounters(t *testing.T) {
	t.Parallel()
	c := NewCollector(nil)
	c.AddBytesIn(100)
	c.AddBytesOut(50)
	c.AddBytesIn(25)

	if c.bytesIn != 125 {
		t.Fatalf("got bytesIn %d, want 125", c.bytesIn)
	}
	if c.bytesOut != 50 {
		t.Fatalf("got bytesOut %d, want 50", c.bytesOut)
	}
}

func TestCollectorGaugeSetters(t *testing.T) {
	t.Parallel()
	c := NewCollector(nil)
	c.SetActiveCursors(3)
	c.SetCleanupDepth(2)

	if c.activeCursors != 3 {
		t.Fatalf("got activeCursors %d, want 3", c.activeCursors)
	}
	if c.cleanupDepth != 2 {
		t.Fatalf("got cleanupDepth %d, want 2", c.cleanupDepth)
	}
}

func TestCollectorDescribeEmitsAllDescriptors(t *testing.T) {
	t.Parallel()
	c := NewCollector(nil)
	ch := make(chan *prometheus.Desc, 16)
	c.Describe(ch)
	close(ch)

	var n int
	for range ch {
		n++
	}
	if n != 6 {
		t.Fatalf("got %d descriptors, want 6", n)
	}
}

func TestCollectorCollectEmitsAllMetrics(t *testing.T) {
	t.Parallel()
	c := NewCollector(nil)
	c.ObserveRoundTrip(time.Millisecond)
	c.AddBytesIn(1)
	c.AddBytesOut(1)
	c.SetActiveCursors(1)
	c.SetCleanupDepth(1)

	ch := make(chan prometheus.Metric, 16)
	c.Collect(ch)
	close(ch)

	var n int
	for range ch {
		n++
	}
	if n != 6 {
		t.Fatalf("got %d metrics, want 6", n)
	}
}
