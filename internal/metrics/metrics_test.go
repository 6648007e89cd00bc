package metrics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSnapshotCounts(t *testing.T) {
	c := NewCollector(100)

	c.Record(10*time.Millisecond, 200)
	c.Record(20*time.Millisecond, 200)
	c.Record(30*time.Millisecond, 404)
	c.Record(40*time.Millisecond, 500)

	stats := c.Snapshot()
	assert.Equal(t, uint64(4), stats.TotalRequests)
	assert.Equal(t, uint64(2), stats.TotalErrors)
	assert.Equal(t, 0.5, stats.ErrorRate)
	assert.Equal(t, uint64(2), stats.StatusCounts[200])
	assert.Equal(t, uint64(1), stats.StatusCounts[404])
}

func TestSnapshotEmpty(t *testing.T) {
	c := NewCollector(10)
	stats := c.Snapshot()
	assert.Zero(t, stats.TotalRequests)
	assert.Equal(t, "0s", stats.P50Latency)
}

func TestLatencyWindowSlides(t *testing.T) {
	c := NewCollector(2)
	c.Record(time.Millisecond, 200)
	c.Record(2*time.Millisecond, 200)
	c.Record(3*time.Millisecond, 200)

	// Window holds the two most recent samples; counts keep growing.
	stats := c.Snapshot()
	assert.Equal(t, uint64(3), stats.TotalRequests)
	assert.Equal(t, "3ms", stats.P99Latency)
}
