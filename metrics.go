package featcol

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/featcol/column"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
//
// Example Prometheus integration:
//
//	type PrometheusCollector struct {
//	    growCounter       *prometheus.CounterVec
//	    snapshotHistogram prometheus.Histogram
//	}
//
//	func (p *PrometheusCollector) RecordGrow(col string, from, to int, d time.Duration, err error) {
//	    p.growCounter.WithLabelValues(col).Inc()
//	}
type MetricsCollector interface {
	// RecordGrow is called after every attempt to replace a column's
	// backing segment. to is the new capacity, or the requested rows if
	// err is non-nil.
	RecordGrow(column string, from, to int, duration time.Duration, err error)

	// RecordSnapshot is called after each snapshot upload. bytes is the
	// stored size including the header.
	RecordSnapshot(column string, bytes int64, duration time.Duration, err error)

	// RecordRestore is called after each restore.
	RecordRestore(column string, bytes int64, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
// Use this when metrics collection is not needed.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordGrow(string, int, int, time.Duration, error)   {}
func (NoopMetricsCollector) RecordSnapshot(string, int64, time.Duration, error) {}
func (NoopMetricsCollector) RecordRestore(string, int64, time.Duration, error)  {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	GrowCount          atomic.Int64
	GrowErrors         atomic.Int64
	GrowTotalNanos     atomic.Int64
	RowsAdded          atomic.Int64
	SnapshotCount      atomic.Int64
	SnapshotErrors     atomic.Int64
	SnapshotBytes      atomic.Int64
	SnapshotTotalNanos atomic.Int64
	RestoreCount       atomic.Int64
	RestoreErrors      atomic.Int64
	RestoreBytes       atomic.Int64
}

// RecordGrow implements MetricsCollector.
func (b *BasicMetricsCollector) RecordGrow(_ string, from, to int, duration time.Duration, err error) {
	b.GrowCount.Add(1)
	b.GrowTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.GrowErrors.Add(1)
		return
	}
	b.RowsAdded.Add(int64(to - from))
}

// RecordSnapshot implements MetricsCollector.
func (b *BasicMetricsCollector) RecordSnapshot(_ string, bytes int64, duration time.Duration, err error) {
	b.SnapshotCount.Add(1)
	b.SnapshotTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.SnapshotErrors.Add(1)
		return
	}
	b.SnapshotBytes.Add(bytes)
}

// RecordRestore implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRestore(_ string, bytes int64, _ time.Duration, err error) {
	b.RestoreCount.Add(1)
	if err != nil {
		b.RestoreErrors.Add(1)
		return
	}
	b.RestoreBytes.Add(bytes)
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		GrowCount:        b.GrowCount.Load(),
		GrowErrors:       b.GrowErrors.Load(),
		GrowAvgNanos:     avg(b.GrowTotalNanos.Load(), b.GrowCount.Load()),
		RowsAdded:        b.RowsAdded.Load(),
		SnapshotCount:    b.SnapshotCount.Load(),
		SnapshotErrors:   b.SnapshotErrors.Load(),
		SnapshotBytes:    b.SnapshotBytes.Load(),
		SnapshotAvgNanos: avg(b.SnapshotTotalNanos.Load(), b.SnapshotCount.Load()),
		RestoreCount:     b.RestoreCount.Load(),
		RestoreErrors:    b.RestoreErrors.Load(),
		RestoreBytes:     b.RestoreBytes.Load(),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	GrowCount        int64
	GrowErrors       int64
	GrowAvgNanos     int64
	RowsAdded        int64
	SnapshotCount    int64
	SnapshotErrors   int64
	SnapshotBytes    int64
	SnapshotAvgNanos int64
	RestoreCount     int64
	RestoreErrors    int64
	RestoreBytes     int64
}

// growRecorder forwards column grow events to a MetricsCollector.
type growRecorder struct {
	mc MetricsCollector
}

func (r growRecorder) ObserveGrow(e column.GrowEvent) {
	r.mc.RecordGrow(e.Column, e.FromRows, e.ToRows, e.Duration, e.Err)
}
