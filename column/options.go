package column

import (
	"log/slog"
	"time"
)

// DefaultGrowthFactor is the over-allocation multiplier applied by EnsureCapacity.
const DefaultGrowthFactor = 10

// GrowEvent describes one attempt to replace a column's backing segment.
type GrowEvent struct {
	Column   string
	FromRows int
	ToRows   int // requested rows on failure, actual capacity on success
	Bytes    int // size of the new segment; 0 on failure
	Duration time.Duration
	Err      error
}

// GrowObserver receives grow events, e.g. to feed metrics.
type GrowObserver interface {
	ObserveGrow(GrowEvent)
}

// GrowObserverFunc adapts a function to GrowObserver.
type GrowObserverFunc func(GrowEvent)

// ObserveGrow implements GrowObserver.
func (f GrowObserverFunc) ObserveGrow(e GrowEvent) { f(e) }

type options struct {
	name         string
	growthFactor int
	logger       *slog.Logger
	observer     GrowObserver
}

// Option configures a Column.
type Option func(*options)

// WithName sets the name used in logs, errors and events.
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithGrowthFactor overrides DefaultGrowthFactor for this column.
// Values below 1 keep the default; 1 grows to exactly the requested rows.
func WithGrowthFactor(factor int) Option {
	return func(o *options) {
		if factor >= 1 {
			o.growthFactor = factor
		}
	}
}

// WithLogger sets the logger. Growth is logged at debug level and failed
// growth at error level. A nil logger disables logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithGrowObserver registers an observer for grow events.
func WithGrowObserver(obs GrowObserver) Option {
	return func(o *options) {
		o.observer = obs
	}
}
