package profiler

import (
	"time"

	"github.com/sirupsen/logrus"
)

// ProfilerBuilderOption is a functional option for configuring a Profiler.
type ProfilerBuilderOption func(*Profiler)

// WithInterval sets how often the profiler logs. Non-positive values are ignored.
//
// Parameters:
//   - interval: the time between log lines
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithInterval(interval time.Duration) ProfilerBuilderOption {
	return func(p *Profiler) {
		if interval > 0 {
			p.updateInterval = interval
		}
	}
}

// WithLogger routes profiler output through the given entry.
//
// Parameters:
//   - logger: the entry to log through
//
// Returns:
//   - ProfilerBuilderOption: option function to apply
func WithLogger(logger *logrus.Entry) ProfilerBuilderOption {
	return func(p *Profiler) {
		if logger != nil {
			p.log = logger.WithField("component", "profiler")
		}
	}
}

// withClock replaces the time source. Used by tests.
func withClock(now func() time.Time) ProfilerBuilderOption {
	return func(p *Profiler) {
		p.now = now
	}
}
