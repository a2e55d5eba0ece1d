package profiler

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type fakeClock struct {
	t time.Time
}

func (c *fakeClock) now() time.Time {
	return c.t
}

func newTestProfiler(buf *bytes.Buffer, clock *fakeClock) *Profiler {
	logger := logrus.New()
	logger.SetOutput(buf)
	logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true, DisableColors: true})
	return NewProfiler(
		WithLogger(logrus.NewEntry(logger)),
		WithInterval(time.Second),
		withClock(clock.now),
	)
}

func TestTickLogsOncePerInterval(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newTestProfiler(&buf, clock)

	for range 3 {
		clock.t = clock.t.Add(300 * time.Millisecond)
		if p.Tick(FrameStats{Objects: 4, Lights: 2, Nodes: 9}) {
			t.Fatalf("Expected no log before the interval elapsed")
		}
	}
	if buf.Len() != 0 {
		t.Fatalf("Expected empty log, got %q", buf.String())
	}

	clock.t = clock.t.Add(100 * time.Millisecond)
	if !p.Tick(FrameStats{Objects: 4, Lights: 2, Nodes: 9, Pruned: 1}) {
		t.Fatalf("Expected a log line once the interval elapsed")
	}

	out := buf.String()
	for _, want := range []string{"[Profiler] FPS: 4.00", "component=profiler", "objects_avg=4", "lights_avg=2", "nodes=9", "pruned=1"} {
		if !strings.Contains(out, want) {
			t.Fatalf("Expected log to contain %q, got %q", want, out)
		}
	}
}

func TestTickResetsAccumulators(t *testing.T) {
	var buf bytes.Buffer
	clock := &fakeClock{t: time.Unix(0, 0)}
	p := newTestProfiler(&buf, clock)

	clock.t = clock.t.Add(time.Second)
	p.Tick(FrameStats{Objects: 10})
	buf.Reset()

	clock.t = clock.t.Add(time.Second)
	if !p.Tick(FrameStats{Objects: 2}) {
		t.Fatalf("Expected second interval to log")
	}
	if !strings.Contains(buf.String(), "objects_avg=2") {
		t.Fatalf("Expected averages from the second interval only, got %q", buf.String())
	}
}

func TestWithIntervalIgnoresNonPositive(t *testing.T) {
	p := NewProfiler(WithInterval(0))
	if p.updateInterval != time.Second {
		t.Fatalf("Expected default interval, got %v", p.updateInterval)
	}
}
