package profiler

import (
	"runtime"
	"time"

	"github.com/sirupsen/logrus"
)

// FrameStats describes the culling work done by a single frame pass.
type FrameStats struct {
	// Regions is the number of region trees culled.
	Regions int
	// Nodes is the number of live octree nodes after cleanup, summed over all regions.
	Nodes int
	// Pruned is the number of nodes removed by cleanup this frame.
	Pruned int
	// Objects is the number of visible objects returned.
	Objects int
	// Lights is the number of lights returned, global lights included.
	Lights int
	// Duration is the wall time of the pass.
	Duration time.Duration
}

// Profiler tracks frame rate, culling counts and memory statistics for performance monitoring.
// Outputs stats to the log at a configurable interval.
type Profiler struct {
	log *logrus.Entry
	now func() time.Time

	frameCount     int
	lastTime       time.Time
	updateInterval time.Duration
	memStats       runtime.MemStats
	lastGCCount    uint32
	lastTotalAlloc uint64

	objects  int
	lights   int
	pruned   int
	nodes    int
	cullTime time.Duration
}

// NewProfiler creates a new Profiler.
// Update interval defaults to 1 second.
//
// Parameters:
//   - options: functional options to configure the profiler
//
// Returns:
//   - *Profiler: the newly created profiler instance
func NewProfiler(options ...ProfilerBuilderOption) *Profiler {
	p := &Profiler{
		log:            logrus.WithField("component", "profiler"),
		now:            time.Now,
		updateInterval: time.Second,
	}
	for _, option := range options {
		option(p)
	}
	p.lastTime = p.now()
	return p
}

// Tick should be called once per frame with that frame's culling stats.
// Logs performance statistics when the update interval has elapsed.
// Statistics include: FPS, average visible objects and lights, node count, pruned nodes,
// average cull time, heap usage, allocation rate, GC count/pause times and total memory.
//
// Parameters:
//   - stats: the culling stats of the frame just finished
//
// Returns:
//   - bool: true if stats were logged this tick, false otherwise
func (p *Profiler) Tick(stats FrameStats) bool {
	p.frameCount++
	p.objects += stats.Objects
	p.lights += stats.Lights
	p.pruned += stats.Pruned
	p.nodes = stats.Nodes
	p.cullTime += stats.Duration

	currentTime := p.now()
	elapsed := currentTime.Sub(p.lastTime)
	if elapsed < p.updateInterval {
		return false
	}

	frames := float64(p.frameCount)
	fps := frames / elapsed.Seconds()

	runtime.ReadMemStats(&p.memStats)
	allocMB := float64(p.memStats.Alloc) / 1024 / 1024
	sysMB := float64(p.memStats.Sys) / 1024 / 1024
	allocRateMB := float64(p.memStats.TotalAlloc-p.lastTotalAlloc) / 1024 / 1024 / elapsed.Seconds()

	gcCount := p.memStats.NumGC
	var lastPauseUs, maxPauseUs uint64
	if gcCount > 0 {
		// PauseNs is a circular buffer of the last 256 pauses
		lastPauseUs = p.memStats.PauseNs[(gcCount-1)%256] / 1000

		startIdx := p.lastGCCount
		if gcCount-startIdx > 256 {
			startIdx = gcCount - 256
		}
		for i := startIdx; i < gcCount; i++ {
			if pause := p.memStats.PauseNs[i%256] / 1000; pause > maxPauseUs {
				maxPauseUs = pause
			}
		}
	}

	p.log.WithFields(logrus.Fields{
		"fps":         fps,
		"objects_avg": float64(p.objects) / frames,
		"lights_avg":  float64(p.lights) / frames,
		"nodes":       p.nodes,
		"pruned":      p.pruned,
		"cull_avg":    p.cullTime / time.Duration(p.frameCount),
		"heap_mb":     allocMB,
		"alloc_rate":  allocRateMB,
		"gc":          gcCount,
		"gc_last_us":  lastPauseUs,
		"gc_max_us":   maxPauseUs,
		"sys_mb":      sysMB,
	}).Infof("[Profiler] FPS: %.2f | Heap: %.2f MB | Alloc Rate: %.2f MB/s | GC: %d (last: %d µs, max: %d µs) | Sys: %.2f MB",
		fps, allocMB, allocRateMB, gcCount, lastPauseUs, maxPauseUs, sysMB)

	p.frameCount = 0
	p.objects, p.lights, p.pruned = 0, 0, 0
	p.cullTime = 0
	p.lastTime = currentTime
	p.lastGCCount = gcCount
	p.lastTotalAlloc = p.memStats.TotalAlloc
	return true
}
