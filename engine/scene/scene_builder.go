package scene

import (
	"github.com/Carmen-Shannon/oxy-spatial/common"
	"github.com/Carmen-Shannon/oxy-spatial/engine/game_object"
	"github.com/Carmen-Shannon/oxy-spatial/engine/light"
	"github.com/Carmen-Shannon/oxy-spatial/engine/profiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// SceneBuilderOption is a functional option for configuring a Scene.
// Use the With* functions to create options.
type SceneBuilderOption func(s *scene)

// WithActive sets whether the scene is active for rendering.
//
// Parameters:
//   - active: whether the scene is active
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithActive(active bool) SceneBuilderOption {
	return func(s *scene) {
		s.active = active
	}
}

// WithRegionSize sets the edge length of every region's root cube. Zero keeps DefaultRegionSize;
// negative sizes make NewScene panic.
//
// Parameters:
//   - size: the region edge length
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRegionSize(size float32) SceneBuilderOption {
	return func(s *scene) {
		s.regionSize = common.Coalesce(size, DefaultRegionSize)
	}
}

// WithMaxDepth sets how many levels each region tree may subdivide. Negative values are clamped to 0.
//
// Parameters:
//   - depth: the maximum depth below each region root
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithMaxDepth(depth int) SceneBuilderOption {
	return func(s *scene) {
		s.maxDepth = max(depth, 0)
	}
}

// WithRegions sets the centers of the scene's regions. Each region gets its own octree and is
// culled by its own worker task. Objects are routed to the region containing their center, or to
// the nearest region when none does.
//
// Parameters:
//   - origins: the region centers
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithRegions(origins ...mgl32.Vec3) SceneBuilderOption {
	return func(s *scene) {
		s.origins = append(s.origins, origins...)
	}
}

// WithCullWorkers sets the number of worker goroutines used to cull regions in parallel.
// Defaults to runtime.NumCPU()-1. More workers than regions buys nothing.
//
// Parameters:
//   - n: the number of cull workers (minimum 1)
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithCullWorkers(n int) SceneBuilderOption {
	return func(s *scene) {
		if n < 1 {
			n = 1
		}
		s.cullWorkers = n
	}
}

// WithObjects adds initial objects to the scene once its regions are built.
// Objects without IDs will be assigned new IDs.
// Non-ephemeral objects are persisted in the registry; attached lights are added with them.
//
// Parameters:
//   - objects: the objects to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithObjects(objects ...game_object.GameObject) SceneBuilderOption {
	return func(s *scene) {
		s.pendingObjects = append(s.pendingObjects, objects...)
	}
}

// WithLights adds initial lights to the scene once its regions are built.
//
// Parameters:
//   - lights: the lights to add
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLights(lights ...light.Light) SceneBuilderOption {
	return func(s *scene) {
		s.pendingLights = append(s.pendingLights, lights...)
	}
}

// WithProfiling feeds every Cull's stats to a profiler that logs through the scene's logger.
//
// Parameters:
//   - enabled: true to profile culling passes
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithProfiling(enabled bool) SceneBuilderOption {
	return func(s *scene) {
		s.profiling = enabled
	}
}

// WithProfiler feeds every Cull's stats to the given profiler. Implies WithProfiling(true).
//
// Parameters:
//   - p: the profiler to tick
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithProfiler(p *profiler.Profiler) SceneBuilderOption {
	return func(s *scene) {
		s.profiler = p
		s.profiling = p != nil
	}
}

// WithLogger routes scene and region tree logs through the given entry.
//
// Parameters:
//   - logger: the entry to log through
//
// Returns:
//   - SceneBuilderOption: option function to apply
func WithLogger(logger *logrus.Entry) SceneBuilderOption {
	return func(s *scene) {
		if logger != nil {
			s.log = logger.WithField("component", "scene")
		}
	}
}
