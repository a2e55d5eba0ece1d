package scene

import (
	"fmt"
	"runtime"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Carmen-Shannon/automation/tools/worker"
	"github.com/Carmen-Shannon/oxy-spatial/common"
	"github.com/Carmen-Shannon/oxy-spatial/engine/camera"
	"github.com/Carmen-Shannon/oxy-spatial/engine/game_object"
	"github.com/Carmen-Shannon/oxy-spatial/engine/light"
	"github.com/Carmen-Shannon/oxy-spatial/engine/octree"
	"github.com/Carmen-Shannon/oxy-spatial/engine/profiler"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultRegionSize is the edge length of each region's root cube.
	DefaultRegionSize float32 = 1000

	// DefaultMaxDepth is how many levels each region tree may subdivide.
	DefaultMaxDepth = 6
)

// Frame is the result of one culling pass.
type Frame struct {
	// Objects are the visible objects, each listed once.
	Objects []game_object.GameObject
	// Lights are the visible dynamic lights followed by the visible global lights, each listed once.
	// Static lights reach objects through their records instead.
	Lights []light.Light
	// Stats describes the work done by the pass.
	Stats profiler.FrameStats
}

// Scene owns a set of GameObjects and Lights, partitions them into one or more region octrees and
// produces the visible set for its Camera once per frame.
// Scenes can be hot-swapped via the Active flag to switch between different views or levels.
// Thread-safe for concurrent access; only one culling pass runs at a time.
type Scene interface {
	// Name returns the scene's identifier.
	Name() string

	// SetName sets the scene's identifier.
	SetName(name string)

	// Active returns whether this scene is currently active for rendering.
	Active() bool

	// SetActive sets whether this scene is active for rendering.
	SetActive(active bool)

	// Camera returns the scene's camera.
	Camera() camera.Camera

	// SetCamera replaces the scene's camera. Nil is ignored.
	//
	// Parameters:
	//   - cam: the new camera
	SetCamera(cam camera.Camera)

	// Add inserts an object into the region containing its center and returns its ID.
	// Objects without an ID are assigned one. Non-ephemeral objects are persisted in the registry.
	// An attached light is added along with the object.
	//
	// Parameters:
	//   - obj: the object to add
	//
	// Returns:
	//   - uint64: the object's ID
	Add(obj game_object.GameObject) uint64

	// Get returns the object with the given ID, ephemeral or not, or nil.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - game_object.GameObject: the object or nil
	Get(id uint64) game_object.GameObject

	// Remove takes the object with the given ID, and its attached light, out of the scene.
	//
	// Parameters:
	//   - id: the object ID
	//
	// Returns:
	//   - bool: false if no such object exists
	Remove(id uint64) bool

	// Move sets the object's position and re-routes it, and its attached light, through the trees.
	//
	// Parameters:
	//   - id: the object ID
	//   - x, y, z: the new world-space center
	//
	// Returns:
	//   - bool: false if no such object exists
	Move(id uint64, x, y, z float32) bool

	// Count returns the number of non-ephemeral objects.
	Count() int

	// CountEphemeral returns the number of ephemeral objects.
	CountEphemeral() int

	// Clear removes every object and light from the scene. Region trees are kept.
	Clear()

	// AddLight adds a light to the scene. Global lights are kept scene-wide and never enter a tree.
	//
	// Parameters:
	//   - l: the light to add
	AddLight(l light.Light)

	// RemoveLight removes a light from the scene and from the tree holding it.
	//
	// Parameters:
	//   - l: the light to remove
	RemoveLight(l light.Light)

	// UpdateLight re-routes a light after its position, range or method changed.
	//
	// Parameters:
	//   - l: the light that changed
	UpdateLight(l light.Light)

	// Lights returns every non-ephemeral light in the scene, attached lights included.
	//
	// Returns:
	//   - []light.Light: a copy of the light list
	Lights() []light.Light

	// Cull runs one frame pass: it updates the camera, extracts its frustum and, on the worker pool,
	// resets, queries and cleans every region tree. The per-region results are merged into a Frame.
	//
	// Returns:
	//   - Frame: the visible objects and lights
	Cull() Frame

	// CullAsync runs Cull off the calling goroutine. The returned channel yields exactly one Frame
	// and is then closed.
	//
	// Returns:
	//   - <-chan Frame: the channel the frame is delivered on
	CullAsync() <-chan Frame

	// Trees returns the region trees in region order, for overlays and diagnostics.
	// The trees must not be used while a pass is running.
	//
	// Returns:
	//   - []octree.Tree: the region trees
	Trees() []octree.Tree

	// Inspect runs fn with the scene locked so the region trees can be read while other goroutines
	// keep moving objects. fn must not call back into the scene.
	//
	// Parameters:
	//   - fn: receives the region trees in region order
	Inspect(fn func(trees []octree.Tree))

	// Close stops the scene's worker pools. Cull still works afterwards but runs serially.
	// A CullAsync frame still queued when Close runs is never delivered.
	Close()
}

// region is one independently culled slice of the world.
type region struct {
	origin mgl32.Vec3
	bounds common.AABB
	tree   octree.Tree
}

// regionResult is what a single region task hands back to the frame pass.
type regionResult struct {
	hits   octree.Hits
	pruned int
	nodes  int
}

// frameViewer gives a region task the frame's eye position and its own copy of the frustum.
type frameViewer struct {
	eye     mgl32.Vec3
	frustum common.Frustum
}

func (v *frameViewer) Position() mgl32.Vec3 {
	return v.eye
}

func (v *frameViewer) Frustum() *common.Frustum {
	return &v.frustum
}

type scene struct {
	mu *sync.RWMutex

	name   string
	active bool
	cam    camera.Camera

	regionSize float32
	maxDepth   int
	origins    []mgl32.Vec3
	regions    []*region
	placement  map[octree.Entity]*region // which region tree holds each object or light

	registry map[uint64]game_object.GameObject // non-ephemeral objects by ID
	live     map[uint64]game_object.GameObject // every object by ID
	nextID   uint64

	lights  []light.Light // non-ephemeral lights, attached lights included
	globals []light.Light // global lights, ephemeral ones included
	owned   map[light.Light]struct{}

	// Objects and lights handed to WithObjects/WithLights before the regions exist.
	pendingObjects []game_object.GameObject
	pendingLights  []light.Light

	// cullPool runs one task per region each frame. Workers persist across frames.
	cullPool    worker.DynamicWorkerPool
	cullWorkers int
	// framePool runs CullAsync passes so the caller never blocks on the frame barrier.
	framePool worker.DynamicWorkerPool
	frameTask int64
	closed    bool

	profiling bool
	profiler  *profiler.Profiler
	log       *logrus.Entry
}

// Ensure scene implements Scene interface.
var _ Scene = &scene{}

// NewScene creates a new Scene viewed through cam. The camera is required and NewScene panics if it
// is nil. Without WithRegions the scene has a single region centered on the origin.
//
// Parameters:
//   - name: the name of the scene
//   - cam: the camera to cull against (must not be nil)
//   - options: functional options to further configure the scene
//
// Returns:
//   - Scene: the newly created scene
func NewScene(name string, cam camera.Camera, options ...SceneBuilderOption) Scene {
	if cam == nil {
		panic("scene: NewScene requires a non-nil Camera")
	}

	s := &scene{
		mu:          &sync.RWMutex{},
		name:        name,
		cam:         cam,
		regionSize:  DefaultRegionSize,
		maxDepth:    DefaultMaxDepth,
		placement:   make(map[octree.Entity]*region),
		registry:    make(map[uint64]game_object.GameObject),
		live:        make(map[uint64]game_object.GameObject),
		owned:       make(map[light.Light]struct{}),
		nextID:      1,
		cullWorkers: max(runtime.NumCPU()-1, 1),
		log:         logrus.WithField("component", "scene"),
	}

	for _, option := range options {
		option(s)
	}

	if s.regionSize <= 0 {
		panic(fmt.Sprintf("scene: NewScene requires a positive region size, got %v", s.regionSize))
	}
	if len(s.origins) == 0 {
		s.origins = []mgl32.Vec3{{0, 0, 0}}
	}
	half := s.regionSize / 2
	for _, origin := range s.origins {
		s.regions = append(s.regions, &region{
			origin: origin,
			bounds: common.NewAABB(origin, mgl32.Vec3{half, half, half}),
			tree:   octree.NewTree(s.regionSize, s.maxDepth, octree.WithPosition(origin), octree.WithLogger(s.log)),
		})
	}

	// Queue size of 256 covers typical region counts with headroom.
	s.cullPool = worker.NewDynamicWorkerPool(s.cullWorkers, 256, 1*time.Second)
	s.framePool = worker.NewDynamicWorkerPool(1, 4, 1*time.Second)

	if s.profiling && s.profiler == nil {
		s.profiler = profiler.NewProfiler(profiler.WithLogger(s.log))
	}

	for _, obj := range s.pendingObjects {
		s.add(obj)
	}
	for _, l := range s.pendingLights {
		s.addLight(l)
	}
	s.pendingObjects, s.pendingLights = nil, nil

	s.log.WithFields(logrus.Fields{
		"scene":   name,
		"regions": len(s.regions),
		"size":    s.regionSize,
		"depth":   s.maxDepth,
		"workers": s.cullWorkers,
	}).Debug("scene created")

	return s
}

func (s *scene) Name() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.name
}

func (s *scene) SetName(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.name = name
}

func (s *scene) Active() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.active
}

func (s *scene) SetActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.active = active
}

func (s *scene) Camera() camera.Camera {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cam
}

func (s *scene) SetCamera(cam camera.Camera) {
	if cam == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cam = cam
}

func (s *scene) Add(obj game_object.GameObject) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.add(obj)
}

func (s *scene) Get(id uint64) game_object.GameObject {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.live[id]
}

func (s *scene) Remove(id uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, exists := s.live[id]
	if !exists {
		return false
	}

	delete(s.live, id)
	delete(s.registry, id)
	s.unplace(obj)

	if l := obj.AttachedLight(); l != nil {
		s.removeLight(l)
	}
	return true
}

func (s *scene) Move(id uint64, x, y, z float32) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	obj, exists := s.live[id]
	if !exists {
		return false
	}

	obj.SetPosition(mgl32.Vec3{x, y, z})
	s.place(obj)
	if l := obj.AttachedLight(); l != nil {
		s.placeLight(l)
	}
	return true
}

func (s *scene) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.registry)
}

func (s *scene) CountEphemeral() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.live) - len(s.registry)
}

func (s *scene) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	// Every record is detached so the objects and lights can be added to another scene.
	for e, r := range s.placement {
		r.tree.RemoveEverywhere(e)
	}
	for _, r := range s.regions {
		r.tree.Cleanup()
	}

	s.placement = make(map[octree.Entity]*region)
	s.registry = make(map[uint64]game_object.GameObject)
	s.live = make(map[uint64]game_object.GameObject)
	s.owned = make(map[light.Light]struct{})
	s.lights = nil
	s.globals = nil
}

func (s *scene) AddLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.addLight(l)
}

func (s *scene) RemoveLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removeLight(l)
}

func (s *scene) UpdateLight(l light.Light) {
	if l == nil {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.owned[l]; ok {
		s.placeLight(l)
	}
}

func (s *scene) Lights() []light.Light {
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make([]light.Light, len(s.lights))
	copy(result, s.lights)
	return result
}

func (s *scene) Cull() Frame {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()

	s.cam.Update()
	eye := s.cam.Position()
	frustum := s.cam.Frustum()

	// Each region tree is touched by exactly one task. A WaitGroup provides the per-frame barrier
	// since pool.Wait() waits on the whole pool rather than this frame's tasks.
	results := make([]regionResult, len(s.regions))
	var wg sync.WaitGroup
	for i, r := range s.regions {
		viewer := &frameViewer{eye: eye, frustum: *frustum}
		task := func() {
			r.tree.ResetNodeVisibility()
			hits := r.tree.FrustumHits(viewer)
			pruned := r.tree.Cleanup()
			results[i] = regionResult{hits: hits, pruned: pruned, nodes: r.tree.NodeCount()}
		}

		if s.closed {
			task()
			continue
		}

		wg.Add(1)
		s.cullPool.SubmitTask(worker.Task{
			ID:      i,
			Payload: r.origin,
			Do: func() (any, error) {
				defer wg.Done()
				task()
				return nil, nil
			},
		})
	}
	wg.Wait()

	frame := s.merge(results)
	frame.Stats.Regions = len(s.regions)
	frame.Stats.Duration = time.Since(start)

	if s.profiler != nil {
		s.profiler.Tick(frame.Stats)
	}
	return frame
}

func (s *scene) CullAsync() <-chan Frame {
	ch := make(chan Frame, 1)

	s.mu.RLock()
	closed := s.closed
	s.mu.RUnlock()

	if closed {
		go func() {
			ch <- s.Cull()
			close(ch)
		}()
		return ch
	}

	s.framePool.SubmitTask(worker.Task{
		ID: int(atomic.AddInt64(&s.frameTask, 1)),
		Do: func() (any, error) {
			ch <- s.Cull()
			close(ch)
			return nil, nil
		},
	})
	return ch
}

func (s *scene) Trees() []octree.Tree {
	s.mu.RLock()
	defer s.mu.RUnlock()
	trees := make([]octree.Tree, len(s.regions))
	for i, r := range s.regions {
		trees[i] = r.tree
	}
	return trees
}

func (s *scene) Inspect(fn func(trees []octree.Tree)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	trees := make([]octree.Tree, len(s.regions))
	for i, r := range s.regions {
		trees[i] = r.tree
	}
	fn(trees)
}

func (s *scene) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.cullPool.Stop()
	s.framePool.Stop()
}

// merge folds the per-region hits into a Frame. Caller must hold s.mu write lock.
func (s *scene) merge(results []regionResult) Frame {
	var frame Frame
	seenObjects := make(map[octree.Entity]struct{})
	seenLights := make(map[octree.Light]struct{})

	for _, res := range results {
		frame.Stats.Nodes += res.nodes
		frame.Stats.Pruned += res.pruned

		for _, e := range res.hits.Objects {
			if _, seen := seenObjects[e]; seen {
				continue
			}
			seenObjects[e] = struct{}{}
			e.Record().SetDrawnThisFrame(false)
			if obj, ok := e.(game_object.GameObject); ok {
				frame.Objects = append(frame.Objects, obj)
			}
		}
		for _, l := range res.hits.Lights {
			if _, seen := seenLights[l]; seen {
				continue
			}
			seenLights[l] = struct{}{}
			if ll, ok := l.(light.Light); ok {
				frame.Lights = append(frame.Lights, ll)
			}
		}
	}

	for _, l := range s.globals {
		if !l.Visible() {
			continue
		}
		if _, seen := seenLights[l]; seen {
			continue
		}
		seenLights[l] = struct{}{}
		frame.Lights = append(frame.Lights, l)
	}

	frame.Stats.Objects = len(frame.Objects)
	frame.Stats.Lights = len(frame.Lights)
	return frame
}

// add registers and places obj. Caller must hold s.mu write lock.
func (s *scene) add(obj game_object.GameObject) uint64 {
	if obj == nil {
		panic("scene: cannot Add a nil GameObject")
	}

	if obj.ID() == 0 {
		obj.SetID(atomic.AddUint64(&s.nextID, 1) - 1)
	}

	if prev, exists := s.live[obj.ID()]; exists && prev != obj {
		panic(fmt.Sprintf("scene: an object with ID %d is already in scene %q", obj.ID(), s.name))
	}

	s.live[obj.ID()] = obj
	if !obj.Ephemeral() {
		s.registry[obj.ID()] = obj
	}
	s.place(obj)

	if l := obj.AttachedLight(); l != nil {
		s.addLight(l)
	}
	return obj.ID()
}

// addLight tracks l and places it unless it is global. Caller must hold s.mu write lock.
func (s *scene) addLight(l light.Light) {
	if _, exists := s.owned[l]; exists {
		s.placeLight(l)
		return
	}
	s.owned[l] = struct{}{}
	if !l.Ephemeral() {
		s.lights = append(s.lights, l)
	}
	s.placeLight(l)
}

// removeLight untracks l and takes it out of its tree. Caller must hold s.mu write lock.
func (s *scene) removeLight(l light.Light) {
	if _, exists := s.owned[l]; !exists {
		return
	}
	delete(s.owned, l)
	s.lights = dropLight(s.lights, l)
	s.globals = dropLight(s.globals, l)
	s.unplace(l)
}

// placeLight routes l into a tree, or out of every tree when it is global.
// Caller must hold s.mu write lock.
func (s *scene) placeLight(l light.Light) {
	if l.Method() == octree.LightMethodGlobal {
		s.unplace(l)
		if !slices.Contains(s.globals, l) {
			s.globals = append(s.globals, l)
		}
		return
	}
	s.globals = dropLight(s.globals, l)
	s.place(l)
}

// place routes e into the region containing its center, moving it between trees when needed.
// Caller must hold s.mu write lock.
func (s *scene) place(e octree.Entity) {
	target := s.regionFor(e.AABB())

	if cur, placed := s.placement[e]; placed {
		if cur == target {
			cur.tree.Update(e)
			return
		}
		cur.tree.RemoveEverywhere(e)
	}

	if l, ok := e.(octree.Light); ok {
		target.tree.InsertLight(l)
	} else {
		target.tree.Insert(e)
	}
	s.placement[e] = target
}

// unplace removes e from whichever tree holds it. Caller must hold s.mu write lock.
func (s *scene) unplace(e octree.Entity) {
	cur, placed := s.placement[e]
	if !placed {
		return
	}
	cur.tree.RemoveEverywhere(e)
	delete(s.placement, e)
}

// regionFor returns the region whose bounds contain the center of box, or the nearest region.
func (s *scene) regionFor(box common.AABB) *region {
	center := box.Center()
	var nearest *region
	var best float32
	for _, r := range s.regions {
		if r.bounds.ContainsPoint(center) {
			return r
		}
		if d := r.bounds.DistanceSqr(center); nearest == nil || d < best {
			nearest, best = r, d
		}
	}

	s.log.WithFields(logrus.Fields{
		"center": center,
		"region": nearest.origin,
	}).Debug("entity outside every region, using nearest")
	return nearest
}

func dropLight(lights []light.Light, l light.Light) []light.Light {
	if i := slices.Index(lights, l); i >= 0 {
		return slices.Delete(lights, i, i+1)
	}
	return lights
}
