package octree

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-spatial/common"
)

// LightMethod controls how a light is propagated through the tree.
type LightMethod int

const (
	// LightMethodGlobal lights affect everything and are never spatially indexed.
	// Tree.InsertLight ignores them; the owning scene tracks them instead.
	LightMethodGlobal LightMethod = iota

	// LightMethodStatic lights are baked into entity light lists at insert time, both into entities
	// already present under the light's nodes and into entities inserted there later.
	LightMethodStatic

	// LightMethodDynamic lights are kept on the nodes they were inserted into and only reach
	// entities through the per-frame frustum query.
	LightMethodDynamic
)

// String returns a human-readable name for the method.
func (m LightMethod) String() string {
	switch m {
	case LightMethodGlobal:
		return "global"
	case LightMethodStatic:
		return "static"
	case LightMethodDynamic:
		return "dynamic"
	default:
		return "unknown"
	}
}

// Entity is anything the tree can partition: renderable objects and lights alike.
type Entity interface {
	// AABB returns the current world-space bounds of the entity.
	//
	// Returns:
	//   - common.AABB: the bounds used for octant overlap decisions
	AABB() common.AABB

	// Visible returns whether the entity wants to be considered for rendering.
	// Dynamic lights that are not visible are left out of frustum hits.
	//
	// Returns:
	//   - bool: true if visible
	Visible() bool

	// Record returns the tree bookkeeping owned by this entity. It must return the same pointer
	// for the lifetime of the entity.
	//
	// Returns:
	//   - *Record: the bookkeeping record
	Record() *Record
}

// Light is an Entity that carries a propagation method.
type Light interface {
	Entity

	// Method returns how the light propagates through the tree.
	//
	// Returns:
	//   - LightMethod: global, static or dynamic
	Method() LightMethod
}

// Record is the per-entity bookkeeping a Tree maintains: which nodes store the entity, the lowest
// node covering all of them, visibility flags for the current frame and the light lists the tree
// populates. The zero value is an untracked record.
//
// A Record belongs to exactly one Tree at a time.
type Record struct {
	tracked    bool
	leaves     []NodeID
	commonRoot NodeID

	octreeAABB    common.AABB
	hasOctreeAABB bool

	culled         bool
	wasCulled      bool
	drawnThisFrame bool
	resetEpoch     uint64
	hitEpoch       uint64

	staticLights  []Light
	dynamicLights []Light
}

// Tracked reports whether the record is currently attached to a tree.
func (r *Record) Tracked() bool {
	return r.tracked
}

// Leaves returns every node presently storing the entity. The slice must not be modified.
func (r *Record) Leaves() []NodeID {
	return r.leaves
}

// CommonRoot returns the lowest node that is an ancestor of, or equal to, every leaf.
// NoNode when the record is untracked.
func (r *Record) CommonRoot() NodeID {
	if !r.tracked {
		return NoNode
	}
	return r.commonRoot
}

// OctreeAABB returns the union of every node AABB the entity has been stored in. This differs from
// the entity's own AABB and is used for diagnostics.
//
// Returns:
//   - common.AABB: the union of node bounds
//   - bool: false if the entity has not been stored anywhere yet
func (r *Record) OctreeAABB() (common.AABB, bool) {
	return r.octreeAABB, r.hasOctreeAABB
}

// Culled reports whether the entity was culled by the most recent frame pass.
func (r *Record) Culled() bool {
	return r.culled
}

// WasCulled reports the culled state from the frame before the most recent one. The value is
// moved over by ResetNodeVisibility at the start of a pass rather than written when the entity
// is hit, so it stays valid for the whole of the current frame.
func (r *Record) WasCulled() bool {
	return r.wasCulled
}

// DrawnThisFrame reports whether the driver has drawn the entity since the last frustum query.
func (r *Record) DrawnThisFrame() bool {
	return r.drawnThisFrame
}

// SetDrawnThisFrame is set by the driver once the entity has been drawn, so entities reached
// through several paths are drawn once.
//
// Parameters:
//   - drawn: the new flag value
func (r *Record) SetDrawnThisFrame(drawn bool) {
	r.drawnThisFrame = drawn
}

// StaticLights returns the static lights baked into the entity. The slice must not be modified.
func (r *Record) StaticLights() []Light {
	return r.staticLights
}

// DynamicLights returns the dynamic lights merged into the entity by the last frustum query.
// The slice must not be modified.
func (r *Record) DynamicLights() []Light {
	return r.dynamicLights
}

// track lazily initializes the record on first contact with a tree.
func (r *Record) track() {
	if r.tracked {
		return
	}
	r.tracked = true
	r.leaves = r.leaves[:0]
	r.commonRoot = NoNode
	r.hasOctreeAABB = false
}

// untrack resets the record after the entity has been detached from every node.
func (r *Record) untrack() {
	r.tracked = false
	r.leaves = nil
	r.commonRoot = NoNode
	r.octreeAABB = common.AABB{}
	r.hasOctreeAABB = false
	r.staticLights = nil
	r.dynamicLights = nil
}

// addLeaf records that node id now stores the entity and grows the octree AABB by its bounds.
func (r *Record) addLeaf(id NodeID, bounds common.AABB) {
	r.leaves = append(r.leaves, id)
	if r.hasOctreeAABB {
		r.octreeAABB = r.octreeAABB.Union(bounds)
	} else {
		r.octreeAABB = bounds
		r.hasOctreeAABB = true
	}
}

// dropLeaf forgets node id. The tree recomputes the common root afterwards.
func (r *Record) dropLeaf(id NodeID) {
	if i := slices.Index(r.leaves, id); i >= 0 {
		r.leaves = slices.Delete(r.leaves, i, i+1)
	}
}

// addStaticLight appends l unless it is already baked in.
func (r *Record) addStaticLight(l Light) {
	if !containsLight(r.staticLights, l) {
		r.staticLights = append(r.staticLights, l)
	}
}

// removeStaticLight strips l from the baked list.
func (r *Record) removeStaticLight(l Light) {
	if i := indexLight(r.staticLights, l); i >= 0 {
		r.staticLights = slices.Delete(r.staticLights, i, i+1)
	}
}

// markVisible flips the entity to not-culled for this frame.
func (r *Record) markVisible() {
	r.culled = false
	r.drawnThisFrame = false
}

// markCulled starts a new frame with the entity culled, keeping the previous state in wasCulled.
// Entities stored on several nodes are reached once per leaf; only the first call in a pass counts.
func (r *Record) markCulled(epoch uint64) {
	if r.resetEpoch == epoch {
		return
	}
	r.resetEpoch = epoch
	r.wasCulled = r.culled
	r.culled = true
}

func indexLight(lights []Light, l Light) int {
	for i := range lights {
		if lights[i] == l {
			return i
		}
	}
	return -1
}

func containsLight(lights []Light, l Light) bool {
	return indexLight(lights, l) >= 0
}
