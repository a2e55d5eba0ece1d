package octree

import (
	"fmt"
	"slices"
	"sync/atomic"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// frameEpoch is shared by every tree so a Record can tell whether it has already been reset or
// reached during the current pass, even when it moves between trees.
var frameEpoch atomic.Uint64

type tree struct {
	nodes []Node
	free  []NodeID
	root  NodeID

	position mgl32.Vec3
	size     float32
	maxDepth int

	log *logrus.Entry
}

// Tree is a dynamic octree partitioning entities and lights by world-space AABB.
//
// Nodes live in a flat arena and are addressed by NodeID; entities hold NodeIDs in their Record
// rather than references to nodes. Children are created lazily on insert and pruned by Cleanup.
//
// A Tree is not safe for concurrent use. Within a frame the driver must call ResetNodeVisibility,
// then FrustumHits, then Cleanup.
type Tree interface {
	// Root returns the ID of the root node.
	//
	// Returns:
	//   - NodeID: the root node ID
	Root() NodeID

	// Position returns the world-space center of the root node.
	//
	// Returns:
	//   - mgl32.Vec3: the root center
	Position() mgl32.Vec3

	// Size returns the edge length of the root cube.
	//
	// Returns:
	//   - float32: the root edge length
	Size() float32

	// MaxDepth returns how many levels may be created below the root.
	//
	// Returns:
	//   - int: the maximum depth
	MaxDepth() int

	// Node returns a copy of the node with the given ID.
	//
	// Parameters:
	//   - id: the node to look up
	//
	// Returns:
	//   - Node: the node data
	//   - bool: false if id does not address a live node
	Node(id NodeID) (Node, bool)

	// NodeCount returns the number of live nodes, root included.
	//
	// Returns:
	//   - int: the live node count
	NodeCount() int

	// Walk visits every live node depth-first starting at the root. Returning false from fn skips
	// that node's children.
	//
	// Parameters:
	//   - fn: the visitor, receiving the node ID and a copy of the node
	Walk(fn func(id NodeID, n Node) bool)

	// Insert adds an entity to the tree. An entity is stored on a node when the node cannot
	// subdivide or when the entity's AABB overlaps all 8 octants; otherwise it descends into every
	// octant it overlaps. Static lights covering the storing node are baked into the entity.
	// Inserting an entity twice without removing it in between is undefined.
	//
	// Parameters:
	//   - e: the entity to insert
	Insert(e Entity)

	// InsertLight adds a light to the tree following the same placement rule as Insert.
	// Static lights are baked into every entity already stored beneath or above their nodes.
	// Global lights are ignored.
	//
	// Parameters:
	//   - l: the light to insert
	InsertLight(l Light)

	// Remove detaches e from the single node id, marks that node and its ancestors dirty and drops
	// the node from e's leaves. Other nodes still storing e are left alone and e's common root is
	// recomputed from them. A light taken off a node's static list is stripped from the entities
	// that node covered, unless one of its remaining nodes still covers them.
	//
	// Parameters:
	//   - e: the entity or light to remove
	//   - id: the node to remove it from
	//
	// Returns:
	//   - bool: true if e was stored on that node
	Remove(e Entity, id NodeID) bool

	// RemoveEverywhere detaches e from every node in its leaves and resets its record. A light
	// stored as static is stripped from every entity it was baked into, whatever its method now is.
	//
	// Parameters:
	//   - e: the entity or light to remove
	RemoveEverywhere(e Entity)

	// Update re-inserts e after it moved: RemoveEverywhere followed by Insert, or InsertLight when
	// e is a Light.
	//
	// Parameters:
	//   - e: the entity or light that moved
	Update(e Entity)

	// Cleanup prunes every node that stores nothing and has no child worth keeping. The root is
	// never pruned. Calling it twice in a row leaves the tree unchanged the second time.
	//
	// Returns:
	//   - int: the number of nodes pruned
	Cleanup() int

	// ResetNodeVisibility marks every stored entity and light culled and every node hidden.
	// Must run before FrustumHits each frame.
	ResetNodeVisibility()

	// FrustumHits collects the entities and dynamic lights in nodes the viewer's frustum reaches.
	// Each hit entity is marked not culled and gets the dynamic lights of its node and every
	// ancestor on the path. Static lights reached are marked not culled but are not returned.
	//
	// Parameters:
	//   - v: the viewer providing the eye position and an extracted frustum
	//
	// Returns:
	//   - Hits: the visible objects and lights, each listed once
	FrustumHits(v Viewer) Hits
}

var _ Tree = &tree{}

// NewTree creates an octree whose root cube has the given edge length and may subdivide maxDepth
// times. A maxDepth of 0 makes the root a terminal leaf that stores everything directly.
// Panics if size is not positive or maxDepth is negative.
//
// Parameters:
//   - size: the edge length of the root cube
//   - maxDepth: the number of levels allowed below the root
//   - options: functional options to configure the tree
//
// Returns:
//   - Tree: the newly created tree
func NewTree(size float32, maxDepth int, options ...TreeBuilderOption) Tree {
	if size <= 0 {
		panic(fmt.Sprintf("octree: NewTree requires a positive size, got %v", size))
	}
	if maxDepth < 0 {
		panic(fmt.Sprintf("octree: NewTree requires a non-negative max depth, got %d", maxDepth))
	}

	t := &tree{
		size:     size,
		maxDepth: maxDepth,
		log:      logrus.WithField("component", "octree"),
	}
	for _, option := range options {
		option(t)
	}

	t.root = t.alloc(newNode(t.position, size, maxDepth, NoNode, OctantNone))
	return t
}

func (t *tree) Root() NodeID {
	return t.root
}

func (t *tree) Position() mgl32.Vec3 {
	return t.position
}

func (t *tree) Size() float32 {
	return t.size
}

func (t *tree) MaxDepth() int {
	return t.maxDepth
}

func (t *tree) Node(id NodeID) (Node, bool) {
	if !t.live(id) {
		return Node{}, false
	}
	return t.nodes[id], true
}

func (t *tree) NodeCount() int {
	return len(t.nodes) - len(t.free)
}

func (t *tree) Walk(fn func(id NodeID, n Node) bool) {
	t.walk(t.root, fn)
}

func (t *tree) Insert(e Entity) {
	t.insert(t.root, e, nil)
}

func (t *tree) InsertLight(l Light) {
	if l.Method() == LightMethodGlobal {
		t.log.WithField("method", l.Method()).Debug("global light is not spatially indexed, skipping insert")
		return
	}
	t.insert(t.root, l, l)
}

func (t *tree) Remove(e Entity, id NodeID) bool {
	if !t.live(id) {
		return false
	}

	n := &t.nodes[id]
	removed, baked := false, false
	if l, ok := e.(Light); ok {
		removed = removeLight(&n.Lights, l)
		if !removed {
			baked = removeLight(&n.StaticLights, l)
			removed = baked
		}
	}
	if !removed {
		if i := slices.Index(n.Entities, e); i >= 0 {
			n.Entities = slices.Delete(n.Entities, i, i+1)
			removed = true
		}
	}
	if !removed {
		return false
	}

	for p := id; p != NoNode; p = t.nodes[p].Parent {
		t.nodes[p].Dirty = true
	}
	rec := e.Record()
	rec.dropLeaf(id)
	t.resetCommonRoot(rec)

	// Entities keep a baked light while any remaining node of that light still covers them.
	if baked {
		l := e.(Light)
		t.stripStaticLight(id, l)
		for _, leaf := range rec.leaves {
			t.propagateStaticLight(leaf, l)
		}
	}
	return true
}

func (t *tree) RemoveEverywhere(e Entity) {
	rec := e.Record()
	if !rec.tracked {
		return
	}

	for _, id := range slices.Clone(rec.leaves) {
		t.Remove(e, id)
	}
	rec.untrack()
}

func (t *tree) Update(e Entity) {
	t.RemoveEverywhere(e)
	if l, ok := e.(Light); ok {
		t.InsertLight(l)
		return
	}
	t.Insert(e)
}

func (t *tree) Cleanup() int {
	_, pruned := t.cleanup(t.root)
	if pruned > 0 {
		t.log.WithFields(logrus.Fields{
			"pruned": pruned,
			"nodes":  t.NodeCount(),
		}).Debug("pruned empty octree nodes")
	}
	return pruned
}

func (t *tree) ResetNodeVisibility() {
	epoch := frameEpoch.Add(1)
	for i := range t.nodes {
		n := &t.nodes[i]
		if !n.alive {
			continue
		}
		n.Visibility = VisibilityHidden
		for _, e := range n.Entities {
			e.Record().markCulled(epoch)
		}
		for _, l := range n.Lights {
			l.Record().markCulled(epoch)
		}
		for _, l := range n.StaticLights {
			l.Record().markCulled(epoch)
		}
	}
}

// insert places e under node id. light is nil for plain entities and e itself for lights.
func (t *tree) insert(id NodeID, e Entity, light Light) {
	rec := e.Record()
	rec.track()

	if t.nodes[id].MaxDepth == 0 {
		t.store(id, e, light)
		return
	}

	touched, count := t.nodes[id].touchedOctants(e.AABB())
	if count == len(touched) {
		t.store(id, e, light)
		return
	}
	if count == 0 {
		// Only a zero-extent box lying exactly on the center planes gets here.
		t.log.WithFields(logrus.Fields{
			"node": id,
			"aabb": e.AABB(),
		}).Debug("entity touches no octant, storing on node")
		t.store(id, e, light)
		return
	}

	children := 0
	for o, hit := range touched {
		if !hit {
			continue
		}
		child := t.nodes[id].Children[o]
		if child == NoNode {
			child = t.alloc(t.childOf(id, Octant(o)))
			t.nodes[id].Children[o] = child
		}
		t.insert(child, e, light)
		children++
	}

	if children > 1 || rec.commonRoot == NoNode {
		rec.commonRoot = id
	}
}

// store keeps e directly on node id and runs static light propagation.
func (t *tree) store(id NodeID, e Entity, light Light) {
	rec := e.Record()
	n := &t.nodes[id]

	switch {
	case light == nil:
		n.Entities = append(n.Entities, e)
		t.bakeStaticLights(id, rec)
	case light.Method() == LightMethodStatic:
		n.StaticLights = append(n.StaticLights, light)
		t.propagateStaticLight(id, light)
	default:
		n.Lights = append(n.Lights, light)
	}

	rec.addLeaf(id, n.Bounds)
	if rec.commonRoot == NoNode {
		rec.commonRoot = id
	}
}

// bakeStaticLights copies into rec every static light stored on id, its ancestors and its subtree.
func (t *tree) bakeStaticLights(id NodeID, rec *Record) {
	for p := t.nodes[id].Parent; p != NoNode; p = t.nodes[p].Parent {
		for _, l := range t.nodes[p].StaticLights {
			rec.addStaticLight(l)
		}
	}
	t.walk(id, func(_ NodeID, n Node) bool {
		for _, l := range n.StaticLights {
			rec.addStaticLight(l)
		}
		return true
	})
}

// propagateStaticLight pushes l into every entity already stored on id, its subtree and its ancestors.
func (t *tree) propagateStaticLight(id NodeID, l Light) {
	t.walk(id, func(_ NodeID, n Node) bool {
		for _, e := range n.Entities {
			e.Record().addStaticLight(l)
		}
		return true
	})
	for p := t.nodes[id].Parent; p != NoNode; p = t.nodes[p].Parent {
		for _, e := range t.nodes[p].Entities {
			e.Record().addStaticLight(l)
		}
	}
}

// stripStaticLight undoes propagateStaticLight for a light that has left node id.
func (t *tree) stripStaticLight(id NodeID, l Light) {
	t.walk(id, func(_ NodeID, n Node) bool {
		for _, e := range n.Entities {
			e.Record().removeStaticLight(l)
		}
		return true
	})
	for p := t.nodes[id].Parent; p != NoNode; p = t.nodes[p].Parent {
		for _, e := range t.nodes[p].Entities {
			e.Record().removeStaticLight(l)
		}
	}
}

// resetCommonRoot points rec's common root at the lowest node that is an ancestor-or-self of every
// remaining leaf.
func (t *tree) resetCommonRoot(rec *Record) {
	if len(rec.leaves) == 0 {
		rec.commonRoot = NoNode
		return
	}
	root := rec.leaves[0]
	for _, leaf := range rec.leaves[1:] {
		root = t.lowestCommonAncestor(root, leaf)
	}
	rec.commonRoot = root
}

// lowestCommonAncestor climbs a and b until they meet. Deeper nodes have a smaller MaxDepth.
func (t *tree) lowestCommonAncestor(a, b NodeID) NodeID {
	for a != b {
		da, db := t.nodes[a].MaxDepth, t.nodes[b].MaxDepth
		if da <= db {
			a = t.nodes[a].Parent
		}
		if db <= da {
			b = t.nodes[b].Parent
		}
	}
	return a
}

// cleanup prunes id's subtree post-order and reports whether id itself is worth keeping.
func (t *tree) cleanup(id NodeID) (keep bool, pruned int) {
	keepChild := false
	for o := range t.nodes[id].Children {
		c := t.nodes[id].Children[o]
		if c == NoNode {
			continue
		}
		k, p := t.cleanup(c)
		pruned += p
		if k {
			keepChild = true
			continue
		}
		t.release(c)
		t.nodes[id].Children[o] = NoNode
		pruned++
	}

	t.nodes[id].Dirty = false
	return keepChild || !t.nodes[id].empty(), pruned
}

func (t *tree) walk(id NodeID, fn func(id NodeID, n Node) bool) {
	if !fn(id, t.nodes[id]) {
		return
	}
	for _, c := range t.nodes[id].Children {
		if c != NoNode {
			t.walk(c, fn)
		}
	}
}

// childOf builds the node for octant o of id: half the size, one less level, center shifted by a
// quarter of the parent size on every axis.
func (t *tree) childOf(id NodeID, o Octant) Node {
	parent := &t.nodes[id]
	return newNode(parent.childPosition(o), parent.Size*0.5, parent.MaxDepth-1, id, o)
}

func (t *tree) alloc(n Node) NodeID {
	if k := len(t.free); k > 0 {
		id := t.free[k-1]
		t.free = t.free[:k-1]
		t.nodes[id] = n
		return id
	}
	t.nodes = append(t.nodes, n)
	return NodeID(len(t.nodes) - 1)
}

func (t *tree) release(id NodeID) {
	t.nodes[id] = Node{Parent: NoNode, ChildIndex: OctantNone}
	t.free = append(t.free, id)
}

func (t *tree) live(id NodeID) bool {
	return id >= 0 && int(id) < len(t.nodes) && t.nodes[id].alive
}

func removeLight(lights *[]Light, l Light) bool {
	i := indexLight(*lights, l)
	if i < 0 {
		return false
	}
	*lights = slices.Delete(*lights, i, i+1)
	return true
}
