package octree

import (
	"github.com/Carmen-Shannon/oxy-spatial/common"
	"github.com/go-gl/mathgl/mgl32"
)

// NodeID addresses a node in a Tree's arena.
type NodeID int32

// NoNode is the sentinel for "no node": an absent child, the root's parent, or the common root of
// an untracked entity.
const NoNode NodeID = -1

// Octant indexes one of the 8 children of a node.
// TOP is +Y, NORTH is -Z and EAST is +X.
type Octant int

const (
	OctantTopNW Octant = iota
	OctantTopNE
	OctantTopSE
	OctantTopSW
	OctantBottomNW
	OctantBottomNE
	OctantBottomSE
	OctantBottomSW
)

// OctantNone is the child index of a root node.
const OctantNone Octant = -1

// String returns the octant name.
func (o Octant) String() string {
	switch o {
	case OctantTopNW:
		return "TOP_NW"
	case OctantTopNE:
		return "TOP_NE"
	case OctantTopSE:
		return "TOP_SE"
	case OctantTopSW:
		return "TOP_SW"
	case OctantBottomNW:
		return "BOTTOM_NW"
	case OctantBottomNE:
		return "BOTTOM_NE"
	case OctantBottomSE:
		return "BOTTOM_SE"
	case OctantBottomSW:
		return "BOTTOM_SW"
	default:
		return "NONE"
	}
}

// Sign returns the direction of the octant's center relative to its parent's center, as -1 or +1
// per axis.
//
// Returns:
//   - mgl32.Vec3: the per-axis sign
func (o Octant) Sign() mgl32.Vec3 {
	s := mgl32.Vec3{1, 1, 1}
	if o >= OctantBottomNW {
		s[1] = -1
	}
	switch o % 4 {
	case OctantTopNW:
		s[0], s[2] = -1, -1
	case OctantTopNE:
		s[0], s[2] = 1, -1
	case OctantTopSE:
		s[0], s[2] = 1, 1
	case OctantTopSW:
		s[0], s[2] = -1, 1
	}
	return s
}

// Visibility is the debug marker a frustum query leaves on each node it reaches.
type Visibility uint8

const (
	// VisibilityHidden is the state after ResetNodeVisibility, or for nodes the query rejected.
	VisibilityHidden Visibility = iota
	// VisibilityPartial marks nodes that straddled the frustum.
	VisibilityPartial
	// VisibilityFull marks nodes that were entirely inside the frustum.
	VisibilityFull
)

// Node is the plain data of one cube in the tree. Nodes are owned by the Tree's arena and reference
// each other by NodeID only.
type Node struct {
	Position   mgl32.Vec3
	Size       float32
	MaxDepth   int
	Parent     NodeID
	ChildIndex Octant
	Children   [8]NodeID

	// Entities are objects stored directly on this node.
	Entities []Entity
	// Lights are dynamic lights scoped to this node.
	Lights []Light
	// StaticLights are lights propagated to this node's whole subtree.
	StaticLights []Light

	Sphere common.Sphere
	Bounds common.AABB

	Dirty      bool
	Visibility Visibility

	alive bool
}

// newNode builds a node centered on position with the given edge length and remaining depth.
func newNode(position mgl32.Vec3, size float32, maxDepth int, parent NodeID, childIndex Octant) Node {
	half := size * 0.5
	bounds := common.NewAABB(position, mgl32.Vec3{half, half, half})
	n := Node{
		Position:   position,
		Size:       size,
		MaxDepth:   maxDepth,
		Parent:     parent,
		ChildIndex: childIndex,
		Bounds:     bounds,
		Sphere:     bounds.BoundingSphere(),
		alive:      true,
	}
	for i := range n.Children {
		n.Children[i] = NoNode
	}
	return n
}

// IsLeaf reports whether the node can never have children.
func (n *Node) IsLeaf() bool {
	return n.MaxDepth == 0
}

// HasChildren reports whether any child slot is occupied.
func (n *Node) HasChildren() bool {
	for _, c := range n.Children {
		if c != NoNode {
			return true
		}
	}
	return false
}

// empty reports whether the node stores nothing directly.
func (n *Node) empty() bool {
	return len(n.Entities) == 0 && len(n.Lights) == 0 && len(n.StaticLights) == 0
}

// childPosition returns the center of the child in octant o.
func (n *Node) childPosition(o Octant) mgl32.Vec3 {
	return n.Position.Add(o.Sign().Mul(n.Size * 0.25))
}

// touchedOctants computes, per axis, which halves of the node the box overlaps and combines them
// into the 8 octant flags. A half is touched on the low side when min < center and on the high
// side when max > center.
func (n *Node) touchedOctants(box common.AABB) (touched [8]bool, count int) {
	var low, high [3]bool
	for axis := 0; axis < 3; axis++ {
		low[axis] = box.Min[axis] < n.Position[axis]
		high[axis] = box.Max[axis] > n.Position[axis]
	}

	for o := OctantTopNW; o <= OctantBottomSW; o++ {
		sign := o.Sign()
		hit := true
		for axis := 0; axis < 3; axis++ {
			if sign[axis] < 0 {
				hit = hit && low[axis]
			} else {
				hit = hit && high[axis]
			}
		}
		touched[o] = hit
		if hit {
			count++
		}
	}
	return touched, count
}
