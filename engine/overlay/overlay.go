// Package overlay turns octree state into line geometry for debug drawing: one wireframe box per
// node, colored by how the last frustum query saw it, and one box per entity.
package overlay

import (
	"github.com/Carmen-Shannon/oxy-spatial/common"
	"github.com/Carmen-Shannon/oxy-spatial/engine/octree"
)

// Default node colors, indexed by octree.Visibility.
var (
	ColorHidden  = [4]float32{0.35, 0.35, 0.35, 0.4}
	ColorPartial = [4]float32{1.0, 0.8, 0.1, 1.0}
	ColorFull    = [4]float32{0.1, 0.9, 0.3, 1.0}
)

// boxEdges lists the 12 edges of a box as pairs of indices into common.AABB.Corners.
var boxEdges = [12][2]int{
	{0, 1}, {2, 3}, {4, 5}, {6, 7}, // along x
	{0, 2}, {1, 3}, {4, 6}, {5, 7}, // along y
	{0, 4}, {1, 5}, {2, 6}, {3, 7}, // along z
}

// NodeColor returns the overlay color for a node visibility state.
//
// Parameters:
//   - v: the visibility left by the last frustum query
//
// Returns:
//   - [4]float32: the RGBA color
func NodeColor(v octree.Visibility) [4]float32 {
	switch v {
	case octree.VisibilityPartial:
		return ColorPartial
	case octree.VisibilityFull:
		return ColorFull
	default:
		return ColorHidden
	}
}

// BuildNodeLines emits 24 vertices (12 edges) for every live node in tree, colored by NodeColor.
// Call it between frame passes; the tree is not safe for concurrent use.
//
// Parameters:
//   - tree: the tree to draw
//
// Returns:
//   - []GPULineVertex: line list vertices
func BuildNodeLines(tree octree.Tree) []GPULineVertex {
	vertices := make([]GPULineVertex, 0, tree.NodeCount()*24)
	tree.Walk(func(_ octree.NodeID, n octree.Node) bool {
		vertices = appendBox(vertices, n.Bounds, NodeColor(n.Visibility))
		return true
	})
	return vertices
}

// BuildEntityLines emits 24 vertices (12 edges) for the AABB of every entity.
//
// Parameters:
//   - entities: the entities to outline
//   - color: the RGBA line color
//
// Returns:
//   - []GPULineVertex: line list vertices
func BuildEntityLines[E octree.Entity](entities []E, color [4]float32) []GPULineVertex {
	vertices := make([]GPULineVertex, 0, len(entities)*24)
	for _, e := range entities {
		vertices = appendBox(vertices, e.AABB(), color)
	}
	return vertices
}

func appendBox(vertices []GPULineVertex, box common.AABB, color [4]float32) []GPULineVertex {
	corners := box.Corners()
	for _, edge := range boxEdges {
		a, b := corners[edge[0]], corners[edge[1]]
		vertices = append(vertices,
			GPULineVertex{Position: [3]float32(a), Color: color},
			GPULineVertex{Position: [3]float32(b), Color: color},
		)
	}
	return vertices
}
