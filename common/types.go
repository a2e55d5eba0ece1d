// package common contains common types that are used throughout this engine. They are not interface-wrapped structs, just plain structs that express
// commonly used data-types.
package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// AABB is an axis-aligned bounding box expressed as a (min-corner, max-corner) pair in world space.
// An AABB whose Min exceeds its Max on any axis is inverted; it is never corrected here and simply
// produces wrong overlap answers downstream.
type AABB struct {
	// Min is the corner with the smallest coordinate on every axis.
	Min mgl32.Vec3
	// Max is the corner with the largest coordinate on every axis.
	Max mgl32.Vec3
}

// NewAABB builds an AABB from a center point and half extents along each axis.
//
// Parameters:
//   - center: the world-space center of the box
//   - halfExtents: half of the box size along x, y and z
//
// Returns:
//   - AABB: the resulting box
func NewAABB(center, halfExtents mgl32.Vec3) AABB {
	return AABB{
		Min: center.Sub(halfExtents),
		Max: center.Add(halfExtents),
	}
}

// Center returns the midpoint of the box.
//
// Returns:
//   - mgl32.Vec3: the center point
func (a AABB) Center() mgl32.Vec3 {
	return a.Min.Add(a.Max).Mul(0.5)
}

// Size returns the full edge lengths of the box along each axis.
//
// Returns:
//   - mgl32.Vec3: max - min
func (a AABB) Size() mgl32.Vec3 {
	return a.Max.Sub(a.Min)
}

// Union returns the smallest box enclosing both a and b.
//
// Parameters:
//   - b: the box to merge with
//
// Returns:
//   - AABB: the enclosing box
func (a AABB) Union(b AABB) AABB {
	return AABB{
		Min: minVec3(a.Min, b.Min),
		Max: maxVec3(a.Max, b.Max),
	}
}

// Corners returns the 8 corner points of the box. Bit 0 of the index selects max x,
// bit 1 max y and bit 2 max z.
//
// Returns:
//   - [8]mgl32.Vec3: the corner points
func (a AABB) Corners() [8]mgl32.Vec3 {
	var out [8]mgl32.Vec3
	for i := range out {
		c := a.Min
		if i&1 != 0 {
			c[0] = a.Max[0]
		}
		if i&2 != 0 {
			c[1] = a.Max[1]
		}
		if i&4 != 0 {
			c[2] = a.Max[2]
		}
		out[i] = c
	}
	return out
}

// ContainsPoint reports whether p lies inside the box, boundaries included.
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - bool: true if min <= p <= max on every axis
func (a AABB) ContainsPoint(p mgl32.Vec3) bool {
	return p[0] >= a.Min[0] && p[0] <= a.Max[0] &&
		p[1] >= a.Min[1] && p[1] <= a.Max[1] &&
		p[2] >= a.Min[2] && p[2] <= a.Max[2]
}

// DistanceSqr returns the squared distance from p to the nearest point of the box.
// Points inside the box are at distance zero.
//
// Parameters:
//   - p: the point to measure from
//
// Returns:
//   - float32: the squared distance
func (a AABB) DistanceSqr(p mgl32.Vec3) float32 {
	var d float32
	for i := range 3 {
		c := mgl32.Clamp(p[i], a.Min[i], a.Max[i]) - p[i]
		d += c * c
	}
	return d
}

// Intersects reports whether a and b overlap. Touching faces count as overlap.
//
// Parameters:
//   - b: the other box
//
// Returns:
//   - bool: true if the boxes share at least one point
func (a AABB) Intersects(b AABB) bool {
	return a.Min[0] <= b.Max[0] && a.Max[0] >= b.Min[0] &&
		a.Min[1] <= b.Max[1] && a.Max[1] >= b.Min[1] &&
		a.Min[2] <= b.Max[2] && a.Max[2] >= b.Min[2]
}

// BoundingSphere returns the sphere centered on the box that passes through all of its corners.
//
// Returns:
//   - Sphere: the circumscribed sphere
func (a AABB) BoundingSphere() Sphere {
	return Sphere{
		Center: a.Center(),
		Radius: a.Size().Len() * 0.5,
	}
}

// Sphere is a bounding sphere in world space.
type Sphere struct {
	Center mgl32.Vec3
	Radius float32
}

// Intersects reports whether two spheres overlap.
//
// Parameters:
//   - o: the other sphere
//
// Returns:
//   - bool: true if the distance between centers is at most the sum of the radii
func (s Sphere) Intersects(o Sphere) bool {
	r := s.Radius + o.Radius
	return s.Center.Sub(o.Center).LenSqr() <= r*r
}
