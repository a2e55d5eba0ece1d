package common

import (
	"github.com/go-gl/mathgl/mgl32"
)

// Classification is the result of testing a volume against a Frustum.
type Classification int

const (
	// Outside means the volume lies entirely outside at least one plane.
	Outside Classification = -1
	// Intersecting means the volume straddles at least one plane and is not provably outside.
	Intersecting Classification = 0
	// Inside means the volume lies entirely inside every plane.
	Inside Classification = 1
)

// String returns a human-readable name for the classification.
func (c Classification) String() string {
	switch c {
	case Outside:
		return "outside"
	case Inside:
		return "inside"
	default:
		return "intersecting"
	}
}

// Plane represents a plane in 3D space using the equation: ax + by + cz + d = 0
// where (a, b, c) is the normal and d is the distance from origin.
type Plane struct {
	Normal   mgl32.Vec3
	Distance float32
}

// SignedDistance returns the signed distance from p to the plane. Positive values are on the
// side the normal points to, which for frustum planes is the inside.
//
// Parameters:
//   - pt: the point to measure
//
// Returns:
//   - float32: normal·pt + distance
func (p Plane) SignedDistance(pt mgl32.Vec3) float32 {
	return p.Normal.Dot(pt) + p.Distance
}

// Lens describes the camera parameters needed to derive a frustum's bounding sphere.
type Lens interface {
	// Position returns the eye position in world space.
	Position() mgl32.Vec3
	// LookVector returns the normalized viewing direction.
	LookVector() mgl32.Vec3
	// Fov returns the vertical field of view in radians.
	Fov() float32
	// Aspect returns the viewport aspect ratio (width / height).
	Aspect() float32
	// Near returns the near clipping plane distance.
	Near() float32
	// Far returns the far clipping plane distance.
	Far() float32
}

// Frustum represents the six planes of a view frustum for culling, plus a bounding sphere
// used as a cheap first rejection test.
// Planes are oriented so that positive half-space is inside the frustum.
type Frustum struct {
	Planes [6]Plane // Left, Right, Bottom, Top, Near, Far

	// Sphere approximates the whole frustum volume. Zero when built by ExtractFrustumFromMatrix.
	Sphere Sphere

	// LastIn holds, per plane, whether every corner of the last box passed to ContainsBox was
	// inside that plane. Only the debug overlay reads it.
	LastIn [6]bool
}

// FrustumPlane indices for clarity
const (
	FrustumLeft   = 0
	FrustumRight  = 1
	FrustumBottom = 2
	FrustumTop    = 3
	FrustumNear   = 4
	FrustumFar    = 5
)

// ExtractFrustumFromMatrix extracts frustum planes from a view-projection matrix.
// The matrix should be the combined Projection * View matrix.
// Uses the Gribb/Hartmann method for plane extraction.
//
// Reference: https://www8.cs.umu.se/kurser/5DV051/HT12/lab/plane_extraction.pdf
//
// Parameters:
//   - viewProj: the column-major view-projection matrix
//
// Returns:
//   - Frustum: the extracted frustum with normalized planes and no bounding sphere
func ExtractFrustumFromMatrix(viewProj mgl32.Mat4) Frustum {
	var f Frustum
	f.setPlanes(viewProj)
	return f
}

// Extract rebuilds the planes and the bounding sphere from a camera's matrices.
// Malformed matrices produce degenerate planes rather than a panic.
//
// Parameters:
//   - lens: the camera parameters (position, look vector, fov, aspect, near, far)
//   - view: the view matrix
//   - proj: the projection matrix
func (f *Frustum) Extract(lens Lens, view, proj mgl32.Mat4) {
	f.setPlanes(proj.Mul4(view))

	near, far := lens.Near(), lens.Far()
	depth := far - near
	height := depth * Tan(lens.Fov()*0.5)
	width := height * lens.Aspect()

	// The sphere passes through the far corner of the volume and sits halfway down the view depth.
	p := mgl32.Vec3{0, 0, near + depth*0.5}
	q := mgl32.Vec3{width, height, depth}

	f.Sphere = Sphere{
		Center: lens.Position().Add(lens.LookVector().Mul(near + depth*0.5)),
		Radius: p.Sub(q).Len(),
	}
}

// ContainsPoint reports whether p is on the inside of all six planes.
//
// Parameters:
//   - p: the point to test
//
// Returns:
//   - bool: true if p is inside or on every plane
func (f *Frustum) ContainsPoint(p mgl32.Vec3) bool {
	for i := range f.Planes {
		if f.Planes[i].SignedDistance(p) < 0 {
			return false
		}
	}
	return true
}

// ContainsSphere classifies a sphere against the frustum planes.
// An outside plane short-circuits; a straddled plane only downgrades the running result so a later
// plane can still report the sphere as outside.
//
// Parameters:
//   - s: the sphere to test
//
// Returns:
//   - Classification: Outside, Intersecting or Inside
func (f *Frustum) ContainsSphere(s Sphere) Classification {
	result := Inside
	for i := range f.Planes {
		d := f.Planes[i].SignedDistance(s.Center)
		if d < -s.Radius {
			return Outside
		}
		if mgl32.Abs(d) < s.Radius {
			result = Intersecting
		}
	}
	return result
}

// ContainsBox classifies an AABB against the frustum planes using its 8 corners.
// The test is conservative: a box outside the frustum across two planes can still be reported as
// Intersecting.
//
// Parameters:
//   - box: the box to test
//
// Returns:
//   - Classification: Outside, Intersecting or Inside
func (f *Frustum) ContainsBox(box AABB) Classification {
	corners := box.Corners()
	f.LastIn = [6]bool{}

	planesIn := 0
	for i := range f.Planes {
		inCount := len(corners)
		for _, c := range corners {
			if f.Planes[i].SignedDistance(c) < 0 {
				inCount--
			}
		}
		if inCount == 0 {
			return Outside
		}
		if inCount == len(corners) {
			f.LastIn[i] = true
			planesIn++
		}
	}

	if planesIn == len(f.Planes) {
		return Inside
	}
	return Intersecting
}

// setPlanes derives the six planes from the rows of a combined matrix and normalizes them.
func (f *Frustum) setPlanes(m mgl32.Mat4) {
	r0, r1, r2, r3 := m.Rows()

	f.Planes[FrustumLeft] = planeFromRow(r3.Add(r0))
	f.Planes[FrustumRight] = planeFromRow(r3.Sub(r0))
	f.Planes[FrustumBottom] = planeFromRow(r3.Add(r1))
	f.Planes[FrustumTop] = planeFromRow(r3.Sub(r1))
	f.Planes[FrustumNear] = planeFromRow(r3.Add(r2))
	f.Planes[FrustumFar] = planeFromRow(r3.Sub(r2))

	// Normalize all planes
	for i := range f.Planes {
		f.normalizePlane(i)
	}
}

// normalizePlane normalizes a frustum plane so that the normal has unit length.
func (f *Frustum) normalizePlane(index int) {
	p := &f.Planes[index]
	length := p.Normal.Len()

	if length > 0 {
		invLen := 1.0 / length
		p.Normal = p.Normal.Mul(invLen)
		p.Distance *= invLen
	}
}

// planeFromRow unpacks a (a, b, c, d) row combination into a Plane.
func planeFromRow(row mgl32.Vec4) Plane {
	return Plane{
		Normal:   row.Vec3(),
		Distance: row[3],
	}
}
