package common

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

// cubeFrustum returns a frustum whose planes enclose [-half, half]^3.
func cubeFrustum(half float32) Frustum {
	var f Frustum
	f.Planes[FrustumLeft] = Plane{Normal: mgl32.Vec3{1, 0, 0}, Distance: half}
	f.Planes[FrustumRight] = Plane{Normal: mgl32.Vec3{-1, 0, 0}, Distance: half}
	f.Planes[FrustumBottom] = Plane{Normal: mgl32.Vec3{0, 1, 0}, Distance: half}
	f.Planes[FrustumTop] = Plane{Normal: mgl32.Vec3{0, -1, 0}, Distance: half}
	f.Planes[FrustumNear] = Plane{Normal: mgl32.Vec3{0, 0, 1}, Distance: half}
	f.Planes[FrustumFar] = Plane{Normal: mgl32.Vec3{0, 0, -1}, Distance: half}
	return f
}

type fixedLens struct {
	position mgl32.Vec3
	look     mgl32.Vec3
	fov      float32
	aspect   float32
	near     float32
	far      float32
}

func (l fixedLens) Position() mgl32.Vec3 { return l.position }

func (l fixedLens) LookVector() mgl32.Vec3 { return l.look }

func (l fixedLens) Fov() float32 { return l.fov }

func (l fixedLens) Aspect() float32 { return l.aspect }

func (l fixedLens) Near() float32 { return l.near }

func (l fixedLens) Far() float32 { return l.far }

func TestContainsSphere(t *testing.T) {
	f := cubeFrustum(10)

	cases := []struct {
		name   string
		center mgl32.Vec3
		want   Classification
	}{
		{"origin", mgl32.Vec3{0, 0, 0}, Inside},
		{"far away", mgl32.Vec3{20, 0, 0}, Outside},
		{"on the right plane", mgl32.Vec3{10, 0, 0}, Intersecting},
		{"straddling a corner", mgl32.Vec3{-10, 10, 0}, Intersecting},
		{"outside one plane only", mgl32.Vec3{0, 0, -12}, Outside},
	}
	for _, c := range cases {
		if got := f.ContainsSphere(Sphere{Center: c.center, Radius: 1}); got != c.want {
			t.Errorf("%s: expected %v, got %v", c.name, c.want, got)
		}
	}
}

func TestContainsBox(t *testing.T) {
	f := cubeFrustum(10)
	half := mgl32.Vec3{1, 1, 1}

	if got := f.ContainsBox(NewAABB(mgl32.Vec3{0, 0, 0}, half)); got != Inside {
		t.Fatalf("Expected centered box inside, got %v", got)
	}
	for i, in := range f.LastIn {
		if !in {
			t.Fatalf("Expected every plane to report all corners in, plane %d did not", i)
		}
	}

	if got := f.ContainsBox(NewAABB(mgl32.Vec3{10, 0, 0}, half)); got != Intersecting {
		t.Fatalf("Expected box on the right plane to intersect, got %v", got)
	}
	if f.LastIn[FrustumRight] {
		t.Fatalf("Expected right plane not to hold every corner")
	}
	if !f.LastIn[FrustumLeft] {
		t.Fatalf("Expected left plane to hold every corner")
	}

	if got := f.ContainsBox(NewAABB(mgl32.Vec3{0, 20, 0}, half)); got != Outside {
		t.Fatalf("Expected box above the frustum to be outside, got %v", got)
	}
}

func TestContainsPoint(t *testing.T) {
	f := cubeFrustum(10)
	if !f.ContainsPoint(mgl32.Vec3{10, 0, 0}) {
		t.Fatalf("Expected a point on a plane to count as inside")
	}
	if f.ContainsPoint(mgl32.Vec3{0, 0, 10.5}) {
		t.Fatalf("Expected a point past the far plane to be outside")
	}
}

func TestExtractFromCamera(t *testing.T) {
	lens := fixedLens{
		position: mgl32.Vec3{0, 0, 0},
		look:     mgl32.Vec3{0, 0, -1},
		fov:      mgl32.DegToRad(90),
		aspect:   1,
		near:     1,
		far:      101,
	}
	view := mgl32.LookAtV(lens.position, lens.position.Add(lens.look), mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(lens.fov, lens.aspect, lens.near, lens.far)

	var f Frustum
	f.Extract(lens, view, proj)

	if !f.ContainsPoint(mgl32.Vec3{0, 0, -50}) {
		t.Fatalf("Expected a point straight ahead to be inside")
	}
	if f.ContainsPoint(mgl32.Vec3{0, 0, 50}) {
		t.Fatalf("Expected a point behind the camera to be outside")
	}
	if f.ContainsPoint(mgl32.Vec3{0, 0, -200}) {
		t.Fatalf("Expected a point past the far plane to be outside")
	}
	if f.ContainsPoint(mgl32.Vec3{60, 0, -50}) {
		t.Fatalf("Expected a point outside the 90 degree cone to be outside")
	}

	for i, p := range f.Planes {
		if l := p.Normal.Len(); math.Abs(float64(l-1)) > 1e-4 {
			t.Fatalf("Expected plane %d to be normalized, length %v", i, l)
		}
	}

	if !f.Sphere.Center.ApproxEqualThreshold(mgl32.Vec3{0, 0, -51}, 1e-4) {
		t.Fatalf("Expected sphere centered halfway down the view, got %v", f.Sphere.Center)
	}
	want := float32(math.Sqrt(100*100 + 100*100 + 49*49))
	if math.Abs(float64(f.Sphere.Radius-want)) > 1e-2 {
		t.Fatalf("Expected sphere radius %v, got %v", want, f.Sphere.Radius)
	}
}

func TestExtractFrustumFromMatrixHasNoSphere(t *testing.T) {
	proj := mgl32.Perspective(mgl32.DegToRad(60), 16.0/9.0, 0.1, 100)
	f := ExtractFrustumFromMatrix(proj)

	if f.Sphere.Radius != 0 {
		t.Fatalf("Expected no bounding sphere, got radius %v", f.Sphere.Radius)
	}
	if !f.ContainsPoint(mgl32.Vec3{0, 0, -10}) {
		t.Fatalf("Expected a point along -Z to be inside an identity-view frustum")
	}
}

func TestAABB(t *testing.T) {
	a := NewAABB(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 2, 3})
	if a.Min != (mgl32.Vec3{-1, -2, -3}) || a.Max != (mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("Unexpected bounds %+v", a)
	}

	b := NewAABB(mgl32.Vec3{5, 0, 0}, mgl32.Vec3{1, 1, 1})
	if a.Intersects(b) {
		t.Fatalf("Expected disjoint boxes not to intersect")
	}
	u := a.Union(b)
	if u.Min != (mgl32.Vec3{-1, -2, -3}) || u.Max != (mgl32.Vec3{6, 2, 3}) {
		t.Fatalf("Unexpected union %+v", u)
	}

	corners := a.Corners()
	if corners[0] != a.Min || corners[7] != a.Max {
		t.Fatalf("Expected first and last corners to be min and max, got %v and %v", corners[0], corners[7])
	}
	if !a.ContainsPoint(mgl32.Vec3{1, 2, 3}) {
		t.Fatalf("Expected max corner to be contained")
	}

	if d := a.DistanceSqr(mgl32.Vec3{0, 1, 0}); d != 0 {
		t.Fatalf("Expected zero distance inside the box, got %v", d)
	}
	if d := a.DistanceSqr(mgl32.Vec3{4, 6, 3}); d != 25 {
		t.Fatalf("Expected squared distance 25, got %v", d)
	}
}

func TestCoalesce(t *testing.T) {
	if got := Coalesce(float32(0), 0, 3, 4); got != 3 {
		t.Fatalf("Expected first non-zero value 3, got %v", got)
	}
	if got := Coalesce(0, 0); got != 0 {
		t.Fatalf("Expected zero when every value is zero, got %v", got)
	}
}
