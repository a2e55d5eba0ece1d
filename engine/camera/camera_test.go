package camera

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func TestNewCameraExtractsFrustum(t *testing.T) {
	c := NewCamera()

	f := c.Frustum()
	if !f.ContainsPoint(mgl32.Vec3{0, 0, 0}) {
		t.Fatalf("Expected the default camera to see the origin")
	}
	if f.ContainsPoint(mgl32.Vec3{0, 0, 20}) {
		t.Fatalf("Expected a point behind the camera to be outside")
	}
	if f.Sphere.Radius <= 0 {
		t.Fatalf("Expected a bounding sphere, got radius %v", f.Sphere.Radius)
	}
}

func TestFrustumReturnsCopy(t *testing.T) {
	c := NewCamera()

	f := c.Frustum()
	f.Planes[0].Distance = -1000
	if c.Frustum().Planes[0].Distance == -1000 {
		t.Fatalf("Expected Frustum to hand out an independent copy")
	}
}

func TestLookVectorFallsBack(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{1, 2, 3}), WithTarget(mgl32.Vec3{1, 2, 3}))
	if got := c.LookVector(); got != (mgl32.Vec3{0, 0, -1}) {
		t.Fatalf("Expected -Z fallback, got %v", got)
	}
}

func TestSettersRecomputeMatrices(t *testing.T) {
	c := NewCamera()
	before := c.ViewProjectionMatrix()

	c.SetPosition(mgl32.Vec3{0, 50, 50})
	if c.ViewProjectionMatrix() == before {
		t.Fatalf("Expected SetPosition to recompute the view-projection matrix")
	}

	c.SetFar(10)
	if c.Frustum().ContainsPoint(mgl32.Vec3{0, 0, 0}) {
		t.Fatalf("Expected the origin to be past a far plane of 10")
	}
}

func TestControllerDrivesCamera(t *testing.T) {
	ctrl := NewCameraController(WithRadius(50), WithAzimuth(0), WithElevation(0))
	c := NewCamera(WithController(ctrl), WithFar(500))

	if !c.Position().ApproxEqualThreshold(mgl32.Vec3{0, 0, 50}, 1e-4) {
		t.Fatalf("Expected camera at (0,0,50), got %v", c.Position())
	}

	ctrl.SetAzimuth(math.Pi / 2)
	c.Update()
	if !c.Position().ApproxEqualThreshold(mgl32.Vec3{50, 0, 0}, 1e-3) {
		t.Fatalf("Expected camera at (50,0,0) after orbiting, got %v", c.Position())
	}
	if !c.LookVector().ApproxEqualThreshold(mgl32.Vec3{-1, 0, 0}, 1e-4) {
		t.Fatalf("Expected camera to look down -X, got %v", c.LookVector())
	}
}

func TestControllerPanKeepsOrbit(t *testing.T) {
	ctrl := NewCameraController(WithRadius(50), WithAzimuth(0), WithElevation(0))

	ctrl.Pan(10, 0, 0)
	if !ctrl.Target().ApproxEqualThreshold(mgl32.Vec3{10, 0, 0}, 1e-4) {
		t.Fatalf("Expected target panned to (10,0,0), got %v", ctrl.Target())
	}
	if !ctrl.Position().ApproxEqualThreshold(mgl32.Vec3{10, 0, 50}, 1e-4) {
		t.Fatalf("Expected position panned to (10,0,50), got %v", ctrl.Position())
	}
	if ctrl.Radius() != 50 {
		t.Fatalf("Expected radius unchanged, got %v", ctrl.Radius())
	}
}

func TestControllerClamps(t *testing.T) {
	ctrl := NewCameraController(
		WithRadius(50),
		WithRadiusBounds(10, 100),
		WithElevationBounds(-0.5, 0.5),
	)

	ctrl.Zoom(100)
	if ctrl.Radius() != 10 {
		t.Fatalf("Expected radius clamped to 10, got %v", ctrl.Radius())
	}
	ctrl.SetRadius(1000)
	if ctrl.Radius() != 100 {
		t.Fatalf("Expected radius clamped to 100, got %v", ctrl.Radius())
	}
	ctrl.Orbit(0, 1000)
	if ctrl.Elevation() != 0.5 {
		t.Fatalf("Expected elevation clamped to 0.5, got %v", ctrl.Elevation())
	}
}

func TestUniformMarshal(t *testing.T) {
	c := NewCamera(WithPosition(mgl32.Vec3{1, 2, 3}))
	u := c.Uniform()

	buf := u.Marshal()
	if len(buf) != 80 || u.Size() != 80 {
		t.Fatalf("Expected 80 bytes, got %d (size %d)", len(buf), u.Size())
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])); got != u.ViewProj[0] {
		t.Fatalf("Expected first matrix element %v, got %v", u.ViewProj[0], got)
	}
	if got := math.Float32frombits(binary.LittleEndian.Uint32(buf[68:])); got != 2 {
		t.Fatalf("Expected camera y of 2 at offset 68, got %v", got)
	}
}
