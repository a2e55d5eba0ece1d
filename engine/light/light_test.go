package light

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-spatial/engine/octree"
	"github.com/go-gl/mathgl/mgl32"
)

func TestDefaultMethodByType(t *testing.T) {
	cases := map[LightType]octree.LightMethod{
		LightTypeDirectional: octree.LightMethodGlobal,
		LightTypePoint:       octree.LightMethodDynamic,
		LightTypeSpot:        octree.LightMethodDynamic,
	}
	for lt, want := range cases {
		if got := NewLight(lt).Method(); got != want {
			t.Errorf("%v: expected method %v, got %v", lt, want, got)
		}
	}

	if got := NewLight(LightTypeDirectional, WithMethod(octree.LightMethodStatic)).Method(); got != octree.LightMethodStatic {
		t.Fatalf("Expected WithMethod to override the default, got %v", got)
	}
}

func TestAABBFollowsRange(t *testing.T) {
	l := NewLight(LightTypePoint, WithPosition(mgl32.Vec3{1, 2, 3}), WithRange(5))

	box := l.AABB()
	if box.Min != (mgl32.Vec3{-4, -3, -2}) || box.Max != (mgl32.Vec3{6, 7, 8}) {
		t.Fatalf("Unexpected AABB %+v", box)
	}

	l.SetRange(1)
	if box := l.AABB(); box.Max != (mgl32.Vec3{2, 3, 4}) {
		t.Fatalf("Expected AABB to shrink with the range, got %+v", box)
	}
}

func TestSpotConeStoredAsCosines(t *testing.T) {
	l := NewLight(LightTypeSpot, WithSpotCone(0, 90))
	if l.InnerCone() != 1 {
		t.Fatalf("Expected cos(0) = 1, got %v", l.InnerCone())
	}
	if math.Abs(float64(l.OuterCone())) > 1e-6 {
		t.Fatalf("Expected cos(90) ~ 0, got %v", l.OuterCone())
	}
}

func TestDirectionIsNormalized(t *testing.T) {
	l := NewLight(LightTypeDirectional, WithDirection(mgl32.Vec3{0, -10, 0}))
	if l.Direction() != (mgl32.Vec3{0, -1, 0}) {
		t.Fatalf("Expected normalized direction, got %v", l.Direction())
	}
	l.SetDirection(mgl32.Vec3{})
	if l.Direction() != (mgl32.Vec3{}) {
		t.Fatalf("Expected zero direction for a zero input, got %v", l.Direction())
	}
}

func TestMarshalLightBufferSkipsInvisible(t *testing.T) {
	lights := []Light{
		NewLight(LightTypePoint, WithColor(1, 0, 0)),
		NewLight(LightTypePoint, WithVisible(false)),
		NewLight(LightTypeSpot, WithMethod(octree.LightMethodStatic)),
	}

	buf := MarshalLightBuffer(lights, [3]float32{0.1, 0.1, 0.1})
	if len(buf) != 16+2*64 {
		t.Fatalf("Expected header plus 2 lights, got %d bytes", len(buf))
	}
	if n := binary.LittleEndian.Uint32(buf[12:16]); n != 2 {
		t.Fatalf("Expected light count 2, got %d", n)
	}
	if typ := binary.LittleEndian.Uint32(buf[16+64+12:]); typ != uint32(LightTypeSpot) {
		t.Fatalf("Expected second packed light to be the spot light, got type %d", typ)
	}
	if method := binary.LittleEndian.Uint32(buf[16+64+56:]); method != uint32(octree.LightMethodStatic) {
		t.Fatalf("Expected static method in the packed light, got %d", method)
	}
}
