package game_object

import (
	"testing"

	"github.com/Carmen-Shannon/oxy-spatial/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

func TestAABBUsesScaledExtents(t *testing.T) {
	g := NewGameObject(
		WithPosition(mgl32.Vec3{10, 0, 0}),
		WithExtents(mgl32.Vec3{1, 2, 3}),
		WithScale(mgl32.Vec3{2, -1, 1}),
	)

	box := g.AABB()
	if box.Min != (mgl32.Vec3{8, -2, -3}) || box.Max != (mgl32.Vec3{12, 2, 3}) {
		t.Fatalf("Unexpected AABB %+v", box)
	}
}

func TestDefaults(t *testing.T) {
	g := NewGameObject()
	if !g.Visible() || g.Ephemeral() || g.ID() != 0 {
		t.Fatalf("Unexpected defaults: visible %v ephemeral %v id %d", g.Visible(), g.Ephemeral(), g.ID())
	}
	if g.Record().Tracked() {
		t.Fatalf("Expected a fresh object to be untracked")
	}

	g.SetVisible(false)
	if g.Visible() {
		t.Fatalf("Expected SetVisible(false) to hide the object")
	}
}

func TestAttachedLightFollowsObject(t *testing.T) {
	lamp := light.NewLight(light.LightTypePoint, light.WithPosition(mgl32.Vec3{0, 3, 0}))
	g := NewGameObject(WithPosition(mgl32.Vec3{0, 1, 0}), WithLight(lamp))

	g.SetPosition(mgl32.Vec3{5, 1, 5})
	if lamp.Position() != (mgl32.Vec3{5, 3, 5}) {
		t.Fatalf("Expected light to keep its offset, got %v", lamp.Position())
	}

	g.SetAttachedLight(nil)
	g.SetPosition(mgl32.Vec3{0, 0, 0})
	if lamp.Position() != (mgl32.Vec3{5, 3, 5}) {
		t.Fatalf("Expected detached light to stay put, got %v", lamp.Position())
	}
}
