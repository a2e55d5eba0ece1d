package game_object

import (
	"sync/atomic"

	"github.com/Carmen-Shannon/oxy-spatial/common"
	"github.com/Carmen-Shannon/oxy-spatial/engine/light"
	"github.com/Carmen-Shannon/oxy-spatial/engine/octree"
	"github.com/go-gl/mathgl/mgl32"
)

type gameObject struct {
	id        uint64
	visible   atomic.Bool
	ephemeral bool

	position mgl32.Vec3
	extents  mgl32.Vec3
	scale    mgl32.Vec3

	attachedLight light.Light
	lightOffset   mgl32.Vec3

	record octree.Record
}

// GameObject defines the interface for a renderable scene entity.
// Its world-space bounds are the box of half-size Extents * Scale centered on Position, which is
// what the octree partitions it by. A GameObject is an octree.Entity.
//
// Position changes made directly through SetPosition are not seen by the octree; objects that live
// in a scene should be moved with scene.Scene.Move.
type GameObject interface {
	octree.Entity

	// ID returns the object's unique identifier. Zero until a scene assigns one.
	//
	// Returns:
	//   - uint64: the object ID
	ID() uint64

	// Ephemeral returns whether this object is ephemeral.
	// Ephemeral objects are culled like any other but are not listed by the scene's registry.
	//
	// Returns:
	//   - bool: true if ephemeral
	Ephemeral() bool

	// Position returns the world-space center of the object.
	//
	// Returns:
	//   - mgl32.Vec3: the position
	Position() mgl32.Vec3

	// Extents returns the unscaled half-size of the object's bounds.
	//
	// Returns:
	//   - mgl32.Vec3: the half-size per axis
	Extents() mgl32.Vec3

	// Scale returns the per-axis scale applied to the extents.
	//
	// Returns:
	//   - mgl32.Vec3: the scale
	Scale() mgl32.Vec3

	// AttachedLight returns the light that moves with this object, or nil.
	//
	// Returns:
	//   - light.Light: the attached light or nil
	AttachedLight() light.Light

	// SetID sets the object's unique identifier.
	//
	// Parameters:
	//   - id: the ID to assign
	SetID(id uint64)

	// SetVisible sets whether the object wants to be rendered.
	//
	// Parameters:
	//   - visible: true to render
	SetVisible(visible bool)

	// SetPosition moves the object, and its attached light by the same offset it was attached at.
	//
	// Parameters:
	//   - position: the new world-space center
	SetPosition(position mgl32.Vec3)

	// SetExtents sets the unscaled half-size of the object's bounds.
	//
	// Parameters:
	//   - extents: the half-size per axis
	SetExtents(extents mgl32.Vec3)

	// SetScale sets the per-axis scale applied to the extents.
	//
	// Parameters:
	//   - scale: the scale
	SetScale(scale mgl32.Vec3)

	// SetAttachedLight attaches a light at its current offset from the object. Nil detaches.
	//
	// Parameters:
	//   - l: the light to attach
	SetAttachedLight(l light.Light)
}

var _ GameObject = &gameObject{}

// NewGameObject creates a new visible GameObject at the origin with unit extents and scale.
//
// Parameters:
//   - options: functional options to configure the object
//
// Returns:
//   - GameObject: the newly created object
func NewGameObject(options ...GameObjectBuilderOption) GameObject {
	g := &gameObject{
		extents: mgl32.Vec3{1, 1, 1},
		scale:   mgl32.Vec3{1, 1, 1},
	}
	g.visible.Store(true)
	for _, option := range options {
		option(g)
	}
	if g.attachedLight != nil {
		g.lightOffset = g.attachedLight.Position().Sub(g.position)
	}
	return g
}

func (g *gameObject) AABB() common.AABB {
	half := mgl32.Vec3{
		g.extents[0] * mgl32.Abs(g.scale[0]),
		g.extents[1] * mgl32.Abs(g.scale[1]),
		g.extents[2] * mgl32.Abs(g.scale[2]),
	}
	return common.NewAABB(g.position, half)
}

func (g *gameObject) Visible() bool {
	return g.visible.Load()
}

func (g *gameObject) Record() *octree.Record {
	return &g.record
}

func (g *gameObject) ID() uint64 {
	return g.id
}

func (g *gameObject) Ephemeral() bool {
	return g.ephemeral
}

func (g *gameObject) Position() mgl32.Vec3 {
	return g.position
}

func (g *gameObject) Extents() mgl32.Vec3 {
	return g.extents
}

func (g *gameObject) Scale() mgl32.Vec3 {
	return g.scale
}

func (g *gameObject) AttachedLight() light.Light {
	return g.attachedLight
}

func (g *gameObject) SetID(id uint64) {
	g.id = id
}

func (g *gameObject) SetVisible(visible bool) {
	g.visible.Store(visible)
}

func (g *gameObject) SetPosition(position mgl32.Vec3) {
	g.position = position
	if g.attachedLight != nil {
		g.attachedLight.SetPosition(position.Add(g.lightOffset))
	}
}

func (g *gameObject) SetExtents(extents mgl32.Vec3) {
	g.extents = extents
}

func (g *gameObject) SetScale(scale mgl32.Vec3) {
	g.scale = scale
}

func (g *gameObject) SetAttachedLight(l light.Light) {
	g.attachedLight = l
	g.lightOffset = mgl32.Vec3{}
	if l != nil {
		g.lightOffset = l.Position().Sub(g.position)
	}
}
