package game_object

import (
	"github.com/Carmen-Shannon/oxy-spatial/engine/light"
	"github.com/go-gl/mathgl/mgl32"
)

// GameObjectBuilderOption is a functional option for configuring a GameObject.
type GameObjectBuilderOption func(*gameObject)

// WithID sets the object's unique identifier. Scenes overwrite it on Add.
//
// Parameters:
//   - id: the ID to assign
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithID(id uint64) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.id = id
	}
}

// WithVisible sets whether the object starts visible. Defaults to true.
//
// Parameters:
//   - visible: true to render
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithVisible(visible bool) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.visible.Store(visible)
	}
}

// WithEphemeral marks the object as ephemeral.
// Ephemeral objects are culled like any other but are not listed by the scene's registry.
//
// Parameters:
//   - ephemeral: true if ephemeral
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithEphemeral(ephemeral bool) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.ephemeral = ephemeral
	}
}

// WithPosition sets the object's world-space center.
//
// Parameters:
//   - position: the center
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithPosition(position mgl32.Vec3) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.position = position
	}
}

// WithExtents sets the unscaled half-size of the object's bounds.
//
// Parameters:
//   - extents: the half-size per axis
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithExtents(extents mgl32.Vec3) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.extents = extents
	}
}

// WithScale sets the per-axis scale applied to the extents.
//
// Parameters:
//   - scale: the scale
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithScale(scale mgl32.Vec3) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.scale = scale
	}
}

// WithLight attaches a light that moves with the object. The offset between the light and the
// object is captured once all options are applied.
//
// Parameters:
//   - l: the light to attach
//
// Returns:
//   - GameObjectBuilderOption: option function to apply
func WithLight(l light.Light) GameObjectBuilderOption {
	return func(g *gameObject) {
		g.attachedLight = l
	}
}
