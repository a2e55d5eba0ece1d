package camera

import (
	"github.com/go-gl/mathgl/mgl32"
)

// CameraController owns a camera pose expressed as an orbit around a target point.
// The camera reads Position and Target from it on every Update. Orbit and zoom change the
// spherical coordinates; panning shifts position and target together so the orbit is preserved.
type CameraController interface {
	// Position returns the camera's world-space position.
	//
	// Returns:
	//   - mgl32.Vec3: world-space camera position
	Position() mgl32.Vec3

	// Target returns the look-at/pivot point.
	//
	// Returns:
	//   - mgl32.Vec3: world-space target position
	Target() mgl32.Vec3

	// SetTarget sets the pivot point and recomputes position from the spherical coordinates.
	//
	// Parameters:
	//   - target: world-space pivot
	SetTarget(target mgl32.Vec3)

	// Orbit rotates the camera around the target. Each step is one orbit speed increment;
	// positive azimuth steps rotate right, positive elevation steps tilt up. Elevation is clamped.
	//
	// Parameters:
	//   - azimuthSteps: horizontal steps
	//   - elevationSteps: vertical steps
	Orbit(azimuthSteps, elevationSteps float32)

	// Zoom adjusts the orbit radius. Positive delta zooms in (closer to target).
	//
	// Parameters:
	//   - delta: zoom amount scaled by the zoom speed
	Zoom(delta float32)

	// Pan translates position and target along the camera's local axes.
	//
	// Parameters:
	//   - right: movement along the local right axis, scaled by the pan speed
	//   - up: movement along the local up axis, scaled by the pan speed
	//   - forward: movement toward the target, scaled by the pan speed
	Pan(right, up, forward float32)

	// Radius returns the current orbit radius (distance from target).
	//
	// Returns:
	//   - float32: current distance from target
	Radius() float32

	// SetRadius sets the orbit radius directly, clamped to the radius bounds.
	//
	// Parameters:
	//   - radius: new distance from target
	SetRadius(radius float32)

	// Azimuth returns the current horizontal angle around the Y axis.
	//
	// Returns:
	//   - float32: azimuth in radians
	Azimuth() float32

	// SetAzimuth sets the horizontal angle directly and recomputes position.
	//
	// Parameters:
	//   - azimuth: new horizontal angle in radians
	SetAzimuth(azimuth float32)

	// Elevation returns the current vertical angle from the horizontal plane.
	//
	// Returns:
	//   - float32: elevation in radians
	Elevation() float32

	// SetElevation sets the vertical angle directly, clamped to the elevation bounds.
	//
	// Parameters:
	//   - elevation: new vertical angle in radians
	SetElevation(elevation float32)
}
