package common

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Tan is a float32 wrapper around math.Tan.
//
// Parameters:
//   - rad: the angle in radians
//
// Returns:
//   - float32: tan(rad)
func Tan(rad float32) float32 {
	return float32(math.Tan(float64(rad)))
}

// minVec3 returns the component-wise minimum of a and b.
func minVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{min(a[0], b[0]), min(a[1], b[1]), min(a[2], b[2])}
}

// maxVec3 returns the component-wise maximum of a and b.
func maxVec3(a, b mgl32.Vec3) mgl32.Vec3 {
	return mgl32.Vec3{max(a[0], b[0]), max(a[1], b[1]), max(a[2], b[2])}
}
