package octree

import (
	"github.com/go-gl/mathgl/mgl32"
	"github.com/sirupsen/logrus"
)

// TreeBuilderOption is a functional option for configuring a Tree.
type TreeBuilderOption func(*tree)

// WithPosition sets the world-space center of the root node. Defaults to the origin.
//
// Parameters:
//   - position: the root center
//
// Returns:
//   - TreeBuilderOption: option function to apply
func WithPosition(position mgl32.Vec3) TreeBuilderOption {
	return func(t *tree) {
		t.position = position
	}
}

// WithLogger replaces the tree's logger. Nil is ignored.
//
// Parameters:
//   - logger: the entry to log through
//
// Returns:
//   - TreeBuilderOption: option function to apply
func WithLogger(logger *logrus.Entry) TreeBuilderOption {
	return func(t *tree) {
		if logger != nil {
			t.log = logger.WithField("component", "octree")
		}
	}
}
