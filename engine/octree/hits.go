package octree

import (
	"slices"

	"github.com/Carmen-Shannon/oxy-spatial/common"
	"github.com/go-gl/mathgl/mgl32"
)

// Viewer is what a frustum query needs from a camera.
type Viewer interface {
	// Position returns the eye position in world space.
	Position() mgl32.Vec3

	// Frustum returns an already extracted frustum. The query records debug state in it, so
	// callers running queries in parallel must hand each one its own copy.
	Frustum() *common.Frustum
}

// Hits is the result of a frustum query.
type Hits struct {
	// Objects are the entities stored on nodes the frustum reached, each listed once.
	Objects []Entity
	// Lights are the visible dynamic lights stored on nodes the frustum reached, each listed once.
	Lights []Light
}

// hitQuery carries the per-call state of a FrustumHits traversal.
type hitQuery struct {
	frustum *common.Frustum
	eye     mgl32.Vec3
	epoch   uint64

	seenLights map[Light]struct{}
	hits       Hits
}

func (t *tree) FrustumHits(v Viewer) Hits {
	f := v.Frustum()
	if f == nil {
		return Hits{}
	}

	q := &hitQuery{
		frustum:    f,
		eye:        v.Position(),
		epoch:      frameEpoch.Add(1),
		seenLights: make(map[Light]struct{}),
	}
	t.collect(t.root, q, true, nil)
	return q.hits
}

// collect gathers hits under node id. inherited holds the dynamic lights of every ancestor on the
// path, nearest first. When testChildren is false the node was proven inside by an ancestor and
// is taken without testing.
func (t *tree) collect(id NodeID, q *hitQuery, testChildren bool, inherited []Light) {
	n := &t.nodes[id]

	if testChildren {
		// A frustum built without a lens has no sphere; skip the fast reject then.
		if q.frustum.Sphere.Radius > 0 && !n.Bounds.ContainsPoint(q.eye) && !q.frustum.Sphere.Intersects(n.Sphere) {
			return
		}

		switch q.frustum.ContainsSphere(n.Sphere) {
		case common.Outside:
			return
		case common.Inside:
			testChildren = false
		default:
			switch q.frustum.ContainsBox(n.Bounds) {
			case common.Outside:
				return
			case common.Inside:
				testChildren = false
			}
		}
	}

	if testChildren {
		n.Visibility = VisibilityPartial
	} else {
		n.Visibility = VisibilityFull
	}

	scope := inherited
	if len(n.Lights) > 0 {
		scope = make([]Light, 0, len(n.Lights)+len(inherited))
		scope = append(scope, n.Lights...)
		scope = append(scope, inherited...)
	}

	for _, e := range n.Entities {
		rec := e.Record()
		if rec.hitEpoch != q.epoch {
			// first leaf of this entity reached in the pass
			rec.hitEpoch = q.epoch
			rec.dynamicLights = slices.Clone(scope)
			rec.markVisible()
			q.hits.Objects = append(q.hits.Objects, e)
			continue
		}
		for _, l := range scope {
			if !containsLight(rec.dynamicLights, l) {
				rec.dynamicLights = append(rec.dynamicLights, l)
			}
		}
	}

	for _, l := range n.Lights {
		if !l.Visible() {
			continue
		}
		l.Record().markVisible()
		if _, seen := q.seenLights[l]; !seen {
			q.seenLights[l] = struct{}{}
			q.hits.Lights = append(q.hits.Lights, l)
		}
	}

	for _, l := range n.StaticLights {
		l.Record().markVisible()
	}

	for _, c := range n.Children {
		if c != NoNode {
			t.collect(c, q, testChildren, scope)
		}
	}
}
