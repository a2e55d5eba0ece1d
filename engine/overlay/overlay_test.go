package overlay

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/Carmen-Shannon/oxy-spatial/common"
	"github.com/Carmen-Shannon/oxy-spatial/engine/game_object"
	"github.com/Carmen-Shannon/oxy-spatial/engine/octree"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

type boxViewer struct {
	frustum common.Frustum
}

func (v *boxViewer) Position() mgl32.Vec3 { return mgl32.Vec3{} }

func (v *boxViewer) Frustum() *common.Frustum { return &v.frustum }

func TestBuildNodeLinesColorsByVisibility(t *testing.T) {
	tr := octree.NewTree(100, 1)
	tr.Insert(game_object.NewGameObject(game_object.WithPosition(mgl32.Vec3{25, 25, 25})))

	half := float32(1000)
	v := &boxViewer{}
	v.frustum.Planes[common.FrustumLeft] = common.Plane{Normal: mgl32.Vec3{1, 0, 0}, Distance: half}
	v.frustum.Planes[common.FrustumRight] = common.Plane{Normal: mgl32.Vec3{-1, 0, 0}, Distance: half}
	v.frustum.Planes[common.FrustumBottom] = common.Plane{Normal: mgl32.Vec3{0, 1, 0}, Distance: half}
	v.frustum.Planes[common.FrustumTop] = common.Plane{Normal: mgl32.Vec3{0, -1, 0}, Distance: half}
	v.frustum.Planes[common.FrustumNear] = common.Plane{Normal: mgl32.Vec3{0, 0, 1}, Distance: half}
	v.frustum.Planes[common.FrustumFar] = common.Plane{Normal: mgl32.Vec3{0, 0, -1}, Distance: half}

	tr.ResetNodeVisibility()
	tr.FrustumHits(v)

	vertices := BuildNodeLines(tr)
	if len(vertices) != tr.NodeCount()*24 {
		t.Fatalf("Expected 24 vertices per node, got %d for %d nodes", len(vertices), tr.NodeCount())
	}
	if vertices[0].Color != ColorFull {
		t.Fatalf("Expected the root drawn fully visible, got %v", vertices[0].Color)
	}

	tr.ResetNodeVisibility()
	for _, vert := range BuildNodeLines(tr) {
		if vert.Color != ColorHidden {
			t.Fatalf("Expected every node hidden after a reset, got %v", vert.Color)
		}
	}
}

func TestBuildEntityLinesTracesEdges(t *testing.T) {
	obj := game_object.NewGameObject(game_object.WithExtents(mgl32.Vec3{1, 2, 3}))
	red := [4]float32{1, 0, 0, 1}

	vertices := BuildEntityLines([]game_object.GameObject{obj}, red)
	if len(vertices) != 24 {
		t.Fatalf("Expected 24 vertices, got %d", len(vertices))
	}
	for i := 0; i < len(vertices); i += 2 {
		a, b := mgl32.Vec3(vertices[i].Position), mgl32.Vec3(vertices[i+1].Position)
		d := b.Sub(a)
		axes := 0
		for _, c := range d {
			if c != 0 {
				axes++
			}
		}
		if axes != 1 {
			t.Fatalf("Expected edge %d to run along one axis, got %v -> %v", i/2, a, b)
		}
		if vertices[i].Color != red {
			t.Fatalf("Expected the requested color, got %v", vertices[i].Color)
		}
	}
}

func TestMarshalVertices(t *testing.T) {
	vertices := []GPULineVertex{
		{Position: [3]float32{1, 2, 3}, Color: [4]float32{0.5, 0.5, 0.5, 1}},
		{Position: [3]float32{4, 5, 6}, Color: [4]float32{1, 1, 1, 1}},
	}
	if vertices[0].Size() != 28 {
		t.Fatalf("Expected 28 byte vertices, got %d", vertices[0].Size())
	}

	buf := MarshalVertices(vertices)
	if len(buf) != 56 {
		t.Fatalf("Expected 56 bytes, got %d", len(buf))
	}
	if x := math.Float32frombits(binary.LittleEndian.Uint32(buf[28:])); x != 4 {
		t.Fatalf("Expected second vertex x at offset 28, got %v", x)
	}
	if a := math.Float32frombits(binary.LittleEndian.Uint32(buf[24:])); a != 1 {
		t.Fatalf("Expected first vertex alpha at offset 24, got %v", a)
	}

	single := vertices[0].Marshal()
	for i := range single {
		if single[i] != buf[i] {
			t.Fatalf("Expected Marshal and MarshalVertices to agree at byte %d", i)
		}
	}
}

func TestPipelineState(t *testing.T) {
	layout := VertexBufferLayout()
	var v GPULineVertex
	if layout.ArrayStride != uint64(v.Size()) {
		t.Fatalf("Expected stride %d, got %d", v.Size(), layout.ArrayStride)
	}
	if len(layout.Attributes) != 2 || layout.Attributes[1].Offset != 12 {
		t.Fatalf("Unexpected attributes %+v", layout.Attributes)
	}
	if Topology() != wgpu.PrimitiveTopologyLineList || PrimitiveState().CullMode != wgpu.CullModeNone {
		t.Fatalf("Expected an unculled line list")
	}
}
