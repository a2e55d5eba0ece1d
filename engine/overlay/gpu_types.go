package overlay

import (
	"encoding/binary"
	"math"
	"unsafe"

	"github.com/Carmen-Shannon/oxy-spatial/engine/camera"
	"github.com/cogentcore/webgpu/wgpu"
)

// GPULineVertexSource is the WGSL definition of the LineVertex input struct.
// Matches GPULineVertex layout exactly (28 bytes, tightly packed vertex attributes).
const GPULineVertexSource = `struct LineVertex {
    @location(0) position: vec3<f32>,
    @location(1) color: vec4<f32>,
};
`

// ShaderSource is the complete WGSL program for drawing overlay lines: the camera uniform at
// group 0 binding 0, a pass-through vertex stage and a flat color fragment stage.
const ShaderSource = camera.GPUCameraUniformSource + GPULineVertexSource + `
@group(0) @binding(0) var<uniform> camera: CameraUniform;

struct LineOut {
    @builtin(position) clip: vec4<f32>,
    @location(0) color: vec4<f32>,
};

@vertex
fn vs_main(in: LineVertex) -> LineOut {
    var out: LineOut;
    out.clip = camera.view_proj * vec4<f32>(in.position, 1.0);
    out.color = in.color;
    return out;
}

@fragment
fn fs_main(in: LineOut) -> @location(0) vec4<f32> {
    return in.color;
}
`

// GPULineVertex is the GPU-aligned representation of one overlay line endpoint.
// Matches the WGSL LineVertex struct layout exactly (see GPULineVertexSource).
// Size: 28 bytes.
type GPULineVertex struct {
	Position [3]float32 // offset  0: world-space position (vec3<f32>)
	Color    [4]float32 // offset 12: RGBA color (vec4<f32>)
}

// Size returns the size of the GPULineVertex struct in bytes.
//
// Returns:
//   - int: the struct size in bytes (28)
func (v *GPULineVertex) Size() int {
	return int(unsafe.Sizeof(*v))
}

// Marshal serializes the GPULineVertex struct into a byte buffer suitable for GPU upload.
//
// Returns:
//   - []byte: the serialized byte buffer
func (v *GPULineVertex) Marshal() []byte {
	buf := make([]byte, v.Size())
	v.put(buf)
	return buf
}

func (v *GPULineVertex) put(buf []byte) {
	for i, f := range v.Position {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	for i, f := range v.Color {
		binary.LittleEndian.PutUint32(buf[12+i*4:], math.Float32bits(f))
	}
}

// MarshalVertices packs vertices back to back into one buffer for a single vertex buffer write.
//
// Parameters:
//   - vertices: the vertices to pack
//
// Returns:
//   - []byte: the packed buffer, len(vertices) * 28 bytes
func MarshalVertices(vertices []GPULineVertex) []byte {
	var stride GPULineVertex
	size := stride.Size()
	buf := make([]byte, len(vertices)*size)
	for i := range vertices {
		vertices[i].put(buf[i*size:])
	}
	return buf
}

// VertexBufferLayout returns the layout matching GPULineVertex. The overlay does not own a device;
// a caller building its line pipeline passes this as the vertex state's buffer layout.
//
// Returns:
//   - wgpu.VertexBufferLayout: the per-vertex layout
func VertexBufferLayout() wgpu.VertexBufferLayout {
	return wgpu.VertexBufferLayout{
		ArrayStride: 28,
		StepMode:    wgpu.VertexStepModeVertex,
		Attributes: []wgpu.VertexAttribute{
			{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
			{Format: wgpu.VertexFormatFloat32x4, Offset: 12, ShaderLocation: 1},
		},
	}
}

// Topology returns the primitive topology overlay vertices are built for: every consecutive pair
// of vertices is one line segment. Callers set it on their pipeline when not using PrimitiveState.
//
// Returns:
//   - wgpu.PrimitiveTopology: wgpu.PrimitiveTopologyLineList
func Topology() wgpu.PrimitiveTopology {
	return wgpu.PrimitiveTopologyLineList
}

// PrimitiveState returns the primitive state a caller's overlay pipeline is expected to use,
// alongside VertexBufferLayout and ShaderSource. Lines have no faces, so culling is off.
//
// Returns:
//   - wgpu.PrimitiveState: line list with no face culling
func PrimitiveState() wgpu.PrimitiveState {
	return wgpu.PrimitiveState{
		Topology:  Topology(),
		FrontFace: wgpu.FrontFaceCCW,
		CullMode:  wgpu.CullModeNone,
	}
}
