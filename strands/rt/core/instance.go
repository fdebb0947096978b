package core

import (
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
)

// Vertex matches the WGSL VertexInput of tube.wgsl.
type Vertex struct {
	Position mgl32.Vec3
	Colour   mgl32.Vec3
}

// VertexStride is the per-vertex step of the cross-section buffer.
const VertexStride = uint64(unsafe.Sizeof(Vertex{}))

// TubeInstance matches the WGSL TubeInstance struct in storage layout:
// every vec3 starts on a 16 byte boundary, radius fills the tail of
// start_position.
type TubeInstance struct {
	StartPosition  mgl32.Vec3
	Radius         float32
	StartNormal    mgl32.Vec3
	_              float32
	StartBitangent mgl32.Vec3
	_              float32
	EndPosition    mgl32.Vec3
	_              float32
	EndNormal      mgl32.Vec3
	_              float32
	EndBitangent   mgl32.Vec3
	_              float32
	Colour         mgl32.Vec3
	_              float32
}

// TubeInstanceStride is the array stride of array<TubeInstance> in WGSL.
const TubeInstanceStride = uint32(unsafe.Sizeof(TubeInstance{}))

// Frame is a curve sample: a point plus the orthonormal cross-section basis
// at that point. Bitangent x Normal points along the direction of travel.
type Frame struct {
	Position  mgl32.Vec3
	Normal    mgl32.Vec3
	Bitangent mgl32.Vec3
}

// Segment joins two consecutive frames of one strand.
func Segment(start, end Frame, radius float32, colour mgl32.Vec3) TubeInstance {
	return TubeInstance{
		StartPosition:  start.Position,
		StartNormal:    start.Normal,
		StartBitangent: start.Bitangent,
		EndPosition:    end.Position,
		EndNormal:      end.Normal,
		EndBitangent:   end.Bitangent,
		Radius:         radius,
		Colour:         colour,
	}
}

func (t TubeInstance) Start() Frame {
	return Frame{Position: t.StartPosition, Normal: t.StartNormal, Bitangent: t.StartBitangent}
}

func (t TubeInstance) End() Frame {
	return Frame{Position: t.EndPosition, Normal: t.EndNormal, Bitangent: t.EndBitangent}
}

// Extrude places a cross-section vertex in world space the same way vs_main
// does: z selects the endpoint, x and y scale the endpoint's normal and
// bitangent by the radius.
func (t TubeInstance) Extrude(v Vertex) mgl32.Vec3 {
	along := v.Position.Z()
	lerp := func(a, b mgl32.Vec3) mgl32.Vec3 {
		return a.Add(b.Sub(a).Mul(along))
	}
	normal := lerp(t.StartNormal, t.EndNormal).Normalize()
	bitangent := lerp(t.StartBitangent, t.EndBitangent).Normalize()
	centre := lerp(t.StartPosition, t.EndPosition)
	offset := normal.Mul(v.Position.X()).Add(bitangent.Mul(v.Position.Y()))
	return centre.Add(offset.Mul(t.Radius))
}
