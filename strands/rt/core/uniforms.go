package core

import (
	"encoding/binary"
	"math"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

const (
	// FieldOfViewY is the vertical field of view in radians.
	FieldOfViewY = math32.Pi / 6
	// NearPlane is the near clip distance; the far plane is at infinity.
	NearPlane = 0.5
	// UniformsSize is the byte size of the WGSL Uniforms block.
	UniformsSize = 96
)

var (
	// Up is the world up axis.
	Up = mgl32.Vec3{0, 0, 1}
	// LightDirection points towards the light.
	LightDirection = mgl32.Vec3{-0.5, -0.2, 1.0}.Normalize()
	Ambient        = mgl32.Vec3{0.05, 0.05, 0.07}
)

// Uniforms mirrors the WGSL Uniforms struct:
//
//	camera          mat4x4<f32>  @0
//	light_direction vec3<f32>    @64
//	time            f32          @76
//	ambient         vec3<f32>    @80
type Uniforms struct {
	Camera         mgl32.Mat4
	LightDirection mgl32.Vec3
	Time           float32
	Ambient        mgl32.Vec3
}

// NewUniforms builds the per-frame block for a camera at position looking at
// target with the given viewport aspect ratio.
func NewUniforms(position, target mgl32.Vec3, aspect, time float32) Uniforms {
	return Uniforms{
		Camera:         ViewProjection(position, target, aspect),
		LightDirection: LightDirection,
		Time:           time,
		Ambient:        Ambient,
	}
}

// Bytes packs u in the little-endian std140-compatible layout the shaders read.
func (u Uniforms) Bytes() []byte {
	buf := make([]byte, UniformsSize)
	put := func(off int, v float32) {
		binary.LittleEndian.PutUint32(buf[off:], math.Float32bits(v))
	}
	for i, v := range u.Camera {
		put(i*4, v)
	}
	for i := 0; i < 3; i++ {
		put(64+i*4, u.LightDirection[i])
		put(80+i*4, u.Ambient[i])
	}
	put(76, u.Time)
	return buf
}

// Projection is a right-handed perspective with reversed depth and the far
// plane at infinity: view depth -near maps to 1 and depth tends to 0 with
// distance. Pair it with a Greater depth test cleared to 0.
func Projection(aspect float32) mgl32.Mat4 {
	f := 1 / math32.Tan(FieldOfViewY/2)
	return mgl32.Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, 0, -1,
		0, 0, NearPlane, 0,
	}
}

// ViewProjection combines Projection with a right-handed look-at view using
// +Z as up.
func ViewProjection(position, target mgl32.Vec3, aspect float32) mgl32.Mat4 {
	return Projection(aspect).Mul4(mgl32.LookAtV(position, target, Up))
}
