package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// Curve evaluates the frame at a joint of a strand. Joint j in [0, M] is the
// start of segment j and the end of segment j-1, so consecutive segments
// share the exact same frame.
type Curve interface {
	Joint(strand, joint uint32, time float32) Frame
}

// Sinusoid lays strand s along the y=t axis at x=s with z=sin t, t in [0, 2pi).
// It ignores time.
type Sinusoid struct {
	Segments uint32
}

func (c Sinusoid) Joint(strand, joint uint32, _ float32) Frame {
	t := 2 * math32.Pi / float32(c.Segments) * float32(joint)
	return Frame{
		Position:  mgl32.Vec3{float32(strand), t, math32.Sin(t)},
		Normal:    mgl32.Vec3{0, -math32.Cos(t), 1}.Normalize(),
		Bitangent: mgl32.Vec3{-1, 0, 0},
	}
}

// Noodle is the animated curve family evaluated by create_instances in
// instances.wgsl. Strands stand on a grid in the xz plane around Centre and
// run along y, each wobbling in x and z with a phase set by its grid cell and
// by time. Any change here must be mirrored in the shader.
type Noodle struct {
	Grid      [2]uint32
	Segments  uint32
	Centre    mgl32.Vec3
	Spacing   float32
	Length    float32
	Amplitude float32
	Waves     float32
}

// DefaultNoodle returns the tuning used by the recompute pipeline.
func DefaultNoodle(t Topology, centre mgl32.Vec3) Noodle {
	return Noodle{
		Grid:      t.StrandGrid,
		Segments:  t.SegmentsPerStrand,
		Centre:    centre,
		Spacing:   0.15,
		Length:    6,
		Amplitude: 0.25,
		Waves:     1.5,
	}
}

func (c Noodle) Joint(strand, joint uint32, time float32) Frame {
	x, y := gridCell(c.Grid, strand)
	gx, gy := float32(x), float32(y)
	u := float32(joint) / float32(c.Segments)

	cx := (gx - float32(c.Grid[0]-1)*0.5) * c.Spacing
	cz := (gy - float32(c.Grid[1]-1)*0.5) * c.Spacing
	a1 := 2*math32.Pi*(c.Waves*u+time) + 0.37*gx + 0.21*gy
	a2 := 2*math32.Pi*(0.5*c.Waves*u+0.7*time) + 0.23*gx + 0.41*gy

	position := c.Centre.Add(mgl32.Vec3{
		cx + c.Amplitude*math32.Sin(a1),
		c.Length * (u - 0.5),
		cz + c.Amplitude*math32.Cos(a2),
	})
	tangent := mgl32.Vec3{
		c.Amplitude * 2 * math32.Pi * c.Waves * math32.Cos(a1),
		c.Length,
		-c.Amplitude * math32.Pi * c.Waves * math32.Sin(a2),
	}.Normalize()

	// x cross tangent, never degenerate while the y component is positive.
	normal := mgl32.Vec3{0, -tangent.Z(), tangent.Y()}.Normalize()
	return Frame{
		Position:  position,
		Normal:    normal,
		Bitangent: normal.Cross(tangent),
	}
}
