package core

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildCrossSection(t *testing.T) {
	for _, sides := range []uint32{3, 4, 8, 17} {
		v, err := BuildCrossSection(sides)
		require.NoError(t, err)
		require.Len(t, v, int(2*sides+2))

		for k := 0; k < len(v); k += 2 {
			near, far := v[k].Position, v[k+1].Position
			assert.Equal(t, float32(0), near.Z())
			assert.Equal(t, float32(1), far.Z())
			assert.Equal(t, near.X(), far.X())
			assert.Equal(t, near.Y(), far.Y())
			assert.InDelta(t, 1, near.Vec2().Len(), 1e-6)
			assert.Equal(t, mgl32.Vec3{1, 1, 1}, v[k].Colour)
		}
		// The last pair closes the ring exactly.
		assert.Equal(t, v[0], v[len(v)-2])
		assert.Equal(t, v[1], v[len(v)-1])
	}
}

func TestBuildCrossSectionRejectsDegenerate(t *testing.T) {
	for _, sides := range []uint32{0, 1, 2} {
		_, err := BuildCrossSection(sides)
		assert.ErrorIs(t, err, ErrInvalidTopology)
	}
}

func TestStripTriangles(t *testing.T) {
	assert.Nil(t, StripTriangles(2))
	assert.Equal(t, [][3]int{{0, 1, 2}, {2, 1, 3}, {2, 3, 4}}, StripTriangles(5))
}

func TestExtrudedTrianglesFaceOutward(t *testing.T) {
	tp := DefaultTopology()
	tp.StrandGrid = [2]uint32{16, 16}
	ring, err := BuildCrossSection(tp.Sides)
	require.NoError(t, err)

	curves := map[string]Curve{
		"sinusoid": Sinusoid{Segments: tp.SegmentsPerStrand},
		"noodle":   DefaultNoodle(tp, DefaultCameraTarget),
	}
	for name, curve := range curves {
		t.Run(name, func(t *testing.T) {
			instances := GenerateInstances(tp, curve, DefaultPalette(), 0.05, 0.3)
			for _, idx := range []int{0, 7, 63, 64 * 5, len(instances) - 1} {
				inst := instances[idx]
				axis := inst.EndPosition.Sub(inst.StartPosition)
				for _, tri := range StripTriangles(len(ring)) {
					a := inst.Extrude(ring[tri[0]])
					b := inst.Extrude(ring[tri[1]])
					c := inst.Extrude(ring[tri[2]])
					normal := b.Sub(a).Cross(c.Sub(a))

					centroid := a.Add(b).Add(c).Mul(1.0 / 3)
					rel := centroid.Sub(inst.StartPosition)
					radial := rel.Sub(axis.Mul(rel.Dot(axis) / axis.Dot(axis)))
					assert.Greater(t, normal.Dot(radial), float32(0), "instance %d triangle %v", idx, tri)
				}
			}
		})
	}
}
