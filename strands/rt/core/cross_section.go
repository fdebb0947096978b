package core

import (
	"fmt"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// BuildCrossSection returns the unit circle of the given side count extruded
// from z=0 to z=1 as a triangle strip of 2*sides+2 vertices. Vertex 2k is the
// near vertex of side k and 2k+1 its far vertex; side k=sides repeats side 0
// to close the ring. Angles increase counter-clockwise about +z.
func BuildCrossSection(sides uint32) ([]Vertex, error) {
	if sides < 3 {
		return nil, fmt.Errorf("%w: a cross-section needs at least 3 sides, got %d", ErrInvalidTopology, sides)
	}

	white := mgl32.Vec3{1, 1, 1}
	vertices := make([]Vertex, 0, 2*sides+2)
	for k := uint32(0); k <= sides; k++ {
		angle := 2 * math32.Pi * float32(k) / float32(sides)
		if k == sides {
			angle = 0
		}
		c, s := math32.Cos(angle), math32.Sin(angle)
		vertices = append(vertices,
			Vertex{Position: mgl32.Vec3{c, s, 0}, Colour: white},
			Vertex{Position: mgl32.Vec3{c, s, 1}, Colour: white},
		)
	}
	return vertices, nil
}

// StripTriangles expands a triangle strip into its triangles, flipping every
// odd triangle so each one is listed in the winding the rasterizer sees.
func StripTriangles(n int) [][3]int {
	if n < 3 {
		return nil
	}
	tris := make([][3]int, 0, n-2)
	for i := 0; i+2 < n; i++ {
		if i%2 == 0 {
			tris = append(tris, [3]int{i, i + 1, i + 2})
		} else {
			tris = append(tris, [3]int{i + 1, i, i + 2})
		}
	}
	return tris
}
