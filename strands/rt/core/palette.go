package core

import (
	"fmt"
	"strings"

	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
	"golang.org/x/image/colornames"
)

// Palette assigns a colour to each strand, cycling by strand index.
type Palette []mgl32.Vec3

// DefaultPalette is plain white.
func DefaultPalette() Palette {
	return Palette{{1, 1, 1}}
}

// ParsePalette resolves SVG 1.1 colour keywords ("white", "coral", ...) into
// linear RGB. An empty list yields the default palette.
func ParsePalette(names []string) (Palette, error) {
	if len(names) == 0 {
		return DefaultPalette(), nil
	}
	p := make(Palette, 0, len(names))
	for _, name := range names {
		c, ok := colornames.Map[strings.ToLower(strings.TrimSpace(name))]
		if !ok {
			return nil, fmt.Errorf("unknown colour name %q", name)
		}
		p = append(p, mgl32.Vec3{
			srgbToLinear(float32(c.R) / 255),
			srgbToLinear(float32(c.G) / 255),
			srgbToLinear(float32(c.B) / 255),
		})
	}
	return p, nil
}

// Colour returns the colour of strand s.
func (p Palette) Colour(s uint32) mgl32.Vec3 {
	if len(p) == 0 {
		return mgl32.Vec3{1, 1, 1}
	}
	return p[int(s%uint32(len(p)))]
}

// The render target is an sRGB format, so shader colours must be linear.
func srgbToLinear(c float32) float32 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math32.Pow((c+0.055)/1.055, 2.4)
}
