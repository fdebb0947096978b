package core

import (
	"github.com/chewxy/math32"
	"github.com/go-gl/mathgl/mgl32"
)

// OrbitCamera circles a fixed target on a Lissajous-like path.
type OrbitCamera struct {
	Target mgl32.Vec3
	// TimeScale converts wall-clock seconds into orbit time.
	TimeScale float32
}

// DefaultCameraTarget sits at the middle of the default strand field.
var DefaultCameraTarget = mgl32.Vec3{0.8, 0, 1.6}

func NewOrbitCamera(target mgl32.Vec3, timeScale float32) OrbitCamera {
	return OrbitCamera{Target: target, TimeScale: timeScale}
}

// Position returns the eye position after elapsed seconds.
func (c OrbitCamera) Position(elapsed float32) mgl32.Vec3 {
	e := elapsed * c.TimeScale
	return c.Target.Add(mgl32.Vec3{
		5 * math32.Cos(e),
		4 * math32.Sin(0.9*e),
		3 * math32.Sin(0.3*e+1.2),
	})
}

// ShaderTime is the animation time handed to the shaders after elapsed seconds.
func (c OrbitCamera) ShaderTime(elapsed float32) float32 {
	return 0.5 * elapsed * c.TimeScale
}
