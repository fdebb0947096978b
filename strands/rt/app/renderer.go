package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/canmom/noodles"
	"github.com/canmom/noodles/strands/rt/core"
	"github.com/canmom/noodles/strands/rt/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
)

// ClearColour is the background behind the strands.
var ClearColour = wgpu.Color{R: 0.01, G: 0.01, B: 0.014, A: 1}

// Strands is what the renderer needs from *gpu.Pipelines.
type Strands interface {
	Animated() bool
	UpdateUniforms(queue gpu.Queue, cameraPosition, cameraTarget mgl32.Vec3, aspect, time float32) error
	ComputeInstances(pass gpu.ComputePass)
	Render(pass gpu.RenderPass)
}

var _ Strands = (*gpu.Pipelines)(nil)

// Renderer drives one frame at a time: uniform upload, optional instance
// generation, the tube render pass and a single submit.
type Renderer struct {
	Target   Target
	Strands  Strands
	Camera   core.OrbitCamera
	Log      noodles.Logger
	Profiler *Profiler
	// StatsPeriod is how often frame statistics are logged at debug level.
	StatsPeriod time.Duration

	now       func() time.Time
	lastStats time.Time
	frames    int
}

func NewRenderer(target Target, strands Strands, camera core.OrbitCamera, log noodles.Logger) *Renderer {
	if log == nil {
		log = noodles.NewNopLogger()
	}
	return &Renderer{
		Target:   target,
		Strands:  strands,
		Camera:   camera,
		Log:      log.Named("frame"),
		Profiler: NewProfiler(),
		now:      time.Now,
	}
}

// Resize reconfigures the target. A zero dimension, as reported while the
// window is minimised, leaves the current configuration untouched.
func (r *Renderer) Resize(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	r.Log.Debugf("resize to %dx%d", width, height)
	return r.Target.Configure(width, height)
}

// RenderFrame draws the strands as seen after elapsed seconds. Only device
// loss is returned; every other failure drops the frame.
func (r *Renderer) RenderFrame(elapsed float32) error {
	if !r.Target.Configured() {
		return nil
	}
	width, height := r.Target.Size()
	if width <= 0 || height <= 0 {
		return nil
	}
	// An outdated surface is not always reported on acquire, so catch a
	// missed resize here.
	if cw, ch := r.Target.ConfiguredSize(); cw != width || ch != height {
		r.Log.Debugf("surface is %dx%d, window is %dx%d, reconfiguring", cw, ch, width, height)
		if err := r.Target.Configure(width, height); err != nil {
			r.Log.Errorf("reconfigure failed: %v", err)
			return nil
		}
	}

	frame, err := r.Target.BeginFrame()
	if err != nil {
		return r.handleFrameError(err, width, height)
	}
	defer frame.Release()

	r.Profiler.BeginScope("Uniforms")
	aspect := float32(width) / float32(height)
	position := r.Camera.Position(elapsed)
	err = r.Strands.UpdateUniforms(r.Target.Queue(), position, r.Camera.Target, aspect, r.Camera.ShaderTime(elapsed))
	r.Profiler.EndScope("Uniforms")
	if err != nil {
		r.Log.Errorf("dropping frame: %v", err)
		return nil
	}

	if r.Strands.Animated() {
		r.Profiler.BeginScope("Compute")
		cPass := frame.BeginComputePass()
		r.Strands.ComputeInstances(cPass)
		err := cPass.End()
		r.Profiler.EndScope("Compute")
		if err != nil {
			return r.handleFrameError(fmt.Errorf("compute pass: %w", err), width, height)
		}
	}

	r.Profiler.BeginScope("Render")
	rPass := frame.BeginRenderPass(ClearColour)
	r.Strands.Render(rPass)
	err = rPass.End()
	r.Profiler.EndScope("Render")
	if err != nil {
		return r.handleFrameError(fmt.Errorf("render pass: %w", err), width, height)
	}

	r.Profiler.BeginScope("Submit")
	err = frame.Submit()
	if err == nil {
		frame.Present()
	}
	r.Profiler.EndScope("Submit")
	if err != nil {
		return r.handleFrameError(err, width, height)
	}

	r.frames++
	r.Profiler.AddCount("Frames", 1)
	r.logStats()
	return nil
}

func (r *Renderer) handleFrameError(err error, width, height int) error {
	err = ClassifySurfaceError(err)
	switch {
	case errors.Is(err, ErrDeviceLost):
		return err
	case errors.Is(err, ErrSurfaceLost), errors.Is(err, ErrSurfaceOutdated):
		r.Log.Warnf("%v, reconfiguring at %dx%d", err, width, height)
		if cerr := r.Target.Configure(width, height); cerr != nil {
			r.Log.Errorf("reconfigure failed: %v", cerr)
		}
	default:
		r.Log.Errorf("dropping frame: %v", err)
	}
	return nil
}

func (r *Renderer) logStats() {
	if r.StatsPeriod <= 0 || !r.Log.DebugEnabled() {
		return
	}
	now := r.now()
	if r.lastStats.IsZero() {
		r.lastStats = now
		r.frames = 0
		return
	}
	span := now.Sub(r.lastStats)
	if span < r.StatsPeriod {
		return
	}
	r.Log.Debugf("%.1f fps\n%s", float64(r.frames)/span.Seconds(), r.Profiler.GetStatsString())
	r.lastStats = now
	r.frames = 0
	r.Profiler.Reset()
}
