package app

import (
	"errors"
	"fmt"
	"strings"

	"github.com/canmom/noodles/strands/rt/gpu"
	"github.com/cogentcore/webgpu/wgpu"
)

var (
	ErrSurfaceLost       = errors.New("surface lost")
	ErrSurfaceOutdated   = errors.New("surface outdated")
	ErrSurfaceTimeout    = errors.New("surface timeout")
	ErrDeviceLost        = errors.New("device lost")
	ErrUnsupportedFormat = errors.New("no sRGB surface format")
)

// Target is a presentable surface plus the device queue feeding it.
type Target interface {
	// Size is the current drawable size in pixels, zero while minimised.
	Size() (width, height int)
	Configured() bool
	// ConfiguredSize is the size of the last successful Configure.
	ConfiguredSize() (width, height int)
	// Configure (re)creates the swapchain and depth attachment at the size.
	Configure(width, height int) error
	Queue() gpu.Queue
	// BeginFrame acquires the next surface texture and opens one command
	// encoder for it. Acquisition errors wrap the sentinels above.
	BeginFrame() (Frame, error)
}

// Frame records the passes of one frame on a single command encoder.
type Frame interface {
	BeginComputePass() ComputePassEncoder
	BeginRenderPass(clear wgpu.Color) RenderPassEncoder
	// Submit finishes the encoder and submits it to the queue.
	Submit() error
	Present()
	Release()
}

type RenderPassEncoder interface {
	gpu.RenderPass
	End() error
}

type ComputePassEncoder interface {
	gpu.ComputePass
	End() error
}

var (
	_ RenderPassEncoder  = (*wgpu.RenderPassEncoder)(nil)
	_ ComputePassEncoder = (*wgpu.ComputePassEncoder)(nil)
)

var sentinels = []error{ErrSurfaceLost, ErrSurfaceOutdated, ErrSurfaceTimeout, ErrDeviceLost}

// ClassifySurfaceError maps a frame failure onto the sentinel errors. The
// bindings only report validation and device errors as message text, so
// errors already wrapping a sentinel pass through unchanged.
func ClassifySurfaceError(err error) error {
	if err == nil {
		return nil
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return err
		}
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "device") && strings.Contains(msg, "lost"):
		return fmt.Errorf("%w: %v", ErrDeviceLost, err)
	case strings.Contains(msg, "outdated"):
		return fmt.Errorf("%w: %v", ErrSurfaceOutdated, err)
	case strings.Contains(msg, "lost"):
		return fmt.Errorf("%w: %v", ErrSurfaceLost, err)
	case strings.Contains(msg, "timeout"):
		return fmt.Errorf("%w: %v", ErrSurfaceTimeout, err)
	}
	return err
}
