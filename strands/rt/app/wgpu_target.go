package app

import (
	"fmt"

	"github.com/canmom/noodles/strands/rt/gpu"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/cogentcore/webgpu/wgpuglfw"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowTarget presents to a GLFW window through a wgpu surface.
type WindowTarget struct {
	Window   *glfw.Window
	Instance *wgpu.Instance
	Adapter  *wgpu.Adapter
	Device   *wgpu.Device
	Surface  *wgpu.Surface
	Config   *wgpu.SurfaceConfiguration

	queue      *wgpu.Queue
	depth      *wgpu.Texture
	depthView  *wgpu.TextureView
	configured bool
}

// NewWindowTarget creates the instance, surface, adapter and device for
// window and configures the surface with an sRGB format.
func NewWindowTarget(window *glfw.Window) (*WindowTarget, error) {
	t := &WindowTarget{Window: window}
	t.Instance = wgpu.CreateInstance(nil)
	t.Surface = t.Instance.CreateSurface(wgpuglfw.GetSurfaceDescriptor(window))

	var err error
	t.Adapter, err = t.Instance.RequestAdapter(&wgpu.RequestAdapterOptions{
		CompatibleSurface: t.Surface,
		PowerPreference:   wgpu.PowerPreferenceHighPerformance,
	})
	if err != nil {
		return nil, fmt.Errorf("request adapter: %w", err)
	}
	t.Device, err = t.Adapter.RequestDevice(nil)
	if err != nil {
		return nil, fmt.Errorf("request device: %w", err)
	}
	t.queue = t.Device.GetQueue()

	caps := t.Surface.GetCapabilities(t.Adapter)
	format, err := SelectSurfaceFormat(caps.Formats)
	if err != nil {
		return nil, err
	}
	alpha := wgpu.CompositeAlphaModeAuto
	if len(caps.AlphaModes) > 0 {
		alpha = caps.AlphaModes[0]
	}
	t.Config = &wgpu.SurfaceConfiguration{
		Usage:       wgpu.TextureUsageRenderAttachment,
		Format:      format,
		PresentMode: wgpu.PresentModeFifo,
		AlphaMode:   alpha,
	}

	if err := t.Configure(t.Size()); err != nil {
		return nil, err
	}
	return t, nil
}

func (t *WindowTarget) Format() wgpu.TextureFormat {
	return t.Config.Format
}

func (t *WindowTarget) Size() (int, int) {
	return t.Window.GetFramebufferSize()
}

func (t *WindowTarget) Configured() bool {
	return t.configured
}

func (t *WindowTarget) ConfiguredSize() (int, int) {
	if !t.configured {
		return 0, 0
	}
	return int(t.Config.Width), int(t.Config.Height)
}

func (t *WindowTarget) Queue() gpu.Queue {
	return t.queue
}

func (t *WindowTarget) Configure(width, height int) error {
	if width <= 0 || height <= 0 {
		return nil
	}
	t.Config.Width = uint32(width)
	t.Config.Height = uint32(height)
	t.Surface.Configure(t.Adapter, t.Device, t.Config)

	if t.depthView != nil {
		t.depthView.Release()
	}
	if t.depth != nil {
		t.depth.Release()
	}
	var err error
	t.depth, err = t.Device.CreateTexture(&wgpu.TextureDescriptor{
		Label:         "Strands Depth",
		Size:          wgpu.Extent3D{Width: uint32(width), Height: uint32(height), DepthOrArrayLayers: 1},
		MipLevelCount: 1,
		SampleCount:   1,
		Dimension:     wgpu.TextureDimension2D,
		Format:        gpu.DepthFormat,
		Usage:         wgpu.TextureUsageRenderAttachment,
	})
	if err != nil {
		t.configured = false
		return fmt.Errorf("depth texture: %w", err)
	}
	t.depthView, err = t.depth.CreateView(nil)
	if err != nil {
		t.configured = false
		return fmt.Errorf("depth view: %w", err)
	}
	t.configured = true
	return nil
}

// BeginFrame acquires the next surface texture. The binding drops the
// acquisition status, so an outdated surface only shows up here as a
// validation error; RenderFrame checks the size before calling this.
func (t *WindowTarget) BeginFrame() (Frame, error) {
	texture, err := t.Surface.GetCurrentTexture()
	if err != nil {
		return nil, ClassifySurfaceError(err)
	}
	view, err := texture.CreateView(nil)
	if err != nil {
		texture.Release()
		return nil, fmt.Errorf("surface view: %w", err)
	}
	encoder, err := t.Device.CreateCommandEncoder(nil)
	if err != nil {
		view.Release()
		texture.Release()
		return nil, fmt.Errorf("command encoder: %w", err)
	}
	return &windowFrame{target: t, texture: texture, view: view, encoder: encoder}, nil
}

// Release frees the depth attachment, surface and device.
func (t *WindowTarget) Release() {
	if t.depthView != nil {
		t.depthView.Release()
	}
	if t.depth != nil {
		t.depth.Release()
	}
	t.queue.Release()
	t.Device.Release()
	t.Adapter.Release()
	t.Surface.Release()
	t.Instance.Release()
}

type windowFrame struct {
	target  *WindowTarget
	texture *wgpu.Texture
	view    *wgpu.TextureView
	encoder *wgpu.CommandEncoder
}

func (f *windowFrame) BeginComputePass() ComputePassEncoder {
	return f.encoder.BeginComputePass(nil)
}

func (f *windowFrame) BeginRenderPass(clear wgpu.Color) RenderPassEncoder {
	return f.encoder.BeginRenderPass(&wgpu.RenderPassDescriptor{
		ColorAttachments: []wgpu.RenderPassColorAttachment{{
			View:       f.view,
			LoadOp:     wgpu.LoadOpClear,
			StoreOp:    wgpu.StoreOpStore,
			ClearValue: clear,
		}},
		DepthStencilAttachment: &wgpu.RenderPassDepthStencilAttachment{
			View:            f.target.depthView,
			DepthLoadOp:     wgpu.LoadOpClear,
			DepthStoreOp:    wgpu.StoreOpStore,
			DepthClearValue: gpu.DepthClearValue,
		},
	})
}

func (f *windowFrame) Submit() error {
	cmd, err := f.encoder.Finish(nil)
	if err != nil {
		return fmt.Errorf("encoder finish: %w", err)
	}
	defer cmd.Release()
	f.target.queue.Submit(cmd)
	return nil
}

func (f *windowFrame) Present() {
	f.target.Surface.Present()
}

func (f *windowFrame) Release() {
	f.encoder.Release()
	f.view.Release()
	f.texture.Release()
}
