package gpu

import (
	"errors"
	"fmt"
	"strings"

	"github.com/canmom/noodles"
	"github.com/canmom/noodles/strands/rt/core"
	"github.com/canmom/noodles/strands/rt/shaders"
	"github.com/cogentcore/webgpu/wgpu"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/google/uuid"
)

// Variant selects where the tube instances are generated.
type Variant int

const (
	// Precompute generates the instances on the CPU once, at construction.
	Precompute Variant = iota
	// Recompute regenerates the instances with a compute dispatch every frame.
	Recompute
)

func (v Variant) String() string {
	switch v {
	case Precompute:
		return "precompute"
	case Recompute:
		return "recompute"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(s) {
	case "precompute", "":
		return Precompute, nil
	case "recompute":
		return Recompute, nil
	}
	return 0, fmt.Errorf("unknown variant %q", s)
}

const (
	// DepthFormat is the format of the depth attachment Render expects.
	DepthFormat = wgpu.TextureFormatDepth32Float
	// DepthClearValue is the far plane under reversed depth.
	DepthClearValue float32 = 0.0
)

// Options configures pipeline construction.
type Options struct {
	Topology    core.Topology
	Variant     Variant
	ColorFormat wgpu.TextureFormat
	Radius      float32
	Palette     core.Palette
	// Curve generates the precomputed instances. Nil means core.Sinusoid.
	Curve core.Curve
	// Noodle parameterises create_instances for the recompute variant.
	Noodle core.Noodle
}

// Pipelines owns every GPU object of one strand field: the cross-section,
// uniform and instance buffers, the render pipeline and, for the recompute
// variant, the compute pipeline writing the instance buffer.
type Pipelines struct {
	ID       uuid.UUID
	Topology core.Topology
	Variant  Variant

	VertexBuffer   *wgpu.Buffer
	UniformBuffer  *wgpu.Buffer
	InstanceBuffer *wgpu.Buffer

	RenderPipeline  *wgpu.RenderPipeline
	RenderBindGroup *wgpu.BindGroup

	ComputePipeline  *wgpu.ComputePipeline
	ComputeBindGroup *wgpu.BindGroup

	modules         []*wgpu.ShaderModule
	layouts         []*wgpu.BindGroupLayout
	pipelineLayouts []*wgpu.PipelineLayout

	vertexCount   uint32
	instanceCount uint32
	workgroups    [3]uint32
}

// New validates opts and creates the pipelines on device.
func New(device Device, opts Options, log noodles.Logger) (_ *Pipelines, err error) {
	if log == nil {
		log = noodles.NewNopLogger()
	}
	log = log.Named("gpu")
	t := opts.Topology
	if err := t.Validate(); err != nil {
		return nil, err
	}
	if opts.Variant != Precompute && opts.Variant != Recompute {
		return nil, fmt.Errorf("unknown variant %v", opts.Variant)
	}
	if opts.Radius <= 0 {
		return nil, fmt.Errorf("radius must be positive, got %v", opts.Radius)
	}

	p := &Pipelines{
		ID:            uuid.New(),
		Topology:      t,
		Variant:       opts.Variant,
		vertexCount:   t.CrossSectionVertices(),
		instanceCount: t.Instances(),
		workgroups:    t.Workgroups(),
	}
	defer func() {
		if err != nil {
			p.Release()
		}
	}()
	params := shaders.Params{
		Topology: t,
		Radius:   opts.Radius,
		Palette:  opts.Palette,
		Noodle:   opts.Noodle,
	}

	if err = p.createBuffers(device, opts); err != nil {
		return nil, err
	}
	if err = p.createRenderPipeline(device, opts.ColorFormat, params); err != nil {
		return nil, err
	}
	if p.Variant == Recompute {
		if err = p.createComputePipeline(device, params); err != nil {
			return nil, err
		}
	}

	log.Infof("strand pipelines %s: %s, %dx%d strands, %d segments, %d sides, %d instances (%d bytes)",
		p.ID, p.Variant, t.StrandGrid[0], t.StrandGrid[1], t.SegmentsPerStrand, t.Sides,
		p.instanceCount, t.InstanceBufferSize())
	return p, nil
}

func (p *Pipelines) label(name string) string {
	return "Strands-" + p.ID.String()[:8] + "-" + name
}

func (p *Pipelines) createBuffers(device Device, opts Options) error {
	t := p.Topology
	ring, err := core.BuildCrossSection(t.Sides)
	if err != nil {
		return err
	}
	p.VertexBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
		Label:    p.label("CrossSection"),
		Contents: wgpu.ToBytes(ring),
		Usage:    wgpu.BufferUsageVertex,
	})
	if err != nil {
		return fmt.Errorf("cross-section buffer: %w", err)
	}

	p.UniformBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
		Label: p.label("Uniforms"),
		Size:  core.UniformsSize,
		Usage: wgpu.BufferUsageUniform | wgpu.BufferUsageCopyDst,
	})
	if err != nil {
		return fmt.Errorf("uniform buffer: %w", err)
	}

	switch p.Variant {
	case Precompute:
		curve := opts.Curve
		if curve == nil {
			curve = core.Sinusoid{Segments: t.SegmentsPerStrand}
		}
		instances := core.GenerateInstances(t, curve, opts.Palette, opts.Radius, 0)
		contents := wgpu.ToBytes(instances)
		if uint64(len(contents)) != t.InstanceBufferSize() {
			return fmt.Errorf("%w: generated %d bytes of instances, want %d",
				core.ErrInvalidTopology, len(contents), t.InstanceBufferSize())
		}
		p.InstanceBuffer, err = device.CreateBufferInit(&wgpu.BufferInitDescriptor{
			Label:    p.label("Instances"),
			Contents: contents,
			Usage:    wgpu.BufferUsageStorage,
		})
	case Recompute:
		p.InstanceBuffer, err = device.CreateBuffer(&wgpu.BufferDescriptor{
			Label: p.label("Instances"),
			Size:  t.InstanceBufferSize(),
			Usage: wgpu.BufferUsageStorage,
		})
	}
	if err != nil {
		return fmt.Errorf("instance buffer: %w", err)
	}
	return nil
}

func (p *Pipelines) createModule(device Device, name, code string) (*wgpu.ShaderModule, error) {
	module, err := device.CreateShaderModule(&wgpu.ShaderModuleDescriptor{
		Label:          p.label(name),
		WGSLDescriptor: &wgpu.ShaderModuleWGSLDescriptor{Code: code},
	})
	if err != nil {
		return nil, fmt.Errorf("%s shader: %w", name, err)
	}
	p.modules = append(p.modules, module)
	return module, nil
}

// bindGroup creates a uniform + instance storage layout, the matching
// pipeline layout and bind group.
func (p *Pipelines) bindGroup(device Device, name string, uniformVisibility, storageVisibility wgpu.ShaderStage, storage wgpu.BufferBindingType) (*wgpu.PipelineLayout, *wgpu.BindGroup, error) {
	bgl, err := device.CreateBindGroupLayout(&wgpu.BindGroupLayoutDescriptor{
		Label: p.label(name + "BGL"),
		Entries: []wgpu.BindGroupLayoutEntry{
			{
				Binding:    0,
				Visibility: uniformVisibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:           wgpu.BufferBindingTypeUniform,
					MinBindingSize: core.UniformsSize,
				},
			},
			{
				Binding:    1,
				Visibility: storageVisibility,
				Buffer: wgpu.BufferBindingLayout{
					Type:           storage,
					MinBindingSize: uint64(core.TubeInstanceStride),
				},
			},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s bind group layout: %w", name, err)
	}
	p.layouts = append(p.layouts, bgl)

	layout, err := device.CreatePipelineLayout(&wgpu.PipelineLayoutDescriptor{
		Label:            p.label(name + "Layout"),
		BindGroupLayouts: []*wgpu.BindGroupLayout{bgl},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s pipeline layout: %w", name, err)
	}
	p.pipelineLayouts = append(p.pipelineLayouts, layout)

	bg, err := device.CreateBindGroup(&wgpu.BindGroupDescriptor{
		Label:  p.label(name + "BG"),
		Layout: bgl,
		Entries: []wgpu.BindGroupEntry{
			{Binding: 0, Buffer: p.UniformBuffer, Size: wgpu.WholeSize},
			{Binding: 1, Buffer: p.InstanceBuffer, Size: wgpu.WholeSize},
		},
	})
	if err != nil {
		return nil, nil, fmt.Errorf("%s bind group: %w", name, err)
	}
	return layout, bg, nil
}

func (p *Pipelines) createRenderPipeline(device Device, format wgpu.TextureFormat, params shaders.Params) error {
	module, err := p.createModule(device, "TubeShader", shaders.TubeSource(params))
	if err != nil {
		return err
	}
	layout, bg, err := p.bindGroup(device, "Render",
		wgpu.ShaderStageVertex|wgpu.ShaderStageFragment, wgpu.ShaderStageVertex,
		wgpu.BufferBindingTypeReadOnlyStorage)
	if err != nil {
		return err
	}
	p.RenderBindGroup = bg

	p.RenderPipeline, err = device.CreateRenderPipeline(&wgpu.RenderPipelineDescriptor{
		Label:  p.label("TubePipeline"),
		Layout: layout,
		Vertex: wgpu.VertexState{
			Module:     module,
			EntryPoint: shaders.VertexEntry,
			Buffers: []wgpu.VertexBufferLayout{
				{
					ArrayStride: core.VertexStride,
					StepMode:    wgpu.VertexStepModeVertex,
					Attributes: []wgpu.VertexAttribute{
						{Format: wgpu.VertexFormatFloat32x3, Offset: 0, ShaderLocation: 0},
						{Format: wgpu.VertexFormatFloat32x3, Offset: 12, ShaderLocation: 1},
					},
				},
			},
		},
		Fragment: &wgpu.FragmentState{
			Module:     module,
			EntryPoint: shaders.FragmentEntry,
			Targets: []wgpu.ColorTargetState{
				{
					Format:    format,
					WriteMask: wgpu.ColorWriteMaskAll,
				},
			},
		},
		Primitive: wgpu.PrimitiveState{
			Topology:  wgpu.PrimitiveTopologyTriangleStrip,
			FrontFace: wgpu.FrontFaceCCW,
			CullMode:  wgpu.CullModeBack,
		},
		DepthStencil: &wgpu.DepthStencilState{
			Format:            DepthFormat,
			DepthWriteEnabled: true,
			DepthCompare:      wgpu.CompareFunctionGreater,
			StencilFront: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
			StencilBack: wgpu.StencilFaceState{
				Compare: wgpu.CompareFunctionAlways,
			},
		},
		Multisample: wgpu.MultisampleState{
			Count: 1,
			Mask:  0xFFFFFFFF,
		},
	})
	if err != nil {
		return fmt.Errorf("render pipeline: %w", err)
	}
	return nil
}

func (p *Pipelines) createComputePipeline(device Device, params shaders.Params) error {
	module, err := p.createModule(device, "InstancesShader", shaders.InstancesSource(params))
	if err != nil {
		return err
	}
	layout, bg, err := p.bindGroup(device, "Compute",
		wgpu.ShaderStageCompute, wgpu.ShaderStageCompute,
		wgpu.BufferBindingTypeStorage)
	if err != nil {
		return err
	}
	p.ComputeBindGroup = bg

	p.ComputePipeline, err = device.CreateComputePipeline(&wgpu.ComputePipelineDescriptor{
		Label:  p.label("InstancesPipeline"),
		Layout: layout,
		Compute: wgpu.ProgrammableStageDescriptor{
			Module:     module,
			EntryPoint: shaders.ComputeEntry,
		},
	})
	if err != nil {
		return fmt.Errorf("compute pipeline: %w", err)
	}
	return nil
}

// Animated reports whether ComputeInstances records any work.
func (p *Pipelines) Animated() bool {
	return p.ComputePipeline != nil
}

// Workgroups is the dispatch grid of ComputeInstances.
func (p *Pipelines) Workgroups() [3]uint32 {
	return p.workgroups
}

// UpdateUniforms uploads the camera, light and time block in one write.
func (p *Pipelines) UpdateUniforms(queue Queue, cameraPosition, cameraTarget mgl32.Vec3, aspect, time float32) error {
	if aspect <= 0 {
		return errors.New("aspect ratio must be positive")
	}
	u := core.NewUniforms(cameraPosition, cameraTarget, aspect, time)
	if err := queue.WriteBuffer(p.UniformBuffer, 0, u.Bytes()); err != nil {
		return fmt.Errorf("uniform upload: %w", err)
	}
	return nil
}

// ComputeInstances records the instance generation dispatch. It records
// nothing for the precompute variant. Encode it on the same command encoder
// as, and before, the render pass that reads the instances.
func (p *Pipelines) ComputeInstances(pass ComputePass) {
	if p.ComputePipeline == nil {
		return
	}
	pass.SetPipeline(p.ComputePipeline)
	pass.SetBindGroup(0, p.ComputeBindGroup, nil)
	pass.DispatchWorkgroups(p.workgroups[0], p.workgroups[1], p.workgroups[2])
}

// Render records one instanced draw of every tube segment.
func (p *Pipelines) Render(pass RenderPass) {
	pass.SetPipeline(p.RenderPipeline)
	pass.SetBindGroup(0, p.RenderBindGroup, nil)
	pass.SetVertexBuffer(0, p.VertexBuffer, 0, wgpu.WholeSize)
	pass.Draw(p.vertexCount, p.instanceCount, 0, 0)
}

// releaser is any wgpu object owned by Pipelines.
type releaser interface{ Release() }

// releaseObject is swapped out by tests, whose fake handles are unbacked.
var releaseObject = func(r releaser) { r.Release() }

// Release frees every GPU object created so far. The Pipelines must not be
// used afterwards.
func (p *Pipelines) Release() {
	var objects []releaser
	if p.ComputePipeline != nil {
		objects = append(objects, p.ComputePipeline)
	}
	if p.ComputeBindGroup != nil {
		objects = append(objects, p.ComputeBindGroup)
	}
	if p.RenderPipeline != nil {
		objects = append(objects, p.RenderPipeline)
	}
	if p.RenderBindGroup != nil {
		objects = append(objects, p.RenderBindGroup)
	}
	for _, l := range p.pipelineLayouts {
		objects = append(objects, l)
	}
	for _, l := range p.layouts {
		objects = append(objects, l)
	}
	for _, m := range p.modules {
		objects = append(objects, m)
	}
	for _, b := range []*wgpu.Buffer{p.InstanceBuffer, p.UniformBuffer, p.VertexBuffer} {
		if b != nil {
			objects = append(objects, b)
		}
	}
	for _, o := range objects {
		releaseObject(o)
	}
	p.modules, p.layouts, p.pipelineLayouts = nil, nil, nil
}
