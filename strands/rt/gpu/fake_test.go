package gpu

import (
	"errors"
	"fmt"
	"testing"

	"github.com/cogentcore/webgpu/wgpu"
)

var errFake = errors.New("fake device failure")

// countReleases stubs out Release for the unbacked fake handles and counts
// the calls until the test ends.
func countReleases(t *testing.T) *int {
	n := new(int)
	prev := releaseObject
	releaseObject = func(releaser) { *n++ }
	t.Cleanup(func() { releaseObject = prev })
	return n
}

// fakeDevice records every descriptor and hands out unbacked handles.
type fakeDevice struct {
	failAfter int // 0 never fails
	calls     int

	buffers          []*wgpu.BufferDescriptor
	initBuffers      []*wgpu.BufferInitDescriptor
	modules          []*wgpu.ShaderModuleDescriptor
	bindGroupLayouts []*wgpu.BindGroupLayoutDescriptor
	pipelineLayouts  []*wgpu.PipelineLayoutDescriptor
	renderPipelines  []*wgpu.RenderPipelineDescriptor
	computePipelines []*wgpu.ComputePipelineDescriptor
	bindGroups       []*wgpu.BindGroupDescriptor

	labels map[*wgpu.Buffer]string
}

func newFakeDevice() *fakeDevice {
	return &fakeDevice{labels: make(map[*wgpu.Buffer]string)}
}

func (d *fakeDevice) step() error {
	d.calls++
	if d.failAfter > 0 && d.calls >= d.failAfter {
		return errFake
	}
	return nil
}

func (d *fakeDevice) CreateBuffer(desc *wgpu.BufferDescriptor) (*wgpu.Buffer, error) {
	if err := d.step(); err != nil {
		return nil, err
	}
	d.buffers = append(d.buffers, desc)
	b := &wgpu.Buffer{}
	d.labels[b] = desc.Label
	return b, nil
}

func (d *fakeDevice) CreateBufferInit(desc *wgpu.BufferInitDescriptor) (*wgpu.Buffer, error) {
	if err := d.step(); err != nil {
		return nil, err
	}
	d.initBuffers = append(d.initBuffers, desc)
	b := &wgpu.Buffer{}
	d.labels[b] = desc.Label
	return b, nil
}

func (d *fakeDevice) CreateShaderModule(desc *wgpu.ShaderModuleDescriptor) (*wgpu.ShaderModule, error) {
	if err := d.step(); err != nil {
		return nil, err
	}
	d.modules = append(d.modules, desc)
	return &wgpu.ShaderModule{}, nil
}

func (d *fakeDevice) CreateBindGroupLayout(desc *wgpu.BindGroupLayoutDescriptor) (*wgpu.BindGroupLayout, error) {
	if err := d.step(); err != nil {
		return nil, err
	}
	d.bindGroupLayouts = append(d.bindGroupLayouts, desc)
	return &wgpu.BindGroupLayout{}, nil
}

func (d *fakeDevice) CreatePipelineLayout(desc *wgpu.PipelineLayoutDescriptor) (*wgpu.PipelineLayout, error) {
	if err := d.step(); err != nil {
		return nil, err
	}
	d.pipelineLayouts = append(d.pipelineLayouts, desc)
	return &wgpu.PipelineLayout{}, nil
}

func (d *fakeDevice) CreateRenderPipeline(desc *wgpu.RenderPipelineDescriptor) (*wgpu.RenderPipeline, error) {
	if err := d.step(); err != nil {
		return nil, err
	}
	d.renderPipelines = append(d.renderPipelines, desc)
	return &wgpu.RenderPipeline{}, nil
}

func (d *fakeDevice) CreateComputePipeline(desc *wgpu.ComputePipelineDescriptor) (*wgpu.ComputePipeline, error) {
	if err := d.step(); err != nil {
		return nil, err
	}
	d.computePipelines = append(d.computePipelines, desc)
	return &wgpu.ComputePipeline{}, nil
}

func (d *fakeDevice) CreateBindGroup(desc *wgpu.BindGroupDescriptor) (*wgpu.BindGroup, error) {
	if err := d.step(); err != nil {
		return nil, err
	}
	d.bindGroups = append(d.bindGroups, desc)
	return &wgpu.BindGroup{}, nil
}

type write struct {
	buffer *wgpu.Buffer
	offset uint64
	size   int
}

type fakeQueue struct {
	writes []write
	err    error
}

func (q *fakeQueue) WriteBuffer(buffer *wgpu.Buffer, offset uint64, data []byte) error {
	q.writes = append(q.writes, write{buffer, offset, len(data)})
	return q.err
}

// fakePass implements both RenderPass and ComputePass by logging calls.
type fakePass struct {
	calls []string

	renderPipeline  *wgpu.RenderPipeline
	computePipeline *wgpu.ComputePipeline
	bindGroup       *wgpu.BindGroup
	vertexBuffer    *wgpu.Buffer
}

type computeFakePass struct{ *fakePass }

func (p *fakePass) SetPipeline(pipeline *wgpu.RenderPipeline) {
	p.renderPipeline = pipeline
	p.calls = append(p.calls, "SetPipeline")
}

func (p *fakePass) SetBindGroup(groupIndex uint32, group *wgpu.BindGroup, _ []uint32) {
	p.bindGroup = group
	p.calls = append(p.calls, fmt.Sprintf("SetBindGroup(%d)", groupIndex))
}

func (p *fakePass) SetVertexBuffer(slot uint32, buffer *wgpu.Buffer, offset, size uint64) {
	p.vertexBuffer = buffer
	p.calls = append(p.calls, fmt.Sprintf("SetVertexBuffer(%d, %d, %d)", slot, offset, size))
}

func (p *fakePass) Draw(vertexCount, instanceCount, firstVertex, firstInstance uint32) {
	p.calls = append(p.calls, fmt.Sprintf("Draw(%d, %d, %d, %d)", vertexCount, instanceCount, firstVertex, firstInstance))
}

func (p computeFakePass) SetPipeline(pipeline *wgpu.ComputePipeline) {
	p.computePipeline = pipeline
	p.calls = append(p.calls, "SetPipeline")
}

func (p computeFakePass) DispatchWorkgroups(x, y, z uint32) {
	p.calls = append(p.calls, fmt.Sprintf("DispatchWorkgroups(%d, %d, %d)", x, y, z))
}

var (
	_ Device      = (*fakeDevice)(nil)
	_ Queue       = (*fakeQueue)(nil)
	_ RenderPass  = (*fakePass)(nil)
	_ ComputePass = computeFakePass{}
)
